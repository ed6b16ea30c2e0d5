package codegen

import (
	"fmt"
	"go/format"
	"strconv"
	"strings"

	"github.com/rpattn/verge/internal/domain"
)

const generatedHeader = "// Code generated by verge. DO NOT EDIT.\n"

var fieldTypeConstants = map[domain.FieldType]string{
	domain.FieldTypeString:    "domain.FieldTypeString",
	domain.FieldTypeInteger:   "domain.FieldTypeInteger",
	domain.FieldTypeFloat:     "domain.FieldTypeFloat",
	domain.FieldTypeBoolean:   "domain.FieldTypeBoolean",
	domain.FieldTypeTimestamp: "domain.FieldTypeTimestamp",
	domain.FieldTypeJSON:      "domain.FieldTypeJSON",
	domain.FieldTypeArray:     "domain.FieldTypeArray",
}

// PackageName maps a version key to the name of its generated package.
func PackageName(key domain.VersionKey) string {
	if key.IsHead() {
		return "head"
	}
	return "v" + strings.ReplaceAll(string(key), "-", "_")
}

// RenderVersionSource renders one version's schema definitions and route
// table as a formatted Go source file. Output is fully determined by the
// inputs; field and endpoint order is the order produced by the generators.
func RenderVersionSource(key domain.VersionKey, schemas []domain.SchemaDefinition, routes []domain.Endpoint) ([]byte, error) {
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("\n")
	fmt.Fprintf(&b, "// Package %s holds the API shape as it existed at version %s.\n", PackageName(key), key)
	fmt.Fprintf(&b, "package %s\n\n", PackageName(key))
	b.WriteString("import \"github.com/rpattn/verge/internal/domain\"\n\n")

	fmt.Fprintf(&b, "// Version identifies this snapshot in the chain.\nconst Version = domain.VersionKey(%q)\n\n", key)

	b.WriteString("// Schemas lists every schema definition exposed at this version.\n")
	b.WriteString("var Schemas = map[string]domain.SchemaDefinition{\n")
	for _, schema := range schemas {
		fmt.Fprintf(&b, "\t%q: {\n", schema.Name)
		fmt.Fprintf(&b, "\t\tName: %q,\n", schema.Name)
		if schema.Description != "" {
			fmt.Fprintf(&b, "\t\tDescription: %q,\n", schema.Description)
		}
		b.WriteString("\t\tFields: []domain.FieldDefinition{\n")
		for _, field := range schema.Fields {
			renderField(&b, field)
		}
		b.WriteString("\t\t},\n")
		b.WriteString("\t},\n")
	}
	b.WriteString("}\n\n")

	b.WriteString("// Routes lists every endpoint exposed at this version.\n")
	b.WriteString("var Routes = []domain.Endpoint{\n")
	for _, endpoint := range routes {
		renderEndpoint(&b, endpoint)
	}
	b.WriteString("}\n")

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, &domain.CodegenError{
			Version: key,
			Reason:  "rendered artifact is not valid Go source",
			Err:     err,
		}
	}
	return formatted, nil
}

func renderField(b *strings.Builder, field domain.FieldDefinition) {
	b.WriteString("\t\t\t{\n")
	fmt.Fprintf(b, "\t\t\t\tName: %q,\n", field.Name)
	fmt.Fprintf(b, "\t\t\t\tType: %s,\n", fieldTypeExpr(field.Type))
	if field.Required {
		b.WriteString("\t\t\t\tRequired: true,\n")
	}
	if field.Description != "" {
		fmt.Fprintf(b, "\t\t\t\tDescription: %q,\n", field.Description)
	}
	if field.Default.Set {
		fmt.Fprintf(b, "\t\t\t\tDefault: domain.DefaultValue(%s),\n", renderValue(field.Default.Value))
	}
	b.WriteString("\t\t\t},\n")
}

func renderEndpoint(b *strings.Builder, endpoint domain.Endpoint) {
	b.WriteString("\t{\n")
	fmt.Fprintf(b, "\t\tMethod: %q,\n", endpoint.Method)
	fmt.Fprintf(b, "\t\tPath: %q,\n", endpoint.Path)
	if endpoint.Description != "" {
		fmt.Fprintf(b, "\t\tDescription: %q,\n", endpoint.Description)
	}
	if endpoint.SuccessStatus != 0 {
		fmt.Fprintf(b, "\t\tSuccessStatus: %d,\n", endpoint.SuccessStatus)
	}
	if endpoint.RequestSchema != "" {
		fmt.Fprintf(b, "\t\tRequestSchema: %q,\n", endpoint.RequestSchema)
	}
	if endpoint.ResponseSchema != "" {
		fmt.Fprintf(b, "\t\tResponseSchema: %q,\n", endpoint.ResponseSchema)
	}
	if endpoint.Deprecated {
		b.WriteString("\t\tDeprecated: true,\n")
	}
	b.WriteString("\t},\n")
}

func fieldTypeExpr(fieldType domain.FieldType) string {
	if constant, ok := fieldTypeConstants[fieldType]; ok {
		return constant
	}
	return fmt.Sprintf("domain.FieldType(%q)", fieldType)
}

// renderValue renders a default value literal. Defaults come from static
// declarations, so only JSON-compatible scalars are expected; anything else
// falls back to the Go syntax representation.
func renderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%#v", value)
	}
}
