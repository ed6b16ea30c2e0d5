package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FieldType represents the type of a field in a schema definition.
type FieldType string

const (
	FieldTypeString    FieldType = "string"
	FieldTypeInteger   FieldType = "integer"
	FieldTypeFloat     FieldType = "float"
	FieldTypeBoolean   FieldType = "boolean"
	FieldTypeTimestamp FieldType = "timestamp"
	FieldTypeJSON      FieldType = "json"
	FieldTypeArray     FieldType = "array"
)

// FieldDefault distinguishes an explicitly declared default (including null)
// from an absent one.
type FieldDefault struct {
	Set   bool `json:"set"`
	Value any  `json:"value,omitempty"`
}

// DefaultValue declares an explicit default, null included.
func DefaultValue(value any) FieldDefault {
	return FieldDefault{Set: true, Value: value}
}

// FieldDefinition represents a single field in a schema definition.
type FieldDefinition struct {
	Name        string       `json:"name"`
	Type        FieldType    `json:"type"`
	Required    bool         `json:"required"`
	Description string       `json:"description,omitempty"`
	Default     FieldDefault `json:"default,omitempty"`
	// Factory produces a value for payloads predating the field. It must be
	// deterministic; it is consulted only when no Default is declared.
	Factory func() any `json:"-"`
}

// HasFillValue reports whether a value can be produced for a payload that
// never carried this field.
func (f FieldDefinition) HasFillValue() bool {
	return f.Default.Set || f.Factory != nil
}

// FillValue returns the declared default, or the factory result when only a
// factory is declared.
func (f FieldDefinition) FillValue() any {
	if f.Default.Set {
		return f.Default.Value
	}
	if f.Factory != nil {
		return f.Factory()
	}
	return nil
}

// SchemaDefinition is the shape of one named schema at one version. The head
// definitions are authored by hand; every other version's definitions are
// derived from them.
type SchemaDefinition struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Fields      []FieldDefinition `json:"fields"`
}

// NewSchemaDefinition creates a schema definition with a defensive copy of
// the provided fields.
func NewSchemaDefinition(name, description string, fields []FieldDefinition) SchemaDefinition {
	return SchemaDefinition{
		Name:        name,
		Description: description,
		Fields:      copyFieldDefs(fields),
	}
}

// FieldByName returns the named field and whether it exists.
func (s SchemaDefinition) FieldByName(name string) (FieldDefinition, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// WithField returns a new definition with the field added, or replaced when a
// field of the same name already exists. Declaration order is preserved.
func (s SchemaDefinition) WithField(field FieldDefinition) SchemaDefinition {
	fields := copyFieldDefs(s.Fields)
	found := false
	for i, existing := range fields {
		if existing.Name == field.Name {
			fields[i] = field
			found = true
			break
		}
	}
	if !found {
		fields = append(fields, field)
	}
	return SchemaDefinition{Name: s.Name, Description: s.Description, Fields: fields}
}

// WithoutField returns a new definition without the named field.
func (s SchemaDefinition) WithoutField(name string) SchemaDefinition {
	fields := make([]FieldDefinition, 0, len(s.Fields))
	for _, field := range s.Fields {
		if field.Name != name {
			fields = append(fields, field)
		}
	}
	return SchemaDefinition{Name: s.Name, Description: s.Description, Fields: fields}
}

// WithFieldRenamed returns a new definition with the field renamed in place,
// keeping its position.
func (s SchemaDefinition) WithFieldRenamed(from, to string) (SchemaDefinition, error) {
	fields := copyFieldDefs(s.Fields)
	for i, field := range fields {
		if field.Name == from {
			fields[i].Name = to
			return SchemaDefinition{Name: s.Name, Description: s.Description, Fields: fields}, nil
		}
	}
	return SchemaDefinition{}, fmt.Errorf("schema %s has no field %s", s.Name, from)
}

// MarshalFields returns the field list as JSON for artifact embedding.
func (s SchemaDefinition) MarshalFields() (json.RawMessage, error) {
	return json.Marshal(s.Fields)
}

// SortSchemaDefinitions orders definitions by name so derived artifacts are
// stable across runs.
func SortSchemaDefinitions(schemas []SchemaDefinition) {
	sort.Slice(schemas, func(i, j int) bool {
		return schemas[i].Name < schemas[j].Name
	})
}

func copyFieldDefs(fields []FieldDefinition) []FieldDefinition {
	if fields == nil {
		return nil
	}
	cloned := make([]FieldDefinition, len(fields))
	copy(cloned, fields)
	return cloned
}
