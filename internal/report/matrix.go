// Package report writes a spreadsheet view of the generated artifacts: one
// row per (schema, field), one column per version, so reviewers can see at a
// glance when each field appeared, changed type, or disappeared.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/verge/internal/domain"
)

const (
	fieldsSheet = "Fields"
	routesSheet = "Routes"
)

// WriteMatrix renders the version matrix workbook to path.
func WriteMatrix(
	path string,
	chain *domain.VersionChain,
	schemasByVersion map[domain.VersionKey][]domain.SchemaDefinition,
	routesByVersion map[domain.VersionKey][]domain.Endpoint,
) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeFieldMatrix(f, chain, schemasByVersion); err != nil {
		return err
	}
	if err := writeRouteMatrix(f, chain, routesByVersion); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

func writeFieldMatrix(f *excelize.File, chain *domain.VersionChain, schemasByVersion map[domain.VersionKey][]domain.SchemaDefinition) error {
	if _, err := f.NewSheet(fieldsSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", fieldsSheet, err)
	}

	versions := chain.Versions()
	if err := setCell(f, fieldsSheet, 1, 1, "schema.field"); err != nil {
		return err
	}
	for col, version := range versions {
		if err := setCell(f, fieldsSheet, 1, col+2, string(version.Key)); err != nil {
			return err
		}
	}

	for row, key := range fieldRowKeys(schemasByVersion) {
		if err := setCell(f, fieldsSheet, row+2, 1, key); err != nil {
			return err
		}
		for col, version := range versions {
			value := fieldCell(key, schemasByVersion[version.Key])
			if err := setCell(f, fieldsSheet, row+2, col+2, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRouteMatrix(f *excelize.File, chain *domain.VersionChain, routesByVersion map[domain.VersionKey][]domain.Endpoint) error {
	if _, err := f.NewSheet(routesSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", routesSheet, err)
	}

	versions := chain.Versions()
	if err := setCell(f, routesSheet, 1, 1, "endpoint"); err != nil {
		return err
	}
	for col, version := range versions {
		if err := setCell(f, routesSheet, 1, col+2, string(version.Key)); err != nil {
			return err
		}
	}

	for row, key := range routeRowKeys(routesByVersion) {
		if err := setCell(f, routesSheet, row+2, 1, key.String()); err != nil {
			return err
		}
		for col, version := range versions {
			value := routeCell(key, routesByVersion[version.Key])
			if err := setCell(f, routesSheet, row+2, col+2, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// fieldRowKeys collects every schema.field pair that exists at any version,
// sorted for stable output.
func fieldRowKeys(schemasByVersion map[domain.VersionKey][]domain.SchemaDefinition) []string {
	seen := make(map[string]struct{})
	for _, schemas := range schemasByVersion {
		for _, schema := range schemas {
			for _, field := range schema.Fields {
				seen[schema.Name+"."+field.Name] = struct{}{}
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func routeRowKeys(routesByVersion map[domain.VersionKey][]domain.Endpoint) []domain.RouteKey {
	seen := make(map[domain.RouteKey]struct{})
	for _, endpoints := range routesByVersion {
		for _, endpoint := range endpoints {
			seen[endpoint.Key()] = struct{}{}
		}
	}
	keys := make([]domain.RouteKey, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}
		return keys[i].Method < keys[j].Method
	})
	return keys
}

func fieldCell(rowKey string, schemas []domain.SchemaDefinition) string {
	parts := strings.SplitN(rowKey, ".", 2)
	for _, schema := range schemas {
		if schema.Name != parts[0] {
			continue
		}
		field, ok := schema.FieldByName(parts[1])
		if !ok {
			return ""
		}
		cell := string(field.Type)
		if field.Required {
			cell += " required"
		}
		if field.Default.Set {
			cell += fmt.Sprintf(" default=%v", field.Default.Value)
		}
		return cell
	}
	return ""
}

func routeCell(key domain.RouteKey, endpoints []domain.Endpoint) string {
	for _, endpoint := range endpoints {
		if endpoint.Key() != key {
			continue
		}
		cell := "exposed"
		if endpoint.SuccessStatus != 0 {
			cell = fmt.Sprintf("%d", endpoint.SuccessStatus)
		}
		if endpoint.ResponseSchema != "" {
			cell += " " + endpoint.ResponseSchema
		}
		if endpoint.Deprecated {
			cell += " deprecated"
		}
		return cell
	}
	return ""
}

func setCell(f *excelize.File, sheet string, row, col int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell coordinates (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}
