// Package bundles holds the static bundle declarations this module ships
// with. Importing it registers every bundle.
package bundles

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpattn/verge/internal/domain"
	"github.com/rpattn/verge/internal/registry"
)

// The users bundle is the built-in demonstration surface: a small user API
// with one historical version behind head, exercising field instructions,
// route instructions, and a side-effect pair.
func init() {
	registry.MustRegister(registry.Bundle{
		Name:    "users",
		Chain:   usersChain(),
		Schemas: usersHeadSchemas(),
		Routes:  usersHeadRoutes(),
	})
}

func usersHeadSchemas() []domain.SchemaDefinition {
	return []domain.SchemaDefinition{
		domain.NewSchemaDefinition("user", "A registered account.", []domain.FieldDefinition{
			{Name: "id", Type: domain.FieldTypeString, Required: true},
			{Name: "name", Type: domain.FieldTypeString, Required: true},
			{Name: "address", Type: domain.FieldTypeString},
			{Name: "nickname", Type: domain.FieldTypeString, Default: domain.DefaultValue(nil)},
			{Name: "score", Type: domain.FieldTypeFloat, Default: domain.DefaultValue(float64(0))},
			{Name: "created_at", Type: domain.FieldTypeTimestamp, Required: true},
		}),
	}
}

func usersHeadRoutes() []domain.Endpoint {
	return []domain.Endpoint{
		{Method: "GET", Path: "/users", SuccessStatus: 200, ResponseSchema: "user"},
		{Method: "POST", Path: "/users", SuccessStatus: 201, RequestSchema: "user", ResponseSchema: "user"},
		{Method: "GET", Path: "/users/{id}", SuccessStatus: 200, ResponseSchema: "user"},
	}
}

func usersChain() *domain.VersionChain {
	revamp := domain.NewVersionChange(
		"user profile revamp",
		"Renames addr to address, adds nicknames, switches score to float, and drops user deletion.",
	).WithSchemaInstructions(
		domain.RenameField("user", "addr", "address"),
		domain.AddField("user", domain.FieldDefinition{
			Name:    "nickname",
			Type:    domain.FieldTypeString,
			Default: domain.DefaultValue(nil),
		}),
		domain.ChangeFieldType("user", "score", domain.ChangeTypeArgs{
			From:     domain.FieldTypeInteger,
			To:       domain.FieldTypeFloat,
			Forward:  scoreToFloat,
			Backward: scoreToInteger,
		}),
	).WithRouteInstructions(
		domain.RemoveEndpoint(domain.Endpoint{
			Method:         "DELETE",
			Path:           "/users/{id}",
			SuccessStatus:  204,
			Description:    "Delete a user.",
			ResponseSchema: "",
		}),
	).WithSideEffects(nameToDisplayOrder, nameToSortOrder, "user")

	return domain.NewVersionChain(
		domain.MustVersion("2021-01-01"),
		domain.MustVersion("2022-01-01", revamp),
		domain.HeadVersion(),
	)
}

func scoreToFloat(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return nil, fmt.Errorf("score expects an integer, got %T", value)
	}
}

func scoreToInteger(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("score %v has no integer representation", v)
		}
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return nil, fmt.Errorf("score expects a number, got %T", value)
	}
}

// Clients on 2021-01-01 send names as "Last, First"; newer versions use
// display order. The pair is exact for names without extra commas.
func nameToDisplayOrder(_ context.Context, _ domain.MigrationContext, payload map[string]any) (map[string]any, error) {
	name, ok := payload["name"].(string)
	if !ok {
		return payload, nil
	}
	last, first, found := strings.Cut(name, ", ")
	if !found {
		return payload, nil
	}
	payload["name"] = first + " " + last
	return payload, nil
}

func nameToSortOrder(_ context.Context, _ domain.MigrationContext, payload map[string]any) (map[string]any, error) {
	name, ok := payload["name"].(string)
	if !ok {
		return payload, nil
	}
	first, last, found := strings.Cut(name, " ")
	if !found {
		return payload, nil
	}
	payload["name"] = last + ", " + first
	return payload, nil
}
