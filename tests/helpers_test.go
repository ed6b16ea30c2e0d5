package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/rpattn/verge/internal/domain"
	"github.com/rpattn/verge/internal/httpapi"
	"github.com/rpattn/verge/internal/migrate"
)

// fixtureSchemas is the head shape shared by the end-to-end tests: one user
// schema whose history renames addr, adds nickname and retypes score.
func fixtureSchemas() []domain.SchemaDefinition {
	return []domain.SchemaDefinition{
		domain.NewSchemaDefinition("user", "A registered account.", []domain.FieldDefinition{
			{Name: "id", Type: domain.FieldTypeString, Required: true},
			{Name: "name", Type: domain.FieldTypeString, Required: true},
			{Name: "address", Type: domain.FieldTypeString},
			{Name: "nickname", Type: domain.FieldTypeString, Default: domain.DefaultValue(nil)},
			{Name: "score", Type: domain.FieldTypeFloat, Default: domain.DefaultValue(float64(0))},
		}),
	}
}

func fixtureRoutes() []domain.Endpoint {
	return []domain.Endpoint{
		{Method: "GET", Path: "/users", SuccessStatus: 200, ResponseSchema: "user"},
		{Method: "POST", Path: "/users", SuccessStatus: 201, RequestSchema: "user", ResponseSchema: "user"},
	}
}

func fixtureChain() *domain.VersionChain {
	revamp := domain.NewVersionChange(
		"user profile revamp",
		"Renames addr to address, adds nicknames, retypes score.",
	).WithSchemaInstructions(
		domain.RenameField("user", "addr", "address"),
		domain.AddField("user", domain.FieldDefinition{
			Name:    "nickname",
			Type:    domain.FieldTypeString,
			Default: domain.DefaultValue(nil),
		}),
		domain.ChangeFieldType("user", "score", domain.ChangeTypeArgs{
			From:    domain.FieldTypeInteger,
			To:      domain.FieldTypeFloat,
			Forward: scoreToFloat,
			Backward: func(value any) (any, error) {
				v, ok := value.(float64)
				if !ok {
					return nil, fmt.Errorf("expected float64, got %T", value)
				}
				if v != float64(int64(v)) {
					return nil, fmt.Errorf("score %v has no integer representation", v)
				}
				return int64(v), nil
			},
		}),
	).WithRouteInstructions(
		domain.RemoveEndpoint(domain.Endpoint{
			Method:        "DELETE",
			Path:          "/users/{id}",
			SuccessStatus: 204,
		}),
	)

	return domain.NewVersionChain(
		domain.MustVersion("2021-01-01"),
		domain.MustVersion("2022-01-01", revamp),
		domain.HeadVersion(),
	)
}

func scoreToFloat(value any) (any, error) {
	switch v := value.(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return nil, fmt.Errorf("expected a number, got %T", value)
	}
}

// versionedHandler wires the full HTTP stack the way a service embedding the
// engine would: version selection, route gating, then payload migration
// around a head-only inner handler.
func versionedHandler(chain *domain.VersionChain, table *httpapi.RouteTable, engine *migrate.Engine, inner http.Handler) http.Handler {
	migrated := httpapi.MigrateJSON(engine, "user", "user", inner)
	gated := httpapi.RequireRoute(table, "POST", "/users", migrated)
	return httpapi.VersionSelector(chain, gated)
}

func postJSON(t *testing.T, url, version string, payload map[string]any) (int, map[string]any) {
	t.Helper()

	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if version != "" {
		req.Header.Set(httpapi.VersionHeader, version)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("execute request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}

	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response body %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}
