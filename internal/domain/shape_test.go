package domain

import (
	"errors"
	"testing"
)

func headShapes() map[string]SchemaDefinition {
	return map[string]SchemaDefinition{
		"user": NewSchemaDefinition("user", "", []FieldDefinition{
			{Name: "id", Type: FieldTypeString, Required: true},
			{Name: "address", Type: FieldTypeString},
			{Name: "nickname", Type: FieldTypeString, Default: DefaultValue(nil)},
			{Name: "score", Type: FieldTypeFloat},
		}),
	}
}

func TestUnapplySchemaChange(t *testing.T) {
	change := NewVersionChange("revamp", "").WithSchemaInstructions(
		RenameField("user", "addr", "address"),
		AddField("user", FieldDefinition{Name: "nickname", Type: FieldTypeString, Default: DefaultValue(nil)}),
		ChangeFieldType("user", "score", ChangeTypeArgs{From: FieldTypeInteger, To: FieldTypeFloat}),
		RemoveField("user", FieldDefinition{Name: "legacy_code", Type: FieldTypeString}),
	)

	older, err := UnapplySchemaChange("2022-01-01", change, headShapes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := older["user"]
	if _, ok := user.FieldByName("nickname"); ok {
		t.Fatalf("added field must be absent from the older shape")
	}
	if _, ok := user.FieldByName("address"); ok {
		t.Fatalf("rename target must be absent from the older shape")
	}
	if _, ok := user.FieldByName("addr"); !ok {
		t.Fatalf("rename source must exist in the older shape")
	}
	score, ok := user.FieldByName("score")
	if !ok || score.Type != FieldTypeInteger {
		t.Fatalf("expected score as integer in the older shape, got %+v ok=%v", score, ok)
	}
	if _, ok := user.FieldByName("legacy_code"); !ok {
		t.Fatalf("removed field must be restored in the older shape")
	}

	// The input map is never mutated.
	head := headShapes()
	if _, err := UnapplySchemaChange("2022-01-01", change, head); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := head["user"].FieldByName("address"); !ok {
		t.Fatalf("input shapes were mutated")
	}
}

func TestUnapplySchemaChangeReverseOrder(t *testing.T) {
	// A change that adds a field and then renames it reads sensibly only when
	// the instructions are inverted last to first.
	change := NewVersionChange("add then rename", "").WithSchemaInstructions(
		AddField("user", FieldDefinition{Name: "handle", Type: FieldTypeString}),
		RenameField("user", "handle", "username"),
	)

	newer := map[string]SchemaDefinition{
		"user": NewSchemaDefinition("user", "", []FieldDefinition{
			{Name: "username", Type: FieldTypeString},
		}),
	}

	older, err := UnapplySchemaChange("2022-01-01", change, newer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(older["user"].Fields) != 0 {
		t.Fatalf("expected no fields in the older shape, got %+v", older["user"].Fields)
	}
}

func TestUnapplySchemaChangeErrors(t *testing.T) {
	tests := []struct {
		name         string
		instructions []SchemaInstruction
		code         ChainErrorCode
	}{
		{
			name: "added field missing from newer shape",
			instructions: []SchemaInstruction{
				AddField("user", FieldDefinition{Name: "ghost", Type: FieldTypeString}),
			},
			code: ChainErrUnknownField,
		},
		{
			name: "removed field still present",
			instructions: []SchemaInstruction{
				RemoveField("user", FieldDefinition{Name: "address", Type: FieldTypeString}),
			},
			code: ChainErrInvalidInstruction,
		},
		{
			name: "rename target missing",
			instructions: []SchemaInstruction{
				RenameField("user", "old", "ghost"),
			},
			code: ChainErrUnknownField,
		},
		{
			name: "rename source still present",
			instructions: []SchemaInstruction{
				RenameField("user", "address", "nickname"),
			},
			code: ChainErrInvalidInstruction,
		},
		{
			name: "retyped field missing",
			instructions: []SchemaInstruction{
				ChangeFieldType("user", "ghost", ChangeTypeArgs{From: FieldTypeInteger, To: FieldTypeFloat}),
			},
			code: ChainErrUnknownField,
		},
		{
			name: "unknown schema",
			instructions: []SchemaInstruction{
				AddField("order", FieldDefinition{Name: "total", Type: FieldTypeFloat}),
			},
			code: ChainErrUnknownField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change := NewVersionChange("bad", "").WithSchemaInstructions(tt.instructions...)
			_, err := UnapplySchemaChange("2022-01-01", change, headShapes())
			var chainErr *ChainError
			if !errors.As(err, &chainErr) {
				t.Fatalf("expected *ChainError, got %v", err)
			}
			if chainErr.Code != tt.code {
				t.Fatalf("expected code %s, got %s (%v)", tt.code, chainErr.Code, chainErr)
			}
		})
	}
}

func TestUnapplyRouteChange(t *testing.T) {
	newer := map[RouteKey]Endpoint{
		{Method: "GET", Path: "/users"}:      {Method: "GET", Path: "/users", SuccessStatus: 200},
		{Method: "POST", Path: "/users"}:     {Method: "POST", Path: "/users", SuccessStatus: 201},
		{Method: "GET", Path: "/users/{id}"}: {Method: "GET", Path: "/users/{id}", SuccessStatus: 200},
	}

	change := NewVersionChange("route cleanup", "").WithRouteInstructions(
		AddEndpoint("GET", "/users/{id}"),
		RemoveEndpoint(Endpoint{Method: "DELETE", Path: "/users/{id}", SuccessStatus: 204}),
		ChangeEndpointAttribute("POST", "/users", EndpointAttributeStatus, 200, 201),
	)

	older, err := UnapplyRouteChange("2022-01-01", change, newer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := older[RouteKey{Method: "GET", Path: "/users/{id}"}]; ok {
		t.Fatalf("added endpoint must be absent from the older route set")
	}
	restored, ok := older[RouteKey{Method: "DELETE", Path: "/users/{id}"}]
	if !ok || restored.SuccessStatus != 204 {
		t.Fatalf("removed endpoint must be restored with its carried attributes, got %+v ok=%v", restored, ok)
	}
	post := older[RouteKey{Method: "POST", Path: "/users"}]
	if post.SuccessStatus != 200 {
		t.Fatalf("expected reverted status 200, got %d", post.SuccessStatus)
	}
}

func TestUnapplyRouteChangePathMove(t *testing.T) {
	newer := map[RouteKey]Endpoint{
		{Method: "GET", Path: "/accounts"}: {Method: "GET", Path: "/accounts", SuccessStatus: 200},
	}
	change := NewVersionChange("rename path", "").WithRouteInstructions(
		ChangeEndpointAttribute("GET", "/accounts", EndpointAttributePath, "/orgs", "/accounts"),
	)

	older, err := UnapplyRouteChange("2022-01-01", change, newer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := older[RouteKey{Method: "GET", Path: "/accounts"}]; ok {
		t.Fatalf("endpoint must be re-keyed off its newer path")
	}
	moved, ok := older[RouteKey{Method: "GET", Path: "/orgs"}]
	if !ok || moved.Path != "/orgs" {
		t.Fatalf("expected endpoint under its older path, got %+v ok=%v", moved, ok)
	}
}

func TestUnapplyRouteChangeErrors(t *testing.T) {
	newer := map[RouteKey]Endpoint{
		{Method: "GET", Path: "/users"}: {Method: "GET", Path: "/users"},
	}

	change := NewVersionChange("bad", "").WithRouteInstructions(
		AddEndpoint("GET", "/ghost"),
	)
	_, err := UnapplyRouteChange("2022-01-01", change, newer)
	var chainErr *ChainError
	if !errors.As(err, &chainErr) || chainErr.Code != ChainErrUnknownEndpoint {
		t.Fatalf("expected UNKNOWN_ENDPOINT, got %v", err)
	}

	change = NewVersionChange("bad", "").WithRouteInstructions(
		RemoveEndpoint(Endpoint{Method: "GET", Path: "/users"}),
	)
	_, err = UnapplyRouteChange("2022-01-01", change, newer)
	if !errors.As(err, &chainErr) || chainErr.Code != ChainErrInvalidInstruction {
		t.Fatalf("expected INVALID_INSTRUCTION, got %v", err)
	}
}
