package bundles

import (
	"context"
	"testing"

	"github.com/rpattn/verge/internal/migrate"
	"github.com/rpattn/verge/internal/registry"
	"github.com/rpattn/verge/internal/validate"
)

func TestUsersBundleIsValid(t *testing.T) {
	bundle, ok := registry.Lookup("users")
	if !ok {
		t.Fatalf("users bundle is not registered")
	}

	if err := validate.Chain(bundle.Chain, bundle.Schemas, bundle.Routes); err != nil {
		t.Fatalf("shipped bundle fails validation: %v", err)
	}
}

func TestUsersBundleNameSideEffects(t *testing.T) {
	bundle, _ := registry.Lookup("users")
	engine := migrate.NewEngine(bundle.Chain)

	up, err := engine.MigrateRequest(context.Background(), "user", map[string]any{
		"name": "Lovelace, Ada",
		"addr": "12 Elm St",
	}, "2021-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up["name"] != "Ada Lovelace" {
		t.Fatalf("expected display-order name at head, got %#v", up["name"])
	}
	if up["address"] != "12 Elm St" {
		t.Fatalf("expected renamed address field, got %#v", up)
	}

	down, err := engine.MigrateResponse(context.Background(), "user", up, "2021-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if down["name"] != "Lovelace, Ada" {
		t.Fatalf("expected sort-order name for the old client, got %#v", down["name"])
	}
	if down["addr"] != "12 Elm St" {
		t.Fatalf("expected the older field name, got %#v", down)
	}
}
