package domain

import (
	"context"

	"github.com/google/uuid"
)

// Direction tells a side-effect which way a payload is travelling.
type Direction string

const (
	// DirectionRequest moves a payload from an older version toward head.
	DirectionRequest Direction = "request"
	// DirectionResponse moves a payload from head toward an older version.
	DirectionResponse Direction = "response"
)

// MigrationContext is the per-call context value threaded through the
// migration engine. Side-effects receive it as an argument and must never
// read migration state from anywhere else.
type MigrationContext struct {
	Direction Direction
	// From is the version the payload arrived at, To the version it is being
	// translated to for this whole migration, not the single step.
	From VersionKey
	To   VersionKey
	// Change names the version change whose side-effect is running; ChangeID
	// is its identity, which stays unambiguous when changes share a name.
	Change   string
	ChangeID uuid.UUID
	// Schema names the definition the payload belongs to.
	Schema string
}

// SideEffect is a custom payload transform for differences that cannot be
// expressed as field instructions. It receives the payload by value semantics:
// it must return the transformed payload and may not rely on mutating its
// argument in place. Side-effects may perform I/O; any error aborts the
// migration.
type SideEffect func(ctx context.Context, mctx MigrationContext, payload map[string]any) (map[string]any, error)

// VersionChange bundles every difference between one version and its
// next-older neighbor. Instances are built once at startup and treated as
// immutable afterwards.
type VersionChange struct {
	ID          uuid.UUID
	Name        string
	Description string

	Schema []SchemaInstruction
	Routes []RouteInstruction

	// Forward runs after this change's field instructions on the request
	// path; Backward runs before them on the response path. EffectSchemas
	// limits which schemas the side-effects see; empty means all.
	Forward       SideEffect
	Backward      SideEffect
	EffectSchemas []string

	// Lossy marks a change whose side-effect intentionally discards
	// information and therefore cannot satisfy the round-trip contract.
	Lossy bool
}

// NewVersionChange creates a named change with a fresh identity for logs and
// diagnostics.
func NewVersionChange(name, description string) *VersionChange {
	return &VersionChange{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
	}
}

// WithSchemaInstructions appends schema instructions and returns the change
// for declaration chaining.
func (c *VersionChange) WithSchemaInstructions(instructions ...SchemaInstruction) *VersionChange {
	c.Schema = append(c.Schema, instructions...)
	return c
}

// WithRouteInstructions appends route instructions.
func (c *VersionChange) WithRouteInstructions(instructions ...RouteInstruction) *VersionChange {
	c.Routes = append(c.Routes, instructions...)
	return c
}

// WithSideEffects attaches the forward and backward payload transforms,
// optionally scoped to the named schemas.
func (c *VersionChange) WithSideEffects(forward, backward SideEffect, schemas ...string) *VersionChange {
	c.Forward = forward
	c.Backward = backward
	c.EffectSchemas = append(c.EffectSchemas, schemas...)
	return c
}

// MarkLossy flags the change as intentionally lossy.
func (c *VersionChange) MarkLossy() *VersionChange {
	c.Lossy = true
	return c
}

// EffectAppliesTo reports whether the change's side-effects cover payloads of
// the named schema.
func (c *VersionChange) EffectAppliesTo(schema string) bool {
	if len(c.EffectSchemas) == 0 {
		return true
	}
	for _, name := range c.EffectSchemas {
		if name == schema {
			return true
		}
	}
	return false
}

// SchemaInstructionsFor returns this change's instructions targeting the
// named schema, in declaration order.
func (c *VersionChange) SchemaInstructionsFor(schema string) []SchemaInstruction {
	var matched []SchemaInstruction
	for _, instruction := range c.Schema {
		if instruction.Schema == schema {
			matched = append(matched, instruction)
		}
	}
	return matched
}
