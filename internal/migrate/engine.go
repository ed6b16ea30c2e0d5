// Package migrate translates request and response payloads between an
// arbitrary historical version and head at runtime, by replaying the version
// chain's instructions in the appropriate direction.
package migrate

import (
	"context"

	"github.com/rpattn/verge/internal/domain"
)

// Engine applies version changes to in-flight payloads. It only reads the
// chain, which is immutable after validation, so a single Engine is safe for
// concurrent use across requests.
type Engine struct {
	chain *domain.VersionChain
}

// NewEngine wraps a validated chain.
func NewEngine(chain *domain.VersionChain) *Engine {
	return &Engine{chain: chain}
}

// MigrateRequest translates a payload shaped for the named version into the
// head shape, walking the chain oldest to newest. Field instructions of each
// change run before its forward side-effect, so the side-effect sees
// already-renamed and retyped fields.
func (e *Engine) MigrateRequest(ctx context.Context, schema string, payload map[string]any, from domain.VersionKey) (map[string]any, error) {
	idx := e.chain.IndexOf(from)
	if idx < 0 {
		return nil, &UnknownVersionError{Key: from}
	}

	head, _ := e.chain.Head()
	mctx := domain.MigrationContext{
		Direction: domain.DirectionRequest,
		From:      from,
		To:        head.Key,
		Schema:    schema,
	}

	current := clonePayload(payload)
	for i := idx + 1; i < e.chain.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		version := e.chain.At(i)
		for _, change := range version.Changes {
			next, err := e.applyForward(ctx, mctx, version.Key, change, schema, current)
			if err != nil {
				return nil, err
			}
			current = next
		}
	}
	return current, nil
}

// MigrateResponse translates a head-shaped payload into the shape of the
// named version, walking the chain newest to oldest. Each change's backward
// side-effect runs before its field instructions, so it still sees
// head-shaped field names.
func (e *Engine) MigrateResponse(ctx context.Context, schema string, payload map[string]any, to domain.VersionKey) (map[string]any, error) {
	idx := e.chain.IndexOf(to)
	if idx < 0 {
		return nil, &UnknownVersionError{Key: to}
	}

	head, _ := e.chain.Head()
	mctx := domain.MigrationContext{
		Direction: domain.DirectionResponse,
		From:      head.Key,
		To:        to,
		Schema:    schema,
	}

	current := clonePayload(payload)
	for i := e.chain.Len() - 1; i > idx; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		version := e.chain.At(i)
		for j := len(version.Changes) - 1; j >= 0; j-- {
			next, err := e.applyBackward(ctx, mctx, version.Key, version.Changes[j], schema, current)
			if err != nil {
				return nil, err
			}
			current = next
		}
	}
	return current, nil
}

// applyForward runs one change in the request direction against a clone of
// the payload and returns the clone. A failing instruction or side-effect
// leaves the caller's payload untouched.
func (e *Engine) applyForward(ctx context.Context, mctx domain.MigrationContext, key domain.VersionKey, change *domain.VersionChange, schema string, payload map[string]any) (map[string]any, error) {
	work := clonePayload(payload)
	for _, instruction := range change.Schema {
		if instruction.Schema != schema {
			continue
		}
		if err := applyInstructionForward(instruction, work, key, change); err != nil {
			return nil, err
		}
	}
	if change.Forward != nil && change.EffectAppliesTo(schema) {
		mctx.Change = change.Name
		mctx.ChangeID = change.ID
		transformed, err := change.Forward(ctx, mctx, work)
		if err != nil {
			return nil, &SideEffectError{Change: change.Name, ChangeID: change.ID, Direction: domain.DirectionRequest, Err: err}
		}
		work = transformed
	}
	return work, nil
}

// applyBackward runs one change in the response direction against a clone of
// the payload and returns the clone.
func (e *Engine) applyBackward(ctx context.Context, mctx domain.MigrationContext, key domain.VersionKey, change *domain.VersionChange, schema string, payload map[string]any) (map[string]any, error) {
	work := clonePayload(payload)
	if change.Backward != nil && change.EffectAppliesTo(schema) {
		mctx.Change = change.Name
		mctx.ChangeID = change.ID
		transformed, err := change.Backward(ctx, mctx, work)
		if err != nil {
			return nil, &SideEffectError{Change: change.Name, ChangeID: change.ID, Direction: domain.DirectionResponse, Err: err}
		}
		work = transformed
	}
	for i := len(change.Schema) - 1; i >= 0; i-- {
		instruction := change.Schema[i]
		if instruction.Schema != schema {
			continue
		}
		if err := applyInstructionBackward(instruction, work, key, change); err != nil {
			return nil, err
		}
	}
	return work, nil
}

// clonePayload copies the top level of a payload. Instructions only touch
// top-level fields; side-effects must return fresh maps rather than mutate
// nested values they share with the input.
func clonePayload(payload map[string]any) map[string]any {
	cloned := make(map[string]any, len(payload))
	for key, value := range payload {
		cloned[key] = value
	}
	return cloned
}
