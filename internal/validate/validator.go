// Package validate statically checks a version chain before any runtime use.
// A validation failure is a design-time contract violation: the process must
// not serve traffic and codegen must not produce artifacts.
package validate

import (
	"github.com/rpattn/verge/internal/domain"
)

// Chain runs every static check against the chain, the head schema
// definitions and the head route table. It returns the first defect found as
// a *domain.ChainError, in the documented check order.
func Chain(chain *domain.VersionChain, headSchemas []domain.SchemaDefinition, headRoutes []domain.Endpoint) error {
	if err := checkOrdering(chain); err != nil {
		return err
	}
	if err := checkInstructionConflicts(chain); err != nil {
		return err
	}
	return checkReferencesByReplay(chain, headSchemas, headRoutes)
}

// checkOrdering enforces strictly increasing version keys with exactly one
// head entry positioned as the newest, carrying no changes of its own.
func checkOrdering(chain *domain.VersionChain) error {
	versions := chain.Versions()
	if len(versions) == 0 {
		return &domain.ChainError{Code: domain.ChainErrEmpty, Reason: "chain declares no versions"}
	}

	headCount := 0
	for i, version := range versions {
		if version.Key.IsHead() {
			headCount++
			if i != len(versions)-1 {
				return &domain.ChainError{
					Code:    domain.ChainErrHeadMisplaced,
					Version: version.Key,
					Reason:  "head must be the newest entry in the chain",
				}
			}
			if len(version.Changes) > 0 {
				return &domain.ChainError{
					Code:    domain.ChainErrHeadMisplaced,
					Version: version.Key,
					Reason:  "head carries no version changes",
				}
			}
			continue
		}
		if _, err := version.Key.Time(); err != nil {
			return &domain.ChainError{
				Code:    domain.ChainErrOrdering,
				Version: version.Key,
				Reason:  "version key is not a valid date",
			}
		}
	}
	if headCount == 0 {
		return &domain.ChainError{Code: domain.ChainErrHeadMisplaced, Reason: "chain declares no head version"}
	}

	for i := 1; i < len(versions); i++ {
		cmp := domain.CompareVersionKeys(versions[i-1].Key, versions[i].Key)
		if cmp == 0 {
			return &domain.ChainError{
				Code:    domain.ChainErrDuplicateVersion,
				Version: versions[i].Key,
				Reason:  "version key appears more than once",
			}
		}
		if cmp > 0 {
			return &domain.ChainError{
				Code:    domain.ChainErrOrdering,
				Version: versions[i].Key,
				Reason:  "version keys must strictly increase from oldest to newest",
			}
		}
	}
	return nil
}

// checkInstructionConflicts rejects changes that target the same
// (schema, field) pair twice in the same direction, or the same endpoint
// twice, within a single version change. It also rejects added fields that
// could never be filled in an older payload.
func checkInstructionConflicts(chain *domain.VersionChain) error {
	for _, version := range chain.Versions() {
		for _, change := range version.Changes {
			if err := checkSchemaConflicts(version.Key, change); err != nil {
				return err
			}
			if err := checkRouteConflicts(version.Key, change); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkSchemaConflicts(key domain.VersionKey, change *domain.VersionChange) error {
	type target struct {
		schema string
		field  string
	}
	newerSide := make(map[target]struct{})
	olderSide := make(map[target]struct{})

	for _, instruction := range change.Schema {
		if instruction.Kind == domain.SchemaInstructionAddField {
			def := instruction.Add.Definition
			if def.Required && !def.HasFillValue() {
				return &domain.ChainError{
					Code:    domain.ChainErrInvalidInstruction,
					Version: key,
					Change:  change.Name,
					Schema:  instruction.Schema,
					Field:   instruction.Field,
					Reason:  "added required field needs a default or a factory to fill older payloads",
				}
			}
		}

		for _, name := range instruction.NewerSideFields() {
			t := target{schema: instruction.Schema, field: name}
			if _, dup := newerSide[t]; dup {
				return conflicting(key, change, instruction.Schema, name)
			}
			newerSide[t] = struct{}{}
		}
		for _, name := range instruction.OlderSideFields() {
			t := target{schema: instruction.Schema, field: name}
			if _, dup := olderSide[t]; dup {
				return conflicting(key, change, instruction.Schema, name)
			}
			olderSide[t] = struct{}{}
		}
	}
	return nil
}

func checkRouteConflicts(key domain.VersionKey, change *domain.VersionChange) error {
	seen := make(map[domain.RouteKey]struct{})
	for _, instruction := range change.Routes {
		if _, dup := seen[instruction.Route]; dup {
			return &domain.ChainError{
				Code:    domain.ChainErrConflictingInstruction,
				Version: key,
				Change:  change.Name,
				Route:   instruction.Route,
				Reason:  "endpoint targeted by more than one instruction in the same change",
			}
		}
		seen[instruction.Route] = struct{}{}
	}
	return nil
}

// checkReferencesByReplay provisionally replays the chain from head down to
// the oldest version, proving every field and endpoint reference resolvable
// in the shape of the version immediately newer than its change.
func checkReferencesByReplay(chain *domain.VersionChain, headSchemas []domain.SchemaDefinition, headRoutes []domain.Endpoint) error {
	schemas := make(map[string]domain.SchemaDefinition, len(headSchemas))
	for _, schema := range headSchemas {
		schemas[schema.Name] = schema
	}
	routes := make(map[domain.RouteKey]domain.Endpoint, len(headRoutes))
	for _, endpoint := range headRoutes {
		routes[endpoint.Key()] = endpoint
	}

	versions := chain.Versions()
	for i := len(versions) - 1; i >= 0; i-- {
		version := versions[i]
		for j := len(version.Changes) - 1; j >= 0; j-- {
			change := version.Changes[j]
			olderSchemas, err := domain.UnapplySchemaChange(version.Key, change, schemas)
			if err != nil {
				return err
			}
			olderRoutes, err := domain.UnapplyRouteChange(version.Key, change, routes)
			if err != nil {
				return err
			}
			schemas = olderSchemas
			routes = olderRoutes
		}
	}
	return nil
}

func conflicting(key domain.VersionKey, change *domain.VersionChange, schema, field string) error {
	return &domain.ChainError{
		Code:    domain.ChainErrConflictingInstruction,
		Version: key,
		Change:  change.Name,
		Schema:  schema,
		Field:   field,
		Reason:  "field targeted by more than one instruction in the same change and direction",
	}
}
