// Package codegen statically derives per-version schema and route artifacts
// by replaying the version chain in reverse against the head definitions.
// Generation is deterministic: the same head and chain always produce
// byte-identical output, so artifacts can be diffed across builds.
package codegen

import (
	"github.com/rpattn/verge/internal/domain"
)

// GenerateSchemas derives the schema definitions of every version in the
// chain. It starts from the head definitions and walks newest to oldest,
// inverting each version's changes to obtain the next-older shape.
func GenerateSchemas(headSchemas []domain.SchemaDefinition, chain *domain.VersionChain) (map[domain.VersionKey][]domain.SchemaDefinition, error) {
	versions := chain.Versions()
	if len(versions) == 0 {
		return nil, &domain.CodegenError{Version: domain.HeadVersionKey, Reason: "chain declares no versions"}
	}

	current := make(map[string]domain.SchemaDefinition, len(headSchemas))
	for _, schema := range headSchemas {
		current[schema.Name] = schema
	}

	result := make(map[domain.VersionKey][]domain.SchemaDefinition, len(versions))
	result[versions[len(versions)-1].Key] = sortedSchemas(current)

	for i := len(versions) - 1; i >= 1; i-- {
		version := versions[i]
		for j := len(version.Changes) - 1; j >= 0; j-- {
			change := version.Changes[j]
			if err := requireInverses(version.Key, change); err != nil {
				return nil, err
			}
			older, err := domain.UnapplySchemaChange(version.Key, change, current)
			if err != nil {
				return nil, wrapChainError(version.Key, err)
			}
			current = older
		}
		result[versions[i-1].Key] = sortedSchemas(current)
	}

	return result, nil
}

// requireInverses rejects a change whose type instructions declare no
// backward caster. Rendering any version older than the change needs the
// inverse, so the absence is a build failure, never a first-request surprise.
func requireInverses(key domain.VersionKey, change *domain.VersionChange) error {
	for _, instruction := range change.Schema {
		if instruction.Kind != domain.SchemaInstructionChangeType {
			continue
		}
		if instruction.Retype.Forward == nil {
			return &domain.CodegenError{
				Version: key,
				Schema:  instruction.Schema,
				Field:   instruction.Field,
				Reason:  "type change declares no forward caster",
			}
		}
		if instruction.Retype.Backward == nil {
			return &domain.CodegenError{
				Version: key,
				Schema:  instruction.Schema,
				Field:   instruction.Field,
				Reason:  "type change declares no backward caster but an older version must be rendered",
			}
		}
	}
	return nil
}

func sortedSchemas(shapes map[string]domain.SchemaDefinition) []domain.SchemaDefinition {
	schemas := make([]domain.SchemaDefinition, 0, len(shapes))
	for _, schema := range shapes {
		schemas = append(schemas, schema)
	}
	domain.SortSchemaDefinitions(schemas)
	return schemas
}

func wrapChainError(key domain.VersionKey, err error) error {
	return &domain.CodegenError{
		Version: key,
		Reason:  "chain replay failed",
		Err:     err,
	}
}
