package domain

// UnapplySchemaChange reconstructs the next-older schema shapes from the
// newer ones by inverting every schema instruction of the change, in reverse
// declaration order. The input map is not mutated. Reference problems are
// reported as *ChainError.
func UnapplySchemaChange(version VersionKey, change *VersionChange, newer map[string]SchemaDefinition) (map[string]SchemaDefinition, error) {
	older := make(map[string]SchemaDefinition, len(newer))
	for name, schema := range newer {
		older[name] = schema
	}

	for i := len(change.Schema) - 1; i >= 0; i-- {
		instruction := change.Schema[i]
		schema, ok := older[instruction.Schema]
		if !ok {
			return nil, &ChainError{
				Code:    ChainErrUnknownField,
				Version: version,
				Change:  change.Name,
				Schema:  instruction.Schema,
				Field:   instruction.Field,
				Reason:  "schema is not defined at the next-newer version",
			}
		}

		switch instruction.Kind {
		case SchemaInstructionAddField:
			if _, exists := schema.FieldByName(instruction.Field); !exists {
				return nil, unknownField(version, change, instruction, "added field is absent from the next-newer shape")
			}
			older[instruction.Schema] = schema.WithoutField(instruction.Field)

		case SchemaInstructionRemoveField:
			if _, exists := schema.FieldByName(instruction.Field); exists {
				return nil, &ChainError{
					Code:    ChainErrInvalidInstruction,
					Version: version,
					Change:  change.Name,
					Schema:  instruction.Schema,
					Field:   instruction.Field,
					Reason:  "removed field is still present in the next-newer shape",
				}
			}
			older[instruction.Schema] = schema.WithField(instruction.Remove.Definition)

		case SchemaInstructionRenameField:
			if _, exists := schema.FieldByName(instruction.Rename.To); !exists {
				return nil, unknownField(version, change, instruction, "rename target is absent from the next-newer shape")
			}
			if _, exists := schema.FieldByName(instruction.Rename.From); exists {
				return nil, &ChainError{
					Code:    ChainErrInvalidInstruction,
					Version: version,
					Change:  change.Name,
					Schema:  instruction.Schema,
					Field:   instruction.Rename.From,
					Reason:  "rename source still exists in the next-newer shape",
				}
			}
			renamed, err := schema.WithFieldRenamed(instruction.Rename.To, instruction.Rename.From)
			if err != nil {
				return nil, unknownField(version, change, instruction, err.Error())
			}
			older[instruction.Schema] = renamed

		case SchemaInstructionChangeType:
			field, exists := schema.FieldByName(instruction.Field)
			if !exists {
				return nil, unknownField(version, change, instruction, "retyped field is absent from the next-newer shape")
			}
			field.Type = instruction.Retype.From
			older[instruction.Schema] = schema.WithField(field)

		case SchemaInstructionChangeDefault:
			field, exists := schema.FieldByName(instruction.Field)
			if !exists {
				return nil, unknownField(version, change, instruction, "field is absent from the next-newer shape")
			}
			field.Default = instruction.Default.Old
			older[instruction.Schema] = schema.WithField(field)

		case SchemaInstructionMakeRequired:
			field, exists := schema.FieldByName(instruction.Field)
			if !exists {
				return nil, unknownField(version, change, instruction, "field is absent from the next-newer shape")
			}
			field.Required = false
			older[instruction.Schema] = schema.WithField(field)

		case SchemaInstructionMakeOptional:
			field, exists := schema.FieldByName(instruction.Field)
			if !exists {
				return nil, unknownField(version, change, instruction, "field is absent from the next-newer shape")
			}
			field.Required = true
			older[instruction.Schema] = schema.WithField(field)

		default:
			return nil, &ChainError{
				Code:    ChainErrInvalidInstruction,
				Version: version,
				Change:  change.Name,
				Schema:  instruction.Schema,
				Field:   instruction.Field,
				Reason:  "unsupported schema instruction kind " + string(instruction.Kind),
			}
		}
	}

	return older, nil
}

// UnapplyRouteChange reconstructs the next-older route set from the newer
// one by inverting every route instruction of the change.
func UnapplyRouteChange(version VersionKey, change *VersionChange, newer map[RouteKey]Endpoint) (map[RouteKey]Endpoint, error) {
	older := make(map[RouteKey]Endpoint, len(newer))
	for key, endpoint := range newer {
		older[key] = endpoint
	}

	for i := len(change.Routes) - 1; i >= 0; i-- {
		instruction := change.Routes[i]

		switch instruction.Kind {
		case RouteInstructionAddEndpoint:
			if _, exists := older[instruction.Route]; !exists {
				return nil, unknownEndpoint(version, change, instruction, "added endpoint is absent from the next-newer route set")
			}
			delete(older, instruction.Route)

		case RouteInstructionRemoveEndpoint:
			if _, exists := older[instruction.Route]; exists {
				return nil, &ChainError{
					Code:    ChainErrInvalidInstruction,
					Version: version,
					Change:  change.Name,
					Route:   instruction.Route,
					Reason:  "removed endpoint is still present in the next-newer route set",
				}
			}
			older[instruction.Route] = instruction.Remove.Endpoint

		case RouteInstructionChangeAttribute:
			endpoint, exists := older[instruction.Route]
			if !exists {
				return nil, unknownEndpoint(version, change, instruction, "endpoint is absent from the next-newer route set")
			}
			reverted, err := applyAttribute(endpoint, instruction.Change.Attribute, instruction.Change.Old)
			if err != nil {
				return nil, &ChainError{
					Code:    ChainErrInvalidInstruction,
					Version: version,
					Change:  change.Name,
					Route:   instruction.Route,
					Reason:  err.Error(),
				}
			}
			// A path change moves the endpoint to a different key.
			delete(older, instruction.Route)
			older[reverted.Key()] = reverted

		default:
			return nil, &ChainError{
				Code:    ChainErrInvalidInstruction,
				Version: version,
				Change:  change.Name,
				Route:   instruction.Route,
				Reason:  "unsupported route instruction kind " + string(instruction.Kind),
			}
		}
	}

	return older, nil
}

func unknownField(version VersionKey, change *VersionChange, instruction SchemaInstruction, reason string) *ChainError {
	return &ChainError{
		Code:    ChainErrUnknownField,
		Version: version,
		Change:  change.Name,
		Schema:  instruction.Schema,
		Field:   instruction.Field,
		Reason:  reason,
	}
}

func unknownEndpoint(version VersionKey, change *VersionChange, instruction RouteInstruction, reason string) *ChainError {
	return &ChainError{
		Code:    ChainErrUnknownEndpoint,
		Version: version,
		Change:  change.Name,
		Route:   instruction.Route,
		Reason:  reason,
	}
}
