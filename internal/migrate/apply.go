package migrate

import (
	"github.com/rpattn/verge/internal/domain"
)

// applyInstructionForward mutates the working payload in the older-to-newer
// direction. The payload is always a working clone owned by the caller.
func applyInstructionForward(instruction domain.SchemaInstruction, payload map[string]any, key domain.VersionKey, change *domain.VersionChange) error {
	switch instruction.Kind {
	case domain.SchemaInstructionAddField:
		if _, exists := payload[instruction.Field]; exists {
			return nil
		}
		definition := instruction.Add.Definition
		if definition.HasFillValue() {
			payload[instruction.Field] = definition.FillValue()
			return nil
		}
		if definition.Required {
			return &UnmigratableFieldError{
				Schema:  instruction.Schema,
				Field:   instruction.Field,
				Change:  change.Name,
				Version: key,
				Reason:  "required field has no default or factory to fill",
			}
		}
		return nil

	case domain.SchemaInstructionRemoveField:
		delete(payload, instruction.Field)
		return nil

	case domain.SchemaInstructionRenameField:
		if value, exists := payload[instruction.Rename.From]; exists {
			payload[instruction.Rename.To] = value
			delete(payload, instruction.Rename.From)
		}
		return nil

	case domain.SchemaInstructionChangeType:
		value, exists := payload[instruction.Field]
		if !exists || value == nil {
			return nil
		}
		if instruction.Retype.Forward == nil {
			return &UnmigratableFieldError{
				Schema:  instruction.Schema,
				Field:   instruction.Field,
				Change:  change.Name,
				Version: key,
				Reason:  "type change declares no forward caster",
			}
		}
		cast, err := instruction.Retype.Forward(value)
		if err != nil {
			return &UnmigratableFieldError{
				Schema:  instruction.Schema,
				Field:   instruction.Field,
				Change:  change.Name,
				Version: key,
				Reason:  err.Error(),
			}
		}
		payload[instruction.Field] = cast
		return nil

	case domain.SchemaInstructionMakeRequired:
		if _, exists := payload[instruction.Field]; !exists && instruction.Require.HasBackfill {
			payload[instruction.Field] = instruction.Require.Backfill
		}
		return nil

	case domain.SchemaInstructionChangeDefault, domain.SchemaInstructionMakeOptional:
		// Schema-only changes; the payload carries no difference.
		return nil

	default:
		return &UnmigratableFieldError{
			Schema:  instruction.Schema,
			Field:   instruction.Field,
			Change:  change.Name,
			Version: key,
			Reason:  "unsupported schema instruction kind " + string(instruction.Kind),
		}
	}
}

// applyInstructionBackward mutates the working payload in the newer-to-older
// direction, inverting what applyInstructionForward does.
func applyInstructionBackward(instruction domain.SchemaInstruction, payload map[string]any, key domain.VersionKey, change *domain.VersionChange) error {
	switch instruction.Kind {
	case domain.SchemaInstructionAddField:
		delete(payload, instruction.Field)
		return nil

	case domain.SchemaInstructionRemoveField:
		if _, exists := payload[instruction.Field]; exists {
			return nil
		}
		definition := instruction.Remove.Definition
		if definition.HasFillValue() {
			payload[instruction.Field] = definition.FillValue()
			return nil
		}
		if definition.Required {
			return &UnmigratableFieldError{
				Schema:  instruction.Schema,
				Field:   instruction.Field,
				Change:  change.Name,
				Version: key,
				Reason:  "removed required field cannot be reconstructed without a default or factory",
			}
		}
		return nil

	case domain.SchemaInstructionRenameField:
		if value, exists := payload[instruction.Rename.To]; exists {
			payload[instruction.Rename.From] = value
			delete(payload, instruction.Rename.To)
		}
		return nil

	case domain.SchemaInstructionChangeType:
		value, exists := payload[instruction.Field]
		if !exists || value == nil {
			return nil
		}
		if instruction.Retype.Backward == nil {
			return &UnmigratableFieldError{
				Schema:  instruction.Schema,
				Field:   instruction.Field,
				Change:  change.Name,
				Version: key,
				Reason:  "type change declares no backward caster",
			}
		}
		cast, err := instruction.Retype.Backward(value)
		if err != nil {
			return &UnmigratableFieldError{
				Schema:  instruction.Schema,
				Field:   instruction.Field,
				Change:  change.Name,
				Version: key,
				Reason:  err.Error(),
			}
		}
		payload[instruction.Field] = cast
		return nil

	case domain.SchemaInstructionChangeDefault,
		domain.SchemaInstructionMakeRequired,
		domain.SchemaInstructionMakeOptional:
		return nil

	default:
		return &UnmigratableFieldError{
			Schema:  instruction.Schema,
			Field:   instruction.Field,
			Change:  change.Name,
			Version: key,
			Reason:  "unsupported schema instruction kind " + string(instruction.Kind),
		}
	}
}
