package domain

// SchemaInstructionKind discriminates the schema instruction variants.
type SchemaInstructionKind string

const (
	SchemaInstructionAddField      SchemaInstructionKind = "ADD_FIELD"
	SchemaInstructionRemoveField   SchemaInstructionKind = "REMOVE_FIELD"
	SchemaInstructionRenameField   SchemaInstructionKind = "RENAME_FIELD"
	SchemaInstructionChangeType    SchemaInstructionKind = "CHANGE_FIELD_TYPE"
	SchemaInstructionChangeDefault SchemaInstructionKind = "CHANGE_FIELD_DEFAULT"
	SchemaInstructionMakeRequired  SchemaInstructionKind = "MAKE_FIELD_REQUIRED"
	SchemaInstructionMakeOptional  SchemaInstructionKind = "MAKE_FIELD_OPTIONAL"
)

// FieldCaster converts one representation of a field value into another. It
// must be exact: a caster that cannot represent the input returns an error
// rather than an approximation.
type FieldCaster func(value any) (any, error)

// AddFieldArgs carries the definition of a field introduced by a version.
type AddFieldArgs struct {
	Definition FieldDefinition
}

// RemoveFieldArgs carries the definition of a field dropped by a version.
// The full definition is needed to reconstruct older shapes and to restore
// the field in responses sent to older clients.
type RemoveFieldArgs struct {
	Definition FieldDefinition
}

// RenameFieldArgs maps the older field name to the newer one.
type RenameFieldArgs struct {
	From string
	To   string
}

// ChangeTypeArgs records both sides of a type change. Forward converts an
// older-representation value into the newer one; Backward is its inverse and
// is mandatory once any older version must be rendered or served.
type ChangeTypeArgs struct {
	From     FieldType
	To       FieldType
	Forward  FieldCaster
	Backward FieldCaster
}

// ChangeDefaultArgs records the default on both sides of the change.
type ChangeDefaultArgs struct {
	Old FieldDefault
	New FieldDefault
}

// RequireFieldArgs optionally carries a backfill value used to satisfy a
// newly required field in payloads from older clients.
type RequireFieldArgs struct {
	Backfill    any
	HasBackfill bool
}

// SchemaInstruction is one atomic, invertible difference applied to a
// (schema, field) pair between two adjacent versions. Kind selects which of
// the argument blocks is populated.
type SchemaInstruction struct {
	Kind   SchemaInstructionKind
	Schema string
	// Field is the target field name as it reads on the newer side of the
	// change; renames additionally touch Rename.From on the older side.
	Field string

	Add     *AddFieldArgs
	Remove  *RemoveFieldArgs
	Rename  *RenameFieldArgs
	Retype  *ChangeTypeArgs
	Default *ChangeDefaultArgs
	Require *RequireFieldArgs
}

// AddField declares that the newer version introduced the given field.
func AddField(schema string, definition FieldDefinition) SchemaInstruction {
	return SchemaInstruction{
		Kind:   SchemaInstructionAddField,
		Schema: schema,
		Field:  definition.Name,
		Add:    &AddFieldArgs{Definition: definition},
	}
}

// RemoveField declares that the newer version dropped the given field.
func RemoveField(schema string, definition FieldDefinition) SchemaInstruction {
	return SchemaInstruction{
		Kind:   SchemaInstructionRemoveField,
		Schema: schema,
		Field:  definition.Name,
		Remove: &RemoveFieldArgs{Definition: definition},
	}
}

// RenameField declares that the newer version renamed a field from old to new.
func RenameField(schema, from, to string) SchemaInstruction {
	return SchemaInstruction{
		Kind:   SchemaInstructionRenameField,
		Schema: schema,
		Field:  to,
		Rename: &RenameFieldArgs{From: from, To: to},
	}
}

// ChangeFieldType declares that the newer version changed the field's type.
func ChangeFieldType(schema, field string, args ChangeTypeArgs) SchemaInstruction {
	argsCopy := args
	return SchemaInstruction{
		Kind:   SchemaInstructionChangeType,
		Schema: schema,
		Field:  field,
		Retype: &argsCopy,
	}
}

// ChangeFieldDefault declares that the newer version changed the field's default.
func ChangeFieldDefault(schema, field string, old, new FieldDefault) SchemaInstruction {
	return SchemaInstruction{
		Kind:    SchemaInstructionChangeDefault,
		Schema:  schema,
		Field:   field,
		Default: &ChangeDefaultArgs{Old: old, New: new},
	}
}

// MakeFieldRequired declares that the newer version made the field required.
// The backfill value, when given, fills the field in older payloads that omit it.
func MakeFieldRequired(schema, field string, backfill ...any) SchemaInstruction {
	args := &RequireFieldArgs{}
	if len(backfill) > 0 {
		args.Backfill = backfill[0]
		args.HasBackfill = true
	}
	return SchemaInstruction{
		Kind:    SchemaInstructionMakeRequired,
		Schema:  schema,
		Field:   field,
		Require: args,
	}
}

// MakeFieldOptional declares that the newer version made the field optional.
func MakeFieldOptional(schema, field string) SchemaInstruction {
	return SchemaInstruction{
		Kind:    SchemaInstructionMakeOptional,
		Schema:  schema,
		Field:   field,
		Require: &RequireFieldArgs{},
	}
}

// NewerSideFields lists the field names the instruction touches as they read
// on the newer side of the change.
func (in SchemaInstruction) NewerSideFields() []string {
	return []string{in.Field}
}

// OlderSideFields lists the field names the instruction touches as they read
// on the older side of the change.
func (in SchemaInstruction) OlderSideFields() []string {
	if in.Kind == SchemaInstructionRenameField && in.Rename != nil {
		return []string{in.Rename.From}
	}
	return []string{in.Field}
}
