package migrate

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rpattn/verge/internal/domain"
)

// UnknownVersionError reports a request that named a version absent from the
// chain. It maps to a client error at the transport boundary.
type UnknownVersionError struct {
	Key domain.VersionKey
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("unknown version %q", e.Key)
}

// UnmigratableFieldError reports a field that cannot be translated exactly,
// typically because a backward caster is missing or a removed field cannot be
// reconstructed. The engine never emits a guessed or partial payload instead.
type UnmigratableFieldError struct {
	Schema  string
	Field   string
	Change  string
	Version domain.VersionKey
	Reason  string
}

func (e *UnmigratableFieldError) Error() string {
	return fmt.Sprintf("field %s.%s cannot be migrated at version %s (change %q): %s",
		e.Schema, e.Field, e.Version, e.Change, e.Reason)
}

// SideEffectError wraps a failure raised by a change's custom transform. The
// change ID keeps the report unambiguous when changes share a name.
type SideEffectError struct {
	Change    string
	ChangeID  uuid.UUID
	Direction domain.Direction
	Err       error
}

func (e *SideEffectError) Error() string {
	return fmt.Sprintf("%s side-effect of change %q (%s) failed: %v", e.Direction, e.Change, e.ChangeID, e.Err)
}

func (e *SideEffectError) Unwrap() error {
	return e.Err
}
