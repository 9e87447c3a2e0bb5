package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrAlreadyVerified  = errors.New("company already verified")
	ErrInvalidFilter    = errors.New("invalid filter")
)

// FieldCoercionError reports a patch value that could not be coerced to the
// entity field's type. The diff engine logs it and skips the field instead of
// failing the request.
type FieldCoercionError struct {
	Field string
	Raw   string
}

func (e *FieldCoercionError) Error() string {
	return fmt.Sprintf("cannot coerce field %s value %q", e.Field, e.Raw)
}

// AmbiguousLookupError is returned when a lookup that must identify a single
// row matches more than one. The request fails instead of silently picking a
// winner.
type AmbiguousLookupError struct {
	Entity  string
	Matches int
}

func (e *AmbiguousLookupError) Error() string {
	return fmt.Sprintf("ambiguous %s lookup: %d rows match", e.Entity, e.Matches)
}

// AuditWriteError wraps a failed action-record insert. The event bus collects
// it; the triggering business mutation stands.
type AuditWriteError struct {
	Err error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("write action record: %v", e.Err)
}

func (e *AuditWriteError) Unwrap() error {
	return e.Err
}
