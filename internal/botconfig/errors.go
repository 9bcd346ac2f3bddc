// File: internal/botconfig/errors.go
package botconfig

import "fmt"

// ErrorKind classifies container import failures.
type ErrorKind int

const (
	// UnknownField reports an update key with no matching profile field.
	UnknownField ErrorKind = iota
	// TypeMismatch reports an incoming value whose runtime type does not
	// exactly match the field's current type.
	TypeMismatch
	// UnsupportedFieldType reports a profile field whose representation the
	// container cannot import into.
	UnsupportedFieldType
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownField:
		return "unknown field"
	case TypeMismatch:
		return "type mismatch"
	case UnsupportedFieldType:
		return "unsupported field type"
	}
	return "unknown error kind"
}

// FieldError is an import failure tied to one update key.
type FieldError struct {
	Field  string
	Kind   ErrorKind
	Detail string
}

func (e *FieldError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("botconfig: field %q: %s", e.Field, e.Kind)
	}
	return fmt.Sprintf("botconfig: field %q: %s: %s", e.Field, e.Kind, e.Detail)
}
