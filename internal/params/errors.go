// File: internal/params/errors.go
package params

import "fmt"

// ParseError reports loose input that matched none of a variant's recognized
// shapes, or matched a shape whose content is invalid.
type ParseError struct {
	Tag    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("params: cannot parse %s value: %s", e.Tag, e.Reason)
}

// TagMismatchError reports a tagged envelope handed to the wrong variant's
// decoder. Decoders never coerce across tags.
type TagMismatchError struct {
	Want string
	Got  string
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("params: expected type %q, got %q", e.Want, e.Got)
}

// UnknownTagError reports a wire tag with no registered codec.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("params: unknown parameter type %q", e.Tag)
}

// NotFoundError reports an item reference that the configured resolver could
// not satisfy.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("params: no item matches %q", e.Query)
}
