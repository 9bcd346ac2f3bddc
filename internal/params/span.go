// File: internal/params/span.go
package params

import (
	"fmt"
	"math/rand"
)

// TagSpan is the wire tag for Span values.
const TagSpan = "Range"

// Span is a (min,max) pair of floats. The bounds are not required to be
// ordered; callers own that contract. Choose tolerates a reversed interval
// by swapping the bounds at draw time, so sampling is always well defined.
type Span struct {
	Min float64
	Max float64
}

// NewSpan builds a Span from its bounds.
func NewSpan(min, max float64) Span {
	return Span{Min: min, Max: max}
}

// Choose draws a uniform random float in [Min, Max].
func (s Span) Choose() float64 {
	lo, hi := s.Min, s.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + rand.Float64()*(hi-lo)
}

func (s Span) TypeTag() string { return TagSpan }

func (s Span) Wire() TaggedValue {
	return TaggedValue{Type: TagSpan, Value: []any{s.Min, s.Max}}
}

// ParseSpan accepts a two-element [min, max] list.
func ParseSpan(raw any) (Span, error) {
	list, ok := asList(raw)
	if !ok || len(list) != 2 {
		return Span{}, &ParseError{Tag: TagSpan, Reason: "value must be a [min, max] pair"}
	}
	min, ok := asFloat(list[0])
	if !ok {
		return Span{}, &ParseError{Tag: TagSpan, Reason: fmt.Sprintf("min %v is not a number", list[0])}
	}
	max, ok := asFloat(list[1])
	if !ok {
		return Span{}, &ParseError{Tag: TagSpan, Reason: fmt.Sprintf("max %v is not a number", list[1])}
	}
	return Span{Min: min, Max: max}, nil
}

// DecodeSpan decodes a tagged Range envelope.
func DecodeSpan(tv TaggedValue) (Span, error) {
	if tv.Type != TagSpan {
		return Span{}, &TagMismatchError{Want: TagSpan, Got: tv.Type}
	}
	return ParseSpan(tv.Value)
}

func init() {
	Register(Codec{
		Tag: TagSpan,
		Parse: func(raw any) (Param, error) {
			return ParseSpan(raw)
		},
		Decode: func(tv TaggedValue) (Param, error) {
			return DecodeSpan(tv)
		},
	})
}
