// File: internal/params/span_test.go
package params

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanChooseBounds(t *testing.T) {
	s := NewSpan(5, 15)
	for i := 0; i < 100; i++ {
		v := s.Choose()
		assert.GreaterOrEqual(t, v, 5.0)
		assert.LessOrEqual(t, v, 15.0)
	}
}

func TestSpanChooseReversedInterval(t *testing.T) {
	// Reversed bounds are tolerated; draws land between them.
	s := NewSpan(15, 5)
	for i := 0; i < 100; i++ {
		v := s.Choose()
		assert.GreaterOrEqual(t, v, 5.0)
		assert.LessOrEqual(t, v, 15.0)
	}
}

func TestParseSpan(t *testing.T) {
	s, err := ParseSpan([]any{0.2, 0.5})
	require.NoError(t, err)
	assert.Equal(t, Span{Min: 0.2, Max: 0.5}, s)

	// json.Number input, as a UseNumber decode produces.
	s, err = ParseSpan([]any{json.Number("1"), json.Number("2.5")})
	require.NoError(t, err)
	assert.Equal(t, Span{Min: 1, Max: 2.5}, s)

	_, err = ParseSpan([]any{1.0})
	assert.Error(t, err)
	_, err = ParseSpan("not a range")
	assert.Error(t, err)
	_, err = ParseSpan([]any{"a", "b"})
	assert.Error(t, err)
}

func TestSpanWireRoundTrip(t *testing.T) {
	s := NewSpan(0.2, 0.5)
	back, err := DecodeSpan(s.Wire())
	require.NoError(t, err)
	assert.Equal(t, s, back)

	data, err := MarshalWire(s)
	require.NoError(t, err)
	p, err := UnmarshalWire(TagSpan, data)
	require.NoError(t, err)
	assert.Equal(t, s, p.(Span))
}

func TestDecodeSpanTagMismatch(t *testing.T) {
	var tm *TagMismatchError
	_, err := DecodeSpan(TaggedValue{Type: TagColor, Value: nil})
	require.ErrorAs(t, err, &tm)
}
