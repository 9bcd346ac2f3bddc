// File: internal/params/params.go
// Description: The closed set of typed bot parameters, their tagged wire
// format, and the registry that maps a wire tag to the variant's codec.
package params

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// jsonAPI is the shared jsoniter config used for every wire encode/decode.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Param is the capability set shared by every parameter variant. Values are
// immutable once constructed; mutating operations (Route.Reverse) return a
// fresh value.
type Param interface {
	// TypeTag returns the constant wire tag identifying the variant.
	TypeTag() string
	// Wire returns the canonical tagged form. The Value inside is always
	// built from JSON-shaped primitives (map[string]any, []any, string,
	// bool, int, float64) so that in-memory and post-JSON decoding see the
	// same shapes.
	Wire() TaggedValue
}

// TaggedValue is the canonical {"type": ..., "value": ...} wire envelope.
type TaggedValue struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Map renders the envelope as a plain map, the shape a JSON round trip
// produces. Container export uses this so exported documents are uniform.
func (tv TaggedValue) Map() map[string]any {
	return map[string]any{"type": tv.Type, "value": tv.Value}
}

// Codec bundles the parse/decode routines for one variant. Parse accepts the
// variant's documented loose input shapes; Decode accepts a tagged envelope
// and must reject a mismatched tag.
type Codec struct {
	Tag    string
	Parse  func(raw any) (Param, error)
	Decode func(tv TaggedValue) (Param, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Codec{}
)

// Register installs a variant codec. It panics on a duplicate tag; variants
// register themselves from init so a collision is a programming error.
func Register(c Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[c.Tag]; dup {
		panic("params: Register called twice for tag " + c.Tag)
	}
	registry[c.Tag] = c
}

// Lookup returns the codec registered for tag.
func Lookup(tag string) (Codec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[tag]
	return c, ok
}

// Tags returns every registered wire tag, sorted.
func Tags() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	tags := make([]string, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Envelope extracts a tagged envelope from raw, if raw carries one. Both the
// post-JSON map form and the in-memory TaggedValue form are recognized.
func Envelope(raw any) (TaggedValue, bool) {
	switch v := raw.(type) {
	case TaggedValue:
		return v, true
	case map[string]any:
		tag, ok := v["type"].(string)
		if !ok {
			return TaggedValue{}, false
		}
		return TaggedValue{Type: tag, Value: v["value"]}, true
	}
	return TaggedValue{}, false
}

// DecodeAny decodes raw into the variant identified by want. Tagged input is
// routed through the registry (rejecting unknown or mismatched tags); bare
// input is treated as the variant's loose form. This is the single dispatch
// point shared by nested decoding and the configuration container.
func DecodeAny(want string, raw any) (Param, error) {
	codec, ok := Lookup(want)
	if !ok {
		return nil, &UnknownTagError{Tag: want}
	}
	if tv, tagged := Envelope(raw); tagged {
		if _, known := Lookup(tv.Type); !known {
			return nil, &UnknownTagError{Tag: tv.Type}
		}
		if tv.Type != want {
			return nil, &TagMismatchError{Want: want, Got: tv.Type}
		}
		return codec.Decode(tv)
	}
	return codec.Parse(raw)
}

// UnmarshalWire decodes a JSON document holding one tagged value of the
// expected variant.
func UnmarshalWire(want string, data []byte) (Param, error) {
	dec := jsonAPI.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &ParseError{Tag: want, Reason: "invalid JSON: " + err.Error()}
	}
	return DecodeAny(want, raw)
}

// MarshalWire renders a parameter as its canonical JSON document.
func MarshalWire(p Param) ([]byte, error) {
	return jsonAPI.Marshal(p.Wire())
}

// -- loose-input coercion helpers --
//
// Loose values arrive either as native Go values (programmatic use) or as the
// types a UseNumber JSON decode produces (json.Number for every numeric
// literal). The helpers below accept both, preserving the int/float literal
// distinction: "2" is an int, "2.0" is not.

func asInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int(v), true
		}
	case json.Number:
		if isFloatLiteral(string(v)) {
			return 0, false
		}
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	}
	return 0, false
}

func asFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}

func asList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []int:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out, true
	case []float64:
		out := make([]any, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func isFloatLiteral(lit string) bool {
	return strings.ContainsAny(lit, ".eE")
}
