// File: internal/params/color.go
package params

import (
	"fmt"
	"strconv"
	"strings"
)

// TagColor is the wire tag for Color values.
const TagColor = "RGB"

// Color is an immutable RGB triple. Every channel is guaranteed to be in
// [0,255]; the invariant is enforced at construction and never relaxed.
type Color struct {
	r, g, b int
}

// NewColor builds a Color, rejecting any channel outside [0,255].
func NewColor(r, g, b int) (Color, error) {
	for _, ch := range [3]int{r, g, b} {
		if ch < 0 || ch > 255 {
			return Color{}, &ParseError{Tag: TagColor, Reason: fmt.Sprintf("channel %d out of range [0,255]", ch)}
		}
	}
	return Color{r: r, g: g, b: b}, nil
}

// MustColor is a construction helper for declaring literals; it panics on an
// out-of-range channel.
func MustColor(r, g, b int) Color {
	c, err := NewColor(r, g, b)
	if err != nil {
		panic(err)
	}
	return c
}

// ColorFromHex parses a 6-hex-digit string, with or without a leading '#'.
func ColorFromHex(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return Color{}, &ParseError{Tag: TagColor, Reason: fmt.Sprintf("hex color %q must be 6 digits", s)}
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, &ParseError{Tag: TagColor, Reason: fmt.Sprintf("invalid hex color %q", s)}
	}
	return Color{r: int(n >> 16), g: int(n >> 8 & 0xFF), b: int(n & 0xFF)}, nil
}

func (c Color) R() int { return c.r }
func (c Color) G() int { return c.g }
func (c Color) B() int { return c.b }

// RGB returns the three channels.
func (c Color) RGB() (r, g, b int) { return c.r, c.g, c.b }

// Hex renders the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.r, c.g, c.b)
}

// Equal reports channel-wise equality with another Color.
func (c Color) Equal(other Color) bool { return c == other }

// EqualRGB reports equality against a raw channel triple. Kept as a separate
// comparison so equality stays totally defined per operand shape.
func (c Color) EqualRGB(r, g, b int) bool {
	return c.r == r && c.g == g && c.b == b
}

func (c Color) TypeTag() string { return TagColor }

// Wire encodes both redundant forms; decode prefers hex when both are
// present, and the two must agree by construction.
func (c Color) Wire() TaggedValue {
	return TaggedValue{Type: TagColor, Value: map[string]any{
		"rgb": []any{c.r, c.g, c.b},
		"hex": c.Hex(),
	}}
}

// colorShape is one recognized loose input form. Matchers are tried in
// order; the bool reports whether the shape applied at all.
type colorShape func(raw any) (Color, bool, error)

var colorShapes = []colorShape{colorFromTripleShape, colorFromHexShape, colorFromObjectShape}

func colorFromTripleShape(raw any) (Color, bool, error) {
	list, ok := asList(raw)
	if !ok || len(list) != 3 {
		return Color{}, false, nil
	}
	var ch [3]int
	for i, elem := range list {
		n, ok := asInt(elem)
		if !ok {
			return Color{}, true, &ParseError{Tag: TagColor, Reason: fmt.Sprintf("channel %v is not an integer", elem)}
		}
		ch[i] = n
	}
	c, err := NewColor(ch[0], ch[1], ch[2])
	return c, true, err
}

func colorFromHexShape(raw any) (Color, bool, error) {
	s, ok := raw.(string)
	if !ok {
		return Color{}, false, nil
	}
	c, err := ColorFromHex(s)
	return c, true, err
}

func colorFromObjectShape(raw any) (Color, bool, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Color{}, false, nil
	}
	// hex wins over rgb; they are redundant encodings of the same value.
	if hex, ok := obj["hex"].(string); ok {
		c, err := ColorFromHex(hex)
		return c, true, err
	}
	if rgb, ok := obj["rgb"]; ok {
		c, _, err := colorFromTripleShape(rgb)
		return c, true, err
	}
	return Color{}, true, &ParseError{Tag: TagColor, Reason: "object carries neither \"hex\" nor \"rgb\""}
}

// ParseColor accepts a [r,g,b] list, a hex string, or an {rgb,hex} object.
func ParseColor(raw any) (Color, error) {
	for _, shape := range colorShapes {
		c, matched, err := shape(raw)
		if matched {
			return c, err
		}
	}
	return Color{}, &ParseError{Tag: TagColor, Reason: fmt.Sprintf("unrecognized shape %T", raw)}
}

// DecodeColor decodes a tagged Color envelope.
func DecodeColor(tv TaggedValue) (Color, error) {
	if tv.Type != TagColor {
		return Color{}, &TagMismatchError{Want: TagColor, Got: tv.Type}
	}
	return ParseColor(tv.Value)
}

func init() {
	Register(Codec{
		Tag: TagColor,
		Parse: func(raw any) (Param, error) {
			return ParseColor(raw)
		},
		Decode: func(tv TaggedValue) (Param, error) {
			return DecodeColor(tv)
		},
	})
}
