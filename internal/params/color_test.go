// File: internal/params/color_test.go
package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColorValidation(t *testing.T) {
	c, err := NewColor(255, 128, 0)
	require.NoError(t, err)
	assert.Equal(t, 255, c.R())
	assert.Equal(t, 128, c.G())
	assert.Equal(t, 0, c.B())

	for _, bad := range [][3]int{{256, 0, 0}, {-1, 0, 0}, {0, 300, 0}, {0, 0, -5}} {
		_, err := NewColor(bad[0], bad[1], bad[2])
		assert.Error(t, err, "channels %v should be rejected", bad)
		var pe *ParseError
		assert.ErrorAs(t, err, &pe)
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	for _, rgb := range [][3]int{{255, 0, 128}, {0, 0, 0}, {255, 255, 255}, {18, 52, 86}} {
		c := MustColor(rgb[0], rgb[1], rgb[2])
		back, err := ColorFromHex(c.Hex())
		require.NoError(t, err)
		assert.True(t, c.Equal(back), "hex round trip changed %v", rgb)
	}
}

func TestColorFromHex(t *testing.T) {
	withPrefix, err := ColorFromHex("#FF8000")
	require.NoError(t, err)
	assert.True(t, withPrefix.EqualRGB(255, 128, 0))

	withoutPrefix, err := ColorFromHex("00FF80")
	require.NoError(t, err)
	assert.True(t, withoutPrefix.EqualRGB(0, 255, 128))

	_, err = ColorFromHex("nope")
	assert.Error(t, err)
	_, err = ColorFromHex("#FFAA")
	assert.Error(t, err)
}

func TestParseColorShapes(t *testing.T) {
	fromList, err := ParseColor([]any{255, 128, 0})
	require.NoError(t, err)
	assert.True(t, fromList.EqualRGB(255, 128, 0))

	fromInts, err := ParseColor([]int{0, 255, 128})
	require.NoError(t, err)
	assert.True(t, fromInts.EqualRGB(0, 255, 128))

	fromHex, err := ParseColor("#FF0080")
	require.NoError(t, err)
	assert.True(t, fromHex.EqualRGB(255, 0, 128))

	fromObject, err := ParseColor(map[string]any{"rgb": []any{10, 20, 30}})
	require.NoError(t, err)
	assert.True(t, fromObject.EqualRGB(10, 20, 30))

	_, err = ParseColor(42)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseColorPrefersHex(t *testing.T) {
	// hex and rgb disagree here; the contract says hex wins.
	c, err := ParseColor(map[string]any{
		"rgb": []any{0, 0, 0},
		"hex": "#FFFF00",
	})
	require.NoError(t, err)
	assert.True(t, c.EqualRGB(255, 255, 0))
}

func TestColorWireRoundTrip(t *testing.T) {
	c := MustColor(255, 255, 0)
	back, err := DecodeColor(c.Wire())
	require.NoError(t, err)
	assert.True(t, c.Equal(back))

	data, err := MarshalWire(c)
	require.NoError(t, err)
	p, err := UnmarshalWire(TagColor, data)
	require.NoError(t, err)
	assert.True(t, c.Equal(p.(Color)))
}

func TestDecodeColorTagMismatch(t *testing.T) {
	_, err := DecodeColor(TaggedValue{Type: "Range", Value: []any{1, 2}})
	var tm *TagMismatchError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, TagColor, tm.Want)
	assert.Equal(t, "Range", tm.Got)
}
