// File: internal/params/item_test.go
package params

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver is a minimal in-memory Resolver for tests.
type fakeResolver struct {
	items []ItemInfo
}

func (f *fakeResolver) ByID(id int) (ItemInfo, bool) {
	for _, it := range f.items {
		if it.ID == id {
			return it, true
		}
	}
	return ItemInfo{}, false
}

func (f *fakeResolver) ByName(name string) (ItemInfo, bool) {
	for _, it := range f.items {
		if strings.EqualFold(it.Name, name) {
			return it, true
		}
	}
	return ItemInfo{}, false
}

func installFakeResolver(t *testing.T) {
	t.Helper()
	SetResolver(&fakeResolver{items: []ItemInfo{
		{ID: 440, Name: "Iron ore", Cost: 17, TradeableOnGE: true},
		{ID: 453, Name: "Coal", Cost: 45, TradeableOnGE: true},
		{ID: 449, Name: "Adamantite ore", Cost: 400, TradeableOnGE: true},
	}})
	t.Cleanup(func() { SetResolver(nil) })
}

func TestItemResolution(t *testing.T) {
	installFakeResolver(t)

	byName, err := ItemByName("iron ORE")
	require.NoError(t, err)
	assert.Equal(t, 440, byName.ID())
	assert.Equal(t, "Iron ore", byName.Name())

	byID, err := ItemByID(440)
	require.NoError(t, err)
	assert.True(t, byName.Equal(byID))
}

func TestItemNotFound(t *testing.T) {
	installFakeResolver(t)

	var nf *NotFoundError
	_, err := ItemByName("This item does not exist")
	require.ErrorAs(t, err, &nf)

	_, err = ItemByID(999999)
	require.ErrorAs(t, err, &nf)
}

func TestItemNoResolverConfigured(t *testing.T) {
	SetResolver(nil)
	_, err := ItemByID(440)
	assert.Error(t, err)
}

func TestItemComparisons(t *testing.T) {
	installFakeResolver(t)

	coal, err := ItemByName("Coal")
	require.NoError(t, err)

	assert.True(t, coal.MatchesID(453))
	assert.False(t, coal.MatchesID(440))
	assert.True(t, coal.MatchesName("coal"))
	assert.True(t, coal.MatchesName("COAL"))
	assert.False(t, coal.MatchesName("Iron ore"))
}

func TestParseItemShapes(t *testing.T) {
	installFakeResolver(t)

	fromName, err := ParseItem("Coal")
	require.NoError(t, err)
	assert.Equal(t, 453, fromName.ID())

	fromID, err := ParseItem(453)
	require.NoError(t, err)
	assert.Equal(t, 453, fromID.ID())

	fromNameObj, err := ParseItem(map[string]any{"name": "Adamantite ore"})
	require.NoError(t, err)
	assert.Equal(t, 449, fromNameObj.ID())

	fromIDObj, err := ParseItem(map[string]any{"id": 449})
	require.NoError(t, err)
	assert.Equal(t, 449, fromIDObj.ID())

	// id wins when both keys are present.
	both, err := ParseItem(map[string]any{"id": 440, "name": "Coal"})
	require.NoError(t, err)
	assert.Equal(t, 440, both.ID())

	_, err = ParseItem(map[string]any{"cost": 17})
	assert.Error(t, err)
	_, err = ParseItem(3.7)
	assert.Error(t, err)
}

func TestItemWireRoundTrip(t *testing.T) {
	installFakeResolver(t)

	coal, err := ItemByName("Coal")
	require.NoError(t, err)

	back, err := DecodeItem(coal.Wire())
	require.NoError(t, err)
	assert.True(t, coal.Equal(back))

	data, err := MarshalWire(coal)
	require.NoError(t, err)
	p, err := UnmarshalWire(TagItem, data)
	require.NoError(t, err)
	assert.True(t, coal.Equal(p.(Item)))
}
