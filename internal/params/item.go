// File: internal/params/item.go
package params

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// TagItem is the wire tag for Item values.
const TagItem = "Item"

// ItemInfo is the resolved, read-only description of a game item. The wire
// form carries all of it, but only id (or name) is used to re-resolve on
// decode.
type ItemInfo struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	TradeableOnGE bool   `json:"tradeable_on_ge"`
	Members       bool   `json:"members"`
	Noted         bool   `json:"noted"`
	Noteable      bool   `json:"noteable"`
	Placeholder   bool   `json:"placeholder"`
	Stackable     bool   `json:"stackable"`
	Equipable     bool   `json:"equipable"`
	Cost          int    `json:"cost"`
	LowAlch       int    `json:"lowalch"`
	HighAlch      int    `json:"highalch"`
}

// Resolver is the injected lookup capability Item construction depends on.
// Name lookups are case-insensitive.
type Resolver interface {
	ByID(id int) (ItemInfo, bool)
	ByName(name string) (ItemInfo, bool)
}

var (
	resolverMu sync.RWMutex
	resolver   Resolver
)

// SetResolver installs the item lookup used by Item construction. It is
// called once at startup with the loaded item database; tests install fakes.
func SetResolver(r Resolver) {
	resolverMu.Lock()
	defer resolverMu.Unlock()
	resolver = r
}

func currentResolver() (Resolver, error) {
	resolverMu.RLock()
	defer resolverMu.RUnlock()
	if resolver == nil {
		return nil, fmt.Errorf("params: no item resolver configured")
	}
	return resolver, nil
}

// Item is a reference to a game item, resolved at construction time against
// the injected Resolver.
type Item struct {
	info ItemInfo
}

// ItemByID resolves an item by numeric id.
func ItemByID(id int) (Item, error) {
	r, err := currentResolver()
	if err != nil {
		return Item{}, err
	}
	info, ok := r.ByID(id)
	if !ok {
		return Item{}, &NotFoundError{Query: strconv.Itoa(id)}
	}
	return Item{info: info}, nil
}

// ItemByName resolves an item by case-insensitive name.
func ItemByName(name string) (Item, error) {
	r, err := currentResolver()
	if err != nil {
		return Item{}, err
	}
	info, ok := r.ByName(name)
	if !ok {
		return Item{}, &NotFoundError{Query: name}
	}
	return Item{info: info}, nil
}

// Info returns the full resolved description.
func (i Item) Info() ItemInfo { return i.info }
func (i Item) ID() int        { return i.info.ID }
func (i Item) Name() string   { return i.info.Name }

// Equal compares two items by resolved id.
func (i Item) Equal(other Item) bool { return i.info.ID == other.info.ID }

// MatchesID compares against a raw id.
func (i Item) MatchesID(id int) bool { return i.info.ID == id }

// MatchesName compares against a raw name, case-insensitively.
func (i Item) MatchesName(name string) bool {
	return strings.EqualFold(i.info.Name, name)
}

func (i Item) TypeTag() string { return TagItem }

func (i Item) Wire() TaggedValue {
	return TaggedValue{Type: TagItem, Value: map[string]any{
		"id":              i.info.ID,
		"name":            i.info.Name,
		"tradeable_on_ge": i.info.TradeableOnGE,
		"members":         i.info.Members,
		"noted":           i.info.Noted,
		"noteable":        i.info.Noteable,
		"placeholder":     i.info.Placeholder,
		"stackable":       i.info.Stackable,
		"equipable":       i.info.Equipable,
		"cost":            i.info.Cost,
		"lowalch":         i.info.LowAlch,
		"highalch":        i.info.HighAlch,
	}}
}

// ParseItem accepts a name string, an integer id, or an object carrying "id"
// and/or "name". When both keys are present the id wins.
func ParseItem(raw any) (Item, error) {
	switch v := raw.(type) {
	case string:
		return ItemByName(v)
	case map[string]any:
		if id, ok := v["id"]; ok {
			n, ok := asInt(id)
			if !ok {
				return Item{}, &ParseError{Tag: TagItem, Reason: fmt.Sprintf("id %v is not an integer", id)}
			}
			return ItemByID(n)
		}
		if name, ok := v["name"].(string); ok {
			return ItemByName(name)
		}
		return Item{}, &ParseError{Tag: TagItem, Reason: "object carries neither \"id\" nor \"name\""}
	}
	if id, ok := asInt(raw); ok {
		return ItemByID(id)
	}
	return Item{}, &ParseError{Tag: TagItem, Reason: fmt.Sprintf("unrecognized shape %T", raw)}
}

// DecodeItem decodes a tagged Item envelope, re-resolving against the
// current resolver rather than trusting the serialized descriptive fields.
func DecodeItem(tv TaggedValue) (Item, error) {
	if tv.Type != TagItem {
		return Item{}, &TagMismatchError{Want: TagItem, Got: tv.Type}
	}
	return ParseItem(tv.Value)
}

func init() {
	Register(Codec{
		Tag: TagItem,
		Parse: func(raw any) (Param, error) {
			return ParseItem(raw)
		},
		Decode: func(tv TaggedValue) (Param, error) {
			return DecodeItem(tv)
		},
	})
}
