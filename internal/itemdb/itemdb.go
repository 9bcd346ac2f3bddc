// File: internal/itemdb/itemdb.go
// Description: In-memory item database loaded from the game's item cache
// dump. It backs the params.Item resolver and the control plane's item
// search endpoint.
package itemdb

import (
	"fmt"
	"os"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/nullmantle/pixelpilot/internal/params"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// rawItem is one entry of the item cache dump. The linked ids carry the
// dump's noted/placeholder duplication structure.
type rawItem struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	TradeableOnGE       bool   `json:"tradeable_on_ge"`
	Members             bool   `json:"members"`
	Noted               bool   `json:"noted"`
	Noteable            bool   `json:"noteable"`
	Placeholder         bool   `json:"placeholder"`
	Stackable           bool   `json:"stackable"`
	Equipable           bool   `json:"equipable"`
	Cost                int    `json:"cost"`
	LowAlch             int    `json:"lowalch"`
	HighAlch            int    `json:"highalch"`
	LinkedIDItem        *int   `json:"linked_id_item"`
	LinkedIDPlaceholder *int   `json:"linked_id_placeholder"`
}

// DB is the loaded, indexed item set. It is immutable after Load and safe
// for concurrent use.
type DB struct {
	byID   map[int]params.ItemInfo
	byName map[string]params.ItemInfo
	log    *zap.Logger
}

// Load reads an item cache dump from disk and indexes it.
func Load(path string, log *zap.Logger) (*DB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("itemdb: reading %s: %w", path, err)
	}
	db, err := Parse(data, log)
	if err != nil {
		return nil, fmt.Errorf("itemdb: %s: %w", path, err)
	}
	return db, nil
}

// Parse indexes an item cache dump held in memory.
func Parse(data []byte, log *zap.Logger) (*DB, error) {
	var items map[string]rawItem
	if err := jsonAPI.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding item dump: %w", err)
	}

	db := &DB{
		byID:   make(map[int]params.ItemInfo, len(items)),
		byName: make(map[string]params.ItemInfo, len(items)),
		log:    log.Named("itemdb"),
	}

	// Iterate ids in order so the duplicate-filtering rule below is
	// deterministic regardless of map order.
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		raw := items[k]
		// The dump carries noted/placeholder duplicates of the same item;
		// keep the canonical entry (no linked item, has a placeholder) and
		// otherwise first id wins.
		canonical := raw.LinkedIDItem == nil && raw.LinkedIDPlaceholder != nil
		if _, seen := db.byID[raw.ID]; seen && !canonical {
			continue
		}
		info := params.ItemInfo{
			ID:            raw.ID,
			Name:          raw.Name,
			TradeableOnGE: raw.TradeableOnGE,
			Members:       raw.Members,
			Noted:         raw.Noted,
			Noteable:      raw.Noteable,
			Placeholder:   raw.Placeholder,
			Stackable:     raw.Stackable,
			Equipable:     raw.Equipable,
			Cost:          raw.Cost,
			LowAlch:       raw.LowAlch,
			HighAlch:      raw.HighAlch,
		}
		db.byID[info.ID] = info
		db.byName[strings.ToLower(info.Name)] = info
	}

	db.log.Info("item database loaded", zap.Int("items", len(db.byID)))
	return db, nil
}

// ByID implements params.Resolver.
func (db *DB) ByID(id int) (params.ItemInfo, bool) {
	info, ok := db.byID[id]
	return info, ok
}

// ByName implements params.Resolver. Lookup is case-insensitive.
func (db *DB) ByName(name string) (params.ItemInfo, bool) {
	info, ok := db.byName[strings.ToLower(name)]
	return info, ok
}

// Len returns the number of indexed items.
func (db *DB) Len() int { return len(db.byID) }

// Search returns up to limit items whose names match query, ordered by
// relevance: exact matches first, then prefix matches, then substring
// matches. Ties order by id.
func (db *DB) Search(query string, limit int) []params.ItemInfo {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	type scored struct {
		info params.ItemInfo
		rank int
	}
	var hits []scored
	for _, info := range db.byID {
		name := strings.ToLower(info.Name)
		switch {
		case name == query:
			hits = append(hits, scored{info, 0})
		case strings.HasPrefix(name, query):
			hits = append(hits, scored{info, 1})
		case strings.Contains(name, query):
			hits = append(hits, scored{info, 2})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		return hits[i].info.ID < hits[j].info.ID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]params.ItemInfo, len(hits))
	for i, h := range hits {
		out[i] = h.info
	}
	return out
}
