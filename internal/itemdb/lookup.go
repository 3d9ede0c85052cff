/**
 * @description
 * Item reference-data lookup (name/category by numeric item id). Content
 * of the lookup table is out of this repository's scope per the
 * specification; this package only implements the loader and lookup
 * algorithm, grounded on the original source's item_lookup helper used
 * throughout parsing/parsers/item_change.py and market/price_db.py.
 *
 * @dependencies
 * - standard "encoding/json", "os", "sync"
 */

package itemdb

import (
	"encoding/json"
	"os"
	"sync"
)

// Entry describes one known item.
type Entry struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

var (
	mu     sync.RWMutex
	byID   = map[int]Entry{}
	loaded bool
	path   = "item_lookup.json"
)

// SetTablePath overrides the default reference-table location. Call
// before the first Lookup.
func SetTablePath(p string) {
	mu.Lock()
	defer mu.Unlock()
	path = p
	loaded = false
}

func ensureLoaded() {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return
	}
	loaded = true

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var table map[int]Entry
	if err := json.Unmarshal(data, &table); err != nil {
		return
	}
	byID = table
}

// Lookup returns the name/category for itemID, or zero values if unknown.
func Lookup(itemID int) Entry {
	ensureLoaded()
	mu.RLock()
	defer mu.RUnlock()
	return byID[itemID]
}

// Upsert registers or updates an entry, used by the Price Book's live
// ITEM_DATA_CHANGED patch path.
func Upsert(itemID int, e Entry) {
	ensureLoaded()
	mu.Lock()
	defer mu.Unlock()
	byID[itemID] = e
}
