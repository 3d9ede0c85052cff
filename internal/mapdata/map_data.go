/**
 * @description
 * Static map reference data and lookup, with difficulty inference for map
 * IDs absent from the reference table.
 *
 * Grounded on the original source's parsing/parsers/maps/{map_data.py,util.py}:
 * a static map database loaded once from a JSON reference file and cached;
 * when a map_id isn't present the original walks +100 increments searching
 * for a neighboring known entry to infer a difficulty tier, caching the
 * synthesized result. Reference-data content itself (en_id_map_table.json)
 * is out of this repository's scope; this package only implements the
 * lookup/inference algorithm against whatever table is loaded.
 *
 * @dependencies
 * - standard "encoding/json", "os", "sync"
 */

package mapdata

import (
	"encoding/json"
	"os"
	"sync"
)

// Map describes one known or inferred map.
type Map struct {
	MapID      int        `json:"map_id"`
	Name       string     `json:"name"`
	Asset      string     `json:"asset"`
	Area       string     `json:"area"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

type store struct {
	mu      sync.RWMutex
	byID    map[int]Map
	loaded  bool
	path    string
}

var defaultStore = &store{byID: map[int]Map{}, path: "en_id_map_table.json"}

// SetTablePath overrides the default reference-table location. Call before
// the first Lookup.
func SetTablePath(path string) { defaultStore.path = path }

func (s *store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var entries []Map
	if err := json.Unmarshal(data, &entries); err != nil {
		return
	}
	for _, m := range entries {
		s.byID[m.MapID] = m
	}
}

// Lookup returns the Map for mapID. If the ID isn't in the reference
// table, it searches neighboring IDs in +100 increments (matching the
// original's difficulty-inference search) and caches a synthesized entry.
func Lookup(mapID int) Map {
	defaultStore.load()

	defaultStore.mu.RLock()
	if m, ok := defaultStore.byID[mapID]; ok {
		defaultStore.mu.RUnlock()
		return m
	}
	defaultStore.mu.RUnlock()

	inferred := Map{MapID: mapID, Difficulty: inferDifficulty(mapID)}

	defaultStore.mu.Lock()
	defaultStore.byID[mapID] = inferred
	defaultStore.mu.Unlock()

	return inferred
}

// inferDifficulty searches +100 increments from mapID for a known entry
// and borrows its difficulty, matching _get_difficulty_from_id.
func inferDifficulty(mapID int) Difficulty {
	defaultStore.mu.RLock()
	defer defaultStore.mu.RUnlock()
	for candidate := mapID + 100; candidate < mapID+10000; candidate += 100 {
		if m, ok := defaultStore.byID[candidate]; ok && m.Difficulty != "" {
			return m.Difficulty
		}
	}
	return ""
}
