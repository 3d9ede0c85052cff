/**
 * @description
 * Static level-to-required-experience reference table, lazily loaded once
 * from a JSON file and cached in memory.
 *
 * Grounded on the original source's services/experience_service.py's
 * _load_experience_table: a one-time load of a {level: exp_required} map
 * from Experience.json, nested under a "levels" key as the game's own
 * export format stores it.
 *
 * @dependencies
 * - standard "encoding/json", "os", "sync"
 */

package expdata

import (
	"encoding/json"
	"os"
	"sync"
)

type levelEntry struct {
	ID  int `json:"Id"`
	Exp int `json:"Exp"`
}

type levelsFile struct {
	Levels [][]levelEntry `json:"levels"`
}

type store struct {
	mu       sync.RWMutex
	required map[int]int
	loaded   bool
	path     string
}

var defaultStore = &store{required: map[int]int{}, path: "Experience.json"}

// SetTablePath overrides the default reference-table location. Call before
// the first RequiredExp.
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
	var parsed levelsFile
	if err := json.Unmarshal(data, &parsed); err != nil || len(parsed.Levels) == 0 {
		return
	}
	for _, entry := range parsed.Levels[0] {
		s.required[entry.ID] = entry.Exp
	}
}

// RequiredExp returns the total experience required to complete level, and
// whether the level is present in the reference table.
func RequiredExp(level int) (int, bool) {
	defaultStore.load()
	defaultStore.mu.RLock()
	defer defaultStore.mu.RUnlock()
	total, ok := defaultStore.required[level]
	return total, ok
}
