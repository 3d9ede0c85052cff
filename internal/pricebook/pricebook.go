/**
 * @description
 * Price Book: the authoritative item-value source for StatsService and
 * MapService's currency estimates. Tries a remote HTTP endpoint first and
 * falls back to a local JSON file. Load always reads its source;
 * ReloadIfStale skips re-reading the local file when its mtime is not
 * newer than that of the previous local load, which is held in memory.
 * Every load writes a PriceRevision row, but those rows are never read
 * back: the cache is not hydrated from storage, and no Item rows are
 * upserted from the price file. Patch updates one item without a full
 * reload; the worker calls it for every ItemDataChangedEvent.
 *
 * Grounded on the original source's services/price_service.py (remote
 * fetch with local-file fallback and mtime-based skip).
 *
 * @dependencies
 * - standard "encoding/json", "net/http", "os", "sync", "time"
 * - internal/models (PriceRevision bookkeeping)
 * - gorm.io/gorm
 */

package pricebook

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/oracle-observer/backend/internal/logger"
	"github.com/oracle-observer/backend/internal/models"
	"gorm.io/gorm"
)

const fetchTimeout = 10 * time.Second

// PriceBook serves item price lookups, refreshed from a remote URL or a
// local JSON fallback file.
type PriceBook struct {
	db            *gorm.DB
	remoteURL     string
	localPath     string
	log           *logger.Logger

	mu          sync.RWMutex
	prices      map[int]float64
	lastLocalModTime time.Time
}

// New constructs a PriceBook. Call Load to perform the initial fetch.
func New(db *gorm.DB, remoteURL, localPath string) *PriceBook {
	return &PriceBook{db: db, remoteURL: remoteURL, localPath: localPath, prices: map[int]float64{}, log: logger.New("pricebook")}
}

// GetPrice returns the known price for itemID, or 0 if unknown.
func (pb *PriceBook) GetPrice(itemID int) float64 {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	return pb.prices[itemID]
}

// Patch immediately updates one item's price without a full reload,
// matching the live ITEM_DATA_CHANGED path.
func (pb *PriceBook) Patch(itemID int, price float64) {
	pb.mu.Lock()
	pb.prices[itemID] = price
	pb.mu.Unlock()
}

// Load tries the remote endpoint first, falling back to the local JSON
// file if the remote is unset or fails.
func (pb *PriceBook) Load() error {
	if pb.remoteURL != "" {
		if prices, err := pb.fetchRemote(); err == nil {
			pb.set(prices)
			pb.recordRevision(models.PriceSourceRemote, len(prices))
			return nil
		} else {
			pb.log.Warn("remote price fetch failed, falling back to local: %v", err)
		}
	}
	return pb.loadLocal(true)
}

// ReloadIfStale re-reads the local file only if its mtime has advanced
// since the last load, matching the original's skip-reload optimization.
func (pb *PriceBook) ReloadIfStale() error {
	return pb.loadLocal(false)
}

func (pb *PriceBook) loadLocal(force bool) error {
	info, err := os.Stat(pb.localPath)
	if err != nil {
		return err
	}

	pb.mu.RLock()
	stale := force || info.ModTime().After(pb.lastLocalModTime)
	pb.mu.RUnlock()
	if !stale {
		return nil
	}

	data, err := os.ReadFile(pb.localPath)
	if err != nil {
		return err
	}
	var prices map[int]float64
	if err := json.Unmarshal(data, &prices); err != nil {
		return err
	}

	pb.mu.Lock()
	pb.lastLocalModTime = info.ModTime()
	pb.mu.Unlock()

	pb.set(prices)
	pb.recordRevision(models.PriceSourceLocal, len(prices))
	return nil
}

func (pb *PriceBook) fetchRemote() (map[int]float64, error) {
	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Get(pb.remoteURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var prices map[int]float64
	if err := json.Unmarshal(body, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

func (pb *PriceBook) set(prices map[int]float64) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.prices = prices
}

func (pb *PriceBook) recordRevision(source models.PriceSource, itemCount int) {
	if pb.db == nil {
		return
	}
	pb.db.Create(&models.PriceRevision{Source: source, ItemCount: itemCount})
}
