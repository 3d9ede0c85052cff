package pricebook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLocalFile(t *testing.T, prices map[int]float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.json")
	data, err := json.Marshal(prices)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadPrefersRemoteWhenAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[int]float64{1: 10.5})
	}))
	defer srv.Close()

	local := writeLocalFile(t, map[int]float64{1: 999})

	pb := New(nil, srv.URL, local)
	if err := pb.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := pb.GetPrice(1); got != 10.5 {
		t.Fatalf("expected remote price to win, got %v", got)
	}
}

func TestLoadFallsBackToLocalWhenRemoteFails(t *testing.T) {
	local := writeLocalFile(t, map[int]float64{2: 3.25})

	pb := New(nil, "http://127.0.0.1:0/unreachable", local)
	if err := pb.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := pb.GetPrice(2); got != 3.25 {
		t.Fatalf("expected local fallback price, got %v", got)
	}
}

func TestLoadWithNoRemoteUsesLocal(t *testing.T) {
	local := writeLocalFile(t, map[int]float64{3: 1})

	pb := New(nil, "", local)
	if err := pb.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := pb.GetPrice(3); got != 1 {
		t.Fatalf("expected local price 1, got %v", got)
	}
}

func TestGetPriceUnknownItemIsZero(t *testing.T) {
	pb := New(nil, "", "")
	if got := pb.GetPrice(12345); got != 0 {
		t.Fatalf("expected 0 for unknown item, got %v", got)
	}
}

func TestPatchUpdatesImmediatelyWithoutReload(t *testing.T) {
	pb := New(nil, "", "")
	pb.Patch(5, 7.5)
	if got := pb.GetPrice(5); got != 7.5 {
		t.Fatalf("expected patched price 7.5, got %v", got)
	}
}

func TestReloadIfStaleSkipsUnchangedFile(t *testing.T) {
	local := writeLocalFile(t, map[int]float64{9: 1})
	pb := New(nil, "", local)
	if err := pb.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Overwrite the live price in memory, then confirm an immediate
	// ReloadIfStale (same mtime) does not clobber it back from disk.
	pb.Patch(9, 42)
	if err := pb.ReloadIfStale(); err != nil {
		t.Fatalf("ReloadIfStale: %v", err)
	}
	if got := pb.GetPrice(9); got != 42 {
		t.Fatalf("expected ReloadIfStale to skip an unchanged file, got %v", got)
	}

	// Bump the mtime forward and rewrite with a new value; now it must reload.
	future := time.Now().Add(time.Minute)
	data, _ := json.Marshal(map[int]float64{9: 100})
	if err := os.WriteFile(local, data, 0o644); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}
	if err := os.Chtimes(local, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := pb.ReloadIfStale(); err != nil {
		t.Fatalf("ReloadIfStale: %v", err)
	}
	if got := pb.GetPrice(9); got != 100 {
		t.Fatalf("expected ReloadIfStale to pick up the updated file, got %v", got)
	}
}
