package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/expdata"
)

// init seeds a fixture experience table before any test in this file (or
// any other package test reaching expdata.RequiredExp) runs, since the
// table is loaded once and cached for the life of the process.
func init() {
	dir, err := os.MkdirTemp("", "expdata")
	if err != nil {
		return
	}
	path := filepath.Join(dir, "Experience.json")
	os.WriteFile(path, []byte(`{"levels": [[{"Id": 1, "Exp": 100}, {"Id": 2, "Exp": 250}]]}`), 0o644)
	expdata.SetTablePath(path)
}

func newTestExperienceService(t *testing.T) *ExperienceService {
	t.Helper()
	bus := eventbus.New()
	svc := NewExperienceService(NewBase(nil, bus, "experience"))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return svc
}

func TestExperienceServicePublishProgressComputesRemainingAndPercentage(t *testing.T) {
	svc := newTestExperienceService(t)

	var captured events.LevelProgressEvent
	svc.Bus.Subscribe(eventbus.EventLevelProgress, func(_ context.Context, evt eventbus.Event) {
		captured = evt.(events.LevelProgressEvent)
	})

	svc.publishProgress(context.Background(), 1, 40)

	if captured.Remaining != 60 {
		t.Fatalf("expected remaining 60, got %d", captured.Remaining)
	}
	if captured.Percentage != 40 {
		t.Fatalf("expected percentage 40, got %v", captured.Percentage)
	}
	if captured.LevelTotal != 100 {
		t.Fatalf("expected level total 100, got %d", captured.LevelTotal)
	}
}

func TestExperienceServicePublishProgressClampsRemainingAtZero(t *testing.T) {
	svc := newTestExperienceService(t)

	var captured events.LevelProgressEvent
	svc.Bus.Subscribe(eventbus.EventLevelProgress, func(_ context.Context, evt eventbus.Event) {
		captured = evt.(events.LevelProgressEvent)
	})

	// Over the level's requirement (can happen transiently): remaining must
	// never go negative.
	svc.publishProgress(context.Background(), 1, 150)

	if captured.Remaining != 0 {
		t.Fatalf("expected remaining clamped to 0, got %d", captured.Remaining)
	}
}

func TestExperienceServicePublishProgressSkipsUnknownLevel(t *testing.T) {
	svc := newTestExperienceService(t)

	published := false
	svc.Bus.Subscribe(eventbus.EventLevelProgress, func(_ context.Context, evt eventbus.Event) {
		published = true
	})

	svc.publishProgress(context.Background(), 9999, 10)

	if published {
		t.Fatal("expected no LEVEL_PROGRESS for a level absent from the reference table")
	}
}
