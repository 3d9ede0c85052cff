package services

import (
	"context"
	"testing"
)

type fakeService struct {
	desc       Descriptor
	startOrder *[]string
	startErr   error
	stopErr    error
	postStart  func(ctx context.Context) error
}

func (s *fakeService) Descriptor() Descriptor { return s.desc }

func (s *fakeService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	*s.startOrder = append(*s.startOrder, s.desc.Name)
	return nil
}

func (s *fakeService) Stop(ctx context.Context) error {
	if s.stopErr != nil {
		return s.stopErr
	}
	*s.startOrder = append(*s.startOrder, "stop:"+s.desc.Name)
	return nil
}

type fakePostStartService struct {
	fakeService
	postStarted *bool
}

func (s *fakePostStartService) PostStart(ctx context.Context) error {
	*s.postStarted = true
	return nil
}

func TestStartAllRespectsDependencyOrder(t *testing.T) {
	var order []string
	c := NewContainer()
	c.Register(&fakeService{desc: Descriptor{Name: "map", Version: "1.0.0", Requires: map[string]string{"inventory": ">=1.0.0"}}, startOrder: &order})
	c.Register(&fakeService{desc: Descriptor{Name: "inventory", Version: "1.0.0"}, startOrder: &order})

	if err := c.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}

	if len(order) != 2 || order[0] != "inventory" || order[1] != "map" {
		t.Fatalf("expected inventory before map, got %v", order)
	}
}

func TestStartAllSkipsServiceWithUnregisteredDependency(t *testing.T) {
	var order []string
	c := NewContainer()
	c.Register(&fakeService{desc: Descriptor{Name: "map", Version: "1.0.0", Requires: map[string]string{"inventory": ">=1.0.0"}}, startOrder: &order})
	c.Register(&fakeService{desc: Descriptor{Name: "stats", Version: "1.0.0"}, startOrder: &order})

	if err := c.StartAll(context.Background()); err != nil {
		t.Fatalf("expected an unmet dependency to skip its service, not fail StartAll: %v", err)
	}
	if len(order) != 1 || order[0] != "stats" {
		t.Fatalf("expected only stats to start (map skipped), got %v", order)
	}
}

func TestStartAllSkipsServiceWithUnsatisfiedVersionConstraint(t *testing.T) {
	var order []string
	c := NewContainer()
	c.Register(&fakeService{desc: Descriptor{Name: "map", Version: "1.0.0", Requires: map[string]string{"inventory": ">=2.0.0"}}, startOrder: &order})
	c.Register(&fakeService{desc: Descriptor{Name: "inventory", Version: "1.0.0"}, startOrder: &order})

	if err := c.StartAll(context.Background()); err != nil {
		t.Fatalf("expected an unmet version constraint to skip its service, not fail StartAll: %v", err)
	}
	if len(order) != 1 || order[0] != "inventory" {
		t.Fatalf("expected only inventory to start (map skipped), got %v", order)
	}
}

func TestStartAllDetectsCircularDependency(t *testing.T) {
	var order []string
	c := NewContainer()
	c.Register(&fakeService{desc: Descriptor{Name: "a", Version: "1.0.0", Requires: map[string]string{"b": ">=1.0.0"}}, startOrder: &order})
	c.Register(&fakeService{desc: Descriptor{Name: "b", Version: "1.0.0", Requires: map[string]string{"a": ">=1.0.0"}}, startOrder: &order})

	if err := c.StartAll(context.Background()); err == nil {
		t.Fatal("expected an error for a circular dependency")
	}
}

func TestPostStartRunsAfterEveryServiceHasStarted(t *testing.T) {
	var order []string
	var postStarted bool
	c := NewContainer()
	c.Register(&fakePostStartService{
		fakeService: fakeService{desc: Descriptor{Name: "stream", Version: "1.0.0"}, startOrder: &order},
		postStarted: &postStarted,
	})

	if err := c.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if !postStarted {
		t.Fatal("expected PostStart to run")
	}
}

func TestStopAllRunsInReverseOrderAndSwallowsErrors(t *testing.T) {
	var order []string
	c := NewContainer()
	c.Register(&fakeService{desc: Descriptor{Name: "inventory", Version: "1.0.0"}, startOrder: &order})
	c.Register(&fakeService{desc: Descriptor{Name: "map", Version: "1.0.0", Requires: map[string]string{"inventory": ">=1.0.0"}}, startOrder: &order, stopErr: errBoom})

	if err := c.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	order = nil // discard start-order bookkeeping, only care about stop order now

	c.StopAll(context.Background())
	// map.Stop returns an error and is swallowed (no entry appended); inventory.Stop still runs.
	if len(order) != 1 || order[0] != "stop:inventory" {
		t.Fatalf("expected inventory to still stop despite map's stop error, got %v", order)
	}
}

var errBoom = &stopError{"boom"}

type stopError struct{ msg string }

func (e *stopError) Error() string { return e.msg }

func TestSatisfies(t *testing.T) {
	cases := []struct {
		version, constraint string
		want                bool
	}{
		{"1.0.0", ">=1.0.0", true},
		{"1.0.0", ">1.0.0", false},
		{"1.2.0", ">=1.0.0", true},
		{"0.9.0", ">=1.0.0", false},
		{"2.0.0", "<2.0.0", false},
		{"1.9.9", "<2.0.0", true},
		{"1.0.0", "==1.0.0", true},
		{"1.0.1", "==1.0.0", false},
		{"1.0.1", "!=1.0.0", true},
		{"1.0.0", "1.0.0", true}, // bare version defaults to ==
	}
	for _, tc := range cases {
		got, err := satisfies(tc.version, tc.constraint)
		if err != nil {
			t.Fatalf("satisfies(%q, %q): %v", tc.version, tc.constraint, err)
		}
		if got != tc.want {
			t.Errorf("satisfies(%q, %q) = %v, want %v", tc.version, tc.constraint, got, tc.want)
		}
	}
}
