package stack

import (
	"math/rand"
	"testing"

	"github.com/philipparndt/godtr/internal/events"
)

type fixedCount int

func (n fixedCount) Count() int { return int(n) }

type signals struct {
	changes map[events.Action]int
	state   map[events.Action]bool
}

func record(bus *events.Bus) *signals {
	s := &signals{changes: map[events.Action]int{}, state: map[events.Action]bool{}}
	bus.On(events.EnableChanged, func(e events.Event) {
		s.changes[e.Action]++
		s.state[e.Action] = e.Enabled
	})
	return s
}

func expectSignals(t *testing.T, c *Cursor, s *signals, first, prev, next, last bool) {
	t.Helper()
	want := map[events.Action]bool{events.First: first, events.Prev: prev, events.Next: next, events.Last: last}
	for a, w := range want {
		if c.Enabled(a) != w {
			t.Errorf("Enabled(%s) = %v, want %v", a, c.Enabled(a), w)
		}
		if s.state[a] != w {
			t.Errorf("signalled %s = %v, want %v", a, s.state[a], w)
		}
	}
}

func TestScenarioThreeImages(t *testing.T) {
	bus := events.NewBus()
	s := record(bus)
	var refreshed []int
	c := New(fixedCount(3), bus, func(i int) { refreshed = append(refreshed, i) })
	c.Goto(1)
	expectSignals(t, c, s, true, true, true, true)

	if !c.Prev() || c.Index() != 0 {
		t.Fatalf("expected index 0, got %d", c.Index())
	}
	expectSignals(t, c, s, false, false, true, true)

	c.Next()
	c.Next()
	if c.Index() != 2 {
		t.Fatalf("expected index 2, got %d", c.Index())
	}
	expectSignals(t, c, s, true, true, false, false)

	want := []int{1, 0, 1, 2}
	if len(refreshed) != len(want) {
		t.Fatalf("expected refreshes %v, got %v", want, refreshed)
	}
	for i := range want {
		if refreshed[i] != want[i] {
			t.Errorf("expected refreshes %v, got %v", want, refreshed)
			break
		}
	}
}

func TestBoundariesAreNoOps(t *testing.T) {
	bus := events.NewBus()
	renders := 0
	bus.On(events.RenderRequested, func(events.Event) { renders++ })
	calls := 0
	c := New(fixedCount(4), bus, func(int) { calls++ })

	if c.Prev() {
		t.Error("prev at 0 should be a no-op")
	}
	c.Last()
	if c.Next() {
		t.Error("next at the end should be a no-op")
	}
	if c.Index() != 3 {
		t.Errorf("expected index 3, got %d", c.Index())
	}
	if calls != 1 || renders != 1 {
		t.Errorf("expected 1 refresh and 1 render, got %d and %d", calls, renders)
	}
}

func TestRandomWalkStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 1; n <= 6; n++ {
		c := New(fixedCount(n), events.NewBus(), nil)
		c.Goto(rng.Intn(n))
		for i := 0; i < 200; i++ {
			if rng.Intn(2) == 0 {
				c.Next()
			} else {
				c.Prev()
			}
			if c.Index() < 0 || c.Index() >= n {
				t.Fatalf("index %d out of range for count %d", c.Index(), n)
			}
		}
	}
}

func TestSingleImageDisablesEverything(t *testing.T) {
	bus := events.NewBus()
	s := record(bus)
	c := New(fixedCount(1), bus, nil)

	expectSignals(t, c, s, false, false, false, false)
	if c.First() || c.Last() || c.Next() || c.Prev() {
		t.Error("navigation on a single image should not change the index")
	}
}

func TestEmptySequence(t *testing.T) {
	bus := events.NewBus()
	s := record(bus)
	calls := 0
	c := New(fixedCount(0), bus, func(int) { calls++ })

	expectSignals(t, c, s, false, false, false, false)
	c.First()
	c.Last()
	c.Next()
	c.Goto(5)
	if c.Index() != 0 || calls != 0 {
		t.Errorf("expected no navigation, got index %d and %d refreshes", c.Index(), calls)
	}
}

func TestSignalsOnlyOnChange(t *testing.T) {
	bus := events.NewBus()
	s := record(bus)
	c := New(fixedCount(5), bus, nil)

	c.Goto(1)
	c.Goto(2)
	c.Goto(3)

	// first/prev turned on once, next/last never changed
	if s.changes[events.First] != 2 || s.changes[events.Next] != 1 {
		t.Errorf("unexpected signal counts %v", s.changes)
	}
}

func TestGotoClamps(t *testing.T) {
	c := New(fixedCount(3), events.NewBus(), nil)
	c.Goto(10)
	if c.Index() != 2 {
		t.Errorf("expected 2, got %d", c.Index())
	}
	c.Goto(-4)
	if c.Index() != 0 {
		t.Errorf("expected 0, got %d", c.Index())
	}
}

func TestSyncAfterShrink(t *testing.T) {
	n := fixedCount(5)
	images := &n
	c := New(countPtr{images}, events.NewBus(), nil)
	c.Last()

	*images = 2
	c.Sync()
	if c.Index() != 1 {
		t.Errorf("expected index clamped to 1, got %d", c.Index())
	}
	if c.Enabled(events.Next) {
		t.Error("next should be disabled on the new last image")
	}
}

type countPtr struct{ n *fixedCount }

func (c countPtr) Count() int { return int(*c.n) }
