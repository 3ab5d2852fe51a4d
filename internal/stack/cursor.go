// Package stack navigates the ordered images of a tilt series
package stack

import "github.com/philipparndt/godtr/internal/events"

// Counter reports the number of images. The cursor never changes it.
type Counter interface {
	Count() int
}

var navigation = []events.Action{events.First, events.Prev, events.Next, events.Last}

// Cursor is a clamped index into an image sequence. It publishes the
// availability of First, Prev, Next and Last as EnableChanged events.
type Cursor struct {
	images   Counter
	bus      *events.Bus
	onChange func(index int)
	index    int
	enabled  map[events.Action]bool
}

// New creates a cursor at the first image. onChange, if not nil, runs after
// every index change.
func New(images Counter, bus *events.Bus, onChange func(index int)) *Cursor {
	c := &Cursor{
		images:   images,
		bus:      bus,
		onChange: onChange,
		enabled:  make(map[events.Action]bool),
	}
	c.Sync()
	return c
}

// Index returns the current image index. It is 0 for an empty sequence.
func (c *Cursor) Index() int {
	return c.index
}

// Count returns the number of images
func (c *Cursor) Count() int {
	return c.images.Count()
}

// First moves to the first image
func (c *Cursor) First() bool {
	return c.Goto(0)
}

// Prev moves one image back. It does nothing on the first image.
func (c *Cursor) Prev() bool {
	if c.index == 0 {
		return false
	}
	return c.Goto(c.index - 1)
}

// Next moves one image forward. It does nothing on the last image.
func (c *Cursor) Next() bool {
	if c.index >= c.Count()-1 {
		return false
	}
	return c.Goto(c.index + 1)
}

// Last moves to the last image
func (c *Cursor) Last() bool {
	return c.Goto(c.Count() - 1)
}

// Goto moves to index i clamped to the sequence and reports whether the
// index changed
func (c *Cursor) Goto(i int) bool {
	n := c.Count()
	if n == 0 {
		return false
	}
	i = max(0, min(i, n-1))
	if i == c.index {
		c.updateSignals()
		return false
	}

	c.index = i
	c.updateSignals()
	if c.onChange != nil {
		c.onChange(i)
	}
	c.bus.Emit(events.Event{Kind: events.ImageChanged, Index: i})
	c.bus.RequestRender()
	return true
}

// Enabled reports whether a navigation action is currently available
func (c *Cursor) Enabled(a events.Action) bool {
	return c.enabled[a]
}

// Sync clamps the index to the current image count and republishes the
// navigation signals. Call it after the image sequence was replaced.
func (c *Cursor) Sync() {
	c.index = max(0, min(c.index, c.Count()-1))
	c.updateSignals()
}

func (c *Cursor) updateSignals() {
	n := c.Count()
	atStart := c.index == 0
	atEnd := c.index >= n-1

	// A single image or none leaves nothing to navigate to
	navigable := n > 1
	want := map[events.Action]bool{
		events.First: navigable && !atStart,
		events.Prev:  navigable && !atStart,
		events.Next:  navigable && !atEnd,
		events.Last:  navigable && !atEnd,
	}

	for _, a := range navigation {
		if old, known := c.enabled[a]; known && old == want[a] {
			continue
		}
		c.enabled[a] = want[a]
		c.bus.SetEnabled(a, want[a])
	}
}
