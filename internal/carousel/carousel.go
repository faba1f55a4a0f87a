// Package carousel tracks the scroll position of a horizontal strip of
// fixed-width cards inside a viewport whose width can change at any time.
package carousel

import (
	"sync"

	"github.com/agentstation/cinemap/pkg/constants"
)

// Viewport reports the current width of the visible area in pixels.
// It is read on every operation and never cached.
type Viewport interface {
	Width() int
}

// FixedWidth is a Viewport with a settable width.
type FixedWidth struct {
	mu sync.RWMutex
	w  int
}

// NewFixedWidth returns a viewport of width w.
func NewFixedWidth(w int) *FixedWidth { return &FixedWidth{w: w} }

// Width returns the current width.
func (f *FixedWidth) Width() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.w
}

// Resize sets the width.
func (f *FixedWidth) Resize(w int) {
	f.mu.Lock()
	f.w = w
	f.mu.Unlock()
}

// State is the carousel position after an operation.
type State struct {
	Index      int  `json:"index"`
	Offset     int  `json:"offset"`
	Visible    int  `json:"visible"`
	MaxIndex   int  `json:"max_index"`
	Items      int  `json:"items"`
	CanRetreat bool `json:"can_retreat"`
	CanAdvance bool `json:"can_advance"`
}

// Controller holds the index for one carousel. 0 <= index <= max index
// holds after every method returns.
type Controller struct {
	mu       sync.Mutex
	viewport Viewport
	step     int
	index    int
	items    int
}

// Option configures a Controller.
type Option func(*Controller)

// WithCardMetrics sets card width and gap in pixels.
func WithCardMetrics(width, gap int) Option {
	return func(c *Controller) {
		if width+gap > 0 {
			c.step = width + gap
		}
	}
}

// New creates a controller for items cards in viewport.
func New(viewport Viewport, items int, opts ...Option) *Controller {
	c := &Controller{
		viewport: viewport,
		step:     constants.CardWidth + constants.CardGap,
		items:    max(0, items),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Advance moves one card forward unless already at the end.
func (c *Controller) Advance() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index < c.maxIndex() {
		c.index++
	}
	return c.repositionLocked()
}

// Retreat moves one card back unless already at the start.
func (c *Controller) Retreat() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index > 0 {
		c.index--
	}
	return c.repositionLocked()
}

// OnResize re-reads the viewport and clamps the index.
func (c *Controller) OnResize() State {
	return c.Reposition()
}

// SetItems changes the card count and clamps the index.
func (c *Controller) SetItems(n int) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = max(0, n)
	return c.repositionLocked()
}

// Reset returns to the first card.
func (c *Controller) Reset(n int) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = max(0, n)
	c.index = 0
	return c.repositionLocked()
}

// Reposition clamps the index and reports the offset and button state.
func (c *Controller) Reposition() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.repositionLocked()
}

func (c *Controller) visible() int {
	w := 0
	if c.viewport != nil {
		w = c.viewport.Width()
	}
	if w <= 0 {
		return 0
	}
	return w / c.step
}

func (c *Controller) maxIndex() int {
	return max(0, c.items-c.visible())
}

func (c *Controller) repositionLocked() State {
	maxIdx := c.maxIndex()
	c.index = min(max(c.index, 0), maxIdx)
	return State{
		Index:      c.index,
		Offset:     c.index * c.step,
		Visible:    c.visible(),
		MaxIndex:   maxIdx,
		Items:      c.items,
		CanRetreat: c.index > 0,
		CanAdvance: c.index < maxIdx,
	}
}
