package pagination

import (
	"modernize/internal/content"
	"modernize/internal/services"
)

// NoItemsMessage is the placeholder row shown for an empty working set.
const NoItemsMessage = "There are no items."

// Source is the ordered collection the controller pages over.
type Source interface {
	Len() int
	Slice(offset, limit int) []*content.Item
}

// State is the page-move state.
type State int

const (
	Idle State = iota
	Loading
)

func (s State) String() string {
	if s == Loading {
		return "loading"
	}
	return "idle"
}

// Window is the visible slice handed to the renderer.
type Window struct {
	Offset  int
	Limit   int
	Total   int
	HasNext bool
	Rows    []*content.Item
	// Placeholder is set when the set is empty; the renderer shows
	// NoItemsMessage as the only row.
	Placeholder bool
	// CanProceed reports whether the draft has anything to submit.
	CanProceed bool
}

// HasPrev reports whether an earlier page exists.
func (w Window) HasPrev() bool { return w.Offset > 0 }

// Page returns the one-based page number of the window.
func (w Window) Page() int {
	if w.Limit <= 0 {
		return 1
	}
	return w.Offset/w.Limit + 1
}

// Pages returns the number of pages needed for Total items.
func (w Window) Pages() int {
	if w.Limit <= 0 || w.Total == 0 {
		return 1
	}
	return (w.Total + w.Limit - 1) / w.Limit
}

// Controller tracks the window over a Source. It is not safe for
// concurrent use.
type Controller struct {
	source   Source
	offset   int
	limit    int
	hasNext  bool
	state    State
	onWindow func(Window)
}

// New returns a controller at offset zero. A non-positive limit is
// treated as one row per page.
func New(source Source, limit int) *Controller {
	if limit <= 0 {
		limit = 1
	}
	c := &Controller{source: source, limit: limit}
	c.normalize()
	return c
}

// OnWindow registers a hook invoked with each newly loaded window while the
// controller is in the Loading state.
func (c *Controller) OnWindow(fn func(Window)) { c.onWindow = fn }

func (c *Controller) State() State  { return c.state }
func (c *Controller) Offset() int   { return c.offset }
func (c *Controller) Limit() int    { return c.limit }
func (c *Controller) HasNext() bool { return c.hasNext }

// Window returns the current window without changing state.
func (c *Controller) Window() Window {
	total := c.source.Len()
	w := Window{
		Offset:     c.offset,
		Limit:      c.limit,
		Total:      total,
		HasNext:    c.hasNext,
		CanProceed: total > 0,
	}
	if total == 0 {
		w.Placeholder = true
		return w
	}
	w.Rows = c.source.Slice(c.offset, c.limit)
	return w
}

// Refresh re-derives hasNext after a mutation batch.
func (c *Controller) Refresh() Window {
	c.normalize()
	return c.Window()
}

// Next advances one page when a next page exists.
func (c *Controller) Next() (Window, error) {
	return c.move(func() {
		if c.hasNext {
			c.offset += c.limit
		}
	})
}

// Prev moves back one page, stopping at the first page.
func (c *Controller) Prev() (Window, error) {
	return c.move(func() {
		c.offset = max(0, c.offset-c.limit)
	})
}

// Restart discards the window and rebuilds it from offset. hasNext is
// re-derived from the source.
func (c *Controller) Restart(offset int) (Window, error) {
	return c.move(func() {
		c.offset = offset
	})
}

// Reconcile adjusts the window after removed rows at or before it were
// deleted from the source.
func (c *Controller) Reconcile(removed int) (Window, error) {
	return c.move(func() {
		if removed > 0 {
			c.offset = max(0, c.offset-removed)
		}
	})
}

func (c *Controller) move(apply func()) (Window, error) {
	if c.state == Loading {
		return c.Window(), services.Wrap(services.ErrBusy, "pagination", "", "page load in progress", nil)
	}
	c.state = Loading
	defer func() { c.state = Idle }()

	apply()
	c.normalize()
	w := c.Window()
	if c.onWindow != nil {
		c.onWindow(w)
	}
	return w, nil
}

// normalize clamps offset into [0, len], steps back a page when the window
// would be empty while the set is not, and re-derives hasNext.
func (c *Controller) normalize() {
	total := c.source.Len()
	c.offset = min(max(c.offset, 0), total)
	if total > 0 && c.offset >= total {
		c.offset = max(0, c.offset-c.limit)
	}
	c.hasNext = total > c.offset+c.limit
}
