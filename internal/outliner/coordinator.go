package outliner

import (
	"github.com/pstuifzand/tui-annotator/internal/model"
)

// Coordinator translates tree selection and hover events into store
// selection and highlight changes
type Coordinator struct {
	store   *model.RegionStore
	hovered string
}

// NewCoordinator creates a coordinator for store
func NewCoordinator(store *model.RegionStore) *Coordinator {
	return &Coordinator{store: store}
}

// Hovered returns the id of the hovered region, "" when none
func (c *Coordinator) Hovered() string {
	return c.hovered
}

// OnSelect applies a selection change for the region with the given id.
// Without the multi-select modifier the selection is cleared first.
func (c *Coordinator) OnSelect(id string, multi bool, selected bool) {
	r := c.store.FindRegionID(id)
	if r == nil {
		return
	}

	sel := c.store.Selection()
	if !multi {
		sel.Clear()
	}

	if selected {
		sel.Select(r)
	} else {
		sel.Unselect(r)
	}
}

// OnHoverEnter marks the region as hovered and highlights it
func (c *Coordinator) OnHoverEnter(id string) {
	r := c.store.FindRegionID(id)
	if r == nil || c.hovered == id {
		return
	}
	if prev := c.store.FindRegionID(c.hovered); prev != nil {
		c.store.SetHighlight(prev, false)
	}
	c.hovered = id
	c.store.SetHighlight(r, true)
}

// OnHoverLeave clears the hover state of the region
func (c *Coordinator) OnHoverLeave(id string) {
	if c.hovered == id {
		c.hovered = ""
	}
	if r := c.store.FindRegionID(id); r != nil {
		c.store.SetHighlight(r, false)
	}
}
