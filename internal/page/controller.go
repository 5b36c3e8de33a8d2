package page

import (
	"math"

	"github.com/yildizm/SiteLens/internal/analysis"
	"github.com/yildizm/SiteLens/internal/element"
	"github.com/yildizm/SiteLens/internal/logger"
)

// MaxSidebarRatio is the largest share of the viewport the sidebar may keep after a resize
const MaxSidebarRatio = 0.4

// DefaultSidebarWidth is the sidebar width in cells before any request
const DefaultSidebarWidth = 30

// State is a snapshot of the page
type State struct {
	Selection    []element.Element
	Analyzing    bool
	Result       *analysis.Result
	SidebarWidth int
	Generation   uint64
}

// HasSelection reports whether any element is selected
func (s State) HasSelection() bool {
	return len(s.Selection) > 0
}

// Ticket identifies one scheduled analysis
type Ticket struct {
	Generation uint64
	Elements   []element.Element
}

// Controller owns the page state. It is not safe for concurrent use;
// all calls come from the program's update loop.
type Controller struct {
	selection    []element.Element
	analyzing    bool
	result       *analysis.Result
	sidebarWidth int
	generation   uint64

	log *logger.Logger
}

// NewController creates a controller with the given initial sidebar width
func NewController(sidebarWidth int, log *logger.Logger) *Controller {
	if sidebarWidth <= 0 {
		sidebarWidth = DefaultSidebarWidth
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		sidebarWidth: sidebarWidth,
		log:          log.WithComponent("page"),
	}
}

// State returns a copy of the current state
func (c *Controller) State() State {
	return State{
		Selection:    append([]element.Element(nil), c.selection...),
		Analyzing:    c.analyzing,
		Result:       c.result,
		SidebarWidth: c.sidebarWidth,
		Generation:   c.generation,
	}
}

// SidebarWidth returns the current sidebar width
func (c *Controller) SidebarWidth() int {
	return c.sidebarWidth
}

// OnSelectionChanged replaces the selection and starts a new analysis.
// Any analysis still pending is superseded by the returned ticket.
func (c *Controller) OnSelectionChanged(elements []element.Element) Ticket {
	c.selection = append([]element.Element(nil), elements...)
	c.analyzing = true
	c.generation++

	c.log.DebugWithFields("selection changed", []logger.Field{
		logger.Count(len(elements)),
		logger.F("generation", c.generation),
	})

	return Ticket{
		Generation: c.generation,
		Elements:   append([]element.Element(nil), elements...),
	}
}

// Complete commits the result of an analysis. Results for superseded
// tickets are dropped and false is returned.
func (c *Controller) Complete(ticket Ticket, result analysis.Result) bool {
	if ticket.Generation != c.generation || !c.analyzing {
		c.log.DebugWithFields("dropping stale analysis", []logger.Field{
			logger.F("ticket", ticket.Generation),
			logger.F("current", c.generation),
		})
		return false
	}

	c.analyzing = false
	c.result = &result
	c.log.DebugWithFields("analysis complete", []logger.Field{
		logger.F("generation", ticket.Generation),
		logger.F("status", result.Status),
	})
	return true
}

// OnWidthChanged applies a width request from the sidebar as-is
func (c *Controller) OnWidthChanged(width int) {
	c.sidebarWidth = width
}

// OnViewportResize clamps the sidebar to MaxSidebarRatio of the viewport.
// It reports whether the width changed.
func (c *Controller) OnViewportResize(viewportWidth int) bool {
	maxWidth := float64(viewportWidth) * MaxSidebarRatio
	if float64(c.sidebarWidth) <= maxWidth {
		return false
	}

	clamped := int(math.Floor(maxWidth))
	c.log.DebugWithFields("clamping sidebar", []logger.Field{
		logger.F("from", c.sidebarWidth),
		logger.F("to", clamped),
		logger.F("viewport", viewportWidth),
	})
	c.sidebarWidth = clamped
	return true
}

// Mount subscribes the resize clamp to vp. The returned release func must be
// called when the page is torn down; calling it more than once is safe.
func (c *Controller) Mount(vp Viewport) (release func()) {
	return vp.Subscribe(func(width int) {
		c.OnViewportResize(width)
	})
}
