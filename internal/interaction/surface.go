package interaction

import (
	"sync"

	"welfare-mcp/internal/chart"
)

// Surface feeds raw pointer coordinates into a Controller using the same
// anchors the renderer drew, so hit-testing never drifts from the geometry.
type Surface struct {
	ctrl *Controller

	mu      sync.Mutex
	layout  chart.Layout
	anchors []chart.Anchor
	over    string
}

func NewSurface(ctrl *Controller, l chart.Layout, anchors []chart.Anchor) *Surface {
	return &Surface{ctrl: ctrl, layout: l, anchors: anchors}
}

// Rebind swaps in new geometry after a relayout. Hover state is reset since
// element identities may no longer be on screen.
func (s *Surface) Rebind(l chart.Layout, anchors []chart.Anchor) {
	s.mu.Lock()
	s.layout = l
	s.anchors = anchors
	s.over = ""
	s.mu.Unlock()
	s.ctrl.Reset()
}

// Pointer reports the pointer at p, emitting enter/leave transitions as it
// crosses bar groups.
func (s *Surface) Pointer(p Point) {
	id := s.elementAt(p)

	s.mu.Lock()
	prev := s.over
	s.over = id
	s.mu.Unlock()

	switch {
	case id == prev:
		s.ctrl.Move(p)
	case id == "":
		s.ctrl.Leave(prev)
	default:
		if prev != "" {
			s.ctrl.Leave(prev)
		}
		s.ctrl.Enter(id, p)
	}
}

// Exit reports the pointer leaving the chart entirely.
func (s *Surface) Exit() {
	s.mu.Lock()
	prev := s.over
	s.over = ""
	s.mu.Unlock()
	if prev != "" {
		s.ctrl.Leave(prev)
	}
}

// Click selects the element under p, if any.
func (s *Surface) Click(p Point) (string, bool) {
	id := s.elementAt(p)
	if id == "" {
		return "", false
	}
	s.ctrl.Click(id, p)
	return id, true
}

func (s *Surface) elementAt(p Point) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Y < s.layout.Padding.Top || p.Y > s.layout.Padding.Top+s.layout.ChartHeight {
		return ""
	}
	idx, ok := chart.HitTest(s.layout, s.anchors, p.X)
	if !ok {
		return ""
	}
	return s.anchors[idx].ID
}
