package chart

import (
	"math"

	"welfare-mcp/internal/trend"
)

// Metric names one bar inside a group.
type Metric string

const (
	MetricPerformance Metric = "performance"
	MetricWellness    Metric = "wellness"
)

// Anchor is the horizontal position of one event's bar group.
type Anchor struct {
	Index  int     `json:"index"`
	ID     string  `json:"id"`
	X      float64 `json:"x"` // left edge of the group
	Center float64 `json:"center"`
}

// Bar is a single positioned rectangle.
type Bar struct {
	Metric Metric  `json:"metric"`
	Score  float64 `json:"score"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BarGroup carries per-metric sub-positions for an anchor.
type BarGroup struct {
	Anchor
	Bars []Bar `json:"bars"`
}

// ComputeAnchors positions each event's group. In time-proportional mode the
// position follows the event's age over TimeWindowDays; older events saturate
// at the left edge.
func ComputeAnchors(l Layout, events []trend.ProcessedEvent) []Anchor {
	anchors := make([]Anchor, len(events))
	for i, e := range events {
		x := anchorX(l, i, len(events), e.DaysFromToday)
		anchors[i] = Anchor{
			Index:  i,
			ID:     e.ID,
			X:      x,
			Center: x + l.GroupWidth/2,
		}
	}
	return anchors
}

// ComputeBarPositions expands anchors into the bars of the active display mode.
func ComputeBarPositions(l Layout, events []trend.ProcessedEvent) []BarGroup {
	anchors := ComputeAnchors(l, events)
	groups := make([]BarGroup, len(events))

	for i, e := range events {
		g := BarGroup{Anchor: anchors[i]}
		x := anchors[i].X
		for _, m := range metricsFor(l.Mode) {
			score := e.PerformanceScore
			if m == MetricWellness {
				score = e.WellnessScore
			}
			g.Bars = append(g.Bars, Bar{
				Metric: m,
				Score:  score,
				X:      x,
				Y:      l.BarY(score),
				Width:  l.BarWidth,
				Height: l.BarHeight(score),
			})
			x += l.BarWidth + l.BarSpacing
		}
		groups[i] = g
	}
	return groups
}

// HitTest returns the index of the anchor whose group spans x. When groups
// overlap (time-proportional saturation) the last drawn one wins.
func HitTest(l Layout, anchors []Anchor, x float64) (int, bool) {
	for i := len(anchors) - 1; i >= 0; i-- {
		a := anchors[i]
		if x >= a.X && x <= a.X+l.GroupWidth {
			return a.Index, true
		}
	}
	return -1, false
}

func anchorX(l Layout, i, count int, daysFromToday float64) float64 {
	left := l.Padding.Left

	if l.TimeProportional {
		days := math.Max(0, daysFromToday)
		if math.IsNaN(days) {
			days = TimeWindowDays
		}
		age := math.Min(days/TimeWindowDays, 1)
		return left + (1-age)*l.AvailableWidth()
	}

	if count <= 1 {
		return left + sanitize(l.ChartWidth-l.GroupWidth)/2
	}
	return left + float64(i)*(l.GroupWidth+l.GroupSpacing)
}

func metricsFor(m DisplayMode) []Metric {
	switch m {
	case ShowPerformance:
		return []Metric{MetricPerformance}
	case ShowWellness:
		return []Metric{MetricWellness}
	default:
		return []Metric{MetricPerformance, MetricWellness}
	}
}
