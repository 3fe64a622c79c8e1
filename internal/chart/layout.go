package chart

import (
	"fmt"
	"math"
	"strings"
)

// DisplayMode selects which metrics are drawn per event.
type DisplayMode string

const (
	ShowPerformance DisplayMode = "performance"
	ShowWellness    DisplayMode = "wellness"
	ShowBoth        DisplayMode = "both"
)

// ParseDisplayMode accepts performance, wellness or both (the default).
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch DisplayMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ShowBoth:
		return ShowBoth, nil
	case ShowPerformance:
		return ShowPerformance, nil
	case ShowWellness:
		return ShowWellness, nil
	}
	return ShowBoth, fmt.Errorf("invalid display mode %q: expected performance, wellness or both", s)
}

// Bars returns the number of bars drawn per event group.
func (m DisplayMode) Bars() int {
	if m == ShowPerformance || m == ShowWellness {
		return 1
	}
	return 2
}

// Padding reserves room for axis labels around the chart area.
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// DefaultPadding is applied regardless of content.
var DefaultPadding = Padding{Top: 40, Right: 60, Bottom: 60, Left: 50}

const (
	// MinBarWidth is the absolute floor; spacing is degraded before bars shrink below it.
	MinBarWidth = 12.0
	// TimeWindowDays is the span of the time-proportional x axis.
	TimeWindowDays = 180.0

	minGroupSpacing   = 8.0
	groupSpacingRatio = 0.02
	pairedBarSpacing  = 4.0
)

// barWidths holds per-mode widths for a given layout regime.
type barWidths struct {
	paired float64
	single float64
}

func (w barWidths) forMode(m DisplayMode) float64 {
	if m.Bars() > 1 {
		return w.paired
	}
	return w.single
}

var (
	singleEventBarWidth = barWidths{paired: 40, single: 48}
	evenMinBarWidth     = barWidths{paired: 16, single: 20}
	timeBarWidth        = barWidths{paired: 32, single: 40}
)

// LayoutInput is everything ComputeLayout depends on.
type LayoutInput struct {
	Width            float64     `json:"width"`
	Height           float64     `json:"height"`
	EventCount       int         `json:"eventCount"`
	Mode             DisplayMode `json:"mode"`
	TimeProportional bool        `json:"timeProportional"`
}

// Layout is the computed chart geometry.
type Layout struct {
	Padding          Padding     `json:"padding"`
	ChartWidth       float64     `json:"chartWidth"`
	ChartHeight      float64     `json:"chartHeight"`
	BarWidth         float64     `json:"barWidth"`
	BarSpacing       float64     `json:"barSpacing"`   // between bars of one group
	GroupSpacing     float64     `json:"groupSpacing"` // between groups
	GroupWidth       float64     `json:"groupWidth"`
	ContentWidth     float64     `json:"contentWidth"` // may exceed ChartWidth once bars hit their floor
	EventCount       int         `json:"eventCount"`
	Mode             DisplayMode `json:"mode"`
	TimeProportional bool        `json:"timeProportional"`
}

// ComputeLayout derives bar geometry for a viewport. It is a pure function of
// its input; bars never overlap in even-index mode.
func ComputeLayout(in LayoutInput) Layout {
	mode := in.Mode
	if mode == "" {
		mode = ShowBoth
	}
	n := max(in.EventCount, 0)
	pad := DefaultPadding

	l := Layout{
		Padding:          pad,
		ChartWidth:       sanitize(in.Width - pad.Left - pad.Right),
		ChartHeight:      sanitize(in.Height - pad.Top - pad.Bottom),
		EventCount:       n,
		Mode:             mode,
		TimeProportional: in.TimeProportional,
	}

	bars := float64(mode.Bars())
	if mode.Bars() > 1 {
		l.BarSpacing = pairedBarSpacing
	}

	switch {
	case n <= 1:
		l.BarWidth = singleEventBarWidth.forMode(mode)
		l.GroupWidth = footprint(l.BarWidth, l.BarSpacing, bars)
		l.ContentWidth = math.Max(l.ChartWidth, l.GroupWidth)

	case in.TimeProportional:
		l.BarWidth = timeBarWidth.forMode(mode)
		l.GroupWidth = footprint(l.BarWidth, l.BarSpacing, bars)
		l.ContentWidth = math.Max(l.ChartWidth, l.GroupWidth)

	default:
		layoutEven(&l, float64(n), bars)
	}

	l.BarWidth = math.Max(l.BarWidth, MinBarWidth)
	return l
}

func layoutEven(l *Layout, n, bars float64) {
	cw := l.ChartWidth
	l.GroupSpacing = math.Max(minGroupSpacing, cw*groupSpacingRatio)
	l.GroupWidth = (cw - l.GroupSpacing*(n-1)) / n
	l.BarWidth = (l.GroupWidth - l.BarSpacing*(bars-1)) / bars

	floor := evenMinBarWidth.forMode(l.Mode)
	if l.BarWidth < floor {
		l.BarWidth = floor
		fp := footprint(l.BarWidth, l.BarSpacing, bars)

		// Inter-group spacing gives way first.
		l.GroupSpacing = clamp((cw-fp*n)/(n-1), 0, l.GroupSpacing)

		// Then the gap between paired bars.
		if fp*n > cw && bars > 1 {
			l.BarSpacing = clamp((cw/n-l.BarWidth*bars)/(bars-1), 0, l.BarSpacing)
			fp = footprint(l.BarWidth, l.BarSpacing, bars)
		}
		l.GroupWidth = fp
	}

	l.ContentWidth = l.GroupWidth*n + l.GroupSpacing*(n-1)
}

// AvailableWidth is the horizontal travel for time-proportional anchors.
func (l Layout) AvailableWidth() float64 {
	return sanitize(l.ChartWidth - l.GroupWidth)
}

// BarHeight projects a score onto the chart height via ScoreToPosition.
func (l Layout) BarHeight(score float64) float64 {
	return ScoreToPosition(score) * l.ChartHeight
}

// BarY returns the top edge of a bar for score.
func (l Layout) BarY(score float64) float64 {
	return l.Padding.Top + l.ChartHeight - l.BarHeight(score)
}

// TickY returns the y coordinate of an axis tick.
func (l Layout) TickY(t Tick) float64 {
	return l.Padding.Top + l.ChartHeight - t.Position*l.ChartHeight
}

func footprint(barWidth, spacing, bars float64) float64 {
	return barWidth*bars + spacing*(bars-1)
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
