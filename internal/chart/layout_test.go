package chart

import (
	"math"
	"testing"

	"welfare-mcp/internal/trend"
)

func processedAt(days ...float64) []trend.ProcessedEvent {
	events := make([]trend.ProcessedEvent, len(days))
	for i, d := range days {
		events[i] = trend.ProcessedEvent{
			TrendEvent: trend.TrendEvent{
				ID:               string(rune('a' + i)),
				PerformanceScore: 100,
				WellnessScore:    40,
			},
			Index:         i,
			DaysFromToday: d,
		}
	}
	return events
}

func TestComputeLayout_EvenFiveEvents(t *testing.T) {
	l := ComputeLayout(LayoutInput{Width: 800, Height: 400, EventCount: 5, Mode: ShowBoth})

	if l.BarWidth < 16 {
		t.Errorf("BarWidth = %v, want >= 16", l.BarWidth)
	}
	if l.ChartWidth != 690 || l.ChartHeight != 300 {
		t.Errorf("chart area = %vx%v, want 690x300", l.ChartWidth, l.ChartHeight)
	}
	if want := 13.8; math.Abs(l.GroupSpacing-want) > 1e-9 {
		t.Errorf("GroupSpacing = %v, want %v", l.GroupSpacing, want)
	}

	anchors := ComputeAnchors(l, processedAt(0, 1, 2, 3, 4))
	for i := 1; i < len(anchors); i++ {
		if anchors[i].X <= anchors[i-1].X {
			t.Errorf("anchor %d (%v) not right of anchor %d (%v)", i, anchors[i].X, i-1, anchors[i-1].X)
		}
		if anchors[i-1].X+l.GroupWidth > anchors[i].X {
			t.Errorf("group %d overlaps group %d", i-1, i)
		}
	}
	last := anchors[len(anchors)-1]
	if end := last.X + l.GroupWidth; math.Abs(end-(l.Padding.Left+l.ChartWidth)) > 1e-9 {
		t.Errorf("last group ends at %v, want %v", end, l.Padding.Left+l.ChartWidth)
	}
}

func TestComputeLayout_SingleOrEmpty(t *testing.T) {
	tests := []struct {
		name  string
		count int
		mode  DisplayMode
		want  float64
	}{
		{"EmptyBoth", 0, ShowBoth, 40},
		{"SingleBoth", 1, ShowBoth, 40},
		{"SinglePerformance", 1, ShowPerformance, 48},
		{"EmptyWellness", 0, ShowWellness, 48},
		{"NegativeCount", -3, ShowBoth, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ComputeLayout(LayoutInput{Width: 800, Height: 400, EventCount: tt.count, Mode: tt.mode})
			if l.BarWidth != tt.want {
				t.Errorf("BarWidth = %v, want %v", l.BarWidth, tt.want)
			}
			if l.GroupWidth <= 0 {
				t.Errorf("GroupWidth = %v, want positive", l.GroupWidth)
			}
		})
	}
}

func TestComputeLayout_FloorDegradesSpacingFirst(t *testing.T) {
	tests := []struct {
		name  string
		mode  DisplayMode
		count int
		floor float64
	}{
		{"PairedCrowded", ShowBoth, 40, 16},
		{"PairedOverflow", ShowBoth, 200, 16},
		{"SingleCrowded", ShowPerformance, 60, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ComputeLayout(LayoutInput{Width: 800, Height: 400, EventCount: tt.count, Mode: tt.mode})
			if l.BarWidth != tt.floor {
				t.Errorf("BarWidth = %v, want floor %v", l.BarWidth, tt.floor)
			}
			if l.GroupSpacing < 0 || l.BarSpacing < 0 {
				t.Errorf("negative spacing: group %v bar %v", l.GroupSpacing, l.BarSpacing)
			}
			if l.GroupSpacing >= minGroupSpacing {
				t.Errorf("GroupSpacing = %v, expected it to be degraded", l.GroupSpacing)
			}

			days := make([]float64, tt.count)
			anchors := ComputeAnchors(l, processedAt(days...))
			for i := 1; i < len(anchors); i++ {
				if anchors[i-1].X+l.GroupWidth > anchors[i].X+1e-9 {
					t.Fatalf("group %d overlaps group %d", i-1, i)
				}
			}
			want := l.GroupWidth*float64(tt.count) + l.GroupSpacing*float64(tt.count-1)
			if math.Abs(l.ContentWidth-want) > 1e-9 {
				t.Errorf("ContentWidth = %v, want %v", l.ContentWidth, want)
			}
		})
	}
}

func TestComputeLayout_DegenerateViewport(t *testing.T) {
	for _, in := range []LayoutInput{
		{Width: 0, Height: 0, EventCount: 10, Mode: ShowBoth},
		{Width: -100, Height: math.NaN(), EventCount: 3, Mode: ShowWellness},
		{Width: math.Inf(1), Height: 300, EventCount: 3},
	} {
		l := ComputeLayout(in)
		if l.ChartWidth < 0 || l.ChartHeight < 0 || l.BarWidth < MinBarWidth || l.GroupWidth < 0 {
			t.Errorf("ComputeLayout(%+v) produced invalid geometry %+v", in, l)
		}
	}
}

func TestComputeLayout_Deterministic(t *testing.T) {
	in := LayoutInput{Width: 1024, Height: 480, EventCount: 17, Mode: ShowWellness, TimeProportional: false}
	if ComputeLayout(in) != ComputeLayout(in) {
		t.Error("ComputeLayout is not deterministic")
	}
}

func TestComputeLayout_TimeProportionalWidths(t *testing.T) {
	both := ComputeLayout(LayoutInput{Width: 800, Height: 400, EventCount: 8, Mode: ShowBoth, TimeProportional: true})
	if both.BarWidth != 32 {
		t.Errorf("paired BarWidth = %v, want 32", both.BarWidth)
	}
	single := ComputeLayout(LayoutInput{Width: 800, Height: 400, EventCount: 8, Mode: ShowWellness, TimeProportional: true})
	if single.BarWidth != 40 {
		t.Errorf("single BarWidth = %v, want 40", single.BarWidth)
	}
}

func TestComputeAnchors_TimeSaturation(t *testing.T) {
	// Eight events spread over 200 days.
	days := []float64{200, 179, 150, 120, 90, 60, 30, 0}
	events := processedAt(days...)
	l := ComputeLayout(LayoutInput{Width: 800, Height: 400, EventCount: len(events), Mode: ShowBoth, TimeProportional: true})
	anchors := ComputeAnchors(l, events)

	atWindow := ComputeAnchors(l, processedAt(180))[0].X
	if anchors[0].X != l.Padding.Left || anchors[0].X != atWindow {
		t.Errorf("200-day event anchor = %v, want leftmost %v (180-day anchor %v)", anchors[0].X, l.Padding.Left, atWindow)
	}
	if anchors[1].X <= anchors[0].X {
		t.Errorf("179-day event (%v) should sit right of the saturated edge (%v)", anchors[1].X, anchors[0].X)
	}
	if got, want := anchors[7].X, l.Padding.Left+l.AvailableWidth(); got != want {
		t.Errorf("today's event anchor = %v, want %v", got, want)
	}
	for i := 1; i < len(anchors); i++ {
		if anchors[i].X < anchors[i-1].X {
			t.Errorf("more recent event %d moved left of %d", i, i-1)
		}
	}

	older := ComputeAnchors(l, processedAt(365, 1000))
	if older[0].X != older[1].X {
		t.Errorf("events beyond the window should collapse: %v vs %v", older[0].X, older[1].X)
	}
}

func TestComputeAnchors_SingleEventCentered(t *testing.T) {
	l := ComputeLayout(LayoutInput{Width: 800, Height: 400, EventCount: 1, Mode: ShowBoth})
	a := ComputeAnchors(l, processedAt(0))[0]
	if want := l.Padding.Left + l.ChartWidth/2; math.Abs(a.Center-want) > 1e-9 {
		t.Errorf("single anchor center = %v, want %v", a.Center, want)
	}
}

func TestComputeBarPositions(t *testing.T) {
	l := ComputeLayout(LayoutInput{Width: 800, Height: 400, EventCount: 3, Mode: ShowBoth})
	groups := ComputeBarPositions(l, processedAt(0, 1, 2))

	for _, g := range groups {
		if len(g.Bars) != 2 {
			t.Fatalf("expected 2 bars per group, got %d", len(g.Bars))
		}
		perf, well := g.Bars[0], g.Bars[1]
		if perf.Metric != MetricPerformance || well.Metric != MetricWellness {
			t.Errorf("unexpected metric order %s, %s", perf.Metric, well.Metric)
		}
		if perf.X+perf.Width > well.X {
			t.Errorf("paired bars overlap: %v+%v > %v", perf.X, perf.Width, well.X)
		}
		if perf.Height != 0.85*l.ChartHeight {
			t.Errorf("performance height = %v, want %v", perf.Height, 0.85*l.ChartHeight)
		}
		if math.Abs(well.Y+well.Height-(l.Padding.Top+l.ChartHeight)) > 1e-9 {
			t.Errorf("bars should rest on the baseline")
		}
	}

	single := ComputeLayout(LayoutInput{Width: 800, Height: 400, EventCount: 3, Mode: ShowWellness})
	if bars := ComputeBarPositions(single, processedAt(0, 1, 2))[0].Bars; len(bars) != 1 || bars[0].Metric != MetricWellness {
		t.Errorf("wellness mode bars = %+v", bars)
	}
}

func TestHitTest(t *testing.T) {
	l := ComputeLayout(LayoutInput{Width: 800, Height: 400, EventCount: 4, Mode: ShowBoth})
	anchors := ComputeAnchors(l, processedAt(0, 1, 2, 3))

	idx, ok := HitTest(l, anchors, anchors[2].Center)
	if !ok || idx != 2 {
		t.Errorf("HitTest(center of 2) = %d, %v", idx, ok)
	}
	if _, ok := HitTest(l, anchors, anchors[0].X+l.GroupWidth+l.GroupSpacing/2); ok {
		t.Error("HitTest in the gap between groups should miss")
	}
	if _, ok := HitTest(l, anchors, 0); ok {
		t.Error("HitTest inside the padding should miss")
	}
}
