package visuals

import (
	"strings"
	"testing"
	"time"

	"welfare-mcp/internal/risk"
	"welfare-mcp/internal/stats"
	"welfare-mcp/internal/trend"
)

func processedSeries(n int) []trend.ProcessedEvent {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]trend.ProcessedEvent, n)
	for i := range out {
		out[i] = trend.ProcessedEvent{
			TrendEvent: trend.TrendEvent{
				ID:               string(rune('a' + i%26)),
				Date:             start.AddDate(0, 0, i),
				Kind:             trend.Race,
				PerformanceScore: float64(60 + i%40),
				WellnessScore:    float64(50 + i%80),
			},
			Index:        i,
			RiskCategory: risk.Category(1 + i%5),
		}
	}
	return out
}

func TestGenerateTrendChart(t *testing.T) {
	if got := GenerateTrendChart(nil); got != "" {
		t.Errorf("empty input should render nothing, got %q", got)
	}

	out := GenerateTrendChart(processedSeries(3))
	for _, want := range []string{"xychart-beta", `"Jan01", "Jan02", "Jan03"`, "bar [60.0, 61.0, 62.0]", "line [50.0, 51.0, 52.0]"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateTrendChart_Subsamples(t *testing.T) {
	out := GenerateTrendChart(processedSeries(150))
	axis := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "x-axis") {
			axis = line
		}
	}
	if n := strings.Count(axis, "\"") / 2; n > maxPoints+1 {
		t.Errorf("x-axis has %d labels, want at most %d", n, maxPoints+1)
	}
}

func TestGenerateRiskPie(t *testing.T) {
	out := GenerateRiskPie(processedSeries(7))
	if !strings.Contains(out, `"Minimal Risk" : 2`) || !strings.Contains(out, `"Critical Risk" : 1`) {
		t.Errorf("unexpected pie:\n%s", out)
	}
}

func TestGenerateCategoryChart(t *testing.T) {
	sample := stats.AnalyticsSample{Label: "Critical Risk", Values: []float64{10, 20, 30}, Mean: 20}
	shares := []stats.BucketShare{{Label: "2025-01-01"}, {Label: "2025-01-02"}, {Label: "2025-01-03"}}
	out := GenerateCategoryChart(sample, shares)
	for _, want := range []string{`"Critical Risk share of events"`, `"2025-01-03"`, "line [20.0, 20.0, 20.0]"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
}
