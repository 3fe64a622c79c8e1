package visuals

import (
	"fmt"
	"math"
	"strings"

	"welfare-mcp/internal/risk"
	"welfare-mcp/internal/stats"
	"welfare-mcp/internal/trend"
)

// maxPoints is where Mermaid's xychart starts overlapping axis labels.
const maxPoints = 60

// GenerateTrendChart creates a Mermaid xychart-beta with performance as bars
// and wellness as a line, oldest event on the left.
func GenerateTrendChart(events []trend.ProcessedEvent) string {
	if len(events) == 0 {
		return ""
	}

	var labels []string
	var perf []string
	var well []string

	rate := subsampleRate(len(events))
	for i, e := range events {
		if i%rate != 0 && i != len(events)-1 {
			continue
		}
		labels = append(labels, fmt.Sprintf("\"%s\"", e.Date.Format("Jan02")))
		perf = append(perf, fmt.Sprintf("%.1f", e.PerformanceScore))
		well = append(well, fmt.Sprintf("%.1f", e.WellnessScore))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Performance (bars) and Wellness (line)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Score\" %d --> %d\n", int(trend.MinScore), int(trend.MaxScore)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(perf, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(well, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateCategoryChart plots one category's share history against its mean,
// in the manner of an individuals chart.
func GenerateCategoryChart(sample stats.AnalyticsSample, shares []stats.BucketShare) string {
	if len(sample.Values) == 0 {
		return ""
	}

	var labels []string
	var values []string
	var means []string

	rate := subsampleRate(len(sample.Values))
	for i, v := range sample.Values {
		if i%rate != 0 && i != len(sample.Values)-1 {
			continue
		}
		label := fmt.Sprintf("%d", i+1)
		if i < len(shares) {
			label = shares[i].Label
		}
		labels = append(labels, fmt.Sprintf("\"%s\"", label))
		values = append(values, fmt.Sprintf("%.1f", v))
		means = append(means, fmt.Sprintf("%.1f", sample.Mean))
	}

	maxY := math.Max(sample.Mean*1.2, 10)
	for _, v := range sample.Values {
		if v > maxY {
			maxY = v * 1.1
		}
	}
	maxY = math.Min(maxY, 100)

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s share of events\"\n", sample.Label))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Share (%%)\" 0 --> %d\n", int(math.Ceil(maxY))))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(means, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateRiskPie creates a Mermaid pie of events per risk category.
func GenerateRiskPie(events []trend.ProcessedEvent) string {
	if len(events) == 0 {
		return ""
	}

	counts := make(map[risk.Category]int)
	for _, e := range events {
		counts[e.RiskCategory]++
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Risk Category Distribution\n")
	for _, c := range risk.Categories() {
		if counts[c] == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", c.Label(), counts[c]))
	}
	sb.WriteString("```")
	return sb.String()
}

func subsampleRate(n int) int {
	if n <= maxPoints {
		return 1
	}
	return int(math.Ceil(float64(n) / maxPoints))
}
