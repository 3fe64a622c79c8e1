package stats

import (
	"welfare-mcp/internal/risk"
	"welfare-mcp/internal/trend"
)

// BucketShare is the category mix of one bucket.
type BucketShare struct {
	Label  string                    `json:"label"`
	Total  int                       `json:"total"`
	Shares map[risk.Category]float64 `json:"shares"` // percentages
}

// BuildCategorySeries turns events into one series per risk category holding,
// for every bucket of the window that saw at least one event, the percentage of
// events that fell into that category. The last populated bucket is Current.
func BuildCategorySeries(events []trend.ProcessedEvent, window AnalysisWindow) ([]CategorySeries, []BucketShare) {
	buckets := window.Subdivide()
	counts := make([]map[risk.Category]int, len(buckets))
	totals := make([]int, len(buckets))

	for _, e := range events {
		idx := window.FindBucketIndex(e.Date)
		if idx < 0 || idx >= len(buckets) {
			continue
		}
		if counts[idx] == nil {
			counts[idx] = make(map[risk.Category]int)
		}
		counts[idx][e.RiskCategory]++
		totals[idx]++
	}

	categories := risk.Categories()
	series := make([]CategorySeries, len(categories))
	for i, c := range categories {
		series[i].Category = c
	}

	var shares []BucketShare
	for b, start := range buckets {
		if totals[b] == 0 {
			continue
		}
		share := BucketShare{
			Label:  window.GenerateLabel(start),
			Total:  totals[b],
			Shares: make(map[risk.Category]float64, len(categories)),
		}
		for i, c := range categories {
			pct := float64(counts[b][c]) / float64(totals[b]) * 100
			series[i].Values = append(series[i].Values, pct)
			share.Shares[c] = pct
		}
		shares = append(shares, share)
	}

	for i := range series {
		if n := len(series[i].Values); n > 0 {
			series[i].Current = series[i].Values[n-1]
		}
	}
	return series, shares
}
