package stats

import (
	"math"

	"welfare-mcp/internal/risk"
)

// Thresholds tunes significance, correlation and alert sensitivity per deployment.
type Thresholds struct {
	SignificanceZ           float64 `json:"significance_z"`
	AnomalyZ                float64 `json:"anomaly_z"`
	CorrelationMin          float64 `json:"correlation_min"`
	CovariateCorrelationMin float64 `json:"covariate_correlation_min"`
	Category5AlertPct       float64 `json:"category5_alert_pct"` // share of critical events that raises an alert
	TrendSlopeAlert         float64 `json:"trend_slope_alert"`   // percentage points per bucket
}

// DefaultThresholds returns the stock sensitivity settings.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SignificanceZ:           1.96,
		AnomalyZ:                2.5,
		CorrelationMin:          0.5,
		CovariateCorrelationMin: 0.3,
		Category5AlertPct:       10,
		TrendSlopeAlert:         2,
	}
}

// CategorySeries is the historical series of one risk category.
type CategorySeries struct {
	Category risk.Category `json:"category"`
	Values   []float64     `json:"values"`
	Current  float64       `json:"current"`
}

// Covariate is an external series (safety index, weather) to correlate against.
type Covariate struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// CorrelationPair is a retained correlation with another category or a covariate.
type CorrelationPair struct {
	Category    risk.Category `json:"category,omitempty"`
	Covariate   string        `json:"covariate,omitempty"`
	Coefficient float64       `json:"coefficient"`
}

// AnalyticsSample is the per-category statistical summary.
type AnalyticsSample struct {
	Category      risk.Category     `json:"category"`
	Label         string            `json:"label"`
	Values        []float64         `json:"values"`
	Current       float64           `json:"current"`
	Mean          float64           `json:"mean"`
	Median        float64           `json:"median"`
	StdDev        float64           `json:"std_dev"`
	ZScore        float64           `json:"z_score"`
	Slope         float64           `json:"slope"`
	IsSignificant bool              `json:"is_significant"`
	IsAnomaly     bool              `json:"is_anomaly"`
	Correlations  []CorrelationPair `json:"correlations,omitempty"`
	Signals       []Signal          `json:"signals,omitempty"`
}

// Analyze computes descriptive statistics, trend and correlations for each
// category series. It holds no state between calls.
func Analyze(series []CategorySeries, covariates []Covariate, th Thresholds) []AnalyticsSample {
	samples := make([]AnalyticsSample, 0, len(series))

	for i, s := range series {
		mean, std := MeanStdDev(s.Values)
		z := ZScore(s.Current, mean, std)

		sample := AnalyticsSample{
			Category:      s.Category,
			Label:         s.Category.Label(),
			Values:        s.Values,
			Current:       s.Current,
			Mean:          mean,
			Median:        CalculateMedian(s.Values),
			StdDev:        std,
			ZScore:        z,
			Slope:         Slope(s.Values),
			IsSignificant: math.Abs(z) > th.SignificanceZ,
			IsAnomaly:     math.Abs(z) > th.AnomalyZ,
			Signals:       DetectShifts(s.Values, mean),
		}

		for j, other := range series {
			if i == j {
				continue
			}
			r := Correlation(s.Values, other.Values)
			if math.Abs(r) > th.CorrelationMin {
				sample.Correlations = append(sample.Correlations, CorrelationPair{
					Category:    other.Category,
					Coefficient: r,
				})
			}
		}

		for _, cov := range covariates {
			r := Correlation(s.Values, cov.Values)
			if math.Abs(r) > th.CovariateCorrelationMin {
				sample.Correlations = append(sample.Correlations, CorrelationPair{
					Covariate:   cov.Name,
					Coefficient: r,
				})
			}
		}

		samples = append(samples, sample)
	}

	return samples
}
