package stats

import (
	"math"
	"testing"

	"welfare-mcp/internal/risk"
)

func findPair(pairs []CorrelationPair, cat risk.Category, cov string) (CorrelationPair, bool) {
	for _, p := range pairs {
		if p.Category == cat && p.Covariate == cov {
			return p, true
		}
	}
	return CorrelationPair{}, false
}

func TestAnalyze_ZeroVariance(t *testing.T) {
	samples := Analyze([]CategorySeries{
		{Category: risk.Minimal, Values: []float64{20, 20, 20}, Current: 20},
		{Category: risk.Low, Values: []float64{1, 2, 3}, Current: 3},
	}, nil, DefaultThresholds())

	flat := samples[0]
	if flat.ZScore != 0 || flat.Slope != 0 || flat.StdDev != 0 {
		t.Errorf("flat series stats = z %v slope %v std %v, want zeros", flat.ZScore, flat.Slope, flat.StdDev)
	}
	if len(flat.Correlations) != 0 {
		t.Errorf("flat series should not correlate, got %+v", flat.Correlations)
	}
	if flat.IsSignificant || flat.IsAnomaly {
		t.Error("flat series must not be flagged")
	}
}

func TestAnalyze_LinearAndCorrelations(t *testing.T) {
	series := []CategorySeries{
		{Category: risk.Minimal, Values: []float64{10, 20, 30, 40, 50}, Current: 50},
		{Category: risk.Low, Values: []float64{5, 10, 15, 20, 25}, Current: 25},
		{Category: risk.Moderate, Values: []float64{50, 40, 30, 20, 10}, Current: 10},
		{Category: risk.High, Values: []float64{1, 3, 2, 3, 1}, Current: 1},
	}
	covariates := []Covariate{
		{Name: "safety_index", Values: []float64{1, 2, 3, 5, 4}},
		{Name: "humidity", Values: []float64{2, 1, 2, 1, 2}},
	}

	samples := Analyze(series, covariates, DefaultThresholds())
	if len(samples) != len(series) {
		t.Fatalf("got %d samples, want %d", len(samples), len(series))
	}

	lin := samples[0]
	if math.Abs(lin.Slope-10) > 1e-9 {
		t.Errorf("Slope = %v, want 10", lin.Slope)
	}
	if math.Abs(lin.Mean-30) > 1e-9 || math.Abs(lin.StdDev-math.Sqrt(200)) > 1e-9 {
		t.Errorf("Mean/StdDev = %v/%v, want 30/%v", lin.Mean, lin.StdDev, math.Sqrt(200))
	}
	if lin.Median != 30 {
		t.Errorf("Median = %v, want 30", lin.Median)
	}
	if lin.Label != risk.Minimal.Label() {
		t.Errorf("Label = %q", lin.Label)
	}

	if p, ok := findPair(lin.Correlations, risk.Low, ""); !ok || math.Abs(p.Coefficient-1) > 1e-9 {
		t.Errorf("expected r=1 with Low, got %+v (found %v)", p, ok)
	}
	if p, ok := findPair(lin.Correlations, risk.Moderate, ""); !ok || math.Abs(p.Coefficient+1) > 1e-9 {
		t.Errorf("expected r=-1 with Moderate, got %+v (found %v)", p, ok)
	}
	if _, ok := findPair(lin.Correlations, risk.High, ""); ok {
		t.Error("uncorrelated High series should be dropped")
	}
	if p, ok := findPair(lin.Correlations, 0, "safety_index"); !ok || math.Abs(p.Coefficient-0.9) > 1e-9 {
		t.Errorf("expected r=0.9 with safety_index, got %+v (found %v)", p, ok)
	}
	if _, ok := findPair(lin.Correlations, 0, "humidity"); ok {
		t.Error("uncorrelated covariate should be dropped")
	}
}

func TestAnalyze_SignificanceAndAnomaly(t *testing.T) {
	th := DefaultThresholds()
	samples := Analyze([]CategorySeries{
		// mean 13, population std 9, z = 3
		{Category: risk.Critical, Values: []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 40}, Current: 40},
		// mean 2, population std 4, z = 2
		{Category: risk.High, Values: []float64{0, 0, 0, 0, 10}, Current: 10},
	}, nil, th)

	if s := samples[0]; !s.IsAnomaly || !s.IsSignificant || math.Abs(s.ZScore-3) > 1e-9 {
		t.Errorf("critical sample = z %v anomaly %v significant %v", s.ZScore, s.IsAnomaly, s.IsSignificant)
	}
	if s := samples[1]; s.IsAnomaly || !s.IsSignificant || math.Abs(s.ZScore-2) > 1e-9 {
		t.Errorf("high sample = z %v anomaly %v significant %v", s.ZScore, s.IsAnomaly, s.IsSignificant)
	}
}

func TestAnalyze_Stateless(t *testing.T) {
	series := []CategorySeries{
		{Category: risk.Minimal, Values: []float64{1, 4, 2, 8}, Current: 8},
		{Category: risk.Critical, Values: []float64{3, 1, 4, 1}, Current: 1},
	}
	a := Analyze(series, nil, DefaultThresholds())
	b := Analyze(series, nil, DefaultThresholds())
	for i := range a {
		if a[i].ZScore != b[i].ZScore || a[i].Slope != b[i].Slope || len(a[i].Correlations) != len(b[i].Correlations) {
			t.Errorf("sample %d differs between identical calls", i)
		}
	}
}

func TestAnalyze_Empty(t *testing.T) {
	if got := Analyze(nil, nil, DefaultThresholds()); len(got) != 0 {
		t.Errorf("Analyze(nil) = %v, want empty", got)
	}
	got := Analyze([]CategorySeries{{Category: risk.Low}}, nil, DefaultThresholds())
	if len(got) != 1 || got[0].Mean != 0 || got[0].ZScore != 0 {
		t.Errorf("Analyze(empty values) = %+v", got)
	}
}
