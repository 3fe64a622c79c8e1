package stats

import (
	"math"
	"testing"
)

func TestCalculateMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"Empty", []float64{}, 0},
		{"SingleItem", []float64{5.5}, 5.5},
		{"OddCount", []float64{1.1, 3.3, 2.2, 4.4, 5.5}, 3.3},
		{"EvenCount", []float64{1.1, 2.2, 3.3, 4.4}, 2.75},
		{"Unsorted", []float64{10.5, 2.5, 8.5, 4.5, 6.5}, 6.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateMedian(tt.values); got != tt.expected {
				t.Errorf("CalculateMedian() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMeanStdDev(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		wantMean float64
		wantStd  float64
	}{
		{"Empty", nil, 0, 0},
		{"Single", []float64{7}, 7, 0},
		{"Constant", []float64{3, 3, 3, 3}, 3, 0},
		// population stddev of 2,4,4,4,5,5,7,9 is exactly 2
		{"Population", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std := MeanStdDev(tt.values)
			if math.Abs(mean-tt.wantMean) > 1e-9 || math.Abs(std-tt.wantStd) > 1e-9 {
				t.Errorf("MeanStdDev() = (%v, %v), want (%v, %v)", mean, std, tt.wantMean, tt.wantStd)
			}
		})
	}
}

func TestZeroVarianceGuards(t *testing.T) {
	flat := []float64{4, 4, 4, 4, 4}
	mean, std := MeanStdDev(flat)

	if z := ZScore(9, mean, std); z != 0 {
		t.Errorf("ZScore with zero stddev = %v, want 0", z)
	}
	if r := Correlation(flat, []float64{1, 2, 3, 4, 5}); r != 0 {
		t.Errorf("Correlation with flat series = %v, want 0", r)
	}
	if s := Slope(flat); s != 0 {
		t.Errorf("Slope of flat series = %v, want 0", s)
	}
	for _, v := range []float64{ZScore(9, mean, std), Correlation(flat, flat), Slope(flat)} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("guarded statistic produced %v", v)
		}
	}
}

func TestLinearSeries(t *testing.T) {
	series := []float64{10, 20, 30, 40, 50}
	if s := Slope(series); math.Abs(s-10) > 1e-9 {
		t.Errorf("Slope() = %v, want 10", s)
	}
	if r := Correlation(series, series); math.Abs(r-1) > 1e-9 {
		t.Errorf("self Correlation() = %v, want 1", r)
	}
	inverse := []float64{50, 40, 30, 20, 10}
	if r := Correlation(series, inverse); math.Abs(r+1) > 1e-9 {
		t.Errorf("inverse Correlation() = %v, want -1", r)
	}
}

func TestSlope_ShortSeries(t *testing.T) {
	if s := Slope(nil); s != 0 {
		t.Errorf("Slope(nil) = %v", s)
	}
	if s := Slope([]float64{42}); s != 0 {
		t.Errorf("Slope(single) = %v", s)
	}
}

func TestCorrelation_AlignsTails(t *testing.T) {
	long := []float64{100, -50, 1, 2, 3, 4}
	short := []float64{2, 4, 6, 8}
	if r := Correlation(long, short); math.Abs(r-1) > 1e-9 {
		t.Errorf("Correlation over common tail = %v, want 1", r)
	}
	if r := Correlation([]float64{1}, []float64{1, 2}); r != 0 {
		t.Errorf("Correlation with one shared point = %v, want 0", r)
	}
}

func TestZScore(t *testing.T) {
	if z := ZScore(9, 5, 2); z != 2 {
		t.Errorf("ZScore(9, 5, 2) = %v, want 2", z)
	}
}
