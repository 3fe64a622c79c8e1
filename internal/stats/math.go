package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// CalculateMedian finds the median value in a slice of floats.
func CalculateMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := slices.Clone(values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}

// MeanStdDev returns the mean and population standard deviation (divide by n).
func MeanStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	if variance <= 0 || math.IsNaN(variance) {
		return mean, 0
	}
	return mean, math.Sqrt(variance)
}

// ZScore standardizes x against mean and stdDev. A zero spread yields 0.
func ZScore(x, mean, stdDev float64) float64 {
	if stdDev == 0 || math.IsNaN(stdDev) {
		return 0
	}
	return finite(stat.StdScore(x, mean, stdDev))
}

// Slope is the ordinary least-squares slope of values against 0..n-1.
func Slope(values []float64) float64 {
	n := len(values)
	if n <= 1 {
		return 0
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, values, nil, false)
	return finite(beta)
}

// Correlation is the Pearson coefficient of x and y over their common tail.
// Series with fewer than two shared points or zero variance yield 0.
func Correlation(x, y []float64) float64 {
	n := min(len(x), len(y))
	if n < 2 {
		return 0
	}
	x, y = x[len(x)-n:], y[len(y)-n:]

	if _, sx := MeanStdDev(x); sx == 0 {
		return 0
	}
	if _, sy := MeanStdDev(y); sy == 0 {
		return 0
	}
	return finite(stat.Correlation(x, y, nil))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
