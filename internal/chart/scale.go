package chart

import "math"

// Knots of the piecewise-linear score scale. The 40-100 band is stretched over
// 70% of the vertical range.
const (
	scoreMin  = 1.0
	scoreLow  = 40.0
	scoreHigh = 100.0
	scoreMax  = 140.0

	posLow  = 0.15
	posHigh = 0.85
)

// ScoreToPosition maps a score onto a normalized [0,1] chart position.
// Scores outside [1,140] saturate.
func ScoreToPosition(score float64) float64 {
	if math.IsNaN(score) {
		score = scoreMin
	}
	s := math.Max(scoreMin, math.Min(scoreMax, score))

	switch {
	case s <= scoreLow:
		return (s - scoreMin) / (scoreLow - scoreMin) * posLow
	case s <= scoreHigh:
		return posLow + (s-scoreLow)/(scoreHigh-scoreLow)*(posHigh-posLow)
	default:
		return posHigh + (s-scoreHigh)/(scoreMax-scoreHigh)*(1-posHigh)
	}
}

// Tick is one axis label.
type Tick struct {
	Score    float64 `json:"score"`
	Position float64 `json:"position"`
}

var tickScores = []float64{1, 20, 40, 60, 80, 100, 120, 140}

// AxisTicks returns the y-axis ticks, positioned through ScoreToPosition.
func AxisTicks() []Tick {
	ticks := make([]Tick, len(tickScores))
	for i, s := range tickScores {
		ticks[i] = Tick{Score: s, Position: ScoreToPosition(s)}
	}
	return ticks
}
