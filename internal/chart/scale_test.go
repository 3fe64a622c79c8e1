package chart

import (
	"math"
	"testing"
)

func TestScoreToPosition_Knots(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{1, 0},
		{40, 0.15},
		{100, 0.85},
		{140, 1},
	}
	for _, tt := range tests {
		if got := ScoreToPosition(tt.score); got != tt.want {
			t.Errorf("ScoreToPosition(%v) = %v, want exactly %v", tt.score, got, tt.want)
		}
	}
}

func TestScoreToPosition_Monotonic(t *testing.T) {
	prev := -1.0
	for s := 1.0; s <= 140.0; s += 0.01 {
		got := ScoreToPosition(s)
		if got < prev {
			t.Fatalf("ScoreToPosition decreased at %v: %v < %v", s, got, prev)
		}
		if got < 0 || got > 1 {
			t.Fatalf("ScoreToPosition(%v) = %v outside [0,1]", s, got)
		}
		prev = got
	}
}

func TestScoreToPosition_Clamps(t *testing.T) {
	tests := []struct {
		in      float64
		clamped float64
	}{
		{-50, 1},
		{0, 1},
		{0.999, 1},
		{140.001, 140},
		{500, 140},
		{math.Inf(1), 140},
		{math.Inf(-1), 1},
	}
	for _, tt := range tests {
		if got, want := ScoreToPosition(tt.in), ScoreToPosition(tt.clamped); got != want {
			t.Errorf("ScoreToPosition(%v) = %v, want %v", tt.in, got, want)
		}
	}
	if got := ScoreToPosition(math.NaN()); got != 0 {
		t.Errorf("ScoreToPosition(NaN) = %v, want 0", got)
	}
}

func TestScoreToPosition_MiddleBandAmplified(t *testing.T) {
	low := ScoreToPosition(40)
	high := ScoreToPosition(100)
	visual := high - low
	scoreShare := (100.0 - 40.0) / (140.0 - 1.0)
	if visual/scoreShare <= 1 {
		t.Errorf("middle band amplification = %v, want > 1", visual/scoreShare)
	}
}

func TestAxisTicks(t *testing.T) {
	ticks := AxisTicks()
	wantScores := []float64{1, 20, 40, 60, 80, 100, 120, 140}
	if len(ticks) != len(wantScores) {
		t.Fatalf("got %d ticks, want %d", len(ticks), len(wantScores))
	}
	for i, tick := range ticks {
		if tick.Score != wantScores[i] {
			t.Errorf("tick %d score = %v, want %v", i, tick.Score, wantScores[i])
		}
		if tick.Position != ScoreToPosition(tick.Score) {
			t.Errorf("tick %d position %v drifts from mapping %v", i, tick.Position, ScoreToPosition(tick.Score))
		}
	}
}
