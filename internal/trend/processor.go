package trend

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DateLabelLayout is the display format for ProcessedEvent.DateLabel.
const DateLabelLayout = "02 Jan 2006"

// Timeframe is a look-back window in months. AllTime disables the cutoff.
type Timeframe int

const AllTime Timeframe = 0

// ParseTimeframe accepts "3m", "6m", "12m" (any positive month count) or "all".
func ParseTimeframe(s string) (Timeframe, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return AllTime, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "m"))
	if err != nil || n <= 0 {
		return AllTime, fmt.Errorf("invalid timeframe %q: expected e.g. 6m or all", s)
	}
	return Timeframe(n), nil
}

func (tf Timeframe) String() string {
	if tf == AllTime {
		return "all"
	}
	return fmt.Sprintf("%dm", int(tf))
}

// Cutoff returns the oldest admissible date relative to now. The zero time is
// returned for AllTime.
func (tf Timeframe) Cutoff(now time.Time) time.Time {
	if tf <= AllTime {
		return time.Time{}
	}
	return now.AddDate(0, -int(tf), 0)
}

// EventFilter restricts events by kind.
type EventFilter string

const (
	Both         EventFilter = "both"
	RacesOnly    EventFilter = "race"
	TrainingOnly EventFilter = "training"
)

// ParseEventFilter accepts "race", "training" or "both" (the default).
func ParseEventFilter(s string) (EventFilter, error) {
	switch EventFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", Both:
		return Both, nil
	case RacesOnly, "races":
		return RacesOnly, nil
	case TrainingOnly:
		return TrainingOnly, nil
	}
	return Both, fmt.Errorf("invalid event type filter %q: expected race, training or both", s)
}

// Matches reports whether an event of kind k passes the filter.
func (f EventFilter) Matches(k Kind) bool {
	switch f {
	case RacesOnly:
		return k == Race
	case TrainingOnly:
		return k == Training
	default:
		return true
	}
}

// Options controls Process.
type Options struct {
	Timeframe Timeframe
	EventType EventFilter
	// Now anchors the timeframe cutoff and DaysFromToday. Defaults to time.Now().
	Now time.Time
}

// Process filters events by timeframe and event type (both must hold) and
// enriches the survivors. Input order is preserved; callers sort beforehand.
func Process(events []TrendEvent, opts Options) []ProcessedEvent {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := opts.Timeframe.Cutoff(now)

	result := make([]ProcessedEvent, 0, len(events))
	for _, e := range events {
		if !cutoff.IsZero() && e.Date.Before(cutoff) {
			continue
		}
		if !opts.EventType.Matches(e.Kind) {
			continue
		}

		p := ProcessedEvent{
			TrendEvent:    e,
			DateLabel:     e.Date.Format(DateLabelLayout),
			Index:         len(result),
			DaysFromToday: math.Max(0, daysBetween(e.Date, now)),
			RiskCategory:  e.RiskCategory(),
		}

		if n := len(result); n > 0 {
			prev := result[n-1]
			p.PerformanceChange = PercentChange(prev.PerformanceScore, e.PerformanceScore)
			p.WellnessChange = PercentChange(prev.WellnessScore, e.WellnessScore)
			p.DaysBetween = math.Abs(daysBetween(prev.Date, e.Date))
		}

		result = append(result, p)
	}
	return result
}

// PercentChange returns (curr-prev)/prev*100, or 0 when prev is 0.
func PercentChange(prev, curr float64) float64 {
	if prev == 0 {
		return 0
	}
	return (curr - prev) / prev * 100
}

// Series holds parallel raw-score arrays for point-to-point trend lines.
type Series struct {
	Dates       []time.Time `json:"dates"`
	Performance []float64   `json:"performance"`
	Wellness    []float64   `json:"wellness"`
}

// TrendLines projects already-processed events into parallel series.
func TrendLines(events []ProcessedEvent) Series {
	s := Series{
		Dates:       make([]time.Time, len(events)),
		Performance: make([]float64, len(events)),
		Wellness:    make([]float64, len(events)),
	}
	for i, e := range events {
		s.Dates[i] = e.Date
		s.Performance[i] = e.PerformanceScore
		s.Wellness[i] = e.WellnessScore
	}
	return s
}

// SortAscending returns a copy ordered oldest first, for "oldest left" charts.
func SortAscending(events []TrendEvent) []TrendEvent {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b TrendEvent) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// SortDescending returns a copy ordered newest first, for history tables.
func SortDescending(events []TrendEvent) []TrendEvent {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b TrendEvent) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// daysBetween counts calendar days, so time of day and DST shifts don't leak
// fractions into the result.
func daysBetween(from, to time.Time) float64 {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return math.Round(b.Sub(a).Hours() / 24)
}
