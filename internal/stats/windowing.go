package stats

import (
	"fmt"
	"time"
)

// Bucket is the granularity of an AnalysisWindow.
type Bucket string

const (
	Day   Bucket = "day"
	Week  Bucket = "week"
	Month Bucket = "month"
)

// AnalysisWindow defines the historical window the category series are built over.
type AnalysisWindow struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Bucket Bucket    `json:"bucket"`
}

// NewAnalysisWindow creates a window with boundaries snapped to whole buckets.
func NewAnalysisWindow(start, end time.Time, bucket Bucket) AnalysisWindow {
	if bucket == "" {
		bucket = Day
	}
	return AnalysisWindow{
		Start:  SnapToStart(start, bucket),
		End:    SnapToEnd(end, bucket),
		Bucket: bucket,
	}
}

// TrailingWindow covers the last windowDays days up to and including now.
func TrailingWindow(now time.Time, windowDays int, bucket Bucket) AnalysisWindow {
	if windowDays <= 0 {
		windowDays = 1
	}
	return NewAnalysisWindow(now.AddDate(0, 0, -(windowDays - 1)), now, bucket)
}

// SnapToStart normalizes a timestamp to the beginning of its bucket (0:00:00).
func SnapToStart(t time.Time, bucket Bucket) time.Time {
	if t.IsZero() {
		return t
	}
	switch bucket {
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case Week:
		// Weeks start on Monday
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return time.Date(t.Year(), t.Month(), t.Day()-(weekday-1), 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// SnapToEnd normalizes a timestamp to the last nanosecond of its bucket.
func SnapToEnd(t time.Time, bucket Bucket) time.Time {
	if t.IsZero() {
		return t
	}
	return next(SnapToStart(t, bucket), bucket).Add(-time.Nanosecond)
}

// Subdivide returns the bucket start times within the window.
func (w AnalysisWindow) Subdivide() []time.Time {
	var buckets []time.Time
	for current := w.Start; current.Before(w.End); current = next(current, w.Bucket) {
		buckets = append(buckets, current)
	}
	return buckets
}

// FindBucketIndex returns the index of the bucket containing t, or -1 when t
// falls outside the window.
func (w AnalysisWindow) FindBucketIndex(t time.Time) int {
	if t.Before(w.Start) || t.After(w.End) {
		return -1
	}
	tNorm := SnapToStart(t, w.Bucket)

	switch w.Bucket {
	case Month:
		return (tNorm.Year()-w.Start.Year())*12 + int(tNorm.Month()-w.Start.Month())
	case Week:
		return calendarDays(w.Start, tNorm) / 7
	default:
		return calendarDays(w.Start, tNorm)
	}
}

// GenerateLabel returns a human-readable label for a bucket (e.g. "Jan 2024" or "2024-W01").
func (w AnalysisWindow) GenerateLabel(t time.Time) string {
	switch w.Bucket {
	case Month:
		return t.Format("Jan 2006")
	case Week:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	default:
		return t.Format("2006-01-02")
	}
}

func next(t time.Time, bucket Bucket) time.Time {
	switch bucket {
	case Month:
		return t.AddDate(0, 1, 0)
	case Week:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// calendarDays counts whole days from a to b, ignoring DST shifts.
func calendarDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
