package trend

import (
	"time"

	"welfare-mcp/internal/risk"
)

// Kind distinguishes races from training sessions.
type Kind string

const (
	Race     Kind = "race"
	Training Kind = "training"
)

// Score domain shared by performance and raw wellness readings.
const (
	MinScore = 1.0
	MaxScore = 140.0
)

// TrendEvent is one race or training event for one horse. It is treated as
// immutable for the lifetime of a rendering pass.
type TrendEvent struct {
	ID       string    `json:"id"`
	HorseID  string    `json:"horseId"`
	Date     time.Time `json:"date"`
	Kind     Kind      `json:"type"`
	Location string    `json:"location"`
	Distance string    `json:"distance"`

	PerformanceScore float64    `json:"performanceScore"`
	WellnessScore    float64    `json:"wellnessScore"`
	WellnessScale    risk.Scale `json:"wellnessScale,omitempty"`

	WelfareAlert             bool `json:"welfareAlert"`
	ExcessiveLateralMovement bool `json:"excessiveLateralMovement,omitempty"`
}

// RiskCategory classifies the event's wellness reading.
func (e TrendEvent) RiskCategory() risk.Category {
	return risk.Classify(risk.Tagged(e.WellnessScale, e.WellnessScore), e.ExcessiveLateralMovement)
}

// ProcessedEvent is a TrendEvent enriched for display. It is derived on every
// filter change and never mutated in place.
type ProcessedEvent struct {
	TrendEvent

	DateLabel         string        `json:"dateLabel"`
	Index             int           `json:"index"`
	PerformanceChange float64       `json:"performanceChange"`
	WellnessChange    float64       `json:"wellnessChange"`
	DaysFromToday     float64       `json:"daysFromToday"`
	DaysBetween       float64       `json:"daysBetween"`
	RiskCategory      risk.Category `json:"riskCategory"`
}
