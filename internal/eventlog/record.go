package eventlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"welfare-mcp/internal/risk"
	"welfare-mcp/internal/trend"
)

// Record is the interchange shape accepted by Import. Dates are strings so the
// schema can be validated before any parsing happens.
type Record struct {
	ID                       string  `json:"id,omitempty" jsonschema:"unique event identifier; generated when absent"`
	HorseID                  string  `json:"horseId" jsonschema:"identifier of the horse"`
	Date                     string  `json:"date" jsonschema:"event date in RFC 3339 or YYYY-MM-DD form"`
	Type                     string  `json:"type" jsonschema:"race or training"`
	Location                 string  `json:"location" jsonschema:"venue or training ground"`
	Distance                 string  `json:"distance,omitempty" jsonschema:"distance as printed on the card"`
	PerformanceScore         float64 `json:"performanceScore" jsonschema:"fatigue adjusted performance score on the 1-140 scale"`
	WellnessScore            float64 `json:"wellnessScore" jsonschema:"wellness score on the 1-140 scale or a 1-5 risk category"`
	WellnessScale            string  `json:"wellnessScale,omitempty" jsonschema:"raw or category; omitted means inferred from the value"`
	WelfareAlert             bool    `json:"welfareAlert,omitempty" jsonschema:"a steward or vet raised a welfare alert"`
	ExcessiveLateralMovement bool    `json:"excessiveLateralMovement,omitempty" jsonschema:"gait analysis flagged excessive lateral movement"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts the date forms produced by upstream feeds.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// ToTrendEvent converts a validated record, assigning an ID when missing.
func (r Record) ToTrendEvent() (trend.TrendEvent, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return trend.TrendEvent{}, err
	}

	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = uuid.NewString()
	}

	return trend.TrendEvent{
		ID:                       id,
		HorseID:                  strings.TrimSpace(r.HorseID),
		Date:                     date,
		Kind:                     trend.Kind(strings.ToLower(r.Type)),
		Location:                 r.Location,
		Distance:                 r.Distance,
		PerformanceScore:         r.PerformanceScore,
		WellnessScore:            r.WellnessScore,
		WellnessScale:            risk.Scale(r.WellnessScale),
		WelfareAlert:             r.WelfareAlert,
		ExcessiveLateralMovement: r.ExcessiveLateralMovement,
	}, nil
}

// FromTrendEvent is the inverse of ToTrendEvent.
func FromTrendEvent(e trend.TrendEvent) Record {
	return Record{
		ID:                       e.ID,
		HorseID:                  e.HorseID,
		Date:                     e.Date.Format(time.RFC3339),
		Type:                     string(e.Kind),
		Location:                 e.Location,
		Distance:                 e.Distance,
		PerformanceScore:         e.PerformanceScore,
		WellnessScore:            e.WellnessScore,
		WellnessScale:            string(e.WellnessScale),
		WelfareAlert:             e.WelfareAlert,
		ExcessiveLateralMovement: e.ExcessiveLateralMovement,
	}
}
