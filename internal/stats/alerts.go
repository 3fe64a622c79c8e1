package stats

import (
	"fmt"

	"welfare-mcp/internal/risk"
	"welfare-mcp/internal/trend"
)

// AlertKind classifies a banner raised by DeriveAlerts.
type AlertKind string

const (
	AlertThreshold   AlertKind = "threshold"
	AlertTrend       AlertKind = "trend"
	AlertAnomaly     AlertKind = "anomaly"
	AlertSignificant AlertKind = "significant"
	AlertShift       AlertKind = "shift"
	AlertWelfare     AlertKind = "welfare"
)

// Alert is one condition the alerting layer should surface.
type Alert struct {
	Kind     AlertKind     `json:"kind"`
	Category risk.Category `json:"category,omitempty"`
	EventID  string        `json:"event_id,omitempty"`
	Value    float64       `json:"value"`
	Message  string        `json:"message"`
}

// DeriveAlerts evaluates samples and events against the configured thresholds.
// A zero threshold disables its rule.
func DeriveAlerts(samples []AnalyticsSample, events []trend.ProcessedEvent, th Thresholds) []Alert {
	var alerts []Alert

	for _, s := range samples {
		if s.Category == risk.Critical && th.Category5AlertPct > 0 && s.Current >= th.Category5AlertPct {
			alerts = append(alerts, Alert{
				Kind:     AlertThreshold,
				Category: s.Category,
				Value:    s.Current,
				Message:  fmt.Sprintf("%.1f%% of recent events are %s (trigger %.1f%%)", s.Current, s.Label, th.Category5AlertPct),
			})
		}

		if s.Category >= risk.High && th.TrendSlopeAlert > 0 && s.Slope >= th.TrendSlopeAlert {
			alerts = append(alerts, Alert{
				Kind:     AlertTrend,
				Category: s.Category,
				Value:    s.Slope,
				Message:  fmt.Sprintf("%s share rising by %.2f points per period", s.Label, s.Slope),
			})
		}

		switch {
		case s.IsAnomaly:
			alerts = append(alerts, Alert{
				Kind:     AlertAnomaly,
				Category: s.Category,
				Value:    s.ZScore,
				Message:  fmt.Sprintf("%s at %.1f%% is anomalous (z=%.2f)", s.Label, s.Current, s.ZScore),
			})
		case s.IsSignificant:
			alerts = append(alerts, Alert{
				Kind:     AlertSignificant,
				Category: s.Category,
				Value:    s.ZScore,
				Message:  fmt.Sprintf("%s at %.1f%% deviates significantly from its mean %.1f%% (z=%.2f)", s.Label, s.Current, s.Mean, s.ZScore),
			})
		}

		for _, sig := range s.Signals {
			alerts = append(alerts, Alert{
				Kind:     AlertShift,
				Category: s.Category,
				Value:    float64(sig.Index),
				Message:  fmt.Sprintf("%s: %s", s.Label, sig.Description),
			})
		}
	}

	for _, e := range events {
		if !e.WelfareAlert {
			continue
		}
		alerts = append(alerts, Alert{
			Kind:     AlertWelfare,
			Category: e.RiskCategory,
			EventID:  e.ID,
			Value:    e.WellnessScore,
			Message:  fmt.Sprintf("Welfare alert flagged for %s at %s on %s", e.Kind, e.Location, e.DateLabel),
		})
	}

	return alerts
}
