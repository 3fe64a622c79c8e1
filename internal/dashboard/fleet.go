package dashboard

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"welfare-mcp/internal/eventlog"
	"welfare-mcp/internal/risk"
	"welfare-mcp/internal/stats"
)

// fleetConcurrency bounds parallel horse analyses.
const fleetConcurrency = 8

// FleetEntry is the headline of one horse's analysis.
type FleetEntry struct {
	HorseID         string        `json:"horse_id"`
	Events          int           `json:"events"`
	LatestCategory  risk.Category `json:"latest_category"`
	CriticalShare   float64       `json:"critical_share"`
	AlertCount      int           `json:"alert_count"`
	WelfareAlerts   int           `json:"welfare_alerts"`
	HighestSeverity string        `json:"highest_severity,omitempty"`
	Error           string        `json:"error,omitempty"`
}

// AnalyzeFleet analyzes many horses concurrently. Unknown horses are reported
// per entry; any other failure cancels the run.
func (s *Service) AnalyzeFleet(ctx context.Context, horseIDs []string, base Request) ([]FleetEntry, error) {
	entries := make([]FleetEntry, len(horseIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fleetConcurrency)

	for i, id := range horseIDs {
		g.Go(func() error {
			req := base
			req.HorseID = id

			a, err := s.Analyze(ctx, req)
			if err != nil {
				if errors.Is(err, eventlog.ErrUnknownHorse) {
					entries[i] = FleetEntry{HorseID: id, Error: err.Error()}
					return nil
				}
				return err
			}
			entries[i] = summarize(a)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Most critical first
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CriticalShare != entries[j].CriticalShare {
			return entries[i].CriticalShare > entries[j].CriticalShare
		}
		return entries[i].AlertCount > entries[j].AlertCount
	})

	log.Info().Int("horses", len(horseIDs)).Msg("Fleet analysis complete")
	return entries, nil
}

func summarize(a *Analysis) FleetEntry {
	e := FleetEntry{
		HorseID:    a.HorseID,
		Events:     len(a.Events),
		AlertCount: len(a.Alerts),
	}
	if n := len(a.Events); n > 0 {
		e.LatestCategory = a.Events[n-1].RiskCategory
	}
	for _, s := range a.Samples {
		if s.Category == risk.Critical {
			e.CriticalShare = s.Current
		}
	}
	for _, al := range a.Alerts {
		if al.Kind == stats.AlertWelfare {
			e.WelfareAlerts++
		}
		if severity(al.Kind) > severity(stats.AlertKind(e.HighestSeverity)) {
			e.HighestSeverity = string(al.Kind)
		}
	}
	return e
}

func severity(k stats.AlertKind) int {
	switch k {
	case stats.AlertAnomaly, stats.AlertThreshold, stats.AlertWelfare:
		return 3
	case stats.AlertTrend, stats.AlertSignificant:
		return 2
	case stats.AlertShift:
		return 1
	default:
		return 0
	}
}
