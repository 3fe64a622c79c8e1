package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"welfare-mcp/internal/chart"
	"welfare-mcp/internal/covariates"
	"welfare-mcp/internal/eventlog"
	"welfare-mcp/internal/stats"
	"welfare-mcp/internal/trend"
)

// Default viewport used when a request does not size the chart.
const (
	DefaultWidth  = 900
	DefaultHeight = 420
)

// Request selects one horse's view.
type Request struct {
	HorseID          string            `json:"horse_id"`
	WindowDays       int               `json:"window_days"`
	Timeframe        trend.Timeframe   `json:"timeframe"`
	EventType        trend.EventFilter `json:"event_type"`
	Mode             chart.DisplayMode `json:"mode"`
	TimeProportional bool              `json:"time_proportional"`
	Width            float64           `json:"width"`
	Height           float64           `json:"height"`
	Bucket           stats.Bucket      `json:"bucket"`
}

// Analysis is the full output of one pass over a horse's history.
type Analysis struct {
	HorseID string                  `json:"horse_id"`
	Window  stats.AnalysisWindow    `json:"window"`
	Events  []trend.ProcessedEvent  `json:"events"`
	Lines   trend.Series            `json:"lines"`
	Layout  chart.Layout            `json:"layout"`
	Groups  []chart.BarGroup        `json:"groups"`
	Shares  []stats.BucketShare     `json:"shares"`
	Samples []stats.AnalyticsSample `json:"samples"`
	Alerts  []stats.Alert           `json:"alerts"`
}

// Service runs fetch, process, layout and analytics for a horse.
type Service struct {
	fetcher    eventlog.Fetcher
	covariates covariates.Source
	layouts    *chart.LayoutCache
	thresholds stats.Thresholds
	windowDays int
	bucket     stats.Bucket
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithCovariates(src covariates.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.covariates = src
		}
	}
}

func WithThresholds(th stats.Thresholds) Option {
	return func(s *Service) { s.thresholds = th }
}

func WithDefaultWindow(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

func WithDefaultBucket(b stats.Bucket) Option {
	return func(s *Service) {
		if b != "" {
			s.bucket = b
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLayoutCache(c *chart.LayoutCache) Option {
	return func(s *Service) { s.layouts = c }
}

func NewService(fetcher eventlog.Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:    fetcher,
		covariates: covariates.None,
		layouts:    chart.NewLayoutCache(64),
		thresholds: stats.DefaultThresholds(),
		windowDays: 180,
		bucket:     stats.Day,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Thresholds returns the active alert configuration.
func (s *Service) Thresholds() stats.Thresholds {
	return s.thresholds
}

// Analyze runs the full pipeline for one horse. Events are ordered oldest
// first so the chart reads left to right.
func (s *Service) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	req = s.normalize(req)
	now := s.now()

	raw, err := s.fetcher.FetchEvents(ctx, req.HorseID, req.WindowDays)
	if err != nil {
		return nil, fmt.Errorf("fetch events for %s: %w", req.HorseID, err)
	}

	events := trend.Process(trend.SortAscending(raw), trend.Options{
		Timeframe: req.Timeframe,
		EventType: req.EventType,
		Now:       now,
	})

	layout := s.layouts.Layout(chart.LayoutInput{
		Width:            req.Width,
		Height:           req.Height,
		EventCount:       len(events),
		Mode:             req.Mode,
		TimeProportional: req.TimeProportional,
	})

	window := statsWindow(now, req, events)
	series, shares := stats.BuildCategorySeries(events, window)

	covs, err := s.covariates.Covariates(ctx, req.HorseID)
	if err != nil {
		log.Warn().Err(err).Str("horse", req.HorseID).Msg("Covariates unavailable, continuing without them")
		covs = nil
	}

	samples := stats.Analyze(series, covs, s.thresholds)
	alerts := stats.DeriveAlerts(samples, events, s.thresholds)

	log.Info().
		Str("horse", req.HorseID).
		Int("events", len(events)).
		Int("buckets", len(shares)).
		Int("alerts", len(alerts)).
		Msg("Trend analysis complete")

	return &Analysis{
		HorseID: req.HorseID,
		Window:  window,
		Events:  events,
		Lines:   trend.TrendLines(events),
		Layout:  layout,
		Groups:  chart.ComputeBarPositions(layout, events),
		Shares:  shares,
		Samples: samples,
		Alerts:  alerts,
	}, nil
}

// History returns processed events newest first, as shown in history tables.
func (s *Service) History(ctx context.Context, req Request) ([]trend.ProcessedEvent, error) {
	req = s.normalize(req)

	raw, err := s.fetcher.FetchEvents(ctx, req.HorseID, req.WindowDays)
	if err != nil {
		return nil, fmt.Errorf("fetch events for %s: %w", req.HorseID, err)
	}
	return trend.Process(trend.SortDescending(raw), trend.Options{
		Timeframe: req.Timeframe,
		EventType: req.EventType,
		Now:       s.now(),
	}), nil
}

// CacheStats reports layout memoization effectiveness.
func (s *Service) CacheStats() (hits, misses int) {
	return s.layouts.Stats()
}

// statsWindow buckets the trailing WindowDays, or every charted event back to
// the oldest when WindowDays is negative.
func statsWindow(now time.Time, req Request, events []trend.ProcessedEvent) stats.AnalysisWindow {
	if req.WindowDays >= 0 || len(events) == 0 {
		return stats.TrailingWindow(now, req.WindowDays, req.Bucket)
	}
	start := events[0].Date
	if start.After(now) {
		start = now
	}
	return stats.NewAnalysisWindow(start, now, req.Bucket)
}

func (s *Service) normalize(req Request) Request {
	if req.WindowDays == 0 {
		req.WindowDays = s.windowDays
	}
	if req.EventType == "" {
		req.EventType = trend.Both
	}
	if req.Mode == "" {
		req.Mode = chart.ShowBoth
	}
	if req.Width <= 0 {
		req.Width = DefaultWidth
	}
	if req.Height <= 0 {
		req.Height = DefaultHeight
	}
	if req.Bucket == "" {
		req.Bucket = s.bucket
	}
	return req
}
