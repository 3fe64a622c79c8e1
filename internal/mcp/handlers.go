package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"welfare-mcp/internal/chart"
	"welfare-mcp/internal/eventlog"
	"welfare-mcp/internal/export"
	"welfare-mcp/internal/interaction"
	"welfare-mcp/internal/risk"
	"welfare-mcp/internal/stats"
	"welfare-mcp/internal/trend"
	"welfare-mcp/internal/visuals"
)

type horseSummary struct {
	HorseID    string `json:"horse_id"`
	Events     int    `json:"events"`
	LatestDate string `json:"latest_date,omitempty"`
}

type ListHorsesInput struct{}

func (s *Server) handleListHorses(ctx context.Context, req *sdk.CallToolRequest, input ListHorsesInput) (*sdk.CallToolResult, any, error) {
	ids, err := s.app.Provider.ListHorses()
	if err != nil {
		return toolError(err.Error())
	}

	horses := make([]horseSummary, 0, len(ids))
	for _, id := range ids {
		events, err := s.app.Provider.FetchEvents(ctx, id, 0)
		if err != nil && !errors.Is(err, eventlog.ErrUnknownHorse) {
			return toolError(err.Error())
		}
		h := horseSummary{HorseID: id, Events: len(events)}
		if n := len(events); n > 0 {
			latest := trend.SortAscending(events)[n-1]
			h.LatestDate = latest.Date.Format("2006-01-02")
		}
		horses = append(horses, h)
	}
	return s.toolResult(map[string]any{"horses": horses}, "")
}

type AnalyzeTrendInput struct {
	TrendQuery
	IncludeEvents bool `json:"include_events,omitempty" jsonschema:"Include every processed event in the result"`
}

type trendResult struct {
	HorseID    string                  `json:"horse_id"`
	Window     stats.AnalysisWindow    `json:"window"`
	EventCount int                     `json:"event_count"`
	Latest     *trend.ProcessedEvent   `json:"latest,omitempty"`
	Events     []trend.ProcessedEvent  `json:"events,omitempty"`
	Shares     []stats.BucketShare     `json:"shares,omitempty"`
	Samples    []stats.AnalyticsSample `json:"samples"`
	Alerts     []stats.Alert           `json:"alerts"`
}

func (s *Server) handleAnalyzeTrend(ctx context.Context, req *sdk.CallToolRequest, input AnalyzeTrendInput) (*sdk.CallToolResult, any, error) {
	dreq, err := input.request()
	if err != nil {
		return toolError(err.Error())
	}
	a, err := s.app.Dashboard.Analyze(ctx, dreq)
	if err != nil {
		return toolError(err.Error())
	}

	res := trendResult{
		HorseID:    a.HorseID,
		Window:     a.Window,
		EventCount: len(a.Events),
		Shares:     a.Shares,
		Samples:    a.Samples,
		Alerts:     a.Alerts,
	}
	if n := len(a.Events); n > 0 {
		res.Latest = &a.Events[n-1]
	}
	if input.IncludeEvents {
		res.Events = a.Events
	}

	out, extra, err := s.toolResult(res, input.OutputFormat)
	if err != nil || out.IsError || !s.app.Config.EnableMermaidCharts {
		return out, extra, err
	}

	var charts []string
	if c := visuals.GenerateTrendChart(a.Events); c != "" {
		charts = append(charts, c)
	}
	if c := visuals.GenerateRiskPie(a.Events); c != "" {
		charts = append(charts, c)
	}
	for _, sample := range a.Samples {
		if sample.Category == risk.Critical {
			if c := visuals.GenerateCategoryChart(sample, a.Shares); c != "" {
				charts = append(charts, c)
			}
		}
	}
	if len(charts) > 0 {
		out.Content = append(out.Content, &sdk.TextContent{Text: strings.Join(charts, "\n\n")})
	}
	return out, extra, nil
}

type HistoryInput struct {
	TrendQuery
	Limit int `json:"limit,omitempty" jsonschema:"Maximum rows to return, newest first"`
}

func (s *Server) handleHistory(ctx context.Context, req *sdk.CallToolRequest, input HistoryInput) (*sdk.CallToolResult, any, error) {
	dreq, err := input.request()
	if err != nil {
		return toolError(err.Error())
	}
	events, err := s.app.Dashboard.History(ctx, dreq)
	if err != nil {
		return toolError(err.Error())
	}
	total := len(events)
	if input.Limit > 0 && input.Limit < total {
		events = events[:input.Limit]
	}
	return s.toolResult(map[string]any{
		"horse_id": dreq.HorseID,
		"total":    total,
		"events":   events,
	}, input.OutputFormat)
}

type Reading struct {
	Value                    float64 `json:"value" jsonschema:"Wellness value"`
	Scale                    string  `json:"scale,omitempty" jsonschema:"raw, category or empty to infer from the range"`
	ExcessiveLateralMovement bool    `json:"excessive_lateral_movement,omitempty" jsonschema:"Lateral movement flag that lifts low raw scores to category 2"`
}

type ClassifyRiskInput struct {
	Readings []Reading `json:"readings" jsonschema:"Wellness readings to classify"`
}

type classification struct {
	Value    float64  `json:"value"`
	Scale    string   `json:"scale"`
	Category int      `json:"category"`
	Label    string   `json:"label"`
	Color    string   `json:"color"`
	Position *float64 `json:"position,omitempty"`
}

func (s *Server) handleClassifyRisk(ctx context.Context, req *sdk.CallToolRequest, input ClassifyRiskInput) (*sdk.CallToolResult, any, error) {
	if len(input.Readings) == 0 {
		return toolError("readings must not be empty")
	}

	out := make([]classification, 0, len(input.Readings))
	for _, r := range input.Readings {
		var in risk.Input
		switch strings.ToLower(r.Scale) {
		case "raw":
			in = risk.RawScore(r.Value)
		case "category":
			in = risk.Tagged(risk.ScaleCategory, r.Value)
		case "":
			in = risk.Sniff(r.Value)
		default:
			return toolError(fmt.Sprintf("invalid scale %q: expected raw or category", r.Scale))
		}

		c := risk.Classify(in, r.ExcessiveLateralMovement)
		cl := classification{
			Value:    r.Value,
			Scale:    string(in.Scale()),
			Category: int(c),
			Label:    c.Label(),
			Color:    c.Color(),
		}
		if in.Scale() == risk.ScaleRaw {
			pos := chart.ScoreToPosition(r.Value)
			cl.Position = &pos
		}
		out = append(out, cl)
	}
	return s.toolResult(map[string]any{"classifications": out}, "")
}

type LayoutEvent struct {
	ID               string  `json:"id,omitempty" jsonschema:"Event identifier"`
	DaysFromToday    float64 `json:"days_from_today,omitempty" jsonschema:"Age of the event in days"`
	PerformanceScore float64 `json:"performance_score,omitempty" jsonschema:"Performance score 1-140"`
	WellnessScore    float64 `json:"wellness_score,omitempty" jsonschema:"Wellness score 1-140"`
}

type ComputeLayoutInput struct {
	Width            float64       `json:"width" jsonschema:"Viewport width in pixels"`
	Height           float64       `json:"height" jsonschema:"Viewport height in pixels"`
	Mode             string        `json:"mode,omitempty" jsonschema:"performance, wellness or both"`
	TimeProportional bool          `json:"time_proportional,omitempty" jsonschema:"Position events by age instead of evenly"`
	EventCount       int           `json:"event_count,omitempty" jsonschema:"Number of evenly spaced events when no events are supplied"`
	Events           []LayoutEvent `json:"events,omitempty" jsonschema:"Events in display order, oldest first"`
}

func (s *Server) handleComputeLayout(ctx context.Context, req *sdk.CallToolRequest, input ComputeLayoutInput) (*sdk.CallToolResult, any, error) {
	mode, err := chart.ParseDisplayMode(input.Mode)
	if err != nil {
		return toolError(err.Error())
	}

	events := make([]trend.ProcessedEvent, 0, max(len(input.Events), input.EventCount))
	for i, e := range input.Events {
		events = append(events, trend.ProcessedEvent{
			TrendEvent: trend.TrendEvent{
				ID:               e.ID,
				PerformanceScore: e.PerformanceScore,
				WellnessScore:    e.WellnessScore,
			},
			Index:         i,
			DaysFromToday: e.DaysFromToday,
		})
	}
	if len(events) == 0 {
		for i := range input.EventCount {
			events = append(events, trend.ProcessedEvent{
				TrendEvent: trend.TrendEvent{ID: fmt.Sprintf("event-%d", i+1)},
				Index:      i,
			})
		}
	}

	layout := chart.ComputeLayout(chart.LayoutInput{
		Width:            input.Width,
		Height:           input.Height,
		EventCount:       len(events),
		Mode:             mode,
		TimeProportional: input.TimeProportional,
	})
	return s.toolResult(map[string]any{
		"layout": layout,
		"groups": chart.ComputeBarPositions(layout, events),
	}, "")
}

type InspectPointInput struct {
	TrendQuery
	X float64  `json:"x" jsonschema:"Horizontal pointer coordinate in chart pixels"`
	Y *float64 `json:"y,omitempty" jsonschema:"Vertical pointer coordinate; defaults to the middle of the plot area"`
}

type inspection struct {
	HorseID string                `json:"horse_id"`
	Hit     bool                  `json:"hit"`
	State   string                `json:"state"`
	Anchor  *interaction.Point    `json:"anchor,omitempty"`
	Event   *trend.ProcessedEvent `json:"event,omitempty"`
}

func (s *Server) handleInspectPoint(ctx context.Context, req *sdk.CallToolRequest, input InspectPointInput) (*sdk.CallToolResult, any, error) {
	dreq, err := input.request()
	if err != nil {
		return toolError(err.Error())
	}
	a, err := s.app.Dashboard.Analyze(ctx, dreq)
	if err != nil {
		return toolError(err.Error())
	}

	y := a.Layout.Padding.Top + a.Layout.ChartHeight/2
	if input.Y != nil {
		y = *input.Y
	}

	ctrl := interaction.NewController(interaction.WithDelay(s.app.Config.HoverDelay))
	surface := interaction.NewSurface(ctrl, a.Layout, chart.ComputeAnchors(a.Layout, a.Events))

	res := inspection{HorseID: a.HorseID}
	id, ok := surface.Click(interaction.Point{X: input.X, Y: y})
	snap := ctrl.Snapshot()
	res.State = snap.State.String()
	if ok {
		res.Hit = true
		res.Anchor = &snap.Anchor
		for i := range a.Events {
			if a.Events[i].ID == id {
				res.Event = &a.Events[i]
				break
			}
		}
	}
	ctrl.Reset()
	return s.toolResult(res, input.OutputFormat)
}

type ExportInput struct {
	TrendQuery
	Format string `json:"format,omitempty" jsonschema:"csv, json or text (default csv)"`
	Save   bool   `json:"save,omitempty" jsonschema:"Also write the export to the reports folder"`
}

func (s *Server) handleExport(ctx context.Context, req *sdk.CallToolRequest, input ExportInput) (*sdk.CallToolResult, any, error) {
	dreq, err := input.request()
	if err != nil {
		return toolError(err.Error())
	}
	format, err := export.ParseFormat(input.Format)
	if err != nil {
		return toolError(err.Error())
	}
	events, err := s.app.Dashboard.History(ctx, dreq)
	if err != nil {
		return toolError(err.Error())
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, events); err != nil {
		return toolError(err.Error())
	}

	if input.Save {
		name := export.FileName(eventlog.SanitizeID(dreq.HorseID), format, time.Now())
		path := filepath.Join(s.app.Config.ReportsDir, name)
		if err := writeFile(path, buf.Bytes()); err != nil {
			return toolError(err.Error())
		}
		log.Info().Str("path", path).Int("events", len(events)).Msg("History exported")
		return textResult(fmt.Sprintf("Exported %d events to %s\n\n%s", len(events), path, buf.String()))
	}
	return textResult(buf.String())
}

type ReportInput struct {
	TrendQuery
}

func (s *Server) handleReport(ctx context.Context, req *sdk.CallToolRequest, input ReportInput) (*sdk.CallToolResult, any, error) {
	dreq, err := input.request()
	if err != nil {
		return toolError(err.Error())
	}
	path, err := s.app.WriteReport(ctx, dreq, time.Now())
	if err != nil {
		return toolError(err.Error())
	}
	return s.toolResult(map[string]any{"horse_id": dreq.HorseID, "path": path}, input.OutputFormat)
}

type ImportInput struct {
	Path    string `json:"path,omitempty" jsonschema:"File to import (JSON array or JSON Lines)"`
	Content string `json:"content,omitempty" jsonschema:"Inline records, used when no path is given"`
}

func (s *Server) handleImport(ctx context.Context, req *sdk.CallToolRequest, input ImportInput) (*sdk.CallToolResult, any, error) {
	var (
		res eventlog.ImportResult
		err error
	)
	switch {
	case input.Path != "":
		res, err = s.app.Importer.ImportFile(input.Path)
	case strings.TrimSpace(input.Content) != "":
		res, err = s.app.Importer.Import(strings.NewReader(input.Content))
	default:
		return toolError("either path or content is required")
	}
	if err != nil {
		return toolError(err.Error())
	}
	return s.toolResult(res, "")
}

type FleetInput struct {
	HorseIDs   []string `json:"horse_ids,omitempty" jsonschema:"Horses to compare; defaults to every known horse"`
	Timeframe  string   `json:"timeframe,omitempty" jsonschema:"Look-back window: 3m, 6m, 12m or all"`
	EventType  string   `json:"event_type,omitempty" jsonschema:"race, training or both"`
	WindowDays int      `json:"window_days,omitempty" jsonschema:"Days of history bucketed for statistics"`
	Bucket     string   `json:"bucket,omitempty" jsonschema:"Statistics bucket: day, week or month"`
}

func (s *Server) handleFleet(ctx context.Context, req *sdk.CallToolRequest, input FleetInput) (*sdk.CallToolResult, any, error) {
	base, err := TrendQuery{
		Timeframe:  input.Timeframe,
		EventType:  input.EventType,
		WindowDays: input.WindowDays,
		Bucket:     input.Bucket,
	}.filters()
	if err != nil {
		return toolError(err.Error())
	}

	ids := input.HorseIDs
	if len(ids) == 0 {
		if ids, err = s.app.Provider.ListHorses(); err != nil {
			return toolError(err.Error())
		}
	}
	if len(ids) == 0 {
		return toolError("no horses found; import events first")
	}

	entries, err := s.app.Dashboard.AnalyzeFleet(ctx, ids, base)
	if err != nil {
		return toolError(err.Error())
	}
	return s.toolResult(map[string]any{"horses": entries}, "")
}

type ThresholdsInput struct{}

func (s *Server) handleThresholds(ctx context.Context, req *sdk.CallToolRequest, input ThresholdsInput) (*sdk.CallToolResult, any, error) {
	cfg := s.app.Config
	hits, misses := s.app.Dashboard.CacheStats()
	return s.toolResult(map[string]any{
		"thresholds":          s.app.Dashboard.Thresholds(),
		"hover_delay_ms":      cfg.HoverDelay.Milliseconds(),
		"default_window_days": cfg.DefaultWindowDays,
		"default_bucket":      cfg.DefaultBucket,
		"layout_cache":        map[string]int{"hits": hits, "misses": misses},
	}, "")
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
