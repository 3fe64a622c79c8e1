package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"welfare-mcp/internal/chart"
	"welfare-mcp/internal/dashboard"
	"welfare-mcp/internal/stats"
	"welfare-mcp/internal/trend"
)

// TrendQuery carries the filters shared by the per-horse tools.
type TrendQuery struct {
	HorseID          string  `json:"horse_id" jsonschema:"The horse to analyze (see list_horses)"`
	Timeframe        string  `json:"timeframe,omitempty" jsonschema:"Look-back window: 3m, 6m, 12m or all (default all)"`
	EventType        string  `json:"event_type,omitempty" jsonschema:"race, training or both (default both)"`
	WindowDays       int     `json:"window_days,omitempty" jsonschema:"Days of history fetched and bucketed for statistics"`
	Bucket           string  `json:"bucket,omitempty" jsonschema:"Statistics bucket: day, week or month"`
	Mode             string  `json:"mode,omitempty" jsonschema:"Bars per event: performance, wellness or both"`
	TimeProportional bool    `json:"time_proportional,omitempty" jsonschema:"Position events by age instead of evenly"`
	Width            float64 `json:"width,omitempty" jsonschema:"Chart width in pixels"`
	Height           float64 `json:"height,omitempty" jsonschema:"Chart height in pixels"`
	OutputFormat     string  `json:"output_format,omitempty" jsonschema:"Result encoding: json or toon (default from server configuration)"`
}

func (q TrendQuery) request() (dashboard.Request, error) {
	if strings.TrimSpace(q.HorseID) == "" {
		return dashboard.Request{}, fmt.Errorf("horse_id is required")
	}
	return q.filters()
}

// filters converts everything but the horse into a dashboard request.
func (q TrendQuery) filters() (dashboard.Request, error) {
	tf, err := trend.ParseTimeframe(q.Timeframe)
	if err != nil {
		return dashboard.Request{}, err
	}
	filter, err := trend.ParseEventFilter(q.EventType)
	if err != nil {
		return dashboard.Request{}, err
	}
	mode, err := chart.ParseDisplayMode(q.Mode)
	if err != nil {
		return dashboard.Request{}, err
	}
	bucket, err := parseBucket(q.Bucket)
	if err != nil {
		return dashboard.Request{}, err
	}
	return dashboard.Request{
		HorseID:          q.HorseID,
		WindowDays:       q.WindowDays,
		Timeframe:        tf,
		EventType:        filter,
		Mode:             mode,
		TimeProportional: q.TimeProportional,
		Width:            q.Width,
		Height:           q.Height,
		Bucket:           bucket,
	}, nil
}

func parseBucket(s string) (stats.Bucket, error) {
	switch b := stats.Bucket(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return "", nil
	case stats.Day, stats.Week, stats.Month:
		return b, nil
	}
	return "", fmt.Errorf("invalid bucket %q: expected day, week or month", s)
}

// formatResult renders a tool payload as indented JSON or TOON.
func (s *Server) formatResult(data any, format string) (string, error) {
	if format == "" {
		format = s.app.Config.OutputFormat
	}
	if strings.EqualFold(format, "toon") {
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", fmt.Errorf("encode toon: %w", err)
		}
		return string(out), nil
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(out), nil
}

func (s *Server) toolResult(data any, format string) (*sdk.CallToolResult, any, error) {
	text, err := s.formatResult(data, format)
	if err != nil {
		return toolError(err.Error())
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text}},
	}, nil, nil
}

func textResult(text string) (*sdk.CallToolResult, any, error) {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text}},
	}, nil, nil
}

func toolError(msg string) (*sdk.CallToolResult, any, error) {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: "Error: " + msg}},
		IsError: true,
	}, nil, nil
}
