package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	toon "github.com/toon-format/toon-go"

	"welfare-mcp/internal/chart"
	"welfare-mcp/internal/dashboard"
	"welfare-mcp/internal/risk"
	"welfare-mcp/internal/stats"
	"welfare-mcp/internal/trend"
)

// queryFlags are the filters shared by the per-horse commands.
type queryFlags struct {
	timeframe string
	eventType string
	window    int
	bucket    string
	mode      string
	timeProp  bool
}

func (q *queryFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&q.timeframe, "timeframe", "t", "all", "look-back window: 3m, 6m, 12m or all")
	f.StringVar(&q.eventType, "type", "both", "event type: race, training or both")
	f.IntVarP(&q.window, "window", "w", 0, "days of history bucketed for statistics (default from DEFAULT_WINDOW_DAYS)")
	f.StringVarP(&q.bucket, "bucket", "b", "", "statistics bucket: day, week or month")
	f.StringVar(&q.mode, "mode", "both", "bars per event: performance, wellness or both")
	f.BoolVar(&q.timeProp, "time-proportional", false, "position events by age instead of evenly")
}

func (q *queryFlags) request(horseID string) (dashboard.Request, error) {
	tf, err := trend.ParseTimeframe(q.timeframe)
	if err != nil {
		return dashboard.Request{}, err
	}
	filter, err := trend.ParseEventFilter(q.eventType)
	if err != nil {
		return dashboard.Request{}, err
	}
	mode, err := chart.ParseDisplayMode(q.mode)
	if err != nil {
		return dashboard.Request{}, err
	}
	bucket := stats.Bucket(strings.ToLower(q.bucket))
	switch bucket {
	case "", stats.Day, stats.Week, stats.Month:
	default:
		return dashboard.Request{}, fmt.Errorf("invalid bucket %q: expected day, week or month", q.bucket)
	}
	return dashboard.Request{
		HorseID:          horseID,
		WindowDays:       q.window,
		Timeframe:        tf,
		EventType:        filter,
		Mode:             mode,
		TimeProportional: q.timeProp,
		Bucket:           bucket,
	}, nil
}

// writeStructured emits data as JSON or TOON. It reports false for table output.
func writeStructured(w io.Writer, format string, data any) (bool, error) {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(data)
	case "toon":
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return true, fmt.Errorf("encode toon: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return true, err
	case "", "table", "text":
		return false, nil
	}
	return true, fmt.Errorf("unknown output format %q: expected table, json or toon", format)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)
}

func title(w io.Writer, text string) {
	color.New(color.Bold).Fprintln(w, text)
}

// categoryText colours a risk category by severity.
func categoryText(c risk.Category) string {
	text := fmt.Sprintf("%d %s", int(c), c.Label())
	switch {
	case c >= risk.Critical:
		return color.RedString(text)
	case c >= risk.High:
		return color.YellowString(text)
	case c <= risk.Low:
		return color.GreenString(text)
	default:
		return text
	}
}

// changeText colours a percentage change; for wellness a rise is bad.
func changeText(v float64, higherIsBetter bool) string {
	text := fmt.Sprintf("%+.1f%%", v)
	switch {
	case v == 0:
		return text
	case (v > 0) == higherIsBetter:
		return color.GreenString(text)
	default:
		return color.RedString(text)
	}
}

func alertText(a stats.Alert) string {
	switch a.Kind {
	case stats.AlertAnomaly, stats.AlertThreshold, stats.AlertWelfare:
		return color.RedString("[%s] %s", a.Kind, a.Message)
	case stats.AlertTrend, stats.AlertSignificant:
		return color.YellowString("[%s] %s", a.Kind, a.Message)
	default:
		return fmt.Sprintf("[%s] %s", a.Kind, a.Message)
	}
}

func eventRows(table *tablewriter.Table, events []trend.ProcessedEvent) error {
	for _, e := range events {
		alert := ""
		if e.WelfareAlert {
			alert = color.RedString("yes")
		}
		err := table.Append([]string{
			e.Date.Format("2006-01-02"),
			string(e.Kind),
			e.Location,
			e.Distance,
			fmt.Sprintf("%.0f", e.PerformanceScore),
			changeText(e.PerformanceChange, true),
			fmt.Sprintf("%.0f", e.WellnessScore),
			changeText(e.WellnessChange, false),
			categoryText(e.RiskCategory),
			alert,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

var eventHeader = []string{"Date", "Type", "Location", "Distance", "Perf", "Δ Perf", "Wellness", "Δ Well", "Risk", "Alert"}
