package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"welfare-mcp/internal/trend"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat accepts csv, json or text (txt).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// CSVHeader is the column order external parsers depend on.
var CSVHeader = []string{"date", "type", "location", "distance", "performanceScore", "wellnessScore", "welfareAlert"}

const dateLayout = "2006-01-02"

// Write encodes events in the requested format.
func Write(w io.Writer, format Format, events []trend.ProcessedEvent) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, events)
	case FormatJSON:
		return WriteJSON(w, events)
	case FormatText:
		return WriteText(w, events)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteCSV writes one row per event. Location is always quoted; other fields
// are quoted only when they contain separators.
func WriteCSV(w io.Writer, events []trend.ProcessedEvent) error {
	var b strings.Builder
	b.WriteString(strings.Join(CSVHeader, ","))
	b.WriteString("\n")

	for _, e := range events {
		fields := []string{
			field(e.Date.Format(dateLayout)),
			field(string(e.Kind)),
			quote(e.Location),
			field(e.Distance),
			formatScore(e.PerformanceScore),
			formatScore(e.WellnessScore),
			strconv.FormatBool(e.WelfareAlert),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// jsonEvent is the exported shape of a processed event.
type jsonEvent struct {
	ID                string  `json:"id"`
	Date              string  `json:"date"`
	Type              string  `json:"type"`
	Location          string  `json:"location"`
	Distance          string  `json:"distance"`
	PerformanceScore  float64 `json:"performanceScore"`
	WellnessScore     float64 `json:"wellnessScore"`
	WelfareAlert      bool    `json:"welfareAlert"`
	RiskCategory      int     `json:"riskCategory"`
	RiskLabel         string  `json:"riskLabel"`
	PerformanceChange float64 `json:"performanceChange"`
	WellnessChange    float64 `json:"wellnessChange"`
}

// WriteJSON writes an indented array of events.
func WriteJSON(w io.Writer, events []trend.ProcessedEvent) error {
	out := make([]jsonEvent, len(events))
	for i, e := range events {
		out[i] = jsonEvent{
			ID:                e.ID,
			Date:              e.Date.Format(dateLayout),
			Type:              string(e.Kind),
			Location:          e.Location,
			Distance:          e.Distance,
			PerformanceScore:  e.PerformanceScore,
			WellnessScore:     e.WellnessScore,
			WelfareAlert:      e.WelfareAlert,
			RiskCategory:      int(e.RiskCategory),
			RiskLabel:         e.RiskCategory.Label(),
			PerformanceChange: round2(e.PerformanceChange),
			WellnessChange:    round2(e.WellnessChange),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}

// WriteText writes a borderless table for reading in a terminal or a mail body.
func WriteText(w io.Writer, events []trend.ProcessedEvent) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off},
			},
		}),
	)

	table.Header([]string{"Date", "Type", "Location", "Distance", "Performance", "Wellness", "Risk", "Alert"})
	for _, e := range events {
		alert := ""
		if e.WelfareAlert {
			alert = "YES"
		}
		if err := table.Append([]string{
			e.Date.Format(trend.DateLabelLayout),
			string(e.Kind),
			e.Location,
			e.Distance,
			formatScore(e.PerformanceScore),
			formatScore(e.WellnessScore),
			e.RiskCategory.Label(),
			alert,
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// FileName builds a download name like "H-1001-history-2025-06-30.csv".
func FileName(horseID string, format Format, now time.Time) string {
	return fmt.Sprintf("%s-history-%s.%s", horseID, now.Format(dateLayout), format.Extension())
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func field(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
