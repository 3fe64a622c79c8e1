package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"welfare-mcp/internal/risk"
	"welfare-mcp/internal/trend"
)

func sampleEvents() []trend.ProcessedEvent {
	return []trend.ProcessedEvent{
		{
			TrendEvent: trend.TrendEvent{
				ID: "e1", Date: time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC), Kind: trend.Race,
				Location: `Ascot "Royal"`, Distance: "1m 2f", PerformanceScore: 95.5, WellnessScore: 104, WelfareAlert: true,
			},
			RiskCategory: risk.High,
		},
		{
			TrendEvent: trend.TrendEvent{
				ID: "e2", Date: time.Date(2025, 3, 8, 7, 0, 0, 0, time.UTC), Kind: trend.Training,
				Location: "Lambourn, Berks", Distance: "6f", PerformanceScore: 88, WellnessScore: 60,
			},
			PerformanceChange: -7.853403,
			RiskCategory:      risk.Minimal,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleEvents()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"date,type,location,distance,performanceScore,wellnessScore,welfareAlert",
		`2025-03-01,race,"Ascot ""Royal""",1m 2f,95.5,104,true`,
		`2025-03-08,training,"Lambourn, Berks",6f,88,60,false`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d:\n got %s\nwant %s", i, lines[i], want[i])
		}
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != strings.Join(CSVHeader, ",")+"\n" {
		t.Errorf("empty export = %q", got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleEvents()); err != nil {
		t.Fatal(err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("got %d records", len(decoded))
	}
	if decoded[0]["riskLabel"] != "High Risk" {
		t.Errorf("riskLabel = %v", decoded[0]["riskLabel"])
	}
	if decoded[1]["performanceChange"] != -7.85 {
		t.Errorf("performanceChange = %v, want -7.85", decoded[1]["performanceChange"])
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleEvents()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"01 Mar 2025", "Lambourn, Berks", "High Risk", "YES"} {
		if !strings.Contains(out, want) {
			t.Errorf("text export missing %q:\n%s", want, out)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"json", FormatJSON, false},
		{"txt", FormatText, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	if got := FileName("H-1", FormatText, now); got != "H-1-history-2025-06-30.txt" {
		t.Errorf("FileName() = %q", got)
	}
}
