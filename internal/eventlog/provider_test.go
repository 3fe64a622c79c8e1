package eventlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"welfare-mcp/internal/trend"
)

func TestLogProvider_FetchEvents(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	p := NewLogProvider(NewEventStore(), dir)
	p.now = func() time.Time { return now }

	events := []trend.TrendEvent{
		{ID: "old", Date: now.AddDate(0, 0, -200), Kind: trend.Race},
		{ID: "mid", Date: now.AddDate(0, 0, -60), Kind: trend.Training},
		{ID: "new", Date: now.AddDate(0, 0, -2), Kind: trend.Race},
	}
	if _, err := p.Ingest("H1", events); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	tests := []struct {
		name       string
		windowDays int
		want       []string
	}{
		{"all history", 0, []string{"old", "mid", "new"}},
		{"90 days", 90, []string{"mid", "new"}},
		{"7 days", 7, []string{"new"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.FetchEvents(context.Background(), "H1", tt.windowDays)
			if err != nil {
				t.Fatalf("FetchEvents failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("event %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}

	// A fresh provider hydrates from disk.
	fresh := NewLogProvider(NewEventStore(), dir)
	fresh.now = p.now
	got, err := fresh.FetchEvents(context.Background(), "H1", 0)
	if err != nil || len(got) != 3 {
		t.Fatalf("hydrated fetch = %d events, err %v", len(got), err)
	}
}

func TestLogProvider_UnknownHorse(t *testing.T) {
	p := NewLogProvider(NewEventStore(), t.TempDir())
	_, err := p.FetchEvents(context.Background(), "ghost", 30)
	if !errors.Is(err, ErrUnknownHorse) {
		t.Errorf("expected ErrUnknownHorse, got %v", err)
	}
}

func TestLogProvider_CancelledContext(t *testing.T) {
	p := NewLogProvider(NewEventStore(), t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.FetchEvents(ctx, "H1", 30); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLogProvider_ListHorsesAndPurge(t *testing.T) {
	dir := t.TempDir()
	p := NewLogProvider(NewEventStore(), dir)
	d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, h := range []string{"B", "A"} {
		if _, err := p.Ingest(h, []trend.TrendEvent{{ID: h + "1", Date: d}}); err != nil {
			t.Fatal(err)
		}
	}

	fresh := NewLogProvider(NewEventStore(), dir)
	horses, err := fresh.ListHorses()
	if err != nil {
		t.Fatal(err)
	}
	if len(horses) != 2 || horses[0] != "A" || horses[1] != "B" {
		t.Errorf("ListHorses() = %v", horses)
	}

	if err := fresh.Purge("A"); err != nil {
		t.Fatal(err)
	}
	horses, _ = fresh.ListHorses()
	if len(horses) != 1 || horses[0] != "B" {
		t.Errorf("after purge ListHorses() = %v", horses)
	}
}
