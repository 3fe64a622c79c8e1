package app

import (
	"context"
	"errors"
	"testing"

	"welfare-mcp/internal/config"
	"welfare-mcp/internal/eventlog"
)

func TestNew(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("ALERT_CATEGORY5_PCT", "20")

	a, err := New(config.FromEnv(""))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if a.Dashboard.Thresholds().Category5AlertPct != 20 {
		t.Errorf("thresholds not propagated: %+v", a.Dashboard.Thresholds())
	}
	if _, err := a.Provider.FetchEvents(context.Background(), "nobody", 30); !errors.Is(err, eventlog.ErrUnknownHorse) {
		t.Errorf("expected ErrUnknownHorse, got %v", err)
	}
}
