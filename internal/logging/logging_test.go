package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		verbose  bool
		override string
		want     zerolog.Level
	}{
		{false, "", zerolog.InfoLevel},
		{true, "", zerolog.DebugLevel},
		{false, "WARN", zerolog.WarnLevel},
		{true, "error", zerolog.ErrorLevel},
		{true, "chatty", zerolog.DebugLevel},
	}
	for _, tt := range tests {
		if got := resolveLevel(tt.verbose, tt.override); got != tt.want {
			t.Errorf("resolveLevel(%v, %q) = %v, want %v", tt.verbose, tt.override, got, tt.want)
		}
	}
}

func TestEnsureWritable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	if err := ensureWritable(dir); err != nil {
		t.Fatalf("ensureWritable failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".write-test")); !os.IsNotExist(err) {
		t.Error("probe file should be removed")
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)
	logger.Info().Str("horse", "H1").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["horse"] != "H1" || entry["time"] == nil {
		t.Errorf("unexpected entry: %v", entry)
	}
}
