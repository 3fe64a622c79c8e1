package covariates

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"welfare-mcp/internal/stats"
)

// FileName is the covariate file looked up in the data directory.
const FileName = "covariates.json"

// Source supplies external series (safety index, weather) for correlation.
type Source interface {
	Covariates(ctx context.Context, horseID string) ([]stats.Covariate, error)
}

// Series is one named covariate. An empty Horse applies to every horse.
type Series struct {
	Name   string    `json:"name"`
	Horse  string    `json:"horse,omitempty"`
	Values []float64 `json:"values"`
}

type document struct {
	Series []Series `json:"series"`
}

// Static serves a fixed set of series.
type Static []Series

func (s Static) Covariates(ctx context.Context, horseID string) ([]stats.Covariate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return selectFor(s, horseID), nil
}

// None is a Source with no covariates.
var None Source = Static(nil)

// FileSource reads covariates.json, re-reading it when the file changes.
type FileSource struct {
	path string

	mu      sync.Mutex
	modTime int64
	series  []Series
}

func NewFileSource(dataDir string) *FileSource {
	return &FileSource{path: filepath.Join(dataDir, FileName)}
}

func (f *FileSource) Covariates(ctx context.Context, horseID string) ([]stats.Covariate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	series, err := f.load()
	if err != nil {
		return nil, err
	}
	return selectFor(series, horseID), nil
}

func (f *FileSource) load() ([]Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, err := os.Stat(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat covariates: %w", err)
	}
	if info.ModTime().UnixNano() == f.modTime && f.series != nil {
		return f.series, nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read covariates: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid covariates file: %w", err)
	}

	f.series = doc.Series
	f.modTime = info.ModTime().UnixNano()
	log.Debug().Str("path", f.path).Int("series", len(doc.Series)).Msg("Loaded covariates")
	return f.series, nil
}

// selectFor prefers a horse-specific series over a shared one of the same name.
func selectFor(all []Series, horseID string) []stats.Covariate {
	byName := make(map[string]Series)
	var order []string
	for _, s := range all {
		if s.Horse != "" && s.Horse != horseID {
			continue
		}
		prev, seen := byName[s.Name]
		if !seen {
			order = append(order, s.Name)
		}
		if !seen || (prev.Horse == "" && s.Horse != "") {
			byName[s.Name] = s
		}
	}

	out := make([]stats.Covariate, 0, len(order))
	for _, name := range order {
		out = append(out, stats.Covariate{Name: name, Values: byName[name].Values})
	}
	return out
}
