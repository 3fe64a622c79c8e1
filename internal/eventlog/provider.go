package eventlog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"welfare-mcp/internal/trend"
)

// ErrUnknownHorse is returned when no history exists for a horse.
var ErrUnknownHorse = errors.New("unknown horse")

// Fetcher is the historical data collaborator consumed by the dashboard.
type Fetcher interface {
	FetchEvents(ctx context.Context, horseID string, windowDays int) ([]trend.TrendEvent, error)
}

// LogProvider serves horse histories from the JSONL event log.
type LogProvider struct {
	store   *EventStore
	dataDir string
	now     func() time.Time

	mu       sync.Mutex
	hydrated map[string]bool
}

func NewLogProvider(store *EventStore, dataDir string) *LogProvider {
	return &LogProvider{
		store:    store,
		dataDir:  dataDir,
		now:      time.Now,
		hydrated: make(map[string]bool),
	}
}

// Hydrate loads a horse's history from disk once per process.
func (p *LogProvider) Hydrate(horseID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.hydrated[horseID] || p.dataDir == "" {
		return nil
	}
	if err := p.store.Load(p.dataDir, horseID); err != nil {
		return fmt.Errorf("hydrate %s: %w", horseID, err)
	}
	p.hydrated[horseID] = true
	return nil
}

// FetchEvents returns a horse's events from the last windowDays days in
// ascending date order. A non-positive window returns the whole history.
func (p *LogProvider) FetchEvents(ctx context.Context, horseID string, windowDays int) ([]trend.TrendEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(horseID) == "" {
		return nil, fmt.Errorf("horse id is required")
	}
	if err := p.Hydrate(horseID); err != nil {
		return nil, err
	}
	if p.store.Count(horseID) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHorse, horseID)
	}

	var start time.Time
	if windowDays > 0 {
		start = p.now().AddDate(0, 0, -windowDays)
	}
	events := p.store.GetEventsInRange(horseID, start, time.Time{})

	log.Debug().Str("horse", horseID).Int("window_days", windowDays).Int("count", len(events)).Msg("Fetched events")
	if events == nil {
		events = []trend.TrendEvent{}
	}
	return events, nil
}

// GetEvent returns one event of a horse by ID.
func (p *LogProvider) GetEvent(horseID, eventID string) (trend.TrendEvent, error) {
	if err := p.Hydrate(horseID); err != nil {
		return trend.TrendEvent{}, err
	}
	e, ok := p.store.GetEvent(horseID, eventID)
	if !ok {
		return trend.TrendEvent{}, fmt.Errorf("event %s not found for horse %s", eventID, horseID)
	}
	return e, nil
}

// Ingest appends events for a horse and persists the log.
func (p *LogProvider) Ingest(horseID string, events []trend.TrendEvent) (int, error) {
	if err := p.Hydrate(horseID); err != nil {
		return 0, err
	}
	added := p.store.Append(horseID, events)
	if added == 0 || p.dataDir == "" {
		return added, nil
	}
	if err := p.store.Save(p.dataDir, horseID); err != nil {
		return added, fmt.Errorf("save %s: %w", horseID, err)
	}
	return added, nil
}

// Purge removes a horse's history from memory and disk.
func (p *LogProvider) Purge(horseID string) error {
	p.mu.Lock()
	delete(p.hydrated, horseID)
	p.mu.Unlock()

	p.store.Clear(horseID)
	if p.dataDir == "" {
		return nil
	}
	return DeleteLog(p.dataDir, horseID)
}

// ListHorses returns every horse with a log on disk or in memory.
func (p *LogProvider) ListHorses() ([]string, error) {
	seen := make(map[string]bool)
	for _, id := range p.store.Horses() {
		seen[id] = true
	}

	if p.dataDir != "" {
		entries, err := os.ReadDir(p.dataDir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to list data directory: %w", err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".jsonl") {
				continue
			}
			seen[strings.TrimSuffix(name, ".jsonl")] = true
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// GetEventCount returns the number of events known for a horse.
func (p *LogProvider) GetEventCount(horseID string) int {
	return p.store.Count(horseID)
}
