package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"welfare-mcp/internal/trend"
)

// EventStore provides thread-safe, chronological storage for trend events.
type EventStore struct {
	mu   sync.RWMutex
	logs map[string][]trend.TrendEvent // Partitioned by horse ID
}

// NewEventStore creates a new empty EventStore.
func NewEventStore() *EventStore {
	return &EventStore{
		logs: make(map[string][]trend.TrendEvent),
	}
}

// Append adds new events to a horse's log, ensuring chronological order and
// deduplication. It returns the number of events actually added.
func (s *EventStore) Append(horseID string, events []trend.TrendEvent) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logs[horseID]

	existing := make(map[string]bool, len(log))
	for _, e := range log {
		existing[identity(e)] = true
	}

	newCount := 0
	for _, e := range events {
		e.HorseID = horseID
		id := identity(e)
		if existing[id] {
			continue
		}
		existing[id] = true
		log = append(log, e)
		newCount++
	}

	if newCount == 0 {
		return 0
	}

	// Sort by date and then ID for deterministic ordering
	sort.SliceStable(log, func(i, j int) bool {
		if !log[i].Date.Equal(log[j].Date) {
			return log[i].Date.Before(log[j].Date)
		}
		return log[i].ID < log[j].ID
	})

	s.logs[horseID] = log
	return newCount
}

// Load reads events from a horse's JSONL file. A missing file is not an error.
func (s *EventStore) Load(dataDir string, horseID string) error {
	path := logPath(dataDir, horseID)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open event log: %w", err)
	}
	defer file.Close()

	var events []trend.TrendEvent
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var e trend.TrendEvent
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			log.Warn().Err(err).Str("horse", horseID).Msg("Skipping invalid JSON line in event log")
			continue
		}
		events = append(events, e)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading event log: %w", err)
	}

	log.Info().Str("horse", horseID).Int("count", len(events)).Msg("Loaded events from disk")
	s.Append(horseID, events)
	return nil
}

// Save persists a horse's events to its JSONL file via an atomic rename.
func (s *EventStore) Save(dataDir string, horseID string) error {
	s.mu.RLock()
	logData := slices.Clone(s.logs[horseID])
	s.mu.RUnlock()

	if len(logData) == 0 {
		return nil
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	path := logPath(dataDir, horseID)
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp event log: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	for _, e := range logData {
		if err := encoder.Encode(e); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename event log: %w", err)
	}

	log.Info().Str("horse", horseID).Int("count", len(logData)).Msg("Events saved to disk")
	return nil
}

// GetLatestDate returns the date of the most recent event for a horse.
func (s *EventStore) GetLatestDate(horseID string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logData := s.logs[horseID]
	if len(logData) == 0 {
		return time.Time{}
	}
	return logData[len(logData)-1].Date
}

// Count returns the number of events stored for a horse.
func (s *EventStore) Count(horseID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs[horseID])
}

// GetEventsInRange returns a copy of a horse's events within [start, end].
// A zero end is open-ended.
func (s *EventStore) GetEventsInRange(horseID string, start, end time.Time) []trend.TrendEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []trend.TrendEvent
	for _, e := range s.logs[horseID] {
		if e.Date.Before(start) {
			continue
		}
		if !end.IsZero() && e.Date.After(end) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// GetEvent looks up a single event by ID.
func (s *EventStore) GetEvent(horseID, eventID string) (trend.TrendEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.logs[horseID] {
		if e.ID == eventID {
			return e, true
		}
	}
	return trend.TrendEvent{}, false
}

// Horses lists the horses with at least one event in memory.
func (s *EventStore) Horses() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.logs))
	for id, evts := range s.logs {
		if len(evts) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Clear drops a horse's in-memory log.
func (s *EventStore) Clear(horseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, horseID)
}

// DeleteLog removes a horse's file from disk.
func DeleteLog(dataDir, horseID string) error {
	if err := os.Remove(logPath(dataDir, horseID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete event log: %w", err)
	}
	return nil
}

func logPath(dataDir, horseID string) string {
	return filepath.Join(dataDir, fmt.Sprintf("%s.jsonl", SanitizeID(horseID)))
}

// SanitizeID keeps horse IDs usable as file names.
func SanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, id)
}

// identity computes a dedup key. Events without an ID fall back to their content.
func identity(e trend.TrendEvent) string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("%s|%d|%s|%s", e.HorseID, e.Date.UnixMicro(), e.Kind, e.Location)
}
