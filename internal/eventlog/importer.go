package eventlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/rs/zerolog/log"

	"welfare-mcp/internal/trend"
)

// ImportResult summarises one import run.
type ImportResult struct {
	Imported map[string]int `json:"imported"` // new events per horse
	Skipped  int            `json:"skipped"`
	Problems []string       `json:"problems,omitempty"`
}

// Importer validates interchange records and ingests them into the event log.
type Importer struct {
	provider *LogProvider
	schema   *jsonschema.Resolved
}

// NewImporter builds the record schema once.
func NewImporter(provider *LogProvider) (*Importer, error) {
	schema, err := recordSchema()
	if err != nil {
		return nil, err
	}
	return &Importer{provider: provider, schema: schema}, nil
}

func recordSchema() (*jsonschema.Resolved, error) {
	schema, err := jsonschema.For[Record](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to derive record schema: %w", err)
	}
	// Upstream feeds carry extra columns; tolerate them.
	schema.AdditionalProperties = nil

	if p := schema.Properties["type"]; p != nil {
		p.Enum = []any{string(trend.Race), string(trend.Training)}
	}
	if p := schema.Properties["wellnessScale"]; p != nil {
		p.Enum = []any{"", "raw", "category"}
	}
	if p := schema.Properties["horseId"]; p != nil {
		p.MinLength = ptr(1)
	}
	if p := schema.Properties["date"]; p != nil {
		p.MinLength = ptr(8)
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve record schema: %w", err)
	}
	return resolved, nil
}

// ImportFile reads a JSON array or JSON Lines file of records.
func (im *Importer) ImportFile(path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return im.Import(f)
}

// Import validates every record, skipping invalid ones, and ingests the rest
// grouped by horse.
func (im *Importer) Import(r io.Reader) (ImportResult, error) {
	raws, err := splitRecords(r)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Imported: make(map[string]int)}
	byHorse := make(map[string][]trend.TrendEvent)

	for i, raw := range raws {
		var instance any
		if err := json.Unmarshal(raw, &instance); err != nil {
			result.skip(i, err)
			continue
		}
		if err := im.schema.Validate(instance); err != nil {
			result.skip(i, err)
			continue
		}

		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			result.skip(i, err)
			continue
		}
		evt, err := rec.ToTrendEvent()
		if err != nil {
			result.skip(i, err)
			continue
		}
		byHorse[evt.HorseID] = append(byHorse[evt.HorseID], evt)
	}

	horses := make([]string, 0, len(byHorse))
	for h := range byHorse {
		horses = append(horses, h)
	}
	sort.Strings(horses)

	for _, h := range horses {
		added, err := im.provider.Ingest(h, byHorse[h])
		if err != nil {
			return result, fmt.Errorf("import %s: %w", h, err)
		}
		result.Imported[h] = added
	}

	log.Info().Int("horses", len(horses)).Int("skipped", result.Skipped).Msg("Import complete")
	return result, nil
}

func (r *ImportResult) skip(i int, err error) {
	r.Skipped++
	r.Problems = append(r.Problems, fmt.Sprintf("record %d: %v", i+1, err))
}

// splitRecords accepts either a top-level JSON array or one object per line.
func splitRecords(r io.Reader) ([]json.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("invalid JSON array: %w", err)
		}
		return raws, nil
	}

	var raws []json.RawMessage
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		raws = append(raws, json.RawMessage(bytes.Clone(line)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading records: %w", err)
	}
	return raws, nil
}

func ptr[T any](v T) *T { return &v }
