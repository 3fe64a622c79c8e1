package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"welfare-mcp/internal/covariates"
	"welfare-mcp/internal/eventlog"
	"welfare-mcp/internal/trend"
)

type GeneratorConfig struct {
	HorseID      string
	Scenario     string // "mild", "chaos" or "drift"
	Distribution string // "uniform" or "weibull"
	Count        int
	Seed         int64
	Now          time.Time
}

var tracks = []string{"Flemington", "Randwick", "Caulfield", "Moonee Valley", "Rosehill"}

var distances = []string{"1000m", "1200m", "1400m", "1600m", "2000m", "2400m"}

// Generate produces a horse's history ending today, one event every four days
// with a race every third event.
func Generate(cfg GeneratorConfig) []eventlog.Record {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	records := make([]eventlog.Record, 0, cfg.Count)
	start := cfg.Now.AddDate(0, 0, -4*(cfg.Count-1))

	for i := 0; i < cfg.Count; i++ {
		date := start.AddDate(0, 0, 4*i)
		kind := trend.Training
		if i%3 == 2 {
			kind = trend.Race
		}

		// 1. Wellness baseline, higher is worse
		base, spread := 55.0, 30.0
		switch cfg.Scenario {
		case "chaos":
			spread = 45
		case "drift":
			ratio := float64(i) / float64(max(cfg.Count-1, 1))
			base = 50 + 55*ratio // Moves from the minimal band into high
		}

		var wellness float64
		if cfg.Distribution == "weibull" {
			wellness = base + weibullSample(rng, 1.5, spread/2) - spread/4
		} else {
			wellness = base + (rng.Float64()-0.5)*spread
		}
		if cfg.Scenario == "chaos" && rng.Float64() < 0.1 {
			wellness = 116 + rng.Float64()*20 // Acute episodes
		}
		wellness = clamp(math.Round(wellness), trend.MinScore, trend.MaxScore)

		// 2. Performance degrades as wellness worsens
		perf := clamp(math.Round(130-wellness*0.6+(rng.Float64()-0.5)*20), trend.MinScore, trend.MaxScore)

		rec := eventlog.Record{
			ID:                       uuid.NewString(),
			HorseID:                  cfg.HorseID,
			Date:                     date.Format("2006-01-02"),
			Type:                     string(kind),
			Location:                 tracks[rng.Intn(len(tracks))],
			PerformanceScore:         perf,
			WellnessScore:            wellness,
			WellnessScale:            "raw",
			WelfareAlert:             wellness >= 116,
			ExcessiveLateralMovement: wellness < 70 && rng.Float64() < 0.15,
		}
		if kind == trend.Race {
			rec.Distance = distances[rng.Intn(len(distances))]
		}
		records = append(records, rec)
	}
	return records
}

// TrackSafety derives a covariate with one value per generated event, loosely
// tracking wellness so correlations show up in analysis.
func TrackSafety(records []eventlog.Record, seed int64) covariates.Series {
	rng := rand.New(rand.NewSource(seed + 1))
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = math.Round(100 - r.WellnessScore*0.4 + (rng.Float64()-0.5)*10)
	}
	return covariates.Series{Name: "track_safety_index", Values: values}
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Save writes an import-ready JSONL file and, when series are given, the
// covariate document next to it.
func Save(outDir string, horseID string, records []eventlog.Record, series []covariates.Series) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	jsonlPath := filepath.Join(outDir, fmt.Sprintf("%s-import.jsonl", eventlog.SanitizeID(horseID)))
	f, err := os.Create(jsonlPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(series) == 0 {
		return nil
	}

	fc, err := os.Create(filepath.Join(outDir, covariates.FileName))
	if err != nil {
		return err
	}
	defer fc.Close()

	encC := json.NewEncoder(fc)
	encC.SetIndent("", "  ")
	return encC.Encode(map[string]any{"series": series})
}
