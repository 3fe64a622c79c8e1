package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"welfare-mcp/cmd/mockgen/engine"
	"welfare-mcp/internal/covariates"
)

func main() {
	horse := flag.String("horse", "MOCK-1", "Horse ID to generate history for")
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, chaos, drift")
	distribution := flag.String("distribution", "uniform", "Distribution to use: uniform, weibull")
	outDir := flag.String("out", "./.cache", "Output directory for mock files")
	count := flag.Int("count", 60, "Number of events to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	withCovariates := flag.Bool("covariates", false, "Also write covariates.json with a track safety series")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		HorseID:      *horse,
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		Seed:         *seed,
		Now:          time.Now(),
	}

	fmt.Printf("Generating scenario '%s' for %s (Distribution: %s, Count: %d) to %s...\n", cfg.Scenario, cfg.HorseID, cfg.Distribution, cfg.Count, *outDir)

	records := engine.Generate(cfg)

	var series []covariates.Series
	if *withCovariates {
		series = append(series, engine.TrackSafety(records, cfg.Seed))
	}

	if err := engine.Save(*outDir, cfg.HorseID, records, series); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done. Load it with: welfare-mcp import <file>")
}
