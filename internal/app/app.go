package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"welfare-mcp/internal/chart"
	"welfare-mcp/internal/config"
	"welfare-mcp/internal/covariates"
	"welfare-mcp/internal/dashboard"
	"welfare-mcp/internal/eventlog"
	"welfare-mcp/internal/visuals"
)

// App bundles the services shared by the MCP server and the CLI.
type App struct {
	Config    *config.AppConfig
	Provider  *eventlog.LogProvider
	Importer  *eventlog.Importer
	Dashboard *dashboard.Service
	Renderer  *visuals.Renderer
}

// New wires the services from configuration.
func New(cfg *config.AppConfig) (*App, error) {
	provider := eventlog.NewLogProvider(eventlog.NewEventStore(), cfg.EventsDir)

	importer, err := eventlog.NewImporter(provider)
	if err != nil {
		return nil, fmt.Errorf("init importer: %w", err)
	}

	renderer, err := visuals.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("init report renderer: %w", err)
	}

	dash := dashboard.NewService(provider,
		dashboard.WithCovariates(covariates.NewFileSource(cfg.DataPath)),
		dashboard.WithThresholds(cfg.Thresholds),
		dashboard.WithDefaultWindow(cfg.DefaultWindowDays),
		dashboard.WithDefaultBucket(cfg.DefaultBucket),
		dashboard.WithLayoutCache(chart.NewLayoutCache(128)),
	)

	log.Debug().
		Str("data_path", cfg.DataPath).
		Str("events_dir", cfg.EventsDir).
		Interface("thresholds", cfg.Thresholds).
		Msg("Services initialised")

	return &App{
		Config:    cfg,
		Provider:  provider,
		Importer:  importer,
		Dashboard: dash,
		Renderer:  renderer,
	}, nil
}

// WriteReport renders a horse's HTML report into the reports folder and
// returns its path.
func (a *App) WriteReport(ctx context.Context, req dashboard.Request, now time.Time) (string, error) {
	an, err := a.Dashboard.Analyze(ctx, req)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-report-%s.html", eventlog.SanitizeID(an.HorseID), now.Format("20060102-150405"))
	path := filepath.Join(a.Config.ReportsDir, name)
	err = a.Renderer.RenderToFile(path, visuals.ReportInput{
		HorseID:    an.HorseID,
		Events:     an.Events,
		Layout:     an.Layout,
		Samples:    an.Samples,
		Alerts:     an.Alerts,
		HoverDelay: a.Config.HoverDelay,
		Generated:  now,
	})
	if err != nil {
		return "", err
	}
	log.Info().Str("horse", an.HorseID).Str("path", path).Msg("Report generated")
	return path, nil
}
