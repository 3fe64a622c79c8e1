package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"welfare-mcp/internal/stats"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath   string
	LogDir     string
	EventsDir  string
	ReportsDir string

	EnableMermaidCharts bool
	OutputFormat        string // "json" or "toon" for MCP tool results

	Thresholds        stats.Thresholds
	HoverDelay        time.Duration
	DefaultWindowDays int
	DefaultBucket     stats.Bucket
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return FromEnv(exeDir), nil
}

// FromEnv builds the configuration from the process environment alone.
func FromEnv(exeDir string) *AppConfig {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              filepath.Join(dataPath, "logs"),
		EventsDir:           filepath.Join(dataPath, "events"),
		ReportsDir:          filepath.Join(dataPath, "reports"),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
		OutputFormat:        strings.ToLower(getEnv("OUTPUT_FORMAT", "json")),
		Thresholds:          loadThresholds(),
		HoverDelay:          time.Duration(getEnvInt("HOVER_DELAY_MS", 2000)) * time.Millisecond,
		DefaultWindowDays:   getEnvInt("DEFAULT_WINDOW_DAYS", 180),
		DefaultBucket:       stats.Bucket(strings.ToLower(getEnv("DEFAULT_BUCKET", string(stats.Day)))),
	}

	if cfg.OutputFormat != "json" && cfg.OutputFormat != "toon" {
		log.Warn().Str("value", cfg.OutputFormat).Msg("Unknown OUTPUT_FORMAT, using json")
		cfg.OutputFormat = "json"
	}
	switch cfg.DefaultBucket {
	case stats.Day, stats.Week, stats.Month:
	default:
		log.Warn().Str("value", string(cfg.DefaultBucket)).Msg("Unknown DEFAULT_BUCKET, using day")
		cfg.DefaultBucket = stats.Day
	}
	if cfg.DefaultWindowDays <= 0 {
		cfg.DefaultWindowDays = 180
	}

	for _, dir := range []string{cfg.LogDir, cfg.EventsDir, cfg.ReportsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("Failed to create directory")
		}
	}

	return cfg
}

// loadThresholds overlays environment overrides on the stock sensitivity.
func loadThresholds() stats.Thresholds {
	th := stats.DefaultThresholds()
	th.Category5AlertPct = getEnvFloat("ALERT_CATEGORY5_PCT", th.Category5AlertPct)
	th.TrendSlopeAlert = getEnvFloat("ALERT_TREND_SLOPE", th.TrendSlopeAlert)
	th.SignificanceZ = getEnvFloat("SIGNIFICANCE_Z", th.SignificanceZ)
	th.AnomalyZ = getEnvFloat("ANOMALY_Z", th.AnomalyZ)
	th.CorrelationMin = getEnvFloat("CORRELATION_MIN", th.CorrelationMin)
	th.CovariateCorrelationMin = getEnvFloat("COVARIATE_CORRELATION_MIN", th.CovariateCorrelationMin)
	return th
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer setting")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && f >= 0 {
			return f
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring invalid numeric setting")
	}
	return fallback
}
