package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gisellucero1507/Proyecto-DInSAR/internal/common"
)

const defaultDisplacementSources = "./data/data_estructurada_corrida1.csv," +
	"./data/data_estructurada_corrida2.csv," +
	"./data/data_estructurada_corrida3.csv"

type AppConfig struct {
	// CSV locations: local paths or http(s) URLs.
	DisplacementSources []string
	PrecipitationSource string

	Port            string
	HTTPTimeout     time.Duration
	ShutdownTimeout time.Duration

	// AuditInterval controls how often the sources are re-read in the background.
	AuditInterval time.Duration

	// In-memory load history retention.
	StoreMaxHistory int           // max number of load reports (0 = unlimited)
	StoreMaxAge     time.Duration // max age of load reports (0 = unlimited)

	TopEvents   int
	ChartWidth  int
	ChartHeight int

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}

	cfg.DisplacementSources = common.SplitList(getenvDefault("DISPLACEMENT_SOURCES", defaultDisplacementSources))
	if len(cfg.DisplacementSources) == 0 {
		return nil, errors.New("DISPLACEMENT_SOURCES must list at least one source")
	}
	cfg.PrecipitationSource = strings.TrimSpace(getenvDefault("PRECIPITATION_SOURCE", "./data/data_estructurada_precipitaciones.csv"))

	cfg.Port = getenvDefault("PORT", "8080")
	if n, err := strconv.Atoi(cfg.Port); err != nil || n <= 0 || n > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", cfg.Port)
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.AuditInterval, err = getenvDuration("AUDIT_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.AuditInterval < time.Minute {
		return nil, errors.New("invalid AUDIT_INTERVAL: must be at least 1m")
	}

	// Store retention.
	if cfg.StoreMaxHistory, err = getenvInt("STORE_MAX_HISTORY", 96); err != nil { // roughly 24h at 15-minute intervals
		return nil, err
	}
	maxAge, err := time.ParseDuration(getenvDefault("STORE_MAX_AGE", "24h"))
	if err != nil || maxAge < 0 {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %q", os.Getenv("STORE_MAX_AGE"))
	}
	cfg.StoreMaxAge = maxAge

	if cfg.TopEvents, err = getenvInt("TOP_EVENTS", 10); err != nil {
		return nil, err
	}
	if cfg.TopEvents < 1 || cfg.TopEvents > 100 {
		return nil, fmt.Errorf("invalid TOP_EVENTS: %d is outside 1-100", cfg.TopEvents)
	}

	if cfg.ChartWidth, err = getenvInt("CHART_WIDTH", 1024); err != nil {
		return nil, err
	}
	if cfg.ChartHeight, err = getenvInt("CHART_HEIGHT", 480); err != nil {
		return nil, err
	}
	if cfg.ChartWidth < 200 || cfg.ChartHeight < 150 {
		return nil, errors.New("invalid CHART_WIDTH/CHART_HEIGHT: minimum size is 200x150")
	}

	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	cfg.LogFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "text"))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: use text or json", cfg.LogFormat)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}
