package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Upstream prediction API.
	PredictorBaseURL string
	PredictorTimeout time.Duration
	CacheEnabled     bool
	CacheSize        int

	// Dashboard HTTP surface.
	HTTPAddr    string
	CORSOrigins []string

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Initial map view before the first successful fetch.
	DefaultTopN  int
	MapCenterLat float64
	MapCenterLon float64
	MapZoom      int
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is merged in first when
// present.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	predictorTimeout, err := parseDuration("PREDICTOR_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("PREDICTOR_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	defaultTopN, err := parsePositiveInt("DEFAULT_TOP_N", 10)
	if err != nil {
		return nil, err
	}
	mapLat, err := parseFloat("MAP_DEFAULT_LAT", -22.9056)
	if err != nil {
		return nil, err
	}
	mapLon, err := parseFloat("MAP_DEFAULT_LON", -47.0608)
	if err != nil {
		return nil, err
	}
	mapZoom, err := parsePositiveInt("MAP_ZOOM", 13)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PredictorBaseURL: strings.TrimRight(os.Getenv("PREDICTOR_BASE_URL"), "/"),
		PredictorTimeout: predictorTimeout,
		CacheEnabled:     os.Getenv("PREDICTOR_CACHE_ENABLED") == "true",
		CacheSize:        cacheSize,
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		CORSOrigins:      splitCSV(envOrDefault("CORS_ORIGINS", "*")),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		DefaultTopN:      defaultTopN,
		MapCenterLat:     mapLat,
		MapCenterLon:     mapLon,
		MapZoom:          mapZoom,
	}

	if cfg.PredictorBaseURL == "" {
		return nil, errors.New("PREDICTOR_BASE_URL is required")
	}
	if !strings.HasPrefix(cfg.PredictorBaseURL, "http://") && !strings.HasPrefix(cfg.PredictorBaseURL, "https://") {
		return nil, errors.New("PREDICTOR_BASE_URL must be an http(s) URL")
	}
	if cfg.MapZoom > 19 {
		return nil, errors.New("MAP_ZOOM must be between 1 and 19")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
