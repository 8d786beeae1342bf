package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://predictor.local:8000"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", testBaseURL)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testBaseURL, cfg.PredictorBaseURL)
	assert.Equal(t, 10*time.Second, cfg.PredictorTimeout)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 256, cfg.CacheSize)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10, cfg.DefaultTopN)
	assert.Equal(t, -22.9056, cfg.MapCenterLat)
	assert.Equal(t, -47.0608, cfg.MapCenterLon)
	assert.Equal(t, 13, cfg.MapZoom)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", "https://predict.example.com/")
	t.Setenv("PREDICTOR_TIMEOUT", "3s")
	t.Setenv("PREDICTOR_CACHE_ENABLED", "true")
	t.Setenv("PREDICTOR_CACHE_SIZE", "64")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://staging.example.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DEFAULT_TOP_N", "25")
	t.Setenv("MAP_DEFAULT_LAT", "40.71")
	t.Setenv("MAP_DEFAULT_LON", "-74.0")
	t.Setenv("MAP_ZOOM", "11")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://predict.example.com", cfg.PredictorBaseURL, "trailing slash is trimmed")
	assert.Equal(t, 3*time.Second, cfg.PredictorTimeout)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 64, cfg.CacheSize)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 25, cfg.DefaultTopN)
	assert.Equal(t, 40.71, cfg.MapCenterLat)
	assert.Equal(t, -74.0, cfg.MapCenterLon)
	assert.Equal(t, 11, cfg.MapZoom)
}

func TestLoad_MissingBaseURL(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREDICTOR_BASE_URL")
}

func TestLoad_NonHTTPBaseURL(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", "ftp://predictor.local")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREDICTOR_BASE_URL")
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", testBaseURL)
	t.Setenv("PREDICTOR_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREDICTOR_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", testBaseURL)
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidTopN(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", testBaseURL)
	t.Setenv("DEFAULT_TOP_N", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_TOP_N")
}

func TestLoad_ZoomOutOfRange(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", testBaseURL)
	t.Setenv("MAP_ZOOM", "25")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAP_ZOOM")
}
