package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "owm-test-key"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OWM_API_KEY", testAPIKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testAPIKey, cfg.OWMAPIKey)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5", cfg.OWMBaseURL)
	assert.Equal(t, 10*time.Second, cfg.OWMTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 256, cfg.CacheMaxEntries)
	assert.Equal(t, time.Duration(0), cfg.CacheTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "weather-snapshots", cfg.KafkaSnapshotTopic)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("OWM_API_KEY", testAPIKey)
	t.Setenv("OWM_BASE_URL", "http://localhost:9999/data/2.5")
	t.Setenv("OWM_TIMEOUT", "3s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CACHE_MAX_ENTRIES", "64")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SNAPSHOT_TOPIC", "custom-snapshots")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/data/2.5", cfg.OWMBaseURL)
	assert.Equal(t, 3*time.Second, cfg.OWMTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 64, cfg.CacheMaxEntries)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-snapshots", cfg.KafkaSnapshotTopic)
	assert.True(t, cfg.KafkaEnabled, "configured brokers imply publishing")
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("OWM_API_KEY", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OWM_API_KEY")
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("OWM_API_KEY", testAPIKey)
	t.Setenv("OWM_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OWM_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("OWM_API_KEY", testAPIKey)
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeCacheTTL(t *testing.T) {
	t.Setenv("OWM_API_KEY", testAPIKey)
	t.Setenv("CACHE_TTL", "-5m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL")
}

func TestLoad_InvalidCacheMaxEntries(t *testing.T) {
	t.Setenv("OWM_API_KEY", testAPIKey)
	t.Setenv("CACHE_MAX_ENTRIES", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_MAX_ENTRIES")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("OWM_API_KEY", testAPIKey)
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("OWM_API_KEY", testAPIKey)
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	t.Setenv("KAFKA_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}
