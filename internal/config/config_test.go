package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "reshaped_snow_depth.csv", cfg.SnowCSV)
	assert.Equal(t, "fixed_ground_water_cleaned.csv", cfg.GroundwaterCSV)
	assert.Equal(t, "aqi_combined_1980_2024.csv", cfg.AQICSV)
	assert.Equal(t, 16, cfg.DatasetCacheSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "dashboard-reports", cfg.KafkaReportTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATA_DIR", "/srv/envhub")
	t.Setenv("SNOW_CSV", "snow.csv")
	t.Setenv("GROUNDWATER_CSV", "/mnt/wells.csv")
	t.Setenv("AQI_CSV", "aqi.csv")
	t.Setenv("DATASET_CACHE_SIZE", "4")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_REPORT_TOPIC", "reports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 4, cfg.DatasetCacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "reports", cfg.KafkaReportTopic)

	assert.Equal(t, map[string]string{
		"snow":        filepath.Join("/srv/envhub", "snow.csv"),
		"groundwater": "/mnt/wells.csv",
		"aqi":         filepath.Join("/srv/envhub", "aqi.csv"),
	}, cfg.DatasetPaths())
}

func TestLoad_DefaultDatasetPaths(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	paths := cfg.DatasetPaths()
	assert.Equal(t, filepath.Join("data", "reshaped_snow_depth.csv"), paths["snow"])
	assert.Len(t, paths, 3)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDatasetCacheSize(t *testing.T) {
	for _, v := range []string{"0", "-3", "many"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("DATASET_CACHE_SIZE", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "DATASET_CACHE_SIZE")
		})
	}
}

func TestLoad_KafkaDisabledUnlessTrue(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "yes")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}
