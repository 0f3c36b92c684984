package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset sources. Relative file names resolve against DataDir.
	DataDir          string
	SnowCSV          string
	GroundwaterCSV   string
	AQICSV           string
	DatasetCacheSize int

	// Report publishing, off unless KAFKA_ENABLED=true.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaReportTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseDatasetCacheSize()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir:          sharedcfg.EnvOrDefault("DATA_DIR", "data"),
		SnowCSV:          sharedcfg.EnvOrDefault("SNOW_CSV", "reshaped_snow_depth.csv"),
		GroundwaterCSV:   sharedcfg.EnvOrDefault("GROUNDWATER_CSV", "fixed_ground_water_cleaned.csv"),
		AQICSV:           sharedcfg.EnvOrDefault("AQI_CSV", "aqi_combined_1980_2024.csv"),
		DatasetCacheSize: cacheSize,

		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaReportTopic: sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "dashboard-reports"),
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaReportTopic == "" {
			return nil, errors.New("KAFKA_REPORT_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

// DatasetPaths maps each dataset kind to its resolved CSV path.
func (c *Config) DatasetPaths() map[string]string {
	return map[string]string{
		"snow":        c.resolve(c.SnowCSV),
		"groundwater": c.resolve(c.GroundwaterCSV),
		"aqi":         c.resolve(c.AQICSV),
	}
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) || c.DataDir == "" {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func parseDatasetCacheSize() (int, error) {
	s := os.Getenv("DATASET_CACHE_SIZE")
	if s == "" {
		return 16, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid DATASET_CACHE_SIZE: must be a positive integer")
	}
	return n, nil
}
