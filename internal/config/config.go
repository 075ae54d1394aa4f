package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Simulation SimulationConfig
	Export     ExportConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds optional postgres persistence settings. With an
// empty URL the application runs against the in-memory ledger.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether postgres persistence is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// SimulationConfig holds default run parameters
type SimulationConfig struct {
	RingSize        int
	Steps           int
	Probability     float64
	ControlSeed     int64
	MeasurementSeed int64
	EnsembleRuns    int
	Parallelism     int
}

// Seeds returns the default named seed table
func (s SimulationConfig) Seeds() map[string]int64 {
	return map[string]int64{
		"control":     s.ControlSeed,
		"measurement": s.MeasurementSeed,
	}
}

// ExportConfig holds file export settings
type ExportConfig struct {
	Dir string
}

// Load reads configuration from environment variables with defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvString("QCSIM_PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: getEnvString("QCSIM_DATABASE_URL", ""),
		},
		Simulation: SimulationConfig{
			RingSize:        getEnvInt("QCSIM_RING_SIZE", 16),
			Steps:           getEnvInt("QCSIM_STEPS", 256),
			Probability:     getEnvFloat("QCSIM_PROBABILITY", 0.5),
			ControlSeed:     getEnvInt64("QCSIM_CONTROL_SEED", 1),
			MeasurementSeed: getEnvInt64("QCSIM_MEASUREMENT_SEED", 2),
			EnsembleRuns:    getEnvInt("QCSIM_ENSEMBLE_RUNS", 32),
			Parallelism:     getEnvInt("QCSIM_PARALLELISM", 4),
		},
		Export: ExportConfig{
			Dir: getEnvString("QCSIM_EXPORT_DIR", "."),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Simulation.RingSize <= 0 {
		return fmt.Errorf("config: ring size must be positive, got %d", c.Simulation.RingSize)
	}
	if c.Simulation.Steps <= 0 {
		return fmt.Errorf("config: steps must be positive, got %d", c.Simulation.Steps)
	}
	if c.Simulation.Probability < 0 || c.Simulation.Probability > 1 {
		return fmt.Errorf("config: probability must be in [0,1], got %v", c.Simulation.Probability)
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
