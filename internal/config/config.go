// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type BookingConfig struct {
	// HoldTTLMinutes is how long an unpaid pending reservation keeps its slot.
	HoldTTLMinutes int `yaml:"hold_ttl_minutes"`
	// CheckInToleranceMinutes is how early a check-in is accepted before start time.
	CheckInToleranceMinutes int    `yaml:"check_in_tolerance_minutes"`
	Currency                string `yaml:"currency"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Booking BookingConfig `yaml:"booking"`

	Features struct {
		EnableMetrics bool `yaml:"enable_metrics"`
		EnableDebug   bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}
	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.Filename == "" {
		return fmt.Errorf("database filename is required for sqlite")
	}
	if c.Booking.HoldTTLMinutes < 0 {
		return fmt.Errorf("hold TTL must not be negative")
	}
	if c.Booking.CheckInToleranceMinutes < 0 {
		return fmt.Errorf("check-in tolerance must not be negative")
	}
	return nil
}

// HoldTTL returns the configured hold expiry as a duration, defaulting
// to 15 minutes when unset.
func (c *Config) HoldTTL() time.Duration {
	if c.Booking.HoldTTLMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.Booking.HoldTTLMinutes) * time.Minute
}

// CheckInTolerance returns the configured early check-in window,
// defaulting to 15 minutes when unset.
func (c *Config) CheckInTolerance() time.Duration {
	if c.Booking.CheckInToleranceMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.Booking.CheckInToleranceMinutes) * time.Minute
}
