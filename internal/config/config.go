// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

// CourtConfig declares one bookable court. The resource type drives the
// mutual-exclusion rules; the set of courts is data, not code.
type CourtConfig struct {
	ID    string `yaml:"id"`
	Type  string `yaml:"type"` // half | full | cricket
	Label string `yaml:"label"`
	Price int64  `yaml:"price"`
}

type VenueConfig struct {
	Name          string        `yaml:"name"`
	Address       string        `yaml:"address"`
	Email         string        `yaml:"email"`
	WhatsApp      string        `yaml:"whatsapp"` // digits only, country code included
	PhoneRegion   string        `yaml:"phone_region"`
	OpenHour      int           `yaml:"open_hour"`
	CloseHour     int           `yaml:"close_hour"`
	BufferMinutes int           `yaml:"buffer_minutes"`
	Amenities     []string      `yaml:"amenities"`
	Rules         []string      `yaml:"rules"`
	Courts        []CourtConfig `yaml:"courts"`
}

type Config struct {
	App struct {
		Name            string `yaml:"name"`
		Environment     string `yaml:"environment"`
		Port            int    `yaml:"port"`
		ShutdownSeconds int    `yaml:"shutdown_timeout_seconds"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Venue VenueConfig `yaml:"venue"`

	RateLimit struct {
		SubmitCooldownSeconds int  `yaml:"submit_cooldown_seconds"`
		SubmitMaxPerHour      int  `yaml:"submit_max_per_hour"`
		SubmitMaxIPPerHour    int  `yaml:"submit_max_ip_per_hour"`
		TrustProxy            bool `yaml:"trust_proxy"`
	} `yaml:"rate_limit"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Read and parse YAML config
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg.applyDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.ShutdownSeconds == 0 {
		c.App.ShutdownSeconds = 30
	}
	if c.Venue.PhoneRegion == "" {
		c.Venue.PhoneRegion = "IN"
	}
	if c.RateLimit.SubmitCooldownSeconds == 0 {
		c.RateLimit.SubmitCooldownSeconds = 15
	}
	if c.RateLimit.SubmitMaxPerHour == 0 {
		c.RateLimit.SubmitMaxPerHour = 10
	}
	if c.RateLimit.SubmitMaxIPPerHour == 0 {
		c.RateLimit.SubmitMaxIPPerHour = 40
	}
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

	v := &c.Venue
	if v.Name == "" {
		return fmt.Errorf("venue name is required")
	}
	if v.OpenHour < 0 || v.CloseHour > 24 || v.OpenHour >= v.CloseHour {
		return fmt.Errorf("venue hours invalid: open %d close %d", v.OpenHour, v.CloseHour)
	}
	if len(v.Courts) == 0 {
		return fmt.Errorf("at least one court is required")
	}
	seen := make(map[string]struct{}, len(v.Courts))
	for _, court := range v.Courts {
		if court.ID == "" {
			return fmt.Errorf("court id is required")
		}
		if _, ok := seen[court.ID]; ok {
			return fmt.Errorf("duplicate court id: %s", court.ID)
		}
		seen[court.ID] = struct{}{}
		switch court.Type {
		case "half", "full", "cricket":
		default:
			return fmt.Errorf("court %s has unsupported type: %s", court.ID, court.Type)
		}
		if court.Price < 0 {
			return fmt.Errorf("court %s has negative price", court.ID)
		}
	}
	if v.WhatsApp != "" && strings.Trim(v.WhatsApp, "0123456789") != "" {
		return fmt.Errorf("venue whatsapp number must be digits only")
	}

	return nil
}
