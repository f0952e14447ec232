// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	defaultHorizonDays        = 90
	defaultSlotCount          = 5
	defaultRankingParallelism = 4
	defaultDigestCron         = "0 7 * * 1"
	defaultEmailRegion        = "us-east-1"
	defaultRequestsPerMinute  = 120
	maxHorizonDays            = 366
	maxSlotCount              = 50
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type BookingConfig struct {
	HorizonDays      int `yaml:"horizon_days"`
	DefaultSlotCount int `yaml:"default_slot_count"`
	// RankingParallelism bounds concurrent slot lookups while ranking.
	RankingParallelism int `yaml:"ranking_parallelism"`
}

type ReportsConfig struct {
	DigestEnabled   bool   `yaml:"digest_enabled"`
	DigestCron      string `yaml:"digest_cron"`
	DigestRecipient string `yaml:"digest_recipient"`
}

// RateLimitConfig throttles API requests per client IP. Zero
// requests_per_minute keeps the default; negative disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	TrustProxy        bool `yaml:"trust_proxy"`
}

type EmailConfig struct {
	Region          string `yaml:"region"`
	Sender          string `yaml:"sender"`
	AccessKeyID     string `yaml:"-"` // Loaded from environment
	SecretAccessKey string `yaml:"-"` // Loaded from environment
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
	} `yaml:"app"`

	Database  DatabaseConfig  `yaml:"database"`
	Booking   BookingConfig   `yaml:"booking"`
	Reports   ReportsConfig   `yaml:"reports"`
	Email     EmailConfig     `yaml:"email"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.Email.AccessKeyID = os.Getenv("AWS_SES_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("AWS_SES_SECRET_ACCESS_KEY")
	if region := strings.TrimSpace(os.Getenv("AWS_SES_REGION")); region != "" {
		cfg.Email.Region = region
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.Booking.HorizonDays == 0 {
		c.Booking.HorizonDays = defaultHorizonDays
	}
	if c.Booking.DefaultSlotCount == 0 {
		c.Booking.DefaultSlotCount = defaultSlotCount
	}
	if c.Booking.RankingParallelism == 0 {
		c.Booking.RankingParallelism = defaultRankingParallelism
	}
	if c.Reports.DigestCron == "" {
		c.Reports.DigestCron = defaultDigestCron
	}
	if c.Email.Region == "" {
		c.Email.Region = defaultEmailRegion
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = defaultRequestsPerMinute
	}
}

// RateLimitEnabled reports whether API requests are throttled.
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimit.RequestsPerMinute > 0
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
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

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Booking.HorizonDays < 1 || c.Booking.HorizonDays > maxHorizonDays {
		return fmt.Errorf("booking horizon_days must be between 1 and %d", maxHorizonDays)
	}
	if c.Booking.DefaultSlotCount < 1 || c.Booking.DefaultSlotCount > maxSlotCount {
		return fmt.Errorf("booking default_slot_count must be between 1 and %d", maxSlotCount)
	}
	if c.Booking.RankingParallelism < 1 {
		return fmt.Errorf("booking ranking_parallelism must be positive")
	}

	if _, err := cron.ParseStandard(c.Reports.DigestCron); err != nil {
		return fmt.Errorf("invalid reports digest_cron %q: %w", c.Reports.DigestCron, err)
	}
	if c.Reports.DigestEnabled {
		if strings.TrimSpace(c.Reports.DigestRecipient) == "" {
			return fmt.Errorf("reports digest_recipient is required when the digest is enabled")
		}
		if strings.TrimSpace(c.Email.Sender) == "" {
			return fmt.Errorf("email sender is required when the digest is enabled")
		}
	}

	return nil
}
