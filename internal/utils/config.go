package utils

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration. It is loaded once at startup
// and passed by value to the components that need it.
type Config struct {
	Server struct {
		Host             string `yaml:"host"`
		Port             string `yaml:"port"`
		Prefork          bool   `yaml:"prefork"`
		BaseURL          string `yaml:"base_url" env:"BASE_URL"`
		CanonicalHost    string `yaml:"canonical_host" env:"CANONICAL_HOST"`
		StaticDir        string `yaml:"static_dir"`
		InternalPassword string `yaml:"internal_password" env:"INTERNAL_PASSWORD"`
	} `yaml:"server"`

	Logger struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level" env:"LOG_LEVEL"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logger"`

	Cache struct {
		RedisHost   string `yaml:"redis_host" env:"REDIS_HOST"`
		RateLimitDB int    `yaml:"redis_rate_db"`
		ReplayDB    int    `yaml:"redis_replay_db"`
	} `yaml:"cache"`

	RateLimiter struct {
		Interval          time.Duration `yaml:"interval"`
		EnableUserLimiter bool          `yaml:"enable_user_limiter"`
		UserLimit         int           `yaml:"user_limit"`
	} `yaml:"rate_limiter"`

	Mail MailConfig `yaml:"mail"`

	Quote QuoteConfig `yaml:"quote"`
}

// MailConfig controls outbound SMTP delivery and recipients.
type MailConfig struct {
	SMTPHost     string            `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort     int               `yaml:"smtp_port" env:"SMTP_PORT"`
	SMTPUser     string            `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPassword string            `yaml:"smtp_password" env:"SMTP_PASSWORD"`
	FromName     string            `yaml:"from_name"`
	FromAddress  string            `yaml:"from_address"`
	ShopEmail    string            `yaml:"shop_email" env:"SHOP_EMAIL"`
	RegionCC     map[string]string `yaml:"region_cc"`
	DefaultCC    string            `yaml:"default_cc"`
	Language     string            `yaml:"language"`
	SendTimeout  time.Duration     `yaml:"send_timeout"`
}

// QuoteConfig controls the cleaning-quote workflow.
type QuoteConfig struct {
	Region           string        `yaml:"region"`
	Timezone         string        `yaml:"timezone"`
	SigningSecret    string        `yaml:"signing_secret" env:"QUOTE_SIGNING_SECRET"`
	EchoDecisionLink bool          `yaml:"echo_decision_link" env:"QUOTE_ECHO_DECISION_LINK"`
	SingleUseLinks   bool          `yaml:"single_use_links"`
	SingleUseTTL     time.Duration `yaml:"single_use_ttl"`
}

// CCFor returns the CC address configured for a region, falling back to the
// default CC (which may be empty) for unmapped regions.
func (m MailConfig) CCFor(region string) string {
	if cc, ok := m.RegionCC[region]; ok && cc != "" {
		return cc
	}
	return m.DefaultCC
}

// Location resolves the configured timezone used for the lead-time rule.
func (q QuoteConfig) Location() *time.Location {
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadConfig reads the configuration from CONFIG_PATH, or config.yaml when unset.
func LoadConfig() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates the configuration at path. Environment
// variables override the secret-bearing fields. It panics on invalid values.
func LoadFrom(path string) Config {
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("read config %s: %v", path, err))
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		panic(fmt.Sprintf("parse config %s: %v", path, err))
	}
	if err := applyEnv(&cfg); err != nil {
		panic(err.Error())
	}
	applyDefaults(&cfg)
	if err := validate(cfg); err != nil {
		panic(fmt.Sprintf("invalid config %s: %v", path, err))
	}
	return cfg
}

func applyEnv(cfg *Config) error {
	if err := env.Parse(&cfg.Server); err != nil {
		return fmt.Errorf("parse server env: %w", err)
	}
	if err := env.Parse(&cfg.Logger); err != nil {
		return fmt.Errorf("parse logger env: %w", err)
	}
	if err := env.Parse(&cfg.Cache); err != nil {
		return fmt.Errorf("parse cache env: %w", err)
	}
	if err := env.Parse(&cfg.Mail); err != nil {
		return fmt.Errorf("parse mail env: %w", err)
	}
	if err := env.Parse(&cfg.Quote); err != nil {
		return fmt.Errorf("parse quote env: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":3000"
	}
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.RateLimiter.Interval == 0 {
		cfg.RateLimiter.Interval = time.Minute
	}
	if cfg.Mail.SMTPPort == 0 {
		cfg.Mail.SMTPPort = 587
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = "MUSE.holiday Shop"
	}
	if cfg.Mail.FromAddress == "" {
		cfg.Mail.FromAddress = cfg.Mail.SMTPUser
	}
	if cfg.Mail.Language == "" {
		cfg.Mail.Language = "it"
	}
	if cfg.Mail.SendTimeout == 0 {
		cfg.Mail.SendTimeout = 30 * time.Second
	}
	if cfg.Quote.Region == "" {
		cfg.Quote.Region = "Val Gardena"
	}
	if cfg.Quote.Timezone == "" {
		cfg.Quote.Timezone = "Europe/Rome"
	}
	if cfg.Quote.SingleUseTTL == 0 {
		cfg.Quote.SingleUseTTL = 90 * 24 * time.Hour
	}
}

func validate(cfg Config) error {
	if cfg.Quote.SigningSecret == "" {
		return fmt.Errorf("quote.signing_secret is required")
	}
	if _, err := time.LoadLocation(cfg.Quote.Timezone); err != nil {
		return fmt.Errorf("quote.timezone: %w", err)
	}
	if cfg.RateLimiter.Interval < 0 {
		return fmt.Errorf("rate_limiter.interval must be positive")
	}
	if cfg.RateLimiter.UserLimit < 0 {
		return fmt.Errorf("rate_limiter.user_limit must not be negative")
	}
	if cfg.Mail.SendTimeout < 0 {
		return fmt.Errorf("mail.send_timeout must be positive")
	}
	if cfg.Quote.SingleUseLinks && cfg.Cache.RedisHost == "" {
		return fmt.Errorf("quote.single_use_links requires cache.redis_host")
	}
	return nil
}
