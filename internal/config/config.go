// Package config provides environment-variable-first configuration loading
// with optional YAML file fallback for the mailgun-lite CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shineum/mailgun-lite/pkg/mailgun"
)

// defaultTimeoutSeconds bounds each Mailgun API request.
const defaultTimeoutSeconds = 30

// Config holds the complete application configuration.
type Config struct {
	Provider string        `yaml:"provider"`
	Mailgun  MailgunConfig `yaml:"mailgun"`
	SES      SESConfig     `yaml:"ses"`
	Logging  LoggingConfig `yaml:"logging"`
}

// MailgunConfig holds Mailgun API configuration.
type MailgunConfig struct {
	APIBase        string `yaml:"api_base"`
	APIKey         string `yaml:"api_key"`
	Domain         string `yaml:"domain"`
	Sender         string `yaml:"sender"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// CAFile is an extra PEM bundle trusted for API connections.
	CAFile string `yaml:"ca_file"`
}

// SESConfig holds AWS SES v2 configuration.
type SESConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Sender          string `yaml:"sender"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load loads configuration from environment variables with sensible defaults.
// Environment variables always take precedence.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file as the base layer,
// then overrides with environment variables. Returns an error if the
// specified file path does not exist.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables always override YAML values
	cfg.applyEnvVars()

	return cfg, nil
}

// MailgunConfigured returns true if the API key and sending domain are set.
func (c *Config) MailgunConfigured() bool {
	return c.Mailgun.APIKey != "" && c.Mailgun.Domain != ""
}

// SESConfigured returns true if the SES region and sender are set.
func (c *Config) SESConfigured() bool {
	return c.SES.Region != "" && c.SES.Sender != ""
}

// Credentials validates the Mailgun section into API credentials.
func (c *Config) Credentials() (*mailgun.Credentials, error) {
	if !c.MailgunConfigured() {
		return nil, fmt.Errorf("mailgun is not configured: MAILGUN_API_KEY and MAILGUN_DOMAIN are required")
	}
	return mailgun.NewCredentialsWithBase(c.Mailgun.APIBase, c.Mailgun.APIKey, c.Mailgun.Domain)
}

// Timeout returns the per-request Mailgun API timeout.
func (c *Config) Timeout() time.Duration {
	if c.Mailgun.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.Mailgun.TimeoutSeconds) * time.Second
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.Mailgun.APIBase = mailgun.DefaultAPIBase
	c.Mailgun.TimeoutSeconds = defaultTimeoutSeconds
	c.Logging.Level = "info"
	c.Logging.Format = "text"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}

	if v := os.Getenv("MAILGUN_API_BASE"); v != "" {
		c.Mailgun.APIBase = v
	}
	if v := os.Getenv("MAILGUN_API_KEY"); v != "" {
		c.Mailgun.APIKey = v
	}
	if v := os.Getenv("MAILGUN_DOMAIN"); v != "" {
		c.Mailgun.Domain = v
	}
	if v := os.Getenv("MAILGUN_SENDER"); v != "" {
		c.Mailgun.Sender = v
	}
	if v := os.Getenv("MAILGUN_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Mailgun.TimeoutSeconds = secs
		}
	}

	if v := os.Getenv("MAILGUN_CA_FILE"); v != "" {
		c.Mailgun.CAFile = v
	}

	if v := os.Getenv("SES_REGION"); v != "" {
		c.SES.Region = v
	}
	if v := os.Getenv("SES_ACCESS_KEY_ID"); v != "" {
		c.SES.AccessKeyID = v
	}
	if v := os.Getenv("SES_SECRET_ACCESS_KEY"); v != "" {
		c.SES.SecretAccessKey = v
	}
	if v := os.Getenv("SES_SENDER"); v != "" {
		c.SES.Sender = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
}
