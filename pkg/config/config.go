package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultUserAgent is the identity header sent with every request
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/70.0.3538.77 Safari/537.36"

// Config holds all configuration options for the interpals client
type Config struct {
	Interpals InterpalsConfig `yaml:"interpals" json:"interpals"`
	HTTP      HTTPConfig      `yaml:"http" json:"http"`
	Search    SearchConfig    `yaml:"search" json:"search"`
	Session   SessionConfig   `yaml:"session" json:"session"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// InterpalsConfig describes the remote site
type InterpalsConfig struct {
	Username  string `yaml:"username" json:"username"`
	BaseURL   string `yaml:"base_url" json:"base_url"`
	StaticURL string `yaml:"static_url" json:"static_url"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// HTTPConfig holds transport settings
type HTTPConfig struct {
	// Timeout applies to every single request, not to a whole operation
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// SearchConfig holds paged search settings
type SearchConfig struct {
	PageDelay time.Duration `yaml:"page_delay" json:"page_delay"`
	Limit     int           `yaml:"limit" json:"limit"`

	// PagesPerMinute caps result pages across all searches, 0 disables it
	PagesPerMinute int `yaml:"pages_per_minute" json:"pages_per_minute"`
}

// SessionConfig selects where serialized sessions are persisted
type SessionConfig struct {
	// Store is one of auto, keyring, file, env
	Store string `yaml:"store" json:"store"`
	File  string `yaml:"file" json:"file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	File    string `yaml:"file" json:"file"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Interpals: InterpalsConfig{
			BaseURL:   "https://www.interpals.net",
			StaticURL: "https://ipstatic.net/photos/",
			UserAgent: DefaultUserAgent,
		},
		HTTP: HTTPConfig{
			Timeout: 3 * time.Second,
		},
		Search: SearchConfig{
			PageDelay: 0,
			Limit:     1000,
		},
		Session: SessionConfig{
			Store: "auto",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from INTERPALS_* environment variables
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("INTERPALS_USERNAME"); v != "" {
		c.Interpals.Username = v
	}
	if v := os.Getenv("INTERPALS_BASE_URL"); v != "" {
		c.Interpals.BaseURL = v
	}
	if v := os.Getenv("INTERPALS_USER_AGENT"); v != "" {
		c.Interpals.UserAgent = v
	}
	if v := os.Getenv("INTERPALS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid INTERPALS_TIMEOUT: %w", err)
		}
		c.HTTP.Timeout = d
	}
	if v := os.Getenv("INTERPALS_SEARCH_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid INTERPALS_SEARCH_DELAY: %w", err)
		}
		c.Search.PageDelay = d
	}
	if v := os.Getenv("INTERPALS_SEARCH_RATE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid INTERPALS_SEARCH_RATE: %w", err)
		}
		c.Search.PagesPerMinute = n
	}
	if v := os.Getenv("INTERPALS_SESSION_STORE"); v != "" {
		c.Session.Store = v
	}
	if v := os.Getenv("INTERPALS_SESSION_FILE"); v != "" {
		c.Session.File = v
	}
	if v := os.Getenv("INTERPALS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".interpals.yaml",
		".interpals.yml",
		filepath.Join(home, ".config", "interpals", "config.yaml"),
		filepath.Join(home, ".interpals.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.Interpals.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("base URL %q is not an absolute URL", c.Interpals.BaseURL))
	}
	if c.Interpals.StaticURL == "" {
		errs = append(errs, errors.New("static URL is required"))
	}
	if c.Interpals.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("HTTP timeout must be positive"))
	}
	if c.Search.PageDelay < 0 {
		errs = append(errs, errors.New("search page delay cannot be negative"))
	}
	if c.Search.PagesPerMinute < 0 {
		errs = append(errs, errors.New("search pages per minute cannot be negative"))
	}
	if c.Search.Limit < 0 {
		errs = append(errs, errors.New("search limit cannot be negative"))
	}

	validStores := map[string]bool{"auto": true, "keyring": true, "file": true, "env": true}
	if !validStores[strings.ToLower(c.Session.Store)] {
		errs = append(errs, fmt.Errorf("invalid session store %q", c.Session.Store))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["username"].(string); ok && v != "" {
		c.Interpals.Username = v
	}
	if v, ok := flags["base-url"].(string); ok && v != "" {
		c.Interpals.BaseURL = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok && v > 0 {
		c.HTTP.Timeout = v
	}
	if v, ok := flags["delay"].(time.Duration); ok && v >= 0 {
		c.Search.PageDelay = v
	}
	if v, ok := flags["store"].(string); ok && v != "" {
		c.Session.Store = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["no-color"].(bool); ok && v {
		c.Logging.NoColor = true
	}
}

// Load loads configuration from all sources.
// Precedence: flags > environment > .env file > config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".interpals.env"))

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg.MergeCommandLineFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
