package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPath names the config file; defaults to DefaultPath.
	EnvPath = "ZOTSEARCH_CONFIG"
	// EnvBackendURL overrides backend.base_url.
	EnvBackendURL = "ZOTSEARCH_BACKEND_URL"

	DefaultPath = "zotsearch.yaml"
)

var (
	once     sync.Once
	instance *Config
)

// ComponentConfig holds the network settings a service listens on.
type ComponentConfig struct {
	Protocol string `yaml:"protocol"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Debug    bool   `yaml:"debug"`
}

// BackendConfig describes the search backend.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// RateLimit caps outgoing searches per second; 0 disables it.
	RateLimit float64 `yaml:"rate_limit"`
	// ValidateResponse checks every response against the bundled schema.
	ValidateResponse bool `yaml:"validate_response"`
}

// RenderConfig tunes the result presentation.
type RenderConfig struct {
	MaxAuthors int `yaml:"max_authors"`
	// CoverBase is where cover images are served from; empty means BaseURL.
	CoverBase string `yaml:"cover_base"`
}

// LoggingConfig selects logrus output.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
	Path  string `yaml:"path"`
}

// MetricsConfig controls the Prometheus endpoint of the web adapter.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	// PushgatewayURL receives the metrics of batch CLI runs; empty disables it.
	PushgatewayURL string `yaml:"pushgateway_url"`
}

// CLIConfig holds terminal client settings.
type CLIConfig struct {
	HistoryFile string `yaml:"history_file"`
	Color       bool   `yaml:"color"`
}

// Config is the root of zotsearch.yaml.
type Config struct {
	Backend    BackendConfig   `yaml:"backend"`
	WebAdapter ComponentConfig `yaml:"web_adapter"`
	Render     RenderConfig    `yaml:"render"`
	Logging    LoggingConfig   `yaml:"logging"`
	Metrics    MetricsConfig   `yaml:"metrics"`
	CLI        CLIConfig       `yaml:"cli"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		WebAdapter: ComponentConfig{
			Protocol: "http",
			Host:     "localhost",
			Port:     8080,
		},
		Render:  RenderConfig{MaxAuthors: 8},
		Logging: LoggingConfig{Level: "info"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
		CLI:     CLIConfig{HistoryFile: ".zotsearch_history", Color: true},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvBackendURL); v != "" {
		cfg.Backend.BaseURL = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the process-wide configuration (Singleton).
func Get() *Config {
	once.Do(func() {
		path := os.Getenv(EnvPath)
		if path == "" {
			path = DefaultPath
		}
		cfg, err := Load(path)
		if err != nil {
			logrus.Fatalf("[CONFIG ERROR] %v", err)
		}
		instance = cfg
	})
	return instance
}

// Validate checks the settings that have no usable zero value.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return errors.New("config: backend.base_url is required")
	}
	if c.Backend.Timeout < 0 {
		return errors.New("config: backend.timeout must not be negative")
	}
	if c.Backend.RateLimit < 0 {
		return errors.New("config: backend.rate_limit must not be negative")
	}
	if c.WebAdapter.Port < 0 || c.WebAdapter.Port > 65535 {
		return fmt.Errorf("config: web_adapter.port %d out of range", c.WebAdapter.Port)
	}
	return nil
}

// CoverBase returns the base URL for cover images.
func (c *Config) CoverBase() string {
	if c.Render.CoverBase != "" {
		return c.Render.CoverBase
	}
	return c.Backend.BaseURL
}

// Address returns host:port.
func (c ComponentConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// FullURL returns protocol://host:port.
func (c ComponentConfig) FullURL() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.Host, c.Port)
}
