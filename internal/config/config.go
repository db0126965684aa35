package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// APIBaseURL is the storefront REST API root, e.g. http://localhost:8080/api.
	APIBaseURL string

	RequestTimeout      time.Duration
	CartPollInterval    time.Duration
	CatalogPollInterval time.Duration

	// SessionFile is where the bearer token is persisted between runs.
	SessionFile string

	LogLevel string

	// Port is used by the stub API server only.
	Port string
}

// fileConfig mirrors Config for the optional YAML file; durations are kept
// as strings so "3s" style values work.
type fileConfig struct {
	APIBaseURL          string `yaml:"apiBaseUrl"`
	RequestTimeout      string `yaml:"requestTimeout"`
	CartPollInterval    string `yaml:"cartPollInterval"`
	CatalogPollInterval string `yaml:"catalogPollInterval"`
	SessionFile         string `yaml:"sessionFile"`
	LogLevel            string `yaml:"logLevel"`
	Port                string `yaml:"port"`
}

// Load builds the config from defaults, then the YAML file at path (when it
// exists), then env vars. Env always wins. An empty path falls back to
// $STOREFRONT_CONFIG.
func Load(path string) (Config, error) {
	cfg := Config{
		APIBaseURL:          "http://localhost:8080/api",
		RequestTimeout:      10 * time.Second,
		CartPollInterval:    3 * time.Second,
		CatalogPollInterval: 2 * time.Second,
		SessionFile:         defaultSessionFile(),
		LogLevel:            "info",
		Port:                "8080",
	}

	if path == "" {
		path = os.Getenv("STOREFRONT_CONFIG")
	}
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	cfg.APIBaseURL = getenv("STOREFRONT_API_URL", cfg.APIBaseURL)
	cfg.RequestTimeout = parseDuration(os.Getenv("STOREFRONT_TIMEOUT"), cfg.RequestTimeout)
	cfg.CartPollInterval = parseDuration(os.Getenv("STOREFRONT_CART_POLL_INTERVAL"), cfg.CartPollInterval)
	cfg.CatalogPollInterval = parseDuration(os.Getenv("STOREFRONT_CATALOG_POLL_INTERVAL"), cfg.CatalogPollInterval)
	cfg.SessionFile = getenv("STOREFRONT_SESSION_FILE", cfg.SessionFile)
	cfg.LogLevel = getenv("STOREFRONT_LOG_LEVEL", cfg.LogLevel)
	cfg.Port = getenv("PORT", cfg.Port)

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	var f fileConfig
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if f.APIBaseURL != "" {
		cfg.APIBaseURL = f.APIBaseURL
	}
	cfg.RequestTimeout = parseDuration(f.RequestTimeout, cfg.RequestTimeout)
	cfg.CartPollInterval = parseDuration(f.CartPollInterval, cfg.CartPollInterval)
	cfg.CatalogPollInterval = parseDuration(f.CatalogPollInterval, cfg.CatalogPollInterval)
	if f.SessionFile != "" {
		cfg.SessionFile = f.SessionFile
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.Port != "" {
		cfg.Port = f.Port
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront-session.json"
	}
	return filepath.Join(home, ".storefront", "session.json")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	if strings.TrimSpace(v) == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
