package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"dashboard_client/internal/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config/config.yml"

	EnvConfigPath = "CONFIG_PATH"
	EnvAPIToken   = "DASHBOARD_API_TOKEN"
	EnvAPIBaseURL = "DASHBOARD_API_BASE_URL"
	EnvLogLevel   = "LOG_LEVEL"
)

// ServerConfig holds the local REST facade configuration.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	ReadTimeout    int      `yaml:"readTimeout"`
	WriteTimeout   int      `yaml:"writeTimeout"`
	IdleTimeout    int      `yaml:"idleTimeout"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// APIConfig holds the backend connection settings.
type APIConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	Token                string  `yaml:"token"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimit            float64 `yaml:"rateLimit"`
	BurstLimit           int     `yaml:"burstLimit"`
}

// RetryConfig holds the backoff policy of resilient calls.
// A negative MaxRetries disables retries.
type RetryConfig struct {
	MaxRetries  int   `yaml:"maxRetries"`
	BaseDelayMs int64 `yaml:"baseDelayMs"`
}

// SessionConfig holds the session token source and the 401 cooldown.
type SessionConfig struct {
	TokenFile      string `yaml:"tokenFile"`
	AuthCooldownMs int64  `yaml:"authCooldownMs"`
}

// CacheConfig holds configuration for the graph cache.
type CacheConfig struct {
	DefaultExpirationMinutes int `yaml:"defaultExpirationMinutes"`
	CleanupIntervalMinutes   int `yaml:"cleanupIntervalMinutes"`
}

type DashboardConfig struct {
	FailFast bool `yaml:"failFast"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	API       APIConfig       `yaml:"api"`
	Retry     RetryConfig     `yaml:"retry"`
	Session   SessionConfig   `yaml:"session"`
	Cache     CacheConfig     `yaml:"cache"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Logging   LoggingConfig   `yaml:"logging"`
}

func (c APIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMillis) * time.Millisecond
}

func (c RetryConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMs) * time.Millisecond
}

func (c SessionConfig) AuthCooldown() time.Duration {
	return time.Duration(c.AuthCooldownMs) * time.Millisecond
}

func (c CacheConfig) DefaultExpiration() time.Duration {
	return time.Duration(c.DefaultExpirationMinutes) * time.Minute
}

func (c CacheConfig) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalMinutes) * time.Minute
}

// LoadFromEnv loads .env if present, then the YAML file named by CONFIG_PATH
// (default config/config.yml).
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("Failed to load .env file: %v", err)
	}
	return Load(utils.GetEnv(EnvConfigPath, DefaultPath))
}

// Load reads the YAML configuration file from the given path, applies
// environment overrides and fills in defaults.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := utils.GetEnv(EnvAPIToken, ""); v != "" {
		cfg.API.Token = v
		logrus.Infof("API token taken from %s", EnvAPIToken)
	}
	if v := utils.GetEnv(EnvAPIBaseURL, ""); v != "" {
		cfg.API.BaseURL = v
		logrus.Infof("API.BaseURL overridden by %s: %s", EnvAPIBaseURL, v)
	}
	if v := utils.GetEnv(EnvLogLevel, ""); v != "" {
		cfg.Logging.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.API.RequestTimeoutMillis <= 0 {
		cfg.API.RequestTimeoutMillis = 10000
		logrus.Infof("API.RequestTimeoutMillis not set, defaulting to %d ms", cfg.API.RequestTimeoutMillis)
	}
	if cfg.API.RateLimit <= 0 {
		cfg.API.RateLimit = 20
		logrus.Infof("API.RateLimit not set, defaulting to %v requests/s", cfg.API.RateLimit)
	}
	if cfg.API.BurstLimit <= 0 {
		cfg.API.BurstLimit = 10
		logrus.Infof("API.BurstLimit not set, defaulting to %d", cfg.API.BurstLimit)
	}

	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = 2
		logrus.Infof("Retry.MaxRetries not set, defaulting to %d", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.BaseDelayMs <= 0 {
		cfg.Retry.BaseDelayMs = 300
		logrus.Infof("Retry.BaseDelayMs not set, defaulting to %d ms", cfg.Retry.BaseDelayMs)
	}

	if cfg.Session.AuthCooldownMs <= 0 {
		cfg.Session.AuthCooldownMs = 1000
		logrus.Infof("Session.AuthCooldownMs not set, defaulting to %d ms", cfg.Session.AuthCooldownMs)
	}

	if cfg.Cache.DefaultExpirationMinutes <= 0 {
		cfg.Cache.DefaultExpirationMinutes = 5
		logrus.Infof("Cache.DefaultExpirationMinutes not set, defaulting to %d minutes", cfg.Cache.DefaultExpirationMinutes)
	}
	if cfg.Cache.CleanupIntervalMinutes <= 0 {
		cfg.Cache.CleanupIntervalMinutes = 10
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.baseURL is required (or set %s)", EnvAPIBaseURL)
	}
	if !strings.HasPrefix(cfg.API.BaseURL, "http://") && !strings.HasPrefix(cfg.API.BaseURL, "https://") {
		return fmt.Errorf("api.baseURL must be an http or https URL, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Token == "" && cfg.Session.TokenFile == "" {
		logrus.Warnf("No API token configured; set %s, api.token or session.tokenFile", EnvAPIToken)
	}
	return nil
}
