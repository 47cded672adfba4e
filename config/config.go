package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const DefaultAPIBaseURL = "https://kong-b97fc7d5c3uskyjyt.kongcloud.dev/estoque"

type Config struct {
	APIBaseURL      string        `envconfig:"API_BASE_URL"      default:"https://kong-b97fc7d5c3uskyjyt.kongcloud.dev/estoque"`
	HTTPPort        string        `envconfig:"HTTP_PORT"         default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL"         default:"info"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT"   default:"0s"` // 0 means no client timeout
	DevProxyEnabled bool          `envconfig:"DEV_PROXY_ENABLED" default:"true"`
	DevProxyPrefix  string        `envconfig:"DEV_PROXY_PREFIX"  default:"/api"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT"  default:"5s"`
	GinMode         string        `envconfig:"GIN_MODE"          default:"release"`
}

// LoadConfig reads .env (if present) and the environment. It stops the
// process when the configuration is unusable.
func LoadConfig(logger *logrus.Logger) *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	cfg, err := Process()
	if err != nil {
		logger.Fatalf("Failed to process configuration from environment variables: %v", err)
	}

	logger.Infof("Configuration loaded: API base URL=%s, HTTP port=%s, LogLevel=%s, dev proxy=%t",
		cfg.APIBaseURL, cfg.HTTPPort, cfg.LogLevel, cfg.DevProxyEnabled)
	return cfg
}

// Process fills a Config from the environment only and validates it.
func Process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("could not read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid API_BASE_URL %q: %w", c.APIBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API_BASE_URL %q: scheme must be http or https", c.APIBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL %q: host is empty", c.APIBaseURL)
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE %q must be one of debug, release, test", c.GinMode)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT cannot be negative")
	}
	if c.DevProxyEnabled && !strings.HasPrefix(c.DevProxyPrefix, "/") {
		return fmt.Errorf("DEV_PROXY_PREFIX %q must start with '/'", c.DevProxyPrefix)
	}
	c.DevProxyPrefix = strings.TrimRight(c.DevProxyPrefix, "/")
	if c.DevProxyEnabled && c.DevProxyPrefix == "" {
		return fmt.Errorf("DEV_PROXY_PREFIX cannot be the root path")
	}
	return nil
}
