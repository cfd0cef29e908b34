package api

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	productswarehouse "github.com/Apurer/product-catalog-gateway/internal/domains/products/adapters/external/warehouse"
	"github.com/Apurer/product-catalog-gateway/internal/graph"
	platformobservability "github.com/Apurer/product-catalog-gateway/internal/platform/observability"
)

// Config carries the settings for the API process. A YAML file provides the base values and
// environment variables override them.
type Config struct {
	Port                  string        `yaml:"port"`
	PostgresDSN           string        `yaml:"postgres_dsn"`
	WarehouseBaseURL      string        `yaml:"warehouse_base_url"`
	WarehouseTimeout      time.Duration `yaml:"warehouse_timeout"`
	SupplementConcurrency int           `yaml:"supplement_concurrency"`
	GraphQLPlayground     bool          `yaml:"graphql_playground"`
	ShutdownTimeout       time.Duration `yaml:"shutdown_timeout"`
	LogLevel              string        `yaml:"log_level"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Port:                  "8080",
		WarehouseTimeout:      productswarehouse.DefaultTimeout,
		SupplementConcurrency: graph.DefaultConcurrency,
		ShutdownTimeout:       10 * time.Second,
		LogLevel:              "info",
	}
}

// LoadConfig reads the optional YAML file at path (CONFIG_FILE when path is empty), applies
// environment overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks basic constraints.
func (c Config) Validate() error {
	var errs []error
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a TCP port, got %q", c.Port))
	}
	if c.WarehouseBaseURL != "" {
		u, err := url.Parse(c.WarehouseBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("WAREHOUSE_BASE_URL must be an absolute http(s) URL, got %q", c.WarehouseBaseURL))
		}
	}
	if c.WarehouseTimeout <= 0 {
		errs = append(errs, errors.New("WAREHOUSE_TIMEOUT must be positive"))
	}
	if c.SupplementConcurrency <= 0 {
		errs = append(errs, errors.New("SUPPLEMENT_CONCURRENCY must be a positive integer"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if _, err := platformobservability.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}

func applyEnv(cfg *Config) error {
	cfg.Port = envDefault("PORT", cfg.Port)
	cfg.PostgresDSN = envDefault("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.WarehouseBaseURL = envDefault("WAREHOUSE_BASE_URL", cfg.WarehouseBaseURL)
	cfg.LogLevel = envDefault("LOG_LEVEL", cfg.LogLevel)

	var errs []error
	if raw, ok := lookupEnv("WAREHOUSE_TIMEOUT"); ok {
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("WAREHOUSE_TIMEOUT must be a duration such as 2s: %w", err))
		}
		cfg.WarehouseTimeout = d
	}
	if raw, ok := lookupEnv("SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be a duration such as 10s: %w", err))
		}
		cfg.ShutdownTimeout = d
	}
	if raw, ok := lookupEnv("SUPPLEMENT_CONCURRENCY"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, errors.New("SUPPLEMENT_CONCURRENCY must be a positive integer"))
		}
		cfg.SupplementConcurrency = n
	}
	if raw, ok := lookupEnv("GRAPHQL_PLAYGROUND"); ok {
		cfg.GraphQLPlayground = isTruthy(raw)
	}
	return errors.Join(errs...)
}

func lookupEnv(key string) (string, bool) {
	val := strings.TrimSpace(os.Getenv(key))
	return val, val != ""
}

func envDefault(key, fallback string) string {
	if val, ok := lookupEnv(key); ok {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
