package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is where both binaries look for their YAML file.
	DefaultConfigPath = "config/config.yml"

	defaultProductionURL = "https://fapi.binance.com"
	defaultTestnetURL    = "https://testnet.binancefuture.com"
	defaultLogFile       = "futures_trading_bot.log"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Exchange ExchangeConfig `yaml:"exchange"`
	Logging  LoggingConfig  `yaml:"logging"`
	Web      WebConfig      `yaml:"web"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type ExchangeConfig struct {
	Testnet           bool                 `yaml:"testnet"`
	BaseURL           string               `yaml:"base_url"`
	ProductionURL     string               `yaml:"production_url"`
	TestnetURL        string               `yaml:"testnet_url"`
	RequestsPerSecond float64              `yaml:"requests_per_second"`
	ConnectionPool    ConnectionPoolConfig `yaml:"connection_pool"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	Console    bool   `yaml:"console"`
	MaxAge     int    `yaml:"max_age"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

type WebConfig struct {
	Address    string `yaml:"address"`
	LogHistory int    `yaml:"log_history"`
}

type MetricsConfig struct {
	UsedWeight bool             `yaml:"used_weight"`
	CloudWatch CloudWatchConfig `yaml:"cloudwatch"`
}

type CloudWatchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	Namespace string `yaml:"namespace"`
}

// Default returns the configuration used when no file is present: testnet,
// plain log lines to stdout and futures_trading_bot.log.
func Default() Config {
	return Config{
		App: AppConfig{
			Name:    "futuresbot",
			Version: "dev",
		},
		Exchange: ExchangeConfig{
			Testnet:       true,
			ProductionURL: defaultProductionURL,
			TestnetURL:    defaultTestnetURL,
			ConnectionPool: ConnectionPoolConfig{
				MaxIdleConns:    10,
				MaxConnsPerHost: 10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "plain",
			Output:  defaultLogFile,
			Console: true,
			MaxSize: 100,
		},
		Web: WebConfig{
			Address:    "0.0.0.0:8501",
			LogHistory: 200,
		},
		Metrics: MetricsConfig{
			UsedWeight: true,
			CloudWatch: CloudWatchConfig{Namespace: "FuturesBot"},
		},
	}
}

// LoadConfig reads the YAML file at path on top of Default. A missing file
// at the default location is not an error; a missing environment file or
// explicit path is.
func LoadConfig(path string) (*Config, error) {
	path = configPathFor(path)

	config := Default()

	// Read configuration file
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultConfigPath:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnvOverrides(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("BINANCE_TESTNET")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Exchange.Testnet = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("BINANCE_BASE_URL")); v != "" {
		cfg.Exchange.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FILE")); v != "" {
		cfg.Logging.Output = v
	}
	if v := strings.TrimSpace(os.Getenv("WEB_ADDRESS")); v != "" {
		cfg.Web.Address = v
	}
	if v := strings.TrimSpace(os.Getenv("AWS_REGION")); v != "" && cfg.Metrics.CloudWatch.Region == "" {
		cfg.Metrics.CloudWatch.Region = v
	}
}

func validateConfig(cfg *Config) error {
	if cfg.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	for name, raw := range map[string]string{
		"exchange.base_url":       cfg.Exchange.BaseURL,
		"exchange.production_url": cfg.Exchange.ProductionURL,
		"exchange.testnet_url":    cfg.Exchange.TestnetURL,
	} {
		if raw == "" {
			continue
		}
		if !isValidEndpoint(raw) {
			return fmt.Errorf("%s '%s' is not an http(s) URL", name, raw)
		}
	}

	if cfg.Exchange.RequestsPerSecond < 0 {
		return fmt.Errorf("exchange.requests_per_second must not be negative")
	}

	if cfg.Exchange.ConnectionPool.MaxIdleConns < 0 || cfg.Exchange.ConnectionPool.MaxConnsPerHost < 0 {
		return fmt.Errorf("exchange.connection_pool limits must not be negative")
	}

	if cfg.Web.LogHistory < 0 {
		return fmt.Errorf("web.log_history must not be negative")
	}

	if cfg.Metrics.CloudWatch.Enabled && cfg.Metrics.CloudWatch.Namespace == "" {
		return fmt.Errorf("metrics.cloudwatch.namespace is required when CloudWatch is enabled")
	}

	return nil
}

// Endpoint returns the REST base URL the exchange client should use. An
// explicit base_url wins, otherwise the testnet flag picks between the two
// known hosts.
func (c ExchangeConfig) Endpoint() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if c.Testnet {
		if c.TestnetURL != "" {
			return strings.TrimRight(c.TestnetURL, "/")
		}
		return defaultTestnetURL
	}
	if c.ProductionURL != "" {
		return strings.TrimRight(c.ProductionURL, "/")
	}
	return defaultProductionURL
}

func isValidEndpoint(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
