package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTempConfig creates a configuration file and returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("APP_ENV", "")
	path := writeTempConfig(t, `app:
  name: "TestBot"
  version: "1.0"
exchange:
  testnet: false
  requests_per_second: 5
logging:
  level: debug
  output: "logs/test.log"
web:
  address: ":9000"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.App.Name != "TestBot" {
		t.Errorf("unexpected name: %s", cfg.App.Name)
	}
	if cfg.Exchange.Testnet {
		t.Errorf("expected testnet to be disabled")
	}
	if cfg.Exchange.RequestsPerSecond != 5 {
		t.Errorf("unexpected requests per second: %v", cfg.Exchange.RequestsPerSecond)
	}
	if cfg.Logging.Format != "plain" {
		t.Errorf("default format not kept: %q", cfg.Logging.Format)
	}
	if cfg.Exchange.Endpoint() != "https://fapi.binance.com" {
		t.Errorf("unexpected endpoint: %s", cfg.Exchange.Endpoint())
	}
}

func TestLoadConfigMissingDefaultFile(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.Exchange.Testnet {
		t.Errorf("default config must target testnet")
	}
	if cfg.Exchange.Endpoint() != "https://testnet.binancefuture.com" {
		t.Errorf("unexpected endpoint: %s", cfg.Exchange.Endpoint())
	}
	if cfg.Logging.Output != "futures_trading_bot.log" {
		t.Errorf("unexpected log file: %s", cfg.Logging.Output)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	t.Setenv("APP_ENV", "")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("BINANCE_TESTNET", "false")
	t.Setenv("BINANCE_BASE_URL", "http://127.0.0.1:9999/")
	path := writeTempConfig(t, "app:\n  name: bot\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Exchange.Testnet {
		t.Errorf("BINANCE_TESTNET override ignored")
	}
	if got := cfg.Exchange.Endpoint(); got != "http://127.0.0.1:9999" {
		t.Errorf("unexpected endpoint: %s", got)
	}
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty name", func(c *Config) { c.App.Name = "" }},
		{"bad base url", func(c *Config) { c.Exchange.BaseURL = "ftp://example.com" }},
		{"negative rps", func(c *Config) { c.Exchange.RequestsPerSecond = -1 }},
		{"cloudwatch without namespace", func(c *Config) {
			c.Metrics.CloudWatch.Enabled = true
			c.Metrics.CloudWatch.Namespace = ""
		}},
	}
	for _, c := range cases {
		cfg := Default()
		c.mutate(&cfg)
		if err := validateConfig(&cfg); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}

	cfg := Default()
	if err := validateConfig(&cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestCredentials(t *testing.T) {
	t.Setenv("API_KEY", " key ")
	t.Setenv("API_SECRET", "")

	creds := LoadCredentials()
	if creds.APIKey != "key" {
		t.Errorf("unexpected key: %q", creds.APIKey)
	}
	if creds.Valid() {
		t.Errorf("credentials without secret must not be valid")
	}

	t.Setenv("API_SECRET", "secret")
	if !LoadCredentials().Valid() {
		t.Errorf("expected valid credentials")
	}
}

func TestAppEnvironmentAliases(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	if env := AppEnvironment(); env != EnvironmentProduction {
		t.Fatalf("AppEnvironment() = %q, want %q", env, EnvironmentProduction)
	}
	if !IsProductionLike(AppEnvironment()) {
		t.Fatalf("production must be production-like")
	}
	t.Setenv("APP_ENV", "")
	if IsProductionLike(AppEnvironment()) {
		t.Fatalf("development must not be production-like")
	}
}

func TestConfigPathForEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	if got := configPathFor(""); got != "config/config.staging.yml" {
		t.Fatalf("configPathFor(\"\") = %q", got)
	}
	if got := configPathFor("custom.yml"); got != "custom.yml" {
		t.Fatalf("explicit path replaced: %q", got)
	}

	t.Chdir(t.TempDir())
	if _, err := LoadConfig(DefaultConfigPath); err == nil {
		t.Fatalf("expected missing staging file to be an error")
	}
}
