package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futuresbot/config"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadUsesDotEnvAndDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	clearEnv(t, "API_KEY", "API_SECRET", "APP_ENV", "LOG_LEVEL", "BINANCE_TESTNET", "BINANCE_BASE_URL", "WEB_ADDRESS")
	logFile := filepath.Join(dir, "logs", "bot.log")
	t.Setenv("LOG_FILE", logFile)

	require.NoError(t, os.WriteFile(".env", []byte("API_KEY=key123\nAPI_SECRET=secret456\n"), 0o600))

	a, err := Load(context.Background(), config.DefaultConfigPath)
	require.NoError(t, err)

	assert.True(t, a.Credentials.Valid())
	assert.Equal(t, "key123", a.Credentials.APIKey)
	assert.True(t, a.Config.Exchange.Testnet)
	assert.Equal(t, "https://testnet.binancefuture.com", a.Config.Exchange.Endpoint())
	assert.NotNil(t, a.NewRunner())

	require.NoError(t, a.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), " - INFO - starting futures bot")
	assert.Contains(t, string(data), "Futures Bot initialized with Testnet: true")
	assert.NotContains(t, string(data), "secret456")
}

func TestLoadWithoutDotEnvLeavesCredentialsEmpty(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	clearEnv(t, "API_KEY", "API_SECRET", "APP_ENV", "LOG_LEVEL")
	t.Setenv("LOG_FILE", filepath.Join(dir, "bot.log"))

	a, err := Load(context.Background(), "")
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Credentials.Valid())
}

func TestLoadRejectsMissingExplicitConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t, "APP_ENV")

	_, err := Load(context.Background(), "missing.yml")
	assert.Error(t, err)
}
