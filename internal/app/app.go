// Package app wires configuration, logging and metrics for the binaries.
package app

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"futuresbot/config"
	"futuresbot/internal/actions"
	"futuresbot/internal/bot"
	"futuresbot/internal/exchange"
	"futuresbot/internal/metrics"
	"futuresbot/logger"
)

// App holds what both front ends share. Close releases the log file and
// metric publisher.
type App struct {
	Config      *config.Config
	Log         *logger.Log
	Credentials config.Credentials

	publisher *metrics.CloudWatchPublisher
}

// Load reads .env and the YAML config, then builds the configured log sink.
func Load(ctx context.Context, configPath string) (*App, error) {
	boot := logger.Logger()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		boot.WithError(err).Warn("Error loading .env file")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	metrics.Configure(cfg.Metrics)
	publisher, err := metrics.NewCloudWatchPublisher(ctx, cfg.Metrics.CloudWatch, log)
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	a := &App{
		Config:      cfg,
		Log:         log,
		Credentials: config.LoadCredentials(),
		publisher:   publisher,
	}

	env := config.AppEnvironment()
	entry := log.WithComponent("main").WithFields(logger.Fields{
		"service":     cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": env,
		"credentials": a.Credentials.String(),
	})
	entry.Info("starting futures bot")

	switch testnet := cfg.Exchange.Testnet && cfg.Exchange.BaseURL == ""; {
	case !testnet && !config.IsProductionLike(env):
		entry.Warnf("live endpoint %s selected in %s environment", cfg.Exchange.Endpoint(), env)
	case testnet && config.IsProductionLike(env):
		entry.Warnf("testnet endpoint selected in %s environment", env)
	}

	return a, nil
}

// NewRunner builds the exchange client, bot and action runner. Credentials
// are passed through unchecked.
func (a *App) NewRunner() *actions.Runner {
	client := exchange.NewClient(a.Config.Exchange, a.Credentials, a.Log)
	return actions.New(bot.New(client, a.Log), a.Log)
}

func (a *App) Close() error {
	a.publisher.Close()
	a.Log.WithComponent("main").Info("shutdown complete")
	return a.Log.Close()
}
