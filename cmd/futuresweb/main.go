package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"futuresbot/config"
	"futuresbot/internal/actions"
	"futuresbot/internal/app"
	"futuresbot/internal/web"
	"futuresbot/logger"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Load(ctx, *configPath)
	if err != nil {
		logger.Logger().WithError(err).Error("Failed to start")
		os.Exit(1)
	}

	var runner *actions.Runner
	if a.Credentials.Valid() {
		runner = a.NewRunner()
	} else {
		a.Log.WithComponent("main").Error(web.MissingCredentials)
	}

	srv := web.NewServer(a.Config.Web, a.Config.App.Name, runner, a.Log)
	runErr := srv.Run(ctx)
	if runErr != nil {
		a.Log.WithComponent("main").WithError(runErr).Error("web server stopped")
	}
	if err := a.Close(); err != nil {
		logger.Logger().WithError(err).Warn("failed to close log file")
	}
	if runErr != nil {
		os.Exit(1)
	}
}
