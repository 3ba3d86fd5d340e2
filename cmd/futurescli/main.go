package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"futuresbot/config"
	"futuresbot/internal/app"
	"futuresbot/internal/cli"
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

	menu := cli.New(a.NewRunner(), os.Stdin, os.Stdout, a.Log)
	runErr := menu.Run(ctx)
	if runErr != nil {
		a.Log.WithComponent("main").WithError(runErr).Error("menu stopped")
	}
	if err := a.Close(); err != nil {
		logger.Logger().WithError(err).Warn("failed to close log file")
	}
	if runErr != nil {
		os.Exit(1)
	}
}
