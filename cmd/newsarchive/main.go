package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"newsarchive/internal/app"
	"newsarchive/internal/config"
	"newsarchive/internal/logging"
)

func main() {
	// Optional .env for local runs; env vars already set win.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
