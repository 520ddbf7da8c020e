package main

import (
	"context"
	"os"

	"github.com/dazhuang0717-violet/aiscore/internal/app"
	"github.com/dazhuang0717-violet/aiscore/internal/config"
	"github.com/dazhuang0717-violet/aiscore/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	if len(os.Args) < 2 {
		logger.Error("usage: aiscore <rows.csv>")
		os.Exit(2)
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx, os.Args[1]); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
