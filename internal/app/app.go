package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/dazhuang0717-violet/aiscore/internal/config"
	"github.com/dazhuang0717-violet/aiscore/internal/infrastructure/fetch"
	"github.com/dazhuang0717-violet/aiscore/internal/infrastructure/llm"
	"github.com/dazhuang0717-violet/aiscore/internal/infrastructure/rows"
	"github.com/dazhuang0717-violet/aiscore/internal/infrastructure/storage"
	"github.com/dazhuang0717-violet/aiscore/internal/logging"
	"github.com/dazhuang0717-violet/aiscore/internal/ports"
	"github.com/dazhuang0717-violet/aiscore/internal/report"
	"github.com/dazhuang0717-violet/aiscore/internal/resolve"
	"github.com/dazhuang0717-violet/aiscore/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	batch  *usecase.Batch
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	fetcher := fetch.NewProxyFetcher(cfg.Proxy.Endpoint)
	resolver := resolve.NewResolver(fetcher, baseLogger.With("component", "resolver"))
	scorer := llm.NewClient(cfg.AI)

	var repository ports.ResultRepository
	if cfg.Database.DSN != "" {
		db, err := storage.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect results store: %w", err)
		}
		repository = storage.NewPostgresRepository(db)
	}

	batch := usecase.NewBatch(usecase.BatchDeps{
		Resolver:   resolver,
		Scorer:     scorer,
		Repository: repository,
		Limiter:    rate.NewLimiter(rate.Every(cfg.Pipeline.Pace()), 1),
		Logger:     baseLogger.With("component", "batch"),
	})

	return &Application{cfg: cfg, batch: batch, logger: baseLogger}, nil
}

// Run scores the rows of one input file and prints the summary report.
func (a *Application) Run(ctx context.Context, inputPath string) error {
	batchCfg := usecase.BatchConfig{
		Tiers:        a.cfg.Tiers,
		Audience:     a.cfg.AudienceMode(),
		Project:      a.cfg.Project,
		VolumeOffset: a.cfg.Pipeline.VolumeOffset,
	}

	source := rows.NewCSVSource(inputPath)

	progress := ports.ProgressFunc(func(completed, total int) {
		a.logger.Info("progress", "percent", completed*100/total, "completed", completed, "total", total)
	})

	results, err := a.batch.Run(ctx, batchCfg, source, progress)
	if err != nil {
		return fmt.Errorf("run batch: %w", err)
	}

	fmt.Print(report.Render(results, report.NewSorter(a.cfg.Pipeline.SortLocale)))
	return nil
}
