package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dazhuang0717-violet/aiscore/internal/domain"
	"github.com/dazhuang0717-violet/aiscore/internal/ports"
	"github.com/dazhuang0717-violet/aiscore/internal/resolve"
	"github.com/dazhuang0717-violet/aiscore/internal/scoring"
)

// State tracks the batch lifecycle: Idle -> Running -> a terminal state.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Floor result substituted when a row has neither content nor media name,
// so empty rows never reach the AI endpoint and never score perfect or zero.
const pendingComment = "pending evaluation"

func floorAnalysis() domain.AIAnalysis {
	return domain.AIAnalysis{
		KMScore:                1,
		AcquisitionScore:       1,
		AudiencePrecisionScore: 1,
		Comment:                pendingComment,
	}
}

// BatchConfig is the immutable per-batch configuration: tier patterns,
// audience mode, and project context are fixed for every row of the run.
type BatchConfig struct {
	Tiers        domain.TierConfig
	Audience     domain.Audience
	Project      domain.ProjectContext
	VolumeOffset float64
}

// BatchDeps wires the driven adapters into the orchestrator.
type BatchDeps struct {
	Resolver   *resolve.Resolver
	Scorer     ports.Scorer
	Repository ports.ResultRepository
	Limiter    *rate.Limiter
	Logger     *slog.Logger
}

// Batch drives input rows sequentially through resolve -> score -> compose.
// Rows are never processed in parallel: each row may perform a network fetch
// and a rate-limited AI call, and parallel rows would trip the upstream rate
// limits the backoff is pacing against.
type Batch struct {
	resolver   *resolve.Resolver
	scorer     ports.Scorer
	repository ports.ResultRepository
	limiter    *rate.Limiter
	logger     *slog.Logger

	mu    sync.Mutex
	state State
}

// NewBatch constructs the orchestrator.
func NewBatch(deps BatchDeps) *Batch {
	limiter := deps.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Batch{
		resolver:   deps.Resolver,
		scorer:     deps.Scorer,
		repository: deps.Repository,
		limiter:    limiter,
		logger:     deps.Logger,
		state:      StateIdle,
	}
}

// State reports the current lifecycle state.
func (b *Batch) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Run scores every row from the source and returns the composed records in
// input order. A single row's scoring failure is recorded in that row's
// comment and processing continues; only row extraction aborts the batch.
// A second Run while one is in progress is rejected.
func (b *Batch) Run(ctx context.Context, cfg BatchConfig, source ports.RowSource, observer ports.ProgressObserver) ([]domain.ResultRecord, error) {
	b.mu.Lock()
	if b.state == StateRunning {
		b.mu.Unlock()
		return nil, domain.ErrBatchInProgress
	}
	b.state = StateRunning
	b.mu.Unlock()

	results, err := b.run(ctx, cfg, source, observer)

	b.mu.Lock()
	switch {
	case err == nil:
		b.state = StateCompleted
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		b.state = StateCancelled
	default:
		b.state = StateFailed
	}
	b.mu.Unlock()

	return results, err
}

func (b *Batch) run(ctx context.Context, cfg BatchConfig, source ports.RowSource, observer ports.ProgressObserver) ([]domain.ResultRecord, error) {
	inputRows, err := source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract rows: %w", err)
	}

	offset := cfg.VolumeOffset
	if offset <= 0 {
		offset = scoring.DefaultVolumeOffset
	}
	tiers := scoring.ParseTiers(cfg.Tiers)

	results := make([]domain.ResultRecord, 0, len(inputRows))
	for i, row := range inputRows {
		// Cancellation is observed between rows, never mid-row.
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		if i > 0 {
			// Inter-call pacing, distinct from retry backoff.
			if err := b.limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return results, ctx.Err()
				}
				return results, fmt.Errorf("pace limiter: %w", err)
			}
		}

		record := b.scoreRow(ctx, cfg, tiers, offset, row)
		results = append(results, record)

		if observer != nil {
			observer.Progress(i+1, len(inputRows))
		}
	}

	if b.repository != nil && len(results) > 0 {
		if err := b.repository.SaveBatch(ctx, batchID(), results); err != nil {
			b.warn("persist batch results", "error", err)
		}
	}

	return results, nil
}

func (b *Batch) scoreRow(ctx context.Context, cfg BatchConfig, tiers scoring.TierList, offset float64, row domain.Row) domain.ResultRecord {
	resolved := b.resolver.Resolve(ctx, row)

	volumeQuality := scoring.VolumeQuality(resolved.Views, resolved.Interactions, offset)
	tierScore := tiers.Score(resolved.MediaName)

	var analysis domain.AIAnalysis
	switch {
	case resolved.Content == "" && resolved.MediaName == "":
		analysis = floorAnalysis()
	default:
		var err error
		analysis, err = b.scorer.Score(ctx, domain.ScoreRequest{
			Text:        resolved.Content,
			Audience:    cfg.Audience,
			KeyMessage:  cfg.Project.KeyMessage,
			ProjectDesc: cfg.Project.Description,
			MediaName:   resolved.MediaName,
		})
		if err != nil {
			b.warn("row scoring failed", "title", resolved.Title, "error", err)
			analysis = domain.AIAnalysis{
				Comment: fmt.Sprintf("scoring failed: %v", err),
			}
		}
	}

	return scoring.BuildRecord(resolved.Title, resolved.MediaName, volumeQuality, tierScore, analysis)
}

func batchID() string {
	return time.Now().UTC().Format("20060102T150405.000")
}

func (b *Batch) warn(msg string, args ...interface{}) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}
