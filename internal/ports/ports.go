package ports

import (
	"context"
	"io"

	"github.com/dazhuang0717-violet/aiscore/internal/domain"
)

// RowSource extracts ordered input rows from an uploaded tabular file.
type RowSource interface {
	Rows(ctx context.Context) ([]domain.Row, error)
}

// ContentFetcher resolves a remote URL to plain text, best effort.
type ContentFetcher interface {
	Fetch(ctx context.Context, target string) (string, error)
}

// Scorer runs the AI rubric over one piece of content.
type Scorer interface {
	Score(ctx context.Context, req domain.ScoreRequest) (domain.AIAnalysis, error)
}

// TextExtractor converts an uploaded document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, r io.Reader) (string, error)
}

// ResultRepository persists scored batches for later reporting.
type ResultRepository interface {
	SaveBatch(ctx context.Context, batchID string, results []domain.ResultRecord) error
}

// ProgressObserver receives per-row completion updates while a batch runs.
type ProgressObserver interface {
	Progress(completed, total int)
}

// ProgressFunc adapts a plain function into a ProgressObserver.
type ProgressFunc func(completed, total int)

// Progress implements ProgressObserver.
func (f ProgressFunc) Progress(completed, total int) { f(completed, total) }
