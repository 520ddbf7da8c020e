package domain

import "errors"

// Sentinel errors classifying pipeline failures. Per-row scoring failures are
// captured into the row's comment and never propagate past the orchestrator;
// row extraction failures abort the whole batch.
var (
	ErrInsufficientContent = errors.New("insufficient content")
	ErrRowExtraction       = errors.New("row extraction failed")
	ErrEmptyAIResponse     = errors.New("empty ai response")
	ErrRateLimited         = errors.New("ai scoring rate limited")
	ErrBatchInProgress     = errors.New("a batch is already running")
)
