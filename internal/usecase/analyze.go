package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dazhuang0717-violet/aiscore/internal/domain"
	"github.com/dazhuang0717-violet/aiscore/internal/ports"
	"github.com/dazhuang0717-violet/aiscore/internal/scoring"
)

// Documents shorter than this many characters of extracted text carry too
// little signal to score.
const minDocumentRunes = 10

// AnalyzeDocument scores a single uploaded document: extract text, reject
// insufficient content, run the AI rubric, and compose with neutral volume
// metrics (a lone document has no engagement counters).
func (b *Batch) AnalyzeDocument(ctx context.Context, cfg BatchConfig, extractor ports.TextExtractor, r io.Reader, mediaName string) (domain.ResultRecord, error) {
	text, err := extractor.Extract(ctx, r)
	if err != nil {
		return domain.ResultRecord{}, fmt.Errorf("extract document: %w", err)
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minDocumentRunes {
		return domain.ResultRecord{}, domain.ErrInsufficientContent
	}

	analysis, err := b.scorer.Score(ctx, domain.ScoreRequest{
		Text:        text,
		Audience:    cfg.Audience,
		KeyMessage:  cfg.Project.KeyMessage,
		ProjectDesc: cfg.Project.Description,
		MediaName:   mediaName,
	})
	if err != nil {
		return domain.ResultRecord{}, fmt.Errorf("score document: %w", err)
	}

	offset := cfg.VolumeOffset
	if offset <= 0 {
		offset = scoring.DefaultVolumeOffset
	}

	volumeQuality := scoring.VolumeQuality("", "", offset)
	tierScore := scoring.ParseTiers(cfg.Tiers).Score(mediaName)

	return scoring.BuildRecord(documentTitle(text), mediaName, volumeQuality, tierScore, analysis), nil
}

// documentTitle derives a short title from the opening of the text.
func documentTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= 30 {
		return text
	}
	return string(runes[:30])
}
