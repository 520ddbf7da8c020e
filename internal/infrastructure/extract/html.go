package extract

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dazhuang0717-violet/aiscore/internal/ports"
)

// HTMLExtractor turns an uploaded HTML (or plain text) document into plain
// text for single-document analysis. Script and style bodies are dropped.
type HTMLExtractor struct{}

var _ ports.TextExtractor = (*HTMLExtractor)(nil)

// NewHTMLExtractor returns a stateless extractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract parses the document and returns whitespace-collapsed text.
func (e *HTMLExtractor) Extract(_ context.Context, r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	return collapseWhitespace(doc.Text()), nil
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
