package resolve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dazhuang0717-violet/aiscore/internal/domain"
	"github.com/dazhuang0717-violet/aiscore/internal/ports"
)

// Column-name aliases recognized in input rows, matched case-sensitively;
// the first non-empty value wins.
var (
	mediaAliases       = []string{"媒体名称", "媒体"}
	titleAliases       = []string{"标题", "Title"}
	contentAliases     = []string{"内容", "正文", "Content"}
	viewAliases        = []string{"浏览量", "PV"}
	interactionAliases = []string{"互动量", "互动", "Interactions"}
	urlAliases         = []string{"URL", "链接", "Link"}
)

// Resolved is the per-row material handed to the scoring stages.
type Resolved struct {
	Title        string
	MediaName    string
	Content      string
	Views        string
	Interactions string
	URL          string
}

// Resolver selects the text to analyze for a row, falling back to a remote
// fetch when body text is absent but a URL is present.
type Resolver struct {
	fetcher ports.ContentFetcher
	logger  *slog.Logger
}

// NewResolver wires the optional remote fetcher.
func NewResolver(fetcher ports.ContentFetcher, logger *slog.Logger) *Resolver {
	return &Resolver{fetcher: fetcher, logger: logger}
}

// Resolve extracts the recognized fields and picks content in priority order:
// content column, then title column, then a single best-effort fetch of the
// row's URL. It never fails; an empty Content means "insufficient content for
// deep analysis" and callers fall back to the floor score.
func (r *Resolver) Resolve(ctx context.Context, row domain.Row) Resolved {
	res := Resolved{
		Title:        pick(row, titleAliases),
		MediaName:    pick(row, mediaAliases),
		Content:      pick(row, contentAliases),
		Views:        pick(row, viewAliases),
		Interactions: pick(row, interactionAliases),
		URL:          pick(row, urlAliases),
	}

	if res.Content == "" {
		res.Content = res.Title
	}

	if res.Content == "" && r.fetcher != nil && isHTTPURL(res.URL) {
		text, err := r.fetcher.Fetch(ctx, res.URL)
		if err != nil {
			r.debug("content fetch failed", "url", res.URL, "error", err)
		} else {
			res.Content = strings.TrimSpace(text)
		}
	}

	return res
}

func pick(row domain.Row, aliases []string) string {
	for _, alias := range aliases {
		if v := strings.TrimSpace(row[alias]); v != "" {
			return v
		}
	}
	return ""
}

func isHTTPURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

func (r *Resolver) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
