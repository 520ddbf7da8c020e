package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/dazhuang0717-violet/aiscore/internal/ports"
)

// ProxyFetcher pulls page text through a content-proxy endpoint templated
// with the target URL. One attempt, no retry; callers treat failure as
// "no content resolved".
type ProxyFetcher struct {
	endpoint string
	client   *http.Client
}

var _ ports.ContentFetcher = (*ProxyFetcher)(nil)

// NewProxyFetcher wires the proxy endpoint; the target URL is appended
// query-escaped.
func NewProxyFetcher(endpoint string) *ProxyFetcher {
	return &ProxyFetcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 20 * time.Second},
	}
}

// Fetch requests the proxied page and extracts readable text.
func (f *ProxyFetcher) Fetch(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.proxyURL(target), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "aiscore/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: unexpected status %s", target, resp.Status)
	}

	pageURL, _ := url.Parse(target)
	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", target, err)
	}

	return strings.TrimSpace(article.TextContent), nil
}

func (f *ProxyFetcher) proxyURL(target string) string {
	if f.endpoint == "" {
		return target
	}
	return f.endpoint + url.QueryEscape(target)
}
