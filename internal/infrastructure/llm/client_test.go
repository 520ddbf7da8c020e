package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dazhuang0717-violet/aiscore/internal/config"
	"github.com/dazhuang0717-violet/aiscore/internal/domain"
)

func newTestClient(endpoint string) (*Client, *[]time.Duration) {
	c := NewClient(config.AIConfig{
		Endpoint: endpoint,
		Model:    "test-model",
		APIKey:   "test-key",
	})

	var slept []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func completionBody(t *testing.T, analysis domain.AIAnalysis) []byte {
	t.Helper()

	content, err := json.Marshal(analysis)
	if err != nil {
		t.Fatalf("marshal analysis: %v", err)
	}
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": string(content)}},
		},
	})
	if err != nil {
		t.Fatalf("marshal completion: %v", err)
	}
	return body
}

func TestScoreRetriesRateLimitWithBackoff(t *testing.T) {
	t.Parallel()

	want := domain.AIAnalysis{
		KMScore:                8,
		AcquisitionScore:       6,
		AudiencePrecisionScore: 7,
		Comment:                "solid coverage",
	}

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write(completionBody(t, want))
	}))
	defer server.Close()

	c, slept := newTestClient(server.URL)

	got, err := c.Score(context.Background(), domain.ScoreRequest{Text: "content"})
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	if got != want {
		t.Fatalf("analysis = %+v, want %+v", got, want)
	}
	if calls != 4 {
		t.Fatalf("expected 4 calls, got %d", calls)
	}

	var total time.Duration
	for _, d := range *slept {
		total += d
	}
	if total < 14*time.Second {
		t.Fatalf("cumulative backoff %v, want >= 14s", total)
	}
	if (*slept)[0] != 2*time.Second || (*slept)[1] != 4*time.Second || (*slept)[2] != 8*time.Second {
		t.Fatalf("backoff schedule = %v, want 2s/4s/8s", *slept)
	}
}

func TestScoreSurfacesRateLimitAfterExhaustion(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c, _ := newTestClient(server.URL)

	_, err := c.Score(context.Background(), domain.ScoreRequest{Text: "content"})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("error = %v, want rate limited", err)
	}
	if calls != 4 {
		t.Fatalf("expected initial call + 3 retries, got %d calls", calls)
	}
}

func TestScoreDoesNotRetryOtherFailures(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c, slept := newTestClient(server.URL)

	_, err := c.Score(context.Background(), domain.ScoreRequest{Text: "content"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("auth failure classified as rate limit: %v", err)
	}
	if calls != 1 {
		t.Fatalf("auth failure retried: %d calls", calls)
	}
	if len(*slept) != 0 {
		t.Fatalf("auth failure slept: %v", *slept)
	}
}

func TestScoreResourceExhaustedBodyIsRateLimited(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error": {"status": "RESOURCE_EXHAUSTED"}}`))
			return
		}
		_, _ = w.Write(completionBody(t, domain.AIAnalysis{Comment: "ok"}))
	}))
	defer server.Close()

	c, _ := newTestClient(server.URL)

	got, err := c.Score(context.Background(), domain.ScoreRequest{Text: "content"})
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	if got.Comment != "ok" {
		t.Fatalf("comment = %q", got.Comment)
	}
	if calls != 2 {
		t.Fatalf("expected retry after resource exhausted, got %d calls", calls)
	}
}

func TestScoreEmptyResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": ""}}]}`))
	}))
	defer server.Close()

	c, slept := newTestClient(server.URL)

	_, err := c.Score(context.Background(), domain.ScoreRequest{Text: "content"})
	if !errors.Is(err, domain.ErrEmptyAIResponse) {
		t.Fatalf("error = %v, want empty response", err)
	}
	if len(*slept) != 0 {
		t.Fatalf("empty response retried")
	}
}

func TestScoreTruncatesLongContent(t *testing.T) {
	t.Parallel()

	var userContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		for _, m := range req.Messages {
			if m.Role == "user" {
				userContent = m.Content
			}
		}
		_, _ = w.Write(completionBody(t, domain.AIAnalysis{Comment: "ok"}))
	}))
	defer server.Close()

	c, _ := newTestClient(server.URL)

	long := strings.Repeat("长", 6000)
	if _, err := c.Score(context.Background(), domain.ScoreRequest{Text: long}); err != nil {
		t.Fatalf("Score error: %v", err)
	}

	if got := len([]rune(userContent)); got != 5000 {
		t.Fatalf("submitted content length %d runes, want 5000", got)
	}
}
