package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dazhuang0717-violet/aiscore/internal/config"
	"github.com/dazhuang0717-violet/aiscore/internal/domain"
	"github.com/dazhuang0717-violet/aiscore/internal/ports"
)

const (
	// Longer documents are silently clipped, not summarized.
	maxContentRunes = 5000

	maxRateLimitRetries = 3
	baseRetryDelay      = 2 * time.Second
)

// Client scores content against the marketing rubric via an OpenAI-compatible
// chat completions API, retrying rate-limited calls with exponential backoff.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client

	// sleep is swapped out in tests to assert backoff timing.
	sleep func(ctx context.Context, d time.Duration) error
}

var _ ports.Scorer = (*Client)(nil)

// NewClient builds a scorer from configuration.
func NewClient(cfg config.AIConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		sleep: sleepContext,
	}
}

// Score submits the truncated content with the rubric prompt and decodes the
// structured result. Rate-limited calls (HTTP 429 or a resource-exhausted
// signal) are retried up to 3 times with doubling delay starting at 2s; any
// other failure class fails immediately.
func (c *Client) Score(ctx context.Context, req domain.ScoreRequest) (domain.AIAnalysis, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.AIAnalysis{}, fmt.Errorf("ai client misconfigured")
	}

	body, err := c.buildRequestBody(req)
	if err != nil {
		return domain.AIAnalysis{}, fmt.Errorf("marshal scoring payload: %w", err)
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		analysis, err := c.call(ctx, body)
		if err == nil {
			return analysis, nil
		}
		if !errors.Is(err, domain.ErrRateLimited) {
			return domain.AIAnalysis{}, err
		}

		lastErr = err
		if attempt >= maxRateLimitRetries {
			return domain.AIAnalysis{}, fmt.Errorf("scoring failed after %d retries: %w", maxRateLimitRetries, lastErr)
		}

		delay := baseRetryDelay << attempt
		if err := c.sleep(ctx, delay); err != nil {
			return domain.AIAnalysis{}, err
		}
	}
}

func (c *Client) call(ctx context.Context, body []byte) (domain.AIAnalysis, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.AIAnalysis{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.AIAnalysis{}, fmt.Errorf("scoring request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.AIAnalysis{}, fmt.Errorf("read scoring response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		detail := strings.TrimSpace(string(payload))
		if isRateLimited(resp.StatusCode, detail) {
			return domain.AIAnalysis{}, fmt.Errorf("%w: %s: %s", domain.ErrRateLimited, resp.Status, detail)
		}
		return domain.AIAnalysis{}, fmt.Errorf("scoring endpoint error %s: %s", resp.Status, detail)
	}

	return decodeAnalysis(payload)
}

func (c *Client) buildRequestBody(req domain.ScoreRequest) ([]byte, error) {
	return json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": rubricPrompt(req)},
			{"role": "user", "content": truncate(req.Text, maxContentRunes)},
		},
		"response_format": map[string]string{"type": "json_object"},
	})
}

func rubricPrompt(req domain.ScoreRequest) string {
	var b strings.Builder
	b.WriteString("You score marketing media content on a 0-10 scale. ")
	b.WriteString("Reply with a JSON object holding exactly these fields: ")
	b.WriteString(`"km_score", "acquisition_score", "audience_precision_score", "comment".`)
	b.WriteString("\nTarget audience: ")
	b.WriteString(audienceLabel(req.Audience))
	if req.KeyMessage != "" {
		b.WriteString("\nKey message: ")
		b.WriteString(req.KeyMessage)
	}
	if req.ProjectDesc != "" {
		b.WriteString("\nProject description: ")
		b.WriteString(req.ProjectDesc)
	}
	if req.MediaName != "" {
		b.WriteString("\nPublishing media: ")
		b.WriteString(req.MediaName)
	}
	return b.String()
}

func audienceLabel(a domain.Audience) string {
	switch a {
	case domain.AudiencePatient:
		return "patients and caregivers"
	case domain.AudienceHCP:
		return "healthcare professionals"
	default:
		return "general public"
	}
}

func decodeAnalysis(payload []byte) (domain.AIAnalysis, error) {
	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(payload, &completion); err != nil {
		return domain.AIAnalysis{}, fmt.Errorf("decode completion: %w", err)
	}

	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return domain.AIAnalysis{}, domain.ErrEmptyAIResponse
	}

	var analysis domain.AIAnalysis
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &analysis); err != nil {
		return domain.AIAnalysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	return analysis, nil
}

func isRateLimited(status int, detail string) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return strings.Contains(strings.ToLower(detail), "resource exhausted") ||
		strings.Contains(detail, "RESOURCE_EXHAUSTED")
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
