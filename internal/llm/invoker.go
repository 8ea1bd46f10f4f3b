package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rahul/wayfarer/internal/observability"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

var (
	// ErrModelUnavailable means at least one candidate was configured but
	// none produced a usable response.
	ErrModelUnavailable = errors.New("all candidate models failed")

	// ErrMalformedResponse means a model answered but the answer did not
	// contain a parseable JSON object.
	ErrMalformedResponse = errors.New("invalid JSON response from model")
)

// Candidate is one named model tried by the client, in priority order.
type Candidate struct {
	Name  string
	Model llms.Model
}

// Client obtains JSON-shaped answers from an ordered list of candidate
// models. The contract for Invoke is:
//
//	(map, nil)  - a candidate answered with a parseable JSON object
//	(nil, nil)  - no candidate is configured at all; callers run their fallback
//	(nil, err)  - candidates exist but none worked (ErrModelUnavailable), or
//	              the answer was not JSON (ErrMalformedResponse)
type Client struct {
	candidates []Candidate
	timeout    time.Duration
	logger     *observability.Logger
	metrics    *observability.Metrics
}

func NewClient(candidates []Candidate, timeout time.Duration, logger *observability.Logger, metrics *observability.Metrics) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		candidates: candidates,
		timeout:    timeout,
		logger:     logger,
		metrics:    metrics,
	}
}

// Candidates returns the configured candidate names in priority order.
func (c *Client) Candidates() []string {
	names := make([]string, 0, len(c.candidates))
	for _, cand := range c.candidates {
		names = append(names, cand.Name)
	}
	return names
}

func (c *Client) Invoke(ctx context.Context, prompt, system string) (map[string]any, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt must not be empty")
	}

	requestID := observability.RequestID(ctx)

	if len(c.candidates) == 0 {
		// Not an error: the explicit "no provider, use fallback" signal.
		c.logger.LogLLMAttempt(requestID, "none", "skipped", "no provider configured")
		return nil, nil
	}

	var lastErr error
	for _, cand := range c.candidates {
		text, err := c.attempt(ctx, cand, prompt, system)
		if err != nil {
			// Rate limits and safety blocks surface here as attempt
			// errors; the next candidate may still succeed.
			lastErr = fmt.Errorf("%s: %w", cand.Name, err)
			c.logger.LogLLMAttempt(requestID, cand.Name, "failed", err.Error())
			c.metrics.ModelAttempts.WithLabelValues(cand.Name, "failure").Inc()
			continue
		}

		c.logger.LogLLMAttempt(requestID, cand.Name, "success", "")
		c.logger.LogLLM(requestID, cand.Name, prompt, text)
		c.metrics.ModelAttempts.WithLabelValues(cand.Name, "success").Inc()

		parsed, err := ExtractJSON(text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cand.Name, err)
		}
		return parsed, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, lastErr)
}

func (c *Client) attempt(ctx context.Context, cand Candidate, prompt, system string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system + "\nRespond in valid JSON only.")},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	resp, err := cand.Model.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", fmt.Errorf("empty response")
	}
	return resp.Choices[0].Content, nil
}
