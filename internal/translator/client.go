// Package translator is the client for the external natural-language to
// SQL translation service, spoken over the OpenAI chat completions API.
package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stwalsh4118/hearth/internal/logger"
	"github.com/stwalsh4118/hearth/internal/metrics"
)

// MaxSuggestions caps the number of suggestions returned by Suggest.
const MaxSuggestions = 5

var (
	// ErrServiceUnavailable is returned when the service is not configured,
	// unreachable, or failing on its side.
	ErrServiceUnavailable = errors.New("translation service unavailable")
	// ErrTranslationFailed is returned when the service answered but could
	// not produce a usable statement.
	ErrTranslationFailed = errors.New("translation failed")
)

// Config holds the translation client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *logger.Logger
}

// Client talks to the translation service. A Client built without an API
// key is valid but never available.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     *logger.Logger
}

// New creates a translation client.
func New(cfg Config) *Client {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	c := &Client{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		log:     log.WithComponent("translator"),
	}
	if cfg.APIKey == "" {
		return c
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	c.client = openai.NewClientWithConfig(clientCfg)
	return c
}

// Available reports whether the client was configured with credentials.
func (c *Client) Available() bool {
	return c != nil && c.client != nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// translation is the reply contract of TranslateToSQL.
type translation struct {
	Success bool   `json:"success"`
	SQL     string `json:"sql"`
	Error   string `json:"error"`
}

// TranslateToSQL asks the service for a SQL statement answering query. The
// statement is returned as produced and must be vetted before execution.
func (c *Client) TranslateToSQL(ctx context.Context, query string) (string, error) {
	content, err := c.complete(ctx, "translate", schemaPrompt, query)
	if err != nil {
		return "", err
	}

	sql, err := parseTranslation(content)
	if err != nil {
		c.log.Warn("Translation rejected", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return "", err
	}
	return sql, nil
}

// Suggest asks the service for completions of a partial search phrase.
func (c *Client) Suggest(ctx context.Context, partial string) ([]string, error) {
	content, err := c.complete(ctx, "suggest", suggestPrompt, partial)
	if err != nil {
		return nil, err
	}

	var reply struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &reply); err != nil {
		return nil, fmt.Errorf("%w: malformed suggestions reply", ErrTranslationFailed)
	}

	return cleanSuggestions(reply.Suggestions), nil
}

// complete runs one chat completion in JSON mode and returns the message
// content.
func (c *Client) complete(ctx context.Context, operation, system, user string) (string, error) {
	if !c.Available() {
		return "", ErrServiceUnavailable
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.TranslationRequestsTotal.WithLabelValues(operation, c.model, "error").Inc()
		wrapped := parseAPIError(err)
		c.log.Error("Translation request failed", err, map[string]interface{}{
			"operation":   operation,
			"duration_ms": duration.Milliseconds(),
		})
		return "", wrapped
	}

	metrics.TranslationRequestDuration.WithLabelValues(operation, c.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.TranslationTokensTotal.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.TranslationTokensTotal.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.TranslationRequestsTotal.WithLabelValues(operation, c.model, "empty").Inc()
		return "", fmt.Errorf("%w: empty reply", ErrTranslationFailed)
	}

	metrics.TranslationRequestsTotal.WithLabelValues(operation, c.model, "success").Inc()
	c.log.Debug("Translation request completed", map[string]interface{}{
		"operation":   operation,
		"duration_ms": duration.Milliseconds(),
		"tokens":      resp.Usage.TotalTokens,
	})
	return resp.Choices[0].Message.Content, nil
}

// parseTranslation accepts the JSON reply contract, and tolerates a bare
// or fenced statement from models that ignore JSON mode.
func parseTranslation(content string) (string, error) {
	body := stripCodeFence(content)

	if strings.HasPrefix(body, "{") {
		var t translation
		if err := json.Unmarshal([]byte(body), &t); err != nil {
			return "", fmt.Errorf("%w: malformed reply", ErrTranslationFailed)
		}
		if !t.Success {
			reason := strings.TrimSpace(t.Error)
			if reason == "" {
				reason = "query could not be translated"
			}
			return "", fmt.Errorf("%w: %s", ErrTranslationFailed, reason)
		}
		sql := strings.TrimSpace(t.SQL)
		if sql == "" {
			return "", fmt.Errorf("%w: reply carried no statement", ErrTranslationFailed)
		}
		return sql, nil
	}

	lower := strings.ToLower(body)
	if strings.HasPrefix(lower, "select") || strings.HasPrefix(lower, "with") {
		return body, nil
	}
	return "", fmt.Errorf("%w: reply is not a statement", ErrTranslationFailed)
}

// stripCodeFence removes a surrounding markdown code fence, with or
// without a language tag.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func cleanSuggestions(raw []string) []string {
	out := make([]string, 0, MaxSuggestions)
	seen := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

// parseAPIError maps client errors onto the package sentinels. Server-side
// failures, throttling, auth problems and timeouts make the service
// unavailable; other rejections of the request are translation failures.
func parseAPIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("translation request timed out: %w", ErrServiceUnavailable)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("translation API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, classify(apiErr.HTTPStatusCode))
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("translation API error %d: %w",
			reqErr.HTTPStatusCode, classify(reqErr.HTTPStatusCode))
	}

	return fmt.Errorf("translation request failed: %w", ErrServiceUnavailable)
}

func classify(status int) error {
	switch {
	case status >= http.StatusInternalServerError,
		status == http.StatusTooManyRequests,
		status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		status == 0:
		return ErrServiceUnavailable
	default:
		return ErrTranslationFailed
	}
}
