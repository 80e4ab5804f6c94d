// Package enrichment asks a Perplexity-compatible chat completion API to
// describe a URL and turns the answer into ProductInfo.
package enrichment

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

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured    = errors.New("completion API key not configured")
	ErrNoContent        = errors.New("completion response has no message content")
	ErrMalformedContent = errors.New("completion content is not a product info object")
)

// StatusError is returned when the completion API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion API returned status %d: %s", e.StatusCode, e.Body)
}

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds the single outbound call.
	Timeout time.Duration
}

// Client talks to the completion API. It makes exactly one request per
// lookup: no retries and no caching.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewClient creates a client. A zero Timeout means 30 seconds.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.perplexity.ai"
	}
	model := cfg.Model
	if model == "" {
		model = "sonar-pro"
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(),
		logger:     logger,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Fetch asks the completion API to describe url.
func (c *Client) Fetch(ctx context.Context, url string) (*ProductInfo, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(url)},
		},
		Temperature:    0.2,
		ResponseFormat: productInfoFormat(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("completion API responded",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, ErrNoContent
	}

	info, err := decodeContent(result.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if err := c.validate.Struct(info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}
	return info, nil
}

// decodeContent accepts the message content either as an embedded object or
// as a string containing the JSON object.
func decodeContent(raw json.RawMessage) (*ProductInfo, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrNoContent
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, ErrNoContent
		}
		raw = json.RawMessage(s)
	}

	var info ProductInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}
	return &info, nil
}

// Lookup is Fetch with every failure logged and collapsed to nil, for
// callers that treat enrichment as best-effort.
func (c *Client) Lookup(ctx context.Context, url string) *ProductInfo {
	info, err := c.Fetch(ctx, url)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			c.logger.Error("enrichment unavailable: PERPLEXITY_API_KEY is not set", zap.String("url", url))
		} else {
			c.logger.Warn("enrichment failed", zap.String("url", url), zap.Error(err))
		}
		return nil
	}
	c.logger.Info("enrichment succeeded", zap.String("url", url), zap.String("title", info.Title), zap.Strings("tags", info.Tags))
	return info
}
