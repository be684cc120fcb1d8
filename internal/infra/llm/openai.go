// Package llm talks to an OpenAI-compatible chat completions endpoint
// (Groq by default) to turn job notes and a photo into a raw quote answer.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"handwerk-hero/go_backend/internal/domain/quote"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai"
	DefaultModel   = "meta-llama/llama-4-scout-17b-16e-instruct"
	DefaultTimeout = 90 * time.Second
)

var ErrUpstream = errors.New("model service failed")

// RateLimitError is returned when the service answers 429.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("model service rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() []error {
	return []error{ErrUpstream, e.Err}
}

type Options struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type Client struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	timeout   time.Duration
	HTTP      *http.Client
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		apiKey:    opts.APIKey,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		timeout:   opts.Timeout,
		HTTP:      &http.Client{Timeout: opts.Timeout},
	}
}

func (c *Client) Model() string { return c.model }

// HasCredential reports whether a key is configured server-side.
func (c *Client) HasCredential() bool { return c.apiKey != "" }

// Estimate sends the prompt and optional photo in one request and returns the
// model's raw text. apiKey overrides the configured key when not empty.
func (c *Client) Estimate(ctx context.Context, apiKey, prompt string, img *Image) (string, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		key = c.apiKey
	}
	if key == "" {
		return "", quote.ErrMissingCredential
	}

	parts := []contentPart{{Type: "text", Text: prompt}}
	if img != nil {
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: img.DataURI()}})
	}
	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: parts}},
		MaxTokens:   c.maxTokens,
		Temperature: 0,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Printf("llm: request failed model=%s took=%s err=%v", c.model, time.Since(start), err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Printf("llm: status=%d model=%s body=%s", resp.StatusCode, c.model, strings.TrimSpace(string(msg)))
		statusErr := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", &RateLimitError{RetryAfter: retryAfter(resp.Header.Get("Retry-After")), Err: statusErr}
		}
		return "", fmt.Errorf("%w: %v", ErrUpstream, statusErr)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUpstream)
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty content (finish_reason=%s)", ErrUpstream, out.Choices[0].FinishReason)
	}
	log.Printf("llm: ok model=%s image=%v took=%s len=%d", c.model, img != nil, time.Since(start), len(content))
	return content, nil
}

func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		secs = 60
	}
	return time.Duration(secs) * time.Second
}
