// Package mymemory looks up translations with the public MyMemory API.
package mymemory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/phrazzld/enlearn/internal/platform/logger"
	"github.com/phrazzld/enlearn/internal/redact"
	"github.com/phrazzld/enlearn/internal/translate"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"
)

// Defaults used when Config leaves a field empty.
const (
	DefaultEndpoint  = "https://api.mymemory.translated.net/get"
	DefaultLangPair  = "auto|zh-TW"
	DefaultUserAgent = "enlearn-vocab-app/1.0"
	DefaultTimeout   = 6 * time.Second
	DefaultRetryBase = 200 * time.Millisecond
	maxResponseBytes = 1 << 20
)

// Config holds the client settings.
type Config struct {
	Endpoint          string
	LangPair          string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables pacing
	Retries           int
	RetryBase         time.Duration
}

// Client implements translate.Translator.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

// Ensure Client implements translate.Translator.
var _ translate.Translator = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the pooled HTTP client. The configured timeout
// is applied to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient returns a Client for cfg.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.LangPair == "" {
		cfg.LangPair = DefaultLangPair
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = DefaultRetryBase
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	c := &Client{
		cfg:     cfg,
		http:    cleanhttp.DefaultPooledClient(),
		limiter: rate.NewLimiter(limit, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Timeout = cfg.Timeout
	return c
}

// Lookup queries MyMemory for word. Transient failures (transport errors,
// 429 and 5xx responses) are retried with exponential backoff.
func (c *Client) Lookup(ctx context.Context, word string) ([]string, error) {
	word = translate.NormalizeWord(word)
	if word == "" {
		return nil, nil
	}

	log := logger.FromContext(ctx)

	backoff := retry.WithMaxRetries(uint64(c.cfg.Retries), retry.NewExponential(c.cfg.RetryBase))

	attempt := 0
	var candidates []string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		result, err := c.fetch(ctx, word)
		if err != nil {
			log.Debug("translation request failed",
				slog.String("word", word),
				slog.Int("attempt", attempt),
				slog.String("error", redact.Error(err)))
			return err
		}
		candidates = result
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", translate.ErrLookupFailed, err)
	}

	return translate.Clean(word, candidates), nil
}

func (c *Client) fetch(ctx context.Context, word string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", word)
	params.Set("langpair", c.cfg.LangPair)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, retry.RetryableError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("failed to read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, retry.RetryableError(fmt.Errorf("unexpected status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return parseResponse(body)
}

// parseResponse extracts candidates from responseData.translatedText followed
// by every matches[].translation. Non-object matches are ignored.
func parseResponse(body []byte) ([]string, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if status, ok := payload["responseStatus"]; ok && status != nil {
		code, err := cast.ToIntE(status)
		if err == nil && code != http.StatusOK {
			details, _ := payload["responseDetails"].(string)
			return nil, fmt.Errorf("provider status %d: %s", code, strings.TrimSpace(details))
		}
	}

	var candidates []string
	if data, ok := payload["responseData"].(map[string]any); ok {
		if text, ok := data["translatedText"].(string); ok {
			candidates = append(candidates, text)
		}
	}

	if matches, ok := payload["matches"].([]any); ok {
		for _, m := range matches {
			match, ok := m.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := match["translation"].(string); ok {
				candidates = append(candidates, text)
			}
		}
	}

	return candidates, nil
}
