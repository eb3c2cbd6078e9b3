package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const DefaultBaseURL = "https://api.apollo.io/api/v1"

const (
	// maxBodyBytes bounds how much of a response we read; Apollo pages are
	// small, anything bigger is an error page.
	maxBodyBytes = 4 << 20

	previewChars = 500
)

type Config struct {
	APIKey        string
	BaseURL       string  // defaults to DefaultBaseURL
	MaxRetries    int     // retries on HTTP 429 before giving up; 0 fails on the first 429
	BackoffFactor float64 // sleep = backoff * 2^(attempt-1) seconds when Retry-After is absent
}

// Client is a thin wrapper around the Apollo REST API. All request state
// (key, headers, retry policy) lives here; there is no package-level session.
type Client struct {
	cfg Config
	hc  *http.Client

	// sleep is swapped out in tests to observe backoff waits.
	sleep func(time.Duration)
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:   cfg,
		hc:    &http.Client{Timeout: 60 * time.Second},
		sleep: time.Sleep,
	}
}

// do issues one API call, retrying only on HTTP 429. Every other failure
// (network error, >=400 status, non-JSON body) surfaces as an *APIError.
func (c *Client) do(ctx context.Context, method, path string, payload any, params url.Values) (map[string]any, error) {
	endpoint := c.cfg.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, &APIError{Err: fmt.Errorf("encode request: %w", err)}
		}
		body = b
	}

	attempt := 0
	for {
		attempt++

		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, &APIError{Err: err}
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("x-api-key", c.cfg.APIKey)

		res, err := c.hc.Do(req)
		if err != nil {
			return nil, &APIError{Err: fmt.Errorf("call apollo api: %w", err)}
		}
		data, readErr := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
		res.Body.Close()
		if readErr != nil {
			return nil, &APIError{Err: fmt.Errorf("read apollo response: %w", readErr)}
		}

		if res.StatusCode == http.StatusTooManyRequests {
			if attempt > c.cfg.MaxRetries {
				return nil, &APIError{
					Status:      res.StatusCode,
					RateLimited: true,
					Detail:      truncate(string(data), previewChars),
				}
			}
			c.sleep(retryDelay(res.Header.Get("Retry-After"), c.cfg.BackoffFactor, attempt))
			continue
		}

		if res.StatusCode >= 400 {
			return nil, &APIError{Status: res.StatusCode, Detail: errorDetail(data)}
		}

		return decodeEnvelope(res, data)
	}
}

// retryDelay honors a numeric Retry-After header (seconds) and otherwise
// falls back to exponential backoff, attempt starting at 1.
func retryDelay(retryAfter string, backoff float64, attempt int) time.Duration {
	if v := strings.TrimSpace(retryAfter); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs >= 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return time.Duration(backoff * math.Exp2(float64(attempt-1)) * float64(time.Second))
}

// errorDetail prefers the provider's error message when the body is a JSON
// payload, otherwise a raw body preview.
func errorDetail(data []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err == nil {
		if msg, ok := payload["error"].(string); ok && strings.TrimSpace(msg) != "" {
			return msg
		}
		if msg, ok := payload["message"].(string); ok && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return truncate(string(data), previewChars)
}

func decodeEnvelope(res *http.Response, data []byte) (map[string]any, error) {
	var env map[string]any
	if err := json.Unmarshal(data, &env); err == nil {
		return env, nil
	}

	ct := res.Header.Get("Content-Type")
	if ct == "" {
		ct = "unknown"
	}
	preview := truncate(strings.TrimSpace(string(data)), previewChars)
	if preview == "" {
		preview = "(empty response)"
	}
	detail := fmt.Sprintf("non-JSON response, content-type %s: %s", ct, preview)
	// Edge/CDN failures come back as HTML; the page title is usually the
	// most useful part of it.
	if title := htmlTitle(data); title != "" {
		detail = fmt.Sprintf("non-JSON response, content-type %s, page title %q: %s", ct, title, preview)
	}
	return nil, &APIError{Status: res.StatusCode, Detail: detail}
}

func htmlTitle(data []byte) string {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if !bytes.Contains(bytes.ToLower(head), []byte("<html")) {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return cleanText(doc.Find("title").First().Text())
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// truncate keeps the first n characters, never splitting a multibyte rune.
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
