// Package codapi is a minimal client for the Call of Duty stats API.
// It covers device login and the Modern Warfare / Warzone profile lookup,
// with every outbound request passing through a shared token-bucket limiter.
package codapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultProfileURL is the login service.
	DefaultProfileURL = "https://profile.callofduty.com"

	// DefaultStatsURL is the stats service root.
	DefaultStatsURL = "https://my.callofduty.com/api/papi-client"

	userAgent    = "wzbot (+https://github.com/woozymasta/wzbot)"
	maxBodyBytes = 8 << 20

	// maxErrorRunes caps provider error bodies quoted in APIError.
	maxErrorRunes = 200
)

// ErrNotLoggedIn is returned by lookups made before a successful Login.
var ErrNotLoggedIn = errors.New("codapi: not logged in")

// APIError describes a failure reported by the provider, either through the
// HTTP status or through the "status" field of the response envelope.
type APIError struct {
	Op         string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("codapi: %s: %d %s", e.Op, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("codapi: %s: %s", e.Op, e.Message)
}

// Options configure a Client. Zero values fall back to the defaults
// (production URLs, 2 requests/second, burst 2, 30s timeout).
type Options struct {
	ProfileURL string
	StatsURL   string
	RPS        float64
	Burst      int
	Timeout    time.Duration
}

// Client talks to the stats provider. It is safe for concurrent use
// and meant to be shared across all requests for the process lifetime.
type Client struct {
	http       *http.Client
	limiter    *rate.Limiter
	profileURL string
	statsURL   string

	mu      sync.RWMutex
	session *session
}

// session carries the credentials attached to every stats request.
type session struct {
	ssoCookie   string
	accessToken string
	csrfToken   string
}

// New creates a Client. Login must succeed before FetchStats can be used.
func New(opts Options) *Client {
	if opts.ProfileURL == "" {
		opts.ProfileURL = DefaultProfileURL
	}
	if opts.StatsURL == "" {
		opts.StatsURL = DefaultStatsURL
	}
	if opts.RPS <= 0 {
		opts.RPS = 2
	}
	if opts.Burst < 1 {
		opts.Burst = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return &Client{
		http:       &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst),
		profileURL: strings.TrimRight(opts.ProfileURL, "/"),
		statsURL:   strings.TrimRight(opts.StatsURL, "/"),
	}
}

// LoggedIn reports whether Login has completed successfully.
func (c *Client) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.session != nil
}

// envelope is the common wrapper of stats API responses.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// message extracts data.message from an error envelope, if any.
func (e envelope) message() string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	if len(e.Data) > 0 {
		return string(e.Data)
	}

	return "status " + e.Status
}

// do waits for the limiter, executes req and returns the response body.
// Non-2xx statuses are converted into *APIError.
func (c *Client) do(ctx context.Context, op string, req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("codapi: %s: rate limiter: %w", op, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("codapi: %s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("codapi: %s: read body: %w", op, err)
	}

	log.Trace().
		Str("op", op).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("Provider request done")

	if resp.StatusCode/100 != 2 {
		msg := truncate(strings.ToValidUTF8(strings.TrimSpace(string(body)), ""), maxErrorRunes)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	return body, nil
}

// truncate cuts s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	return string([]rune(s)[:n]) + "..."
}

// newJSONRequest builds a request with a JSON encoded body.
func newJSONRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
