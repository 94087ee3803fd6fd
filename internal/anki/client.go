package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ankimcp/ankimcp/internal/log"
)

const (
	// DefaultURL is where the AnkiConnect add-on listens by default.
	DefaultURL = "http://localhost:8765"

	// ProtocolVersion is the AnkiConnect API version sent in every request.
	ProtocolVersion = 6

	// maxAttempts bounds the retry loop for timeout-class failures.
	maxAttempts = 3
)

// Timeouts holds the per-phase budgets applied to every request.
type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
	Write   time.Duration
}

// DefaultTimeouts returns the stock budgets: a short connect timeout so an
// absent Anki is detected quickly, a long read timeout because bulk actions
// like cardsInfo can be slow on large collections.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Connect: 5 * time.Second,
		Read:    120 * time.Second,
		Write:   30 * time.Second,
	}
}

// Config configures a Client. The zero value of every field falls back to a
// sensible default.
type Config struct {
	// URL is the AnkiConnect endpoint. Defaults to DefaultURL.
	URL string

	// Timeouts override DefaultTimeouts when any field is non-zero.
	Timeouts Timeouts

	// RateLimit caps requests per second. Zero disables limiting.
	// AnkiConnect drives a live desktop application, so batch-heavy callers
	// may want to stay polite.
	RateLimit float64

	// Logger receives debug/error logs. Defaults to log.Default().
	Logger log.Logger
}

// Client talks to the AnkiConnect HTTP API. It owns a single http.Client
// shared by all invocations and is safe for concurrent use; per-call state
// lives entirely on the stack of Invoke.
type Client struct {
	url     string
	http    *http.Client
	limiter *rate.Limiter
	logger  log.Logger

	// sleep is the backoff delay between retry attempts, replaceable in
	// tests so timing assertions do not wall-clock wait.
	sleep func(time.Duration)
}

// New creates a Client. A nil config uses all defaults.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}
	timeouts := cfg.Timeouts
	if timeouts == (Timeouts{}) {
		timeouts = DefaultTimeouts()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: timeouts.Connect,
		}).DialContext,
		ResponseHeaderTimeout: timeouts.Read,
	}

	return &Client{
		url: url,
		http: &http.Client{
			Transport: transport,
			// Overall ceiling; the write budget has no dedicated knob in
			// net/http, it is absorbed into the total.
			Timeout: timeouts.Connect + timeouts.Read + timeouts.Write,
		},
		limiter: limiter,
		logger:  logger,
		sleep:   time.Sleep,
	}
}

// Close releases the client's pooled connections. The client must not be
// used after Close.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// URL returns the configured endpoint.
func (c *Client) URL() string { return c.url }

type request struct {
	Action  Action         `json:"action"`
	Version int            `json:"version"`
	Params  map[string]any `json:"params"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// Invoke sends one AnkiConnect request and returns the raw result payload.
//
// Timeout-class transport failures are retried up to maxAttempts total
// attempts with exponential backoff (2^attempt seconds: 1s then 2s); any
// other transport failure fails immediately. An error reported inside the
// response envelope is returned as *APIError and never retried.
func (c *Client) Invoke(ctx context.Context, action Action, params map[string]any) (json.RawMessage, error) {
	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(request{Action: action, Version: ProtocolVersion, Params: params})
	if err != nil {
		return nil, &UnexpectedError{cause: fmt.Errorf("encoding %s request: %w", action, err)}
	}

	c.logger.Debug("invoking anki-connect action", "action", string(action))

	resp, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &TransportError{
			Status: resp.StatusCode,
			cause:  fmt.Errorf("%s: %s", resp.Status, bytes.TrimSpace(raw)),
		}
	}

	var envelope response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &UnexpectedError{cause: fmt.Errorf("decoding %s response: %w", action, err)}
	}
	if envelope.Error != nil && *envelope.Error != "" {
		c.logger.Error("anki-connect reported an error", "action", string(action), "error", *envelope.Error)
		return nil, &APIError{Action: action, Message: *envelope.Error}
	}
	return envelope.Result, nil
}

// post delivers the request body, retrying timeout-class failures.
func (c *Client) post(ctx context.Context, body []byte) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, &UnexpectedError{cause: err}
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return nil, &UnexpectedError{cause: err}
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err == nil {
			return resp, nil
		}
		if !isTimeout(err) {
			return nil, &TransportError{cause: err}
		}

		lastErr = err
		if attempt < maxAttempts-1 {
			delay := time.Duration(1<<attempt) * time.Second
			c.logger.Debug("anki-connect timed out, retrying", "attempt", attempt+1, "delay", delay.String())
			c.sleep(delay)
		}
	}
	return nil, &ConnectionError{URL: c.url, Attempts: maxAttempts, cause: lastErr}
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
