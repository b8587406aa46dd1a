// Package apiclient talks to the weekplan REST API and implements the
// planner's remote port.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/alexanderramin/weekplan/internal/contract"
	"github.com/alexanderramin/weekplan/internal/domain"
)

const DefaultTimeout = 10 * time.Second

type Config struct {
	BaseURL string
	// Timeout bounds each call, retries included.
	Timeout time.Duration
	// MaxRetries applies to connection failures on GET requests only.
	// Writes are sent exactly once.
	MaxRetries int
	// RPS paces outgoing requests. Zero or less disables pacing.
	RPS float64
}

type Client struct {
	cfg      Config
	http     *http.Client
	limiter  *rate.Limiter
	observer Observer

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

func New(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		limiter:  rate.NewLimiter(limit, 1),
		observer: observer,
	}
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized registers fn to run when an authenticated request is
// rejected with 401.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// call sends body as JSON and decodes a 2xx response into out. notFound is
// what a 404 unwraps to.
func (c *Client) call(ctx context.Context, method, path string, body, out any, notFound error) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		payload = data
	}

	var (
		lastErr  error
		status   int
		attempts int
	)
	tries := 1
	if method == http.MethodGet {
		tries += c.cfg.MaxRetries
	}
	for range tries {
		if err := c.limiter.Wait(ctx); err != nil {
			lastErr = err
			break
		}
		attempts++
		status, lastErr = c.doRequest(ctx, method, path, payload, out, notFound)
		if lastErr == nil || !isConnectionError(lastErr) || ctx.Err() != nil {
			break
		}
	}

	err := c.classify(ctx, lastErr, attempts)
	c.observer.OnCallComplete(CallEvent{
		Method:    method,
		Path:      path,
		Status:    status,
		Attempts:  attempts,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *Client) classify(ctx context.Context, err error, attempts int) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if isConnectionError(err) {
		if attempts > 1 {
			return fmt.Errorf("%w: %w: %v", ErrUnavailable, ErrRetryExhausted, err)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload []byte, out any, notFound error) (int, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, rd)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	token := c.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, respBody, notFound)
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			c.unauthorized()
		}
		return resp.StatusCode, apiErr
	}
	if out == nil || len(respBody) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}
	return resp.StatusCode, nil
}

func (c *Client) unauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func newAPIError(status int, body []byte, notFound error) *APIError {
	var payload contract.ErrorResponse
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	e := &APIError{StatusCode: status, Message: msg, Field: payload.Field}
	switch status {
	case http.StatusBadRequest:
		if payload.Field != "" {
			e.cause = &domain.ValidationError{Field: payload.Field, Message: msg}
		}
	case http.StatusUnauthorized:
		e.cause = ErrUnauthorized
	case http.StatusForbidden:
		e.cause = ErrForbidden
	case http.StatusNotFound:
		e.cause = ErrNotFound
		if notFound != nil {
			e.cause = notFound
		}
	case http.StatusConflict:
		e.cause = ErrConflict
	}
	return e
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("HTTP_%d", apiErr.StatusCode)
	default:
		return "UNKNOWN"
	}
}
