// Package upstream implements the outbound JSON GET client shared by the
// country, places, and summary integrations.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/JakeFAU/travelhub/internal/logging"
	"github.com/JakeFAU/travelhub/internal/telemetry"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20
	errorBodyBytes = 512
)

// Waiter gates outbound calls, typically a ratelimit.Limiter.
type Waiter interface {
	Wait(ctx context.Context, service string) error
}

// Config controls client behavior.
type Config struct {
	// Service labels metrics, logs, and the rate limit bucket.
	Service   string
	Timeout   time.Duration
	UserAgent string
	Limiter   Waiter
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client issues GET requests against a single upstream service.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Service    string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %s", e.Service, e.Status)
}

// New builds a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: logging.OrNop(logger).With(zap.String("service", cfg.Service)),
	}
}

// Service returns the upstream label.
func (c *Client) Service() string {
	return c.cfg.Service
}

// Get fetches rawURL and returns the body of a 2xx response. Non-2xx
// responses yield a *StatusError carrying a truncated body.
func (c *Client) Get(ctx context.Context, rawURL string) (_ []byte, err error) {
	redacted := Redact(rawURL)
	ctx, span := telemetry.StartClientSpan(ctx, c.cfg.Service+" GET",
		attribute.String("http.request.method", http.MethodGet),
		attribute.String("url.full", redacted),
		attribute.String("travelhub.upstream", c.cfg.Service))
	defer func() { telemetry.EndSpan(span, err) }()

	if c.cfg.Limiter != nil {
		if err := c.cfg.Limiter.Wait(ctx, c.cfg.Service); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	telemetry.InjectHeaders(ctx, req.Header)

	c.logger.Debug("upstream request", zap.String("url", redacted))
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		telemetry.ObserveUpstream(c.cfg.Service, "error", time.Since(start))
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug("close response body", zap.Error(cerr))
		}
	}()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	telemetry.ObserveUpstream(c.cfg.Service, telemetry.StatusOutcome(resp.StatusCode), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Service:    c.cfg.Service,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       logging.Truncate(body, errorBodyBytes),
		}
	}
	return body, nil
}

// StatusCode extracts the upstream status from err, or 0 when err is not a StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Redact masks credentials in query strings before a URL is logged.
func Redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	for _, key := range []string{"apiKey", "api_key", "key"} {
		if q.Has(key) {
			q.Set(key, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
