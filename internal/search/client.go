// Package search talks to the bibliographic search backend.
package search

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

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"zotsearch/internal/biblio"
	"zotsearch/internal/config"
	"zotsearch/internal/metrics"
)

// SearchPath is the backend endpoint queries are posted to.
const SearchPath = "/_api/search"

// DefaultTimeout applies when no HTTP client or timeout is configured.
const DefaultTimeout = 10 * time.Second

// Searcher runs one query against the backend.
type Searcher interface {
	Search(ctx context.Context, q biblio.Query) (*biblio.SearchResponse, error)
}

// Client is the HTTP implementation of Searcher.
type Client struct {
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	validate bool
	log      *logrus.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRateLimit caps outgoing searches at perSecond; 0 disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithSchemaValidation checks every response body against the bundled schema.
func WithSchemaValidation(on bool) Option {
	return func(c *Client) { c.validate = on }
}

// WithLogger sets the logger used for request/response debug output.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient returns a client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(DefaultTimeout),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromConfig builds a client from the backend section.
func FromConfig(cfg config.BackendConfig, log *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewClient(cfg.BaseURL,
		WithHTTPClient(newHTTPClient(timeout)),
		WithRateLimit(cfg.RateLimit),
		WithSchemaValidation(cfg.ValidateResponse),
		WithLogger(log),
	)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		MaxIdleConns:      100,
		IdleConnTimeout:   90 * time.Second,
		ForceAttemptHTTP2: true,
	}
	return &http.Client{Transport: t, Timeout: timeout}
}

// URL returns the search endpoint.
func (c *Client) URL() string {
	return c.baseURL + SearchPath
}

// Search posts q to the backend and decodes the result list. Failures are
// not retried.
func (c *Client) Search(ctx context.Context, q biblio.Query) (*biblio.SearchResponse, error) {
	start := time.Now()
	resp, outcome, err := c.search(ctx, q.Normalize())
	if errors.Is(err, context.Canceled) {
		outcome = metrics.OutcomeSuperseded
	}
	metrics.BackendSearchesTotal.WithLabelValues(outcome).Inc()
	metrics.BackendSearchDuration.Observe(time.Since(start).Seconds())
	return resp, err
}

func (c *Client) search(ctx context.Context, q biblio.Query) (*biblio.SearchResponse, string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, metrics.OutcomeTransport, fmt.Errorf("rate limit: %w", err)
		}
	}

	buf, err := json.Marshal(q)
	if err != nil {
		return nil, metrics.OutcomeTransport, fmt.Errorf("marshal query: %w", err)
	}

	if c.log.IsLevelEnabled(logrus.DebugLevel) {
		c.log.WithFields(logrus.Fields{"url": c.URL(), "q": q.Q}).Debug("backend.request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(buf))
	if err != nil {
		return nil, metrics.OutcomeTransport, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, metrics.OutcomeTransport, fmt.Errorf("backend do: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, metrics.OutcomeTransport, fmt.Errorf("read response: %w", err)
	}

	if c.log.IsLevelEnabled(logrus.DebugLevel) {
		c.log.WithFields(logrus.Fields{
			"status": res.StatusCode,
			"bytes":  len(data),
		}).Debug("backend.response")
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body := data
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, metrics.OutcomeStatus, &StatusError{StatusCode: res.StatusCode, Body: string(body)}
	}

	if c.validate {
		if err := ValidateResponse(data); err != nil {
			return nil, metrics.OutcomeContract, err
		}
	}

	var out biblio.SearchResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, metrics.OutcomeDecode, fmt.Errorf("%w: decode: %v", ErrContract, err)
	}
	return &out, metrics.OutcomeOK, nil
}
