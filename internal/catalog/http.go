package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"coursedeck/internal/domain"
)

// HTTPClient talks to the catalog service over HTTP with retries
type HTTPClient struct {
	baseURL string
	client  *retryablehttp.Client
	log     zerolog.Logger
}

// HTTPOption configures an HTTPClient
type HTTPOption func(*HTTPClient)

// WithTimeout bounds a single attempt
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		if d > 0 {
			c.client.HTTPClient.Timeout = d
		}
	}
}

// WithRetryMax sets how many times a failed attempt is repeated
func WithRetryMax(n int) HTTPOption {
	return func(c *HTTPClient) {
		if n >= 0 {
			c.client.RetryMax = n
		}
	}
}

// WithRetryWait sets the backoff bounds between attempts
func WithRetryWait(minWait, maxWait time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		c.client.RetryWaitMin = minWait
		c.client.RetryWaitMax = maxWait
	}
}

// WithLogger routes client and retry logs to log
func WithLogger(log zerolog.Logger) HTTPOption {
	return func(c *HTTPClient) {
		c.log = log.With().Str("component", "catalog").Logger()
		c.client.Logger = retryLogger{log: c.log}
	}
}

// NewHTTPClient creates a client for the catalog rooted at baseURL
func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	// hand back the last response so status codes can be classified
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	c := &HTTPClient{
		baseURL: baseURL,
		client:  retryClient,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCourses requests one page. Transport failures are network errors,
// non-2xx statuses and undecodable bodies are server errors. A cancelled ctx
// yields the context error unwrapped.
func (c *HTTPClient) FetchCourses(ctx context.Context, p Params) (Page, error) {
	endpoint, err := url.JoinPath(c.baseURL, "courses")
	if err != nil {
		return Page{}, &Error{Kind: domain.ErrorNetwork, Err: fmt.Errorf("invalid base url: %w", err)}
	}
	endpoint += "?" + p.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Page{}, &Error{Kind: domain.ErrorNetwork, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log := c.log.With().Str("request_id", requestID).Logger()
	log.Debug().Str("url", endpoint).Msg("fetching courses")

	resp, err := c.client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Page{}, ctxErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Page{}, err
		}
		log.Warn().Err(err).Msg("catalog request failed")
		return Page{}, &Error{Kind: domain.ErrorNetwork, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Warn().Int("status", resp.StatusCode).Msg("catalog returned error status")
		return Page{}, &Error{
			Kind:   domain.ErrorServer,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("server returned %s: %s", resp.Status, body),
		}
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Page{}, ctxErr
		}
		return Page{}, &Error{Kind: domain.ErrorServer, Status: resp.StatusCode, Err: fmt.Errorf("failed to parse response JSON: %w", err)}
	}
	if page.Courses == nil {
		page.Courses = []domain.Course{}
	}

	log.Debug().Int("courses", len(page.Courses)).Int("total", page.TotalCourses).Msg("fetched courses")
	return page, nil
}

// retryLogger adapts zerolog to retryablehttp.LeveledLogger
type retryLogger struct {
	log zerolog.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Trace().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}
