package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsbridge/zpa-adapter/internal/metrics"
)

var customerSegment = regexp.MustCompile(`(/customers/)[^/]+`)

// endpointLabel normalizes a request path for use as a metrics label:
// the per-tenant customer ID segment is collapsed so label cardinality
// stays bounded.
func endpointLabel(path string) string {
	return customerSegment.ReplaceAllString(path, "${1}{customerId}")
}

// Executor handles single-attempt HTTP execution with JSON decoding.
// Failed calls are surfaced immediately; there is no retry or backoff.
type Executor struct {
	logger           *zap.Logger
	http             *http.Client
	tag              string
	errorHandler     func(status int, body []byte) error
	transportHandler func(op string, err error) error
}

// New creates an Executor. errorHandler is called on non-2xx responses to
// produce an API-specific error; transportHandler is called on network-level
// failures. If either is nil, a default error is returned.
func New(
	logger *zap.Logger,
	httpClient *http.Client,
	tag string,
	errorHandler func(status int, body []byte) error,
	transportHandler func(op string, err error) error,
) *Executor {
	return &Executor{
		logger:           logger,
		http:             httpClient,
		tag:              tag,
		errorHandler:     errorHandler,
		transportHandler: transportHandler,
	}
}

// Do executes req once and returns the status code and raw body.
// Non-2xx statuses are mapped through errorHandler; network failures through
// transportHandler. Each outgoing request carries an X-Request-Id for
// correlation with upstream logs.
func (e *Executor) Do(ctx context.Context, req *http.Request) (int, []byte, error) {
	req = req.WithContext(ctx)
	if req.Header.Get("X-Request-Id") == "" {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}

	start := time.Now()
	resp, err := e.http.Do(req)
	if err != nil {
		e.logger.Warn(e.tag+".http_failed",
			zap.String("url", req.URL.String()),
			zap.Error(err))
		metrics.IncAPIRequest(endpointLabel(req.URL.Path), req.Method, "transport_error")
		if e.transportHandler != nil {
			return 0, nil, e.transportHandler(req.Method+" "+req.URL.Path, err)
		}
		return 0, nil, fmt.Errorf("%s request failed: %w", e.tag, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		metrics.IncAPIRequest(endpointLabel(req.URL.Path), req.Method, "transport_error")
		if e.transportHandler != nil {
			return 0, nil, e.transportHandler("read response body", readErr)
		}
		return 0, nil, fmt.Errorf("%s read body: %w", e.tag, readErr)
	}
	elapsed := time.Since(start)

	metrics.IncAPIRequest(endpointLabel(req.URL.Path), req.Method, strconv.Itoa(resp.StatusCode))
	metrics.ObserveAPIRequestDuration(endpointLabel(req.URL.Path), req.Method, elapsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.Warn(e.tag+".api_error",
			zap.Int("status", resp.StatusCode),
			zap.String("url", req.URL.String()),
			zap.String("body", string(body)),
			zap.Duration("latency", elapsed))
		if e.errorHandler != nil {
			return resp.StatusCode, body, e.errorHandler(resp.StatusCode, body)
		}
		return resp.StatusCode, body, fmt.Errorf("%s returned %d", e.tag, resp.StatusCode)
	}

	e.logger.Debug(e.tag+".http_success",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed))

	return resp.StatusCode, body, nil
}

// DoJSON executes req once, then JSON-decodes the response into out.
func (e *Executor) DoJSON(ctx context.Context, req *http.Request, out any) error {
	_, body, err := e.Do(ctx, req)
	if err != nil {
		return err
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			e.logger.Warn(e.tag+".decode_failed",
				zap.Error(err),
				zap.String("url", req.URL.String()),
				zap.String("body", string(body)))
			return fmt.Errorf("decode failed: %w", err)
		}
	}
	return nil
}
