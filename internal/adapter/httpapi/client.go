package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
)

const defaultRetryAfter = 5 * time.Second

// RateLimitedError reports that a service asked us to back off.
type RateLimitedError struct {
	Service    string
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("%s: too many requests, retry after %s", e.Service, e.RetryAfter)
}

func (e RateLimitedError) Is(target error) bool {
	return target == domainErrors.ErrDependency
}

// Client performs JSON GET requests against one upstream service.
type Client struct {
	service    string
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client for service rooted at baseURL. Every request is bounded by timeout.
func New(service, baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s url: %w", service, err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("%s url must be absolute", service)
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		service: service,
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Service returns the upstream name used in errors and logs.
func (c *Client) Service() string {
	return c.service
}

// GetJSON decodes the response of GET base/elems...?query into dst.
// Each elem is a single escaped path segment; "", "." and ".." are rejected with ErrNotFound.
// 404 maps to ErrNotFound; transport failures, timeouts and other statuses map to ErrDependencyUnavailable.
func (c *Client) GetJSON(ctx context.Context, query url.Values, dst any, elems ...string) error {
	endpoint := *c.baseURL
	if err := joinSegments(&endpoint, elems); err != nil {
		return fmt.Errorf("%w: %s: %v", domainErrors.ErrNotFound, c.service, err)
	}
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domainErrors.ErrDependencyUnavailable, c.service, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: %s: read body: %v", domainErrors.ErrDependencyUnavailable, c.service, err)
		}
		if err := json.Unmarshal(body, dst); err != nil {
			return fmt.Errorf("%w: %s: decode body: %v", domainErrors.ErrDependencyUnavailable, c.service, err)
		}
		return nil
	case http.StatusNotFound:
		return domainErrors.ErrNotFound
	case http.StatusTooManyRequests:
		return RateLimitedError{Service: c.service, RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("upstream request failed",
			slog.String("service", c.service),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return fmt.Errorf("%w: %s: %s", domainErrors.ErrDependencyUnavailable, c.service, resp.Status)
	}
}

func joinSegments(endpoint *url.URL, elems []string) error {
	escaped := make([]string, 0, len(elems))
	for _, elem := range elems {
		switch elem {
		case "", ".", "..":
			return fmt.Errorf("invalid path segment %q", elem)
		}
		escaped = append(escaped, url.PathEscape(elem))
	}
	raw := strings.TrimRight(endpoint.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return err
	}
	endpoint.Path = unescaped
	endpoint.RawPath = raw
	return nil
}

// IsRateLimited reports whether err carries a back-off request.
func IsRateLimited(err error) (time.Duration, bool) {
	var rl RateLimitedError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return defaultRetryAfter
}
