package catalog

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

	"github.com/mmcdole/chapternode/internal/domain"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/books/v1"
	defaultTimeout = 15 * time.Second
	userAgent      = "chapternode/1.0"
)

// Client queries the Google Books volumes API. No API key is required.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	mapper     *Mapper
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit paces outgoing requests. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a catalog client. An empty baseURL uses the public endpoint.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		mapper: NewMapper(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Lookup returns extended details for the first volume matching title and author.
// Returns domain.ErrNoMatch when the catalog has no result and
// domain.ErrSourceUnreachable when the request fails.
func (c *Client) Lookup(ctx context.Context, title, author string) (domain.BookMetadata, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("intitle:%s inauthor:%s", title, author))
	query.Set("maxResults", "1")

	body, err := c.doRequest(ctx, "/volumes", query)
	if err != nil {
		return domain.BookMetadata{}, err
	}

	var resp VolumesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("catalog parse error", "error", err, "bodyLen", len(body))
		return domain.BookMetadata{}, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(resp.Items) == 0 {
		c.logger.Debug("catalog lookup found nothing", "title", title, "author", author)
		return domain.BookMetadata{}, domain.ErrNoMatch
	}

	return c.mapper.MapMetadata(resp.Items[0]), nil
}

// doRequest performs a paced GET request
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqURL := c.baseURL + path
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("catalog request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("catalog request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrSourceUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("catalog request error", "status", resp.StatusCode, "body", truncate(string(body), 200))
		return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrSourceUnreachable, resp.StatusCode)
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
