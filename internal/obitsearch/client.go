package obitsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"obitcheck/internal/logging"
)

const (
	defaultHTTPTimeout   = 30 * time.Second
	defaultMaxAttempts   = 3
	defaultRateLimitBase = 30 * time.Second
	defaultTransientWait = 5 * time.Second
)

// ErrBlocked indicates the remote side has flagged the session as automated
// (HTTP 403 or a challenge page). It is terminal: the whole run is
// compromised, not just one request.
var ErrBlocked = errors.New("obitsearch: session blocked")

// ErrRateLimited indicates 429 responses persisted through every backoff
// attempt. It is terminal for the run.
var ErrRateLimited = errors.New("obitsearch: rate limited after retries")

// Config captures the runtime settings required to query the search endpoint.
type Config struct {
	BaseURL        string
	CountryID      int
	RegionID       int
	StartDate      string
	EndDate        string
	Limit          int
	NoticeType     string
	UserAgent      string
	Referer        string
	TimeoutSeconds int

	MaxAttempts   int
	RateLimitBase time.Duration
	TransientWait time.Duration
	JitterMin     time.Duration
	JitterMax     time.Duration
}

// Client issues obituary search queries with pacing and retry.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	sleeper    func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLimiter installs a token-bucket limiter shared across workers.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithLogger attaches a logger for retry and pacing events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "obitsearch")
	}
}

// WithSleeper overrides how backoff sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a search client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RateLimitBase <= 0 {
		cfg.RateLimitBase = defaultRateLimitBase
	}
	if cfg.TransientWait <= 0 {
		cfg.TransientWait = defaultTransientWait
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client
}

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("search request: http %d: %s", e.Code, strings.TrimSpace(e.Body))
}

// Search queries the endpoint for one candidate. It returns a populated
// Result, a fail-open empty Result after exhausted generic retries, or a
// terminal error (ErrBlocked, ErrRateLimited) the caller must treat as fatal
// to the run.
func (c *Client) Search(ctx context.Context, firstName, lastName string) (Result, error) {
	var zero Result
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return zero, errors.New("obitsearch: first and last name required")
	}

	if err := c.jitterDelay(ctx); err != nil {
		return zero, err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return zero, err
		}
	}

	endpoint := c.searchURL(firstName, lastName)
	attempts := c.cfg.MaxAttempts
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		result, err := c.searchOnce(ctx, endpoint)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrBlocked) {
			return zero, fmt.Errorf("%s %s: %w", firstName, lastName, err)
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		lastErr = err

		var statusErr *statusError
		rateLimited := errors.As(err, &statusErr) && statusErr.Code == http.StatusTooManyRequests

		if attempt == attempts-1 {
			break
		}
		var wait time.Duration
		if rateLimited {
			wait = c.cfg.RateLimitBase * (1 << attempt)
			c.logger.Warn("rate limited, backing off",
				logging.String("candidate", firstName+" "+lastName),
				logging.Duration("wait", wait),
				logging.Int("attempt", attempt+1))
		} else {
			wait = c.cfg.TransientWait
			c.logger.Debug("transient search failure, retrying",
				logging.String("candidate", firstName+" "+lastName),
				logging.Duration("wait", wait),
				logging.Int("attempt", attempt+1),
				logging.Error(err))
		}
		if err := c.sleep(ctx, wait); err != nil {
			return zero, err
		}
	}

	var statusErr *statusError
	if errors.As(lastErr, &statusErr) && statusErr.Code == http.StatusTooManyRequests {
		return zero, fmt.Errorf("%s %s: %w", firstName, lastName, ErrRateLimited)
	}

	// Ordinary HTTP hiccups degrade to "nothing found" so one flaky request
	// cannot abort a long run.
	c.logger.Warn("search failed open after retries",
		logging.String("candidate", firstName+" "+lastName),
		logging.Error(lastErr))
	return Result{FailedOpen: true}, nil
}

func (c *Client) searchOnce(ctx context.Context, endpoint string) (Result, error) {
	var zero Result
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return zero, fmt.Errorf("search request: new request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.Referer != "" {
		req.Header.Set("Referer", c.cfg.Referer)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return zero, fmt.Errorf("http 403: %w", ErrBlocked)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("search request: read body: %w", err)
	}
	if strings.Contains(strings.ToLower(string(body)), "captcha") {
		return zero, fmt.Errorf("challenge page detected: %w", ErrBlocked)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return zero, &statusError{Code: resp.StatusCode, Body: snippet(body)}
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return zero, fmt.Errorf("decode search response: %w", err)
	}
	entries := make([]Entry, 0, len(parsed.SearchResults))
	for _, result := range parsed.SearchResults {
		entries = append(entries, result.entry())
	}
	return Result{TotalRecordCount: parsed.TotalRecordCount, Entries: entries}, nil
}

func (c *Client) searchURL(firstName, lastName string) string {
	values := url.Values{}
	values.Set("countryIdList", strconv.Itoa(c.cfg.CountryID))
	values.Set("regionIdList", strconv.Itoa(c.cfg.RegionID))
	values.Set("firstName", firstName)
	values.Set("lastName", lastName)
	values.Set("keyword", "")
	values.Set("limit", strconv.Itoa(c.cfg.Limit))
	values.Set("noticeType", c.cfg.NoticeType)
	values.Set("session_id", "")
	values.Set("startDate", c.cfg.StartDate)
	values.Set("endDate", c.cfg.EndDate)
	return c.cfg.BaseURL + "?" + values.Encode()
}

// jitterDelay waits a uniformly random duration within the configured range
// so concurrent workers do not burst in lockstep.
func (c *Client) jitterDelay(ctx context.Context) error {
	if c.cfg.JitterMax <= 0 {
		return nil
	}
	delay := c.cfg.JitterMin
	if span := c.cfg.JitterMax - c.cfg.JitterMin; span > 0 {
		delay += time.Duration(rand.Int64N(int64(span)))
	}
	return c.sleep(ctx, delay)
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func snippet(body []byte) string {
	const max = 200
	text := strings.TrimSpace(string(body))
	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}
