package flixpatrol

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/catalog"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

const maxBodyBytes = 4 << 20

// ClientConfig holds the request and resilience settings for FlixPatrol.
type ClientConfig struct {
	UserAgent      string
	Region         string
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	MaxIdleConns   int
	MaxConns       int
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Config     ClientConfig
	// Breakers holds one breaker per platform page so a failing page only
	// trips its own.
	Breakers   map[catalog.Platform]*gobreaker.CircuitBreaker
	Log        *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithCircuitBreakers builds a breaker per platform with newBreaker, named
// "flixpatrol:<slug>".
func WithCircuitBreakers(newBreaker func(name string) *gobreaker.CircuitBreaker) Option {
	return func(c *Client) {
		c.Breakers = make(map[catalog.Platform]*gobreaker.CircuitBreaker, len(catalog.Platforms()))
		for _, p := range catalog.Platforms() {
			c.Breakers[p] = newBreaker("flixpatrol:" + p.String())
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.Log = log }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

func New(baseURL string, cfg ClientConfig, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = "https://flixpatrol.com/top10"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "FlixPatrol India Scraper API/1.0"
	}
	if cfg.Region == "" {
		cfg.Region = "india"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 500 * time.Millisecond
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 10
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 50
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		MaxConnsPerHost:     cfg.MaxConns,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: cfg.Timeout, Transport: transport},
		Config:     cfg,
		Log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// PageURL is the top-10 page for one platform in the configured region.
func (c *Client) PageURL(platform catalog.Platform) string {
	return fmt.Sprintf("%s/%s/%s/", c.BaseURL, platform, c.Config.Region)
}

// FetchSection downloads the platform page and parses the table under section.
// ErrSectionNotFound and ErrNoRows mean the page had nothing to offer; any
// other error is a transport or markup failure.
func (c *Client) FetchSection(ctx context.Context, platform catalog.Platform, section string) ([]model.RawItem, error) {
	u := c.PageURL(platform)
	body, err := c.getWithBreaker(ctx, platform, u)
	if err != nil {
		return nil, err
	}
	items, err := ParseSection(bytes.NewReader(body), section)
	if err != nil {
		c.Log.Warn("section parse failed", zap.String("url", u), zap.String("section", section), zap.Error(err))
		return nil, err
	}
	c.Log.Info("section parsed", zap.String("url", u), zap.String("section", section), zap.Int("items", len(items)))
	return items, nil
}

func (c *Client) getWithBreaker(ctx context.Context, platform catalog.Platform, u string) ([]byte, error) {
	cb := c.Breakers[platform]
	if cb == nil {
		return c.getWithRetry(ctx, u)
	}
	result, err := cb.Execute(func() (interface{}, error) {
		return c.getWithRetry(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Client) getWithRetry(ctx context.Context, u string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.Config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.Config.RetryBaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			c.Log.Debug("retrying request", zap.String("url", u), zap.Int("attempt", attempt), zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		body, err := c.get(ctx, u)
		if err == nil {
			return body, nil
		}
		lastErr = err
		c.Log.Warn("request failed", zap.String("url", u), zap.Int("attempt", attempt), zap.Error(err))
		if !retryable(err) {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Cookie", "_nss=1")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	reader := resp.Body
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	b, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(b[:min(len(b), 200)])}
	}
	return b, nil
}

// StatusError is a non-200 response from FlixPatrol.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("flixpatrol: status %d body=%q", e.Code, e.Body)
}

// BreakerSuccess reports whether err should count as a success for a page
// breaker. Client errors other than 429 and caller cancellation say nothing
// about upstream health.
func BreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 400 && se.Code < 500 && se.Code != http.StatusTooManyRequests
	}
	return false
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return true
}
