// Package tmdb searches The Movie Database for titles.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

// Result is a single movie or tv search hit. Movies carry Title and
// ReleaseDate, shows carry Name and FirstAirDate.
type Result struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Name          string  `json:"name"`
	OriginalTitle string  `json:"original_title"`
	OriginalName  string  `json:"original_name"`
	ReleaseDate   string  `json:"release_date"`
	FirstAirDate  string  `json:"first_air_date"`
	PosterPath    string  `json:"poster_path"`
	Popularity    float64 `json:"popularity"`
	VoteCount     int     `json:"vote_count"`
}

// Response models the paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	log        *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.cb = cb }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search queries /search/movie or /search/tv and returns the hits as
// catalog candidates in relevance order.
func (c *Client) Search(ctx context.Context, query string, kind model.MediaKind) ([]model.CatalogCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	if kind != model.MediaMovie && kind != model.MediaTV {
		return nil, fmt.Errorf("unsupported media kind %q", kind)
	}

	var (
		resp *Response
		err  error
	)
	if c.cb == nil {
		resp, err = c.search(ctx, query, kind)
	} else {
		var out interface{}
		out, err = c.cb.Execute(func() (interface{}, error) {
			return c.search(ctx, query, kind)
		})
		if err == nil {
			resp = out.(*Response)
		}
	}
	if err != nil {
		return nil, err
	}

	candidates := make([]model.CatalogCandidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		candidates = append(candidates, r.Candidate(kind))
	}
	return candidates, nil
}

func (c *Client) search(ctx context.Context, query string, kind model.MediaKind) (*Response, error) {
	endpoint, err := url.Parse(c.baseURL + "/search/" + string(kind))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	if c.language != "" {
		params.Set("language", c.language)
	}
	params.Set("page", "1")
	params.Set("include_adult", "false")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil, fmt.Errorf("tmdb search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tmdb response: %w", err)
	}
	c.log.Debug("tmdb search",
		zap.String("query", query),
		zap.String("kind", string(kind)),
		zap.Int("results", len(payload.Results)),
		zap.Duration("latency", latency),
	)
	return &payload, nil
}

// Candidate converts a hit into the catalog-neutral shape used by matching.
func (r Result) Candidate(kind model.MediaKind) model.CatalogCandidate {
	title := r.Title
	if title == "" {
		title = r.Name
	}
	original := r.OriginalTitle
	if original == "" {
		original = r.OriginalName
	}
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	return model.CatalogCandidate{
		ID:            r.ID,
		Kind:          kind,
		Title:         title,
		OriginalTitle: original,
		Year:          yearOf(date),
		VoteCount:     r.VoteCount,
		PosterPath:    r.PosterPath,
	}
}

// yearOf reads the year prefix of a YYYY-MM-DD date; 0 when absent.
func yearOf(date string) int {
	head, _, _ := strings.Cut(strings.TrimSpace(date), "-")
	y, err := strconv.Atoi(head)
	if err != nil || y <= 0 {
		return 0
	}
	return y
}
