package askgames

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 150 * time.Second

// Option configures the Client.
type Option interface {
	apply(*Client)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithHTTPClient supplies a custom HTTP client (proxies, tracing, ...).
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) { c.hc = hc })
}

// WithTimeout bounds one API round-trip. Asking a question involves two
// upstream model calls, so the default is generous.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *Client) { c.hc.Timeout = d })
}

// Client is the askgames API client.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New creates a client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

// APIError is a non-2xx response decoded from the API error body.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("askgames API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// TokenUsage carries approximate token accounting for one answer.
type TokenUsage struct {
	In  int `json:"in"`
	Out int `json:"out"`
}

// Answer is the outcome of one question. A provider-side failure is encoded
// in Err next to a user-safe Answer text, not as a transport error.
type Answer struct {
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	RelevanceScore float64    `json:"relevance_score"`
	Model          string     `json:"model,omitempty"`
	TokenUsage     TokenUsage `json:"token_usage"`
	Err            string     `json:"error,omitempty"`
}

// Game is one catalog entry.
type Game struct {
	Title        string   `json:"title"`
	ShortDesc    string   `json:"short_description,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	Developers   []string `json:"developers,omitempty"`
	Price        float64  `json:"price"`
	IsFree       bool     `json:"is_free"`
	QualityScore float64  `json:"quality_score,omitempty"`
	ReleaseDate  string   `json:"release_date,omitempty"`
}

// Health is the service health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type gamesEnvelope struct {
	Total int    `json:"total"`
	Games []Game `json:"games"`
}

// Ask answers one free-form question about the catalog.
func (c *Client) Ask(ctx context.Context, question string) (Answer, error) {
	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return Answer{}, fmt.Errorf("encode question: %w", err)
	}

	var out Answer
	if err := c.do(ctx, http.MethodPost, "/api/v1/ask", nil, bytes.NewReader(body), &out); err != nil {
		return Answer{}, err
	}
	return out, nil
}

// FreeGames lists free-to-play games.
func (c *Client) FreeGames(ctx context.Context) ([]Game, error) {
	var out gamesEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/v1/games/free", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Games, nil
}

// SimilarGames lists games similar to the one best matching title.
func (c *Client) SimilarGames(ctx context.Context, title string) ([]Game, error) {
	var out gamesEnvelope
	q := url.Values{"title": {title}}
	if err := c.do(ctx, http.MethodGet, "/api/v1/games/similar", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Games, nil
}

// GamesByGenre lists games tagged with the given genre.
func (c *Client) GamesByGenre(ctx context.Context, genre string) ([]Game, error) {
	var out gamesEnvelope
	q := url.Values{"genre": {genre}}
	if err := c.do(ctx, http.MethodGet, "/api/v1/games/by-genre", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Games, nil
}

// GamesReleased lists games released on a day ("2006-01-02") or during a
// whole year ("2006").
func (c *Client) GamesReleased(ctx context.Context, date string) ([]Game, error) {
	var out gamesEnvelope
	q := url.Values{"date": {date}}
	if err := c.do(ctx, http.MethodGet, "/api/v1/games/by-date", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Games, nil
}

// HealthCheck reads the service health report.
func (c *Client) HealthCheck(ctx context.Context) (Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, nil, &out); err != nil {
		return Health{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Code = "unknown"
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
