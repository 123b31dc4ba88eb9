package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"
	"github.com/thesavant42/gitsome-search/internal/models"
	"github.com/tidwall/gjson"
)

const (
	userAgent    = "gitsome-search/1.0"
	apiVersion   = "2022-11-28"
	breakerName  = "github-search"
	maxErrorBody = 512
)

// StatusError is returned when the search endpoint answers with a non-200 status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, e.Body)
}

// Client is a GitHub repository search client
type Client struct {
	httpClient *http.Client
	token      string // Optional: for authenticated requests (higher rate limits)
	logger     *log.Logger
	breaker    *gobreaker.CircuitBreaker
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (30 second timeout)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger enables request logging
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBreaker overrides the circuit breaker settings
func WithBreaker(cfg BreakerConfig) Option {
	return func(c *Client) {
		c.breaker = newBreaker(cfg, c)
	}
}

// NewClient creates a new GitHub API client with a 30 second timeout
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		token: token,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = newBreaker(DefaultBreakerConfig(), c)
	}
	return c
}

// SetToken sets the token used for subsequent requests.
// Not safe to call while a search is running.
func (c *Client) SetToken(token string) {
	c.token = token
}

// SearchRepositories fetches the first page of results for a canonical search URL
// built by BuildSearchRequest. A response without an items list yields an empty
// slice, not an error.
func (c *Client) SearchRepositories(ctx context.Context, searchURL string) ([]models.RepoSummary, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchSearchPage(ctx, searchURL)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.RepoSummary), nil
}

// fetchSearchPage performs the GET and decodes the items list
func (c *Client) fetchSearchPage(ctx context.Context, searchURL string) ([]models.RepoSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to create request", "url", searchURL, "error", err)
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if c.logger != nil {
		c.logger.Info("GET", "endpoint", searchURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Request failed", "url", searchURL, "error", err)
		}
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}
	defer resp.Body.Close()

	// Log rate limit info
	if c.logger != nil {
		remaining := resp.Header.Get("X-RateLimit-Remaining")
		reset := resp.Header.Get("X-RateLimit-Reset")
		c.logger.Debug("Rate limit", "remaining", remaining, "reset", reset, "status", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to read response", "url", searchURL, "error", err)
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		if c.logger != nil {
			c.logger.Error("API error", "status", resp.StatusCode, "response", snippet)
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}

	repos := ParseSearchItems(body)
	if c.logger != nil {
		c.logger.Debug("Search results", "count", len(repos))
	}
	return repos, nil
}

// ParseSearchItems extracts repository summaries from a search response body.
// Malformed JSON, a missing items array, or missing fields degrade to zero values.
func ParseSearchItems(body []byte) []models.RepoSummary {
	repos := make([]models.RepoSummary, 0)
	if !gjson.ValidBytes(body) {
		return repos
	}

	items := gjson.GetBytes(body, "items")
	if !items.IsArray() {
		return repos
	}

	items.ForEach(func(_, item gjson.Result) bool {
		repos = append(repos, models.RepoSummary{
			ID:              item.Get("id").Int(),
			FullName:        item.Get("full_name").String(),
			HTMLURL:         item.Get("html_url").String(),
			StargazersCount: int(item.Get("stargazers_count").Int()),
			ForksCount:      int(item.Get("forks_count").Int()),
		})
		return true
	})

	return repos
}
