package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/gitsome-search/internal/api"
	"github.com/thesavant42/gitsome-search/internal/models"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrFetchFailed wraps every failed remote search (non-200 status, network error, open breaker)
	ErrFetchFailed = errors.New("failed to fetch repositories")

	// ErrInvalidFilters is returned in strict mode for non-numeric star or fork minimums
	ErrInvalidFilters = errors.New("invalid filters")

	// ErrInvalidSort is returned for unknown sort columns or directions
	ErrInvalidSort = errors.New("invalid sort")
)

// Searcher runs a canonical search URL against the remote index
type Searcher interface {
	SearchRepositories(ctx context.Context, searchURL string) ([]models.RepoSummary, error)
}

// History is the part of the history store a Session needs
type History interface {
	FindByURL(url string) (models.SearchRecord, bool)
	FindByQueryAndFilters(query string, filters models.Filters) (models.SearchRecord, bool)
	Append(record models.SearchRecord) error
}

// Options configures a Session
type Options struct {
	BaseURL       string // search API base, defaults to api.DefaultBaseURL
	StrictFilters bool   // reject non-numeric MinStars/MinForks before searching
	ExactCache    bool   // match history on the full URL, so a new sort is fetched
	Logger        *log.Logger
	Now           func() time.Time
}

// Result is the outcome of one Execute call
type Result struct {
	Repos      []models.RepoSummary
	URL        string
	Sort       models.SortState
	FromCache  bool
	Skipped    bool   // empty query, nothing was done
	Generation uint64 // compare with IsCurrent to drop stale completions
}

// Session resolves searches from history first and the remote index second,
// recording each distinct successful search.
//
// Execute may be called concurrently. Only the most recently started call's
// result should be shown; callers check IsCurrent(result.Generation) before
// rendering. Superseded fetches are not cancelled, and a fetch shared by
// several callers keeps running when one of them gives up.
type Session struct {
	searcher      Searcher
	history       History
	baseURL       string
	strictFilters bool
	exactCache    bool
	logger        *log.Logger
	now           func() time.Time

	generation atomic.Uint64
	flights    singleflight.Group
}

// New creates a Session
func New(searcher Searcher, history History, opts Options) *Session {
	s := &Session{
		searcher:      searcher,
		history:       history,
		baseURL:       opts.BaseURL,
		strictFilters: opts.StrictFilters,
		exactCache:    opts.ExactCache,
		logger:        opts.Logger,
		now:           opts.Now,
	}
	if s.baseURL == "" {
		s.baseURL = api.DefaultBaseURL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Execute runs one search. An empty query returns a Skipped result and no error.
//
// A history entry with the same query and filters is returned as-is, whatever
// sort it was recorded with (with ExactCache, only an entry with the same URL).
// Result.Sort is then the sort the entry was recorded with. Otherwise the
// remote index is queried and the result recorded under its canonical URL.
func (s *Session) Execute(ctx context.Context, query string, filters models.Filters, sort models.SortState) (Result, error) {
	return s.execute(ctx, query, filters, sort, s.exactCache)
}

func (s *Session) execute(ctx context.Context, query string, filters models.Filters, sort models.SortState, exact bool) (Result, error) {
	gen := s.generation.Add(1)
	result := Result{Sort: sort, Generation: gen}

	if query == "" {
		result.Skipped = true
		return result, nil
	}
	if err := ValidateSort(sort); err != nil {
		return result, err
	}
	if s.strictFilters {
		if err := ValidateFilters(filters); err != nil {
			return result, err
		}
	}

	req := api.BuildSearchRequest(s.baseURL, query, filters, sort)
	result.URL = req.URL

	if record, ok := s.lookup(req.URL, query, filters, exact); ok {
		if s.logger != nil {
			s.logger.Debug("History hit", "query", query, "url", record.URL)
		}
		result.Repos = record.Results
		if result.Repos == nil {
			result.Repos = []models.RepoSummary{}
		}
		result.URL = record.URL
		result.Sort = record.Sort
		result.FromCache = true
		return result, nil
	}

	// The shared fetch outlives any single caller; each caller stops waiting
	// when its own ctx is done.
	flightCtx := context.WithoutCancel(ctx)
	ch := s.flights.DoChan(req.URL, func() (interface{}, error) {
		return s.fetchAndRecord(flightCtx, req.URL, query, filters, sort)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return result, fmt.Errorf("%w: %w", ErrFetchFailed, ctx.Err())
	}
	if res.Err != nil {
		return result, fmt.Errorf("%w: %w", ErrFetchFailed, res.Err)
	}
	if res.Shared && s.logger != nil {
		s.logger.Debug("Joined in-flight search", "url", req.URL)
	}

	result.Repos, _ = res.Val.([]models.RepoSummary)
	return result, nil
}

// fetchAndRecord queries the remote index and appends the outcome to history.
// A failed append is logged and does not fail the search.
func (s *Session) fetchAndRecord(ctx context.Context, searchURL, query string, filters models.Filters, sort models.SortState) ([]models.RepoSummary, error) {
	repos, err := s.searcher.SearchRepositories(ctx, searchURL)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("Search failed", "query", query, "url", searchURL, "error", err)
		}
		return nil, err
	}
	if repos == nil {
		repos = []models.RepoSummary{}
	}

	record := models.SearchRecord{
		Query:      query,
		Filters:    filters,
		URL:        searchURL,
		Results:    repos,
		Sort:       sort,
		SearchedAt: s.now().UTC(),
	}
	if err := s.history.Append(record); err != nil && s.logger != nil {
		s.logger.Warn("Failed to record search", "url", searchURL, "error", err)
	}
	return repos, nil
}

func (s *Session) lookup(searchURL, query string, filters models.Filters, exact bool) (models.SearchRecord, bool) {
	if exact {
		return s.history.FindByURL(searchURL)
	}
	return s.history.FindByQueryAndFilters(query, filters)
}

// Resume rehydrates state from shareable parameters and runs it through Execute
func (s *Session) Resume(ctx context.Context, params url.Values) (State, Result, error) {
	state := Rehydrate(params)
	result, err := s.Execute(ctx, state.Query, state.Filters, state.Sort)
	return state, result, err
}

// IsCurrent reports whether gen belongs to the most recently started Execute call
func (s *Session) IsCurrent(gen uint64) bool {
	return gen == s.generation.Load()
}
