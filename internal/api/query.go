package api

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/thesavant42/gitsome-search/internal/models"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint
	DefaultBaseURL = "https://api.github.com"

	searchPath    = "/search/repositories"
	searchScope   = "in:name,description,readme,topics"
	searchPerPage = 10
)

// SearchRequest is the canonical descriptor for one repository search.
// URL is both the request target and the history key.
type SearchRequest struct {
	URL string
}

// IsEmpty reports whether the request is the no-op sentinel returned for an empty query
func (r SearchRequest) IsEmpty() bool {
	return r.URL == ""
}

// BuildSearchRequest assembles the canonical search URL for query, filters and sort.
// An empty query yields the zero SearchRequest; callers must check IsEmpty before
// doing network work.
//
// Qualifiers are always appended in the same order (scope, language, stars, forks)
// so identical inputs produce byte-identical URLs. Qualifier syntax stays literal;
// only user-supplied values are escaped, and minStars/minForks are passed through
// without numeric validation.
func BuildSearchRequest(baseURL, query string, filters models.Filters, sort models.SortState) SearchRequest {
	if query == "" {
		return SearchRequest{}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	q := BuildSearchQuery(query, filters)

	var sb strings.Builder
	sb.WriteString(strings.TrimRight(baseURL, "/"))
	sb.WriteString(searchPath)
	sb.WriteString("?q=")
	sb.WriteString(q)
	sb.WriteString(fmt.Sprintf("&per_page=%d", searchPerPage))

	if sort.IsSet() {
		sb.WriteString("&sort=" + url.QueryEscape(string(sort.Column)))
		sb.WriteString("&order=" + url.QueryEscape(string(sort.Direction)))
	}

	return SearchRequest{URL: sb.String()}
}

// BuildSearchQuery constructs the raw q parameter value, WITHOUT the leading "q="
// Example: react+in:name,description,readme,topics+language:go+stars:>=100
func BuildSearchQuery(query string, filters models.Filters) string {
	parts := []string{url.QueryEscape(query), searchScope}

	if filters.Language != "" {
		parts = append(parts, "language:"+url.QueryEscape(filters.Language))
	}
	if filters.MinStars != "" {
		parts = append(parts, "stars:>="+url.QueryEscape(filters.MinStars))
	}
	if filters.MinForks != "" {
		parts = append(parts, "forks:>="+url.QueryEscape(filters.MinForks))
	}

	return strings.Join(parts, "+")
}
