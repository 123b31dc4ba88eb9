package api

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/gitsome-search/internal/models"
)

// TestBuildSearchRequest verifies qualifier order and the optional sort parameters
func TestBuildSearchRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		filters models.Filters
		sort    models.SortState
		wantURL string
	}{
		{
			name:    "query only",
			query:   "react",
			wantURL: "https://api.github.com/search/repositories?q=react+in:name,description,readme,topics&per_page=10",
		},
		{
			name:    "language and stars",
			query:   "vue",
			filters: models.Filters{Language: "go", MinStars: "100"},
			wantURL: "https://api.github.com/search/repositories?q=vue+in:name,description,readme,topics+language:go+stars:>=100&per_page=10",
		},
		{
			name:    "all filters",
			query:   "cli",
			filters: models.Filters{Language: "rust", MinStars: "10", MinForks: "5"},
			wantURL: "https://api.github.com/search/repositories?q=cli+in:name,description,readme,topics+language:rust+stars:>=10+forks:>=5&per_page=10",
		},
		{
			name:    "forks without stars",
			query:   "cli",
			filters: models.Filters{MinForks: "5"},
			wantURL: "https://api.github.com/search/repositories?q=cli+in:name,description,readme,topics+forks:>=5&per_page=10",
		},
		{
			name:    "sorted",
			query:   "react",
			sort:    models.SortState{Column: models.SortStars, Direction: models.DirectionDesc},
			wantURL: "https://api.github.com/search/repositories?q=react+in:name,description,readme,topics&per_page=10&sort=stars&order=desc",
		},
		{
			name:    "sorted ascending by forks",
			query:   "react",
			sort:    models.SortState{Column: models.SortForks, Direction: models.DirectionAsc},
			wantURL: "https://api.github.com/search/repositories?q=react+in:name,description,readme,topics&per_page=10&sort=forks&order=asc",
		},
		{
			name:    "non-numeric minimum passes through",
			query:   "react",
			filters: models.Filters{MinStars: "abc"},
			wantURL: "https://api.github.com/search/repositories?q=react+in:name,description,readme,topics+stars:>=abc&per_page=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := BuildSearchRequest(DefaultBaseURL, tt.query, tt.filters, tt.sort)
			assert.Equal(t, tt.wantURL, req.URL)
			assert.False(t, req.IsEmpty())
		})
	}
}

// TestBuildSearchRequestDeterministic verifies identical inputs give identical URLs
func TestBuildSearchRequestDeterministic(t *testing.T) {
	filters := models.Filters{Language: "go", MinStars: "100", MinForks: "3"}
	sort := models.SortState{Column: models.SortForks, Direction: models.DirectionAsc}

	first := BuildSearchRequest(DefaultBaseURL, "terminal ui", filters, sort)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildSearchRequest(DefaultBaseURL, "terminal ui", filters, sort))
	}
}

// TestBuildSearchRequestEmptyQuery verifies the empty query sentinel
func TestBuildSearchRequestEmptyQuery(t *testing.T) {
	req := BuildSearchRequest(DefaultBaseURL, "", models.Filters{Language: "go"}, models.SortState{})
	assert.True(t, req.IsEmpty())
	assert.Equal(t, SearchRequest{}, req)
}

// TestBuildSearchRequestEscaping verifies user values are escaped but qualifiers are not
func TestBuildSearchRequestEscaping(t *testing.T) {
	req := BuildSearchRequest(DefaultBaseURL, "c++ & friends", models.Filters{Language: "c#"}, models.SortState{})

	assert.True(t, strings.HasPrefix(req.URL, "https://api.github.com/search/repositories?q=c%2B%2B+%26+friends+in:"))
	assert.Contains(t, req.URL, "+language:c%23")

	// The URL must survive a parse with the query intact
	parsed, err := url.Parse(req.URL)
	require.NoError(t, err)
	assert.Equal(t, "c++ & friends in:name,description,readme,topics language:c#", parsed.Query().Get("q"))
	assert.Equal(t, "10", parsed.Query().Get("per_page"))
}

// TestBuildSearchRequestBaseURL verifies a custom base and a trailing slash
func TestBuildSearchRequestBaseURL(t *testing.T) {
	req := BuildSearchRequest("http://127.0.0.1:8080/", "react", models.Filters{}, models.SortState{})
	assert.Equal(t, "http://127.0.0.1:8080/search/repositories?q=react+in:name,description,readme,topics&per_page=10", req.URL)

	req = BuildSearchRequest("", "react", models.Filters{}, models.SortState{})
	assert.True(t, strings.HasPrefix(req.URL, DefaultBaseURL+"/search/repositories?"))
}
