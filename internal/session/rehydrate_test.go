package session

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/gitsome-search/internal/models"
)

func TestRehydrate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want State
	}{
		{
			name: "empty",
			raw:  "",
			want: State{},
		},
		{
			name: "query only",
			raw:  "query=react",
			want: State{Query: "react"},
		},
		{
			name: "all filters",
			raw:  "query=vue&language=go&minStars=100&minForks=5",
			want: State{Query: "vue", Filters: models.Filters{Language: "go", MinStars: "100", MinForks: "5"}},
		},
		{
			name: "empty filter values",
			raw:  "query=react&language=&minStars=&minForks=",
			want: State{Query: "react"},
		},
		{
			name: "sort pair",
			raw:  "query=react&sort=stars&order=asc",
			want: State{Query: "react", Sort: starsAsc},
		},
		{
			name: "sort without order defaults to desc",
			raw:  "query=react&sort=forks",
			want: State{Query: "react", Sort: forksDesc},
		},
		{
			name: "unknown sort is dropped",
			raw:  "query=react&sort=name&order=asc",
			want: State{Query: "react"},
		},
		{
			name: "order without sort is dropped",
			raw:  "query=react&order=asc",
			want: State{Query: "react"},
		},
		{
			name: "encoded values",
			raw:  "query=terminal+ui&language=c%23",
			want: State{Query: "terminal ui", Filters: models.Filters{Language: "c#"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Rehydrate(params))
		})
	}
}

func TestStateValuesRoundTrip(t *testing.T) {
	states := []State{
		{Query: "react"},
		{Query: "vue", Filters: models.Filters{Language: "go", MinStars: "100"}},
		{Query: "terminal ui", Filters: models.Filters{MinForks: "3"}, Sort: forksAsc},
		{Query: "a&b=c", Filters: models.Filters{Language: "c++"}, Sort: starsDesc},
	}

	for _, state := range states {
		t.Run(state.Query, func(t *testing.T) {
			params, err := ParseParams(state.Encode())
			require.NoError(t, err)
			assert.Equal(t, state, Rehydrate(params))
		})
	}
}

func TestStateValues(t *testing.T) {
	v := State{Query: "react"}.Values()

	// Filter keys are always present, sort keys only when sorted
	for _, key := range []string{ParamQuery, ParamLanguage, ParamMinStars, ParamMinForks} {
		assert.Contains(t, v, key)
	}
	assert.NotContains(t, v, ParamSort)
	assert.NotContains(t, v, ParamOrder)

	sorted := State{Query: "react", Sort: starsAsc}.Values()
	assert.Equal(t, "stars", sorted.Get(ParamSort))
	assert.Equal(t, "asc", sorted.Get(ParamOrder))
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bare", "query=react&language=go"},
		{"leading question mark", "?query=react&language=go"},
		{"full url", "https://example.com/search?query=react&language=go"},
		{"surrounding space", "  query=react&language=go \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := ParseParams(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, State{Query: "react", Filters: models.Filters{Language: "go"}}, Rehydrate(params))
		})
	}
}

func TestParseParamsInvalid(t *testing.T) {
	_, err := ParseParams("query=%zz")
	assert.Error(t, err)
}

func TestStateFromRecord(t *testing.T) {
	record := models.SearchRecord{
		Query:   "vue",
		Filters: models.Filters{Language: "go", MinStars: "100"},
		URL:     "https://api.github.com/search/repositories?q=vue",
		Sort:    forksDesc,
	}

	state := StateFromRecord(record)
	assert.Equal(t, State{Query: "vue", Filters: record.Filters, Sort: forksDesc}, state)

	// The history link reproduces the same state
	assert.Equal(t, state, Rehydrate(state.Values()))
}
