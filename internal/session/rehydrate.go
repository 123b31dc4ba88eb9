package session

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/thesavant42/gitsome-search/internal/models"
)

// Shareable parameter names
const (
	ParamQuery    = "query"
	ParamLanguage = "language"
	ParamMinStars = "minStars"
	ParamMinForks = "minForks"
	ParamSort     = "sort"
	ParamOrder    = "order"
)

// State is everything needed to reproduce a search
type State struct {
	Query   string
	Filters models.Filters
	Sort    models.SortState
}

// Rehydrate builds the initial state from shareable parameters. Missing
// parameters are unset; an unusable sort/order pair means no sort.
func Rehydrate(params url.Values) State {
	state := State{
		Query: params.Get(ParamQuery),
		Filters: models.Filters{
			Language: params.Get(ParamLanguage),
			MinStars: params.Get(ParamMinStars),
			MinForks: params.Get(ParamMinForks),
		},
	}

	if sort, err := ParseSort(params.Get(ParamSort), params.Get(ParamOrder)); err == nil {
		state.Sort = sort
	}
	return state
}

// ParseParams parses a raw parameter string. Accepts "query=react&language=go",
// the same with a leading "?", or a full URL carrying those parameters.
func ParseParams(raw string) (url.Values, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "?"); i >= 0 {
		raw = raw[i+1:]
	}

	params, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse parameters: %w", err)
	}
	return params, nil
}

// StateFromRecord returns the state that reproduces a history entry
func StateFromRecord(record models.SearchRecord) State {
	return State{
		Query:   record.Query,
		Filters: record.Filters,
		Sort:    record.Sort,
	}
}

// Values returns the shareable parameters for s. All filter keys are always
// present (empty when unset); sort keys only when a sort is active.
func (s State) Values() url.Values {
	v := url.Values{}
	v.Set(ParamQuery, s.Query)
	v.Set(ParamLanguage, s.Filters.Language)
	v.Set(ParamMinStars, s.Filters.MinStars)
	v.Set(ParamMinForks, s.Filters.MinForks)
	if s.Sort.IsSet() {
		v.Set(ParamSort, string(s.Sort.Column))
		v.Set(ParamOrder, string(s.Sort.Direction))
	}
	return v
}

// Encode returns Values in query-string form
func (s State) Encode() string {
	return s.Values().Encode()
}
