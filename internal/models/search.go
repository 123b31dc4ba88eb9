package models

import "time"

// Filters narrows a repository search. Empty strings mean "unset"; values are kept
// as strings so they round-trip exactly through URL parameters and storage.
type Filters struct {
	Language string `json:"language"`
	MinStars string `json:"minStars" validate:"omitempty,number"`
	MinForks string `json:"minForks" validate:"omitempty,number"`
}

// IsEmpty reports whether no filter is set
func (f Filters) IsEmpty() bool {
	return f.Language == "" && f.MinStars == "" && f.MinForks == ""
}

// RepoSummary is the subset of a GitHub repository search item we keep
type RepoSummary struct {
	ID              int64  `json:"id"`
	FullName        string `json:"full_name"`
	HTMLURL         string `json:"html_url"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
}

// SortColumn is a sortable result column
type SortColumn string

const (
	SortNone  SortColumn = ""
	SortStars SortColumn = "stars"
	SortForks SortColumn = "forks"
)

// Valid reports whether c is a column the search API can sort by
func (c SortColumn) Valid() bool {
	return c == SortStars || c == SortForks
}

// SortDirection is the order applied to the sort column
type SortDirection string

const (
	DirectionNone SortDirection = ""
	DirectionAsc  SortDirection = "asc"
	DirectionDesc SortDirection = "desc"
)

// Valid reports whether d is asc or desc
func (d SortDirection) Valid() bool {
	return d == DirectionAsc || d == DirectionDesc
}

// SortState is the active sort. Direction is empty iff Column is empty.
type SortState struct {
	Column    SortColumn    `json:"column,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// IsSet reports whether a sort column is active
func (s SortState) IsSet() bool {
	return s.Column != SortNone
}

// SearchRecord is one persisted search with a snapshot of its results
type SearchRecord struct {
	Query      string        `json:"query"`
	Filters    Filters       `json:"filters"`
	URL        string        `json:"url"` // canonical request URL, unique within history
	Results    []RepoSummary `json:"results"`
	Sort       SortState     `json:"sort"`
	SearchedAt time.Time     `json:"searchedAt"`
}
