package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/gitsome-search/internal/models"
)

var (
	none      = models.SortState{}
	starsDesc = models.SortState{Column: models.SortStars, Direction: models.DirectionDesc}
	starsAsc  = models.SortState{Column: models.SortStars, Direction: models.DirectionAsc}
	forksDesc = models.SortState{Column: models.SortForks, Direction: models.DirectionDesc}
	forksAsc  = models.SortState{Column: models.SortForks, Direction: models.DirectionAsc}
)

func TestNextSort(t *testing.T) {
	tests := []struct {
		name   string
		state  models.SortState
		column models.SortColumn
		want   models.SortState
	}{
		{"none to stars desc", none, models.SortStars, starsDesc},
		{"stars desc to asc", starsDesc, models.SortStars, starsAsc},
		{"stars asc to none", starsAsc, models.SortStars, none},
		{"none to forks desc", none, models.SortForks, forksDesc},
		{"forks from stars desc", starsDesc, models.SortForks, forksDesc},
		{"forks from stars asc", starsAsc, models.SortForks, forksDesc},
		{"stars from forks asc", forksAsc, models.SortStars, starsDesc},
		{"column without direction restarts", models.SortState{Column: models.SortStars}, models.SortStars, starsDesc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSort(tt.state, tt.column))
		})
	}
}

func TestNextSortFullCycle(t *testing.T) {
	state := none
	var seen []models.SortState
	for i := 0; i < 4; i++ {
		state = NextSort(state, models.SortStars)
		seen = append(seen, state)
	}
	assert.Equal(t, []models.SortState{starsDesc, starsAsc, none, starsDesc}, seen)
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		column  string
		order   string
		want    models.SortState
		wantErr bool
	}{
		{column: "", order: "", want: none},
		{column: "stars", order: "", want: starsDesc},
		{column: "STARS", order: "Asc", want: starsAsc},
		{column: " forks ", order: "desc", want: forksDesc},
		{column: "", order: "asc", wantErr: true},
		{column: "name", order: "asc", wantErr: true},
		{column: "stars", order: "up", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.column+"/"+tt.order, func(t *testing.T) {
			got, err := ParseSort(tt.column, tt.order)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSort)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortControllerToggle(t *testing.T) {
	searcher := &fakeSearcher{repos: []models.RepoSummary{reactRepo}}
	sess, _ := newTestSession(searcher, Options{})
	controller := NewSortController(sess)
	ctx := context.Background()

	assert.Equal(t, none, controller.State())

	steps := []struct {
		column   models.SortColumn
		want     models.SortState
		wantSort string
	}{
		{models.SortStars, starsDesc, "&sort=stars&order=desc"},
		{models.SortStars, starsAsc, "&sort=stars&order=asc"},
		{models.SortStars, none, ""},
		{models.SortForks, forksDesc, "&sort=forks&order=desc"},
	}

	for _, step := range steps {
		result, err := controller.Toggle(ctx, step.column, "react", models.Filters{})
		require.NoError(t, err)
		assert.Equal(t, step.want, controller.State())
		assert.Equal(t, step.want, result.Sort)
		if step.wantSort == "" {
			assert.NotContains(t, result.URL, "&sort=")
		} else {
			assert.Contains(t, result.URL, step.wantSort)
		}
	}

	// Every toggle is a fresh search
	assert.Len(t, searcher.calls(), 4)
}

func TestSortControllerToggleAfterSearch(t *testing.T) {
	searcher := &fakeSearcher{repos: []models.RepoSummary{reactRepo}}
	sess, store := newTestSession(searcher, Options{})
	controller := NewSortController(sess)
	ctx := context.Background()

	_, err := sess.Execute(ctx, "react", models.Filters{}, none)
	require.NoError(t, err)

	// Sorted toggles are not answered by the unsorted entry
	for _, want := range []models.SortState{starsDesc, starsAsc} {
		result, err := controller.Toggle(ctx, models.SortStars, "react", models.Filters{})
		require.NoError(t, err)
		assert.False(t, result.FromCache)
		assert.Equal(t, want, result.Sort)
		assert.Contains(t, result.URL, "&sort=stars&order="+string(want.Direction))
	}

	// Back to relevance: the first search's entry matches exactly
	result, err := controller.Toggle(ctx, models.SortStars, "react", models.Filters{})
	require.NoError(t, err)
	assert.True(t, result.FromCache)
	assert.Equal(t, none, result.Sort)

	// Toggling stars again reuses the entry recorded for stars desc
	result, err = controller.Toggle(ctx, models.SortStars, "react", models.Filters{})
	require.NoError(t, err)
	assert.True(t, result.FromCache)
	assert.Equal(t, starsDesc, result.Sort)

	assert.Len(t, searcher.calls(), 3)
	assert.Equal(t, 3, store.Len())
}

func TestSortControllerUnknownColumn(t *testing.T) {
	searcher := &fakeSearcher{}
	sess, _ := newTestSession(searcher, Options{})
	controller := NewSortController(sess)
	require.NoError(t, controller.Reset(starsAsc))

	result, err := controller.Toggle(context.Background(), "name", "react", models.Filters{})
	assert.ErrorIs(t, err, ErrInvalidSort)
	assert.Equal(t, starsAsc, result.Sort)
	assert.Equal(t, starsAsc, controller.State())
	assert.Empty(t, searcher.calls())
}

func TestSortControllerReset(t *testing.T) {
	sess, _ := newTestSession(&fakeSearcher{}, Options{})
	controller := NewSortController(sess)

	require.NoError(t, controller.Reset(forksAsc))
	assert.Equal(t, forksAsc, controller.State())

	assert.ErrorIs(t, controller.Reset(models.SortState{Column: "name", Direction: models.DirectionAsc}), ErrInvalidSort)
	assert.Equal(t, forksAsc, controller.State())

	require.NoError(t, controller.Reset(none))
	assert.Equal(t, none, controller.State())
}

func TestSortControllerToggleFailureKeepsNewState(t *testing.T) {
	searcher := &fakeSearcher{err: assert.AnError}
	sess, _ := newTestSession(searcher, Options{})
	controller := NewSortController(sess)

	_, err := controller.Toggle(context.Background(), models.SortStars, "react", models.Filters{})
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, starsDesc, controller.State())
}
