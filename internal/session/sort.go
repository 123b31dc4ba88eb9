package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/thesavant42/gitsome-search/internal/models"
)

// NextSort returns the state after the user toggles column.
//
// Toggling a different column starts it at desc. Toggling the active column
// moves desc -> asc -> none, and from none back to desc.
func NextSort(state models.SortState, column models.SortColumn) models.SortState {
	if state.Column != column {
		return models.SortState{Column: column, Direction: models.DirectionDesc}
	}

	switch state.Direction {
	case models.DirectionDesc:
		return models.SortState{Column: column, Direction: models.DirectionAsc}
	case models.DirectionAsc:
		return models.SortState{}
	default:
		return models.SortState{Column: column, Direction: models.DirectionDesc}
	}
}

// ParseSort builds a SortState from user input. An empty column means no sort;
// an empty order with a column defaults to desc.
func ParseSort(column, order string) (models.SortState, error) {
	c := models.SortColumn(strings.ToLower(strings.TrimSpace(column)))
	d := models.SortDirection(strings.ToLower(strings.TrimSpace(order)))

	if c == models.SortNone {
		if d != models.DirectionNone {
			return models.SortState{}, fmt.Errorf("%w: order %q without a sort column", ErrInvalidSort, order)
		}
		return models.SortState{}, nil
	}
	if d == models.DirectionNone {
		d = models.DirectionDesc
	}

	state := models.SortState{Column: c, Direction: d}
	if err := ValidateSort(state); err != nil {
		return models.SortState{}, err
	}
	return state, nil
}

// ValidateSort checks that state names a known column and direction, or neither
func ValidateSort(state models.SortState) error {
	if !state.IsSet() {
		if state.Direction != models.DirectionNone {
			return fmt.Errorf("%w: direction %q without a column", ErrInvalidSort, state.Direction)
		}
		return nil
	}
	if !state.Column.Valid() {
		return fmt.Errorf("%w: unknown column %q", ErrInvalidSort, state.Column)
	}
	if !state.Direction.Valid() {
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidSort, state.Direction)
	}
	return nil
}

// SortController tracks the active sort and re-runs the search on every toggle.
// Sorting is done by the remote index, so each toggle is a fresh Execute.
type SortController struct {
	session *Session

	mu    sync.Mutex
	state models.SortState
}

// NewSortController starts with no sort
func NewSortController(s *Session) *SortController {
	return &SortController{session: s}
}

// State returns the current sort
func (c *SortController) State() models.SortState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset replaces the current sort, e.g. after rehydrating from parameters
func (c *SortController) Reset(state models.SortState) error {
	if err := ValidateSort(state); err != nil {
		return err
	}
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	return nil
}

// Toggle advances the sort for column and searches again with the new state.
// History is only reused for an entry recorded with exactly that sort, so the
// results are always in the order the new state names. Unknown columns leave
// the state unchanged.
func (c *SortController) Toggle(ctx context.Context, column models.SortColumn, query string, filters models.Filters) (Result, error) {
	if !column.Valid() {
		return Result{Sort: c.State()}, fmt.Errorf("%w: unknown column %q", ErrInvalidSort, column)
	}

	c.mu.Lock()
	next := NextSort(c.state, column)
	c.state = next
	c.mu.Unlock()

	return c.session.execute(ctx, query, filters, next, true)
}
