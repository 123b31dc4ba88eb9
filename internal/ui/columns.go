package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/thesavant42/gitsome-search/internal/models"
)

// Tables narrower than this are laid out as if they had this width
const minTableWidth = 50

// ColumnSpec describes one table column. Columns with a Width keep it; the
// rest split what is left over in proportion to Share, never below Min.
type ColumnSpec struct {
	Title string
	Width int
	Share int
	Min   int
}

// FitColumns turns specs into bubbles table columns for a table width total
func FitColumns(specs []ColumnSpec, total int) []table.Column {
	total = max(total, minTableWidth)

	shares := 0
	for _, s := range specs {
		if s.Width > 0 {
			total -= s.Width
		} else {
			shares += s.Share
		}
	}
	total = max(total, 0)

	columns := make([]table.Column, 0, len(specs))
	for _, s := range specs {
		width := s.Width
		if width == 0 && shares > 0 {
			width = total * s.Share / shares
		}
		columns = append(columns, table.Column{Title: s.Title, Width: max(width, s.Min)})
	}
	return columns
}

// RepoColumns is the results table: rank, name, stars, forks and link. The
// active sort column carries its arrow in the header.
func RepoColumns(sort models.SortState) []ColumnSpec {
	return []ColumnSpec{
		{Title: "#", Width: 3},
		{Title: "Repository", Share: 45, Min: 20},
		{Title: sortedTitle("Stars", sort, models.SortStars), Width: 10},
		{Title: sortedTitle("Forks", sort, models.SortForks), Width: 10},
		{Title: "URL", Share: 55, Min: 20},
	}
}

func sortedTitle(title string, sort models.SortState, column models.SortColumn) string {
	return strings.TrimSpace(title + " " + SortIndicator(sort, column))
}
