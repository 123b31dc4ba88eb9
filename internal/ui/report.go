package ui

import (
	"fmt"
	"strings"

	"github.com/thesavant42/gitsome-search/internal/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	rowStyle = lipgloss.NewStyle().
			Foreground(ColorText)
)

// Column widths for the results table: #, Repository, Stars, Forks
var repoColWidths = []int{3, 48, 12, 10}

// Column widths for the history table: #, Query, Filters, Sort, Results
var historyColWidths = []int{3, 24, 44, 12, 7}

// SortIndicator returns the arrow shown next to a column header:
// ▼ for desc, ▲ for asc, nothing when the column is not the active sort.
func SortIndicator(sort models.SortState, column models.SortColumn) string {
	if sort.Column != column {
		return ""
	}
	switch sort.Direction {
	case models.DirectionDesc:
		return "▼"
	case models.DirectionAsc:
		return "▲"
	default:
		return ""
	}
}

// DescribeFilters renders filters the way the history table shows them
func DescribeFilters(f models.Filters) string {
	return fmt.Sprintf("Language: %s, Min Stars: %s, Min Forks: %s",
		orNA(f.Language), orNA(f.MinStars), orNA(f.MinForks))
}

// DescribeSort renders a sort state, "relevance" when none is set
func DescribeSort(sort models.SortState) string {
	if !sort.IsSet() {
		return "relevance"
	}
	return fmt.Sprintf("%s %s", sort.Column, SortIndicator(sort, sort.Column))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// PrintSearchHeader prints the query line above a result table
func PrintSearchHeader(query string, filters models.Filters, fromCache bool) {
	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("Repositories matching %q", query)))
	line := DescribeFilters(filters)
	if fromCache {
		line += "  " + AccentStyle.Render("(from history)")
	}
	fmt.Println(subtitleStyle.Render(line))
	fmt.Println()
}

// RenderRepoTable renders search results as a bordered table.
//
// This is a CLI report (non-interactive): structure is built with string
// formatting and lipgloss is used only for colors.
func RenderRepoTable(repos []models.RepoSummary, sort models.SortState) string {
	if len(repos) == 0 {
		return subtitleStyle.Render("No repositories found.") + "\n"
	}

	var sb strings.Builder
	separator := tableSeparator(repoColWidths)

	sb.WriteString(TableBorderStyle.Render("┌"+separator+"┐") + "\n")
	header := formatRow(repoColWidths,
		"#",
		"Repository",
		strings.TrimSpace("Stars "+SortIndicator(sort, models.SortStars)),
		strings.TrimSpace("Forks "+SortIndicator(sort, models.SortForks)),
	)
	sb.WriteString(HeaderStyle.Render(header) + "\n")
	sb.WriteString(TableBorderStyle.Render("├"+separator+"┤") + "\n")

	for i, r := range repos {
		row := formatRow(repoColWidths,
			fmt.Sprintf("%d", i+1),
			truncate(r.FullName, repoColWidths[1]),
			fmt.Sprintf("%d", r.StargazersCount),
			fmt.Sprintf("%d", r.ForksCount),
		)
		sb.WriteString(rowStyle.Render(row) + "\n")
	}

	sb.WriteString(TableBorderStyle.Render("└"+separator+"┘") + "\n")
	return sb.String()
}

// PrintRepoTable prints search results followed by their links
func PrintRepoTable(repos []models.RepoSummary, sort models.SortState) {
	fmt.Print(RenderRepoTable(repos, sort))
	for i, r := range repos {
		fmt.Println(HintStyle.Render(fmt.Sprintf("  %d. %s", i+1, r.HTMLURL)))
	}
	fmt.Println()
}

// RenderHistoryTable renders the search history, oldest first
func RenderHistoryTable(records []models.SearchRecord) string {
	if len(records) == 0 {
		return subtitleStyle.Render("No search history available.") + "\n"
	}

	var sb strings.Builder
	separator := tableSeparator(historyColWidths)

	sb.WriteString(TableBorderStyle.Render("┌"+separator+"┐") + "\n")
	sb.WriteString(HeaderStyle.Render(formatRow(historyColWidths, "#", "Search Query", "Filters", "Sort", "Results")) + "\n")
	sb.WriteString(TableBorderStyle.Render("├"+separator+"┤") + "\n")

	for i, r := range records {
		row := formatRow(historyColWidths,
			fmt.Sprintf("%d", i+1),
			truncate(r.Query, historyColWidths[1]),
			truncate(DescribeFilters(r.Filters), historyColWidths[2]),
			DescribeSort(r.Sort),
			fmt.Sprintf("%d", len(r.Results)),
		)
		sb.WriteString(rowStyle.Render(row) + "\n")
	}

	sb.WriteString(TableBorderStyle.Render("└"+separator+"┘") + "\n")
	return sb.String()
}

// PrintHistory prints the history table and the API URL of each entry
func PrintHistory(records []models.SearchRecord) {
	fmt.Println(titleStyle.Render("Search History"))
	fmt.Print(RenderHistoryTable(records))
	for i, r := range records {
		fmt.Println(HintStyle.Render(fmt.Sprintf("  %d. %s", i+1, r.URL)))
	}
	if len(records) > 0 {
		fmt.Println()
		fmt.Println(HintStyle.Render("Run 'gitsome-search open <#>' to search again."))
	}
	fmt.Println()
}

// GenerateHistoryMarkdown renders the search history as a markdown report
func GenerateHistoryMarkdown(records []models.SearchRecord) string {
	var sb strings.Builder

	sb.WriteString("# Search History\n\n")
	if len(records) == 0 {
		sb.WriteString("No search history available.\n")
		return sb.String()
	}

	sb.WriteString("| # | Search Query | Filters | Sort | Results | URL |\n")
	sb.WriteString("|---|--------------|---------|------|---------|-----|\n")
	for i, r := range records {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %d | [View API URL](%s) |\n",
			i+1, r.Query, DescribeFilters(r.Filters), DescribeSort(r.Sort), len(r.Results), r.URL))
	}

	return sb.String()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	successStyle := lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	fmt.Println(successStyle.Render(message))
}

// PrintError prints an error message
func PrintError(message string) {
	errorStyle := lipgloss.NewStyle().
		Foreground(ColorBorder).
		Bold(true)
	fmt.Println(errorStyle.Render("Error: " + message))
}

// PrintStats prints a one-line footer
func PrintStats(message string) {
	fmt.Println(StatsStyle.Render(message))
}

func tableSeparator(widths []int) string {
	total := 0
	for _, w := range widths {
		total += w + 3 // column width + " │ " separator
	}
	return strings.Repeat("─", total-1)
}

func formatRow(widths []int, cells ...string) string {
	var sb strings.Builder
	sb.WriteString("│")
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		sb.WriteString(" " + padRight(cell, w) + " │")
	}
	return sb.String()
}

// padRight pads by rune count so the sort arrows don't skew the columns
func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
