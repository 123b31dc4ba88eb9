package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/thesavant42/gitsome-search/internal/models"
)

// sortDone is the select value that ends the sort loop
const sortDone = "done"

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	// Remove null bytes and other control characters (except whitespace)
	result := strings.Map(func(r rune) rune {
		// Keep printable characters and normal whitespace (space, tab, newline)
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1 // Remove the character
		}
		return r
	}, s)
	return result
}

// PromptForSearch asks for a query and the optional filters
func PromptForSearch() (string, models.Filters, error) {
	var query, language, minStars, minForks string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Search GitHub Repositories").
				Description("Matched against name, description, readme and topics").
				Placeholder("e.g. terminal ui").
				Value(&query).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("query cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Language").
				Description("Optional, e.g. go").
				Value(&language),
			huh.NewInput().
				Title("Min Stars").
				Description("Optional").
				Value(&minStars),
			huh.NewInput().
				Title("Min Forks").
				Description("Optional").
				Value(&minForks),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", models.Filters{}, fmt.Errorf("prompt cancelled: %w", err)
	}

	filters := models.Filters{
		Language: strings.TrimSpace(sanitizeInput(language)),
		MinStars: strings.TrimSpace(sanitizeInput(minStars)),
		MinForks: strings.TrimSpace(sanitizeInput(minForks)),
	}
	return strings.TrimSpace(sanitizeInput(query)), filters, nil
}

// PromptForSortToggle asks which column header to click next.
// done is true when the user wants to stop re-sorting.
func PromptForSortToggle(current models.SortState) (column models.SortColumn, done bool, err error) {
	var choice string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Sort results").
				Description("Current order: "+DescribeSort(current)).
				Options(
					huh.NewOption(strings.TrimSpace("Stars "+SortIndicator(current, models.SortStars)), string(models.SortStars)),
					huh.NewOption(strings.TrimSpace("Forks "+SortIndicator(current, models.SortForks)), string(models.SortForks)),
					huh.NewOption("Done", sortDone),
				).
				Value(&choice),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return models.SortNone, true, fmt.Errorf("prompt cancelled: %w", err)
	}

	if choice == sortDone {
		return models.SortNone, true, nil
	}
	return models.SortColumn(choice), false, nil
}

// PromptForGitHubToken optionally prompts for a GitHub token
func PromptForGitHubToken() (string, error) {
	var token string
	var useToken bool

	// First ask if they want to use a token
	confirmForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Use GitHub Token?").
				Description("A token raises the search rate limit from 10 to 30 requests/minute").
				Affirmative("Yes").
				Negative("No").
				Value(&useToken),
		),
	).WithTheme(NewAppTheme())

	if err := confirmForm.Run(); err != nil {
		return "", nil // Continue without token on cancel
	}

	if !useToken {
		return "", nil
	}

	tokenForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("GitHub Personal Access Token").
				Description("Token will not be stored").
				EchoMode(huh.EchoModePassword).
				Value(&token),
		),
	).WithTheme(NewAppTheme())

	if err := tokenForm.Run(); err != nil {
		return "", nil // Continue without token on cancel
	}

	return strings.TrimSpace(sanitizeInput(token)), nil
}

// PromptForFilename asks user for an export filename
func PromptForFilename(defaultName string) (string, error) {
	var filename string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Export Filename").
				Description("Enter the filename for the markdown export").
				Placeholder(defaultName).
				Value(&filename),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return NormalizeFilename(filename, defaultName), nil
}

// NormalizeFilename falls back to defaultName and adds a .md extension
func NormalizeFilename(filename, defaultName string) string {
	filename = strings.TrimSpace(sanitizeInput(filename))
	if filename == "" {
		filename = defaultName
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".md") {
		filename = filename + ".md"
	}
	return filename
}
