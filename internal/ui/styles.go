package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("196") // red
	ColorHighlight = lipgloss.Color("88")  // dark red background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("226") // bright yellow
	ColorTextDim   = lipgloss.Color("241") // gray
	ColorSuccess   = lipgloss.Color("82")  // green
	ColorInfo      = lipgloss.Color("86")  // cyan
)

// Common styles - reusable style definitions
var (
	// Border style for the main viewport. Width is set to InnerWidth and
	// the border adds the remaining two columns of ViewportWidth.
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// Border style for the one-line help box
	HelpBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorText)

	// Selected row/item style
	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	// Title style for section headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			MarginBottom(1)

	// Normal text style
	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// Hint/help text style
	HintStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Italic(true)

	// Accent style for highlighted text (yellow)
	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Table header row
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	// Table border characters
	TableBorderStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)

	// Stats footer style
	StatsStyle = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Italic(true)
)

// RenderNormal renders text in the normal style
func RenderNormal(text string) string {
	return NormalStyle.Render(text)
}

// RenderTitle renders a section title without its bottom margin
func RenderTitle(text string) string {
	return TitleStyle.MarginBottom(0).Render(text)
}

// RenderDim renders secondary text
func RenderDim(text string) string {
	return lipgloss.NewStyle().Foreground(ColorTextDim).Render(text)
}

// StringWidth returns the display width of s, ignoring ANSI sequences
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

// BorderedBox returns a style for bordered content boxes with the layout width
func BorderedBox(layout Layout) lipgloss.Style {
	return BorderStyle.
		Padding(0, 0).
		Width(layout.InnerWidth)
}

// HelpBox returns the style for the help line under the main box
func HelpBox(layout Layout) lipgloss.Style {
	return HelpBorderStyle.Width(layout.InnerWidth)
}

// NewAppSpinner returns the white dot spinner used for blocking operations
func NewAppSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorText)),
	)
}

// NewAppTheme creates a huh theme matching the app's style guide
// White text, red highlights/selection
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Title styling - white bold
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	// Description - dim
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Blurred.Description = t.Focused.Description

	// Selected option - red background, white text
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.UnselectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	// Text input styling
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorBorder)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(ColorBorder)

	return t
}
