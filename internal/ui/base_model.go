package ui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Viewport bounds for full-screen pages
const (
	MinViewportWidth = 80
	MaxViewportWidth = 140
	DefaultWidth     = 100 // Used when terminal size is unknown
	DefaultHeight    = 24
	MinTableHeight   = 3
	// Rows used by borders, header, subtitle, dividers, status and help
	chromeHeight = 12
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth  int // clamped terminal width
	ViewportHeight int
	InnerWidth     int // exact width for content inside borders
	TableWidth     int // sum of column widths, leaving room for cell padding
	TableHeight    int // visible data rows
}

// NewLayout creates a Layout from the terminal size, clamping the width to min/max
func NewLayout(terminalWidth, terminalHeight int) Layout {
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)
	if terminalHeight <= 0 {
		terminalHeight = DefaultHeight
	}
	tableHeight := terminalHeight - chromeHeight
	if tableHeight < MinTableHeight {
		tableHeight = MinTableHeight
	}
	return Layout{
		ViewportWidth:  width,
		ViewportHeight: terminalHeight,
		InnerWidth:     width - 2,
		TableWidth:     width - 14, // borders plus two cells of padding per column
		TableHeight:    tableHeight,
	}
}

// DefaultLayout returns a layout using the default size
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

// clamp restricts a value to the given range
func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// InitTable builds a focused, styled table sized to layout
func InitTable(columns []table.Column, rows []table.Row, layout Layout) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)

	ApplyTableStyles(&t)
	t.GotoTop()

	return t
}

// ApplyTableStyles applies the app's header, cell and selection styles
func ApplyTableStyles(t *table.Model) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Foreground(ColorText).
		Bold(true)
	s.Cell = s.Cell.Foreground(ColorText)
	s.Selected = SelectedStyle
	t.SetStyles(s)
}

// StandardInit asks for the terminal size so the first frame is laid out
func StandardInit() tea.Cmd {
	return tea.WindowSize()
}

// HandleQuitKeys reports whether key closes the page (q, esc, ctrl+c)
func HandleQuitKeys(key string) (bool, tea.Cmd) {
	switch key {
	case "q", "esc", "ctrl+c":
		return true, tea.Quit
	}
	return false, nil
}

// HandleSelectKey returns cursor when key is enter
func HandleSelectKey(key string, cursor int) (int, bool) {
	if key == "enter" {
		return cursor, true
	}
	return -1, false
}
