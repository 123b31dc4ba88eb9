package ui

// browser.go is the full-screen results table. Pressing s or f toggles the
// sort on the stars or forks column and re-runs the search in the background.

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/thesavant42/gitsome-search/internal/models"
	"github.com/thesavant42/gitsome-search/internal/session"
)

const (
	browserHelp    = "s: sort by stars | f: sort by forks | enter: select | q: quit"
	statusDuration = 4 * time.Second
)

// sortResultMsg carries the outcome of one toggle
type sortResultMsg struct {
	result session.Result
	err    error
}

// resultsBrowserModel shows one search and re-sorts it on demand
type resultsBrowserModel struct {
	PageState
	table      table.Model
	spinner    spinner.Model
	ctx        context.Context
	session    *session.Session
	controller *session.SortController
	query      string
	filters    models.Filters
	result     session.Result
	pending    int // toggles still in flight
	selected   *models.RepoSummary
}

// RunResultsBrowser shows initial in a table until the user quits, re-running
// the search through controller on each sort toggle. Returns the repository
// chosen with enter, or nil.
func RunResultsBrowser(ctx context.Context, sess *session.Session, controller *session.SortController, query string, filters models.Filters, initial session.Result) (*models.RepoSummary, error) {
	m := newResultsBrowser(ctx, sess, controller, query, filters, initial)

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("results browser error: %w", err)
	}

	return finalModel.(resultsBrowserModel).selected, nil
}

func newResultsBrowser(ctx context.Context, sess *session.Session, controller *session.SortController, query string, filters models.Filters, initial session.Result) resultsBrowserModel {
	layout := DefaultLayout()
	m := resultsBrowserModel{
		PageState:  NewPageState(layout),
		spinner:    NewAppSpinner(),
		ctx:        ctx,
		session:    sess,
		controller: controller,
		query:      query,
		filters:    filters,
		result:     initial,
	}
	m.table = InitTable(FitColumns(RepoColumns(initial.Sort), layout.TableWidth), repoRows(initial.Repos), layout)
	if initial.FromCache {
		m.SetStatus("Loaded from history", statusDuration)
	}
	return m
}

func (m resultsBrowserModel) Init() tea.Cmd {
	return StandardInit()
}

// toggle re-runs the search with the next sort for column
func (m resultsBrowserModel) toggle(column models.SortColumn) tea.Cmd {
	ctx, controller, query, filters := m.ctx, m.controller, m.query, m.filters
	return func() tea.Msg {
		result, err := controller.Toggle(ctx, column, query, filters)
		return sortResultMsg{result: result, err: err}
	}
}

func (m resultsBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.Resize(msg.Width, msg.Height) {
			m.refreshTable()
		}
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		if quit, cmd := HandleQuitKeys(key); quit {
			m.Quitting = true
			return m, cmd
		}
		if cursor, ok := HandleSelectKey(key, m.table.Cursor()); ok {
			if cursor >= 0 && cursor < len(m.result.Repos) {
				repo := m.result.Repos[cursor]
				m.selected = &repo
			}
			m.Quitting = true
			return m, tea.Quit
		}

		switch key {
		case "s", "f":
			column := models.SortStars
			if key == "f" {
				column = models.SortForks
			}
			m.pending++
			return m, tea.Batch(m.toggle(column), m.spinner.Tick)
		}

	case sortResultMsg:
		if m.pending > 0 {
			m.pending--
		}
		// A newer toggle was started while this one ran; its result wins
		if !m.session.IsCurrent(msg.result.Generation) {
			return m, nil
		}
		if msg.err != nil {
			m.SetStatus("Error: "+msg.err.Error(), 0)
			return m, nil
		}
		m.result = msg.result
		m.refreshTable()
		m.table.GotoTop()
		if msg.result.FromCache {
			m.SetStatus("Loaded from history", statusDuration)
		} else {
			m.SetStatus(fmt.Sprintf("Sorted by %s", DescribeSort(msg.result.Sort)), statusDuration)
		}
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// refreshTable rebuilds columns (the header carries the sort arrow) and rows
func (m *resultsBrowserModel) refreshTable() {
	// Clear rows first so the new columns never see rows of another shape
	m.table.SetRows(nil)
	m.table.SetColumns(FitColumns(RepoColumns(m.result.Sort), m.Layout.TableWidth))
	m.table.SetRows(repoRows(m.result.Repos))
	m.table.SetHeight(m.Layout.TableHeight)
}

func (m resultsBrowserModel) View() string {
	if m.Quitting {
		return ""
	}

	subtitle := DescribeFilters(m.filters) + " | order: " + DescribeSort(m.result.Sort)
	content := pageHeader(fmt.Sprintf("Repositories matching %q", m.query), subtitle, m.Layout.InnerWidth)
	if len(m.result.Repos) == 0 {
		content += RenderDim("No repositories found.") + "\n"
	} else {
		content += m.table.View() + "\n"
	}

	content += "\n"
	status := m.Status()
	switch {
	case m.pending > 0:
		content += m.spinner.View() + " " + RenderNormal("Searching...")
	case status != "":
		content += StatsStyle.Render(status)
	default:
		content += StatsStyle.Render(fmt.Sprintf("%d repositories", len(m.result.Repos)))
	}

	return framedPage(content, browserHelp, m.Layout)
}

// repoRows converts results to table rows in display order
func repoRows(repos []models.RepoSummary) []table.Row {
	rows := make([]table.Row, 0, len(repos))
	for i, r := range repos {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			r.FullName,
			strconv.Itoa(r.StargazersCount),
			strconv.Itoa(r.ForksCount),
			r.HTMLURL,
		})
	}
	return rows
}
