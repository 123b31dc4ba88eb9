package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/thesavant42/gitsome-search/internal/models"
	"github.com/thesavant42/gitsome-search/internal/session"
	"github.com/thesavant42/gitsome-search/internal/ui"
)

// NewSearchCmd creates the 'search' command
func NewSearchCmd(flags *globalFlags) *cobra.Command {
	var (
		filters     models.Filters
		sortColumn  string
		sortOrder   string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search repositories by name, description, readme and topics",
		Long: `Search GitHub repositories. A search with the same query and filters as a
previous one is answered from history.

With no query the search form is shown and results can be re-sorted by
stars or forks afterwards.`,
		Example: `  gitsome-search search react
  gitsome-search search "terminal ui" --language go --min-stars 500
  gitsome-search search react --sort forks
  gitsome-search search react -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(resolveConfig(flags, cmd.Flags().Changed), flags.plain)
			if err != nil {
				return err
			}
			defer a.Close()

			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return runInteractive(cmd.Context(), a)
			}

			sort, err := session.ParseSort(sortColumn, sortOrder)
			if err != nil {
				return err
			}

			state := session.State{Query: query, Filters: filters, Sort: sort}
			if interactive {
				return runSortLoop(cmd.Context(), a, state)
			}
			_, err = searchAndPrint(cmd.Context(), a, state)
			return err
		},
	}

	cmd.Flags().StringVarP(&filters.Language, "language", "l", "", "Only repositories in this language")
	cmd.Flags().StringVar(&filters.MinStars, "min-stars", "", "Minimum number of stars")
	cmd.Flags().StringVar(&filters.MinForks, "min-forks", "", "Minimum number of forks")
	cmd.Flags().StringVarP(&sortColumn, "sort", "s", "", "Sort by stars or forks (default: relevance)")
	cmd.Flags().StringVarP(&sortOrder, "order", "o", "", "Sort order: desc or asc (default desc)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Offer sort toggles after the results")

	return cmd
}

// runInteractive prompts for a search, shows it, and enters the sort loop
func runInteractive(ctx context.Context, a *app) error {
	if a.cfg.Token == "" {
		token, _ := ui.PromptForGitHubToken()
		if token != "" {
			a.client.SetToken(token)
		}
	}

	query, filters, err := ui.PromptForSearch()
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	return runSortLoop(ctx, a, session.State{Query: query, Filters: filters})
}

// runSortLoop shows state's results, then re-runs the search on every
// column toggle until the user is done. Uses the full-screen browser unless
// --plain was given.
func runSortLoop(ctx context.Context, a *app, state session.State) error {
	controller := session.NewSortController(a.session)
	if err := controller.Reset(state.Sort); err != nil {
		return err
	}

	if !a.plain {
		var initial session.Result
		err := ui.RunWithSpinner(fmt.Sprintf("Searching for %q...", state.Query), func() error {
			var err error
			initial, err = a.session.Execute(ctx, state.Query, state.Filters, state.Sort)
			return err
		})
		if err != nil {
			return err
		}
		selected, err := ui.RunResultsBrowser(ctx, a.session, controller, state.Query, state.Filters, initial)
		if err != nil {
			return err
		}
		if selected != nil {
			ui.PrintSuccess(selected.FullName)
			fmt.Println(selected.HTMLURL)
		}
		return nil
	}

	if _, err := searchAndPrint(ctx, a, state); err != nil {
		return err
	}

	for {
		column, done, err := ui.PromptForSortToggle(controller.State())
		if err != nil || done {
			return nil
		}

		result, err := controller.Toggle(ctx, column, state.Query, state.Filters)
		if err != nil {
			ui.PrintError(err.Error())
			continue
		}
		if !a.session.IsCurrent(result.Generation) {
			continue
		}

		state.Sort = result.Sort
		printResult(state, result)
	}
}

// searchAndPrint runs state through the session and prints the outcome
func searchAndPrint(ctx context.Context, a *app, state session.State) (session.Result, error) {
	var result session.Result
	err := runWithSpinner(a, fmt.Sprintf("Searching for %q...", state.Query), func() error {
		var err error
		result, err = a.session.Execute(ctx, state.Query, state.Filters, state.Sort)
		return err
	})
	if err != nil {
		return result, err
	}
	if result.Skipped {
		ui.PrintError("search query cannot be empty")
		return result, nil
	}

	printResult(state, result)
	return result, nil
}

func printResult(state session.State, result session.Result) {
	ui.PrintSearchHeader(state.Query, state.Filters, result.FromCache)
	ui.PrintRepoTable(result.Repos, result.Sort)
	ui.PrintStats(fmt.Sprintf("%d repositories, order: %s", len(result.Repos), ui.DescribeSort(result.Sort)))
	ui.PrintStats("Share: " + session.State{Query: state.Query, Filters: state.Filters, Sort: result.Sort}.Encode())
	fmt.Println()
}

// runWithSpinner shows a spinner around action unless --plain was given
func runWithSpinner(a *app, title string, action func() error) error {
	if a.plain {
		return action()
	}
	return ui.RunWithSpinner(title, action)
}
