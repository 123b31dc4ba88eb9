package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thesavant42/gitsome-search/internal/models"
	"github.com/thesavant42/gitsome-search/internal/session"
)

// NewOpenCmd creates the 'open' command
func NewOpenCmd(flags *globalFlags) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "open <# | parameters>",
		Short: "Repeat a search from history or from shared parameters",
		Long: `Restore a search either by its number in 'history' or from a shared
parameter string (query, language, minStars, minForks, sort, order).
Results come from history when the search was made before.`,
		Example: `  gitsome-search open 3
  gitsome-search open "query=react&language=go&minStars=100"
  gitsome-search open "?query=vue&sort=stars&order=asc"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(resolveConfig(flags, cmd.Flags().Changed), flags.plain)
			if err != nil {
				return err
			}
			defer a.Close()

			params, err := resolveParams(args[0], a.store.LoadAll())
			if err != nil {
				return err
			}

			state := session.Rehydrate(params)
			if state.Query == "" {
				return fmt.Errorf("no query in %q", args[0])
			}
			if interactive {
				return runSortLoop(cmd.Context(), a, state)
			}

			var result session.Result
			err = runWithSpinner(a, fmt.Sprintf("Opening %q...", state.Query), func() error {
				var err error
				state, result, err = a.session.Resume(cmd.Context(), params)
				return err
			})
			if err != nil {
				return err
			}
			printResult(state, result)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Offer sort toggles after the results")

	return cmd
}

// resolveParams turns a history number (1-based) or a parameter string into
// shareable parameters
func resolveParams(arg string, records []models.SearchRecord) (url.Values, error) {
	arg = strings.TrimSpace(arg)

	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(records) {
			return nil, fmt.Errorf("no history entry %d (have %d)", n, len(records))
		}
		return session.StateFromRecord(records[n-1]).Values(), nil
	}

	return session.ParseParams(arg)
}
