package cli

import (
	"github.com/spf13/cobra"
	"github.com/thesavant42/gitsome-search/internal/api"
	"github.com/thesavant42/gitsome-search/internal/db"
)

// NewRootCmd creates the gitsome-search command tree.
// Running it without a subcommand starts the interactive search.
func NewRootCmd(version string) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "gitsome-search",
		Short: "Search GitHub repositories and revisit past searches",
		Long: `gitsome-search queries the GitHub repository search API by free text,
language, minimum stars and minimum forks.

Every distinct search is recorded with its results in a local history, so
repeating a search or reopening a shared parameter string is answered from
history without touching the network.`,
		Example: `  gitsome-search
  gitsome-search search react --language javascript --min-stars 1000
  gitsome-search search vue --sort stars --order asc
  gitsome-search history
  gitsome-search open 2
  gitsome-search open "query=react&language=go"`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(resolveConfig(flags, cmd.Flags().Changed), flags.plain)
			if err != nil {
				return err
			}
			defer a.Close()
			return runInteractive(cmd.Context(), a)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.dbPath, "db", "", "Path to the history database (env GITSOME_DB)")
	pf.StringVar(&flags.backend, "store", db.BackendSQLite, "History backend: sqlite or bolt (env GITSOME_STORE)")
	pf.StringVar(&flags.token, "token", "", "GitHub personal access token (env GITHUB_TOKEN)")
	pf.StringVar(&flags.apiURL, "api-url", api.DefaultBaseURL, "Search API base URL (env GITSOME_API_URL)")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn, error (env GITSOME_LOG_LEVEL)")
	pf.BoolVar(&flags.strict, "strict", false, "Reject non-numeric --min-stars/--min-forks (env GITSOME_STRICT_FILTERS)")
	pf.BoolVar(&flags.exactCache, "exact-cache", false, "Only reuse history entries with the same sort (env GITSOME_EXACT_CACHE)")
	pf.IntVar(&flags.maxHistory, "max-history", 0, "Keep at most N history entries, 0 for unlimited (env GITSOME_MAX_HISTORY)")
	pf.BoolVar(&flags.plain, "plain", false, "Plain output without the spinner or the full-screen browser")

	rootCmd.AddCommand(NewSearchCmd(flags))
	rootCmd.AddCommand(NewHistoryCmd(flags))
	rootCmd.AddCommand(NewOpenCmd(flags))

	return rootCmd
}
