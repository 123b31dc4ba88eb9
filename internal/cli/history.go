package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/thesavant42/gitsome-search/internal/history"
	"github.com/thesavant42/gitsome-search/internal/ui"
)

// updatedAtReporter is implemented by slot stores that track write times
type updatedAtReporter interface {
	UpdatedAt(key string) (time.Time, bool, error)
}

// NewHistoryCmd creates the 'history' command
func NewHistoryCmd(flags *globalFlags) *cobra.Command {
	var (
		jsonOutput bool
		markdown   string
	)

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"hist"},
		Short:   "List previous searches",
		Long:    `List every recorded search, oldest first. Use 'open <#>' to search again.`,
		Example: `  gitsome-search history
  gitsome-search history --json
  gitsome-search history --markdown=history.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(resolveConfig(flags, cmd.Flags().Changed), flags.plain)
			if err != nil {
				return err
			}
			defer a.Close()

			records := a.store.LoadAll()

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			if cmd.Flags().Changed("markdown") {
				filename := ui.NormalizeFilename(markdown, "search-history")
				if strings.TrimSpace(markdown) == "" && !a.plain {
					if filename, err = ui.PromptForFilename("search-history.md"); err != nil {
						return err
					}
				}
				if err := os.WriteFile(filename, []byte(ui.GenerateHistoryMarkdown(records)), 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", filename, err)
				}
				ui.PrintSuccess(fmt.Sprintf("Exported %d searches to %s", len(records), filename))
				return nil
			}

			ui.PrintHistory(records)
			if r, ok := a.slots.(updatedAtReporter); ok {
				if ts, found, err := r.UpdatedAt(history.Key); err == nil && found {
					ui.PrintStats(fmt.Sprintf("%d searches, last saved %s", len(records), ts.Local().Format(time.RFC1123)))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.Flags().StringVarP(&markdown, "markdown", "m", "", "Export to a markdown file (asks for a name when none is given)")
	cmd.Flags().Lookup("markdown").NoOptDefVal = " "

	return cmd
}
