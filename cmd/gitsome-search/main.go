/*
Package main is the entry point for gitsome-search.

gitsome-search searches GitHub repositories by free text and optional
filters, keeps a local history of every distinct search with its results,
and reopens past searches from that history.

Usage:

	gitsome-search [command]

Available Commands:

	search      Search repositories
	history     List previous searches
	open        Repeat a search from history or shared parameters

Running without a command starts the interactive search form.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/thesavant42/gitsome-search/internal/cli"
	"github.com/thesavant42/gitsome-search/internal/ui"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCmd(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, ui.ErrInterrupted) || errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}
