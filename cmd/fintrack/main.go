// Command fintrack prints the dashboard views from the local FinTrack data directory.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var (
	configPath = flag.String("config", "", "Path to fintrack.toml (defaults to FINTRACK_CONFIG or config/fintrack.toml)")
	rawOutput  = flag.Bool("raw", false, "Print plain Markdown instead of rendering it for the terminal")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&summaryCmd{}, "portfolio")
	commander.Register(&holdingsCmd{}, "portfolio")
	commander.Register(&spendingCmd{}, "spending")
	commander.Register(&addExpenseCmd{}, "spending")
	commander.Register(&watchlistCmd{}, "watchlist")
	commander.Register(&quoteCmd{}, "quotes")
	commander.Register(&searchCmd{}, "quotes")
	commander.Register(&refreshCmd{}, "quotes")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
