package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/bobmcallan/fintrack/internal/app"
)

// openApp opens the data directory with logging limited to warnings so it does not
// interleave with the report.
func openApp() (*app.App, error) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	return app.NewApp(*configPath)
}

// printMarkdown renders md for the terminal, or prints it as-is with -raw.
func printMarkdown(md string) {
	if *rawOutput {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
