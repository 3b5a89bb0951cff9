package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config, logger *Logger) {
	build := CurrentBuild()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)
	storageAddr := fmt.Sprintf("%s (%s)", config.Storage.Path, config.Storage.Backend)
	quoteMode := "live"
	if ResolveAPIKey(config.Clients.Quote.APIKey) == "" {
		quoteMode = "demo (mock quotes)"
	}

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 92
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 8888888888 8888888 888b    888 88888888888 8888888b.         d8888  .d8888b.  888    d8P`,
		` 888          888   8888b   888     888     888   Y88b       d88888 d88P  Y88b 888   d8P`,
		` 888          888   88888b  888     888     888    888      d88P888 888    888 888  d8P`,
		` 8888888      888   888Y88b 888     888     888   d88P     d88P 888 888        888d88K`,
		` 888          888   888 Y88b888     888     8888888P"     d88P  888 888        8888888b`,
		` 888          888   888  Y88888     888     888 T88b     d88P   888 888    888 888  Y88b`,
		` 888          888   888   Y8888     888     888  T88b   d8888888888 Y88b  d88P 888   Y88b`,
		` 888        8888888 888    Y888     888     888   T88b d88P     888  "Y8888P"  888    Y88b`,
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s  Portfolio, Spending & Watchlist Dashboard%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")

	kvPad := 16
	kvLines := [][2]string{
		{"Version", build.Version},
		{"Build", build.Build},
		{"Commit", build.Commit},
		{"Go", build.GoVersion},
		{"Environment", config.Environment},
		{"Service URL", serviceURL},
		{"Storage", storageAddr},
		{"Quotes", quoteMode},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")

	logger.Info().
		Str("version", build.Version).
		Str("build", build.Build).
		Str("commit", build.Commit).
		Str("environment", config.Environment).
		Str("service_url", serviceURL).
		Str("storage", storageAddr).
		Str("quotes", quoteMode).
		Msg("Application started")
}

// PrintShutdownBanner displays the application shutdown banner to stderr.
func PrintShutdownBanner(logger *Logger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 42
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "%s  FINTRACK - SHUTTING DOWN%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")

	logger.Info().Msg("Application shutting down")
}
