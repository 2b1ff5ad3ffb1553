package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"howlongtobeat/logging"
	"howlongtobeat/models"
	"howlongtobeat/search"
	"howlongtobeat/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// cliOptions is the parsed command line
type cliOptions struct {
	configPath string
	query      string
	hasSearch  bool
	jsonOut    bool
	initConfig bool
	help       bool
}

// parseArgs processes command-line arguments
func parseArgs(args []string) (cliOptions, error) {
	var opts cliOptions
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-search", "--search":
			if i+1 >= len(args) {
				return opts, errors.New("game name required")
			}
			i++
			opts.query = args[i]
			opts.hasSearch = true
		case "-config", "--config":
			if i+1 >= len(args) {
				return opts, errors.New("config path required")
			}
			i++
			opts.configPath = args[i]
		case "-json", "--json":
			opts.jsonOut = true
		case "-init-config", "--init-config":
			opts.initConfig = true
		case "-help", "--help", "-h", "--h":
			opts.help = true
		default:
			return opts, fmt.Errorf("unknown option: %s", args[i])
		}
	}
	if opts.jsonOut && !opts.hasSearch {
		return opts, errors.New("-json requires -search")
	}
	return opts, nil
}

// run wires settings, logging and the search service, then dispatches to
// one-shot search, config initialisation or the interactive console. It
// returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		showUsage(stderr)
		return 2
	}
	if opts.help {
		showUsage(stdout)
		return 0
	}

	var storageOpts []storage.Option
	if opts.configPath != "" {
		storageOpts = append(storageOpts, storage.WithConfigFile(opts.configPath))
	}
	store := storage.NewManager(storageOpts...)

	settings, err := store.LoadSettings()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading settings: %v\n", err)
		return 1
	}

	if opts.initConfig {
		if err := store.SaveSettings(settings); err != nil {
			fmt.Fprintf(stderr, "Error saving settings: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Settings written to %s\n", store.ConfigPath())
		if !opts.hasSearch {
			return 0
		}
	}

	logger, err := logging.New(settings)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	manager := newSearchManager(settings, logger)

	if opts.hasSearch {
		return searchForGame(ctx, manager, opts.query, opts.jsonOut, stdout, stderr)
	}

	NewConsoleApp(manager, stdin, stdout).Run(ctx)
	return 0
}

func newSearchManager(settings *models.Settings, logger *zap.Logger) *search.Manager {
	return search.NewManager(search.NewService(settings, logger))
}

// searchForGame runs a single search and renders its outcome
func searchForGame(ctx context.Context, manager *search.Manager, query string, jsonOut bool, stdout, stderr io.Writer) int {
	query = search.NormalizeQuery(query)
	if query == "" {
		fmt.Fprintln(stderr, "Error: game name required")
		return 2
	}

	if !jsonOut {
		renderOutcome(stdout, search.Pending(query, 0))
	}
	outcome := manager.Run(ctx, query)

	if outcome.State() == search.StateError {
		renderOutcome(stderr, outcome)
		return 1
	}
	if jsonOut {
		if err := renderJSON(stdout, outcome.Games); err != nil {
			fmt.Fprintf(stderr, "Error encoding results: %v\n", err)
			return 1
		}
		return 0
	}
	renderOutcome(stdout, outcome)
	return 0
}

// renderOutcome writes the text form of a search outcome. Each state has its
// own rendering so an empty result is never mistaken for a failure.
func renderOutcome(w io.Writer, o search.Outcome) {
	switch o.State() {
	case search.StateLoading:
		fmt.Fprintf(w, "Searching for '%s' on HowLongToBeat...\n", o.Query)
	case search.StateError:
		fmt.Fprintf(w, "Failed to search: %v\n", o.Err)
	case search.StateEmpty:
		fmt.Fprintf(w, "No games found for '%s'.\n", o.Query)
	case search.StateResults:
		fmt.Fprintf(w, "\nFound %d matches for '%s':\n", len(o.Games), o.Query)
		fmt.Fprintln(w, "==========================================")
		for i, game := range o.Games {
			renderGame(w, i+1, game)
		}
	}
}

func renderGame(w io.Writer, n int, game models.Game) {
	title := game.Title()
	if year := game.ReleaseYear(); year > 0 {
		title = fmt.Sprintf("%s (%d)", title, year)
	}
	platform := game.ProfilePlatform
	if platform == "" {
		platform = "Multiple Platforms"
	}

	fmt.Fprintf(w, "%d. %s\n", n, title)
	fmt.Fprintf(w, "   %s\n", platform)

	rows := []struct {
		label   string
		seconds int
		hours   float64
		count   int
	}{
		{"Main Story", game.CompMain, game.MainStoryHours(), game.CompMainCount},
		{"Main + Extras", game.CompPlus, game.MainPlusHours(), game.CompPlusCount},
		{"Completionist", game.Comp100, game.CompletionistHours(), game.Comp100Count},
		{"All Styles", game.CompAll, game.AllStylesHours(), game.CountComp},
	}
	for _, row := range rows {
		if row.seconds <= 0 {
			continue
		}
		fmt.Fprintf(w, "   %-14s %7s  (%d ratings)\n", row.label+":", formatHours(row.hours), row.count)
	}
	fmt.Fprintf(w, "   Link: %s\n\n", game.GameURL())
}

// formatHours renders minutes below one hour and drops decimals from 100h up
func formatHours(hours float64) string {
	switch {
	case hours < 1:
		return fmt.Sprintf("%dm", int(hours*60))
	case hours >= 100:
		return fmt.Sprintf("%.0fh", hours)
	default:
		return fmt.Sprintf("%.1fh", hours)
	}
}

func renderJSON(w io.Writer, games []models.Game) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(games)
}

// showUsage displays command-line usage information
func showUsage(w io.Writer) {
	usage := []string{
		"HowLongToBeat - Command Line Usage",
		"==================================",
		"",
		"Interactive mode (default):",
		"  howlongtobeat",
		"",
		"Command Line Options:",
		"  -search <name>     Search for a game and print completion times",
		"  -json              Print search results as JSON (with -search)",
		"  -config <path>     Read settings from this file",
		"  -init-config       Write the effective settings file",
		"  -help              Show this help message",
		"",
		"Environment:",
		"  HLTB_DEBUG=1       Log discovery steps and responses to stderr",
		"  HLTB_<SETTING>     Override a setting, e.g. HLTB_SEARCH_TIMEOUT=60s",
		"",
		"Examples:",
		"  howlongtobeat -search \"Hollow Knight\"",
		"  howlongtobeat -search \"Celeste\" -json",
	}
	fmt.Fprintln(w, strings.Join(usage, "\n"))
}
