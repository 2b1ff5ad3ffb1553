package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"howlongtobeat/search"
)

// ConsoleApp is the interactive search prompt. Every line starts a new
// search; results of queries that have since been superseded are dropped.
type ConsoleApp struct {
	manager *search.Manager
	in      io.Reader
	out     io.Writer
}

// NewConsoleApp creates a new console application
func NewConsoleApp(manager *search.Manager, in io.Reader, out io.Writer) *ConsoleApp {
	return &ConsoleApp{manager: manager, in: in, out: out}
}

// Run starts the console application. It returns when the input ends and
// the in-flight searches have finished, on "exit", or when ctx is done.
func (app *ConsoleApp) Run(ctx context.Context) {
	quit := make(chan struct{})
	defer close(quit)

	lines := app.readLines(quit)
	outcomes := make(chan search.Outcome)
	inFlight := 0

	app.showBanner()
	app.prompt()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				lines = nil
				if inFlight == 0 {
					return
				}
				continue
			}
			switch query := search.NormalizeQuery(line); strings.ToLower(query) {
			case "":
				app.prompt()
			case "exit", "quit":
				fmt.Fprintln(app.out, "Goodbye!")
				return
			default:
				pending, done := app.manager.Start(ctx, query)
				inFlight++
				renderOutcome(app.out, pending)
				go forward(done, outcomes, quit)
			}
		case o := <-outcomes:
			inFlight--
			if app.manager.IsCurrent(o) {
				renderOutcome(app.out, o)
				app.prompt()
			}
			if lines == nil && inFlight == 0 {
				return
			}
		}
	}
}

// readLines feeds input lines into a channel that is closed at EOF
func (app *ConsoleApp) readLines(quit <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(app.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-quit:
				return
			}
		}
	}()
	return lines
}

func forward(done <-chan search.Outcome, outcomes chan<- search.Outcome, quit <-chan struct{}) {
	for o := range done {
		select {
		case outcomes <- o:
		case <-quit:
			return
		}
	}
}

func (app *ConsoleApp) showBanner() {
	fmt.Fprintln(app.out, "=== HowLongToBeat ===")
	fmt.Fprintln(app.out, "Type a game name to search, 'exit' to quit.")
}

func (app *ConsoleApp) prompt() {
	fmt.Fprint(app.out, "> ")
}
