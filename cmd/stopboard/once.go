package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/mini-rodalies-3d/stopboard/internal/arrivals"
	"github.com/mini-rodalies-3d/stopboard/internal/board"
	"github.com/mini-rodalies-3d/stopboard/internal/config"
	"github.com/mini-rodalies-3d/stopboard/internal/display"
	"github.com/mini-rodalies-3d/stopboard/internal/errors"
	"github.com/mini-rodalies-3d/stopboard/internal/format"
	"github.com/mini-rodalies-3d/stopboard/internal/logger"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Fetch once, print the arrivals and the rendered board",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		orch, err := buildOrchestrator(ctx, cfg)
		if err != nil {
			return err
		}
		return runOnce(ctx, cfg, orch, cmd.OutOrStdout())
	},
}

// runOnce runs a single fetch and render. On success the sorted arrivals and
// the board are printed to out; on failure the error message and diagnostic
// are, and the fetch error is returned.
func runOnce(ctx context.Context, cfg *config.Config, f board.Fetcher, out io.Writer) error {
	// Frames are printed once at the end, not on every flush
	term := display.NewTerminal(io.Discard, cfg.Display.Rows, cfg.Display.Columns)

	opts := boardOptions(cfg)
	opts.ErrorDisplay = 0
	opts.BlinkInterval = 0

	b := board.New(f, term, board.NewLogIndicator(logger.ComponentLogger("indicator")),
		board.RealClock{}, opts, logger.ComponentLogger("once"))
	b.Setup()

	outcome := b.Cycle(ctx)
	if !outcome.OK() {
		fmt.Fprintln(out, outcome.Message)
		if outcome.Diagnostic != "" {
			fmt.Fprintln(out, outcome.Diagnostic)
		}
		return errors.Wrap(outcome.Err, "fetch failed")
	}

	printArrivals(out, arrivals.SortByETA(outcome.Batch))
	fmt.Fprintln(out)
	fmt.Fprint(out, term.Render())
	return nil
}

func printArrivals(out io.Writer, sorted arrivals.Batch) {
	tbl := table.New("Line", "Destination", "Arrives")
	tbl.WithWriter(out)
	for _, a := range sorted {
		tbl.AddRow(a.Category, a.Destination, format.FormatMinutesSeconds(a.SecondsToArrival))
	}
	tbl.Print()
}
