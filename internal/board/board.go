// Package board drives the display: fetch, render the result or the error,
// wait, and go again.
package board

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mini-rodalies-3d/stopboard/internal/arrivals"
	"github.com/mini-rodalies-3d/stopboard/internal/display"
	"github.com/mini-rodalies-3d/stopboard/internal/fetch"
	"github.com/mini-rodalies-3d/stopboard/internal/format"
	"github.com/mini-rodalies-3d/stopboard/internal/logger"
)

// State is a step of the poll cycle
type State int

const (
	Fetching State = iota
	RenderingSuccess
	RenderingError
	Waiting
)

func (s State) String() string {
	switch s {
	case Fetching:
		return "FETCHING"
	case RenderingSuccess:
		return "RENDERING_SUCCESS"
	case RenderingError:
		return "RENDERING_ERROR"
	case Waiting:
		return "WAITING"
	}
	return "UNKNOWN"
}

// Render modes
const (
	ModeGrouped  = "grouped"
	ModeArrivals = "arrivals"
)

// Fetcher produces one cycle's outcome
type Fetcher interface {
	FetchAll(ctx context.Context) fetch.Outcome
}

// Options is the read-only part of the configuration the board uses
type Options struct {
	// Grid is the cell arrangement; Width and Rows are the whole display.
	Grid  display.Grid
	Width int
	Rows  int

	Mode      string
	LineOrder []string

	PollInterval  time.Duration
	ErrorDisplay  time.Duration
	BlinkInterval time.Duration
}

// Board runs the poll cycle against one surface
type Board struct {
	fetcher   Fetcher
	surface   display.Surface
	indicator Indicator
	clock     Clock
	opts      Options
	logger    *zap.SugaredLogger

	state   State
	outcome fetch.Outcome
	cycle   *zap.SugaredLogger
}

// New creates a board that starts in Fetching. A nil log uses the "board"
// component logger.
func New(fetcher Fetcher, surface display.Surface, indicator Indicator, clock Clock, opts Options, log *zap.SugaredLogger) *Board {
	if log == nil {
		log = logger.ComponentLogger("board")
	}
	return &Board{
		fetcher:   fetcher,
		surface:   surface,
		indicator: indicator,
		clock:     clock,
		opts:      opts,
		logger:    log,
		state:     Fetching,
		cycle:     log,
	}
}

// State is the step the next call to Step will run
func (b *Board) State() State {
	return b.state
}

// Setup registers the custom glyphs and brings the display up blank
func (b *Board) Setup() {
	display.RegisterGlyphs(b.surface)
	b.surface.Power(true)
	b.surface.Clear()
	display.Flush(b.surface)
	b.indicator.Off()
}

// Run performs Setup and then steps forever. It only returns once ctx is
// done, with ctx's error.
func (b *Board) Run(ctx context.Context) error {
	b.Setup()
	b.logger.Infow("Board running",
		"mode", b.opts.Mode,
		"poll_interval", b.opts.PollInterval,
		"error_display", b.opts.ErrorDisplay)

	for {
		if err := b.Step(ctx); err != nil {
			return err
		}
	}
}

// Step runs the current state and advances to the next one. The only error
// is ctx's, returned when a wait is interrupted.
func (b *Board) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch b.state {
	case Fetching:
		b.fetch(ctx)
		if b.outcome.OK() {
			b.state = RenderingSuccess
		} else {
			b.state = RenderingError
		}

	case RenderingSuccess:
		b.renderSuccess()
		b.state = Waiting

	case RenderingError:
		err := b.renderError(ctx)
		b.state = Waiting
		if err != nil {
			return err
		}

	case Waiting:
		if err := b.clock.Sleep(ctx, b.opts.PollInterval); err != nil {
			return err
		}
		b.state = Fetching
	}
	return nil
}

// Cycle runs Fetching and the following render once, without waiting, and
// returns what was fetched.
func (b *Board) Cycle(ctx context.Context) fetch.Outcome {
	b.state = Fetching
	_ = b.Step(ctx)
	_ = b.Step(ctx)
	return b.outcome
}

func (b *Board) fetch(ctx context.Context) {
	b.cycle = logger.ChildLogger(b.logger, logger.FieldCycleID, uuid.NewString())

	b.indicator.On()
	b.surface.SetCursorVisible(true)
	b.surface.SetCursorBlink(true)
	display.Flush(b.surface)

	start := b.clock.Now()
	b.outcome = b.fetcher.FetchAll(ctx)

	b.surface.SetCursorBlink(false)
	b.surface.SetCursorVisible(false)
	b.indicator.Off()

	if b.outcome.OK() {
		b.cycle.Infow("Fetched arrivals",
			logger.FieldCount, len(b.outcome.Batch),
			logger.FieldDurationMS, b.clock.Now().Sub(start).Milliseconds())
	} else {
		b.cycle.Warnw("Fetch failed",
			logger.FieldSource, b.outcome.Source,
			logger.FieldError, b.outcome.Err)
	}
}

func (b *Board) renderSuccess() {
	sorted := arrivals.SortByETA(b.outcome.Batch)
	for _, a := range sorted {
		b.cycle.Debugw("Arrival",
			"line", a.Category,
			"destination", a.Destination,
			"eta", format.FormatMinutesSeconds(a.SecondsToArrival))
	}

	cells := display.Layout(Items(sorted, b.opts), b.opts.Grid)
	display.Draw(b.surface, cells)
	display.Flush(b.surface)

	b.cycle.Debugw("Rendered", logger.FieldCount, len(cells))
}

func (b *Board) renderError(ctx context.Context) error {
	b.surface.Clear()
	b.surface.MoveTo(0, 0)
	b.surface.Write(format.TruncateWithMarker(b.outcome.Message, b.opts.Width))
	if b.outcome.Diagnostic != "" && b.opts.Rows >= 2 {
		b.surface.MoveTo(0, 1)
		b.surface.Write(format.TruncateWithMarker(oneLine(b.outcome.Diagnostic), b.opts.Width))
	}
	display.Flush(b.surface)

	// Blink for the error display period
	ticks := 1
	if b.opts.BlinkInterval > 0 {
		if n := int(b.opts.ErrorDisplay / b.opts.BlinkInterval); n > ticks {
			ticks = n
		}
	}
	var err error
	for i := 0; i < ticks && err == nil; i++ {
		b.indicator.Toggle()
		err = b.clock.Sleep(ctx, b.opts.BlinkInterval)
	}

	b.indicator.Off()
	b.surface.Clear()
	display.Flush(b.surface)
	return err
}

// Items formats a batch into cell strings for the configured mode. The
// batch must already be sorted by ETA.
func Items(sorted arrivals.Batch, opts Options) []string {
	width := opts.Grid.ColumnWidth

	if opts.Mode == ModeArrivals {
		allowed := allowList(opts.LineOrder)
		items := make([]string, 0, opts.Grid.Capacity())
		for _, a := range sorted {
			if len(items) == opts.Grid.Capacity() {
				break
			}
			if allowed != nil && !allowed[a.Category] {
				continue
			}
			items = append(items, format.FormatSingleArrival(a, width))
		}
		return items
	}

	groups := arrivals.GroupByCategory(sorted, opts.LineOrder)
	items := make([]string, 0, len(groups))
	for _, g := range groups {
		items = append(items, format.FormatArrivalGroup(g.Category, g.Arrivals, width))
	}
	return items
}

func allowList(order []string) map[string]bool {
	if len(order) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(order))
	for _, c := range order {
		allowed[c] = true
	}
	return allowed
}

// oneLine collapses a diagnostic body onto a single line
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
