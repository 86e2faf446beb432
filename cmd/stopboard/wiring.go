package main

import (
	"context"
	"io"
	"time"

	"github.com/mini-rodalies-3d/stopboard/internal/board"
	"github.com/mini-rodalies-3d/stopboard/internal/config"
	"github.com/mini-rodalies-3d/stopboard/internal/display"
	"github.com/mini-rodalies-3d/stopboard/internal/errors"
	"github.com/mini-rodalies-3d/stopboard/internal/fetch"
	"github.com/mini-rodalies-3d/stopboard/internal/logger"
	"github.com/mini-rodalies-3d/stopboard/internal/realtime/gtfsrt"
	"github.com/mini-rodalies-3d/stopboard/internal/realtime/tfl"
	"github.com/mini-rodalies-3d/stopboard/internal/static"
	"github.com/mini-rodalies-3d/stopboard/internal/static/gtfs"
)

// Feeds run to tens of megabytes
const staticDownloadTimeout = 5 * time.Minute

// buildSources creates one source per configured stop, in order
func buildSources(ctx context.Context, cfg *config.Config, client fetch.Client) ([]fetch.Source, error) {
	var lookup gtfsrt.Lookup
	if cfg.GTFSRT.StaticGTFSPath != "" && hasKind(cfg, config.KindGTFSRT) {
		if idx := loadStatic(ctx, cfg); idx != nil {
			lookup = idx
		}
	}

	sources := make([]fetch.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		switch s.Kind {
		case config.KindTfL:
			sources = append(sources, tfl.NewSource(client, cfg.API.BaseURL, s.ID, cfg.API.AppKey, cfg.API.UserAgent))
		case config.KindGTFSRT:
			sources = append(sources, gtfsrt.NewSource(client, cfg.GTFSRT.TripUpdatesURL, s.ID, cfg.API.UserAgent, lookup))
		default:
			return nil, errors.Mark(errors.Newf("unknown source kind %q", s.Kind), errors.ErrInvalidConfig)
		}
	}
	return sources, nil
}

// loadStatic refreshes the static feed if a URL is configured and indexes
// it. Failures are logged and leave route ids unnamed.
func loadStatic(ctx context.Context, cfg *config.Config) *gtfs.Index {
	log := logger.ComponentLogger("main")

	if cfg.GTFSRT.StaticGTFSURL != "" {
		r := static.NewRefresher(cfg.GTFSRT.StaticGTFSURL, cfg.GTFSRT.StaticGTFSPath,
			cfg.GTFSRT.StaticRefreshDays, cfg.API.UserAgent, staticDownloadTimeout)
		if _, err := r.RefreshIfStale(ctx); err != nil {
			log.Warnw("Static GTFS refresh failed, using existing copy", logger.FieldError, err)
		}
	}

	idx, err := gtfs.Load(cfg.GTFSRT.StaticGTFSPath)
	if err != nil {
		log.Warnw("Static GTFS unavailable, showing route ids", logger.FieldError, err)
		return nil
	}
	return idx
}

func buildOrchestrator(ctx context.Context, cfg *config.Config) (*fetch.Orchestrator, error) {
	sources, err := buildSources(ctx, cfg, fetch.NewHTTPClient(cfg.RequestTimeout()))
	if err != nil {
		return nil, err
	}
	return fetch.NewOrchestrator(sources, logger.ComponentLogger("fetch")), nil
}

// buildSurface returns the terminal emulation when enabled, otherwise a
// headless buffer
func buildSurface(cfg *config.Config, out io.Writer) display.Surface {
	if cfg.Display.Terminal {
		return display.NewTerminal(out, cfg.Display.Rows, cfg.Display.Columns)
	}
	return display.NewBuffer(cfg.Display.Rows, cfg.Display.Columns)
}

func boardOptions(cfg *config.Config) board.Options {
	return board.Options{
		Grid: display.Grid{
			Rows:        cfg.Display.Rows,
			Columns:     cfg.Display.GridColumns,
			ColumnWidth: cfg.Display.ColumnWidth,
		},
		Width:         cfg.Display.Columns,
		Rows:          cfg.Display.Rows,
		Mode:          cfg.Display.Mode,
		LineOrder:     cfg.Display.LineOrder,
		PollInterval:  cfg.PollInterval(),
		ErrorDisplay:  cfg.ErrorDisplay(),
		BlinkInterval: cfg.BlinkInterval(),
	}
}

func hasKind(cfg *config.Config, kind string) bool {
	for _, s := range cfg.Sources {
		if s.Kind == kind {
			return true
		}
	}
	return false
}
