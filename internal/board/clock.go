package board

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Clock is the board's only source of time, so tests can step cycles
// without waiting.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock is the wall clock
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Indicator is a single status light
type Indicator interface {
	On()
	Off()
	Toggle()
}

// LogIndicator stands in for a status LED on hosts without one by logging
// changes at debug level.
type LogIndicator struct {
	logger *zap.SugaredLogger
	lit    bool
}

// NewLogIndicator creates an indicator that starts off
func NewLogIndicator(log *zap.SugaredLogger) *LogIndicator {
	return &LogIndicator{logger: log}
}

func (l *LogIndicator) On()     { l.set(true) }
func (l *LogIndicator) Off()    { l.set(false) }
func (l *LogIndicator) Toggle() { l.set(!l.lit) }

// Lit reports the current state
func (l *LogIndicator) Lit() bool { return l.lit }

func (l *LogIndicator) set(on bool) {
	if on == l.lit {
		return
	}
	l.lit = on
	if l.logger != nil {
		l.logger.Debugw("Indicator", "lit", on)
	}
}
