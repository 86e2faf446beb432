package fetch

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/mini-rodalies-3d/stopboard/internal/arrivals"
	"github.com/mini-rodalies-3d/stopboard/internal/errors"
	"github.com/mini-rodalies-3d/stopboard/internal/logger"
)

// Source yields the current arrivals for one monitored stop.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (arrivals.Batch, error)
}

// Outcome is the result of one fetch pass: either Batch, or Err with a short
// Message and optional raw Diagnostic text. Never both.
type Outcome struct {
	Batch      arrivals.Batch
	Err        error
	Source     string // the source that failed
	Message    string
	Diagnostic string
}

// OK reports whether every source succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Orchestrator queries its sources one after another.
type Orchestrator struct {
	sources []Source
	logger  *zap.SugaredLogger
}

// NewOrchestrator creates an orchestrator over sources in display order.
func NewOrchestrator(sources []Source, log *zap.SugaredLogger) *Orchestrator {
	if log == nil {
		log = logger.ComponentLogger("fetch")
	}
	return &Orchestrator{sources: sources, logger: log}
}

// FetchAll queries every source in order and merges the results. The first
// failure aborts the pass and whatever was fetched so far is discarded.
func (o *Orchestrator) FetchAll(ctx context.Context) Outcome {
	batches := make([]arrivals.Batch, 0, len(o.sources))

	for _, src := range o.sources {
		start := time.Now()
		batch, err := src.Fetch(ctx)
		if err != nil {
			o.logger.Warnw("Source fetch failed",
				logger.FieldSource, src.Name(),
				logger.FieldError, err,
				logger.FieldDurationMS, time.Since(start).Milliseconds())
			return failed(src.Name(), err)
		}

		o.logger.Debugw("Source fetched",
			logger.FieldSource, src.Name(),
			logger.FieldCount, len(batch),
			logger.FieldDurationMS, time.Since(start).Milliseconds())
		batches = append(batches, batch)
	}

	return Outcome{Batch: arrivals.Merge(batches...)}
}

func failed(source string, err error) Outcome {
	out := Outcome{
		Err:     errors.Wrapf(err, "source %s", source),
		Source:  source,
		Message: "Error: " + Cause(err),
	}
	if details := errors.GetAllDetails(err); len(details) > 0 {
		out.Diagnostic = details[0]
	}
	return out
}

// Cause is a short, display-sized description of a fetch failure.
func Cause(err error) string {
	var re *ResponseError
	if errors.As(err, &re) {
		return fmt.Sprintf("HTTP %d", re.StatusCode)
	}

	if errors.IsTransportError(err) {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return "timeout"
		}
		return "network"
	}

	if errors.IsProtocolError(err) {
		return "bad response"
	}
	return err.Error()
}
