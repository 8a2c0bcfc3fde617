package logging

import (
	"context"
	"log/slog"

	"liquid-ca/internal/sims/liquid"
)

// DiagnosticsSink logs flow counters at debug level every Every ticks.
type DiagnosticsSink struct {
	Logger *slog.Logger
	Every  uint64
}

// NewDiagnosticsSink returns a sink logging every n ticks; n <= 0 logs every tick.
func NewDiagnosticsSink(logger *slog.Logger, n int) *DiagnosticsSink {
	if n <= 0 {
		n = 1
	}
	return &DiagnosticsSink{Logger: logger, Every: uint64(n)}
}

// ObserveTick implements liquid.Diagnostics.
func (d *DiagnosticsSink) ObserveTick(s liquid.TickStats) {
	if d == nil || d.Logger == nil {
		return
	}
	if d.Every > 1 && s.Tick%d.Every != 0 {
		return
	}
	if !d.Logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	d.Logger.Debug("flow tick",
		"tick", s.Tick,
		"active", s.Current,
		"next", s.Next,
		"promoted", s.Promoted,
		"evaluated", s.Evaluated,
		"transferred", s.Transferred,
		"evaporated", s.Evaporated,
		"stale", s.Stale,
		"injected", s.Injected,
	)
}
