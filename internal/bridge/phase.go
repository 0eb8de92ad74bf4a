package bridge

import (
	"context"
	"log/slog"
	"time"

	"assetbridge/internal/logging"
)

// Phase is the processing stage of one transfer request.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseParsing
	PhaseResolving
	PhaseExecuting
	PhaseResponding
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseParsing:
		return "parsing"
	case PhaseResolving:
		return "resolving"
	case PhaseExecuting:
		return "executing"
	case PhaseResponding:
		return "responding"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// phaseTracker records phase transitions for one request. It is owned by
// the request goroutine.
type phaseTracker struct {
	ctx     context.Context
	logger  *slog.Logger
	current Phase
	entered time.Time
	history []Phase
}

func newPhaseTracker(ctx context.Context, logger *slog.Logger) *phaseTracker {
	return &phaseTracker{
		ctx:     ctx,
		logger:  logger,
		current: PhaseIdle,
		entered: time.Now(),
		history: []Phase{PhaseIdle},
	}
}

// enter moves to next and returns a context tagged with the new phase.
// Moving backwards or staying put is ignored.
func (t *phaseTracker) enter(next Phase) context.Context {
	if next <= t.current {
		return t.ctx
	}
	now := time.Now()
	t.ctx = logging.WithPhase(t.ctx, next.String())
	logging.WithContext(t.ctx, t.logger).Debug("request phase",
		logging.String("from", t.current.String()),
		logging.Duration("in_previous", now.Sub(t.entered)),
	)
	t.current = next
	t.entered = now
	t.history = append(t.history, next)
	return t.ctx
}

func (t *phaseTracker) phases() []Phase {
	return append([]Phase(nil), t.history...)
}
