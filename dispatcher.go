// Package sitepub provides command dispatch and executor registration.
package sitepub

import (
	"context"
	"log/slog"

	"github.com/releasekit/sitepub/errors"
)

// ExecutorFunc performs one command against a backend. The dispatcher passes
// itself to the executor so composite executors can issue further commands
// through the same seam, whichever backend is active.
type ExecutorFunc func(ctx context.Context, d *Dispatcher, cmd Command) (any, error)

// Dispatcher routes each command to the executor registered for its kind.
//
// A dispatcher is bound to one executor set as a whole: (*AWS).Dispatcher
// drives real AWS, (*Fake).Dispatcher the in-memory simulation. Swapping one
// for the other changes no caller code. Dispatch is synchronous and returns
// only after the command, and everything it issued internally, completes.
type Dispatcher struct {
	executors map[Kind]ExecutorFunc
	logger    *slog.Logger
}

// NewDispatcher returns a dispatcher with no executors registered. Most
// callers want (*AWS).Dispatcher or (*Fake).Dispatcher instead; this
// constructor exists for assembling custom executor sets.
func NewDispatcher(opts ...Option) *Dispatcher {
	options := defaultOptions()
	applyOptions(options, opts)

	return &Dispatcher{
		executors: make(map[Kind]ExecutorFunc),
		logger:    options.logger,
	}
}

// Register binds an executor to a command kind, replacing any previous
// registration for that kind.
func (d *Dispatcher) Register(kind Kind, fn ExecutorFunc) {
	d.executors[kind] = fn
}

// Dispatch validates cmd, looks up the executor for its kind, and runs it.
//
// The result's dynamic type depends on the command: ListKeys yields []string,
// UpdateErrorPage string, ReadKey []byte, everything else nil. An unregistered
// kind fails with ErrUnsupportedCommand; a malformed command fails with
// ErrInvalidCommand. Executor errors propagate unchanged in kind.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (any, error) {
	if cmd == nil {
		return nil, errors.NewError("Dispatch", errors.ErrInvalidCommand).
			WithMessage("command is nil")
	}

	kind := cmd.Kind()
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	fn, ok := d.executors[kind]
	if !ok {
		return nil, errors.NewError(string(kind), errors.ErrUnsupportedCommand).
			WithMessage("no executor registered")
	}

	if d.logger != nil {
		d.logger.DebugContext(ctx, "dispatching command", "kind", string(kind))
	}

	result, err := fn(ctx, d, cmd)
	if err != nil {
		if d.logger != nil {
			d.logger.ErrorContext(ctx, "command failed",
				"kind", string(kind),
				"error", err)
		}
		return nil, err
	}

	return result, nil
}
