package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrStopped is returned by Do when the runner loop has shut down.
var ErrStopped = errors.New("engine runner stopped")

type command struct {
	fn    func(*Engine) error
	reply chan error
}

// Runner serializes all access to one Engine on a single goroutine: the two
// periodic drivers and every command execute in the same loop, so the state
// aggregate never sees concurrent mutation and needs no locks.
type Runner struct {
	eng  *Engine
	log  *slog.Logger
	cmds chan command
	done chan struct{}
}

// NewRunner wraps an engine. Run must be called before Do is useful.
func NewRunner(eng *Engine, log *slog.Logger) *Runner {
	return &Runner{
		eng:  eng,
		log:  log,
		cmds: make(chan command),
		done: make(chan struct{}),
	}
}

// Run owns the engine until ctx is cancelled. The fast ticker drives the
// clock, production and event countdown; the slow ticker drives the market
// and event selection. Cancellation stops both tickers before returning, so
// no tick callback can ever observe post-teardown state.
func (r *Runner) Run(ctx context.Context) {
	tick := time.NewTicker(r.eng.tun.TickInterval())
	slow := time.NewTicker(r.eng.tun.SlowTickInterval())
	defer tick.Stop()
	defer slow.Stop()
	defer close(r.done)

	r.log.Debug("runner started", "session", r.eng.ID())
	for {
		select {
		case <-ctx.Done():
			r.log.Debug("runner stopped", "session", r.eng.ID())
			return
		case <-tick.C:
			r.eng.Tick()
		case <-slow.C:
			r.eng.SlowTick()
		case cmd := <-r.cmds:
			cmd.reply <- cmd.fn(r.eng)
		}
	}
}

// Do runs fn on the engine's goroutine and returns its error. It fails with
// ErrStopped once the loop has exited, and with the context error if the
// caller gives up first.
func (r *Runner) Do(ctx context.Context, fn func(*Engine) error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}
	select {
	case r.cmds <- cmd:
		return <-cmd.reply
	case <-r.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot fetches a deep state copy via the runner loop.
func (r *Runner) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := r.Do(ctx, func(e *Engine) error {
		snap = e.Snapshot()
		return nil
	})
	return snap, err
}

// Done is closed when the runner loop has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}
