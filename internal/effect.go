package internal

import "sync/atomic"

var effectIDs atomic.Uint64

// Effect is a computation re-run whenever a (record, key) it read is written.
// It owns the effects and cleanups created while it runs.
type Effect struct {
	*Owner

	id uint64

	fn func()

	// dependencies recorded during the runs since the last prune
	deps []Dependency

	stopped bool
}

// NewEffect registers fn under the current owner and runs it once.
func (r *Runtime) NewEffect(fn func()) *Effect {
	e := &Effect{
		Owner: r.NewOwner(),
		id:    effectIDs.Add(1),
		fn:    fn,
	}

	e.OnDispose(func() {
		e.stopped = true
		r.clearDeps(e)
	})

	r.RunEffect(e)

	return e
}

func (e *Effect) ID() uint64 { return e.id }

func (e *Effect) Stopped() bool {
	e.rt.Lock()
	defer e.rt.Unlock()

	return e.stopped
}

// Deps returns the dependencies recorded for the effect.
func (e *Effect) Deps() []Dependency { return e.deps }

// Stop disposes the effect and detaches it from its owner. It never runs again.
func (e *Effect) Stop() {
	e.rt.Lock()
	defer e.rt.Unlock()

	if e.stopped {
		return
	}

	e.Dispose()

	if e.parent != nil {
		e.parent.RemoveChild(e.Owner)
	}
}

// Run re-runs the effect through the runtime, refreshing its dependencies.
func (e *Effect) Run() {
	e.rt.RunEffect(e)
}
