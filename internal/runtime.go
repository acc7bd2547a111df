package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"weak"

	"github.com/AnatoleLucet/reactive/internal/logging"
	"github.com/AnatoleLucet/reactive/internal/metrics"
)

// ErrMaxDepth is raised (as a panic) when an effect would run deeper than the configured limit.
var ErrMaxDepth = errors.New("reactive: effect nesting exceeds max depth")

type Runtime struct {
	store   *Store
	tracker *Tracker

	logger  *slog.Logger
	metrics *metrics.Metrics

	// 0 means unlimited
	maxDepth int

	// keep subscriptions and child effects from previous runs
	keepStale bool
}

func NewRuntime() *Runtime {
	return &Runtime{
		store:   NewStore(),
		tracker: NewTracker(),
		logger:  logging.NewNop(),
	}
}

// Lock acquires the engine for the calling goroutine and makes r its current
// runtime until the matching Unlock, so effects running on another goroutine
// still create, track and clean up on the runtime they belong to.
func (r *Runtime) Lock() {
	engine.Lock()
	enterRuntime(r)
}

func (r *Runtime) Unlock() {
	leaveRuntime()
	engine.Unlock()
}

func (r *Runtime) Store() *Store     { return r.store }
func (r *Runtime) Tracker() *Tracker { return r.tracker }

func (r *Runtime) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = logging.NewNop()
	}
	r.logger = logger
}

func (r *Runtime) SetMetrics(m *metrics.Metrics) { r.metrics = m }
func (r *Runtime) SetMaxDepth(n int)             { r.maxDepth = max(n, 0) }
func (r *Runtime) SetKeepStale(keep bool)        { r.keepStale = keep }

func (r *Runtime) CurrentOwner() *Owner {
	return r.tracker.CurrentOwner()
}

func (r *Runtime) CurrentEffect() *Effect {
	return r.tracker.Current()
}

func (r *Runtime) OnCleanup(fn func()) {
	owner := r.CurrentOwner()
	if owner != nil {
		owner.OnCleanup(fn)
	}
}

func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}

// Track subscribes the calling goroutine's innermost active effect to (rec, key)
// in r's store. The effect may belong to another runtime.
// Without an active effect, or once the effect is stopped, it does nothing.
func (r *Runtime) Track(rec *Record, key string) {
	// effects only run while their runtime is current
	cur := currentRuntime()
	if cur == nil || !cur.tracker.ShouldTrack() {
		return
	}

	e := cur.tracker.Current()
	if e.stopped {
		return
	}

	if r.store.Track(rec, key, e) {
		e.deps = append(e.deps, Dependency{store: r.store, rec: weak.Make(rec), key: key})
		r.metrics.Tracked()
	}
}

// Trigger runs every effect subscribed to (rec, key), each on its own runtime.
// A panic in one effect stops the remaining ones unless an owner catches it.
func (r *Runtime) Trigger(rec *Record, key string) {
	r.metrics.Triggered()

	subs := r.store.Subscribers(rec, key)
	if len(subs) == 0 {
		return
	}

	r.logger.Debug("trigger", "key", key, "subscribers", len(subs))

	for _, e := range subs {
		e.rt.RunEffect(e)
	}
}

// RunEffect runs e as the innermost active effect so its reads are tracked against it.
func (r *Runtime) RunEffect(e *Effect) {
	r.Lock()
	defer r.Unlock()

	if e.stopped {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			r.metrics.EffectPanicked()
			r.logger.Debug("effect panicked", "effect", e.id, "panic", p)

			if !e.catch(p) {
				panic(p)
			}
		}
	}()

	depth := r.tracker.Depth()
	if r.maxDepth > 0 && depth >= r.maxDepth {
		panic(fmt.Errorf("%w (%d)", ErrMaxDepth, r.maxDepth))
	}

	if !r.keepStale {
		e.DisposeChildren()
		r.clearDeps(e)
	}
	e.RunCleanups()

	r.metrics.EffectRan(depth + 1)
	r.logger.Debug("effect run", "effect", e.id, "depth", depth+1)

	r.tracker.RunWithEffect(e, e.fn)
}

func (r *Runtime) clearDeps(e *Effect) {
	for _, dep := range e.deps {
		dep.store.Untrack(dep, e)
	}

	e.deps = nil
}
