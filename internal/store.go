package internal

import (
	"maps"
	"runtime"
	"slices"
	"sync"
	"weak"
)

type subscribers map[*Effect]struct{}

// Store maps record -> key -> subscribed effects.
//
// Records are keyed weakly: once a record is unreachable from the
// application its whole entry is dropped by a cleanup hook.
type Store struct {
	// guards targets against the cleanup goroutine, the runtime lock covers the rest
	mu sync.Mutex

	targets map[weak.Pointer[Record]]map[string]subscribers
}

func NewStore() *Store {
	return &Store{
		targets: make(map[weak.Pointer[Record]]map[string]subscribers),
	}
}

// Track subscribes e to (rec, key) and reports whether it was not subscribed yet.
func (s *Store) Track(rec *Record, key string, e *Effect) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ptr := weak.Make(rec)

	deps, ok := s.targets[ptr]
	if !ok {
		deps = make(map[string]subscribers)
		s.targets[ptr] = deps

		// the target map is kept until collection so this runs once per record
		runtime.AddCleanup(rec, s.forget, ptr)
	}

	subs, ok := deps[key]
	if !ok {
		subs = make(subscribers)
		deps[key] = subs
	}

	if _, ok := subs[e]; ok {
		return false
	}

	subs[e] = struct{}{}
	return true
}

// Untrack removes e from the subscribers of dep.
func (s *Store) Untrack(dep Dependency, e *Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deps, ok := s.targets[dep.rec]
	if !ok {
		return
	}

	subs, ok := deps[dep.key]
	if !ok {
		return
	}

	delete(subs, e)
	if len(subs) == 0 {
		delete(deps, dep.key)
	}
}

// Subscribers returns a snapshot of the effects subscribed to (rec, key), in no particular order.
func (s *Store) Subscribers(rec *Record, key string) []*Effect {
	s.mu.Lock()
	defer s.mu.Unlock()

	deps, ok := s.targets[weak.Make(rec)]
	if !ok {
		return nil
	}

	subs, ok := deps[key]
	if !ok {
		return nil
	}

	return slices.Collect(maps.Keys(subs))
}

// Has reports whether any effect is subscribed to (rec, key).
func (s *Store) Has(rec *Record, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	deps, ok := s.targets[weak.Make(rec)]
	if !ok {
		return false
	}

	return len(deps[key]) > 0
}

// Len returns the number of records with an entry in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.targets)
}

func (s *Store) forget(ptr weak.Pointer[Record]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.targets, ptr)
}
