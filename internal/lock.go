package internal

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// engine serializes every runtime. Effects of one runtime may read and write
// objects of another, so they all share a single lock.
var engine reentrantMutex

// reentrantMutex is held by one goroutine at a time, which may lock it again.
// Effects triggered from a write run while the writer still holds the lock.
type reentrantMutex struct {
	mu sync.Mutex

	owner atomic.Int64 // goroutine id of the holder, 0 when free
	depth int
}

func (m *reentrantMutex) Lock() {
	gid := goid.Get()
	if m.owner.Load() == gid {
		m.depth++
		return
	}

	m.mu.Lock()
	m.owner.Store(gid)
	m.depth = 1
}

func (m *reentrantMutex) Unlock() {
	m.depth--
	if m.depth > 0 {
		return
	}

	m.owner.Store(0)
	m.mu.Unlock()
}
