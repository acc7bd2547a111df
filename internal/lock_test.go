package internal

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReentrantMutex(t *testing.T) {
	t.Run("same goroutine re-enters", func(t *testing.T) {
		var m reentrantMutex

		m.Lock()
		m.Lock()
		m.Unlock()
		m.Unlock()

		assert.Equal(t, int64(0), m.owner.Load())
	})

	t.Run("other goroutines wait", func(t *testing.T) {
		var m reentrantMutex
		var wg sync.WaitGroup
		log := []string{}

		m.Lock()

		locked := make(chan struct{})
		wg.Go(func() {
			close(locked)
			m.Lock()
			log = append(log, "other")
			m.Unlock()
		})

		<-locked
		log = append(log, "holder")
		m.Unlock()

		wg.Wait()

		assert.Equal(t, []string{"holder", "other"}, log)
	})
}

func TestGetRuntime(t *testing.T) {
	t.Run("one runtime per goroutine", func(t *testing.T) {
		own := GetRuntime()
		assert.Same(t, own, GetRuntime())

		var other *Runtime
		var wg sync.WaitGroup
		wg.Go(func() { other = GetRuntime() })
		wg.Wait()

		assert.NotSame(t, own, other)
	})

	t.Run("a locked runtime is current", func(t *testing.T) {
		own := GetRuntime()
		foreign := NewRuntime()

		foreign.Lock()
		assert.Same(t, foreign, GetRuntime())
		foreign.Unlock()

		assert.Same(t, own, GetRuntime())
	})

	t.Run("release forgets the runtime", func(t *testing.T) {
		own := GetRuntime()
		ReleaseRuntime()

		assert.NotSame(t, own, GetRuntime())
	})
}
