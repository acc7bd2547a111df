package reactive

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwner(t *testing.T) {
	t.Run("runs function and disposes", func(t *testing.T) {
		log := []string{}

		o := NewOwner()

		o.Run(func() error {
			NewEffect(func() {
				log = append(log, "effect")

				OnCleanup(func() { log = append(log, "cleanup") })
			})

			return nil
		})

		log = append(log, "ran")
		o.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{
			"effect",
			"ran",
			"cleanup",
			"disposed",
		}, log)
	})

	t.Run("returns the function error", func(t *testing.T) {
		err := NewOwner().Run(func() error {
			return errors.New("oops")
		})

		assert.EqualError(t, err, "oops")
	})

	t.Run("nested owners", func(t *testing.T) {
		log := []string{}

		o := NewOwner()
		o.OnDispose(func() {
			log = append(log, "parent disposed")
		})

		o.Run(func() error {
			NewOwner().OnDispose(func() {
				log = append(log, "child disposed")
			})

			return nil
		})

		o.Dispose()

		assert.Equal(t, []string{
			"child disposed",
			"parent disposed",
		}, log)
	})

	t.Run("sibling effects disposal order", func(t *testing.T) {
		log := []string{}

		o := NewOwner()

		o.Run(func() error {
			OnCleanup(func() {
				log = append(log, "cleanup")
			})

			NewEffect(func() {
				log = append(log, "running first")

				NewEffect(func() {
					log = append(log, "running nested")
					OnCleanup(func() { log = append(log, "cleanup nested") })
				})

				OnCleanup(func() { log = append(log, "cleanup first") })
			})

			NewEffect(func() {
				log = append(log, "running second")
				OnCleanup(func() { log = append(log, "cleanup second") })
			})

			return nil
		})

		log = append(log, "ran")
		o.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{
			"running first",
			"running nested",
			"running second",
			"ran",
			"cleanup second",
			"cleanup nested",
			"cleanup first",
			"cleanup",
			"disposed",
		}, log)
	})

	t.Run("catches panics with OnError", func(t *testing.T) {
		log := []string{}

		o := NewOwner()
		o.OnError(func(err any) {
			log = append(log, fmt.Sprintf("caught %v", err))
		})

		state := NewReactive(map[string]any{"err": nil})

		o.Run(func() error {
			// should propagate if owner has no error listener
			NewOwner().Run(func() error {
				NewEffect(func() {
					if err := Get[error](state, "err"); err != nil {
						panic(err)
					}
				})

				return nil
			})

			return nil
		})

		// check if panic in effects are caught
		state.Set("err", errors.New("oops"))

		assert.Equal(t, []string{
			"caught oops",
		}, log)
	})

	t.Run("caught panics let other subscribers run", func(t *testing.T) {
		caught := 0
		healthy := 0

		state := NewReactive(map[string]any{"x": 0})

		o := NewOwner()
		o.OnError(func(any) { caught++ })

		o.Run(func() error {
			NewEffect(func() {
				if Get[int](state, "x") > 0 {
					panic("broken subscriber")
				}
			})

			return nil
		})

		NewEffect(func() {
			state.Get("x")
			healthy++
		})

		state.Set("x", 1)

		assert.Equal(t, 1, caught)
		assert.Equal(t, 2, healthy)
	})

	t.Run("uncaught panics propagate to the writer", func(t *testing.T) {
		state := NewReactive(map[string]any{"x": 0})

		NewEffect(func() {
			if Get[int](state, "x") > 0 {
				panic("broken subscriber")
			}
		})

		assert.PanicsWithValue(t, "broken subscriber", func() {
			state.Set("x", 1)
		})
	})

	t.Run("disposal prevents effect re-runs", func(t *testing.T) {
		log := []int{}

		o := NewOwner()

		state := NewReactive(map[string]any{"count": 0})

		o.Run(func() error {
			NewEffect(func() {
				log = append(log, Get[int](state, "count"))
			})

			return nil
		})

		state.Set("count", 1)
		o.Dispose()

		// this should not trigger the effect
		state.Set("count", 2)

		assert.Equal(t, []int{0, 1}, log)
	})

	t.Run("disposal during effect execution", func(t *testing.T) {
		log := []int{}

		o := NewOwner()

		state := NewReactive(map[string]any{"count": 0, "dispose": false})

		NewEffect(func() {
			if Get[bool](state, "dispose") {
				o.Dispose()
			}
		})

		o.Run(func() error {
			NewEffect(func() {
				log = append(log, Get[int](state, "count"))
			})

			return nil
		})

		state.Set("dispose", true)
		state.Set("count", 1)

		assert.Equal(t, []int{0}, log)
	})

	t.Run("owner can be reused after dispose", func(t *testing.T) {
		log := []string{}

		o := NewOwner()

		o.Run(func() error {
			OnCleanup(func() { log = append(log, "first") })
			return nil
		})
		o.Dispose()

		o.Run(func() error {
			OnCleanup(func() { log = append(log, "second") })
			return nil
		})
		o.Dispose()

		assert.Equal(t, []string{"first", "second"}, log)
	})
}
