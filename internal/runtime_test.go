package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntime(t *testing.T) {
	t.Run("records dependencies on the effect", func(t *testing.T) {
		r := NewRuntime()
		rec := NewRecord(map[string]any{"a": 1, "b": 2})
		obj := r.Wrap(rec)

		e := r.NewEffect(func() {
			obj.Get("a")
			obj.Get("b")
			obj.Get("a")
		})

		deps := e.Deps()
		assert.Len(t, deps, 2)
		assert.Equal(t, "a", deps[0].Key())
		assert.Equal(t, "b", deps[1].Key())
		assert.Same(t, rec, deps[0].Record())
	})

	t.Run("effects track objects of another runtime", func(t *testing.T) {
		owner, reader := NewRuntime(), NewRuntime()
		rec := NewRecord(map[string]any{"x": 0})
		obj := owner.Wrap(rec)

		var ran []*Runtime
		e := reader.NewEffect(func() {
			obj.Get("x")
			ran = append(ran, currentRuntime())
		})

		obj.Set("x", 1)

		assert.Equal(t, []*Runtime{reader, reader}, ran)
		assert.True(t, owner.Store().Has(rec, "x"))
		assert.Equal(t, 0, reader.Store().Len())

		e.Stop()
		assert.False(t, owner.Store().Has(rec, "x"))
	})

	t.Run("a stopped effect is not subscribed again", func(t *testing.T) {
		r := NewRuntime()
		rec := NewRecord(map[string]any{"x": 0})
		obj := r.Wrap(rec)

		var e *Effect
		e = r.NewEffect(func() {
			if e != nil {
				e.Stop()
			}
			obj.Get("x")
		})

		obj.Set("x", 1)

		assert.False(t, r.Store().Has(rec, "x"))
		assert.Empty(t, e.Deps())
	})

	t.Run("track without an effect is a no-op", func(t *testing.T) {
		r := NewRuntime()
		rec := NewRecord(nil)

		r.Track(rec, "x")
		r.Trigger(rec, "x")

		assert.Equal(t, 0, r.Store().Len())
	})

	t.Run("trigger skips effects stopped by an earlier subscriber", func(t *testing.T) {
		r := NewRuntime()
		obj := r.Wrap(NewRecord(map[string]any{"x": 0}))

		runs := 0
		var a, b *Effect
		a = r.NewEffect(func() {
			obj.Get("x")
			runs++
			if b != nil {
				b.Stop()
			}
		})
		b = r.NewEffect(func() {
			obj.Get("x")
			runs++
			if runs > 2 {
				a.Stop()
			}
		})

		obj.Set("x", 1)

		// whichever runs first stops the other
		assert.Equal(t, 3, runs)
		assert.True(t, a.Stopped() != b.Stopped())
	})

	t.Run("stopping detaches from the owner", func(t *testing.T) {
		r := NewRuntime()
		owner := r.NewOwner()

		var e *Effect
		r.tracker.RunWithOwner(owner, func() {
			e = r.NewEffect(func() {})
		})
		assert.Same(t, e.Owner, owner.childrenHead)

		e.Stop()
		assert.Nil(t, owner.childrenHead)
	})
}
