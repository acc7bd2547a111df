package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	t.Run("restores the outer effect", func(t *testing.T) {
		tr := NewTracker()
		outer := &Effect{Owner: &Owner{}}
		inner := &Effect{Owner: &Owner{}}

		tr.RunWithEffect(outer, func() {
			assert.Same(t, outer, tr.Current())
			assert.Same(t, outer.Owner, tr.CurrentOwner())

			tr.RunWithEffect(inner, func() {
				assert.Same(t, inner, tr.Current())
				assert.Equal(t, 2, tr.Depth())
			})

			assert.Same(t, outer, tr.Current())
			assert.True(t, tr.ShouldTrack())
		})

		assert.Nil(t, tr.Current())
		assert.Nil(t, tr.CurrentOwner())
		assert.False(t, tr.ShouldTrack())
	})

	t.Run("pops on panic", func(t *testing.T) {
		tr := NewTracker()

		assert.Panics(t, func() {
			tr.RunWithEffect(&Effect{Owner: &Owner{}}, func() { panic("boom") })
		})

		assert.Equal(t, 0, tr.Depth())
		assert.Nil(t, tr.Current())
	})

	t.Run("untracked runs suspend tracking", func(t *testing.T) {
		tr := NewTracker()

		tr.RunWithEffect(&Effect{Owner: &Owner{}}, func() {
			tr.RunUntracked(func() {
				assert.False(t, tr.ShouldTrack())

				tr.RunWithEffect(&Effect{Owner: &Owner{}}, func() {
					assert.True(t, tr.ShouldTrack())
				})

				assert.False(t, tr.ShouldTrack())
			})

			assert.True(t, tr.ShouldTrack())
		})
	})
}
