package internal

type Tracker struct {
	tracking bool

	currentOwner *Owner    // for lifecycle/cleanup tracking
	effects      []*Effect // active effects, innermost last
}

func NewTracker() *Tracker {
	return &Tracker{
		tracking: true,
	}
}

func (t *Tracker) RunWithOwner(owner *Owner, fn func()) {
	prev := t.currentOwner
	t.currentOwner = owner
	defer func() { t.currentOwner = prev }()

	fn()
}

// RunWithEffect makes e the innermost active effect for the duration of fn.
// The previous effect, owner and tracking state are restored even if fn panics.
func (t *Tracker) RunWithEffect(e *Effect, fn func()) {
	prevOwner := t.currentOwner
	prevTracking := t.tracking

	t.currentOwner = e.Owner
	t.tracking = true
	t.effects = append(t.effects, e)

	defer func() {
		t.effects[len(t.effects)-1] = nil
		t.effects = t.effects[:len(t.effects)-1]
		t.currentOwner = prevOwner
		t.tracking = prevTracking
	}()

	fn()
}

func (t *Tracker) RunUntracked(fn func()) {
	prev := t.tracking
	t.tracking = false
	defer func() { t.tracking = prev }()

	fn()
}

// Current returns the innermost active effect, or nil.
func (t *Tracker) Current() *Effect {
	if len(t.effects) == 0 {
		return nil
	}

	return t.effects[len(t.effects)-1]
}

func (t *Tracker) CurrentOwner() *Owner {
	return t.currentOwner
}

// Depth is the number of effects currently executing.
func (t *Tracker) Depth() int {
	return len(t.effects)
}

func (t *Tracker) ShouldTrack() bool {
	return len(t.effects) > 0 && t.tracking
}
