package internal

import (
	"iter"
)

type Owner struct {
	rt *Runtime

	// cleanup functions to be called once on the next dispose
	cleanups []func()

	// called on every dispose
	disposers []func()

	// panic handlers
	catchers []func(any)

	parent       *Owner
	prevSibling  *Owner
	nextSibling  *Owner
	childrenHead *Owner
}

// NewOwner creates an owner attached to the current owner, if any.
func (r *Runtime) NewOwner() *Owner {
	o := &Owner{rt: r}

	if parent := r.tracker.CurrentOwner(); parent != nil {
		parent.AddChild(o)
	}

	return o
}

func (o *Owner) Runtime() *Runtime { return o.rt }

// Run makes o the current owner while fn runs. A panic is handed to the
// nearest owner with error handlers, or propagates if there is none.
func (o *Owner) Run(fn func() error) (err error) {
	o.rt.Lock()
	defer o.rt.Unlock()

	defer func() {
		if r := recover(); r != nil {
			if !o.catch(r) {
				panic(r)
			}
		}
	}()

	o.rt.tracker.RunWithOwner(o, func() { err = fn() })
	return err
}

func (parent *Owner) AddChild(child *Owner) {
	child.parent = parent
	child.prevSibling = nil
	child.nextSibling = parent.childrenHead

	if parent.childrenHead != nil {
		parent.childrenHead.prevSibling = child
	}

	parent.childrenHead = child
}

// RemoveChild detaches child from its siblings.
func (parent *Owner) RemoveChild(child *Owner) {
	if child.parent != parent {
		return
	}

	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		parent.childrenHead = child.nextSibling
	}

	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	}

	child.parent = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

// Children iterates from the most recently added child.
func (o *Owner) Children() iter.Seq[*Owner] {
	return func(yield func(*Owner) bool) {
		child := o.childrenHead

		for child != nil {
			// read ahead, disposing may unlink the child
			next := child.nextSibling
			if !yield(child) {
				return
			}

			child = next
		}
	}
}

// Dispose disposes the children, then runs the dispose hooks and pending cleanups.
func (o *Owner) Dispose() {
	o.DisposeChildren()

	for _, fn := range o.disposers {
		fn()
	}

	o.RunCleanups()
}

func (o *Owner) DisposeChildren() {
	for child := range o.Children() {
		child.Dispose()
	}
	o.childrenHead = nil
}

func (o *Owner) RunCleanups() {
	// cleanups may register new cleanups, those wait for the next dispose
	cleanups := o.cleanups
	o.cleanups = nil

	for _, fn := range cleanups {
		fn()
	}
}

func (o *Owner) OnCleanup(fn func()) {
	o.cleanups = append(o.cleanups, fn)
}

func (o *Owner) OnDispose(fn func()) {
	o.disposers = append(o.disposers, fn)
}

func (o *Owner) OnError(fn func(any)) {
	o.catchers = append(o.catchers, fn)
}

// catch hands r to the closest owner, starting at o, that has error handlers.
func (o *Owner) catch(r any) bool {
	for owner := o; owner != nil; owner = owner.parent {
		if len(owner.catchers) == 0 {
			continue
		}

		for _, catcher := range owner.catchers {
			catcher(r)
		}
		return true
	}

	return false
}
