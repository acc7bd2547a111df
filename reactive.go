package reactive

import (
	"github.com/AnatoleLucet/reactive/internal"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Record is the plain data behind a reactive Object.
// Its own methods read and write without tracking.
type Record = internal.Record

// NewRecord adopts fields as a record without copying it.
func NewRecord(fields map[string]any) *Record {
	return internal.NewRecord(fields)
}

type Object struct {
	object *internal.Object
}

// Reactive makes v observable.
// Records and map[string]any values are wrapped, an Object is returned as is,
// and anything else comes back unchanged.
func Reactive(v any) any {
	switch v := v.(type) {
	case *Object:
		return v
	case *Record:
		return Wrap(v)
	case map[string]any:
		return NewReactive(v)
	default:
		return v
	}
}

// NewReactive adopts fields into a new record and wraps it.
func NewReactive(fields map[string]any) *Object {
	return Wrap(internal.NewRecord(fields))
}

// Wrap returns a reactive view of rec. Views of the same record share subscriptions.
func Wrap(rec *Record) *Object {
	return &Object{internal.GetRuntime().Wrap(rec)}
}

func wrapValue(v any) any {
	if o, ok := v.(*internal.Object); ok {
		return &Object{o}
	}

	return v
}

// Get reads key, tracking the dependency if an effect is running.
// Nested records and maps are returned as *Object.
func (o *Object) Get(key string) any {
	return wrapValue(o.object.Get(key))
}

// Set writes key, then re-runs every effect that read it.
func (o *Object) Set(key string, v any) {
	if obj, ok := v.(*Object); ok {
		v = obj.object
	}

	o.object.Set(key, v)
}

// Delete removes key, then re-runs every effect that read it.
func (o *Object) Delete(key string) {
	o.object.Delete(key)
}

// Keys returns the sorted keys of the object. Listing keys is not tracked.
func (o *Object) Keys() []string {
	rt := o.object.Runtime()
	rt.Lock()
	defer rt.Unlock()

	return o.object.Record().Keys()
}

// Record returns the underlying record.
func (o *Object) Record() *Record {
	return o.object.Record()
}

// Get reads key from o as a T. Missing keys yield the zero value.
func Get[T any](o *Object, key string) T {
	return as[T](o.Get(key))
}

// Track subscribes the running effect to key of o without reading it.
func Track(o *Object, key string) {
	o.object.Track(key)
}

// Trigger re-runs the effects subscribed to key of o without writing it.
func Trigger(o *Object, key string) {
	o.object.Trigger(key)
}

type Effect struct {
	effect *internal.Effect
}

// NewEffect runs fn once, then again whenever a property it read is written.
// Effects created while fn runs belong to it and are disposed before it re-runs.
func NewEffect(fn func()) *Effect {
	rt := internal.GetRuntime()
	rt.Lock()
	defer rt.Unlock()

	return &Effect{rt.NewEffect(fn)}
}

// Run re-runs the effect now, refreshing its dependencies.
func (e *Effect) Run() { e.effect.Run() }

// Stop disposes the effect. It will not run again.
func (e *Effect) Stop() { e.effect.Stop() }

// Stopped reports whether the effect was stopped or disposed by its owner.
func (e *Effect) Stopped() bool { return e.effect.Stopped() }

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	rt := internal.GetRuntime()
	rt.Lock()
	defer rt.Unlock()

	var result T
	rt.Untrack(func() { result = fn() })
	return result
}

// OnCleanup registers a function to be called when the current owner is disposed,
// or before the current effect re-runs.
func OnCleanup(fn func()) {
	rt := internal.GetRuntime()
	rt.Lock()
	defer rt.Unlock()

	rt.OnCleanup(fn)
}

type Owner struct {
	owner *internal.Owner
}

// NewOwner creates a new reactive owner.
// An owner manages the lifecycle of effects created within its context.
func NewOwner() *Owner {
	rt := internal.GetRuntime()
	rt.Lock()
	defer rt.Unlock()

	return &Owner{rt.NewOwner()}
}

// Run a function within the context of this owner.
// Each effect created within the function will be a child of this owner,
// and will be disposed when owner.Dispose() is called.
func (o *Owner) Run(fn func() error) error { return o.owner.Run(fn) }

// Dispose this owner and all its children.
func (o *Owner) Dispose() {
	o.locked(o.owner.Dispose)
}

// Add a cleanup function to be called ONCE when the owner is disposed.
func (o *Owner) OnCleanup(fn func()) {
	o.locked(func() { o.owner.OnCleanup(fn) })
}

// Add a function to be called when the owner is disposed (each time Dispose is called).
func (o *Owner) OnDispose(fn func()) {
	o.locked(func() { o.owner.OnDispose(fn) })
}

// Add a function to be called when a panic escapes an effect within this owner.
// If no owner up the chain has an error listener, the panic propagates as usual.
func (o *Owner) OnError(fn func(any)) {
	o.locked(func() { o.owner.OnError(fn) })
}

func (o *Owner) locked(fn func()) {
	rt := o.owner.Runtime()
	rt.Lock()
	defer rt.Unlock()

	fn()
}
