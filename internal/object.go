package internal

// Object intercepts reads, writes and deletes on a record.
// Reads are tracked against the calling goroutine's active effect, writes and
// deletes trigger subscribers. Operations hold the engine lock without making
// the object's runtime current, so effects keep running where they belong.
type Object struct {
	rt  *Runtime
	rec *Record
}

// Wrap returns a reactive view of rec bound to r.
func (r *Runtime) Wrap(rec *Record) *Object {
	return &Object{rt: r, rec: rec}
}

func (o *Object) Runtime() *Runtime { return o.rt }

// Record returns the underlying record. Accessing it is not tracked.
func (o *Object) Record() *Record { return o.rec }

// Get reads key and tracks it. Composite values come back wrapped.
func (o *Object) Get(key string) any {
	engine.Lock()
	defer engine.Unlock()

	v, ok := o.rec.Load(key)
	o.rt.Track(o.rec, key)
	o.rt.logger.Debug("get", "key", key)

	if !ok {
		return nil
	}

	if child, ok := o.rec.child(key); ok {
		return o.rt.Wrap(child)
	}

	return v
}

// Set writes key, then runs the effects that read it.
// An *Object value is stored as its record.
func (o *Object) Set(key string, v any) {
	engine.Lock()
	defer engine.Unlock()

	if obj, ok := v.(*Object); ok {
		v = obj.rec
	}

	o.rec.Store(key, v)
	o.rt.logger.Debug("set", "key", key)

	o.rt.Trigger(o.rec, key)
}

// Delete removes key, then runs the effects that read it, whether or not it existed.
func (o *Object) Delete(key string) {
	engine.Lock()
	defer engine.Unlock()

	existed := o.rec.Remove(key)
	o.rt.logger.Debug("delete", "key", key, "existed", existed)

	o.rt.Trigger(o.rec, key)
}

// Track subscribes the active effect to key without reading it.
func (o *Object) Track(key string) {
	engine.Lock()
	defer engine.Unlock()

	o.rt.Track(o.rec, key)
}

// Trigger runs the effects subscribed to key without writing it.
func (o *Object) Trigger(key string) {
	engine.Lock()
	defer engine.Unlock()

	o.rt.Trigger(o.rec, key)
}
