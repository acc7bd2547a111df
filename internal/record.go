package internal

import (
	"maps"
	"slices"
)

// Record is a plain keyed composite. It is the unit of identity for
// dependency tracking: two records holding equal fields are tracked apart.
type Record struct {
	fields map[string]any
}

// NewRecord adopts fields without copying it. A nil map yields an empty record.
func NewRecord(fields map[string]any) *Record {
	if fields == nil {
		fields = make(map[string]any)
	}

	return &Record{fields: fields}
}

func (r *Record) Load(key string) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

func (r *Record) Store(key string, v any) {
	r.fields[key] = v
}

// Remove deletes key and reports whether it was present.
func (r *Record) Remove(key string) bool {
	if _, ok := r.fields[key]; !ok {
		return false
	}

	delete(r.fields, key)
	return true
}

func (r *Record) Len() int {
	return len(r.fields)
}

// Keys returns the record's keys in sorted order.
func (r *Record) Keys() []string {
	return slices.Sorted(maps.Keys(r.fields))
}

// Map exports the record as nested plain maps.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		if child, ok := v.(*Record); ok {
			out[k] = child.Map()
			continue
		}

		out[k] = v
	}

	return out
}

// child returns the composite stored at key. A plain map found there is
// adopted into a record in place so that every later read shares its identity.
func (r *Record) child(key string) (*Record, bool) {
	switch v := r.fields[key].(type) {
	case *Record:
		return v, true
	case map[string]any:
		c := NewRecord(v)
		r.fields[key] = c
		return c, true
	default:
		return nil, false
	}
}
