package internal

import "weak"

// Dependency is a (record, key) pair an effect read during its last run.
// The record is held weakly so an effect never keeps its sources alive.
// store is the store the subscription lives in, which belongs to the record's runtime.
type Dependency struct {
	store *Store
	rec   weak.Pointer[Record]
	key string
}

func (d Dependency) Key() string { return d.key }

// Record returns the dependency's record, or nil once it has been collected.
func (d Dependency) Record() *Record { return d.rec.Value() }
