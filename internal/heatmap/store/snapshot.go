// internal/heatmap/store/snapshot.go
package store

// Snapshot is an immutable keyed index over observation rows. It is
// built once before serving begins; rows never mutate afterwards, so
// concurrent lookups need no locking.
type Snapshot struct {
	rows  map[FilterKey][]ObservationRow
	total int
}

// Lookup returns the ordered row set for a key, or nil when the key
// has no observations. Callers must treat the returned slice as
// read-only.
func (s *Snapshot) Lookup(key FilterKey) []ObservationRow {
	return s.rows[key]
}

// Len returns the total number of rows across all keys.
func (s *Snapshot) Len() int {
	return s.total
}

// Keys returns the number of distinct filter keys in the snapshot.
func (s *Snapshot) Keys() int {
	return len(s.rows)
}

// Builder accumulates rows into a snapshot. Not safe for concurrent
// use; build fully before sharing the snapshot.
type Builder struct {
	rows  map[FilterKey][]ObservationRow
	total int
}

func NewBuilder() *Builder {
	return &Builder{rows: make(map[FilterKey][]ObservationRow)}
}

// Add normalizes the row and appends it to its partition, preserving
// insertion order within each key.
func (b *Builder) Add(row ObservationRow) {
	row.Normalize()
	key := row.Key()
	b.rows[key] = append(b.rows[key], row)
	b.total++
}

// Build returns the finished snapshot. The builder must not be used
// afterwards.
func (b *Builder) Build() *Snapshot {
	snap := &Snapshot{rows: b.rows, total: b.total}
	b.rows = nil
	return snap
}
