package gomodel

import "slices"

// Snapshot is the immutable, ordered mapping from field name to value that
// represents an entity's committed state. A published Snapshot never
// changes; every successful mutation replaces it with a new one, so two
// snapshots can be compared by pointer to detect a commit.
//
// Values are handed out by reference. Arrays and maps inside a snapshot
// are shared with the entity and must be treated as read-only.
type Snapshot struct {
	keys   []string
	values map[string]any
}

func newSnapshot(keys []string, values map[string]any) *Snapshot {
	return &Snapshot{keys: keys, values: values}
}

// Get returns the value of key, nil when absent.
func (s *Snapshot) Get(key string) any {
	if s == nil {
		return nil
	}
	return s.values[key]
}

// Lookup returns the value of key and whether the key is present.
func (s *Snapshot) Lookup(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is present (its value may be null).
func (s *Snapshot) Has(key string) bool {
	_, ok := s.Lookup(key)
	return ok
}

// Keys returns the keys in snapshot order.
func (s *Snapshot) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.keys)
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Map returns a shallow copy of the values.
func (s *Snapshot) Map() map[string]any {
	out := make(map[string]any, s.Len())
	if s == nil {
		return out
	}
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Range calls fn for every key in snapshot order until fn returns false.
func (s *Snapshot) Range(fn func(key string, value any) bool) {
	if s == nil {
		return
	}
	for _, k := range s.keys {
		if !fn(k, s.values[k]) {
			return
		}
	}
}

// Changes is the ordered set of fields a committed mutation changed,
// mapped to their new values.
type Changes struct {
	*Snapshot
}

// working is the mutable candidate state of one mutation.
type working struct {
	keys   []string
	values map[string]any
}

func newWorking(from *Snapshot) *working {
	w := &working{values: make(map[string]any, from.Len())}
	if from != nil {
		w.keys = slices.Clone(from.keys)
		for k, v := range from.values {
			w.values[k] = v
		}
	}
	return w
}

func (w *working) put(key string, v any) {
	if _, ok := w.values[key]; !ok {
		w.keys = append(w.keys, key)
	}
	w.values[key] = v
}

// adoptNewKeys appends keys a hook wrote directly into values, in sorted
// order.
func (w *working) adoptNewKeys() {
	if len(w.values) == len(w.keys) {
		return
	}
	known := make(map[string]struct{}, len(w.keys))
	for _, k := range w.keys {
		known[k] = struct{}{}
	}
	var added []string
	for k := range w.values {
		if _, ok := known[k]; !ok {
			added = append(added, k)
		}
	}
	slices.Sort(added)
	w.keys = append(w.keys, added...)
}

// dropDeletedKeys removes keys a hook deleted from values.
func (w *working) dropDeletedKeys() {
	w.keys = slices.DeleteFunc(w.keys, func(k string) bool {
		_, ok := w.values[k]
		return !ok
	})
}

func (w *working) freeze() *Snapshot { return newSnapshot(w.keys, w.values) }
