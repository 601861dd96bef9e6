package gomodel

import (
	"sort"

	"github.com/reoring/gomodel/codec"
	"github.com/reoring/gomodel/graph"
)

// Entity holds an always-valid, immutable Snapshot of data shaped by its
// EntityType. State only changes through Set, which either commits a new
// snapshot in full or leaves the current one untouched.
//
// Construction seeds every declared field with its prepared default, injects
// null for absent required fields so the required check fires uniformly, and
// then runs the mutation pipeline once with const protection suspended.
//
// An Entity is not safe for concurrent use.
type Entity struct {
	typ    *EntityType
	schema *compiledSchema
	data   *Snapshot
	parent *Entity

	primaryValue any
	initializing bool
	listeners    map[string][]ChangeHandler
}

type setOptions struct {
	onlyValidate bool
	skipRequired bool
}

// SetOption configures one call to Set.
type SetOption func(*setOptions)

// OnlyValidate runs the whole pipeline without committing or notifying.
func OnlyValidate() SetOption {
	return func(o *setOptions) { o.onlyValidate = true }
}

func newEntity(t *EntityType, data map[string]any) (*Entity, error) {
	s, err := compiledFor(t)
	if err != nil {
		return nil, err
	}
	e := &Entity{typ: t, schema: s}

	defaults := &working{values: make(map[string]any, len(s.keys))}
	for _, k := range s.keys {
		d := s.fields[k]
		v, err := d.Prepare(d.Default(), k, e)
		if err != nil {
			return nil, err
		}
		defaults.put(k, v)
	}
	e.data = defaults.freeze()
	e.syncPrimary()
	e.attach(e.data.values)

	patch := make(map[string]any, len(data)+len(s.keys))
	for k, v := range data {
		patch[k] = v
	}
	for _, k := range s.keys {
		if _, ok := patch[k]; !ok && optionsOf(s.fields[k]).Required {
			patch[k] = nil
		}
	}

	e.initializing = true
	err = e.set(patch, setOptions{})
	e.initializing = false
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Type returns the entity type.
func (e *Entity) Type() *EntityType { return e.typ }

// Data returns the committed snapshot.
func (e *Entity) Data() *Snapshot { return e.data }

// Get returns the committed value of key.
func (e *Entity) Get(key string) any { return e.data.Get(key) }

// Parent returns the enclosing entity, nil for roots.
func (e *Entity) Parent() *Entity { return e.parent }

// PrimaryKey returns the name of the primary field, "" when none is declared.
func (e *Entity) PrimaryKey() string { return e.schema.primaryKey }

// PrimaryValue mirrors the committed value of the primary field.
func (e *Entity) PrimaryValue() any { return e.primaryValue }

// HasProperty reports whether key is present in the snapshot.
func (e *Entity) HasProperty(key string) bool { return e.data.Has(key) }

// HasValue reports whether key holds a non-null value.
func (e *Entity) HasValue(key string) bool { return !isNull(e.data.Get(key)) }

// Description returns the descriptor that governs key: the declared field,
// else the wildcard entry, else nil.
func (e *Entity) Description(key string) Descriptor { return e.schema.descriptor(key) }

// Set applies a partial record through the mutation pipeline.
func (e *Entity) Set(patch map[string]any, opts ...SetOption) error {
	var o setOptions
	for _, fn := range opts {
		fn(&o)
	}
	return e.set(patch, o)
}

// SetValue is Set with a single field.
func (e *Entity) SetValue(key string, value any) error {
	return e.set(map[string]any{key: value}, setOptions{})
}

// IsValid probes patch without side effects. Required fields are not
// enforced, so partial patches can be checked ahead of time.
func (e *Entity) IsValid(patch map[string]any) bool { return e.Probe(patch) == nil }

// Probe is IsValid returning the rejection.
func (e *Entity) Probe(patch map[string]any) error {
	return e.set(patch, setOptions{onlyValidate: true, skipRequired: true})
}

func (e *Entity) set(patch map[string]any, o setOptions) error {
	err := e.apply(patch, o)
	if err != nil && !o.onlyValidate {
		logger().Debug("mutation rejected", "type", e.typ.Name(), "error", err)
	}
	return err
}

func (e *Entity) apply(patch map[string]any, o setOptions) error {
	old := e.data
	w := newWorking(old)

	incoming := make([]string, 0, len(patch))
	for k := range patch {
		incoming = append(incoming, k)
	}
	sort.Strings(incoming)

	for _, k := range incoming {
		d, err := e.resolve(k)
		if err != nil {
			return err
		}
		v, err := d.Prepare(patch[k], k, e)
		if err != nil {
			return err
		}
		if err := check(d, v, k); err != nil {
			return err
		}
		w.put(k, v)
	}

	custom := e.typ.prepare != nil
	if custom {
		if err := e.typ.prepare(e, w.values); err != nil {
			return err
		}
		// a deleted declared field becomes null, see WithPrepare
		for _, k := range e.schema.keys {
			if _, ok := w.values[k]; !ok {
				w.values[k] = nil
			}
		}
		w.dropDeletedKeys()
		w.adoptNewKeys()
	}

	changes := &working{values: map[string]any{}}
	for _, k := range w.keys {
		d, err := e.resolve(k)
		if err != nil {
			return err
		}
		nv := w.values[k]
		if custom {
			if nv, err = d.Prepare(nv, k, e); err != nil {
				return err
			}
		}
		ov, had := old.Lookup(k)
		changed := !had || !(graph.Same(ov, nv) || d.Equal(ov, nv, graph.NewEqualStack()))
		if changed && optionsOf(d).Const && !e.initializing {
			return newIssue(CodeConst, k, nil)
		}
		if isNull(nv) && optionsOf(d).Required && !o.skipRequired {
			return newIssue(CodeRequired, k, nil)
		}
		if changed {
			changes.put(k, nv)
			w.values[k] = nv
		} else {
			w.values[k] = ov
		}
	}

	if len(changes.keys) == 0 {
		return nil
	}

	candidate := w.freeze()
	if e.typ.validate != nil {
		if err := e.typ.validate(e, candidate); err != nil {
			return err
		}
	}
	if o.onlyValidate {
		return nil
	}

	e.data = candidate
	e.syncPrimary()
	e.attach(changes.values)
	e.emit(old, Changes{changes.freeze()})
	return nil
}

// attach makes e the parent of the entities and collections held by
// committed values, looking through arrays and maps.
func (e *Entity) attach(values map[string]any) {
	seen := map[graph.Identity]struct{}{}
	var visit func(v any)
	visit = func(v any) {
		switch t := v.(type) {
		case *Entity:
			if t != nil {
				t.parent = e
			}
			return
		case *Collection:
			if t != nil {
				t.adopt(e)
			}
			return
		case []any, map[string]any:
			id, ok := graph.IdentityOf(v)
			if !ok {
				return
			}
			if _, dup := seen[id]; dup {
				return
			}
			seen[id] = struct{}{}
		}
		switch t := v.(type) {
		case []any:
			for _, it := range t {
				visit(it)
			}
		case map[string]any:
			for _, it := range t {
				visit(it)
			}
		}
	}
	for _, v := range values {
		visit(v)
	}
}

// resolve finds the descriptor for an incoming key.
func (e *Entity) resolve(key string) (Descriptor, error) {
	if d, ok := e.schema.fields[key]; ok {
		return d, nil
	}
	wc := e.schema.wildcard
	if wc == nil {
		return nil, newIssue(CodeUnknownKey, key, nil)
	}
	if kv, ok := wc.(keyValidator); ok && !kv.ValidateKey(key) {
		return nil, newIssue(CodeInvalidKey, key, nil)
	}
	return wc, nil
}

// check runs descriptor validation on a prepared value.
func check(d Descriptor, v any, key string) error {
	if c, ok := d.(Checker); ok {
		return c.Check(v, key)
	}
	if !d.Validate(v, key) {
		return valueIssue(CodeInvalidValue, key, v, nil)
	}
	return nil
}

func (e *Entity) syncPrimary() {
	if e.schema.primaryKey != "" {
		e.primaryValue = e.data.Get(e.schema.primaryKey)
	}
}

// ToJSON projects the entity into plain JSON data.
func (e *Entity) ToJSON() (map[string]any, error) { return e.ToJSONWith(nil) }

// ToJSONWith projects the entity given the chain of ancestors already being
// serialized. An entity that is its own ancestor fails with CodeCircular.
func (e *Entity) ToJSONWith(stack graph.Stack) (map[string]any, error) {
	if stack.Contains(e) {
		return nil, circular()
	}
	next := stack.Push(e)
	out := make(map[string]any, e.data.Len())
	var err error
	e.data.Range(func(k string, v any) bool {
		if isNull(v) {
			out[k] = nil
			return true
		}
		var j any
		if j, err = e.schema.descriptor(k).ToJSON(v, next); err != nil {
			return false
		}
		out[k] = j
		return true
	})
	if err != nil {
		return nil, err
	}
	if e.typ.prepareJSON != nil {
		e.typ.prepareJSON(e, out)
	}
	return out, nil
}

// MarshalJSON encodes the JSON projection.
func (e *Entity) MarshalJSON() ([]byte, error) {
	m, err := e.ToJSON()
	if err != nil {
		return nil, err
	}
	return codec.Marshal(m)
}

// Clone deep-copies the entity. The clone has no parent and no listeners.
func (e *Entity) Clone() *Entity { return e.CloneWith(graph.NewEqualStack()) }

// CloneWith clones through a guard table shared with an enclosing clone, so
// a node reached twice maps to one clone.
func (e *Entity) CloneWith(stack *graph.EqualStack) *Entity {
	if c, ok := stack.Get(e); ok {
		return c.(*Entity)
	}
	c := &Entity{typ: e.typ, schema: e.schema}
	stack.Add(e, c)
	w := &working{values: make(map[string]any, e.data.Len())}
	e.data.Range(func(k string, v any) bool {
		if !isNull(v) {
			v = e.schema.descriptor(k).Clone(v, stack)
		}
		w.put(k, v)
		return true
	})
	c.data = w.freeze()
	c.syncPrimary()
	return c
}

// Equal compares the entity field by field with another entity or a plain
// record.
func (e *Entity) Equal(other any) bool { return e.EqualWith(other, graph.NewEqualStack()) }

// EqualWith is Equal through a guard table shared with an enclosing
// comparison.
func (e *Entity) EqualWith(other any, stack *graph.EqualStack) bool {
	var lookup func(string) (any, bool)
	var keys []string
	switch o := other.(type) {
	case *Entity:
		if o == nil {
			return false
		}
		lookup = o.data.Lookup
		keys = o.data.keys
	default:
		m, ok := asMap(other)
		if !ok || isNull(other) {
			return false
		}
		lookup = func(k string) (any, bool) { v, ok := m[k]; return v, ok }
		for k := range m {
			keys = append(keys, k)
		}
	}
	equal := true
	e.data.Range(func(k string, v any) bool {
		ov, _ := lookup(k)
		equal = e.schema.descriptor(k).Equal(v, ov, stack)
		return equal
	})
	if !equal {
		return false
	}
	for _, k := range keys {
		if !e.data.Has(k) {
			return false
		}
	}
	return true
}

func (e *Entity) String() string { return e.typ.Name() + Render(e) }
