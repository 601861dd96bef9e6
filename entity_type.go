package gomodel

// EntityType declares a kind of entity: its name, its schema and its
// entity-level hooks. Types are created once with Define or Extend and
// compared by pointer.
type EntityType struct {
	name   string
	base   *EntityType
	schema func() Schema

	prepare     func(*Entity, map[string]any) error
	validate    func(*Entity, *Snapshot) error
	prepareJSON func(*Entity, map[string]any)
}

// TypeOption configures an EntityType.
type TypeOption func(*EntityType)

// WithPrepare installs a hook that may adjust the merged candidate values of
// a mutation before they are diffed. When present every field value is
// prepared again after the hook runs. Declared fields cannot be removed:
// deleting one from values sets it to null, which is then prepared and
// checked like any other null (defaults do not apply, required fails).
// Deleting a wildcard key removes it from the snapshot.
func WithPrepare(fn func(e *Entity, values map[string]any) error) TypeOption {
	return func(t *EntityType) { t.prepare = fn }
}

// WithValidate installs a hook that checks a fully merged candidate
// snapshot. An error aborts the mutation. While it runs, e.Data() is still
// the previous committed snapshot.
func WithValidate(fn func(e *Entity, candidate *Snapshot) error) TypeOption {
	return func(t *EntityType) { t.validate = fn }
}

// WithPrepareJSON installs a hook that shapes the JSON projection.
func WithPrepareJSON(fn func(e *Entity, json map[string]any)) TypeOption {
	return func(t *EntityType) { t.prepareJSON = fn }
}

// Define declares an entity type. schema is evaluated lazily on first
// compilation, so it may refer to types declared later or to t itself.
func Define(name string, schema func() Schema, opts ...TypeOption) *EntityType {
	t := &EntityType{name: name, schema: schema}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Extend declares a subtype of base. Its schema is base's schema merged with
// schema (which may be nil); hooks are inherited unless opts override them.
func Extend(base *EntityType, name string, schema func() Schema, opts ...TypeOption) *EntityType {
	t := &EntityType{
		name:        name,
		base:        base,
		schema:      schema,
		prepare:     base.prepare,
		validate:    base.validate,
		prepareJSON: base.prepareJSON,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Name returns the declared name.
func (t *EntityType) Name() string { return t.name }

// Base returns the extended type, nil for root types.
func (t *EntityType) Base() *EntityType { return t.base }

// IsA reports whether t is other or extends it.
func (t *EntityType) IsA(other *EntityType) bool {
	for c := t; c != nil; c = c.base {
		if c == other {
			return true
		}
	}
	return false
}

// Compile forces schema compilation and reports declaration errors.
func (t *EntityType) Compile() error {
	_, err := compiledFor(t)
	return err
}

// Fields returns the declared field names in lexical order, plus "*" when a
// wildcard entry is declared.
func (t *EntityType) Fields() ([]string, error) {
	s, err := compiledFor(t)
	if err != nil {
		return nil, err
	}
	out := append([]string(nil), s.keys...)
	if s.wildcard != nil {
		out = append(out, Wildcard)
	}
	return out, nil
}

// Descriptor returns the compiled descriptor of key (or of the wildcard
// entry), nil when the key is not declared.
func (t *EntityType) Descriptor(key string) (Descriptor, error) {
	s, err := compiledFor(t)
	if err != nil {
		return nil, err
	}
	return s.descriptor(key), nil
}

// declarations merges the schemas of the base chain, root first. declared
// is false when no type in the chain has a schema.
func (t *EntityType) declarations() (Schema, bool) {
	var chain []*EntityType
	for c := t; c != nil; c = c.base {
		chain = append(chain, c)
	}
	out := Schema{}
	declared := false
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].schema == nil {
			continue
		}
		declared = true
		for k, v := range chain[i].schema() {
			out[k] = v
		}
	}
	return out, declared
}

// New constructs an entity from data. See Entity for the construction rules.
func (t *EntityType) New(data map[string]any) (*Entity, error) {
	return newEntity(t, data)
}

// MustNew is New that panics on error, for package-level fixtures.
func (t *EntityType) MustNew(data map[string]any) *Entity {
	e, err := t.New(data)
	if err != nil {
		panic(err)
	}
	return e
}

func (t *EntityType) String() string { return t.name }
