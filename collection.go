package gomodel

import (
	"strconv"
	"sync"

	"github.com/reoring/gomodel/codec"
	"github.com/reoring/gomodel/graph"
)

// CollectionType declares an ordered container of entities of one type.
type CollectionType struct {
	name string
	elem func() *EntityType

	once sync.Once
	desc *modelType
	err  error
}

// DefineCollection declares a collection type. elem is resolved lazily so a
// collection may hold the entity type that declares it.
func DefineCollection(name string, elem func() *EntityType) *CollectionType {
	return &CollectionType{name: name, elem: elem}
}

// Name returns the declared name.
func (t *CollectionType) Name() string { return t.name }

// Element returns the element entity type.
func (t *CollectionType) Element() *EntityType { return t.elem() }

func (t *CollectionType) String() string { return t.name }

func (t *CollectionType) element() (*modelType, error) {
	t.once.Do(func() {
		d, err := newModelType(Field{Element: t.elem()}, t.name)
		if err != nil {
			t.err = err
			return
		}
		t.desc = d.(*modelType)
	})
	return t.desc, t.err
}

// New builds a collection from raw records or entities of the element type.
func (t *CollectionType) New(items []any) (*Collection, error) {
	c := &Collection{typ: t, items: make([]*Entity, 0, len(items))}
	for i, it := range items {
		e, err := c.prepare(it, i)
		if err != nil {
			return nil, err
		}
		c.items = append(c.items, e)
	}
	return c, nil
}

// MustNew is New that panics on error.
func (t *CollectionType) MustNew(items []any) *Collection {
	c, err := t.New(items)
	if err != nil {
		panic(err)
	}
	return c
}

// Collection is an ordered, homogeneous list of entities. Every element went
// through the nested-entity rules of the element type.
type Collection struct {
	typ    *CollectionType
	items  []*Entity
	parent *Entity
}

func (c *Collection) prepare(v any, i int) (*Entity, error) {
	d, err := c.typ.element()
	if err != nil {
		return nil, err
	}
	key := strconv.Itoa(i)
	if isNull(v) {
		return nil, valueIssue(CodeInvalidModel, key, v, map[string]string{"type": d.typ.Name()})
	}
	p, err := d.Prepare(v, key, c.parent)
	if err != nil {
		return nil, err
	}
	return p.(*Entity), nil
}

// adopt makes owner the parent of the collection and of its items.
func (c *Collection) adopt(owner *Entity) {
	c.parent = owner
	for _, e := range c.items {
		e.parent = owner
	}
}

// Type returns the collection type.
func (c *Collection) Type() *CollectionType { return c.typ }

// Parent returns the entity holding the collection.
func (c *Collection) Parent() *Entity { return c.parent }

func (c *Collection) Len() int { return len(c.items) }

// At returns the i-th entity, nil when out of range.
func (c *Collection) At(i int) *Entity {
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.items[i]
}

// Items returns a copy of the element list.
func (c *Collection) Items() []*Entity {
	return append([]*Entity(nil), c.items...)
}

// Set replaces the i-th element with v after coercion.
func (c *Collection) Set(i int, v any) error {
	if i < 0 || i >= len(c.items) {
		return newIssue(CodeIndexOutOfRange, strconv.Itoa(i), map[string]string{
			"index": strconv.Itoa(i),
			"len":   strconv.Itoa(len(c.items)),
		})
	}
	e, err := c.prepare(v, i)
	if err != nil {
		return err
	}
	e.parent = c.parent
	c.items[i] = e
	return nil
}

// Push appends vs after coercion. Nothing is appended if any fails.
func (c *Collection) Push(vs ...any) error {
	add := make([]*Entity, 0, len(vs))
	for j, v := range vs {
		e, err := c.prepare(v, len(c.items)+j)
		if err != nil {
			return err
		}
		add = append(add, e)
	}
	for _, e := range add {
		e.parent = c.parent
	}
	c.items = append(c.items, add...)
	return nil
}

// ForEach calls fn for every element.
func (c *Collection) ForEach(fn func(e *Entity, i int)) {
	for i, e := range c.items {
		fn(e, i)
	}
}

// Map returns fn applied to every element.
func (c *Collection) Map(fn func(e *Entity, i int) any) []any {
	out := make([]any, len(c.items))
	for i, e := range c.items {
		out[i] = fn(e, i)
	}
	return out
}

// Filter returns the elements matching pred.
func (c *Collection) Filter(pred func(e *Entity, i int) bool) []*Entity {
	var out []*Entity
	for i, e := range c.items {
		if pred(e, i) {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the first element matching pred, nil when none does.
func (c *Collection) Find(pred func(e *Entity, i int) bool) *Entity {
	if i := c.FindIndex(pred); i >= 0 {
		return c.items[i]
	}
	return nil
}

// FindIndex returns the index of the first element matching pred, or -1.
func (c *Collection) FindIndex(pred func(e *Entity, i int) bool) int {
	for i, e := range c.items {
		if pred(e, i) {
			return i
		}
	}
	return -1
}

// FlatMap maps every element and flattens returned []any one level deep.
func (c *Collection) FlatMap(fn func(e *Entity, i int) any) []any {
	var out []any
	for i, e := range c.items {
		r := fn(e, i)
		if s, ok := r.([]any); ok {
			out = append(out, s...)
			continue
		}
		out = append(out, r)
	}
	return out
}

// ToJSON projects every element.
func (c *Collection) ToJSON() ([]any, error) { return c.ToJSONWith(nil) }

// ToJSONWith projects the collection given the ancestors being serialized.
func (c *Collection) ToJSONWith(stack graph.Stack) ([]any, error) {
	if stack.Contains(c) {
		return nil, circular()
	}
	next := stack.Push(c)
	out := make([]any, len(c.items))
	for i, e := range c.items {
		j, err := e.ToJSONWith(next)
		if err != nil {
			return nil, err
		}
		out[i] = j
	}
	return out, nil
}

// MarshalJSON encodes the JSON projection.
func (c *Collection) MarshalJSON() ([]byte, error) {
	v, err := c.ToJSON()
	if err != nil {
		return nil, err
	}
	return codec.Marshal(v)
}

// Clone deep-copies the collection and its elements.
func (c *Collection) Clone() *Collection { return c.CloneWith(graph.NewEqualStack()) }

// CloneWith clones through a shared guard table.
func (c *Collection) CloneWith(stack *graph.EqualStack) *Collection {
	if cl, ok := stack.Get(c); ok {
		return cl.(*Collection)
	}
	out := &Collection{typ: c.typ, items: make([]*Entity, len(c.items))}
	stack.Add(c, out)
	for i, e := range c.items {
		out.items[i] = e.CloneWith(stack)
	}
	return out
}

// Equal compares element-wise with another collection or a []any of
// records.
func (c *Collection) Equal(other any) bool { return c.EqualWith(other, graph.NewEqualStack()) }

// EqualWith is Equal through a shared guard table.
func (c *Collection) EqualWith(other any, stack *graph.EqualStack) bool {
	var items []any
	switch o := other.(type) {
	case *Collection:
		if o == nil {
			return false
		}
		items = make([]any, len(o.items))
		for i, e := range o.items {
			items[i] = e
		}
	default:
		s, ok := asSlice(other)
		if !ok || isNull(other) {
			return false
		}
		items = s
	}
	if len(items) != len(c.items) {
		return false
	}
	d, err := c.typ.element()
	if err != nil {
		return false
	}
	for i, e := range c.items {
		if !d.Equal(e, items[i], stack) {
			return false
		}
	}
	return true
}
