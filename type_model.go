package gomodel

import (
	"fmt"

	"github.com/reoring/gomodel/graph"
)

// modelType holds one nested entity of a declared type (or a type extending
// it). Raw maps are constructed into new entities.
type modelType struct {
	Base
	typ *EntityType
}

func newModelType(f Field, key string) (Descriptor, error) {
	t, ok := f.Element.(*EntityType)
	if !ok || t == nil {
		return nil, newIssue(CodeUnknownType, key, map[string]string{"value": fmt.Sprintf("model of %T", f.Element)})
	}
	b, err := NewBase(t.Name(), f, key)
	if err != nil {
		return nil, err
	}
	return &modelType{Base: b, typ: t}, nil
}

// EntityType returns the declared entity type.
func (d *modelType) EntityType() *EntityType { return d.typ }

func (d *modelType) Prepare(value any, key string, _ *Entity) (any, error) {
	params := map[string]string{"type": d.typ.Name()}
	switch ShapeOf(value) {
	case ShapeNull:
		return nil, nil
	case ShapeEntity:
		e := value.(*Entity)
		if !e.typ.IsA(d.typ) {
			return nil, valueIssue(CodeInvalidModel, key, value, params)
		}
		return e, nil
	case ShapeMap:
		m, _ := asMap(value)
		e, err := d.typ.New(m)
		if err != nil {
			return nil, wrapIssue(valueIssue(CodeInvalidModel, key, value, params), err)
		}
		return e, nil
	}
	return nil, valueIssue(CodeInvalidModel, key, value, params)
}

func (d *modelType) Equal(a, b any, stack *graph.EqualStack) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	e, ok := a.(*Entity)
	if !ok {
		return false
	}
	if seen, ok := stack.Get(e); ok {
		return graph.Same(seen, b)
	}
	stack.Add(e, b)
	return e.EqualWith(b, stack)
}

func (d *modelType) Clone(value any, stack *graph.EqualStack) any {
	e, ok := value.(*Entity)
	if !ok || e == nil {
		return nil
	}
	return e.CloneWith(stack)
}

func (d *modelType) ToJSON(value any, stack graph.Stack) (any, error) {
	e, ok := value.(*Entity)
	if !ok || e == nil {
		return nil, nil
	}
	return e.ToJSONWith(stack)
}

// collectionType holds one nested collection of a declared type. Arrays are
// wrapped into new collections.
type collectionType struct {
	Base
	typ *CollectionType
}

func newCollectionType(f Field, key string) (Descriptor, error) {
	if f.NullAsEmpty && f.EmptyAsNull {
		return nil, conflict(key, "nullAsEmpty", "emptyAsNull")
	}
	t, ok := f.Element.(*CollectionType)
	if !ok || t == nil {
		return nil, newIssue(CodeUnknownType, key, map[string]string{"value": fmt.Sprintf("collection of %T", f.Element)})
	}
	b, err := NewBase("collection "+t.Name(), f, key)
	if err != nil {
		return nil, err
	}
	return &collectionType{Base: b, typ: t}, nil
}

// CollectionType returns the declared collection type.
func (d *collectionType) CollectionType() *CollectionType { return d.typ }

func (d *collectionType) Prepare(value any, key string, _ *Entity) (any, error) {
	f := &d.field
	params := map[string]string{"type": d.typ.Name()}
	switch ShapeOf(value) {
	case ShapeNull:
		if !f.NullAsEmpty {
			return nil, nil
		}
		value = []any{}
	case ShapeCollection:
		c := value.(*Collection)
		if c.typ != d.typ {
			return nil, valueIssue(CodeInvalidCollection, key, value, params)
		}
		return c, nil
	case ShapeArray:
	default:
		return nil, valueIssue(CodeInvalidCollection, key, value, params)
	}
	items, _ := asSlice(value)
	c, err := d.typ.New(items)
	if err != nil {
		return nil, wrapIssue(valueIssue(CodeInvalidCollection, key, value, params), err)
	}
	if f.EmptyAsNull && c.Len() == 0 {
		return nil, nil
	}
	return c, nil
}

func (d *collectionType) Equal(a, b any, stack *graph.EqualStack) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	c, ok := a.(*Collection)
	if !ok {
		return false
	}
	return c.EqualWith(b, stack)
}

func (d *collectionType) Clone(value any, stack *graph.EqualStack) any {
	c, ok := value.(*Collection)
	if !ok || c == nil {
		return nil
	}
	return c.CloneWith(stack)
}

func (d *collectionType) ToJSON(value any, stack graph.Stack) (any, error) {
	c, ok := value.(*Collection)
	if !ok || c == nil {
		return nil, nil
	}
	return c.ToJSONWith(stack)
}
