package gomodel

import (
	"math"
	"reflect"
	"regexp"

	"github.com/reoring/gomodel/codec"
	"github.com/reoring/gomodel/graph"
)

// anyType accepts every value unchanged. Equality, cloning and JSON
// projection are structural over the whole value graph.
type anyType struct {
	Base
}

func newAnyType(f Field, key string) (Descriptor, error) {
	b, err := NewBase("*", f, key)
	if err != nil {
		return nil, err
	}
	return &anyType{Base: b}, nil
}

func (d *anyType) Prepare(value any, _ string, _ *Entity) (any, error) {
	if isNull(value) {
		return nil, nil
	}
	return value, nil
}

func (d *anyType) Equal(a, b any, stack *graph.EqualStack) bool { return anyEqual(a, b, stack) }

func (d *anyType) Clone(value any, stack *graph.EqualStack) any { return anyClone(value, stack) }

func (d *anyType) ToJSON(value any, stack graph.Stack) (any, error) { return anyToJSON(value, stack) }

// anyEqual is deep structural equality. A revisited array pair is equal only
// when it is the very pair seen before; a revisited map or entity is assumed
// equal (finite degenerate cycles are equal to themselves).
func anyEqual(a, b any, stack *graph.EqualStack) bool {
	sa, sb := ShapeOf(a), ShapeOf(b)
	if sa != sb {
		return false
	}
	switch sa {
	case ShapeNull:
		return true
	case ShapeNumber:
		x, _ := toFloat(a)
		y, _ := toFloat(b)
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	case ShapeString:
		return reflect.ValueOf(a).String() == reflect.ValueOf(b).String()
	case ShapeBool:
		return reflect.ValueOf(a).Bool() == reflect.ValueOf(b).Bool()
	case ShapeDate:
		x, _ := asTime(a)
		y, _ := asTime(b)
		return x.Equal(y)
	case ShapePattern:
		return a.(*regexp.Regexp).String() == b.(*regexp.Regexp).String()
	case ShapeArray:
		x, _ := asSlice(a)
		y, _ := asSlice(b)
		if len(x) != len(y) {
			return false
		}
		if seen, ok := stack.Get(a); ok {
			return graph.Same(seen, b)
		}
		stack.Add(a, b)
		for i := range x {
			if !anyEqual(x[i], y[i], stack) {
				return false
			}
		}
		return true
	case ShapeMap:
		if _, ok := stack.Get(a); ok {
			return true
		}
		stack.Add(a, b)
		x, _ := asMap(a)
		y, _ := asMap(b)
		if len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !anyEqual(v, w, stack) {
				return false
			}
		}
		return true
	case ShapeEntity:
		if _, ok := stack.Get(a); ok {
			return true
		}
		stack.Add(a, b)
		return a.(*Entity).EqualWith(b, stack)
	case ShapeCollection:
		return a.(*Collection).EqualWith(b, stack)
	}
	return graph.Same(a, b)
}

// anyClone deep-copies arrays and maps and delegates to entities and
// collections. The guard table maps each source node to its clone so cycles
// and shared substructure keep their topology.
func anyClone(v any, stack *graph.EqualStack) any {
	switch ShapeOf(v) {
	case ShapeNull:
		return nil
	case ShapeArray:
		if c, ok := stack.Get(v); ok {
			return c
		}
		src, _ := asSlice(v)
		out := make([]any, len(src))
		stack.Add(v, out)
		for i, it := range src {
			out[i] = anyClone(it, stack)
		}
		return out
	case ShapeMap:
		if c, ok := stack.Get(v); ok {
			return c
		}
		src, _ := asMap(v)
		out := make(map[string]any, len(src))
		stack.Add(v, out)
		for k, it := range src {
			out[k] = anyClone(it, stack)
		}
		return out
	case ShapeEntity:
		return v.(*Entity).CloneWith(stack)
	case ShapeCollection:
		return v.(*Collection).CloneWith(stack)
	}
	return v
}

// Projector is implemented by values that know their own JSON projection.
// Wildcard fields delegate to it.
type Projector interface {
	ToJSON() (any, error)
}

type marshaler interface {
	MarshalJSON() ([]byte, error)
}

// anyToJSON projects v into plain JSON data. Dates become ISO strings,
// entities, collections and Projectors project themselves, other
// json.Marshaler values are encoded and decoded back into plain data, and an
// array or map that is its own ancestor fails with CodeCircular.
func anyToJSON(v any, stack graph.Stack) (any, error) {
	if p, ok := v.(Projector); ok && !isNull(v) {
		return p.ToJSON()
	}
	switch ShapeOf(v) {
	case ShapeNull:
		return nil, nil
	case ShapeNumber:
		f, _ := toFloat(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, nil
		}
		return f, nil
	case ShapeDate:
		t, _ := asTime(v)
		return codec.FormatTime(t), nil
	case ShapePattern:
		return v.(*regexp.Regexp).String(), nil
	case ShapeEntity:
		return v.(*Entity).ToJSONWith(stack)
	case ShapeCollection:
		return v.(*Collection).ToJSONWith(stack)
	case ShapeArray:
		if stack.Contains(v) {
			return nil, circular()
		}
		next := stack.Push(v)
		src, _ := asSlice(v)
		out := make([]any, len(src))
		for i, it := range src {
			j, err := anyToJSON(it, next)
			if err != nil {
				return nil, err
			}
			out[i] = j
		}
		return out, nil
	case ShapeMap:
		if stack.Contains(v) {
			return nil, circular()
		}
		next := stack.Push(v)
		src, _ := asMap(v)
		out := make(map[string]any, len(src))
		for k, it := range src {
			j, err := anyToJSON(it, next)
			if err != nil {
				return nil, err
			}
			out[k] = j
		}
		return out, nil
	case ShapeOther:
		if m, ok := v.(marshaler); ok {
			b, err := m.MarshalJSON()
			if err != nil {
				return nil, err
			}
			return codec.DecodeJSON(b)
		}
	}
	return v, nil
}

func circular() error { return newIssue(CodeCircular, "", nil) }
