package gomodel

import (
	"sort"

	"github.com/reoring/gomodel/graph"
)

// objectType is an open map whose entries all share one element type.
type objectType struct {
	Base
	elem Descriptor
}

func newObjectType(f Field, key string) (Descriptor, error) {
	if f.NullAsEmpty && f.EmptyAsNull {
		return nil, conflict(key, "nullAsEmpty", "emptyAsNull")
	}
	elem, err := element(f, key)
	if err != nil {
		return nil, err
	}
	b, err := NewBase("object", f, key)
	if err != nil {
		return nil, err
	}
	return &objectType{Base: b, elem: elem}, nil
}

// Element returns the entry descriptor.
func (d *objectType) Element() Descriptor { return d.elem }

func (d *objectType) Prepare(value any, key string, owner *Entity) (any, error) {
	f := &d.field
	if isNull(value) {
		if f.NullAsEmpty {
			return map[string]any{}, nil
		}
		return nil, nil
	}
	src, ok := asMap(value)
	if !ok || ShapeOf(value) != ShapeMap {
		return nil, valueIssue(CodeInvalidObject, key, value, nil)
	}
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(src))
	for _, k := range keys {
		v, err := d.elem.Prepare(src[k], k, owner)
		if err != nil {
			outer := valueIssueMessage(CodeInvalidObject, msgInvalidObjectEntry, key, value, map[string]string{"element": d.elem.TypeAsString()})
			return nil, wrapIssue(outer, err)
		}
		out[k] = v
	}
	if f.EmptyAsNull && len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (d *objectType) Equal(a, b any, stack *graph.EqualStack) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	x, okA := asMap(a)
	y, okB := asMap(b)
	if !okA || !okB {
		return false
	}
	if _, seen := stack.Get(a); seen {
		return true
	}
	stack.Add(a, b)
	if len(x) != len(y) {
		return false
	}
	for k, v := range x {
		w, ok := y[k]
		if !ok || !d.elem.Equal(v, w, stack) {
			return false
		}
	}
	return true
}

func (d *objectType) Clone(value any, stack *graph.EqualStack) any {
	if isNull(value) {
		return nil
	}
	if c, ok := stack.Get(value); ok {
		return c
	}
	src, _ := asMap(value)
	out := make(map[string]any, len(src))
	stack.Add(value, out)
	for k, v := range src {
		if isNull(v) {
			out[k] = nil
			continue
		}
		out[k] = d.elem.Clone(v, stack)
	}
	return out
}

func (d *objectType) ToJSON(value any, stack graph.Stack) (any, error) {
	if isNull(value) {
		return nil, nil
	}
	if stack.Contains(value) {
		return nil, circular()
	}
	next := stack.Push(value)
	src, _ := asMap(value)
	out := make(map[string]any, len(src))
	for k, v := range src {
		if isNull(v) {
			out[k] = nil
			continue
		}
		j, err := d.elem.ToJSON(v, next)
		if err != nil {
			return nil, err
		}
		out[k] = j
	}
	return out, nil
}
