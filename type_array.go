package gomodel

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/reoring/gomodel/graph"
)

// Checker is implemented by descriptors whose validation failures carry a
// more specific Issue than CodeInvalidValue.
type Checker interface {
	Check(value any, key string) error
}

// arrayType is an ordered sequence of one element type with optional
// uniqueness and ordering.
type arrayType struct {
	Base
	elem Descriptor
}

func newArrayType(f Field, key string) (Descriptor, error) {
	if f.NullAsEmpty && f.EmptyAsNull {
		return nil, conflict(key, "nullAsEmpty", "emptyAsNull")
	}
	elem, err := element(f, key)
	if err != nil {
		return nil, err
	}
	b, err := NewBase("array", f, key)
	if err != nil {
		return nil, err
	}
	return &arrayType{Base: b, elem: elem}, nil
}

// Element returns the element descriptor.
func (d *arrayType) Element() Descriptor { return d.elem }

func (d *arrayType) Prepare(value any, key string, owner *Entity) (any, error) {
	f := &d.field
	if isNull(value) {
		if f.NullAsEmpty {
			return []any{}, nil
		}
		return nil, nil
	}
	params := map[string]string{"element": d.elem.TypeAsString()}
	if ShapeOf(value) != ShapeArray {
		return nil, valueIssue(CodeInvalidArray, key, value, params)
	}
	src, _ := asSlice(value)
	out := make([]any, len(src))
	for i, it := range src {
		v, err := d.elem.Prepare(it, strconv.Itoa(i), owner)
		if err != nil {
			return nil, wrapIssue(valueIssue(CodeInvalidArray, key, value, params), err)
		}
		out[i] = v
	}
	if len(out) == 0 && f.EmptyAsNull {
		return nil, nil
	}
	switch {
	case f.Compare != nil:
		slices.SortStableFunc(out, f.Compare)
	case f.Sort:
		slices.SortStableFunc(out, defaultOrder)
	}
	return out, nil
}

// Validate adds uniqueness to the shared checks.
func (d *arrayType) Validate(value any, key string) bool {
	return d.Check(value, key) == nil
}

// Check reports enum/predicate failures before duplicates.
func (d *arrayType) Check(value any, key string) error {
	if !d.Base.Validate(value, key) {
		return valueIssue(CodeInvalidValue, key, value, nil)
	}
	if !d.field.Unique || isNull(value) {
		return nil
	}
	items, _ := asSlice(value)
	for i := 0; i < len(items); i++ {
		if isNull(items[i]) {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			if isNull(items[j]) {
				continue
			}
			if d.elem.Equal(items[i], items[j], graph.NewEqualStack()) {
				return newIssue(CodeNotUnique, key, map[string]string{
					"duplicate": Render(items[j]),
					"value":     Render(value),
				})
			}
		}
	}
	return nil
}

func (d *arrayType) Equal(a, b any, stack *graph.EqualStack) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	x, okA := asSlice(a)
	y, okB := asSlice(b)
	if !okA || !okB || ShapeOf(b) != ShapeArray || len(x) != len(y) {
		return false
	}
	if seen, ok := stack.Get(a); ok {
		return graph.Same(seen, b)
	}
	stack.Add(a, b)
	for i := range x {
		if !d.elem.Equal(x[i], y[i], stack) {
			return false
		}
	}
	return true
}

func (d *arrayType) Clone(value any, stack *graph.EqualStack) any {
	if isNull(value) {
		return nil
	}
	if c, ok := stack.Get(value); ok {
		return c
	}
	src, _ := asSlice(value)
	out := make([]any, len(src))
	stack.Add(value, out)
	for i, it := range src {
		if !isNull(it) {
			out[i] = d.elem.Clone(it, stack)
		}
	}
	return out
}

func (d *arrayType) ToJSON(value any, stack graph.Stack) (any, error) {
	if isNull(value) {
		return nil, nil
	}
	if stack.Contains(value) {
		return nil, circular()
	}
	next := stack.Push(value)
	src, _ := asSlice(value)
	out := make([]any, len(src))
	for i, it := range src {
		if isNull(it) {
			continue
		}
		j, err := d.elem.ToJSON(it, next)
		if err != nil {
			return nil, err
		}
		out[i] = j
	}
	return out, nil
}

// defaultOrder sorts nulls first, then numbers, strings, dates and
// booleans by their natural order; anything else compares by rendered form.
func defaultOrder(a, b any) int {
	ra, rb := orderRank(a), orderRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ShapeOf(a) {
	case ShapeNull:
		return 0
	case ShapeNumber:
		x, _ := toFloat(a)
		y, _ := toFloat(b)
		return cmp.Compare(x, y)
	case ShapeString:
		return cmp.Compare(stringForm(a), stringForm(b))
	case ShapeDate:
		x, _ := asTime(a)
		y, _ := asTime(b)
		return x.Compare(y)
	case ShapeBool:
		return cmp.Compare(boolRank(a), boolRank(b))
	}
	return cmp.Compare(Render(a), Render(b))
}

func orderRank(v any) int {
	switch ShapeOf(v) {
	case ShapeNull:
		return 0
	case ShapeNumber:
		return 1
	case ShapeString:
		return 2
	case ShapeDate:
		return 3
	case ShapeBool:
		return 4
	}
	return 5
}

func boolRank(v any) int {
	if b, ok := v.(bool); ok && b {
		return 1
	}
	return 0
}
