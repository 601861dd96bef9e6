package graph

import "reflect"

// Identity is the reference identity of a pointer, slice or map value.
// Two values share an Identity when mutating one is observable through the other.
type Identity struct {
	kind reflect.Kind
	ptr  uintptr
	n    int
}

// IdentityOf reports the reference identity of v. Scalars, structs and empty
// slices have no identity.
func IdentityOf(v any) (Identity, bool) {
	if v == nil {
		return Identity{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		if rv.IsNil() {
			return Identity{}, false
		}
		return Identity{kind: rv.Kind(), ptr: rv.Pointer()}, true
	case reflect.Slice:
		// all empty slices may share one backing pointer
		if rv.Len() == 0 {
			return Identity{}, false
		}
		return Identity{kind: reflect.Slice, ptr: rv.Pointer(), n: rv.Len()}, true
	default:
		return Identity{}, false
	}
}

// Same is strict identity. Reference values compare by Identity, comparable
// scalars by ==, and anything else is never the same.
func Same(a, b any) bool {
	ia, okA := IdentityOf(a)
	ib, okB := IdentityOf(b)
	if okA || okB {
		return okA && okB && ia == ib
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return safeEqual(a, b)
}

func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
