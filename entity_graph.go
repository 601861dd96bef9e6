package gomodel

import "github.com/reoring/gomodel/graph"

// Walk visits every entity reachable from e's fields depth first: nested
// entities, entities inside arrays and collection items. Each entity is
// visited at most once per call, e itself is never visited. fn may stop the
// whole walk with w.Exit() or skip the current subtree with w.Continue().
func (e *Entity) Walk(fn func(child *Entity, w *graph.Walker)) {
	e.WalkWith(fn, nil)
}

// WalkWith is Walk sharing a visited set with the caller: entities already in
// visited are skipped, and every entity reached (e included) is added to it.
// Passing the same set to several walks visits each entity once overall.
func (e *Entity) WalkWith(fn func(child *Entity, w *graph.Walker), visited map[*Entity]struct{}) {
	if visited == nil {
		visited = map[*Entity]struct{}{}
	}
	visited[e] = struct{}{}
	e.walk(fn, visited)
}

func (e *Entity) walk(fn func(*Entity, *graph.Walker), visited map[*Entity]struct{}) (exited bool) {
	for _, k := range e.data.keys {
		for _, child := range children(e.data.values[k]) {
			if _, ok := visited[child]; ok {
				continue
			}
			visited[child] = struct{}{}
			w := &graph.Walker{}
			fn(child, w)
			if w.IsExited() {
				return true
			}
			if w.IsContinued() {
				continue
			}
			if child.walk(fn, visited) {
				return true
			}
		}
	}
	return false
}

// children lists the entities a field value holds directly.
func children(v any) []*Entity {
	switch ShapeOf(v) {
	case ShapeEntity:
		return []*Entity{v.(*Entity)}
	case ShapeCollection:
		return v.(*Collection).Items()
	case ShapeArray:
		items, _ := asSlice(v)
		var out []*Entity
		for _, it := range items {
			if c, ok := it.(*Entity); ok && c != nil {
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

// FindChild returns the first descendant matching pred, nil when none does.
func (e *Entity) FindChild(pred func(*Entity) bool) *Entity {
	var found *Entity
	e.Walk(func(c *Entity, w *graph.Walker) {
		if pred(c) {
			found = c
			w.Exit()
		}
	})
	return found
}

// FilterChildren returns every descendant matching pred in walk order.
func (e *Entity) FilterChildren(pred func(*Entity) bool) []*Entity {
	var out []*Entity
	e.Walk(func(c *Entity, _ *graph.Walker) {
		if pred(c) {
			out = append(out, c)
		}
	})
	return out
}

// FindParent returns the nearest ancestor matching pred.
func (e *Entity) FindParent(pred func(*Entity) bool) *Entity {
	var found *Entity
	e.ascend(func(p *Entity) bool {
		if pred(p) {
			found = p
			return false
		}
		return true
	})
	return found
}

// FilterParents returns every ancestor matching pred, nearest first.
func (e *Entity) FilterParents(pred func(*Entity) bool) []*Entity {
	var out []*Entity
	e.ascend(func(p *Entity) bool {
		if pred(p) {
			out = append(out, p)
		}
		return true
	})
	return out
}

// FindParentInstance returns the nearest ancestor of type t or a subtype.
func (e *Entity) FindParentInstance(t *EntityType) *Entity {
	return e.FindParent(func(p *Entity) bool { return p.typ.IsA(t) })
}

// ascend follows the parent chain until fn returns false or a parent repeats.
func (e *Entity) ascend(fn func(*Entity) bool) {
	seen := map[*Entity]struct{}{}
	for p := e.parent; p != nil; p = p.parent {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		if !fn(p) {
			return
		}
	}
}
