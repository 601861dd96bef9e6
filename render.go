package gomodel

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/reoring/gomodel/codec"
	"github.com/reoring/gomodel/graph"
)

// Render formats a value for error messages: JSON for data, NaN/Infinity for
// non-finite numbers, /pattern/ for patterns. Cycles render as "[Circular]".
func Render(v any) string {
	switch ShapeOf(v) {
	case ShapeNumber:
		f, _ := toFloat(v)
		switch {
		case math.IsNaN(f):
			return "NaN"
		case math.IsInf(f, 1):
			return "Infinity"
		case math.IsInf(f, -1):
			return "-Infinity"
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case ShapePattern:
		return "/" + v.(*regexp.Regexp).String() + "/"
	}
	b, err := codec.Marshal(plain(v, nil))
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// plain converts v into JSON-safe data for rendering. Unlike ToJSON it never
// fails: cycles and non-finite numbers are replaced.
func plain(v any, stack graph.Stack) any {
	switch ShapeOf(v) {
	case ShapeNull:
		return nil
	case ShapeNumber:
		f, _ := toFloat(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case ShapeDate:
		t, _ := asTime(v)
		return codec.FormatTime(t)
	case ShapePattern:
		return "/" + v.(*regexp.Regexp).String() + "/"
	case ShapeEntity:
		e := v.(*Entity)
		if stack.Contains(e) {
			return "[Circular]"
		}
		next := stack.Push(e)
		out := map[string]any{}
		e.data.Range(func(k string, fv any) bool {
			out[k] = plain(fv, next)
			return true
		})
		return out
	case ShapeCollection:
		c := v.(*Collection)
		if stack.Contains(c) {
			return "[Circular]"
		}
		next := stack.Push(c)
		out := make([]any, 0, c.Len())
		for _, e := range c.items {
			out = append(out, plain(e, next))
		}
		return out
	case ShapeArray:
		if stack.Contains(v) {
			return "[Circular]"
		}
		next := stack.Push(v)
		s, _ := asSlice(v)
		out := make([]any, len(s))
		for i, it := range s {
			out[i] = plain(it, next)
		}
		return out
	case ShapeMap:
		if stack.Contains(v) {
			return "[Circular]"
		}
		next := stack.Push(v)
		m, _ := asMap(v)
		out := make(map[string]any, len(m))
		for k, it := range m {
			out[k] = plain(it, next)
		}
		return out
	case ShapeOther:
		return fmt.Sprint(v)
	}
	return v
}
