package gomodel

import (
	"encoding/json"
	"math"
	"reflect"
	"regexp"
	"time"
)

// Shape is the closed set of input shapes descriptors branch on.
type Shape int

const (
	ShapeNull Shape = iota
	ShapeBool
	ShapeNumber
	ShapeString
	ShapeDate
	ShapePattern
	ShapeArray
	ShapeMap
	ShapeEntity
	ShapeCollection
	ShapeOther
)

var shapeNames = [...]string{"null", "boolean", "number", "string", "date", "pattern", "array", "map", "entity", "collection", "other"}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "unknown"
}

// ShapeOf classifies v.
func ShapeOf(v any) Shape {
	switch t := v.(type) {
	case nil:
		return ShapeNull
	case bool:
		return ShapeBool
	case string:
		return ShapeString
	case json.Number:
		return ShapeNumber
	case time.Time, *time.Time:
		if p, ok := t.(*time.Time); ok && p == nil {
			return ShapeNull
		}
		return ShapeDate
	case *regexp.Regexp:
		if t == nil {
			return ShapeNull
		}
		return ShapePattern
	case *Entity:
		if t == nil {
			return ShapeNull
		}
		return ShapeEntity
	case *Collection:
		if t == nil {
			return ShapeNull
		}
		return ShapeCollection
	case []any:
		if t == nil {
			return ShapeNull
		}
		return ShapeArray
	case map[string]any:
		if t == nil {
			return ShapeNull
		}
		return ShapeMap
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return ShapeNumber
	case reflect.Bool:
		return ShapeBool
	case reflect.String:
		return ShapeString
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return ShapeNull
		}
		return ShapeArray
	case reflect.Map:
		if rv.IsNil() {
			return ShapeNull
		}
		if rv.Type().Key().Kind() == reflect.String {
			return ShapeMap
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return ShapeNull
		}
	}
	return ShapeOther
}

// isNull reports nil and typed nils.
func isNull(v any) bool { return ShapeOf(v) == ShapeNull }

// toFloat reads any numeric shape as float64.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// isNaN reports NaN numbers of any float kind.
func isNaN(v any) bool {
	f, ok := toFloat(v)
	return ok && math.IsNaN(f)
}

// asSlice reads any array shape as []any. A []any is returned as is.
func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asMap reads any string-keyed map as map[string]any. A map[string]any is
// returned as is.
func asMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asTime reads time.Time and *time.Time.
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}
