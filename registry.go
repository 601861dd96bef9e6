package gomodel

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Constructor builds a descriptor for the tag it is registered under. key is
// the schema key the descriptor is compiled for.
type Constructor func(f Field, key string) (Descriptor, error)

var registry = struct {
	sync.RWMutex
	m map[string]Constructor
}{m: map[string]Constructor{}}

func init() {
	RegisterType("string", newStringType)
	RegisterType("number", newNumberType)
	RegisterType("boolean", newBooleanType)
	RegisterType("date", newDateType)
	RegisterType("array", newArrayType)
	RegisterType("object", newObjectType)
	RegisterType("*", newAnyType)
	RegisterType("any", newAnyType)
	RegisterType("model", newModelType)
	RegisterType("collection", newCollectionType)
}

// RegisterType maps a type tag to a descriptor constructor. Registering an
// existing tag replaces it.
func RegisterType(tag string, c Constructor) {
	registry.Lock()
	defer registry.Unlock()
	registry.m[tag] = c
}

// RegisteredTypes lists the known type tags in sorted order.
func RegisteredTypes() []string {
	registry.RLock()
	defer registry.RUnlock()
	out := make([]string, 0, len(registry.m))
	for k := range registry.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func lookupType(tag string) (Constructor, bool) {
	registry.RLock()
	defer registry.RUnlock()
	c, ok := registry.m[tag]
	return c, ok
}

// Normalize turns a schema declaration into its canonical descriptor.
//
// Accepted shorthands:
//
//	"number"                        registered tag
//	"number[]"                      array of the tag
//	*EntityType                     one nested entity
//	*CollectionType                 nested container
//	[]any{elem}                     array of elem ([]any{} is an array of any)
//	map[string]any{"*": elem}       open map of elem
//	Field, *Field, Declarer         full options record
//	Descriptor                      used as is
func Normalize(decl any, key string) (Descriptor, error) {
	switch d := decl.(type) {
	case Descriptor:
		return d, nil
	case Field:
		return normalizeField(d, key)
	case *Field:
		if d == nil {
			break
		}
		return normalizeField(*d, key)
	case Declarer:
		return normalizeField(d.Declaration(), key)
	default:
		return normalizeField(Field{Type: decl}, key)
	}
	return nil, unknownType(key, decl)
}

func normalizeField(f Field, key string) (Descriptor, error) {
	switch t := f.Type.(type) {
	case nil:
		if f.Element != nil {
			return nil, unknownType(key, f.Element)
		}
		f.Type = "*"
		return construct("*", f, key)
	case string:
		if elem, ok := strings.CutSuffix(t, "[]"); ok {
			f.Type = "array"
			f.Element = elem
			return construct("array", f, key)
		}
		return construct(t, f, key)
	case *EntityType:
		f.Element = t
		return construct("model", f, key)
	case *CollectionType:
		f.Element = t
		return construct("collection", f, key)
	case []any:
		switch len(t) {
		case 0:
			f.Element = "*"
		case 1:
			f.Element = t[0]
		default:
			return nil, unknownType(key, f.Type)
		}
		return construct("array", f, key)
	case map[string]any:
		elem, ok := t["*"]
		if !ok || len(t) != 1 {
			return nil, unknownType(key, f.Type)
		}
		f.Element = elem
		return construct("object", f, key)
	}
	return nil, unknownType(key, f.Type)
}

func construct(tag string, f Field, key string) (Descriptor, error) {
	c, ok := lookupType(tag)
	if !ok {
		return nil, unknownType(key, tag)
	}
	d, err := c(f, key)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// element normalizes the element declaration of a container field; an
// absent element means any.
func element(f Field, key string) (Descriptor, error) {
	if f.Element == nil {
		return newAnyType(Field{}, key)
	}
	return Normalize(f.Element, key)
}

func unknownType(key string, decl any) error {
	v := fmt.Sprintf("%T", decl)
	if s, ok := decl.(string); ok {
		v = s
	}
	return newIssue(CodeUnknownType, key, map[string]string{"value": v})
}
