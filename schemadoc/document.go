package schemadoc

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	gomodel "github.com/reoring/gomodel"
	"github.com/reoring/gomodel/dsl"
)

// Document is the set of types and collections declared by one schema
// document. Types are resolved by name; compilation is lazy, as for types
// declared in code.
type Document struct {
	types       map[string]*gomodel.EntityType
	collections map[string]*gomodel.CollectionType
	schemas     map[string]gomodel.Schema
}

type typeDecl struct {
	extends string
	fields  map[string]any
}

// Load reads and parses the schema document at path. The format follows the
// file extension.
func Load(path string) (*Document, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemadoc: %w", err)
	}
	return Parse(data, f)
}

// Parse declares the types of a schema document. Malformed declarations
// (unknown options, bad patterns, unknown base or element types, extends
// cycles) are reported here; type-level errors such as conflicting options
// surface when a type is compiled.
func Parse(data []byte, f Format) (*Document, error) {
	raw, err := decode(data, f)
	if err != nil {
		return nil, err
	}
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, docError("document", "top level must be a map")
	}
	for k := range root {
		if k != "types" && k != "collections" {
			return nil, docError("document", "unknown section "+k)
		}
	}

	decls, err := typeDecls(root["types"])
	if err != nil {
		return nil, err
	}
	d := &Document{
		types:       map[string]*gomodel.EntityType{},
		collections: map[string]*gomodel.CollectionType{},
		schemas:     map[string]gomodel.Schema{},
	}
	for _, name := range sortedKeys(decls) {
		if _, err := d.declare(name, decls, map[string]bool{}); err != nil {
			return nil, err
		}
	}
	if err := d.declareCollections(root["collections"]); err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(decls) {
		s, err := d.schema(name, decls[name].fields)
		if err != nil {
			return nil, err
		}
		d.schemas[name] = s
	}
	return d, nil
}

func typeDecls(v any) (map[string]typeDecl, error) {
	out := map[string]typeDecl{}
	if v == nil {
		return out, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, docError("types", "must be a map of type declarations")
	}
	for name, it := range m {
		body, ok := it.(map[string]any)
		if !ok {
			return nil, docError(name, "type declaration must be a map")
		}
		var td typeDecl
		for k, bv := range body {
			switch k {
			case "extends":
				s, ok := bv.(string)
				if !ok {
					return nil, docError(name, "extends must be a type name")
				}
				td.extends = s
			case "fields":
				fm, ok := bv.(map[string]any)
				if !ok && bv != nil {
					return nil, docError(name, "fields must be a map")
				}
				td.fields = fm
			default:
				return nil, docError(name, "unknown type option "+k)
			}
		}
		out[name] = td
	}
	return out, nil
}

// declare creates the entity type for name after its base chain.
func (d *Document) declare(name string, decls map[string]typeDecl, visiting map[string]bool) (*gomodel.EntityType, error) {
	if t, ok := d.types[name]; ok {
		return t, nil
	}
	if visiting[name] {
		return nil, docError(name, "extends cycle")
	}
	visiting[name] = true
	schema := func() gomodel.Schema { return d.schemas[name] }
	td := decls[name]
	var t *gomodel.EntityType
	if td.extends == "" {
		t = gomodel.Define(name, schema)
	} else {
		if _, ok := decls[td.extends]; !ok {
			return nil, docError(name, "unknown base type "+td.extends)
		}
		base, err := d.declare(td.extends, decls, visiting)
		if err != nil {
			return nil, err
		}
		t = gomodel.Extend(base, name, schema)
	}
	d.types[name] = t
	return t, nil
}

func (d *Document) declareCollections(v any) error {
	if v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return docError("collections", "must be a map of collection names to type names")
	}
	for name, it := range m {
		elem, ok := it.(string)
		if !ok {
			return docError(name, "collection element must be a type name")
		}
		t, ok := d.types[elem]
		if !ok {
			return docError(name, "unknown element type "+elem)
		}
		if _, clash := d.types[name]; clash {
			return docError(name, "name is used by a type and a collection")
		}
		d.collections[name] = gomodel.DefineCollection(name, func() *gomodel.EntityType { return t })
	}
	return nil
}

func (d *Document) schema(typeName string, fields map[string]any) (gomodel.Schema, error) {
	out := make(gomodel.Schema, len(fields))
	for k, v := range fields {
		decl, err := d.field(typeName, k, v)
		if err != nil {
			return nil, err
		}
		out[k] = decl
	}
	return out, nil
}

// ref resolves a type reference. Unknown names are passed through as tags
// and checked when the type compiles.
func (d *Document) ref(name string) any {
	if elem, ok := strings.CutSuffix(name, "[]"); ok {
		return []any{d.ref(elem)}
	}
	if t, ok := d.types[name]; ok {
		return t
	}
	if c, ok := d.collections[name]; ok {
		return c
	}
	return name
}

func (d *Document) field(typeName, key string, v any) (any, error) {
	switch t := v.(type) {
	case string:
		return d.ref(t), nil
	case nil:
		return gomodel.Field{}, nil
	case map[string]any:
		return d.options(typeName, key, t)
	}
	return nil, docError(typeName, fmt.Sprintf("field %s: expected a type name or an options map", key))
}

func (d *Document) options(typeName, key string, m map[string]any) (gomodel.Field, error) {
	var f gomodel.Field
	fail := func(format string, args ...any) (gomodel.Field, error) {
		return gomodel.Field{}, docError(typeName, "field "+key+": "+fmt.Sprintf(format, args...))
	}
	for _, opt := range sortedKeys(m) {
		v := m[opt]
		var err error
		switch opt {
		case "type":
			s, ok := v.(string)
			if !ok {
				return fail("type must be a string")
			}
			f.Type = d.ref(s)
		case "of":
			if f.Element, err = d.field(typeName, key, v); err != nil {
				return gomodel.Field{}, err
			}
		case "default":
			f.Default = v
		case "generate":
			switch v {
			case "uuid":
				f.Default = dsl.UUID
			case "now":
				f.Default = dsl.Now
			default:
				return fail("unknown generator %v", v)
			}
		case "enum":
			list, ok := v.([]any)
			if !ok {
				return fail("enum must be a list")
			}
			f.Enum = list
		case "pattern", "key":
			s, ok := v.(string)
			if !ok {
				return fail("%s must be a string", opt)
			}
			re, err := regexp.Compile(s)
			if err != nil {
				return fail("%s: %v", opt, err)
			}
			if opt == "pattern" {
				f.Validate = re
			} else {
				f.Key = re
			}
		case "description":
			s, ok := v.(string)
			if !ok {
				return fail("description must be a string")
			}
			f.Description = s
		case "round", "floor", "ceil":
			n, ok := digits(v)
			if !ok {
				return fail("%s must be an integer", opt)
			}
			switch opt {
			case "round":
				f.Round = gomodel.Digits(n)
			case "floor":
				f.Floor = gomodel.Digits(n)
			default:
				f.Ceil = gomodel.Digits(n)
			}
		default:
			flag, known := flags(&f)[opt]
			if !known {
				return fail("unknown option %s", opt)
			}
			b, ok := v.(bool)
			if !ok {
				return fail("%s must be a boolean", opt)
			}
			*flag = b
		}
	}
	if f.Type == nil && f.Element != nil {
		f.Type = "array"
	}
	return f, nil
}

func flags(f *gomodel.Field) map[string]*bool {
	return map[string]*bool{
		"required":    &f.Required,
		"const":       &f.Const,
		"primary":     &f.Primary,
		"unique":      &f.Unique,
		"sort":        &f.Sort,
		"nullAsEmpty": &f.NullAsEmpty,
		"emptyAsNull": &f.EmptyAsNull,
		"nullAsZero":  &f.NullAsZero,
		"zeroAsNull":  &f.ZeroAsNull,
		"nullAsFalse": &f.NullAsFalse,
		"falseAsNull": &f.FalseAsNull,
		"trim":        &f.Trim,
		"lower":       &f.Lower,
		"upper":       &f.Upper,
		"normalize":   &f.Normalize,
	}
}

func digits(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// Type returns the declared entity type name.
func (d *Document) Type(name string) (*gomodel.EntityType, bool) {
	t, ok := d.types[name]
	return t, ok
}

// Collection returns the declared collection type name.
func (d *Document) Collection(name string) (*gomodel.CollectionType, bool) {
	c, ok := d.collections[name]
	return c, ok
}

// TypeNames lists declared entity types in lexical order.
func (d *Document) TypeNames() []string { return sortedKeys(d.types) }

// CollectionNames lists declared collections in lexical order.
func (d *Document) CollectionNames() []string { return sortedKeys(d.collections) }

// Compile compiles every declared type and joins the failures.
func (d *Document) Compile() error {
	var errs []error
	for _, name := range d.TypeNames() {
		if err := d.types[name].Compile(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func docError(typeName, reason string) error {
	return gomodel.NewIssue(gomodel.CodeInvalidSchema, "", map[string]string{"type": typeName, "reason": reason})
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
