package gomodel

import (
	"strconv"

	js "github.com/reoring/gomodel/jsonschema"
)

// JSONSchemaer is implemented by descriptors that describe themselves as
// JSON Schema. Built-in descriptors are covered without it.
type JSONSchemaer interface {
	JSONSchema(defs *SchemaDefs) (*js.Schema, error)
}

// SchemaDefs collects the $defs of one export. Every entity type is
// emitted once and referenced by $ref, so recursive types terminate.
type SchemaDefs struct {
	defs   map[string]*js.Schema
	byType map[*EntityType]string
}

func newSchemaDefs() *SchemaDefs {
	return &SchemaDefs{defs: map[string]*js.Schema{}, byType: map[*EntityType]string{}}
}

// Ref returns a $ref to t, emitting its definition on first use.
func (d *SchemaDefs) Ref(t *EntityType) (*js.Schema, error) {
	if name, ok := d.byType[t]; ok {
		return js.RefTo(name), nil
	}
	name := t.Name()
	for i := 2; d.defs[name] != nil; i++ {
		name = t.Name() + strconv.Itoa(i)
	}
	d.byType[t] = name
	d.defs[name] = &js.Schema{} // reserve before descending
	s, err := entitySchema(t, d)
	if err != nil {
		return nil, err
	}
	d.defs[name] = s
	return js.RefTo(name), nil
}

// JSONSchema exports the compiled schema of t.
func (t *EntityType) JSONSchema() (*js.Schema, error) {
	defs := newSchemaDefs()
	ref, err := defs.Ref(t)
	if err != nil {
		return nil, err
	}
	return &js.Schema{SchemaURI: js.Draft, Ref: ref.Ref, Defs: defs.defs}, nil
}

func entitySchema(t *EntityType, defs *SchemaDefs) (*js.Schema, error) {
	cs, err := compiledFor(t)
	if err != nil {
		return nil, err
	}
	out := &js.Schema{Type: "object", Title: t.Name(), Properties: map[string]*js.Schema{}}
	for _, k := range cs.keys {
		d := cs.fields[k]
		p, err := fieldSchema(d, defs)
		if err != nil {
			return nil, err
		}
		out.Properties[k] = p
		if d.Field().Required {
			out.Required = append(out.Required, k)
		}
	}
	if cs.wildcard == nil {
		out.AdditionalProperties = false
		return out, nil
	}
	wc, err := fieldSchema(cs.wildcard, defs)
	if err != nil {
		return nil, err
	}
	out.AdditionalProperties = wc
	if b, ok := baseOf(cs.wildcard); ok && b.keyRe != nil {
		out.PropertyNames = &js.Schema{Type: "string", Pattern: b.keyRe.String()}
	}
	return out, nil
}

func fieldSchema(d Descriptor, defs *SchemaDefs) (*js.Schema, error) {
	if s, ok := d.(JSONSchemaer); ok {
		return s.JSONSchema(defs)
	}
	var (
		out *js.Schema
		err error
	)
	switch t := d.(type) {
	case *stringType:
		out = &js.Schema{Type: "string"}
	case *numberType:
		out = &js.Schema{Type: "number"}
	case *booleanType:
		out = &js.Schema{Type: "boolean"}
	case *dateType:
		out = &js.Schema{Type: "string", Format: "date-time"}
	case *arrayType:
		out = &js.Schema{Type: "array", UniqueItems: t.Field().Unique}
		out.Items, err = fieldSchema(t.elem, defs)
	case *objectType:
		out = &js.Schema{Type: "object"}
		out.AdditionalProperties, err = fieldSchema(t.elem, defs)
	case *modelType:
		out, err = defs.Ref(t.typ)
	case *collectionType:
		out = &js.Schema{Type: "array"}
		out.Items, err = defs.Ref(t.typ.Element())
	default:
		out = &js.Schema{}
	}
	if err != nil {
		return nil, err
	}
	decorate(out, d)
	return out, nil
}

// decorate adds the options every descriptor shares.
func decorate(s *js.Schema, d Descriptor) {
	f := d.Field()
	s.Description = f.Description
	s.ReadOnly = f.Const
	s.Nullable = !f.Required && s.Ref == ""
	for _, v := range f.Enum {
		j, err := anyToJSON(v, nil)
		if err == nil {
			s.Enum = append(s.Enum, j)
		}
	}
	if b, ok := baseOf(d); ok && b.pattern != nil {
		s.Pattern = b.pattern.String()
	}
	if f.Default != nil {
		if _, generated := f.Default.(func() any); !generated {
			if j, err := anyToJSON(f.Default, nil); err == nil {
				s.Default = j
			}
		}
	}
}

// baseOf reaches the embedded Base of built-in descriptors.
func baseOf(d Descriptor) (*Base, bool) {
	switch t := d.(type) {
	case *stringType:
		return &t.Base, true
	case *numberType:
		return &t.Base, true
	case *booleanType:
		return &t.Base, true
	case *dateType:
		return &t.Base, true
	case *anyType:
		return &t.Base, true
	case *arrayType:
		return &t.Base, true
	case *objectType:
		return &t.Base, true
	case *modelType:
		return &t.Base, true
	case *collectionType:
		return &t.Base, true
	}
	return nil, false
}
