package dsl

import (
	"sort"

	gomodel "github.com/reoring/gomodel"
)

type objectBuilder struct {
	fields   map[string]any
	required map[string]struct{}
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a schema builder. Build returns a gomodel.Schema; Define
// wraps it straight into an entity type.
func Object() *objectBuilder {
	return &objectBuilder{
		fields:   map[string]any{},
		required: map[string]struct{}{},
	}
}

// Field registers a field declaration (tag, entity type, builder, ...).
func (b *objectBuilder) Field(name string, decl any) *fieldStep {
	b.fields[name] = decl
	return &fieldStep{b: b, name: name}
}

// Wildcard declares the entry accepting undeclared field names.
func (b *objectBuilder) Wildcard(decl any) *objectBuilder {
	b.fields[gomodel.Wildcard] = decl
	return b
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.required[f.name] = struct{}{}
	return f.b
}

// Optional marks the field as optional (default) and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	delete(f.b.required, f.name)
	return f.b
}

func (f *fieldStep) Field(name string, decl any) *fieldStep { return f.b.Field(name, decl) }
func (f *fieldStep) Wildcard(decl any) *objectBuilder     { return f.b.Wildcard(decl) }
func (f *fieldStep) Build() gomodel.Schema                { return f.b.Build() }
func (f *fieldStep) Define(name string, opts ...gomodel.TypeOption) *gomodel.EntityType {
	return f.b.Define(name, opts...)
}

// Require marks one or more fields as required.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		b.required[n] = struct{}{}
	}
	return b
}

// Names returns the registered field names in lexical order.
func (b *objectBuilder) Names() []string {
	out := make([]string, 0, len(b.fields))
	for k := range b.fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build returns the schema. Fields marked required through the builder are
// lifted into a full options record.
func (b *objectBuilder) Build() gomodel.Schema {
	out := make(gomodel.Schema, len(b.fields))
	for k, decl := range b.fields {
		if _, req := b.required[k]; req {
			decl = requiredDecl(decl)
		}
		out[k] = decl
	}
	return out
}

// Define declares an entity type from the builder.
func (b *objectBuilder) Define(name string, opts ...gomodel.TypeOption) *gomodel.EntityType {
	return gomodel.Define(name, b.Build, opts...)
}

func requiredDecl(decl any) any {
	switch d := decl.(type) {
	case gomodel.Descriptor:
		return d // compiled options are frozen
	case gomodel.Declarer:
		f := d.Declaration()
		f.Required = true
		return f
	case *gomodel.Field:
		f := *d
		f.Required = true
		return f
	default:
		return gomodel.Field{Type: decl, Required: true}
	}
}
