package dsl

import gomodel "github.com/reoring/gomodel"

// ArrayOf returns a builder for an ordered sequence of elem. elem is any
// schema declaration: a tag, an entity type, another builder...
func ArrayOf(elem any) *FieldBuilder {
	b := newField("array")
	b.f.Element = elem
	return b
}

// MapOf returns a builder for an open map whose values are elem.
func MapOf(elem any) *FieldBuilder {
	b := newField("object")
	b.f.Element = elem
	return b
}

// Model returns a builder for one nested entity of type t.
func Model(t *gomodel.EntityType) *FieldBuilder { return newField(t) }

// CollectionOf returns a builder for a nested collection of type t.
func CollectionOf(t *gomodel.CollectionType) *FieldBuilder { return newField(t) }

// Unique rejects arrays with equal elements (nulls never collide).
func (b *FieldBuilder) Unique() *FieldBuilder { b.f.Unique = true; return b }

// Sort orders arrays by the default ordering.
func (b *FieldBuilder) Sort() *FieldBuilder { b.f.Sort = true; return b }

// SortBy orders arrays with cmp.
func (b *FieldBuilder) SortBy(cmp func(a, b any) int) *FieldBuilder {
	b.f.Sort = true
	b.f.Compare = cmp
	return b
}
