// Package dsl provides fluent builders for gomodel schemas.
//
// Overview
//   - Field builders: String()/Number()/Boolean()/Date()/Any() return a *FieldBuilder
//     with chainable options (Required/Const/Primary/Default/Enum/Pattern/Trim/...).
//   - Containers: ArrayOf(elem), MapOf(elem), Model(t), CollectionOf(t).
//   - Schema builder: Object().Field(...).Required().Wildcard(...).Define(name).
//   - Generators: UUID and Now are ready-made default generators; ID() is a
//     primary, const, UUID-filled string field.
//
// A *FieldBuilder implements gomodel.Declarer, so builders and plain
// declarations mix freely inside one gomodel.Schema.
//
// File layout (roles)
//   - primitives.go: FieldBuilder and the scalar builders with their options.
//   - array.go: container builders and array ordering/uniqueness options.
//   - object_builder.go: Object() schema builder.
//   - generators.go: default generators.
//
// Example (quickstart)
//
//	var Task = dsl.Object().
//	    Field("id", dsl.ID()).
//	    Field("title", dsl.String().Trim()).Required().
//	    Field("tags", dsl.ArrayOf("string").Unique().Sort()).
//	    Define("Task")
//
//	t, err := Task.New(map[string]any{"title": " write docs "})
package dsl
