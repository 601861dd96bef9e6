package gomodel

// Package gomodel provides:
//
// - Entities backed by a declarative field Schema (Define/Extend, New, Set)
// - Coercion and validation of every mutation through type descriptors
// - Immutable snapshots with atomic commit and field-scoped change events
// - Cycle-safe Clone/Equal/Walk and JSON projection over nested entities and collections
// - A stable error model via Issue (code, JSON Pointer path, message, wrapped cause)
//
// Design policy:
// - Keep the public engine in the root package; graph guards live in graph/, builders in dsl/.
// - Messages are rendered through i18n/ from codes and parameters.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  var User = gomodel.Define("User", func() gomodel.Schema {
//      return gomodel.Schema{
//          "name": gomodel.Field{Type: "string", Required: true, Trim: true},
//          "age":  gomodel.Field{Type: "number", Default: 0},
//          "tags": "string[]",
//      }
//  })
//
//  u, err := User.New(map[string]any{"name": " Ann "})
//  err = u.Set(map[string]any{"age": "42"})
//  b, err := json.Marshal(u)
