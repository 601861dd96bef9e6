// Package schemadoc declares gomodel entity and collection types from
// schema documents written in YAML, JSON or CUE, and reads raw records from
// the same formats.
//
// A document has two sections:
//
//	types:
//	  User:
//	    fields:
//	      id:    {type: string, primary: true, const: true, generate: uuid}
//	      name:  {type: string, required: true, trim: true}
//	      tags:  string[]
//	      boss:  User
//	  Admin:
//	    extends: User
//	    fields:
//	      level: {type: number, enum: [1, 2, 3]}
//	collections:
//	  Users: User
//
// A field is either a type reference or an options record. Type references
// name a registered tag ("string", "number", "date", ...), a type or
// collection of the same document, with an optional "[]" suffix for arrays.
// Types may refer to themselves and to each other.
package schemadoc
