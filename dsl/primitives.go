package dsl

import (
	"regexp"

	gomodel "github.com/reoring/gomodel"
)

// FieldBuilder accumulates the options of one schema field. It implements
// gomodel.Declarer, so it can be placed directly into a gomodel.Schema.
type FieldBuilder struct {
	f gomodel.Field
}

func newField(t any) *FieldBuilder { return &FieldBuilder{f: gomodel.Field{Type: t}} }

// String returns a string field builder.
func String() *FieldBuilder { return newField("string") }

// Number returns a number field builder (values are stored as float64).
func Number() *FieldBuilder { return newField("number") }

// Boolean returns a boolean field builder.
func Boolean() *FieldBuilder { return newField("boolean") }

// Date returns a date field builder (values are stored as time.Time).
func Date() *FieldBuilder { return newField("date") }

// Any returns a field builder that accepts every value.
func Any() *FieldBuilder { return newField("*") }

// Type returns a builder for any registered type tag.
func Type(tag string) *FieldBuilder { return newField(tag) }

// Declaration implements gomodel.Declarer.
func (b *FieldBuilder) Declaration() gomodel.Field { return b.f }

// Required rejects null and absent values.
func (b *FieldBuilder) Required() *FieldBuilder { b.f.Required = true; return b }

// Const forbids changes after construction.
func (b *FieldBuilder) Const() *FieldBuilder { b.f.Const = true; return b }

// Primary marks the field as the primary key.
func (b *FieldBuilder) Primary() *FieldBuilder { b.f.Primary = true; return b }

// Default sets a static default value.
func (b *FieldBuilder) Default(v any) *FieldBuilder { b.f.Default = v; return b }

// DefaultFunc sets a default generator evaluated for every new entity.
func (b *FieldBuilder) DefaultFunc(fn func() any) *FieldBuilder { b.f.Default = fn; return b }

// Validate sets a predicate checked after coercion.
func (b *FieldBuilder) Validate(fn func(any) bool) *FieldBuilder { b.f.Validate = fn; return b }

// Pattern sets a regular expression checked against the text form.
func (b *FieldBuilder) Pattern(expr string) *FieldBuilder {
	b.f.Validate = regexp.MustCompile(expr)
	return b
}

// Enum restricts values to vs.
func (b *FieldBuilder) Enum(vs ...any) *FieldBuilder { b.f.Enum = vs; return b }

// Describe sets the field description.
func (b *FieldBuilder) Describe(s string) *FieldBuilder { b.f.Description = s; return b }

// Key validates wildcard field names against a regular expression.
func (b *FieldBuilder) Key(expr string) *FieldBuilder {
	b.f.Key = regexp.MustCompile(expr)
	return b
}

// KeyFunc validates wildcard field names with a predicate.
func (b *FieldBuilder) KeyFunc(fn func(string) bool) *FieldBuilder { b.f.Key = fn; return b }

// Null/empty inversions.
func (b *FieldBuilder) NullAsEmpty() *FieldBuilder { b.f.NullAsEmpty = true; return b }
func (b *FieldBuilder) EmptyAsNull() *FieldBuilder { b.f.EmptyAsNull = true; return b }
func (b *FieldBuilder) NullAsZero() *FieldBuilder  { b.f.NullAsZero = true; return b }
func (b *FieldBuilder) ZeroAsNull() *FieldBuilder  { b.f.ZeroAsNull = true; return b }
func (b *FieldBuilder) NullAsFalse() *FieldBuilder { b.f.NullAsFalse = true; return b }
func (b *FieldBuilder) FalseAsNull() *FieldBuilder { b.f.FalseAsNull = true; return b }

// Text normalization.
func (b *FieldBuilder) Trim() *FieldBuilder      { b.f.Trim = true; return b }
func (b *FieldBuilder) Lower() *FieldBuilder     { b.f.Lower = true; return b }
func (b *FieldBuilder) Upper() *FieldBuilder     { b.f.Upper = true; return b }
func (b *FieldBuilder) Normalize() *FieldBuilder { b.f.Normalize = true; return b }

// Number rounding to digits after the decimal point.
func (b *FieldBuilder) Round(digits int) *FieldBuilder { b.f.Round = gomodel.Digits(digits); return b }
func (b *FieldBuilder) Floor(digits int) *FieldBuilder { b.f.Floor = gomodel.Digits(digits); return b }
func (b *FieldBuilder) Ceil(digits int) *FieldBuilder  { b.f.Ceil = gomodel.Digits(digits); return b }
