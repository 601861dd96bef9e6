package gomodel

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/reoring/gomodel/graph"
)

// Descriptor is the compiled, immutable configuration of one field. Every
// field type, primitive or composite, implements the same contract.
type Descriptor interface {
	// Prepare converts raw input into the canonical value of the field or
	// fails with an Issue naming key and the offending value. It must not
	// have side effects: nested entities are attached to owner only when the
	// owning mutation commits.
	Prepare(value any, key string, owner *Entity) (any, error)
	// Validate checks enum membership, the validate predicate/pattern and
	// type-specific constraints on an already prepared value.
	Validate(value any, key string) bool
	// Default produces the default value (evaluating a generator when
	// configured). The result still goes through Prepare.
	Default() any
	// Clone duplicates a prepared value; stack preserves cycle topology.
	Clone(value any, stack *graph.EqualStack) any
	// Equal compares two values structurally; stack makes it cycle-safe.
	Equal(a, b any, stack *graph.EqualStack) bool
	// ToJSON projects a value into plain JSON data. stack holds the
	// ancestors of value; revisiting one is a CodeCircular failure.
	ToJSON(value any, stack graph.Stack) (any, error)
	// TypeAsString names the type in messages ("number", "User", ...).
	TypeAsString() string
	// Field returns a copy of the compiled options.
	Field() Field
}

// Field is the options record of a schema entry. The zero value of every
// option means "off".
type Field struct {
	// Type is a type tag ("string", "number[]", ...), an *EntityType, a
	// *CollectionType, or an open-map shorthand map[string]any{"*": elem}.
	Type any
	// Element declares the element type of "array" and "object" fields.
	Element any

	Required bool
	Const    bool
	Primary  bool

	// Default is a static value or a generator func() any.
	Default any
	// Validate is a func(any) bool predicate or a *regexp.Regexp tested
	// against the string form of the value.
	Validate any
	// Enum is the closed set of accepted values.
	Enum []any
	// Key validates the field name of a wildcard ("*") entry: a
	// func(string) bool or a *regexp.Regexp.
	Key any

	// Unique rejects arrays with duplicate elements.
	Unique bool
	// Sort orders array elements by the default ordering; Compare supplies
	// a custom ordering and implies Sort.
	Sort    bool
	Compare func(a, b any) int

	NullAsEmpty bool
	EmptyAsNull bool
	NullAsZero  bool
	ZeroAsNull  bool
	NullAsFalse bool
	FalseAsNull bool

	Trim      bool
	Lower     bool
	Upper     bool
	Normalize bool // Unicode NFC

	// Round, Floor and Ceil round numbers to the given decimal digits.
	Round *int
	Floor *int
	Ceil  *int

	Description string
}

// Declaration makes Field a Declarer.
func (f Field) Declaration() Field { return f }

// Digits returns a pointer for the Round/Floor/Ceil options.
func Digits(n int) *int { return &n }

// Declarer is implemented by builders that produce a Field (see package dsl).
type Declarer interface {
	Declaration() Field
}

// Base implements the parts of the contract shared by all descriptors.
// Concrete descriptors embed it and override what differs.
type Base struct {
	field     Field
	tag       string
	pattern   *regexp.Regexp
	predicate func(any) bool
	keyRe     *regexp.Regexp
	keyFn     func(string) bool
}

// NewBase validates the common options of f. key is the schema key, used in
// declaration errors.
func NewBase(tag string, f Field, key string) (Base, error) {
	b := Base{field: f, tag: tag}
	switch v := f.Validate.(type) {
	case nil:
	case func(any) bool:
		b.predicate = v
	case *regexp.Regexp:
		b.pattern = v
	default:
		return Base{}, newIssue(CodeInvalidValidator, key, map[string]string{"option": "validate", "value": fmt.Sprintf("%T", f.Validate)})
	}
	switch v := f.Key.(type) {
	case nil:
	case func(string) bool:
		b.keyFn = v
	case *regexp.Regexp:
		b.keyRe = v
	default:
		return Base{}, newIssue(CodeInvalidValidator, key, map[string]string{"option": "key", "value": fmt.Sprintf("%T", f.Key)})
	}
	return b, nil
}

// Field returns a copy of the compiled options. Descriptors are shared by
// every entity of a type, so the compiled record itself is never handed out.
func (b *Base) Field() Field {
	f := b.field
	f.Enum = slices.Clone(f.Enum)
	f.Round = cloneDigits(f.Round)
	f.Floor = cloneDigits(f.Floor)
	f.Ceil = cloneDigits(f.Ceil)
	return f
}

func (b *Base) options() *Field { return &b.field }

// optionsOf reads the compiled options without copying them when d embeds
// Base.
func optionsOf(d Descriptor) *Field {
	if o, ok := d.(interface{ options() *Field }); ok {
		return o.options()
	}
	f := d.Field()
	return &f
}

func cloneDigits(p *int) *int {
	if p == nil {
		return nil
	}
	return Digits(*p)
}

// TypeAsString returns the type tag.
func (b *Base) TypeAsString() string { return b.tag }

// Default evaluates the default generator or returns the static default.
func (b *Base) Default() any {
	switch d := b.field.Default.(type) {
	case func() any:
		return d()
	default:
		return d
	}
}

// Validate checks enum membership and the validate option. Null values are
// never validated.
func (b *Base) Validate(value any, key string) bool {
	if isNull(value) {
		return true
	}
	if len(b.field.Enum) > 0 {
		found := false
		for _, e := range b.field.Enum {
			if anyEqual(value, e, graph.NewEqualStack()) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if b.predicate != nil && !b.predicate(value) {
		return false
	}
	if b.pattern != nil && !b.pattern.MatchString(stringForm(value)) {
		return false
	}
	return true
}

// ValidateKey checks a wildcard key against the key option.
func (b *Base) ValidateKey(key string) bool {
	if b.keyFn != nil {
		return b.keyFn(key)
	}
	if b.keyRe != nil {
		return b.keyRe.MatchString(key)
	}
	return true
}

// Clone returns value unchanged; primitives are immutable.
func (b *Base) Clone(value any, _ *graph.EqualStack) any { return value }

// Equal compares primitives by value.
func (b *Base) Equal(a, c any, _ *graph.EqualStack) bool {
	if isNull(a) || isNull(c) {
		return isNull(a) && isNull(c)
	}
	return graph.Same(a, c)
}

// ToJSON returns value unchanged.
func (b *Base) ToJSON(value any, _ graph.Stack) (any, error) { return value, nil }

// stringForm is the text a pattern validator is matched against.
func stringForm(v any) string {
	switch ShapeOf(v) {
	case ShapeString:
		if s, ok := v.(string); ok {
			return s
		}
	case ShapeNumber, ShapeBool:
		r := Render(v)
		return r
	}
	return fmt.Sprint(v)
}

// keyValidator is implemented by descriptors usable as wildcard entries.
type keyValidator interface {
	ValidateKey(key string) bool
}

// conflict builds the declaration error for two mutually exclusive options.
func conflict(key, first, second string) error {
	return newIssue(CodeConflictingOptions, key, map[string]string{"first": first, "second": second})
}
