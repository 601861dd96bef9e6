package rules

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	gomodel "github.com/reoring/gomodel"
)

// Rule checks a candidate snapshot of an entity. It has the shape of the
// validate hook, so rules plug into gomodel.WithValidate.
type Rule = func(e *gomodel.Entity, candidate *gomodel.Snapshot) error

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

var opNames = [...]string{"==", "!=", "<", "<=", ">", ">="}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "?"
}

// Conditional composes conditional execution of rules.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that evaluates a path against a value using an operator.
// The path is a JSON Pointer like "/status" or "/owner/name"; it descends into
// nested entities, collections (by index), arrays and maps.
func If(path string, op Op, want any) Conditional {
	return Conditional{path: normalizePath(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Holds evaluates the condition against a snapshot.
func (c Conditional) Holds(s *gomodel.Snapshot) bool { return evalConditional(s, c) }

// Then attaches rules to run when the condition is satisfied.
func (c Conditional) Then(rules ...Rule) Rule {
	inner := And(rules...)
	return func(e *gomodel.Entity, s *gomodel.Snapshot) error {
		if !evalConditional(s, c) {
			return nil
		}
		return inner(e, s)
	}
}

// Required fails when the field at path is null or absent.
func Required(path string) Rule {
	p := normalizePath(path)
	return func(_ *gomodel.Entity, s *gomodel.Snapshot) error {
		v, ok := valueAtPath(s, p)
		if !ok || isNull(v) {
			return gomodel.NewIssue(gomodel.CodeRequired, keyOf(p), nil)
		}
		return nil
	}
}

// RequiredWith requires every field in others once field has a value.
func RequiredWith(field string, others ...string) Rule {
	rs := make([]Rule, len(others))
	for i, o := range others {
		rs[i] = Required(o)
	}
	return If(field, Ne, nil).Then(rs...)
}

// AtLeastOne ensures the array or collection at path has at least 1 element.
func AtLeastOne(path string) Rule {
	p := normalizePath(path)
	return func(_ *gomodel.Entity, s *gomodel.Snapshot) error {
		v, ok := valueAtPath(s, p)
		if !ok {
			return nil
		}
		n, isList := length(v)
		if (isList && n == 0) || isNull(v) {
			return gomodel.NewIssue(gomodel.CodeTooShort, keyOf(p), map[string]string{"min": "1"})
		}
		return nil
	}
}

// UniqueBy ensures elements of the array or collection at collectionPath
// have unique values at keyPath (relative to each element, e.g. "sku").
// Keys compare by their rendered form; keep the key a single type.
func UniqueBy(collectionPath, keyPath string) Rule {
	cp := normalizePath(collectionPath)
	kp := strings.TrimPrefix(keyPath, "/")
	return func(_ *gomodel.Entity, s *gomodel.Snapshot) error {
		v, ok := valueAtPath(s, cp)
		if !ok {
			return nil
		}
		items := elements(v)
		seen := map[string]int{}
		for i, it := range items {
			kv, ok := valueAtPathWithin(it, kp)
			if !ok || isNull(kv) {
				continue
			}
			key := gomodel.Render(kv)
			if j, dup := seen[key]; dup {
				iss := gomodel.NewIssue(gomodel.CodeNotUnique, keyOf(cp), map[string]string{
					"duplicate": key,
					"value":     fmt.Sprintf("%s at %d and %d", kp, j, i),
				})
				iss.Path = cp + "/" + strconv.Itoa(i) + "/" + kp
				return iss
			}
			seen[key] = i
		}
		return nil
	}
}

// Compare relates two fields of the same snapshot, e.g. Compare("/start", Le, "/end").
// The rule passes when either side is null.
func Compare(left string, op Op, right string) Rule {
	lp, rp := normalizePath(left), normalizePath(right)
	return func(_ *gomodel.Entity, s *gomodel.Snapshot) error {
		a, okA := valueAtPath(s, lp)
		b, okB := valueAtPath(s, rp)
		if !okA || !okB || isNull(a) || isNull(b) {
			return nil
		}
		if compare(a, op, b) {
			return nil
		}
		return gomodel.NewIssue(gomodel.CodeRuleFailed, keyOf(lp), map[string]string{
			"reason": fmt.Sprintf("must be %s %s", op, keyOf(rp)),
		})
	}
}

// Check lifts a predicate over the snapshot into a Rule.
func Check(path, reason string, pred func(v any) bool) Rule {
	p := normalizePath(path)
	return func(_ *gomodel.Entity, s *gomodel.Snapshot) error {
		v, _ := valueAtPath(s, p)
		if pred(v) {
			return nil
		}
		return gomodel.NewIssue(gomodel.CodeRuleFailed, keyOf(p), map[string]string{"reason": reason})
	}
}

// Validate installs rules as the validate hook of an entity type.
func Validate(rules ...Rule) gomodel.TypeOption {
	return gomodel.WithValidate(And(rules...))
}

// ------- helpers -------

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

func keyOf(pointer string) string { return strings.TrimPrefix(pointer, "/") }

func evalConditional(s *gomodel.Snapshot, c Conditional) bool {
	// composite AND
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !evalConditional(s, it) {
				return false
			}
		}
		return true
	}
	// composite OR
	if len(c.any) > 0 {
		for _, it := range c.any {
			if evalConditional(s, it) {
				return true
			}
		}
		return false
	}
	// simple predicate
	cur, ok := valueAtPath(s, c.path)
	if !ok {
		cur = nil
	}
	return compare(cur, c.op, c.want)
}

// valueAtPath navigates a snapshot by JSON Pointer.
func valueAtPath(s *gomodel.Snapshot, pointer string) (any, bool) {
	rel := strings.TrimPrefix(pointer, "/")
	if rel == "" {
		return s.Map(), true
	}
	head, rest, _ := strings.Cut(rel, "/")
	v, ok := s.Lookup(unescape(head))
	if !ok {
		return nil, false
	}
	return valueAtPathWithin(v, rest)
}

func valueAtPathWithin(v any, rel string) (any, bool) {
	if rel == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(rel, "/") {
		seg = unescape(seg)
		switch t := cur.(type) {
		case *gomodel.Entity:
			if t == nil || !t.HasProperty(seg) {
				return nil, false
			}
			cur = t.Get(seg)
		case *gomodel.Collection:
			idx, err := strconv.Atoi(seg)
			if err != nil || t.At(idx) == nil {
				return nil, false
			}
			cur = t.At(idx)
		default:
			rv := reflect.ValueOf(cur)
			switch rv.Kind() {
			case reflect.Map:
				mv := rv.MapIndex(reflect.ValueOf(seg))
				if !mv.IsValid() {
					return nil, false
				}
				cur = mv.Interface()
			case reflect.Slice, reflect.Array:
				idx, err := strconv.Atoi(seg)
				if err != nil || idx < 0 || idx >= rv.Len() {
					return nil, false
				}
				cur = rv.Index(idx).Interface()
			default:
				return nil, false
			}
		}
	}
	return cur, true
}

func unescape(seg string) string {
	return strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
}

func elements(v any) []any {
	if c, ok := v.(*gomodel.Collection); ok && c != nil {
		return c.Map(func(e *gomodel.Entity, _ int) any { return e })
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func length(v any) (int, bool) {
	if c, ok := v.(*gomodel.Collection); ok && c != nil {
		return c.Len(), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

func isNull(v any) bool { return gomodel.ShapeOf(v) == gomodel.ShapeNull }

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return equalValues(cur, want)
	case Ne:
		return !equalValues(cur, want)
	case Lt, Le, Gt, Ge:
		return compareOrdered(cur, op, want)
	default:
		return false
	}
}

func equalValues(a, b any) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	if x, ok := toFloat64(a); ok {
		y, ok := toFloat64(b)
		return ok && x == y
	}
	if x, ok := a.(time.Time); ok {
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	return reflect.DeepEqual(a, b)
}

func compareOrdered(cur any, op Op, want any) bool {
	var c int
	if a, ok := toFloat64(cur); ok {
		b, ok := toFloat64(want)
		if !ok {
			return false
		}
		c = cmpOrdered(a, b)
	} else if a, ok := cur.(time.Time); ok {
		b, ok := want.(time.Time)
		if !ok {
			return false
		}
		c = a.Compare(b)
	} else if a, ok := cur.(string); ok {
		b, ok := want.(string)
		if !ok {
			return false
		}
		c = strings.Compare(a, b)
	} else {
		return false
	}
	switch op {
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	}
	return false
}

func cmpOrdered(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// ---------- Rule combinators ----------

// And runs every rule and joins their errors.
func And(rules ...Rule) Rule {
	return func(e *gomodel.Entity, s *gomodel.Snapshot) error {
		var errs []error
		for _, r := range rules {
			if r == nil {
				continue
			}
			if err := r(e, s); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

// FirstOf runs rules in order and stops at the first failure.
func FirstOf(rules ...Rule) Rule {
	return func(e *gomodel.Entity, s *gomodel.Snapshot) error {
		for _, r := range rules {
			if r == nil {
				continue
			}
			if err := r(e, s); err != nil {
				return err
			}
		}
		return nil
	}
}

// Or succeeds if any rule passes. When all fail the first error is returned.
func Or(rules ...Rule) Rule {
	return func(e *gomodel.Entity, s *gomodel.Snapshot) error {
		var first error
		for _, r := range rules {
			if r == nil {
				continue
			}
			err := r(e, s)
			if err == nil {
				return nil
			}
			if first == nil {
				first = err
			}
		}
		return first
	}
}
