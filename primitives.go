package gomodel

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/reoring/gomodel/codec"
	"github.com/reoring/gomodel/graph"
)

// stringType coerces numbers and dates to their text form. Booleans,
// containers and entities are rejected.
type stringType struct {
	Base
}

func newStringType(f Field, key string) (Descriptor, error) {
	if f.NullAsEmpty && f.EmptyAsNull {
		return nil, conflict(key, "nullAsEmpty", "emptyAsNull")
	}
	if f.Lower && f.Upper {
		return nil, conflict(key, "lower", "upper")
	}
	b, err := NewBase("string", f, key)
	if err != nil {
		return nil, err
	}
	return &stringType{Base: b}, nil
}

func (d *stringType) Prepare(value any, key string, _ *Entity) (any, error) {
	f := &d.field
	if isNull(value) {
		if f.NullAsEmpty {
			return "", nil
		}
		return nil, nil
	}
	var s string
	switch ShapeOf(value) {
	case ShapeString:
		s = reflect.ValueOf(value).String()
	case ShapeNumber:
		n, _ := toFloat(value)
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, valueIssue(CodeInvalidString, key, value, nil)
		}
		s = Render(n)
	case ShapeDate:
		t, _ := asTime(value)
		s = codec.FormatTime(t)
	default:
		return nil, valueIssue(CodeInvalidString, key, value, nil)
	}
	if f.Trim {
		s = strings.TrimSpace(s)
	}
	if f.Normalize {
		s = norm.NFC.String(s)
	}
	switch {
	case f.Lower:
		s = cases.Lower(language.Und).String(s)
	case f.Upper:
		s = cases.Upper(language.Und).String(s)
	}
	if f.EmptyAsNull && s == "" {
		return nil, nil
	}
	return s, nil
}

func (d *stringType) Equal(a, b any, _ *graph.EqualStack) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	if ShapeOf(a) != ShapeString || ShapeOf(b) != ShapeString {
		return false
	}
	return reflect.ValueOf(a).String() == reflect.ValueOf(b).String()
}

// numberType stores float64. Numeric strings are parsed; a blank string is
// null. NaN and infinities are rejected.
type numberType struct {
	Base
	round  func(float64) float64
	digits int
}

func newNumberType(f Field, key string) (Descriptor, error) {
	if f.NullAsZero && f.ZeroAsNull {
		return nil, conflict(key, "nullAsZero", "zeroAsNull")
	}
	d := &numberType{}
	set := ""
	for _, opt := range []struct {
		name   string
		digits *int
		fn     func(float64) float64
	}{
		{"round", f.Round, math.Round},
		{"floor", f.Floor, math.Floor},
		{"ceil", f.Ceil, math.Ceil},
	} {
		if opt.digits == nil {
			continue
		}
		if set != "" {
			return nil, conflict(key, set, opt.name)
		}
		if *opt.digits < 0 {
			return nil, newIssue(CodeInvalidOption, key, map[string]string{"option": opt.name, "value": strconv.Itoa(*opt.digits)})
		}
		set = opt.name
		d.round = opt.fn
		d.digits = *opt.digits
	}
	b, err := NewBase("number", f, key)
	if err != nil {
		return nil, err
	}
	d.Base = b
	return d, nil
}

func (d *numberType) Prepare(value any, key string, _ *Entity) (any, error) {
	f := &d.field
	var n float64
	switch ShapeOf(value) {
	case ShapeNull:
		if f.NullAsZero {
			return float64(0), nil
		}
		return nil, nil
	case ShapeNumber:
		n, _ = toFloat(value)
	case ShapeString:
		s := strings.TrimSpace(reflect.ValueOf(value).String())
		if s == "" {
			if f.NullAsZero {
				return float64(0), nil
			}
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, valueIssue(CodeInvalidNumber, key, value, nil)
		}
		n = parsed
	default:
		return nil, valueIssue(CodeInvalidNumber, key, value, nil)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, valueIssue(CodeInvalidNumber, key, value, nil)
	}
	if d.round != nil {
		p := math.Pow(10, float64(d.digits))
		n = d.round(n*p) / p
	}
	if n == 0 {
		if f.ZeroAsNull {
			return nil, nil
		}
		n = 0 // drop the sign of -0
	}
	return n, nil
}

func (d *numberType) Equal(a, b any, _ *graph.EqualStack) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	x, okA := toFloat(a)
	y, okB := toFloat(b)
	if !okA || !okB {
		return false
	}
	return x == y || (math.IsNaN(x) && math.IsNaN(y))
}

// booleanType accepts bool, 0/1 and the strings "true", "false", "1", "0".
type booleanType struct {
	Base
}

func newBooleanType(f Field, key string) (Descriptor, error) {
	if f.NullAsFalse && f.FalseAsNull {
		return nil, conflict(key, "nullAsFalse", "falseAsNull")
	}
	b, err := NewBase("boolean", f, key)
	if err != nil {
		return nil, err
	}
	return &booleanType{Base: b}, nil
}

func (d *booleanType) Prepare(value any, key string, _ *Entity) (any, error) {
	f := &d.field
	var v bool
	switch ShapeOf(value) {
	case ShapeNull:
		if f.NullAsFalse {
			return false, nil
		}
		return nil, nil
	case ShapeBool:
		v = reflect.ValueOf(value).Bool()
	case ShapeNumber:
		n, _ := toFloat(value)
		switch n {
		case 0:
			v = false
		case 1:
			v = true
		default:
			return nil, valueIssue(CodeInvalidBoolean, key, value, nil)
		}
	case ShapeString:
		switch reflect.ValueOf(value).String() {
		case "true", "1":
			v = true
		case "false", "0":
			v = false
		default:
			return nil, valueIssue(CodeInvalidBoolean, key, value, nil)
		}
	default:
		return nil, valueIssue(CodeInvalidBoolean, key, value, nil)
	}
	if !v && f.FalseAsNull {
		return nil, nil
	}
	return v, nil
}

func (d *booleanType) Equal(a, b any, _ *graph.EqualStack) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	if ShapeOf(a) != ShapeBool || ShapeOf(b) != ShapeBool {
		return false
	}
	return reflect.ValueOf(a).Bool() == reflect.ValueOf(b).Bool()
}

// dateType stores time.Time. It accepts times, epoch milliseconds and
// ISO-8601 text; JSON output is UTC with millisecond precision.
type dateType struct {
	Base
}

func newDateType(f Field, key string) (Descriptor, error) {
	b, err := NewBase("date", f, key)
	if err != nil {
		return nil, err
	}
	return &dateType{Base: b}, nil
}

func (d *dateType) Prepare(value any, key string, _ *Entity) (any, error) {
	var (
		t   time.Time
		err error
	)
	switch ShapeOf(value) {
	case ShapeNull:
		return nil, nil
	case ShapeDate:
		t, _ = asTime(value)
	case ShapeNumber:
		n, _ := toFloat(value)
		t, err = codec.TimeFromMillis(n)
	case ShapeString:
		t, err = codec.ParseTime(reflect.ValueOf(value).String())
	default:
		return nil, valueIssue(CodeInvalidDate, key, value, nil)
	}
	if err != nil {
		return nil, valueIssue(CodeInvalidDate, key, value, nil)
	}
	return t, nil
}

func (d *dateType) Equal(a, b any, _ *graph.EqualStack) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	x, okA := asTime(a)
	y, okB := asTime(b)
	return okA && okB && x.Equal(y)
}

func (d *dateType) ToJSON(value any, _ graph.Stack) (any, error) {
	t, ok := asTime(value)
	if !ok {
		return nil, nil
	}
	return codec.FormatTime(t), nil
}
