package gomodel_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gomodel "github.com/reoring/gomodel"
)

func prepare(t *testing.T, decl any, in any) (any, error) {
	t.Helper()
	d, err := gomodel.Normalize(decl, "x")
	require.NoError(t, err)
	return d.Prepare(in, "x", nil)
}

func TestString_Prepare(t *testing.T) {
	cases := []struct {
		name string
		decl any
		in   any
		want any
	}{
		{"plain", "string", "a", "a"},
		{"number", "string", 12.5, "12.5"},
		{"date", "string", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), "2025-01-02T03:04:05.000Z"},
		{"trim", gomodel.Field{Type: "string", Trim: true}, "  a  ", "a"},
		{"lower", gomodel.Field{Type: "string", Lower: true}, "ÄBC", "äbc"},
		{"upper", gomodel.Field{Type: "string", Upper: true}, "straße", "STRASSE"},
		{"normalize", gomodel.Field{Type: "string", Normalize: true}, "e\u0301", "\u00e9"},
		{"emptyAsNull", gomodel.Field{Type: "string", EmptyAsNull: true, Trim: true}, "   ", nil},
		{"nullAsEmpty", gomodel.Field{Type: "string", NullAsEmpty: true}, nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := prepare(t, tc.decl, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []any{true, []any{"a"}, map[string]any{}} {
		_, err := prepare(t, "string", bad)
		assert.True(t, errors.Is(err, gomodel.ErrInvalidString), "%v", bad)
	}

	_, err := gomodel.Normalize(gomodel.Field{Type: "string", Lower: true, Upper: true}, "x")
	require.Error(t, err)
	assert.Equal(t, "x: conflicting parameters: use only lower or only upper", err.Error())
}

func TestNumber_Prepare(t *testing.T) {
	cases := []struct {
		name string
		decl any
		in   any
		want any
	}{
		{"int", "number", 3, 3.0},
		{"string", "number", " 1.5 ", 1.5},
		{"blank string", "number", "  ", nil},
		{"round", gomodel.Field{Type: "number", Round: gomodel.Digits(2)}, 1.005001, 1.01},
		{"floor", gomodel.Field{Type: "number", Floor: gomodel.Digits(0)}, 1.9, 1.0},
		{"ceil", gomodel.Field{Type: "number", Ceil: gomodel.Digits(1)}, 1.01, 1.1},
		{"zeroAsNull", gomodel.Field{Type: "number", ZeroAsNull: true}, 0, nil},
		{"nullAsZero", gomodel.Field{Type: "number", NullAsZero: true}, nil, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := prepare(t, tc.decl, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := prepare(t, "number", "wrong")
	require.Error(t, err)
	assert.Equal(t, `invalid number for x: "wrong"`, err.Error())

	_, err = prepare(t, "number", "NaN")
	assert.True(t, errors.Is(err, gomodel.ErrInvalidNumber))

	_, err = gomodel.Normalize(gomodel.Field{Type: "number", Round: gomodel.Digits(1), Floor: gomodel.Digits(1)}, "x")
	assert.True(t, errors.Is(err, gomodel.ErrConflictingOptions))
	_, err = gomodel.Normalize(gomodel.Field{Type: "number", Round: gomodel.Digits(-1)}, "x")
	assert.True(t, errors.Is(err, gomodel.ErrInvalidOption))
}

func TestBoolean_Prepare(t *testing.T) {
	for in, want := range map[any]any{true: true, 0: false, 1: true, "true": true, "0": false} {
		got, err := prepare(t, "boolean", in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%v", in)
	}
	_, err := prepare(t, "boolean", "yes")
	assert.Equal(t, `invalid boolean for x: "yes"`, err.Error())

	got, err := prepare(t, gomodel.Field{Type: "boolean", FalseAsNull: true}, false)
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = prepare(t, gomodel.Field{Type: "boolean", NullAsFalse: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, false, got)
}

func TestDate_Prepare(t *testing.T) {
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []any{want, "2025-01-01", "2025-01-01T00:00:00Z", float64(want.UnixMilli())} {
		got, err := prepare(t, "date", in)
		require.NoError(t, err)
		assert.True(t, want.Equal(got.(time.Time)), "%v", in)
	}
	_, err := prepare(t, "date", "wrong")
	assert.True(t, errors.Is(err, gomodel.ErrInvalidDate))
	_, err = prepare(t, "date", true)
	assert.True(t, errors.Is(err, gomodel.ErrInvalidDate))

	ev := gomodel.Define("Event", func() gomodel.Schema { return gomodel.Schema{"at": "date"} })
	e := ev.MustNew(map[string]any{"at": "2025-01-01T10:00:00+02:00"})
	out, err := e.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01T08:00:00.000Z", out["at"])
}

func TestObject_Prepare(t *testing.T) {
	got, err := prepare(t, map[string]any{"*": "number"}, map[string]any{"a": "1", "b": 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0, "b": 2.0}, got)

	_, err = prepare(t, map[string]any{"*": "number"}, map[string]any{"a": "x"})
	require.Error(t, err)
	assert.Equal(t, "invalid object[number] for x: {\"a\":\"x\"},\n invalid number for a: \"x\"", err.Error())
	assert.True(t, errors.Is(err, gomodel.ErrInvalidObject))
	assert.True(t, errors.Is(err, gomodel.ErrInvalidNumber))
	iss, ok := gomodel.AsIssue(err)
	require.True(t, ok)
	assert.Equal(t, gomodel.CodeInvalidObject, iss.Code)
	assert.Equal(t, "/x/a", iss.Path)

	_, err = prepare(t, "object", []any{})
	assert.True(t, errors.Is(err, gomodel.ErrInvalidObject))
}

func TestValidateOption(t *testing.T) {
	tp := gomodel.Define("Validated", func() gomodel.Schema {
		return gomodel.Schema{
			"code":  gomodel.Field{Type: "string", Validate: regexp.MustCompile(`^[A-Z]{3}$`)},
			"even":  gomodel.Field{Type: "number", Validate: func(v any) bool { return int(v.(float64))%2 == 0 }},
			"level": gomodel.Field{Type: "string", Enum: []any{"low", "high"}},
		}
	})
	e, err := tp.New(map[string]any{"code": "ABC", "even": 4, "level": "low"})
	require.NoError(t, err)

	err = e.SetValue("code", "abc")
	assert.Equal(t, `invalid code: "abc"`, err.Error())
	assert.True(t, errors.Is(err, gomodel.ErrInvalidValue))
	assert.Error(t, e.SetValue("even", 3))
	assert.Error(t, e.SetValue("level", "mid"))
	assert.NoError(t, e.SetValue("level", nil), "nulls are never validated")
}

func TestRegisterType(t *testing.T) {
	gomodel.RegisterType("percent", func(f gomodel.Field, key string) (gomodel.Descriptor, error) {
		f.Type = "number"
		f.Validate = func(v any) bool { n := v.(float64); return n >= 0 && n <= 100 }
		return gomodel.Normalize(f, key)
	})
	assert.Contains(t, gomodel.RegisteredTypes(), "percent")

	tp := gomodel.Define("Progress", func() gomodel.Schema { return gomodel.Schema{"done": "percent"} })
	p, err := tp.New(map[string]any{"done": "50"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.Get("done"))
	assert.Error(t, p.SetValue("done", 150))
}
