package dsl_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gomodel "github.com/reoring/gomodel"
	"github.com/reoring/gomodel/dsl"
)

func taskType() *gomodel.EntityType {
	return dsl.Object().
		Field("id", dsl.ID()).
		Field("title", dsl.String().Trim()).Required().
		Field("tags", dsl.ArrayOf("string").Unique().Sort()).
		Field("estimate", dsl.Number().Round(1).Default(1)).
		Field("done", dsl.Boolean().NullAsFalse()).
		Field("due", dsl.Date()).
		Define("Task")
}

func TestObjectBuilder_Define(t *testing.T) {
	task := taskType()
	fields, err := task.Fields()
	require.NoError(t, err)
	assert.Equal(t, []string{"done", "due", "estimate", "id", "tags", "title"}, fields)

	tk, err := task.New(map[string]any{
		"title":    "  write docs ",
		"tags":     []any{"b", "a"},
		"estimate": 2.25,
		"due":      "2025-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "write docs", tk.Get("title"))
	assert.Equal(t, []any{"a", "b"}, tk.Get("tags"))
	assert.Equal(t, 2.3, tk.Get("estimate"))
	assert.Equal(t, false, tk.Get("done"))
	assert.IsType(t, time.Time{}, tk.Get("due"))

	id, ok := tk.Get("id").(string)
	require.True(t, ok)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, "id", tk.PrimaryKey())
	assert.True(t, errors.Is(tk.SetValue("id", uuid.NewString()), gomodel.ErrConst))

	_, err = task.New(nil)
	assert.True(t, errors.Is(err, gomodel.ErrRequired))

	_, err = task.New(map[string]any{"title": "x", "tags": []any{"a", "a"}})
	assert.True(t, errors.Is(err, gomodel.ErrNotUnique))
}

func TestObjectBuilder_EachEntityGetsItsOwnID(t *testing.T) {
	task := taskType()
	a := task.MustNew(map[string]any{"title": "a"})
	b := task.MustNew(map[string]any{"title": "b"})
	assert.NotEqual(t, a.Get("id"), b.Get("id"))
}

func TestObjectBuilder_RequireAndOptional(t *testing.T) {
	b := dsl.Object().
		Field("a", "string").Required().
		Field("b", dsl.Number()).Required().
		Require("c").
		Field("c", gomodel.Field{Type: "boolean"}).Optional()
	assert.Equal(t, []string{"a", "b", "c"}, b.Names())

	s := b.Build()
	assert.Equal(t, gomodel.Field{Type: "string", Required: true}, s["a"])
	assert.True(t, s["b"].(gomodel.Field).Required)
	assert.Equal(t, gomodel.Field{Type: "boolean"}, s["c"])
}

func TestWildcardAndKeys(t *testing.T) {
	labels := dsl.Object().
		Wildcard(dsl.String().Key(`^[a-z]+$`).Lower()).
		Define("Labels")
	l, err := labels.New(map[string]any{"env": "PROD"})
	require.NoError(t, err)
	assert.Equal(t, "prod", l.Get("env"))
	assert.True(t, errors.Is(l.SetValue("Env", "x"), gomodel.ErrInvalidKey))

	upperKeys := dsl.Object().
		Wildcard(dsl.Any().KeyFunc(func(k string) bool { return strings.ToUpper(k) == k })).
		Define("Upper")
	_, err = upperKeys.New(map[string]any{"OK": 1, "no": 2})
	assert.True(t, errors.Is(err, gomodel.ErrInvalidKey))
}

func TestContainers(t *testing.T) {
	item := dsl.Object().
		Field("sku", dsl.String().Pattern(`^[A-Z]{2}-\d+$`)).Required().
		Define("Item")
	items := gomodel.DefineCollection("Items", func() *gomodel.EntityType { return item })
	cart := dsl.Object().
		Field("main", dsl.Model(item)).
		Field("items", dsl.CollectionOf(items).NullAsEmpty()).
		Field("prices", dsl.MapOf(dsl.Number().Floor(0))).
		Field("codes", dsl.ArrayOf(dsl.String().Upper()).SortBy(func(a, b any) int {
			return strings.Compare(b.(string), a.(string))
		})).
		Define("Cart")

	c, err := cart.New(map[string]any{
		"main":   map[string]any{"sku": "AB-1"},
		"prices": map[string]any{"AB-1": 9.99},
		"codes":  []any{"a", "c", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Get("items").(*gomodel.Collection).Len())
	assert.Equal(t, map[string]any{"AB-1": 9.0}, c.Get("prices"))
	assert.Equal(t, []any{"C", "B", "A"}, c.Get("codes"))
	assert.Same(t, c, c.Get("main").(*gomodel.Entity).Parent())

	_, err = cart.New(map[string]any{"main": map[string]any{"sku": "bad"}})
	assert.True(t, errors.Is(err, gomodel.ErrInvalidValue))
}

func TestFieldOptions(t *testing.T) {
	f := dsl.String().
		Describe("display name").
		Enum("a", "b").
		NullAsEmpty().
		Normalize().
		Declaration()
	assert.Equal(t, "string", f.Type)
	assert.Equal(t, "display name", f.Description)
	assert.Equal(t, []any{"a", "b"}, f.Enum)
	assert.True(t, f.NullAsEmpty)
	assert.True(t, f.Normalize)

	n := dsl.Number().Ceil(2).ZeroAsNull().Validate(func(v any) bool { return v.(float64) > 0 }).Declaration()
	require.NotNil(t, n.Ceil)
	assert.Equal(t, 2, *n.Ceil)
	assert.True(t, n.ZeroAsNull)
	assert.NotNil(t, n.Validate)

	d := dsl.Date().DefaultFunc(dsl.Now).Declaration()
	now, ok := d.Default.(func() any)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), now().(time.Time), time.Minute)

	typed := dsl.Type("percent").Const().Declaration()
	assert.Equal(t, "percent", typed.Type)
	assert.True(t, typed.Const)
}
