package rules_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gomodel "github.com/reoring/gomodel"
	"github.com/reoring/gomodel/rules"
)

func orderType(rs ...rules.Rule) *gomodel.EntityType {
	return gomodel.Define("Order", func() gomodel.Schema {
		return gomodel.Schema{
			"status":   "string",
			"tracking": "string",
			"carrier":  "string",
			"start":    "number",
			"end":      "number",
			"items":    "object[]",
		}
	}, rules.Validate(rs...))
}

func TestIfThen_Required(t *testing.T) {
	order := orderType(rules.If("status", rules.Eq, "shipped").Then(rules.Required("/tracking")))

	_, err := order.New(map[string]any{"status": "pending"})
	require.NoError(t, err)

	_, err = order.New(map[string]any{"status": "shipped"})
	require.Error(t, err)
	assert.Equal(t, "required tracking", err.Error())
	assert.True(t, errors.Is(err, gomodel.ErrRequired))

	o, err := order.New(map[string]any{"status": "shipped", "tracking": "T-1"})
	require.NoError(t, err)
	assert.Error(t, o.SetValue("tracking", nil))
	assert.Equal(t, "T-1", o.Get("tracking"))
}

func TestRequiredWith(t *testing.T) {
	order := orderType(rules.RequiredWith("tracking", "carrier"))
	_, err := order.New(map[string]any{"tracking": "T-1"})
	assert.True(t, errors.Is(err, gomodel.ErrRequired))
	_, err = order.New(map[string]any{"tracking": "T-1", "carrier": "UPS"})
	assert.NoError(t, err)
	_, err = order.New(nil)
	assert.NoError(t, err)
}

func TestAtLeastOne(t *testing.T) {
	order := orderType(rules.If("status", rules.Ne, nil).Then(rules.AtLeastOne("items")))
	_, err := order.New(map[string]any{"status": "new", "items": []any{}})
	require.Error(t, err)
	assert.Equal(t, "items needs at least 1 item(s)", err.Error())
	assert.True(t, errors.Is(err, gomodel.ErrTooShort))

	_, err = order.New(map[string]any{"status": "new", "items": []any{map[string]any{"sku": "a"}}})
	assert.NoError(t, err)
}

func TestUniqueBy(t *testing.T) {
	order := orderType(rules.UniqueBy("/items", "sku"))
	_, err := order.New(map[string]any{"items": []any{
		map[string]any{"sku": "a"},
		map[string]any{"sku": "b"},
		map[string]any{"sku": "a"},
	}})
	require.Error(t, err)
	iss, ok := gomodel.AsIssue(err)
	require.True(t, ok)
	assert.Equal(t, gomodel.CodeNotUnique, iss.Code)
	assert.Equal(t, "/items/2/sku", iss.Path)

	_, err = order.New(map[string]any{"items": []any{
		map[string]any{"sku": "a"},
		map[string]any{"sku": nil},
		map[string]any{},
	}})
	assert.NoError(t, err)
}

func TestCompare(t *testing.T) {
	order := orderType(rules.Compare("/start", rules.Le, "/end"))
	_, err := order.New(map[string]any{"start": 5, "end": 1})
	require.Error(t, err)
	assert.Equal(t, "start: must be <= end", err.Error())

	_, err = order.New(map[string]any{"start": 1, "end": 1})
	assert.NoError(t, err)
	_, err = order.New(map[string]any{"start": 5})
	assert.NoError(t, err, "null sides pass")
}

func TestCheck_AndCombinators(t *testing.T) {
	positive := rules.Check("start", "must be positive", func(v any) bool {
		n, ok := v.(float64)
		return !ok || n > 0
	})
	small := rules.Check("start", "must be below 10", func(v any) bool {
		n, ok := v.(float64)
		return !ok || n < 10
	})

	both := orderType(positive, small)
	_, err := both.New(map[string]any{"start": -1})
	require.Error(t, err)
	assert.Equal(t, "start: must be positive", err.Error())
	assert.True(t, errors.Is(err, gomodel.ErrRuleFailed))

	either := orderType(rules.Or(positive, small))
	_, err = either.New(map[string]any{"start": -1})
	assert.NoError(t, err)
	_, err = either.New(map[string]any{"start": 20})
	assert.NoError(t, err)

	first := orderType(rules.FirstOf(small, positive))
	_, err = first.New(map[string]any{"start": 20})
	assert.Equal(t, "start: must be below 10", err.Error())
}

func TestConditional_Composition(t *testing.T) {
	snap := gomodel.Define("Flags", func() gomodel.Schema {
		return gomodel.Schema{"a": "number", "b": "string", "when": "date"}
	}).MustNew(map[string]any{"a": 3, "b": "x", "when": "2025-01-01"}).Data()

	assert.True(t, rules.If("a", rules.Gt, 2).Holds(snap))
	assert.False(t, rules.If("a", rules.Lt, 2).Holds(snap))
	assert.True(t, rules.If("a", rules.Ge, 3).And(rules.If("b", rules.Eq, "x")).Holds(snap))
	assert.False(t, rules.IfAll(rules.If("a", rules.Eq, 3), rules.If("b", rules.Eq, "y")).Holds(snap))
	assert.True(t, rules.If("b", rules.Eq, "y").Or(rules.If("a", rules.Le, 3)).Holds(snap))
	assert.True(t, rules.IfAny(rules.If("missing", rules.Eq, nil)).Holds(snap))
	assert.True(t, rules.If("b", rules.Lt, "y").Holds(snap))
	assert.False(t, rules.If("a", rules.Lt, "y").Holds(snap), "mixed kinds never order")
	assert.Equal(t, "<=", rules.Le.String())
}

func TestPaths_DescendIntoNestedEntities(t *testing.T) {
	owner := gomodel.Define("Owner", func() gomodel.Schema { return gomodel.Schema{"name": "string"} })
	pet := gomodel.Define("Pet", func() gomodel.Schema {
		return gomodel.Schema{"owner": owner, "tags": "string[]"}
	}, rules.Validate(
		rules.If("/owner/name", rules.Eq, "root").Then(rules.AtLeastOne("tags")),
	))

	_, err := pet.New(map[string]any{"owner": map[string]any{"name": "root"}, "tags": []any{}})
	assert.True(t, errors.Is(err, gomodel.ErrTooShort))
	_, err = pet.New(map[string]any{"owner": map[string]any{"name": "ann"}, "tags": []any{}})
	assert.NoError(t, err)
}
