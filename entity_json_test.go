package gomodel_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gomodel "github.com/reoring/gomodel"
	"github.com/reoring/gomodel/codec"
)

type counter struct{ n int }

func (c counter) ToJSON() (any, error) { return map[string]any{"n": c.n}, nil }

type point struct{ X, Y int }

func (p point) MarshalJSON() ([]byte, error) { return []byte(fmt.Sprintf("[%d,%d]", p.X, p.Y)), nil }

func TestAny_ToJSONDelegates(t *testing.T) {
	bag := gomodel.Define("Bag", func() gomodel.Schema {
		return gomodel.Schema{"payload": "*", "list": "*", "at": "*"}
	})
	b, err := bag.New(map[string]any{
		"payload": counter{n: 1},
		"list":    []any{counter{n: 2}, point{X: 1, Y: 2}},
		"at":      point{X: 3, Y: 4},
	})
	require.NoError(t, err)

	out, err := b.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 1}, out["payload"])
	assert.Equal(t, []any{map[string]any{"n": 2}, []any{1.0, 2.0}}, out["list"])
	assert.Equal(t, []any{3.0, 4.0}, out["at"])

	raw, err := b.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":[3,4],"list":[{"n":2},[1,2]],"payload":{"n":1}}`, string(raw))
}

func orderTypes() (*gomodel.EntityType, *gomodel.CollectionType) {
	item := gomodel.Define("LineItem", func() gomodel.Schema {
		return gomodel.Schema{"sku": gomodel.Field{Type: "string", Required: true}, "qty": "number"}
	})
	items := gomodel.DefineCollection("LineItems", func() *gomodel.EntityType { return item })
	order := gomodel.Define("Order", func() gomodel.Schema {
		return gomodel.Schema{
			"placed": "date",
			"tags":   gomodel.Field{Type: "string[]", Sort: true},
			"prices": map[string]any{"*": "number"},
			"items":  items,
			"extra":  "*",
		}
	})
	return order, items
}

func TestEntity_JSONRoundTrip(t *testing.T) {
	order, _ := orderTypes()
	o, err := order.New(map[string]any{
		"placed": time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
		"tags":   []any{"b", "a"},
		"prices": map[string]any{"a": 1.5, "b": "2"},
		"items": []any{
			map[string]any{"sku": "A-1", "qty": 2},
			map[string]any{"sku": "B-2"},
		},
		"extra": map[string]any{"nested": []any{1, "x", true, nil}},
	})
	require.NoError(t, err)

	j, err := o.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01T08:00:00.000Z", j["placed"])

	back, err := order.New(j)
	require.NoError(t, err)
	assert.True(t, o.Equal(back))
	assert.True(t, back.Equal(o))

	again, err := back.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, j, again)

	raw, err := o.MarshalJSON()
	require.NoError(t, err)
	decoded, err := codec.DecodeJSON(raw)
	require.NoError(t, err)
	fromText, err := order.New(decoded.(map[string]any))
	require.NoError(t, err)
	assert.True(t, o.Equal(fromText))
}

func TestEntity_JSONRoundTripOfNulls(t *testing.T) {
	order, _ := orderTypes()
	o := order.MustNew(nil)
	j, err := o.ToJSON()
	require.NoError(t, err)
	back, err := order.New(j)
	require.NoError(t, err)
	assert.True(t, o.Equal(back))
}
