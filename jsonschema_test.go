package gomodel_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gomodel "github.com/reoring/gomodel"
	"github.com/reoring/gomodel/codec"
)

func TestJSONSchema_Golden(t *testing.T) {
	tag := gomodel.Define("Tag", func() gomodel.Schema {
		return gomodel.Schema{"label": gomodel.Field{Type: "string", Required: true}}
	})
	post := gomodel.Define("Post", func() gomodel.Schema {
		return gomodel.Schema{
			"id":    gomodel.Field{Type: "string", Primary: true, Const: true},
			"score": gomodel.Field{Type: "number", Default: 0},
			"tags":  gomodel.Field{Type: []any{tag}, Unique: true},
		}
	})

	s, err := post.JSONSchema()
	require.NoError(t, err)
	out, err := codec.MarshalIndent(s, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "post_schema", out)
}

func TestJSONSchema_RecursiveTypes(t *testing.T) {
	var node *gomodel.EntityType
	node = gomodel.Define("Node", func() gomodel.Schema {
		return gomodel.Schema{
			"next": node,
			"meta": gomodel.Field{Type: map[string]any{"*": "string"}, Description: "free form"},
		}
	})
	s, err := node.JSONSchema()
	require.NoError(t, err)
	assert.Equal(t, "#/$defs/Node", s.Ref)
	require.Contains(t, s.Defs, "Node")
	def := s.Defs["Node"]
	assert.Equal(t, "#/$defs/Node", def.Properties["next"].Ref)
	assert.Equal(t, "object", def.Properties["meta"].Type)
	assert.Equal(t, "free form", def.Properties["meta"].Description)
	assert.Equal(t, false, def.AdditionalProperties)
}
