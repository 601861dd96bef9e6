package gomodel_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gomodel "github.com/reoring/gomodel"
	"github.com/reoring/gomodel/graph"
)

type orgTypes struct {
	employee  *gomodel.EntityType
	employees *gomodel.CollectionType
	company   *gomodel.EntityType
}

func newOrgTypes() orgTypes {
	var o orgTypes
	o.employee = gomodel.Define("Employee", func() gomodel.Schema {
		return gomodel.Schema{
			"name":    gomodel.Field{Type: "string", Required: true},
			"manager": o.employee,
		}
	})
	o.employees = gomodel.DefineCollection("Employees", func() *gomodel.EntityType { return o.employee })
	o.company = gomodel.Define("Company", func() gomodel.Schema {
		return gomodel.Schema{
			"ceo":   o.employee,
			"staff": gomodel.Field{Type: o.employees, NullAsEmpty: true},
		}
	})
	return o
}

func name(e *gomodel.Entity) string { s, _ := e.Get("name").(string); return s }

func TestWalk_VisitsNestedEntities(t *testing.T) {
	o := newOrgTypes()
	c, err := o.company.New(map[string]any{
		"ceo": map[string]any{"name": "Ann"},
		"staff": []any{
			map[string]any{"name": "Bob", "manager": map[string]any{"name": "Cid"}},
			map[string]any{"name": "Dan"},
		},
	})
	require.NoError(t, err)

	var visited []string
	c.Walk(func(e *gomodel.Entity, _ *graph.Walker) { visited = append(visited, name(e)) })
	assert.Equal(t, []string{"Ann", "Bob", "Cid", "Dan"}, visited)

	visited = nil
	c.Walk(func(e *gomodel.Entity, w *graph.Walker) {
		visited = append(visited, name(e))
		if name(e) == "Bob" {
			w.Continue()
		}
	})
	assert.Equal(t, []string{"Ann", "Bob", "Dan"}, visited, "continue skips the subtree")

	visited = nil
	c.Walk(func(e *gomodel.Entity, w *graph.Walker) {
		visited = append(visited, name(e))
		w.Exit()
	})
	assert.Equal(t, []string{"Ann"}, visited)
}

func TestFind_ChildrenAndParents(t *testing.T) {
	o := newOrgTypes()
	c, err := o.company.New(map[string]any{
		"staff": []any{map[string]any{"name": "Bob", "manager": map[string]any{"name": "Cid"}}},
	})
	require.NoError(t, err)

	cid := c.FindChild(func(e *gomodel.Entity) bool { return name(e) == "Cid" })
	require.NotNil(t, cid)
	assert.Nil(t, c.FindChild(func(e *gomodel.Entity) bool { return name(e) == "Zed" }))
	assert.Len(t, c.FilterChildren(func(e *gomodel.Entity) bool { return e.Type() == o.employee }), 2)

	bob := cid.Parent()
	require.NotNil(t, bob)
	assert.Equal(t, "Bob", name(bob))
	assert.Same(t, c, bob.Parent())
	assert.Same(t, c, cid.FindParentInstance(o.company))
	assert.Same(t, bob, cid.FindParent(func(e *gomodel.Entity) bool { return e.Type() == o.employee }))
	assert.Len(t, cid.FilterParents(func(*gomodel.Entity) bool { return true }), 2)
	assert.Nil(t, c.FindParentInstance(o.company))
}

func TestWalk_TerminatesOnCycles(t *testing.T) {
	o := newOrgTypes()
	a := o.employee.MustNew(map[string]any{"name": "A"})
	b := o.employee.MustNew(map[string]any{"name": "B", "manager": a})
	require.NoError(t, a.SetValue("manager", b))

	var visited []string
	a.Walk(func(e *gomodel.Entity, _ *graph.Walker) { visited = append(visited, name(e)) })
	assert.Equal(t, []string{"B"}, visited)
	assert.Len(t, a.FilterParents(func(*gomodel.Entity) bool { return true }), 2)

	_, err := a.ToJSON()
	assert.True(t, errors.Is(err, gomodel.ErrCircular))

	c := a.Clone()
	assert.Same(t, c, c.Get("manager").(*gomodel.Entity).Get("manager"), "clone keeps the cycle")
	assert.True(t, c.Equal(a))
}

func TestNestedModel_RejectsOtherTypes(t *testing.T) {
	o := newOrgTypes()
	other := gomodel.Define("Other", func() gomodel.Schema { return gomodel.Schema{"name": "string"} })
	_, err := o.company.New(map[string]any{"ceo": other.MustNew(map[string]any{"name": "X"})})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gomodel.ErrInvalidModel))
	assert.Equal(t, `invalid model Employee for ceo: {"name":"X"}`, err.Error())

	_, err = o.company.New(map[string]any{"ceo": map[string]any{}})
	require.Error(t, err)
	assert.Equal(t, "invalid model Employee for ceo: {},\n required name", err.Error())
	assert.True(t, errors.Is(err, gomodel.ErrRequired))
}

func TestParent_OnlyChangesOnCommit(t *testing.T) {
	o := newOrgTypes()
	c1 := o.company.MustNew(map[string]any{
		"ceo":   map[string]any{"name": "Ann"},
		"staff": []any{map[string]any{"name": "Bob"}},
	})
	ann := c1.Get("ceo").(*gomodel.Entity)
	staff := c1.Get("staff").(*gomodel.Collection)
	require.Same(t, c1, ann.Parent())

	c2 := o.company.MustNew(nil)
	assert.True(t, c2.IsValid(map[string]any{"ceo": ann, "staff": staff}))
	assert.Same(t, c1, ann.Parent())
	assert.Same(t, c1, staff.Parent())
	assert.Same(t, c1, staff.At(0).Parent())

	require.NoError(t, c2.Set(map[string]any{"ceo": ann}, gomodel.OnlyValidate()))
	assert.Same(t, c1, ann.Parent())

	err := c2.Set(map[string]any{"ceo": ann, "staff": "not a list"})
	require.Error(t, err)
	assert.Same(t, c1, ann.Parent(), "rejected set leaves the parent alone")
	assert.Nil(t, c2.Get("ceo"))

	require.NoError(t, c2.Set(map[string]any{"ceo": ann, "staff": staff}))
	assert.Same(t, c2, ann.Parent())
	assert.Same(t, c2, staff.Parent())
	assert.Same(t, c2, staff.At(0).Parent())
}

func TestParent_CollectionPushAndSet(t *testing.T) {
	o := newOrgTypes()
	c := o.company.MustNew(nil)
	staff := c.Get("staff").(*gomodel.Collection)

	require.NoError(t, staff.Push(map[string]any{"name": "Eve"}))
	assert.Same(t, c, staff.At(0).Parent())

	assert.Error(t, staff.Push(map[string]any{"name": "Fay"}, map[string]any{}))
	assert.Equal(t, 1, staff.Len())

	require.NoError(t, staff.Set(0, map[string]any{"name": "Gus"}))
	assert.Same(t, c, staff.At(0).Parent())
}

func TestWalkWith_SharesVisitedSet(t *testing.T) {
	o := newOrgTypes()
	c1 := o.company.MustNew(map[string]any{
		"ceo": map[string]any{"name": "Ann", "manager": map[string]any{"name": "Bob"}},
	})
	ann := c1.Get("ceo").(*gomodel.Entity)
	c2 := o.company.MustNew(map[string]any{"staff": []any{map[string]any{"name": "Cid"}}})

	visited := map[*gomodel.Entity]struct{}{}
	var names []string
	collect := func(e *gomodel.Entity, _ *graph.Walker) { names = append(names, name(e)) }

	ann.WalkWith(collect, visited)
	assert.Equal(t, []string{"Bob"}, names)
	assert.Contains(t, visited, ann)

	c1.WalkWith(collect, visited)
	assert.Equal(t, []string{"Bob"}, names, "entities seen by an earlier walk are skipped")

	c2.WalkWith(collect, visited)
	assert.Equal(t, []string{"Bob", "Cid"}, names)

	names = nil
	c1.WalkWith(collect, nil)
	assert.Equal(t, []string{"Ann", "Bob"}, names)
}
