package diagram

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEditor returns an editor with sequential ids ("box-1", "connector-2", ...).
func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	n := 0
	return NewEditor(NewState(), WithIDGenerator(func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}))
}

// seed installs boxes at the given positions with ids b1, b2, ...
func seed(t *testing.T, e *Editor, positions ...Point) {
	t.Helper()
	boxes := make([]Box, len(positions))
	for i, p := range positions {
		boxes[i] = Box{
			ID:         fmt.Sprintf("b%d", i+1),
			Title:      DefaultClassTitle,
			Attributes: []BoxItem{},
			Methods:    []BoxItem{},
			Position:   p,
		}
	}
	e.Load(Diagram{Boxes: boxes, Connectors: []Connector{}})
}

func TestAddBox(t *testing.T) {
	t.Run("class", func(t *testing.T) {
		e := newTestEditor(t)
		b := e.AddBox(false)
		require.Len(t, e.State().Boxes(), 1)
		assert.Equal(t, "box-1", b.ID)
		assert.Equal(t, DefaultClassTitle, b.Title)
		assert.Equal(t, Point{X: 100, Y: 100}, b.Position)
		assert.Empty(t, b.Attributes)
		assert.Empty(t, b.Methods)
		assert.True(t, b.HasAttributeSection())
	})

	t.Run("interface", func(t *testing.T) {
		e := newTestEditor(t)
		b := e.AddBox(true)
		assert.Equal(t, "New Interface", b.Title)
		assert.Equal(t, []BoxItem{}, b.Attributes)
		assert.True(t, b.IsInterface)
		assert.False(t, b.HasAttributeSection())
	})

	t.Run("unique ids with default generator", func(t *testing.T) {
		e := NewEditor(NewState())
		seen := map[string]bool{}
		for i := 0; i < 50; i++ {
			b := e.AddBox(i%2 == 0)
			require.False(t, seen[b.ID], "duplicate id %s", b.ID)
			seen[b.ID] = true
		}
	})
}

func TestCopyOnWrite(t *testing.T) {
	e := newTestEditor(t)
	e.AddBox(false)
	before := e.State().Boxes()
	v := e.State().Version()

	e.AddBox(false)
	after := e.State().Boxes()

	assert.Len(t, before, 1, "old snapshot must not change")
	assert.Len(t, after, 2)
	assert.Greater(t, e.State().Version(), v)
}

func TestMoveBox(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{X: 0, Y: 0}, Point{X: 100, Y: 100}, Point{X: 300, Y: 0})
	ab, _ := e.AddConnector("b1", "b2", Association)
	ba, _ := e.AddConnector("b2", "b1", Dependency)
	other, _ := e.AddConnector("b2", "b3", Inheritance)

	p := Point{X: 42, Y: 17}
	e.MoveBox("b1", p)

	box, ok := e.State().Diagram().Box("b1")
	require.True(t, ok)
	assert.Equal(t, p, box.Position)

	conns := byID(e.State().Connectors())
	assert.Equal(t, p, conns[ab.ID].StartPoint)
	assert.Equal(t, Point{X: 100, Y: 100}, conns[ab.ID].EndPoint)
	assert.Equal(t, p, conns[ba.ID].EndPoint)
	assert.Equal(t, Point{X: 100, Y: 100}, conns[ba.ID].StartPoint)
	assert.Equal(t, other, conns[other.ID])
}

func TestMoveBoxSelfLoopUpdatesBothEnds(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{X: 0, Y: 0})
	c, ok := e.AddConnector("b1", "b1", Association)
	require.True(t, ok)

	p := Point{X: 9, Y: 9}
	e.MoveBox("b1", p)
	got := byID(e.State().Connectors())[c.ID]
	assert.Equal(t, p, got.StartPoint)
	assert.Equal(t, p, got.EndPoint)
}

func TestMoveBoxUnknownIsNoop(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{X: 1, Y: 1})
	v := e.State().Version()
	e.MoveBox("gone", Point{X: 5, Y: 5})
	assert.Equal(t, v, e.State().Version())
	assert.False(t, e.History().CanUndo())
}

func TestUpdateBox(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{})
	attrs := []BoxItem{{Value: "name: string", AccessModifier: Private}}

	e.UpdateBox("b1", BoxPatch{Attributes: &attrs})
	b, _ := e.State().Diagram().Box("b1")
	assert.Equal(t, DefaultClassTitle, b.Title, "omitted title is unchanged")
	assert.Equal(t, attrs, b.Attributes)
	assert.Empty(t, b.Methods)

	e.SetTitle("b1", "Customer")
	b, _ = e.State().Diagram().Box("b1")
	assert.Equal(t, "Customer", b.Title)
	assert.Equal(t, attrs, b.Attributes)

	// The patch slice is copied, not aliased.
	attrs[0].Value = "changed"
	b, _ = e.State().Diagram().Box("b1")
	assert.Equal(t, "name: string", b.Attributes[0].Value)

	v := e.State().Version()
	e.SetTitle("nope", "x")
	assert.Equal(t, v, e.State().Version())
}

func TestDeleteBoxCascades(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{}, Point{X: 100}, Point{X: 200})
	e.AddConnector("b1", "b2", Association)
	e.AddConnector("b2", "b3", Composition)
	e.AddConnector("b3", "b1", Aggregation)
	e.AddConnector("b2", "b2", Association)

	for _, id := range []string{"b2", "b1", "b3"} {
		e.DeleteBox(id)
		_, ok := e.State().Diagram().Box(id)
		assert.False(t, ok)
		for _, c := range e.State().Connectors() {
			assert.False(t, c.Touches(id), "connector %s still references %s", c.ID, id)
		}
	}
	assert.Empty(t, e.State().Connectors())
	assert.Empty(t, e.State().Boxes())
}

func TestDeleteBoxIsSingleWrite(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{}, Point{X: 100})
	e.AddConnector("b1", "b2", Association)

	var versions []uint64
	e.State().Subscribe(func(v uint64) {
		versions = append(versions, v)
		// Observers never see the box gone while its connector remains.
		for _, c := range e.State().Connectors() {
			_, ok := e.State().Diagram().Box(c.StartBoxID)
			assert.True(t, ok)
		}
	})
	e.DeleteBox("b1")
	assert.Len(t, versions, 1)
}

func TestDeleteBoxClearsPending(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{}, Point{X: 100})
	e.ToggleConnectorMode()
	e.ClickBox("b1")
	require.Equal(t, PendingSource, e.ConnectionMode())

	e.DeleteBox("b1")
	assert.Equal(t, Armed, e.ConnectionMode())
}

func TestAddConnector(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{X: 0, Y: 0}, Point{X: 100, Y: 100})

	c, ok := e.AddConnector("b1", "b2", Inheritance)
	require.True(t, ok)
	assert.Equal(t, "b1", c.StartBoxID)
	assert.Equal(t, "b2", c.EndBoxID)
	assert.Equal(t, Point{X: 0, Y: 0}, c.StartPoint)
	assert.Equal(t, Point{X: 100, Y: 100}, c.EndPoint)
	assert.Equal(t, Inheritance, c.Type)
	assert.Equal(t, "#10B981", c.Color())
	assert.Equal(t, []Connector{c}, e.State().Connectors())
}

func TestAddConnectorUnknownBox(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{})
	for _, ids := range [][2]string{{"b1", "x"}, {"x", "b1"}, {"x", "y"}} {
		_, ok := e.AddConnector(ids[0], ids[1], Association)
		assert.False(t, ok)
	}
	assert.Empty(t, e.State().Connectors())
}

func TestResetConnections(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{}, Point{X: 100}, Point{X: 200})
	e.AddConnector("b1", "b2", Association)
	e.AddConnector("b2", "b1", Association)
	keep, _ := e.AddConnector("b2", "b3", Association)

	e.ResetConnections("b1")
	once := e.State().Connectors()
	assert.Equal(t, []Connector{keep}, once)
	_, ok := e.State().Diagram().Box("b1")
	assert.True(t, ok, "box is retained")

	e.ResetConnections("b1")
	assert.Equal(t, once, e.State().Connectors(), "idempotent")
}

func TestUpdateConnectorEndpoint(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{}, Point{X: 100, Y: 100})
	c, _ := e.AddConnector("b1", "b2", Association)

	drag := Point{X: 500, Y: 20}
	e.UpdateConnectorEndpoint(c.ID, End, drag)
	got := byID(e.State().Connectors())[c.ID]
	assert.Equal(t, drag, got.EndPoint)
	assert.Equal(t, Point{}, got.StartPoint)

	e.UpdateConnectorEndpoint(c.ID, Start, Point{X: 1, Y: 2})
	got = byID(e.State().Connectors())[c.ID]
	assert.Equal(t, Point{X: 1, Y: 2}, got.StartPoint)
}

// A manually dragged endpoint is overwritten by the next move of its box.
// This pins existing behavior; change it only together with the product.
func TestMoveBoxOverwritesDraggedEndpoint(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{}, Point{X: 100, Y: 100})
	c, _ := e.AddConnector("b1", "b2", Association)

	e.UpdateConnectorEndpoint(c.ID, End, Point{X: 500, Y: 20})
	e.MoveBox("b2", Point{X: 120, Y: 130})

	got := byID(e.State().Connectors())[c.ID]
	assert.Equal(t, Point{X: 120, Y: 130}, got.EndPoint)
}

func TestDeleteConnector(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{}, Point{X: 100})
	a, _ := e.AddConnector("b1", "b2", Association)
	b, _ := e.AddConnector("b2", "b1", Association)

	e.DeleteConnector(a.ID)
	assert.Equal(t, []Connector{b}, e.State().Connectors())
	e.DeleteConnector(a.ID)
	assert.Equal(t, []Connector{b}, e.State().Connectors())
}

func TestItems(t *testing.T) {
	e := newTestEditor(t)
	cls := e.AddBox(false)
	ifc := e.AddBox(true)

	e.AddItem(cls.ID, Attributes)
	e.AddItem(cls.ID, Methods)
	e.AddItem(ifc.ID, Attributes)
	e.AddItem(ifc.ID, Methods)

	d := e.State().Diagram()
	c, _ := d.Box(cls.ID)
	i, _ := d.Box(ifc.ID)
	assert.Equal(t, []BoxItem{{Value: DefaultAttribute, AccessModifier: Public}}, c.Attributes)
	assert.Equal(t, []BoxItem{{Value: DefaultMethod, AccessModifier: Public}}, c.Methods)
	assert.Empty(t, i.Attributes, "interfaces have no attribute section")
	assert.Len(t, i.Methods, 1)

	e.SetItem(cls.ID, Methods, 0, BoxItem{Value: "save(): void", AccessModifier: Protected})
	e.SetItem(cls.ID, Methods, 7, BoxItem{Value: "ignored"})
	c, _ = e.State().Diagram().Box(cls.ID)
	assert.Equal(t, "# save(): void", c.Methods[0].String())

	e.RemoveItem(cls.ID, Attributes, 0)
	e.RemoveItem(cls.ID, Attributes, 0)
	c, _ = e.State().Diagram().Box(cls.ID)
	assert.Empty(t, c.Attributes)
	assert.Len(t, c.Methods, 1)
}

func TestSetRelationType(t *testing.T) {
	e := newTestEditor(t)
	assert.Equal(t, Association, e.State().RelationType())
	e.SetRelationType(Composition)
	assert.Equal(t, Composition, e.State().RelationType())
	e.SetRelationType("bogus")
	assert.Equal(t, Composition, e.State().RelationType())
}

func TestLoadAndClear(t *testing.T) {
	e := newTestEditor(t)
	e.AddBox(false)
	e.AddTextField()
	seed(t, e, Point{}, Point{X: 1})

	assert.Len(t, e.State().Boxes(), 2)
	assert.Empty(t, e.State().TextFields())
	assert.False(t, e.History().CanUndo(), "load starts a fresh history")

	e.Clear()
	assert.Empty(t, e.State().Boxes())
	require.True(t, e.Undo())
	assert.Len(t, e.State().Boxes(), 2)
}

func byID(conns []Connector) map[string]Connector {
	m := make(map[string]Connector, len(conns))
	for _, c := range conns {
		m[c.ID] = c
	}
	return m
}
