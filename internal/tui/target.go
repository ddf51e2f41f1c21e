package tui

import (
	"math"

	"umlterm/pkg/diagram"
)

type targetKind int

const (
	targetNone targetKind = iota
	targetBox
	targetText
	targetConnector
)

// target is the element under a point, most specific first: a box row, then
// the box, then a text field, then a connector.
type target struct {
	kind   targetKind
	box    diagram.Box
	row    diagram.Row
	hasRow bool
	text   diagram.TextField
	conn   diagram.Connector
}

// connectorTolerance is how close to a curve a point must be to hit it.
const connectorTolerance = diagram.LineHeight / 2

func (m *model) targetAt(p diagram.Point) target {
	st := m.editor.State()
	if b, ok := diagram.BoxAt(st.Boxes(), p); ok {
		row, hasRow := diagram.RowAt(b, p)
		return target{kind: targetBox, box: b, row: row, hasRow: hasRow}
	}
	if f, ok := diagram.TextFieldAt(st.TextFields(), p); ok {
		return target{kind: targetText, text: f}
	}
	if c, ok := diagram.ConnectorAt(st.Connectors(), p, connectorTolerance); ok {
		return target{kind: targetConnector, conn: c}
	}
	return target{}
}

func (m *model) targetUnderCursor() target {
	return m.targetAt(m.cursorPoint())
}

// endpointAt returns the connector end within endpointGrab of p. Later
// connectors win, matching the draw order.
func (m *model) endpointAt(p diagram.Point) (diagram.Connector, diagram.Endpoint, bool) {
	conns := m.editor.State().Connectors()
	for i := len(conns) - 1; i >= 0; i-- {
		c := conns[i]
		if dist(c.EndPoint, p) <= endpointGrab {
			return c, diagram.End, true
		}
		if dist(c.StartPoint, p) <= endpointGrab {
			return c, diagram.Start, true
		}
	}
	return diagram.Connector{}, diagram.Start, false
}

func dist(a, b diagram.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
