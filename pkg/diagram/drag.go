package diagram

// DragKind is what a drag session moves.
type DragKind int

const (
	DragBox DragKind = iota
	DragText
	DragEndpoint
)

// DragSession moves one element while the pointer is held. It captures the
// offset between pointer and element origin on press, overwrites the position
// on every move and stops applying moves after End. The whole drag is a
// single undo step, recorded on the first move that changes the element, so
// a press without motion leaves the history untouched.
type DragSession struct {
	editor   *Editor
	kind     DragKind
	id       string
	which    Endpoint
	offset   Point
	last     Point
	before   snapshot
	recorded bool
	ended    bool
}

// BeginBoxDrag starts dragging a box. It returns false when connector mode is
// on (box clicks belong to the connection machine) or the box is unknown.
func (e *Editor) BeginBoxDrag(id string, pointer Point) (*DragSession, bool) {
	if e.state.ConnectorMode() {
		return nil, false
	}
	boxes := e.state.Boxes()
	i := indexBox(boxes, id)
	if i < 0 {
		return nil, false
	}
	return e.begin(DragBox, id, Start, pointer, boxes[i].Position), true
}

// BeginTextDrag starts dragging a text field.
func (e *Editor) BeginTextDrag(id string, pointer Point) (*DragSession, bool) {
	fields := e.state.TextFields()
	i := indexTextField(fields, id)
	if i < 0 {
		return nil, false
	}
	return e.begin(DragText, id, Start, pointer, fields[i].Position), true
}

// BeginEndpointDrag starts dragging one end of a connector away from its box.
func (e *Editor) BeginEndpointDrag(id string, which Endpoint, pointer Point) (*DragSession, bool) {
	conns := e.state.Connectors()
	i := indexConnector(conns, id)
	if i < 0 {
		return nil, false
	}
	origin := conns[i].StartPoint
	if which == End {
		origin = conns[i].EndPoint
	}
	return e.begin(DragEndpoint, id, which, pointer, origin), true
}

func (e *Editor) begin(kind DragKind, id string, which Endpoint, pointer, origin Point) *DragSession {
	return &DragSession{
		editor: e,
		kind:   kind,
		id:     id,
		which:  which,
		offset: Point{X: pointer.X - origin.X, Y: pointer.Y - origin.Y},
		last:   origin,
		before: snapshot{
			boxes:      e.state.Boxes(),
			connectors: e.state.Connectors(),
			textFields: e.state.TextFields(),
		},
	}
}

// Kind returns what the session moves.
func (d *DragSession) Kind() DragKind { return d.kind }

// ID returns the id of the dragged element.
func (d *DragSession) ID() string { return d.id }

// Move places the element so that it keeps its captured offset from pointer.
func (d *DragSession) Move(pointer Point) {
	if d.ended {
		return
	}
	p := Point{X: pointer.X - d.offset.X, Y: pointer.Y - d.offset.Y}
	if p == d.last {
		return
	}
	var ok bool
	switch d.kind {
	case DragBox:
		ok = d.editor.moveBox(d.id, p, false)
	case DragText:
		ok = d.editor.moveTextField(d.id, p, false)
	case DragEndpoint:
		ok = d.editor.updateEndpoint(d.id, d.which, p, false)
	}
	if !ok {
		return
	}
	d.last = p
	if !d.recorded {
		d.editor.history.push(d.before)
		d.recorded = true
	}
}

// Moved reports whether the session changed the element.
func (d *DragSession) Moved() bool { return d.recorded }

// End releases the session. Later moves are ignored.
func (d *DragSession) End() {
	d.ended = true
}

// Cancel releases the session and puts the element back where it was on
// press. The drag's undo step is consumed, so nothing is left to redo.
func (d *DragSession) Cancel() {
	d.ended = true
	if !d.recorded {
		return
	}
	if h := d.editor.history; len(h.undoStack) > 0 {
		h.undoStack = h.undoStack[:len(h.undoStack)-1]
	}
	d.editor.restore(d.before)
	d.recorded = false
}

// Active reports whether the session still applies moves.
func (d *DragSession) Active() bool {
	return !d.ended
}
