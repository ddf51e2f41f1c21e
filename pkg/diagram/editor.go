package diagram

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	DefaultClassTitle     = "New Class"
	DefaultInterfaceTitle = "New Interface"
	DefaultAttribute      = "New Attribute"
	DefaultMethod         = "New Method"
)

// DefaultPosition is where new boxes and text fields appear.
var DefaultPosition = Point{X: 100, Y: 100}

// Section selects the attribute or method list of a box.
type Section int

const (
	Attributes Section = iota
	Methods
)

func (s Section) String() string {
	if s == Methods {
		return "methods"
	}
	return "attributes"
}

// BoxPatch carries the fields UpdateBox merges into a box. Nil fields are
// left unchanged.
type BoxPatch struct {
	Title      *string
	Attributes *[]BoxItem
	Methods    *[]BoxItem
}

// Editor applies mutation operations to a State while keeping the model
// invariants. Operations referencing unknown ids are silent no-ops: in an
// event-driven UI a stale id means the element was already removed.
type Editor struct {
	state   *State
	history *History
	logger  *log.Logger
	newID   func(prefix string) string
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger used for debug traces of ignored operations.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIDGenerator replaces the uuid based id generator.
func WithIDGenerator(fn func(prefix string) string) Option {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithHistoryLimit bounds the number of undo steps kept.
func WithHistoryLimit(n int) Option {
	return func(e *Editor) {
		e.history = NewHistory(n)
	}
}

// NewEditor returns an editor operating on st.
func NewEditor(st *State, opts ...Option) *Editor {
	e := &Editor{
		state:   st,
		history: NewHistory(DefaultHistoryLimit),
		logger:  log.New(io.Discard),
		newID:   NewID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewID returns a fresh id such as "box-1b4e28ba-2fa1-11d2-883f-0016d3cca427".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// State returns the store the editor writes to.
func (e *Editor) State() *State { return e.state }

// History returns the undo history.
func (e *Editor) History() *History { return e.history }

// commit runs fn as one store transaction and, when it changed something and
// record is set, pushes the previous collections onto the undo history.
func (e *Editor) commit(record bool, fn func(tx *Tx) bool) bool {
	var before snapshot
	ok := e.state.apply(func(tx *Tx) bool {
		before = snapshot{boxes: tx.Boxes, connectors: tx.Connectors, textFields: tx.TextFields}
		return fn(tx)
	})
	if ok && record {
		e.history.push(before)
	}
	return ok
}

// AddBox appends a new class or interface box at the default position.
func (e *Editor) AddBox(isInterface bool) Box {
	title := DefaultClassTitle
	if isInterface {
		title = DefaultInterfaceTitle
	}
	box := Box{
		ID:          e.newID("box"),
		Title:       title,
		Attributes:  []BoxItem{},
		Methods:     []BoxItem{},
		Position:    DefaultPosition,
		IsInterface: isInterface,
	}
	e.commit(true, func(tx *Tx) bool {
		tx.Boxes = append(cloneBoxes(tx.Boxes), box)
		return true
	})
	e.logger.Debug("box added", "id", box.ID, "interface", isInterface)
	return box
}

// MoveBox sets the box position and moves every endpoint bound to it.
// A connector whose two ends both reference id has both points updated.
func (e *Editor) MoveBox(id string, p Point) {
	e.moveBox(id, p, true)
}

func (e *Editor) moveBox(id string, p Point, record bool) bool {
	ok := e.commit(record, func(tx *Tx) bool {
		i := indexBox(tx.Boxes, id)
		if i < 0 {
			return false
		}
		boxes := cloneBoxes(tx.Boxes)
		boxes[i].Position = p
		conns := make([]Connector, len(tx.Connectors))
		for j, c := range tx.Connectors {
			if c.StartBoxID == id {
				c.StartPoint = p
			}
			if c.EndBoxID == id {
				c.EndPoint = p
			}
			conns[j] = c
		}
		tx.Boxes = boxes
		tx.Connectors = conns
		return true
	})
	if !ok {
		e.logger.Debug("move ignored, unknown box", "id", id)
	}
	return ok
}

// UpdateBox merges the non-nil fields of patch into the box.
func (e *Editor) UpdateBox(id string, patch BoxPatch) {
	ok := e.commit(true, func(tx *Tx) bool {
		i := indexBox(tx.Boxes, id)
		if i < 0 {
			return false
		}
		boxes := cloneBoxes(tx.Boxes)
		if patch.Title != nil {
			boxes[i].Title = *patch.Title
		}
		if patch.Attributes != nil {
			boxes[i].Attributes = cloneItems(*patch.Attributes)
		}
		if patch.Methods != nil {
			boxes[i].Methods = cloneItems(*patch.Methods)
		}
		tx.Boxes = boxes
		return true
	})
	if !ok {
		e.logger.Debug("update ignored, unknown box", "id", id)
	}
}

// SetTitle is UpdateBox with only the title set.
func (e *Editor) SetTitle(id, title string) {
	e.UpdateBox(id, BoxPatch{Title: &title})
}

// DeleteBox removes the box and, in the same transaction, every connector
// that references it.
func (e *Editor) DeleteBox(id string) {
	ok := e.commit(true, func(tx *Tx) bool {
		i := indexBox(tx.Boxes, id)
		if i < 0 {
			return false
		}
		boxes := make([]Box, 0, len(tx.Boxes)-1)
		boxes = append(boxes, tx.Boxes[:i]...)
		boxes = append(boxes, tx.Boxes[i+1:]...)
		tx.Boxes = boxes
		tx.Connectors = withoutTouching(tx.Connectors, id)
		if tx.Pending == id {
			tx.Pending = ""
		}
		return true
	})
	if ok {
		e.logger.Debug("box deleted", "id", id)
	}
}

// AddConnector links two existing boxes. It creates nothing and returns false
// when either box is unknown.
func (e *Editor) AddConnector(startBoxID, endBoxID string, t RelationType) (Connector, bool) {
	return e.connect(startBoxID, endBoxID, t, false)
}

// connect adds the connector and, when clearPending is set, drops the pending
// source in the same transaction.
func (e *Editor) connect(startBoxID, endBoxID string, t RelationType, clearPending bool) (Connector, bool) {
	var conn Connector
	ok := e.commit(true, func(tx *Tx) bool {
		si, ei := indexBox(tx.Boxes, startBoxID), indexBox(tx.Boxes, endBoxID)
		if si < 0 || ei < 0 {
			return false
		}
		conn = Connector{
			ID:         e.newID("connector"),
			StartBoxID: startBoxID,
			EndBoxID:   endBoxID,
			StartPoint: tx.Boxes[si].Position,
			EndPoint:   tx.Boxes[ei].Position,
			Type:       t,
		}
		conns := make([]Connector, 0, len(tx.Connectors)+1)
		tx.Connectors = append(append(conns, tx.Connectors...), conn)
		if clearPending {
			tx.Pending = ""
		}
		return true
	})
	if !ok {
		e.logger.Debug("connector ignored, unknown endpoint", "start", startBoxID, "end", endBoxID)
		return Connector{}, false
	}
	e.logger.Debug("connector added", "id", conn.ID, "type", t)
	return conn, true
}

// ResetConnections removes every connector touching boxID but keeps the box.
func (e *Editor) ResetConnections(boxID string) {
	e.commit(true, func(tx *Tx) bool {
		conns := withoutTouching(tx.Connectors, boxID)
		if len(conns) == len(tx.Connectors) {
			return false
		}
		tx.Connectors = conns
		return true
	})
}

// UpdateConnectorEndpoint moves one end of a connector independently of its
// box. The next MoveBox of that box overwrites the point again.
func (e *Editor) UpdateConnectorEndpoint(id string, which Endpoint, p Point) {
	e.updateEndpoint(id, which, p, true)
}

func (e *Editor) updateEndpoint(id string, which Endpoint, p Point, record bool) bool {
	ok := e.commit(record, func(tx *Tx) bool {
		i := indexConnector(tx.Connectors, id)
		if i < 0 {
			return false
		}
		conns := make([]Connector, len(tx.Connectors))
		copy(conns, tx.Connectors)
		if which == Start {
			conns[i].StartPoint = p
		} else {
			conns[i].EndPoint = p
		}
		tx.Connectors = conns
		return true
	})
	if !ok {
		e.logger.Debug("endpoint update ignored, unknown connector", "id", id)
	}
	return ok
}

// DeleteConnector removes a single connector.
func (e *Editor) DeleteConnector(id string) {
	e.commit(true, func(tx *Tx) bool {
		i := indexConnector(tx.Connectors, id)
		if i < 0 {
			return false
		}
		conns := make([]Connector, 0, len(tx.Connectors)-1)
		conns = append(conns, tx.Connectors[:i]...)
		tx.Connectors = append(conns, tx.Connectors[i+1:]...)
		return true
	})
}

// AddItem appends a default public entry to a section. Interfaces have no
// attribute section, so adding an attribute to one is ignored.
func (e *Editor) AddItem(boxID string, sec Section) {
	e.editItems(boxID, sec, func(items []BoxItem) ([]BoxItem, bool) {
		value := DefaultAttribute
		if sec == Methods {
			value = DefaultMethod
		}
		return append(items, BoxItem{Value: value, AccessModifier: Public}), true
	})
}

// SetItem replaces the entry at idx.
func (e *Editor) SetItem(boxID string, sec Section, idx int, item BoxItem) {
	e.editItems(boxID, sec, func(items []BoxItem) ([]BoxItem, bool) {
		if idx < 0 || idx >= len(items) {
			return nil, false
		}
		items[idx] = item
		return items, true
	})
}

// RemoveItem deletes the entry at idx.
func (e *Editor) RemoveItem(boxID string, sec Section, idx int) {
	e.editItems(boxID, sec, func(items []BoxItem) ([]BoxItem, bool) {
		if idx < 0 || idx >= len(items) {
			return nil, false
		}
		return append(items[:idx], items[idx+1:]...), true
	})
}

func (e *Editor) editItems(boxID string, sec Section, fn func([]BoxItem) ([]BoxItem, bool)) {
	e.commit(true, func(tx *Tx) bool {
		i := indexBox(tx.Boxes, boxID)
		if i < 0 {
			return false
		}
		if sec == Attributes && !tx.Boxes[i].HasAttributeSection() {
			return false
		}
		boxes := cloneBoxes(tx.Boxes)
		target := &boxes[i].Attributes
		if sec == Methods {
			target = &boxes[i].Methods
		}
		items, ok := fn(cloneItems(*target))
		if !ok {
			return false
		}
		*target = items
		tx.Boxes = boxes
		return true
	})
}

// SetRelationType selects the type stamped on new connectors. Unknown types
// are ignored.
func (e *Editor) SetRelationType(t RelationType) {
	if !t.Valid() {
		e.logger.Debug("relation type ignored", "type", t)
		return
	}
	e.state.SetRelationType(t)
}

// Load replaces the diagram with d, drops text fields and any pending
// connection, and starts a fresh history.
func (e *Editor) Load(d Diagram) {
	d = d.Clone()
	e.state.Update(func(tx *Tx) {
		tx.Boxes = d.Boxes
		tx.Connectors = d.Connectors
		tx.TextFields = []TextField{}
		tx.Pending = ""
	})
	e.history.Reset()
}

// Clear empties the diagram. It can be undone.
func (e *Editor) Clear() {
	e.commit(true, func(tx *Tx) bool {
		tx.Boxes = []Box{}
		tx.Connectors = []Connector{}
		tx.TextFields = []TextField{}
		tx.Pending = ""
		return true
	})
}

func indexBox(boxes []Box, id string) int {
	for i, b := range boxes {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func indexConnector(conns []Connector, id string) int {
	for i, c := range conns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func cloneBoxes(boxes []Box) []Box {
	out := make([]Box, len(boxes), len(boxes)+1)
	copy(out, boxes)
	return out
}

func withoutTouching(conns []Connector, boxID string) []Connector {
	out := make([]Connector, 0, len(conns))
	for _, c := range conns {
		if !c.Touches(boxID) {
			out = append(out, c)
		}
	}
	return out
}
