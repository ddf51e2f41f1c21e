package diagram

import "sync"

// State is the store for one open editor: the box, connector and text-field
// collections plus the interaction flags. Collections are never mutated in
// place; every write installs a new slice, so a caller holding an old slice
// keeps a consistent snapshot and can detect change by identity or Version.
//
// State performs no validation. Editor owns the invariants.
type State struct {
	mu sync.RWMutex

	boxes      []Box
	connectors []Connector
	textFields []TextField

	connectorMode bool
	pending       string
	relationType  RelationType

	version   uint64
	listeners []func(uint64)
}

// NewState returns an empty store with association as the relation type.
func NewState() *State {
	return &State{
		boxes:        []Box{},
		connectors:   []Connector{},
		textFields:   []TextField{},
		relationType: Association,
	}
}

// Boxes returns the current boxes. The slice must not be modified.
func (s *State) Boxes() []Box {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boxes
}

// Connectors returns the current connectors. The slice must not be modified.
func (s *State) Connectors() []Connector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connectors
}

// TextFields returns the current text annotations.
func (s *State) TextFields() []TextField {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.textFields
}

// ConnectorMode reports whether box clicks create connectors.
func (s *State) ConnectorMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connectorMode
}

// Pending returns the source box of an in-progress connection, or "".
func (s *State) Pending() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// RelationType is the type stamped on newly created connectors.
func (s *State) RelationType() RelationType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.relationType
}

// Version increases by one on every committed write.
func (s *State) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Diagram returns a deep copy of the persistable part of the state.
func (s *State) Diagram() Diagram {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Diagram{Boxes: s.boxes, Connectors: s.connectors}.Clone()
}

// SetBoxes replaces the box collection as one commit. Connectors are not
// checked against it.
func (s *State) SetBoxes(boxes []Box) {
	s.Update(func(tx *Tx) { tx.Boxes = boxes })
}

// SetConnectors replaces the connector collection.
func (s *State) SetConnectors(connectors []Connector) {
	s.Update(func(tx *Tx) { tx.Connectors = connectors })
}

// SetTextFields replaces the text annotations.
func (s *State) SetTextFields(fields []TextField) {
	s.Update(func(tx *Tx) { tx.TextFields = fields })
}

// SetConnectorMode sets the connector mode flag without touching the
// pending source.
func (s *State) SetConnectorMode(on bool) {
	s.Update(func(tx *Tx) { tx.ConnectorMode = on })
}

// SetPending sets the source box of a connection; "" clears it.
func (s *State) SetPending(boxID string) {
	s.Update(func(tx *Tx) { tx.Pending = boxID })
}

// SetRelationType sets the type used for new connectors.
func (s *State) SetRelationType(t RelationType) {
	s.Update(func(tx *Tx) { tx.RelationType = t })
}

// Subscribe registers fn to run after every commit with the new version.
// Listeners run outside the lock.
func (s *State) Subscribe(fn func(version uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Tx is the working set of one Update. Its slices start as the current
// collections; assign new slices to change them; do not write through the
// originals.
type Tx struct {
	Boxes         []Box
	Connectors    []Connector
	TextFields    []TextField
	ConnectorMode bool
	Pending       string
	RelationType  RelationType
}

// Update runs fn against a working copy and commits all of its changes as a
// single write. This is the only transaction boundary of the store.
func (s *State) Update(fn func(tx *Tx)) {
	s.apply(func(tx *Tx) bool {
		fn(tx)
		return true
	})
}

// apply is Update with an abort: when fn returns false nothing is committed
// and the version does not move.
func (s *State) apply(fn func(tx *Tx) bool) bool {
	s.mu.Lock()
	tx := Tx{
		Boxes:         s.boxes,
		Connectors:    s.connectors,
		TextFields:    s.textFields,
		ConnectorMode: s.connectorMode,
		Pending:       s.pending,
		RelationType:  s.relationType,
	}
	if !fn(&tx) {
		s.mu.Unlock()
		return false
	}
	s.boxes = nonNil(tx.Boxes)
	s.connectors = nonNil(tx.Connectors)
	s.textFields = nonNil(tx.TextFields)
	s.connectorMode = tx.ConnectorMode
	s.pending = tx.Pending
	s.relationType = tx.RelationType
	s.version++
	v := s.version
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l(v)
	}
	return true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
