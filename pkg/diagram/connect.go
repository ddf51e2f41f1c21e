package diagram

// ConnectionMode is the state of the connector-creation machine.
type ConnectionMode int

const (
	// Idle: connector mode is off; box clicks start drags instead.
	Idle ConnectionMode = iota
	// Armed: connector mode is on and no source box is selected.
	Armed
	// PendingSource: a source box is selected and the next click on another
	// box creates a connector.
	PendingSource
)

func (m ConnectionMode) String() string {
	switch m {
	case Armed:
		return "armed"
	case PendingSource:
		return "pending"
	default:
		return "idle"
	}
}

// ClickResult says what a box click did.
type ClickResult int

const (
	// ClickIgnored: connector mode is off or the box is unknown; the caller
	// handles the click.
	ClickIgnored ClickResult = iota
	// ClickSelected: the box became the pending source.
	ClickSelected
	// ClickSameSource: the pending source was clicked again; nothing changed.
	ClickSameSource
	// ClickConnected: a connector was created and the machine is armed again.
	ClickConnected
)

// ConnectionMode derives the machine state from the store flags.
func (e *Editor) ConnectionMode() ConnectionMode {
	switch {
	case !e.state.ConnectorMode():
		return Idle
	case e.state.Pending() == "":
		return Armed
	default:
		return PendingSource
	}
}

// ToggleConnectorMode switches between Idle and Armed. Turning the mode off
// from any state clears the pending source.
func (e *Editor) ToggleConnectorMode() ConnectionMode {
	e.state.Update(func(tx *Tx) {
		tx.ConnectorMode = !tx.ConnectorMode
		tx.Pending = ""
	})
	return e.ConnectionMode()
}

// ClickBox feeds a box click into the machine. A completed connection always
// returns to Armed, so chaining connectors needs a new source each time.
// Clicks on unknown boxes are ignored and leave the machine where it was.
func (e *Editor) ClickBox(id string) (ClickResult, Connector) {
	switch e.ConnectionMode() {
	case Idle:
		return ClickIgnored, Connector{}
	case Armed:
		if indexBox(e.state.Boxes(), id) < 0 {
			return ClickIgnored, Connector{}
		}
		e.state.SetPending(id)
		return ClickSelected, Connector{}
	}

	if indexBox(e.state.Boxes(), id) < 0 {
		return ClickIgnored, Connector{}
	}
	source := e.state.Pending()
	if source == id {
		return ClickSameSource, Connector{}
	}
	conn, ok := e.connect(source, id, e.state.RelationType(), true)
	if !ok {
		return ClickIgnored, Connector{}
	}
	return ClickConnected, conn
}
