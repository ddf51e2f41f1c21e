package tui

// Mode is what keystrokes currently drive.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
	ModeMove
	ModeConfirm
	ModeJSON
)

type ConfirmAction int

const (
	ConfirmDeleteBox ConfirmAction = iota
	ConfirmDeleteText
	ConfirmDeleteConnector
	ConfirmNewDiagram
	ConfirmQuit
	ConfirmChooseExportType
)

// EditTarget is what the inline editor writes back to.
type EditTarget int

const (
	EditTitle EditTarget = iota
	EditItem
	EditText
)

const (
	// rows above the canvas: the toolbar
	canvasTop = 1
	// rows below the canvas: the status line
	canvasBottom = 1

	// pointer distance, in pixels, that grabs a connector endpoint
	endpointGrab = 10.0
)

var relationKeys = []string{"1", "2", "3", "4", "5", "6"}
