package tui

import (
	"github.com/charmbracelet/log"

	"umlterm/internal/config"
	"umlterm/internal/store"
	"umlterm/pkg/diagram"
)

// Options wires the editor to its collaborators. Store may be nil, in which
// case save and load report an error in the status line.
type Options struct {
	Store  store.Store
	Config *config.Config
	Logger *log.Logger
	// Editor replaces the default editor, mainly for tests.
	Editor *diagram.Editor
}

// edit is an inline edit in progress.
type edit struct {
	target   EditTarget
	id       string
	section  diagram.Section
	index    int
	text     []rune
	cursor   int
	original string
}

type model struct {
	editor *diagram.Editor
	store  store.Store
	config *config.Config
	logger *log.Logger

	width      int
	height     int
	cursorX    int
	cursorY    int
	panX       int
	panY       int
	zPanMode   bool
	mode       Mode
	help       bool
	helpScroll int
	jsonScroll int

	edit          edit
	drag          *diagram.DragSession
	moveFrom      diagram.Point // pointer of a keyboard move, in pixels
	confirmAction ConfirmAction
	confirmID     string

	errorMessage   string
	successMessage string
	savedVersion   uint64
}

// loadedMsg carries the result of the startup load. version is the state
// version when the load was issued.
type loadedMsg struct {
	diagram diagram.Diagram
	found   bool
	err     error
	version uint64
}

// savedMsg reports a finished save.
type savedMsg struct {
	version uint64
	err     error
}

// exportedMsg reports a finished export.
type exportedMsg struct {
	path string
	err  error
}
