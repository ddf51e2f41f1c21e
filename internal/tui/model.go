// Package tui is the interactive terminal editor. It draws the diagram on a
// character canvas using the same pixel layout as the image exports and
// drives the editing core in pkg/diagram from keys and mouse events.
package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"umlterm/internal/config"
	"umlterm/pkg/diagram"
)

// New builds the editor model. It loads the configured user's diagram on
// Init.
func New(opts Options) tea.Model {
	return newModel(opts)
}

func newModel(opts Options) *model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	ed := opts.Editor
	if ed == nil {
		ed = diagram.NewEditor(diagram.NewState(), diagram.WithLogger(logger))
	}
	ed.State().Subscribe(func(v uint64) {
		logger.Debug("diagram changed", "version", v)
	})
	return &model{
		editor:       ed,
		store:        opts.Store,
		config:       cfg,
		logger:       logger,
		savedVersion: ed.State().Version(),
	}
}

// Run starts the editor full screen and blocks until the user quits or ctx
// is canceled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(
		New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

func (m *model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case loadedMsg:
		m.handleLoaded(msg)
		return m, nil

	case savedMsg:
		m.handleSaved(msg)
		return m, nil

	case exportedMsg:
		m.handleExported(msg)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}
