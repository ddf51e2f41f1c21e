package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"umlterm/internal/config"
	"umlterm/internal/export"
	"umlterm/pkg/diagram"
)

var errNoStore = errors.New("no storage configured")

func (m *model) timeout() time.Duration {
	if m.config != nil && m.config.SaveTimeout.Duration > 0 {
		return m.config.SaveTimeout.Duration
	}
	return config.DefaultSaveTimeout
}

func (m *model) user() string {
	if m.config != nil && m.config.User != "" {
		return m.config.User
	}
	return "local"
}

// loadCmd fetches the user's diagram once at startup.
func (m *model) loadCmd() tea.Cmd {
	st, user, timeout := m.store, m.user(), m.timeout()
	if st == nil {
		return nil
	}
	version := m.editor.State().Version()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		d, found, err := st.Load(ctx, user)
		return loadedMsg{diagram: d, found: found, err: err, version: version}
	}
}

// saveCmd persists a snapshot of the current diagram. The snapshot is taken
// here, so edits made while the save runs are not part of it.
func (m *model) saveCmd() tea.Cmd {
	st, user, timeout := m.store, m.user(), m.timeout()
	state := m.editor.State()
	d, version := state.Diagram(), state.Version()
	if st == nil {
		return func() tea.Msg { return savedMsg{version: version, err: errNoStore} }
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return savedMsg{version: version, err: st.Save(ctx, user, d)}
	}
}

// exportFormat is an export choice offered in the confirm prompt. It extends
// the image formats with the plain text canvas dump.
type exportFormat string

const exportText exportFormat = "txt"

func (m *model) exportPath(ext string) string {
	name := m.user() + "." + ext
	if m.config == nil {
		return name
	}
	return m.config.ExportPath(name)
}

// exportCmd writes the diagram to <save dir>/<user>.<ext>.
func (m *model) exportCmd(f exportFormat) tea.Cmd {
	path := m.exportPath(string(f))
	if f == exportText {
		lines := m.exportLines()
		return func() tea.Msg {
			return exportedMsg{path: path, err: writeLines(path, lines)}
		}
	}
	state := m.editor.State()
	d, fields := state.Diagram(), state.TextFields()
	return func() tea.Msg {
		err := export.File(path, d, export.Options{TextFields: fields})
		return exportedMsg{path: path, err: err}
	}
}

// exportLines renders the whole diagram, not just the viewport, as plain text.
func (m *model) exportLines() []string {
	st := m.editor.State()
	r, ok := diagram.Bounds(st.Diagram(), st.TextFields())
	if !ok {
		return nil
	}
	x0 := int(math.Floor(r.X/diagram.CharWidth)) - 1
	y0 := int(math.Floor(r.Y/diagram.LineHeight)) - 1
	w := int(math.Ceil(r.W/diagram.CharWidth)) + 3
	h := int(math.Ceil(r.H/diagram.LineHeight)) + 3
	g := renderScene(scene{
		boxes:      st.Boxes(),
		connectors: st.Connectors(),
		textFields: st.TextFields(),
	}, w, h, x0, y0)
	return g.plain()
}

func writeLines(path string, lines []string) error {
	if len(lines) == 0 {
		return export.ErrEmpty
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	body := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (m *model) handleLoaded(msg loadedMsg) {
	switch {
	case msg.err != nil:
		m.logger.Error("load failed", "user", m.user(), "err", msg.err)
		m.errorMessage = fmt.Sprintf("Load failed: %v", msg.err)
	case !msg.found:
		m.logger.Debug("no saved diagram", "user", m.user())
	case m.editor.State().Version() != msg.version:
		// the canvas was edited before the load returned; keep that work
		m.logger.Warn("saved diagram not loaded, canvas already edited", "user", m.user())
		m.errorMessage = "Saved diagram not loaded: canvas was edited first"
	default:
		m.editor.Load(msg.diagram)
		m.savedVersion = m.editor.State().Version()
		m.successMessage = fmt.Sprintf("Loaded %d boxes, %d connectors", len(msg.diagram.Boxes), len(msg.diagram.Connectors))
		m.logger.Info("diagram loaded", "user", m.user(), "boxes", len(msg.diagram.Boxes))
	}
}

func (m *model) handleSaved(msg savedMsg) {
	if msg.err != nil {
		m.logger.Error("save failed", "user", m.user(), "err", msg.err)
		m.errorMessage = fmt.Sprintf("Save failed: %v", msg.err)
		m.successMessage = ""
		return
	}
	if msg.version > m.savedVersion {
		m.savedVersion = msg.version
	}
	m.logger.Info("diagram saved", "user", m.user(), "version", msg.version)
	m.errorMessage = ""
	m.successMessage = "Diagram saved"
}

func (m *model) handleExported(msg exportedMsg) {
	if msg.err != nil {
		m.logger.Error("export failed", "path", msg.path, "err", msg.err)
		m.errorMessage = fmt.Sprintf("Export failed: %v", msg.err)
		m.successMessage = ""
		return
	}
	m.logger.Info("diagram exported", "path", msg.path)
	m.errorMessage = ""
	m.successMessage = "Exported to " + msg.path
}

// dirty reports whether there are edits since the last load or save.
func (m *model) dirty() bool {
	return m.editor.State().Version() != m.savedVersion
}
