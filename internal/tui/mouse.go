package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"umlterm/pkg/diagram"
)

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal || m.help {
		return m, nil
	}
	if msg.Y < canvasTop {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.clickToolbar(msg.X)
		}
		return m, nil
	}
	x, y := msg.X, msg.Y-canvasTop
	p := m.cellPoint(x, y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.cursorX, m.cursorY = x, y
		m.ensureCursorInBounds()
		m.press(p)
	case tea.MouseActionMotion:
		if m.drag != nil {
			m.cursorX, m.cursorY = x, y
			m.ensureCursorInBounds()
			m.drag.Move(p)
		}
	case tea.MouseActionRelease:
		if m.drag != nil {
			m.drag.End()
			m.drag = nil
		}
	}
	return m, nil
}

// press starts whatever a left press at p means: grabbing a connector end,
// a connection click or a box drag, or a text field drag.
func (m *model) press(p diagram.Point) {
	if c, which, ok := m.endpointAt(p); ok && !m.editor.State().ConnectorMode() {
		m.drag, _ = m.editor.BeginEndpointDrag(c.ID, which, p)
		return
	}
	t := m.targetAt(p)
	switch t.kind {
	case targetBox:
		if m.editor.State().ConnectorMode() {
			m.clickBox(t.box)
			return
		}
		m.drag, _ = m.editor.BeginBoxDrag(t.box.ID, p)
	case targetText:
		m.drag, _ = m.editor.BeginTextDrag(t.text.ID, p)
	}
}

func (m *model) clickToolbar(x int) {
	for _, it := range m.toolbarItems() {
		if x < it.start || x >= it.end {
			continue
		}
		if it.toggle {
			mode := m.editor.ToggleConnectorMode()
			m.successMessage = "Connector mode: " + mode.String()
			return
		}
		m.editor.SetRelationType(it.relation)
		m.successMessage = "Relation: " + string(it.relation)
		return
	}
}
