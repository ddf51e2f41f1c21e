package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"umlterm/pkg/diagram"
)

var (
	toolbarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Reverse(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	connectorOn   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pendingColor))
	jsonLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// toolbarItem is a clickable label of the toolbar, spanning [start, end).
type toolbarItem struct {
	label      string
	start, end int
	toggle     bool
	relation   diagram.RelationType
}

func (m *model) toolbarItems() []toolbarItem {
	mode := "off"
	if m.editor.State().ConnectorMode() {
		mode = "on"
	}
	items := []toolbarItem{{label: fmt.Sprintf(" [c]onnect: %-3s ", mode), toggle: true}}
	for i, t := range diagram.RelationTypes() {
		items = append(items, toolbarItem{label: fmt.Sprintf(" %s %s ", relationKeys[i], t), relation: t})
	}
	x := 0
	for i := range items {
		items[i].start = x
		x += len(items[i].label)
		items[i].end = x
	}
	return items
}

func (m *model) renderToolbar() string {
	st := m.editor.State()
	current := st.RelationType()
	var b strings.Builder
	for _, it := range m.toolbarItems() {
		switch {
		case it.toggle && st.ConnectorMode():
			b.WriteString(connectorOn.Render(it.label))
		case it.toggle:
			b.WriteString(toolbarStyle.Render(it.label))
		default:
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(diagram.Color(it.relation)))
			if it.relation == current {
				style = style.Inherit(activeStyle)
			}
			b.WriteString(style.Render(it.label))
		}
	}
	return b.String()
}

func (m *model) View() string {
	if m.help {
		return m.helpView()
	}
	if m.mode == ModeJSON {
		return m.jsonView()
	}

	st := m.editor.State()
	sc := scene{
		boxes:      st.Boxes(),
		connectors: st.Connectors(),
		textFields: st.TextFields(),
		pending:    st.Pending(),
	}
	if m.mode == ModeMove && m.drag != nil && m.drag.Kind() == diagram.DragBox {
		sc.selected = m.drag.ID()
	}
	g := renderScene(sc, m.width, m.canvasHeight(), m.panX, m.panY)
	g.cursor(m.cursorX, m.cursorY)

	var result strings.Builder
	result.WriteString(m.renderToolbar())
	result.WriteString("\n")
	result.WriteString(strings.Join(g.styled(), "\n"))
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m *model) modeString() string {
	switch m.mode {
	case ModeEditing:
		return "EDIT"
	case ModeMove:
		return "MOVE"
	case ModeConfirm:
		return "CONFIRM"
	case ModeJSON:
		return "JSON"
	default:
		if m.zPanMode {
			return "PAN"
		}
		return "NORMAL"
	}
}

func (m *model) statusLine() string {
	switch m.mode {
	case ModeEditing:
		return fmt.Sprintf("Mode: EDIT | %s: %s | ←/→=move cursor, Ctrl+V=paste, Enter=save, Esc=cancel",
			m.edit.label(), m.edit.display())
	case ModeMove:
		return "Mode: MOVE | hjkl/arrows=move, Enter=finish, Esc=cancel"
	case ModeConfirm:
		return "Mode: CONFIRM | " + m.confirmMessage()
	}

	status := fmt.Sprintf("Mode: %s | Cursor: (%d,%d)", m.modeString(), m.cursorX+m.panX, m.cursorY+m.panY)
	if m.editor.ConnectionMode() == diagram.PendingSource {
		status += " | Select target box"
	}
	if m.dirty() {
		status += " | modified"
	}
	switch {
	case m.errorMessage != "":
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		status += " | " + successStyle.Render(m.successMessage)
	default:
		status += " | ? for help | q to quit"
	}
	return status
}

func (m *model) jsonLines() []string {
	data, err := diagram.MarshalIndent(m.editor.State().Diagram())
	if err != nil {
		return []string{"ERROR: " + err.Error()}
	}
	return strings.Split(string(data), "\n")
}

func (m *model) jsonView() string {
	lines := m.jsonLines()
	visible := m.pageHeight()
	start := m.jsonScroll
	if start > len(lines)-visible {
		start = len(lines) - visible
	}
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}
	var result strings.Builder
	for _, l := range lines[start:end] {
		result.WriteString(jsonLineStyle.Render(l))
		result.WriteString("\n")
	}
	result.WriteString(fmt.Sprintf("JSON (%d-%d of %d lines) | j/k to scroll, y to copy, Esc to close",
		start+1, end, len(lines)))
	if m.successMessage != "" {
		result.WriteString(" | " + m.successMessage)
	}
	return result.String()
}
