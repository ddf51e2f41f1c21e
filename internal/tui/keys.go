package tui

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"umlterm/pkg/diagram"
)

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.help {
		return m.handleHelpKey(msg)
	}
	switch m.mode {
	case ModeEditing:
		return m.handleEditKey(msg)
	case ModeMove:
		return m.handleMoveKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	case ModeJSON:
		return m.handleJSONKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m *model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if isNavigationKey(key) {
		return m.handleNavigation(key, m.getMoveSpeed(key))
	}
	if i := slices.Index(relationKeys, key); i >= 0 {
		t := diagram.RelationTypes()[i]
		m.editor.SetRelationType(t)
		m.successMessage = "Relation: " + string(t)
		return m, nil
	}

	switch key {
	case "esc":
		m.zPanMode = false
		if m.editor.State().ConnectorMode() {
			m.editor.ToggleConnectorMode()
		}
		m.errorMessage = ""
		m.successMessage = ""
	case "q":
		if !m.confirmations() {
			return m, tea.Quit
		}
		m.confirm(ConfirmQuit, "")
	case "?":
		m.help = true
		m.helpScroll = 0
	case "z":
		m.zPanMode = !m.zPanMode
	case "b", "i":
		box := m.editor.AddBox(key == "i")
		m.jumpTo(box.Position)
	case "t":
		tf := m.editor.AddTextField()
		m.jumpTo(tf.Position)
	case "c":
		mode := m.editor.ToggleConnectorMode()
		m.successMessage = "Connector mode: " + mode.String()
	case "enter", " ":
		m.clickUnderCursor()
	case "e":
		m.beginEdit()
	case "a":
		m.addItem(diagram.Attributes)
	case "o":
		m.addItem(diagram.Methods)
	case "v":
		m.cycleModifier()
	case "d", "delete":
		m.deleteUnderCursor()
	case "r":
		if t := m.targetUnderCursor(); t.kind == targetBox {
			m.editor.ResetConnections(t.box.ID)
			m.successMessage = "Connections removed"
		}
	case "m":
		m.beginMove()
	case "u":
		m.undo()
	case "U", "ctrl+r":
		m.redo()
	case "s":
		return m, m.saveCmd()
	case "S":
		m.confirm(ConfirmChooseExportType, "")
	case "p":
		m.mode = ModeJSON
		m.jsonScroll = 0
	case "y":
		m.copyJSON()
	case "n":
		if !m.confirmations() {
			m.newDiagram()
			return m, nil
		}
		m.confirm(ConfirmNewDiagram, "")
	}
	return m, nil
}

func (m *model) confirmations() bool {
	return m.config == nil || m.config.Confirmations
}

func (m *model) confirm(action ConfirmAction, id string) {
	m.mode = ModeConfirm
	m.confirmAction = action
	m.confirmID = id
}

// clickUnderCursor feeds the box under the cursor into the connection
// machine.
func (m *model) clickUnderCursor() {
	t := m.targetUnderCursor()
	if t.kind != targetBox {
		return
	}
	m.clickBox(t.box)
}

func (m *model) clickBox(b diagram.Box) {
	result, conn := m.editor.ClickBox(b.ID)
	switch result {
	case diagram.ClickIgnored:
		if !m.editor.State().ConnectorMode() {
			m.successMessage = "Press c to enter connector mode"
		}
	case diagram.ClickSelected:
		m.successMessage = fmt.Sprintf("Connecting from %q, select target", b.Title)
	case diagram.ClickSameSource:
		m.successMessage = "Select a different target box"
	case diagram.ClickConnected:
		m.successMessage = fmt.Sprintf("Added %s connector", conn.Type)
	}
	m.errorMessage = ""
}

func (m *model) addItem(sec diagram.Section) {
	t := m.targetUnderCursor()
	if t.kind != targetBox {
		m.errorMessage = "No box under cursor"
		return
	}
	if sec == diagram.Attributes && t.box.IsInterface {
		m.errorMessage = "Interfaces have no attributes"
		return
	}
	m.editor.AddItem(t.box.ID, sec)
	m.errorMessage = ""
}

func (m *model) cycleModifier() {
	t := m.targetUnderCursor()
	if t.kind != targetBox || !t.hasRow || t.row.Kind != diagram.RowItem {
		m.errorMessage = "No attribute or method under cursor"
		return
	}
	item := boxItem(t.box, t.row)
	item.AccessModifier = item.AccessModifier.Next()
	m.editor.SetItem(t.box.ID, t.row.Section, t.row.Index, item)
	m.errorMessage = ""
}

// deleteUnderCursor removes the most specific element under the cursor. Item
// rows go without asking; whole elements ask first when confirmations are on.
func (m *model) deleteUnderCursor() {
	t := m.targetUnderCursor()
	switch {
	case t.kind == targetBox && t.hasRow && t.row.Kind == diagram.RowItem:
		m.editor.RemoveItem(t.box.ID, t.row.Section, t.row.Index)
	case t.kind == targetBox:
		m.confirmOrRun(ConfirmDeleteBox, t.box.ID)
	case t.kind == targetText:
		m.confirmOrRun(ConfirmDeleteText, t.text.ID)
	case t.kind == targetConnector:
		m.confirmOrRun(ConfirmDeleteConnector, t.conn.ID)
	default:
		m.errorMessage = "Nothing to delete here"
	}
}

func (m *model) confirmOrRun(action ConfirmAction, id string) {
	if m.confirmations() {
		m.confirm(action, id)
		return
	}
	m.runConfirmed(action, id)
}

func (m *model) runConfirmed(action ConfirmAction, id string) tea.Cmd {
	switch action {
	case ConfirmDeleteBox:
		m.editor.DeleteBox(id)
	case ConfirmDeleteText:
		m.editor.DeleteTextField(id)
	case ConfirmDeleteConnector:
		m.editor.DeleteConnector(id)
	case ConfirmNewDiagram:
		m.newDiagram()
	case ConfirmQuit:
		return tea.Quit
	}
	return nil
}

func (m *model) newDiagram() {
	m.editor.Clear()
	m.cursorX, m.cursorY = 0, 0
	m.panX, m.panY = 0, 0
	m.errorMessage = ""
	m.successMessage = "New diagram"
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, id := m.confirmAction, m.confirmID
	if action == ConfirmChooseExportType {
		var f exportFormat
		switch msg.String() {
		case "p", "P":
			f = exportFormat("png")
		case "s", "S":
			f = exportFormat("svg")
		case "t", "T":
			f = exportText
		case "esc", "n", "q":
			m.mode = ModeNormal
			return m, nil
		default:
			return m, nil
		}
		m.mode = ModeNormal
		return m, m.exportCmd(f)
	}

	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		m.confirmID = ""
		return m, m.runConfirmed(action, id)
	case "n", "N", "esc":
		m.mode = ModeNormal
		m.confirmID = ""
	}
	return m, nil
}

func (m *model) confirmMessage() string {
	switch m.confirmAction {
	case ConfirmDeleteBox:
		return "Delete this box and its connectors? (y/n)"
	case ConfirmDeleteText:
		return "Delete this text? (y/n)"
	case ConfirmDeleteConnector:
		return "Delete this connector? (y/n)"
	case ConfirmNewDiagram:
		return "Start a new diagram? Unsaved changes will be lost. (y/n)"
	case ConfirmQuit:
		if m.dirty() {
			return "Quit? Unsaved changes will be lost. (y/n)"
		}
		return "Quit? (y/n)"
	case ConfirmChooseExportType:
		return "Export as (p)ng, (s)vg or (t)ext? Esc to cancel"
	}
	return ""
}

// beginMove starts a keyboard drag of the box or text field under the cursor.
// The cursor acts as the pointer, so the element keeps its offset from it.
func (m *model) beginMove() {
	t := m.targetUnderCursor()
	p := m.cursorPoint()
	var (
		drag *diagram.DragSession
		ok   bool
	)
	switch t.kind {
	case targetBox:
		drag, ok = m.editor.BeginBoxDrag(t.box.ID, p)
		if !ok {
			m.errorMessage = "Leave connector mode to move boxes"
			return
		}
	case targetText:
		drag, ok = m.editor.BeginTextDrag(t.text.ID, p)
	}
	if !ok {
		m.errorMessage = "Nothing to move here"
		return
	}
	m.drag = drag
	m.moveFrom = p
	m.mode = ModeMove
	m.errorMessage = ""
	m.successMessage = ""
}

func (m *model) handleMoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case isNavigationKey(key):
		m.handleCursorMove(key, m.getMoveSpeed(key))
		m.drag.Move(m.cursorPoint())
	case key == "enter":
		m.drag.End()
		m.drag = nil
		m.mode = ModeNormal
	case key == "esc":
		m.drag.Cancel()
		m.drag = nil
		m.jumpTo(m.moveFrom)
		m.mode = ModeNormal
	}
	return m, nil
}

func (m *model) handleJSONKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "p":
		m.mode = ModeNormal
	case "j", "down":
		if m.jsonScroll < len(m.jsonLines())-m.pageHeight() {
			m.jsonScroll++
		}
	case "k", "up":
		if m.jsonScroll > 0 {
			m.jsonScroll--
		}
	case "y":
		m.copyJSON()
	}
	return m, nil
}

func (m *model) copyJSON() {
	data, err := diagram.MarshalIndent(m.editor.State().Diagram())
	if err == nil {
		err = writeClipboardText(string(data))
	}
	if err != nil {
		m.errorMessage = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.errorMessage = ""
	m.successMessage = "Diagram JSON copied to clipboard"
}

func (m *model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.helpScroll < m.maxHelpScroll() {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m, nil
}
