package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"umlterm/pkg/diagram"
)

// beginEdit opens the inline editor on the element under the cursor: the
// title or item row of a box, or a text field.
func (m *model) beginEdit() {
	t := m.targetUnderCursor()
	switch {
	case t.kind == targetBox && t.hasRow && t.row.Kind == diagram.RowItem:
		item := boxItem(t.box, t.row)
		m.startEdit(edit{target: EditItem, id: t.box.ID, section: t.row.Section, index: t.row.Index, original: item.Value})
	case t.kind == targetBox:
		m.startEdit(edit{target: EditTitle, id: t.box.ID, original: t.box.Title})
	case t.kind == targetText:
		m.startEdit(edit{target: EditText, id: t.text.ID, original: t.text.Text})
	default:
		m.errorMessage = "Nothing to edit here"
	}
}

func (m *model) startEdit(e edit) {
	e.text = []rune(e.original)
	e.cursor = len(e.text)
	m.edit = e
	m.mode = ModeEditing
	m.errorMessage = ""
	m.successMessage = ""
}

func boxItem(b diagram.Box, row diagram.Row) diagram.BoxItem {
	items := b.Attributes
	if row.Section == diagram.Methods {
		items = b.Methods
	}
	if row.Index < 0 || row.Index >= len(items) {
		return diagram.BoxItem{}
	}
	return items[row.Index]
}

// commitEdit writes the edited text back. The element may have been removed
// meanwhile, in which case the editor ignores the write.
func (m *model) commitEdit() {
	e := m.edit
	text := string(e.text)
	if text != e.original {
		switch e.target {
		case EditTitle:
			m.editor.SetTitle(e.id, text)
		case EditText:
			m.editor.SetText(e.id, text)
		case EditItem:
			if b, ok := m.editor.State().Diagram().Box(e.id); ok {
				item := boxItem(b, diagram.Row{Section: e.section, Index: e.index})
				item.Value = text
				m.editor.SetItem(e.id, e.section, e.index, item)
			}
		}
	}
	m.edit = edit{}
	m.mode = ModeNormal
}

func (m *model) cancelEdit() {
	m.edit = edit{}
	m.mode = ModeNormal
}

func (m *model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.edit
	switch msg.Type {
	case tea.KeyEsc:
		m.cancelEdit()
	case tea.KeyEnter, tea.KeyCtrlS:
		m.commitEdit()
	case tea.KeyLeft:
		if e.cursor > 0 {
			e.cursor--
		}
	case tea.KeyRight:
		if e.cursor < len(e.text) {
			e.cursor++
		}
	case tea.KeyHome, tea.KeyCtrlA:
		e.cursor = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		e.cursor = len(e.text)
	case tea.KeyBackspace:
		if e.cursor > 0 {
			e.text = append(e.text[:e.cursor-1], e.text[e.cursor:]...)
			e.cursor--
		}
	case tea.KeyDelete:
		if e.cursor < len(e.text) {
			e.text = append(e.text[:e.cursor], e.text[e.cursor+1:]...)
		}
	case tea.KeyCtrlU:
		e.text = e.text[e.cursor:]
		e.cursor = 0
	case tea.KeyCtrlV:
		text, err := readClipboardText()
		if err != nil {
			m.errorMessage = fmt.Sprintf("Paste failed: %v", err)
			return m, nil
		}
		e.insert([]rune(singleLine(cleanClipboardText(text))))
	case tea.KeySpace:
		e.insert([]rune{' '})
	case tea.KeyRunes:
		e.insert(msg.Runes)
	}
	return m, nil
}

func (e *edit) insert(rs []rune) {
	text := make([]rune, 0, len(e.text)+len(rs))
	text = append(text, e.text[:e.cursor]...)
	text = append(text, rs...)
	text = append(text, e.text[e.cursor:]...)
	e.text = text
	e.cursor += len(rs)
}

// display renders the edit buffer with the block cursor over the current
// position, or appended at the end.
func (e edit) display() string {
	rs := append([]rune(nil), e.text...)
	if e.cursor >= len(rs) {
		return string(rs) + string(cursorRune)
	}
	rs[e.cursor] = cursorRune
	return string(rs)
}

func (e edit) label() string {
	switch e.target {
	case EditTitle:
		return "Title"
	case EditItem:
		if e.section == diagram.Methods {
			return "Method"
		}
		return "Attribute"
	default:
		return "Text"
	}
}
