package tui

func (m *model) undo() {
	if !m.editor.Undo() {
		m.errorMessage = "Nothing to undo"
		return
	}
	m.errorMessage = ""
	m.successMessage = "Undone"
}

func (m *model) redo() {
	if !m.editor.Redo() {
		m.errorMessage = "Nothing to redo"
		return
	}
	m.errorMessage = ""
	m.successMessage = "Redone"
}
