package diagram

// DefaultText is the content of a new text field.
const DefaultText = "Edit this text"

// AddTextField places a new annotation at the default position.
func (e *Editor) AddTextField() TextField {
	tf := TextField{ID: e.newID("text"), Position: DefaultPosition, Text: DefaultText}
	e.commit(true, func(tx *Tx) bool {
		fields := make([]TextField, 0, len(tx.TextFields)+1)
		tx.TextFields = append(append(fields, tx.TextFields...), tf)
		return true
	})
	return tf
}

// MoveTextField sets the position of an annotation.
func (e *Editor) MoveTextField(id string, p Point) {
	e.moveTextField(id, p, true)
}

func (e *Editor) moveTextField(id string, p Point, record bool) bool {
	return e.editTextField(id, record, func(tf *TextField) { tf.Position = p })
}

// SetText replaces the content of an annotation.
func (e *Editor) SetText(id, text string) {
	e.editTextField(id, true, func(tf *TextField) { tf.Text = text })
}

// DeleteTextField removes an annotation.
func (e *Editor) DeleteTextField(id string) {
	e.commit(true, func(tx *Tx) bool {
		i := indexTextField(tx.TextFields, id)
		if i < 0 {
			return false
		}
		fields := make([]TextField, 0, len(tx.TextFields)-1)
		fields = append(fields, tx.TextFields[:i]...)
		tx.TextFields = append(fields, tx.TextFields[i+1:]...)
		return true
	})
}

func (e *Editor) editTextField(id string, record bool, fn func(*TextField)) bool {
	return e.commit(record, func(tx *Tx) bool {
		i := indexTextField(tx.TextFields, id)
		if i < 0 {
			return false
		}
		fields := make([]TextField, len(tx.TextFields))
		copy(fields, tx.TextFields)
		fn(&fields[i])
		tx.TextFields = fields
		return true
	})
}

func indexTextField(fields []TextField, id string) int {
	for i, f := range fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}
