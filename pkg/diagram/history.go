package diagram

// DefaultHistoryLimit is the number of undo steps an Editor keeps.
const DefaultHistoryLimit = 100

// snapshot is the set of collections before one operation. The store never
// writes into a committed slice, so holding the slices is enough.
type snapshot struct {
	boxes      []Box
	connectors []Connector
	textFields []TextField
}

// History keeps undo and redo stacks of snapshots.
type History struct {
	undoStack []snapshot
	redoStack []snapshot
	limit     int
}

// NewHistory returns a history keeping at most limit undo steps.
// A limit below one means unbounded.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

func (h *History) push(s snapshot) {
	h.undoStack = append(h.undoStack, s)
	if h.limit > 0 && len(h.undoStack) > h.limit {
		h.undoStack = h.undoStack[len(h.undoStack)-h.limit:]
	}
	h.redoStack = h.redoStack[:0]
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Reset drops both stacks.
func (h *History) Reset() {
	h.undoStack = nil
	h.redoStack = nil
}

// Undo restores the collections from before the last recorded operation.
// It reports false when there is nothing to undo.
func (e *Editor) Undo() bool {
	h := e.history
	if len(h.undoStack) == 0 {
		return false
	}
	last := len(h.undoStack) - 1
	prev := h.undoStack[last]
	h.undoStack = h.undoStack[:last]
	cur := e.restore(prev)
	h.redoStack = append(h.redoStack, cur)
	return true
}

// Redo reapplies the last undone operation.
func (e *Editor) Redo() bool {
	h := e.history
	if len(h.redoStack) == 0 {
		return false
	}
	last := len(h.redoStack) - 1
	next := h.redoStack[last]
	h.redoStack = h.redoStack[:last]
	cur := e.restore(next)
	h.undoStack = append(h.undoStack, cur)
	return true
}

// restore installs s and returns what it replaced. A pending connection whose
// source box no longer exists is cleared.
func (e *Editor) restore(s snapshot) snapshot {
	var cur snapshot
	e.state.Update(func(tx *Tx) {
		cur = snapshot{boxes: tx.Boxes, connectors: tx.Connectors, textFields: tx.TextFields}
		tx.Boxes = s.boxes
		tx.Connectors = s.connectors
		tx.TextFields = s.textFields
		if tx.Pending != "" && indexBox(tx.Boxes, tx.Pending) < 0 {
			tx.Pending = ""
		}
	})
	return cur
}
