package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umlterm/internal/config"
	"umlterm/internal/store"
	"umlterm/pkg/diagram"
)

// newTestModel returns a 120x40 editor with sequential ids and an in-memory
// store. Boxes created with "b" land at cells (12..36, 6..10).
func newTestModel(t *testing.T) (*model, *store.MemoryStore) {
	t.Helper()
	n := 0
	ed := diagram.NewEditor(diagram.NewState(), diagram.WithIDGenerator(func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}))
	st := store.NewMemoryStore(nil)
	cfg := &config.Config{
		SaveDirectory: t.TempDir(),
		User:          "tester",
		Confirmations: true,
		SaveTimeout:   config.Duration{Duration: time.Second},
	}
	m := newModel(Options{Editor: ed, Store: st, Config: cfg})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, st
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// send feeds keys in order and returns the command of the last one.
func send(m *model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *model, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	m.Update(msg)
	return msg
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func box(t *testing.T, m *model, id string) diagram.Box {
	t.Helper()
	b, ok := m.editor.State().Diagram().Box(id)
	require.True(t, ok, "box %s", id)
	return b
}

func TestAddAndEditBox(t *testing.T) {
	m, _ := newTestModel(t)

	send(m, "b")
	require.Len(t, m.editor.State().Boxes(), 1)
	assert.Equal(t, 12, m.cursorX)
	assert.Equal(t, 6, m.cursorY)

	send(m, "e")
	require.Equal(t, ModeEditing, m.mode)
	assert.Equal(t, EditTitle, m.edit.target)
	send(m, "ctrl+u", "User", "enter")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "User", box(t, m, "box-1").Title)

	// row 8 is the attribute separator, the new attribute lands on row 9
	send(m, "j", "j", "a", "j", "v", "e", "ctrl+u", "name: string", "enter")
	b := box(t, m, "box-1")
	require.Len(t, b.Attributes, 1)
	assert.Equal(t, diagram.BoxItem{Value: "name: string", AccessModifier: diagram.Private}, b.Attributes[0])

	// the methods separator follows the attribute
	send(m, "j", "o")
	b = box(t, m, "box-1")
	require.Len(t, b.Methods, 1)
	assert.Equal(t, diagram.DefaultMethod, b.Methods[0].Value)
}

func TestEditCancel(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "b", "e", "zzz", "esc")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, diagram.DefaultClassTitle, box(t, m, "box-1").Title)
}

func TestEditCursorKeys(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "t", "e", "ctrl+u", "ac", "left", "b")
	assert.Equal(t, "abc", string(m.edit.text))
	assert.Equal(t, "ab█", m.edit.display())
	send(m, "backspace", "enter")
	assert.Equal(t, "ac", m.editor.State().TextFields()[0].Text)
}

func TestInterfaceHasNoAttributes(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "i", "a")
	assert.Empty(t, box(t, m, "box-1").Attributes)
	assert.Equal(t, "Interfaces have no attributes", m.errorMessage)

	send(m, "j", "o")
	assert.Len(t, box(t, m, "box-1").Methods, 1)
}

func TestKeyboardConnection(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "b", "b")
	m.editor.MoveBox("box-2", diagram.Point{X: 400, Y: 100})

	send(m, "3", "c", "enter")
	assert.Equal(t, diagram.PendingSource, m.editor.ConnectionMode())
	assert.Equal(t, "box-1", m.editor.State().Pending())

	m.cursorX = 55
	send(m, "enter")
	conns := m.editor.State().Connectors()
	require.Len(t, conns, 1)
	assert.Equal(t, "box-1", conns[0].StartBoxID)
	assert.Equal(t, "box-2", conns[0].EndBoxID)
	assert.Equal(t, diagram.Composition, conns[0].Type)
	assert.Equal(t, diagram.Armed, m.editor.ConnectionMode())

	send(m, "esc")
	assert.Equal(t, diagram.Idle, m.editor.ConnectionMode())
}

func TestDeleteUnderCursor(t *testing.T) {
	t.Run("box asks first and takes its connectors", func(t *testing.T) {
		m, _ := newTestModel(t)
		send(m, "b", "b")
		m.editor.MoveBox("box-2", diagram.Point{X: 400, Y: 100})
		m.editor.AddConnector("box-1", "box-2", diagram.Association)

		send(m, "d")
		require.Equal(t, ModeConfirm, m.mode)
		assert.Equal(t, ConfirmDeleteBox, m.confirmAction)
		send(m, "n")
		assert.Len(t, m.editor.State().Boxes(), 2)

		send(m, "d", "y")
		assert.Equal(t, ModeNormal, m.mode)
		assert.Len(t, m.editor.State().Boxes(), 1)
		assert.Empty(t, m.editor.State().Connectors())
	})

	t.Run("item row goes without asking", func(t *testing.T) {
		m, _ := newTestModel(t)
		send(m, "b", "j", "j", "a", "j", "d")
		assert.Equal(t, ModeNormal, m.mode)
		assert.Empty(t, box(t, m, "box-1").Attributes)
	})

	t.Run("no confirmations", func(t *testing.T) {
		m, _ := newTestModel(t)
		m.config.Confirmations = false
		send(m, "t", "d")
		assert.Empty(t, m.editor.State().TextFields())
	})

	t.Run("empty space", func(t *testing.T) {
		m, _ := newTestModel(t)
		send(m, "d")
		assert.Equal(t, "Nothing to delete here", m.errorMessage)
	})
}

func TestResetConnections(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "b", "b")
	m.editor.MoveBox("box-2", diagram.Point{X: 400, Y: 100})
	m.editor.AddConnector("box-1", "box-2", diagram.Association)
	m.editor.AddConnector("box-2", "box-1", diagram.Dependency)

	send(m, "r")
	assert.Empty(t, m.editor.State().Connectors())
	assert.Len(t, m.editor.State().Boxes(), 2)
}

func TestKeyboardMove(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "b", "m")
	require.Equal(t, ModeMove, m.mode)
	send(m, "l", "l", "l", "enter")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, diagram.Point{X: 124, Y: 100}, box(t, m, "box-1").Position)

	send(m, "m", "j", "j", "esc")
	assert.Equal(t, diagram.Point{X: 124, Y: 100}, box(t, m, "box-1").Position, "esc puts it back")

	send(m, "m", "esc")
	assert.Equal(t, diagram.Point{X: 124, Y: 100}, box(t, m, "box-1").Position, "cancel without motion changes nothing")

	send(m, "u")
	assert.Equal(t, diagram.Point{X: 100, Y: 100}, box(t, m, "box-1").Position, "a move is one undo step")
}

func TestMoveRefusedInConnectorMode(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "b", "c", "m")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "Leave connector mode to move boxes", m.errorMessage)
}

func TestMouseDragBox(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "b")

	// screen row 7 is canvas row 6, below the toolbar
	m.Update(mouse(tea.MouseActionPress, 13, 7))
	require.NotNil(t, m.drag)
	m.Update(mouse(tea.MouseActionMotion, 23, 10))
	m.Update(mouse(tea.MouseActionRelease, 23, 10))
	assert.Nil(t, m.drag)
	assert.Equal(t, diagram.Point{X: 180, Y: 148}, box(t, m, "box-1").Position)

	m.Update(mouse(tea.MouseActionMotion, 40, 20))
	assert.Equal(t, diagram.Point{X: 180, Y: 148}, box(t, m, "box-1").Position, "moves after release are ignored")

	send(m, "u")
	assert.Equal(t, diagram.DefaultPosition, box(t, m, "box-1").Position)

	m.Update(mouse(tea.MouseActionPress, 13, 7))
	m.Update(mouse(tea.MouseActionRelease, 13, 7))
	assert.True(t, m.editor.History().CanRedo(), "a click without motion keeps the redo step")
	send(m, "U")
	assert.Equal(t, diagram.Point{X: 180, Y: 148}, box(t, m, "box-1").Position)
}

func TestMouseDragEndpoint(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "b", "b")
	m.editor.MoveBox("box-2", diagram.Point{X: 400, Y: 100})
	conn, ok := m.editor.AddConnector("box-1", "box-2", diagram.Association)
	require.True(t, ok)

	m.Update(mouse(tea.MouseActionPress, 50, 7))
	require.NotNil(t, m.drag)
	assert.Equal(t, diagram.DragEndpoint, m.drag.Kind())
	m.Update(mouse(tea.MouseActionMotion, 60, 20))
	m.Update(mouse(tea.MouseActionRelease, 60, 20))

	conns := m.editor.State().Connectors()
	require.Len(t, conns, 1)
	assert.Equal(t, conn.ID, conns[0].ID)
	assert.Equal(t, diagram.Point{X: 480, Y: 308}, conns[0].EndPoint)
	assert.Equal(t, diagram.Point{X: 400, Y: 100}, box(t, m, "box-2").Position)
}

func TestMouseConnection(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "b", "b", "c")
	m.editor.MoveBox("box-2", diagram.Point{X: 400, Y: 100})

	m.Update(mouse(tea.MouseActionPress, 13, 8))
	m.Update(mouse(tea.MouseActionRelease, 13, 8))
	assert.Nil(t, m.drag, "box presses do not drag in connector mode")
	m.Update(mouse(tea.MouseActionPress, 55, 8))

	conns := m.editor.State().Connectors()
	require.Len(t, conns, 1)
	assert.Equal(t, "box-1", conns[0].StartBoxID)
	assert.Equal(t, "box-2", conns[0].EndBoxID)
	assert.Equal(t, diagram.DefaultPosition, box(t, m, "box-1").Position)
}

func TestToolbarClicks(t *testing.T) {
	m, _ := newTestModel(t)
	items := m.toolbarItems()
	require.Len(t, items, 1+len(diagram.RelationTypes()))
	assert.Equal(t, 0, items[0].start)
	for i := 1; i < len(items); i++ {
		assert.Equal(t, items[i-1].end, items[i].start)
	}

	m.Update(mouse(tea.MouseActionPress, items[2].start+1, 0))
	assert.Equal(t, diagram.Inheritance, m.editor.State().RelationType())

	m.Update(mouse(tea.MouseActionPress, 1, 0))
	assert.True(t, m.editor.State().ConnectorMode())
}

func TestUndoRedoKeys(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "u")
	assert.Equal(t, "Nothing to undo", m.errorMessage)

	send(m, "b", "u")
	assert.Empty(t, m.editor.State().Boxes())
	send(m, "U")
	assert.Len(t, m.editor.State().Boxes(), 1)
	assert.Equal(t, "Redone", m.successMessage)
}

func TestLoadOnInit(t *testing.T) {
	m, st := newTestModel(t)
	d := diagram.Diagram{
		Boxes:      []diagram.Box{{ID: "b1", Title: "Saved", Position: diagram.Point{X: 10, Y: 10}}},
		Connectors: []diagram.Connector{},
	}
	require.NoError(t, st.Save(context.Background(), "tester", d))

	msg := run(t, m, m.Init())
	require.IsType(t, loadedMsg{}, msg)
	assert.Equal(t, "Saved", box(t, m, "b1").Title)
	assert.False(t, m.dirty())
}

func TestLoadAfterEditKeepsEdits(t *testing.T) {
	m, st := newTestModel(t)
	d := diagram.Diagram{
		Boxes:      []diagram.Box{{ID: "b1", Title: "Saved", Position: diagram.Point{X: 10, Y: 10}}},
		Connectors: []diagram.Connector{},
	}
	require.NoError(t, st.Save(context.Background(), "tester", d))

	cmd := m.Init()
	send(m, "b")
	run(t, m, cmd)

	boxes := m.editor.State().Boxes()
	require.Len(t, boxes, 1)
	assert.Equal(t, "box-1", boxes[0].ID)
	assert.Equal(t, "Saved diagram not loaded: canvas was edited first", m.errorMessage)
	assert.True(t, m.dirty())
}

func TestLoadNothingSaved(t *testing.T) {
	m, _ := newTestModel(t)
	run(t, m, m.Init())
	assert.Empty(t, m.editor.State().Boxes())
	assert.Empty(t, m.errorMessage)
}

func TestSave(t *testing.T) {
	m, st := newTestModel(t)
	send(m, "b")
	assert.True(t, m.dirty())

	run(t, m, send(m, "s"))
	assert.Equal(t, "Diagram saved", m.successMessage)
	assert.False(t, m.dirty())

	d, found, err := st.Load(context.Background(), "tester")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, m.editor.State().Diagram(), d)
}

func TestSaveWithoutStore(t *testing.T) {
	m := newModel(Options{Config: &config.Config{User: "x"}})
	run(t, m, send(m, "s"))
	assert.Contains(t, m.errorMessage, errNoStore.Error())
}

func TestExport(t *testing.T) {
	for _, tt := range []struct {
		key, ext string
	}{
		{"p", "png"},
		{"s", "svg"},
		{"t", "txt"},
	} {
		t.Run(tt.ext, func(t *testing.T) {
			m, _ := newTestModel(t)
			send(m, "b")
			send(m, "S")
			require.Equal(t, ConfirmChooseExportType, m.confirmAction)
			run(t, m, send(m, tt.key))

			path := filepath.Join(m.config.SaveDirectory, "tester."+tt.ext)
			assert.Equal(t, "Exported to "+path, m.successMessage)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
			if tt.ext == "txt" {
				assert.Contains(t, string(data), diagram.DefaultClassTitle)
			}
		})
	}
}

func TestExportEmpty(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "S")
	run(t, m, send(m, "s"))
	assert.Contains(t, m.errorMessage, "nothing to export")
}

func TestJSONView(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "b", "p")
	require.Equal(t, ModeJSON, m.mode)
	view := m.View()
	assert.Contains(t, view, `"boxes"`)
	assert.Contains(t, view, `"title": "New Class"`)
	send(m, "esc")
	assert.Equal(t, ModeNormal, m.mode)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "q")
	require.Equal(t, ModeConfirm, m.mode)
	assert.Equal(t, "Quit? (y/n)", m.confirmMessage())
	cmd := send(m, "y")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m, _ = newTestModel(t)
	send(m, "b", "q")
	assert.Equal(t, "Quit? Unsaved changes will be lost. (y/n)", m.confirmMessage())
}

func TestNewDiagram(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "b", "t", "n", "y")
	assert.Empty(t, m.editor.State().Boxes())
	assert.Empty(t, m.editor.State().TextFields())
	send(m, "u")
	assert.Len(t, m.editor.State().Boxes(), 1, "clearing can be undone")
}

func TestHelp(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "?")
	require.True(t, m.help)
	assert.True(t, strings.HasPrefix(m.View(), "umlterm Help"))
	send(m, "j")
	assert.Equal(t, 1, m.helpScroll)
	send(m, "esc")
	assert.False(t, m.help)
}

func TestViewLayout(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "b")
	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 40)
	assert.Contains(t, lines[0], "association")
	assert.Contains(t, lines[39], "Mode: NORMAL")
	assert.Contains(t, lines[8], diagram.DefaultClassTitle, "title row sits below the top border")
}
