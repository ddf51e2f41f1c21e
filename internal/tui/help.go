package tui

import (
	"fmt"
	"strings"
)

var helpLines = []string{
	"umlterm Help",
	"============",
	"",
	"Navigation:",
	"-----------",
	"  h/←/j/↓/k/↑/l/→  Move cursor around the canvas",
	"  Shift+h/j/k/l    Move cursor 4x faster",
	"  z                Toggle pan mode (direction keys scroll the canvas)",
	"",
	"Boxes:",
	"------",
	"  b                Add a class box",
	"  i                Add an interface box",
	"  e                Edit the title or the attribute/method under cursor",
	"  a                Add an attribute to the box under cursor",
	"  o                Add a method (operation) to the box under cursor",
	"  v                Cycle access modifier: + public, - private, # protected, * static",
	"  d                Delete the attribute/method row, box, text or connector under cursor",
	"  m                Move the box or text under cursor",
	"  r                Remove every connector of the box under cursor",
	"",
	"Text:",
	"-----",
	"  t                Add a text field",
	"  e                Edit the text under cursor",
	"",
	"Connectors:",
	"-----------",
	"  c                Toggle connector mode",
	"  Enter/Space      In connector mode: select source box, then target box",
	"  1-6              Relation type for new connectors:",
	"                   association, inheritance, composition,",
	"                   aggregation, dependency, realization",
	"",
	"Mouse:",
	"------",
	"  Drag a box or text field to move it",
	"  Drag an arrowhead to detach that connector end",
	"  Click boxes in connector mode to connect them",
	"  Click the toolbar to toggle connector mode or pick a relation type",
	"",
	"Move Mode:",
	"----------",
	"  h/←/j/↓/k/↑/l/→  Move the selected element (highlighted with # borders)",
	"  Enter            Finish moving",
	"  Esc              Cancel and put it back",
	"",
	"Editing:",
	"--------",
	"  ←/→ Home/End     Move the text cursor",
	"  Ctrl+V           Paste from clipboard",
	"  Enter            Save",
	"  Esc              Cancel",
	"",
	"Diagram:",
	"--------",
	"  s                Save",
	"  S                Export as PNG, SVG or plain text",
	"  p                Show the diagram JSON payload",
	"  y                Copy the diagram JSON to the clipboard",
	"  n                Start a new diagram",
	"",
	"General:",
	"--------",
	"  u                Undo",
	"  U/Ctrl+R         Redo",
	"  Esc              Leave connector mode, clear messages",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

// pageHeight is the number of content rows above a one-row status line.
func (m *model) pageHeight() int {
	if m.height-1 < 1 {
		return 1
	}
	return m.height - 1
}

func (m *model) maxHelpScroll() int {
	if n := len(helpLines) - m.pageHeight(); n > 0 {
		return n
	}
	return 0
}

func (m *model) helpView() string {
	startLine := min(m.helpScroll, m.maxHelpScroll())
	endLine := min(startLine+m.pageHeight(), len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}
