package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"umlterm/pkg/diagram"
)

func isNavigationKey(key string) bool {
	switch key {
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		return true
	}
	return false
}

func (m *model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	if m.zPanMode {
		return m.handlePan(key, speed), nil
	}
	return m.handleCursorMove(key, speed), nil
}

func (m *model) handlePan(key string, speed int) tea.Model {
	switch key {
	case "h", "left", "H", "shift+left":
		m.panX -= speed
	case "l", "right", "L", "shift+right":
		m.panX += speed
	case "k", "up", "K", "shift+up":
		m.panY -= speed
	case "j", "down", "J", "shift+down":
		m.panY += speed
	}
	return m
}

func (m *model) handleCursorMove(key string, speed int) tea.Model {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
	return m
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}

func (m *model) canvasHeight() int {
	h := m.height - canvasTop - canvasBottom
	if h < 1 {
		h = 1
	}
	return h
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.width > 0 && m.cursorX >= m.width {
		m.cursorX = m.width - 1
	}
	if maxY := m.canvasHeight() - 1; m.height > 0 && m.cursorY > maxY {
		m.cursorY = maxY
	}
}

// cellPoint returns the diagram point at the centre of a canvas cell.
func (m *model) cellPoint(x, y int) diagram.Point {
	return diagram.Point{
		X: float64(x+m.panX)*diagram.CharWidth + diagram.CharWidth/2,
		Y: float64(y+m.panY)*diagram.LineHeight + diagram.LineHeight/2,
	}
}

func (m *model) cursorPoint() diagram.Point {
	return m.cellPoint(m.cursorX, m.cursorY)
}

// jumpTo puts the cursor on the cell holding p, panning when p is off screen.
func (m *model) jumpTo(p diagram.Point) {
	x := firstCell(p.X, diagram.CharWidth)
	y := firstCell(p.Y, diagram.LineHeight)
	if m.width > 0 && (x < m.panX || x >= m.panX+m.width) {
		m.panX = x - m.width/4
	}
	if h := m.canvasHeight(); m.height > 0 && (y < m.panY || y >= m.panY+h) {
		m.panY = y - h/4
	}
	m.cursorX = x - m.panX
	m.cursorY = y - m.panY
	m.ensureCursorInBounds()
}
