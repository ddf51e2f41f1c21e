package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"umlterm/pkg/diagram"
	"umlterm/pkg/geometry"
)

const (
	boxColor     = "#E5E7EB"
	titleColor   = "#F9FAFB"
	textColor    = "#9CA3AF"
	pendingColor = "#FACC15"
	cursorRune   = '█'
)

// cell is one character of the rendered canvas.
type cell struct {
	r     rune
	color string
	bold  bool
}

// grid is the character canvas for one frame. Coordinates are screen cells
// relative to the top-left of the canvas area.
type grid struct {
	width, height int
	panX, panY    int
	cells         [][]cell
}

// scene is everything a frame draws. It is copied out of the state so a
// render never races a concurrent write.
type scene struct {
	boxes      []diagram.Box
	connectors []diagram.Connector
	textFields []diagram.TextField
	pending    string // source box of a connection in progress
	selected   string // box being moved
}

func newGrid(width, height, panX, panY int) *grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	g := &grid{width: width, height: height, panX: panX, panY: panY}
	g.cells = make([][]cell, height)
	for y := range g.cells {
		row := make([]cell, width)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		g.cells[y] = row
	}
	return g
}

func (g *grid) isValidPos(x, y int) bool {
	return y >= 0 && y < g.height && x >= 0 && x < g.width
}

func (g *grid) set(x, y int, r rune, color string, bold bool) {
	if !g.isValidPos(x, y) {
		return
	}
	g.cells[y][x] = cell{r: r, color: color, bold: bold}
}

// text writes s from (x, y), clipped at maxX (exclusive).
func (g *grid) text(x, y, maxX int, s, color string, bold bool) {
	for _, r := range s {
		if x >= maxX {
			return
		}
		g.set(x, y, r, color, bold)
		x++
	}
}

// cellOf maps a diagram point to the screen cell containing it.
func (g *grid) cellOf(p diagram.Point) (int, int) {
	x := int(math.Floor(p.X/diagram.CharWidth)) - g.panX
	y := int(math.Floor(p.Y/diagram.LineHeight)) - g.panY
	return x, y
}

// firstCell is the first cell whose centre lies at or after v.
func firstCell(v, metric float64) int {
	return int(math.Ceil(v/metric - 0.5))
}

func renderScene(s scene, width, height, panX, panY int) *grid {
	g := newGrid(width, height, panX, panY)
	for _, c := range s.connectors {
		g.drawConnector(c)
	}
	for _, f := range s.textFields {
		g.drawText(f)
	}
	for _, b := range s.boxes {
		g.drawBox(b, b.ID == s.selected, b.ID == s.pending)
	}
	// arrowheads sit on the box corners, so they go on top
	for _, c := range s.connectors {
		g.drawArrowheads(c)
	}
	return g
}

func (g *grid) drawBox(b diagram.Box, isSelected, isPending bool) {
	r := diagram.BoxRect(b)
	boxX := firstCell(r.X, diagram.CharWidth) - g.panX
	boxY := firstCell(r.Y, diagram.LineHeight) - g.panY
	w := firstCell(r.X+r.W, diagram.CharWidth) - g.panX - boxX
	h := firstCell(r.Y+r.H, diagram.LineHeight) - g.panY - boxY

	corner, horizontal, vertical := '+', '-', '|'
	if b.IsInterface {
		horizontal, vertical = '.', ':'
	}
	color, bold := boxColor, false
	switch {
	case isSelected:
		corner, horizontal, vertical = '#', '#', '#'
	case isPending:
		color, bold = pendingColor, true
	}

	for y := boxY; y < boxY+h; y++ {
		for x := boxX; x < boxX+w; x++ {
			switch {
			case (y == boxY || y == boxY+h-1) && (x == boxX || x == boxX+w-1):
				g.set(x, y, corner, color, bold)
			case y == boxY || y == boxY+h-1:
				g.set(x, y, horizontal, color, bold)
			case x == boxX || x == boxX+w-1:
				g.set(x, y, vertical, color, bold)
			default:
				g.set(x, y, ' ', "", false)
			}
		}
	}

	rows := diagram.BoxRows(b)
	for i, line := range diagram.BoxLines(b) {
		y := boxY + 1 + i
		switch rows[i].Kind {
		case diagram.RowSeparator:
			g.set(boxX, y, corner, color, bold)
			for x := boxX + 1; x < boxX+w-1; x++ {
				g.set(x, y, horizontal, color, bold)
			}
			g.set(boxX+w-1, y, corner, color, bold)
		case diagram.RowTitle:
			pad := (w - 2 - len([]rune(line))) / 2
			if pad < 0 {
				pad = 0
			}
			g.text(boxX+1+pad, y, boxX+w-1, line, titleColor, true)
		default:
			g.text(boxX+1, y, boxX+w-1, line, titleColor, false)
		}
	}
}

func (g *grid) drawText(f diagram.TextField) {
	x := firstCell(f.Position.X, diagram.CharWidth) - g.panX
	y := firstCell(f.Position.Y, diagram.LineHeight) - g.panY
	g.text(x, y, g.width, f.Text, textColor, false)
}

// drawConnector samples the curve densely enough to touch every cell it
// crosses and picks a line glyph from the local direction.
func (g *grid) drawConnector(c diagram.Connector) {
	cv := c.Curve()
	dx := math.Abs(cv.End.X-cv.Start.X) / diagram.CharWidth
	dy := math.Abs(cv.End.Y-cv.Start.Y) / diagram.LineHeight
	n := 2*int(math.Max(dx, dy)) + 8
	pts := cv.Sample(n)
	color := c.Color()
	for i, p := range pts {
		prev, next := pts[max(i-1, 0)], pts[min(i+1, len(pts)-1)]
		x, y := g.cellOf(p)
		g.set(x, y, lineGlyph(next.X-prev.X, next.Y-prev.Y), color, false)
	}
}

func lineGlyph(dx, dy float64) rune {
	// compare in cell units; a cell is twice as tall as it is wide
	cx, cy := dx/diagram.CharWidth, dy/diagram.LineHeight
	switch {
	case cx == 0 && cy == 0:
		return '·'
	case math.Abs(cy) <= math.Abs(cx)/2:
		return '─'
	case math.Abs(cx) <= math.Abs(cy)/2:
		return '│'
	case (cx > 0) == (cy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func (g *grid) drawArrowheads(c diagram.Connector) {
	start, end := geometry.Arrowheads(c.StartPoint, c.EndPoint)
	color := c.Color()
	for _, head := range [][3]geometry.Point{start, end} {
		x, y := g.cellOf(head[0])
		g.set(x, y, arrowGlyph(head), color, true)
	}
}

// arrowGlyph points from the middle of the triangle base towards its tip.
func arrowGlyph(head [3]geometry.Point) rune {
	mx := (head[1].X + head[2].X) / 2
	my := (head[1].Y + head[2].Y) / 2
	cx := (head[0].X - mx) / diagram.CharWidth
	cy := (head[0].Y - my) / diagram.LineHeight
	if math.Abs(cx) >= math.Abs(cy) {
		if cx < 0 {
			return '◀'
		}
		return '▶'
	}
	if cy < 0 {
		return '▲'
	}
	return '▼'
}

// cursor draws the block cursor over whatever is under it.
func (g *grid) cursor(x, y int) {
	if g.isValidPos(x, y) {
		g.cells[y][x].r = cursorRune
	}
}

// plain returns the rows without styling, right-trimmed.
func (g *grid) plain() []string {
	lines := make([]string, g.height)
	for y, row := range g.cells {
		var b strings.Builder
		for _, c := range row {
			b.WriteRune(c.r)
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return lines
}

// styled returns the rows with runs of equal color rendered through lipgloss.
func (g *grid) styled() []string {
	lines := make([]string, g.height)
	for y, row := range g.cells {
		var b, run strings.Builder
		cur := row[0]
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur.color == "" && !cur.bold {
				b.WriteString(run.String())
			} else {
				style := lipgloss.NewStyle().Bold(cur.bold)
				if cur.color != "" {
					style = style.Foreground(lipgloss.Color(cur.color))
				}
				b.WriteString(style.Render(run.String()))
			}
			run.Reset()
		}
		for _, c := range row {
			if c.color != cur.color || c.bold != cur.bold {
				flush()
				cur = c
			}
			run.WriteRune(c.r)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}
