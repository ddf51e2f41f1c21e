package diagram

import (
	"math"
	"unicode/utf8"

	"umlterm/pkg/geometry"
)

// Pixel metrics shared by every renderer. A text cell is CharWidth by
// LineHeight pixels, so the terminal view and the image exports agree on
// where a box ends.
const (
	CharWidth   = 8.0
	LineHeight  = 16.0
	MinBoxWidth = 200.0
)

// Rect is an axis-aligned rectangle in diagram pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// BoxLines returns the rendered rows of a box: the title, then one row per
// attribute (classes only) and per method, each section preceded by a
// separator marker "".
func BoxLines(b Box) []string {
	lines := []string{b.Title}
	if b.HasAttributeSection() {
		lines = append(lines, "")
		for _, it := range b.Attributes {
			lines = append(lines, it.String())
		}
	}
	lines = append(lines, "")
	for _, it := range b.Methods {
		lines = append(lines, it.String())
	}
	return lines
}

// RowKind classifies a rendered box row.
type RowKind int

const (
	RowTitle RowKind = iota
	RowSeparator
	RowItem
)

// Row describes one entry of BoxLines. Section and Index are set for items.
type Row struct {
	Kind    RowKind
	Section Section
	Index   int
}

// BoxRows returns the row descriptions matching BoxLines(b) one to one.
func BoxRows(b Box) []Row {
	rows := []Row{{Kind: RowTitle}}
	if b.HasAttributeSection() {
		rows = append(rows, Row{Kind: RowSeparator, Section: Attributes})
		for i := range b.Attributes {
			rows = append(rows, Row{Kind: RowItem, Section: Attributes, Index: i})
		}
	}
	rows = append(rows, Row{Kind: RowSeparator, Section: Methods})
	for i := range b.Methods {
		rows = append(rows, Row{Kind: RowItem, Section: Methods, Index: i})
	}
	return rows
}

// RowAt returns the row of b under p. ok is false on the borders or outside.
func RowAt(b Box, p Point) (Row, bool) {
	if !BoxRect(b).Contains(p) {
		return Row{}, false
	}
	i := int(math.Floor((p.Y-b.Position.Y)/LineHeight)) - 1
	rows := BoxRows(b)
	if i < 0 || i >= len(rows) {
		return Row{}, false
	}
	return rows[i], true
}

// BoxRect returns the box outline. Width fits the longest row with one cell of
// padding on each side, never below MinBoxWidth; height is one row per line
// plus the top and bottom borders.
func BoxRect(b Box) Rect {
	lines := BoxLines(b)
	w := MinBoxWidth
	for _, l := range lines {
		if lw := float64(utf8.RuneCountInString(l)+2) * CharWidth; lw > w {
			w = lw
		}
	}
	h := float64(len(lines)+2) * LineHeight
	return Rect{X: b.Position.X, Y: b.Position.Y, W: w, H: h}
}

// BoxAt returns the topmost box under p. Later boxes are drawn on top.
func BoxAt(boxes []Box, p Point) (Box, bool) {
	for i := len(boxes) - 1; i >= 0; i-- {
		if BoxRect(boxes[i]).Contains(p) {
			return boxes[i], true
		}
	}
	return Box{}, false
}

// TextFieldAt returns the topmost text field whose single row contains p.
func TextFieldAt(fields []TextField, p Point) (TextField, bool) {
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		r := Rect{
			X: f.Position.X,
			Y: f.Position.Y,
			W: float64(utf8.RuneCountInString(f.Text)+1) * CharWidth,
			H: LineHeight,
		}
		if r.Contains(p) {
			return f, true
		}
	}
	return TextField{}, false
}

// ConnectorAt returns the topmost connector passing within tolerance pixels
// of p, sampling the rendered curve.
func ConnectorAt(conns []Connector, p Point, tolerance float64) (Connector, bool) {
	for i := len(conns) - 1; i >= 0; i-- {
		for _, q := range conns[i].Curve().Sample(32) {
			dx, dy := q.X-p.X, q.Y-p.Y
			if dx*dx+dy*dy <= tolerance*tolerance {
				return conns[i], true
			}
		}
	}
	return Connector{}, false
}

// Bounds returns the rectangle enclosing every box, connector curve and text
// field. ok is false for an empty diagram.
func Bounds(d Diagram, fields []TextField) (r Rect, ok bool) {
	var pts []geometry.Point
	for _, b := range d.Boxes {
		br := BoxRect(b)
		pts = append(pts, Point{X: br.X, Y: br.Y}, Point{X: br.X + br.W, Y: br.Y + br.H})
	}
	for _, c := range d.Connectors {
		cv := c.Curve()
		pts = append(pts, cv.Start, cv.End, cv.C1, cv.C2)
		s, e := geometry.Arrowheads(c.StartPoint, c.EndPoint)
		pts = append(pts, s[:]...)
		pts = append(pts, e[:]...)
	}
	for _, f := range fields {
		pts = append(pts, f.Position, Point{
			X: f.Position.X + float64(utf8.RuneCountInString(f.Text))*CharWidth,
			Y: f.Position.Y + LineHeight,
		})
	}
	if len(pts) == 0 {
		return Rect{}, false
	}
	min, max := geometry.Bounds(pts...)
	return Rect{X: min.X, Y: min.Y, W: max.X - min.X, H: max.Y - min.Y}, true
}
