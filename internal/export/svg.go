package export

import (
	"bytes"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"umlterm/pkg/diagram"
	"umlterm/pkg/geometry"
)

// SVG writes d as a standalone SVG document. Curves and arrowheads use the
// same path data an SVG-based editor draws.
func SVG(w io.Writer, d diagram.Diagram, opts Options) error {
	fr, err := newFrame(d, opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(fr.width, fr.height)
	canvas.Title("UML class diagram")
	canvas.Rect(0, 0, fr.width, fr.height, "fill:white")
	canvas.Gtransform(fmt.Sprintf("translate(%g,%g)", fr.dx, fr.dy))

	for _, c := range d.Connectors {
		color := c.Color()
		canvas.Path(c.Curve().Path(), fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g", color, strokeWidth))
		start, end := geometry.Arrowheads(c.StartPoint, c.EndPoint)
		canvas.Path(geometry.TrianglePath(start), "fill:"+color)
		canvas.Path(geometry.TrianglePath(end), "fill:"+color)
	}
	textStyle := fmt.Sprintf("font-family:monospace;font-size:%gpx;fill:%s", fontSize, textColor)
	for _, f := range opts.TextFields {
		canvas.Text(px(f.Position.X), px(f.Position.Y+baseline), f.Text, textStyle)
	}
	for _, b := range d.Boxes {
		drawBoxSVG(canvas, b, textStyle)
	}

	canvas.Gend()
	canvas.End()
	_, err = w.Write(buf.Bytes())
	return err
}

func drawBoxSVG(canvas *svg.SVG, b diagram.Box, textStyle string) {
	r := diagram.BoxRect(b)
	x, y, w, h := px(r.X), px(r.Y), px(r.W), px(r.H)

	border := fmt.Sprintf("fill:none;stroke:%s;stroke-width:1.5", borderColor)
	if b.IsInterface {
		border += ";stroke-dasharray:6,3"
	}
	canvas.Rect(x, y, w, h, "fill:white")
	canvas.Rect(x, y, w, px(2*diagram.LineHeight), "fill:"+titleFill)
	canvas.Rect(x, y, w, h, border)

	for _, row := range boxRows(b) {
		if row.separator {
			mid := px(row.y + diagram.LineHeight/2)
			canvas.Line(x, mid, x+w, mid, "stroke:"+borderColor)
			continue
		}
		canvas.Text(x+px(diagram.CharWidth), px(row.y+baseline), row.text, textStyle)
	}
}

func px(v float64) int {
	return int(math.Round(v))
}
