package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"umlterm/pkg/diagram"
	"umlterm/pkg/geometry"
)

// PNG draws d with a monospace face whose cells match diagram.CharWidth.
func PNG(w io.Writer, d diagram.Diagram, opts Options) error {
	fr, err := newFrame(d, opts)
	if err != nil {
		return err
	}

	face, err := monoFace()
	if err != nil {
		return err
	}

	dc := gg.NewContext(fr.width, fr.height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(face)
	dc.Translate(fr.dx, fr.dy)

	// Connectors first so boxes cover their ends.
	for _, c := range d.Connectors {
		drawConnectorPNG(dc, c)
	}
	for _, f := range opts.TextFields {
		dc.SetHexColor(textColor)
		dc.DrawString(f.Text, f.Position.X, f.Position.Y+baseline)
	}
	for _, b := range d.Boxes {
		drawBoxPNG(dc, b)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func monoFace() (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func drawConnectorPNG(dc *gg.Context, c diagram.Connector) {
	cv := c.Curve()
	dc.SetHexColor(c.Color())
	dc.SetLineWidth(strokeWidth)
	dc.MoveTo(cv.Start.X, cv.Start.Y)
	dc.CubicTo(cv.C1.X, cv.C1.Y, cv.C2.X, cv.C2.Y, cv.End.X, cv.End.Y)
	dc.Stroke()

	start, end := geometry.Arrowheads(c.StartPoint, c.EndPoint)
	fillTriangle(dc, start)
	fillTriangle(dc, end)
}

func fillTriangle(dc *gg.Context, t [3]geometry.Point) {
	dc.MoveTo(t[0].X, t[0].Y)
	dc.LineTo(t[1].X, t[1].Y)
	dc.LineTo(t[2].X, t[2].Y)
	dc.ClosePath()
	dc.Fill()
}

func drawBoxPNG(dc *gg.Context, b diagram.Box) {
	r := diagram.BoxRect(b)

	dc.SetColor(color.White)
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Fill()
	dc.SetHexColor(titleFill)
	dc.DrawRectangle(r.X, r.Y, r.W, 2*diagram.LineHeight)
	dc.Fill()

	dc.SetHexColor(borderColor)
	dc.SetLineWidth(1.5)
	if b.IsInterface {
		dc.SetDash(6, 3)
	}
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Stroke()
	dc.SetDash()

	dc.SetLineWidth(1)
	for _, row := range boxRows(b) {
		if row.separator {
			mid := row.y + diagram.LineHeight/2
			dc.DrawLine(r.X, mid, r.X+r.W, mid)
			dc.Stroke()
			continue
		}
		dc.SetHexColor(textColor)
		dc.DrawString(row.text, r.X+diagram.CharWidth, row.y+baseline)
		dc.SetHexColor(borderColor)
	}
}
