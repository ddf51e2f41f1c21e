// Package export renders a diagram to an image. PNG and SVG output share the
// pixel layout of pkg/diagram, so an export matches what the editor shows.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"umlterm/pkg/diagram"
)

// DefaultPadding is the margin around the diagram content, in pixels.
const DefaultPadding = 20.0

const (
	strokeWidth = 2.0
	borderColor = "#1F2937"
	titleFill   = "#F3F4F6"
	textColor   = "#111827"
	fontSize    = 12.0
	// baseline offset of a text row inside its LineHeight cell
	baseline = 12.0
)

var (
	// ErrEmpty is returned when there is nothing to draw.
	ErrEmpty = errors.New("nothing to export")

	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Format is an output image format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" in any case, with or without a dot.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatPNG, FormatSVG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Options tunes an export.
type Options struct {
	// Padding around the content. Zero means DefaultPadding.
	Padding float64
	// TextFields are drawn on top of the connectors when set.
	TextFields []diagram.TextField
}

func (o Options) padding() float64 {
	if o.Padding <= 0 {
		return DefaultPadding
	}
	return o.Padding
}

// Write renders d in the given format.
func Write(w io.Writer, f Format, d diagram.Diagram, opts Options) error {
	switch f {
	case FormatPNG:
		return PNG(w, d, opts)
	case FormatSVG:
		return SVG(w, d, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// File renders d to path, choosing the format from its extension. A failed
// render removes the partial file.
func File(path string, d diagram.Diagram, opts Options) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(out, f, d, opts); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}

// frame maps diagram coordinates onto the output canvas.
type frame struct {
	dx, dy        float64
	width, height int
}

func newFrame(d diagram.Diagram, opts Options) (frame, error) {
	r, ok := diagram.Bounds(d, opts.TextFields)
	if !ok {
		return frame{}, ErrEmpty
	}
	pad := opts.padding()
	return frame{
		dx:     pad - r.X,
		dy:     pad - r.Y,
		width:  int(math.Ceil(r.W + 2*pad)),
		height: int(math.Ceil(r.H + 2*pad)),
	}, nil
}

// boxRow is one rendered row of a box: either text or a section separator.
type boxRow struct {
	text      string
	separator bool
	y         float64 // top of the row
}

// boxRows lays out the rows of b below its top padding row.
func boxRows(b diagram.Box) []boxRow {
	r := diagram.BoxRect(b)
	lines := diagram.BoxLines(b)
	kinds := diagram.BoxRows(b)
	rows := make([]boxRow, len(lines))
	for i, l := range lines {
		rows[i] = boxRow{
			text:      l,
			separator: kinds[i].Kind == diagram.RowSeparator,
			y:         r.Y + float64(i+1)*diagram.LineHeight,
		}
	}
	return rows
}
