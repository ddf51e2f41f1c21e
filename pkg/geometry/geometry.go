// Package geometry computes connector curves and arrowheads for rendering.
//
// Everything here is a pure function of the two connector endpoints, so
// renderers recompute on every frame instead of caching results.
package geometry

import (
	"fmt"
	"math"
)

const (
	// ArrowLength is the distance from an arrow tip to each of its base points.
	ArrowLength = 10.0
	// ArrowSpread is the half-angle of an arrowhead (30 degrees).
	ArrowSpread = math.Pi / 6
)

// Point is a 2D coordinate in diagram pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cubic is a cubic Bezier segment from Start to End.
type Cubic struct {
	Start, C1, C2, End Point
}

// ControlPoints returns the two control points of the connector curve.
// They sit one third and two thirds of the way along the horizontal delta,
// pinned to the start and end rows respectively, which yields an S-curve for
// vertically offset endpoints and a straight line when both share a row.
func ControlPoints(start, end Point) (Point, Point) {
	dx := end.X - start.X
	c1 := Point{X: start.X + dx/3, Y: start.Y}
	c2 := Point{X: start.X + dx*2/3, Y: end.Y}
	return c1, c2
}

// Curve builds the connector curve between start and end.
func Curve(start, end Point) Cubic {
	c1, c2 := ControlPoints(start, end)
	return Cubic{Start: start, C1: c1, C2: c2, End: end}
}

// At evaluates the curve at t in [0, 1].
func (c Cubic) At(t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return Point{
		X: a*c.Start.X + b*c.C1.X + d*c.C2.X + e*c.End.X,
		Y: a*c.Start.Y + b*c.C1.Y + d*c.C2.Y + e*c.End.Y,
	}
}

// Sample returns n+1 evenly spaced points along the curve, endpoints included.
func (c Cubic) Sample(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, c.At(float64(i)/float64(n)))
	}
	return pts
}

// Path returns the curve as SVG path data.
func (c Cubic) Path() string {
	return fmt.Sprintf("M %s,%s C %s,%s %s,%s %s,%s",
		num(c.Start.X), num(c.Start.Y),
		num(c.C1.X), num(c.C1.Y),
		num(c.C2.X), num(c.C2.Y),
		num(c.End.X), num(c.End.Y))
}

// Angle is the direction of the straight line from start to end.
func Angle(start, end Point) float64 {
	return math.Atan2(end.Y-start.Y, end.X-start.X)
}

// Arrowhead returns the triangle drawn at p for the connector start->end.
// The first point is the tip. The base points lie along the line angle, which
// is reversed for the start endpoint, so each head opens away from the other.
func Arrowhead(p, start, end Point, atStart bool) [3]Point {
	base := Angle(start, end)
	if atStart {
		base += math.Pi
	}
	return [3]Point{
		p,
		{X: p.X + ArrowLength*math.Cos(base+ArrowSpread), Y: p.Y + ArrowLength*math.Sin(base+ArrowSpread)},
		{X: p.X + ArrowLength*math.Cos(base-ArrowSpread), Y: p.Y + ArrowLength*math.Sin(base-ArrowSpread)},
	}
}

// Arrowheads returns the start and end triangles of a connector.
func Arrowheads(start, end Point) (startHead, endHead [3]Point) {
	return Arrowhead(start, start, end, true), Arrowhead(end, start, end, false)
}

// TrianglePath returns a closed SVG path through the three points.
func TrianglePath(tri [3]Point) string {
	return fmt.Sprintf("M %s,%s L %s,%s L %s,%s Z",
		num(tri[0].X), num(tri[0].Y),
		num(tri[1].X), num(tri[1].Y),
		num(tri[2].X), num(tri[2].Y))
}

// Bounds returns the axis-aligned box enclosing pts.
func Bounds(pts ...Point) (min, max Point) {
	if len(pts) == 0 {
		return Point{}, Point{}
	}
	min, max = pts[0], pts[0]
	for _, p := range pts[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

func num(f float64) string {
	v := math.Round(f*100) / 100
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return fmt.Sprintf("%g", v)
}
