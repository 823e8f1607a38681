// Package geom holds the point, rectangle and screen/image transform types
// shared by the annotation editor and the capture overlay.
package geom

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a 2D coordinate. Whether it is in screen or image space depends
// on where it came from; annotations only ever store image-space points.
type Point = r2.Vec

// Pt is shorthand for constructing a Point.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// FromImagePoint converts an integer pixel position.
func FromImagePoint(p image.Point) Point { return Point{X: float64(p.X), Y: float64(p.Y)} }

// Finite reports whether every coordinate is neither NaN nor infinite.
func Finite(pts ...Point) bool {
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(b, a))
}

// DistanceToSegment returns the shortest distance from p to the segment ab.
func DistanceToSegment(p, a, b Point) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Dot(ab, ab)
	if l2 == 0 {
		return Distance(p, a)
	}
	t := r2.Dot(r2.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	return Distance(p, r2.Add(a, r2.Scale(t, ab)))
}

// Rect is an axis-aligned rectangle with Min <= Max on both axes.
type Rect struct {
	Min, Max Point
}

// RectFromPoints returns the normalized rectangle spanned by two corners in
// any order.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Min: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// RectFromImage converts an image.Rectangle.
func RectFromImage(r image.Rectangle) Rect {
	r = r.Canon()
	return Rect{Min: FromImagePoint(r.Min), Max: FromImagePoint(r.Max)}
}

func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle has zero width or height.
func (r Rect) Empty() bool { return r.Dx() <= 0 || r.Dy() <= 0 }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return r2.Scale(0.5, r2.Add(r.Min, r.Max)) }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Inset grows (negative n) or shrinks (positive n) the rectangle on every side.
func (r Rect) Inset(n float64) Rect {
	return RectFromPoints(Point{X: r.Min.X + n, Y: r.Min.Y + n}, Point{X: r.Max.X - n, Y: r.Max.Y - n})
}

// Union returns the smallest rectangle containing both r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, s.Min.X), Y: math.Min(r.Min.Y, s.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, s.Max.X), Y: math.Max(r.Max.Y, s.Max.Y)},
	}
}

// Translate moves the rectangle by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Min: r2.Add(r.Min, d), Max: r2.Add(r.Max, d)}
}

// Image rounds the rectangle outwards to whole pixels.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Min.X)), int(math.Floor(r.Min.Y)),
		int(math.Ceil(r.Max.X)), int(math.Ceil(r.Max.Y)),
	)
}

// ImageWithin rounds the rectangle outwards to whole pixels, limited to b.
// Coordinates are clamped before conversion so far-off points cannot
// overflow int.
func (r Rect) ImageWithin(b image.Rectangle) image.Rectangle {
	clamp := func(v float64, lo, hi int) int {
		return int(math.Max(float64(lo), math.Min(float64(hi), v)))
	}
	return image.Rect(
		clamp(math.Floor(r.Min.X), b.Min.X, b.Max.X), clamp(math.Floor(r.Min.Y), b.Min.Y, b.Max.Y),
		clamp(math.Ceil(r.Max.X), b.Min.X, b.Max.X), clamp(math.Ceil(r.Max.Y), b.Min.Y, b.Max.Y),
	)
}

// BoundingRect returns the bounds of a set of points. It returns the zero
// Rect when pts is empty.
func BoundingRect(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r = r.Union(Rect{Min: p, Max: p})
	}
	return r
}
