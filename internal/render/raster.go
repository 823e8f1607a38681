// Package render composites annotations onto captured images and draws the
// capture overlay.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/example/immedipaste/internal/geom"
)

type polygon []geom.Point

func signedArea(p polygon) float64 {
	var sum float64
	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return sum / 2
}

// oriented returns p wound in the requested direction. The rasterizer sums
// signed coverage, so shapes that must union share a winding and holes use
// the opposite one.
func oriented(p polygon, positive bool) polygon {
	if (signedArea(p) >= 0) == positive {
		return p
	}
	out := make(polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// fill rasterizes the union of shapes minus holes onto dst with Over.
func fill(dst *image.RGBA, col color.RGBA, shapes, holes []polygon) {
	var pts []geom.Point
	for _, s := range shapes {
		pts = append(pts, s...)
	}
	if len(pts) == 0 {
		return
	}
	br := geom.BoundingRect(pts)
	r := geom.Rect{Min: geom.Pt(br.Min.X-1, br.Min.Y-1), Max: geom.Pt(br.Max.X+1, br.Max.Y+1)}.ImageWithin(dst.Bounds())
	if r.Empty() {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	bounds := geom.RectFromImage(r)
	add := func(p polygon) {
		p = clipTo(p, bounds)
		if len(p) < 3 {
			return
		}
		z.MoveTo(float32(p[0].X-ox), float32(p[0].Y-oy))
		for _, v := range p[1:] {
			z.LineTo(float32(v.X-ox), float32(v.Y-oy))
		}
		z.ClosePath()
	}
	for _, s := range shapes {
		add(oriented(s, true))
	}
	for _, h := range holes {
		add(oriented(h, false))
	}
	z.DrawOp = draw.Over
	z.Draw(dst, r, image.NewUniform(col), image.Point{})
}

func segments(radius float64) int {
	n := int(math.Ceil(math.Pi * radius))
	if n < 8 {
		return 8
	}
	if n > 360 {
		return 360
	}
	return n
}

func ellipse(c geom.Point, rx, ry float64) polygon {
	n := segments(math.Max(rx, ry))
	p := make(polygon, n)
	for i := range p {
		a := 2 * math.Pi * float64(i) / float64(n)
		p[i] = geom.Pt(c.X+rx*math.Cos(a), c.Y+ry*math.Sin(a))
	}
	return p
}

func circle(c geom.Point, r float64) polygon { return ellipse(c, r, r) }

// band is the rectangle covering segment ab with half width hw, without caps.
func band(a, b geom.Point, hw float64) polygon {
	l := geom.Distance(a, b)
	if l == 0 {
		return nil
	}
	nx, ny := -(b.Y-a.Y)/l*hw, (b.X-a.X)/l*hw
	return polygon{
		geom.Pt(a.X+nx, a.Y+ny),
		geom.Pt(b.X+nx, b.Y+ny),
		geom.Pt(b.X-nx, b.Y-ny),
		geom.Pt(a.X-nx, a.Y-ny),
	}
}

// roundStroke outlines a polyline with round caps and joins.
func roundStroke(pts []geom.Point, width float64, closed bool) []polygon {
	hw := width / 2
	var out []polygon
	for i, p := range pts {
		if i > 0 && pts[i-1] == p {
			continue
		}
		out = append(out, circle(p, hw))
		if i > 0 {
			out = append(out, band(pts[i-1], p, hw))
		}
	}
	if closed && len(pts) > 2 {
		if q := band(pts[len(pts)-1], pts[0], hw); q != nil {
			out = append(out, q)
		}
	}
	return out
}

func box(r geom.Rect) polygon {
	return polygon{r.Min, geom.Pt(r.Max.X, r.Min.Y), r.Max, geom.Pt(r.Min.X, r.Max.Y)}
}

// outlineRect strokes the rectangle edges centred on r.
func outlineRect(dst *image.RGBA, col color.RGBA, r geom.Rect, width float64) {
	hw := width / 2
	inner := r.Inset(hw)
	var holes []polygon
	if r.Dx() > width && r.Dy() > width {
		holes = append(holes, box(inner))
	}
	fill(dst, col, []polygon{box(r.Inset(-hw))}, holes)
}

// clipTo clips p against r (Sutherland-Hodgman). Winding is preserved.
func clipTo(p polygon, r geom.Rect) polygon {
	atX := func(x float64) func(a, b geom.Point) geom.Point {
		return func(a, b geom.Point) geom.Point {
			t := (x - a.X) / (b.X - a.X)
			return geom.Pt(x, a.Y+t*(b.Y-a.Y))
		}
	}
	atY := func(y float64) func(a, b geom.Point) geom.Point {
		return func(a, b geom.Point) geom.Point {
			t := (y - a.Y) / (b.Y - a.Y)
			return geom.Pt(a.X+t*(b.X-a.X), y)
		}
	}
	p = clipEdge(p, func(v geom.Point) bool { return v.X >= r.Min.X }, atX(r.Min.X))
	p = clipEdge(p, func(v geom.Point) bool { return v.X <= r.Max.X }, atX(r.Max.X))
	p = clipEdge(p, func(v geom.Point) bool { return v.Y >= r.Min.Y }, atY(r.Min.Y))
	p = clipEdge(p, func(v geom.Point) bool { return v.Y <= r.Max.Y }, atY(r.Max.Y))
	return p
}

func clipEdge(p polygon, inside func(geom.Point) bool, cross func(a, b geom.Point) geom.Point) polygon {
	if len(p) == 0 {
		return nil
	}
	var out polygon
	prev := p[len(p)-1]
	for _, cur := range p {
		switch {
		case inside(cur):
			if !inside(prev) {
				out = append(out, cross(prev, cur))
			}
			out = append(out, cur)
		case inside(prev):
			out = append(out, cross(prev, cur))
		}
		prev = cur
	}
	return out
}
