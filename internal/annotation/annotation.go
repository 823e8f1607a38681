// Package annotation defines the shapes drawn over a capture, the ordered
// model holding them and the command stack that is the only way to change
// that model.
package annotation

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/example/immedipaste/internal/fonts"
	"github.com/example/immedipaste/internal/geom"
)

// Kind tags an annotation variant.
type Kind int

const (
	KindFreehand Kind = iota
	KindArrow
	KindOval
	KindRectangle
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindFreehand:
		return "freehand"
	case KindArrow:
		return "arrow"
	case KindOval:
		return "oval"
	case KindRectangle:
		return "rectangle"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// TextHitMargin inflates text bounds when picking a text annotation.
const TextHitMargin = 4

// Style carries the stroke attributes shared by the line-based shapes.
type Style struct {
	Color color.RGBA
	Width float64
}

// Annotation is implemented by Freehand, Arrow, Oval, Rectangle and Text.
// Every coordinate is in image space.
type Annotation interface {
	Kind() Kind
	// Bounds is the image-space area the shape can touch, stroke included.
	Bounds() geom.Rect
	// Finite reports whether every coordinate is a finite number.
	Finite() bool
	// Translate returns a copy moved by d.
	Translate(d geom.Point) Annotation
	// Hit reports whether p lies on the shape within tol extra pixels.
	Hit(p geom.Point, tol float64) bool

	sealed()
}

// ArrowHead selects how arrow heads are drawn.
type ArrowHead int

const (
	HeadFilled ArrowHead = iota
	HeadHollow
	HeadDouble
)

func (h ArrowHead) String() string {
	switch h {
	case HeadFilled:
		return "filled"
	case HeadHollow:
		return "hollow"
	case HeadDouble:
		return "double"
	}
	return fmt.Sprintf("head(%d)", int(h))
}

// ParseArrowHead accepts the names produced by ArrowHead.String.
func ParseArrowHead(s string) (ArrowHead, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "filled":
		return HeadFilled, nil
	case "hollow":
		return HeadHollow, nil
	case "double":
		return HeadDouble, nil
	}
	return HeadFilled, fmt.Errorf("unknown arrow head %q", s)
}

// Freehand is a polyline following the pointer.
type Freehand struct {
	Points []geom.Point
	Style
}

func (Freehand) Kind() Kind { return KindFreehand }
func (Freehand) sealed()    {}

func (f Freehand) Bounds() geom.Rect {
	return geom.BoundingRect(f.Points).Inset(-f.Width / 2)
}

func (f Freehand) Finite() bool { return geom.Finite(f.Points...) && finite(f.Width) }

func (f Freehand) Translate(d geom.Point) Annotation {
	f.Points = translateAll(f.Points, d)
	return f
}

func (f Freehand) Hit(p geom.Point, tol float64) bool {
	reach := tol + f.Width/2
	switch len(f.Points) {
	case 0:
		return false
	case 1:
		return geom.Distance(p, f.Points[0]) <= reach
	}
	for i := 1; i < len(f.Points); i++ {
		if geom.DistanceToSegment(p, f.Points[i-1], f.Points[i]) <= reach {
			return true
		}
	}
	return false
}

// Arrow is a straight shaft with one or two heads. Head size is derived
// from the stroke width when rendering.
type Arrow struct {
	Start, End geom.Point
	Head       ArrowHead
	Style
}

func (Arrow) Kind() Kind { return KindArrow }
func (Arrow) sealed()    {}

func (a Arrow) Bounds() geom.Rect {
	head, _ := ArrowHeadSize(a.Width, geom.Distance(a.Start, a.End))
	return geom.RectFromPoints(a.Start, a.End).Inset(-(head + a.Width))
}

func (a Arrow) Finite() bool { return geom.Finite(a.Start, a.End) && finite(a.Width) }

func (a Arrow) Translate(d geom.Point) Annotation {
	a.Start = translate(a.Start, d)
	a.End = translate(a.End, d)
	return a
}

func (a Arrow) Hit(p geom.Point, tol float64) bool {
	return geom.DistanceToSegment(p, a.Start, a.End) <= tol+a.Width/2
}

// ArrowHeadSize returns the head length for a stroke width and shaft
// length: four times the width capped at 45% of the length, never below
// 6px. ok is false when the arrow is too short to draw.
func ArrowHeadSize(width, length float64) (size float64, ok bool) {
	if length < 1 {
		return 0, false
	}
	size = math.Min(width*4, length*0.45)
	return math.Max(size, 6), true
}

// Oval is an ellipse inscribed in Rect.
type Oval struct {
	Rect geom.Rect
	Style
}

func (Oval) Kind() Kind { return KindOval }
func (Oval) sealed()    {}

func (o Oval) Bounds() geom.Rect { return o.Rect.Inset(-o.Width / 2) }

func (o Oval) Finite() bool { return geom.Finite(o.Rect.Min, o.Rect.Max) && finite(o.Width) }

func (o Oval) Translate(d geom.Point) Annotation {
	o.Rect = o.Rect.Translate(d)
	return o
}

func (o Oval) Hit(p geom.Point, tol float64) bool {
	rx, ry := o.Rect.Dx()/2, o.Rect.Dy()/2
	if rx <= 0 || ry <= 0 {
		return geom.DistanceToSegment(p, o.Rect.Min, o.Rect.Max) <= tol+o.Width/2
	}
	c := o.Rect.Center()
	nx, ny := (p.X-c.X)/rx, (p.Y-c.Y)/ry
	d := math.Sqrt(nx*nx + ny*ny)
	return math.Abs(d-1)*math.Min(rx, ry) <= tol+o.Width/2
}

// Rectangle is an axis-aligned outline.
type Rectangle struct {
	Rect geom.Rect
	Style
}

func (Rectangle) Kind() Kind { return KindRectangle }
func (Rectangle) sealed()    {}

func (r Rectangle) Bounds() geom.Rect { return r.Rect.Inset(-r.Width / 2) }

func (r Rectangle) Finite() bool { return geom.Finite(r.Rect.Min, r.Rect.Max) && finite(r.Width) }

func (r Rectangle) Translate(d geom.Point) Annotation {
	r.Rect = r.Rect.Translate(d)
	return r
}

func (r Rectangle) Hit(p geom.Point, tol float64) bool {
	reach := tol + r.Width/2
	tl, br := r.Rect.Min, r.Rect.Max
	tr, bl := geom.Pt(br.X, tl.Y), geom.Pt(tl.X, br.Y)
	for _, e := range [][2]geom.Point{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}} {
		if geom.DistanceToSegment(p, e[0], e[1]) <= reach {
			return true
		}
	}
	return false
}

// Text is a single line of text. Anchor is the top-left corner of the text
// box, not the baseline: the glyphs hang below the click point, so the
// baseline sits one ascent under Anchor.Y.
type Text struct {
	Anchor   geom.Point
	Content  string
	FontSize float64
	Color    color.RGBA
}

func (Text) Kind() Kind { return KindText }
func (Text) sealed()    {}

func (t Text) Bounds() geom.Rect {
	w, h, _, err := fonts.Measure(t.Content, t.FontSize)
	if err != nil {
		return geom.Rect{Min: t.Anchor, Max: t.Anchor}
	}
	return geom.Rect{Min: t.Anchor, Max: geom.Pt(t.Anchor.X+float64(w), t.Anchor.Y+float64(h))}
}

func (t Text) Finite() bool { return geom.Finite(t.Anchor) && finite(t.FontSize) }

func (t Text) Translate(d geom.Point) Annotation {
	t.Anchor = translate(t.Anchor, d)
	return t
}

func (t Text) Hit(p geom.Point, tol float64) bool {
	return t.Bounds().Inset(-tol).Contains(p)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func translate(p, d geom.Point) geom.Point { return geom.Pt(p.X+d.X, p.Y+d.Y) }

func translateAll(pts []geom.Point, d geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = translate(p, d)
	}
	return out
}
