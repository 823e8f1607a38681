package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/immedipaste/internal/annotation"
	"github.com/example/immedipaste/internal/fonts"
	"github.com/example/immedipaste/internal/geom"
)

// ErrMalformed marks an annotation that cannot be drawn.
var ErrMalformed = errors.New("malformed annotation")

const (
	filledSpread = 25 * math.Pi / 180
	hollowSpread = 30 * math.Pi / 180
	shaftRetract = 0.7
)

// Clone returns a copy of img with its origin moved to (0, 0).
func Clone(img *image.RGBA) *image.RGBA {
	if img == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	return out
}

// Composite draws list in order over a copy of base. Annotations that cannot
// be drawn are logged and skipped. base is never modified.
func Composite(base *image.RGBA, list []annotation.Annotation) *image.RGBA {
	out := Clone(base)
	for i, a := range list {
		if err := Draw(out, a); err != nil {
			log.Printf("composite: skipping annotation %d: %v", i, err)
		}
	}
	return out
}

// Draw renders a single annotation onto dst in dst's own coordinates.
func Draw(dst *image.RGBA, a annotation.Annotation) error {
	if a == nil {
		return fmt.Errorf("nil: %w", ErrMalformed)
	}
	if !a.Finite() {
		return fmt.Errorf("%s with non-finite coordinates: %w", a.Kind(), ErrMalformed)
	}
	switch v := a.(type) {
	case annotation.Freehand:
		drawFreehand(dst, v)
	case annotation.Arrow:
		drawArrow(dst, v)
	case annotation.Oval:
		drawOval(dst, v)
	case annotation.Rectangle:
		outlineRect(dst, v.Color, v.Rect, strokeWidth(v.Width))
	case annotation.Text:
		if v.Content == "" {
			return nil
		}
		x, y := int(math.Round(v.Anchor.X)), int(math.Round(v.Anchor.Y))
		if err := fonts.Draw(dst, x, y, v.Content, v.Color, v.FontSize); err != nil {
			return fmt.Errorf("text: %w", err)
		}
	default:
		return fmt.Errorf("%T: %w", a, ErrMalformed)
	}
	return nil
}

func strokeWidth(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}

func drawFreehand(dst *image.RGBA, f annotation.Freehand) {
	if len(f.Points) == 0 {
		return
	}
	fill(dst, f.Color, roundStroke(f.Points, strokeWidth(f.Width), false), nil)
}

func drawOval(dst *image.RGBA, o annotation.Oval) {
	hw := strokeWidth(o.Width) / 2
	c := o.Rect.Center()
	rx, ry := o.Rect.Dx()/2, o.Rect.Dy()/2
	var holes []polygon
	if rx > hw && ry > hw {
		holes = append(holes, ellipse(c, rx-hw, ry-hw))
	}
	fill(dst, o.Color, []polygon{ellipse(c, rx+hw, ry+hw)}, holes)
}

func drawArrow(dst *image.RGBA, a annotation.Arrow) {
	w := strokeWidth(a.Width)
	d := r2.Sub(a.End, a.Start)
	length := r2.Norm(d)
	head, ok := annotation.ArrowHeadSize(w, length)
	if !ok {
		return
	}
	u := r2.Scale(1/length, d)
	angle := math.Atan2(d.Y, d.X)
	if a.Head == annotation.HeadHollow {
		outline := hollowOutline(a.Start, a.End, u, w, head)
		fill(dst, a.Color, roundStroke(outline, math.Max(1.5, w*0.4), true), nil)
		return
	}
	start := a.Start
	end := r2.Sub(a.End, r2.Scale(head*shaftRetract, u))
	shapes := []polygon{triangleHead(a.End, angle, head)}
	if a.Head == annotation.HeadDouble {
		start = r2.Add(a.Start, r2.Scale(head*shaftRetract, u))
		shapes = append(shapes, triangleHead(a.Start, angle+math.Pi, head))
	}
	if r2.Dot(r2.Sub(end, start), u) > 0 {
		shapes = append(shapes, band(start, end, w/2))
	}
	fill(dst, a.Color, shapes, nil)
}

func triangleHead(tip geom.Point, angle, size float64) polygon {
	return polygon{
		tip,
		geom.Pt(tip.X-size*math.Cos(angle-filledSpread), tip.Y-size*math.Sin(angle-filledSpread)),
		geom.Pt(tip.X-size*math.Cos(angle+filledSpread), tip.Y-size*math.Sin(angle+filledSpread)),
	}
}

// hollowOutline is the seven point outline of shaft and head.
func hollowOutline(start, end, u geom.Point, width, head float64) []geom.Point {
	perp := geom.Pt(-u.Y, u.X)
	half := r2.Scale(width/2, perp)
	wing := r2.Scale(head*math.Sin(hollowSpread), perp)
	base := r2.Sub(end, r2.Scale(head, u))
	return []geom.Point{
		r2.Add(start, half),
		r2.Add(base, half),
		r2.Add(base, wing),
		end,
		r2.Sub(base, wing),
		r2.Sub(base, half),
		r2.Sub(start, half),
	}
}
