package geom

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegenerateTransform is wrapped by GeometryError when a transform
// cannot be computed.
var ErrDegenerateTransform = errors.New("degenerate transform")

// GeometryError reports a transform that would divide by zero.
type GeometryError struct {
	Viewport image.Point
	Image    image.Point
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%v: image %dx%d in viewport %dx%d", ErrDegenerateTransform,
		e.Image.X, e.Image.Y, e.Viewport.X, e.Viewport.Y)
}

func (e *GeometryError) Unwrap() error { return ErrDegenerateTransform }

// Transform maps between viewport (screen) coordinates and the native
// coordinates of a captured image. The image is scaled uniformly to fit the
// viewport, never enlarged, and centred in any remaining space.
type Transform struct {
	viewport image.Point
	size     image.Point
	scale    float64
	offset   Point
}

// NewTransform computes the transform for an image of size img shown in a
// viewport of size viewport.
func NewTransform(viewport, img image.Point) (Transform, error) {
	t := Transform{size: img}
	if err := t.Resize(viewport); err != nil {
		return Transform{}, err
	}
	return t, nil
}

// Resize recomputes the scale and offset for a new viewport. On error the
// transform keeps its previous parameters.
func (t *Transform) Resize(viewport image.Point) error {
	if t.size.X <= 0 || t.size.Y <= 0 || viewport.X <= 0 || viewport.Y <= 0 {
		return &GeometryError{Viewport: viewport, Image: t.size}
	}
	iw, ih := float64(t.size.X), float64(t.size.Y)
	scale := math.Min(float64(viewport.X)/iw, float64(viewport.Y)/ih)
	if scale > 1 {
		scale = 1
	}
	t.viewport = viewport
	t.scale = scale
	t.offset = Point{
		X: (float64(viewport.X) - iw*scale) / 2,
		Y: (float64(viewport.Y) - ih*scale) / 2,
	}
	return nil
}

// Scale is the number of screen pixels per image pixel.
func (t Transform) Scale() float64 { return t.scale }

// Offset is the screen position of the image origin.
func (t Transform) Offset() Point { return t.offset }

// Viewport returns the viewport size the transform was computed for.
func (t Transform) Viewport() image.Point { return t.viewport }

// ImageSize returns the native image size.
func (t Transform) ImageSize() image.Point { return t.size }

// ToImage converts a screen point to image space.
func (t Transform) ToImage(p Point) Point {
	return r2.Scale(1/t.scale, r2.Sub(p, t.offset))
}

// ToScreen converts an image point to screen space.
func (t Transform) ToScreen(p Point) Point {
	return r2.Add(r2.Scale(t.scale, p), t.offset)
}

// ImageRect is the screen rectangle covered by the scaled image.
func (t Transform) ImageRect() Rect {
	return Rect{
		Min: t.offset,
		Max: t.ToScreen(FromImagePoint(t.size)),
	}
}

// InImage reports whether a screen point falls on the displayed image.
func (t Transform) InImage(p Point) bool {
	return t.ImageRect().Contains(p)
}

// ClampToImage pins a screen point to the displayed image rectangle.
func (t Transform) ClampToImage(p Point) Point {
	r := t.ImageRect()
	return Point{
		X: math.Max(r.Min.X, math.Min(r.Max.X, p.X)),
		Y: math.Max(r.Min.Y, math.Min(r.Max.Y, p.Y)),
	}
}

// PathToImage converts a whole screen-space gesture path.
func (t Transform) PathToImage(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = t.ToImage(p)
	}
	return out
}
