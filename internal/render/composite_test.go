package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/example/immedipaste/internal/annotation"
	"github.com/example/immedipaste/internal/geom"
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func isColor(c color.RGBA, want color.RGBA) bool {
	near := func(a, b uint8) bool {
		d := int(a) - int(b)
		return d > -40 && d < 40
	}
	return near(c.R, want.R) && near(c.G, want.G) && near(c.B, want.B)
}

func isWhite(c color.RGBA) bool { return c.R == 255 && c.G == 255 && c.B == 255 }

func sample() []annotation.Annotation {
	return []annotation.Annotation{
		annotation.Freehand{Points: []geom.Point{geom.Pt(10, 10), geom.Pt(60, 10), geom.Pt(70, 40)}, Style: annotation.Style{Color: red, Width: 4}},
		annotation.Arrow{Start: geom.Pt(10, 50), End: geom.Pt(110, 50), Head: annotation.HeadDouble, Style: annotation.Style{Color: blue, Width: 3}},
		annotation.Oval{Rect: geom.RectFromPoints(geom.Pt(20, 20), geom.Pt(80, 80)), Style: annotation.Style{Color: red, Width: 4}},
		annotation.Rectangle{Rect: geom.RectFromPoints(geom.Pt(100, 100), geom.Pt(150, 140)), Style: annotation.Style{Color: blue, Width: 2}},
		annotation.Text{Anchor: geom.Pt(5, 120), Content: "hi", FontSize: 16, Color: red},
	}
}

func TestCompositeDeterministic(t *testing.T) {
	base := whiteImage(200, 160)
	a := Composite(base, sample())
	b := Composite(base, sample())
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("composite output differs between runs")
	}
	if bytes.Equal(a.Pix, base.Pix) {
		t.Fatalf("expected annotations to change the image")
	}
}

func TestCompositeLeavesBaseUntouched(t *testing.T) {
	base := whiteImage(200, 160)
	orig := append([]byte(nil), base.Pix...)
	Composite(base, sample())
	if !bytes.Equal(orig, base.Pix) {
		t.Fatalf("base image was modified")
	}
	empty := Composite(base, nil)
	if empty == base {
		t.Fatalf("expected a new buffer")
	}
	if !bytes.Equal(empty.Pix, base.Pix) {
		t.Fatalf("empty list should reproduce the base image")
	}
}

func TestRectangleOutline(t *testing.T) {
	base := whiteImage(400, 300)
	rect := annotation.Rectangle{Rect: geom.RectFromPoints(geom.Pt(100, 100), geom.Pt(300, 200)), Style: annotation.Style{Color: red, Width: 4}}
	out := Composite(base, []annotation.Annotation{rect})
	if c := out.RGBAAt(200, 100); !isColor(c, red) {
		t.Fatalf("top edge pixel = %v", c)
	}
	if c := out.RGBAAt(300, 150); !isColor(c, red) {
		t.Fatalf("right edge pixel = %v", c)
	}
	if c := out.RGBAAt(200, 150); !isWhite(c) {
		t.Fatalf("interior pixel = %v", c)
	}
	if c := out.RGBAAt(200, 90); !isWhite(c) {
		t.Fatalf("outside pixel = %v", c)
	}
}

func TestLaterAnnotationsDrawOnTop(t *testing.T) {
	base := whiteImage(100, 100)
	r := geom.RectFromPoints(geom.Pt(10, 10), geom.Pt(50, 50))
	list := []annotation.Annotation{
		annotation.Rectangle{Rect: r, Style: annotation.Style{Color: blue, Width: 10}},
		annotation.Rectangle{Rect: r, Style: annotation.Style{Color: red, Width: 10}},
	}
	out := Composite(base, list)
	if c := out.RGBAAt(10, 30); !isColor(c, red) {
		t.Fatalf("overlap pixel = %v, want red", c)
	}
	list[0], list[1] = list[1], list[0]
	out = Composite(base, list)
	if c := out.RGBAAt(10, 30); !isColor(c, blue) {
		t.Fatalf("overlap pixel = %v, want blue", c)
	}
}

func TestOvalHasHole(t *testing.T) {
	base := whiteImage(100, 100)
	oval := annotation.Oval{Rect: geom.RectFromPoints(geom.Pt(20, 20), geom.Pt(80, 80)), Style: annotation.Style{Color: red, Width: 4}}
	out := Composite(base, []annotation.Annotation{oval})
	if c := out.RGBAAt(50, 50); !isWhite(c) {
		t.Fatalf("centre = %v", c)
	}
	if c := out.RGBAAt(79, 50); !isColor(c, red) {
		t.Fatalf("ring = %v", c)
	}
}

func TestArrowStyles(t *testing.T) {
	base := whiteImage(140, 100)
	style := annotation.Style{Color: red, Width: 3}
	filled := Composite(base, []annotation.Annotation{annotation.Arrow{Start: geom.Pt(10, 50), End: geom.Pt(110, 50), Style: style}})
	for _, p := range []image.Point{{50, 50}, {105, 50}} {
		if c := filled.RGBAAt(p.X, p.Y); !isColor(c, red) {
			t.Fatalf("filled arrow pixel %v = %v", p, c)
		}
	}
	if c := filled.RGBAAt(50, 60); !isWhite(c) {
		t.Fatalf("pixel beside shaft = %v", c)
	}

	double := Composite(base, []annotation.Annotation{annotation.Arrow{Start: geom.Pt(10, 50), End: geom.Pt(110, 50), Head: annotation.HeadDouble, Style: style}})
	if c := double.RGBAAt(16, 51); !isColor(c, red) {
		t.Fatalf("back head pixel = %v", c)
	}

	wide := annotation.Style{Color: red, Width: 10}
	hollow := Composite(base, []annotation.Annotation{annotation.Arrow{Start: geom.Pt(10, 50), End: geom.Pt(110, 50), Head: annotation.HeadHollow, Style: wide}})
	if c := hollow.RGBAAt(50, 50); !isWhite(c) {
		t.Fatalf("hollow shaft interior = %v", c)
	}
	if c := hollow.RGBAAt(50, 45); !isColor(c, red) {
		t.Fatalf("hollow shaft edge = %v", c)
	}
}

func TestZeroLengthArrowIsNoOp(t *testing.T) {
	base := whiteImage(50, 50)
	out := Composite(base, []annotation.Annotation{annotation.Arrow{Start: geom.Pt(20, 20), End: geom.Pt(20, 20), Style: annotation.Style{Color: red, Width: 3}}})
	if !bytes.Equal(out.Pix, base.Pix) {
		t.Fatalf("zero-length arrow should draw nothing")
	}
}

func TestFreehandStroke(t *testing.T) {
	base := whiteImage(100, 100)
	f := annotation.Freehand{Points: []geom.Point{geom.Pt(10, 10), geom.Pt(60, 10)}, Style: annotation.Style{Color: red, Width: 4}}
	out := Composite(base, []annotation.Annotation{f})
	if c := out.RGBAAt(30, 10); !isColor(c, red) {
		t.Fatalf("stroke pixel = %v", c)
	}
	if c := out.RGBAAt(30, 20); !isWhite(c) {
		t.Fatalf("off-stroke pixel = %v", c)
	}
}

func TestMalformedAnnotationSkipped(t *testing.T) {
	base := whiteImage(400, 300)
	bad := annotation.Arrow{Start: geom.Pt(math.NaN(), 0), End: geom.Pt(10, 10), Style: annotation.Style{Color: blue, Width: 3}}
	if err := Draw(Clone(base), bad); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	rect := annotation.Rectangle{Rect: geom.RectFromPoints(geom.Pt(100, 100), geom.Pt(300, 200)), Style: annotation.Style{Color: red, Width: 4}}
	withBad := Composite(base, []annotation.Annotation{bad, rect})
	only := Composite(base, []annotation.Annotation{rect})
	if !bytes.Equal(withBad.Pix, only.Pix) {
		t.Fatalf("bad annotation should be skipped without affecting the rest")
	}
}

func TestShapesOutsideImageAreClipped(t *testing.T) {
	base := whiteImage(50, 50)
	rect := annotation.Rectangle{Rect: geom.RectFromPoints(geom.Pt(-100, -100), geom.Pt(500, 25)), Style: annotation.Style{Color: red, Width: 4}}
	out := Composite(base, []annotation.Annotation{rect})
	if c := out.RGBAAt(20, 25); !isColor(c, red) {
		t.Fatalf("visible edge = %v", c)
	}
	if c := out.RGBAAt(20, 10); !isWhite(c) {
		t.Fatalf("interior = %v", c)
	}
}

func TestFarOffCoordinatesStillDraw(t *testing.T) {
	base := whiteImage(50, 50)
	style := annotation.Style{Color: red, Width: 4}
	list := []annotation.Annotation{
		annotation.Arrow{Start: geom.Pt(-1e300, 10), End: geom.Pt(1e300, 10), Style: style},
		annotation.Freehand{Points: []geom.Point{geom.Pt(0, 40), geom.Pt(1e19, 40)}, Style: style},
	}
	out := Composite(base, list)
	for _, p := range []image.Point{{20, 10}, {20, 40}} {
		if c := out.RGBAAt(p.X, p.Y); !isColor(c, red) {
			t.Fatalf("pixel %v = %v", p, c)
		}
	}
}
