package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/immedipaste/internal/geom"
	"github.com/example/immedipaste/internal/theme"
)

func TestOverlayDimsOutsideSelection(t *testing.T) {
	shot := whiteImage(100, 100)
	out := Overlay(nil, shot, geom.RectFromPoints(geom.Pt(20, 30), geom.Pt(60, 70)), "40 x 40")
	if c := out.RGBAAt(5, 5); c.R > 200 {
		t.Fatalf("outside pixel not dimmed: %v", c)
	}
	if c := out.RGBAAt(40, 50); !isWhite(c) {
		t.Fatalf("selected pixel = %v, want original", c)
	}
	if c := out.RGBAAt(20, 50); !isColor(c, theme.Default().Selection) {
		t.Fatalf("border pixel = %v", c)
	}
	if shot.RGBAAt(5, 5) != out.RGBAAt(40, 50) {
		t.Fatalf("screenshot modified by overlay")
	}
}

func TestOverlayWithoutSelection(t *testing.T) {
	shot := whiteImage(30, 30)
	out := Overlay(nil, shot, geom.Rect{}, "")
	for _, p := range []image.Point{{0, 0}, {15, 15}, {29, 29}} {
		if c := out.RGBAAt(p.X, p.Y); c.R > 200 {
			t.Fatalf("pixel %v not dimmed: %v", p, c)
		}
	}
}

func TestFitLetterboxes(t *testing.T) {
	img := whiteImage(800, 600)
	tr, err := geom.NewTransform(image.Pt(400, 400), img.Bounds().Size())
	if err != nil {
		t.Fatal(err)
	}
	out := Fit(nil, img, tr)
	if out.Bounds().Size() != image.Pt(400, 400) {
		t.Fatalf("size = %v", out.Bounds().Size())
	}
	if c := out.RGBAAt(200, 10); c != theme.Default().Backdrop {
		t.Fatalf("letterbox pixel = %v", c)
	}
	if c := out.RGBAAt(200, 200); c.R < 250 || c.G < 250 || c.B < 250 {
		t.Fatalf("image pixel = %v", c)
	}
}

func TestOverlayUsesTheme(t *testing.T) {
	th := theme.Default()
	th.Selection = color.RGBA{0xff, 0xff, 0x00, 0xff}
	th.Dim = color.RGBA{0, 0, 0, 0}
	out := Overlay(th, whiteImage(50, 50), geom.RectFromPoints(geom.Pt(10, 10), geom.Pt(40, 40)), "")
	if c := out.RGBAAt(2, 2); !isWhite(c) {
		t.Fatalf("transparent dim should leave pixel white: %v", c)
	}
	if c := out.RGBAAt(10, 25); !isColor(c, th.Selection) {
		t.Fatalf("border pixel = %v", c)
	}
}
