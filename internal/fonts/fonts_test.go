package fonts

import (
	"image"
	"image/color"
	"testing"
)

func TestMeasureGrowsWithText(t *testing.T) {
	w1, h1, base, err := Measure("hi", 16)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	w2, h2, _, err := Measure("hello there", 16)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if w2 <= w1 {
		t.Fatalf("expected longer text to be wider: %d vs %d", w2, w1)
	}
	if h1 != h2 || h1 <= 0 {
		t.Fatalf("unexpected heights %d %d", h1, h2)
	}
	if base <= 0 || base > h1 {
		t.Fatalf("baseline %d outside height %d", base, h1)
	}
}

func TestFaceCached(t *testing.T) {
	a, err := Face(20)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Face(20)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("expected cached face")
	}
}

func TestDrawMarksPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 30))
	if err := Draw(img, 2, 2, "Hi", color.RGBA{255, 0, 0, 255}, 16); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	marked := false
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			marked = true
			break
		}
	}
	if !marked {
		t.Fatalf("expected text to mark pixels")
	}
}

func TestDrawHangsBelowAnchor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	if err := Draw(img, 2, 20, "Hg", color.RGBA{255, 0, 0, 255}, 16); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	top := -1
	for y := 0; y < 60 && top < 0; y++ {
		for x := 0; x < 60; x++ {
			if img.RGBAAt(x, y).A != 0 {
				top = y
				break
			}
		}
	}
	if top < 20 {
		t.Fatalf("first marked row = %d, want at or below the anchor row 20", top)
	}
	if top > 28 {
		t.Fatalf("first marked row = %d, text should start near the anchor", top)
	}
}
