package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Shadow configures the drop shadow added around an exported image.
type Shadow struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadow is a soft shadow down and to the right.
func DefaultShadow() Shadow {
	return Shadow{Radius: 24, Offset: image.Pt(16, 16), Opacity: 0.55}
}

// Enabled reports whether s would change an image.
func (s Shadow) Enabled() bool { return s.Opacity > 0 }

// DropShadow returns img on an expanded transparent canvas with a blurred
// shadow of its alpha behind it, plus where img's top-left landed. The
// output always has a zero origin. A disabled shadow returns img itself.
func DropShadow(img *image.RGBA, s Shadow) (*image.RGBA, image.Point) {
	if img == nil || img.Rect.Empty() || !s.Enabled() {
		return img, image.Point{}
	}
	opacity := s.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := max(s.Radius, 0)

	src := img.Rect
	padded := src.Inset(-radius)
	cast := padded.Add(s.Offset)
	canvas := src.Union(cast)
	shift := src.Min.Sub(canvas.Min)

	mask := alphaMask(img, padded)
	boxBlur(mask, radius)

	dst := image.NewRGBA(canvas.Sub(canvas.Min))
	tint := image.NewUniform(color.RGBA{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(dst, mask.Rect.Add(cast.Min.Sub(canvas.Min)), tint, image.Point{}, mask, image.Point{}, draw.Over)
	draw.Draw(dst, src.Sub(canvas.Min), img, src.Min, draw.Over)
	return dst, shift
}

// alphaMask copies img's alpha into a zero-origin mask the size of area.
func alphaMask(img *image.RGBA, area image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(area.Sub(area.Min))
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			mask.Pix[(y-area.Min.Y)*mask.Stride+x-area.Min.X] = img.Pix[img.PixOffset(x, y)+3]
		}
	}
	return mask
}

// boxBlur blurs m in place with a separable box of the given radius.
func boxBlur(m *image.Alpha, radius int) {
	if radius <= 0 {
		return
	}
	w, h := m.Rect.Dx(), m.Rect.Dy()
	line := make([]uint8, max(w, h))
	sums := make([]int, max(w, h)+1)
	pass := func(n int, at func(i int) *uint8) {
		for i := 0; i < n; i++ {
			sums[i+1] = sums[i] + int(*at(i))
		}
		for i := 0; i < n; i++ {
			lo, hi := max(i-radius, 0), min(i+radius, n-1)
			line[i] = uint8((sums[hi+1] - sums[lo]) / (hi - lo + 1))
		}
		for i := 0; i < n; i++ {
			*at(i) = line[i]
		}
	}
	for y := 0; y < h; y++ {
		pass(w, func(x int) *uint8 { return &m.Pix[y*m.Stride+x] })
	}
	for x := 0; x < w; x++ {
		pass(h, func(y int) *uint8 { return &m.Pix[y*m.Stride+x] })
	}
}
