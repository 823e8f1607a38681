package render

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/immedipaste/internal/fonts"
	"github.com/example/immedipaste/internal/geom"
	"github.com/example/immedipaste/internal/theme"
)

const (
	labelSize      = 14
	selectionWidth = 2
	minHighlight   = 2
)

// Overlay renders the capture overlay: the dimmed screenshot with the
// selected region shown at full brightness, a border and a size label.
// sel is ignored when it is smaller than a few pixels. A nil th uses the
// default palette.
func Overlay(th *theme.Theme, shot *image.RGBA, sel geom.Rect, label string) *image.RGBA {
	if th == nil {
		th = theme.Default()
	}
	out := Clone(shot)
	draw.Draw(out, out.Rect, image.NewUniform(th.Dim), image.Point{}, draw.Over)
	if sel.Dx() <= minHighlight || sel.Dy() <= minHighlight {
		return out
	}
	r := sel.Image().Intersect(out.Rect)
	if shot != nil {
		draw.Draw(out, r, shot, shot.Bounds().Min.Add(r.Min), draw.Src)
	}
	outlineRect(out, th.Selection, sel, selectionWidth)
	if label == "" {
		return out
	}
	_, _, baseline, err := fonts.Measure(label, labelSize)
	if err != nil {
		return out
	}
	y := r.Max.Y + 18
	if r.Min.Y > 25 {
		y = r.Min.Y - 8
	}
	_ = fonts.Draw(out, r.Min.X, y-baseline, label, th.Selection, labelSize)
	return out
}

// Fit scales img into a viewport-sized frame using the transform's scale and
// offset, filling the margins with the theme backdrop.
func Fit(th *theme.Theme, img *image.RGBA, t geom.Transform) *image.RGBA {
	if th == nil {
		th = theme.Default()
	}
	vp := t.Viewport()
	out := image.NewRGBA(image.Rect(0, 0, vp.X, vp.Y))
	draw.Draw(out, out.Rect, image.NewUniform(th.Backdrop), image.Point{}, draw.Src)
	if img == nil {
		return out
	}
	dr := t.ImageRect().Image().Intersect(out.Rect)
	if t.Scale() == 1 {
		draw.Draw(out, dr, img, img.Bounds().Min, draw.Src)
		return out
	}
	xdraw.ApproxBiLinear.Scale(out, dr, img, img.Bounds(), draw.Src, nil)
	return out
}
