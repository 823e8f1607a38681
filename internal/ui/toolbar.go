package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/immedipaste/internal/session"
	"github.com/example/immedipaste/internal/theme"
)

const (
	toolbarHeight = 28
	buttonPad     = 4
	swatchSize    = 18
)

// ButtonState selects how a button is painted.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive toolbar element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, th *theme.Theme, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
	// Selected reports whether the button reflects the current setting.
	Selected() bool
}

type labelButton struct {
	label    string
	rect     image.Rectangle
	action   func()
	selected func() bool
}

func (b *labelButton) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	bg := th.Toolbar
	switch state {
	case StateHover:
		bg = lighten(th.Toolbar, 24)
	case StatePressed:
		bg = th.ToolbarActive
	}
	draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ToolbarText), Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+buttonPad, b.rect.Min.Y+18)}
	d.DrawString(b.label)
}

func (b *labelButton) Rect() image.Rectangle     { return b.rect }
func (b *labelButton) SetRect(r image.Rectangle) { b.rect = r }
func (b *labelButton) Activate() {
	if b.action != nil {
		b.action()
	}
}
func (b *labelButton) Selected() bool { return b.selected != nil && b.selected() }

func (b *labelButton) width() int {
	return font.MeasureString(basicfont.Face7x13, b.label).Ceil() + 2*buttonPad
}

type swatch struct {
	col      color.RGBA
	rect     image.Rectangle
	action   func()
	selected func() bool
}

func (s *swatch) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	draw.Draw(dst, s.rect, &image.Uniform{th.Toolbar}, image.Point{}, draw.Src)
	inner := s.rect.Inset(3)
	draw.Draw(dst, inner, &image.Uniform{s.col}, image.Point{}, draw.Src)
	switch state {
	case StatePressed:
		frame(dst, s.rect.Inset(1), th.ToolbarActive)
	case StateHover:
		frame(dst, s.rect.Inset(1), th.ToolbarText)
	}
}

func (s *swatch) Rect() image.Rectangle     { return s.rect }
func (s *swatch) SetRect(r image.Rectangle) { s.rect = r }
func (s *swatch) Activate()                 { s.action() }
func (s *swatch) Selected() bool            { return s.selected() }

// Palette is the set of colours offered in the toolbar.
var Palette = []color.RGBA{
	{255, 0, 0, 255},
	{255, 165, 0, 255},
	{255, 255, 0, 255},
	{0, 200, 0, 255},
	{0, 120, 255, 255},
	{255, 0, 255, 255},
	{255, 255, 255, 255},
	{0, 0, 0, 255},
}

// Widths are the stroke presets offered in the toolbar.
var Widths = []float64{1, 2, 3, 5, 8, 12}

var toolOrder = []struct {
	tool  session.Tool
	label string
}{
	{session.ToolFreehand, "Pen"},
	{session.ToolArrow, "Arrow"},
	{session.ToolOval, "Oval"},
	{session.ToolRectangle, "Rect"},
	{session.ToolText, "Text"},
}

// toolbar lays out the buttons that drive an editor.
type toolbar struct {
	buttons []Button
	hover   int
}

func newToolbar(e *Editor) *toolbar {
	tb := &toolbar{hover: -1}
	for _, t := range toolOrder {
		tool := t.tool
		tb.buttons = append(tb.buttons, &labelButton{
			label:    t.label,
			action:   func() { e.selectTool(tool) },
			selected: func() bool { return e.sess.Properties().Tool == tool },
		})
	}
	for _, c := range Palette {
		col := c
		tb.buttons = append(tb.buttons, &swatch{
			col:      col,
			action:   func() { e.sess.SetColor(col) },
			selected: func() bool { return e.sess.Properties().Color == col },
		})
	}
	for _, w := range Widths {
		width := w
		tb.buttons = append(tb.buttons, &labelButton{
			label:    fmt.Sprintf("%g", width),
			action:   func() { e.sess.SetWidth(width) },
			selected: func() bool { return e.sess.Properties().Width == width },
		})
	}
	tb.buttons = append(tb.buttons,
		&labelButton{label: "Head", action: e.cycleHead},
		&labelButton{label: "Undo", action: func() { e.sess.Undo() }},
		&labelButton{label: "Redo", action: func() { e.sess.Redo() }},
		&labelButton{label: "Done", action: func() { e.finish(OutcomeSave) }},
	)
	return tb
}

// layout places buttons left to right from x=0. Buttons past width keep a
// rectangle outside the window and are never hit.
func (tb *toolbar) layout(width int) {
	x := 0
	for _, b := range tb.buttons {
		w := swatchSize + 2
		if lb, ok := b.(*labelButton); ok {
			w = lb.width()
		}
		top := (toolbarHeight - swatchSize - 2) / 2
		if _, ok := b.(*labelButton); ok {
			top = 0
		}
		bottom := toolbarHeight
		if _, ok := b.(*swatch); ok {
			bottom = top + swatchSize + 2
		}
		b.SetRect(image.Rect(x, top, x+w, bottom))
		x += w + 2
	}
	_ = width
}

func (tb *toolbar) hit(p image.Point) int {
	for i, b := range tb.buttons {
		if p.In(b.Rect()) {
			return i
		}
	}
	return -1
}

func (tb *toolbar) draw(dst *image.RGBA, th *theme.Theme, status string) {
	bar := image.Rect(0, 0, dst.Rect.Dx(), toolbarHeight)
	draw.Draw(dst, bar, &image.Uniform{th.Toolbar}, image.Point{}, draw.Src)
	last := 0
	for i, b := range tb.buttons {
		state := StateDefault
		if b.Selected() {
			state = StatePressed
		} else if i == tb.hover {
			state = StateHover
		}
		b.Draw(dst, th, state)
		last = b.Rect().Max.X
	}
	if status == "" {
		return
	}
	w := font.MeasureString(basicfont.Face7x13, status).Ceil()
	x := dst.Rect.Dx() - w - buttonPad
	if x <= last+buttonPad {
		return
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ToolbarText), Face: basicfont.Face7x13, Dot: fixed.P(x, 18)}
	d.DrawString(status)
}

func frame(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	u := &image.Uniform{c}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

func lighten(c color.RGBA, d uint8) color.RGBA {
	up := func(v uint8) uint8 {
		if int(v)+int(d) > 255 {
			return 255
		}
		return v + d
	}
	return color.RGBA{up(c.R), up(c.G), up(c.B), c.A}
}
