package ui

import (
	"image"
	"log"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/immedipaste/internal/geom"
	"github.com/example/immedipaste/internal/render"
	"github.com/example/immedipaste/internal/selection"
	"github.com/example/immedipaste/internal/theme"
)

// Picker drives a selection.Machine from window input. The window may be
// smaller than the screenshot, in which case the shot is scaled to fit.
type Picker struct {
	m  *selection.Machine
	th *theme.Theme
	t  geom.Transform
}

// NewPicker starts a region selection over shot.
func NewPicker(shot *image.RGBA, th *theme.Theme, win image.Point) (*Picker, error) {
	m, err := selection.New(shot)
	if err != nil {
		return nil, err
	}
	if th == nil {
		th = theme.Default()
	}
	t, err := geom.NewTransform(win, shot.Bounds().Size())
	if err != nil {
		return nil, err
	}
	return &Picker{m: m, th: th, t: t}, nil
}

// Machine returns the underlying state machine.
func (p *Picker) Machine() *selection.Machine { return p.m }

// Done reports whether the selection was confirmed or cancelled.
func (p *Picker) Done() bool { return p.m.Done() }

// Resize refits the screenshot into a new window size.
func (p *Picker) Resize(win image.Point) {
	if err := p.t.Resize(win); err != nil {
		log.Printf("resize overlay: %v", err)
	}
}

func (p *Picker) toShot(x, y float32) geom.Point {
	return p.t.ToImage(geom.Pt(float64(x), float64(y)))
}

// Mouse handles a pointer event. It reports whether a repaint is needed.
func (p *Picker) Mouse(ev mouse.Event) bool {
	sp := p.toShot(ev.X, ev.Y)
	switch ev.Button {
	case mouse.ButtonLeft:
		switch ev.Direction {
		case mouse.DirPress:
			p.m.PointerDown(sp)
			return true
		case mouse.DirRelease:
			p.m.PointerUp(sp)
			return true
		}
	case mouse.ButtonRight:
		if ev.Direction == mouse.DirPress {
			p.m.SecondaryPointer()
			return true
		}
	case mouse.ButtonNone:
		if p.m.State() == selection.Dragging {
			p.m.PointerMove(sp)
			return true
		}
	}
	return false
}

// Key handles a key event. Enter confirms, f or space takes the whole
// display and Escape cancels.
func (p *Picker) Key(ev key.Event) bool {
	if ev.Direction != key.DirPress {
		return false
	}
	switch ev.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		p.m.ConfirmKey()
		return true
	case key.CodeEscape:
		p.m.CancelKey()
		return true
	case key.CodeSpacebar, key.CodeF:
		p.m.FullScreen()
		return true
	}
	return false
}

// Frame renders the dimmed screenshot with the live selection.
func (p *Picker) Frame() *image.RGBA {
	over := render.Overlay(p.th, p.m.Screenshot(), p.m.Rect(), p.m.Label())
	if p.t.Scale() == 1 && p.t.Viewport() == over.Rect.Size() {
		return over
	}
	return render.Fit(p.th, over, p.t)
}
