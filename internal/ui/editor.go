package ui

import (
	"fmt"
	"image"
	"image/draw"
	"log"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/immedipaste/internal/annotation"
	"github.com/example/immedipaste/internal/fonts"
	"github.com/example/immedipaste/internal/geom"
	"github.com/example/immedipaste/internal/render"
	"github.com/example/immedipaste/internal/session"
	"github.com/example/immedipaste/internal/theme"
)

// Outcome is how an editor window was closed.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSave
	OutcomeDiscard
)

const (
	fontStep = 2
	caretW   = 2
)

// Editor translates window input into session calls. Window coordinates
// include the toolbar strip at the top.
type Editor struct {
	sess    *session.Session
	th      *theme.Theme
	tb      *toolbar
	size    image.Point
	outcome Outcome
	drag    bool
}

// NewEditor wraps sess for a window of the given size.
func NewEditor(sess *session.Session, th *theme.Theme, win image.Point) *Editor {
	if th == nil {
		th = theme.Default()
	}
	e := &Editor{sess: sess, th: th}
	e.tb = newToolbar(e)
	e.Resize(win)
	return e
}

// Session returns the wrapped session.
func (e *Editor) Session() *session.Session { return e.sess }

// Outcome reports whether the user saved or discarded.
func (e *Editor) Outcome() Outcome { return e.outcome }

// Done reports whether the window should close.
func (e *Editor) Done() bool { return e.outcome != OutcomePending }

// Resize lays out the toolbar and refits the canvas.
func (e *Editor) Resize(win image.Point) {
	e.size = win
	e.tb.layout(win.X)
	if err := e.sess.Resize(canvasSize(win)); err != nil {
		log.Printf("resize editor: %v", err)
	}
}

func canvasSize(win image.Point) image.Point {
	h := win.Y - toolbarHeight
	if h < 1 {
		h = 1
	}
	w := win.X
	if w < 1 {
		w = 1
	}
	return image.Pt(w, h)
}

func toCanvas(x, y float32) geom.Point {
	return geom.Pt(float64(x), float64(y)-toolbarHeight)
}

func modifier(m key.Modifiers) session.Modifier {
	return session.ModifierFromState(m&key.ModShift != 0, m&key.ModControl != 0, m&key.ModAlt != 0)
}

// Mouse handles a pointer event. It reports whether a repaint is needed.
func (e *Editor) Mouse(ev mouse.Event) bool {
	p := image.Pt(int(ev.X), int(ev.Y))
	if !e.drag && p.Y < toolbarHeight {
		i := e.tb.hit(p)
		if ev.Direction == mouse.DirNone {
			changed := i != e.tb.hover
			e.tb.hover = i
			return changed
		}
		if ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirPress && i >= 0 {
			e.tb.buttons[i].Activate()
			return true
		}
		return false
	}
	if e.tb.hover != -1 {
		e.tb.hover = -1
	}
	cp := toCanvas(ev.X, ev.Y)
	switch ev.Button {
	case mouse.ButtonLeft:
		switch ev.Direction {
		case mouse.DirPress:
			if err := e.sess.PointerDown(cp, modifier(ev.Modifiers)); err != nil {
				log.Printf("pointer down: %v", err)
			}
			e.drag = e.sess.State() == session.Drawing || e.sess.State() == session.MovingText
			return true
		case mouse.DirRelease:
			e.drag = false
			if err := e.sess.PointerUp(cp); err != nil {
				log.Printf("pointer up: %v", err)
			}
			return true
		}
	case mouse.ButtonRight:
		if ev.Direction != mouse.DirPress {
			return false
		}
		if e.sess.Cancel() {
			e.drag = false
			return true
		}
		ok, err := e.sess.Erase(cp)
		if err != nil {
			log.Printf("erase: %v", err)
		}
		return ok
	case mouse.ButtonNone:
		if e.drag {
			e.sess.PointerMove(cp)
			return true
		}
	}
	return false
}

// Key handles a key event. It reports whether a repaint is needed.
func (e *Editor) Key(ev key.Event) bool {
	if ev.Direction == key.DirRelease {
		return false
	}
	if e.sess.State() == session.EditingText {
		return e.textKey(ev)
	}
	ctrl := ev.Modifiers&key.ModControl != 0
	shift := ev.Modifiers&key.ModShift != 0
	switch ev.Code {
	case key.CodeEscape:
		if !e.sess.Cancel() {
			e.finish(OutcomeDiscard)
		}
		e.drag = false
		return true
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		e.finish(OutcomeSave)
		return true
	case key.CodeZ:
		if ctrl && shift {
			return e.sess.Redo()
		}
		if ctrl {
			return e.sess.Undo()
		}
	case key.CodeY:
		if ctrl {
			return e.sess.Redo()
		}
	}
	if ctrl || ev.Direction != key.DirPress {
		return false
	}
	props := e.sess.Properties()
	switch ev.Rune {
	case 'p', 'f':
		return e.selectTool(session.ToolFreehand)
	case 'a':
		return e.selectTool(session.ToolArrow)
	case 'o':
		return e.selectTool(session.ToolOval)
	case 'r':
		return e.selectTool(session.ToolRectangle)
	case 't':
		return e.selectTool(session.ToolText)
	case 'h':
		e.cycleHead()
		return true
	case '[':
		e.sess.SetWidth(stepWidth(props.Width, -1))
		return true
	case ']':
		e.sess.SetWidth(stepWidth(props.Width, 1))
		return true
	case '-':
		e.sess.SetFontSize(props.FontSize - fontStep)
		return true
	case '=', '+':
		e.sess.SetFontSize(props.FontSize + fontStep)
		return true
	}
	if ev.Rune >= '1' && ev.Rune <= '9' {
		if i := int(ev.Rune - '1'); i < len(Palette) {
			e.sess.SetColor(Palette[i])
			return true
		}
	}
	return false
}

func (e *Editor) textKey(ev key.Event) bool {
	switch ev.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		if _, err := e.sess.Submit(); err != nil {
			log.Printf("submit text: %v", err)
		}
		return true
	case key.CodeEscape:
		return e.sess.Cancel()
	case key.CodeDeleteBackspace:
		return e.sess.Backspace()
	}
	if ev.Rune > 0 {
		return e.sess.TypeRune(ev.Rune)
	}
	return false
}

func (e *Editor) selectTool(t session.Tool) bool {
	if err := e.sess.SetTool(t); err != nil {
		log.Printf("select tool: %v", err)
		return false
	}
	return true
}

func (e *Editor) cycleHead() {
	h := e.sess.Properties().Head
	switch h {
	case annotation.HeadFilled:
		h = annotation.HeadHollow
	case annotation.HeadHollow:
		h = annotation.HeadDouble
	default:
		h = annotation.HeadFilled
	}
	e.sess.SetArrowHead(h)
}

func (e *Editor) finish(o Outcome) {
	if e.sess.State() == session.EditingText {
		if _, err := e.sess.Submit(); err != nil {
			log.Printf("submit text: %v", err)
		}
	}
	e.sess.Cancel()
	e.outcome = o
}

// stepWidth moves to the next preset in direction dir.
func stepWidth(w float64, dir int) float64 {
	if dir > 0 {
		for _, p := range Widths {
			if p > w {
				return p
			}
		}
		return Widths[len(Widths)-1]
	}
	for i := len(Widths) - 1; i >= 0; i-- {
		if Widths[i] < w {
			return Widths[i]
		}
	}
	return Widths[0]
}

// Status is the right-hand readout of the toolbar.
func (e *Editor) Status() string {
	p := e.sess.Properties()
	s := fmt.Sprintf("%s %gpx %gpt", p.Tool, p.Width, p.FontSize)
	if p.Tool == session.ToolArrow {
		s += " " + p.Head.String()
	}
	return s
}

// Frame paints the toolbar, the fitted preview and the text caret.
func (e *Editor) Frame() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, e.size.X, e.size.Y))
	e.tb.draw(out, e.th, e.Status())
	t := e.sess.Transform()
	canvas := render.Fit(e.th, e.sess.Preview(), t)
	draw.Draw(out, canvas.Rect.Add(image.Pt(0, toolbarHeight)), canvas, image.Point{}, draw.Src)
	if text, anchor, ok := e.sess.PendingText(); ok {
		e.drawCaret(out, text, anchor, t)
	}
	return out
}

func (e *Editor) drawCaret(dst *image.RGBA, text string, anchor geom.Point, t geom.Transform) {
	size := e.sess.Properties().FontSize
	w, h, _, err := fonts.Measure(text, size)
	if err != nil {
		log.Printf("measure text: %v", err)
		return
	}
	if text == "" {
		w = 0
	}
	top := t.ToScreen(anchor)
	bottom := t.ToScreen(geom.Pt(anchor.X+float64(w), anchor.Y+float64(h)))
	x := int(bottom.X)
	r := image.Rect(x, int(top.Y)+toolbarHeight, x+caretW, int(bottom.Y)+toolbarHeight)
	draw.Draw(dst, r, image.NewUniform(e.th.TextCaret), image.Point{}, draw.Src)
}
