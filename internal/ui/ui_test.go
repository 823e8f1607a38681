package ui

import (
	"image"
	"image/color"
	"testing"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/immedipaste/internal/annotation"
	"github.com/example/immedipaste/internal/geom"
	"github.com/example/immedipaste/internal/selection"
	"github.com/example/immedipaste/internal/session"
)

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	win := image.Pt(640, 100+toolbarHeight)
	sess, err := session.New(blank(200, 100), session.WithViewport(canvasSize(win)))
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return NewEditor(sess, nil, win)
}

// at converts an image point to a window mouse position.
func at(e *Editor, x, y float64) (float32, float32) {
	p := e.sess.Transform().ToScreen(geom.Pt(x, y))
	return float32(p.X), float32(p.Y + toolbarHeight)
}

func press(e *Editor, b mouse.Button, x, y float64, mods key.Modifiers) bool {
	wx, wy := at(e, x, y)
	return e.Mouse(mouse.Event{X: wx, Y: wy, Button: b, Direction: mouse.DirPress, Modifiers: mods})
}

func move(e *Editor, x, y float64) bool {
	wx, wy := at(e, x, y)
	return e.Mouse(mouse.Event{X: wx, Y: wy})
}

func release(e *Editor, x, y float64) bool {
	wx, wy := at(e, x, y)
	return e.Mouse(mouse.Event{X: wx, Y: wy, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
}

func drag(e *Editor, x0, y0, x1, y1 float64, mods key.Modifiers) {
	press(e, mouse.ButtonLeft, x0, y0, mods)
	move(e, (x0+x1)/2, (y0+y1)/2)
	move(e, x1, y1)
	release(e, x1, y1)
}

func typeKey(e *Editor, code key.Code, r rune, mods key.Modifiers) bool {
	return e.Key(key.Event{Code: code, Rune: r, Modifiers: mods, Direction: key.DirPress})
}

func TestEditorDrawsThroughToolbarOffset(t *testing.T) {
	e := newTestEditor(t)
	drag(e, 10, 10, 60, 50, 0)
	m := e.sess.Model()
	if m.Len() != 1 || m.At(0).Kind() != annotation.KindFreehand {
		t.Fatalf("model = %d items", m.Len())
	}
	b := m.At(0).Bounds()
	if b.Min.X > 10 || b.Max.Y < 50 {
		t.Fatalf("stroke bounds %v not in image space", b)
	}
}

func TestEditorModifierSelectsTool(t *testing.T) {
	e := newTestEditor(t)
	drag(e, 10, 10, 80, 60, key.ModShift)
	drag(e, 20, 20, 90, 70, key.ModControl)
	m := e.sess.Model()
	if m.Len() != 2 {
		t.Fatalf("model len = %d", m.Len())
	}
	if m.At(0).Kind() != annotation.KindArrow || m.At(1).Kind() != annotation.KindOval {
		t.Fatalf("kinds = %v, %v", m.At(0).Kind(), m.At(1).Kind())
	}
	if e.sess.Properties().Tool != session.ToolFreehand {
		t.Fatalf("modifier changed toolbar tool to %v", e.sess.Properties().Tool)
	}
}

func TestEditorUndoRedoKeys(t *testing.T) {
	e := newTestEditor(t)
	drag(e, 10, 10, 60, 50, 0)
	if !typeKey(e, key.CodeZ, 'z', key.ModControl) || e.sess.Model().Len() != 0 {
		t.Fatalf("ctrl+z did not undo")
	}
	if !typeKey(e, key.CodeZ, 'Z', key.ModControl|key.ModShift) || e.sess.Model().Len() != 1 {
		t.Fatalf("ctrl+shift+z did not redo")
	}
	typeKey(e, key.CodeZ, 'z', key.ModControl)
	if !typeKey(e, key.CodeY, 'y', key.ModControl) || e.sess.Model().Len() != 1 {
		t.Fatalf("ctrl+y did not redo")
	}
}

func TestEditorUndoBlockedWhileDragging(t *testing.T) {
	e := newTestEditor(t)
	drag(e, 10, 10, 60, 50, 0)
	press(e, mouse.ButtonLeft, 20, 20, 0)
	move(e, 50, 50)
	if typeKey(e, key.CodeZ, 'z', key.ModControl) {
		t.Fatalf("undo ran mid-gesture")
	}
	release(e, 50, 50)
	if e.sess.Model().Len() != 2 {
		t.Fatalf("model len = %d", e.sess.Model().Len())
	}
}

func TestEditorTextEntry(t *testing.T) {
	e := newTestEditor(t)
	typeKey(e, key.CodeT, 't', 0)
	press(e, mouse.ButtonLeft, 30, 30, 0)
	release(e, 30, 30)
	if e.sess.State() != session.EditingText {
		t.Fatalf("state = %v", e.sess.State())
	}
	for _, r := range "hix" {
		typeKey(e, 0, r, 0)
	}
	typeKey(e, key.CodeDeleteBackspace, 0, 0)
	// Tool shortcuts are text while editing.
	typeKey(e, key.CodeA, 'a', 0)
	if text, _, _ := e.sess.PendingText(); text != "hia" {
		t.Fatalf("pending = %q", text)
	}
	frame := e.Frame()
	if frame.Rect.Size() != e.size {
		t.Fatalf("frame size %v", frame.Rect.Size())
	}
	typeKey(e, key.CodeReturnEnter, '\r', 0)
	m := e.sess.Model()
	if m.Len() != 1 {
		t.Fatalf("model len = %d", m.Len())
	}
	txt, ok := m.At(0).(annotation.Text)
	if !ok || txt.Content != "hia" || txt.Anchor != geom.Pt(30, 30) {
		t.Fatalf("text = %#v", m.At(0))
	}
	if e.Done() {
		t.Fatalf("enter in text mode closed the editor")
	}
}

func TestEditorEscapeCancelsThenDiscards(t *testing.T) {
	e := newTestEditor(t)
	typeKey(e, key.CodeT, 't', 0)
	press(e, mouse.ButtonLeft, 30, 30, 0)
	typeKey(e, 0, 'x', 0)
	typeKey(e, key.CodeEscape, 0, 0)
	if e.sess.State() != session.Idle || e.sess.Model().Len() != 0 || e.Done() {
		t.Fatalf("escape should drop the text only")
	}
	typeKey(e, key.CodeEscape, 0, 0)
	if e.Outcome() != OutcomeDiscard {
		t.Fatalf("outcome = %v", e.Outcome())
	}
}

func TestEditorEnterSaves(t *testing.T) {
	e := newTestEditor(t)
	typeKey(e, key.CodeReturnEnter, '\r', 0)
	if e.Outcome() != OutcomeSave {
		t.Fatalf("outcome = %v", e.Outcome())
	}
}

func TestEditorRightClickErases(t *testing.T) {
	e := newTestEditor(t)
	typeKey(e, key.CodeR, 'r', 0)
	drag(e, 20, 20, 80, 70, 0)
	if !press(e, mouse.ButtonRight, 20, 45, 0) {
		t.Fatalf("right click did not erase")
	}
	if e.sess.Model().Len() != 0 {
		t.Fatalf("model len = %d", e.sess.Model().Len())
	}
}

func TestEditorSettingKeys(t *testing.T) {
	e := newTestEditor(t)
	typeKey(e, 0, ']', 0)
	if w := e.sess.Properties().Width; w != 5 {
		t.Fatalf("width after ] = %g", w)
	}
	typeKey(e, 0, '[', 0)
	typeKey(e, 0, '[', 0)
	if w := e.sess.Properties().Width; w != 2 {
		t.Fatalf("width after [[ = %g", w)
	}
	typeKey(e, 0, '=', 0)
	if s := e.sess.Properties().FontSize; s != 18 {
		t.Fatalf("font size = %g", s)
	}
	typeKey(e, 0, '5', 0)
	if c := e.sess.Properties().Color; c != Palette[4] {
		t.Fatalf("color = %v", c)
	}
	typeKey(e, key.CodeH, 'h', 0)
	if h := e.sess.Properties().Head; h != annotation.HeadHollow {
		t.Fatalf("head = %v", h)
	}
}

func TestToolbarButtons(t *testing.T) {
	e := newTestEditor(t)
	click := func(label string) {
		t.Helper()
		for _, b := range e.tb.buttons {
			if lb, ok := b.(*labelButton); ok && lb.label == label {
				c := b.Rect().Min.Add(image.Pt(2, 2))
				if !e.Mouse(mouse.Event{X: float32(c.X), Y: float32(c.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress}) {
					t.Fatalf("click on %s ignored", label)
				}
				return
			}
		}
		t.Fatalf("no %s button", label)
	}
	click("Oval")
	if e.sess.Properties().Tool != session.ToolOval {
		t.Fatalf("tool = %v", e.sess.Properties().Tool)
	}
	click("8")
	if e.sess.Properties().Width != 8 {
		t.Fatalf("width = %g", e.sess.Properties().Width)
	}
	drag(e, 10, 10, 60, 60, 0)
	click("Undo")
	if e.sess.Model().Len() != 0 {
		t.Fatalf("Undo button did not undo")
	}
	click("Redo")
	if e.sess.Model().Len() != 1 {
		t.Fatalf("Redo button did not redo")
	}
	var sw *swatch
	for _, b := range e.tb.buttons {
		if s, ok := b.(*swatch); ok && s.col == Palette[3] {
			sw = s
		}
	}
	c := sw.Rect().Min.Add(image.Pt(4, 4))
	e.Mouse(mouse.Event{X: float32(c.X), Y: float32(c.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	if e.sess.Properties().Color != Palette[3] {
		t.Fatalf("swatch did not set colour")
	}
	click("Done")
	if e.Outcome() != OutcomeSave {
		t.Fatalf("Done did not save")
	}
}

func TestToolbarDoesNotReachCanvas(t *testing.T) {
	e := newTestEditor(t)
	e.Mouse(mouse.Event{X: 636, Y: 5, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	if e.sess.State() != session.Idle {
		t.Fatalf("toolbar press started a gesture")
	}
}

func TestEditorFrameShowsPreview(t *testing.T) {
	e := newTestEditor(t)
	e.sess.SetColor(color.RGBA{0, 0, 0xff, 0xff})
	e.sess.SetWidth(8)
	press(e, mouse.ButtonLeft, 20, 50, 0)
	move(e, 180, 50)
	frame := e.Frame()
	wx, wy := at(e, 100, 50)
	got := frame.RGBAAt(int(wx), int(wy))
	if got.B != 0xff || got.R > 0x40 {
		t.Fatalf("in-progress stroke not painted: %v", got)
	}
	if bar := frame.RGBAAt(1, 1); bar == (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Fatalf("toolbar not painted")
	}
}

func TestEditorSize(t *testing.T) {
	if got := editorSize(image.Pt(100, 50), image.Point{}); got != image.Pt(minEditorWidth, 50+toolbarHeight) {
		t.Fatalf("small image: %v", got)
	}
	if got := editorSize(image.Pt(4000, 3000), image.Pt(1920, 1080)); got != image.Pt(1920, 1080) {
		t.Fatalf("clamped: %v", got)
	}
}

func TestPickerDragAndConfirm(t *testing.T) {
	p, err := NewPicker(blank(300, 200), nil, image.Pt(300, 200))
	if err != nil {
		t.Fatal(err)
	}
	p.Mouse(mouse.Event{X: 10, Y: 20, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	p.Mouse(mouse.Event{X: 60, Y: 70})
	if frame := p.Frame(); frame.Rect.Size() != image.Pt(300, 200) {
		t.Fatalf("frame size %v", frame.Rect.Size())
	}
	p.Mouse(mouse.Event{X: 110, Y: 90, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if !p.Done() {
		t.Fatalf("not done after release")
	}
	img, err := p.Machine().Result()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != image.Pt(100, 70) {
		t.Fatalf("region size %v", img.Bounds().Size())
	}
}

func TestPickerScaledWindow(t *testing.T) {
	p, err := NewPicker(blank(400, 200), nil, image.Pt(200, 100))
	if err != nil {
		t.Fatal(err)
	}
	p.Mouse(mouse.Event{X: 0, Y: 0, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	p.Mouse(mouse.Event{X: 50, Y: 50, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if got := p.Machine().Rect().Image(); got != image.Rect(0, 0, 100, 100) {
		t.Fatalf("rect = %v", got)
	}
}

func TestPickerKeys(t *testing.T) {
	tests := []struct {
		name  string
		event key.Event
		want  selection.State
	}{
		{"enter", key.Event{Code: key.CodeReturnEnter, Direction: key.DirPress}, selection.Confirmed},
		{"space", key.Event{Code: key.CodeSpacebar, Rune: ' ', Direction: key.DirPress}, selection.Confirmed},
		{"f", key.Event{Code: key.CodeF, Rune: 'f', Direction: key.DirPress}, selection.Confirmed},
		{"escape", key.Event{Code: key.CodeEscape, Direction: key.DirPress}, selection.Cancelled},
		{"release ignored", key.Event{Code: key.CodeEscape, Direction: key.DirRelease}, selection.Idle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPicker(blank(50, 40), nil, image.Pt(50, 40))
			if err != nil {
				t.Fatal(err)
			}
			p.Key(tt.event)
			if p.Machine().State() != tt.want {
				t.Fatalf("state = %v, want %v", p.Machine().State(), tt.want)
			}
		})
	}
}

func TestPickerRightClickCancels(t *testing.T) {
	p, err := NewPicker(blank(50, 40), nil, image.Pt(50, 40))
	if err != nil {
		t.Fatal(err)
	}
	p.Mouse(mouse.Event{X: 5, Y: 5, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	p.Mouse(mouse.Event{X: 5, Y: 5, Button: mouse.ButtonRight, Direction: mouse.DirPress})
	if p.Machine().State() != selection.Cancelled {
		t.Fatalf("state = %v", p.Machine().State())
	}
}

func TestStepWidth(t *testing.T) {
	if got := stepWidth(12, 1); got != 12 {
		t.Fatalf("top = %g", got)
	}
	if got := stepWidth(1, -1); got != 1 {
		t.Fatalf("bottom = %g", got)
	}
	if got := stepWidth(4, 1); got != 5 {
		t.Fatalf("between = %g", got)
	}
}
