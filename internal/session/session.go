// Package session runs one annotation session over a captured image: the
// toolbar properties, the screen/image transform and the gesture dispatcher
// that turns pointer and key input into commands.
//
// A Session is not safe for concurrent use; the UI goroutine owns it.
package session

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/immedipaste/internal/annotation"
	"github.com/example/immedipaste/internal/geom"
	"github.com/example/immedipaste/internal/render"
)

// State is the dispatcher state.
type State int

const (
	Idle State = iota
	Drawing
	EditingText
	MovingText
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case EditingText:
		return "editing-text"
	case MovingText:
		return "moving-text"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type gesture struct {
	tool  Tool
	path  []geom.Point // screen space
	style annotation.Style
	head  annotation.ArrowHead

	index  int
	before annotation.Text
}

type pendingText struct {
	anchor  geom.Point
	content string
}

// Session owns the command stack for one image.
type Session struct {
	base      *image.RGBA
	stack     *annotation.Stack
	transform geom.Transform
	cfg       Config
	props     Properties
	state     State
	gesture   gesture
	text      pendingText
	viewport  image.Point
}

// Option configures a Session.
type Option func(*Session)

// WithConfig sets the configuration snapshot. Without it DefaultConfig is
// used.
func WithConfig(cfg Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

// WithViewport sets the initial display size. It defaults to the image size.
func WithViewport(size image.Point) Option {
	return func(s *Session) { s.viewport = size }
}

// New starts a session over base. base is shared and never written.
func New(base *image.RGBA, opts ...Option) (*Session, error) {
	s := &Session{base: base, stack: annotation.NewStack(), cfg: DefaultConfig()}
	var size image.Point
	if base != nil {
		size = base.Bounds().Size()
	}
	s.viewport = size
	for _, opt := range opts {
		opt(s)
	}
	t, err := geom.NewTransform(s.viewport, size)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	s.transform = t
	tool := s.cfg.Tool
	if tool == ToolNone {
		tool = ToolFreehand
	}
	s.props = Properties{
		Tool:     tool,
		Color:    s.cfg.Color,
		Width:    clamp(s.cfg.Width, MinWidth, MaxWidth),
		FontSize: clamp(s.cfg.FontSize, MinFontSize, MaxFontSize),
		Head:     s.cfg.Head,
	}
	return s, nil
}

// Base returns the captured image.
func (s *Session) Base() *image.RGBA { return s.base }

// Model returns the committed annotations.
func (s *Session) Model() *annotation.Model { return s.stack.Model() }

// Transform returns the current screen/image mapping.
func (s *Session) Transform() geom.Transform { return s.transform }

// State returns the dispatcher state.
func (s *Session) State() State { return s.state }

// Properties returns the toolbar settings.
func (s *Session) Properties() Properties { return s.props }

// Resize recomputes the transform for a new viewport. Committed
// annotations are not touched.
func (s *Session) Resize(viewport image.Point) error {
	return s.transform.Resize(viewport)
}

// SetTool selects the toolbar tool.
func (s *Session) SetTool(t Tool) error {
	if t <= ToolNone || t > ToolText {
		return fmt.Errorf("cannot select tool %v", t)
	}
	s.props.Tool = t
	return nil
}

func (s *Session) SetColor(c color.RGBA) { s.props.Color = c }

// SetWidth sets the stroke width, clamped to [MinWidth, MaxWidth].
func (s *Session) SetWidth(w float64) { s.props.Width = clamp(w, MinWidth, MaxWidth) }

// SetFontSize sets the text size, clamped to [MinFontSize, MaxFontSize].
func (s *Session) SetFontSize(size float64) {
	s.props.FontSize = clamp(size, MinFontSize, MaxFontSize)
}

func (s *Session) SetArrowHead(h annotation.ArrowHead) { s.props.Head = h }

func (s *Session) CanUndo() bool { return s.state == Idle && s.stack.CanUndo() }
func (s *Session) CanRedo() bool { return s.state == Idle && s.stack.CanRedo() }

// Undo reverts the last command. It does nothing while a gesture or text
// input is in progress.
func (s *Session) Undo() bool {
	if s.state != Idle {
		return false
	}
	return s.stack.Undo()
}

// Redo reapplies the last undone command, with the same restriction as Undo.
func (s *Session) Redo() bool {
	if s.state != Idle {
		return false
	}
	return s.stack.Redo()
}

// PointerDown starts a gesture at a screen point. The tool is resolved from
// mod here and kept until the gesture ends. Presses outside the displayed
// image are ignored. A pending text input is committed first.
func (s *Session) PointerDown(p geom.Point, mod Modifier) error {
	if s.state == EditingText {
		if err := s.commitText(); err != nil {
			return err
		}
	}
	if s.state != Idle || !s.transform.InImage(p) {
		return nil
	}
	tool := s.cfg.Tools.Resolve(mod, s.props.Tool)
	switch tool {
	case ToolNone:
		return nil
	case ToolText:
		ip := s.transform.ToImage(p)
		if i, t, ok := s.stack.Model().TopmostText(ip); ok {
			s.state = MovingText
			s.gesture = gesture{tool: tool, path: []geom.Point{p, p}, index: i, before: t}
			return nil
		}
		s.state = EditingText
		s.text = pendingText{anchor: ip}
		return nil
	}
	s.state = Drawing
	s.gesture = gesture{
		tool:  tool,
		path:  []geom.Point{p},
		style: annotation.Style{Color: s.props.Color, Width: s.props.Width},
		head:  s.props.Head,
	}
	return nil
}

// PointerMove extends the active gesture. Points are clamped to the image.
func (s *Session) PointerMove(p geom.Point) {
	switch s.state {
	case Drawing:
		p = s.transform.ClampToImage(p)
		path := s.gesture.path
		if s.gesture.tool == ToolFreehand {
			if path[len(path)-1] != p {
				s.gesture.path = append(path, p)
			}
			return
		}
		s.gesture.path = append(path[:1], p)
	case MovingText:
		s.gesture.path[1] = s.transform.ClampToImage(p)
	}
}

// PointerUp ends the active gesture and pushes its command. Gestures smaller
// than MinDragSize are dropped.
func (s *Session) PointerUp(p geom.Point) error {
	switch s.state {
	case Drawing:
		s.PointerMove(p)
		g := s.gesture
		s.reset()
		a, ok := g.build(s.transform)
		if !ok || tooSmall(a) {
			return nil
		}
		return s.stack.Push(annotation.NewAdd(a))
	case MovingText:
		s.PointerMove(p)
		g := s.gesture
		s.reset()
		d := g.offset(s.transform)
		if d.X == 0 && d.Y == 0 {
			return nil
		}
		return s.stack.Push(annotation.NewModify(g.index, g.before, g.before.Translate(d)))
	}
	return nil
}

// TypeRune appends r to the pending text. It reports whether the rune was
// consumed.
func (s *Session) TypeRune(r rune) bool {
	if s.state != EditingText {
		return false
	}
	if unicode.IsPrint(r) {
		s.text.content += string(r)
	}
	return true
}

// Backspace deletes the last rune of the pending text.
func (s *Session) Backspace() bool {
	if s.state != EditingText {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(s.text.content)
	s.text.content = s.text.content[:len(s.text.content)-size]
	return true
}

// PendingText returns the text being typed and its image-space anchor.
func (s *Session) PendingText() (string, geom.Point, bool) {
	if s.state != EditingText {
		return "", geom.Point{}, false
	}
	return s.text.content, s.text.anchor, true
}

// Submit confirms the pending text. Whitespace is trimmed and an empty
// result adds nothing. It reports whether there was text input to confirm.
func (s *Session) Submit() (bool, error) {
	if s.state != EditingText {
		return false, nil
	}
	return true, s.commitText()
}

// Cancel drops any gesture or text input in progress without a command. It
// reports false when there was nothing to cancel.
func (s *Session) Cancel() bool {
	if s.state == Idle {
		return false
	}
	s.reset()
	return true
}

// Erase removes the topmost annotation under a screen point.
func (s *Session) Erase(p geom.Point) (bool, error) {
	if s.state != Idle || !s.transform.InImage(p) {
		return false, nil
	}
	i, ok := s.stack.Model().Topmost(s.transform.ToImage(p), EraseTolerance)
	if !ok {
		return false, nil
	}
	if err := s.stack.Push(annotation.NewRemove(i)); err != nil {
		return false, err
	}
	return true, nil
}

// Frame returns what should be shown right now: the committed annotations
// with the in-progress shape, moved text or pending text applied.
func (s *Session) Frame() []annotation.Annotation {
	items := s.stack.Model().Items()
	switch s.state {
	case Drawing:
		if a, ok := s.gesture.build(s.transform); ok {
			items = append(items, a)
		}
	case MovingText:
		if s.gesture.index < len(items) {
			items[s.gesture.index] = s.gesture.before.Translate(s.gesture.offset(s.transform))
		}
	case EditingText:
		if t := s.text.content; t != "" {
			items = append(items, s.newText(t))
		}
	}
	return items
}

// Render composites the committed annotations onto a copy of the base.
func (s *Session) Render() *image.RGBA {
	return render.Composite(s.base, s.stack.Model().Items())
}

// Preview composites Frame onto a copy of the base.
func (s *Session) Preview() *image.RGBA {
	return render.Composite(s.base, s.Frame())
}

func (s *Session) newText(content string) annotation.Text {
	return annotation.Text{
		Anchor:   s.text.anchor,
		Content:  content,
		FontSize: s.props.FontSize,
		Color:    s.props.Color,
	}
}

func (s *Session) commitText() error {
	content := strings.TrimSpace(s.text.content)
	t := s.newText(content)
	s.reset()
	if content == "" {
		return nil
	}
	return s.stack.Push(annotation.NewAdd(t))
}

func (s *Session) reset() {
	s.state = Idle
	s.gesture = gesture{}
	s.text = pendingText{}
}

// build converts the screen path to an image-space annotation.
func (g gesture) build(t geom.Transform) (annotation.Annotation, bool) {
	if len(g.path) == 0 {
		return nil, false
	}
	pts := t.PathToImage(g.path)
	start, end := pts[0], pts[len(pts)-1]
	switch g.tool {
	case ToolFreehand:
		return annotation.Freehand{Points: pts, Style: g.style}, true
	case ToolArrow:
		return annotation.Arrow{Start: start, End: end, Head: g.head, Style: g.style}, true
	case ToolOval:
		return annotation.Oval{Rect: geom.RectFromPoints(start, end), Style: g.style}, true
	case ToolRectangle:
		return annotation.Rectangle{Rect: geom.RectFromPoints(start, end), Style: g.style}, true
	}
	return nil, false
}

func (g gesture) offset(t geom.Transform) geom.Point {
	a, b := t.ToImage(g.path[0]), t.ToImage(g.path[1])
	return geom.Pt(b.X-a.X, b.Y-a.Y)
}

func tooSmall(a annotation.Annotation) bool {
	switch v := a.(type) {
	case annotation.Freehand:
		return len(v.Points) < 2
	case annotation.Arrow:
		return geom.Distance(v.Start, v.End) < MinDragSize
	case annotation.Oval:
		return v.Rect.Dx() < MinDragSize && v.Rect.Dy() < MinDragSize
	case annotation.Rectangle:
		return v.Rect.Dx() < MinDragSize && v.Rect.Dy() < MinDragSize
	}
	return false
}
