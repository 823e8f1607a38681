// Package ui hosts the selection overlay and the annotation editor in shiny
// windows. The input handling lives in Picker and Editor so it can be driven
// without a display.
package ui

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/immedipaste/internal/session"
	"github.com/example/immedipaste/internal/theme"
)

// ErrCancelled is returned when the user abandons the selection or discards
// the annotations.
var ErrCancelled = errors.New("cancelled by user")

// minEditorWidth keeps the toolbar usable for small captures.
const minEditorWidth = 640

// Options configures the windows.
type Options struct {
	Theme    *theme.Theme
	Annotate bool
	Session  session.Config
	Title    string
	// MaxSize bounds the editor window; zero means unbounded.
	MaxSize image.Point
}

func (o Options) title(suffix string) string {
	t := o.Title
	if t == "" {
		t = "ImmediPaste"
	}
	return t + " - " + suffix
}

// pane is what a window shows and feeds input to.
type pane interface {
	Mouse(mouse.Event) bool
	Key(key.Event) bool
	Resize(image.Point)
	Frame() *image.RGBA
	Done() bool
}

var (
	_ pane = (*Picker)(nil)
	_ pane = (*Editor)(nil)
)

var runMain = driver.Main

// Select shows the overlay over shot and, when opts.Annotate is set, the
// editor over the chosen region. It returns the final image.
func Select(shot *image.RGBA, opts Options) (*image.RGBA, error) {
	var out *image.RGBA
	var err error
	runMain(func(s screen.Screen) {
		out, err = selectAndEdit(s, shot, opts)
	})
	return out, err
}

// Annotate shows only the editor over img.
func Annotate(img *image.RGBA, opts Options) (*image.RGBA, error) {
	var out *image.RGBA
	var err error
	runMain(func(s screen.Screen) {
		out, err = edit(s, img, opts)
	})
	return out, err
}

func selectAndEdit(s screen.Screen, shot *image.RGBA, opts Options) (*image.RGBA, error) {
	win := shot.Bounds().Size()
	p, err := NewPicker(shot, opts.Theme, win)
	if err != nil {
		return nil, fmt.Errorf("start selection: %w", err)
	}
	if err := run(s, opts.title("Select region"), win, p); err != nil {
		return nil, err
	}
	region, err := p.Machine().Result()
	if err != nil {
		return nil, ErrCancelled
	}
	if !opts.Annotate {
		return region, nil
	}
	return edit(s, region, opts)
}

func edit(s screen.Screen, img *image.RGBA, opts Options) (*image.RGBA, error) {
	win := editorSize(img.Bounds().Size(), opts.MaxSize)
	sess, err := session.New(img, session.WithConfig(opts.Session), session.WithViewport(canvasSize(win)))
	if err != nil {
		return nil, err
	}
	e := NewEditor(sess, opts.Theme, win)
	if err := run(s, opts.title("Annotate"), win, e); err != nil {
		return nil, err
	}
	if e.Outcome() != OutcomeSave {
		return nil, ErrCancelled
	}
	return sess.Render(), nil
}

func editorSize(img, max image.Point) image.Point {
	w, h := img.X, img.Y+toolbarHeight
	if w < minEditorWidth {
		w = minEditorWidth
	}
	if max.X > 0 && w > max.X {
		w = max.X
	}
	if max.Y > 0 && h > max.Y {
		h = max.Y
	}
	return image.Pt(w, h)
}

// run shows p in a new window until it is done or the window is closed.
func run(s screen.Screen, title string, win image.Point, p pane) error {
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: win.X, Height: win.Y, Title: title})
	if err != nil {
		return fmt.Errorf("new window: %w", err)
	}
	defer w.Release()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return ErrCancelled
			}
		case size.Event:
			if e.WidthPx > 0 && e.HeightPx > 0 {
				p.Resize(image.Pt(e.WidthPx, e.HeightPx))
			}
			w.Send(paint.Event{})
		case paint.Event:
			if err := publish(s, w, p.Frame()); err != nil {
				log.Printf("paint: %v", err)
			}
		case mouse.Event:
			if p.Mouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if p.Key(e) {
				w.Send(paint.Event{})
			}
		case error:
			log.Printf("window: %v", e)
		}
		if p.Done() {
			return nil
		}
	}
}

func publish(s screen.Screen, w screen.Window, frame *image.RGBA) error {
	b, err := s.NewBuffer(frame.Rect.Size())
	if err != nil {
		return fmt.Errorf("new buffer: %w", err)
	}
	defer b.Release()
	draw.Draw(b.RGBA(), b.Bounds(), frame, frame.Rect.Min, draw.Src)
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
	return nil
}
