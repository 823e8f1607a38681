// Package selection implements the region picker shown over a frozen
// screenshot. The screenshot is captured once before the machine starts and
// the confirmed region is cropped from it.
package selection

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/example/immedipaste/internal/geom"
)

var (
	// ErrNotConfirmed is returned by Result before a region is confirmed or
	// after the selection was cancelled.
	ErrNotConfirmed = errors.New("selection not confirmed")
	// ErrNoScreenshot is returned by New for a missing or empty raster.
	ErrNoScreenshot = errors.New("no screenshot to select from")
)

// State is the overlay state.
type State int

const (
	Idle State = iota
	Dragging
	Confirmed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Machine tracks one region selection. Points are in the screenshot's
// coordinate space, which the overlay shows at 1:1.
type Machine struct {
	shot   *image.RGBA
	bounds geom.Rect
	state  State
	anchor geom.Point
	rect   geom.Rect
}

// New starts a selection over a pre-captured full-display raster.
func New(shot *image.RGBA) (*Machine, error) {
	if shot == nil || shot.Bounds().Empty() {
		return nil, ErrNoScreenshot
	}
	size := shot.Bounds().Size()
	return &Machine{
		shot:   shot,
		bounds: geom.Rect{Max: geom.Pt(float64(size.X), float64(size.Y))},
	}, nil
}

func (m *Machine) State() State { return m.state }

// Done reports whether the machine reached a terminal state.
func (m *Machine) Done() bool { return m.state == Confirmed || m.state == Cancelled }

// Bounds is the full display rectangle.
func (m *Machine) Bounds() geom.Rect { return m.bounds }

// Rect is the live selection while dragging, or the final region once
// confirmed.
func (m *Machine) Rect() geom.Rect { return m.rect }

// Screenshot returns the frozen raster the overlay draws.
func (m *Machine) Screenshot() *image.RGBA { return m.shot }

// Label is the "W x H" readout for the current rectangle.
func (m *Machine) Label() string {
	r := m.rect.Image()
	return fmt.Sprintf("%d x %d", r.Dx(), r.Dy())
}

// PointerDown starts a drag from Idle.
func (m *Machine) PointerDown(p geom.Point) {
	if m.state != Idle {
		return
	}
	p = m.clamp(p)
	m.state = Dragging
	m.anchor = p
	m.rect = geom.Rect{Min: p, Max: p}
}

// PointerMove updates the live rectangle while dragging.
func (m *Machine) PointerMove(p geom.Point) {
	if m.state != Dragging {
		return
	}
	m.rect = geom.RectFromPoints(m.anchor, m.clamp(p))
}

// PointerUp confirms the dragged rectangle. A drag with no width or no
// height selects the whole display.
func (m *Machine) PointerUp(p geom.Point) {
	if m.state != Dragging {
		return
	}
	m.PointerMove(p)
	r := m.rect.Image()
	if r.Dx() == 0 || r.Dy() == 0 {
		m.confirmFull()
		return
	}
	m.rect = geom.RectFromImage(r)
	m.state = Confirmed
}

// ConfirmKey selects the whole display from Idle or Dragging.
func (m *Machine) ConfirmKey() {
	if m.Done() {
		return
	}
	m.confirmFull()
}

// FullScreen is the instant capture path that never enters Dragging.
func (m *Machine) FullScreen() { m.ConfirmKey() }

// CancelKey abandons the selection.
func (m *Machine) CancelKey() {
	if m.Done() {
		return
	}
	m.state = Cancelled
	m.rect = geom.Rect{}
}

// SecondaryPointer (right click) abandons the selection.
func (m *Machine) SecondaryPointer() { m.CancelKey() }

// Result crops the confirmed region out of the screenshot into a new image.
func (m *Machine) Result() (*image.RGBA, error) {
	if m.state != Confirmed {
		return nil, fmt.Errorf("%w: state %v", ErrNotConfirmed, m.state)
	}
	src := m.rect.Image().Add(m.shot.Bounds().Min).Intersect(m.shot.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(out, out.Rect, m.shot, src.Min, draw.Src)
	return out, nil
}

func (m *Machine) confirmFull() {
	m.rect = m.bounds
	m.state = Confirmed
}

func (m *Machine) clamp(p geom.Point) geom.Point {
	return geom.Pt(
		math.Max(m.bounds.Min.X, math.Min(m.bounds.Max.X, math.Round(p.X))),
		math.Max(m.bounds.Min.Y, math.Min(m.bounds.Max.Y, math.Round(p.Y))),
	)
}
