package annotation

import (
	"errors"
	"fmt"

	"github.com/example/immedipaste/internal/geom"
)

// ErrInvalidCommand is returned by Stack.Push when a command does not fit
// the current model.
var ErrInvalidCommand = errors.New("invalid command")

// Model is the ordered list of annotations. Index 0 is drawn first. The
// mutating methods are unexported so that only commands change it.
type Model struct {
	items []Annotation
}

// Len returns the number of annotations.
func (m *Model) Len() int { return len(m.items) }

// At returns the annotation at index i.
func (m *Model) At(i int) Annotation { return m.items[i] }

// Items returns a copy of the ordered list.
func (m *Model) Items() []Annotation {
	out := make([]Annotation, len(m.items))
	copy(out, m.items)
	return out
}

// Topmost returns the index of the last annotation hit at p.
func (m *Model) Topmost(p geom.Point, tol float64) (int, bool) {
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].Hit(p, tol) {
			return i, true
		}
	}
	return -1, false
}

// TopmostText returns the last text annotation whose bounds, grown by
// TextHitMargin, contain p.
func (m *Model) TopmostText(p geom.Point) (int, Text, bool) {
	for i := len(m.items) - 1; i >= 0; i-- {
		if t, ok := m.items[i].(Text); ok && t.Hit(p, TextHitMargin) {
			return i, t, true
		}
	}
	return -1, Text{}, false
}

func (m *Model) checkAnnotation(a Annotation) error {
	if a == nil {
		return fmt.Errorf("nil annotation: %w", ErrInvalidCommand)
	}
	if !a.Finite() {
		return fmt.Errorf("%s has non-finite coordinates: %w", a.Kind(), ErrInvalidCommand)
	}
	return nil
}

func (m *Model) checkIndex(i int) error {
	if i < 0 || i >= len(m.items) {
		return fmt.Errorf("index %d out of range [0,%d): %w", i, len(m.items), ErrInvalidCommand)
	}
	return nil
}

func (m *Model) insert(i int, a Annotation) error {
	if err := m.checkAnnotation(a); err != nil {
		return err
	}
	if i < 0 || i > len(m.items) {
		return fmt.Errorf("insert at %d of %d: %w", i, len(m.items), ErrInvalidCommand)
	}
	m.items = append(m.items, nil)
	copy(m.items[i+1:], m.items[i:])
	m.items[i] = a
	return nil
}

func (m *Model) remove(i int) (Annotation, error) {
	if err := m.checkIndex(i); err != nil {
		return nil, err
	}
	a := m.items[i]
	m.items = append(m.items[:i], m.items[i+1:]...)
	return a, nil
}

func (m *Model) replace(i int, a Annotation) (Annotation, error) {
	if err := m.checkIndex(i); err != nil {
		return nil, err
	}
	if err := m.checkAnnotation(a); err != nil {
		return nil, err
	}
	prev := m.items[i]
	m.items[i] = a
	return prev, nil
}
