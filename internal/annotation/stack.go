package annotation

import "log"

// Command is a reversible change to a Model.
type Command interface {
	Name() string
	apply(m *Model) error
	revert(m *Model) error
}

// Add appends an annotation.
type Add struct {
	Annotation Annotation
	index      int
}

// NewAdd returns a command appending a.
func NewAdd(a Annotation) *Add { return &Add{Annotation: a} }

func (c *Add) Name() string { return "add " + kindName(c.Annotation) }

func (c *Add) apply(m *Model) error {
	c.index = m.Len()
	return m.insert(c.index, c.Annotation)
}

func (c *Add) revert(m *Model) error {
	_, err := m.remove(c.index)
	return err
}

// Remove deletes the annotation at Index.
type Remove struct {
	Index   int
	removed Annotation
}

// NewRemove returns a command deleting the annotation at i.
func NewRemove(i int) *Remove { return &Remove{Index: i} }

func (c *Remove) Name() string { return "remove " + kindName(c.removed) }

func (c *Remove) apply(m *Model) error {
	a, err := m.remove(c.Index)
	if err != nil {
		return err
	}
	c.removed = a
	return nil
}

func (c *Remove) revert(m *Model) error {
	return m.insert(c.Index, c.removed)
}

// Modify replaces the annotation at Index with After; undo restores Before.
type Modify struct {
	Index         int
	Before, After Annotation
}

// NewModify returns a command replacing before with after at index i.
func NewModify(i int, before, after Annotation) *Modify {
	return &Modify{Index: i, Before: before, After: after}
}

func (c *Modify) Name() string { return "modify " + kindName(c.After) }

func (c *Modify) apply(m *Model) error {
	if err := m.checkAnnotation(c.Before); err != nil {
		return err
	}
	_, err := m.replace(c.Index, c.After)
	return err
}

func (c *Modify) revert(m *Model) error {
	_, err := m.replace(c.Index, c.Before)
	return err
}

func kindName(a Annotation) string {
	if a == nil {
		return "annotation"
	}
	return a.Kind().String()
}

// Stack is a linear undo history over a Model. Commands before the cursor
// are applied; commands after it have been undone and can be redone until
// the next Push.
type Stack struct {
	model    Model
	commands []Command
	cursor   int
}

// NewStack returns an empty stack over an empty model.
func NewStack() *Stack { return &Stack{} }

// Model returns the model for reading.
func (s *Stack) Model() *Model { return &s.model }

// Push applies c and records it, discarding any undone commands. The model
// is left unchanged when c cannot be applied.
func (s *Stack) Push(c Command) error {
	if err := c.apply(&s.model); err != nil {
		return err
	}
	for i := s.cursor; i < len(s.commands); i++ {
		s.commands[i] = nil
	}
	s.commands = append(s.commands[:s.cursor], c)
	s.cursor++
	return nil
}

// Undo reverts the most recent applied command. It reports false when there
// is nothing to undo.
func (s *Stack) Undo() bool {
	if s.cursor == 0 {
		return false
	}
	c := s.commands[s.cursor-1]
	if err := c.revert(&s.model); err != nil {
		log.Printf("undo %s: %v", c.Name(), err)
		return false
	}
	s.cursor--
	return true
}

// Redo reapplies the most recently undone command. It reports false when
// there is nothing to redo.
func (s *Stack) Redo() bool {
	if s.cursor == len(s.commands) {
		return false
	}
	c := s.commands[s.cursor]
	if err := c.apply(&s.model); err != nil {
		log.Printf("redo %s: %v", c.Name(), err)
		return false
	}
	s.cursor++
	return true
}

func (s *Stack) CanUndo() bool { return s.cursor > 0 }
func (s *Stack) CanRedo() bool { return s.cursor < len(s.commands) }

// Len is the number of recorded commands, including undone ones.
func (s *Stack) Len() int { return len(s.commands) }

// Cursor is the number of applied commands.
func (s *Stack) Cursor() int { return s.cursor }
