package session

import (
	"fmt"
	"strings"
)

// Tool is a drawing tool selectable from the toolbar or a modifier key.
type Tool int

const (
	// ToolNone in a ToolMap means "use the toolbar tool".
	ToolNone Tool = iota
	ToolFreehand
	ToolArrow
	ToolOval
	ToolRectangle
	ToolText
)

var toolNames = [...]string{
	ToolNone:      "none",
	ToolFreehand:  "freehand",
	ToolArrow:     "arrow",
	ToolOval:      "oval",
	ToolRectangle: "rect",
	ToolText:      "text",
}

func (t Tool) String() string {
	if t >= 0 && int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// ParseTool accepts the names produced by Tool.String plus a few aliases.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return ToolNone, nil
	case "freehand", "pen", "draw":
		return ToolFreehand, nil
	case "arrow":
		return ToolArrow, nil
	case "oval", "ellipse", "circle":
		return ToolOval, nil
	case "rect", "rectangle", "box":
		return ToolRectangle, nil
	case "text":
		return ToolText, nil
	}
	return ToolNone, fmt.Errorf("unknown tool %q", s)
}

// Modifier is the single modifier key that selects a tool at gesture start.
type Modifier int

const (
	ModNone Modifier = iota
	ModShift
	ModCtrl
	ModAlt
	modCount
)

func (m Modifier) String() string {
	switch m {
	case ModNone:
		return "none"
	case ModShift:
		return "shift"
	case ModCtrl:
		return "ctrl"
	case ModAlt:
		return "alt"
	}
	return fmt.Sprintf("modifier(%d)", int(m))
}

// ModifierFromState picks one modifier from the held keys. Shift wins over
// ctrl, ctrl over alt.
func ModifierFromState(shift, ctrl, alt bool) Modifier {
	switch {
	case shift:
		return ModShift
	case ctrl:
		return ModCtrl
	case alt:
		return ModAlt
	}
	return ModNone
}

// ToolMap maps each modifier to a tool. It is consulted once per gesture.
type ToolMap [modCount]Tool

// DefaultToolMap draws with the toolbar tool, arrows with shift, ovals with
// ctrl and text with alt.
func DefaultToolMap() ToolMap {
	return ToolMap{
		ModNone:  ToolNone,
		ModShift: ToolArrow,
		ModCtrl:  ToolOval,
		ModAlt:   ToolText,
	}
}

// Resolve returns the tool for mod, falling back to toolbar when the entry
// is ToolNone.
func (m ToolMap) Resolve(mod Modifier, toolbar Tool) Tool {
	if mod < 0 || mod >= modCount {
		mod = ModNone
	}
	if t := m[mod]; t != ToolNone {
		return t
	}
	return toolbar
}
