package session

import (
	"image/color"

	"github.com/example/immedipaste/internal/annotation"
)

// Toolbar limits.
const (
	MinWidth    = 1
	MaxWidth    = 20
	MinFontSize = 8
	MaxFontSize = 72

	// MinDragSize is the image-space size below which a gesture is dropped.
	MinDragSize = 3
	// EraseTolerance is the image-space slack when picking a shape to erase.
	EraseTolerance = 4
)

// Config is the read-only snapshot a session starts from.
type Config struct {
	Tools    ToolMap
	Tool     Tool
	Color    color.RGBA
	Width    float64
	FontSize float64
	Head     annotation.ArrowHead
}

// DefaultConfig returns red freehand strokes 3px wide and 16px text.
func DefaultConfig() Config {
	return Config{
		Tools:    DefaultToolMap(),
		Tool:     ToolFreehand,
		Color:    color.RGBA{0xff, 0x00, 0x00, 0xff},
		Width:    3,
		FontSize: 16,
		Head:     annotation.HeadFilled,
	}
}

// Properties are the toolbar-controlled settings of a running session.
type Properties struct {
	Tool     Tool
	Color    color.RGBA
	Width    float64
	FontSize float64
	Head     annotation.ArrowHead
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
