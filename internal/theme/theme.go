// Package theme holds the colours of the capture overlay and the editor
// chrome.
package theme

import (
	"image/color"
)

// Theme is the palette used around the screenshot. Annotation colours are
// chosen by the user and are not part of it.
type Theme struct {
	Name string

	// Capture overlay
	Selection color.RGBA // Border and size label of the selected region
	Dim       color.RGBA // Wash over everything outside the selection

	// Editor
	Backdrop      color.RGBA // Viewport area around the letterboxed image
	Toolbar       color.RGBA
	ToolbarText   color.RGBA
	ToolbarActive color.RGBA // Highlight of the current tool and colour
	TextCaret     color.RGBA
}

// Default returns the built-in dark palette.
func Default() *Theme {
	return &Theme{
		Name:          "default",
		Selection:     color.RGBA{0x00, 0xaa, 0xff, 0xff},
		Dim:           color.RGBA{0, 0, 0, 120},
		Backdrop:      color.RGBA{0x30, 0x30, 0x30, 0xff},
		Toolbar:       color.RGBA{0x20, 0x20, 0x20, 0xff},
		ToolbarText:   color.RGBA{0xee, 0xee, 0xee, 0xff},
		ToolbarActive: color.RGBA{0x00, 0xaa, 0xff, 0xff},
		TextCaret:     color.RGBA{0xff, 0xff, 0xff, 0xff},
	}
}
