package capture

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// DisplaySource captures the union of all active displays through the
// platform's native screenshot API.
type DisplaySource struct{}

func (DisplaySource) Name() string { return "display" }

var (
	numDisplays    = screenshot.NumActiveDisplays
	displayBounds  = screenshot.GetDisplayBounds
	captureDisplay = screenshot.CaptureRect
)

// VirtualBounds returns the rectangle covering every active display.
func VirtualBounds() (image.Rectangle, error) {
	n := numDisplays()
	if n == 0 {
		return image.Rectangle{}, errors.New("no active displays found")
	}
	union := displayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(displayBounds(i))
	}
	return union, nil
}

func (DisplaySource) CaptureDisplay(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	union, err := VirtualBounds()
	if err != nil {
		return nil, err
	}
	img, err := captureDisplay(union)
	if err != nil {
		return nil, fmt.Errorf("capture %v: %w", union, err)
	}
	return ToRGBA(img), nil
}
