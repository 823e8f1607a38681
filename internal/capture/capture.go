// Package capture grabs the full display as a raster before the selection
// overlay starts.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"
)

// ErrNoBackend is returned when no capture source is configured.
var ErrNoBackend = errors.New("no capture backend available")

// Source produces one screenshot of every display.
type Source interface {
	Name() string
	CaptureDisplay(ctx context.Context) (*image.RGBA, error)
}

// Error reports that the base image could not be acquired. Err joins the
// failure of every backend that was tried.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return "capture failed: " + strings.ReplaceAll(e.Err.Error(), "\n", "; ")
}

func (e *Error) Unwrap() error { return e.Err }

// Chain tries each source in order and returns the first screenshot.
type Chain []Source

func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.Name()
	}
	return strings.Join(names, ",")
}

// CaptureDisplay returns the first successful capture. If every source
// fails the errors are joined in a *Error.
func (c Chain) CaptureDisplay(ctx context.Context) (*image.RGBA, error) {
	if len(c) == 0 {
		return nil, &Error{Err: ErrNoBackend}
	}
	var errs []error
	for _, s := range c {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		img, err := s.CaptureDisplay(ctx)
		if err == nil && img != nil && !img.Bounds().Empty() {
			return img, nil
		}
		if err == nil {
			err = errors.New("empty image")
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}
	return nil, &Error{Err: errors.Join(errs...)}
}

// SourceFunc adapts a function to Source.
type SourceFunc struct {
	Label string
	Fn    func(ctx context.Context) (*image.RGBA, error)
}

func (f SourceFunc) Name() string { return f.Label }

func (f SourceFunc) CaptureDisplay(ctx context.Context) (*image.RGBA, error) {
	return f.Fn(ctx)
}

// Default returns the platform's sources in preference order.
func Default() Chain {
	return platformSources()
}

// ByName picks sources by name from the default chain. "auto" or an empty
// list returns the whole chain.
func ByName(names ...string) (Chain, error) {
	all := Default()
	if len(names) == 0 || (len(names) == 1 && (names[0] == "" || names[0] == "auto")) {
		return all, nil
	}
	var out Chain
	for _, n := range names {
		found := false
		for _, s := range all {
			if strings.EqualFold(s.Name(), strings.TrimSpace(n)) {
				out = append(out, s)
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown capture backend %q (have %s)", n, all.Name())
		}
	}
	return out, nil
}

// Crop copies rect out of src into a new zero-origin image.
func Crop(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

// ToRGBA returns img as an *image.RGBA with its origin at (0,0), copying
// only when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
