// Package fonts provides cached Go Regular faces for text annotations and
// overlay labels.
package fonts

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultSize is used when a caller passes a non-positive size.
const DefaultSize = 16

var (
	parseOnce sync.Once
	parsed    *opentype.Font
	parseErr  error
	faces     sync.Map
)

func regular() (*opentype.Font, error) {
	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
		if parseErr != nil {
			parseErr = fmt.Errorf("parse goregular: %w", parseErr)
		}
	})
	return parsed, parseErr
}

// Face returns a face for the requested pixel size. Faces are cached per
// size and must only be used from one goroutine at a time.
func Face(size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if face, ok := faces.Load(size); ok {
		return face.(font.Face), nil
	}
	f, err := regular()
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("face %.1f: %w", size, err)
	}
	actual, _ := faces.LoadOrStore(size, face)
	return actual.(font.Face), nil
}

// Measure returns the bounding box of text rendered at size with its
// top-left corner at the origin, plus the baseline offset from the top.
func Measure(text string, size float64) (width, height, baseline int, err error) {
	face, err := Face(size)
	if err != nil {
		return 0, 0, 0, err
	}
	drawer := &font.Drawer{Face: face}
	width = drawer.MeasureString(text).Ceil()
	metrics := face.Metrics()
	baseline = metrics.Ascent.Ceil()
	height = baseline + metrics.Descent.Ceil()
	return width, height, baseline, nil
}

// Draw renders text with its top-left corner at (x, y).
func Draw(dst *image.RGBA, x, y int, text string, col color.Color, size float64) error {
	face, err := Face(size)
	if err != nil {
		return err
	}
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
	return nil
}
