// Package clipboard publishes composited screenshots to the system
// clipboard as PNG.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime"
	"sync"
)

var errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")

// backend is the platform clipboard. write returns a channel closed when
// another client takes ownership of the selection.
type backend interface {
	write(png []byte) (<-chan struct{}, error)
	read() ([]byte, error)
}

var (
	initOnce sync.Once
	initErr  error
	active   backend
)

// newBackend is replaced per build.
var newBackend func() (backend, error)

func ensureInit() error {
	initOnce.Do(func() {
		if needsDisplay() && !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		active, initErr = newBackend()
	})
	return initErr
}

func needsDisplay() bool {
	switch runtime.GOOS {
	case "windows", "darwin", "ios", "android":
		return false
	}
	return true
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// WriteImage encodes img as PNG and takes clipboard ownership. The returned
// channel closes once the content is replaced by another application; on
// X11 the process must stay alive until then for pastes to succeed.
func WriteImage(img image.Image) (<-chan struct{}, error) {
	if img == nil {
		return nil, fmt.Errorf("clipboard: nil image")
	}
	if err := ensureInit(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode clipboard image: %w", err)
	}
	return active.write(buf.Bytes())
}

// ReadImage decodes the PNG currently on the clipboard.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := active.read()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("clipboard does not contain image data")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}
