package clipboard

import (
	"errors"
	"image"
	"runtime"
	"sync"
	"testing"
)

func resetInit(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		initOnce = sync.Once{}
		initErr = nil
		active = nil
	})
	initOnce = sync.Once{}
	initErr = nil
	active = nil
}

func TestWriteWithoutDisplay(t *testing.T) {
	if !needsDisplay() {
		t.Skipf("%s clipboard does not need a display", runtime.GOOS)
	}
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	resetInit(t)

	_, err := WriteImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
}

type memBackend struct {
	data []byte
}

func (m *memBackend) write(b []byte) (<-chan struct{}, error) {
	m.data = b
	return make(chan struct{}), nil
}

func (m *memBackend) read() ([]byte, error) { return m.data, nil }

func TestRoundTripThroughBackend(t *testing.T) {
	resetInit(t)
	mem := &memBackend{}
	old := newBackend
	t.Cleanup(func() { newBackend = old })
	newBackend = func() (backend, error) { return mem, nil }
	t.Setenv("DISPLAY", ":0")

	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Pix[0] = 200
	src.Pix[3] = 255
	if _, err := WriteImage(src); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	got, err := ReadImage()
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if got.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if r, _, _, _ := got.At(0, 0).RGBA(); r>>8 != 200 {
		t.Fatalf("pixel lost: %d", r>>8)
	}
	if _, err := WriteImage(nil); err == nil {
		t.Fatalf("expected error for nil image")
	}
}

func TestReadEmpty(t *testing.T) {
	resetInit(t)
	old := newBackend
	t.Cleanup(func() { newBackend = old })
	newBackend = func() (backend, error) { return &memBackend{}, nil }
	t.Setenv("DISPLAY", ":0")
	if _, err := ReadImage(); err == nil {
		t.Fatalf("expected error for empty clipboard")
	}
}
