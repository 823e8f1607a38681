//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/jezek/xgb/xproto"
)

func TestZPixmapToRGBA(t *testing.T) {
	formats := []xproto.Format{{Depth: 24, BitsPerPixel: 32}}
	data := []byte{
		1, 2, 3, 0, 4, 5, 6, 0,
		7, 8, 9, 0, 10, 11, 12, 0,
	}
	img, err := zpixmapToRGBA(formats, 24, data, 2, 2)
	if err != nil {
		t.Fatalf("zpixmapToRGBA: %v", err)
	}
	c := img.RGBAAt(1, 1)
	if c.R != 12 || c.G != 11 || c.B != 10 || c.A != 255 {
		t.Fatalf("pixel = %v", c)
	}
	if _, err := zpixmapToRGBA(formats, 16, data, 2, 2); err == nil {
		t.Fatalf("expected unsupported depth")
	}
	if _, err := zpixmapToRGBA(formats, 24, data[:5], 2, 2); err == nil {
		t.Fatalf("expected stride error")
	}
}

func TestPortalResult(t *testing.T) {
	ok := []interface{}{uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/Screenshot%20one.png")}}
	path, err := portalResult(ok)
	if err != nil {
		t.Fatal(err)
	}
	if path != "/tmp/Screenshot one.png" {
		t.Fatalf("path = %q", path)
	}
	denied := []interface{}{uint32(1), map[string]dbus.Variant{}}
	if _, err := portalResult(denied); err == nil {
		t.Fatalf("expected error for cancelled request")
	}
	if _, err := portalResult([]interface{}{uint32(0), map[string]dbus.Variant{}}); err == nil {
		t.Fatalf("expected error for missing uri")
	}
}
