//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11Source reads the root window of the default X screen.
type X11Source struct{}

func (X11Source) Name() string { return "x11" }

func (X11Source) CaptureDisplay(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return nil, fmt.Errorf("xproto screen unavailable")
	}
	w, h := int(screen.WidthInPixels), int(screen.HeightInPixels)
	reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(screen.Root),
		0, 0, uint16(w), uint16(h), 0xffffffff).Reply()
	if err != nil {
		return nil, fmt.Errorf("get root image: %w", err)
	}
	return zpixmapToRGBA(setup.PixmapFormats, reply.Depth, reply.Data, w, h)
}

// zpixmapToRGBA converts BGR(X) ZPixmap data. Alpha is forced opaque since
// the root window's padding byte carries no meaning.
func zpixmapToRGBA(formats []xproto.Format, depth byte, data []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("root window has empty geometry")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("root pixels: empty image data")
	}
	bpp := 0
	for _, f := range formats {
		if f.Depth == depth {
			bpp = int(f.BitsPerPixel)
			break
		}
	}
	if bpp == 0 {
		return nil, fmt.Errorf("unsupported depth %d", depth)
	}
	bytesPerPixel := bpp / 8
	if bytesPerPixel < 3 {
		return nil, fmt.Errorf("unsupported pixel format %d bpp", bpp)
	}
	stride := len(data) / height
	if stride*height != len(data) || stride < width*bytesPerPixel {
		return nil, fmt.Errorf("root pixels: unexpected stride")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := data[y*stride : (y+1)*stride]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			off := x * bytesPerPixel
			dst[x*4+0] = row[off+2]
			dst[x*4+1] = row[off+1]
			dst[x*4+2] = row[off]
			dst[x*4+3] = 0xff
		}
	}
	return img, nil
}
