package output

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ncruces/go-strftime"
)

// Format is an on-disk image encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpg"
	WebP Format = "webp"
)

// JPEGQuality is used for every jpg save.
const JPEGQuality = 85

// ParseFormat accepts png, jpg/jpeg and webp.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	}
	return "", fmt.Errorf("unknown image format %q", s)
}

func (f Format) effective() Format {
	if f == "" {
		return PNG
	}
	return f
}

// Encode writes img in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f.effective() {
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case PNG:
		return png.Encode(w, img)
	case WebP:
		// Lossless VP8L.
		return nativewebp.Encode(w, img, &nativewebp.Options{})
	}
	return fmt.Errorf("unsupported format %q", f)
}

// FileSink saves into Dir as <Prefix>_<strftime(Suffix)>.<ext>.
type FileSink struct {
	Dir    string
	Prefix string
	Suffix string
	Format Format

	now func() time.Time
}

// FileOption configures a FileSink.
type FileOption func(*FileSink)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) FileOption {
	return func(f *FileSink) { f.now = now }
}

func NewFileSink(dir, prefix, suffix string, format Format, opts ...FileOption) *FileSink {
	f := &FileSink{Dir: dir, Prefix: prefix, Suffix: suffix, Format: format, now: time.Now}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *FileSink) Name() string { return "disk" }

// BaseName returns the file name without collision suffix or extension.
func (f *FileSink) BaseName(t time.Time) string {
	stamp := strftime.Format(f.Suffix, t)
	switch {
	case f.Prefix == "" && stamp == "":
		return "screenshot"
	case f.Prefix == "":
		return stamp
	case stamp == "":
		return f.Prefix
	}
	return f.Prefix + "_" + stamp
}

func (f *FileSink) Emit(ctx context.Context, img image.Image) Result {
	res := Result{Sink: f.Name()}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	path, err := f.save(img)
	res.Path, res.Err = path, err
	return res
}

const maxCollisions = 1000

func (f *FileSink) save(img image.Image) (string, error) {
	if f.Dir == "" {
		return "", errors.New("save folder not configured")
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create save folder: %w", err)
	}
	format := f.Format.effective()
	base := f.BaseName(f.now())
	for i := 0; i < maxCollisions; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		path := filepath.Join(f.Dir, name+"."+string(format))
		out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}
		if err := Encode(out, img, format); err != nil {
			out.Close()
			os.Remove(path)
			return "", fmt.Errorf("encode %s: %w", path, err)
		}
		if err := out.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", path, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("too many files named %s in %s", base, f.Dir)
}
