package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/example/immedipaste/internal/capture"
	"github.com/example/immedipaste/internal/clipboard"
	"github.com/example/immedipaste/internal/config"
	"github.com/example/immedipaste/internal/output"
	"github.com/example/immedipaste/internal/render"
)

var newClipboardSink = output.NewClipboardSink

// deliveryFlags are the output settings every image-producing command
// accepts. Defaults come from the loaded configuration.
type deliveryFlags struct {
	format string
	save   bool
	dir    string
	prefix string
	shadow bool
	hold   time.Duration
}

func (d *deliveryFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&d.format, "format", string(cfg.Format), "image format for saved files: png, jpg or webp")
	fs.BoolVar(&d.save, "save", cfg.SaveToDisk, "save a copy to the save folder")
	fs.StringVar(&d.dir, "dir", cfg.SaveFolder, "save folder")
	fs.StringVar(&d.prefix, "prefix", cfg.FilenamePrefix, "file name prefix")
	fs.BoolVar(&d.shadow, "shadow", cfg.Shadow.Enabled, "add a drop shadow to the delivered image")
	fs.DurationVar(&d.hold, "hold", cfg.ClipboardHold, "keep serving the clipboard for up to this long before exiting")
}

func (d *deliveryFlags) apply(cfg *config.Config) error {
	f, err := output.ParseFormat(d.format)
	if err != nil {
		return err
	}
	cfg.Format = f
	cfg.SaveToDisk = d.save
	cfg.SaveFolder = d.dir
	cfg.FilenamePrefix = d.prefix
	cfg.Shadow.Enabled = d.shadow
	if d.hold < 0 {
		return fmt.Errorf("-hold must not be negative")
	}
	cfg.ClipboardHold = d.hold
	return nil
}

// deliver sends img to the clipboard and, when enabled, the save folder and
// notifies about the outcome.
func (r *root) deliver(ctx context.Context, img *image.RGBA, detail string) output.Report {
	cfg := r.config
	if s := cfg.ShadowOptions(); s.Enabled() {
		img, _ = render.DropShadow(img, s)
	}
	r.notifier.Capture(detail, img)

	fan := output.Fanout{Clipboard: newClipboardSink(), File: cfg.FileSink()}
	rep := fan.Emit(ctx, img)
	if rep.Clipboard.Err == nil {
		r.notifier.Copy(detail)
	}
	if rep.File != nil && rep.File.Err == nil {
		r.notifier.Save(rep.Path)
	}
	r.notifier.Result(rep)
	fmt.Fprintln(os.Stderr, rep.Message)
	return rep
}

// hold keeps the process alive while it still owns the clipboard, up to the
// configured limit. Some platforms drop the content when the owner exits.
func (r *root) hold(ctx context.Context, rep output.Report) {
	limit := r.config.ClipboardHold
	if rep.Held == nil || limit <= 0 {
		return
	}
	log.Printf("serving clipboard for up to %s", limit)
	t := time.NewTimer(limit)
	defer t.Stop()
	select {
	case <-rep.Held:
	case <-t.C:
	case <-ctx.Done():
	}
}

func reportErr(rep output.Report) error {
	if rep.Status == output.Failed {
		return fmt.Errorf("%s: %w", rep.Message, rep.Err())
	}
	return nil
}

func decodeFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return capture.ToRGBA(img), nil
}

func readClipboard() (*image.RGBA, error) {
	img, err := clipboard.ReadImage()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	return capture.ToRGBA(img), nil
}

// writeFile encodes img using the format implied by the extension of path.
func writeFile(path string, img image.Image) error {
	format := output.PNG
	if ext := filepath.Ext(path); ext != "" {
		f, err := output.ParseFormat(ext)
		if err != nil {
			return err
		}
		format = f
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := output.Encode(out, img, format); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
