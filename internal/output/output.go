// Package output delivers a finished image to the clipboard and to disk and
// summarises the outcome for the user.
package output

import (
	"context"
	"fmt"
	"image"
	"log"
	"path/filepath"

	"github.com/example/immedipaste/internal/clipboard"
)

// Result is the outcome of one sink.
type Result struct {
	Sink string
	Path string
	Err  error
}

// Sink receives the composited image.
type Sink interface {
	Name() string
	Emit(ctx context.Context, img image.Image) Result
}

var (
	_ Sink = (*ClipboardSink)(nil)
	_ Sink = (*FileSink)(nil)
)

// Status classifies a Report.
type Status int

const (
	OK Status = iota
	Partial
	Failed
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Partial:
		return "partial"
	default:
		return "failed"
	}
}

const (
	msgNothing      = "Capture failed: could not copy to clipboard or save to disk"
	msgClipboard    = "Capture failed: could not copy to clipboard"
	msgDiskOnly     = "Copied to disk but clipboard copy failed"
	msgClipboardOK  = "Copied to clipboard"
	msgSaveFailedOK = "Copied to clipboard but saving to disk failed"
)

// Report combines the clipboard and disk results.
type Report struct {
	Status    Status
	Message   string
	Path      string
	Clipboard Result
	File      *Result
	// Held closes when another application replaces the clipboard content.
	Held <-chan struct{}
}

// Err returns the first sink error, or nil when everything succeeded.
func (r Report) Err() error {
	if r.Clipboard.Err != nil {
		return fmt.Errorf("%s: %w", r.Clipboard.Sink, r.Clipboard.Err)
	}
	if r.File != nil && r.File.Err != nil {
		return fmt.Errorf("%s: %w", r.File.Sink, r.File.Err)
	}
	return nil
}

// Fanout writes to the clipboard and, when File is set, to disk.
type Fanout struct {
	Clipboard *ClipboardSink
	File      *FileSink
}

// Emit runs both sinks and reports.
func (f Fanout) Emit(ctx context.Context, img image.Image) Report {
	var rep Report
	if f.Clipboard != nil {
		rep.Clipboard = f.Clipboard.Emit(ctx, img)
		rep.Held = f.Clipboard.Held()
	} else {
		rep.Clipboard = Result{Sink: "clipboard", Err: fmt.Errorf("clipboard sink not configured")}
	}
	if f.File != nil {
		r := f.File.Emit(ctx, img)
		rep.File = &r
		rep.Path = r.Path
	}
	clipOK := rep.Clipboard.Err == nil
	saved := rep.File != nil && rep.File.Err == nil

	switch {
	case !clipOK && !saved && rep.File != nil:
		rep.Status, rep.Message = Failed, msgNothing
	case !clipOK && !saved:
		rep.Status, rep.Message = Failed, msgClipboard
	case !clipOK:
		rep.Status, rep.Message = Partial, msgDiskOnly
	case rep.File != nil && !saved:
		rep.Status, rep.Message = Partial, msgSaveFailedOK
	case saved:
		rep.Status, rep.Message = OK, filepath.Base(rep.Path)
	default:
		rep.Status, rep.Message = OK, msgClipboardOK
	}
	if err := rep.Err(); err != nil {
		log.Printf("output %s: %v", rep.Status, err)
	}
	return rep
}

// ClipboardSink publishes a PNG to the system clipboard.
type ClipboardSink struct {
	write func(image.Image) (<-chan struct{}, error)
	held  <-chan struct{}
}

// NewClipboardSink uses the system clipboard.
func NewClipboardSink() *ClipboardSink {
	return &ClipboardSink{write: clipboard.WriteImage}
}

func (c *ClipboardSink) Name() string { return "clipboard" }

func (c *ClipboardSink) Emit(ctx context.Context, img image.Image) Result {
	res := Result{Sink: c.Name()}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	held, err := c.write(img)
	if err != nil {
		res.Err = err
		return res
	}
	c.held = held
	return res
}

// Held returns the ownership channel of the last successful write.
func (c *ClipboardSink) Held() <-chan struct{} { return c.held }
