package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/immedipaste/internal/capture"
	"github.com/example/immedipaste/internal/ui"
)

var (
	captureSource = func(names []string) (capture.Source, error) {
		chain, err := capture.ByName(names...)
		if err != nil {
			return nil, err
		}
		return chain, nil
	}
	selectRegion  = ui.Select
	annotateImage = ui.Annotate
	displaySize   = func() image.Point {
		b, err := capture.VirtualBounds()
		if err != nil {
			return image.Point{}
		}
		return b.Size()
	}
)

// captureCmd freezes the display and delivers a region of it, or the whole
// display when full is set.
type captureCmd struct {
	*root
	fs       *flag.FlagSet
	program  string
	full     bool
	annotate bool
	backend  string
	delay    time.Duration
	out      deliveryFlags
}

func (c *captureCmd) Program() string        { return c.program }
func (c *captureCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseCaptureCmd(args []string, r *root, full bool) (*captureCmd, error) {
	name := "capture"
	if full {
		name = "fullscreen"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	c := &captureCmd{root: r, fs: fs, full: full, program: r.subProgram(name)}
	fs.Usage = usageFunc(c)
	fs.BoolVar(&c.annotate, "annotate", r.config.Annotate.Enabled, "open the editor before delivering")
	fs.StringVar(&c.backend, "backend", r.config.Backend, "comma separated capture backends to try, or auto")
	fs.DurationVar(&c.delay, "delay", 0, "wait before capturing")
	c.out.register(fs, r.config)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	if c.delay < 0 {
		return nil, fmt.Errorf("-delay must not be negative")
	}
	if err := c.out.apply(r.config); err != nil {
		return nil, err
	}
	r.config.Backend = c.backend
	return c, nil
}

func (c *captureCmd) mode() string {
	if c.full {
		return "fullscreen"
	}
	return "region"
}

func (c *captureCmd) uiOptions() ui.Options {
	return ui.Options{
		Theme:    c.config.Theme,
		Annotate: c.annotate,
		Session:  c.config.SessionConfig(),
		MaxSize:  displaySize(),
	}
}

func (c *captureCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	src, err := captureSource(splitList(c.backend))
	if err != nil {
		return err
	}
	shot, err := src.CaptureDisplay(ctx)
	if err != nil {
		return fmt.Errorf("failed to capture %s: %w", c.mode(), err)
	}

	img := shot
	switch {
	case !c.full:
		img, err = selectRegion(shot, c.uiOptions())
	case c.annotate:
		img, err = annotateImage(shot, c.uiOptions())
	}
	if errors.Is(err, ui.ErrCancelled) {
		log.Printf("%s capture cancelled", c.mode())
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to capture %s: %w", c.mode(), err)
	}

	rep := c.deliver(ctx, img, fmt.Sprintf("%s %dx%d", c.mode(), img.Bounds().Dx(), img.Bounds().Dy()))
	c.hold(ctx, rep)
	return reportErr(rep)
}
