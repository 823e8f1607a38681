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

	"github.com/example/immedipaste/internal/ui"
)

var readClipboardImage = readClipboard

// annotateCmd opens the editor on an existing image.
type annotateCmd struct {
	*root
	fs        *flag.FlagSet
	program   string
	file      string
	clipboard bool
	out       deliveryFlags
}

func (a *annotateCmd) Program() string        { return a.program }
func (a *annotateCmd) FlagSet() *flag.FlagSet { return a.fs }

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs, program: r.subProgram("annotate")}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.file, "file", "", "image file to annotate (png, jpeg or webp)")
	fs.BoolVar(&a.clipboard, "clipboard", false, "annotate the image on the clipboard")
	fs.BoolVar(&a.clipboard, "from-clip", false, "annotate the image on the clipboard (alias)")
	a.out.register(fs, r.config)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 1 && a.file == "" {
		a.file = fs.Arg(0)
	} else if fs.NArg() > 0 {
		return nil, &UsageError{of: a}
	}
	switch {
	case a.file != "" && a.clipboard:
		return nil, fmt.Errorf("-file cannot be used with -clipboard")
	case a.file == "" && !a.clipboard:
		return nil, &UsageError{of: a}
	}
	if err := a.out.apply(r.config); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		img    *image.RGBA
		err    error
		detail = "clipboard image"
	)
	if a.file != "" {
		detail = a.file
		img, err = decodeFile(a.file)
	} else {
		img, err = readClipboardImage()
	}
	if err != nil {
		return fmt.Errorf("annotate %s: %w", detail, err)
	}
	img, err = annotateImage(img, ui.Options{
		Theme:   a.config.Theme,
		Session: a.config.SessionConfig(),
		MaxSize: displaySize(),
	})
	if errors.Is(err, ui.ErrCancelled) {
		log.Printf("annotation discarded")
		return nil
	}
	if err != nil {
		return fmt.Errorf("annotate %s: %w", detail, err)
	}
	rep := a.deliver(ctx, img, detail)
	a.hold(ctx, rep)
	return reportErr(rep)
}
