package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/example/immedipaste/internal/annotation"
	"github.com/example/immedipaste/internal/geom"
	"github.com/example/immedipaste/internal/render"
	"github.com/example/immedipaste/internal/session"
	"github.com/example/immedipaste/internal/theme"
)

// drawCmd adds one annotation to an image without opening a window.
type drawCmd struct {
	*root
	fs            *flag.FlagSet
	program       string
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	colorSpec     string
	color         color.RGBA
	width         float64
	textSize      float64
	headSpec      string
	head          annotation.ArrowHead
	shape         string
	points        []geom.Point
	text          string
}

func (d *drawCmd) Program() string        { return d.program }
func (d *drawCmd) FlagSet() *flag.FlagSet { return d.fs }

var drawFlagNames = map[string]struct{}{
	"file": {}, "output": {}, "from-clipboard": {}, "from-clip": {}, "to-clipboard": {}, "to-clip": {},
	"color": {}, "width": {}, "text-size": {}, "head": {},
}

var drawBoolFlags = map[string]struct{}{
	"from-clipboard": {}, "from-clip": {}, "to-clipboard": {}, "to-clip": {},
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ContinueOnError)
	d := &drawCmd{root: r, fs: fs, program: "immedipaste draw"}
	if r != nil {
		d.program = r.subProgram("draw")
	}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input image file")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&d.fromClipboard, "from-clip", false, "read the input image from the clipboard (alias)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "deliver the result like a capture instead of writing -output")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "deliver the result like a capture (alias)")
	fs.StringVar(&d.colorSpec, "color", "red", "colour name or hex value")
	fs.Float64Var(&d.width, "width", 3, "stroke width in pixels")
	fs.Float64Var(&d.textSize, "text-size", 16, "text size in pixels")
	fs.StringVar(&d.headSpec, "head", "filled", "arrow head: filled, hollow or double")

	flagArgs, positionals, err := splitDrawArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	d.shape = strings.ToLower(positionals[0])
	remaining := positionals[1:]
	switch d.shape {
	case "arrow", "oval", "rect":
		d.points, err = expectPoints(remaining, 2, d.shape)
	case "line":
		if len(remaining) < 4 || len(remaining)%2 != 0 {
			return nil, fmt.Errorf("line requires at least two x y pairs")
		}
		d.points, err = expectPoints(remaining, len(remaining)/2, d.shape)
	case "text":
		if len(remaining) < 3 {
			return nil, fmt.Errorf("text requires x y and content")
		}
		d.points, err = expectPoints(remaining[:2], 1, d.shape)
		d.text = strings.Join(remaining[2:], " ")
		if strings.TrimSpace(d.text) == "" {
			return nil, fmt.Errorf("text content cannot be empty")
		}
	default:
		return nil, fmt.Errorf("unsupported shape %q", d.shape)
	}
	if err != nil {
		return nil, err
	}
	if d.color, err = theme.ParseColor(d.colorSpec); err != nil {
		return nil, err
	}
	if d.head, err = annotation.ParseArrowHead(d.headSpec); err != nil {
		return nil, err
	}
	if d.fromClipboard {
		if d.output == "" && !d.toClipboard {
			if d.file == "" {
				return nil, fmt.Errorf("output file is required when reading from the clipboard")
			}
			d.output = d.file
		}
	} else {
		if d.file == "" {
			return nil, fmt.Errorf("input file is required")
		}
		if d.output == "" && !d.toClipboard {
			d.output = d.file
		}
	}
	d.width = clampFloat(d.width, session.MinWidth, session.MaxWidth)
	d.textSize = clampFloat(d.textSize, session.MinFontSize, session.MaxFontSize)
	return d, nil
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (d *drawCmd) shapeAnnotation() annotation.Annotation {
	style := annotation.Style{Color: d.color, Width: d.width}
	switch d.shape {
	case "arrow":
		return annotation.Arrow{Start: d.points[0], End: d.points[1], Head: d.head, Style: style}
	case "oval":
		return annotation.Oval{Rect: geom.RectFromPoints(d.points[0], d.points[1]), Style: style}
	case "rect":
		return annotation.Rectangle{Rect: geom.RectFromPoints(d.points[0], d.points[1]), Style: style}
	case "line":
		return annotation.Freehand{Points: d.points, Style: style}
	}
	return annotation.Text{Anchor: d.points[0], Content: d.text, FontSize: d.textSize, Color: d.color}
}

func (d *drawCmd) Run() error {
	var (
		src *image.RGBA
		err error
	)
	if d.fromClipboard {
		src, err = readClipboardImage()
	} else {
		src, err = decodeFile(d.file)
	}
	if err != nil {
		return err
	}
	out := render.Composite(src, []annotation.Annotation{d.shapeAnnotation()})
	if d.toClipboard && d.root != nil {
		ctx := context.Background()
		rep := d.deliver(ctx, out, "draw "+d.shape)
		d.hold(ctx, rep)
		if err := reportErr(rep); err != nil {
			return err
		}
	}
	if d.output == "" {
		return nil
	}
	if err := writeFile(d.output, out); err != nil {
		return err
	}
	if d.root != nil {
		d.notifier.Save(d.output)
	}
	return nil
}

func expectPoints(args []string, n int, shape string) ([]geom.Point, error) {
	if len(args) != 2*n {
		return nil, fmt.Errorf("%s requires %d numeric arguments", shape, 2*n)
	}
	pts := make([]geom.Point, n)
	for i := range pts {
		x, err := strconv.ParseFloat(args[2*i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", args[2*i])
		}
		y, err := strconv.ParseFloat(args[2*i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", args[2*i+1])
		}
		pts[i] = geom.Pt(x, y)
	}
	if !geom.Finite(pts...) {
		return nil, fmt.Errorf("%s coordinates must be finite", shape)
	}
	return pts, nil
}

// splitDrawArgs separates known flags from positionals so flags may follow
// the shape and negative coordinates are not mistaken for flags.
func splitDrawArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := drawFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := drawBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}
