package config

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/example/immedipaste/internal/annotation"
	"github.com/example/immedipaste/internal/output"
	"github.com/example/immedipaste/internal/render"
	"github.com/example/immedipaste/internal/session"
	"github.com/example/immedipaste/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
	Result  bool
}

// Annotate holds the editor defaults.
type Annotate struct {
	Enabled     bool
	DefaultTool session.Tool
	ShiftTool   session.Tool
	CtrlTool    session.Tool
	AltTool     session.Tool
	Color       color.RGBA
	Width       float64
	FontSize    float64
	ArrowHead   annotation.ArrowHead
}

// Shadow controls the drop shadow added to exported images.
type Shadow struct {
	Enabled bool
	Radius  int
	Offset  image.Point
	Opacity float64
}

// Config holds the application configuration.
type Config struct {
	SaveFolder     string
	Format         output.Format
	FilenamePrefix string
	FilenameSuffix string
	SaveToDisk     bool
	// Backend is a comma separated list of capture sources, or "auto".
	Backend string
	// ClipboardHold is how long to keep serving the clipboard after exit
	// would otherwise happen. Zero returns immediately.
	ClipboardHold time.Duration

	Annotate Annotate
	Shadow   Shadow
	Notify   Notify
	Theme    *theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	sc := session.DefaultConfig()
	sh := render.DefaultShadow()
	return &Config{
		SaveFolder:     defaultSaveFolder(),
		Format:         output.JPEG,
		FilenamePrefix: "screenshot",
		FilenameSuffix: "%Y-%m-%d_%H-%M-%S",
		SaveToDisk:     true,
		Backend:        "auto",
		ClipboardHold:  time.Minute,
		Annotate: Annotate{
			Enabled:     false,
			DefaultTool: sc.Tool,
			ShiftTool:   sc.Tools[session.ModShift],
			CtrlTool:    sc.Tools[session.ModCtrl],
			AltTool:     sc.Tools[session.ModAlt],
			Color:       sc.Color,
			Width:       sc.Width,
			FontSize:    sc.FontSize,
			ArrowHead:   sc.Head,
		},
		Shadow: Shadow{Radius: sh.Radius, Offset: sh.Offset, Opacity: sh.Opacity},
		Notify: Notify{Result: true},
		Theme:  theme.Default(),
	}
}

func defaultSaveFolder() string {
	if runtime.GOOS == "darwin" {
		return "~/Desktop"
	}
	return "~/Pictures/Screenshots"
}

// SaveDir returns SaveFolder with a leading ~ expanded.
func (c *Config) SaveDir() string {
	return ExpandHome(c.SaveFolder)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// SessionConfig converts the annotate section into an editor snapshot.
func (c *Config) SessionConfig() session.Config {
	sc := session.DefaultConfig()
	a := c.Annotate
	if a.DefaultTool != session.ToolNone {
		sc.Tool = a.DefaultTool
	}
	sc.Tools[session.ModShift] = a.ShiftTool
	sc.Tools[session.ModCtrl] = a.CtrlTool
	sc.Tools[session.ModAlt] = a.AltTool
	sc.Color = a.Color
	if a.Width > 0 {
		sc.Width = a.Width
	}
	if a.FontSize > 0 {
		sc.FontSize = a.FontSize
	}
	sc.Head = a.ArrowHead
	return sc
}

// ShadowOptions returns the drop shadow to apply, with zero opacity when
// shadows are disabled.
func (c *Config) ShadowOptions() render.Shadow {
	if !c.Shadow.Enabled {
		return render.Shadow{}
	}
	return render.Shadow{Radius: c.Shadow.Radius, Offset: c.Shadow.Offset, Opacity: c.Shadow.Opacity}
}

// FileSink builds the disk sink, or nil when saving is disabled.
func (c *Config) FileSink() *output.FileSink {
	if !c.SaveToDisk {
		return nil
	}
	return output.NewFileSink(c.SaveDir(), c.FilenamePrefix, c.FilenameSuffix, c.Format)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "save_folder = %s\n", c.SaveFolder)
	fmt.Fprintf(&sb, "format = %s\n", c.Format)
	fmt.Fprintf(&sb, "filename_prefix = %s\n", c.FilenamePrefix)
	fmt.Fprintf(&sb, "filename_suffix = %s\n", c.FilenameSuffix)
	fmt.Fprintf(&sb, "save_to_disk = %v\n", c.SaveToDisk)
	fmt.Fprintf(&sb, "backend = %s\n", c.Backend)
	fmt.Fprintf(&sb, "clipboard_hold = %s\n", c.ClipboardHold)
	sb.WriteString("\n")

	a := c.Annotate
	sb.WriteString("[annotate]\n")
	fmt.Fprintf(&sb, "enabled = %v\n", a.Enabled)
	fmt.Fprintf(&sb, "default_tool = %s\n", a.DefaultTool)
	fmt.Fprintf(&sb, "shift_tool = %s\n", a.ShiftTool)
	fmt.Fprintf(&sb, "ctrl_tool = %s\n", a.CtrlTool)
	fmt.Fprintf(&sb, "alt_tool = %s\n", a.AltTool)
	fmt.Fprintf(&sb, "color = %s\n", theme.Hex(a.Color))
	fmt.Fprintf(&sb, "width = %g\n", a.Width)
	fmt.Fprintf(&sb, "font_size = %g\n", a.FontSize)
	fmt.Fprintf(&sb, "arrow_head = %s\n", a.ArrowHead)
	sb.WriteString("\n")

	s := c.Shadow
	sb.WriteString("[shadow]\n")
	fmt.Fprintf(&sb, "enabled = %v\n", s.Enabled)
	fmt.Fprintf(&sb, "radius = %d\n", s.Radius)
	fmt.Fprintf(&sb, "offset = %d,%d\n", s.Offset.X, s.Offset.Y)
	fmt.Fprintf(&sb, "opacity = %g\n", s.Opacity)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "result = %v\n", c.Notify.Result)

	if c.Theme != nil {
		sb.WriteString("\n[theme]\n")
		fmt.Fprintf(&sb, "name = %s\n", c.Theme.Name)
		for _, f := range c.Theme.Fields() {
			fmt.Fprintf(&sb, "%s = %s\n", f.Key, theme.Hex(f.Color))
		}
	}

	return sb.String()
}
