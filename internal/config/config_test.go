package config

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/immedipaste/internal/annotation"
	"github.com/example/immedipaste/internal/output"
	"github.com/example/immedipaste/internal/session"
)

func TestParse(t *testing.T) {
	input := `
save_folder = /tmp/screens
format: png
filename_prefix = "shot"
filename_suffix = %H:%M
save_to_disk = false
clipboard_hold = 5s

[annotate]
enabled = true
default_tool = rect
shift_tool = text
ctrl_tool = none
color = orange
width = 6
arrow_head = hollow

[shadow]
enabled = yes
offset = -4, 8

[notify]
capture = true
save = false
copy = true

[theme]
selection = #FFFF00
`
	cfg, err := Parse(strings.NewReader(input))
	if err == nil {
		t.Fatalf("expected error for invalid boolean 'yes'")
	}
	input = strings.Replace(input, "enabled = yes", "enabled = true", 1)
	cfg, err = Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.SaveFolder != "/tmp/screens" || cfg.Format != output.PNG {
		t.Errorf("root section: %+v", cfg)
	}
	if cfg.FilenamePrefix != "shot" || cfg.FilenameSuffix != "%H:%M" {
		t.Errorf("filename = %q %q", cfg.FilenamePrefix, cfg.FilenameSuffix)
	}
	if cfg.SaveToDisk || cfg.ClipboardHold != 5*time.Second {
		t.Errorf("save_to_disk %v hold %v", cfg.SaveToDisk, cfg.ClipboardHold)
	}
	a := cfg.Annotate
	if !a.Enabled || a.DefaultTool != session.ToolRectangle || a.ShiftTool != session.ToolText || a.CtrlTool != session.ToolNone {
		t.Errorf("annotate tools: %+v", a)
	}
	if a.AltTool != session.ToolText {
		t.Errorf("unset alt_tool should keep default, got %v", a.AltTool)
	}
	if a.Color != (color.RGBA{255, 165, 0, 255}) || a.Width != 6 || a.ArrowHead != annotation.HeadHollow {
		t.Errorf("annotate style: %+v", a)
	}
	if !cfg.Shadow.Enabled || cfg.Shadow.Offset != image.Pt(-4, 8) {
		t.Errorf("shadow: %+v", cfg.Shadow)
	}
	if !cfg.Notify.Capture || cfg.Notify.Save || !cfg.Notify.Copy || !cfg.Notify.Result {
		t.Errorf("notify: %+v", cfg.Notify)
	}
	if cfg.Theme.Selection != (color.RGBA{255, 255, 0, 255}) {
		t.Errorf("theme selection = %v", cfg.Theme.Selection)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"format = gif",
		"[annotate]\nwidth = -1",
		"[annotate]\ndefault_tool = lasso",
		"[annotate]\ncolor = #12",
		"[shadow]\nopacity = 2",
		"[shadow]\noffset = 3",
		"clipboard_hold = soon",
	} {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestCircular(t *testing.T) {
	cfg := New()
	cfg.SaveFolder = "/home/user/shots"
	cfg.Format = output.WebP
	cfg.Annotate.Enabled = true
	cfg.Annotate.ShiftTool = session.ToolRectangle
	cfg.Annotate.Color = color.RGBA{1, 2, 3, 200}
	cfg.Annotate.FontSize = 24
	cfg.Shadow.Enabled = true
	cfg.Notify.Save = true
	cfg.Theme.Dim = color.RGBA{0, 0, 0, 10}

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, cfg.String())
	}
	if cfg.SaveFolder != cfg2.SaveFolder || cfg.Format != cfg2.Format || cfg.ClipboardHold != cfg2.ClipboardHold {
		t.Errorf("root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Annotate != cfg2.Annotate {
		t.Errorf("Annotate mismatch: %+v vs %+v", cfg.Annotate, cfg2.Annotate)
	}
	if cfg.Shadow != cfg2.Shadow {
		t.Errorf("Shadow mismatch: %+v vs %+v", cfg.Shadow, cfg2.Shadow)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	if *cfg.Theme != *cfg2.Theme {
		t.Errorf("Theme mismatch: %+v vs %+v", cfg.Theme, cfg2.Theme)
	}
}

func TestSessionConfig(t *testing.T) {
	cfg := New()
	cfg.Annotate.DefaultTool = session.ToolNone
	cfg.Annotate.CtrlTool = session.ToolArrow
	cfg.Annotate.Width = 0
	sc := cfg.SessionConfig()
	if sc.Tool != session.ToolFreehand {
		t.Errorf("none default tool should fall back to freehand, got %v", sc.Tool)
	}
	if sc.Tools.Resolve(session.ModCtrl, sc.Tool) != session.ToolArrow {
		t.Errorf("ctrl tool not applied")
	}
	if sc.Width != session.DefaultConfig().Width {
		t.Errorf("zero width should keep default, got %v", sc.Width)
	}
}

func TestSinksAndShadow(t *testing.T) {
	cfg := New()
	cfg.SaveFolder = "~/caps"
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := cfg.SaveDir(); got != filepath.Join(home, "caps") {
		t.Errorf("SaveDir = %q", got)
	}
	if fs := cfg.FileSink(); fs == nil || fs.Dir != filepath.Join(home, "caps") {
		t.Errorf("FileSink = %+v", fs)
	}
	cfg.SaveToDisk = false
	if cfg.FileSink() != nil {
		t.Errorf("FileSink should be nil when saving is off")
	}
	if cfg.ShadowOptions().Enabled() {
		t.Errorf("shadow should default off")
	}
	cfg.Shadow.Enabled = true
	if !cfg.ShadowOptions().Enabled() {
		t.Errorf("shadow should be on")
	}
}
