package config

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/immedipaste/internal/annotation"
	"github.com/example/immedipaste/internal/output"
	"github.com/example/immedipaste/internal/session"
	"github.com/example/immedipaste/internal/theme"
)

// Parse reads configuration from an io.Reader on top of the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	if err := cfg.Read(r); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read applies rc-formatted settings to c.
func (c *Config) Read(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	var section string
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		// Key = Value or Key: Value
		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:sep]))
		value := unquote(strings.TrimSpace(line[sep+1:]))

		var err error
		switch section {
		case "":
			err = setRootField(c, key, value)
		case "annotate":
			err = setAnnotateField(&c.Annotate, key, value)
		case "shadow":
			err = setShadowField(&c.Shadow, key, value)
		case "notify":
			err = setNotifyField(&c.Notify, key, value)
		case "theme":
			if c.Theme == nil {
				c.Theme = theme.Default()
			}
			err = c.Theme.Set(key, value)
		}
		if err != nil {
			name := section
			if name == "" {
				name = "root"
			}
			return fmt.Errorf("line %d [%s]: %w", lineNo, name, err)
		}
	}
	return scanner.Err()
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' && v[len(v)-1] == '"' || v[0] == '\'' && v[len(v)-1] == '\'') {
		return v[1 : len(v)-1]
	}
	return v
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "save_folder", "save_dir":
		cfg.SaveFolder = value
	case "format":
		f, err := output.ParseFormat(value)
		if err != nil {
			return err
		}
		cfg.Format = f
	case "filename_prefix":
		cfg.FilenamePrefix = value
	case "filename_suffix":
		cfg.FilenameSuffix = value
	case "save_to_disk":
		return parseBool(key, value, &cfg.SaveToDisk)
	case "backend":
		if value == "" {
			value = "auto"
		}
		cfg.Backend = value
	case "clipboard_hold":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for key %s: %w", key, err)
		}
		if d < 0 {
			return fmt.Errorf("negative duration for key %s", key)
		}
		cfg.ClipboardHold = d
	}
	return nil
}

func setAnnotateField(a *Annotate, key, value string) error {
	tool := func(dst *session.Tool) error {
		t, err := session.ParseTool(value)
		if err != nil {
			return err
		}
		*dst = t
		return nil
	}
	switch key {
	case "enabled":
		return parseBool(key, value, &a.Enabled)
	case "default_tool":
		return tool(&a.DefaultTool)
	case "shift_tool":
		return tool(&a.ShiftTool)
	case "ctrl_tool":
		return tool(&a.CtrlTool)
	case "alt_tool":
		return tool(&a.AltTool)
	case "color":
		c, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		a.Color = c
	case "width":
		return parsePositive(key, value, &a.Width)
	case "font_size":
		return parsePositive(key, value, &a.FontSize)
	case "arrow_head":
		h, err := annotation.ParseArrowHead(value)
		if err != nil {
			return err
		}
		a.ArrowHead = h
	}
	return nil
}

func setShadowField(s *Shadow, key, value string) error {
	switch key {
	case "enabled":
		return parseBool(key, value, &s.Enabled)
	case "radius":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid radius %q", value)
		}
		s.Radius = n
	case "offset":
		xs, ys, ok := strings.Cut(value, ",")
		x, errX := strconv.Atoi(strings.TrimSpace(xs))
		y, errY := strconv.Atoi(strings.TrimSpace(ys))
		if !ok || errX != nil || errY != nil {
			return fmt.Errorf("invalid offset %q, want x,y", value)
		}
		s.Offset = image.Pt(x, y)
	case "opacity":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("invalid opacity %q", value)
		}
		s.Opacity = f
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	switch key {
	case "capture":
		return parseBool(key, value, &n.Capture)
	case "save":
		return parseBool(key, value, &n.Save)
	case "copy":
		return parseBool(key, value, &n.Copy)
	case "result":
		return parseBool(key, value, &n.Result)
	}
	return nil
}

func parseBool(key, value string, dst *bool) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	*dst = b
	return nil
}

func parsePositive(key, value string, dst *float64) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	if f <= 0 {
		return fmt.Errorf("key %s must be positive", key)
	}
	*dst = f
	return nil
}
