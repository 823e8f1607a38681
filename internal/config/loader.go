package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/example/immedipaste/internal/output"
)

// EnvPrefix marks environment variables that override the rc file.
const EnvPrefix = "IMMEDIPASTE_"

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time or by -config
	EnvFile      string // dotenv file read before the process environment

	lookupEnv func() []string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
		EnvFile:      ".env",
		lookupEnv:    os.Environ,
	}
}

// Load reads the rc file, if any, and applies environment overrides.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	if path := l.GetConfigPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		err = cfg.Read(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	env, err := l.environment()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".immedipasterc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	if p := UserConfigPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// UserConfigPath is where `config save` writes by default.
func UserConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "immedipaste", "config.rc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "immedipaste", "config.rc")
}

// Save writes cfg in rc format to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if path == "" {
		return errors.New("no configuration path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, []byte(cfg.String()), 0o644)
}

// environment merges the dotenv file with the process environment. The
// process wins on conflicts.
func (l *Loader) environment() (map[string]string, error) {
	vals := map[string]string{}
	if l.EnvFile != "" {
		m, err := godotenv.Read(l.EnvFile)
		switch {
		case err == nil:
			for k, v := range m {
				if strings.HasPrefix(k, EnvPrefix) {
					vals[k] = v
				}
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("%s: %w", l.EnvFile, err)
		}
	}
	lookup := l.lookupEnv
	if lookup == nil {
		lookup = os.Environ
	}
	for _, kv := range lookup() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, EnvPrefix) {
			vals[k] = v
		}
	}
	return vals, nil
}

// ApplyEnv applies IMMEDIPASTE_* overrides. Unknown names are ignored.
func (c *Config) ApplyEnv(env map[string]string) error {
	boolVar := func(name string, dst *bool) error {
		v, ok := env[EnvPrefix+name]
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = b
		return nil
	}
	if v := strings.TrimSpace(env[EnvPrefix+"SAVE_FOLDER"]); v != "" {
		c.SaveFolder = v
	}
	if v := strings.TrimSpace(env[EnvPrefix+"FORMAT"]); v != "" {
		f, err := output.ParseFormat(v)
		if err != nil {
			return fmt.Errorf("%sFORMAT: %w", EnvPrefix, err)
		}
		c.Format = f
	}
	if v := strings.TrimSpace(env[EnvPrefix+"BACKEND"]); v != "" {
		c.Backend = v
	}
	for name, dst := range map[string]*bool{
		"SAVE_TO_DISK":   &c.SaveToDisk,
		"ANNOTATE":       &c.Annotate.Enabled,
		"SHADOW":         &c.Shadow.Enabled,
		"NOTIFY_CAPTURE": &c.Notify.Capture,
		"NOTIFY_SAVE":    &c.Notify.Save,
		"NOTIFY_COPY":    &c.Notify.Copy,
		"NOTIFY_RESULT":  &c.Notify.Result,
	} {
		if err := boolVar(name, dst); err != nil {
			return err
		}
	}
	for k := range env {
		if strings.HasPrefix(k, EnvPrefix) && !knownEnv(strings.TrimPrefix(k, EnvPrefix)) {
			log.Printf("ignoring unknown setting %s", k)
		}
	}
	return nil
}

func knownEnv(name string) bool {
	switch name {
	case "SAVE_FOLDER", "FORMAT", "BACKEND", "SAVE_TO_DISK", "ANNOTATE", "SHADOW",
		"NOTIFY_CAPTURE", "NOTIFY_SAVE", "NOTIFY_COPY", "NOTIFY_RESULT":
		return true
	}
	// Notification text templates are read by the notify package.
	return strings.HasPrefix(name, "NOTIFY_")
}
