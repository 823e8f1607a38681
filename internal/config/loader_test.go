package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/immedipaste/internal/output"
)

func newTestLoader(t *testing.T, rc, dotenv string, environ ...string) *Loader {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	l := NewLoader("release", filepath.Join(dir, "config.rc"))
	l.EnvFile = filepath.Join(dir, ".env")
	l.lookupEnv = func() []string { return environ }
	if rc != "" {
		if err := os.WriteFile(l.OverridePath, []byte(rc), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if dotenv != "" {
		if err := os.WriteFile(l.EnvFile, []byte(dotenv), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return l
}

func TestLoadPrecedence(t *testing.T) {
	l := newTestLoader(t,
		"format = png\nsave_folder = /rc\n",
		"IMMEDIPASTE_SAVE_FOLDER=/dotenv\nIMMEDIPASTE_ANNOTATE=true\nOTHER=1\n",
		"IMMEDIPASTE_SAVE_FOLDER=/process", "HOME=/ignored",
	)
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SaveFolder != "/process" {
		t.Errorf("process env should win, got %q", cfg.SaveFolder)
	}
	if !cfg.Annotate.Enabled {
		t.Errorf("dotenv override not applied")
	}
	if cfg.Format != output.PNG {
		t.Errorf("rc value lost: %q", cfg.Format)
	}
}

func TestLoadDefaultsWithoutFiles(t *testing.T) {
	l := newTestLoader(t, "", "")
	l.OverridePath = ""
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != output.JPEG || !cfg.SaveToDisk {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadReportsBadValues(t *testing.T) {
	if _, err := newTestLoader(t, "save_to_disk = maybe\n", "").Load(); err == nil {
		t.Errorf("expected rc error")
	}
	if _, err := newTestLoader(t, "", "", "IMMEDIPASTE_FORMAT=tiff").Load(); err == nil {
		t.Errorf("expected env format error")
	}
	if _, err := newTestLoader(t, "", "", "IMMEDIPASTE_NOTIFY_SAVE=perhaps").Load(); err == nil {
		t.Errorf("expected env boolean error")
	}
}

func TestDevModeLocalRC(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	if err := os.WriteFile(".immedipasterc", []byte("format = webp\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader("dev", "")
	if got := l.GetConfigPath(); filepath.Base(got) != ".immedipasterc" {
		t.Fatalf("GetConfigPath = %q", got)
	}
	if l := NewLoader("v1.0.0", ""); filepath.Base(l.GetConfigPath()) == ".immedipasterc" {
		t.Fatalf("release build should not read the local rc")
	}
}

func TestSaveWritesRC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "config.rc")
	cfg := New()
	cfg.FilenamePrefix = "saved"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := Parse(f)
	if err != nil {
		t.Fatal(err)
	}
	if got.FilenamePrefix != "saved" {
		t.Errorf("prefix = %q", got.FilenamePrefix)
	}
	if err := Save(cfg, ""); err == nil {
		t.Errorf("expected error for empty path")
	}
}
