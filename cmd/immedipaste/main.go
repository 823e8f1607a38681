package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/immedipaste/internal/config"
	"github.com/example/immedipaste/internal/notify"
	"github.com/example/immedipaste/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs            *flag.FlagSet
	program       string
	notifier      *notify.Notifier
	config        *config.Config
	configPath    string
	captureAlerts bool
	saveAlerts    bool
	copyAlerts    bool
	resultAlerts  bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("immedipaste", flag.ExitOnError),
		program: "immedipaste",
		config:  config.New(),
	}
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "read configuration from this file")
	r.fs.BoolVar(&r.captureAlerts, "notify-capture", false, "show a desktop notification after capturing a screenshot")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", false, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.resultAlerts, "notify-result", true, "show a desktop notification with the outcome of each capture")
	r.fs.Usage = usageFunc(r)
	return r
}

// loadConfig reads the rc file and environment. Flags given explicitly on
// the command line override both.
func (r *root) loadConfig() {
	loader := config.NewLoader(version, r.configPath)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	if cfg.Theme == nil {
		cfg.Theme = theme.Default()
	}
	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["notify-capture"] {
		cfg.Notify.Capture = r.captureAlerts
	}
	if set["notify-save"] {
		cfg.Notify.Save = r.saveAlerts
	}
	if set["notify-copy"] {
		cfg.Notify.Copy = r.copyAlerts
	}
	if set["notify-result"] {
		cfg.Notify.Result = r.resultAlerts
	}
	r.config = cfg

	r.notifier = notify.New(notify.LoadPreferences())
	r.notifier.Enable(notify.EventCapture, cfg.Notify.Capture)
	r.notifier.Enable(notify.EventSave, cfg.Notify.Save)
	r.notifier.Enable(notify.EventCopy, cfg.Notify.Copy)
	r.notifier.Enable(notify.EventResult, cfg.Notify.Result)
}

func (r *root) subProgram(name string) string {
	return strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.loadConfig()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "capture":
		cmd, err = parseCaptureCmd(subArgs, r, false)
	case "fullscreen":
		cmd, err = parseCaptureCmd(subArgs, r, true)
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	case "help", "-h", "--help":
		return &UsageError{of: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
