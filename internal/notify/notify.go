// Package notify sends desktop notifications about capture outcomes.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/immedipaste/assets"
	"github.com/example/immedipaste/internal/output"
	"github.com/example/immedipaste/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventCapture emits a notification when a capture completes.
	EventCapture Event = "capture"
	// EventSave emits a notification when an image is persisted to disk.
	EventSave Event = "save"
	// EventCopy emits a notification when data is copied to the clipboard.
	EventCopy Event = "copy"
	// EventResult summarises the combined clipboard and disk outcome.
	EventResult Event = "result"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "ImmediPaste",
		Events: map[Event]EventPreference{
			EventCapture: {Template: "Captured %s"},
			EventSave:    {Template: "Saved %s"},
			EventCopy:    {Template: "Copied %s to clipboard"},
			EventResult:  {Template: "%s"},
		},
	}
}

// LoadPreferences reads templates from IMMEDIPASTE_NOTIFY_* variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("IMMEDIPASTE_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, event := range []Event{EventCapture, EventSave, EventCopy, EventResult} {
		key := "IMMEDIPASTE_NOTIFY_" + strings.ToUpper(string(event)) + "_TEXT"
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	return prefs
}

var send = platform.Notify

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Capture sends a capture notification with an optional image preview.
func (n *Notifier) Capture(detail string, img image.Image) {
	if !n.enabledFor(EventCapture) {
		return
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := writeTemp(func(f *os.File) error { return png.Encode(f, img) }); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCapture, detail, opts)
}

// Save sends a save notification including the written filename when available.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) || path == "" {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

// Result reports the outcome of delivering a capture. Failures are sent
// as critical notifications with the application icon.
func (n *Notifier) Result(rep output.Report) {
	if !n.enabledFor(EventResult) {
		return
	}
	opts := platform.Options{Urgency: platform.UrgencyNormal}
	if rep.Status == output.Failed {
		opts.Urgency = platform.UrgencyCritical
	}
	if rep.Status == output.OK && rep.Path != "" {
		opts.IconPath = rep.Path
	} else if data, err := assets.IconPNG(64); err == nil {
		path, cleanup, err := writeTemp(func(f *os.File) error {
			_, err := f.Write(data)
			return err
		})
		if err == nil {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventResult, rep.Message, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(detail)
	if strings.Contains(template, "%") {
		body = strings.TrimSpace(fmt.Sprintf(template, body))
	}
	if body == "" {
		return
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func (n *Notifier) template(event Event) string {
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}

func writeTemp(write func(*os.File) error) (string, func(), error) {
	f, err := os.CreateTemp("", "immedipaste-notify-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove notification icon: %v", err)
		}
	}
	return path, cleanup, nil
}
