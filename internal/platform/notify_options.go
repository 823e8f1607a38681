// Package platform wraps the host notification service.
package platform

// Urgency mirrors the freedesktop notification urgency levels.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// AppName identifies the sender to notification daemons.
const AppName = "ImmediPaste"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	Urgency  Urgency
}

// timeoutMillis is how long a notification stays visible.
func (o Options) timeoutMillis() int32 {
	if o.Urgency == UrgencyCritical {
		return 8000
	}
	return 4000
}
