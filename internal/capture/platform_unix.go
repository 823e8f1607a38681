//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import "os"

func platformSources() Chain {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return Chain{PortalSource{}, X11Source{}, DisplaySource{}}
	}
	return Chain{X11Source{}, PortalSource{}, DisplaySource{}}
}
