//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

func platformSources() Chain {
	return Chain{DisplaySource{}}
}
