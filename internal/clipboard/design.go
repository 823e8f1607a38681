//go:build !((linux || freebsd || openbsd || netbsd || dragonfly) && !cgo)

package clipboard

import "golang.design/x/clipboard"

type designBackend struct{}

func init() {
	newBackend = func() (backend, error) {
		if err := clipboard.Init(); err != nil {
			return nil, err
		}
		return designBackend{}, nil
	}
}

func (designBackend) write(data []byte) (<-chan struct{}, error) {
	return clipboard.Write(clipboard.FmtImage, data), nil
}

func (designBackend) read() ([]byte, error) {
	return clipboard.Read(clipboard.FmtImage), nil
}

