// Package assets embeds the application icon.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
)

//go:embed icons/*.png
var embeddedIcons embed.FS

var (
	loadIconsOnce sync.Once
	loadIconsErr  error

	pngImages = map[int]image.Image{}
	pngData   = map[int][]byte{}
)

// icon files are named <anything>-<size>.png
func loadIcons() {
	entries, err := fs.ReadDir(embeddedIcons, "icons")
	if err != nil {
		loadIconsErr = err
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		base := strings.TrimSuffix(name, ".png")
		idx := strings.LastIndex(base, "-")
		if idx == -1 || idx == len(base)-1 {
			continue
		}
		size, err := strconv.Atoi(base[idx+1:])
		if err != nil {
			continue
		}
		data, err := embeddedIcons.ReadFile(path.Join("icons", name))
		if err != nil {
			loadIconsErr = err
			return
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			loadIconsErr = fmt.Errorf("decode %s: %w", name, err)
			return
		}
		pngImages[size] = img
		pngData[size] = data
	}
}

func ensureIcons() error {
	loadIconsOnce.Do(loadIcons)
	return loadIconsErr
}

// IconImage returns the decoded image for an embedded PNG icon of the requested size.
func IconImage(size int) (image.Image, error) {
	if err := ensureIcons(); err != nil {
		return nil, err
	}
	img, ok := pngImages[size]
	if !ok {
		return nil, fmt.Errorf("icon %dpx not embedded", size)
	}
	return img, nil
}

// IconPNG returns a copy of the raw PNG bytes of the smallest embedded icon
// at least size pixels wide, or the largest one.
func IconPNG(size int) ([]byte, error) {
	if err := ensureIcons(); err != nil {
		return nil, err
	}
	sizes := IconSizes()
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no icons embedded")
	}
	pick := sizes[len(sizes)-1]
	for _, s := range sizes {
		if s >= size {
			pick = s
			break
		}
	}
	return append([]byte(nil), pngData[pick]...), nil
}

// IconSizes lists the icon sizes embedded in the binary.
func IconSizes() []int {
	if err := ensureIcons(); err != nil {
		return nil
	}
	sizes := make([]int, 0, len(pngImages))
	for size := range pngImages {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	return sizes
}
