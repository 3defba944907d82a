// Package fonts provides the single typeface badges are drawn with.
//
// A [Typeface] is parsed once per batch and shared read-only by every
// render; [Typeface.Face] creates a sized face per draw, since faces keep
// glyph caches and are not safe to share.
//
// Names in the reference deployment are CJK, so production setups point
// [Load] at a TTF such as NotoSansTC-Regular.ttf. With no path configured
// the Go Regular font bundled with golang.org/x/image is used, which covers
// Latin scripts only.
package fonts

import (
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/badgepress/pkg/errors"
)

// DefaultName names the bundled fallback typeface.
const DefaultName = "Go Regular"

// Typeface is a parsed TrueType font.
type Typeface struct {
	name string
	font *truetype.Font
}

// Load parses the TrueType file at path. An empty path selects the bundled
// default. A path that cannot be read or parsed is a FONT_LOAD error; there
// is no silent fallback, since a misconfigured font would otherwise render
// every CJK name as missing glyphs.
func Load(path string) (*Typeface, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontLoad, err, "read font %s", path)
	}
	return Parse(path, data)
}

// Parse parses TrueType data under the given display name.
func Parse(name string, data []byte) (*Typeface, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontLoad, err, "parse font %s", name)
	}
	return &Typeface{name: name, font: f}, nil
}

// Default returns the bundled Go Regular typeface.
func Default() (*Typeface, error) {
	return Parse(DefaultName, goregular.TTF)
}

// Name returns the display name (the file path for loaded fonts).
func (t *Typeface) Name() string {
	return t.name
}

// Face returns a new face at the given size in points, at 72 DPI so that one
// point equals one template pixel.
func (t *Typeface) Face(size float64) font.Face {
	return truetype.NewFace(t.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// HasGlyphs reports whether every rune of s is covered by the typeface.
// Spaces are ignored.
func (t *Typeface) HasGlyphs(s string) bool {
	for _, r := range s {
		if r == ' ' {
			continue
		}
		if t.font.Index(r) == 0 {
			return false
		}
	}
	return true
}
