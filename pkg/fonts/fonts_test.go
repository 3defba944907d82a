package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/badgepress/pkg/errors"
)

func TestLoadDefault(t *testing.T) {
	tf, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if tf.Name() != DefaultName {
		t.Errorf("Name() = %q, want %q", tf.Name(), DefaultName)
	}
	if !tf.HasGlyphs("Alice Wonderland") {
		t.Error("default typeface should cover Latin text")
	}
	if tf.HasGlyphs("王小明") {
		t.Error("default typeface should not report CJK coverage")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	tf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tf.Name() != path {
		t.Errorf("Name() = %q, want %q", tf.Name(), path)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.ttf")
	if err := os.WriteFile(garbage, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.ttf")},
		{"not a font", garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !errors.Is(err, errors.ErrCodeFontLoad) {
				t.Errorf("Load(%q) error = %v, want FONT_LOAD", tt.path, err)
			}
		})
	}
}

func TestFaceMetricsScaleWithSize(t *testing.T) {
	tf, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	small := tf.Face(20).Metrics().Height
	large := tf.Face(110).Metrics().Height
	if large <= small {
		t.Errorf("110pt height %v should exceed 20pt height %v", large, small)
	}
}
