// Package layout places roster text on badge templates.
//
// # Fields
//
// A badge carries up to four text fields. Their anchors are fixed per field
// and never depend on record content; the horizontal anchor is always the
// centre of the template:
//
//	key             anchor y   base size
//	division        520        85
//	primary_name    720        110
//	secondary_name  850        110
//	club            1050       75
//
// Each field's glyph bounding box is centred on its anchor in both axes. A field with no
// text is skipped entirely: nothing is drawn and no space is reserved.
//
// # Shrink Rule
//
// Long text shrinks linearly so that names of up to 25 characters keep the
// base size and longer ones degrade gracefully:
//
//	n <= 25: base
//	n >  25: min(base, max(MinimumSize, round(112.5 - 1.5n)))
//
// Lengths are counted in characters (runes), so CJK names shrink at the same
// rate as Latin ones.
//
// # Rendering
//
// [Engine.Render] decodes a fresh copy of the template for every call, so the
// on-disk image is never modified and no raster is shared between records.
// The typeface is shared read-only; faces are created per draw.
package layout

import (
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/badgepress/pkg/assets"
	"github.com/matzehuels/badgepress/pkg/errors"
	"github.com/matzehuels/badgepress/pkg/fonts"
	"github.com/matzehuels/badgepress/pkg/roster"
)

// =============================================================================
// Fields
// =============================================================================

// FieldKey identifies a text field on the badge.
type FieldKey string

// Field keys, in drawing order.
const (
	FieldDivision      FieldKey = "division"
	FieldPrimaryName   FieldKey = "primary_name"
	FieldSecondaryName FieldKey = "secondary_name"
	FieldClub          FieldKey = "club"
)

// Field is the fixed placement rule for one key.
type Field struct {
	Key      FieldKey
	AnchorY  float64 // vertical centre in template pixels
	BaseSize int     // font size in points (= pixels) before shrinking
}

// Fields is the canonical field table in drawing order.
var Fields = []Field{
	{Key: FieldDivision, AnchorY: 520, BaseSize: 85},
	{Key: FieldPrimaryName, AnchorY: 720, BaseSize: 110},
	{Key: FieldSecondaryName, AnchorY: 850, BaseSize: 110},
	{Key: FieldClub, AnchorY: 1050, BaseSize: 75},
}

// TextField pairs a field rule with the text to draw.
type TextField struct {
	Field
	Text string
}

// Value returns the record value that feeds the given field.
func Value(rec roster.Record, key FieldKey) string {
	switch key {
	case FieldDivision:
		return rec.Division
	case FieldPrimaryName:
		return rec.PrimaryName
	case FieldSecondaryName:
		return rec.SecondaryName
	case FieldClub:
		return rec.Club
	}
	return ""
}

// FieldsFor builds the text fields for a record, in table order.
func FieldsFor(rec roster.Record) []TextField {
	out := make([]TextField, len(Fields))
	for i, f := range Fields {
		out[i] = TextField{Field: f, Text: Value(rec, f.Key)}
	}
	return out
}

// =============================================================================
// Shrink Rule
// =============================================================================

const (
	// ShrinkThreshold is the longest text that keeps its base size.
	ShrinkThreshold = 25

	// MinimumSize is the floor of the shrink rule.
	MinimumSize = 10
)

// FontSize returns the effective size for text drawn in a field whose base
// size is base. The result never exceeds base and never drops below
// MinimumSize.
func FontSize(text string, base int) int {
	n := utf8.RuneCountInString(text)
	if n <= ShrinkThreshold {
		return base
	}
	size := int(math.Round(112.5 - float64(n)*1.5))
	if size < MinimumSize {
		size = MinimumSize
	}
	if size > base {
		size = base
	}
	return size
}

// =============================================================================
// Placement
// =============================================================================

// Placement is a resolved draw instruction for one field.
type Placement struct {
	Key  FieldKey
	Text string
	X, Y float64 // centre of the text box in template pixels
	Size int
}

// Place computes placements for a template of the given size. Fields with
// empty text produce no placement.
func Place(size image.Point, fields []TextField) []Placement {
	cx := float64(size.X) / 2
	var out []Placement
	for _, f := range fields {
		if f.Text == "" {
			continue
		}
		out = append(out, Placement{
			Key:  f.Key,
			Text: f.Text,
			X:    cx,
			Y:    f.AnchorY,
			Size: FontSize(f.Text, f.BaseSize),
		})
	}
	return out
}

// =============================================================================
// Engine
// =============================================================================

// Ink is the fill colour for all badge text.
var Ink = color.Black

// Engine renders badges with a shared typeface.
type Engine struct {
	face *fonts.Typeface
}

// NewEngine creates an engine drawing with tf.
func NewEngine(tf *fonts.Typeface) *Engine {
	return &Engine{face: tf}
}

// Typeface returns the engine's typeface.
func (e *Engine) Typeface() *fonts.Typeface {
	return e.face
}

// Open decodes a fresh raster copy of the template. A missing or corrupt
// template is a TEMPLATE_OPEN error.
func Open(tpl assets.Template) (image.Image, error) {
	img, err := imaging.Open(tpl.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTemplateOpen, err, "open template %s/%s", tpl.Category, tpl.TicketType)
	}
	return img, nil
}

// Render draws fields onto a copy of the template and returns the composed
// image.
func (e *Engine) Render(tpl assets.Template, fields []TextField) (image.Image, error) {
	src, err := Open(tpl)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContextForImage(src)
	dc.SetColor(Ink)
	for _, p := range Place(image.Pt(dc.Width(), dc.Height()), fields) {
		face := e.face.Face(float64(p.Size))
		dc.SetFontFace(face)
		x, y := origin(face, p)
		dc.DrawString(p.Text, x, y)
	}
	return dc.Image(), nil
}

// origin returns the baseline start that centres the glyph bounding box of
// p.Text on (p.X, p.Y).
func origin(face font.Face, p Placement) (float64, float64) {
	b, _ := font.BoundString(face, p.Text)
	midX := float64(b.Min.X+b.Max.X) / 128
	midY := float64(b.Min.Y+b.Max.Y) / 128
	return p.X - midX, p.Y - midY
}

// RenderFile renders and writes the badge as PNG to path, creating parent
// directories. Write failures are WRITE_FAILED errors.
func (e *Engine) RenderFile(tpl assets.Template, fields []TextField, path string) error {
	img, err := e.Render(tpl, fields)
	if err != nil {
		return err
	}
	return Save(img, path)
}

// Save writes img to path, creating parent directories. The format follows
// the file extension.
func Save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "create directory for %s", path)
	}
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", path)
	}
	return nil
}
