// Package sheet lays rendered badges out on printable PDF pages.
//
// Badges are placed on a fixed grid, row-major from the top-left of each
// page, with the default 2x2 grid giving four badges per US Letter page. Each
// grid slot is inset by the margin on all sides; the badge image is stretched
// to fill the remaining cell, ignoring its aspect ratio.
//
//	+-----------+-----------+
//	|  m        |           |
//	| m[cell 0] | [cell 1]  |
//	|           |           |
//	+-----------+-----------+
//	| [cell 2]  | [cell 3]  |
//	+-----------+-----------+
//
// [Plan] is a pure function of the image count and options; [Paginate] draws
// the plan. All geometry is in PDF points (1/72 inch) with the origin at the
// top-left corner of the page.
package sheet

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/badgepress/pkg/errors"
)

// =============================================================================
// Page sizes
// =============================================================================

// PageSize is a named paper size in points.
type PageSize struct {
	Name          string
	Width, Height float64
}

var (
	Letter = PageSize{Name: "letter", Width: 612, Height: 792}
	A4     = PageSize{Name: "a4", Width: 595.28, Height: 841.89}
)

// PageSizes lists the supported paper sizes by name.
var PageSizes = map[string]PageSize{
	Letter.Name: Letter,
	A4.Name:     A4,
}

// ParsePageSize looks up a paper size by case-insensitive name.
func ParsePageSize(name string) (PageSize, error) {
	ps, ok := PageSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PageSize{}, errors.New(errors.ErrCodeInvalidConfig, "unknown page size %q (must be one of: letter, a4)", name)
	}
	return ps, nil
}

// =============================================================================
// Options
// =============================================================================

const (
	DefaultCellsPerRow = 2
	DefaultRowsPerPage = 2
	DefaultMargin      = 20.0 // points

	// DefaultDPI is the resolution badges are resampled to before embedding.
	DefaultDPI = 150.0
)

// Options configures pagination. Zero values select the defaults.
type Options struct {
	PageSize    PageSize
	CellsPerRow int
	RowsPerPage int
	Margin      float64
	DPI         float64
	Logger      *log.Logger
}

// SetDefaults fills zero fields with defaults.
func (o *Options) SetDefaults() {
	if o.PageSize.Width == 0 || o.PageSize.Height == 0 {
		o.PageSize = Letter
	}
	if o.CellsPerRow <= 0 {
		o.CellsPerRow = DefaultCellsPerRow
	}
	if o.RowsPerPage <= 0 {
		o.RowsPerPage = DefaultRowsPerPage
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// PerPage returns the number of cells on one page.
func (o Options) PerPage() int {
	return o.CellsPerRow * o.RowsPerPage
}

// CellSize returns the drawable width and height of one cell.
func (o Options) CellSize() (w, h float64) {
	w = o.PageSize.Width/float64(o.CellsPerRow) - 2*o.Margin
	h = o.PageSize.Height/float64(o.RowsPerPage) - 2*o.Margin
	return w, h
}

// =============================================================================
// Plan
// =============================================================================

// Cell places one image on a page.
type Cell struct {
	Image         int // index into the input image list
	X, Y          float64
	Width, Height float64
}

// Page is one sheet of cells. Trailing slots without an image are omitted.
type Page struct {
	Number int // 1-based
	Cells  []Cell
}

// Plan assigns count images to pages. It returns no pages for count <= 0.
func Plan(count int, opts Options) []Page {
	opts.SetDefaults()
	if count <= 0 {
		return nil
	}

	per := opts.PerPage()
	cw, ch := opts.CellSize()
	slotW := opts.PageSize.Width / float64(opts.CellsPerRow)
	slotH := opts.PageSize.Height / float64(opts.RowsPerPage)

	pages := make([]Page, 0, (count+per-1)/per)
	for i := 0; i < count; i++ {
		slot := i % per
		if slot == 0 {
			pages = append(pages, Page{Number: len(pages) + 1})
		}
		row, col := slot/opts.CellsPerRow, slot%opts.CellsPerRow
		p := &pages[len(pages)-1]
		p.Cells = append(p.Cells, Cell{
			Image:  i,
			X:      float64(col)*slotW + opts.Margin,
			Y:      float64(row)*slotH + opts.Margin,
			Width:  cw,
			Height: ch,
		})
	}
	return pages
}
