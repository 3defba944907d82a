package sheet

import (
	"bytes"
	"context"
	"image"
	"math"
	"time"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/matzehuels/badgepress/pkg/errors"
	"github.com/matzehuels/badgepress/pkg/observability"
)

// mmPerPt converts PDF points to the millimetres canvas works in.
const mmPerPt = 25.4 / 72

func mm(pt float64) float64 { return pt * mmPerPt }

// Paginate draws the images at paths into a PDF laid out by [Plan] and
// returns the document bytes. With no paths it returns nil and no error.
//
// An image that cannot be decoded is logged and its cell left blank; the
// remaining images are still placed. ctx is checked between pages.
func Paginate(ctx context.Context, paths []string, opts Options) (data []byte, err error) {
	opts.SetDefaults()
	if len(paths) == 0 {
		return nil, nil
	}

	pages := Plan(len(paths), opts)
	hooks := observability.Batch()
	hooks.OnPaginateStart(ctx, len(paths))
	start := time.Now()
	defer func() {
		hooks.OnPaginateComplete(ctx, len(pages), time.Since(start), err)
	}()

	cw, ch := opts.CellSize()
	dpmm := opts.DPI / 25.4
	pxW := int(math.Round(mm(cw) * dpmm))
	pxH := int(math.Round(mm(ch) * dpmm))

	pw, ph := mm(opts.PageSize.Width), mm(opts.PageSize.Height)
	var buf bytes.Buffer
	writer := pdf.New(&buf, pw, ph, nil)
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 {
			writer.NewPage(pw, ph)
		}

		c := canvas.New(pw, ph)
		cctx := canvas.NewContext(c)
		cctx.SetCoordSystem(canvas.CartesianIV)
		for _, cell := range page.Cells {
			img, err := loadCell(paths[cell.Image], pxW, pxH)
			if err != nil {
				opts.Logger.Warn("leaving cell blank", "page", page.Number, "image", paths[cell.Image], "err", err)
				continue
			}
			cctx.DrawImage(mm(cell.X), mm(cell.Y), img, canvas.DPMM(float64(pxW)/mm(cell.Width)))
		}
		c.RenderTo(writer)
		opts.Logger.Debug("laid out page", "page", page.Number, "cells", len(page.Cells))
	}

	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriteFailed, err, "finish pdf")
	}
	return buf.Bytes(), nil
}

// loadCell decodes the image at path and stretches it to w x h pixels.
func loadCell(path string, w, h int) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	return imaging.Resize(img, w, h, imaging.Lanczos), nil
}
