package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/badgepress/pkg/assets"
	"github.com/matzehuels/badgepress/pkg/batch"
	"github.com/matzehuels/badgepress/pkg/fonts"
	"github.com/matzehuels/badgepress/pkg/layout"
)

// LoadTable returns the template table at path, or the embedded table when
// path is empty.
func LoadTable(path string) (*assets.Table, error) {
	if path == "" {
		return assets.DefaultTable()
	}
	return assets.LoadTable(path)
}

// NewRenderer builds a batch renderer from the template table and typeface
// named by opts. Both are loaded before any output is touched, so a bad
// table or font fails the run without clearing previous badges.
func NewRenderer(opts Options, logger *log.Logger) (*batch.Renderer, error) {
	tbl, err := LoadTable(opts.Templates)
	if err != nil {
		return nil, err
	}
	tf, err := fonts.Load(opts.Font)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded render resources", "templates", len(tbl.Pairs()), "font", tf.Name())
	return batch.NewRenderer(assets.NewResolver(tbl), layout.NewEngine(tf), logger), nil
}
