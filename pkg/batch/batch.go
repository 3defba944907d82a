// Package batch renders one badge per roster entry.
//
// [Renderer.RenderAll] walks entries in input order and produces exactly one
// [Result] per entry. Per-record problems never abort the batch: rows that
// failed parsing or name an unknown template are skipped, rows whose template
// cannot be opened or whose output cannot be written are failed. Only an
// unusable output root or a cancelled context stop the run.
//
// Output files are named by a composite key,
//
//	<root>/<ticket_type>/<division>_<primary_name>.png
//
// with every segment passed through [Sanitize]. Two records sharing ticket
// type, division and primary name map to the same file; the later one wins.
package batch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/badgepress/pkg/assets"
	"github.com/matzehuels/badgepress/pkg/errors"
	"github.com/matzehuels/badgepress/pkg/layout"
	"github.com/matzehuels/badgepress/pkg/observability"
	"github.com/matzehuels/badgepress/pkg/roster"
)

// Status is the outcome of rendering one entry.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result is the outcome for one roster entry. OutputPath is set only on
// success; Err is set for skipped and failed entries.
type Result struct {
	Line       int
	Record     roster.Record
	OutputPath string
	Status     Status
	Err        error
}

// Reason returns a user-facing description of Err, or "" on success.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return errors.UserMessage(r.Err)
}

// Renderer drives the resolver and layout engine over a roster.
type Renderer struct {
	Resolver *assets.Resolver
	Engine   *layout.Engine
	Logger   *log.Logger
}

// NewRenderer creates a renderer. A nil logger discards output.
func NewRenderer(resolver *assets.Resolver, engine *layout.Engine, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Renderer{Resolver: resolver, Engine: engine, Logger: logger}
}

// RenderAll renders every entry under root and returns one result per entry,
// in input order. The returned error is non-nil only when root cannot be
// created (INFRASTRUCTURE) or ctx is cancelled; in the latter case the
// results rendered so far are returned alongside the error.
func (r *Renderer) RenderAll(ctx context.Context, entries []roster.Entry, root string) ([]Result, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInfrastructure, err, "create output directory %s", root)
	}

	hooks := observability.Batch()
	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		start := time.Now()
		res := r.renderOne(e, root)
		hooks.OnRecord(ctx, res.Line, string(res.Status), time.Since(start))
		r.logResult(res)
		results = append(results, res)
	}
	return results, nil
}

func (r *Renderer) renderOne(e roster.Entry, root string) Result {
	res := Result{Line: e.Line, Record: e.Record}
	if e.Err != nil {
		res.Status, res.Err = StatusSkipped, e.Err
		return res
	}

	tpl, err := r.Resolver.Resolve(e.Record.Category, e.Record.TicketType)
	if err != nil {
		res.Status, res.Err = StatusSkipped, err
		return res
	}

	fields := layout.FieldsFor(e.Record)
	for _, f := range fields {
		if !r.Engine.Typeface().HasGlyphs(f.Text) {
			r.Logger.Warn("typeface lacks glyphs", "line", e.Line, "field", f.Key, "font", r.Engine.Typeface().Name())
		}
	}

	path := OutputPath(root, tpl.TicketType, e.Record)
	if err := r.Engine.RenderFile(tpl, fields, path); err != nil {
		res.Status, res.Err = StatusFailed, err
		return res
	}

	res.Status, res.OutputPath = StatusSuccess, path
	return res
}

func (r *Renderer) logResult(res Result) {
	switch res.Status {
	case StatusSuccess:
		r.Logger.Debug("rendered badge", "line", res.Line, "path", res.OutputPath)
	case StatusSkipped:
		r.Logger.Warn("skipped record", "line", res.Line, "code", errors.GetCode(res.Err), "reason", res.Reason())
	case StatusFailed:
		r.Logger.Error("failed record", "line", res.Line, "code", errors.GetCode(res.Err), "reason", res.Reason())
	}
}

// =============================================================================
// Output naming
// =============================================================================

// OutputPath returns the file a record renders to under root.
func OutputPath(root, ticketType string, rec roster.Record) string {
	name := Sanitize(rec.Division) + "_" + Sanitize(rec.PrimaryName) + ".png"
	return filepath.Join(root, Sanitize(ticketType), name)
}

// Sanitize makes s safe as a single path segment. Path separators, control
// characters and characters reserved on common filesystems become "_".
// Leading and trailing spaces and dots are dropped; an empty result is "_".
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`/\<>:"|?*`, r) {
			return '_'
		}
		return r
	}, s)
	s = strings.Trim(s, " .")
	if s == "" {
		return "_"
	}
	return s
}

// =============================================================================
// Aggregation
// =============================================================================

// Counts tallies results by status.
type Counts struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Summary counts results per status.
func Summary(results []Result) Counts {
	c := Counts{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			c.Success++
		case StatusSkipped:
			c.Skipped++
		case StatusFailed:
			c.Failed++
		}
	}
	return c
}

// Successes returns the output paths of successful results in input order.
// A path appears once even if several records overwrote it.
func Successes(results []Result) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, r := range results {
		if r.Status != StatusSuccess || seen[r.OutputPath] {
			continue
		}
		seen[r.OutputPath] = true
		paths = append(paths, r.OutputPath)
	}
	return paths
}
