package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/badgepress/pkg/archive"
	"github.com/matzehuels/badgepress/pkg/batch"
	"github.com/matzehuels/badgepress/pkg/cache"
	"github.com/matzehuels/badgepress/pkg/errors"
	"github.com/matzehuels/badgepress/pkg/observability"
	"github.com/matzehuels/badgepress/pkg/roster"
	"github.com/matzehuels/badgepress/pkg/sheet"
)

// Runner encapsulates pipeline execution and report storage.
// Both CLI and server use it to avoid duplicating orchestration.
//
// The Runner is stateless except for the report store and logger. Runs that
// share an output directory must not overlap, since Execute clears it.
type Runner struct {
	Reports *cache.Reports
	Logger  *log.Logger
}

// NewRunner creates a runner. A nil store disables report storage and a nil
// logger uses log.Default().
func NewRunner(reports *cache.Reports, logger *log.Logger) *Runner {
	if reports == nil {
		reports = cache.NewReports(nil, nil, 0)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Reports: reports, Logger: logger}
}

// Execute parses the roster, clears the output directory and renders one
// badge per row. Per-row problems are reported in the result; the error is
// reserved for unreadable input, bad configuration, an unusable output
// directory and cancellation. The report is stored under the batch ID.
func (r *Runner) Execute(ctx context.Context, rosterData io.Reader, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{BatchID: opts.BatchID}
	if result.BatchID == "" {
		result.BatchID = uuid.NewString()
	}
	logger := opts.Logger.With("batch", result.BatchID)

	// Stage 1: Parse
	parseStart := time.Now()
	entries, hash, err := Parse(rosterData)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.RosterHash = hash
	result.Stats.ParseTime = time.Since(parseStart)
	logger.Info("parsed roster",
		"rows", len(entries),
		"valid", len(roster.Records(entries)),
		"duration", result.Stats.ParseTime)

	renderer, err := NewRenderer(opts, logger)
	if err != nil {
		return nil, err
	}

	// Stage 2: Render
	hooks := observability.Batch()
	hooks.OnBatchStart(ctx, result.BatchID, len(entries))
	renderStart := time.Now()

	if err := archive.Clean(opts.OutputDir); err != nil {
		hooks.OnBatchComplete(ctx, result.BatchID, 0, 0, 0, time.Since(renderStart), err)
		return nil, err
	}
	results, err := renderer.RenderAll(ctx, entries, opts.OutputDir)
	result.Results = results
	result.Summary = batch.Summary(results)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnBatchComplete(ctx, result.BatchID, result.Summary.Success, result.Summary.Skipped, result.Summary.Failed, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	logger.Info("rendered badges",
		"success", result.Summary.Success,
		"skipped", result.Summary.Skipped,
		"failed", result.Summary.Failed,
		"duration", result.Stats.RenderTime)

	if err := r.Reports.Save(ctx, result.BatchID, NewReport(result)); err != nil {
		logger.Warn("could not store batch report", "err", err)
	}
	return result, nil
}

// Sheet paginates the badges found under the output directory and writes
// the PDF to opts.PDFPath(). It returns a NOT_FOUND error when there are no
// badges to lay out.
func (r *Runner) Sheet(ctx context.Context, opts Options) (string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSheet(); err != nil {
		return "", fmt.Errorf("invalid options: %w", err)
	}

	paths, err := sheet.Discover(opts.OutputDir)
	if err != nil {
		return "", err
	}
	return r.paginate(ctx, paths, opts)
}

// SheetFor paginates only the badges rendered successfully by res, in roster
// order, and writes the PDF to opts.PDFPath().
func (r *Runner) SheetFor(ctx context.Context, res *Result, opts Options) (string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSheet(); err != nil {
		return "", fmt.Errorf("invalid options: %w", err)
	}
	return r.paginate(ctx, batch.Successes(res.Results), opts)
}

func (r *Runner) paginate(ctx context.Context, paths []string, opts Options) (string, error) {
	if len(paths) == 0 {
		return "", errors.New(errors.ErrCodeNotFound, "no images found to combine into PDF")
	}

	start := time.Now()
	data, err := sheet.Paginate(ctx, paths, opts.SheetOptions())
	if err != nil {
		return "", fmt.Errorf("paginate: %w", err)
	}
	dst := opts.PDFPath()
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", dst)
	}

	opts.Logger.Info("wrote badge sheet",
		"badges", len(paths),
		"pages", len(sheet.Plan(len(paths), opts.SheetOptions())),
		"duration", time.Since(start))
	return dst, nil
}

// Archive zips the output directory into opts.ZipPath().
func (r *Runner) Archive(ctx context.Context, opts Options) (string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSheet(); err != nil {
		return "", fmt.Errorf("invalid options: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := opts.ZipPath()
	if err := archive.ZipFile(opts.OutputDir, dst); err != nil {
		return "", err
	}
	opts.Logger.Info("wrote archive", "path", dst)
	return dst, nil
}

// Report loads a stored batch report. It returns cache.ErrNotFound when the
// report does not exist or has expired.
func (r *Runner) Report(ctx context.Context, batchID string) (*Report, error) {
	var rep Report
	if err := r.Reports.Load(ctx, batchID, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// Close releases resources held by the runner (primarily the report store).
func (r *Runner) Close() error {
	if r.Reports != nil {
		return r.Reports.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
