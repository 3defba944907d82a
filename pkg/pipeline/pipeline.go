// Package pipeline provides the badge generation pipeline for badgepress.
//
// This package implements the complete parse → render → paginate → archive
// flow used by both the CLI and the HTTP server, so that both entry points
// share defaults, logging and error handling.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: Read the roster into entries, keeping malformed rows as skips
//  2. Render: Clear the output directory and render one badge per entry
//  3. Sheet: Lay the rendered badges out on PDF pages
//  4. Archive: Zip the output directory
//
// Execute runs the first two; Sheet and Archive work from whatever the
// output directory holds, so they can run after a render or independently.
//
// # Usage
//
//	runner := pipeline.NewRunner(reports, logger)
//	result, err := runner.Execute(ctx, rosterFile, pipeline.Options{
//	    OutputDir: "./generated_images",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary.Success, "badges")
//
//	pdfPath, err := runner.Sheet(ctx, opts)
package pipeline

import (
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/badgepress/pkg/batch"
	"github.com/matzehuels/badgepress/pkg/config"
	"github.com/matzehuels/badgepress/pkg/errors"
	"github.com/matzehuels/badgepress/pkg/sheet"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultOutputDir is where badges are rendered.
	DefaultOutputDir = config.DefaultOutputDir

	// DefaultPageSize is the PDF paper size.
	DefaultPageSize = config.DefaultPageSize

	// PDFName is the file name of the badge sheet inside the output directory.
	PDFName = "badges.pdf"

	// ZipName is the file name of the archive inside the output directory.
	ZipName = "generated_images.zip"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Render options
	OutputDir string `json:"output_dir,omitempty"`
	Templates string `json:"templates,omitempty"` // template table path; empty selects the embedded table
	Font      string `json:"font,omitempty"`      // TTF path; empty selects the bundled typeface
	BatchID   string `json:"batch_id,omitempty"`  // generated when empty

	// Sheet options
	PageSize string `json:"page_size,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// OptionsFromSettings maps settings onto pipeline options.
func OptionsFromSettings(s config.Settings) Options {
	return Options{
		OutputDir: s.OutputDir,
		Templates: s.Templates,
		Font:      s.Font,
		PageSize:  s.PageSize,
	}
}

// Result contains the outputs of a render run.
type Result struct {
	// BatchID identifies the run and its stored report.
	BatchID string

	// RosterHash is the SHA-256 of the roster bytes.
	RosterHash string

	// Results holds one entry per roster row, in input order.
	Results []batch.Result

	// Summary counts Results by status.
	Summary batch.Counts

	// Stats contains timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ParseTime  time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if err := errors.ValidateDir(o.OutputDir); err != nil {
		return err
	}
	if err := o.ValidateForSheet(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSheet sets sheet defaults and checks the page size.
func (o *Options) ValidateForSheet() error {
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.PageSize == "" {
		o.PageSize = DefaultPageSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	_, err := sheet.ParsePageSize(o.PageSize)
	return err
}

// SheetOptions returns pagination options for o. It assumes ValidateForSheet
// has succeeded.
func (o *Options) SheetOptions() sheet.Options {
	ps, _ := sheet.ParsePageSize(o.PageSize)
	return sheet.Options{PageSize: ps, Logger: o.Logger}
}

// PDFPath returns where Sheet writes the document.
func (o *Options) PDFPath() string {
	return filepath.Join(o.OutputDir, PDFName)
}

// ZipPath returns where Archive writes the archive.
func (o *Options) ZipPath() string {
	return filepath.Join(o.OutputDir, ZipName)
}
