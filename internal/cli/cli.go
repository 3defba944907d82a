// Package cli implements the badgepress command-line interface.
//
// This package provides commands for rendering badges from a roster,
// laying rendered badges out as a printable PDF sheet, inspecting the
// template table and serving the pipeline over HTTP. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Render one badge per roster row (optionally --pdf, --zip)
//   - sheet: Lay out existing badge images as a PDF sheet
//   - templates: Print the template resolution table
//   - serve: Run the HTTP server
//   - reports: Inspect stored batch reports
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/badgepress/pkg/buildinfo"
	"github.com/matzehuels/badgepress/pkg/cache"
	"github.com/matzehuels/badgepress/pkg/config"
	"github.com/matzehuels/badgepress/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "badgepress"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// envFile is the .env file read before the environment.
	envFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Badgepress renders event badges from a roster",
		Long:         `Badgepress renders one name badge per roster row onto per-category template images, then lays the badges out as a printable PDF sheet and a zip archive.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "settings file loaded into the environment")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.sheetCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.reportsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Settings & Runner Factory
// =============================================================================

// loadSettings reads settings from the env file and the environment.
func (c *CLI) loadSettings() (config.Settings, error) {
	return config.Load(c.envFile)
}

// newRunner creates a pipeline runner backed by the configured report store.
func (c *CLI) newRunner(ctx context.Context, s config.Settings) (*pipeline.Runner, error) {
	reports, err := newReports(ctx, s)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(reports, loggerFromContext(ctx)), nil
}

// newReports selects the report store: Redis when a URL is configured, a
// directory when BADGE_REPORT_DIR is set, otherwise none. Keys are scoped by
// BADGE_REPORT_PREFIX when set.
func newReports(ctx context.Context, s config.Settings) (*cache.Reports, error) {
	var (
		c   cache.Cache
		err error
	)
	switch {
	case s.RedisURL != "":
		c, err = cache.NewRedisCache(ctx, s.RedisURL)
	case s.ReportDir != "":
		c, err = cache.NewFileCache(s.ReportDir)
	default:
		c = cache.NewNullCache()
	}
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if s.ReportPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, s.ReportPrefix)
	}
	return cache.NewReports(c, keyer, s.ReportTTL), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderFlags are the settings overrides shared by generate and sheet.
type renderFlags struct {
	output    string
	templates string
	font      string
	pageSize  string
}

func (f *renderFlags) register(cmd *cobra.Command, render bool) {
	cmd.Flags().StringVar(&f.pageSize, "page-size", "", "PDF page size: letter or a4 (default from BADGE_PAGE_SIZE)")
	if !render {
		return
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output directory (default from BADGE_OUTPUT_DIR)")
	cmd.Flags().StringVar(&f.templates, "templates", "", "template table TOML file (default embedded)")
	cmd.Flags().StringVar(&f.font, "font", "", "TrueType font file (default Go Regular)")
}

// apply overrides settings with the flags that were given.
func (f *renderFlags) apply(s *config.Settings) {
	if f.output != "" {
		s.OutputDir = f.output
	}
	if f.templates != "" {
		s.Templates = f.templates
	}
	if f.font != "" {
		s.Font = f.font
	}
	if f.pageSize != "" {
		s.PageSize = f.pageSize
	}
}
