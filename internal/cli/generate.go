package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/badgepress/pkg/errors"
	"github.com/matzehuels/badgepress/pkg/pipeline"
)

// generateOpts holds the flags of the generate command.
type generateOpts struct {
	renderFlags
	pdf bool
	zip bool
	all bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <roster.csv>",
		Short: "Render one badge per roster row",
		Long: `Render one badge per roster row.

The output directory is cleared first. Rows with an unknown category or
ticket type, or with the wrong number of fields, are skipped and reported.`,
		Example: `  badgepress generate roster.csv
  badgepress generate roster.csv --pdf --zip
  badgepress generate roster.csv -o out --templates templates.toml --font NotoSansTC-Regular.ttf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd, true)
	cmd.Flags().BoolVar(&opts.pdf, "pdf", false, "also lay the badges out as a PDF sheet")
	cmd.Flags().BoolVar(&opts.zip, "zip", false, "also zip the output directory")
	cmd.Flags().BoolVar(&opts.all, "all", false, "list every row, not only skipped and failed ones")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, path string, opts generateOpts) error {
	logger := loggerFromContext(ctx)

	settings, err := c.loadSettings()
	if err != nil {
		return err
	}
	opts.apply(&settings)

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "open roster")
	}
	defer f.Close()

	runner, err := c.newRunner(ctx, settings)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.OptionsFromSettings(settings)
	popts.Logger = logger

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, f, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d badges", res.Summary.Success))

	printCounts(res.Summary)
	if table := resultTable(res.Results, opts.all); table != "" {
		fmt.Println(table)
	}

	if opts.pdf {
		if err := writeSheet(ctx, func() (string, error) { return runner.SheetFor(ctx, res, popts) }); err != nil {
			return err
		}
	}
	if opts.zip {
		dst, err := runner.Archive(ctx, popts)
		if err != nil {
			return err
		}
		printSuccess("Archive written")
		printFile(dst)
	}

	if !opts.pdf {
		printNewline()
		printNextStep("Lay out the badges", fmt.Sprintf("%s sheet %s", appName, popts.OutputDir))
	}
	return nil
}
