package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/badgepress/pkg/pipeline"
)

// sheetOpts holds the flags of the sheet command.
type sheetOpts struct {
	renderFlags
	zip bool
}

// sheetCommand creates the sheet command.
func (c *CLI) sheetCommand() *cobra.Command {
	var opts sheetOpts

	cmd := &cobra.Command{
		Use:   "sheet [dir]",
		Short: "Lay out badge images as a printable PDF",
		Long: `Lay out every PNG under dir as a PDF sheet, two by two per page.

The document is written to badges.pdf inside dir. Without an argument the
configured output directory is used.`,
		Example: `  badgepress sheet generated_images
  badgepress sheet generated_images --page-size a4 --zip`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.output = args[0]
			}
			return c.runSheet(cmd.Context(), opts)
		},
	}

	opts.register(cmd, false)
	cmd.Flags().BoolVar(&opts.zip, "zip", false, "also zip the directory")

	return cmd
}

func (c *CLI) runSheet(ctx context.Context, opts sheetOpts) error {
	settings, err := c.loadSettings()
	if err != nil {
		return err
	}
	opts.apply(&settings)

	runner, err := c.newRunner(ctx, settings)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.OptionsFromSettings(settings)
	popts.Logger = loggerFromContext(ctx)

	if err := writeSheet(ctx, func() (string, error) { return runner.Sheet(ctx, popts) }); err != nil {
		return err
	}
	if opts.zip {
		dst, err := runner.Archive(ctx, popts)
		if err != nil {
			return err
		}
		printSuccess("Archive written")
		printFile(dst)
	}
	return nil
}

// writeSheet runs a pagination step behind a spinner.
func writeSheet(ctx context.Context, paginate func() (string, error)) error {
	spinner := newSpinnerWithContext(ctx, os.Stderr, "Laying out badges...")
	spinner.Start()
	dst, err := paginate()
	if err != nil {
		spinner.StopWithError("Sheet failed")
		return err
	}
	spinner.StopWithSuccess("Badge sheet written")
	printFile(dst)
	return nil
}
