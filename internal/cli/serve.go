package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/badgepress/internal/server"
	"github.com/matzehuels/badgepress/pkg/pipeline"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	host string
	port int
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the badge pipeline over HTTP",
		Long: `Serve the badge pipeline over HTTP.

Routes:
  POST /upload_csv              render an uploaded roster (multipart field "file")
  GET  /combine_images_to_pdf   download the badge sheet
  GET  /download_zip            download all badges as a zip
  GET  /batches/{id}            fetch a stored batch report
  GET  /healthz                 liveness check

Settings come from BADGE_* variables and the --env-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (default from BADGE_HOST)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (default from BADGE_PORT)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	settings, err := c.loadSettings()
	if err != nil {
		return err
	}
	if opts.host != "" {
		settings.Host = opts.host
	}
	if opts.port != 0 {
		settings.Port = opts.port
	}

	runner, err := c.newRunner(ctx, settings)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv, err := server.New(runner, pipeline.OptionsFromSettings(settings), settings.UploadDir, logger)
	if err != nil {
		return err
	}

	printInfo("Serving on %s", StyleLink.Render(fmt.Sprintf("http://%s", settings.Addr())))
	printDetail("output %s · uploads %s", settings.OutputDir, settings.UploadDir)
	return srv.Run(ctx, settings.Addr())
}
