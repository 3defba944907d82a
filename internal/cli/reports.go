package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/badgepress/pkg/cache"
	"github.com/matzehuels/badgepress/pkg/errors"
)

// reportsCommand creates the report store command.
func (c *CLI) reportsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect stored batch reports",
	}

	cmd.AddCommand(c.reportsShowCommand())
	cmd.AddCommand(c.reportsClearCommand())

	return cmd
}

// reportsShowCommand creates the "reports show" subcommand.
func (c *CLI) reportsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <batch-id>",
		Short: "Print a stored batch report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings, err := c.loadSettings()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, settings)
			if err != nil {
				return err
			}
			defer runner.Close()

			rep, err := runner.Report(ctx, args[0])
			if err == cache.ErrNotFound {
				return errors.New(errors.ErrCodeNotFound, "no report for batch %q", args[0])
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}
}

// reportsClearCommand creates the "reports clear" subcommand.
func (c *CLI) reportsClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every report from the report directory",
		Long: `Remove every report from BADGE_REPORT_DIR. Reports kept in Redis expire
on their own and are not touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := c.loadSettings()
			if err != nil {
				return err
			}
			dir := settings.ReportDir
			if dir == "" {
				printInfo("No report directory configured")
				return nil
			}

			count, err := clearDir(dir)
			if err != nil {
				return fmt.Errorf("clear reports: %w", err)
			}
			printSuccess("Cleared %d stored reports", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// clearDir removes the regular files directly inside dir and returns how
// many were removed. A missing directory counts as empty.
func clearDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
