package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"masquerade/internal/app"
)

// withCore builds the shared services for a headless command and closes
// them afterwards.
func withCore(fn func(core *app.Core) error) error {
	core, err := app.NewCore(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer core.Close()
	return fn(core)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the page builder to AI agents over MCP on stdio",
	Long: `Runs without a window. Destructive tools wait for approval from a
running desktop editor on the same database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.MCP.Enabled {
			return errors.New("mcp is disabled in the config (mcp.enabled = false)")
		}
		return withCore(app.ServeMCP)
	},
}

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "List the layouts available for new pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(func(core *app.Core) error {
			out := cmd.OutOrStdout()
			for _, l := range core.Catalog.ListLayouts() {
				ids := make([]string, 0, len(l.Regions))
				for _, r := range l.Regions {
					ids = append(ids, r.ID)
				}
				fmt.Fprintf(out, "%-22s %-28s %s\n", l.ID, l.Name, strings.Join(ids, ","))
			}
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <design-id> [dir]",
	Short: "Write a saved design to an export file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 2 {
			dir = args[1]
		}
		return withCore(func(core *app.Core) error {
			path, err := core.Exporter.ExportFile(args[0], dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add an exported design to the local library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(args[0]); err != nil {
			return err
		}
		return withCore(func(core *app.Core) error {
			saved, err := core.Exporter.ImportFile(args[0])
			if err != nil {
				return err
			}
			logger.Info("design imported", zap.String("id", saved.ID), zap.String("name", saved.Name))
			fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return nil
		})
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export every saved design into a new backup folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(func(core *app.Core) error {
			res, err := core.Backups.RunNow(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d designs -> %s\n", len(res.Files), res.Dir)
			return nil
		})
	},
}
