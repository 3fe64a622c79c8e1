package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"welfare-mcp/internal/eventlog"
	"welfare-mcp/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		q      queryFlags
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "export <horse-id>",
		Short: "Export a horse's filtered history as CSV, JSON or text",
		Long: `Export a horse's filtered history, newest first.

Without --out the export is written to stdout. With --out a file named
<horse>-history-<date>.<ext> is created in that directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			req, err := q.request(args[0])
			if err != nil {
				return err
			}
			events, err := svc.Dashboard.History(cmd.Context(), req)
			if err != nil {
				return err
			}

			if outDir == "" {
				return export.Write(cmd.OutOrStdout(), f, events)
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create %s: %w", outDir, err)
			}
			path := filepath.Join(outDir, export.FileName(eventlog.SanitizeID(req.HorseID), f, time.Now()))
			file, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer file.Close()

			if err := export.Write(file, f, events); err != nil {
				return err
			}
			log.Info().Str("path", path).Int("events", len(events)).Msg("History exported")
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d events to %s\n", len(events), path)
			return nil
		},
	}
	q.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format: csv, json or text")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write the export file to")
	return cmd
}
