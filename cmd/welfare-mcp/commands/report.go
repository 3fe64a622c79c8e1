package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		q    queryFlags
		open bool
	)
	cmd := &cobra.Command{
		Use:   "report <horse-id>",
		Short: "Render an interactive HTML trend report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := q.request(args[0])
			if err != nil {
				return err
			}
			path, err := svc.WriteReport(cmd.Context(), req, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", color.CyanString(path))

			if open {
				if err := browser.OpenFile(path); err != nil {
					log.Warn().Err(err).Msg("Could not open browser")
				}
			}
			return nil
		},
	}
	q.register(cmd)
	cmd.Flags().BoolVar(&open, "open", false, "open the report in the default browser")
	return cmd
}
