package commands

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newFleetCmd() *cobra.Command {
	var (
		q      queryFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "fleet [horse-id...]",
		Short: "Rank horses by current critical-risk share and alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := q.request("")
			if err != nil {
				return err
			}
			ids := args
			if len(ids) == 0 {
				if ids, err = svc.Provider.ListHorses(); err != nil {
					return err
				}
			}
			w := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(w, color.YellowString("No horses found; import events first"))
				return nil
			}

			entries, err := svc.Dashboard.AnalyzeFleet(cmd.Context(), ids, base)
			if err != nil {
				return err
			}
			if done, err := writeStructured(w, format, entries); done {
				return err
			}

			table := newTable(w)
			table.Header([]string{"Horse", "Events", "Latest Risk", "Critical Share", "Alerts", "Welfare Alerts", "Highest"})
			for _, e := range entries {
				if e.Error != "" {
					if err := table.Append([]string{e.HorseID, "-", "-", "-", "-", "-", color.RedString(e.Error)}); err != nil {
						return err
					}
					continue
				}
				latest := "-"
				if e.LatestCategory.Valid() {
					latest = categoryText(e.LatestCategory)
				}
				if err := table.Append([]string{
					e.HorseID,
					strconv.Itoa(e.Events),
					latest,
					fmt.Sprintf("%.1f%%", e.CriticalShare),
					strconv.Itoa(e.AlertCount),
					strconv.Itoa(e.WelfareAlerts),
					e.HighestSeverity,
				}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	q.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or toon")
	return cmd
}
