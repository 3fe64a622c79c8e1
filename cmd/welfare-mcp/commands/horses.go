package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"welfare-mcp/internal/eventlog"
	"welfare-mcp/internal/trend"
)

func newHorsesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "horses",
		Short: "List horses with recorded history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := svc.Provider.ListHorses()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(w, color.YellowString("No horses found; import events first"))
				return nil
			}

			table := newTable(w)
			table.Header([]string{"Horse", "Events", "Latest"})
			for _, id := range ids {
				events, err := svc.Provider.FetchEvents(cmd.Context(), id, 0)
				if err != nil && !errors.Is(err, eventlog.ErrUnknownHorse) {
					return err
				}
				latest := ""
				if n := len(events); n > 0 {
					latest = trend.SortAscending(events)[n-1].Date.Format("2006-01-02")
				}
				if err := table.Append([]string{id, strconv.Itoa(len(events)), latest}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}
