package commands

import (
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		q      queryFlags
		format string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "history <horse-id>",
		Short: "List a horse's events, newest first, with changes and risk categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := q.request(args[0])
			if err != nil {
				return err
			}
			events, err := svc.Dashboard.History(cmd.Context(), req)
			if err != nil {
				return err
			}
			if limit > 0 && limit < len(events) {
				events = events[:limit]
			}

			w := cmd.OutOrStdout()
			if done, err := writeStructured(w, format, events); done {
				return err
			}
			table := newTable(w)
			table.Header(eventHeader)
			if err := eventRows(table, events); err != nil {
				return err
			}
			return table.Render()
		},
	}
	q.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or toon")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum rows to show")
	return cmd
}
