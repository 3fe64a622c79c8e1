package commands

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var showProblems bool
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import race and training records from JSON or JSON Lines files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, path := range args {
				res, err := svc.Importer.ImportFile(path)
				if err != nil {
					return err
				}

				horses := make([]string, 0, len(res.Imported))
				for h := range res.Imported {
					horses = append(horses, h)
				}
				sort.Strings(horses)

				title(w, path)
				for _, h := range horses {
					fmt.Fprintf(w, "  %s: %d new events\n", h, res.Imported[h])
				}
				if res.Skipped > 0 {
					fmt.Fprintln(w, color.YellowString("  %d records skipped", res.Skipped))
					if showProblems {
						for _, p := range res.Problems {
							fmt.Fprintf(w, "    %s\n", p)
						}
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showProblems, "problems", false, "list why each skipped record was rejected")
	return cmd
}
