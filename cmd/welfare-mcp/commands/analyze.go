package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"welfare-mcp/internal/dashboard"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		q      queryFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "analyze <horse-id>",
		Short: "Show category statistics and welfare alerts for a horse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := q.request(args[0])
			if err != nil {
				return err
			}
			a, err := svc.Dashboard.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if done, err := writeStructured(w, format, a); done {
				return err
			}
			return printAnalysis(cmd, a)
		},
	}
	q.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or toon")
	return cmd
}

func printAnalysis(cmd *cobra.Command, a *dashboard.Analysis) error {
	w := cmd.OutOrStdout()
	title(w, fmt.Sprintf("%s: %d events, %s to %s (%s buckets)",
		a.HorseID, len(a.Events),
		a.Window.Start.Format("2006-01-02"), a.Window.End.Format("2006-01-02"), a.Window.Bucket))

	if len(a.Events) == 0 {
		fmt.Fprintln(w, color.YellowString("No events match the selected filters"))
		return nil
	}

	latest := a.Events[len(a.Events)-1]
	fmt.Fprintf(w, "Latest: %s %s at %s, performance %.0f, wellness %.0f, risk %s\n\n",
		latest.Date.Format("2006-01-02"), latest.Kind, latest.Location,
		latest.PerformanceScore, latest.WellnessScore, categoryText(latest.RiskCategory))

	table := newTable(w)
	table.Header([]string{"Category", "Current", "Mean", "Median", "Std Dev", "Z", "Slope", "Flags", "Correlations"})
	for _, s := range a.Samples {
		var flags []string
		if s.IsAnomaly {
			flags = append(flags, color.RedString("anomaly"))
		} else if s.IsSignificant {
			flags = append(flags, color.YellowString("significant"))
		}
		if len(s.Signals) > 0 {
			flags = append(flags, "shift")
		}

		var corr []string
		for _, c := range s.Correlations {
			name := c.Covariate
			if name == "" {
				name = fmt.Sprintf("cat %d", int(c.Category))
			}
			corr = append(corr, fmt.Sprintf("%s %.2f", name, c.Coefficient))
		}

		if err := table.Append([]string{
			categoryText(s.Category),
			fmt.Sprintf("%.1f%%", s.Current),
			fmt.Sprintf("%.1f%%", s.Mean),
			fmt.Sprintf("%.1f%%", s.Median),
			fmt.Sprintf("%.2f", s.StdDev),
			fmt.Sprintf("%+.2f", s.ZScore),
			fmt.Sprintf("%+.2f", s.Slope),
			strings.Join(flags, ","),
			strings.Join(corr, "; "),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if len(a.Alerts) == 0 {
		fmt.Fprintln(w, color.GreenString("No alerts"))
		return nil
	}
	title(w, "Alerts")
	for _, al := range a.Alerts {
		fmt.Fprintln(w, "  "+alertText(al))
	}
	return nil
}
