package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/caltrack/pkg/commands/options"
	"tableflip.dev/caltrack/pkg/runner/report"
	"tableflip.dev/caltrack/pkg/timeutil"
)

func addReport(topLevel *cobra.Command) {
	var last string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Display daily calorie totals for a recent window",
		Long: `Report lists one row per day, ending today, with the calories recorded that day.

Examples:
  caltrack report
  caltrack report --last 3d
  caltrack report --last 1w2d --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			s, err := openSession(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := report.Report{
				Service: s.Service(),
				Last:    last,
				JSON:    output.JSON,
			}
			err = r.Do(ctx)
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&last, "last", timeutil.DefaultWindow, "time window to include (for example 3d, 1w)")
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
