package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/caltrack/pkg/commands/options"
	"tableflip.dev/caltrack/pkg/runner/day"
)

func addDay(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	po := &options.PageOptions{}
	var showID bool

	cmd := &cobra.Command{
		Use:   "day",
		Short: "view the entries recorded on a day",
		Example: `
caltrack day
caltrack day --on 2024-3-10 --page 2
caltrack day --on 3/9 --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := po.Validate(); err != nil {
				return output.HandleError(err)
			}
			on, err := oo.GetOn()
			if err != nil {
				return output.HandleError(err)
			}

			ctx := context.Background()
			s, err := openSession(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			d := day.Day{
				Ledger:   s.Backend.Ledger,
				On:       on,
				Page:     po.Page,
				PageSize: s.Config.PageSize,
				Goal:     s.Config.Goal,
				JSON:     output.JSON,
				ShowID:   showID,
				Log:      s.Log,
			}
			err = d.Do(ctx)
			return output.HandleError(err)
		},
	}

	options.AddOnArgs(cmd, oo)
	options.AddPageArgs(cmd, po)
	options.AddOutputArg(cmd, output)
	cmd.Flags().BoolVar(&showID, "id", false, "Show entry ids.")

	topLevel.AddCommand(cmd)
}
