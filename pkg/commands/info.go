package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/caltrack/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configured ledger and where it is stored.",
		Example: `
caltrack info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			i := info.Info{
				Config:  s.Config,
				Backend: s.Backend,
			}
			return i.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
