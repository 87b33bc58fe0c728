package commands

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/caltrack/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
caltrack ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
				return errors.New("ui needs an interactive terminal; try `caltrack day` instead")
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			i := ui.UI{
				Ledger:   s.Backend.Ledger,
				Watcher:  s.Backend.Watcher,
				PageSize: s.Config.PageSize,
				Goal:     s.Config.Goal,
				Log:      s.Log,
			}
			return i.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
