package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/caltrack/pkg/commands/options"
	"tableflip.dev/caltrack/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	co := &options.CaloriesOptions{}

	cmd := &cobra.Command{
		Use:   "add <food...>",
		Short: "Record something you ate, right now",
		Example: `
caltrack add green apple --calories 95
caltrack add "slice of pizza" -k 285 --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) == 0 {
				return output.HandleError(errors.New("food is required"))
			}
			calories, err := co.GetCalories()
			if err != nil {
				return output.HandleError(err)
			}

			ctx := context.Background()
			s, err := openSession(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			a := add.Add{
				Service:  s.Service(),
				Food:     strings.Join(args, " "),
				Calories: calories,
				JSON:     output.JSON,
			}
			err = a.Do(ctx)
			return output.HandleError(err)
		},
	}

	options.AddCaloriesArgs(cmd, co)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
