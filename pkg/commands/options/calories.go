package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/caltrack/pkg/entry"
)

// CaloriesOptions carries the raw --calories flag so it is validated the same
// way the entry form validates it.
type CaloriesOptions struct {
	Calories string
}

func AddCaloriesArgs(cmd *cobra.Command, o *CaloriesOptions) {
	cmd.Flags().StringVarP(&o.Calories, "calories", "k", "",
		"Calories in the entry, a whole number.")
}

func (o *CaloriesOptions) GetCalories() (int, error) {
	return entry.ParseCalories(o.Calories)
}
