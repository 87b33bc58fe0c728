package options

import (
	"fmt"

	"github.com/spf13/cobra"
)

// PageOptions selects a 1-based page of results.
type PageOptions struct {
	Page int
}

func AddPageArgs(cmd *cobra.Command, o *PageOptions) {
	cmd.Flags().IntVarP(&o.Page, "page", "p", 1,
		"Page of entries to show, starting at 1.")
}

func (o *PageOptions) Validate() error {
	if o.Page < 1 {
		return fmt.Errorf("--page must be 1 or more, got %d", o.Page)
	}
	return nil
}
