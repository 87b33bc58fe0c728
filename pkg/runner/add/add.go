package add

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/caltrack/pkg/app"
	"tableflip.dev/caltrack/pkg/commands/options"
)

const layoutTime = "Jan 2 15:04"

type Add struct {
	Service  *app.Service
	Food     string
	Calories int
	JSON     bool
	Out      io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no ledger")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	e, err := n.Service.Add(ctx, n.Food, n.Calories)
	if err != nil {
		return err
	}
	if n.JSON {
		return options.PrintJSON(out, e)
	}

	faint := color.New(color.Faint)
	_, _ = fmt.Fprintf(out, "Recorded %s ", color.New(color.Bold).Sprint(e.Food))
	_, _ = faint.Fprintf(out, "(%d kcal, %s)\n", e.Calories, e.RecordedAt.Local().Format(layoutTime))
	return nil
}
