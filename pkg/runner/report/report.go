package report

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/caltrack/pkg/app"
	"tableflip.dev/caltrack/pkg/commands/options"
	"tableflip.dev/caltrack/pkg/printers"
	"tableflip.dev/caltrack/pkg/timeutil"
)

// Report prints per-day totals for the trailing window ending today.
type Report struct {
	Service *app.Service
	Last    string
	JSON    bool
	Now     func() time.Time
	Out     io.Writer
}

func (n *Report) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not report, no ledger")
	}
	days, label, err := timeutil.ParseWindow(n.Last)
	if err != nil {
		return err
	}
	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}
	since := timeutil.AddDays(timeutil.StartOfDay(now), -(days - 1))

	result, err := n.Service.Report(ctx, since, now)
	if err != nil {
		return err
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	if n.JSON {
		return options.PrintJSON(out, result)
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Report(result, label)
	return nil
}
