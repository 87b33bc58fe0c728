package day

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"tableflip.dev/caltrack/pkg/commands/options"
	"tableflip.dev/caltrack/pkg/entry"
	"tableflip.dev/caltrack/pkg/ledger"
	"tableflip.dev/caltrack/pkg/printers"
	"tableflip.dev/caltrack/pkg/viewmodel"
)

const layoutUSDay = "Monday, January 2, 2006"

// Day prints one page of one day, answered through the same view model the
// TUI drives.
type Day struct {
	Ledger   ledger.Service
	On       *time.Time
	Page     int
	PageSize int
	Goal     int
	JSON     bool
	ShowID   bool
	Log      logrus.FieldLogger
	Now      func() time.Time
	Out      io.Writer
}

type dayJSON struct {
	Day       string        `json:"day"`
	Page      int           `json:"page"`
	PageCount int           `json:"pageCount"`
	Total     int           `json:"total"`
	Entries   []entry.Entry `json:"entries"`
	Calories  int           `json:"calories"`
	Goal      int           `json:"goal"`
	Progress  float64       `json:"progress"`
}

func (n *Day) Do(ctx context.Context) error {
	if n.Ledger == nil {
		return errors.New("can not get, no ledger")
	}

	opts := []viewmodel.Option{
		viewmodel.WithContext(ctx),
		viewmodel.WithPageSize(n.PageSize),
		viewmodel.WithGoal(n.Goal),
		viewmodel.WithLogger(n.Log),
	}
	if n.Now != nil {
		opts = append(opts, viewmodel.WithClock(n.Now))
	}
	if n.On != nil {
		opts = append(opts, viewmodel.WithDay(*n.On))
	}
	vm := viewmodel.New(n.Ledger, opts...)
	vm.Drain(vm.Init())
	if n.Page > 1 {
		vm.Drain(vm.SetPage(n.Page))
	}
	if err := vm.Err(); err != nil {
		return err
	}

	st := vm.State()
	out := n.Out
	if out == nil {
		out = color.Output
	}
	if n.JSON {
		return options.PrintJSON(out, dayJSON{
			Day:       st.SelectedDay.Format("2006-01-02"),
			Page:      st.CurrentPage,
			PageCount: vm.PageCount(),
			Total:     st.DayEntryCount,
			Entries:   st.Entries,
			Calories:  st.TotalCalories,
			Goal:      vm.Goal(),
			Progress:  vm.Progress(),
		})
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: out}
	pp.Day(printers.DayPage{
		Title:      st.SelectedDay.Format(layoutUSDay),
		Page:       st.CurrentPage,
		PageCount:  vm.PageCount(),
		DayEntries: st.DayEntryCount,
		Entries:    st.Entries,
		Calories:   st.TotalCalories,
		Goal:       vm.Goal(),
	})
	return nil
}
