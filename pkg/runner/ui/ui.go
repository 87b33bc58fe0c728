package ui

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"tableflip.dev/caltrack/pkg/ledger"
	"tableflip.dev/caltrack/pkg/store"
	"tableflip.dev/caltrack/pkg/tui"
	"tableflip.dev/caltrack/pkg/viewmodel"
)

type UI struct {
	Ledger   ledger.Service
	Watcher  store.Watcher
	PageSize int
	Goal     int
	Log      logrus.FieldLogger
}

func (d *UI) Do(ctx context.Context) error {
	if d.Ledger == nil {
		return errors.New("can not open ui, no ledger")
	}
	vm := viewmodel.New(d.Ledger,
		viewmodel.WithContext(ctx),
		viewmodel.WithPageSize(d.PageSize),
		viewmodel.WithGoal(d.Goal),
		viewmodel.WithLogger(d.Log),
	)

	opts := []tui.Option{tui.WithLogger(d.Log)}
	if d.Watcher != nil {
		opts = append(opts, tui.WithWatcher(ctx, d.Watcher))
	}
	return tui.Run(vm, opts...)
}
