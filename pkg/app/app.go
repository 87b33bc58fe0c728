package app

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/caltrack/pkg/entry"
	"tableflip.dev/caltrack/pkg/ledger"
)

// Service provides high-level ledger operations shared by the CLI verbs.
type Service struct {
	Ledger ledger.Service
	// Goal is the daily calorie target reported alongside totals.
	Goal int
	// Now defaults to time.Now.
	Now func() time.Time
}

var errNoLedger = errors.New("app: no ledger configured")

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Add records food at the current time and returns the stored entry.
func (s *Service) Add(ctx context.Context, food string, calories int) (entry.Entry, error) {
	if s.Ledger == nil {
		return entry.Entry{}, errNoLedger
	}
	r := ledger.Record{Food: food, Calories: calories, RecordedAt: s.now()}
	if err := r.Validate(); err != nil {
		return entry.Entry{}, err
	}
	id, err := s.Ledger.Create(ctx, r)
	if err != nil {
		return entry.Entry{}, &ledger.CreateError{Record: r, Err: err}
	}
	return r.Entry(id), nil
}
