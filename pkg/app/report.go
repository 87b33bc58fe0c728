package app

import (
	"context"
	"time"

	"tableflip.dev/caltrack/pkg/entry"
	"tableflip.dev/caltrack/pkg/ledger"
	"tableflip.dev/caltrack/pkg/timeutil"
)

// reportPageSize is how many entries Report fetches per round trip.
const reportPageSize = 100

// DayTotal sums one local calendar day.
type DayTotal struct {
	Day      time.Time     `json:"day"`
	Entries  []entry.Entry `json:"entries"`
	Calories int           `json:"calories"`
}

// ReportResult encapsulates per-day totals for a time window.
type ReportResult struct {
	Since time.Time  `json:"since"`
	Until time.Time  `json:"until"`
	Days  []DayTotal `json:"days"`
	Total int        `json:"total"`
	Goal  int        `json:"goal,omitempty"`
}

// Average is the mean calories per day in the window.
func (r ReportResult) Average() int {
	if len(r.Days) == 0 {
		return 0
	}
	return r.Total / len(r.Days)
}

// Report returns one DayTotal for every local day touched by [since, until],
// including days with nothing recorded.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if s.Ledger == nil {
		return ReportResult{}, errNoLedger
	}
	if since.After(until) {
		since, until = until, since
	}

	result := ReportResult{Since: since, Until: until, Goal: s.Goal}
	for _, day := range timeutil.Days(since, until) {
		entries, err := s.dayEntries(ctx, day)
		if err != nil {
			return ReportResult{}, err
		}
		total := DayTotal{Day: day, Entries: entries, Calories: entry.Sum(entries)}
		result.Days = append(result.Days, total)
		result.Total += total.Calories
	}
	return result, nil
}

func (s *Service) dayEntries(ctx context.Context, day time.Time) ([]entry.Entry, error) {
	w := timeutil.WindowFor(day)
	entries := make([]entry.Entry, 0)
	for page := 1; ; page++ {
		q := ledger.Build(w, page, reportPageSize)
		res, err := s.Ledger.Query(ctx, q)
		if err != nil {
			return nil, &ledger.FetchError{Query: q, Err: err}
		}
		entries = append(entries, res.Entries...)
		if len(res.Entries) == 0 || len(entries) >= res.Total {
			return entries, nil
		}
	}
}
