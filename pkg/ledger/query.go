// Package ledger defines the contract between the calorie views and the
// document store holding entries: the page query, the Service interface and
// the errors a Service reports.
package ledger

import (
	"sort"
	"time"

	"tableflip.dev/caltrack/pkg/entry"
	"tableflip.dev/caltrack/pkg/timeutil"
)

// DefaultPageSize is the number of entries shown per page.
const DefaultPageSize = 10

// FieldRecordedAt is the only field queries filter or order on.
const FieldRecordedAt = "recordedAt"

// Op is a comparison operator understood by every backend.
type Op string

const (
	OpGTE Op = "gte"
	OpLT  Op = "lt"
)

// Filter compares a timestamp field against Value.
type Filter struct {
	Field string
	Op    Op
	Value time.Time
}

// Order requests a sort on a field.
type Order struct {
	Field      string
	Descending bool
}

// Query is a backend-neutral filter/sort/limit/offset request.
type Query struct {
	Filters []Filter
	OrderBy []Order
	Limit   int
	Offset  int
}

// Build derives the query for one page of one day. Pages are 1-based; a page
// below 1 is treated as the first page and a non-positive size falls back to
// DefaultPageSize.
func Build(w timeutil.Window, page, pageSize int) Query {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return Query{
		Filters: []Filter{
			{Field: FieldRecordedAt, Op: OpGTE, Value: w.Start},
			{Field: FieldRecordedAt, Op: OpLT, Value: w.End},
		},
		OrderBy: []Order{{Field: FieldRecordedAt}},
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
	}
}

// Match reports whether e satisfies every filter.
func (q Query) Match(e entry.Entry) bool {
	for _, f := range q.Filters {
		if f.Field != FieldRecordedAt {
			continue
		}
		at := e.RecordedAt.Time
		switch f.Op {
		case OpGTE:
			if at.Before(f.Value) {
				return false
			}
		case OpLT:
			if !at.Before(f.Value) {
				return false
			}
		}
	}
	return true
}

// Apply evaluates the query in process: filter, order (recordedAt then ID so
// pagination is deterministic), count and slice.
func (q Query) Apply(all []entry.Entry) Result {
	matched := make([]entry.Entry, 0, len(all))
	for _, e := range all {
		if q.Match(e) {
			matched = append(matched, e)
		}
	}

	descending := false
	for _, o := range q.OrderBy {
		if o.Field == FieldRecordedAt {
			descending = o.Descending
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		li, lj := matched[i].RecordedAt.Time, matched[j].RecordedAt.Time
		if li.Equal(lj) {
			return matched[i].ID < matched[j].ID
		}
		if descending {
			return li.After(lj)
		}
		return li.Before(lj)
	})

	result := Result{Total: len(matched)}
	if q.Offset >= len(matched) {
		result.Entries = []entry.Entry{}
		return result
	}
	end := len(matched)
	if q.Limit > 0 && q.Offset+q.Limit < end {
		end = q.Offset + q.Limit
	}
	result.Entries = matched[q.Offset:end]
	return result
}
