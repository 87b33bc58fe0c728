package ledger

import "fmt"

// FetchError wraps a failed page query.
type FetchError struct {
	Query Query
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("ledger: fetch page (offset %d, limit %d): %v", e.Query.Offset, e.Query.Limit, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CreateError wraps a failed create request.
type CreateError struct {
	Record Record
	Err    error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("ledger: create %q: %v", e.Record.Food, e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }
