package ledger

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tableflip.dev/caltrack/pkg/entry"
)

// Service is the document store behind the ledger. Implementations assign
// entry IDs; callers never generate them.
type Service interface {
	Create(ctx context.Context, r Record) (string, error)
	Query(ctx context.Context, q Query) (Result, error)
}

// Record is the payload of a create request.
type Record struct {
	Food       string    `json:"food" validate:"required"`
	Calories   int       `json:"calories"`
	RecordedAt time.Time `json:"recordedAt" validate:"required"`
}

// Result is one page of entries plus the number of entries matching the
// filters across all pages.
type Result struct {
	Entries []entry.Entry `json:"entries"`
	Total   int           `json:"total"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a record before it is sent to a backend.
func (r Record) Validate() error {
	if err := entry.ValidateFood(r.Food); err != nil {
		return err
	}
	if err := validate.Struct(r); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return &entry.ValidationError{Field: errs[0].Field(), Reason: "is required"}
		}
		return err
	}
	return nil
}

// Entry converts the record into a stored entry with the given id.
func (r Record) Entry(id string) entry.Entry {
	return entry.Entry{
		ID:         id,
		Food:       r.Food,
		Calories:   r.Calories,
		RecordedAt: entry.Timestamp{Time: r.RecordedAt},
	}
}
