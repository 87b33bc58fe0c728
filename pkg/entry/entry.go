// Package entry defines the calorie ledger entry and its wire encoding.
package entry

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one food item recorded in the ledger.
type Entry struct {
	ID         string    `json:"id,omitempty"`
	Food       string    `json:"food"`
	Calories   int       `json:"calories"`
	RecordedAt Timestamp `json:"recordedAt"`
}

// New builds an entry recorded at the provided instant. The ID is left empty;
// it is assigned by whichever ledger stores the entry.
func New(food string, calories int, at time.Time) *Entry {
	return &Entry{
		Food:       strings.TrimSpace(food),
		Calories:   calories,
		RecordedAt: Timestamp{Time: at},
	}
}

// Day returns the local calendar date the entry belongs to.
func (e *Entry) Day() string {
	return e.RecordedAt.Local().Format(layoutISO)
}

// Row returns the display columns used by table printers.
func (e *Entry) Row() (string, string, string) {
	return e.RecordedAt.Local().Format(layoutRow), e.Food, fmt.Sprintf("%d", e.Calories)
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s  %s (%d kcal)", e.RecordedAt.Local().Format(layoutRow), e.Food, e.Calories)
}

// Sum totals the calories of the provided entries.
func Sum(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Calories
	}
	return total
}

const (
	layoutISO = "2006-01-02"
	layoutRow = "Jan 2, 2006 15:04"
)
