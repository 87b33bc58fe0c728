package entry

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports input rejected before any ledger call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ValidateFood rejects blank labels.
func ValidateFood(food string) error {
	if strings.TrimSpace(food) == "" {
		return &ValidationError{Field: "food", Reason: "is required"}
	}
	return nil
}

// ParseCalories converts user input into a calorie count. Empty or
// non-numeric input is a validation error; the sign is not checked.
func ParseCalories(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{Field: "calories", Reason: "is required"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: "calories", Reason: "must be a whole number"}
	}
	return n, nil
}
