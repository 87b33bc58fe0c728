package options

import (
	"testing"
	"time"
)

func TestGetOnParsesLocalDates(t *testing.T) {
	o := &OnOptions{OnString: "2024-3-10"}
	got, err := o.GetOn()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Location() != time.Local || got.Day() != 10 || got.Month() != time.March || got.Hour() != 0 {
		t.Fatalf("expected local midnight of March 10, got %v", got)
	}
}

func TestGetOnShortFormStaysInThePast(t *testing.T) {
	now := time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local)
	o := &OnOptions{OnString: "12/30", Now: func() time.Time { return now }}
	got, err := o.GetOn()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Year() != 2023 {
		t.Fatalf("expected last year, got %v", got)
	}

	o.OnString = "1/2"
	if got, _ = o.GetOn(); got.Year() != 2024 {
		t.Fatalf("expected this year, got %v", got)
	}
}

func TestGetOnEmptyAndInvalid(t *testing.T) {
	if got, err := (&OnOptions{}).GetOn(); got != nil || err != nil {
		t.Fatalf("expected nil for empty flag")
	}
	if _, err := (&OnOptions{OnString: "tomorrow"}).GetOn(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestPageValidate(t *testing.T) {
	if err := (&PageOptions{Page: 0}).Validate(); err == nil {
		t.Fatalf("expected error for page 0")
	}
	if err := (&PageOptions{Page: 2}).Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestGetCalories(t *testing.T) {
	if n, err := (&CaloriesOptions{Calories: "250"}).GetCalories(); err != nil || n != 250 {
		t.Fatalf("expected 250, got %d %v", n, err)
	}
	if _, err := (&CaloriesOptions{}).GetCalories(); err == nil {
		t.Fatalf("expected required error")
	}
}
