package timeutil

import "time"

// Window is a half-open [Start, End) range covering one calendar day.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowFor returns the calendar day containing t, evaluated in t's location.
// End is midnight of the following date, so days shortened or lengthened by a
// DST transition keep their real length.
func WindowFor(t time.Time) Window {
	start := StartOfDay(t)
	return Window{
		Start: start,
		End:   time.Date(start.Year(), start.Month(), start.Day()+1, 0, 0, 0, 0, start.Location()),
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves a day by n calendar days and returns its midnight.
func AddDays(day time.Time, n int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, day.Location())
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Duration is the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Days lists the midnights of every calendar day from since through until,
// inclusive, in since's location.
func Days(since, until time.Time) []time.Time {
	if until.Before(since) {
		since, until = until, since
	}
	first := StartOfDay(since)
	last := StartOfDay(until.In(since.Location()))
	var days []time.Time
	for d := first; !d.After(last); d = AddDays(d, 1) {
		days = append(days, d)
	}
	return days
}
