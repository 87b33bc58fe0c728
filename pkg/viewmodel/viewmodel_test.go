package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"tableflip.dev/caltrack/pkg/entry"
	"tableflip.dev/caltrack/pkg/ledger"
)

var (
	testLoc = time.FixedZone("test", 2*60*60)
	testNow = time.Date(2024, time.March, 10, 14, 30, 0, 0, testLoc)
)

func clock() time.Time { return testNow }

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, testLoc)
}

// countingLedger wraps ledger.Memory and records every call.
type countingLedger struct {
	*ledger.Memory

	mu        sync.Mutex
	queries   []ledger.Query
	creates   int
	queryErr  error
	createErr error
}

func newCountingLedger(seed ...entry.Entry) *countingLedger {
	return &countingLedger{Memory: ledger.NewMemory(seed...)}
}

func (c *countingLedger) Query(ctx context.Context, q ledger.Query) (ledger.Result, error) {
	c.mu.Lock()
	c.queries = append(c.queries, q)
	err := c.queryErr
	c.mu.Unlock()
	if err != nil {
		return ledger.Result{}, err
	}
	return c.Memory.Query(ctx, q)
}

func (c *countingLedger) Create(ctx context.Context, r ledger.Record) (string, error) {
	c.mu.Lock()
	c.creates++
	err := c.createErr
	c.mu.Unlock()
	if err != nil {
		return "", err
	}
	return c.Memory.Create(ctx, r)
}

func (c *countingLedger) queryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queries)
}

func seedDay(d, n, calories int) []entry.Entry {
	out := make([]entry.Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, entry.Entry{
			Food:       fmt.Sprintf("day%d-%02d", d, i),
			Calories:   calories,
			RecordedAt: entry.Timestamp{Time: day(d).Add(time.Duration(i+1) * time.Minute)},
		})
	}
	return out
}

func TestInitLoadsToday(t *testing.T) {
	svc := newCountingLedger(append(seedDay(10, 2, 100), seedDay(9, 3, 50)...)...)
	m := New(svc, WithClock(clock))
	m.Drain(m.Init())

	s := m.State()
	if !s.SelectedDay.Equal(day(10)) {
		t.Fatalf("expected today selected, got %v", s.SelectedDay)
	}
	if s.CurrentPage != 1 {
		t.Fatalf("expected page 1, got %d", s.CurrentPage)
	}
	if len(s.Entries) != 2 || s.TotalCalories != 200 {
		t.Fatalf("unexpected page: %d entries, total %d", len(s.Entries), s.TotalCalories)
	}
	if !s.Loaded {
		t.Fatalf("expected loaded state")
	}
}

func TestNavigationResetsPage(t *testing.T) {
	svc := newCountingLedger(append(seedDay(9, 25, 10), seedDay(8, 25, 10)...)...)
	m := New(svc, WithClock(clock))
	m.Drain(m.Init())
	m.Drain(m.GoToPreviousDay())

	m.Drain(m.SetPage(3))
	if got := m.State().CurrentPage; got != 3 {
		t.Fatalf("expected page 3, got %d", got)
	}
	m.Drain(m.GoToPreviousDay())
	if got := m.State(); got.CurrentPage != 1 || !got.SelectedDay.Equal(day(8)) {
		t.Fatalf("expected day 8 page 1, got %v page %d", got.SelectedDay, got.CurrentPage)
	}

	m.Drain(m.SetPage(2))
	m.Drain(m.GoToNextDay())
	if got := m.State(); got.CurrentPage != 1 || !got.SelectedDay.Equal(day(9)) {
		t.Fatalf("expected day 9 page 1, got %v page %d", got.SelectedDay, got.CurrentPage)
	}
}

func TestNextDayGuardOnToday(t *testing.T) {
	svc := newCountingLedger()
	m := New(svc, WithClock(clock))
	m.Drain(m.Init())
	before := m.State()
	issued := svc.queryCount()

	if cmd := m.GoToNextDay(); cmd != nil {
		t.Fatalf("expected no command when today is selected")
	}
	if svc.queryCount() != issued {
		t.Fatalf("expected no query issued")
	}
	after := m.State()
	if !after.SelectedDay.Equal(before.SelectedDay) || after.CurrentPage != before.CurrentPage {
		t.Fatalf("state changed: %+v -> %+v", before, after)
	}
	if m.CanGoNext() {
		t.Fatalf("CanGoNext should be false on today")
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	svc := newCountingLedger(append(seedDay(10, 2, 100), seedDay(9, 1, 700)...)...)
	m := New(svc, WithClock(clock))

	pendingA := m.Init()
	pendingB := m.GoToPreviousDay()

	// A resolves first but after the user already moved to B.
	if cmd := m.Update(pendingA()); cmd != nil {
		t.Fatalf("stale page should not trigger follow-ups")
	}
	if s := m.State(); s.Loaded || len(s.Entries) != 0 {
		t.Fatalf("stale response applied: %+v", s)
	}

	m.Update(pendingB())
	s := m.State()
	if len(s.Entries) != 1 || s.Entries[0].Food != "day9-00" || s.TotalCalories != 700 {
		t.Fatalf("expected day 9 entries, got %+v", s.Entries)
	}
}

func TestStaleResponseArrivingLastIsDiscarded(t *testing.T) {
	svc := newCountingLedger(append(seedDay(10, 2, 100), seedDay(9, 1, 700)...)...)
	m := New(svc, WithClock(clock))

	pendingA := m.Init()
	pendingB := m.GoToPreviousDay()
	msgA := pendingA()

	m.Update(pendingB())
	m.Update(msgA)

	s := m.State()
	if len(s.Entries) != 1 || s.Entries[0].Food != "day9-00" {
		t.Fatalf("day 10 response overwrote day 9: %+v", s.Entries)
	}
}

func TestPageScopedTotal(t *testing.T) {
	seed := []entry.Entry{
		{Food: "a", Calories: 300, RecordedAt: entry.Timestamp{Time: day(10).Add(time.Hour)}},
		{Food: "b", Calories: 450, RecordedAt: entry.Timestamp{Time: day(10).Add(2 * time.Hour)}},
		{Food: "c", Calories: 999, RecordedAt: entry.Timestamp{Time: day(10).Add(3 * time.Hour)}},
		{Food: "other day", Calories: 5000, RecordedAt: entry.Timestamp{Time: day(9).Add(time.Hour)}},
	}
	m := New(newCountingLedger(seed...), WithClock(clock), WithPageSize(2))
	m.Drain(m.Init())

	s := m.State()
	if s.TotalCalories != 750 {
		t.Fatalf("expected 750, got %d", s.TotalCalories)
	}
	if s.DayEntryCount != 3 || m.PageCount() != 2 {
		t.Fatalf("expected 3 entries over 2 pages, got %d over %d", s.DayEntryCount, m.PageCount())
	}

	m.Drain(m.NextPage())
	if got := m.State().TotalCalories; got != 999 {
		t.Fatalf("expected second page total 999, got %d", got)
	}
	if cmd := m.NextPage(); cmd != nil {
		t.Fatalf("expected no page past the loaded day")
	}
}

func TestSetPageRejectsBelowOne(t *testing.T) {
	m := New(newCountingLedger(), WithClock(clock))
	m.Drain(m.Init())
	if cmd := m.SetPage(0); cmd != nil {
		t.Fatalf("expected nil command for page 0")
	}
	if cmd := m.PreviousPage(); cmd != nil {
		t.Fatalf("expected nil command before page 1")
	}
}

func TestOutOfRangePageIsEmpty(t *testing.T) {
	m := New(newCountingLedger(seedDay(10, 3, 10)...), WithClock(clock))
	m.Drain(m.Init())
	m.Drain(m.SetPage(7))
	s := m.State()
	if s.CurrentPage != 7 || len(s.Entries) != 0 || s.TotalCalories != 0 {
		t.Fatalf("expected empty page 7, got %+v", s)
	}
}

func TestRecordEntryRoundTrip(t *testing.T) {
	svc := newCountingLedger()
	m := New(svc, WithClock(clock))
	m.Drain(m.Init())

	cmd, err := m.RecordEntry("Toast", 200)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	m.Drain(cmd)

	s := m.State()
	if len(s.Entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(s.Entries))
	}
	got := s.Entries[0]
	if got.Food != "Toast" || got.Calories != 200 {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if !got.RecordedAt.Equal(testNow) {
		t.Fatalf("expected recordedAt %v, got %v", testNow, got.RecordedAt.Time)
	}
	if got.ID == "" {
		t.Fatalf("expected ledger-assigned id")
	}
}

func TestRecordEntryOnOtherDayDoesNotAppear(t *testing.T) {
	svc := newCountingLedger()
	m := New(svc, WithClock(clock))
	m.Drain(m.Init())
	m.Drain(m.GoToPreviousDay())

	cmd, err := m.RecordEntry("Late snack", 300)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	m.Drain(cmd)
	if s := m.State(); len(s.Entries) != 0 || s.TotalCalories != 0 {
		t.Fatalf("entry for today should not appear on yesterday: %+v", s)
	}
	if svc.Len() != 1 {
		t.Fatalf("expected entry stored")
	}
}

func TestRecordEntryValidation(t *testing.T) {
	svc := newCountingLedger()
	m := New(svc, WithClock(clock))
	cmd, err := m.RecordEntry("   ", 100)
	if cmd != nil {
		t.Fatalf("expected no command")
	}
	var ve *entry.ValidationError
	if !errors.As(err, &ve) || ve.Field != "food" {
		t.Fatalf("expected food validation error, got %v", err)
	}
	if svc.creates != 0 {
		t.Fatalf("expected no create call")
	}
}

func TestFetchFailureKeepsStateAndLogs(t *testing.T) {
	svc := newCountingLedger(seedDay(10, 2, 100)...)
	logger, hook := logtest.NewNullLogger()
	m := New(svc, WithClock(clock), WithLogger(logger))
	m.Drain(m.Init())
	before := m.State()

	svc.queryErr = errors.New("network down")
	m.Drain(m.Refresh())

	after := m.State()
	if len(after.Entries) != len(before.Entries) || after.TotalCalories != before.TotalCalories {
		t.Fatalf("state changed on fetch failure: %+v -> %+v", before, after)
	}
	var fe *ledger.FetchError
	if !errors.As(m.Err(), &fe) {
		t.Fatalf("expected FetchError, got %v", m.Err())
	}
	last := hook.LastEntry()
	if last == nil || last.Level != logrus.ErrorLevel || last.Message != "fetch page failed" {
		t.Fatalf("expected fetch failure logged, got %+v", last)
	}
	if last.Data["day"] != "2024-03-10" {
		t.Fatalf("expected day field, got %v", last.Data)
	}

	svc.queryErr = nil
	m.Drain(m.Refresh())
	if m.Err() != nil {
		t.Fatalf("expected error cleared after successful load")
	}
}

func TestCreateFailureIsLoggedWithoutRefresh(t *testing.T) {
	svc := newCountingLedger()
	logger, hook := logtest.NewNullLogger()
	m := New(svc, WithClock(clock), WithLogger(logger))
	m.Drain(m.Init())
	issued := svc.queryCount()

	svc.createErr = errors.New("quota exceeded")
	cmd, err := m.RecordEntry("Apple", 95)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	msg := cmd()
	if follow := m.Update(msg); follow != nil {
		t.Fatalf("expected no refresh after failed create")
	}
	if svc.queryCount() != issued {
		t.Fatalf("expected no query after failed create")
	}
	var ce *ledger.CreateError
	if !errors.As(m.Err(), &ce) || ce.Record.Food != "Apple" {
		t.Fatalf("expected CreateError, got %v", m.Err())
	}
	if hook.LastEntry() == nil || hook.LastEntry().Message != "record entry failed" {
		t.Fatalf("expected create failure logged")
	}
}

func TestWithDayClampsFuture(t *testing.T) {
	m := New(newCountingLedger(), WithClock(clock), WithDay(day(20)))
	m.Drain(m.Init())
	if !m.State().SelectedDay.Equal(day(10)) {
		t.Fatalf("expected future day clamped to today, got %v", m.State().SelectedDay)
	}

	m = New(newCountingLedger(), WithClock(clock), WithDay(day(3).Add(5*time.Hour)))
	m.Drain(m.Init())
	if !m.State().SelectedDay.Equal(day(3)) {
		t.Fatalf("expected day 3, got %v", m.State().SelectedDay)
	}
	if !m.CanGoNext() {
		t.Fatalf("expected next day available from a past day")
	}
	m.Drain(m.GoToToday())
	if !m.IsToday() {
		t.Fatalf("expected today after GoToToday")
	}
}

func TestProgressClamps(t *testing.T) {
	if Ratio(3000, 2000) != 1 {
		t.Fatalf("expected clamp to 1")
	}
	if Ratio(500, 2000) != 0.25 {
		t.Fatalf("expected 0.25")
	}
	if Ratio(-10, 2000) != 0 || Ratio(10, 0) != 0 {
		t.Fatalf("expected clamp to 0")
	}
	m := New(newCountingLedger(seedDay(10, 3, 1000)...), WithClock(clock))
	m.Drain(m.Init())
	if m.Progress() != 1 || m.Goal() != DefaultGoal {
		t.Fatalf("expected full progress against default goal, got %v of %d", m.Progress(), m.Goal())
	}
}

func TestUpdateIgnoresUnknownMessages(t *testing.T) {
	m := New(newCountingLedger(), WithClock(clock))
	if cmd := m.Update(tea.WindowSizeMsg{Width: 10, Height: 10}); cmd != nil {
		t.Fatalf("expected nil command for unrelated message")
	}
}

func TestDayChangeForgetsPreviousPage(t *testing.T) {
	seed := append(seedDay(9, 25, 10), seedDay(8, 5, 10)...)
	m := New(newCountingLedger(seed...), WithClock(clock))
	m.Drain(m.Init())
	m.Drain(m.GoToPreviousDay())
	if s := m.State(); s.DayEntryCount != 25 || m.PageCount() != 3 {
		t.Fatalf("expected day 9 with 3 pages, got %d entries over %d", s.DayEntryCount, m.PageCount())
	}

	pending := m.GoToPreviousDay()
	s := m.State()
	if s.Loaded || s.DayEntryCount != 0 || s.TotalCalories != 0 || len(s.Entries) != 0 {
		t.Fatalf("expected day 9 state cleared before day 8 loads, got %+v", s)
	}
	if cmd := m.NextPage(); cmd != nil {
		t.Fatalf("expected no paging before the new day loads")
	}

	m.Drain(pending)
	s = m.State()
	if !s.Loaded || s.DayEntryCount != 5 || m.PageCount() != 1 {
		t.Fatalf("expected day 8 with 1 page, got %d entries over %d", s.DayEntryCount, m.PageCount())
	}
	if cmd := m.NextPage(); cmd != nil {
		t.Fatalf("expected no page past day 8")
	}
}
