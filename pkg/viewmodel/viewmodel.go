// Package viewmodel holds the day-scoped, paginated calorie ledger view.
//
// The model is driven the Bubble Tea way: every operation that needs the
// ledger returns a tea.Cmd, and the message that command yields is fed back
// through Update. Responses are tagged with the (day, page) key active when
// the request was issued and dropped if the key has since changed, so a slow
// response can never overwrite the page the user navigated to.
package viewmodel

import (
	"context"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"tableflip.dev/caltrack/pkg/entry"
	"tableflip.dev/caltrack/pkg/ledger"
	"tableflip.dev/caltrack/pkg/logging"
	"tableflip.dev/caltrack/pkg/timeutil"
)

// DefaultGoal is the daily calorie goal the progress indicator measures
// against.
const DefaultGoal = 2000

const dayLayout = "2006-01-02"

// Key identifies one page of one day.
type Key struct {
	Day  time.Time
	Page int
}

// Equal compares keys by instant rather than by time.Time representation.
func (k Key) Equal(o Key) bool {
	return k.Page == o.Page && k.Day.Equal(o.Day)
}

// State is a snapshot of what the view displays.
type State struct {
	SelectedDay time.Time
	CurrentPage int
	Entries     []entry.Entry
	// TotalCalories sums Entries only: it is scoped to the visible page, not
	// the whole day.
	TotalCalories int
	// DayEntryCount is the number of entries the ledger reports for the day.
	DayEntryCount int
	Loaded        bool
}

// PageLoadedMsg carries the ledger's answer to a Refresh.
type PageLoadedMsg struct {
	Key    Key
	Query  ledger.Query
	Result ledger.Result
	Err    error
}

// EntryRecordedMsg carries the ledger's answer to RecordEntry.
type EntryRecordedMsg struct {
	ID     string
	Record ledger.Record
	Err    error
}

// Option customises a Model.
type Option func(*Model)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithPageSize sets the number of entries per page.
func WithPageSize(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.pageSize = n
		}
	}
}

// WithGoal sets the daily calorie goal.
func WithGoal(goal int) Option {
	return func(m *Model) {
		if goal > 0 {
			m.goal = goal
		}
	}
}

// WithLogger sets the sink for fetch and create failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Model) {
		if log != nil {
			m.log = log
		}
	}
}

// WithContext sets the context ledger calls run under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// WithDay selects the day Init starts on instead of today.
func WithDay(day time.Time) Option {
	return func(m *Model) {
		m.initialDay = day
	}
}

// Model is the ledger view state machine. It is not safe for concurrent use;
// Bubble Tea's event loop (or Drain) is its only caller.
type Model struct {
	svc ledger.Service
	ctx context.Context
	log logrus.FieldLogger
	now func() time.Time

	pageSize   int
	goal       int
	initialDay time.Time

	state   State
	lastErr error
}

// New builds a model reading from and writing to svc.
func New(svc ledger.Service, opts ...Option) *Model {
	m := &Model{
		svc:      svc,
		ctx:      context.Background(),
		log:      logging.Nop(),
		now:      time.Now,
		pageSize: ledger.DefaultPageSize,
		goal:     DefaultGoal,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.state.SelectedDay = m.today()
	m.state.CurrentPage = 1
	return m
}

// Init selects the starting day, resets to the first page and loads it.
func (m *Model) Init() tea.Cmd {
	day := m.today()
	if !m.initialDay.IsZero() {
		day = m.clampDay(m.initialDay)
	}
	return m.selectDay(day)
}

// Refresh requests the current page from the ledger.
func (m *Model) Refresh() tea.Cmd {
	key := m.Key()
	q := ledger.Build(timeutil.WindowFor(key.Day), key.Page, m.pageSize)
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		res, err := svc.Query(ctx, q)
		if err != nil {
			err = &ledger.FetchError{Query: q, Err: err}
		}
		return PageLoadedMsg{Key: key, Query: q, Result: res, Err: err}
	}
}

// Update applies ledger responses. It returns a follow-up command when one is
// needed (a refresh after a successful create).
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PageLoadedMsg:
		m.applyPage(msg)
	case EntryRecordedMsg:
		if msg.Err != nil {
			m.lastErr = msg.Err
			m.log.WithFields(logrus.Fields{
				"food":     msg.Record.Food,
				"calories": msg.Record.Calories,
			}).WithError(msg.Err).Error("record entry failed")
			return nil
		}
		m.log.WithField("id", msg.ID).Debug("entry recorded")
		return m.Refresh()
	}
	return nil
}

func (m *Model) applyPage(msg PageLoadedMsg) {
	fields := logrus.Fields{
		"day":  msg.Key.Day.Format(dayLayout),
		"page": msg.Key.Page,
	}
	if !msg.Key.Equal(m.Key()) {
		m.log.WithFields(fields).Debug("discarding stale page")
		return
	}
	if msg.Err != nil {
		m.lastErr = msg.Err
		m.log.WithFields(fields).WithError(msg.Err).Error("fetch page failed")
		return
	}
	entries := make([]entry.Entry, len(msg.Result.Entries))
	copy(entries, msg.Result.Entries)
	m.state.Entries = entries
	m.state.TotalCalories = entry.Sum(entries)
	m.state.DayEntryCount = msg.Result.Total
	m.state.Loaded = true
	m.lastErr = nil
}

// GoToPreviousDay moves one day back and loads its first page.
func (m *Model) GoToPreviousDay() tea.Cmd {
	return m.selectDay(timeutil.AddDays(m.state.SelectedDay, -1))
}

// GoToNextDay moves one day forward. It is a no-op returning nil when the
// selected day is already today.
func (m *Model) GoToNextDay() tea.Cmd {
	if !m.CanGoNext() {
		return nil
	}
	return m.selectDay(timeutil.AddDays(m.state.SelectedDay, 1))
}

// GoToToday jumps back to the current day.
func (m *Model) GoToToday() tea.Cmd {
	return m.selectDay(m.today())
}

// GoToDay jumps to the day containing t; future days clamp to today.
func (m *Model) GoToDay(t time.Time) tea.Cmd {
	return m.selectDay(m.clampDay(t))
}

// selectDay forgets the previous day's page so nothing about it is shown or
// used for paging until the new day loads.
func (m *Model) selectDay(day time.Time) tea.Cmd {
	m.state.SelectedDay = day
	m.state.CurrentPage = 1
	m.state.Entries = nil
	m.state.TotalCalories = 0
	m.state.DayEntryCount = 0
	m.state.Loaded = false
	return m.Refresh()
}

// SetPage moves to page n of the selected day. Pages start at 1; n < 1 is a
// no-op returning nil. Pages past the end simply load empty.
func (m *Model) SetPage(n int) tea.Cmd {
	if n < 1 {
		return nil
	}
	m.state.CurrentPage = n
	return m.Refresh()
}

// NextPage advances one page once the selected day has loaded and has
// further entries.
func (m *Model) NextPage() tea.Cmd {
	if !m.state.Loaded || m.state.CurrentPage >= m.PageCount() {
		return nil
	}
	return m.SetPage(m.state.CurrentPage + 1)
}

// PreviousPage goes back one page.
func (m *Model) PreviousPage() tea.Cmd {
	return m.SetPage(m.state.CurrentPage - 1)
}

// RecordEntry validates the input and returns the command creating the entry
// stamped with the current time. Validation failures are returned directly
// and nothing is sent to the ledger.
func (m *Model) RecordEntry(food string, calories int) (tea.Cmd, error) {
	if err := entry.ValidateFood(food); err != nil {
		return nil, err
	}
	rec := ledger.Record{
		Food:       strings.TrimSpace(food),
		Calories:   calories,
		RecordedAt: m.now(),
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		id, err := svc.Create(ctx, rec)
		if err != nil {
			err = &ledger.CreateError{Record: rec, Err: err}
		}
		return EntryRecordedMsg{ID: id, Record: rec, Err: err}
	}, nil
}

// Drain runs cmd and every follow-up command synchronously, feeding each
// message back through Update.
func (m *Model) Drain(cmd tea.Cmd) {
	for cmd != nil {
		cmd = m.Update(cmd())
	}
}

// State returns a copy of the current view state.
func (m *Model) State() State {
	s := m.state
	s.Entries = append([]entry.Entry(nil), m.state.Entries...)
	return s
}

// Key returns the (day, page) pair currently displayed.
func (m *Model) Key() Key {
	return Key{Day: m.state.SelectedDay, Page: m.state.CurrentPage}
}

// Err returns the last fetch or create failure, cleared by the next
// successful page load.
func (m *Model) Err() error {
	return m.lastErr
}

// CanGoNext reports whether the selected day is before today.
func (m *Model) CanGoNext() bool {
	return m.state.SelectedDay.Before(m.today())
}

// IsToday reports whether today is selected.
func (m *Model) IsToday() bool {
	return m.state.SelectedDay.Equal(m.today())
}

// Goal returns the daily calorie goal.
func (m *Model) Goal() int {
	return m.goal
}

// PageSize returns the number of entries per page.
func (m *Model) PageSize() int {
	return m.pageSize
}

// Progress is the page total over the goal, clamped to [0, 1].
func (m *Model) Progress() float64 {
	return Ratio(m.state.TotalCalories, m.goal)
}

// PageCount is the number of pages the loaded day spans, at least 1.
func (m *Model) PageCount() int {
	if m.state.DayEntryCount <= 0 {
		return 1
	}
	return int(math.Ceil(float64(m.state.DayEntryCount) / float64(m.pageSize)))
}

// Ratio returns current/goal clamped to [0, 1]; a non-positive goal yields 0.
func Ratio(current, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	r := float64(current) / float64(goal)
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}

func (m *Model) today() time.Time {
	return timeutil.StartOfDay(m.now())
}

func (m *Model) clampDay(t time.Time) time.Time {
	today := m.today()
	day := timeutil.StartOfDay(t.In(today.Location()))
	if day.After(today) {
		return today
	}
	return day
}
