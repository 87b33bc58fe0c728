// Package tui is the interactive calorie ledger: one day at a time, paged,
// with an overlay form for recording entries.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/progress"
	"github.com/charmbracelet/bubbles/v2/table"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"tableflip.dev/caltrack/pkg/logging"
	"tableflip.dev/caltrack/pkg/store"
	"tableflip.dev/caltrack/pkg/tui/overlay"
	"tableflip.dev/caltrack/pkg/tui/theme"
	"tableflip.dev/caltrack/pkg/viewmodel"
)

const (
	layoutHeader = "Monday, January 2, 2006"
	layoutDay    = "2006-01-02"

	helpLine = "h/l day · t today · [/] page · a add · q quit"
)

type watchStartedMsg struct{ events <-chan store.Event }

type storeEventMsg struct{ event store.Event }

type watchClosedMsg struct{ err error }

// Option customises the UI model.
type Option func(*Model)

// WithWatcher refreshes the view when the backend reports changes.
func WithWatcher(ctx context.Context, w store.Watcher) Option {
	return func(m *Model) {
		m.ctx = ctx
		m.watcher = w
	}
}

// WithLogger sets the logger for watcher diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Model) {
		if log != nil {
			m.log = log
		}
	}
}

// Model is the root Bubble Tea model.
type Model struct {
	vm    *viewmodel.Model
	form  *entryForm
	theme theme.Theme
	log   logrus.FieldLogger

	ctx     context.Context
	watcher store.Watcher
	events  <-chan store.Event

	table table.Model
	bar   progress.Model

	width  int
	height int
	status string
}

// New wraps a view model for display.
func New(vm *viewmodel.Model, opts ...Option) *Model {
	m := &Model{
		vm:    vm,
		form:  newEntryForm(),
		theme: theme.Default(),
		log:   logging.Nop(),
		ctx:   context.Background(),
		table: table.New(
			table.WithColumns(columns(80)),
			table.WithHeight(vm.PageSize()+1),
			table.WithFocused(false),
		),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		width:  80,
		height: 24,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run launches the program and blocks until the user quits.
func Run(vm *viewmodel.Model, opts ...Option) error {
	p := tea.NewProgram(New(vm, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func columns(width int) []table.Column {
	food := width - 20 - 10 - 8
	if food < 12 {
		food = 12
	}
	return []table.Column{
		{Title: "Recorded", Width: 20},
		{Title: "Food", Width: food},
		{Title: "Calories", Width: 10},
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.vm.Init(), m.startWatch())
}

func (m *Model) startWatch() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	w, ctx := m.watcher, m.ctx
	return func() tea.Msg {
		ch, err := w.Watch(ctx)
		if err != nil {
			return watchClosedMsg{err: err}
		}
		return watchStartedMsg{events: ch}
	}
}

func waitForEvent(ch <-chan store.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return storeEventMsg{event: ev}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetColumns(columns(msg.Width))
		m.bar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(clamp(msg.Width/2, 10, 60)))
		return m, nil

	case viewmodel.PageLoadedMsg, viewmodel.EntryRecordedMsg:
		cmd := m.vm.Update(msg)
		m.syncTable()
		if rec, ok := msg.(viewmodel.EntryRecordedMsg); ok && rec.Err == nil {
			m.status = fmt.Sprintf("recorded %s (%d kcal)", rec.Record.Food, rec.Record.Calories)
		}
		return m, cmd

	case watchStartedMsg:
		m.events = msg.events
		return m, waitForEvent(msg.events)

	case storeEventMsg:
		var cmd tea.Cmd
		if m.affectsView(msg.event) {
			cmd = m.vm.Refresh()
		}
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case watchClosedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("tui: watch stopped")
		}
		m.events = nil
		return m, nil

	case tea.KeyPressMsg:
		if m.form.isOpen() {
			return m, m.handleFormKey(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) affectsView(ev store.Event) bool {
	if ev.Type == store.EventInvalidated {
		return true
	}
	return ev.Day == m.vm.State().SelectedDay.Format(layoutDay)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "h", "left":
		return m.vm.GoToPreviousDay()
	case "l", "right":
		return m.vm.GoToNextDay()
	case "t":
		return m.vm.GoToToday()
	case "]", "pgdown":
		return m.vm.NextPage()
	case "[", "pgup":
		return m.vm.PreviousPage()
	case "r":
		return m.vm.Refresh()
	case "a":
		m.status = ""
		return m.form.open()
	}
	return nil
}

func (m *Model) handleFormKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	sub, cmd := m.form.handleKey(msg)
	if sub == nil {
		return cmd
	}
	record, err := m.vm.RecordEntry(sub.Food, sub.Calories)
	if err != nil {
		m.status = err.Error()
		return cmd
	}
	return tea.Batch(cmd, record)
}

func (m *Model) syncTable() {
	st := m.vm.State()
	rows := make([]table.Row, 0, len(st.Entries))
	for i := range st.Entries {
		at, food, calories := st.Entries[i].Row()
		rows = append(rows, table.Row{at, food, calories})
	}
	m.table.SetRows(rows)
}

// View implements tea.Model.
func (m *Model) View() string {
	base := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		m.renderBody(),
		"",
		m.renderProgress(),
		"",
		m.renderFooter(),
	)
	if !m.form.isOpen() {
		return base
	}
	return overlay.Compose(base, m.width, m.height, m.form.view(m.theme.Modal, m.width))
}

func (m *Model) renderHeader() string {
	st := m.vm.State()
	th := m.theme.Header
	day := th.Day.Render(st.SelectedDay.Format(layoutHeader))
	if m.vm.IsToday() {
		day += " " + th.Today.Render("(today)")
	}
	pages := m.vm.PageCount()
	if pages < 1 {
		pages = 1
	}
	meta := th.Subtle.Render(fmt.Sprintf("page %d/%d · %d %s", st.CurrentPage, pages, st.DayEntryCount, plural(st.DayEntryCount)))
	return day + "  " + meta
}

func (m *Model) renderBody() string {
	st := m.vm.State()
	if !st.Loaded {
		return m.theme.Header.Subtle.Render("loading…")
	}
	if len(st.Entries) == 0 {
		return m.theme.Header.Subtle.Render("nothing recorded")
	}
	return m.table.View()
}

func (m *Model) renderProgress() string {
	st := m.vm.State()
	label := m.theme.Header.Calories.Render(fmt.Sprintf("%d / %d kcal", st.TotalCalories, m.vm.Goal()))
	return m.bar.ViewAs(m.vm.Progress()) + "  " + label
}

func (m *Model) renderFooter() string {
	th := m.theme.Footer
	if err := m.vm.Err(); err != nil {
		return th.Error.Render("error: " + err.Error())
	}
	parts := []string{th.Help.Render(helpLine)}
	if m.status != "" {
		parts = append([]string{th.Status.Render(m.status)}, parts...)
	}
	return strings.Join(parts, "  ")
}

func plural(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
