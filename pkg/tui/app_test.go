package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/caltrack/pkg/entry"
	"tableflip.dev/caltrack/pkg/ledger"
	"tableflip.dev/caltrack/pkg/logging"
	"tableflip.dev/caltrack/pkg/store"
	"tableflip.dev/caltrack/pkg/viewmodel"
)

var now = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

func stripANSIString(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func newTestModel(t *testing.T, seed ...entry.Entry) (*Model, *ledger.Memory) {
	t.Helper()
	mem := ledger.NewMemory(seed...)
	vm := viewmodel.New(mem,
		viewmodel.WithClock(func() time.Time { return now }),
		viewmodel.WithLogger(logging.Nop()),
	)
	m := New(vm)
	m = drainCommands(t, m, m.Init())
	return m, mem
}

// drainCommands feeds ledger results back into the model. Other messages,
// such as cursor blinks, are not part of these tests and are dropped.
func drainCommands(t *testing.T, m *Model, cmds ...tea.Cmd) *Model {
	t.Helper()
	queue := append([]tea.Cmd(nil), cmds...)
	for len(queue) > 0 {
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		msg := runCmd(cmd)
		switch v := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, []tea.Cmd(v)...)
		case viewmodel.PageLoadedMsg, viewmodel.EntryRecordedMsg:
			next, nextCmd := m.Update(v)
			m = assertModel(t, next)
			queue = append(queue, nextCmd)
		}
	}
	return m
}

func runCmd(cmd tea.Cmd) tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case msg := <-out:
		return msg
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func assertModel(t *testing.T, model tea.Model) *Model {
	t.Helper()
	m, ok := model.(*Model)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return m
}

func press(t *testing.T, m *Model, keys ...tea.KeyPressMsg) *Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(k)
		m = drainCommands(t, assertModel(t, next), cmd)
	}
	return m
}

func runeKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func typeText(t *testing.T, m *Model, s string) *Model {
	t.Helper()
	for _, r := range s {
		m = press(t, m, runeKey(r))
	}
	return m
}

func TestDayNavigationKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, runeKey('h'))
	if got := m.vm.State().SelectedDay.Day(); got != 9 {
		t.Fatalf("expected previous day, got %d", got)
	}
	m = press(t, m, runeKey('l'))
	if !m.vm.IsToday() {
		t.Fatalf("expected to be back on today")
	}

	next, cmd := m.Update(runeKey('l'))
	if cmd != nil {
		t.Fatalf("next day from today should issue nothing")
	}
	m = assertModel(t, next)

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyLeft}, tea.KeyPressMsg{Code: tea.KeyLeft}, runeKey('t'))
	if !m.vm.IsToday() {
		t.Fatalf("expected today after pressing t")
	}
}

func TestAddEntryThroughForm(t *testing.T) {
	m, mem := newTestModel(t, *entry.New("Oats", 300, now.Add(-4*time.Hour)))

	m = press(t, m, runeKey('a'))
	if !m.form.isOpen() {
		t.Fatalf("expected form to open")
	}
	m = typeText(t, m, "Apple")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = typeText(t, m, "95")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if m.form.isOpen() {
		t.Fatalf("expected form to close after submit")
	}
	if mem.Len() != 2 {
		t.Fatalf("expected entry to be stored, have %d", mem.Len())
	}
	st := m.vm.State()
	if st.TotalCalories != 395 || len(st.Entries) != 2 {
		t.Fatalf("expected refreshed page with both entries, got %+v", st)
	}
	view := stripANSIString(m.View())
	if !strings.Contains(view, "Apple") || !strings.Contains(view, "395 / 2000 kcal") {
		t.Fatalf("expected view to show the new entry:\n%s", view)
	}
}

func TestFormRejectsIncompleteDraft(t *testing.T) {
	m, mem := newTestModel(t)

	m = press(t, m, runeKey('a'))
	m = typeText(t, m, "Apple")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if !m.form.isOpen() {
		t.Fatalf("form must stay open without calories")
	}
	if !strings.Contains(stripANSIString(m.View()), "calories is required") {
		t.Fatalf("expected calories error in the form")
	}

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.form.isOpen() {
		t.Fatalf("escape should close the form")
	}
	if mem.Len() != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestStoreEventRefreshesSelectedDay(t *testing.T) {
	m, mem := newTestModel(t)
	if _, err := mem.Create(context.Background(), ledger.Record{Food: "Tea", Calories: 5, RecordedAt: now}); err != nil {
		t.Fatalf("create: %v", err)
	}

	events := make(chan store.Event, 1)
	next, _ := m.Update(watchStartedMsg{events: events})
	m = assertModel(t, next)

	next, cmd := m.Update(storeEventMsg{event: store.Event{Type: store.EventLedgerChanged, Day: "2024-03-09"}})
	m = drainCommands(t, assertModel(t, next), cmd)
	if len(m.vm.State().Entries) != 0 {
		t.Fatalf("changes on another day should not refresh")
	}

	next, cmd = m.Update(storeEventMsg{event: store.Event{Type: store.EventLedgerChanged, Day: "2024-03-10"}})
	m = drainCommands(t, assertModel(t, next), cmd)
	if len(m.vm.State().Entries) != 1 {
		t.Fatalf("expected refresh to pick up the new entry")
	}
}

func TestViewShowsHeaderAndEmptyState(t *testing.T) {
	m, _ := newTestModel(t)
	view := stripANSIString(m.View())
	for _, want := range []string{"Sunday, March 10, 2024", "(today)", "page 1/1", "nothing recorded", "0 / 2000 kcal"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}
