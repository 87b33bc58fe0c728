package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/caltrack/pkg/entry"
	"tableflip.dev/caltrack/pkg/modal"
	"tableflip.dev/caltrack/pkg/tui/theme"
)

type formField int

const (
	fieldFood formField = iota
	fieldCalories
)

// entryForm renders the add-entry overlay. modal.Machine owns the draft; the
// text inputs only mirror keystrokes into it.
type entryForm struct {
	machine  *modal.Machine
	food     textinput.Model
	calories textinput.Model
	focus    formField
	errMsg   string
}

func newEntryForm() *entryForm {
	food := textinput.New()
	food.Placeholder = "What did you eat?"
	food.Prompt = ""
	food.CharLimit = 120

	calories := textinput.New()
	calories.Placeholder = "kcal"
	calories.Prompt = ""
	calories.CharLimit = 7

	return &entryForm{machine: modal.New(), food: food, calories: calories}
}

func (f *entryForm) isOpen() bool {
	return f.machine.IsOpen()
}

func (f *entryForm) open() tea.Cmd {
	if f.machine.IsOpen() {
		return nil
	}
	f.machine.Open()
	f.food.SetValue("")
	f.calories.SetValue("")
	f.errMsg = ""
	return f.setFocus(fieldFood)
}

func (f *entryForm) setFocus(field formField) tea.Cmd {
	f.focus = field
	if field == fieldFood {
		f.calories.Blur()
		return f.food.Focus()
	}
	f.food.Blur()
	return f.calories.Focus()
}

// handleKey returns a submission once the draft passes validation.
func (f *entryForm) handleKey(msg tea.KeyPressMsg) (*modal.Submission, tea.Cmd) {
	switch msg.String() {
	case "esc":
		f.machine.Cancel()
		f.food.Blur()
		f.calories.Blur()
		return nil, nil
	case "tab", "shift+tab", "up", "down":
		if f.focus == fieldFood {
			return nil, f.setFocus(fieldCalories)
		}
		return nil, f.setFocus(fieldFood)
	case "enter":
		return f.submit(), nil
	}

	var cmd tea.Cmd
	if f.focus == fieldFood {
		f.food, cmd = f.food.Update(msg)
		f.machine.SetFood(f.food.Value())
	} else {
		f.calories, cmd = f.calories.Update(msg)
		f.machine.SetCaloriesText(f.calories.Value())
	}
	f.errMsg = ""
	return nil, cmd
}

func (f *entryForm) submit() *modal.Submission {
	f.machine.SetFood(f.food.Value())
	f.machine.SetCaloriesText(f.calories.Value())

	sub, err := f.machine.Submit()
	if err != nil {
		var ve *entry.ValidationError
		if errors.As(err, &ve) && ve.Field == "calories" {
			if _, perr := entry.ParseCalories(f.calories.Value()); perr != nil {
				err = perr
			}
			f.setFocus(fieldCalories)
		} else {
			f.setFocus(fieldFood)
		}
		f.errMsg = err.Error()
		return nil
	}
	f.food.Blur()
	f.calories.Blur()
	return &sub
}

func (f *entryForm) view(th theme.ModalTheme, width int) string {
	fieldWidth := width / 2
	if fieldWidth < 24 {
		fieldWidth = 24
	}
	f.food.SetWidth(fieldWidth)
	f.calories.SetWidth(fieldWidth)

	label := func(name string, field formField) string {
		if f.focus == field {
			return th.Focused.Render("> " + name)
		}
		return th.Label.Render("  " + name)
	}

	lines := []string{
		th.Title.Render("Add entry"),
		"",
		label("Food", fieldFood),
		"  " + f.food.View(),
		"",
		label("Calories", fieldCalories),
		"  " + f.calories.View(),
		"",
	}
	if f.errMsg != "" {
		lines = append(lines, th.Error.Render(f.errMsg))
	} else {
		lines = append(lines, th.Hint.Render(strings.Join([]string{"tab switch", "enter save", "esc cancel"}, " · ")))
	}
	return th.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
