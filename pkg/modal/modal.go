// Package modal models the entry form as a two-state machine: Closed, or
// Open with a draft being edited.
package modal

import (
	"errors"
	"strings"

	"tableflip.dev/caltrack/pkg/entry"
)

// ErrNotOpen is returned when submitting while the form is closed.
var ErrNotOpen = errors.New("modal: form is not open")

// State is either Closed or Open.
type State interface {
	isState()
}

// Closed holds no draft.
type Closed struct{}

// Open holds the draft being edited.
type Open struct {
	Draft Draft
}

func (Closed) isState() {}
func (Open) isState()   {}

// Draft is the in-progress food/calorie pair. Calories is nil until a valid
// number has been supplied.
type Draft struct {
	Food     string
	Calories *int
}

// Submission is a validated draft ready to be recorded.
type Submission struct {
	Food     string
	Calories int
}

// Machine drives the form state.
type Machine struct {
	state State
}

// New returns a closed machine.
func New() *Machine {
	return &Machine{state: Closed{}}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// IsOpen reports whether a draft is being edited.
func (m *Machine) IsOpen() bool {
	_, ok := m.state.(Open)
	return ok
}

// Draft returns the open draft, if any.
func (m *Machine) Draft() (Draft, bool) {
	open, ok := m.state.(Open)
	return open.Draft, ok
}

// Open starts a blank draft. Opening an open form keeps the current draft.
func (m *Machine) Open() {
	if m.IsOpen() {
		return
	}
	m.state = Open{}
}

// SetFood replaces the draft's food label.
func (m *Machine) SetFood(food string) {
	open, ok := m.state.(Open)
	if !ok {
		return
	}
	open.Draft.Food = food
	m.state = open
}

// SetCalories replaces the draft's calorie value; nil clears it.
func (m *Machine) SetCalories(calories *int) {
	open, ok := m.state.(Open)
	if !ok {
		return
	}
	if calories == nil {
		open.Draft.Calories = nil
	} else {
		v := *calories
		open.Draft.Calories = &v
	}
	m.state = open
}

// SetCaloriesText parses raw input; anything that is not a whole number
// clears the value.
func (m *Machine) SetCaloriesText(raw string) {
	n, err := entry.ParseCalories(raw)
	if err != nil {
		m.SetCalories(nil)
		return
	}
	m.SetCalories(&n)
}

// Cancel discards the draft and closes the form.
func (m *Machine) Cancel() {
	m.state = Closed{}
}

// Submit closes the form and returns the draft when both fields are present.
// Otherwise it returns an *entry.ValidationError and stays open.
func (m *Machine) Submit() (Submission, error) {
	open, ok := m.state.(Open)
	if !ok {
		return Submission{}, ErrNotOpen
	}
	if err := entry.ValidateFood(open.Draft.Food); err != nil {
		return Submission{}, err
	}
	if open.Draft.Calories == nil {
		return Submission{}, &entry.ValidationError{Field: "calories", Reason: "is required"}
	}
	m.state = Closed{}
	return Submission{
		Food:     strings.TrimSpace(open.Draft.Food),
		Calories: *open.Draft.Calories,
	}, nil
}
