package lessons

import (
	"sync"

	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/components"
	"github.com/ryanhamamura/stateful/h"
	"github.com/ryanhamamura/stateful/toggle"
)

// MaxClicks is how many toggles the lessons allow before refusing more.
const MaxClicks = 4

// StateReducer is the model of lesson 05: a toggle whose reducer refuses
// toggles once the user clicked too much.
type StateReducer struct {
	mu      sync.Mutex
	machine *toggle.Machine
	clicks  int
	tooMuch bool // as of the last render
}

// NewStateReducer returns an off toggle with the click-limiting reducer.
func NewStateReducer() *StateReducer {
	s := &StateReducer{}
	s.machine = toggle.New(toggle.Options{
		Name: "StateReducer",
		Controls: toggle.Controls{
			Reducer: toggle.ReducerFunc(s.reduce),
		},
	})
	return s
}

func (s *StateReducer) reduce(state toggle.State, a toggle.Action) toggle.State {
	s.mu.Lock()
	tooMuch := s.tooMuch
	s.mu.Unlock()
	if _, ok := a.(toggle.ToggleAction); ok && tooMuch {
		return toggle.State{On: state.On}
	}
	return toggle.Reduce(state, a)
}

// On reports the toggle value.
func (s *StateReducer) On() bool {
	return s.machine.On()
}

// Clicks returns how many times the switch was clicked since the last reset.
func (s *StateReducer) Clicks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clicks
}

// TooMuch reports whether the click limit was reached.
func (s *StateReducer) TooMuch() bool {
	return s.Clicks() >= MaxClicks
}

// TogglerProps binds the switch: disabled once clicked too much, counting clicks.
func (s *StateReducer) TogglerProps() toggle.Props {
	return s.machine.TogglerProps(toggle.Props{
		Attrs: map[string]any{toggle.AttrDisabled: s.TooMuch()},
		OnClick: func() {
			s.mu.Lock()
			s.clicks++
			s.mu.Unlock()
		},
	})
}

// ResetterProps binds the reset button: clears the count, then resets the toggle.
func (s *StateReducer) ResetterProps() toggle.Props {
	return s.machine.ResetterProps(toggle.Props{
		OnClick: func() {
			s.mu.Lock()
			s.clicks = 0
			s.mu.Unlock()
		},
	})
}

// Click runs the switch binding and re-renders.
func (s *StateReducer) Click() {
	s.TogglerProps().Click()
	s.render()
}

// Reset runs the reset binding and re-renders.
func (s *StateReducer) Reset() {
	s.ResetterProps().Click()
	s.render()
}

// render freezes the limit the reducer sees until the next interaction.
func (s *StateReducer) render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tooMuch = s.clicks >= MaxClicks
}

func stateReducerPage(Deps) func(c *stateful.Context) {
	return func(c *stateful.Context) {
		s := NewStateReducer()
		click := c.Action(func() {
			s.Click()
			c.Sync()
		})
		reset := c.Action(func() {
			s.Reset()
			c.Sync()
		})
		c.View(func() h.H {
			var notice h.H
			switch {
			case s.TooMuch():
				notice = h.Div(h.Data("testid", "notice"), h.Text("Whoa, you clicked too much!"), h.Br())
			case s.Clicks() > 0:
				notice = h.Div(h.Data("testid", "click-count"), h.Textf("Click count: %d", s.Clicks()))
			}
			return page("05 State Reducer",
				h.Div(
					components.Switch(s.TogglerProps(), click),
					notice,
					h.Button(reset.OnClick(), h.Text("Reset")),
				),
			)
		})
	}
}
