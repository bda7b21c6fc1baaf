package lessons

import (
	"errors"
	"io"
	"sync"

	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/components"
	"github.com/ryanhamamura/stateful/h"
	"github.com/ryanhamamura/stateful/toggle"
)

// ErrOutsideToggle is rendered by a toggle part that was not given a state.
var ErrOutsideToggle = errors.New("toggle compound components must be rendered within a Toggle")

// Flip is the shared value of a compound toggle: whether it is on and the
// trigger that flips it.
type Flip struct {
	On      bool
	Trigger *stateful.ActionTrigger
}

// Part is a child that needs the shared Flip of its Toggle.
type Part struct {
	bind func(Flip) h.H
}

// Render fails: a Part only renders once bound by Toggle.
func (p *Part) Render(io.Writer) error {
	return ErrOutsideToggle
}

// ToggleOn renders children while the toggle is on.
func ToggleOn(children ...h.H) *Part {
	return &Part{bind: func(f Flip) h.H { return h.If(f.On, h.Fragment(children...)) }}
}

// ToggleOff renders children while the toggle is off.
func ToggleOff(children ...h.H) *Part {
	return &Part{bind: func(f Flip) h.H { return h.If(!f.On, h.Fragment(children...)) }}
}

// ToggleButton renders a Switch wired to the flip trigger.
func ToggleButton() *Part {
	return &Part{bind: func(f Flip) h.H {
		return components.Switch(toggle.Props{Attrs: map[string]any{
			toggle.AttrOn:          f.On,
			toggle.AttrAriaPressed: f.On,
		}}, f.Trigger)
	}}
}

// Toggle hands f to its direct Part children. Other children pass through
// untouched.
func Toggle(f Flip, children ...h.H) h.H {
	out := make([]h.H, 0, len(children))
	for _, child := range children {
		if p, ok := child.(*Part); ok {
			out = append(out, p.bind(f))
			continue
		}
		out = append(out, child)
	}
	return h.Fragment(out...)
}

// Shared is the flexible variant: the value is handed to parts explicitly,
// so they may sit at any depth of the tree. A nil *Shared renders the
// ErrOutsideToggle failure.
type Shared struct {
	f Flip
}

// NewShared wraps f.
func NewShared(f Flip) *Shared {
	return &Shared{f: f}
}

func (s *Shared) bind(p *Part) h.H {
	if s == nil {
		return p
	}
	return p.bind(s.f)
}

// On renders children while the toggle is on.
func (s *Shared) On(children ...h.H) h.H { return s.bind(ToggleOn(children...)) }

// Off renders children while the toggle is off.
func (s *Shared) Off(children ...h.H) h.H { return s.bind(ToggleOff(children...)) }

// Button renders the switch.
func (s *Shared) Button() h.H { return s.bind(ToggleButton()) }

// onOff is the plain state behind the compound lessons.
type onOff struct {
	mu sync.Mutex
	on bool
}

func (t *onOff) flip() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.on = !t.on
}

func (t *onOff) get() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.on
}

func compoundPage(Deps) func(c *stateful.Context) {
	return func(c *stateful.Context) {
		var state onOff
		flip := c.Action(func() {
			state.flip()
			c.Sync()
		})
		c.View(func() h.H {
			return page("02 Compound Components",
				h.Div(Toggle(Flip{On: state.get(), Trigger: flip},
					ToggleOn(h.Text("The button is on")),
					ToggleOff(h.Text("The button is off")),
					h.Span(h.Text("Hello")),
					ToggleButton(),
				)),
			)
		})
	}
}

func flexiblePage(Deps) func(c *stateful.Context) {
	return func(c *stateful.Context) {
		var state onOff
		flip := c.Action(func() {
			state.flip()
			c.Sync()
		})
		c.View(func() h.H {
			s := NewShared(Flip{On: state.get(), Trigger: flip})
			return page("03 Flexible Compound Components",
				h.Div(
					s.On(h.Text("The button is on")),
					s.Off(h.Text("The button is off")),
					h.Div(s.Button()),
				),
			)
		})
	}
}
