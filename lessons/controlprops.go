package lessons

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/components"
	"github.com/ryanhamamura/stateful/h"
	"github.com/ryanhamamura/stateful/toggle"
)

// BothSubject carries the shared value of the two controlled toggles, so
// every open lesson 06 page shows the same state.
const BothSubject = "lessons.06.both"

// Both is the state owned by the parent of the controlled toggles.
type Both struct {
	On     bool `json:"on"`
	Clicks int  `json:"clicks"`
}

// ControlProps is the model of lesson 06: two toggles controlled by one
// parent value and a third, uncontrolled toggle.
type ControlProps struct {
	mu      sync.Mutex
	both    Both
	left    *toggle.Machine
	right   *toggle.Machine
	free    *toggle.Machine
	log     zerolog.Logger
	publish func(Both)
}

// NewControlProps returns the parent with both toggles off. publish, when
// non-nil, receives every change made on this page.
func NewControlProps(log zerolog.Logger, publish func(Both)) *ControlProps {
	cp := &ControlProps{log: log, publish: publish}
	cp.left = toggle.New(toggle.Options{Name: "Toggle", Controls: cp.controls(false)})
	cp.right = toggle.New(toggle.Options{Name: "Toggle", Controls: cp.controls(false)})
	cp.free = toggle.New(toggle.Options{
		Name: "Toggle",
		Controls: toggle.Controls{OnChange: func(s toggle.State, a toggle.Action) {
			log.Info().Bool("on", s.On).Str("action", a.Type()).Msg("Uncontrolled Toggle onChange")
		}},
	})
	return cp
}

func (cp *ControlProps) controls(on bool) toggle.Controls {
	return toggle.Controls{On: &on, OnChange: cp.handleChange}
}

func (cp *ControlProps) handleChange(s toggle.State, a toggle.Action) {
	cp.mu.Lock()
	if _, ok := a.(toggle.ToggleAction); ok && cp.both.Clicks > MaxClicks {
		cp.mu.Unlock()
		return
	}
	cp.both.On = s.On
	cp.both.Clicks++
	both := cp.both
	cp.mu.Unlock()

	cp.render()
	if cp.publish != nil {
		cp.publish(both)
	}
}

// render hands the parent value to both controlled toggles.
func (cp *ControlProps) render() {
	on := cp.Both().On
	cp.left.Update(cp.controls(on))
	cp.right.Update(cp.controls(on))
}

// Both returns the parent state.
func (cp *ControlProps) Both() Both {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.both
}

// TooMuch reports whether further toggles are refused.
func (cp *ControlProps) TooMuch() bool {
	return cp.Both().Clicks > MaxClicks
}

// Left, Right and Free expose the toggles for rendering.
func (cp *ControlProps) Left() *toggle.Machine  { return cp.left }
func (cp *ControlProps) Right() *toggle.Machine { return cp.right }
func (cp *ControlProps) Free() *toggle.Machine  { return cp.free }

// Click runs the switch binding of m.
func (cp *ControlProps) Click(m *toggle.Machine) {
	m.TogglerProps(toggle.Props{}).Click()
}

// Reset turns both toggles off and clears the count.
func (cp *ControlProps) Reset() {
	cp.mu.Lock()
	cp.both = Both{}
	cp.mu.Unlock()
	cp.render()
	if cp.publish != nil {
		cp.publish(Both{})
	}
}

// Apply adopts a state published by another page. It reports whether the
// state changed.
func (cp *ControlProps) Apply(b Both) bool {
	cp.mu.Lock()
	if cp.both == b {
		cp.mu.Unlock()
		return false
	}
	cp.both = b
	cp.mu.Unlock()
	cp.render()
	return true
}

func controlPropsPage(d Deps) func(c *stateful.Context) {
	return func(c *stateful.Context) {
		cp := NewControlProps(d.Logger, func(b Both) {
			if err := stateful.Publish(c, BothSubject, b); err != nil {
				d.Logger.Debug().Err(err).Msg("toggle broadcast skipped")
			}
		})
		_, _ = stateful.Subscribe(c, BothSubject, func(b Both) {
			if cp.Apply(b) {
				c.Sync()
			}
		})

		bind := func(m *toggle.Machine) *stateful.ActionTrigger {
			return c.Action(func() {
				cp.Click(m)
				c.Sync()
			})
		}
		left, right, free := bind(cp.Left()), bind(cp.Right()), bind(cp.Free())
		reset := c.Action(func() {
			cp.Reset()
			c.Sync()
		})

		c.View(func() h.H {
			both := cp.Both()
			notice := h.Div(h.Data("testid", "click-count"), h.Textf("Click count: %d", both.Clicks))
			if cp.TooMuch() {
				notice = h.Div(h.Data("testid", "notice"), h.Text("Whoa, you clicked too much!"), h.Br())
			}
			return page("06 Control Props",
				h.Div(
					components.Switch(cp.Left().TogglerProps(toggle.Props{}), left),
					components.Switch(cp.Right().TogglerProps(toggle.Props{}), right),
				),
				notice,
				h.Button(reset.OnClick(), h.Text("Reset")),
				h.Hr(),
				h.Div(
					h.Div(h.Text("Uncontrolled Toggle:")),
					components.Switch(cp.Free().TogglerProps(toggle.Props{}), free),
				),
			)
		})
	}
}
