package lessons

import (
	"github.com/rs/zerolog"

	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/components"
	"github.com/ryanhamamura/stateful/h"
	"github.com/ryanhamamura/stateful/toggle"
)

// PropGetters is the model of lesson 04: one uncontrolled toggle bound to a
// switch and to a custom button whose own click handler runs first.
type PropGetters struct {
	machine *toggle.Machine
	log     zerolog.Logger
}

// NewPropGetters returns an off toggle.
func NewPropGetters(log zerolog.Logger) *PropGetters {
	return &PropGetters{machine: toggle.New(toggle.Options{Name: "PropGetters"}), log: log}
}

// On reports the toggle value.
func (p *PropGetters) On() bool {
	return p.machine.On()
}

// SwitchProps binds the switch.
func (p *PropGetters) SwitchProps() toggle.Props {
	return p.machine.TogglerProps(toggle.Props{})
}

// ButtonProps binds the custom button: its own id and label, and an
// analytics handler called before the toggle.
func (p *PropGetters) ButtonProps() toggle.Props {
	return p.machine.TogglerProps(toggle.Props{
		Attrs: map[string]any{
			"aria-label": "custom-button",
			"id":         "custom-button-id",
		},
		OnClick: func() { p.log.Info().Msg("onButtonClick") },
	})
}

func propGettersPage(d Deps) func(c *stateful.Context) {
	return func(c *stateful.Context) {
		p := NewPropGetters(d.Logger)
		clickSwitch := c.Action(func() {
			p.SwitchProps().Click()
			c.Sync()
		})
		clickButton := c.Action(func() {
			p.ButtonProps().Click()
			c.Sync()
		})
		c.View(func() h.H {
			label := "off"
			if p.On() {
				label = "on"
			}
			return page("04 Prop Collections and Getters",
				h.Div(
					components.Switch(p.SwitchProps(), clickSwitch),
					h.Hr(),
					h.Button(components.Attrs(p.ButtonProps()), clickButton.OnClick(), h.Text(label)),
				),
			)
		})
	}
}
