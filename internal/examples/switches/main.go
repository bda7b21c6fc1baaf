package main

import (
	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/components"
	"github.com/ryanhamamura/stateful/h"
	"github.com/ryanhamamura/stateful/toggle"
)

func main() {
	app := stateful.New()
	app.Config(stateful.Options{
		DocumentTitle: "switches",
		Plugins:       []stateful.Plugin{components.SwitchStyles()},
	})

	app.Page("/", func(c *stateful.Context) {
		first := c.Component(switchComp(false))
		second := c.Component(switchComp(true))

		c.View(func() h.H {
			return h.Div(
				h.H3(h.Text("Starts off")),
				first(),
				h.H3(h.Text("Starts on")),
				second(),
			)
		})
	})

	app.Start()
}

// switchComp is a self-contained toggle with its own reset button.
func switchComp(initialOn bool) func(c *stateful.Context) {
	return func(c *stateful.Context) {
		m := toggle.New(toggle.Options{InitialOn: initialOn})

		flip := c.Action(func() {
			m.Toggle()
			c.Sync()
		})
		reset := c.Action(func() {
			m.Reset()
			c.Sync()
		})

		c.View(func() h.H {
			return h.Div(
				components.Switch(m.TogglerProps(toggle.Props{}), flip),
				h.Button(h.Text("Reset"), reset.OnClick()),
			)
		})
	}
}
