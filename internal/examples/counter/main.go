package main

import (
	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/h"
	"github.com/ryanhamamura/stateful/lessons"
)

func main() {
	app := stateful.New()

	app.Page("/", func(c *stateful.Context) {
		store := lessons.NewCounterStore(0, 1)
		step := c.Signal(1)

		increment := c.Action(func() {
			store.Dispatch(lessons.Increment{Step: step.Int()})
			c.Sync()
		})
		decrement := c.Action(func() {
			store.Dispatch(lessons.Decrement{Step: step.Int()})
			c.Sync()
		})

		c.View(func() h.H {
			return h.Div(
				h.P(h.Textf("Count: %d", store.Count())),
				h.Label(
					h.Text("Step: "),
					h.Input(h.Type("number"), step.Bind()),
				),
				h.Button(h.Text("-"), decrement.OnClick()),
				h.Button(h.Text("+"), increment.OnClick()),
			)
		})
	})

	app.Start()
}
