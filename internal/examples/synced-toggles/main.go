package main

import (
	"context"
	"log"

	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/components"
	"github.com/ryanhamamura/stateful/h"
	"github.com/ryanhamamura/stateful/natsbus"
	"github.com/ryanhamamura/stateful/toggle"
)

const subject = "examples.toggle"

type toggled struct {
	On bool `json:"on"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus, err := natsbus.New(ctx, "./data/nats")
	if err != nil {
		log.Fatalf("failed to start nats: %v", err)
	}

	app := stateful.New()
	app.Config(stateful.Options{
		DocumentTitle: "synced toggles",
		PubSub:        bus,
		Plugins:       []stateful.Plugin{components.SwitchStyles()},
	})

	// every tab renders a controlled toggle; the value lives on the bus
	app.Page("/", func(c *stateful.Context) {
		onChange := func(s toggle.State, _ toggle.Action) {
			if err := stateful.Publish(c, subject, toggled{On: s.On}); err != nil {
				log.Printf("publish failed: %v", err)
			}
		}
		var on bool
		m := toggle.New(toggle.Options{Controls: toggle.Controls{On: &on, OnChange: onChange}})

		_, _ = stateful.Subscribe(c, subject, func(t toggled) {
			v := t.On
			m.Update(toggle.Controls{On: &v, OnChange: onChange})
			c.Sync()
		})

		flip := c.Action(func() { m.Toggle() })

		c.View(func() h.H {
			return h.Div(
				h.P(h.Text("Open this page in two tabs and flip either switch.")),
				components.Switch(m.TogglerProps(toggle.Props{}), flip),
			)
		})
	})

	app.Start()
}
