// Package lessons serves one live page per state-management pattern: context
// module functions, compound components, prop getters, state reducers and
// control props, plus the counter example.
package lessons

import (
	"github.com/rs/zerolog"

	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/auth"
	"github.com/ryanhamamura/stateful/h"
	"github.com/ryanhamamura/stateful/profile"
)

// Deps are the collaborators shared by the lesson pages.
type Deps struct {
	Updater profile.Updater
	Auth    *auth.Provider
	Logger  zerolog.Logger
}

type lesson struct {
	route string
	title string
	init  func(d Deps) func(c *stateful.Context)
}

var all = []lesson{
	{"/01", "01 Context Module Functions", profilePage},
	{"/02", "02 Compound Components", compoundPage},
	{"/03", "03 Flexible Compound Components", flexiblePage},
	{"/04", "04 Prop Collections and Getters", propGettersPage},
	{"/05", "05 State Reducer", stateReducerPage},
	{"/06", "06 Control Props", controlPropsPage},
	{"/counter", "Counter (context module)", counterPage},
}

// Register mounts every lesson and an index at "/".
func Register(a *stateful.App, d Deps) {
	if d.Auth == nil {
		d.Auth = auth.NewProvider()
	}
	for _, l := range all {
		a.Page(l.route, l.init(d))
	}
	a.Page("/{$}", func(c *stateful.Context) {
		c.View(func() h.H {
			items := make([]h.H, 0, len(all))
			for _, l := range all {
				items = append(items, h.Li(h.A(h.Href(l.route), h.Text(l.title))))
			}
			return h.Main(h.H1(h.Text("Advanced state patterns")), h.Ul(items...))
		})
	})
}

func page(title string, body ...h.H) h.H {
	return h.Main(
		h.Nav(h.A(h.Href("/"), h.Text("← lessons"))),
		h.H2(h.Text(title)),
		h.Fragment(body...),
	)
}
