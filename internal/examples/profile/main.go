package main

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/auth"
	"github.com/ryanhamamura/stateful/h"
	"github.com/ryanhamamura/stateful/profile"
	"github.com/ryanhamamura/stateful/userclient"
)

func main() {
	db, err := sql.Open("sqlite3", "sessions.db")
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	app, err := newApp(db)
	if err != nil {
		log.Fatalf("failed to create app: %v", err)
	}
	app.Start()
}

func newApp(db *sql.DB) (*stateful.App, error) {
	sm, err := stateful.NewSQLiteSessionManager(db)
	if err != nil {
		return nil, err
	}

	app := stateful.New()
	app.Config(stateful.Options{
		ServerAddress:  ":7331",
		SessionManager: sm,
		LogLevel:       stateful.LogLevelDebug,
	})

	users := auth.NewProvider()
	client := userclient.New()

	app.Page("/", func(c *stateful.Context) {
		store := profile.NewStore(users.User(c.Session()), profile.WithLogger(app.Logger()))
		tagline := c.Signal(store.State().User.Tagline)

		store.Subscribe(func(profile.State) { c.Sync() })

		save := c.Action(func() {
			user := store.State().User
			next := user
			next.Tagline = tagline.String()
			updated, err := profile.Update(c.RequestContext(), store, client, user, profile.Changes(next))
			if err != nil {
				logger := app.Logger()
				logger.Warn().Err(err).Msg("update rejected")
				return
			}
			users.Remember(c.Session(), updated)
		})

		c.View(func() h.H {
			s := store.State()
			return h.Div(
				h.H1(h.Textf("Hello, %s", s.User.Username)),
				h.P(h.Textf("Status: %s", s.Status)),
				h.If(s.Err != nil, h.P(h.Style("color: red"), h.Text(errMessage(s.Err)))),
				h.Input(h.Type("text"), h.Placeholder("Tagline (try 'fail')"), tagline.Bind()),
				h.Button(h.Text("Save"), h.If(s.Status == profile.Pending, h.Disabled()), save.OnClick()),
				h.P(h.Text("Reload the page: the tagline is kept in the sqlite session.")),
			)
		})
	})
	return app, nil
}

func errMessage(err *profile.Error) string {
	if err == nil {
		return ""
	}
	return err.Message
}
