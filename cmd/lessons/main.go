// Command lessons serves every state-management lesson as a live page.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/auth"
	"github.com/ryanhamamura/stateful/components"
	"github.com/ryanhamamura/stateful/internal/config"
	"github.com/ryanhamamura/stateful/lessons"
	"github.com/ryanhamamura/stateful/natsbus"
	"github.com/ryanhamamura/stateful/userclient"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	// flags default to the environment; a bad environment fails serve only
	cfg, err := config.Load()

	root := &cobra.Command{
		Use:   "lessons",
		Short: "Live lessons on context modules, compound components, reducers and control props",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lesson pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	f := serveCmd.Flags()
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "http listen address (LESSONS_ADDR)")
	f.BoolVar(&cfg.Dev, "dev", cfg.Dev, "console logging (LESSONS_DEV)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (LESSONS_LOG_LEVEL)")
	f.StringVar(&cfg.SessionDB, "session-db", cfg.SessionDB, "sqlite file for sessions, in-memory when empty (LESSONS_SESSION_DB)")
	f.StringVar(&cfg.NATSDir, "nats-dir", cfg.NATSDir, "embedded NATS data dir, in-process bus when empty (LESSONS_NATS_DIR)")
	f.DurationVar(&cfg.UpdateDelay, "update-delay", cfg.UpdateDelay, "simulated profile update latency (LESSONS_UPDATE_DELAY)")

	root.AddCommand(serveCmd)
	return root
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := stateful.Options{
		DevMode:       cfg.Dev,
		ServerAddress: cfg.Addr,
		LogLevel:      stateful.ParseLogLevel(cfg.LogLevel),
		DocumentTitle: "Advanced state patterns",
		Plugins:       []stateful.Plugin{components.SwitchStyles()},
	}

	if cfg.SessionDB != "" {
		db, err := sql.Open("sqlite3", cfg.SessionDB)
		if err != nil {
			return fmt.Errorf("open session db: %w", err)
		}
		defer db.Close()
		sm, err := stateful.NewSQLiteSessionManager(db)
		if err != nil {
			return err
		}
		opts.SessionManager = sm
	}

	if cfg.NATSDir != "" {
		bus, err := natsbus.New(ctx, cfg.NATSDir)
		if err != nil {
			return err
		}
		if err := bus.EnsureStream(natsbus.StreamConfig{
			Name:     "PROFILE",
			Subjects: []string{lessons.ProfileSubject},
			MaxAge:   24 * time.Hour,
			MaxMsgs:  1000,
		}); err != nil {
			_ = bus.Close()
			return err
		}
		opts.PubSub = bus
	} else {
		opts.PubSub = stateful.NewMemoryPubSub()
	}

	app := stateful.New()
	app.Config(opts)
	app.HTTPServeMux().Handle("GET /metrics", app.MetricsHandler())

	lessons.Register(app, lessons.Deps{
		Updater: userclient.New(userclient.WithDelay(cfg.UpdateDelay)),
		Auth:    auth.NewProvider(),
		Logger:  app.Logger().With().Str("component", "lessons").Logger(),
	})

	logStartup(app.Logger(), cfg)
	app.Start()
	return nil
}

func logStartup(l zerolog.Logger, cfg config.Config) {
	l.Info().
		Str("addr", cfg.Addr).
		Bool("sessions", cfg.SessionDB != "").
		Bool("nats", cfg.NATSDir != "").
		Dur("update_delay", cfg.UpdateDelay).
		Msg("serving lessons")
}
