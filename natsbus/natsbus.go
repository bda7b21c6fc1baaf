// Package natsbus runs an embedded NATS server with JetStream and exposes it
// as a stateful.PubSub, so toggles and profile updates can be broadcast
// between page contexts.
package natsbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/delaneyj/toolbelt/embeddednats"
	"github.com/nats-io/nats.go"

	"github.com/ryanhamamura/stateful"
)

// Bus implements stateful.PubSub on an embedded NATS server.
type Bus struct {
	server *embeddednats.Server
	nc     *nats.Conn
	js     nats.JetStreamContext
}

var _ stateful.PubSub = (*Bus)(nil)

// New starts an embedded NATS server storing JetStream data in dataDir. The
// server shuts down when ctx is cancelled or Close is called.
func New(ctx context.Context, dataDir string) (*Bus, error) {
	ns, err := embeddednats.New(ctx, embeddednats.WithDirectory(dataDir))
	if err != nil {
		return nil, fmt.Errorf("natsbus: start server: %w", err)
	}
	ns.WaitForServer()

	nc, err := ns.Client()
	if err != nil {
		_ = ns.Close()
		return nil, fmt.Errorf("natsbus: connect client: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		_ = ns.Close()
		return nil, fmt.Errorf("natsbus: init jetstream: %w", err)
	}

	return &Bus{server: ns, nc: nc, js: js}, nil
}

// Publish sends data on subject with a core NATS publish. A stream whose
// subjects match captures it as well.
func (b *Bus) Publish(subject string, data []byte) error {
	if err := b.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("natsbus: publish '%s': %w", subject, err)
	}
	return nil
}

// Subscribe creates a core NATS subscription for real-time fan-out.
func (b *Bus) Subscribe(subject string, handler func(data []byte)) (stateful.Subscription, error) {
	sub, err := b.nc.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("natsbus: subscribe '%s': %w", subject, err)
	}
	return sub, nil
}

// Flush blocks until the server has processed all buffered publishes.
func (b *Bus) Flush() error {
	return b.nc.Flush()
}

// Close shuts down the client connection and embedded server.
func (b *Bus) Close() error {
	b.nc.Close()
	return b.server.Close()
}

// StreamConfig names a JetStream stream retaining messages on Subjects.
type StreamConfig struct {
	Name     string
	Subjects []string
	MaxAge   time.Duration
	MaxMsgs  int64
}

// EnsureStream creates the stream, or updates it when it already exists.
// Profile updates are retained this way so a late page can replay the last one.
func (b *Bus) EnsureStream(cfg StreamConfig) error {
	if cfg.Name == "" || len(cfg.Subjects) == 0 {
		return fmt.Errorf("natsbus: stream needs a name and subjects")
	}
	sc := &nats.StreamConfig{
		Name:     cfg.Name,
		Subjects: cfg.Subjects,
		MaxAge:   cfg.MaxAge,
		MaxMsgs:  cfg.MaxMsgs,
		Storage:  nats.FileStorage,
	}
	if sc.MaxMsgs == 0 {
		sc.MaxMsgs = -1
	}
	_, err := b.js.StreamInfo(cfg.Name)
	switch {
	case errors.Is(err, nats.ErrStreamNotFound):
		_, err = b.js.AddStream(sc)
	case err == nil:
		_, err = b.js.UpdateStream(sc)
	}
	if err != nil {
		return fmt.Errorf("natsbus: ensure stream '%s': %w", cfg.Name, err)
	}
	return nil
}

// Last returns the newest message retained on subject by stream.
func (b *Bus) Last(stream, subject string) ([]byte, error) {
	msg, err := b.js.GetLastMsg(stream, subject)
	if err != nil {
		return nil, fmt.Errorf("natsbus: last '%s': %w", subject, err)
	}
	return msg.Data, nil
}

// Conn returns the underlying NATS connection.
func (b *Bus) Conn() *nats.Conn {
	return b.nc
}
