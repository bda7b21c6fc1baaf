package stateful

import (
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog"
)

func ptr(l zerolog.Level) *zerolog.Level { return &l }

var (
	LogLevelDebug = ptr(zerolog.DebugLevel)
	LogLevelInfo  = ptr(zerolog.InfoLevel)
	LogLevelWarn  = ptr(zerolog.WarnLevel)
	LogLevelError = ptr(zerolog.ErrorLevel)
)

// ParseLogLevel maps a level name such as "debug" to a level pointer.
// Unknown names return nil, which keeps the default.
func ParseLogLevel(s string) *zerolog.Level {
	l, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return nil
	}
	return ptr(l)
}

// Plugin mutates the *App at configuration time. Used to add stylesheets,
// scripts or extra routes.
type Plugin func(a *App)

// Options defines configuration options for the application.
type Options struct {
	// DevMode switches to a human friendly console log.
	DevMode bool

	// The http server address. e.g. ':3000'
	ServerAddress string

	// LogLevel sets the minimum log level. nil keeps the default (Info).
	LogLevel *zerolog.Level

	// Logger overrides the default logger entirely. When set, LogLevel and
	// DevMode have no effect on logging.
	Logger *zerolog.Logger

	// The title of the HTML document.
	DocumentTitle string

	// Plugins run in order at the end of Config.
	Plugins []Plugin

	// SessionManager enables cookie-based sessions. Handler wraps the mux with
	// its LoadAndSave middleware.
	SessionManager *scs.SessionManager

	// DatastarContent is the Datastar.js script content. When set it is served
	// from this app instead of DefaultDatastarURL.
	DatastarContent []byte

	// DatastarPath is the URL of the script. Defaults to DefaultDatastarURL,
	// or "/_datastar.js" when DatastarContent is set.
	DatastarPath string

	// PubSub enables publish/subscribe messaging between contexts. Use
	// natsbus.New() for an embedded NATS backend or NewMemoryPubSub.
	PubSub PubSub

	// ContextTTL is how long a page context may live without an SSE
	// connection before it is reaped. Zero means 30s, negative disables.
	ContextTTL time.Duration

	// ActionRateLimit is the per-context token bucket for actions.
	ActionRateLimit RateLimitConfig
}
