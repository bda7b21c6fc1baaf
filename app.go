// Package stateful provides a live, server-driven engine for building
// stateful Go components. Pages register Go state, actions and signals on a
// *Context; views render HTML through the h DSL; actions mutate Go state and
// Sync pushes patches to the browser over Server-Sent Events (Datastar).
//
// The toggle and profile packages build on this engine to show reducer,
// control-props and context-module patterns as live pages.
package stateful

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	ossignal "os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/ryanhamamura/stateful/h"
	"github.com/ryanhamamura/stateful/warning"
)

// DefaultDatastarURL is the Datastar client served to pages unless
// Options.DatastarContent provides a local copy.
const DefaultDatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// App is the root application.
// It manages page routing, user sessions, and SSE connections for live updates.
type App struct {
	cfg                  Options
	mux                  *http.ServeMux
	server               *http.Server
	logger               zerolog.Logger
	contextRegistry      map[string]*Context
	contextRegistryMutex sync.RWMutex
	documentHeadIncludes []h.H
	documentFootIncludes []h.H
	sessionManager       *scs.SessionManager
	pubsub               PubSub
	actionRateLimit      RateLimitConfig
	metrics              *metrics
	datastarPath         string
	datastarContent      []byte
	datastarOnce         sync.Once
	reaperStop           chan struct{}
}

func (a *App) logEvent(evt *zerolog.Event, c *Context) *zerolog.Event {
	if c != nil && c.id != "" {
		evt = evt.Str("ctx", c.id)
	}
	return evt
}

func (a *App) logFatal(format string, args ...any) {
	a.logEvent(a.logger.WithLevel(zerolog.FatalLevel), nil).Msgf(format, args...)
}

func (a *App) logErr(c *Context, format string, args ...any) {
	a.logEvent(a.logger.Error(), c).Msgf(format, args...)
}

func (a *App) logWarn(c *Context, format string, args ...any) {
	a.logEvent(a.logger.Warn(), c).Msgf(format, args...)
}

func (a *App) logInfo(c *Context, format string, args ...any) {
	a.logEvent(a.logger.Info(), c).Msgf(format, args...)
}

func (a *App) logDebug(c *Context, format string, args ...any) {
	a.logEvent(a.logger.Debug(), c).Msgf(format, args...)
}

func newConsoleLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger().Level(level)
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// Config overrides the default configuration with the given options.
func (a *App) Config(cfg Options) {
	if cfg.Logger != nil {
		a.logger = *cfg.Logger
	} else if cfg.LogLevel != nil || cfg.DevMode != a.cfg.DevMode {
		level := zerolog.InfoLevel
		if cfg.LogLevel != nil {
			level = *cfg.LogLevel
		}
		if cfg.DevMode {
			a.logger = newConsoleLogger(level)
		} else {
			a.logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
		}
	}
	// advisory component warnings share the app logger
	warning.SetLogger(a.logger.With().Str("component", "warning").Logger())

	if cfg.DocumentTitle != "" {
		a.cfg.DocumentTitle = cfg.DocumentTitle
	}
	if cfg.DevMode != a.cfg.DevMode {
		a.cfg.DevMode = cfg.DevMode
	}
	if cfg.ServerAddress != "" {
		a.cfg.ServerAddress = cfg.ServerAddress
	}
	if cfg.SessionManager != nil {
		a.sessionManager = cfg.SessionManager
	}
	if cfg.DatastarContent != nil {
		a.datastarContent = cfg.DatastarContent
		a.datastarPath = "/_datastar.js"
	}
	if cfg.DatastarPath != "" {
		a.datastarPath = cfg.DatastarPath
	}
	if cfg.PubSub != nil {
		a.pubsub = cfg.PubSub
	}
	if cfg.ContextTTL != 0 {
		a.cfg.ContextTTL = cfg.ContextTTL
	}
	if cfg.ActionRateLimit.Rate != 0 || cfg.ActionRateLimit.Burst != 0 {
		a.actionRateLimit = cfg.ActionRateLimit
	}
	for _, plugin := range cfg.Plugins {
		if plugin != nil {
			plugin(a)
		}
	}
}

// AppendToHead appends the given h.H nodes to the head of the base HTML document.
// Useful for including css stylesheets and JS scripts.
func (a *App) AppendToHead(elements ...h.H) {
	for _, el := range elements {
		if el != nil {
			a.documentHeadIncludes = append(a.documentHeadIncludes, el)
		}
	}
}

// AppendToFoot appends the given h.H nodes to the end of the base HTML document body.
func (a *App) AppendToFoot(elements ...h.H) {
	for _, el := range elements {
		if el != nil {
			a.documentFootIncludes = append(a.documentFootIncludes, el)
		}
	}
}

// Page registers a route and its associated page handler. The handler receives a *Context
// that defines state, UI, signals, and actions.
//
// Example:
//
//	app.Page("/", func(c *stateful.Context) {
//		c.View(func() h.H {
//			return h.H1(h.Text("Hello"))
//		})
//	})
//
// The init func is run once at registration against a throwaway context so a
// page that panics or never calls View fails at startup, not on first request.
func (a *App) Page(route string, initContextFn func(c *Context)) {
	a.ensureDatastarHandler()
	func() {
		defer func() {
			if err := recover(); err != nil {
				a.logFatal("failed to register page with init func that panics: %v", err)
				panic(err)
			}
		}()
		c := newContext("", "", a)
		initContextFn(c)
		c.view()
		c.dispose()
	}()

	a.mux.HandleFunc("GET "+exactPattern(route), func(w http.ResponseWriter, r *http.Request) {
		a.logDebug(nil, "GET %s", r.URL.String())
		id := fmt.Sprintf("%s_/%s", route, genRandID())
		c := newContext(id, route, a)
		c.reqCtx = r.Context()
		c.injectRouteParams(extractParams(route, r.URL.Path))
		initContextFn(c)
		a.registerCtx(c)

		headElements := []h.H{h.Script(h.Type("module"), h.Src(a.datastarPath))}
		headElements = append(headElements, a.documentHeadIncludes...)
		headElements = append(headElements,
			h.Meta(h.Data("signals", fmt.Sprintf("{'stateful-ctx':'%s','stateful-csrf':'%s'}", id, c.csrfToken))),
			h.Meta(h.Data("init", "@get('/_sse')")),
			h.Meta(h.Data("init", fmt.Sprintf(`window.addEventListener('beforeunload', (evt) => {
			navigator.sendBeacon('/_session/close', '%s');});`, c.id))),
		)

		bodyElements := []h.H{c.view()}
		bodyElements = append(bodyElements, a.documentFootIncludes...)
		view := h.HTML5(h.HTML5Props{
			Title: a.cfg.DocumentTitle,
			Head:  headElements,
			Body:  bodyElements,
		})
		if err := view.Render(w); err != nil {
			a.logErr(c, "render page failed: %v", err)
		}
	})
}

// Static serves files from dir under the given URL prefix. Directory
// listings are not served.
func (a *App) Static(prefix, dir string) {
	a.StaticFS(prefix, os.DirFS(dir))
}

// StaticFS serves files from fsys under the given URL prefix. Directory
// listings are not served.
func (a *App) StaticFS(prefix string, fsys fs.FS) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	fileServer := http.StripPrefix(prefix, http.FileServerFS(fsys))
	a.mux.Handle("GET "+prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	}))
}

func (a *App) registerCtx(c *Context) {
	if c == nil {
		a.logErr(nil, "failed to add nil context to registry")
		return
	}
	a.contextRegistryMutex.Lock()
	defer a.contextRegistryMutex.Unlock()
	a.contextRegistry[c.id] = c
	a.metrics.contexts.Set(float64(len(a.contextRegistry)))
	a.logDebug(c, "new context added to registry")
}

func (a *App) cleanupCtx(c *Context) {
	c.dispose()
	a.unregisterCtx(c)
}

func (a *App) unregisterCtx(c *Context) {
	if c.id == "" {
		a.logErr(c, "unregister ctx failed: ctx contains empty id")
		return
	}
	a.contextRegistryMutex.Lock()
	defer a.contextRegistryMutex.Unlock()
	delete(a.contextRegistry, c.id)
	a.metrics.contexts.Set(float64(len(a.contextRegistry)))
	a.logDebug(c, "ctx removed from registry")
}

func (a *App) getCtx(id string) (*Context, error) {
	a.contextRegistryMutex.RLock()
	defer a.contextRegistryMutex.RUnlock()
	if c, ok := a.contextRegistry[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("ctx '%s' not found", id)
}

func (a *App) startReaper() {
	ttl := a.cfg.ContextTTL
	if ttl < 0 {
		return
	}
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	interval := max(ttl/3, 5*time.Second)
	a.reaperStop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-a.reaperStop:
				return
			case <-ticker.C:
				a.reapOrphanedContexts(ttl)
			}
		}
	}()
}

func (a *App) reapOrphanedContexts(ttl time.Duration) {
	now := time.Now()
	a.contextRegistryMutex.RLock()
	var orphans []*Context
	for _, c := range a.contextRegistry {
		if !c.sseConnected.Load() && now.Sub(c.createdAt) > ttl {
			orphans = append(orphans, c)
		}
	}
	a.contextRegistryMutex.RUnlock()

	for _, c := range orphans {
		a.logInfo(c, "reaping orphaned context (no SSE connection after %s)", ttl)
		a.cleanupCtx(c)
	}
}

// Handler returns the root HTTP handler, wrapped with session loading when a
// SessionManager is configured.
func (a *App) Handler() http.Handler {
	if a.sessionManager != nil {
		return a.sessionManager.LoadAndSave(a.mux)
	}
	return a.mux
}

// Start starts the HTTP server and blocks until a SIGINT or SIGTERM
// signal is received, then performs a graceful shutdown.
func (a *App) Start() {
	a.server = &http.Server{
		Addr:    a.cfg.ServerAddress,
		Handler: a.Handler(),
	}

	a.startReaper()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.ListenAndServe()
	}()

	a.logInfo(nil, "stateful started at [%s]", a.cfg.ServerAddress)

	sigCh := make(chan os.Signal, 1)
	ossignal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logInfo(nil, "received signal %v, shutting down", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			a.logger.Fatal().Err(err).Msg("http server failed")
		}
		return
	}

	a.shutdown()
}

// Shutdown gracefully shuts down the server and all contexts.
// Safe for programmatic or test use.
func (a *App) Shutdown() {
	a.shutdown()
}

func (a *App) shutdown() {
	if a.reaperStop != nil {
		close(a.reaperStop)
		a.reaperStop = nil
	}
	a.drainAllContexts()

	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			a.logErr(nil, "http server shutdown error: %v", err)
		}
	}

	if a.pubsub != nil {
		if err := a.pubsub.Close(); err != nil {
			a.logErr(nil, "pubsub close error: %v", err)
		}
	}

	a.logInfo(nil, "shutdown complete")
}

func (a *App) drainAllContexts() {
	a.contextRegistryMutex.Lock()
	contexts := make([]*Context, 0, len(a.contextRegistry))
	for _, c := range a.contextRegistry {
		contexts = append(contexts, c)
	}
	a.contextRegistry = make(map[string]*Context)
	a.metrics.contexts.Set(0)
	a.contextRegistryMutex.Unlock()

	for _, c := range contexts {
		c.dispose()
	}
	a.logInfo(nil, "drained %d context(s)", len(contexts))
}

// HTTPServeMux returns the underlying HTTP request multiplexer to enable extensions,
// middleware and plugins.
//
// The returned *http.ServeMux can only be modified during initialization, before calling Start.
func (a *App) HTTPServeMux() *http.ServeMux {
	return a.mux
}

func (a *App) ensureDatastarHandler() {
	a.datastarOnce.Do(func() {
		if a.datastarContent == nil || strings.HasPrefix(a.datastarPath, "http") {
			return
		}
		a.mux.HandleFunc("GET "+a.datastarPath, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/javascript")
			_, _ = w.Write(a.datastarContent)
		})
	})
}

type patchType int

const (
	patchTypeElements patchType = iota
	patchTypeSignals
	patchTypeScript
	patchTypeRedirect
	patchTypeReplaceURL
)

type patch struct {
	typ     patchType
	content string
}

// New creates a new *App with default configuration.
func New() *App {
	a := &App{
		mux:             http.NewServeMux(),
		logger:          newConsoleLogger(zerolog.InfoLevel),
		contextRegistry: make(map[string]*Context),
		datastarPath:    DefaultDatastarURL,
		metrics:         newMetrics(),
		cfg: Options{
			ServerAddress: ":3000",
			DocumentTitle: "stateful",
		},
	}

	a.mux.HandleFunc("GET /_sse", a.handleSSE)
	a.mux.HandleFunc("GET /_action/{id}", a.handleAction)
	a.mux.HandleFunc("POST /_session/close", a.handleSessionClose)
	return a
}

func (a *App) handleSSE(w http.ResponseWriter, r *http.Request) {
	var sigs map[string]any
	_ = datastar.ReadSignals(r, &sigs)
	cID, _ := sigs["stateful-ctx"].(string)

	c, err := a.getCtx(cID)
	if err != nil {
		a.logErr(nil, "sse stream failed to start: %v", err)
		http.Error(w, "unknown context", http.StatusNotFound)
		return
	}
	c.reqCtx = r.Context()

	sse := datastar.NewSSE(w, r, datastar.WithCompression(datastar.WithBrotli(datastar.WithBrotliLevel(5))))
	c.sseConnected.Store(true)
	a.logDebug(c, "SSE connection established")

	go c.Sync()

	for {
		select {
		case <-sse.Context().Done():
			a.logDebug(c, "SSE connection ended")
			a.cleanupCtx(c)
			return
		case <-c.ctxDisposedChan:
			a.logDebug(c, "context disposed, closing SSE")
			return
		case p := <-c.patchChan:
			if err := a.sendPatch(sse, p); err != nil && sse.Context().Err() == nil {
				a.logErr(c, "patch failed: %v", err)
			}
		}
	}
}

func (a *App) sendPatch(sse *datastar.ServerSentEventGenerator, p patch) error {
	switch p.typ {
	case patchTypeElements:
		return sse.PatchElements(p.content)
	case patchTypeSignals:
		return sse.PatchSignals([]byte(p.content))
	case patchTypeScript:
		return sse.ExecuteScript(p.content, datastar.WithExecuteScriptAutoRemove(true))
	case patchTypeRedirect:
		return sse.Redirect(p.content)
	case patchTypeReplaceURL:
		u, err := url.Parse(p.content)
		if err != nil {
			return fmt.Errorf("replace url: %w", err)
		}
		return sse.ReplaceURL(*u)
	}
	return fmt.Errorf("unknown patch type %d", p.typ)
}

func (a *App) handleAction(w http.ResponseWriter, r *http.Request) {
	actionID := r.PathValue("id")
	var sigs map[string]any
	_ = datastar.ReadSignals(r, &sigs)
	cID, _ := sigs["stateful-ctx"].(string)
	c, err := a.getCtx(cID)
	if err != nil {
		a.metrics.actions.WithLabelValues(outcomeNotFound).Inc()
		a.logErr(nil, "action '%s' failed: %v", actionID, err)
		http.Error(w, "unknown context", http.StatusNotFound)
		return
	}
	csrfToken, _ := sigs["stateful-csrf"].(string)
	if subtle.ConstantTimeCompare([]byte(csrfToken), []byte(c.csrfToken)) != 1 {
		a.metrics.actions.WithLabelValues(outcomeForbidden).Inc()
		a.logWarn(c, "action '%s' rejected: invalid CSRF token", actionID)
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}
	if c.actionLimiter != nil && !c.actionLimiter.Allow() {
		a.metrics.actions.WithLabelValues(outcomeRateLimited).Inc()
		a.logWarn(c, "action '%s' rate limited", actionID)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
		return
	}
	entry, err := c.getAction(actionID)
	if err != nil {
		a.metrics.actions.WithLabelValues(outcomeNotFound).Inc()
		a.logDebug(c, "action '%s' failed: %v", actionID, err)
		http.Error(w, "unknown action", http.StatusNotFound)
		return
	}
	if entry.limiter != nil && !entry.limiter.Allow() {
		a.metrics.actions.WithLabelValues(outcomeRateLimited).Inc()
		a.logWarn(c, "action '%s' rate limited (per-action)", actionID)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
		return
	}
	c.reqCtx = r.Context()

	defer func() {
		if rec := recover(); rec != nil {
			a.metrics.actions.WithLabelValues(outcomePanic).Inc()
			a.logErr(c, "action '%s' failed: %v", actionID, rec)
			http.Error(w, "action failed", http.StatusInternalServerError)
		}
	}()

	c.injectSignals(sigs)
	entry.fn()
	a.metrics.actions.WithLabelValues(outcomeOK).Inc()
}

func (a *App) handleSessionClose(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		a.logErr(nil, "error reading body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	c, err := a.getCtx(string(body))
	if err != nil {
		a.logErr(nil, "failed to handle session close: %v", err)
		return
	}
	a.logDebug(c, "session close event triggered")
	a.cleanupCtx(c)
}

func genRandID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)[:8]
}

func genCSRFToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// exactPattern anchors a route ending in "/" so it does not match every path
// below it.
func exactPattern(route string) string {
	if strings.HasSuffix(route, "/") {
		return route + "{$}"
	}
	return route
}

func extractParams(pattern, path string) map[string]string {
	p := strings.Split(strings.Trim(pattern, "/"), "/")
	u := strings.Split(strings.Trim(path, "/"), "/")
	if len(p) != len(u) {
		return nil
	}
	params := make(map[string]string)
	for i := range p {
		if strings.HasPrefix(p[i], "{") && strings.HasSuffix(p[i], "}") {
			params[p[i][1:len(p[i])-1]] = u[i]
		}
	}
	return params
}
