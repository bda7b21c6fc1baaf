package stateful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"maps"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/ryanhamamura/stateful/h"
)

// Context is the living bridge between Go and the browser.
//
// It holds runtime state, defines actions, manages reactive signals, and defines UI through View.
type Context struct {
	id                string
	route             string
	app               *App
	view              func() h.H
	routeParams       map[string]string
	componentRegistry map[string]*Context
	parentPageCtx     *Context
	patchChan         chan patch
	actionRegistry    map[string]actionEntry
	signals           *sync.Map
	mu                sync.RWMutex
	ctxDisposedChan   chan struct{}
	disposeOnce       sync.Once
	reqCtx            context.Context
	csrfToken         string
	createdAt         time.Time
	sseConnected      atomic.Bool
	actionLimiter     *rate.Limiter
	subscriptions     []Subscription
	subsMu            sync.Mutex
}

// ID returns the context id. Components share the id prefix of their page.
func (c *Context) ID() string {
	return c.id
}

// View defines the UI rendered by this context.
// The function should return an h.H element (from stateful/h).
//
// Changes to signals or state can be pushed live with Sync().
func (c *Context) View(f func() h.H) {
	if f == nil {
		panic("nil viewfn")
	}
	c.view = func() h.H { return h.Div(h.ID(c.id), f()) }
}

// Component registers a subcontext that has self contained data, actions and signals.
// It returns the component's view as a DOM node fn that can be placed in the view
// of the parent. Components can be added to components.
//
// Example:
//
//	app.Page("/", func(c *stateful.Context) {
//		switchComp := c.Component(switchCompFn)
//
//		c.View(func() h.H {
//			return h.Div(h.H1(h.Text("Switch")), switchComp())
//		})
//	})
func (c *Context) Component(initCtx func(c *Context)) func() h.H {
	id := c.id + "/_component/" + genRandID()
	compCtx := newContext(id, c.route, c.app)
	if c.isComponent() {
		compCtx.parentPageCtx = c.parentPageCtx
	} else {
		compCtx.parentPageCtx = c
	}
	compCtx.reqCtx = c.reqCtx
	initCtx(compCtx)
	c.componentRegistry[id] = compCtx
	return compCtx.view
}

func (c *Context) isComponent() bool {
	return c.parentPageCtx != nil
}

func (c *Context) page() *Context {
	if c.isComponent() {
		return c.parentPageCtx
	}
	return c
}

// Action registers an event handler and returns a trigger to that event that
// can be added to the view fn as any other h element.
//
// Example:
//
//	n := 0
//	increment := c.Action(func() {
//		n++
//		c.Sync()
//	})
//
//	c.View(func() h.H {
//		return h.Div(
//			h.P(h.Textf("Value of n: %d", n)),
//			h.Button(h.Text("Increment n"), increment.OnClick()),
//		)
//	})
func (c *Context) Action(f func(), opts ...ActionOption) *ActionTrigger {
	id := genRandID()
	if f == nil {
		c.app.logErr(c, "failed to bind action '%s' to context: nil func", id)
		return nil
	}
	entry := actionEntry{fn: f}
	for _, opt := range opts {
		opt(&entry)
	}
	p := c.page()
	p.mu.Lock()
	p.actionRegistry[id] = entry
	p.mu.Unlock()
	return &ActionTrigger{id: id}
}

func (c *Context) getAction(id string) (actionEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.actionRegistry[id]; ok {
		return e, nil
	}
	return actionEntry{}, fmt.Errorf("action '%s' not found", id)
}

// Signal creates a reactive signal and initializes it with the given value.
// Use Bind() to link the value of input elements to the signal and Text() to
// display the signal value and watch the UI update live as the input changes.
//
// Signals live in the browser; their values are injected into the Context
// before each action call. Server-side updates are sent with Sync() or SyncSignals().
func (c *Context) Signal(v any) *Signal {
	sigID := genRandID()
	if v == nil {
		c.app.logErr(c, "failed to bind signal: nil signal value")
		return &Signal{
			id:  sigID,
			val: "error",
			err: fmt.Errorf("context '%s' failed to bind signal '%s': nil signal value", c.id, sigID),
		}
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Struct, reflect.Map:
		if j, err := json.Marshal(v); err == nil {
			v = string(j)
		}
	}
	sig := &Signal{
		id:      sigID,
		val:     v,
		changed: true,
	}
	c.page().signals.Store(sigID, sig)
	return sig
}

func (c *Context) injectSignals(sigs map[string]any) {
	if sigs == nil {
		c.app.logErr(c, "signal injection failed: nil signals")
		return
	}
	for sigID, val := range sigs {
		item, ok := c.signals.Load(sigID)
		if !ok {
			c.signals.Store(sigID, &Signal{id: sigID, val: val})
			continue
		}
		if sig, ok := item.(*Signal); ok {
			sig.mu.Lock()
			sig.val = val
			sig.changed = false
			sig.mu.Unlock()
		}
	}
}

func (c *Context) prepareSignalsForPatch() map[string]any {
	updated := make(map[string]any)
	c.page().signals.Range(func(sigID, value any) bool {
		sig, ok := value.(*Signal)
		if !ok {
			return true
		}
		sig.mu.Lock()
		defer sig.mu.Unlock()
		if sig.err != nil {
			c.app.logWarn(c, "signal '%s' is out of sync: %v", sig.id, sig.err)
			return true
		}
		if sig.changed {
			updated[sigID.(string)] = fmt.Sprintf("%v", sig.val)
			sig.changed = false
		}
		return true
	})
	return updated
}

// sendPatch queues a patch on the page SSE stream. If the stream is closed or
// the queue is full, the patch is dropped to prevent runtime blocks.
func (c *Context) sendPatch(p patch) {
	select {
	case c.page().patchChan <- p:
	default:
	}
}

// Sync pushes the current view state and signal changes to the browser immediately
// over the live SSE event stream.
func (c *Context) Sync() {
	if c.view == nil {
		return
	}
	var buf bytes.Buffer
	if err := c.view().Render(&buf); err != nil {
		c.app.logErr(c, "sync view failed: %v", err)
		return
	}
	c.sendPatch(patch{patchTypeElements, buf.String()})
	c.SyncSignals()
}

// SyncElements pushes an immediate html patch that merges with the DOM. Each
// top level element needs an ID that matches an element already in the view.
func (c *Context) SyncElements(elem ...h.H) {
	var buf bytes.Buffer
	for idx, el := range elem {
		if el == nil {
			c.app.logWarn(c, "sync elements failed: element at idx=%d is nil", idx)
			continue
		}
		if err := el.Render(&buf); err != nil {
			c.app.logWarn(c, "sync elements failed: element at idx=%d has invalid html", idx)
		}
	}
	c.sendPatch(patch{patchTypeElements, buf.String()})
}

// SyncSignals pushes the current signal changes to the browser immediately
// over the live SSE event stream.
func (c *Context) SyncSignals() {
	updated := c.prepareSignalsForPatch()
	if len(updated) == 0 {
		return
	}
	out, err := json.Marshal(updated)
	if err != nil {
		c.app.logErr(c, "sync signals failed: %v", err)
		return
	}
	c.sendPatch(patch{patchTypeSignals, string(out)})
}

// ExecScript runs s in the browser.
func (c *Context) ExecScript(s string) {
	if s == "" {
		c.app.logWarn(c, "exec script failed: empty script")
		return
	}
	c.sendPatch(patch{patchTypeScript, s})
}

// Redirect navigates the browser to url.
func (c *Context) Redirect(url string) {
	if url == "" {
		c.app.logWarn(c, "redirect failed: empty url")
		return
	}
	c.sendPatch(patch{patchTypeRedirect, url})
}

// ReplaceURL swaps the browser URL without navigation.
func (c *Context) ReplaceURL(url string) {
	c.sendPatch(patch{patchTypeReplaceURL, url})
}

// Publish sends data on subject through the configured PubSub.
func (c *Context) Publish(subject string, data []byte) error {
	if c.id == "" {
		return nil
	}
	if c.app.pubsub == nil {
		return fmt.Errorf("publish '%s': no pubsub configured", subject)
	}
	return c.app.pubsub.Publish(subject, data)
}

// Subscribe registers handler for subject. The subscription is removed when
// the page context is disposed.
func (c *Context) Subscribe(subject string, handler func(data []byte)) (Subscription, error) {
	if c.id == "" {
		return nil, nil
	}
	if c.app.pubsub == nil {
		return nil, fmt.Errorf("subscribe '%s': no pubsub configured", subject)
	}
	sub, err := c.app.pubsub.Subscribe(subject, handler)
	if err != nil {
		return nil, err
	}
	p := c.page()
	p.subsMu.Lock()
	p.subscriptions = append(p.subscriptions, sub)
	p.subsMu.Unlock()
	return sub, nil
}

func (c *Context) unsubscribeAll() {
	c.subsMu.Lock()
	subs := c.subscriptions
	c.subscriptions = nil
	c.subsMu.Unlock()
	for _, sub := range subs {
		if err := sub.Unsubscribe(); err != nil {
			c.app.logDebug(c, "unsubscribe failed: %v", err)
		}
	}
}

// dispose drops pubsub subscriptions and closes the SSE stream of c. Safe to call more than once.
func (c *Context) dispose() {
	c.disposeOnce.Do(func() {
		c.unsubscribeAll()
		close(c.ctxDisposedChan)
	})
}

func (c *Context) injectRouteParams(params map[string]string) {
	if params == nil {
		return
	}
	m := make(map[string]string, len(params))
	maps.Copy(m, params)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routeParams = m
}

// GetPathParam retrieves the value from the page request URL for the given parameter name
// or an empty string if not found.
func (c *Context) GetPathParam(param string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.routeParams[param]
}

// RequestContext returns the context of the request currently served for
// this page, or context.Background before the first request.
func (c *Context) RequestContext() context.Context {
	if c.reqCtx == nil {
		return context.Background()
	}
	return c.reqCtx
}

// Session returns the session for this context.
// Returns a no-op session if no SessionManager is configured.
func (c *Context) Session() *Session {
	return &Session{
		ctx:     c.reqCtx,
		manager: c.app.sessionManager,
	}
}

func newContext(id string, route string, a *App) *Context {
	if a == nil {
		log.Fatal("create context failed: app pointer is nil")
	}

	return &Context{
		id:                id,
		route:             route,
		routeParams:       make(map[string]string),
		app:               a,
		componentRegistry: make(map[string]*Context),
		actionRegistry:    make(map[string]actionEntry),
		signals:           new(sync.Map),
		patchChan:         make(chan patch, 8),
		ctxDisposedChan:   make(chan struct{}, 1),
		csrfToken:         genCSRFToken(),
		createdAt:         time.Now(),
		actionLimiter:     newLimiter(a.actionRateLimit, defaultActionRate, defaultActionBurst),
	}
}
