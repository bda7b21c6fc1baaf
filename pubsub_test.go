package stateful

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanhamamura/stateful/h"
)

func newBusContext(t *testing.T, id string, bus PubSub) *Context {
	t.Helper()
	a := New()
	a.Config(Options{PubSub: bus})
	c := newContext(id, "/", a)
	c.View(func() h.H { return h.Div() })
	return c
}

func TestMemoryPubSub_FanOut(t *testing.T) {
	bus := NewMemoryPubSub()
	c1 := newBusContext(t, "ctx-1", bus)
	c2 := newBusContext(t, "ctx-2", bus)

	var got []string
	_, err := c1.Subscribe("toggle.both", func(data []byte) { got = append(got, "c1:"+string(data)) })
	require.NoError(t, err)
	_, err = c2.Subscribe("toggle.both", func(data []byte) { got = append(got, "c2:"+string(data)) })
	require.NoError(t, err)

	require.NoError(t, c1.Publish("toggle.both", []byte("on")))
	assert.Equal(t, []string{"c1:on", "c2:on"}, got)
}

func TestMemoryPubSub_Unsubscribe(t *testing.T) {
	bus := NewMemoryPubSub()
	c := newBusContext(t, "unsub-ctx", bus)

	called := false
	sub, err := c.Subscribe("topic", func([]byte) { called = true })
	require.NoError(t, err)
	require.NoError(t, sub.Unsubscribe())

	require.NoError(t, c.Publish("topic", []byte("ignored")))
	assert.False(t, called)
	assert.Empty(t, bus.subs["topic"])
}

func TestMemoryPubSub_Closed(t *testing.T) {
	bus := NewMemoryPubSub()
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish("topic", nil), ErrPubSubClosed)
	_, err := bus.Subscribe("topic", func([]byte) {})
	assert.ErrorIs(t, err, ErrPubSubClosed)
}

func TestContext_DisposeUnsubscribes(t *testing.T) {
	bus := NewMemoryPubSub()
	c := newBusContext(t, "dispose-ctx", bus)

	calls := 0
	_, _ = c.Subscribe("room.1", func([]byte) { calls++ })
	_, _ = c.Subscribe("room.2", func([]byte) { calls++ })
	assert.Len(t, c.subscriptions, 2)

	c.dispose()
	c.dispose()
	assert.Empty(t, c.subscriptions)

	_ = bus.Publish("room.1", nil)
	assert.Zero(t, calls)
}

func TestComponentSubscriptionsBelongToPage(t *testing.T) {
	bus := NewMemoryPubSub()
	page := newBusContext(t, "page-ctx", bus)
	page.Component(func(c *Context) {
		_, _ = c.Subscribe("toggle.both", func([]byte) {})
		c.View(func() h.H { return h.Div() })
	})
	assert.Len(t, page.subscriptions, 1)
}

func TestPubSub_ErrorsWhenNotConfigured(t *testing.T) {
	c := newBusContext(t, "noop-ctx", nil)

	assert.Error(t, c.Publish("topic", []byte("data")))
	sub, err := c.Subscribe("topic", func([]byte) {})
	assert.Error(t, err)
	assert.Nil(t, sub)
}

func TestPubSub_NoOpDuringRegistration(t *testing.T) {
	c := newBusContext(t, "", NewMemoryPubSub())

	assert.NoError(t, c.Publish("topic", []byte("data")))
	sub, err := c.Subscribe("topic", func([]byte) {})
	assert.NoError(t, err)
	assert.Nil(t, sub)
}

func TestTypedPublishSubscribe(t *testing.T) {
	type toggled struct {
		On     bool   `json:"on"`
		Source string `json:"source"`
	}
	c := newBusContext(t, "typed-ctx", NewMemoryPubSub())

	var got toggled
	_, err := Subscribe(c, "toggle.both", func(e toggled) { got = e })
	require.NoError(t, err)

	require.NoError(t, Publish(c, "toggle.both", toggled{On: true, Source: "left"}))
	assert.Equal(t, toggled{On: true, Source: "left"}, got)
}

func TestTypedSubscribe_SkipsBadJSON(t *testing.T) {
	c := newBusContext(t, "bad-json-ctx", NewMemoryPubSub())

	called := false
	_, err := Subscribe(c, "topic", func(struct{ On bool }) { called = true })
	require.NoError(t, err)

	require.NoError(t, c.Publish("topic", []byte("not json")))
	assert.False(t, called)
}
