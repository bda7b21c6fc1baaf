package stateful

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanhamamura/stateful/h"
)

func signalFromPage(t *testing.T, v any) *Signal {
	t.Helper()
	var sig *Signal
	a := New()
	a.Page("/", func(c *Context) {
		sig = c.Signal(v)
		c.View(func() h.H { return h.Div() })
	})
	require.NotNil(t, sig)
	return sig
}

func TestSignal_String(t *testing.T) {
	testcases := []struct {
		desc     string
		given    any
		expected string
	}{
		{"string", "jakiechan", "jakiechan"},
		{"int", 4, "4"},
		{"negative float", -34.345, "-34.345"},
		{"bool", true, "true"},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, signalFromPage(t, tc.given).String())
		})
	}
}

func TestSignal_ComplexValuesAreJSON(t *testing.T) {
	testcases := []struct {
		desc     string
		given    any
		expected string
	}{
		{"string slice", []string{"on"}, `["on"]`},
		{"struct", struct{ Username string }{"jakiechan"}, `{"Username": "jakiechan"}`},
		{"map", map[string]bool{"on": true}, `{"on": true}`},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			assert.JSONEq(t, tc.expected, signalFromPage(t, tc.given).String())
		})
	}
}

func TestSignal_Conversions(t *testing.T) {
	sig := signalFromPage(t, "on")
	assert.True(t, sig.Bool())

	sig.SetValue("false")
	assert.False(t, sig.Bool())

	sig.SetValue("12")
	assert.Equal(t, 12, sig.Int())

	// numbers injected from the browser arrive as float64
	sig.SetValue(3.0)
	assert.Equal(t, 3, sig.Int())
	assert.InDelta(t, 3.0, sig.Float(), 0.001)

	sig.SetValue("nope")
	assert.Equal(t, 0, sig.Int())
}

func TestSignal_NilValueCarriesError(t *testing.T) {
	sig := signalFromPage(t, nil)
	assert.Error(t, sig.Err())
}

func TestSignal_InjectAndPatch(t *testing.T) {
	a := New()
	c := newContext("sig-ctx", "/", a)
	username := c.Signal("jakiechan")
	tagline := c.Signal("")

	// new signals are sent on the first patch only
	first := c.prepareSignalsForPatch()
	assert.Len(t, first, 2)
	assert.Empty(t, c.prepareSignalsForPatch())

	c.injectSignals(map[string]any{username.ID(): "kentcdodds"})
	assert.Equal(t, "kentcdodds", username.String())
	assert.Empty(t, c.prepareSignalsForPatch(), "injected values come from the browser")

	tagline.SetValue("hi")
	assert.Equal(t, map[string]any{tagline.ID(): "hi"}, c.prepareSignalsForPatch())
}

func TestSignal_ComponentSharesPageSignals(t *testing.T) {
	a := New()
	page := newContext("page-ctx", "/", a)
	var sig *Signal
	page.Component(func(c *Context) {
		sig = c.Signal("off")
		c.View(func() h.H { return h.Div() })
	})

	page.injectSignals(map[string]any{sig.ID(): "on"})
	assert.True(t, sig.Bool())
}
