package toggle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTogglerProps_CallerHandlerRunsFirst(t *testing.T) {
	var calls []string
	m := New(Options{
		Controls: Controls{
			OnChange: func(s State, a Action) { calls = append(calls, "toggle") },
		},
	})

	p := m.TogglerProps(Props{OnClick: func() { calls = append(calls, "caller") }})
	assert.False(t, p.Bool(AttrAriaPressed))
	p.Click()

	assert.Equal(t, []string{"caller", "toggle"}, calls)
	assert.True(t, m.On())
	assert.True(t, m.TogglerProps(Props{}).Bool(AttrAriaPressed))
}

func TestTogglerProps_OverridesWin(t *testing.T) {
	m := New(Options{})
	p := m.TogglerProps(Props{Attrs: map[string]any{
		AttrDisabled:    true,
		AttrAriaPressed: "mixed",
		"id":            "custom-button-id",
	}})

	assert.True(t, p.Bool(AttrDisabled))
	assert.Equal(t, "mixed", p.String(AttrAriaPressed))
	assert.Equal(t, "custom-button-id", p.String("id"))
	assert.False(t, p.Bool(AttrOn))
}

func TestResetterProps(t *testing.T) {
	clicked := 0
	m := New(Options{InitialOn: true})
	m.Toggle()

	p := m.ResetterProps(Props{OnClick: func() { clicked++ }})
	p.Click()

	assert.Equal(t, 1, clicked)
	assert.True(t, m.On())
	assert.Empty(t, p.Attrs)
}

func TestCallAll_SkipsNil(t *testing.T) {
	n := 0
	inc := func() { n++ }
	CallAll(nil, inc, nil, inc)()
	assert.Equal(t, 2, n)
	Props{}.Click()
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	defaults := Props{Attrs: map[string]any{"a": 1}}
	overrides := Props{Attrs: map[string]any{"a": 2, "b": 3}}
	merged := Merge(defaults, overrides)

	assert.Equal(t, map[string]any{"a": 2, "b": 3}, merged.Attrs)
	assert.Equal(t, map[string]any{"a": 1}, defaults.Attrs)
}
