package lessons

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/auth"
	"github.com/ryanhamamura/stateful/h"
	"github.com/ryanhamamura/stateful/profile"
	"github.com/ryanhamamura/stateful/userclient"
)

func newApp(t *testing.T, bus stateful.PubSub) *stateful.App {
	t.Helper()
	a := stateful.New()
	a.Config(stateful.Options{PubSub: bus, LogLevel: stateful.LogLevelError})
	Register(a, Deps{Updater: userclient.New(userclient.WithDelay(0)), Logger: zerolog.Nop()})
	return a
}

func get(t *testing.T, a *stateful.App, path string) string {
	t.Helper()
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	require.Equal(t, http.StatusOK, w.Code, path)
	return w.Body.String()
}

var (
	ctxRe    = regexp.MustCompile(`stateful-ctx&#39;:&#39;([^&]+)&#39;`)
	csrfRe   = regexp.MustCompile(`stateful-csrf&#39;:&#39;([0-9a-f]+)&#39;`)
	actionRe = regexp.MustCompile(`/_action/([0-9a-f]+)`)
)

// fire sends the n-th action found in body as the browser would.
func fire(t *testing.T, a *stateful.App, body string, n int) int {
	t.Helper()
	ctxID := ctxRe.FindStringSubmatch(body)
	csrf := csrfRe.FindStringSubmatch(body)
	actions := actionRe.FindAllStringSubmatch(body, -1)
	require.NotNil(t, ctxID)
	require.NotNil(t, csrf)
	require.Greater(t, len(actions), n)

	raw, err := json.Marshal(map[string]string{"stateful-ctx": ctxID[1], "stateful-csrf": csrf[1]})
	require.NoError(t, err)
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest("GET",
		"/_action/"+actions[n][1]+"?datastar="+url.QueryEscape(string(raw)), nil))
	return w.Code
}

func TestRegister_ServesEveryLesson(t *testing.T) {
	a := newApp(t, nil)

	index := get(t, a, "/")
	for _, l := range all {
		assert.Contains(t, index, `href="`+l.route+`"`)
	}

	assert.Contains(t, get(t, a, "/01"), "jakiechan")
	assert.Contains(t, get(t, a, "/02"), "The button is off")
	assert.Contains(t, get(t, a, "/02"), "<span>Hello</span>")
	assert.Contains(t, get(t, a, "/03"), "The button is off")
	assert.Contains(t, get(t, a, "/04"), `id="custom-button-id"`)
	assert.Contains(t, get(t, a, "/05"), "Reset")
	assert.Contains(t, get(t, a, "/06"), "Click count: 0")
	assert.Contains(t, get(t, a, "/counter"), "Current Count: 0")
}

func TestControlPropsPage_BroadcastsBoth(t *testing.T) {
	bus := stateful.NewMemoryPubSub()
	a := newApp(t, bus)

	var got []Both
	_, err := bus.Subscribe(BothSubject, func(data []byte) {
		var b Both
		require.NoError(t, json.Unmarshal(data, &b))
		got = append(got, b)
	})
	require.NoError(t, err)

	body := get(t, a, "/06")
	assert.Equal(t, http.StatusOK, fire(t, a, body, 0))
	assert.Equal(t, []Both{{On: true, Clicks: 1}}, got)
}

func TestProfilePage_SubmitPublishes(t *testing.T) {
	bus := stateful.NewMemoryPubSub()
	a := newApp(t, bus)

	var got profile.User
	_, err := bus.Subscribe(ProfileSubject, func(data []byte) {
		require.NoError(t, json.Unmarshal(data, &got))
	})
	require.NoError(t, err)

	body := get(t, a, "/01")
	// actions render in view order: submit, edit (tagline), edit (bio), reset
	assert.Equal(t, http.StatusOK, fire(t, a, body, 0))
	assert.Equal(t, "jakiechan", got.Username)
}

func render(t *testing.T, n h.H) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(&buf))
	return buf.String()
}

func TestCompound_BindsDirectPartsOnly(t *testing.T) {
	out := render(t, h.Div(Toggle(Flip{On: true},
		ToggleOn(h.Text("The button is on")),
		ToggleOff(h.Text("The button is off")),
		h.Span(h.Text("Hello")),
		ToggleButton(),
	)))
	assert.Contains(t, out, "The button is on")
	assert.NotContains(t, out, "The button is off")
	assert.Contains(t, out, "<span>Hello</span>")
	assert.Contains(t, out, "toggle-btn-on")
}

func TestCompound_PartOutsideToggleFails(t *testing.T) {
	var buf bytes.Buffer
	err := h.Div(ToggleOn(h.Text("orphan"))).Render(&buf)
	assert.ErrorIs(t, err, ErrOutsideToggle)

	var s *Shared
	assert.ErrorIs(t, h.Div(s.On(h.Text("orphan"))).Render(&buf), ErrOutsideToggle)
}

func TestShared_NestedParts(t *testing.T) {
	s := NewShared(Flip{On: false})
	out := render(t, h.Div(s.On(h.Text("on")), h.Div(h.Div(s.Off(h.Text("deep off"))), s.Button())))
	assert.Contains(t, out, "deep off")
	assert.Contains(t, out, "toggle-btn-off")
	assert.NotContains(t, out, ">on<")
}

func TestPropGetters_ButtonLogsThenToggles(t *testing.T) {
	var buf bytes.Buffer
	p := NewPropGetters(zerolog.New(&buf))

	props := p.ButtonProps()
	assert.Equal(t, "custom-button", props.String("aria-label"))
	assert.False(t, props.Bool("aria-pressed"))

	props.Click()
	assert.True(t, p.On())
	assert.Contains(t, buf.String(), "onButtonClick")

	p.SwitchProps().Click()
	assert.False(t, p.On())
}

func TestStateReducer_RefusesAfterFourClicks(t *testing.T) {
	s := NewStateReducer()
	for range MaxClicks {
		s.Click()
	}
	assert.False(t, s.On(), "four toggles land back on off")
	assert.True(t, s.TooMuch())
	assert.True(t, s.TogglerProps().Bool("disabled"))

	s.Click()
	assert.False(t, s.On(), "toggle refused")
	assert.Equal(t, MaxClicks+1, s.Clicks())

	s.Reset()
	assert.Zero(t, s.Clicks())
	assert.False(t, s.TooMuch())
	s.Click()
	assert.True(t, s.On())
}

func TestControlProps_BothFollowParent(t *testing.T) {
	var published []Both
	cp := NewControlProps(zerolog.Nop(), func(b Both) { published = append(published, b) })

	cp.Click(cp.Left())
	assert.True(t, cp.Left().On())
	assert.True(t, cp.Right().On())

	cp.Click(cp.Right())
	assert.False(t, cp.Left().On())
	assert.Equal(t, Both{On: false, Clicks: 2}, cp.Both())
	assert.Len(t, published, 2)

	cp.Click(cp.Free())
	assert.True(t, cp.Free().On())
	assert.Equal(t, 2, cp.Both().Clicks, "the uncontrolled toggle is independent")
}

func TestControlProps_StopsAfterTooManyClicks(t *testing.T) {
	cp := NewControlProps(zerolog.Nop(), nil)
	for range MaxClicks + 1 {
		cp.Click(cp.Left())
	}
	before := cp.Both()
	assert.True(t, cp.TooMuch())

	cp.Click(cp.Right())
	assert.Equal(t, before, cp.Both())

	cp.Reset()
	assert.Equal(t, Both{}, cp.Both())
	assert.False(t, cp.Left().On())
}

func TestControlProps_Apply(t *testing.T) {
	cp := NewControlProps(zerolog.Nop(), nil)
	assert.True(t, cp.Apply(Both{On: true, Clicks: 3}))
	assert.False(t, cp.Apply(Both{On: true, Clicks: 3}))
	assert.True(t, cp.Right().On())
}

func TestCounterStore(t *testing.T) {
	s := NewCounterStore(0, 1)
	IncrementCounter(s)
	IncrementCounter(s)
	DecrementCounter(s)
	assert.Equal(t, 1, s.Count())

	s.Dispatch(Increment{Step: 5})
	assert.Equal(t, 6, s.Count())

	big := NewCounterStore(10, 0)
	big.Dispatch(Decrement{})
	assert.Equal(t, 9, big.Count())

	assert.Panics(t, func() { s.Dispatch(&Increment{}) })
}

func TestProfileForm_Workflow(t *testing.T) {
	store := profile.NewStore(auth.DefaultUser)
	f := NewProfileForm(store)
	updater := userclient.New(userclient.WithDelay(0))

	assert.False(t, f.CanSubmit())
	assert.Equal(t, "✔", f.SubmitLabel())

	f.Edit("hello", "")
	assert.True(t, f.CanSubmit())
	assert.True(t, f.CanReset())
	assert.Equal(t, "Submit", f.SubmitLabel())

	u, err := f.Submit(context.Background(), updater)
	require.NoError(t, err)
	assert.Equal(t, "hello", u.Tagline)
	assert.False(t, f.Changed())
	assert.Equal(t, profile.Resolved, store.State().Status)

	f.Edit("hello", "this will fail")
	_, err = f.Submit(context.Background(), updater)
	require.Error(t, err)
	assert.Equal(t, "✖ Try again", f.SubmitLabel())
	assert.True(t, f.CanSubmit())
	assert.Equal(t, "this will fail", f.Form().Bio, "typed values survive a rejection")
	assert.Equal(t, "", store.State().User.Bio, "store rolled back")

	f.Reset()
	assert.Equal(t, profile.Idle, store.State().Status)
	assert.Nil(t, store.State().Err)
}

func TestProfileForm_Remote(t *testing.T) {
	store := profile.NewStore(auth.DefaultUser)
	f := NewProfileForm(store)

	assert.False(t, f.Remote(profile.User{Username: "someoneelse", Bio: "x"}))
	assert.True(t, f.Remote(profile.User{Username: "jakiechan", Bio: "from another tab"}))
	assert.Equal(t, "from another tab", store.State().User.Bio)
	assert.False(t, f.Remote(store.State().User))
}
