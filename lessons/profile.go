package lessons

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/h"
	"github.com/ryanhamamura/stateful/profile"
)

// ProfileSubject carries successful profile updates between open pages.
const ProfileSubject = "profile.updated"

// ProfileForm is the edit form of the profile page: the values being typed,
// compared against the store's user.
type ProfileForm struct {
	mu    sync.Mutex
	store *profile.Store
	form  profile.User
}

// NewProfileForm starts the form from the store's user.
func NewProfileForm(store *profile.Store) *ProfileForm {
	return &ProfileForm{store: store, form: store.State().User}
}

// Store returns the store the form edits.
func (f *ProfileForm) Store() *profile.Store {
	return f.store
}

// Form returns the values being edited.
func (f *ProfileForm) Form() profile.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// Edit records typed values. The username is not editable.
func (f *ProfileForm) Edit(tagline, bio string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.form.Tagline = tagline
	f.form.Bio = bio
}

// Changed reports whether the form differs from the stored user.
func (f *ProfileForm) Changed() bool {
	return f.Form() != f.store.State().User
}

// CanReset reports whether the reset button is enabled.
func (f *ProfileForm) CanReset() bool {
	return f.Changed() && f.store.State().Status != profile.Pending
}

// CanSubmit reports whether the submit button is enabled. A rejected update
// may be retried without further edits.
func (f *ProfileForm) CanSubmit() bool {
	s := f.store.State()
	if s.Status == profile.Pending {
		return false
	}
	return f.Changed() || s.Status == profile.Rejected
}

// SubmitLabel is the submit button text for the current state.
func (f *ProfileForm) SubmitLabel() string {
	switch {
	case f.store.State().Status == profile.Pending:
		return "..."
	case f.store.State().Status == profile.Rejected:
		return "✖ Try again"
	case f.Changed():
		return "Submit"
	default:
		return "✔"
	}
}

// Submit sends the form through profile.Update. On success the form adopts
// the updated user; on failure it keeps the typed values.
func (f *ProfileForm) Submit(ctx context.Context, updater profile.Updater) (profile.User, error) {
	user := f.store.State().User
	updated, err := profile.Update(ctx, f.store, updater, user, profile.Changes(f.Form()))
	if err != nil {
		return profile.User{}, err
	}
	f.mu.Lock()
	f.form = updated
	f.mu.Unlock()
	return updated, nil
}

// Reset clears the typed values and the last error.
func (f *ProfileForm) Reset() {
	f.mu.Lock()
	f.form = profile.User{Username: f.form.Username}
	f.mu.Unlock()
	f.store.Dispatch(profile.Reset{})
}

// Remote adopts an update made on another page for the same user. It returns
// false when nothing changed or an update of our own is pending.
func (f *ProfileForm) Remote(u profile.User) bool {
	s := f.store.State()
	if s.Status == profile.Pending || u.Username != s.User.Username || u == s.User {
		return false
	}
	f.store.Dispatch(profile.FinishUpdate{Updated: u})
	f.mu.Lock()
	f.form = u
	f.mu.Unlock()
	return true
}

func profilePage(d Deps) func(c *stateful.Context) {
	return func(c *stateful.Context) {
		user := d.Auth.User(c.Session())
		pf := NewProfileForm(profile.NewStore(user, profile.WithLogger(d.Logger)))
		tagline := c.Signal(user.Tagline)
		bio := c.Signal(user.Bio)

		pf.Store().Subscribe(func(profile.State) { c.Sync() })

		syncSignals := func() {
			f := pf.Form()
			tagline.SetValue(f.Tagline)
			bio.SetValue(f.Bio)
		}

		edit := c.Action(func() {
			pf.Edit(tagline.String(), bio.String())
			c.Sync()
		})
		submit := c.Action(func() {
			pf.Edit(tagline.String(), bio.String())
			updated, err := pf.Submit(c.RequestContext(), d.Updater)
			if err != nil {
				// shown from State.Err
				d.Logger.Debug().Err(err).Str("username", user.Username).Msg("profile update failed")
				return
			}
			d.Auth.Remember(c.Session(), updated)
			if err := stateful.Publish(c, ProfileSubject, updated); err != nil {
				d.Logger.Debug().Err(err).Msg("profile broadcast skipped")
			}
		})
		reset := c.Action(func() {
			pf.Reset()
			syncSignals()
			c.Sync()
		})

		_, _ = stateful.Subscribe(c, ProfileSubject, func(u profile.User) {
			if pf.Remote(u) {
				syncSignals()
				c.Sync()
			}
		})

		c.View(func() h.H {
			s := pf.Store().State()
			f := pf.Form()
			var errMsg h.H
			if s.Status == profile.Rejected && s.Err != nil {
				errMsg = h.Pre(h.Style("color: red"), h.Text(s.Err.Message))
			}
			return page("01 Context Module Functions",
				h.Div(h.Style("min-height: 350px; width: 300px; background-color: #ddd; border-radius: 4px; padding: 10px"),
					h.Form(submit.OnSubmit(),
						formField("username", "Username",
							h.Input(h.ID("username"), h.Name("username"), h.Disabled(), h.ReadOnly(), h.Value(f.Username))),
						formField("tagline", "Tagline",
							h.Input(h.ID("tagline"), h.Name("tagline"), tagline.Bind(), edit.OnChange())),
						formField("bio", "Biography",
							h.Textarea(h.ID("bio"), h.Name("bio"), bio.Bind(), edit.OnChange())),
						h.Div(
							h.Button(h.Type("button"), reset.OnClick(), h.If(!pf.CanReset(), h.Disabled()), h.Text("Reset")),
							h.Button(h.Type("submit"), h.If(!pf.CanSubmit(), h.Disabled()), h.Text(pf.SubmitLabel())),
							errMsg,
						),
					),
					h.Pre(h.Data("testid", "user-data"), h.Text(userJSON(s.User))),
				),
			)
		})
	}
}

func formField(id, label string, input h.H) h.H {
	return h.Div(h.Style("margin-bottom: 12px"),
		h.Label(h.Style("display: block"), h.For(id), h.Text(label)),
		h.Div(h.Style("width: 100%"), input),
	)
}

func userJSON(u profile.User) string {
	b, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(b)
}
