// Package auth supplies the signed-in user. There is no login flow: the user
// is read from the session, falling back to a fixed default.
package auth

import (
	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/profile"
)

// Session keys holding the remembered user.
const (
	KeyUsername = "username"
	KeyTagline  = "tagline"
	KeyBio      = "bio"
)

// DefaultUser is returned when the session holds no user.
var DefaultUser = profile.User{Username: "jakiechan"}

// Session is the subset of *stateful.Session the provider needs.
type Session interface {
	GetString(key string) string
	Set(key string, val any)
}

var _ Session = (*stateful.Session)(nil)

// Provider resolves the current user.
type Provider struct {
	Default profile.User
}

// NewProvider returns a Provider falling back to DefaultUser.
func NewProvider() *Provider {
	return &Provider{Default: DefaultUser}
}

// User returns the remembered user, or the default when no username is stored.
func (p *Provider) User(s Session) profile.User {
	if s == nil {
		return p.Default
	}
	name := s.GetString(KeyUsername)
	if name == "" {
		return p.Default
	}
	return profile.User{
		Username: name,
		Tagline:  s.GetString(KeyTagline),
		Bio:      s.GetString(KeyBio),
	}
}

// Remember stores u in the session so the next page load starts from it.
func (p *Provider) Remember(s Session, u profile.User) {
	if s == nil {
		return
	}
	s.Set(KeyUsername, u.Username)
	s.Set(KeyTagline, u.Tagline)
	s.Set(KeyBio, u.Bio)
}
