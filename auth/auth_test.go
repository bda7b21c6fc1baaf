package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ryanhamamura/stateful/profile"
)

type mapSession map[string]any

func (m mapSession) GetString(key string) string {
	s, _ := m[key].(string)
	return s
}

func (m mapSession) Set(key string, val any) { m[key] = val }

func TestProvider_DefaultsToJakiechan(t *testing.T) {
	p := NewProvider()
	assert.Equal(t, profile.User{Username: "jakiechan"}, p.User(mapSession{}))
	assert.Equal(t, DefaultUser, p.User(nil))
}

func TestProvider_RememberRoundTrip(t *testing.T) {
	p := NewProvider()
	s := mapSession{}
	u := profile.User{Username: "kentcdodds", Tagline: "teacher", Bio: "likes reducers"}

	p.Remember(s, u)
	assert.Equal(t, u, p.User(s))
}

func TestProvider_CustomDefault(t *testing.T) {
	p := &Provider{Default: profile.User{Username: "guest"}}
	assert.Equal(t, "guest", p.User(mapSession{}).Username)
}
