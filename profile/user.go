package profile

// User is the profile entity.
type User struct {
	Username string `json:"username" validate:"required,max=40"`
	Tagline  string `json:"tagline" validate:"max=140"`
	Bio      string `json:"bio" validate:"max=2000"`
}

// Updates are the changed fields of a User. Nil fields are left alone.
type Updates struct {
	Username *string `json:"username,omitempty"`
	Tagline  *string `json:"tagline,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// Changes returns Updates that set every field of u.
func Changes(u User) Updates {
	return Updates{Username: &u.Username, Tagline: &u.Tagline, Bio: &u.Bio}
}

// Apply returns u with the non-nil fields of up applied.
func (u User) Apply(up Updates) User {
	if up.Username != nil {
		u.Username = *up.Username
	}
	if up.Tagline != nil {
		u.Tagline = *up.Tagline
	}
	if up.Bio != nil {
		u.Bio = *up.Bio
	}
	return u
}
