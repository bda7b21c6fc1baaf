// Package userclient is a stand-in for the remote user service. It waits a
// fixed delay, rejects any update whose new tagline or bio mentions "fail"
// and validates the merged user.
package userclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ryanhamamura/stateful/profile"
)

// DefaultDelay simulates a real-world round trip.
const DefaultDelay = 1500 * time.Millisecond

// RejectMessage is the message of a simulated server failure.
const RejectMessage = "Something went wrong"

// Client implements profile.Updater.
type Client struct {
	delay    time.Duration
	validate *validator.Validate
}

// Option configures a Client.
type Option func(*Client)

// WithDelay overrides DefaultDelay. Zero disables the wait.
func WithDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

// New returns a Client.
func New(opts ...Option) *Client {
	c := &Client{
		delay:    DefaultDelay,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpdateUser returns user with updates applied after the configured delay.
// A cancelled ctx aborts the wait.
func (c *Client) UpdateUser(ctx context.Context, user profile.User, updates profile.Updates) (profile.User, error) {
	if c.delay > 0 {
		t := time.NewTimer(c.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return profile.User{}, fmt.Errorf("userclient: update %s: %w", user.Username, ctx.Err())
		case <-t.C:
		}
	}

	if strings.Contains(deref(updates.Tagline)+" "+deref(updates.Bio), "fail") {
		return profile.User{}, &profile.Rejection{Payload: map[string]any{"message": RejectMessage}}
	}
	next := user.Apply(updates)
	if err := c.validate.Struct(next); err != nil {
		return profile.User{}, fmt.Errorf("userclient: invalid user: %w", err)
	}
	return next, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ profile.Updater = (*Client)(nil)
