// Package profile holds the user-profile update workflow: a Store that owns
// the profile state, a reducer with four actions and Update, the async
// function that drives a remote update through the store.
//
// An update optimistically applies the changes and snapshots the previous
// user, then either keeps the collaborator's result or restores the snapshot
// and records a normalized error.
package profile
