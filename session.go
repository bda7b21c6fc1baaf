package stateful

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

const createSessionsTable = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`

// NewSQLiteSessionManager creates the sessions table in db when missing and
// returns a session manager persisting to it. The caller opens db with the
// sqlite3 driver and owns closing it.
func NewSQLiteSessionManager(db *sql.DB) (*scs.SessionManager, error) {
	if db == nil {
		return nil, fmt.Errorf("session store: nil db")
	}
	if _, err := db.Exec(createSessionsTable); err != nil {
		return nil, fmt.Errorf("session store: create table: %w", err)
	}
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return sm, nil
}

// Session provides access to the browser's session data. Every method is a
// no-op when the App has no SessionManager.
type Session struct {
	ctx     context.Context
	manager *scs.SessionManager
}

func (s *Session) ok() bool {
	return s.manager != nil && s.ctx != nil
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) any {
	if !s.ok() {
		return nil
	}
	return s.manager.Get(s.ctx, key)
}

// GetString retrieves a string value from the session.
func (s *Session) GetString(key string) string {
	if !s.ok() {
		return ""
	}
	return s.manager.GetString(s.ctx, key)
}

// GetInt retrieves an int value from the session.
func (s *Session) GetInt(key string) int {
	if !s.ok() {
		return 0
	}
	return s.manager.GetInt(s.ctx, key)
}

// GetBool retrieves a bool value from the session.
func (s *Session) GetBool(key string) bool {
	if !s.ok() {
		return false
	}
	return s.manager.GetBool(s.ctx, key)
}

// Set stores a value in the session.
func (s *Session) Set(key string, val any) {
	if !s.ok() {
		return
	}
	s.manager.Put(s.ctx, key, val)
}

// Delete removes a value from the session.
func (s *Session) Delete(key string) {
	if !s.ok() {
		return
	}
	s.manager.Remove(s.ctx, key)
}

// PopString retrieves a string value and deletes it from the session.
func (s *Session) PopString(key string) string {
	if !s.ok() {
		return ""
	}
	return s.manager.PopString(s.ctx, key)
}

// Exists reports whether key is set.
func (s *Session) Exists(key string) bool {
	if !s.ok() {
		return false
	}
	return s.manager.Exists(s.ctx, key)
}

// RenewToken regenerates the session token.
func (s *Session) RenewToken() error {
	if !s.ok() {
		return nil
	}
	return s.manager.RenewToken(s.ctx)
}

// Destroy destroys the session entirely.
func (s *Session) Destroy() error {
	if !s.ok() {
		return nil
	}
	return s.manager.Destroy(s.ctx)
}

// ID returns the session token (cookie value).
func (s *Session) ID() string {
	if !s.ok() {
		return ""
	}
	return s.manager.Token(s.ctx)
}
