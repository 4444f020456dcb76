// Package auth materializes a verified token into a local session and
// projects it onto the surfaces a caller may see. Trust is established
// once, at verification time; the session is a capability record, not an
// identity.
package auth

import (
	"fmt"

	"puckpool-backend/state"
	"puckpool-backend/token"
)

// Session is the persisted authorization decision.
type Session struct {
	Role   string         `json:"role"`
	Claims map[string]any `json:"claims"`
	Token  string         `json:"token"`
}

func (s *Session) IsManager() bool {
	return s != nil && s.Role == token.RoleManager
}

// SessionStore persists the last successfully verified session.
type SessionStore struct {
	store *state.Store
}

func NewSessionStore(store *state.Store) *SessionStore {
	return &SessionStore{store: store}
}

// Establish overwrites any prior session with the newly verified one.
func (s *SessionStore) Establish(role string, claims map[string]any, rawToken string) error {
	sess := Session{Role: role, Claims: claims, Token: rawToken}
	if err := s.store.SaveSession(sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Current returns the persisted session, or nil when absent or corrupt.
// It never returns an error.
func (s *SessionStore) Current() *Session {
	var sess Session
	if !s.store.LoadSession(&sess) {
		return nil
	}
	if sess.Role != token.RoleViewer && sess.Role != token.RoleManager {
		return nil
	}
	return &sess
}

// Clear removes the session (logout).
func (s *SessionStore) Clear() error {
	return s.store.ClearSession()
}

// Access is the visibility projection for the current session.
type Access struct {
	Gate    bool `json:"gate"`
	App     bool `json:"app"`
	Manager bool `json:"manager"`
}

// AccessFor is a pure, idempotent projection: no session shows the gate,
// any session shows the app, a manager session also shows the manager
// surfaces.
func AccessFor(sess *Session) Access {
	if sess == nil {
		return Access{Gate: true}
	}
	return Access{App: true, Manager: sess.IsManager()}
}
