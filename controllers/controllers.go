// Package controllers holds the Fiber handlers. Dependencies are injected
// through the API struct so handlers share one owned store instead of
// package globals.
package controllers

import (
	"errors"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"puckpool-backend/auth"
	"puckpool-backend/feeds"
	"puckpool-backend/state"
	"puckpool-backend/token"
)

var errDuplicateName = errors.New("duplicate name")

type API struct {
	Store      *state.Store
	Sessions   *auth.SessionStore
	Verifier   *token.Verifier
	Reconciler *feeds.Reconciler
	Clock      clockwork.Clock
	Log        zerolog.Logger
}
