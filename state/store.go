// Package state owns the persisted JSON documents: the league itself, the
// auth session and the remote-source config. Each lives in its own file
// under the data directory and is written back synchronously after every
// mutation. A corrupt or missing document is treated as absent and reset
// to defaults; only the explicit league import surfaces a parse error.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"puckpool-backend/models"
)

const (
	leagueFile  = "league.json"
	sessionFile = "session.json"
	sourcesFile = "sources.json"
)

// RemoteSources holds the published CSV feed URLs. Empty URL = feed not
// configured.
type RemoteSources struct {
	PlayersURL string `json:"playersUrl"`
	PoolersURL string `json:"poolersUrl"`
	RostersURL string `json:"rostersUrl"`
	StatsURL   string `json:"statsUrl"`
}

// Merge overlays the non-empty URLs of o onto r, one key at a time, and
// reports whether anything changed. Empty fields in o leave the saved
// value alone.
func (r *RemoteSources) Merge(o RemoteSources) bool {
	changed := false
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&r.PlayersURL, o.PlayersURL},
		{&r.PoolersURL, o.PoolersURL},
		{&r.RostersURL, o.RostersURL},
		{&r.StatsURL, o.StatsURL},
	} {
		if f.src != "" && f.src != *f.dst {
			*f.dst = f.src
			changed = true
		}
	}
	return changed
}

// Store serializes every league read and mutation behind one lock, so
// handlers and the refresh loop never see a half-applied mutation.
type Store struct {
	dir string
	log zerolog.Logger

	mu     sync.Mutex
	league *models.League
}

func New(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dir: dir, log: log}
	league := models.DefaultLeague()
	if ok := s.readDoc(leagueFile, league); !ok {
		league = models.DefaultLeague()
	}
	league.Normalize()
	s.league = league
	return s, nil
}

// View calls fn with the league document under the store lock. fn must not
// retain references past the call.
func (s *Store) View(fn func(l *models.League)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.league)
}

// Update calls fn with the league document under the store lock and
// persists it when fn succeeds.
func (s *Store) Update(fn func(l *models.League) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.league); err != nil {
		return err
	}
	return s.writeDoc(leagueFile, s.league)
}

// Replace swaps in a whole new league document (the JSON snapshot import).
func (s *Store) Replace(l *models.League) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.Normalize()
	s.league = l
	return s.writeDoc(leagueFile, s.league)
}

// Snapshot returns a deep copy of the league document.
func (s *Store) Snapshot() *models.League {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(s.league)
	if err != nil {
		s.log.Error().Err(err).Msg("league snapshot marshal failed")
		return models.DefaultLeague()
	}
	var out models.League
	if err := json.Unmarshal(raw, &out); err != nil {
		s.log.Error().Err(err).Msg("league snapshot unmarshal failed")
		return models.DefaultLeague()
	}
	out.Normalize()
	return &out
}

// Sources reads the remote-source config, defaulting to empty URLs.
func (s *Store) Sources() RemoteSources {
	var src RemoteSources
	s.readDoc(sourcesFile, &src)
	return src
}

func (s *Store) SaveSources(src RemoteSources) error {
	return s.writeDoc(sourcesFile, src)
}

// LoadSession reads the persisted auth session into v. Returns false on
// absence or corrupt data, never an error.
func (s *Store) LoadSession(v any) bool {
	return s.readDoc(sessionFile, v)
}

func (s *Store) SaveSession(v any) error {
	return s.writeDoc(sessionFile, v)
}

func (s *Store) ClearSession() error {
	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) readDoc(name string, v any) bool {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("doc", name).Msg("document unreadable, using defaults")
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.log.Warn().Err(err).Str("doc", name).Msg("document corrupt, using defaults")
		return false
	}
	return true
}

func (s *Store) writeDoc(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
