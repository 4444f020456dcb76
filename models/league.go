package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// League is the single persisted document the whole tracker works on.
type League struct {
	Scoring         ScoringConfig `json:"scoring"`
	BoxRulesEnabled bool          `json:"boxRulesEnabled"`
	Players         []Player      `json:"players"`
	Poolers         []Pooler      `json:"poolers"`
	Stats           StatsLedger   `json:"stats"`
	LastUpdate      *time.Time    `json:"lastUpdate"`
}

func DefaultLeague() *League {
	return &League{
		Scoring:         DefaultScoring(),
		BoxRulesEnabled: true,
		Players:         []Player{},
		Poolers:         []Pooler{},
		Stats:           StatsLedger{},
	}
}

// Normalize repairs nil collections after a JSON import.
func (l *League) Normalize() {
	if l.Players == nil {
		l.Players = []Player{}
	}
	if l.Poolers == nil {
		l.Poolers = []Pooler{}
	}
	if l.Stats == nil {
		l.Stats = StatsLedger{}
	}
	for i := range l.Players {
		if l.Players[i].ID == uuid.Nil {
			l.Players[i].ID = uuid.New()
		}
	}
}

// PlayerByName looks a player up by case-insensitive name.
func (l *League) PlayerByName(name string) *Player {
	for i := range l.Players {
		if strings.EqualFold(l.Players[i].Name, name) {
			return &l.Players[i]
		}
	}
	return nil
}

func (l *League) PlayerByID(id uuid.UUID) *Player {
	for i := range l.Players {
		if l.Players[i].ID == id {
			return &l.Players[i]
		}
	}
	return nil
}

// PoolerByName looks a pooler up by case-insensitive name.
func (l *League) PoolerByName(name string) *Pooler {
	for i := range l.Poolers {
		if strings.EqualFold(l.Poolers[i].Name, name) {
			return &l.Poolers[i]
		}
	}
	return nil
}
