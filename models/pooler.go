package models

import "github.com/google/uuid"

// RosterLimits is a pooler's draft capacity, split by skaters and goalies.
type RosterLimits struct {
	Skaters int `json:"skaters"`
	Goalies int `json:"goalies"`
}

// DefaultRosterLimits matches the league's standard 15 skaters + 2 goalies.
func DefaultRosterLimits() RosterLimits {
	return RosterLimits{Skaters: 15, Goalies: 2}
}

// Pooler is a league participant. Players holds drafted player IDs in
// draft order.
type Pooler struct {
	Name    string       `json:"name"`
	Roster  RosterLimits `json:"roster"`
	Players []uuid.UUID  `json:"players"`
}

// Has reports whether the player is already on this pooler's roster.
func (p *Pooler) Has(id uuid.UUID) bool {
	for _, existing := range p.Players {
		if existing == id {
			return true
		}
	}
	return false
}
