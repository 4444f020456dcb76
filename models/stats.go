package models

import "github.com/google/uuid"

// DayStat is one player's counters for a single calendar day.
// A stats ingest replaces the whole entry for a (player, date) pair.
type DayStat struct {
	Goals   float64 `json:"goals"`
	Assists float64 `json:"assists"`
	Win     int     `json:"win"`
	OTL     int     `json:"otl"`
	SO      int     `json:"so"`
	Played  int     `json:"played,omitempty"`
}

// StatsLedger maps player ID -> ISO date (YYYY-MM-DD) -> counters.
// It is the system of record for all scoring.
type StatsLedger map[uuid.UUID]map[string]DayStat

// Upsert replaces the entry for (player, date). Last write wins.
func (s StatsLedger) Upsert(player uuid.UUID, date string, st DayStat) {
	days, ok := s[player]
	if !ok {
		days = make(map[string]DayStat)
		s[player] = days
	}
	days[date] = st
}
