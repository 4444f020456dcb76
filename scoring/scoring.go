// Package scoring derives leaderboard and per-player views from the
// league document. Everything here is a pure function of the document and
// the clock; nothing mutates state.
package scoring

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"puckpool-backend/models"
)

const dayFormat = "2006-01-02"

// Points applies the linear point formula to one day's counters.
func Points(s models.DayStat, cfg models.ScoringConfig) float64 {
	return s.Goals*cfg.Goal +
		s.Assists*cfg.Assist +
		float64(s.Win)*cfg.GoalieWin +
		float64(s.OTL)*cfg.GoalieOTL +
		float64(s.SO)*cfg.Shutout
}

// Standing is one leaderboard row. Today and Yesterday are sub-totals
// restricted to those exact local calendar dates.
type Standing struct {
	Pooler    string  `json:"pooler"`
	Points    float64 `json:"points"`
	Today     float64 `json:"today"`
	Yesterday float64 `json:"yesterday"`
}

// Standings computes per-pooler grand totals, ordered by points descending
// with ties broken by pooler name.
func Standings(l *models.League) []Standing {
	return standings(l, "", "")
}

// StandingsWithDays adds the today/yesterday buckets, resolved against the
// clock's local calendar.
func StandingsWithDays(l *models.League, clock clockwork.Clock) []Standing {
	now := clock.Now()
	today := now.Format(dayFormat)
	yesterday := now.AddDate(0, 0, -1).Format(dayFormat)
	return standings(l, today, yesterday)
}

func standings(l *models.League, today, yesterday string) []Standing {
	rows := make([]Standing, 0, len(l.Poolers))
	for _, pl := range l.Poolers {
		row := Standing{Pooler: pl.Name}
		for _, id := range pl.Players {
			for date, day := range l.Stats[id] {
				pts := Points(day, l.Scoring)
				row.Points += pts
				switch date {
				case today:
					row.Today += pts
				case yesterday:
					row.Yesterday += pts
				}
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Pooler < rows[j].Pooler
	})
	return rows
}

// PlayerTotals is a per-player aggregation over an optional date window.
type PlayerTotals struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Position models.Position `json:"position"`
	Team     string          `json:"team,omitempty"`
	Box      string          `json:"box,omitempty"`
	Goals    float64         `json:"goals"`
	Assists  float64         `json:"assists"`
	Win      int             `json:"win"`
	OTL      int             `json:"otl"`
	SO       int             `json:"so"`
	Played   int             `json:"played"`
	Points   float64         `json:"points"`
}

// AggregatePlayers sums every ledger entry inside the inclusive [from, to]
// window (either bound may be empty). Entries are compared at noon local
// time to keep date-only bounds immune to timezone drift. Games played
// sums the played field; ledger entries written before the field existed
// count as one game each.
func AggregatePlayers(l *models.League, from, to string) []PlayerTotals {
	acc := make(map[uuid.UUID]*PlayerTotals)
	for id, days := range l.Stats {
		for date, day := range days {
			if !inWindow(date, from, to) {
				continue
			}
			row, ok := acc[id]
			if !ok {
				row = &PlayerTotals{ID: id, Name: id.String()}
				if p := l.PlayerByID(id); p != nil {
					row.Name = p.Name
					row.Position = p.Position
					row.Team = p.Team
					row.Box = p.Box
				}
				acc[id] = row
			}
			row.Goals += day.Goals
			row.Assists += day.Assists
			row.Win += day.Win
			row.OTL += day.OTL
			row.SO += day.SO
			row.Played += playedOrOne(day)
			row.Points += Points(day, l.Scoring)
		}
	}

	rows := make([]PlayerTotals, 0, len(acc))
	for _, row := range acc {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// DailyRow is one calendar day of a player's ledger, with derived points.
type DailyRow struct {
	Date    string  `json:"date"`
	Goals   float64 `json:"goals"`
	Assists float64 `json:"assists"`
	Win     int     `json:"win"`
	OTL     int     `json:"otl"`
	SO      int     `json:"so"`
	Played  int     `json:"played"`
	Points  float64 `json:"points"`
}

// PlayerDaily returns a player's date-sorted daily rows inside the window,
// plus a totals row.
func PlayerDaily(l *models.League, id uuid.UUID, from, to string) ([]DailyRow, DailyRow) {
	var rows []DailyRow
	for date, day := range l.Stats[id] {
		if !inWindow(date, from, to) {
			continue
		}
		rows = append(rows, DailyRow{
			Date:    date,
			Goals:   day.Goals,
			Assists: day.Assists,
			Win:     day.Win,
			OTL:     day.OTL,
			SO:      day.SO,
			Played:  playedOrOne(day),
			Points:  Points(day, l.Scoring),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	var total DailyRow
	for _, r := range rows {
		total.Goals += r.Goals
		total.Assists += r.Assists
		total.Win += r.Win
		total.OTL += r.OTL
		total.SO += r.SO
		total.Played += r.Played
		total.Points += r.Points
	}
	return rows, total
}

// inWindow compares the entry at noon local time against [from 00:00,
// to 23:59:59]. An unparsable entry date is kept only when no window is
// set.
func inWindow(date, from, to string) bool {
	if from == "" && to == "" {
		return true
	}
	d, err := time.ParseInLocation(dayFormat, date, time.Local)
	if err != nil {
		return false
	}
	at := d.Add(12 * time.Hour)
	if from != "" {
		f, err := time.ParseInLocation(dayFormat, from, time.Local)
		if err == nil && at.Before(f) {
			return false
		}
	}
	if to != "" {
		t, err := time.ParseInLocation(dayFormat, to, time.Local)
		if err == nil && at.After(t.Add(24*time.Hour-time.Second)) {
			return false
		}
	}
	return true
}

func playedOrOne(day models.DayStat) int {
	if day.Played == 0 {
		return 1
	}
	return day.Played
}
