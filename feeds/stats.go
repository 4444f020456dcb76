package feeds

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"puckpool-backend/csvcodec"
	"puckpool-backend/models"
)

// IngestStats upserts daily counters from a stats feed. Each row replaces
// the whole entry for its (player, date) pair, so re-ingesting the same
// feed is idempotent and a re-published correction wins. Player names that
// match no known player mint a new player record, keeping the ledger
// consistent with the roster model.
func IngestStats(l *models.League, text string, now time.Time) error {
	rows := csvcodec.Parse(text)
	if len(rows) == 0 {
		return fmt.Errorf("%w: stats feed is empty", ErrSchema)
	}
	cols := resolveColumns(rows[0])
	dateIdx := cols.find(colDate)
	playerIdx := cols.find(colName)
	goalsIdx := cols.find(colGoals)
	assistsIdx := cols.find(colAssists)
	if dateIdx < 0 || playerIdx < 0 || goalsIdx < 0 || assistsIdx < 0 {
		return fmt.Errorf("%w: stats feed requires date, player, goals and assists columns", ErrSchema)
	}
	winIdx := cols.find(colWin)
	otlIdx := cols.find(colOTL)
	soIdx := cols.find(colSO)
	playedIdx := cols.find(colPlayed)

	for _, row := range rows[1:] {
		name := field(row, playerIdx)
		if name == "" {
			continue
		}
		date := field(row, dateIdx)
		if len(date) > 10 {
			date = date[:10]
		}
		if date == "" {
			continue
		}

		// one CSV row = one game unless the feed says otherwise
		played := 1
		if playedIdx >= 0 {
			played = parseIntField(row, playedIdx)
		}
		l.Stats.Upsert(resolvePlayer(l, name), date, models.DayStat{
			Goals:   parseFloatField(row, goalsIdx),
			Assists: parseFloatField(row, assistsIdx),
			Win:     parseIntField(row, winIdx),
			OTL:     parseIntField(row, otlIdx),
			SO:      parseIntField(row, soIdx),
			Played:  played,
		})
	}

	l.LastUpdate = &now
	return nil
}

func resolvePlayer(l *models.League, name string) uuid.UUID {
	if p := l.PlayerByName(name); p != nil {
		return p.ID
	}
	created := models.Player{ID: uuid.New(), Name: name, Position: models.PositionForward}
	l.Players = append(l.Players, created)
	return created.ID
}

func parseFloatField(row []string, idx int) float64 {
	v, err := strconv.ParseFloat(field(row, idx), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseIntField(row []string, idx int) int {
	v, err := strconv.Atoi(field(row, idx))
	if err != nil {
		return 0
	}
	return v
}
