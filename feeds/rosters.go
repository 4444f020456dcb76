package feeds

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"puckpool-backend/csvcodec"
	"puckpool-backend/models"
)

// IngestRosters rebuilds the pooler->player mapping from a roster feed.
// The pooler list is a full-snapshot replace; the player list is enriched,
// never overwritten: a known player gets missing fields filled in, an
// unknown one is created with defaults. Repeated (pooler, player) pairs
// are deduplicated. A pooler that already existed keeps its configured
// capacity; new poolers get the 15/2 default.
func IngestRosters(l *models.League, text string) error {
	rows := csvcodec.Parse(text)
	if len(rows) == 0 {
		return fmt.Errorf("%w: rosters feed is empty", ErrSchema)
	}
	cols := resolveColumns(rows[0])
	poolerIdx := cols.find(colPooler)
	playerIdx := cols.find(colName)
	if poolerIdx < 0 || playerIdx < 0 {
		return fmt.Errorf("%w: rosters feed requires pooler and player columns", ErrSchema)
	}
	posIdx := cols.find(colPosition)
	teamIdx := cols.find(colTeam)
	boxIdx := cols.find(colBox)

	var (
		poolers []models.Pooler
		byName  = make(map[string]int)
		picked  = make(map[string]bool)
	)
	for _, row := range rows[1:] {
		poolerName := field(row, poolerIdx)
		playerName := field(row, playerIdx)
		if poolerName == "" || playerName == "" {
			continue
		}

		idx, ok := byName[strings.ToLower(poolerName)]
		if !ok {
			p := models.Pooler{Name: poolerName, Roster: models.DefaultRosterLimits()}
			if prior := l.PoolerByName(poolerName); prior != nil {
				p.Roster = prior.Roster
			}
			poolers = append(poolers, p)
			idx = len(poolers) - 1
			byName[strings.ToLower(poolerName)] = idx
		}

		player := enrichPlayer(l, playerName, field(row, posIdx), field(row, teamIdx), field(row, boxIdx))

		pairKey := strings.ToLower(poolerName) + "\x00" + strings.ToLower(playerName)
		if picked[pairKey] {
			continue
		}
		picked[pairKey] = true
		poolers[idx].Players = append(poolers[idx].Players, player)
	}

	l.Poolers = poolers
	return nil
}

// enrichPlayer resolves a feed name to a player ID, filling in missing
// fields on a known player and creating an unknown one with defaults.
func enrichPlayer(l *models.League, name, rawPos, rawTeam, rawBox string) uuid.UUID {
	if p := l.PlayerByName(name); p != nil {
		if p.Position == "" && rawPos != "" {
			p.Position = models.NormalizePosition(rawPos)
		}
		if p.Team == "" && rawTeam != "" {
			p.Team = models.NormalizeTeam(rawTeam)
		}
		if p.Box == "" && rawBox != "" {
			p.Box = models.NormalizeBox(rawBox)
		}
		return p.ID
	}
	created := models.Player{
		ID:       uuid.New(),
		Name:     name,
		Position: models.NormalizePosition(rawPos),
		Team:     models.NormalizeTeam(rawTeam),
		Box:      models.NormalizeBox(rawBox),
	}
	l.Players = append(l.Players, created)
	return created.ID
}
