package feeds

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"puckpool-backend/csvcodec"
	"puckpool-backend/models"
)

// IngestPlayers replaces the entire player list from a players feed. This
// is a full-snapshot replace: players absent from the feed are dropped.
// Players whose name survives the replace keep their ID, so roster and
// stat references stay live.
func IngestPlayers(l *models.League, text string) error {
	rows := csvcodec.Parse(text)
	if len(rows) == 0 {
		return fmt.Errorf("%w: players feed is empty", ErrSchema)
	}
	cols := resolveColumns(rows[0])
	nameIdx := cols.find(colName)
	if nameIdx < 0 {
		return fmt.Errorf("%w: players feed has no resolvable name column", ErrSchema)
	}
	posIdx := cols.find(colPosition)
	teamIdx := cols.find(colTeam)
	boxIdx := cols.find(colBox)

	existing := make(map[string]uuid.UUID, len(l.Players))
	for _, p := range l.Players {
		existing[strings.ToLower(p.Name)] = p.ID
	}

	players := make([]models.Player, 0, len(rows)-1)
	seen := make(map[string]bool)
	for _, row := range rows[1:] {
		name := field(row, nameIdx)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		id := existing[strings.ToLower(name)]
		if id == uuid.Nil {
			id = uuid.New()
		}
		players = append(players, models.Player{
			ID:       id,
			Name:     name,
			Position: models.NormalizePosition(field(row, posIdx)),
			Team:     models.NormalizeTeam(field(row, teamIdx)),
			Box:      models.NormalizeBox(field(row, boxIdx)),
		})
	}

	l.Players = players
	return nil
}
