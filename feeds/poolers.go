package feeds

import (
	"fmt"
	"strconv"

	"puckpool-backend/csvcodec"
	"puckpool-backend/models"
)

// IngestPoolers rebuilds the pooler list from a capacities feed with the
// strict header pooler,skaters,goalies. Rosters of poolers that survive
// the replace are preserved; capacities come from the feed, falling back
// to the 15/2 default on an unparsable cell.
func IngestPoolers(l *models.League, text string) error {
	rows := csvcodec.Parse(text)
	if len(rows) == 0 {
		return fmt.Errorf("%w: poolers feed is empty", ErrSchema)
	}
	cols := resolveColumns(rows[0])
	poolerIdx := cols.find([]string{"pooler"})
	skatersIdx := cols.find([]string{"skaters"})
	goaliesIdx := cols.find([]string{"goalies"})
	if poolerIdx < 0 || skatersIdx < 0 || goaliesIdx < 0 {
		return fmt.Errorf("%w: poolers feed requires pooler,skaters,goalies headers", ErrSchema)
	}

	defaults := models.DefaultRosterLimits()
	poolers := make([]models.Pooler, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := field(row, poolerIdx)
		if name == "" {
			continue
		}
		skaters, err := strconv.Atoi(field(row, skatersIdx))
		if err != nil || skaters <= 0 {
			skaters = defaults.Skaters
		}
		goalies, err := strconv.Atoi(field(row, goaliesIdx))
		if err != nil || goalies < 0 {
			goalies = defaults.Goalies
		}

		p := models.Pooler{
			Name:    name,
			Roster:  models.RosterLimits{Skaters: skaters, Goalies: goalies},
			Players: nil,
		}
		if prior := l.PoolerByName(name); prior != nil {
			p.Players = prior.Players
		}
		poolers = append(poolers, p)
	}

	l.Poolers = poolers
	return nil
}
