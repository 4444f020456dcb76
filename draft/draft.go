// Package draft enforces roster capacity and box quota rules when a
// player is assigned to a pooler.
package draft

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"puckpool-backend/models"
)

var (
	ErrDuplicatePick        = errors.New("player already on roster")
	ErrPositionLimitReached = errors.New("position limit reached")
	ErrBoxLimitReached      = errors.New("box limit reached")
)

// BoxQuotas is the fixed per-pooler quota for each draft box. A box tag
// missing from this table is unconstrained.
var BoxQuotas = map[string]int{
	"B1": 1, "B2": 1, "B3": 1, "B4": 1, "B5": 1,
	"B6": 1, "B7": 1, "B8": 1, "B9": 1, "B10": 1,
	"G1": 1, "G2": 1,
	"BONUS": 5,
}

// Pick validates the candidate against the pooler's roster and, on
// success, appends the player. Box quotas apply only when the league has
// box rules enabled and the player carries a box tag.
func Pick(l *models.League, pooler *models.Pooler, player *models.Player) error {
	if pooler.Has(player.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicatePick, player.Name)
	}

	skaters, goalies := countRoster(l, pooler)
	if player.Position == models.PositionGoalie {
		if goalies >= pooler.Roster.Goalies {
			return fmt.Errorf("%w: goalie capacity is %d", ErrPositionLimitReached, pooler.Roster.Goalies)
		}
	} else {
		if skaters >= pooler.Roster.Skaters {
			return fmt.Errorf("%w: skater capacity is %d", ErrPositionLimitReached, pooler.Roster.Skaters)
		}
	}

	if l.BoxRulesEnabled && player.Box != "" {
		if quota, ok := BoxQuotas[player.Box]; ok {
			if boxCount(l, pooler, player.Box) >= quota {
				return fmt.Errorf("%w: box %s allows %d", ErrBoxLimitReached, player.Box, quota)
			}
		}
	}

	pooler.Players = append(pooler.Players, player.ID)
	return nil
}

// BatchResult reports a multi-select draft: successes commit, failures are
// collected. There is no rollback.
type BatchResult struct {
	Added  []string `json:"added"`
	Errors []string `json:"errors"`
}

// PickBatch validates and applies each candidate independently, in order.
func PickBatch(l *models.League, pooler *models.Pooler, names []string) BatchResult {
	var res BatchResult
	for _, name := range names {
		player := l.PlayerByName(name)
		if player == nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: not in the player list", name))
			continue
		}
		if err := Pick(l, pooler, player); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		res.Added = append(res.Added, player.Name)
	}
	return res
}

// Undraft removes a player from the pooler's roster.
func Undraft(pooler *models.Pooler, id uuid.UUID) bool {
	for i, existing := range pooler.Players {
		if existing == id {
			pooler.Players = append(pooler.Players[:i], pooler.Players[i+1:]...)
			return true
		}
	}
	return false
}

func countRoster(l *models.League, pooler *models.Pooler) (skaters, goalies int) {
	for _, id := range pooler.Players {
		p := l.PlayerByID(id)
		if p == nil {
			continue
		}
		if p.Position == models.PositionGoalie {
			goalies++
		} else {
			skaters++
		}
	}
	return skaters, goalies
}

func boxCount(l *models.League, pooler *models.Pooler, box string) int {
	n := 0
	for _, id := range pooler.Players {
		if p := l.PlayerByID(id); p != nil && p.Box == box {
			n++
		}
	}
	return n
}
