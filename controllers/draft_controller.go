package controllers

import (
	"net/url"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"puckpool-backend/draft"
	"puckpool-backend/models"
)

type draftRequest struct {
	Player  string   `json:"player"`
	Players []string `json:"players"`
}

// DraftPicks assigns one or more players to a pooler's roster. Each pick
// is validated independently; successes commit even when later picks
// fail, and all failures come back together.
func (a *API) DraftPicks(c *fiber.Ctx) error {
	poolerName := c.Params("name")

	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	names := req.Players
	if req.Player != "" {
		names = append(names, req.Player)
	}
	if len(names) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no players selected"})
	}

	var res draft.BatchResult
	notFound := false
	err := a.Store.Update(func(l *models.League) error {
		pooler := l.PoolerByName(poolerName)
		if pooler == nil {
			notFound = true
			return nil
		}
		res = draft.PickBatch(l, pooler, names)
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save roster"})
	}
	if notFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "pooler not found"})
	}
	return c.JSON(res)
}

// UndraftPick removes a player (by name) from a pooler's roster.
func (a *API) UndraftPick(c *fiber.Ctx) error {
	poolerName := c.Params("name")
	playerName, err := decodeParam(c, "player")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player name"})
	}

	status := fiber.StatusOK
	msg := "player removed from roster"
	uerr := a.Store.Update(func(l *models.League) error {
		pooler := l.PoolerByName(poolerName)
		if pooler == nil {
			status, msg = fiber.StatusNotFound, "pooler not found"
			return nil
		}
		player := l.PlayerByName(playerName)
		if player == nil || !draft.Undraft(pooler, player.ID) {
			status, msg = fiber.StatusNotFound, "player not on roster"
			return nil
		}
		return nil
	})
	if uerr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save roster"})
	}
	if status != fiber.StatusOK {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	return c.JSON(fiber.Map{"message": msg})
}

// PoolerRoster returns one pooler's resolved roster, sorted the way the
// roster view displays it: box, then position, then name.
func (a *API) PoolerRoster(c *fiber.Ctx) error {
	league := a.Store.Snapshot()
	pooler := league.PoolerByName(c.Params("name"))
	if pooler == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "pooler not found"})
	}
	roster := make([]models.Player, 0, len(pooler.Players))
	for _, id := range pooler.Players {
		if p := league.PlayerByID(id); p != nil {
			roster = append(roster, *p)
		}
	}
	sortRoster(roster)
	return c.JSON(fiber.Map{"pooler": pooler.Name, "roster": roster, "limits": pooler.Roster})
}

func sortRoster(roster []models.Player) {
	sort.Slice(roster, func(i, j int) bool {
		if roster[i].Box != roster[j].Box {
			return roster[i].Box < roster[j].Box
		}
		if roster[i].Position != roster[j].Position {
			return roster[i].Position < roster[j].Position
		}
		return roster[i].Name < roster[j].Name
	})
}

// decodeParam unescapes a path parameter; player names carry spaces.
func decodeParam(c *fiber.Ctx, name string) (string, error) {
	unescaped, err := url.PathUnescape(c.Params(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(unescaped), nil
}
