package controllers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"puckpool-backend/models"
	"puckpool-backend/scoring"
)

// Leaderboard returns the per-pooler standings. ?days=1 adds the
// today/yesterday buckets.
func (a *API) Leaderboard(c *fiber.Ctx) error {
	league := a.Store.Snapshot()
	var rows []scoring.Standing
	if c.Query("days") != "" {
		rows = scoring.StandingsWithDays(league, a.Clock)
	} else {
		rows = scoring.Standings(league)
	}
	return c.JSON(fiber.Map{"standings": rows, "lastUpdate": league.LastUpdate})
}

// ListPlayers returns the master player list, optionally filtered by a
// free-text query over name/team/position/box.
func (a *API) ListPlayers(c *fiber.Ctx) error {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	league := a.Store.Snapshot()
	players := make([]models.Player, 0, len(league.Players))
	for _, p := range league.Players {
		if q == "" || strings.Contains(strings.ToLower(p.Name+" "+p.Team+" "+string(p.Position)+" "+p.Box), q) {
			players = append(players, p)
		}
	}
	return c.JSON(players)
}

type addPlayerRequest struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team"`
	Box      string `json:"box"`
}

func (a *API) AddPlayer(c *fiber.Ctx) error {
	var req addPlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	var created models.Player
	err := a.Store.Update(func(l *models.League) error {
		if l.PlayerByName(req.Name) != nil {
			return errDuplicateName
		}
		created = models.Player{
			ID:       uuid.New(),
			Name:     req.Name,
			Position: models.NormalizePosition(req.Position),
			Team:     models.NormalizeTeam(req.Team),
			Box:      models.NormalizeBox(req.Box),
		}
		l.Players = append(l.Players, created)
		return nil
	})
	if err == errDuplicateName {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "player already exists"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save player"})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (a *API) DeletePlayer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player id"})
	}
	found := false
	err = a.Store.Update(func(l *models.League) error {
		for i, p := range l.Players {
			if p.ID == id {
				l.Players = append(l.Players[:i], l.Players[i+1:]...)
				found = true
				break
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete player"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
	}
	return c.JSON(fiber.Map{"message": "player deleted"})
}

// PlayerStats returns the per-player aggregation over an optional
// inclusive [from, to] window.
func (a *API) PlayerStats(c *fiber.Ctx) error {
	league := a.Store.Snapshot()
	rows := scoring.AggregatePlayers(league, c.Query("from"), c.Query("to"))
	return c.JSON(rows)
}

// PlayerDaily returns one player's daily ledger rows plus totals.
func (a *API) PlayerDaily(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player id"})
	}
	league := a.Store.Snapshot()
	if league.PlayerByID(id) == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
	}
	rows, total := scoring.PlayerDaily(league, id, c.Query("from"), c.Query("to"))
	return c.JSON(fiber.Map{"days": rows, "total": total})
}

type poolerView struct {
	Name    string              `json:"name"`
	Roster  models.RosterLimits `json:"roster"`
	Skaters int                 `json:"skaters"`
	Goalies int                 `json:"goalies"`
	Players []string            `json:"players"`
}

// ListPoolers returns every pooler with resolved roster names and counts.
func (a *API) ListPoolers(c *fiber.Ctx) error {
	league := a.Store.Snapshot()
	views := make([]poolerView, 0, len(league.Poolers))
	for _, pl := range league.Poolers {
		v := poolerView{Name: pl.Name, Roster: pl.Roster, Players: []string{}}
		for _, id := range pl.Players {
			p := league.PlayerByID(id)
			if p == nil {
				continue
			}
			v.Players = append(v.Players, p.Name)
			if p.Position == models.PositionGoalie {
				v.Goalies++
			} else {
				v.Skaters++
			}
		}
		views = append(views, v)
	}
	return c.JSON(views)
}

type addPoolerRequest struct {
	Name    string `json:"name"`
	Skaters *int   `json:"skaters"`
	Goalies *int   `json:"goalies"`
}

func (a *API) AddPooler(c *fiber.Ctx) error {
	var req addPoolerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	limits := models.DefaultRosterLimits()
	if req.Skaters != nil && *req.Skaters > 0 {
		limits.Skaters = *req.Skaters
	}
	if req.Goalies != nil && *req.Goalies >= 0 {
		limits.Goalies = *req.Goalies
	}

	err := a.Store.Update(func(l *models.League) error {
		if l.PoolerByName(req.Name) != nil {
			return errDuplicateName
		}
		l.Poolers = append(l.Poolers, models.Pooler{Name: req.Name, Roster: limits, Players: []uuid.UUID{}})
		return nil
	})
	if err == errDuplicateName {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "pooler already exists"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save pooler"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"name": req.Name, "roster": limits})
}

func (a *API) DeletePooler(c *fiber.Ctx) error {
	name := c.Params("name")
	found := false
	err := a.Store.Update(func(l *models.League) error {
		for i, pl := range l.Poolers {
			if strings.EqualFold(pl.Name, name) {
				l.Poolers = append(l.Poolers[:i], l.Poolers[i+1:]...)
				found = true
				break
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete pooler"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "pooler not found"})
	}
	return c.JSON(fiber.Map{"message": "pooler deleted"})
}

// GetScoring returns the point weights.
func (a *API) GetScoring(c *fiber.Ctx) error {
	league := a.Store.Snapshot()
	return c.JSON(fiber.Map{"scoring": league.Scoring, "boxRulesEnabled": league.BoxRulesEnabled})
}

// PutScoring overwrites the point weights (manager only).
func (a *API) PutScoring(c *fiber.Ctx) error {
	var cfg models.ScoringConfig
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if err := a.Store.Update(func(l *models.League) error {
		l.Scoring = cfg
		return nil
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save scoring"})
	}
	return c.JSON(cfg)
}

// ResetScoring restores the default weights.
func (a *API) ResetScoring(c *fiber.Ctx) error {
	cfg := models.DefaultScoring()
	if err := a.Store.Update(func(l *models.League) error {
		l.Scoring = cfg
		return nil
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to reset scoring"})
	}
	return c.JSON(cfg)
}

// PutBoxRules toggles box quota enforcement.
func (a *API) PutBoxRules(c *fiber.Ctx) error {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if err := a.Store.Update(func(l *models.League) error {
		l.BoxRulesEnabled = req.Enabled
		return nil
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save box rules"})
	}
	return c.JSON(fiber.Map{"enabled": req.Enabled})
}

// ExportLeague streams the whole league document.
func (a *API) ExportLeague(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="league.json"`)
	return c.JSON(a.Store.Snapshot())
}

// ImportLeague fully replaces the league document. Unlike every other
// corrupt-document path, a parse failure here is surfaced to the caller.
func (a *API) ImportLeague(c *fiber.Ctx) error {
	var league models.League
	if err := json.Unmarshal(c.Body(), &league); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid league JSON: " + err.Error()})
	}
	if err := a.Store.Replace(&league); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save league"})
	}
	return c.JSON(fiber.Map{"message": "league imported"})
}
