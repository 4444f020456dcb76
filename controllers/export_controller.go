package controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"puckpool-backend/csvcodec"
	"puckpool-backend/scoring"
)

func sendCSV(c *fiber.Ctx, filename string, lines []string) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.SendString(strings.Join(lines, "\n") + "\n")
}

// ExportPlayersCSV writes the master player list.
func (a *API) ExportPlayersCSV(c *fiber.Ctx) error {
	league := a.Store.Snapshot()
	lines := []string{"name,position,team,box"}
	for _, p := range league.Players {
		lines = append(lines, strings.Join([]string{
			csvcodec.Escape(p.Name),
			string(p.Position),
			csvcodec.Escape(p.Team),
			p.Box,
		}, ","))
	}
	return sendCSV(c, "players.csv", lines)
}

// ExportRostersCSV writes every (pooler, player) assignment.
func (a *API) ExportRostersCSV(c *fiber.Ctx) error {
	league := a.Store.Snapshot()
	lines := []string{"pooler,player,position,team,box"}
	for _, pl := range league.Poolers {
		for _, id := range pl.Players {
			p := league.PlayerByID(id)
			if p == nil {
				continue
			}
			lines = append(lines, strings.Join([]string{
				csvcodec.Escape(pl.Name),
				csvcodec.Escape(p.Name),
				string(p.Position),
				csvcodec.Escape(p.Team),
				p.Box,
			}, ","))
		}
	}
	return sendCSV(c, "rosters.csv", lines)
}

// ExportStatsCSV writes the aggregated per-player stats for an optional
// [from, to] window.
func (a *API) ExportStatsCSV(c *fiber.Ctx) error {
	league := a.Store.Snapshot()
	rows := scoring.AggregatePlayers(league, c.Query("from"), c.Query("to"))
	lines := []string{"name,position,team,box,goals,assists,win,otl,so,played,points"}
	for _, r := range rows {
		lines = append(lines, strings.Join([]string{
			csvcodec.Escape(r.Name),
			string(r.Position),
			csvcodec.Escape(r.Team),
			r.Box,
			formatNumber(r.Goals),
			formatNumber(r.Assists),
			fmt.Sprintf("%d", r.Win),
			fmt.Sprintf("%d", r.OTL),
			fmt.Sprintf("%d", r.SO),
			fmt.Sprintf("%d", r.Played),
			fmt.Sprintf("%.1f", r.Points),
		}, ","))
	}
	return sendCSV(c, "player_stats_aggregated.csv", lines)
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
