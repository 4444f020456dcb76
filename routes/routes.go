package routes

import (
	"github.com/gofiber/fiber/v2"

	"puckpool-backend/controllers"
	"puckpool-backend/middleware"
)

// Register wires the API. The auth funnel is open; the rest of the app
// requires a session, and the manager-only surfaces additionally require
// the manager role — the same gate/app/manager split the access
// projection describes.
func Register(app *fiber.App, api *controllers.API) {
	root := app.Group("/api")

	// access gate
	root.Post("/auth/token", api.TryToken)
	root.Get("/auth/access", api.Access)

	gated := root.Group("", middleware.RequireSession(api.Sessions))
	gated.Get("/auth/session", api.CurrentSession)
	gated.Post("/auth/logout", api.Logout)

	gated.Get("/leaderboard", api.Leaderboard)
	gated.Get("/players", api.ListPlayers)
	gated.Get("/players/stats", api.PlayerStats)
	gated.Get("/players/:id/daily", api.PlayerDaily)
	gated.Get("/poolers", api.ListPoolers)
	gated.Get("/poolers/:name/roster", api.PoolerRoster)
	gated.Get("/scoring", api.GetScoring)
	gated.Get("/export/league", api.ExportLeague)
	gated.Get("/export/players.csv", api.ExportPlayersCSV)
	gated.Get("/export/rosters.csv", api.ExportRostersCSV)
	gated.Get("/export/stats.csv", api.ExportStatsCSV)

	manager := gated.Group("", middleware.RequireManager(api.Sessions))
	manager.Post("/players", api.AddPlayer)
	manager.Delete("/players/:id", api.DeletePlayer)
	manager.Post("/poolers", api.AddPooler)
	manager.Delete("/poolers/:name", api.DeletePooler)
	manager.Post("/poolers/:name/draft", api.DraftPicks)
	manager.Delete("/poolers/:name/roster/:player", api.UndraftPick)
	manager.Put("/scoring", api.PutScoring)
	manager.Post("/scoring/reset", api.ResetScoring)
	manager.Put("/rules/box", api.PutBoxRules)
	manager.Get("/sources", api.GetSources)
	manager.Put("/sources", api.PutSources)
	manager.Post("/refresh", api.Refresh)
	manager.Post("/import/league", api.ImportLeague)
}
