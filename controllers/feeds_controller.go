package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"puckpool-backend/state"
)

// GetSources returns the configured feed URLs.
func (a *API) GetSources(c *fiber.Ctx) error {
	return c.JSON(a.Store.Sources())
}

// PutSources saves the feed URLs (manager only). Absent fields clear the
// corresponding feed.
func (a *API) PutSources(c *fiber.Ctx) error {
	var src state.RemoteSources
	if err := c.BodyParser(&src); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	src.PlayersURL = strings.TrimSpace(src.PlayersURL)
	src.PoolersURL = strings.TrimSpace(src.PoolersURL)
	src.RostersURL = strings.TrimSpace(src.RostersURL)
	src.StatsURL = strings.TrimSpace(src.StatsURL)
	if err := a.Store.SaveSources(src); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save sources"})
	}
	return c.JSON(src)
}

// Refresh runs a full reconciliation round now. Per-feed failures come
// back in the report; the round itself never fails.
func (a *API) Refresh(c *fiber.Ctx) error {
	results := a.Reconciler.RefreshAll(c.Context())
	if len(results) == 0 {
		return c.JSON(fiber.Map{"results": []any{}, "message": "no feeds configured"})
	}
	return c.JSON(fiber.Map{"results": results})
}
