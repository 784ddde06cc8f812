package handler

import (
	"context"

	"skill-gap/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is anything whose liveness the health endpoint reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	out := fiber.Map{"status": "up"}

	out["database"] = pingStatus(c.Context(), h.db)
	out["cache"] = pingStatus(c.Context(), h.cache)

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "not_configured"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
