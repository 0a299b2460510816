package handler

import (
	"context"

	"skillpath/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger reports reachability of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports component reachability. The database is required:
// an unreachable DB turns the check into a 503. The cache is best-effort
// and only flips its own status field.
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}

	app.Get("/health", h.Check)
}

func (h *HealthHandler) Check(c fiber.Ctx) error {
	components := map[string]string{
		"database": pingStatus(c.Context(), h.db),
		"cache":    pingStatus(c.Context(), h.cache),
	}

	if components["database"] != "up" {
		return response.Error(c, fiber.StatusServiceUnavailable, "service unavailable", components)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, components)
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "down"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
