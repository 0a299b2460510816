package routes

import (
	"skillpath/internal/delivery/http/handler"
	v1 "skillpath/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	deps   v1.Deps
}

func NewRegistry(health *handler.HealthHandler, deps v1.Deps) *Registry {
	return &Registry{health: health, deps: deps}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.deps)
}
