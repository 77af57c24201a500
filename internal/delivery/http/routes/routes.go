package routes

import (
	"jobmatch/internal/delivery/http/handler"
	v1 "jobmatch/internal/delivery/http/routes/v1"
	"jobmatch/internal/metrics"
	"jobmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health  *handler.HealthHandler
	metrics *metrics.Metrics
	events  *ws.Handler
	v1      v1.Deps
}

func NewRegistry(health *handler.HealthHandler, m *metrics.Metrics, events *ws.Handler, deps v1.Deps) *Registry {
	return &Registry{health: health, metrics: m, events: events, v1: deps}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerOps(app)
	r.registerAPI(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
	if r.metrics != nil {
		app.Get("/metrics", r.metrics.Handler())
	}
	if r.events != nil {
		app.Get("/ws", r.events.HandleEvents)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	v1.Register(app.Group("/api/v1"), r.v1)
}
