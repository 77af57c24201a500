package handler

import (
	"context"
	"time"

	"jobmatch/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is satisfied by the database handle and the Redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type poolStats interface {
	Stat() (total, idle int32)
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

type healthResponse struct {
	Database string      `json:"database"`
	Cache    string      `json:"cache"`
	Pool     *poolStatus `json:"pool,omitempty"`
	Time     string      `json:"time"`
}

type poolStatus struct {
	Total int32 `json:"total"`
	Idle  int32 `json:"idle"`
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health reports 503 when the database is down. An unreachable cache only degrades.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	res := healthResponse{
		Database: componentStatus(ctx, h.db),
		Cache:    componentStatus(ctx, h.cache),
		Time:     time.Now().UTC().Format(time.RFC3339),
	}
	if ps, ok := h.db.(poolStats); ok {
		total, idle := ps.Stat()
		res.Pool = &poolStatus{Total: total, Idle: idle}
	}
	if res.Database != "up" {
		return response.Error(c, fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, res)
	}
	return response.OK(c, res)
}

func componentStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
