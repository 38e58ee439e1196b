package handler

import (
	"context"
	"time"

	"skill-swap/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is satisfied by the database pool and the Redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

func NewHealthHandler(db Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Check)
}

// Check reports 503 only when the database is down; the cache is optional.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	res := healthStatus{Status: "ok", Database: probe(ctx, h.db), Cache: probe(ctx, h.cache)}
	if res.Database == "down" {
		res.Status = "degraded"
		return response.Success(c, fiber.StatusServiceUnavailable, response.MessageServiceUnhealthy, res)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
