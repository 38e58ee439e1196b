package routes

import (
	"log"

	"skill-swap/internal/config"
	"skill-swap/internal/database"
	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/infrastructure/cache"
	"skill-swap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	cfg    config.Config
	db     database.DB
	cache  *cache.Redis
	hub    *ws.Hub
	logger *log.Logger

	health *handler.HealthHandler
	ws     *ws.Handler
}

func NewRegistry(cfg config.Config, db database.DB, rc *cache.Redis, hub *ws.Hub, logger *log.Logger) *Registry {
	var cachePinger handler.Pinger
	if rc != nil {
		cachePinger = rc
	}
	var dbPinger handler.Pinger
	if db != nil {
		dbPinger = db
	}
	return &Registry{
		cfg:    cfg,
		db:     db,
		cache:  rc,
		hub:    hub,
		logger: logger,
		health: handler.NewHealthHandler(dbPinger, cachePinger),
		ws:     ws.NewHandler(hub, logger),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.hub == nil {
		return
	}
	r.ws.RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.cfg, r.db, r.cache, ws.NewNotifier(r.hub, r.logger), r.logger)
}
