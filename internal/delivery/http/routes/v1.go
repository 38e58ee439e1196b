package routes

import (
	"log"

	"skill-swap/internal/config"
	"skill-swap/internal/database"
	v1 "skill-swap/internal/delivery/http/routes/v1"
	"skill-swap/internal/infrastructure/cache"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, cfg config.Config, db database.DB, rc *cache.Redis, notifier usecase.SkillPostNotifier, logger *log.Logger) {
	if r == nil {
		return
	}

	v1.Register(r, v1.Deps{
		Config:   cfg,
		DB:       db,
		Cache:    rc,
		Notifier: notifier,
		Logger:   logger,
	})
}
