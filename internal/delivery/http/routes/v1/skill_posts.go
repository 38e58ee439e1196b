package v1

import (
	"skill-swap/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterSkillPosts(r fiber.Router, postHandler *handler.SkillPostHandler, recHandler *handler.RecommendationHandler) {
	if r == nil {
		return
	}

	// Static paths first so they are not shadowed by "/:id".
	if recHandler != nil {
		recHandler.RegisterRoutes(r)
	}
	if postHandler != nil {
		postHandler.RegisterRoutes(r)
	}
}
