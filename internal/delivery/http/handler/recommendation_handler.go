package handler

import (
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

// RegisterRoutes must run before any "/:id" GET route on the same group.
func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/recommendations", h.Get)
}

func (h *RecommendationHandler) Get(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	recs, err := h.uc.GetRecommendations(c.Context(), userID)
	if err != nil {
		return mapSkillPostUsecaseError(err)
	}
	return response.Plain(c, fiber.StatusOK, toRecommendationResponses(recs))
}
