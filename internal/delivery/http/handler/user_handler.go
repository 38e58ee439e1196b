package handler

import (
	"errors"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"
	useruc "skill-swap/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type updateProfileRequest struct {
	Name         *string  `json:"name"`
	Location     *string  `json:"location"`
	Availability []string `json:"availability"`
	IsPublic     *bool    `json:"is_public"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
	r.Get("/public", h.ListPublic)
}

func (h *UserHandler) GetProfile(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	usr, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toUserProfileResponse(usr))
}

func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if req.Name == nil && req.Location == nil && req.Availability == nil && req.IsPublic == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, nil)
	}

	usr, err := h.uc.UpdateProfile(c.Context(), userID, useruc.UpdateProfileInput{
		Name:         req.Name,
		Location:     req.Location,
		Availability: req.Availability,
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageProfileUpdated, toUserProfileResponse(usr))
}

func (h *UserHandler) ListPublic(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListPublicUsers(c.Context(), userID, c.Query("search"))
	if err != nil {
		return mapUserUsecaseError(err)
	}

	res := make([]dto.PublicUserResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.PublicUserResponse{
			ID:             it.ID,
			Name:           it.Name,
			Location:       it.Location,
			Availability:   it.Availability,
			OfferingSkills: it.OfferingSkills,
			SeekingSkills:  it.SeekingSkills,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func mapUserUsecaseError(err error) error {
	switch {
	case errors.Is(err, useruc.ErrInvalidAvailability):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid availability", nil, err)
	case errors.Is(err, useruc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, useruc.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
