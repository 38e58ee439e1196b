package handler

import (
	"errors"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SkillPostHandler struct {
	uc usecase.SkillPostUsecase
}

type createSkillPostRequest struct {
	SkillName   string  `json:"skill_name"`
	Description *string `json:"description"`
	PostType    string  `json:"post_type"`
}

func NewSkillPostHandler(uc usecase.SkillPostUsecase) *SkillPostHandler {
	return &SkillPostHandler{uc: uc}
}

func (h *SkillPostHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/my-posts", h.ListMine)
	r.Delete("/:id", h.Delete)
}

func (h *SkillPostHandler) Create(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createSkillPostRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	created, err := h.uc.Create(c.Context(), userID, usecase.CreateSkillPostInput{
		SkillName:   req.SkillName,
		Description: req.Description,
		PostType:    req.PostType,
	})
	if err != nil {
		return mapSkillPostUsecaseError(err)
	}

	return response.Created(c, response.MessageSkillPostCreated, toSkillPostResponse(created.Post, &created.Owner))
}

func (h *SkillPostHandler) List(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid offset", nil, err)
	}

	items, err := h.uc.List(c.Context(), usecase.ListSkillPostsParams{
		PostType: c.Query("type"),
		Skill:    c.Query("skill"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return mapSkillPostUsecaseError(err)
	}

	res := make([]dto.SkillPostResponse, 0, len(items))
	for _, it := range items {
		res = append(res, toSkillPostResponse(it.Post, &it.Owner))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *SkillPostHandler) ListMine(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListMine(c.Context(), userID)
	if err != nil {
		return mapSkillPostUsecaseError(err)
	}

	res := make([]dto.SkillPostResponse, 0, len(items))
	for _, it := range items {
		res = append(res, toSkillPostResponse(it, nil))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *SkillPostHandler) Delete(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid post id", nil, err)
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return mapSkillPostUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageSkillPostDeleted, nil)
}

func mapSkillPostUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidSkillName):
		return middleware.NewAppError(fiber.StatusBadRequest, "Skill name is required and must be at most 100 characters", nil, err)
	case errors.Is(err, usecase.ErrInvalidPostType):
		return middleware.NewAppError(fiber.StatusBadRequest, "Post type must be OFFERING or SEEKING", nil, err)
	case errors.Is(err, usecase.ErrDescriptionTooLong):
		return middleware.NewAppError(fiber.StatusBadRequest, "Description must be at most 1000 characters", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrCannotDeleteSkillPost):
		return middleware.NewAppError(fiber.StatusForbidden, response.MessageCannotDeletePost, nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
