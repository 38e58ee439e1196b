package usecase

import (
	"context"
	"log"

	"skill-swap/internal/domain/user"
	ucuser "skill-swap/internal/usecase/user"

	"github.com/google/uuid"
)

type UserUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error)
	ListPublicUsers(ctx context.Context, callerID uuid.UUID, search string) ([]user.PublicUser, error)
}

type User struct {
	svc    *ucuser.Service
	cache  RecommendationCache
	logger *log.Logger
}

func NewUserUsecase(users user.Repository, cache RecommendationCache, logger *log.Logger) *User {
	return &User{svc: ucuser.NewService(users), cache: cache, logger: logger}
}

func (u *User) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return u.svc.GetProfile(ctx, userID)
}

// UpdateProfile also invalidates every cached recommendation list: a profile
// change moves the caller's own scores and the scores others see for them.
func (u *User) UpdateProfile(ctx context.Context, userID uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error) {
	usr, err := u.svc.UpdateProfile(ctx, userID, in)
	if err != nil {
		return user.User{}, err
	}
	InvalidateRecommendations(ctx, u.cache, u.logger)
	return usr, nil
}

func (u *User) ListPublicUsers(ctx context.Context, callerID uuid.UUID, search string) ([]user.PublicUser, error) {
	return u.svc.ListPublicUsers(ctx, callerID, search)
}
