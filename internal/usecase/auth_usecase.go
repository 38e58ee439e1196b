package usecase

import (
	"context"
	"errors"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/jwt"
	ucauth "skill-swap/internal/usecase/auth"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternal            = errors.New("internal error")
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.User, jwt.TokenPair, error)
	Login(ctx context.Context, in ucauth.LoginInput) (user.User, jwt.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (jwt.TokenPair, error)
}

type Auth struct {
	authSvc *ucauth.Service
	users   user.Repository
	jwt     jwt.Service
}

func NewAuthUsecase(users user.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: ucauth.NewService(users), users: users, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (user.User, jwt.TokenPair, error) {
	usr, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return user.User{}, jwt.TokenPair{}, err
	}

	pair, err := u.issue(usr)
	if err != nil {
		return user.User{}, jwt.TokenPair{}, err
	}
	return usr, pair, nil
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (user.User, jwt.TokenPair, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return user.User{}, jwt.TokenPair{}, err
	}

	pair, err := u.issue(usr)
	if err != nil {
		return user.User{}, jwt.TokenPair{}, err
	}
	return usr, pair, nil
}

// Refresh rotates both tokens for the owner of a valid refresh token.
func (u *Auth) Refresh(ctx context.Context, refreshToken string) (jwt.TokenPair, error) {
	if refreshToken == "" {
		return jwt.TokenPair{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return jwt.TokenPair{}, ErrRefreshTokenExpired
		}
		return jwt.TokenPair{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return jwt.TokenPair{}, ErrInvalidRefreshToken
		}
		return jwt.TokenPair{}, ErrInternal
	}
	if usr.IsBanned {
		return jwt.TokenPair{}, ErrForbidden
	}

	return u.issue(usr)
}

func (u *Auth) issue(usr user.User) (jwt.TokenPair, error) {
	access, err := u.jwt.GenerateAccessToken(usr.ID, usr.Email, usr.Role)
	if err != nil {
		return jwt.TokenPair{}, ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return jwt.TokenPair{}, ErrInternal
	}
	return jwt.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
