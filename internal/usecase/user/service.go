package user

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidAvailability = errors.New("invalid availability")
	ErrNotFound            = errors.New("user not found")
	ErrInternal            = errors.New("internal error")
)

const (
	maxNameLength     = 100
	maxLocationLength = 100
	publicUsersLimit  = 50
)

// UpdateProfileInput carries a partial profile update; nil fields are left
// unchanged. An empty Location clears it.
type UpdateProfileInput struct {
	Name         *string
	Location     *string
	Availability []string
	IsPublic     *bool
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return user.User{}, mapRepoErr(err)
	}
	return sanitizeUser(usr), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return user.User{}, mapRepoErr(err)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || utf8.RuneCountInString(name) > maxNameLength {
			return user.User{}, ErrInvalidInput
		}
		usr.Name = name
	}

	if in.Location != nil {
		loc := strings.TrimSpace(*in.Location)
		if utf8.RuneCountInString(loc) > maxLocationLength {
			return user.User{}, ErrInvalidInput
		}
		if loc == "" {
			usr.Location = nil
		} else {
			usr.Location = &loc
		}
	}

	if in.Availability != nil {
		tags, ok := user.NormalizeAvailability(in.Availability)
		if !ok {
			return user.User{}, ErrInvalidAvailability
		}
		usr.Availability = tags
	}

	if in.IsPublic != nil {
		usr.IsPublic = *in.IsPublic
	}

	if err := s.users.UpdateUser(ctx, usr); err != nil {
		return user.User{}, mapRepoErr(err)
	}

	updated, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return user.User{}, mapRepoErr(err)
	}
	return sanitizeUser(updated), nil
}

func (s *Service) ListPublicUsers(ctx context.Context, callerID uuid.UUID, search string) ([]user.PublicUser, error) {
	out, err := s.users.ListPublicUsers(ctx, callerID, strings.TrimSpace(search), publicUsersLimit)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func mapRepoErr(err error) error {
	if errors.Is(err, user.ErrNotFound) {
		return ErrNotFound
	}
	return ErrInternal
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
