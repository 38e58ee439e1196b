package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already taken")
)

type Repository interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateUser(ctx context.Context, u User) error

	// GetProfileSummary returns the scoring view of a user.
	GetProfileSummary(ctx context.Context, id uuid.UUID) (ProfileSummary, error)

	// ListPublicUsers lists public, non-banned users other than excludeID.
	// A non-empty search matches the name or any skill post name.
	ListPublicUsers(ctx context.Context, excludeID uuid.UUID, search string, limit int) ([]PublicUser, error)
}
