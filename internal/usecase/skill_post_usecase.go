package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"skill-swap/internal/domain/skillpost"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidPostType       = errors.New("invalid post type")
	ErrInvalidSkillName      = errors.New("invalid skill name")
	ErrDescriptionTooLong    = errors.New("description too long")
	ErrCannotDeleteSkillPost = errors.New("cannot delete this post")
)

const (
	maxSkillNameLength   = 100
	maxDescriptionLength = 1000
	maxListLimit         = 100
)

const (
	EventSkillPostCreated = "skill_post_created"
	EventSkillPostDeleted = "skill_post_deleted"
)

type SkillPostEvent struct {
	Type      string
	PostID    uuid.UUID
	SkillName string
	PostType  skillpost.PostType
	Timestamp time.Time
}

// SkillPostNotifier fans skill post changes out to live subscribers. It must
// not block.
type SkillPostNotifier interface {
	NotifySkillPost(evt SkillPostEvent)
}

type CreateSkillPostInput struct {
	SkillName   string
	Description *string
	PostType    string
}

type ListSkillPostsParams struct {
	PostType string
	Skill    string
	Limit    int
	Offset   int
}

type SkillPostUsecase interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateSkillPostInput) (repository.SkillPostWithOwner, error)
	List(ctx context.Context, params ListSkillPostsParams) ([]repository.SkillPostWithOwner, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]skillpost.SkillPost, error)
	Delete(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error
}

type SkillPost struct {
	repo     repository.SkillPostRepository
	cache    RecommendationCache
	notifier SkillPostNotifier
	logger   *log.Logger
	now      func() time.Time
}

func NewSkillPostUsecase(repo repository.SkillPostRepository, cache RecommendationCache, notifier SkillPostNotifier, logger *log.Logger) *SkillPost {
	return &SkillPost{repo: repo, cache: cache, notifier: notifier, logger: logger, now: time.Now}
}

func (u *SkillPost) Create(ctx context.Context, userID uuid.UUID, in CreateSkillPostInput) (repository.SkillPostWithOwner, error) {
	if userID == uuid.Nil {
		return repository.SkillPostWithOwner{}, ErrUnauthorized
	}

	name := strings.TrimSpace(in.SkillName)
	if name == "" || utf8.RuneCountInString(name) > maxSkillNameLength {
		return repository.SkillPostWithOwner{}, ErrInvalidSkillName
	}

	postType, ok := skillpost.ParsePostType(in.PostType)
	if !ok {
		return repository.SkillPostWithOwner{}, ErrInvalidPostType
	}

	var desc *string
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(d) > maxDescriptionLength {
			return repository.SkillPostWithOwner{}, ErrDescriptionTooLong
		}
		if d != "" {
			desc = &d
		}
	}

	created, err := u.repo.Create(ctx, skillpost.SkillPost{
		ID:          uuid.New(),
		UserID:      userID,
		SkillName:   name,
		Description: desc,
		PostType:    postType,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.SkillPostWithOwner{}, ErrUnauthorized
		}
		if u.logger != nil {
			u.logger.Printf("SkillPost create failed | user_id=%s error=%v", userID, err)
		}
		return repository.SkillPostWithOwner{}, ErrInternal
	}

	if u.logger != nil {
		u.logger.Printf("SkillPost created | id=%s user_id=%s type=%s skill=%q", created.Post.ID, userID, postType, name)
	}
	u.afterWrite(ctx, EventSkillPostCreated, created.Post)
	return created, nil
}

func (u *SkillPost) List(ctx context.Context, params ListSkillPostsParams) ([]repository.SkillPostWithOwner, error) {
	if params.Limit < 0 || params.Limit > maxListLimit || params.Offset < 0 {
		return nil, ErrInvalidInput
	}

	f := repository.SkillPostFilter{
		Skill:  params.Skill,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if strings.TrimSpace(params.PostType) != "" {
		pt, ok := skillpost.ParsePostType(params.PostType)
		if !ok {
			return nil, ErrInvalidPostType
		}
		f.PostType = pt
	}

	out, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *SkillPost) ListMine(ctx context.Context, userID uuid.UUID) ([]skillpost.SkillPost, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	out, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

// Delete removes one of the caller's posts. A missing post and a post owned
// by someone else are reported the same way.
func (u *SkillPost) Delete(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}

	existing, err := u.repo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrSkillPostNotFound) {
			return ErrCannotDeleteSkillPost
		}
		return ErrInternal
	}

	if err := u.repo.Delete(ctx, postID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrSkillPostNotFound), errors.Is(err, repository.ErrSkillPostForbidden):
			return ErrCannotDeleteSkillPost
		default:
			return ErrInternal
		}
	}

	if u.logger != nil {
		u.logger.Printf("SkillPost deleted | id=%s user_id=%s", postID, userID)
	}
	u.afterWrite(ctx, EventSkillPostDeleted, existing.Post)
	return nil
}

func (u *SkillPost) afterWrite(ctx context.Context, eventType string, p skillpost.SkillPost) {
	InvalidateRecommendations(ctx, u.cache, u.logger)
	if u.notifier == nil {
		return
	}
	u.notifier.NotifySkillPost(SkillPostEvent{
		Type:      eventType,
		PostID:    p.ID,
		SkillName: p.SkillName,
		PostType:  p.PostType,
		Timestamp: u.now().UTC(),
	})
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
