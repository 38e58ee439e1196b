package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/search"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultPublicUsersLimit = 50
	maxPublicUsersLimit     = 200
)

type UserRepository struct {
	db database.Querier
}

func NewUserRepository(db database.Querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, location, availability, is_public, is_banned, role, created_at, updated_at`

func (r *UserRepository) CreateUser(ctx context.Context, u user.User) error {
	availability := u.Availability
	if availability == nil {
		availability = []string{}
	}
	role := u.Role
	if role == "" {
		role = user.RoleUser
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, location, availability, is_public, role)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Name, u.Email, u.PasswordHash, trimmedOrNil(u.Location), availability, u.IsPublic, role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, u user.User) error {
	availability := u.Availability
	if availability == nil {
		availability = []string{}
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE users
		 SET name = $1, email = $2, password_hash = $3, location = $4, availability = $5, is_public = $6, updated_at = now()
		 WHERE id = $7`,
		u.Name, u.Email, u.PasswordHash, trimmedOrNil(u.Location), availability, u.IsPublic, u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) GetProfileSummary(ctx context.Context, id uuid.UUID) (user.ProfileSummary, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(location, ''), availability FROM users WHERE id = $1`,
		id,
	)

	var s user.ProfileSummary
	if err := row.Scan(&s.UserID, &s.Name, &s.Location, &s.Availability); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return user.ProfileSummary{}, user.ErrNotFound
		}
		return user.ProfileSummary{}, err
	}
	if s.Availability == nil {
		s.Availability = []string{}
	}
	return s, nil
}

func (r *UserRepository) ListPublicUsers(ctx context.Context, excludeID uuid.UUID, query string, limit int) ([]user.PublicUser, error) {
	if limit <= 0 {
		limit = defaultPublicUsersLimit
	}
	if limit > maxPublicUsersLimit {
		limit = maxPublicUsersLimit
	}

	args := []any{excludeID}
	filter := ""
	if q := search.NormalizeQuery(query); q != "" {
		args = append(args, search.ContainsPattern(q))
		filter = `
		   AND (lower(u.name) LIKE $2
		     OR EXISTS (SELECT 1 FROM skill_posts s2 WHERE s2.user_id = u.id AND lower(s2.skill_name) LIKE $2))`
	}
	args = append(args, limit)

	rows, err := r.db.Query(ctx, fmt.Sprintf(
		`SELECT u.id, u.name, u.location, u.availability,
		   COALESCE(array_agg(sp.skill_name ORDER BY sp.created_at) FILTER (WHERE sp.post_type = 'OFFERING'), '{}'),
		   COALESCE(array_agg(sp.skill_name ORDER BY sp.created_at) FILTER (WHERE sp.post_type = 'SEEKING'), '{}')
		 FROM users u
		 LEFT JOIN skill_posts sp ON sp.user_id = u.id
		 WHERE u.is_public = TRUE
		   AND u.is_banned = FALSE
		   AND u.id <> $1%s
		 GROUP BY u.id
		 ORDER BY u.created_at DESC, u.id ASC
		 LIMIT $%d`, filter, len(args)),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.PublicUser, 0)
	for rows.Next() {
		var pu user.PublicUser
		if err := rows.Scan(&pu.ID, &pu.Name, &pu.Location, &pu.Availability, &pu.OfferingSkills, &pu.SeekingSkills); err != nil {
			return nil, err
		}
		pu.Availability = nonNil(pu.Availability)
		pu.OfferingSkills = nonNil(pu.OfferingSkills)
		pu.SeekingSkills = nonNil(pu.SeekingSkills)
		out = append(out, pu)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Location,
		&u.Availability,
		&u.IsPublic,
		&u.IsBanned,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Availability = nonNil(u.Availability)
	return u, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// trimmedOrNil maps blank strings to NULL.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
