package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/matching"
	"skill-swap/internal/domain/skillpost"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/search"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrSkillPostNotFound  = errors.New("skill post not found")
	ErrSkillPostForbidden = errors.New("forbidden")
)

const (
	defaultSkillPostLimit = 50
	maxSkillPostLimit     = 100
)

// SkillPostWithOwner is a post joined with the summary of the user who made it.
type SkillPostWithOwner struct {
	Post  skillpost.SkillPost
	Owner user.ProfileSummary
}

type SkillPostFilter struct {
	PostType skillpost.PostType
	// Skill is matched as a case-insensitive substring of the skill name.
	Skill  string
	Limit  int
	Offset int
}

type SkillPostRepository interface {
	Create(ctx context.Context, p skillpost.SkillPost) (SkillPostWithOwner, error)
	FindByID(ctx context.Context, id uuid.UUID) (SkillPostWithOwner, error)
	List(ctx context.Context, f SkillPostFilter) ([]SkillPostWithOwner, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]skillpost.SkillPost, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error

	// FindExactCandidates returns opposite-type posts of other users whose
	// skill name equals source's, ignoring case.
	FindExactCandidates(ctx context.Context, source skillpost.SkillPost) ([]matching.Candidate, error)
	// FindSimilarCandidates returns opposite-type posts of other users whose
	// skill name contains the first token of source's name, excluding the
	// exact matches.
	FindSimilarCandidates(ctx context.Context, source skillpost.SkillPost) ([]matching.Candidate, error)
}

type PostgresSkillPostRepository struct {
	db database.DB
}

func NewPostgresSkillPostRepository(db database.DB) *PostgresSkillPostRepository {
	return &PostgresSkillPostRepository{db: db}
}

const skillPostWithOwnerColumns = `sp.id, sp.user_id, sp.skill_name, sp.description, sp.post_type, sp.created_at,
		 u.name, COALESCE(u.location, ''), u.availability`

const skillPostWithOwnerFrom = `FROM skill_posts sp
		 JOIN users u ON u.id = sp.user_id`

func (r *PostgresSkillPostRepository) Create(ctx context.Context, p skillpost.SkillPost) (SkillPostWithOwner, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO skill_posts (id, user_id, skill_name, description, post_type)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.UserID, p.SkillName, p.Description, string(p.PostType),
	)
	if err != nil {
		return SkillPostWithOwner{}, err
	}
	return r.FindByID(ctx, p.ID)
}

func (r *PostgresSkillPostRepository) FindByID(ctx context.Context, id uuid.UUID) (SkillPostWithOwner, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+skillPostWithOwnerColumns+`
		 `+skillPostWithOwnerFrom+`
		 WHERE sp.id = $1`,
		id,
	)
	out, err := scanSkillPostWithOwner(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return SkillPostWithOwner{}, ErrSkillPostNotFound
		}
		return SkillPostWithOwner{}, err
	}
	return out, nil
}

func (r *PostgresSkillPostRepository) List(ctx context.Context, f SkillPostFilter) ([]SkillPostWithOwner, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultSkillPostLimit
	}
	if limit > maxSkillPostLimit {
		limit = maxSkillPostLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var where []string
	var args []any
	if f.PostType != "" {
		args = append(args, string(f.PostType))
		where = append(where, fmt.Sprintf("sp.post_type = $%d", len(args)))
	}
	if skill := search.NormalizeQuery(f.Skill); skill != "" {
		args = append(args, search.ContainsPattern(skill))
		where = append(where, fmt.Sprintf("lower(sp.skill_name) LIKE $%d", len(args)))
	}

	q := `SELECT ` + skillPostWithOwnerColumns + `
		 ` + skillPostWithOwnerFrom
	if len(where) > 0 {
		q += "\n\t\t WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf("\n\t\t ORDER BY sp.created_at DESC, sp.id DESC\n\t\t LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SkillPostWithOwner, 0)
	for rows.Next() {
		p, err := scanSkillPostWithOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillPostRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]skillpost.SkillPost, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, skill_name, description, post_type, created_at
		 FROM skill_posts
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skillpost.SkillPost, 0)
	for rows.Next() {
		var p skillpost.SkillPost
		var postType string
		if err := rows.Scan(&p.ID, &p.UserID, &p.SkillName, &p.Description, &postType, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.PostType = skillpost.PostType(postType)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillPostRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	var owner uuid.UUID
	row := r.db.QueryRow(ctx, `SELECT user_id FROM skill_posts WHERE id = $1`, id)
	if err := row.Scan(&owner); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return ErrSkillPostNotFound
		}
		return err
	}
	if owner != userID {
		return ErrSkillPostForbidden
	}

	affected, err := r.db.Exec(ctx, `DELETE FROM skill_posts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSkillPostNotFound
	}
	return nil
}

func (r *PostgresSkillPostRepository) FindExactCandidates(ctx context.Context, source skillpost.SkillPost) ([]matching.Candidate, error) {
	name := strings.TrimSpace(source.SkillName)
	if name == "" || !source.PostType.Valid() {
		return []matching.Candidate{}, nil
	}

	return r.queryCandidates(ctx,
		`SELECT `+skillPostWithOwnerColumns+`
		 `+skillPostWithOwnerFrom+`
		 WHERE sp.post_type = $1
		   AND sp.user_id <> $2
		   AND lower(sp.skill_name) = lower($3)
		 ORDER BY sp.created_at ASC, sp.id ASC`,
		string(source.PostType.Opposite()), source.UserID, name,
	)
}

func (r *PostgresSkillPostRepository) FindSimilarCandidates(ctx context.Context, source skillpost.SkillPost) ([]matching.Candidate, error) {
	token := matching.FirstToken(source.SkillName)
	if token == "" || !source.PostType.Valid() {
		return []matching.Candidate{}, nil
	}

	return r.queryCandidates(ctx,
		`SELECT `+skillPostWithOwnerColumns+`
		 `+skillPostWithOwnerFrom+`
		 WHERE sp.post_type = $1
		   AND sp.user_id <> $2
		   AND sp.skill_name ILIKE $3 ESCAPE '\'
		   AND lower(sp.skill_name) <> lower($4)
		 ORDER BY sp.created_at ASC, sp.id ASC`,
		string(source.PostType.Opposite()), source.UserID, search.ContainsPattern(token), strings.TrimSpace(source.SkillName),
	)
}

func (r *PostgresSkillPostRepository) queryCandidates(ctx context.Context, query string, args ...any) ([]matching.Candidate, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matching.Candidate, 0)
	for rows.Next() {
		p, err := scanSkillPostWithOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, matching.Candidate{Post: p.Post, Owner: p.Owner})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanSkillPostWithOwner(row database.Row) (SkillPostWithOwner, error) {
	var out SkillPostWithOwner
	var postType string
	var availability []string
	if err := row.Scan(
		&out.Post.ID,
		&out.Post.UserID,
		&out.Post.SkillName,
		&out.Post.Description,
		&postType,
		&out.Post.CreatedAt,
		&out.Owner.Name,
		&out.Owner.Location,
		&availability,
	); err != nil {
		return SkillPostWithOwner{}, err
	}
	out.Post.PostType = skillpost.PostType(postType)
	out.Owner.UserID = out.Post.UserID
	if availability == nil {
		availability = []string{}
	}
	out.Owner.Availability = availability
	return out, nil
}
