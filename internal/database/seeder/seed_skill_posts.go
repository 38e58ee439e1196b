package seeder

import (
	"context"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/skillpost"
)

type SkillPostsSeeder struct{}

func (SkillPostsSeeder) Name() string { return "skill_posts" }

func (SkillPostsSeeder) Run(ctx context.Context, db database.DB) (int64, error) {
	if err := EnsureTableColumns(ctx, db, "skill_posts", "id", "user_id", "skill_name", "description", "post_type", "created_at"); err != nil {
		return 0, err
	}

	items := []struct {
		Email       string
		SkillName   string
		Description string
		PostType    skillpost.PostType
	}{
		{Email: "john@example.com", SkillName: "Guitar", Description: "Acoustic guitar basics and chords", PostType: skillpost.PostTypeOffering},
		{Email: "john@example.com", SkillName: "Spanish", Description: "Conversational practice", PostType: skillpost.PostTypeSeeking},
		{Email: "jane@example.com", SkillName: "Spanish Conversation", Description: "Native speaker, happy to chat", PostType: skillpost.PostTypeOffering},
		{Email: "jane@example.com", SkillName: "Guitar", Description: "Complete beginner", PostType: skillpost.PostTypeSeeking},
	}

	var inserted int64
	err := database.WithTx(ctx, db, func(tx database.Tx) error {
		inserted = 0
		for _, it := range items {
			n, err := tx.Exec(
				ctx,
				`INSERT INTO skill_posts (id, user_id, skill_name, description, post_type)
				 SELECT gen_random_uuid(), u.id, $2, $3, $4
				 FROM users u
				 WHERE lower(u.email) = lower($1)
				   AND NOT EXISTS (
				     SELECT 1 FROM skill_posts sp
				     WHERE sp.user_id = u.id AND lower(sp.skill_name) = lower($2) AND sp.post_type = $4
				   )`,
				it.Email,
				it.SkillName,
				it.Description,
				string(it.PostType),
			)
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
