package dto

import (
	"time"

	"github.com/google/uuid"
)

type PostOwnerResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Location     *string   `json:"location"`
	Availability []string  `json:"availability"`
}

type SkillPostResponse struct {
	ID          uuid.UUID          `json:"id"`
	UserID      uuid.UUID          `json:"user_id"`
	SkillName   string             `json:"skill_name"`
	Description *string            `json:"description"`
	PostType    string             `json:"post_type"`
	CreatedAt   time.Time          `json:"created_at"`
	User        *PostOwnerResponse `json:"user,omitempty"`
}
