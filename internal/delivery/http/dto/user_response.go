package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Location     *string   `json:"location"`
	Availability []string  `json:"availability"`
	IsPublic     bool      `json:"is_public"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PublicUserResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Location       *string   `json:"location"`
	Availability   []string  `json:"availability"`
	OfferingSkills []string  `json:"offering_skills"`
	SeekingSkills  []string  `json:"seeking_skills"`
}
