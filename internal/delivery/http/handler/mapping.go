package handler

import (
	"strconv"
	"strings"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/domain/matching"
	"skill-swap/internal/domain/skillpost"
	"skill-swap/internal/domain/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func toUserProfileResponse(u user.User) dto.UserProfileResponse {
	availability := u.Availability
	if availability == nil {
		availability = []string{}
	}
	return dto.UserProfileResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Location:     u.Location,
		Availability: availability,
		IsPublic:     u.IsPublic,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toPostOwnerResponse(s user.ProfileSummary) *dto.PostOwnerResponse {
	var loc *string
	if l := strings.TrimSpace(s.Location); l != "" {
		loc = &l
	}
	availability := s.Availability
	if availability == nil {
		availability = []string{}
	}
	return &dto.PostOwnerResponse{
		ID:           s.UserID,
		Name:         s.Name,
		Location:     loc,
		Availability: availability,
	}
}

func toSkillPostResponse(p skillpost.SkillPost, owner *user.ProfileSummary) dto.SkillPostResponse {
	res := dto.SkillPostResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		SkillName:   p.SkillName,
		Description: p.Description,
		PostType:    string(p.PostType),
		CreatedAt:   p.CreatedAt,
	}
	if owner != nil {
		res.User = toPostOwnerResponse(*owner)
	}
	return res
}

func toRecommendationResponses(recs []matching.Recommendation) []dto.RecommendationResponse {
	out := make([]dto.RecommendationResponse, 0, len(recs))
	for _, r := range recs {
		matches := make([]dto.MatchResponse, 0, len(r.Matches))
		for _, m := range r.Matches {
			owner := m.Owner
			if owner.UserID == uuid.Nil {
				owner.UserID = m.Post.UserID
			}
			matches = append(matches, dto.MatchResponse{
				SkillPostResponse: toSkillPostResponse(m.Post, &owner),
				Score:             m.Score,
			})
		}
		out = append(out, dto.RecommendationResponse{
			MySkill:      toSkillPostResponse(r.MySkill, nil),
			Matches:      matches,
			TotalMatches: r.TotalMatches,
		})
	}
	return out
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}
