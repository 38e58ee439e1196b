package dto

type MatchResponse struct {
	SkillPostResponse
	Score int `json:"score"`
}

// RecommendationResponse is one element of the bare array the
// recommendations endpoint returns.
type RecommendationResponse struct {
	MySkill      SkillPostResponse `json:"mySkill"`
	Matches      []MatchResponse   `json:"matches"`
	TotalMatches int               `json:"totalMatches"`
}
