package matching

import (
	"sort"
	"strings"
	"unicode/utf8"

	"skill-swap/internal/domain/skillpost"
	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
)

// MaxMatches is how many ranked candidates a recommendation keeps.
const MaxMatches = 5

const (
	exactMatchScore      = 100
	similarMatchScore    = 50
	locationBonus        = 30
	availabilityBonus    = 10
	descriptionBonus     = 5
	minDescriptionLength = 10
)

type Candidate struct {
	Post  skillpost.SkillPost
	Owner user.ProfileSummary
}

// CandidateSet holds the two candidate subsets fetched for one source post.
// Similar must not repeat entries of Exact.
type CandidateSet struct {
	Exact   []Candidate
	Similar []Candidate
}

type Match struct {
	Post  skillpost.SkillPost
	Owner user.ProfileSummary
	Score int
}

type Recommendation struct {
	MySkill      skillpost.SkillPost
	Matches      []Match
	TotalMatches int
}

// Compute ranks the candidates of every post in myPosts and returns one
// Recommendation per post, in myPosts order. It does not modify its inputs.
func Compute(myPosts []skillpost.SkillPost, myProfile user.ProfileSummary, candidatesByPost map[uuid.UUID]CandidateSet) []Recommendation {
	out := make([]Recommendation, 0, len(myPosts))
	for _, p := range myPosts {
		out = append(out, recommend(p, myProfile, candidatesByPost[p.ID]))
	}
	return out
}

func recommend(p skillpost.SkillPost, myProfile user.ProfileSummary, set CandidateSet) Recommendation {
	union := make([]Candidate, 0, len(set.Exact)+len(set.Similar))
	for _, c := range set.Exact {
		if Eligible(p, c.Post) {
			union = append(union, c)
		}
	}
	for _, c := range set.Similar {
		if Eligible(p, c.Post) {
			union = append(union, c)
		}
	}

	scored := make([]Match, 0, len(union))
	for _, c := range union {
		scored = append(scored, Match{Post: c.Post, Owner: c.Owner, Score: Score(p, myProfile, c)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > MaxMatches {
		scored = scored[:MaxMatches]
	}

	return Recommendation{
		MySkill:      p,
		Matches:      scored,
		TotalMatches: len(union),
	}
}

// Eligible reports whether candidate may be matched against source: opposite
// post type and a different owner.
func Eligible(source, candidate skillpost.SkillPost) bool {
	if !source.PostType.Valid() {
		return false
	}
	if candidate.PostType != source.PostType.Opposite() {
		return false
	}
	return candidate.UserID != source.UserID
}

// Score sums the independent bonuses of one candidate against source.
func Score(source skillpost.SkillPost, myProfile user.ProfileSummary, c Candidate) int {
	score := similarMatchScore
	if strings.EqualFold(c.Post.SkillName, source.SkillName) {
		score = exactMatchScore
	}

	if sameLocation(myProfile.Location, c.Owner.Location) {
		score += locationBonus
	}

	score += availabilityBonus * sharedAvailability(myProfile.Availability, c.Owner.Availability)

	if utf8.RuneCountInString(c.Post.DescriptionText()) > minDescriptionLength {
		score += descriptionBonus
	}

	return score
}

// MaxScore is the highest score any candidate can reach for myProfile.
func MaxScore(myProfile user.ProfileSummary) int {
	return exactMatchScore + locationBonus + availabilityBonus*len(distinct(myProfile.Availability)) + descriptionBonus
}

// FirstToken returns the first whitespace-delimited token of a skill name,
// the similarity key used when looking up near matches.
func FirstToken(skillName string) string {
	fields := strings.Fields(skillName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func sameLocation(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

func sharedAvailability(mine, theirs []string) int {
	if len(mine) == 0 || len(theirs) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(theirs))
	for _, t := range theirs {
		set[t] = struct{}{}
	}
	n := 0
	for _, m := range distinct(mine) {
		if _, ok := set[m]; ok {
			n++
		}
	}
	return n
}

func distinct(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
