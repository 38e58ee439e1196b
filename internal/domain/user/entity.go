package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Availability tags a profile may carry.
const (
	AvailabilityWeekdays   = "Weekdays"
	AvailabilityWeekends   = "Weekends"
	AvailabilityMornings   = "Mornings"
	AvailabilityAfternoons = "Afternoons"
	AvailabilityEvenings   = "Evenings"
)

var availabilityTags = []string{
	AvailabilityWeekdays,
	AvailabilityWeekends,
	AvailabilityMornings,
	AvailabilityAfternoons,
	AvailabilityEvenings,
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Location     *string
	Availability []string
	IsPublic     bool
	IsBanned     bool
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileSummary is the slice of a user the recommendation scorer needs.
type ProfileSummary struct {
	UserID       uuid.UUID
	Name         string
	Location     string
	Availability []string
}

type PublicUser struct {
	ID             uuid.UUID
	Name           string
	Location       *string
	Availability   []string
	OfferingSkills []string
	SeekingSkills  []string
}

func (u User) Summary() ProfileSummary {
	s := ProfileSummary{UserID: u.ID, Name: u.Name, Availability: u.Availability}
	if u.Location != nil {
		s.Location = *u.Location
	}
	return s
}

func AvailabilityTags() []string {
	out := make([]string, len(availabilityTags))
	copy(out, availabilityTags)
	return out
}

// NormalizeAvailability canonicalizes tag spelling and drops duplicates,
// keeping first-seen order. ok is false when any tag is unknown.
func NormalizeAvailability(tags []string) ([]string, bool) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		tag, ok := canonicalAvailability(raw)
		if !ok {
			return nil, false
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out, true
}

func canonicalAvailability(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, tag := range availabilityTags {
		if strings.EqualFold(tag, raw) {
			return tag, true
		}
	}
	return "", false
}
