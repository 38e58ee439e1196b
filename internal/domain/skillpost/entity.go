package skillpost

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PostType string

const (
	PostTypeOffering PostType = "OFFERING"
	PostTypeSeeking  PostType = "SEEKING"
)

// ParsePostType accepts either post type in any letter case.
func ParsePostType(s string) (PostType, bool) {
	switch PostType(strings.ToUpper(strings.TrimSpace(s))) {
	case PostTypeOffering:
		return PostTypeOffering, true
	case PostTypeSeeking:
		return PostTypeSeeking, true
	default:
		return "", false
	}
}

func (t PostType) Valid() bool {
	return t == PostTypeOffering || t == PostTypeSeeking
}

// Opposite returns the post type a match must carry: OFFERING pairs with SEEKING.
func (t PostType) Opposite() PostType {
	switch t {
	case PostTypeOffering:
		return PostTypeSeeking
	case PostTypeSeeking:
		return PostTypeOffering
	default:
		return ""
	}
}

type SkillPost struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	SkillName   string
	Description *string
	PostType    PostType
	CreatedAt   time.Time
}

func (p SkillPost) DescriptionText() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}
