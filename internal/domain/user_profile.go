package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrProfileInvalidSkillLevel is returned for an unknown skill level.
var ErrProfileInvalidSkillLevel = fmt.Errorf(
	"%w: skill level must be beginner, intermediate or advanced",
	ErrValidation,
)

// UserProfile holds the learner attributes used when ranking content:
// a self-reported skill level and a set of goal keywords.
type UserProfile struct {
	UserID     uuid.UUID `json:"user_id"`
	SkillLevel string    `json:"skill_level,omitempty"`
	Goals      []string  `json:"goals"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewUserProfile normalises and validates profile input.
func NewUserProfile(userID uuid.UUID, skillLevel string, goals []string, now time.Time) (*UserProfile, error) {
	if userID == uuid.Nil {
		return nil, NewValidationError("user_id", "cannot be empty", ErrValidation)
	}

	level := strings.ToLower(strings.TrimSpace(skillLevel))
	if level != "" && LevelRank(level) == 0 {
		return nil, ErrProfileInvalidSkillLevel
	}

	return &UserProfile{
		UserID:     userID,
		SkillLevel: level,
		Goals:      NormalizeKeywords(goals),
		UpdatedAt:  now,
	}, nil
}
