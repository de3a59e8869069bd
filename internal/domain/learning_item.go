package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// LearningItemStatus is the lifecycle state of a learning item.
type LearningItemStatus string

const (
	// LearningItemStatusActive marks an item the user is currently working through.
	LearningItemStatusActive LearningItemStatus = "active"

	// LearningItemStatusCompleted marks an item whose full duration has been consumed.
	LearningItemStatusCompleted LearningItemStatus = "completed"

	// LearningItemStatusArchived marks an item the user set aside.
	LearningItemStatusArchived LearningItemStatus = "archived"
)

// Skill and difficulty levels share the same vocabulary.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Learning item validation errors
var (
	ErrLearningItemTitleEmpty      = fmt.Errorf("%w: learning item title cannot be empty", ErrValidation)
	ErrLearningItemUserIDEmpty     = fmt.Errorf("%w: learning item user ID cannot be empty", ErrValidation)
	ErrLearningItemInvalidDuration = fmt.Errorf("%w: durations cannot be negative", ErrValidation)
	ErrLearningItemInvalidProgress = fmt.Errorf("%w: completed duration exceeds total duration", ErrValidation)
	ErrLearningItemInvalidLevel    = fmt.Errorf("%w: difficulty must be beginner, intermediate or advanced", ErrValidation)
	ErrLearningItemInvalidStatus   = fmt.Errorf("%w: invalid learning item status", ErrValidation)
)

// LearningItem is a unit of study content such as a course, video or book.
// Durations are in minutes; a TotalDuration of zero means the length is unknown.
type LearningItem struct {
	ID                   uuid.UUID          `json:"id"`
	UserID               uuid.UUID          `json:"user_id"`
	Title                string             `json:"title"`
	ContentType          string             `json:"content_type"`
	Category             string             `json:"category,omitempty"`
	Tags                 []string           `json:"tags"`
	Difficulty           string             `json:"difficulty,omitempty"`
	TotalDuration        int                `json:"total_duration"`
	CompletedDuration    int                `json:"completed_duration"`
	ProgressPercentage   float64            `json:"progress_percentage"`
	TargetCompletionDate *time.Time         `json:"target_completion_date,omitempty"`
	Status               LearningItemStatus `json:"status"`

	// PriorityScore is a cached copy of the last computed score. Readers that
	// need a current value recompute it.
	PriorityScore float64 `json:"priority_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLearningItem creates an active item with zero progress.
func NewLearningItem(
	userID uuid.UUID,
	title, contentType, category string,
	tags []string,
	difficulty string,
	totalDuration int,
	target *time.Time,
	now time.Time,
) (*LearningItem, error) {
	item := &LearningItem{
		ID:                   uuid.New(),
		UserID:               userID,
		Title:                strings.TrimSpace(title),
		ContentType:          strings.ToLower(strings.TrimSpace(contentType)),
		Category:             strings.TrimSpace(category),
		Tags:                 NormalizeKeywords(tags),
		Difficulty:           strings.ToLower(strings.TrimSpace(difficulty)),
		TotalDuration:        totalDuration,
		TargetCompletionDate: target,
		Status:               LearningItemStatusActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if item.ContentType == "" {
		item.ContentType = "other"
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks the item's fields and its progress invariant.
func (i *LearningItem) Validate() error {
	if i.UserID == uuid.Nil {
		return ErrLearningItemUserIDEmpty
	}
	if strings.TrimSpace(i.Title) == "" {
		return ErrLearningItemTitleEmpty
	}
	if i.TotalDuration < 0 || i.CompletedDuration < 0 {
		return ErrLearningItemInvalidDuration
	}
	if i.TotalDuration > 0 && i.CompletedDuration > i.TotalDuration {
		return ErrLearningItemInvalidProgress
	}
	if i.Difficulty != "" && LevelRank(i.Difficulty) == 0 {
		return ErrLearningItemInvalidLevel
	}
	switch i.Status {
	case LearningItemStatusActive, LearningItemStatusCompleted, LearningItemStatusArchived:
	default:
		return ErrLearningItemInvalidStatus
	}
	return nil
}

// SetProgress records the minutes completed so far, recomputes the progress
// percentage, and marks the item completed once it reaches 100%.
func (i *LearningItem) SetProgress(completed int, now time.Time) error {
	if completed < 0 {
		return ErrLearningItemInvalidDuration
	}
	if i.TotalDuration > 0 && completed > i.TotalDuration {
		return ErrLearningItemInvalidProgress
	}

	i.CompletedDuration = completed
	i.ProgressPercentage = ProgressPercentage(completed, i.TotalDuration)
	if i.TotalDuration > 0 && completed == i.TotalDuration {
		i.Status = LearningItemStatusCompleted
	} else if i.Status == LearningItemStatusCompleted {
		i.Status = LearningItemStatusActive
	}
	i.UpdatedAt = now
	return nil
}

// IsOwnedBy reports whether the item belongs to userID.
func (i *LearningItem) IsOwnedBy(userID uuid.UUID) bool {
	return i.UserID == userID
}

// ProgressPercentage returns 100*completed/total, or 0 for an unknown total.
func ProgressPercentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// LevelRank maps a level name to 1 (beginner), 2 (intermediate) or
// 3 (advanced). Unknown names map to 0.
func LevelRank(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	default:
		return 0
	}
}

// NormalizeKeywords lower-cases, trims and de-duplicates keywords, dropping
// blanks. Order of first occurrence is kept.
func NormalizeKeywords(words []string) []string {
	cleaned := lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimSpace(w))
		return w, w != ""
	})
	return lo.Uniq(cleaned)
}
