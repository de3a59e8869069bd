package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommitmentStatusActive is the status of a freshly accepted commitment.
const CommitmentStatusActive = "active"

// Commitment records a user's accepted study schedule for a learning item.
// Commitments are only created after the schedule passed a feasibility check.
type Commitment struct {
	ID                   uuid.UUID `json:"id"`
	UserID               uuid.UUID `json:"user_id"`
	LearningItemID       uuid.UUID `json:"learning_item_id"`
	DailyStudyMinutes    int       `json:"daily_study_minutes"`
	StudyDaysPerWeek     int       `json:"study_days_per_week"`
	TargetCompletionDate time.Time `json:"target_completion_date"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
}

// NewCommitment builds an active commitment. Inputs are expected to have been
// validated by the feasibility check already.
func NewCommitment(
	userID, itemID uuid.UUID,
	dailyMinutes, daysPerWeek int,
	target time.Time,
	now time.Time,
) *Commitment {
	return &Commitment{
		ID:                   uuid.New(),
		UserID:               userID,
		LearningItemID:       itemID,
		DailyStudyMinutes:    dailyMinutes,
		StudyDaysPerWeek:     daysPerWeek,
		TargetCompletionDate: target,
		Status:               CommitmentStatusActive,
		CreatedAt:            now,
	}
}
