// Package priority computes the weighted priority score used to rank a
// user's learning items, together with short human-readable reasons.
package priority

import (
	"math"
	"time"

	"github.com/phrazzld/studyplan-api/internal/domain"
)

// Weights are the factor weights of the priority score. They sum to 1.
type Weights struct {
	Deadline   float64
	Relevance  float64
	Effort     float64
	Difficulty float64
}

// DefaultWeights favour deadlines first, then goal relevance.
var DefaultWeights = Weights{
	Deadline:   0.40,
	Relevance:  0.25,
	Effort:     0.20,
	Difficulty: 0.15,
}

// Breakdown is the result of scoring a single item.
type Breakdown struct {
	DeadlineUrgency float64  `json:"deadline_urgency"`
	CareerRelevance float64  `json:"career_relevance"`
	EffortInvested  float64  `json:"effort_invested"`
	DifficultyMatch float64  `json:"difficulty_match"`
	Score           float64  `json:"score"`
	Reasons         []string `json:"reasons"`
}

// Explanation strings
const (
	ReasonDeadlineImminent = "Deadline is imminent"
	ReasonDeadlineThisWeek = "Deadline is within a week"
	ReasonGoalAligned      = "Closely aligned with your goals"
	ReasonNearlyDone       = "You are close to finishing"
	ReasonSkillMatch       = "Matches your skill level"
	ReasonDefault          = "Steady progress item"
)

// Calculate scores item for the given profile (nil when the user has none)
// at instant now, using DefaultWeights.
func Calculate(item *domain.LearningItem, profile *domain.UserProfile, now time.Time) Breakdown {
	return CalculateWithWeights(item, profile, now, DefaultWeights)
}

// CalculateWithWeights is Calculate with explicit factor weights.
func CalculateWithWeights(
	item *domain.LearningItem,
	profile *domain.UserProfile,
	now time.Time,
	w Weights,
) Breakdown {
	b := Breakdown{
		DeadlineUrgency: DeadlineUrgency(item.TargetCompletionDate, now),
		CareerRelevance: CareerRelevance(item, profile),
		EffortInvested:  EffortInvested(item),
		DifficultyMatch: DifficultyMatch(item, profile),
	}

	raw := w.Deadline*b.DeadlineUrgency +
		w.Relevance*b.CareerRelevance +
		w.Effort*b.EffortInvested +
		w.Difficulty*b.DifficultyMatch

	b.Score = round2(clamp(raw, 0, 100))
	b.Reasons = explain(b)
	return b
}

func explain(b Breakdown) []string {
	var reasons []string

	switch {
	case b.DeadlineUrgency >= 90:
		reasons = append(reasons, ReasonDeadlineImminent)
	case b.DeadlineUrgency >= 75:
		reasons = append(reasons, ReasonDeadlineThisWeek)
	}
	if b.CareerRelevance >= 75 {
		reasons = append(reasons, ReasonGoalAligned)
	}
	if b.EffortInvested >= 80 {
		reasons = append(reasons, ReasonNearlyDone)
	}
	if b.DifficultyMatch == 100 {
		reasons = append(reasons, ReasonSkillMatch)
	}

	if len(reasons) == 0 {
		reasons = []string{ReasonDefault}
	}
	return reasons
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
