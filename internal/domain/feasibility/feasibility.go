// Package feasibility decides whether a proposed study schedule can cover a
// learning item's remaining duration before a target date.
package feasibility

import (
	"fmt"
	"math"
	"time"

	"github.com/phrazzld/studyplan-api/internal/domain"
)

// DefaultBufferRatio is the extra time reserved on top of the content
// duration for review and note taking.
const DefaultBufferRatio = 0.20

// UnknownDurationWarning is attached to verdicts for items without a duration.
const UnknownDurationWarning = "Content duration is unknown, so this plan could not be checked against it"

// Validation errors
var (
	ErrInvalidDailyMinutes = fmt.Errorf("%w: daily study minutes must be greater than zero", domain.ErrValidation)
	ErrInvalidStudyDays    = fmt.Errorf("%w: study days per week must be between 1 and 7", domain.ErrValidation)
	ErrMissingTargetDate   = fmt.Errorf("%w: target date is required", domain.ErrValidation)
	ErrTargetDateNotFuture = fmt.Errorf("%w: target date must be in the future", domain.ErrValidation)
)

// Plan is a proposed study schedule. A zero StudyDaysPerWeek means every day.
type Plan struct {
	TargetDate       time.Time `json:"target_date"`
	DailyMinutes     int       `json:"daily_minutes"`
	StudyDaysPerWeek int       `json:"study_days_per_week"`
}

// Verdict is the outcome of a feasibility check. Minute fields are exact;
// hour fields are rounded to one decimal for display.
type Verdict struct {
	Feasible bool   `json:"is_feasible"`
	Message  string `json:"message"`
	Warning  string `json:"warning,omitempty"`

	RequiredMinutes  float64 `json:"required_minutes"`
	AvailableMinutes float64 `json:"available_minutes"`
	SurplusMinutes   float64 `json:"surplus_minutes"`

	RequiredHours  float64 `json:"required_hours"`
	AvailableHours float64 `json:"available_hours"`
	ShortfallHours float64 `json:"shortfall_hours,omitempty"`
	BufferHours    float64 `json:"buffer_hours,omitempty"`

	TotalDays               int     `json:"total_days"`
	TotalStudyDays          float64 `json:"total_study_days"`
	RecommendedDailyMinutes int     `json:"recommended_daily_minutes,omitempty"`
}

// Checker evaluates plans with a configurable buffer ratio.
type Checker struct {
	bufferRatio float64
}

// NewChecker returns a Checker. A non-positive ratio selects DefaultBufferRatio.
func NewChecker(bufferRatio float64) *Checker {
	if bufferRatio <= 0 {
		bufferRatio = DefaultBufferRatio
	}
	return &Checker{bufferRatio: bufferRatio}
}

// Check evaluates plan with the default buffer ratio.
func Check(totalDuration int, plan Plan, now time.Time) (Verdict, error) {
	return NewChecker(DefaultBufferRatio).Check(totalDuration, plan, now)
}

// Validate normalises plan and reports the first invalid input.
func Validate(plan Plan, now time.Time) (Plan, error) {
	if plan.DailyMinutes <= 0 {
		return plan, ErrInvalidDailyMinutes
	}
	if plan.StudyDaysPerWeek == 0 {
		plan.StudyDaysPerWeek = 7
	}
	if plan.StudyDaysPerWeek < 1 || plan.StudyDaysPerWeek > 7 {
		return plan, ErrInvalidStudyDays
	}
	if plan.TargetDate.IsZero() {
		return plan, ErrMissingTargetDate
	}
	if !plan.TargetDate.After(now) {
		return plan, ErrTargetDateNotFuture
	}
	return plan, nil
}

// Check decides whether plan covers totalDuration minutes (plus buffer)
// before the target date.
//
// Invalid input is rejected with an error wrapping domain.ErrValidation. An
// item of unknown duration (totalDuration <= 0) is always feasible, with a
// warning. Otherwise study time is counted over whole calendar days until the
// target, scaled by the fraction of the week the user studies.
func (c *Checker) Check(totalDuration int, plan Plan, now time.Time) (Verdict, error) {
	plan, err := Validate(plan, now)
	if err != nil {
		return Verdict{}, err
	}

	if totalDuration <= 0 {
		return Verdict{
			Feasible: true,
			Message:  "Plan accepted",
			Warning:  UnknownDurationWarning,
		}, nil
	}

	required := float64(totalDuration) * (1 + c.bufferRatio)
	totalDays := int(math.Floor(plan.TargetDate.Sub(now).Hours() / 24))
	studyDays := float64(totalDays) / 7 * float64(plan.StudyDaysPerWeek)
	available := studyDays * float64(plan.DailyMinutes)
	surplus := available - required

	v := Verdict{
		Feasible:         surplus >= 0,
		RequiredMinutes:  required,
		AvailableMinutes: available,
		SurplusMinutes:   surplus,
		RequiredHours:    toHours(required),
		AvailableHours:   toHours(available),
		TotalDays:        totalDays,
		TotalStudyDays:   studyDays,
	}
	if studyDays > 0 {
		v.RecommendedDailyMinutes = int(math.Ceil(required / studyDays))
	}

	if v.Feasible {
		v.BufferHours = toHours(surplus)
		v.Message = fmt.Sprintf("Plan is achievable with %.1f hours to spare", v.BufferHours)
		return v, nil
	}

	v.ShortfallHours = toHours(-surplus)
	v.Message = fmt.Sprintf(
		"Plan falls %.1f hours short. Increase your daily study time or extend the target date",
		v.ShortfallHours,
	)
	return v, nil
}

func toHours(minutes float64) float64 {
	return math.Round(minutes/60*10) / 10
}
