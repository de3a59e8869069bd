package priority

import (
	"math"
	"strings"
	"time"

	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/samber/lo"
)

// neutralScore is used for any factor that lacks the data to be computed.
const neutralScore = 50.0

var (
	beginnerKeywords = []string{"beginner", "intro", "basics"}
	advancedKeywords = []string{"advanced", "expert", "master"}
)

// DaysUntil returns the whole calendar days from now to target, rounding
// toward negative infinity so any past instant counts as overdue.
func DaysUntil(target, now time.Time) int {
	return int(math.Floor(target.Sub(now).Hours() / 24))
}

// DeadlineUrgency scores how close the item's target date is.
func DeadlineUrgency(target *time.Time, now time.Time) float64 {
	if target == nil {
		return neutralScore
	}

	days := DaysUntil(*target, now)
	switch {
	case days < 0:
		return 100
	case days == 0:
		return 95
	case days <= 3:
		return 90
	case days <= 7:
		return 75
	case days <= 14:
		return 60
	case days <= 30:
		return 40
	default:
		return 20
	}
}

// CareerRelevance scores the overlap between the item and the user's goals.
// A category that contains a goal keyword (or is contained by one) counts as a
// strong match on its own.
func CareerRelevance(item *domain.LearningItem, profile *domain.UserProfile) float64 {
	if profile == nil || len(profile.Goals) == 0 {
		return neutralScore
	}

	goals := domain.NormalizeKeywords(profile.Goals)
	matches := len(lo.Intersect(domain.NormalizeKeywords(item.Tags), goals))

	category := strings.ToLower(strings.TrimSpace(item.Category))
	categoryMatch := category != "" && lo.SomeBy(goals, func(g string) bool {
		return strings.Contains(category, g) || strings.Contains(g, category)
	})

	switch {
	case matches >= 3 || categoryMatch:
		return 90
	case matches == 2:
		return 75
	case matches == 1:
		return 60
	default:
		return 30
	}
}

// EffortInvested rewards items the user has already made progress on.
// Items with an unknown total duration score zero.
func EffortInvested(item *domain.LearningItem) float64 {
	if item.TotalDuration <= 0 {
		return 0
	}

	progress := domain.ProgressPercentage(item.CompletedDuration, item.TotalDuration)
	switch {
	case progress >= 75:
		return 95
	case progress >= 50:
		return 80
	case progress >= 25:
		return 60
	case progress >= 10:
		return 40
	default:
		return 20
	}
}

// ContentLevel infers the item's level (1-3) from explicit difficulty
// metadata, falling back to keywords in the title and category. Items with
// no signal are treated as intermediate.
func ContentLevel(item *domain.LearningItem) int {
	if rank := domain.LevelRank(item.Difficulty); rank > 0 {
		return rank
	}

	text := strings.ToLower(item.Title + " " + item.Category)
	switch {
	case containsAny(text, beginnerKeywords):
		return 1
	case containsAny(text, advancedKeywords):
		return 3
	default:
		return 2
	}
}

// DifficultyMatch scores how well the content level fits the user's skill.
func DifficultyMatch(item *domain.LearningItem, profile *domain.UserProfile) float64 {
	if profile == nil {
		return neutralScore
	}
	userLevel := domain.LevelRank(profile.SkillLevel)
	if userLevel == 0 {
		return neutralScore
	}

	diff := ContentLevel(item) - userLevel
	if diff < 0 {
		diff = -diff
	}

	switch diff {
	case 0:
		return 100
	case 1:
		return 70
	default:
		return 40
	}
}

func containsAny(text string, words []string) bool {
	return lo.SomeBy(words, func(w string) bool {
		return strings.Contains(text, w)
	})
}
