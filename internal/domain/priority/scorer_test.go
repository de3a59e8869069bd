package priority

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func daysFromNow(d int) *time.Time {
	t := now.AddDate(0, 0, d)
	return &t
}

func newItem(mods ...func(*domain.LearningItem)) *domain.LearningItem {
	item := &domain.LearningItem{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Title:         "Distributed Systems",
		ContentType:   "course",
		TotalDuration: 600,
		Status:        domain.LearningItemStatusActive,
	}
	for _, m := range mods {
		m(item)
	}
	return item
}

func TestDeadlineUrgency(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		target   *time.Time
		expected float64
	}{
		{"no deadline", nil, 50},
		{"overdue", daysFromNow(-2), 100},
		{"one second ago", func() *time.Time { v := now.Add(-time.Second); return &v }(), 100},
		{"later today", func() *time.Time { v := now.Add(3 * time.Hour); return &v }(), 95},
		{"in 1 day", daysFromNow(1), 90},
		{"in 3 days", daysFromNow(3), 90},
		{"in 4 days", daysFromNow(4), 75},
		{"in 7 days", daysFromNow(7), 75},
		{"in 8 days", daysFromNow(8), 60},
		{"in 14 days", daysFromNow(14), 60},
		{"in 30 days", daysFromNow(30), 40},
		{"in 31 days", daysFromNow(31), 20},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, DeadlineUrgency(tc.target, now))
		})
	}
}

func TestCareerRelevance(t *testing.T) {
	t.Parallel()

	profile := &domain.UserProfile{Goals: []string{"golang", "backend", "databases", "kubernetes"}}

	testCases := []struct {
		name     string
		tags     []string
		category string
		profile  *domain.UserProfile
		expected float64
	}{
		{"no profile", []string{"golang"}, "", nil, 50},
		{"profile without goals", []string{"golang"}, "", &domain.UserProfile{}, 50},
		{"three tags", []string{"golang", "Backend", "databases"}, "", profile, 90},
		{"category contains goal", nil, "Backend Engineering", profile, 90},
		{"two tags", []string{"golang", "backend", "art"}, "", profile, 75},
		{"one tag", []string{"GOLANG"}, "", profile, 60},
		{"no overlap", []string{"painting"}, "Art", profile, 30},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			item := newItem(func(i *domain.LearningItem) {
				i.Tags = tc.tags
				i.Category = tc.category
			})
			assert.Equal(t, tc.expected, CareerRelevance(item, tc.profile))
		})
	}
}

func TestEffortInvested(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		total, completed int
		expected         float64
	}{
		{0, 0, 0},
		{0, 30, 0},
		{100, 0, 20},
		{100, 9, 20},
		{100, 10, 40},
		{100, 25, 60},
		{100, 50, 80},
		{100, 74, 80},
		{100, 75, 95},
		{100, 100, 95},
	}

	for _, tc := range testCases {
		item := newItem(func(i *domain.LearningItem) {
			i.TotalDuration = tc.total
			i.CompletedDuration = tc.completed
		})
		assert.Equal(t, tc.expected, EffortInvested(item), "total=%d completed=%d", tc.total, tc.completed)
	}
}

func TestContentLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		title, category, difficulty string
		expected                    int
	}{
		{"Intro to Go", "", "", 1},
		{"Go Basics", "", "", 1},
		{"Mastering Concurrency", "", "", 3},
		{"Go", "Expert track", "", 3},
		{"Go in Practice", "", "", 2},
		{"Intro to Go", "", "advanced", 3},
	}

	for _, tc := range testCases {
		item := newItem(func(i *domain.LearningItem) {
			i.Title = tc.title
			i.Category = tc.category
			i.Difficulty = tc.difficulty
		})
		assert.Equal(t, tc.expected, ContentLevel(item), tc.title)
	}
}

func TestDifficultyMatch(t *testing.T) {
	t.Parallel()

	beginner := &domain.UserProfile{SkillLevel: domain.LevelBeginner}
	advanced := &domain.UserProfile{SkillLevel: domain.LevelAdvanced}
	intro := newItem(func(i *domain.LearningItem) { i.Title = "Intro to SQL" })
	plain := newItem()

	assert.Equal(t, 50.0, DifficultyMatch(intro, nil))
	assert.Equal(t, 50.0, DifficultyMatch(intro, &domain.UserProfile{}))
	assert.Equal(t, 100.0, DifficultyMatch(intro, beginner))
	assert.Equal(t, 70.0, DifficultyMatch(plain, beginner))
	assert.Equal(t, 40.0, DifficultyMatch(intro, advanced))
}

func TestCalculate(t *testing.T) {
	t.Parallel()

	t.Run("neutral item", func(t *testing.T) {
		t.Parallel()
		// 0.40*50 + 0.25*50 + 0.20*20 + 0.15*50
		b := Calculate(newItem(), nil, now)
		assert.Equal(t, 44.0, b.Score)
		assert.Equal(t, []string{ReasonDefault}, b.Reasons)
	})

	t.Run("unknown duration", func(t *testing.T) {
		t.Parallel()
		b := Calculate(newItem(func(i *domain.LearningItem) { i.TotalDuration = 0 }), nil, now)
		assert.Equal(t, 40.0, b.Score)
	})

	t.Run("maximum score", func(t *testing.T) {
		t.Parallel()
		item := newItem(func(i *domain.LearningItem) {
			i.TargetCompletionDate = daysFromNow(-1)
			i.Category = "backend"
			i.CompletedDuration = 500
			i.Difficulty = domain.LevelIntermediate
		})
		profile := &domain.UserProfile{SkillLevel: domain.LevelIntermediate, Goals: []string{"backend"}}

		b := Calculate(item, profile, now)
		// 0.40*100 + 0.25*90 + 0.20*95 + 0.15*100
		assert.Equal(t, 96.5, b.Score)
		assert.Equal(t, []string{
			ReasonDeadlineImminent,
			ReasonGoalAligned,
			ReasonNearlyDone,
			ReasonSkillMatch,
		}, b.Reasons)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		t.Parallel()
		b := CalculateWithWeights(newItem(), nil, now, Weights{Deadline: 1.0 / 3, Relevance: 0, Effort: 0, Difficulty: 0})
		assert.Equal(t, 16.67, b.Score)
	})

	t.Run("week deadline reason", func(t *testing.T) {
		t.Parallel()
		b := Calculate(newItem(func(i *domain.LearningItem) { i.TargetCompletionDate = daysFromNow(6) }), nil, now)
		assert.Contains(t, b.Reasons, ReasonDeadlineThisWeek)
	})

	t.Run("recomputing gives the same breakdown", func(t *testing.T) {
		t.Parallel()
		item := newItem(func(i *domain.LearningItem) {
			i.TargetCompletionDate = daysFromNow(5)
			i.CompletedDuration = 200
			i.Tags = []string{"go", "backend"}
		})
		profile := &domain.UserProfile{SkillLevel: "intermediate", Goals: []string{"backend"}}

		first := Calculate(item, profile, now)
		second := Calculate(item, profile, now)
		assert.Equal(t, first, second)
	})

	t.Run("score stays within bounds", func(t *testing.T) {
		t.Parallel()
		for _, d := range []int{-10, 0, 2, 5, 10, 20, 60} {
			for _, completed := range []int{0, 100, 300, 600} {
				item := newItem(func(i *domain.LearningItem) {
					i.TargetCompletionDate = daysFromNow(d)
					i.CompletedDuration = completed
				})
				b := Calculate(item, &domain.UserProfile{SkillLevel: "beginner", Goals: []string{"x"}}, now)
				assert.GreaterOrEqual(t, b.Score, 0.0)
				assert.LessOrEqual(t, b.Score, 100.0)
			}
		}
	})
}
