package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestNewLearningItem(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("normalises input", func(t *testing.T) {
		t.Parallel()
		item, err := NewLearningItem(userID, "  Go in Action ", "", "Backend",
			[]string{"Go", " go ", "", "Concurrency"}, "Advanced", 600, nil, fixedNow)
		require.NoError(t, err)

		assert.Equal(t, "Go in Action", item.Title)
		assert.Equal(t, "other", item.ContentType)
		assert.Equal(t, []string{"go", "concurrency"}, item.Tags)
		assert.Equal(t, LevelAdvanced, item.Difficulty)
		assert.Equal(t, LearningItemStatusActive, item.Status)
		assert.Zero(t, item.ProgressPercentage)
	})

	testCases := []struct {
		name       string
		userID     uuid.UUID
		title      string
		difficulty string
		total      int
		wantErr    error
	}{
		{"missing user", uuid.Nil, "Title", "", 10, ErrLearningItemUserIDEmpty},
		{"blank title", userID, "   ", "", 10, ErrLearningItemTitleEmpty},
		{"negative duration", userID, "Title", "", -1, ErrLearningItemInvalidDuration},
		{"unknown difficulty", userID, "Title", "guru", 10, ErrLearningItemInvalidLevel},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewLearningItem(tc.userID, tc.title, "video", "", nil, tc.difficulty, tc.total, nil, fixedNow)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr))
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestLearningItemSetProgress(t *testing.T) {
	t.Parallel()

	newItem := func(t *testing.T, total int) *LearningItem {
		item, err := NewLearningItem(uuid.New(), "Course", "course", "", nil, "", total, nil, fixedNow)
		require.NoError(t, err)
		return item
	}

	t.Run("updates percentage", func(t *testing.T) {
		t.Parallel()
		item := newItem(t, 200)
		later := fixedNow.Add(time.Hour)

		require.NoError(t, item.SetProgress(50, later))
		assert.Equal(t, 50, item.CompletedDuration)
		assert.InDelta(t, 25.0, item.ProgressPercentage, 1e-9)
		assert.Equal(t, LearningItemStatusActive, item.Status)
		assert.Equal(t, later, item.UpdatedAt)
	})

	t.Run("completes at full duration", func(t *testing.T) {
		t.Parallel()
		item := newItem(t, 200)
		require.NoError(t, item.SetProgress(200, fixedNow))
		assert.Equal(t, LearningItemStatusCompleted, item.Status)
		assert.InDelta(t, 100.0, item.ProgressPercentage, 1e-9)

		require.NoError(t, item.SetProgress(150, fixedNow))
		assert.Equal(t, LearningItemStatusActive, item.Status)
	})

	t.Run("rejects overshoot", func(t *testing.T) {
		t.Parallel()
		item := newItem(t, 200)
		err := item.SetProgress(201, fixedNow)
		assert.ErrorIs(t, err, ErrLearningItemInvalidProgress)
		assert.Zero(t, item.CompletedDuration)
	})

	t.Run("unknown total keeps zero percentage", func(t *testing.T) {
		t.Parallel()
		item := newItem(t, 0)
		require.NoError(t, item.SetProgress(45, fixedNow))
		assert.Zero(t, item.ProgressPercentage)
		assert.Equal(t, LearningItemStatusActive, item.Status)
	})
}

func TestLevelRank(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1, LevelRank("Beginner"))
	assert.Equal(t, 2, LevelRank(" intermediate "))
	assert.Equal(t, 3, LevelRank("ADVANCED"))
	assert.Equal(t, 0, LevelRank("expert"))
}

func TestNewUserProfile(t *testing.T) {
	t.Parallel()

	profile, err := NewUserProfile(uuid.New(), "Intermediate", []string{"Backend", "backend", "Go"}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, LevelIntermediate, profile.SkillLevel)
	assert.Equal(t, []string{"backend", "go"}, profile.Goals)

	_, err = NewUserProfile(uuid.New(), "wizard", nil, fixedNow)
	assert.ErrorIs(t, err, ErrProfileInvalidSkillLevel)

	_, err = NewUserProfile(uuid.Nil, "", nil, fixedNow)
	assert.ErrorIs(t, err, ErrValidation)
}
