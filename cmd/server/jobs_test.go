package main

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/studyplan-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobScheduler(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s, err := newJobScheduler(context.Background(), &stubPlanner{}, config.JobsConfig{}, discardLogger())
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("enabled", func(t *testing.T) {
		s, err := newJobScheduler(context.Background(), &stubPlanner{},
			config.JobsConfig{PriorityRefreshMinutes: 30}, discardLogger())
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, 1, s.Len())
		assert.False(t, s.IsRunning())
	})
}

func TestRefreshPriorities(t *testing.T) {
	t.Run("runs a refresh", func(t *testing.T) {
		p := &stubPlanner{refreshed: 3}
		refreshPriorities(context.Background(), p, discardLogger())()
		assert.EqualValues(t, 1, p.calls.Load())
	})

	t.Run("failure does not panic", func(t *testing.T) {
		p := &stubPlanner{refreshErr: errors.New("list users: connection refused")}
		assert.NotPanics(t, refreshPriorities(context.Background(), p, discardLogger()))
		assert.EqualValues(t, 1, p.calls.Load())
	})

	t.Run("skipped after shutdown", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := &stubPlanner{}
		refreshPriorities(ctx, p, discardLogger())()
		assert.EqualValues(t, 0, p.calls.Load())
	})
}
