//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"expo-ledger/internal/pkg/clock"
	"expo-ledger/internal/pkg/keylock"
	"expo-ledger/internal/usecase/commands"
	"expo-ledger/tests/common/ledgertest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActivityFixture(t *testing.T) (commands.ActivityCommands, *ledgertest.Store, *clock.MockClock) {
	t.Helper()
	store := ledgertest.NewStore()
	clk := clock.NewMockClock(time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC))
	locks := keylock.NewManager(2 * time.Second)
	return commands.NewActivityCommands(store, locks, clk), store, clk
}

func TestJoin(t *testing.T) {
	t.Run("first join credits the reward", func(t *testing.T) {
		cmd, store, _ := newActivityFixture(t)
		activityID, attendeeID := uuid.New(), uuid.New()
		store.SeedActivity(activityID, "Scavenger Hunt", 25)
		store.SeedAttendee(attendeeID, "Ada", 10)

		result, err := cmd.Join(context.Background(), activityID, attendeeID)
		require.NoError(t, err)
		assert.True(t, result.Awarded)
		assert.Equal(t, int32(25), result.PointsAwarded)
		assert.Equal(t, int32(35), store.AttendeePoints(attendeeID))
		assert.Equal(t, int32(1), store.ParticipantCount(activityID))
	})

	t.Run("second join awards nothing and reports the first completion time", func(t *testing.T) {
		cmd, store, clk := newActivityFixture(t)
		activityID, attendeeID := uuid.New(), uuid.New()
		store.SeedActivity(activityID, "Scavenger Hunt", 25)
		store.SeedAttendee(attendeeID, "Ada", 0)

		first, err := cmd.Join(context.Background(), activityID, attendeeID)
		require.NoError(t, err)

		clk.Add(45 * time.Minute)

		second, err := cmd.Join(context.Background(), activityID, attendeeID)
		require.NoError(t, err)
		assert.False(t, second.Awarded)
		assert.Zero(t, second.PointsAwarded)
		assert.Equal(t, first.CompletedAt, second.CompletedAt)
		assert.Equal(t, int32(25), store.AttendeePoints(attendeeID))
		assert.Equal(t, int32(1), store.ParticipantCount(activityID))
	})

	t.Run("unknown activity", func(t *testing.T) {
		cmd, store, _ := newActivityFixture(t)
		attendeeID := uuid.New()
		store.SeedAttendee(attendeeID, "Ada", 0)

		_, err := cmd.Join(context.Background(), uuid.New(), attendeeID)
		require.ErrorIs(t, err, commands.ErrActivityNotFound)
	})

	t.Run("concurrent joins credit exactly once", func(t *testing.T) {
		cmd, store, _ := newActivityFixture(t)
		activityID, attendeeID := uuid.New(), uuid.New()
		store.SeedActivity(activityID, "Scavenger Hunt", 25)
		store.SeedAttendee(attendeeID, "Ada", 0)

		const workers = 16
		results := make([]*commands.JoinResult, workers)
		errs := make([]error, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = cmd.Join(context.Background(), activityID, attendeeID)
			}(i)
		}
		wg.Wait()

		awarded := 0
		for i := 0; i < workers; i++ {
			require.NoError(t, errs[i])
			if results[i].Awarded {
				awarded++
			}
		}
		assert.Equal(t, 1, awarded)
		assert.Equal(t, int32(25), store.AttendeePoints(attendeeID))
		assert.Equal(t, int32(1), store.ParticipantCount(activityID))
	})
}
