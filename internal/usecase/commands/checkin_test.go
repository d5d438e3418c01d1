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

func newCheckInFixture(t *testing.T) (commands.CheckInCommands, *ledgertest.Store, *clock.MockClock) {
	t.Helper()
	store := ledgertest.NewStore()
	clk := clock.NewMockClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	locks := keylock.NewManager(2 * time.Second)
	return commands.NewCheckInCommands(store, locks, clk), store, clk
}

func TestCheckIn(t *testing.T) {
	t.Run("first scan creates the record", func(t *testing.T) {
		cmd, store, clk := newCheckInFixture(t)
		eventID, attendeeID := uuid.New(), uuid.New()
		store.SeedAttendee(attendeeID, "Ada", 0)

		result, err := cmd.CheckIn(context.Background(), eventID, attendeeID)
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, clk.Now(), result.CheckedInAt)
		assert.Equal(t, 1, store.CheckInCount(eventID))
	})

	t.Run("repeat scan reports the original timestamp", func(t *testing.T) {
		cmd, store, clk := newCheckInFixture(t)
		eventID, attendeeID := uuid.New(), uuid.New()
		store.SeedAttendee(attendeeID, "Ada", 0)

		first, err := cmd.CheckIn(context.Background(), eventID, attendeeID)
		require.NoError(t, err)
		require.True(t, first.Created)

		clk.Add(45 * time.Minute)

		second, err := cmd.CheckIn(context.Background(), eventID, attendeeID)
		require.NoError(t, err)
		assert.False(t, second.Created)
		assert.Equal(t, first.CheckedInAt, second.CheckedInAt)
		assert.Equal(t, 1, store.CheckInCount(eventID))
	})

	t.Run("missing ids are rejected", func(t *testing.T) {
		cmd, _, _ := newCheckInFixture(t)

		_, err := cmd.CheckIn(context.Background(), uuid.Nil, uuid.New())
		require.ErrorIs(t, err, commands.ErrValidation)
	})

	t.Run("concurrent scans produce exactly one created", func(t *testing.T) {
		cmd, store, _ := newCheckInFixture(t)
		eventID, attendeeID := uuid.New(), uuid.New()
		store.SeedAttendee(attendeeID, "Ada", 0)

		const workers = 32
		results := make([]*commands.CheckInResult, workers)
		errs := make([]error, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = cmd.CheckIn(context.Background(), eventID, attendeeID)
			}(i)
		}
		wg.Wait()

		created := 0
		for i := 0; i < workers; i++ {
			require.NoError(t, errs[i])
			require.NotNil(t, results[i])
			if results[i].Created {
				created++
			}
		}
		assert.Equal(t, 1, created)
		assert.Equal(t, 1, store.CheckInCount(eventID))
	})

	t.Run("distinct attendees all get their own record", func(t *testing.T) {
		cmd, store, _ := newCheckInFixture(t)
		eventID := uuid.New()

		const attendees = 16
		var wg sync.WaitGroup
		for i := 0; i < attendees; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id := uuid.New()
				store.SeedAttendee(id, "Attendee", 0)
				result, err := cmd.CheckIn(context.Background(), eventID, id)
				if assert.NoError(t, err) {
					assert.True(t, result.Created)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, attendees, store.CheckInCount(eventID))
	})
}
