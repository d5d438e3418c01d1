//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"expo-ledger/internal/domain/raffle"
	"expo-ledger/internal/pkg/clock"
	"expo-ledger/internal/pkg/keylock"
	"expo-ledger/internal/usecase/commands"
	"expo-ledger/tests/common/ledgertest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRaffleFixture(t *testing.T) (commands.RaffleCommands, *ledgertest.Store) {
	t.Helper()
	store := ledgertest.NewStore()
	clk := clock.NewMockClock(time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC))
	locks := keylock.NewManager(2 * time.Second)
	return commands.NewRaffleCommands(store, locks, clk, raffle.NewUniformPicker()), store
}

func seedPool(t *testing.T, store *ledgertest.Store, eventID uuid.UUID, n int) []uuid.UUID {
	t.Helper()
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
		store.SeedAttendee(ids[i], "Attendee", 0)
		store.SeedCheckIn(eventID, ids[i], at.Add(time.Duration(i)*time.Minute))
	}
	return ids
}

func TestRaffleLifecycle(t *testing.T) {
	t.Run("create starts upcoming by default", func(t *testing.T) {
		cmd, store := newRaffleFixture(t)

		result, err := cmd.Create(context.Background(), commands.CreateRaffleInput{
			EventID:          uuid.New(),
			Prize:            "Grand Prize",
			WinnersRequested: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, raffle.StatusUpcoming, result.Status)
		assert.Equal(t, raffle.StatusUpcoming, store.RaffleStatus(result.RaffleID))
	})

	t.Run("activate then close", func(t *testing.T) {
		cmd, _ := newRaffleFixture(t)

		created, err := cmd.Create(context.Background(), commands.CreateRaffleInput{
			EventID:          uuid.New(),
			Prize:            "Grand Prize",
			WinnersRequested: 2,
		})
		require.NoError(t, err)

		status, err := cmd.Activate(context.Background(), created.RaffleID)
		require.NoError(t, err)
		assert.Equal(t, raffle.StatusActive, status)

		status, err = cmd.Close(context.Background(), created.RaffleID)
		require.NoError(t, err)
		assert.Equal(t, raffle.StatusFinished, status)
	})

	t.Run("finished raffle cannot be reactivated", func(t *testing.T) {
		cmd, _ := newRaffleFixture(t)

		created, err := cmd.Create(context.Background(), commands.CreateRaffleInput{
			EventID:          uuid.New(),
			Prize:            "Grand Prize",
			WinnersRequested: 1,
		})
		require.NoError(t, err)

		_, err = cmd.Close(context.Background(), created.RaffleID)
		require.NoError(t, err)

		_, err = cmd.Activate(context.Background(), created.RaffleID)
		require.ErrorIs(t, err, commands.ErrInvalidTransition)
	})

	t.Run("unknown raffle", func(t *testing.T) {
		cmd, _ := newRaffleFixture(t)

		_, err := cmd.Activate(context.Background(), uuid.New())
		require.ErrorIs(t, err, commands.ErrRaffleNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		cmd, _ := newRaffleFixture(t)

		_, err := cmd.Create(context.Background(), commands.CreateRaffleInput{
			EventID:          uuid.New(),
			Prize:            "",
			WinnersRequested: 1,
		})
		require.ErrorIs(t, err, commands.ErrValidation)
	})
}

func TestDraw(t *testing.T) {
	newActiveRaffle := func(t *testing.T, cmd commands.RaffleCommands, eventID uuid.UUID, winners int32) uuid.UUID {
		t.Helper()
		created, err := cmd.Create(context.Background(), commands.CreateRaffleInput{
			EventID:          eventID,
			Prize:            "Grand Prize",
			WinnersRequested: winners,
			StartActive:      true,
		})
		require.NoError(t, err)
		return created.RaffleID
	}

	t.Run("sequential draws yield distinct winners", func(t *testing.T) {
		cmd, store := newRaffleFixture(t)
		eventID := uuid.New()
		pool := seedPool(t, store, eventID, 5)
		raffleID := newActiveRaffle(t, cmd, eventID, 3)

		seen := make(map[uuid.UUID]bool)
		for i := 1; i <= 3; i++ {
			result, err := cmd.Draw(context.Background(), raffleID)
			require.NoError(t, err)
			require.NotNil(t, result.Winner)
			assert.Equal(t, int32(i), result.Winner.Position)
			assert.False(t, seen[result.Winner.AttendeeID], "winner drawn twice")
			seen[result.Winner.AttendeeID] = true
			assert.Contains(t, pool, result.Winner.AttendeeID)
		}

		assert.Equal(t, raffle.StatusFinished, store.RaffleStatus(raffleID))
		assert.Len(t, store.WinnerAttendees(raffleID), 3)
	})

	t.Run("draw on finished raffle is an informational no-op", func(t *testing.T) {
		cmd, store := newRaffleFixture(t)
		eventID := uuid.New()
		seedPool(t, store, eventID, 3)
		raffleID := newActiveRaffle(t, cmd, eventID, 1)

		first, err := cmd.Draw(context.Background(), raffleID)
		require.NoError(t, err)
		require.NotNil(t, first.Winner)
		assert.Equal(t, raffle.StatusFinished, first.Status)

		second, err := cmd.Draw(context.Background(), raffleID)
		require.NoError(t, err)
		assert.Nil(t, second.Winner)
		assert.Equal(t, raffle.StatusFinished, second.Status)
		assert.NotEmpty(t, second.Message)
		assert.Len(t, store.WinnerAttendees(raffleID), 1)
	})

	t.Run("draw on upcoming raffle is rejected", func(t *testing.T) {
		cmd, store := newRaffleFixture(t)
		eventID := uuid.New()
		seedPool(t, store, eventID, 3)

		created, err := cmd.Create(context.Background(), commands.CreateRaffleInput{
			EventID:          eventID,
			Prize:            "Grand Prize",
			WinnersRequested: 1,
		})
		require.NoError(t, err)

		_, err = cmd.Draw(context.Background(), created.RaffleID)
		require.ErrorIs(t, err, commands.ErrRaffleNotActive)
	})

	t.Run("empty pool finishes the raffle without drawing", func(t *testing.T) {
		cmd, store := newRaffleFixture(t)
		raffleID := newActiveRaffle(t, cmd, uuid.New(), 1)

		result, err := cmd.Draw(context.Background(), raffleID)
		require.NoError(t, err)
		assert.Nil(t, result.Winner)
		assert.Equal(t, raffle.StatusFinished, result.Status)
		assert.Equal(t, "no eligible attendees", result.Message)
		assert.Equal(t, raffle.StatusFinished, store.RaffleStatus(raffleID))
	})

	t.Run("concurrent draws stay within the target and never repeat a winner", func(t *testing.T) {
		cmd, store := newRaffleFixture(t)
		eventID := uuid.New()
		seedPool(t, store, eventID, 8)
		raffleID := newActiveRaffle(t, cmd, eventID, 3)

		const callers = 8
		results := make([]*commands.DrawResult, callers)
		errs := make([]error, callers)

		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = cmd.Draw(context.Background(), raffleID)
			}(i)
		}
		wg.Wait()

		seen := make(map[uuid.UUID]bool)
		drawn := 0
		for i := range results {
			require.NoError(t, errs[i])
			require.NotNil(t, results[i])
			if results[i].Winner != nil {
				drawn++
				assert.False(t, seen[results[i].Winner.AttendeeID], "winner drawn twice")
				seen[results[i].Winner.AttendeeID] = true
			}
		}
		assert.Equal(t, 3, drawn)
		assert.Len(t, store.WinnerAttendees(raffleID), 3)
		assert.Equal(t, raffle.StatusFinished, store.RaffleStatus(raffleID))
	})

	t.Run("pool exhaustion before target finishes the raffle", func(t *testing.T) {
		cmd, store := newRaffleFixture(t)
		eventID := uuid.New()
		seedPool(t, store, eventID, 2)
		raffleID := newActiveRaffle(t, cmd, eventID, 5)

		for i := 0; i < 2; i++ {
			result, err := cmd.Draw(context.Background(), raffleID)
			require.NoError(t, err)
			require.NotNil(t, result.Winner)
		}

		result, err := cmd.Draw(context.Background(), raffleID)
		require.NoError(t, err)
		assert.Nil(t, result.Winner)
		assert.Equal(t, "no eligible attendees", result.Message)
		assert.Equal(t, raffle.StatusFinished, store.RaffleStatus(raffleID))
	})
}
