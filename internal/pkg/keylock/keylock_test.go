//go:build unit

package keylock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"expo-ledger/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire(t *testing.T) {
	t.Run("provides mutual exclusion per key", func(t *testing.T) {
		m := keylock.NewManager(5 * time.Second)

		var counter int
		var inCritical int32
		var wg sync.WaitGroup

		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := m.Acquire(context.Background(), "shared")
				require.NoError(t, err)
				defer release()

				inCritical++
				assert.Equal(t, int32(1), inCritical)
				counter++
				inCritical--
			}()
		}
		wg.Wait()

		assert.Equal(t, 32, counter)
	})

	t.Run("different keys do not block each other", func(t *testing.T) {
		m := keylock.NewManager(100 * time.Millisecond)

		releaseA, err := m.Acquire(context.Background(), "a")
		require.NoError(t, err)
		defer releaseA()

		releaseB, err := m.Acquire(context.Background(), "b")
		require.NoError(t, err)
		releaseB()
	})

	t.Run("times out on a held key", func(t *testing.T) {
		m := keylock.NewManager(50 * time.Millisecond)

		release, err := m.Acquire(context.Background(), "contended")
		require.NoError(t, err)
		defer release()

		_, err = m.Acquire(context.Background(), "contended")
		require.ErrorIs(t, err, keylock.ErrLockTimeout)
	})

	t.Run("released key can be reacquired", func(t *testing.T) {
		m := keylock.NewManager(50 * time.Millisecond)

		release, err := m.Acquire(context.Background(), "k")
		require.NoError(t, err)
		release()

		release, err = m.Acquire(context.Background(), "k")
		require.NoError(t, err)
		release()
	})

	t.Run("release is idempotent", func(t *testing.T) {
		m := keylock.NewManager(50 * time.Millisecond)

		release, err := m.Acquire(context.Background(), "k")
		require.NoError(t, err)
		release()
		release()

		release2, err := m.Acquire(context.Background(), "k")
		require.NoError(t, err)
		release2()
	})

	t.Run("cancelled context surfaces context error", func(t *testing.T) {
		m := keylock.NewManager(time.Second)

		release, err := m.Acquire(context.Background(), "held")
		require.NoError(t, err)
		defer release()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = m.Acquire(ctx, "held")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestAcquireMany(t *testing.T) {
	t.Run("acquires all keys and releases them", func(t *testing.T) {
		m := keylock.NewManager(100 * time.Millisecond)

		release, err := m.AcquireMany(context.Background(), "a", "b", "c")
		require.NoError(t, err)
		release()

		for _, key := range []string{"a", "b", "c"} {
			r, err := m.Acquire(context.Background(), key)
			require.NoError(t, err)
			r()
		}
	})

	t.Run("rolls back already held keys on failure", func(t *testing.T) {
		m := keylock.NewManager(50 * time.Millisecond)

		releaseB, err := m.Acquire(context.Background(), "b")
		require.NoError(t, err)
		defer releaseB()

		_, err = m.AcquireMany(context.Background(), "a", "b")
		require.ErrorIs(t, err, keylock.ErrLockTimeout)

		// "a" must have been released by the failed bulk acquire
		releaseA, err := m.Acquire(context.Background(), "a")
		require.NoError(t, err)
		releaseA()
	})
}
