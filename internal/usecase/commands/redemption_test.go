//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"expo-ledger/internal/domain/redemption"
	"expo-ledger/internal/pkg/clock"
	"expo-ledger/internal/pkg/keylock"
	"expo-ledger/internal/usecase/commands"
	"expo-ledger/tests/common/ledgertest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedeemFixture(t *testing.T) (commands.RedemptionCommands, *ledgertest.Store) {
	t.Helper()
	store := ledgertest.NewStore()
	clk := clock.NewMockClock(time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC))
	locks := keylock.NewManager(2 * time.Second)
	return commands.NewRedemptionCommands(store, locks, clk), store
}

func mustCart(t *testing.T, items ...redemption.CartItem) *redemption.Cart {
	t.Helper()
	cart, err := redemption.NewCart(items)
	require.NoError(t, err)
	return cart
}

func TestRedeem(t *testing.T) {
	boothID := uuid.New()

	t.Run("successful cart debits points and stock atomically", func(t *testing.T) {
		cmd, store := newRedeemFixture(t)
		attendeeID, productA, productB := uuid.New(), uuid.New(), uuid.New()
		store.SeedAttendee(attendeeID, "Ada", 100)
		store.SeedProduct(productA, boothID, "Sticker Pack", 10, 5)
		store.SeedProduct(productB, boothID, "T-Shirt", 30, 2)

		result, err := cmd.Redeem(context.Background(), attendeeID, mustCart(t,
			redemption.CartItem{ProductID: productA, Quantity: 2},
			redemption.CartItem{ProductID: productB, Quantity: 1},
		))
		require.NoError(t, err)
		require.True(t, result.Succeeded)
		assert.Equal(t, int32(50), result.RemainingPoints)
		if diff := cmp.Diff(map[uuid.UUID]int32{productA: 3, productB: 1}, result.RemainingStock); diff != "" {
			t.Errorf("remaining stock mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, int32(50), store.AttendeePoints(attendeeID))
		assert.Equal(t, int32(3), store.ProductStock(productA))
		assert.Equal(t, int32(1), store.ProductStock(productB))
		assert.Equal(t, 1, store.RedemptionCount())
	})

	t.Run("insufficient stock rejects the whole cart", func(t *testing.T) {
		cmd, store := newRedeemFixture(t)
		attendeeID, productA, productB := uuid.New(), uuid.New(), uuid.New()
		store.SeedAttendee(attendeeID, "Ada", 100)
		store.SeedProduct(productA, boothID, "Sticker Pack", 10, 5)
		store.SeedProduct(productB, boothID, "T-Shirt", 30, 1)

		result, err := cmd.Redeem(context.Background(), attendeeID, mustCart(t,
			redemption.CartItem{ProductID: productA, Quantity: 1},
			redemption.CartItem{ProductID: productB, Quantity: 2},
		))
		require.NoError(t, err)
		require.False(t, result.Succeeded)
		require.NotNil(t, result.Failed)
		assert.Equal(t, productB, result.Failed.ProductID)
		assert.Equal(t, redemption.ReasonInsufficientStock, result.Failed.Reason)

		// nothing moved
		assert.Equal(t, int32(100), store.AttendeePoints(attendeeID))
		assert.Equal(t, int32(5), store.ProductStock(productA))
		assert.Equal(t, int32(1), store.ProductStock(productB))
		assert.Equal(t, 0, store.RedemptionCount())
	})

	t.Run("insufficient points rejects the whole cart", func(t *testing.T) {
		cmd, store := newRedeemFixture(t)
		attendeeID, productA := uuid.New(), uuid.New()
		store.SeedAttendee(attendeeID, "Ada", 15)
		store.SeedProduct(productA, boothID, "T-Shirt", 30, 10)

		result, err := cmd.Redeem(context.Background(), attendeeID, mustCart(t,
			redemption.CartItem{ProductID: productA, Quantity: 1},
		))
		require.NoError(t, err)
		require.False(t, result.Succeeded)
		require.NotNil(t, result.Failed)
		assert.Equal(t, redemption.ReasonInsufficientPoints, result.Failed.Reason)
		assert.Equal(t, int32(15), store.AttendeePoints(attendeeID))
		assert.Equal(t, int32(10), store.ProductStock(productA))
	})

	t.Run("cart totals beyond int32 are rejected, not wrapped around", func(t *testing.T) {
		cmd, store := newRedeemFixture(t)
		attendeeID, productA := uuid.New(), uuid.New()
		store.SeedAttendee(attendeeID, "Ada", 0)
		store.SeedProduct(productA, boothID, "Bulk Token", 30000, 100000)

		// 100000 * 30000 wraps negative in 32 bits; a wrapped total would
		// pass the balance check and credit the attendee on debit.
		result, err := cmd.Redeem(context.Background(), attendeeID, mustCart(t,
			redemption.CartItem{ProductID: productA, Quantity: 100000},
		))
		require.NoError(t, err)
		require.False(t, result.Succeeded)
		require.NotNil(t, result.Failed)
		assert.Equal(t, redemption.ReasonInsufficientPoints, result.Failed.Reason)
		assert.Equal(t, int32(0), store.AttendeePoints(attendeeID))
		assert.Equal(t, int32(100000), store.ProductStock(productA))
	})

	t.Run("unknown attendee", func(t *testing.T) {
		cmd, store := newRedeemFixture(t)
		productA := uuid.New()
		store.SeedProduct(productA, boothID, "T-Shirt", 30, 10)

		_, err := cmd.Redeem(context.Background(), uuid.New(), mustCart(t,
			redemption.CartItem{ProductID: productA, Quantity: 1},
		))
		require.ErrorIs(t, err, commands.ErrAttendeeNotFound)
	})

	t.Run("unknown product", func(t *testing.T) {
		cmd, store := newRedeemFixture(t)
		attendeeID := uuid.New()
		store.SeedAttendee(attendeeID, "Ada", 100)

		_, err := cmd.Redeem(context.Background(), attendeeID, mustCart(t,
			redemption.CartItem{ProductID: uuid.New(), Quantity: 1},
		))
		require.ErrorIs(t, err, commands.ErrProductNotFound)
	})

	t.Run("last unit goes to exactly one of two racing attendees", func(t *testing.T) {
		cmd, store := newRedeemFixture(t)
		first, second, productA := uuid.New(), uuid.New(), uuid.New()
		store.SeedAttendee(first, "Ada", 100)
		store.SeedAttendee(second, "Grace", 100)
		store.SeedProduct(productA, boothID, "Last T-Shirt", 30, 1)

		cart := mustCart(t, redemption.CartItem{ProductID: productA, Quantity: 1})
		results := make([]*commands.RedeemResult, 2)
		errs := make([]error, 2)

		var wg sync.WaitGroup
		for i, attendeeID := range []uuid.UUID{first, second} {
			wg.Add(1)
			go func(i int, attendeeID uuid.UUID) {
				defer wg.Done()
				results[i], errs[i] = cmd.Redeem(context.Background(), attendeeID, cart)
			}(i, attendeeID)
		}
		wg.Wait()

		succeeded := 0
		for i := range results {
			require.NoError(t, errs[i])
			require.NotNil(t, results[i])
			if results[i].Succeeded {
				succeeded++
			} else {
				require.NotNil(t, results[i].Failed)
				assert.Equal(t, redemption.ReasonInsufficientStock, results[i].Failed.Reason)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, int32(0), store.ProductStock(productA))
		assert.Equal(t, 1, store.RedemptionCount())
	})

	t.Run("concurrent carts never oversell or overspend", func(t *testing.T) {
		cmd, store := newRedeemFixture(t)
		productA := uuid.New()
		store.SeedProduct(productA, boothID, "Mug", 10, 4)

		const workers = 8
		attendees := make([]uuid.UUID, workers)
		for i := range attendees {
			attendees[i] = uuid.New()
			store.SeedAttendee(attendees[i], "Attendee", 10)
		}

		cart := mustCart(t, redemption.CartItem{ProductID: productA, Quantity: 1})
		var wg sync.WaitGroup
		for _, id := range attendees {
			wg.Add(1)
			go func(id uuid.UUID) {
				defer wg.Done()
				_, err := cmd.Redeem(context.Background(), id, cart)
				assert.NoError(t, err)
			}(id)
		}
		wg.Wait()

		assert.Equal(t, int32(0), store.ProductStock(productA))
		assert.Equal(t, 4, store.RedemptionCount())

		spent := 0
		for _, id := range attendees {
			spent += int(10 - store.AttendeePoints(id))
		}
		assert.Equal(t, 40, spent)
	})
}
