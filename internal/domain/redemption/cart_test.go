//go:build unit

package redemption_test

import (
	"sort"
	"testing"
	"time"

	"expo-ledger/internal/domain/redemption"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCart(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	t.Run("basic success case", func(t *testing.T) {
		cart, err := redemption.NewCart([]redemption.CartItem{
			{ProductID: productA, Quantity: 2},
			{ProductID: productB, Quantity: 1},
		})
		require.NoError(t, err)
		require.NotNil(t, cart)
		assert.Len(t, cart.Items(), 2)
	})

	t.Run("validation", func(t *testing.T) {
		testCases := []struct {
			name  string
			items []redemption.CartItem
			errIs error
		}{
			{
				name:  "empty cart",
				items: nil,
				errIs: redemption.ErrEmptyCart,
			},
			{
				name: "zero quantity",
				items: []redemption.CartItem{
					{ProductID: productA, Quantity: 0},
				},
				errIs: redemption.ErrInvalidQuantity,
			},
			{
				name: "negative quantity",
				items: []redemption.CartItem{
					{ProductID: productA, Quantity: -1},
				},
				errIs: redemption.ErrInvalidQuantity,
			},
			{
				name: "duplicate product",
				items: []redemption.CartItem{
					{ProductID: productA, Quantity: 1},
					{ProductID: productA, Quantity: 2},
				},
				errIs: redemption.ErrDuplicateProduct,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := redemption.NewCart(tc.items)
				require.ErrorIs(t, err, tc.errIs)
			})
		}
	})

	t.Run("items come back in product id order", func(t *testing.T) {
		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
		items := make([]redemption.CartItem, len(ids))
		for i, id := range ids {
			items[i] = redemption.CartItem{ProductID: id, Quantity: 1}
		}

		cart, err := redemption.NewCart(items)
		require.NoError(t, err)

		got := cart.ProductIDs()
		assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
			return got[i].String() < got[j].String()
		}))
	})
}

func TestTransactionTotal(t *testing.T) {
	lines := []redemption.Line{
		{ProductID: uuid.New(), Quantity: 2, PointsCost: 30},
		{ProductID: uuid.New(), Quantity: 1, PointsCost: 15},
	}

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	txn := redemption.NewTransaction(uuid.New(), lines, now)
	assert.Equal(t, int32(75), txn.TotalPoints())
	assert.Len(t, txn.Lines(), 2)
	assert.NotEqual(t, uuid.Nil, txn.ID())
	assert.Equal(t, now, txn.RedeemedAt())
}

func TestLineTotal(t *testing.T) {
	line := redemption.Line{ProductID: uuid.New(), Quantity: 100000, PointsCost: 30000}
	assert.Equal(t, int64(3_000_000_000), line.Total())
}
