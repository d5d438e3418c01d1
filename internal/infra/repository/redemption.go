package repository

import (
	"context"

	"expo-ledger/internal/domain/redemption"
	"expo-ledger/internal/infra"
	"expo-ledger/internal/infra/db"
)

type RedemptionRepository struct {
	db db.DBTX
}

func NewRedemptionRepository(dbtx db.DBTX) *RedemptionRepository {
	return &RedemptionRepository{db: dbtx}
}

// Create writes the transaction header and every line item. It runs inside
// the same transaction as the stock decrements and the point debit, so the
// whole cart commits or nothing does.
func (r *RedemptionRepository) Create(ctx context.Context, txn *redemption.Transaction) error {
	const headerQuery = `INSERT INTO redemption_transactions (id, attendee_id, total_points, redeemed_at)
	                     VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, headerQuery, txn.ID(), txn.AttendeeID(), txn.TotalPoints(), txn.RedeemedAt()); err != nil {
		return infra.WrapRepoErr("failed to create redemption transaction", err)
	}

	const lineQuery = `INSERT INTO redemption_items (transaction_id, product_id, quantity, points_cost)
	                   VALUES ($1, $2, $3, $4)`

	for _, line := range txn.Lines() {
		if _, err := r.db.Exec(ctx, lineQuery, txn.ID(), line.ProductID, line.Quantity, line.PointsCost); err != nil {
			return infra.WrapRepoErr("failed to create redemption item", err)
		}
	}
	return nil
}
