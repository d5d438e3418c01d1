package readstore

import (
	"context"

	"expo-ledger/internal/infra"
	"expo-ledger/internal/infra/db"
	"expo-ledger/internal/usecase/queries"

	"github.com/google/uuid"
)

type RedemptionReadStore struct {
	db db.DBTX
}

func NewRedemptionReadStore(dbtx db.DBTX) *RedemptionReadStore {
	return &RedemptionReadStore{db: dbtx}
}

func (r *RedemptionReadStore) ListByAttendee(ctx context.Context, attendeeID uuid.UUID) ([]*queries.RedemptionView, error) {
	const headerQuery = `SELECT id, attendee_id, total_points, redeemed_at
	                     FROM redemption_transactions
	                     WHERE attendee_id = $1
	                     ORDER BY redeemed_at DESC`

	rows, err := r.db.Query(ctx, headerQuery, attendeeID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list redemptions", err)
	}
	defer rows.Close()

	var result []*queries.RedemptionView
	byID := make(map[uuid.UUID]*queries.RedemptionView)
	for rows.Next() {
		var view queries.RedemptionView
		if err := rows.Scan(&view.ID, &view.AttendeeID, &view.TotalPoints, &view.RedeemedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan redemption", err)
		}
		result = append(result, &view)
		byID[view.ID] = &view
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read redemptions", err)
	}
	if len(result) == 0 {
		return result, nil
	}

	const itemQuery = `SELECT i.transaction_id, i.product_id, i.quantity, i.points_cost
	                   FROM redemption_items i
	                   JOIN redemption_transactions t ON t.id = i.transaction_id
	                   WHERE t.attendee_id = $1`

	itemRows, err := r.db.Query(ctx, itemQuery, attendeeID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list redemption items", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var txnID uuid.UUID
		var item queries.RedemptionItemView
		if err := itemRows.Scan(&txnID, &item.ProductID, &item.Quantity, &item.PointsCost); err != nil {
			return nil, infra.WrapRepoErr("failed to scan redemption item", err)
		}
		if view, ok := byID[txnID]; ok {
			view.Items = append(view.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read redemption items", err)
	}
	return result, nil
}
