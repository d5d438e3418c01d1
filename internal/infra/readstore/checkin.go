package readstore

import (
	"context"

	"expo-ledger/internal/infra"
	"expo-ledger/internal/infra/db"

	"github.com/google/uuid"
)

type CheckInReadStore struct {
	db db.DBTX
}

func NewCheckInReadStore(dbtx db.DBTX) *CheckInReadStore {
	return &CheckInReadStore{db: dbtx}
}

func (r *CheckInReadStore) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM check_ins WHERE event_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, eventID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count check-ins", err)
	}
	return count, nil
}
