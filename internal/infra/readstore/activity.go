package readstore

import (
	"context"
	"errors"

	"expo-ledger/internal/infra"
	"expo-ledger/internal/infra/db"
	"expo-ledger/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ActivityReadStore struct {
	db db.DBTX
}

func NewActivityReadStore(dbtx db.DBTX) *ActivityReadStore {
	return &ActivityReadStore{db: dbtx}
}

func (r *ActivityReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.ActivityView, error) {
	const query = `SELECT id, name, points_reward, participant_count
	               FROM activities WHERE id = $1`

	var view queries.ActivityView
	err := r.db.QueryRow(ctx, query, id).
		Scan(&view.ID, &view.Name, &view.PointsReward, &view.ParticipantCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("activity not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find activity", err)
	}
	return &view, nil
}
