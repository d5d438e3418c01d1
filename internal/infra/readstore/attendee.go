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

type AttendeeReadStore struct {
	db db.DBTX
}

func NewAttendeeReadStore(dbtx db.DBTX) *AttendeeReadStore {
	return &AttendeeReadStore{db: dbtx}
}

func (r *AttendeeReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.AttendeeView, error) {
	const query = `SELECT id, display_name, points FROM attendees WHERE id = $1`

	var view queries.AttendeeView
	err := r.db.QueryRow(ctx, query, id).Scan(&view.ID, &view.DisplayName, &view.Points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("attendee not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find attendee", err)
	}
	return &view, nil
}
