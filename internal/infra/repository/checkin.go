package repository

import (
	"context"
	"errors"

	"expo-ledger/internal/domain/checkin"
	"expo-ledger/internal/infra"
	"expo-ledger/internal/infra/db"
	"expo-ledger/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CheckInRepository struct {
	db db.DBTX
}

func NewCheckInRepository(dbtx db.DBTX) *CheckInRepository {
	return &CheckInRepository{db: dbtx}
}

// Create is the atomic check-and-insert for the (event, attendee) pair. The
// unique constraint carries the exactly-once guarantee; a lost conflict race
// reports "already exists" just like a plain duplicate.
func (r *CheckInRepository) Create(ctx context.Context, rec *checkin.CheckIn) (bool, error) {
	const query = `INSERT INTO check_ins (event_id, attendee_id, checked_in_at)
	               VALUES ($1, $2, $3)
	               ON CONFLICT (event_id, attendee_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, rec.EventID(), rec.AttendeeID(), rec.CheckedInAt())
	if err != nil {
		return false, infra.WrapRepoErr("failed to create check-in", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CheckInRepository) FindByPair(ctx context.Context, eventID, attendeeID uuid.UUID) (*shared.CheckInSnapshot, error) {
	const query = `SELECT event_id, attendee_id, checked_in_at
	               FROM check_ins WHERE event_id = $1 AND attendee_id = $2`

	var snap shared.CheckInSnapshot
	err := r.db.QueryRow(ctx, query, eventID, attendeeID).
		Scan(&snap.EventID, &snap.AttendeeID, &snap.CheckedInAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("check-in not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find check-in", err)
	}
	return &snap, nil
}
