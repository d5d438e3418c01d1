package repository

import (
	"context"
	"errors"

	"expo-ledger/internal/domain/attendee"
	"expo-ledger/internal/infra"
	"expo-ledger/internal/infra/db"
	"expo-ledger/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AttendeeRepository struct {
	db db.DBTX
}

func NewAttendeeRepository(dbtx db.DBTX) *AttendeeRepository {
	return &AttendeeRepository{db: dbtx}
}

func (r *AttendeeRepository) Ensure(ctx context.Context, a *attendee.Attendee) error {
	const query = `INSERT INTO attendees (id, display_name, points)
	               VALUES ($1, $2, 0)
	               ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.Exec(ctx, query, a.ID(), a.DisplayName()); err != nil {
		return infra.WrapRepoErr("failed to ensure attendee", err)
	}
	return nil
}

func (r *AttendeeRepository) Find(ctx context.Context, id uuid.UUID) (*shared.AttendeeSnapshot, error) {
	const query = `SELECT id, display_name, points FROM attendees WHERE id = $1`

	var snap shared.AttendeeSnapshot
	err := r.db.QueryRow(ctx, query, id).Scan(&snap.ID, &snap.DisplayName, &snap.Points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("attendee not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find attendee", err)
	}
	return &snap, nil
}

// Debit is conditional on the current balance so the points invariant holds
// even without a prior row lock.
func (r *AttendeeRepository) Debit(ctx context.Context, id uuid.UUID, points int32) error {
	const query = `UPDATE attendees SET points = points - $2
	               WHERE id = $1 AND points >= $2`

	tag, err := r.db.Exec(ctx, query, id, points)
	if err != nil {
		return infra.WrapRepoErr("failed to debit points", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insufficient points", nil, infra.KindConflict)
	}
	return nil
}

func (r *AttendeeRepository) Credit(ctx context.Context, id uuid.UUID, points int32) error {
	const query = `UPDATE attendees SET points = points + $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, points)
	if err != nil {
		return infra.WrapRepoErr("failed to credit points", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("attendee not found", nil, infra.KindNotFound)
	}
	return nil
}
