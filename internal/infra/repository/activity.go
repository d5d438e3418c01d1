package repository

import (
	"context"
	"errors"

	"expo-ledger/internal/domain/activity"
	"expo-ledger/internal/infra"
	"expo-ledger/internal/infra/db"
	"expo-ledger/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ActivityRepository struct {
	db db.DBTX
}

func NewActivityRepository(dbtx db.DBTX) *ActivityRepository {
	return &ActivityRepository{db: dbtx}
}

func (r *ActivityRepository) Find(ctx context.Context, id uuid.UUID) (*shared.ActivitySnapshot, error) {
	const query = `SELECT id, name, points_reward, participant_count
	               FROM activities WHERE id = $1`

	var snap shared.ActivitySnapshot
	err := r.db.QueryRow(ctx, query, id).
		Scan(&snap.ID, &snap.Name, &snap.PointsReward, &snap.ParticipantCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("activity not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find activity", err)
	}
	return &snap, nil
}

func (r *ActivityRepository) CreateParticipation(ctx context.Context, p *activity.Participation) (bool, error) {
	const query = `INSERT INTO activity_participations (activity_id, attendee_id, completed_at)
	               VALUES ($1, $2, $3)
	               ON CONFLICT (activity_id, attendee_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, p.ActivityID(), p.AttendeeID(), p.CompletedAt())
	if err != nil {
		return false, infra.WrapRepoErr("failed to create participation", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ActivityRepository) FindParticipation(ctx context.Context, activityID, attendeeID uuid.UUID) (*shared.ParticipationSnapshot, error) {
	const query = `SELECT activity_id, attendee_id, completed_at
	               FROM activity_participations WHERE activity_id = $1 AND attendee_id = $2`

	var snap shared.ParticipationSnapshot
	err := r.db.QueryRow(ctx, query, activityID, attendeeID).
		Scan(&snap.ActivityID, &snap.AttendeeID, &snap.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("participation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find participation", err)
	}
	return &snap, nil
}

func (r *ActivityRepository) IncrementParticipants(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE activities SET participant_count = participant_count + 1
	               WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return infra.WrapRepoErr("failed to increment participant count", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("activity not found", nil, infra.KindNotFound)
	}
	return nil
}
