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

type RaffleReadStore struct {
	db db.DBTX
}

func NewRaffleReadStore(dbtx db.DBTX) *RaffleReadStore {
	return &RaffleReadStore{db: dbtx}
}

func (r *RaffleReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.RaffleView, error) {
	const query = `SELECT r.id, r.event_id, r.prize, r.winners_requested, r.status, r.created_at,
	                      (SELECT COUNT(*) FROM raffle_winners w WHERE w.raffle_id = r.id)
	               FROM raffles r WHERE r.id = $1`

	var view queries.RaffleView
	err := r.db.QueryRow(ctx, query, id).
		Scan(&view.ID, &view.EventID, &view.Prize, &view.WinnersRequested, &view.Status, &view.CreatedAt, &view.WinnerCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("raffle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find raffle", err)
	}
	return &view, nil
}

func (r *RaffleReadStore) ListWinners(ctx context.Context, raffleID uuid.UUID) ([]*queries.WinnerView, error) {
	const query = `SELECT w.raffle_id, w.attendee_id, a.display_name, w.position, w.drawn_at
	               FROM raffle_winners w
	               JOIN attendees a ON a.id = w.attendee_id
	               WHERE w.raffle_id = $1
	               ORDER BY w.position`

	rows, err := r.db.Query(ctx, query, raffleID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list raffle winners", err)
	}
	defer rows.Close()

	var result []*queries.WinnerView
	for rows.Next() {
		var view queries.WinnerView
		if err := rows.Scan(&view.RaffleID, &view.AttendeeID, &view.DisplayName, &view.Position, &view.DrawnAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan raffle winner", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read raffle winners", err)
	}
	return result, nil
}
