package repository

import (
	"context"
	"errors"

	"expo-ledger/internal/domain/raffle"
	"expo-ledger/internal/infra"
	"expo-ledger/internal/infra/db"
	"expo-ledger/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

type RaffleRepository struct {
	db db.DBTX
}

func NewRaffleRepository(dbtx db.DBTX) *RaffleRepository {
	return &RaffleRepository{db: dbtx}
}

func (r *RaffleRepository) Create(ctx context.Context, rf *raffle.Raffle) error {
	const query = `INSERT INTO raffles (id, event_id, prize, winners_requested, status, created_at)
	               VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		rf.ID(), rf.EventID(), rf.Prize(), rf.WinnersRequested(), string(rf.Status()), rf.CreatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to create raffle", err)
	}
	return nil
}

func (r *RaffleRepository) Find(ctx context.Context, id uuid.UUID) (*shared.RaffleSnapshot, error) {
	const query = `SELECT r.id, r.event_id, r.prize, r.winners_requested, r.status,
	                      (SELECT COUNT(*) FROM raffle_winners w WHERE w.raffle_id = r.id)
	               FROM raffles r WHERE r.id = $1`

	var snap shared.RaffleSnapshot
	var status string
	err := r.db.QueryRow(ctx, query, id).
		Scan(&snap.ID, &snap.EventID, &snap.Prize, &snap.WinnersRequested, &status, &snap.WinnerCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("raffle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find raffle", err)
	}
	snap.Status = raffle.Status(status)
	return &snap, nil
}

func (r *RaffleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to raffle.Status) (bool, error) {
	const query = `UPDATE raffles SET status = $3 WHERE id = $1 AND status = $2`

	tag, err := r.db.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		return false, infra.WrapRepoErr("failed to update raffle status", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RaffleRepository) AppendWinner(ctx context.Context, w *raffle.Winner) error {
	const query = `INSERT INTO raffle_winners (raffle_id, attendee_id, position, drawn_at)
	               VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, w.RaffleID, w.AttendeeID, w.Position, w.DrawnAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("attendee already drawn", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to append raffle winner", err)
	}
	return nil
}

// EligiblePool returns checked-in attendees of the event minus prior winners
// of this raffle, ordered by check-in time so the pool is stable between the
// read and the pick.
func (r *RaffleRepository) EligiblePool(ctx context.Context, raffleID, eventID uuid.UUID) ([]uuid.UUID, error) {
	const query = `SELECT c.attendee_id
	               FROM check_ins c
	               WHERE c.event_id = $2
	                 AND NOT EXISTS (
	                     SELECT 1 FROM raffle_winners w
	                     WHERE w.raffle_id = $1 AND w.attendee_id = c.attendee_id)
	               ORDER BY c.checked_in_at`

	rows, err := r.db.Query(ctx, query, raffleID, eventID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query eligible pool", err)
	}
	defer rows.Close()

	var pool []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan eligible attendee", err)
		}
		pool = append(pool, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read eligible pool", err)
	}
	return pool, nil
}
