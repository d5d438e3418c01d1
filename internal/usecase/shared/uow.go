package shared

import (
	"context"
	"time"

	"expo-ledger/internal/domain/activity"
	"expo-ledger/internal/domain/attendee"
	"expo-ledger/internal/domain/checkin"
	"expo-ledger/internal/domain/raffle"
	"expo-ledger/internal/domain/redemption"

	"github.com/google/uuid"
)

// UnitOfWork runs a function inside one atomic transaction. Every mutating
// operation of the ledger corresponds to exactly one Within call: either all
// of its effects commit together, or none do.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Attendees() AttendeeRepository
	CheckIns() CheckInRepository
	Products() ProductRepository
	Activities() ActivityRepository
	Redemptions() RedemptionRepository
	Raffles() RaffleRepository
}

// Minimal snapshots read inside critical sections. Outcomes are decided on
// these reads, never on reads taken outside the transaction.

type AttendeeSnapshot struct {
	ID          uuid.UUID
	DisplayName string
	Points      int32
}

type CheckInSnapshot struct {
	EventID     uuid.UUID
	AttendeeID  uuid.UUID
	CheckedInAt time.Time
}

type ProductSnapshot struct {
	ID         uuid.UUID
	BoothID    uuid.UUID
	Name       string
	PointsCost int32
	Stock      int32
}

type ActivitySnapshot struct {
	ID               uuid.UUID
	Name             string
	PointsReward     int32
	ParticipantCount int32
}

type ParticipationSnapshot struct {
	ActivityID  uuid.UUID
	AttendeeID  uuid.UUID
	CompletedAt time.Time
}

type RaffleSnapshot struct {
	ID               uuid.UUID
	EventID          uuid.UUID
	Prize            string
	WinnersRequested int32
	WinnerCount      int32
	Status           raffle.Status
}

type AttendeeRepository interface {
	// Ensure inserts the attendee if absent; an existing row is left
	// untouched so repeated scans of one badge stay idempotent.
	Ensure(ctx context.Context, a *attendee.Attendee) error
	Find(ctx context.Context, id uuid.UUID) (*AttendeeSnapshot, error)
	// Debit subtracts points; fails with KindConflict when the balance
	// would go negative.
	Debit(ctx context.Context, id uuid.UUID, points int32) error
	Credit(ctx context.Context, id uuid.UUID, points int32) error
}

type CheckInRepository interface {
	// Create inserts the pair record; returns false without error when the
	// pair already exists.
	Create(ctx context.Context, rec *checkin.CheckIn) (bool, error)
	FindByPair(ctx context.Context, eventID, attendeeID uuid.UUID) (*CheckInSnapshot, error)
}

type ProductRepository interface {
	Find(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
	// DecrementStock fails with KindConflict when stock would go negative.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int32) error
}

type ActivityRepository interface {
	Find(ctx context.Context, id uuid.UUID) (*ActivitySnapshot, error)
	// CreateParticipation returns false without error when the pair already
	// exists.
	CreateParticipation(ctx context.Context, p *activity.Participation) (bool, error)
	FindParticipation(ctx context.Context, activityID, attendeeID uuid.UUID) (*ParticipationSnapshot, error)
	IncrementParticipants(ctx context.Context, id uuid.UUID) error
}

type RedemptionRepository interface {
	Create(ctx context.Context, txn *redemption.Transaction) error
}

type RaffleRepository interface {
	Create(ctx context.Context, r *raffle.Raffle) error
	Find(ctx context.Context, id uuid.UUID) (*RaffleSnapshot, error)
	// UpdateStatus moves from->to; returns false when the raffle was not in
	// the expected from status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to raffle.Status) (bool, error)
	AppendWinner(ctx context.Context, w *raffle.Winner) error
	// EligiblePool lists attendees checked into the event who have not yet
	// won this raffle.
	EligiblePool(ctx context.Context, raffleID, eventID uuid.UUID) ([]uuid.UUID, error)
}
