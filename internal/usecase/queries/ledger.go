package queries

import (
	"context"

	"github.com/google/uuid"
)

// Read-only lookups for terminal/UI adapters. These never decide the outcome
// of a mutating operation; those decisions happen inside the write-side
// critical sections.

type AttendeeQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AttendeeView, error)
}

type ProductQueries interface {
	ListByBooth(ctx context.Context, boothID uuid.UUID) ([]*ProductView, error)
}

type ActivityQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ActivityView, error)
}

type CheckInQueries interface {
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type RaffleQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*RaffleView, error)
	ListWinners(ctx context.Context, raffleID uuid.UUID) ([]*WinnerView, error)
}

type RedemptionQueries interface {
	ListByAttendee(ctx context.Context, attendeeID uuid.UUID) ([]*RedemptionView, error)
}
