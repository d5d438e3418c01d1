package raffle

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyPrize          = errors.New("prize must not be empty")
	ErrInvalidWinnerTarget = errors.New("winners requested must be positive")
	ErrInvalidTransition   = errors.New("invalid raffle status transition")
)

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// CanTransition reports whether a raffle may move from one status to
// another. Finished is terminal.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusUpcoming:
		return to == StatusActive || to == StatusFinished
	case StatusActive:
		return to == StatusFinished
	default:
		return false
	}
}

// Raffle draws winners without replacement from the check-in pool of its
// event until winnersRequested distinct attendees have been drawn.
type Raffle struct {
	id               uuid.UUID
	eventID          uuid.UUID
	prize            string
	winnersRequested int32
	status           Status
	createdAt        time.Time
}

func NewRaffle(eventID uuid.UUID, prize string, winnersRequested int32, startActive bool, now time.Time) (*Raffle, error) {
	trimmed := strings.TrimSpace(prize)
	if trimmed == "" {
		return nil, ErrEmptyPrize
	}
	if winnersRequested <= 0 {
		return nil, ErrInvalidWinnerTarget
	}

	status := StatusUpcoming
	if startActive {
		status = StatusActive
	}

	return &Raffle{
		id:               uuid.New(),
		eventID:          eventID,
		prize:            trimmed,
		winnersRequested: winnersRequested,
		status:           status,
		createdAt:        now,
	}, nil
}

func (r *Raffle) ID() uuid.UUID           { return r.id }
func (r *Raffle) EventID() uuid.UUID      { return r.eventID }
func (r *Raffle) Prize() string           { return r.prize }
func (r *Raffle) WinnersRequested() int32 { return r.winnersRequested }
func (r *Raffle) Status() Status          { return r.status }
func (r *Raffle) CreatedAt() time.Time    { return r.createdAt }

// Winner is one drawn attendee. Position is 1-based draw order.
type Winner struct {
	RaffleID   uuid.UUID
	AttendeeID uuid.UUID
	Position   int32
	DrawnAt    time.Time
}
