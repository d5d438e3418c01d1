package redemption

import (
	"time"

	"github.com/google/uuid"
)

// Reason identifies which precondition rejected a cart.
type Reason string

const (
	ReasonInsufficientStock  Reason = "insufficient_stock"
	ReasonInsufficientPoints Reason = "insufficient_points"
)

// Line is a priced cart line as it will be recorded.
type Line struct {
	ProductID  uuid.UUID
	Quantity   int32
	PointsCost int32
}

// Total is computed in 64 bits: quantity and cost are each bounded only by
// the catalog, so their product can exceed int32.
func (l Line) Total() int64 {
	return int64(l.Quantity) * int64(l.PointsCost)
}

// Transaction is the durable record of a successful redemption. It is
// created atomically with its stock decrements and point debit, or not at
// all.
type Transaction struct {
	id          uuid.UUID
	attendeeID  uuid.UUID
	lines       []Line
	totalPoints int32
	redeemedAt  time.Time
}

// NewTransaction records an already-approved cart: the caller has checked
// the total against the attendee's balance, which bounds it well inside
// int32 range.
func NewTransaction(attendeeID uuid.UUID, lines []Line, now time.Time) *Transaction {
	var total int64
	for _, line := range lines {
		total += line.Total()
	}

	copied := make([]Line, len(lines))
	copy(copied, lines)

	return &Transaction{
		id:          uuid.New(),
		attendeeID:  attendeeID,
		lines:       copied,
		totalPoints: int32(total),
		redeemedAt:  now,
	}
}

func (t *Transaction) ID() uuid.UUID         { return t.id }
func (t *Transaction) AttendeeID() uuid.UUID { return t.attendeeID }
func (t *Transaction) TotalPoints() int32    { return t.totalPoints }
func (t *Transaction) RedeemedAt() time.Time { return t.redeemedAt }

func (t *Transaction) Lines() []Line {
	out := make([]Line, len(t.lines))
	copy(out, t.lines)
	return out
}
