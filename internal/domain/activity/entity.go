package activity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrMissingKey = errors.New("participation requires both activity and attendee")

// Participation marks that an attendee completed an activity. One record per
// (activity, attendee) pair; the point credit is tied to its creation.
type Participation struct {
	activityID  uuid.UUID
	attendeeID  uuid.UUID
	completedAt time.Time
}

func NewParticipation(activityID, attendeeID uuid.UUID, now time.Time) (*Participation, error) {
	if activityID == uuid.Nil || attendeeID == uuid.Nil {
		return nil, ErrMissingKey
	}

	return &Participation{
		activityID:  activityID,
		attendeeID:  attendeeID,
		completedAt: now,
	}, nil
}

func (p *Participation) ActivityID() uuid.UUID   { return p.activityID }
func (p *Participation) AttendeeID() uuid.UUID   { return p.attendeeID }
func (p *Participation) CompletedAt() time.Time  { return p.completedAt }
