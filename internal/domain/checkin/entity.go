package checkin

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrMissingKey = errors.New("check-in requires both event and attendee")

// CheckIn records an attendee's first verified presence at an event.
// One record exists per (event, attendee) pair; it is never mutated.
type CheckIn struct {
	eventID     uuid.UUID
	attendeeID  uuid.UUID
	checkedInAt time.Time
}

func NewCheckIn(eventID, attendeeID uuid.UUID, now time.Time) (*CheckIn, error) {
	if eventID == uuid.Nil || attendeeID == uuid.Nil {
		return nil, ErrMissingKey
	}

	return &CheckIn{
		eventID:     eventID,
		attendeeID:  attendeeID,
		checkedInAt: now,
	}, nil
}

func (c *CheckIn) EventID() uuid.UUID      { return c.eventID }
func (c *CheckIn) AttendeeID() uuid.UUID   { return c.attendeeID }
func (c *CheckIn) CheckedInAt() time.Time  { return c.checkedInAt }
