package attendee

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyDisplayName = errors.New("display name must not be empty")
)

// Attendee is a participant identity with a point balance. The balance is
// mutated only through redemption debits and activity credits; the entity
// itself only captures the identity created on first successful scan.
type Attendee struct {
	id          uuid.UUID
	displayName string
}

func NewAttendee(id uuid.UUID, displayName string) (*Attendee, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, ErrEmptyDisplayName
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Attendee{
		id:          id,
		displayName: name,
	}, nil
}

func (a *Attendee) ID() uuid.UUID       { return a.id }
func (a *Attendee) DisplayName() string { return a.displayName }
