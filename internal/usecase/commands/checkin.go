package commands

import (
	"context"
	"fmt"
	"time"

	"expo-ledger/internal/domain/checkin"
	"expo-ledger/internal/pkg/clock"
	"expo-ledger/internal/pkg/errs"
	"expo-ledger/internal/pkg/keylock"
	"expo-ledger/internal/usecase/shared"

	"github.com/google/uuid"
)

// CheckInResult reports the outcome of a check-in request. Created=false
// means the attendee was already checked in: an informational outcome with
// zero side effects, not a failure.
type CheckInResult struct {
	Created     bool
	EventID     uuid.UUID
	AttendeeID  uuid.UUID
	CheckedInAt time.Time
}

type CheckInCommands interface {
	CheckIn(ctx context.Context, eventID, attendeeID uuid.UUID) (*CheckInResult, error)
}

type checkInCommandsImpl struct {
	uow   shared.UnitOfWork
	locks *keylock.Manager
	clock clock.Clock
}

func NewCheckInCommands(uow shared.UnitOfWork, locks *keylock.Manager, clk clock.Clock) CheckInCommands {
	return &checkInCommandsImpl{
		uow:   uow,
		locks: locks,
		clock: clk,
	}
}

func (c *checkInCommandsImpl) CheckIn(ctx context.Context, eventID, attendeeID uuid.UUID) (*CheckInResult, error) {
	rec, err := checkin.NewCheckIn(eventID, attendeeID, c.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	release, err := c.locks.Acquire(ctx, checkInKey(eventID, attendeeID))
	if err != nil {
		return nil, markContention(err)
	}
	defer release()

	var result *CheckInResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, err := tx.CheckIns().Create(ctx, rec)
		if err != nil {
			return err
		}

		if created {
			result = &CheckInResult{
				Created:     true,
				EventID:     rec.EventID(),
				AttendeeID:  rec.AttendeeID(),
				CheckedInAt: rec.CheckedInAt(),
			}
			return nil
		}

		existing, err := tx.CheckIns().FindByPair(ctx, eventID, attendeeID)
		if err != nil {
			return err
		}
		result = &CheckInResult{
			Created:     false,
			EventID:     existing.EventID,
			AttendeeID:  existing.AttendeeID,
			CheckedInAt: existing.CheckedInAt,
		}
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	return result, nil
}

func checkInKey(eventID, attendeeID uuid.UUID) string {
	return fmt.Sprintf("checkin:%s:%s", eventID, attendeeID)
}
