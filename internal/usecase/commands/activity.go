package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expo-ledger/internal/domain/activity"
	"expo-ledger/internal/infra"
	"expo-ledger/internal/pkg/clock"
	"expo-ledger/internal/pkg/errs"
	"expo-ledger/internal/pkg/keylock"
	"expo-ledger/internal/usecase/shared"

	"github.com/google/uuid"
)

// JoinResult reports the outcome of an activity join. Awarded=false means
// the attendee had already completed this activity; no points move and the
// original completion time is reported back.
type JoinResult struct {
	Awarded       bool
	ActivityID    uuid.UUID
	AttendeeID    uuid.UUID
	PointsAwarded int32
	CompletedAt   time.Time
}

type ActivityCommands interface {
	Join(ctx context.Context, activityID, attendeeID uuid.UUID) (*JoinResult, error)
}

type activityCommandsImpl struct {
	uow   shared.UnitOfWork
	locks *keylock.Manager
	clock clock.Clock
}

func NewActivityCommands(uow shared.UnitOfWork, locks *keylock.Manager, clk clock.Clock) ActivityCommands {
	return &activityCommandsImpl{
		uow:   uow,
		locks: locks,
		clock: clk,
	}
}

func (a *activityCommandsImpl) Join(ctx context.Context, activityID, attendeeID uuid.UUID) (*JoinResult, error) {
	rec, err := activity.NewParticipation(activityID, attendeeID, a.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	release, err := a.locks.Acquire(ctx, activityKey(activityID, attendeeID))
	if err != nil {
		return nil, markContention(err)
	}
	defer release()

	var result *JoinResult
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		act, err := tx.Activities().Find(ctx, activityID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrActivityNotFound)
			}
			return err
		}

		created, err := tx.Activities().CreateParticipation(ctx, rec)
		if err != nil {
			return err
		}
		if !created {
			existing, err := tx.Activities().FindParticipation(ctx, activityID, attendeeID)
			if err != nil {
				return err
			}
			result = &JoinResult{
				Awarded:     false,
				ActivityID:  existing.ActivityID,
				AttendeeID:  existing.AttendeeID,
				CompletedAt: existing.CompletedAt,
			}
			return nil
		}

		// The participation row is the dedup anchor: credit and counter
		// ride in the same transaction, so the award happens exactly once.
		if err := tx.Attendees().Credit(ctx, attendeeID, act.PointsReward); err != nil {
			return err
		}
		if err := tx.Activities().IncrementParticipants(ctx, activityID); err != nil {
			return err
		}

		result = &JoinResult{
			Awarded:       true,
			ActivityID:    rec.ActivityID(),
			AttendeeID:    rec.AttendeeID(),
			PointsAwarded: act.PointsReward,
			CompletedAt:   rec.CompletedAt(),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			return nil, err
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	return result, nil
}

func activityKey(activityID, attendeeID uuid.UUID) string {
	return fmt.Sprintf("activity:%s:%s", activityID, attendeeID)
}
