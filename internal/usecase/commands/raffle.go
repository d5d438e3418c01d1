package commands

import (
	"context"
	"errors"
	"time"

	"expo-ledger/internal/domain/raffle"
	"expo-ledger/internal/infra"
	"expo-ledger/internal/pkg/clock"
	"expo-ledger/internal/pkg/errs"
	"expo-ledger/internal/pkg/keylock"
	"expo-ledger/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateRaffleInput struct {
	EventID          uuid.UUID
	Prize            string
	WinnersRequested int32
	StartActive      bool
}

type CreateRaffleResult struct {
	RaffleID uuid.UUID
	Status   raffle.Status
}

// DrawnWinner is the attendee picked by a single draw.
type DrawnWinner struct {
	AttendeeID  uuid.UUID
	DisplayName string
	Position    int32
	DrawnAt     time.Time
}

// DrawResult reports one draw attempt. Winner is nil for the informational
// no-draw outcomes; Message says which one it was.
type DrawResult struct {
	Winner  *DrawnWinner
	Status  raffle.Status
	Message string
}

type RaffleCommands interface {
	Create(ctx context.Context, in CreateRaffleInput) (*CreateRaffleResult, error)
	Activate(ctx context.Context, raffleID uuid.UUID) (raffle.Status, error)
	Close(ctx context.Context, raffleID uuid.UUID) (raffle.Status, error)
	Draw(ctx context.Context, raffleID uuid.UUID) (*DrawResult, error)
}

type raffleCommandsImpl struct {
	uow    shared.UnitOfWork
	locks  *keylock.Manager
	clock  clock.Clock
	picker raffle.Picker
}

func NewRaffleCommands(uow shared.UnitOfWork, locks *keylock.Manager, clk clock.Clock, picker raffle.Picker) RaffleCommands {
	return &raffleCommandsImpl{
		uow:    uow,
		locks:  locks,
		clock:  clk,
		picker: picker,
	}
}

func (r *raffleCommandsImpl) Create(ctx context.Context, in CreateRaffleInput) (*CreateRaffleResult, error) {
	rf, err := raffle.NewRaffle(in.EventID, in.Prize, in.WinnersRequested, in.StartActive, r.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Raffles().Create(ctx, rf)
	})
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	return &CreateRaffleResult{RaffleID: rf.ID(), Status: rf.Status()}, nil
}

func (r *raffleCommandsImpl) Activate(ctx context.Context, raffleID uuid.UUID) (raffle.Status, error) {
	return r.transition(ctx, raffleID, raffle.StatusActive)
}

func (r *raffleCommandsImpl) Close(ctx context.Context, raffleID uuid.UUID) (raffle.Status, error) {
	return r.transition(ctx, raffleID, raffle.StatusFinished)
}

func (r *raffleCommandsImpl) transition(ctx context.Context, raffleID uuid.UUID, to raffle.Status) (raffle.Status, error) {
	release, err := r.locks.Acquire(ctx, raffleKey(raffleID))
	if err != nil {
		return "", markContention(err)
	}
	defer release()

	var status raffle.Status
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Raffles().Find(ctx, raffleID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrRaffleNotFound)
			}
			return err
		}
		if snap.Status == to {
			status = snap.Status
			return nil
		}
		if !raffle.CanTransition(snap.Status, to) {
			return errs.Mark(raffle.ErrInvalidTransition, ErrInvalidTransition)
		}

		moved, err := tx.Raffles().UpdateStatus(ctx, raffleID, snap.Status, to)
		if err != nil {
			return err
		}
		if !moved {
			return errs.Mark(raffle.ErrInvalidTransition, ErrInvalidTransition)
		}
		status = to
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRaffleNotFound) || errors.Is(err, ErrInvalidTransition) {
			return "", err
		}
		return "", errs.Mark(err, ErrStorageFailure)
	}
	return status, nil
}

func (r *raffleCommandsImpl) Draw(ctx context.Context, raffleID uuid.UUID) (*DrawResult, error) {
	release, err := r.locks.Acquire(ctx, raffleKey(raffleID))
	if err != nil {
		return nil, markContention(err)
	}
	defer release()

	var result *DrawResult
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Raffles().Find(ctx, raffleID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrRaffleNotFound)
			}
			return err
		}

		switch snap.Status {
		case raffle.StatusFinished:
			result = &DrawResult{Status: snap.Status, Message: "already finished"}
			return nil
		case raffle.StatusActive:
		default:
			return errs.Mark(raffle.ErrInvalidTransition, ErrRaffleNotActive)
		}

		pool, err := tx.Raffles().EligiblePool(ctx, raffleID, snap.EventID)
		if err != nil {
			return err
		}
		if len(pool) == 0 {
			// An exhausted pool closes the raffle; nothing left to draw from.
			if _, err := tx.Raffles().UpdateStatus(ctx, raffleID, raffle.StatusActive, raffle.StatusFinished); err != nil {
				return err
			}
			result = &DrawResult{Status: raffle.StatusFinished, Message: "no eligible attendees"}
			return nil
		}

		winner := &raffle.Winner{
			RaffleID:   raffleID,
			AttendeeID: pool[r.picker.IntN(len(pool))],
			Position:   snap.WinnerCount + 1,
			DrawnAt:    r.clock.Now(),
		}
		if err := tx.Raffles().AppendWinner(ctx, winner); err != nil {
			return err
		}

		status := snap.Status
		if winner.Position >= snap.WinnersRequested {
			if _, err := tx.Raffles().UpdateStatus(ctx, raffleID, raffle.StatusActive, raffle.StatusFinished); err != nil {
				return err
			}
			status = raffle.StatusFinished
		}

		att, err := tx.Attendees().Find(ctx, winner.AttendeeID)
		if err != nil {
			return err
		}

		result = &DrawResult{
			Winner: &DrawnWinner{
				AttendeeID:  winner.AttendeeID,
				DisplayName: att.DisplayName,
				Position:    winner.Position,
				DrawnAt:     winner.DrawnAt,
			},
			Status: status,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRaffleNotFound) || errors.Is(err, ErrRaffleNotActive) {
			return nil, err
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	return result, nil
}

func raffleKey(id uuid.UUID) string {
	return "raffle:" + id.String()
}
