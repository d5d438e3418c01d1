package commands

import (
	"errors"

	"expo-ledger/internal/pkg/errs"
	"expo-ledger/internal/pkg/keylock"
)

var (
	ErrValidation        = errs.New("validation failed")
	ErrAttendeeNotFound  = errs.New("attendee not found")
	ErrProductNotFound   = errs.New("product not found")
	ErrActivityNotFound  = errs.New("activity not found")
	ErrRaffleNotFound    = errs.New("raffle not found")
	ErrRaffleNotActive   = errs.New("raffle is not active")
	ErrInvalidTransition = errs.New("invalid raffle status transition")

	// ErrContention: a lock could not be acquired within the configured
	// bound. Transient; the caller may retry the whole operation.
	ErrContention = errs.New("operation timed out waiting for a contended resource")

	// ErrStorageFailure: the single operation failed; atomicity guarantees
	// no partial state was left behind, so a retry is safe.
	ErrStorageFailure = errs.New("storage operation failed")
)

func markContention(err error) error {
	if errors.Is(err, keylock.ErrLockTimeout) {
		return errs.Mark(err, ErrContention)
	}
	return err
}
