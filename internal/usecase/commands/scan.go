package commands

import (
	"context"

	"expo-ledger/internal/domain/attendee"
	"expo-ledger/internal/domain/redemption"
	"expo-ledger/internal/pkg/errs"
	"expo-ledger/internal/usecase/identity"
	"expo-ledger/internal/usecase/shared"

	"github.com/google/uuid"
)

// ScanMode selects which ledger operation a terminal scan triggers.
type ScanMode string

const (
	ModeCheckIn  ScanMode = "checkin"
	ModeRedeem   ScanMode = "redeem"
	ModeActivity ScanMode = "activity"
)

var ErrUnknownMode = errs.New("unknown scan mode")

// ScanInput carries one badge scan plus the mode-specific parameters the
// terminal attached to it.
type ScanInput struct {
	Mode       ScanMode
	Payload    string
	Items      []redemption.CartItem
	ActivityID uuid.UUID
}

// ScanResult holds the resolved identity plus exactly one mode outcome.
type ScanResult struct {
	Identity   *identity.Identity
	CheckIn    *CheckInResult
	Redemption *RedeemResult
	Activity   *JoinResult
}

type ScanCommands interface {
	Dispatch(ctx context.Context, in ScanInput) (*ScanResult, error)
}

type scanCommandsImpl struct {
	resolver    identity.Resolver
	uow         shared.UnitOfWork
	checkIns    CheckInCommands
	redemptions RedemptionCommands
	activities  ActivityCommands
}

func NewScanCommands(
	resolver identity.Resolver,
	uow shared.UnitOfWork,
	checkIns CheckInCommands,
	redemptions RedemptionCommands,
	activities ActivityCommands,
) ScanCommands {
	return &scanCommandsImpl{
		resolver:    resolver,
		uow:         uow,
		checkIns:    checkIns,
		redemptions: redemptions,
		activities:  activities,
	}
}

// Dispatch resolves the badge, materializes the attendee row, and routes to
// the operation the terminal asked for. Resolution itself never mutates the
// ledger; a payload that fails verification leaves no trace.
func (s *scanCommandsImpl) Dispatch(ctx context.Context, in ScanInput) (*ScanResult, error) {
	id, err := s.resolver.Resolve(ctx, in.Payload)
	if err != nil {
		return nil, err
	}

	if err := s.ensureAttendee(ctx, id); err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	result := &ScanResult{Identity: id}
	switch in.Mode {
	case ModeCheckIn:
		result.CheckIn, err = s.checkIns.CheckIn(ctx, id.EventID, id.AttendeeID)
	case ModeRedeem:
		var cart *redemption.Cart
		cart, err = redemption.NewCart(in.Items)
		if err != nil {
			return nil, errs.Mark(err, ErrValidation)
		}
		result.Redemption, err = s.redemptions.Redeem(ctx, id.AttendeeID, cart)
	case ModeActivity:
		result.Activity, err = s.activities.Join(ctx, in.ActivityID, id.AttendeeID)
	default:
		return nil, errs.Wrap(ErrUnknownMode, string(in.Mode))
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *scanCommandsImpl) ensureAttendee(ctx context.Context, id *identity.Identity) error {
	a, err := attendee.NewAttendee(id.AttendeeID, id.DisplayName)
	if err != nil {
		return errs.Mark(err, ErrValidation)
	}
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Attendees().Ensure(ctx, a)
	})
}
