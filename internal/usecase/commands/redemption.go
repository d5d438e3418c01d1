package commands

import (
	"context"
	"errors"
	"time"

	"expo-ledger/internal/domain/redemption"
	"expo-ledger/internal/infra"
	"expo-ledger/internal/pkg/clock"
	"expo-ledger/internal/pkg/errs"
	"expo-ledger/internal/pkg/keylock"
	"expo-ledger/internal/usecase/shared"

	"github.com/google/uuid"
)

// FailedItem names the first cart line whose precondition rejected the
// redemption.
type FailedItem struct {
	ProductID uuid.UUID
	Reason    redemption.Reason
}

// RedeemResult reports either a committed transaction or a typed rejection.
// A rejection is an outcome, not an error: the caller gets Succeeded=false,
// the failing line, and a guarantee that nothing was mutated.
type RedeemResult struct {
	Succeeded       bool
	TransactionID   uuid.UUID
	RemainingPoints int32
	RemainingStock  map[uuid.UUID]int32
	RedeemedAt      time.Time
	Failed          *FailedItem
}

type RedemptionCommands interface {
	Redeem(ctx context.Context, attendeeID uuid.UUID, cart *redemption.Cart) (*RedeemResult, error)
}

type redemptionCommandsImpl struct {
	uow   shared.UnitOfWork
	locks *keylock.Manager
	clock clock.Clock
}

func NewRedemptionCommands(uow shared.UnitOfWork, locks *keylock.Manager, clk clock.Clock) RedemptionCommands {
	return &redemptionCommandsImpl{
		uow:   uow,
		locks: locks,
		clock: clk,
	}
}

// errRedeemAborted signals a precondition that raced past the initial check
// and was caught by a conditional update. It forces a rollback; the typed
// outcome is carried in the result, not the error.
var errRedeemAborted = errors.New("redemption aborted")

func (r *redemptionCommandsImpl) Redeem(ctx context.Context, attendeeID uuid.UUID, cart *redemption.Cart) (*RedeemResult, error) {
	keys := make([]string, 0, len(cart.Items())+1)
	keys = append(keys, "attendee:"+attendeeID.String())
	for _, id := range cart.ProductIDs() {
		keys = append(keys, "product:"+id.String())
	}

	release, err := r.locks.AcquireMany(ctx, keys...)
	if err != nil {
		return nil, markContention(err)
	}
	defer release()

	var result *RedeemResult
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		att, err := tx.Attendees().Find(ctx, attendeeID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrAttendeeNotFound)
			}
			return err
		}

		lines := make([]redemption.Line, 0, len(cart.Items()))
		// The total accumulates in 64 bits: per-line products of two int32
		// values can overflow, and a wrapped-around negative total would
		// slip past the balance check below.
		var total int64
		for _, item := range cart.Items() {
			prod, err := tx.Products().Find(ctx, item.ProductID)
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return errs.Mark(err, ErrProductNotFound)
				}
				return err
			}
			if prod.Stock < item.Quantity {
				result = rejected(item.ProductID, redemption.ReasonInsufficientStock)
				return nil
			}
			lines = append(lines, redemption.Line{
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				PointsCost: prod.PointsCost,
			})
			total += int64(item.Quantity) * int64(prod.PointsCost)
		}

		if int64(att.Points) < total {
			result = rejected(overdrawnLine(lines, att.Points), redemption.ReasonInsufficientPoints)
			return nil
		}

		// Preconditions held on the in-transaction reads. The conditional
		// updates below re-check them at write time; a conflict means
		// another terminal won the race, so the whole cart rolls back.
		for _, line := range lines {
			if err := tx.Products().DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				if infra.IsKind(err, infra.KindConflict) {
					result = rejected(line.ProductID, redemption.ReasonInsufficientStock)
					return errRedeemAborted
				}
				return err
			}
		}
		if err := tx.Attendees().Debit(ctx, attendeeID, int32(total)); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				result = rejected(overdrawnLine(lines, att.Points), redemption.ReasonInsufficientPoints)
				return errRedeemAborted
			}
			return err
		}

		txn := redemption.NewTransaction(attendeeID, lines, r.clock.Now())
		if err := tx.Redemptions().Create(ctx, txn); err != nil {
			return err
		}

		stock := make(map[uuid.UUID]int32, len(lines))
		for _, line := range lines {
			prod, err := tx.Products().Find(ctx, line.ProductID)
			if err != nil {
				return err
			}
			stock[line.ProductID] = prod.Stock
		}

		result = &RedeemResult{
			Succeeded:       true,
			TransactionID:   txn.ID(),
			RemainingPoints: att.Points - int32(total),
			RemainingStock:  stock,
			RedeemedAt:      txn.RedeemedAt(),
		}
		return nil
	})
	if err != nil && !errors.Is(err, errRedeemAborted) {
		if errors.Is(err, ErrAttendeeNotFound) || errors.Is(err, ErrProductNotFound) {
			return nil, err
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	return result, nil
}

// overdrawnLine finds the line at which the running cost first exceeds the
// balance, so the rejection points at a concrete cart entry.
func overdrawnLine(lines []redemption.Line, points int32) uuid.UUID {
	var running int64
	for _, line := range lines {
		running += line.Total()
		if running > int64(points) {
			return line.ProductID
		}
	}
	return lines[len(lines)-1].ProductID
}

func rejected(productID uuid.UUID, reason redemption.Reason) *RedeemResult {
	return &RedeemResult{
		Succeeded: false,
		Failed:    &FailedItem{ProductID: productID, Reason: reason},
	}
}
