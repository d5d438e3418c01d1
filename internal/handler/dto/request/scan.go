package request

import (
	"expo-ledger/internal/domain/redemption"
	"expo-ledger/internal/usecase/commands"

	"github.com/google/uuid"
)

type CartItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int32     `json:"quantity" binding:"required,gt=0"`
}

type ScanRequest struct {
	Payload    string            `json:"payload" binding:"required"`
	Mode       string            `json:"mode" binding:"required,oneof=checkin redeem activity"`
	ActivityID *uuid.UUID        `json:"activityId,omitempty"`
	Items      []CartItemRequest `json:"items,omitempty" binding:"omitempty,dive"`
}

func (r *ScanRequest) ToInput() commands.ScanInput {
	in := commands.ScanInput{
		Mode:    commands.ScanMode(r.Mode),
		Payload: r.Payload,
		Items:   ToCartItems(r.Items),
	}
	if r.ActivityID != nil {
		in.ActivityID = *r.ActivityID
	}
	return in
}

type CheckInRequest struct {
	Payload string `json:"payload" binding:"required"`
}

type RedeemRequest struct {
	Payload string            `json:"payload" binding:"required"`
	Items   []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

type JoinActivityRequest struct {
	Payload string `json:"payload" binding:"required"`
}

func ToCartItems(items []CartItemRequest) []redemption.CartItem {
	out := make([]redemption.CartItem, len(items))
	for i, item := range items {
		out[i] = redemption.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	return out
}
