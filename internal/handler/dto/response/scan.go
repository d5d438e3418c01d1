package response

import (
	"time"

	"expo-ledger/internal/usecase/commands"
	"expo-ledger/internal/usecase/identity"

	"github.com/google/uuid"
)

type IdentityResponse struct {
	AttendeeID  uuid.UUID `json:"attendeeId"`
	DisplayName string    `json:"displayName"`
	EventID     uuid.UUID `json:"eventId"`
}

type CheckInResponse struct {
	Created     bool      `json:"created"`
	EventID     uuid.UUID `json:"eventId"`
	AttendeeID  uuid.UUID `json:"attendeeId"`
	CheckedInAt time.Time `json:"checkedInAt"`
}

type FailedItemResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Reason    string    `json:"reason"`
}

type RedemptionResponse struct {
	Succeeded       bool                 `json:"succeeded"`
	TransactionID   *uuid.UUID           `json:"transactionId,omitempty"`
	RemainingPoints *int32               `json:"remainingPoints,omitempty"`
	RemainingStock  map[uuid.UUID]int32  `json:"remainingStock,omitempty"`
	RedeemedAt      *time.Time           `json:"redeemedAt,omitempty"`
	Failed          *FailedItemResponse  `json:"failed,omitempty"`
}

type JoinActivityResponse struct {
	Awarded       bool      `json:"awarded"`
	ActivityID    uuid.UUID `json:"activityId"`
	AttendeeID    uuid.UUID `json:"attendeeId"`
	PointsAwarded int32     `json:"pointsAwarded"`
	CompletedAt   time.Time `json:"completedAt"`
}

type ScanResponse struct {
	Identity   IdentityResponse      `json:"identity"`
	CheckIn    *CheckInResponse      `json:"checkin,omitempty"`
	Redemption *RedemptionResponse   `json:"redemption,omitempty"`
	Activity   *JoinActivityResponse `json:"activity,omitempty"`
}

func FromIdentity(id *identity.Identity) IdentityResponse {
	return IdentityResponse{
		AttendeeID:  id.AttendeeID,
		DisplayName: id.DisplayName,
		EventID:     id.EventID,
	}
}

func FromCheckInResult(r *commands.CheckInResult) *CheckInResponse {
	if r == nil {
		return nil
	}
	return &CheckInResponse{
		Created:     r.Created,
		EventID:     r.EventID,
		AttendeeID:  r.AttendeeID,
		CheckedInAt: r.CheckedInAt,
	}
}

func FromRedeemResult(r *commands.RedeemResult) *RedemptionResponse {
	if r == nil {
		return nil
	}
	resp := &RedemptionResponse{Succeeded: r.Succeeded}
	if r.Succeeded {
		txnID := r.TransactionID
		points := r.RemainingPoints
		redeemedAt := r.RedeemedAt
		resp.TransactionID = &txnID
		resp.RemainingPoints = &points
		resp.RemainingStock = r.RemainingStock
		resp.RedeemedAt = &redeemedAt
	}
	if r.Failed != nil {
		resp.Failed = &FailedItemResponse{
			ProductID: r.Failed.ProductID,
			Reason:    string(r.Failed.Reason),
		}
	}
	return resp
}

func FromJoinResult(r *commands.JoinResult) *JoinActivityResponse {
	if r == nil {
		return nil
	}
	return &JoinActivityResponse{
		Awarded:       r.Awarded,
		ActivityID:    r.ActivityID,
		AttendeeID:    r.AttendeeID,
		PointsAwarded: r.PointsAwarded,
		CompletedAt:   r.CompletedAt,
	}
}

func FromScanResult(r *commands.ScanResult) *ScanResponse {
	return &ScanResponse{
		Identity:   FromIdentity(r.Identity),
		CheckIn:    FromCheckInResult(r.CheckIn),
		Redemption: FromRedeemResult(r.Redemption),
		Activity:   FromJoinResult(r.Activity),
	}
}
