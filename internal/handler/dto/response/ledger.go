package response

import (
	"time"

	"expo-ledger/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type AttendeeResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	Points      int32     `json:"points"`
}

type ProductResponse struct {
	ID         uuid.UUID `json:"id"`
	BoothID    uuid.UUID `json:"boothId"`
	Name       string    `json:"name"`
	PointsCost int32     `json:"pointsCost"`
	Stock      int32     `json:"stock"`
}

type RedemptionItemResponse struct {
	ProductID  uuid.UUID `json:"productId"`
	Quantity   int32     `json:"quantity"`
	PointsCost int32     `json:"pointsCost"`
}

type RedemptionHistoryResponse struct {
	ID          uuid.UUID                `json:"id"`
	AttendeeID  uuid.UUID                `json:"attendeeId"`
	TotalPoints int32                    `json:"totalPoints"`
	RedeemedAt  time.Time                `json:"redeemedAt"`
	Items       []RedemptionItemResponse `json:"items"`
}

type ActivityResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	PointsReward     int32     `json:"pointsReward"`
	ParticipantCount int32     `json:"participantCount"`
}

type CheckInCountResponse struct {
	EventID uuid.UUID `json:"eventId"`
	Count   int64     `json:"count"`
}

func FromAttendeeView(rm *queries.AttendeeView) (*AttendeeResponse, error) {
	var resp AttendeeResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromActivityView(rm *queries.ActivityView) (*ActivityResponse, error) {
	var resp ActivityResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromProductViews(rms []*queries.ProductView) ([]*ProductResponse, error) {
	resp := make([]*ProductResponse, 0, len(rms))
	if err := copier.Copy(&resp, &rms); err != nil {
		return nil, err
	}
	return resp, nil
}

func FromRedemptionViews(rms []*queries.RedemptionView) ([]*RedemptionHistoryResponse, error) {
	resp := make([]*RedemptionHistoryResponse, 0, len(rms))
	if err := copier.Copy(&resp, &rms); err != nil {
		return nil, err
	}
	return resp, nil
}
