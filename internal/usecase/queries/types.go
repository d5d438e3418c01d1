package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type AttendeeView struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Points      int32     `json:"points"`
}

type ProductView struct {
	ID         uuid.UUID `json:"id"`
	BoothID    uuid.UUID `json:"booth_id"`
	Name       string    `json:"name"`
	PointsCost int32     `json:"points_cost"`
	Stock      int32     `json:"stock"`
}

type ActivityView struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	PointsReward     int32     `json:"points_reward"`
	ParticipantCount int32     `json:"participant_count"`
}

type RaffleView struct {
	ID               uuid.UUID `json:"id"`
	EventID          uuid.UUID `json:"event_id"`
	Prize            string    `json:"prize"`
	WinnersRequested int32     `json:"winners_requested"`
	WinnerCount      int32     `json:"winner_count"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

type WinnerView struct {
	RaffleID    uuid.UUID `json:"raffle_id"`
	AttendeeID  uuid.UUID `json:"attendee_id"`
	DisplayName string    `json:"display_name"`
	Position    int32     `json:"position"`
	DrawnAt     time.Time `json:"drawn_at"`
}

type RedemptionItemView struct {
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int32     `json:"quantity"`
	PointsCost int32     `json:"points_cost"`
}

type RedemptionView struct {
	ID          uuid.UUID            `json:"id"`
	AttendeeID  uuid.UUID            `json:"attendee_id"`
	TotalPoints int32                `json:"total_points"`
	RedeemedAt  time.Time            `json:"redeemed_at"`
	Items       []RedemptionItemView `json:"items"`
}
