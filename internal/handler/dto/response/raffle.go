package response

import (
	"time"

	"expo-ledger/internal/usecase/commands"
	"expo-ledger/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RaffleResponse struct {
	ID               uuid.UUID `json:"id"`
	EventID          uuid.UUID `json:"eventId"`
	Prize            string    `json:"prize"`
	WinnersRequested int32     `json:"winnersRequested"`
	WinnerCount      int32     `json:"winnerCount"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

type WinnerResponse struct {
	RaffleID    uuid.UUID `json:"raffleId"`
	AttendeeID  uuid.UUID `json:"attendeeId"`
	DisplayName string    `json:"displayName"`
	Position    int32     `json:"position"`
	DrawnAt     time.Time `json:"drawnAt"`
}

type CreateRaffleResponse struct {
	RaffleID uuid.UUID `json:"raffleId"`
	Status   string    `json:"status"`
}

type RaffleStatusResponse struct {
	RaffleID uuid.UUID `json:"raffleId"`
	Status   string    `json:"status"`
}

type DrawnWinnerResponse struct {
	AttendeeID  uuid.UUID `json:"attendeeId"`
	DisplayName string    `json:"displayName"`
	Position    int32     `json:"position"`
	DrawnAt     time.Time `json:"drawnAt"`
}

type DrawResponse struct {
	Winner  *DrawnWinnerResponse `json:"winner,omitempty"`
	Status  string               `json:"status"`
	Message string               `json:"message,omitempty"`
}

func FromRaffleView(rm *queries.RaffleView) (*RaffleResponse, error) {
	var resp RaffleResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromWinnerViews(rms []*queries.WinnerView) ([]*WinnerResponse, error) {
	resp := make([]*WinnerResponse, 0, len(rms))
	if err := copier.Copy(&resp, &rms); err != nil {
		return nil, err
	}
	return resp, nil
}

func FromDrawResult(r *commands.DrawResult) *DrawResponse {
	resp := &DrawResponse{
		Status:  string(r.Status),
		Message: r.Message,
	}
	if r.Winner != nil {
		resp.Winner = &DrawnWinnerResponse{
			AttendeeID:  r.Winner.AttendeeID,
			DisplayName: r.Winner.DisplayName,
			Position:    r.Winner.Position,
			DrawnAt:     r.Winner.DrawnAt,
		}
	}
	return resp
}
