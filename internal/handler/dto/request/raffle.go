package request

import (
	"expo-ledger/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateRaffleRequest struct {
	EventID          uuid.UUID `json:"eventId" binding:"required"`
	Prize            string    `json:"prize" binding:"required"`
	WinnersRequested int32     `json:"winnersRequested" binding:"required,gt=0"`
	StartActive      bool      `json:"startActive"`
}

func (r *CreateRaffleRequest) ToInput() commands.CreateRaffleInput {
	return commands.CreateRaffleInput{
		EventID:          r.EventID,
		Prize:            r.Prize,
		WinnersRequested: r.WinnersRequested,
		StartActive:      r.StartActive,
	}
}
