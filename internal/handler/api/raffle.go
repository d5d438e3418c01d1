package api

import (
	"context"
	"errors"
	"net/http"

	"expo-ledger/internal/domain/raffle"
	reqdto "expo-ledger/internal/handler/dto/request"
	resdto "expo-ledger/internal/handler/dto/response"
	"expo-ledger/internal/handler/httperr"
	"expo-ledger/internal/infra"
	"expo-ledger/internal/usecase/commands"
	"expo-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RaffleHandler struct {
	raffleCommands commands.RaffleCommands
	raffleQueries  queries.RaffleQueries
}

func NewRaffleHandler(raffleCommands commands.RaffleCommands, raffleQueries queries.RaffleQueries) *RaffleHandler {
	return &RaffleHandler{
		raffleCommands: raffleCommands,
		raffleQueries:  raffleQueries,
	}
}

// @Summary Create raffle
// @Description Register a raffle for an event
// @Tags raffles
// @Accept json
// @Produce json
// @Param request body reqdto.CreateRaffleRequest true "Raffle request"
// @Success 201 {object} resdto.CreateRaffleResponse
// @Failure 400 {object} map[string]string
// @Router /raffles [post]
func (h *RaffleHandler) Create(c *gin.Context) {
	var req reqdto.CreateRaffleRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.raffleCommands.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateRaffleResponse{
		RaffleID: result.RaffleID,
		Status:   string(result.Status),
	})
}

// @Summary Activate raffle
// @Description Open the raffle for draws
// @Tags raffles
// @Produce json
// @Param id path string true "Raffle ID"
// @Success 200 {object} resdto.RaffleStatusResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /raffles/{id}/activate [post]
func (h *RaffleHandler) Activate(c *gin.Context) {
	h.transition(c, h.raffleCommands.Activate)
}

// @Summary Close raffle
// @Description Finish the raffle; no further draws are possible
// @Tags raffles
// @Produce json
// @Param id path string true "Raffle ID"
// @Success 200 {object} resdto.RaffleStatusResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /raffles/{id}/close [post]
func (h *RaffleHandler) Close(c *gin.Context) {
	h.transition(c, h.raffleCommands.Close)
}

// @Summary Draw a winner
// @Description Pick one eligible attendee at random; finished raffles and empty pools report back without drawing
// @Tags raffles
// @Produce json
// @Param id path string true "Raffle ID"
// @Success 200 {object} resdto.DrawResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /raffles/{id}/draw [post]
func (h *RaffleHandler) Draw(c *gin.Context) {
	raffleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid raffle ID format", nil)
		return
	}

	result, err := h.raffleCommands.Draw(c.Request.Context(), raffleID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromDrawResult(result))
}

// @Summary Get raffle
// @Description Raffle detail with its winner count
// @Tags raffles
// @Produce json
// @Param id path string true "Raffle ID"
// @Success 200 {object} resdto.RaffleResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /raffles/{id} [get]
func (h *RaffleHandler) Get(c *gin.Context) {
	raffleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid raffle ID format", nil)
		return
	}

	view, err := h.raffleQueries.GetByID(c.Request.Context(), raffleID)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	resp, err := resdto.FromRaffleView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List raffle winners
// @Description Winners in draw order
// @Tags raffles
// @Produce json
// @Param id path string true "Raffle ID"
// @Success 200 {array} resdto.WinnerResponse
// @Failure 400 {object} map[string]string
// @Router /raffles/{id}/winners [get]
func (h *RaffleHandler) ListWinners(c *gin.Context) {
	raffleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid raffle ID format", nil)
		return
	}

	views, err := h.raffleQueries.ListWinners(c.Request.Context(), raffleID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	resp, err := resdto.FromWinnerViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RaffleHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (raffle.Status, error)) {
	raffleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid raffle ID format", nil)
		return
	}

	status, err := fn(c.Request.Context(), raffleID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.RaffleStatusResponse{
		RaffleID: raffleID,
		Status:   string(status),
	})
}

func (h *RaffleHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid raffle parameters", nil)
	case errors.Is(err, commands.ErrRaffleNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Raffle not found", nil)
	case errors.Is(err, commands.ErrRaffleNotActive):
		httperr.AbortWithError(c, http.StatusConflict, err, "Raffle is not active", nil)
	case errors.Is(err, commands.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Invalid raffle status transition", nil)
	case errors.Is(err, commands.ErrContention):
		c.Header("Retry-After", "1")
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Raffle is busy, please retry", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func (h *RaffleHandler) respondQueryError(c *gin.Context, err error) {
	if infra.IsKind(err, infra.KindNotFound) {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Raffle not found", nil)
		return
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
