package api

import (
	"net/http"

	reqdto "expo-ledger/internal/handler/dto/request"
	resdto "expo-ledger/internal/handler/dto/response"
	"expo-ledger/internal/handler/httperr"
	"expo-ledger/internal/usecase/commands"
	"expo-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckInHandler struct {
	scanCommands   commands.ScanCommands
	checkInQueries queries.CheckInQueries
}

func NewCheckInHandler(scanCommands commands.ScanCommands, checkInQueries queries.CheckInQueries) *CheckInHandler {
	return &CheckInHandler{
		scanCommands:   scanCommands,
		checkInQueries: checkInQueries,
	}
}

// @Summary Check in an attendee
// @Description Record the attendee's arrival; repeating the scan is a no-op
// @Tags checkins
// @Accept json
// @Produce json
// @Param request body reqdto.CheckInRequest true "Check-in request"
// @Success 200 {object} resdto.CheckInResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /checkins [post]
func (h *CheckInHandler) CheckIn(c *gin.Context) {
	var req reqdto.CheckInRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.scanCommands.Dispatch(c.Request.Context(), commands.ScanInput{
		Mode:    commands.ModeCheckIn,
		Payload: req.Payload,
	})
	if err != nil {
		respondScanError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCheckInResult(result.CheckIn))
}

// @Summary Count check-ins for an event
// @Description Number of distinct attendees checked into the event
// @Tags checkins
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} resdto.CheckInCountResponse
// @Failure 400 {object} map[string]string
// @Router /events/{id}/checkins/count [get]
func (h *CheckInHandler) CountByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid event ID format", nil)
		return
	}

	count, err := h.checkInQueries.CountByEvent(c.Request.Context(), eventID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.CheckInCountResponse{
		EventID: eventID,
		Count:   count,
	})
}
