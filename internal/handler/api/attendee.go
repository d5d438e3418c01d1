package api

import (
	"net/http"

	resdto "expo-ledger/internal/handler/dto/response"
	"expo-ledger/internal/handler/httperr"
	"expo-ledger/internal/infra"
	"expo-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AttendeeHandler struct {
	attendeeQueries queries.AttendeeQueries
}

func NewAttendeeHandler(attendeeQueries queries.AttendeeQueries) *AttendeeHandler {
	return &AttendeeHandler{
		attendeeQueries: attendeeQueries,
	}
}

// @Summary Get attendee
// @Description Attendee profile with current point balance
// @Tags attendees
// @Produce json
// @Param id path string true "Attendee ID"
// @Success 200 {object} resdto.AttendeeResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /attendees/{id} [get]
func (h *AttendeeHandler) Get(c *gin.Context) {
	attendeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid attendee ID format", nil)
		return
	}

	view, err := h.attendeeQueries.GetByID(c.Request.Context(), attendeeID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Attendee not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	resp, err := resdto.FromAttendeeView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}
