package api

import (
	"net/http"

	reqdto "expo-ledger/internal/handler/dto/request"
	resdto "expo-ledger/internal/handler/dto/response"
	"expo-ledger/internal/handler/httperr"
	"expo-ledger/internal/infra"
	"expo-ledger/internal/usecase/commands"
	"expo-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ActivityHandler struct {
	scanCommands    commands.ScanCommands
	activityQueries queries.ActivityQueries
}

func NewActivityHandler(scanCommands commands.ScanCommands, activityQueries queries.ActivityQueries) *ActivityHandler {
	return &ActivityHandler{
		scanCommands:    scanCommands,
		activityQueries: activityQueries,
	}
}

// @Summary Join an activity
// @Description Credit the activity's points once per attendee
// @Tags activities
// @Accept json
// @Produce json
// @Param id path string true "Activity ID"
// @Param request body reqdto.JoinActivityRequest true "Join request"
// @Success 200 {object} resdto.JoinActivityResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /activities/{id}/join [post]
func (h *ActivityHandler) Join(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid activity ID format", nil)
		return
	}

	var req reqdto.JoinActivityRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.scanCommands.Dispatch(c.Request.Context(), commands.ScanInput{
		Mode:       commands.ModeActivity,
		Payload:    req.Payload,
		ActivityID: activityID,
	})
	if err != nil {
		respondScanError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromJoinResult(result.Activity))
}

// @Summary Get activity
// @Description Activity detail with its participant count
// @Tags activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} resdto.ActivityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /activities/{id} [get]
func (h *ActivityHandler) Get(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid activity ID format", nil)
		return
	}

	view, err := h.activityQueries.GetByID(c.Request.Context(), activityID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Activity not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	resp, err := resdto.FromActivityView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}
