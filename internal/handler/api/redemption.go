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

type RedemptionHandler struct {
	scanCommands      commands.ScanCommands
	redemptionQueries queries.RedemptionQueries
}

func NewRedemptionHandler(scanCommands commands.ScanCommands, redemptionQueries queries.RedemptionQueries) *RedemptionHandler {
	return &RedemptionHandler{
		scanCommands:      scanCommands,
		redemptionQueries: redemptionQueries,
	}
}

// @Summary Redeem a cart of products
// @Description Exchange points for booth stock; the whole cart commits or nothing does
// @Tags redemptions
// @Accept json
// @Produce json
// @Param request body reqdto.RedeemRequest true "Redemption request"
// @Success 200 {object} resdto.RedemptionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /redemptions [post]
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	var req reqdto.RedeemRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.scanCommands.Dispatch(c.Request.Context(), commands.ScanInput{
		Mode:    commands.ModeRedeem,
		Payload: req.Payload,
		Items:   reqdto.ToCartItems(req.Items),
	})
	if err != nil {
		respondScanError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRedeemResult(result.Redemption))
}

// @Summary List an attendee's redemptions
// @Description Redemption history, newest first
// @Tags redemptions
// @Produce json
// @Param id path string true "Attendee ID"
// @Success 200 {array} resdto.RedemptionHistoryResponse
// @Failure 400 {object} map[string]string
// @Router /attendees/{id}/redemptions [get]
func (h *RedemptionHandler) ListByAttendee(c *gin.Context) {
	attendeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid attendee ID format", nil)
		return
	}

	views, err := h.redemptionQueries.ListByAttendee(c.Request.Context(), attendeeID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	resp, err := resdto.FromRedemptionViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}
