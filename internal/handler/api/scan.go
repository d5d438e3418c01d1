package api

import (
	"errors"
	"net/http"

	reqdto "expo-ledger/internal/handler/dto/request"
	resdto "expo-ledger/internal/handler/dto/response"
	"expo-ledger/internal/handler/httperr"
	"expo-ledger/internal/usecase/commands"
	"expo-ledger/internal/usecase/identity"

	"github.com/gin-gonic/gin"
)

type ScanHandler struct {
	scanCommands commands.ScanCommands
}

func NewScanHandler(scanCommands commands.ScanCommands) *ScanHandler {
	return &ScanHandler{
		scanCommands: scanCommands,
	}
}

// @Summary Process a badge scan
// @Description Resolve the scanned badge and run the operation for the terminal's mode
// @Tags scan
// @Accept json
// @Produce json
// @Param request body reqdto.ScanRequest true "Scan request"
// @Success 200 {object} resdto.ScanResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /scan [post]
func (h *ScanHandler) Scan(c *gin.Context) {
	var req reqdto.ScanRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.scanCommands.Dispatch(c.Request.Context(), req.ToInput())
	if err != nil {
		respondScanError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromScanResult(result))
}

// respondScanError maps dispatcher errors for every scan-driven endpoint.
// Informational outcomes never arrive here; they ride in the result.
func respondScanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidPayload):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Payload is not a recognizable badge", nil)
	case errors.Is(err, identity.ErrVerificationFailed):
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Badge verification failed", nil)
	case errors.Is(err, commands.ErrValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request parameters", nil)
	case errors.Is(err, commands.ErrUnknownMode):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown scan mode", nil)
	case errors.Is(err, commands.ErrAttendeeNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Attendee not found", nil)
	case errors.Is(err, commands.ErrProductNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Product not found", nil)
	case errors.Is(err, commands.ErrActivityNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Activity not found", nil)
	case errors.Is(err, commands.ErrContention):
		c.Header("Retry-After", "1")
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Resource is busy, please retry", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
