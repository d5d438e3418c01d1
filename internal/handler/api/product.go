package api

import (
	"net/http"

	resdto "expo-ledger/internal/handler/dto/response"
	"expo-ledger/internal/handler/httperr"
	"expo-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productQueries queries.ProductQueries
}

func NewProductHandler(productQueries queries.ProductQueries) *ProductHandler {
	return &ProductHandler{
		productQueries: productQueries,
	}
}

// @Summary List booth products
// @Description Product catalog of a booth with live stock counts
// @Tags products
// @Produce json
// @Param id path string true "Booth ID"
// @Success 200 {array} resdto.ProductResponse
// @Failure 400 {object} map[string]string
// @Router /booths/{id}/products [get]
func (h *ProductHandler) ListByBooth(c *gin.Context) {
	boothID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booth ID format", nil)
		return
	}

	views, err := h.productQueries.ListByBooth(c.Request.Context(), boothID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	resp, err := resdto.FromProductViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}
