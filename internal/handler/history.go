package handler

import (
	"net/http"

	"savoria/internal/apierror"
	"savoria/internal/dto"
	"savoria/internal/service"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct{ svc service.HistoryService }

func NewHistoryHandler(svc service.HistoryService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// List godoc
// @Summary      List committed sale history
// @Description  Paginated, filtered by sale date (default: today). Rows are append-only.
// @Tags         history
// @Produce      json
// @Param        date  query string false "Date YYYY-MM-DD (default: today)"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.SaleHistoryListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var filter dto.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list sale history"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
