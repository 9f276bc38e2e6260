package handler

import (
	"net/http"
	"strconv"

	"savoria/internal/apierror"
	"savoria/internal/dto"
	"savoria/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IngredientsHandler struct{ svc service.IngredientService }

func NewIngredientsHandler(svc service.IngredientService) *IngredientsHandler {
	return &IngredientsHandler{svc: svc}
}

// List godoc
// @Summary      List ingredients
// @Description  Read-only stock view, filterable by name and low-stock flag.
// @Tags         ingredients
// @Produce      json
// @Param        name      query string false "Substring name filter"
// @Param        low_stock query bool   false "Only base ingredients below minimum"
// @Param        page      query int    false "Page (default 1)"
// @Param        limit     query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.IngredientListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/ingredients [get]
func (h *IngredientsHandler) List(c *gin.Context) {
	var filter dto.IngredientFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list ingredients"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary      List stock movements for one ingredient
// @Tags         ingredients
// @Produce      json
// @Param        id    path  string true  "Ingredient UUID"
// @Param        limit query int    false "Max rows (default 100)"
// @Success      200 {array}  dto.StockMovementResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/ingredients/{id}/movements [get]
func (h *IngredientsHandler) Movements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ingredient id"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	resp, err := h.svc.Movements(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list movements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
