package handler

import (
	"errors"
	"net/http"

	"savoria/internal/apierror"
	"savoria/internal/dto"
	"savoria/internal/infra"
	"savoria/internal/service"

	"github.com/gin-gonic/gin"
)

type ReconcileHandler struct{ svc service.ReconcileService }

func NewReconcileHandler(svc service.ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{svc: svc}
}

// Preview godoc
// @Summary      Preview a sales batch
// @Description  Resolves each sale record to base-ingredient deductions and prices it. Read-only: nothing is deducted.
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        body body dto.PreviewRequest true "Sale records"
// @Success      200  {object} dto.PreviewResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/reconciliation/preview [post]
func (h *ReconcileHandler) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Preview(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("preview failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Commit godoc
// @Summary      Commit a sales batch
// @Description  Re-resolves the batch against live stock and applies all deductions, sale history and the audit event atomically.
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        body body dto.CommitRequest true "Sale records"
// @Success      200  {object} dto.CommitResponse
// @Failure      409  {object} apierror.APIError "another commit in progress; retry"
// @Failure      500  {object} apierror.APIError "commit failed, nothing was applied"
// @Router       /v1/reconciliation/commit [post]
func (h *ReconcileHandler) Commit(c *gin.Context) {
	var req dto.CommitRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Commit(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, infra.ErrCommitContention) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ImportCSV godoc
// @Summary      Parse a sales CSV
// @Description  Turns an uploaded CSV into structured sale records plus per-row rejects. Parsing only; nothing is previewed or committed.
// @Tags         reconciliation
// @Accept       mpfd
// @Produce      json
// @Param        file formData file true "CSV: product_name, quantity[, sale_price]"
// @Success      200  {object} dto.ImportResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/reconciliation/import [post]
func (h *ReconcileHandler) ImportCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("missing file upload"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("cannot open upload"))
		return
	}
	defer f.Close()

	records, rejected, err := service.ParseSalesCSV(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.ImportResponse{Records: records, Rejected: rejected})
}
