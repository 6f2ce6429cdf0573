package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
)

type saleHandler struct {
	saleService portssvc.SaleSvcFacade
}

func newSaleHandler(ss portssvc.SaleSvcFacade) *saleHandler {
	return &saleHandler{saleService: ss}
}

func registerSaleRoutes(scoped *gin.RouterGroup, ss portssvc.SaleSvcFacade) {
	h := newSaleHandler(ss)

	sales := scoped.Group("/sales")
	{
		sales.POST("", h.createSale)
		sales.GET("", h.listSales)
		sales.GET("/:saleID", h.getSale)
		sales.PUT("/:saleID", h.updateSale)
		sales.DELETE("/:saleID", h.deleteSale)
		sales.POST("/:saleID/approve", h.approveSale)
		sales.POST("/:saleID/cancel", h.cancelSale)
	}
}

// bindCancelReason accepts an empty body as "no reason".
func bindCancelReason(c *gin.Context) (string, error) {
	var req dto.CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !isEmptyBody(err) {
		return "", err
	}
	return req.Reason, nil
}

// createSale godoc
// @Summary Create a draft sale
// @Description Creates a DRAFT sale invoice and allocates its number (SAL-000001).
// @Tags sales
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param sale body dto.SaleRequest true "Sale"
// @Success 201 {object} domain.Sale
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/sales [post]
func (h *saleHandler) createSale(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create sale")
		return
	}

	logger.Info("Sale created", slog.String("sale_id", sale.SaleID), slog.String("invoice_number", sale.InvoiceNumber))
	c.JSON(http.StatusCreated, sale)
}

// listSales godoc
// @Summary List sales
// @Description Lists sales newest first by invoice date. Dates are inclusive YYYY-MM-DD.
// @Tags sales
// @Produce json
// @Param companyID path string true "Company ID"
// @Param status query string false "DRAFT, APPROVED or CANCELLED"
// @Param from query string false "First invoice date"
// @Param to query string false "Last invoice date"
// @Param contactID query string false "Contact ID"
// @Param search query string false "Invoice number or customer name fragment"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.PageResponse[domain.Sale]
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/sales [get]
func (h *saleHandler) listSales(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	sales, next, err := h.saleService.ListSales(c.Request.Context(), companyID, params, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list sales")
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(sales, next))
}

// getSale godoc
// @Summary Get a sale
// @Tags sales
// @Produce json
// @Param companyID path string true "Company ID"
// @Param saleID path string true "Sale ID"
// @Success 200 {object} domain.Sale
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/sales/{saleID} [get]
func (h *saleHandler) getSale(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	saleID := c.Param("saleID")

	sale, err := h.saleService.GetSale(c.Request.Context(), companyID, saleID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("sale_id", saleID)), err, "Failed to get sale")
		return
	}
	c.JSON(http.StatusOK, sale)
}

// updateSale godoc
// @Summary Update a draft sale
// @Description Replaces the header and every line of a DRAFT sale.
// @Tags sales
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param saleID path string true "Sale ID"
// @Param sale body dto.SaleRequest true "Sale"
// @Success 200 {object} domain.Sale
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/sales/{saleID} [put]
func (h *saleHandler) updateSale(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	saleID := c.Param("saleID")

	var req dto.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), companyID, saleID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("sale_id", saleID)), err, "Failed to update sale")
		return
	}
	c.JSON(http.StatusOK, sale)
}

// deleteSale godoc
// @Summary Delete a draft sale
// @Tags sales
// @Param companyID path string true "Company ID"
// @Param saleID path string true "Sale ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/sales/{saleID} [delete]
func (h *saleHandler) deleteSale(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	saleID := c.Param("saleID")

	if err := h.saleService.DeleteSale(c.Request.Context(), companyID, saleID, userID); err != nil {
		respondError(c, logger.With(slog.String("sale_id", saleID)), err, "Failed to delete sale")
		return
	}
	c.Status(http.StatusNoContent)
}

// approveSale godoc
// @Summary Approve a sale
// @Description Deducts stock, deposits the paid amount and books the remainder on the customer account.
// @Tags sales
// @Produce json
// @Param companyID path string true "Company ID"
// @Param saleID path string true "Sale ID"
// @Success 200 {object} domain.Sale
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/sales/{saleID}/approve [post]
func (h *saleHandler) approveSale(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	saleID := c.Param("saleID")
	logger = logger.With(slog.String("sale_id", saleID))

	sale, err := h.saleService.ApproveSale(c.Request.Context(), companyID, saleID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to approve sale")
		return
	}

	logger.Info("Sale approved", slog.String("total", sale.Total.String()))
	c.JSON(http.StatusOK, sale)
}

// cancelSale godoc
// @Summary Cancel a sale
// @Description Cancels a DRAFT sale, or reverses every effect of an APPROVED one.
// @Tags sales
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param saleID path string true "Sale ID"
// @Param cancel body dto.CancelDocumentRequest false "Reason"
// @Success 200 {object} domain.Sale
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/sales/{saleID}/cancel [post]
func (h *saleHandler) cancelSale(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	saleID := c.Param("saleID")
	logger = logger.With(slog.String("sale_id", saleID))

	reason, err := bindCancelReason(c)
	if err != nil {
		respondBindError(c, logger, err)
		return
	}

	sale, err := h.saleService.CancelSale(c.Request.Context(), companyID, saleID, reason, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to cancel sale")
		return
	}

	logger.Info("Sale cancelled")
	c.JSON(http.StatusOK, sale)
}
