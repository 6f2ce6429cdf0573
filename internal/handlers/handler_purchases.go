package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
)

type purchaseHandler struct {
	purchaseService portssvc.PurchaseSvcFacade
}

func newPurchaseHandler(ps portssvc.PurchaseSvcFacade) *purchaseHandler {
	return &purchaseHandler{purchaseService: ps}
}

func registerPurchaseRoutes(scoped *gin.RouterGroup, ps portssvc.PurchaseSvcFacade) {
	h := newPurchaseHandler(ps)

	purchases := scoped.Group("/purchases")
	{
		purchases.POST("", h.createPurchase)
		purchases.GET("", h.listPurchases)
		purchases.GET("/:purchaseID", h.getPurchase)
		purchases.PUT("/:purchaseID", h.updatePurchase)
		purchases.DELETE("/:purchaseID", h.deletePurchase)
		purchases.POST("/:purchaseID/approve", h.approvePurchase)
		purchases.POST("/:purchaseID/cancel", h.cancelPurchase)
	}
}

// createPurchase godoc
// @Summary Create a draft purchase
// @Tags purchases
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param purchase body dto.PurchaseRequest true "Purchase"
// @Success 201 {object} domain.Purchase
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/purchases [post]
func (h *purchaseHandler) createPurchase(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("supplier_id", req.SupplierID)), err, "Failed to create purchase")
		return
	}

	logger.Info("Purchase created", slog.String("purchase_id", purchase.PurchaseID), slog.String("invoice_number", purchase.InvoiceNumber))
	c.JSON(http.StatusCreated, purchase)
}

// listPurchases godoc
// @Summary List purchases
// @Tags purchases
// @Produce json
// @Param companyID path string true "Company ID"
// @Param status query string false "DRAFT, APPROVED or CANCELLED"
// @Param from query string false "First invoice date"
// @Param to query string false "Last invoice date"
// @Param supplierID query string false "Supplier ID"
// @Param search query string false "Invoice number or supplier reference fragment"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.PageResponse[domain.Purchase]
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/purchases [get]
func (h *purchaseHandler) listPurchases(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	purchases, next, err := h.purchaseService.ListPurchases(c.Request.Context(), companyID, params, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list purchases")
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(purchases, next))
}

// getPurchase godoc
// @Summary Get a purchase
// @Tags purchases
// @Produce json
// @Param companyID path string true "Company ID"
// @Param purchaseID path string true "Purchase ID"
// @Success 200 {object} domain.Purchase
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/purchases/{purchaseID} [get]
func (h *purchaseHandler) getPurchase(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	purchaseID := c.Param("purchaseID")

	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), companyID, purchaseID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("purchase_id", purchaseID)), err, "Failed to get purchase")
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// updatePurchase godoc
// @Summary Update a draft purchase
// @Tags purchases
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param purchaseID path string true "Purchase ID"
// @Param purchase body dto.PurchaseRequest true "Purchase"
// @Success 200 {object} domain.Purchase
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/purchases/{purchaseID} [put]
func (h *purchaseHandler) updatePurchase(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	purchaseID := c.Param("purchaseID")

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	purchase, err := h.purchaseService.UpdatePurchase(c.Request.Context(), companyID, purchaseID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("purchase_id", purchaseID)), err, "Failed to update purchase")
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// deletePurchase godoc
// @Summary Delete a draft purchase
// @Tags purchases
// @Param companyID path string true "Company ID"
// @Param purchaseID path string true "Purchase ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/purchases/{purchaseID} [delete]
func (h *purchaseHandler) deletePurchase(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	purchaseID := c.Param("purchaseID")

	if err := h.purchaseService.DeletePurchase(c.Request.Context(), companyID, purchaseID, userID); err != nil {
		respondError(c, logger.With(slog.String("purchase_id", purchaseID)), err, "Failed to delete purchase")
		return
	}
	c.Status(http.StatusNoContent)
}

// approvePurchase godoc
// @Summary Approve a purchase
// @Description Receives stock at moving-average cost, books the supplier account and pays from a treasury.
// @Tags purchases
// @Produce json
// @Param companyID path string true "Company ID"
// @Param purchaseID path string true "Purchase ID"
// @Success 200 {object} domain.Purchase
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/purchases/{purchaseID}/approve [post]
func (h *purchaseHandler) approvePurchase(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	purchaseID := c.Param("purchaseID")
	logger = logger.With(slog.String("purchase_id", purchaseID))

	purchase, err := h.purchaseService.ApprovePurchase(c.Request.Context(), companyID, purchaseID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to approve purchase")
		return
	}

	logger.Info("Purchase approved", slog.String("total", purchase.Total.String()))
	c.JSON(http.StatusOK, purchase)
}

// cancelPurchase godoc
// @Summary Cancel a purchase
// @Description Cancels a DRAFT purchase, or reverses an APPROVED one. Product cost is not rewound.
// @Tags purchases
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param purchaseID path string true "Purchase ID"
// @Param cancel body dto.CancelDocumentRequest false "Reason"
// @Success 200 {object} domain.Purchase
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/purchases/{purchaseID}/cancel [post]
func (h *purchaseHandler) cancelPurchase(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	purchaseID := c.Param("purchaseID")
	logger = logger.With(slog.String("purchase_id", purchaseID))

	reason, err := bindCancelReason(c)
	if err != nil {
		respondBindError(c, logger, err)
		return
	}

	purchase, err := h.purchaseService.CancelPurchase(c.Request.Context(), companyID, purchaseID, reason, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to cancel purchase")
		return
	}

	logger.Info("Purchase cancelled")
	c.JSON(http.StatusOK, purchase)
}
