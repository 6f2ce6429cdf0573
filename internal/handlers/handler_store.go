package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
)

type storeAdminHandler struct {
	storeService portssvc.StoreAdminSvc
}

func newStoreAdminHandler(ss portssvc.StoreAdminSvc) *storeAdminHandler {
	return &storeAdminHandler{storeService: ss}
}

func registerStoreAdminRoutes(scoped *gin.RouterGroup, ss portssvc.StoreAdminSvc) {
	h := newStoreAdminHandler(ss)

	stores := scoped.Group("/stores")
	{
		stores.POST("", h.createStore)
		stores.GET("", h.listStores)
		stores.GET("/:storeID", h.getStore)
		stores.PUT("/:storeID", h.updateStore)
		stores.POST("/:storeID/reset-password", h.resetPassword)
	}
	scoped.GET("/external-invoices", h.listExternalInvoices)
}

// createStore godoc
// @Summary Register an external store
// @Description Creates a partner store with portal credentials. The login code is unique across companies.
// @Tags stores
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param store body dto.CreateStoreRequest true "Store"
// @Success 201 {object} domain.ExternalStore
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/stores [post]
func (h *storeAdminHandler) createStore(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	store, err := h.storeService.CreateStore(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("code", req.Code)), err, "Failed to create store")
		return
	}

	logger.Info("External store created", slog.String("store_id", store.StoreID))
	c.JSON(http.StatusCreated, store)
}

// listStores godoc
// @Summary List external stores
// @Tags stores
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {array} domain.ExternalStore
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/stores [get]
func (h *storeAdminHandler) listStores(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	stores, err := h.storeService.ListStores(c.Request.Context(), companyID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list stores")
		return
	}
	c.JSON(http.StatusOK, stores)
}

// getStore godoc
// @Summary Get an external store
// @Tags stores
// @Produce json
// @Param companyID path string true "Company ID"
// @Param storeID path string true "Store ID"
// @Success 200 {object} domain.ExternalStore
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/stores/{storeID} [get]
func (h *storeAdminHandler) getStore(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	storeID := c.Param("storeID")

	store, err := h.storeService.GetStore(c.Request.Context(), companyID, storeID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("store_id", storeID)), err, "Failed to get store")
		return
	}
	c.JSON(http.StatusOK, store)
}

// updateStore godoc
// @Summary Update an external store
// @Tags stores
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param storeID path string true "Store ID"
// @Param store body dto.UpdateStoreRequest true "Fields to update"
// @Success 200 {object} domain.ExternalStore
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/stores/{storeID} [put]
func (h *storeAdminHandler) updateStore(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	storeID := c.Param("storeID")

	var req dto.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	store, err := h.storeService.UpdateStore(c.Request.Context(), companyID, storeID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("store_id", storeID)), err, "Failed to update store")
		return
	}
	c.JSON(http.StatusOK, store)
}

// resetPassword godoc
// @Summary Reset a store's portal password
// @Tags stores
// @Accept json
// @Param companyID path string true "Company ID"
// @Param storeID path string true "Store ID"
// @Param password body dto.ResetStorePasswordRequest true "New password"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/stores/{storeID}/reset-password [post]
func (h *storeAdminHandler) resetPassword(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	storeID := c.Param("storeID")
	logger = logger.With(slog.String("store_id", storeID))

	var req dto.ResetStorePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	if err := h.storeService.ResetStorePassword(c.Request.Context(), companyID, storeID, req, userID); err != nil {
		respondError(c, logger, err, "Failed to reset store password")
		return
	}

	logger.Info("Store password reset")
	c.Status(http.StatusNoContent)
}

// listExternalInvoices godoc
// @Summary List invoices submitted by external stores
// @Tags stores
// @Produce json
// @Param companyID path string true "Company ID"
// @Param status query string false "Status"
// @Param storeID query string false "Store ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.PageResponse[domain.ProvisionalSale]
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/external-invoices [get]
func (h *storeAdminHandler) listExternalInvoices(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var params dto.ListProvisionalParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	invoices, next, err := h.storeService.ListExternalInvoices(c.Request.Context(), companyID, params, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list external invoices")
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(invoices, next))
}
