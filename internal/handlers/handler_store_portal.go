package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/ceramica/erp_backend/internal/middleware"
)

// storePortalHandler serves the API used by partner stores. Callers are stores, never staff users.
type storePortalHandler struct {
	portalService portssvc.StorePortalSvc
}

func newStorePortalHandler(ps portssvc.StorePortalSvc) *storePortalHandler {
	return &storePortalHandler{portalService: ps}
}

func registerStorePortalRoutes(r *gin.Engine, jwtSecret string, ps portssvc.StorePortalSvc, loginLimit gin.HandlerFunc) {
	h := newStorePortalHandler(ps)

	portal := r.Group("/api/v1/store-portal")
	portal.POST("/auth/login", loginLimit, h.login)

	authed := portal.Group("", middleware.StoreAuthMiddleware(jwtSecret))
	{
		authed.GET("/me", h.me)
		authed.GET("/products", h.catalog)
		authed.POST("/invoices", h.submitInvoice)
		authed.GET("/invoices", h.listInvoices)
		authed.GET("/invoices/:provisionalSaleID", h.getInvoice)
	}
}

// portalScope resolves the logger and the authenticated store, writing a 401 when missing.
func portalScope(c *gin.Context) (logger *slog.Logger, storeID, companyID string, ok bool) {
	logger = middleware.GetLoggerFromCtx(c.Request.Context())
	storeID, companyID, ok = middleware.GetStoreFromContext(c)
	if !ok {
		logger.Error("Store not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "يجب تسجيل الدخول أولاً"})
	}
	return logger, storeID, companyID, ok
}

// login godoc
// @Summary Store portal login
// @Description Authenticates an external store by its code and password.
// @Tags store-portal
// @Accept json
// @Produce json
// @Param login body dto.StoreLoginRequest true "Store credentials"
// @Success 200 {object} dto.StoreLoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /store-portal/auth/login [post]
func (h *storePortalHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.StoreLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	resp, err := h.portalService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger.With(slog.String("code", req.Code)), err, "Store login failed")
		return
	}

	logger.Info("Store logged in", slog.String("store_id", resp.Store.StoreID))
	c.JSON(http.StatusOK, resp)
}

// me godoc
// @Summary Current store
// @Tags store-portal
// @Produce json
// @Success 200 {object} domain.ExternalStore
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /store-portal/me [get]
func (h *storePortalHandler) me(c *gin.Context) {
	logger, storeID, companyID, ok := portalScope(c)
	if !ok {
		return
	}

	store, err := h.portalService.GetPortalStore(c.Request.Context(), companyID, storeID)
	if err != nil {
		respondError(c, logger, err, "Failed to load store")
		return
	}
	c.JSON(http.StatusOK, store)
}

// catalog godoc
// @Summary Product catalogue
// @Description Lists the active products of the store's company with sale prices and an availability flag.
// @Tags store-portal
// @Produce json
// @Success 200 {array} domain.CatalogItem
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /store-portal/products [get]
func (h *storePortalHandler) catalog(c *gin.Context) {
	logger, storeID, companyID, ok := portalScope(c)
	if !ok {
		return
	}

	items, err := h.portalService.Catalog(c.Request.Context(), companyID, storeID)
	if err != nil {
		respondError(c, logger, err, "Failed to load catalogue")
		return
	}
	c.JSON(http.StatusOK, items)
}

// submitInvoice godoc
// @Summary Submit an invoice
// @Description Creates a PENDING provisional sale priced from the catalogue.
// @Tags store-portal
// @Accept json
// @Produce json
// @Param invoice body dto.StoreInvoiceRequest true "Invoice"
// @Success 201 {object} domain.ProvisionalSale
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /store-portal/invoices [post]
func (h *storePortalHandler) submitInvoice(c *gin.Context) {
	logger, storeID, companyID, ok := portalScope(c)
	if !ok {
		return
	}

	var req dto.StoreInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	ps, err := h.portalService.SubmitInvoice(c.Request.Context(), companyID, storeID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to submit store invoice")
		return
	}

	logger.Info("Store invoice submitted", slog.String("provisional_sale_id", ps.ProvisionalSaleID))
	c.JSON(http.StatusCreated, ps)
}

// listInvoices godoc
// @Summary List my invoices
// @Tags store-portal
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.PageResponse[domain.ProvisionalSale]
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /store-portal/invoices [get]
func (h *storePortalHandler) listInvoices(c *gin.Context) {
	logger, storeID, companyID, ok := portalScope(c)
	if !ok {
		return
	}

	var params dto.CursorParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	invoices, next, err := h.portalService.ListStoreInvoices(c.Request.Context(), companyID, storeID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list store invoices")
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(invoices, next))
}

// getInvoice godoc
// @Summary Get one of my invoices
// @Description Invoices of other stores are reported as not found.
// @Tags store-portal
// @Produce json
// @Param provisionalSaleID path string true "Invoice ID"
// @Success 200 {object} domain.ProvisionalSale
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /store-portal/invoices/{provisionalSaleID} [get]
func (h *storePortalHandler) getInvoice(c *gin.Context) {
	logger, storeID, companyID, ok := portalScope(c)
	if !ok {
		return
	}
	id := c.Param("provisionalSaleID")

	ps, err := h.portalService.GetStoreInvoice(c.Request.Context(), companyID, storeID, id)
	if err != nil {
		respondError(c, logger.With(slog.String("provisional_sale_id", id)), err, "Failed to get store invoice")
		return
	}
	c.JSON(http.StatusOK, ps)
}
