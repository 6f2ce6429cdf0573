package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceramica/erp_backend/internal/core/domain"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
)

type provisionalSaleHandler struct {
	provisionalService portssvc.ProvisionalSaleSvcFacade
}

func newProvisionalSaleHandler(ps portssvc.ProvisionalSaleSvcFacade) *provisionalSaleHandler {
	return &provisionalSaleHandler{provisionalService: ps}
}

func registerProvisionalSaleRoutes(scoped *gin.RouterGroup, ps portssvc.ProvisionalSaleSvcFacade) {
	h := newProvisionalSaleHandler(ps)

	provisional := scoped.Group("/provisional-sales")
	{
		provisional.POST("", h.create)
		provisional.GET("", h.list)
		provisional.GET("/:provisionalSaleID", h.get)
		provisional.PUT("/:provisionalSaleID", h.update)
		provisional.POST("/:provisionalSaleID/submit", h.submit)
		provisional.POST("/:provisionalSaleID/approve", h.approve)
		provisional.POST("/:provisionalSaleID/convert", h.convert)
		provisional.POST("/:provisionalSaleID/cancel", h.cancel)
	}
}

// create godoc
// @Summary Create a provisional sale
// @Description Creates a quotation as DRAFT, or directly as PENDING when submit is true.
// @Tags provisional-sales
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param provisionalSale body dto.ProvisionalSaleRequest true "Provisional sale"
// @Success 201 {object} domain.ProvisionalSale
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/provisional-sales [post]
func (h *provisionalSaleHandler) create(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.ProvisionalSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	ps, err := h.provisionalService.CreateProvisionalSale(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create provisional sale")
		return
	}

	logger.Info("Provisional sale created", slog.String("provisional_sale_id", ps.ProvisionalSaleID), slog.String("status", string(ps.Status)))
	c.JSON(http.StatusCreated, ps)
}

// list godoc
// @Summary List provisional sales
// @Tags provisional-sales
// @Produce json
// @Param companyID path string true "Company ID"
// @Param status query string false "DRAFT, PENDING, APPROVED, CONVERTED or CANCELLED"
// @Param source query string false "INTERNAL or EXTERNAL_STORE"
// @Param storeID query string false "External store ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.PageResponse[domain.ProvisionalSale]
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/provisional-sales [get]
func (h *provisionalSaleHandler) list(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var params dto.ListProvisionalParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	items, next, err := h.provisionalService.ListProvisionalSales(c.Request.Context(), companyID, params, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list provisional sales")
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(items, next))
}

// get godoc
// @Summary Get a provisional sale
// @Tags provisional-sales
// @Produce json
// @Param companyID path string true "Company ID"
// @Param provisionalSaleID path string true "Provisional sale ID"
// @Success 200 {object} domain.ProvisionalSale
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/provisional-sales/{provisionalSaleID} [get]
func (h *provisionalSaleHandler) get(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id := c.Param("provisionalSaleID")

	ps, err := h.provisionalService.GetProvisionalSale(c.Request.Context(), companyID, id, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("provisional_sale_id", id)), err, "Failed to get provisional sale")
		return
	}
	c.JSON(http.StatusOK, ps)
}

// update godoc
// @Summary Update a provisional sale
// @Description Only DRAFT and PENDING provisional sales can be edited.
// @Tags provisional-sales
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param provisionalSaleID path string true "Provisional sale ID"
// @Param provisionalSale body dto.ProvisionalSaleRequest true "Provisional sale"
// @Success 200 {object} domain.ProvisionalSale
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/provisional-sales/{provisionalSaleID} [put]
func (h *provisionalSaleHandler) update(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id := c.Param("provisionalSaleID")

	var req dto.ProvisionalSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	ps, err := h.provisionalService.UpdateProvisionalSale(c.Request.Context(), companyID, id, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("provisional_sale_id", id)), err, "Failed to update provisional sale")
		return
	}
	c.JSON(http.StatusOK, ps)
}

// submit godoc
// @Summary Submit a provisional sale
// @Tags provisional-sales
// @Produce json
// @Param companyID path string true "Company ID"
// @Param provisionalSaleID path string true "Provisional sale ID"
// @Success 200 {object} domain.ProvisionalSale
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/provisional-sales/{provisionalSaleID}/submit [post]
func (h *provisionalSaleHandler) submit(c *gin.Context) {
	h.transition(c, "submit", h.provisionalService.SubmitProvisionalSale)
}

// approve godoc
// @Summary Approve a provisional sale
// @Tags provisional-sales
// @Produce json
// @Param companyID path string true "Company ID"
// @Param provisionalSaleID path string true "Provisional sale ID"
// @Success 200 {object} domain.ProvisionalSale
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/provisional-sales/{provisionalSaleID}/approve [post]
func (h *provisionalSaleHandler) approve(c *gin.Context) {
	h.transition(c, "approve", h.provisionalService.ApproveProvisionalSale)
}

// cancel godoc
// @Summary Cancel a provisional sale
// @Tags provisional-sales
// @Produce json
// @Param companyID path string true "Company ID"
// @Param provisionalSaleID path string true "Provisional sale ID"
// @Success 200 {object} domain.ProvisionalSale
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/provisional-sales/{provisionalSaleID}/cancel [post]
func (h *provisionalSaleHandler) cancel(c *gin.Context) {
	h.transition(c, "cancel", h.provisionalService.CancelProvisionalSale)
}

type provisionalTransition func(ctx context.Context, companyID, provisionalSaleID, userID string) (*domain.ProvisionalSale, error)

func (h *provisionalSaleHandler) transition(c *gin.Context, action string, apply provisionalTransition) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id := c.Param("provisionalSaleID")
	logger = logger.With(slog.String("provisional_sale_id", id), slog.String("action", action))

	ps, err := apply(c.Request.Context(), companyID, id, userID)
	if err != nil {
		respondError(c, logger, err, "Provisional sale transition failed")
		return
	}

	logger.Info("Provisional sale transitioned", slog.String("status", string(ps.Status)))
	c.JSON(http.StatusOK, ps)
}

// convert godoc
// @Summary Convert to a sale
// @Description Creates a DRAFT sale from a PENDING or APPROVED provisional sale and links both documents.
// @Tags provisional-sales
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param provisionalSaleID path string true "Provisional sale ID"
// @Param convert body dto.ConvertProvisionalRequest false "Payment details for the new sale"
// @Success 201 {object} dto.ConvertProvisionalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/provisional-sales/{provisionalSaleID}/convert [post]
func (h *provisionalSaleHandler) convert(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id := c.Param("provisionalSaleID")
	logger = logger.With(slog.String("provisional_sale_id", id))

	var req dto.ConvertProvisionalRequest
	if err := c.ShouldBindJSON(&req); err != nil && !isEmptyBody(err) {
		respondBindError(c, logger, err)
		return
	}

	ps, sale, err := h.provisionalService.ConvertToSale(c.Request.Context(), companyID, id, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to convert provisional sale")
		return
	}

	logger.Info("Provisional sale converted", slog.String("sale_id", sale.SaleID))
	c.JSON(http.StatusCreated, dto.ConvertProvisionalResponse{ProvisionalSale: ps, Sale: sale})
}
