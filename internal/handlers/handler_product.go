package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
)

type productHandler struct {
	productService portssvc.ProductSvcFacade
}

func newProductHandler(ps portssvc.ProductSvcFacade) *productHandler {
	return &productHandler{productService: ps}
}

func registerProductRoutes(scoped *gin.RouterGroup, ps portssvc.ProductSvcFacade) {
	h := newProductHandler(ps)

	products := scoped.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/:productID", h.getProduct)
		products.PUT("/:productID", h.updateProduct)
		products.POST("/:productID/adjustments", h.adjustStock)
		products.GET("/:productID/movements", h.listStockMovements)
	}
}

// createProduct godoc
// @Summary Create a product
// @Description Creates a product. A positive openingStock is recorded as an OPENING stock movement.
// @Tags products
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} domain.Product
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/products [post]
func (h *productHandler) createProduct(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("sku", req.SKU)), err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// listProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param companyID path string true "Company ID"
// @Param search query string false "Name or SKU fragment"
// @Param category query string false "Category"
// @Param lowStock query bool false "Only products at or below their minimum stock"
// @Param includeInactive query bool false "Include inactive products"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} domain.Product
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/products [get]
func (h *productHandler) listProducts(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var params dto.ListProductsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	products, err := h.productService.ListProducts(c.Request.Context(), companyID, params, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// getProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param companyID path string true "Company ID"
// @Param productID path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/products/{productID} [get]
func (h *productHandler) getProduct(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	productID := c.Param("productID")

	product, err := h.productService.GetProduct(c.Request.Context(), companyID, productID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("product_id", productID)), err, "Failed to get product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// updateProduct godoc
// @Summary Update a product
// @Description Updates descriptive fields and prices. Stock only changes through movements.
// @Tags products
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param productID path string true "Product ID"
// @Param product body dto.UpdateProductRequest true "Fields to update"
// @Success 200 {object} domain.Product
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/products/{productID} [put]
func (h *productHandler) updateProduct(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	productID := c.Param("productID")

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), companyID, productID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("product_id", productID)), err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// adjustStock godoc
// @Summary Adjust stock
// @Description Applies a signed manual correction. Stock can never go below zero.
// @Tags products
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param productID path string true "Product ID"
// @Param adjustment body dto.StockAdjustmentRequest true "Signed quantity and reason"
// @Success 201 {object} domain.StockMovement
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/products/{productID}/adjustments [post]
func (h *productHandler) adjustStock(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	productID := c.Param("productID")
	logger = logger.With(slog.String("product_id", productID))

	var req dto.StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	movement, err := h.productService.AdjustStock(c.Request.Context(), companyID, productID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to adjust stock")
		return
	}

	logger.Info("Stock adjusted", slog.String("quantity", req.Quantity.String()), slog.String("balance_after", movement.BalanceAfter.String()))
	c.JSON(http.StatusCreated, movement)
}

// listStockMovements godoc
// @Summary List stock movements
// @Tags products
// @Produce json
// @Param companyID path string true "Company ID"
// @Param productID path string true "Product ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.PageResponse[domain.StockMovement]
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/products/{productID}/movements [get]
func (h *productHandler) listStockMovements(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	productID := c.Param("productID")

	var params dto.CursorParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	movements, next, err := h.productService.ListStockMovements(c.Request.Context(), companyID, productID, params, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("product_id", productID)), err, "Failed to list stock movements")
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(movements, next))
}
