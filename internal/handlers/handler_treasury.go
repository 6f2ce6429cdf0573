package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
)

type treasuryHandler struct {
	treasuryService portssvc.TreasurySvcFacade
}

func newTreasuryHandler(ts portssvc.TreasurySvcFacade) *treasuryHandler {
	return &treasuryHandler{treasuryService: ts}
}

func registerTreasuryRoutes(scoped *gin.RouterGroup, ts portssvc.TreasurySvcFacade) {
	h := newTreasuryHandler(ts)

	treasuries := scoped.Group("/treasuries")
	{
		treasuries.POST("", h.createTreasury)
		treasuries.GET("", h.listTreasuries)
		treasuries.POST("/transfer", h.transfer)
		treasuries.GET("/:treasuryID", h.getTreasury)
		treasuries.PUT("/:treasuryID", h.updateTreasury)
		treasuries.POST("/:treasuryID/deposit", h.deposit)
		treasuries.POST("/:treasuryID/withdraw", h.withdraw)
		treasuries.GET("/:treasuryID/movements", h.listMovements)
	}
}

// createTreasury godoc
// @Summary Create a treasury
// @Tags treasuries
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param treasury body dto.CreateTreasuryRequest true "Treasury details"
// @Success 201 {object} domain.Treasury
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/treasuries [post]
func (h *treasuryHandler) createTreasury(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.CreateTreasuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	treasury, err := h.treasuryService.CreateTreasury(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create treasury")
		return
	}
	c.JSON(http.StatusCreated, treasury)
}

// listTreasuries godoc
// @Summary List treasuries
// @Tags treasuries
// @Produce json
// @Param companyID path string true "Company ID"
// @Param includeInactive query bool false "Include inactive treasuries"
// @Success 200 {array} domain.Treasury
// @Security BearerAuth
// @Router /companies/{companyID}/treasuries [get]
func (h *treasuryHandler) listTreasuries(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	includeInactive, _ := strconv.ParseBool(c.Query("includeInactive"))

	treasuries, err := h.treasuryService.ListTreasuries(c.Request.Context(), companyID, includeInactive, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list treasuries")
		return
	}
	c.JSON(http.StatusOK, treasuries)
}

// getTreasury godoc
// @Summary Get a treasury
// @Tags treasuries
// @Produce json
// @Param companyID path string true "Company ID"
// @Param treasuryID path string true "Treasury ID"
// @Success 200 {object} domain.Treasury
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/treasuries/{treasuryID} [get]
func (h *treasuryHandler) getTreasury(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	treasuryID := c.Param("treasuryID")

	treasury, err := h.treasuryService.GetTreasury(c.Request.Context(), companyID, treasuryID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("treasury_id", treasuryID)), err, "Failed to get treasury")
		return
	}
	c.JSON(http.StatusOK, treasury)
}

// updateTreasury godoc
// @Summary Update a treasury
// @Tags treasuries
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param treasuryID path string true "Treasury ID"
// @Param treasury body dto.UpdateTreasuryRequest true "Fields to update"
// @Success 200 {object} domain.Treasury
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/treasuries/{treasuryID} [put]
func (h *treasuryHandler) updateTreasury(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	treasuryID := c.Param("treasuryID")

	var req dto.UpdateTreasuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	treasury, err := h.treasuryService.UpdateTreasury(c.Request.Context(), companyID, treasuryID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("treasury_id", treasuryID)), err, "Failed to update treasury")
		return
	}
	c.JSON(http.StatusOK, treasury)
}

// deposit godoc
// @Summary Deposit cash
// @Tags treasuries
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param treasuryID path string true "Treasury ID"
// @Param movement body dto.TreasuryMovementRequest true "Amount and notes"
// @Success 201 {object} domain.TreasuryMovement
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/treasuries/{treasuryID}/deposit [post]
func (h *treasuryHandler) deposit(c *gin.Context) {
	h.move(c, true)
}

// withdraw godoc
// @Summary Withdraw cash
// @Description Fails with 422 when the treasury balance is insufficient.
// @Tags treasuries
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param treasuryID path string true "Treasury ID"
// @Param movement body dto.TreasuryMovementRequest true "Amount and notes"
// @Success 201 {object} domain.TreasuryMovement
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/treasuries/{treasuryID}/withdraw [post]
func (h *treasuryHandler) withdraw(c *gin.Context) {
	h.move(c, false)
}

func (h *treasuryHandler) move(c *gin.Context, isDeposit bool) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	treasuryID := c.Param("treasuryID")
	logger = logger.With(slog.String("treasury_id", treasuryID), slog.Bool("deposit", isDeposit))

	var req dto.TreasuryMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	record := h.treasuryService.Withdraw
	if isDeposit {
		record = h.treasuryService.Deposit
	}
	movement, err := record(c.Request.Context(), companyID, treasuryID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record treasury movement")
		return
	}

	logger.Info("Treasury movement recorded", slog.String("amount", req.Amount.String()))
	c.JSON(http.StatusCreated, movement)
}

// transfer godoc
// @Summary Transfer between treasuries
// @Description Moves cash between two treasuries of the same company in one transaction.
// @Tags treasuries
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param transfer body dto.TransferRequest true "Transfer"
// @Success 201 {array} domain.TreasuryMovement
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/treasuries/transfer [post]
func (h *treasuryHandler) transfer(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	logger = logger.With(slog.String("from_treasury_id", req.FromTreasuryID), slog.String("to_treasury_id", req.ToTreasuryID))

	movements, err := h.treasuryService.Transfer(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to transfer between treasuries")
		return
	}
	c.JSON(http.StatusCreated, movements)
}

// listMovements godoc
// @Summary List treasury movements
// @Tags treasuries
// @Produce json
// @Param companyID path string true "Company ID"
// @Param treasuryID path string true "Treasury ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.PageResponse[domain.TreasuryMovement]
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/treasuries/{treasuryID}/movements [get]
func (h *treasuryHandler) listMovements(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	treasuryID := c.Param("treasuryID")

	var params dto.CursorParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	movements, next, err := h.treasuryService.ListTreasuryMovements(c.Request.Context(), companyID, treasuryID, params, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("treasury_id", treasuryID)), err, "Failed to list treasury movements")
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(movements, next))
}
