package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceramica/erp_backend/internal/core/domain"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/ceramica/erp_backend/internal/middleware"
)

type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{companyService: cs}
}

// registerCompanyRoutes registers the company collection routes and the membership routes
// on the already scoped /companies/:companyID group.
func registerCompanyRoutes(companies *gin.RouterGroup, scoped *gin.RouterGroup, cs portssvc.CompanySvcFacade) {
	h := newCompanyHandler(cs)

	companies.POST("", h.createCompany)
	companies.GET("", h.listUserCompanies)

	scoped.GET("", h.getCompany)
	scoped.PUT("", h.updateCompany)
	scoped.POST("/deactivate", h.deactivateCompany)
	scoped.POST("/activate", h.activateCompany)

	members := scoped.Group("/members")
	{
		members.GET("", h.listMembers)
		members.POST("", h.addMember)
		members.PUT("/:userID", h.updateMemberRole)
		members.DELETE("/:userID", h.removeMember)
	}
}

// createCompany godoc
// @Summary Create a company
// @Description Creates a company. The caller becomes its first ADMIN.
// @Tags companies
// @Accept json
// @Produce json
// @Param company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} domain.Company
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create company")
		return
	}

	logger.Info("Company created", slog.String("company_id", company.CompanyID))
	c.JSON(http.StatusCreated, company)
}

// listUserCompanies godoc
// @Summary List my companies
// @Description Lists the companies the caller belongs to. Deactivated companies are hidden unless includeDisabled is set.
// @Tags companies
// @Produce json
// @Param includeDisabled query bool false "Include deactivated companies"
// @Success 200 {array} domain.Company
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [get]
func (h *companyHandler) listUserCompanies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	var params dto.ListCompaniesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	companies, err := h.companyService.ListUserCompanies(c.Request.Context(), userID, params.IncludeDisabled)
	if err != nil {
		respondError(c, logger, err, "Failed to list companies")
		return
	}
	c.JSON(http.StatusOK, companies)
}

// getCompany godoc
// @Summary Get a company
// @Tags companies
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {object} domain.Company
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	company, err := h.companyService.GetCompany(c.Request.Context(), companyID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to get company")
		return
	}
	c.JSON(http.StatusOK, company)
}

// updateCompany godoc
// @Summary Update a company
// @Tags companies
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param company body dto.UpdateCompanyRequest true "Fields to update"
// @Success 200 {object} domain.Company
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID} [put]
func (h *companyHandler) updateCompany(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update company")
		return
	}
	c.JSON(http.StatusOK, company)
}

// deactivateCompany godoc
// @Summary Deactivate a company
// @Description A deactivated company keeps its data readable but rejects every write.
// @Tags companies
// @Param companyID path string true "Company ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/deactivate [post]
func (h *companyHandler) deactivateCompany(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	if err := h.companyService.DeactivateCompany(c.Request.Context(), companyID, userID); err != nil {
		respondError(c, logger, err, "Failed to deactivate company")
		return
	}
	logger.Info("Company deactivated")
	c.Status(http.StatusNoContent)
}

// activateCompany godoc
// @Summary Activate a company
// @Tags companies
// @Param companyID path string true "Company ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/activate [post]
func (h *companyHandler) activateCompany(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	if err := h.companyService.ActivateCompany(c.Request.Context(), companyID, userID); err != nil {
		respondError(c, logger, err, "Failed to activate company")
		return
	}
	logger.Info("Company activated")
	c.Status(http.StatusNoContent)
}

// listMembers godoc
// @Summary List company members
// @Tags companies
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {array} dto.MemberResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/members [get]
func (h *companyHandler) listMembers(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	members, err := h.companyService.ListCompanyMembers(c.Request.Context(), companyID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponses(members))
}

// addMember godoc
// @Summary Add a member
// @Description Adds an existing user to the company by username. Removed members are readmitted.
// @Tags companies
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param member body dto.AddMemberRequest true "Member"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/members [post]
func (h *companyHandler) addMember(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	member, err := h.companyService.AddMember(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("username", req.Username)), err, "Failed to add member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemberResponses([]domain.UserCompany{*member})[0])
}

// updateMemberRole godoc
// @Summary Change a member's role
// @Description The last ADMIN of a company cannot be demoted.
// @Tags companies
// @Accept json
// @Param companyID path string true "Company ID"
// @Param userID path string true "Member user ID"
// @Param role body dto.UpdateMemberRoleRequest true "New role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/members/{userID} [put]
func (h *companyHandler) updateMemberRole(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	targetID := c.Param("userID")

	var req dto.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	if err := h.companyService.UpdateMemberRole(c.Request.Context(), companyID, targetID, req.Role, userID); err != nil {
		respondError(c, logger.With(slog.String("target_user_id", targetID)), err, "Failed to update member role")
		return
	}
	c.Status(http.StatusNoContent)
}

// removeMember godoc
// @Summary Remove a member
// @Description Marks the membership REMOVED. The last ADMIN cannot be removed.
// @Tags companies
// @Param companyID path string true "Company ID"
// @Param userID path string true "Member user ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/members/{userID} [delete]
func (h *companyHandler) removeMember(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	targetID := c.Param("userID")

	if err := h.companyService.RemoveMember(c.Request.Context(), companyID, targetID, userID); err != nil {
		respondError(c, logger.With(slog.String("target_user_id", targetID)), err, "Failed to remove member")
		return
	}
	c.Status(http.StatusNoContent)
}
