package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
)

type partnerHandler struct {
	supplierService portssvc.SupplierSvcFacade
	contactService  portssvc.ContactSvcFacade
}

func newPartnerHandler(ss portssvc.SupplierSvcFacade, cs portssvc.ContactSvcFacade) *partnerHandler {
	return &partnerHandler{supplierService: ss, contactService: cs}
}

func registerPartnerRoutes(scoped *gin.RouterGroup, ss portssvc.SupplierSvcFacade, cs portssvc.ContactSvcFacade) {
	h := newPartnerHandler(ss, cs)

	suppliers := scoped.Group("/suppliers")
	{
		suppliers.POST("", h.createSupplier)
		suppliers.GET("", h.listSuppliers)
		suppliers.GET("/:supplierID", h.getSupplier)
		suppliers.PUT("/:supplierID", h.updateSupplier)
		suppliers.POST("/:supplierID/payments", h.recordPayment)
		suppliers.GET("/:supplierID/statement", h.getStatement)
	}

	contacts := scoped.Group("/contacts")
	{
		contacts.POST("", h.createContact)
		contacts.GET("", h.listContacts)
		contacts.GET("/:contactID", h.getContact)
		contacts.PUT("/:contactID", h.updateContact)
		contacts.POST("/:contactID/collections", h.recordCollection)
	}
}

// createSupplier godoc
// @Summary Create a supplier
// @Description A positive openingBalance is booked as a CREDIT entry (amount owed to the supplier).
// @Tags suppliers
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param supplier body dto.CreateSupplierRequest true "Supplier details"
// @Success 201 {object} domain.Supplier
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/suppliers [post]
func (h *partnerHandler) createSupplier(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create supplier")
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

// listSuppliers godoc
// @Summary List suppliers
// @Tags suppliers
// @Produce json
// @Param companyID path string true "Company ID"
// @Param search query string false "Name or phone fragment"
// @Param includeInactive query bool false "Include inactive suppliers"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} domain.Supplier
// @Security BearerAuth
// @Router /companies/{companyID}/suppliers [get]
func (h *partnerHandler) listSuppliers(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var params dto.ListPartnersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	suppliers, err := h.supplierService.ListSuppliers(c.Request.Context(), companyID, params, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list suppliers")
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// getSupplier godoc
// @Summary Get a supplier
// @Tags suppliers
// @Produce json
// @Param companyID path string true "Company ID"
// @Param supplierID path string true "Supplier ID"
// @Success 200 {object} domain.Supplier
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/suppliers/{supplierID} [get]
func (h *partnerHandler) getSupplier(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	supplierID := c.Param("supplierID")

	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), companyID, supplierID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("supplier_id", supplierID)), err, "Failed to get supplier")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// updateSupplier godoc
// @Summary Update a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param supplierID path string true "Supplier ID"
// @Param supplier body dto.UpdateSupplierRequest true "Fields to update"
// @Success 200 {object} domain.Supplier
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/suppliers/{supplierID} [put]
func (h *partnerHandler) updateSupplier(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	supplierID := c.Param("supplierID")

	var req dto.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), companyID, supplierID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("supplier_id", supplierID)), err, "Failed to update supplier")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// recordPayment godoc
// @Summary Pay a supplier
// @Description Books a DEBIT entry on the supplier account and withdraws the amount from a treasury.
// @Tags suppliers
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param supplierID path string true "Supplier ID"
// @Param payment body dto.CashSettlementRequest true "Payment"
// @Success 201 {object} domain.SupplierAccountEntry
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/suppliers/{supplierID}/payments [post]
func (h *partnerHandler) recordPayment(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	supplierID := c.Param("supplierID")
	logger = logger.With(slog.String("supplier_id", supplierID))

	var req dto.CashSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	entry, err := h.supplierService.RecordPayment(c.Request.Context(), companyID, supplierID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("treasury_id", req.TreasuryID)), err, "Failed to record supplier payment")
		return
	}

	logger.Info("Supplier payment recorded", slog.String("amount", req.Amount.String()))
	c.JSON(http.StatusCreated, entry)
}

// getStatement godoc
// @Summary Supplier statement
// @Description Lists the supplier account entries, newest first.
// @Tags suppliers
// @Produce json
// @Param companyID path string true "Company ID"
// @Param supplierID path string true "Supplier ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.PageResponse[domain.SupplierAccountEntry]
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/suppliers/{supplierID}/statement [get]
func (h *partnerHandler) getStatement(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	supplierID := c.Param("supplierID")

	var params dto.CursorParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	entries, next, err := h.supplierService.GetStatement(c.Request.Context(), companyID, supplierID, params, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("supplier_id", supplierID)), err, "Failed to get supplier statement")
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(entries, next))
}

// createContact godoc
// @Summary Create a financial contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param contact body dto.CreateContactRequest true "Contact details"
// @Success 201 {object} domain.FinancialContact
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/contacts [post]
func (h *partnerHandler) createContact(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create contact")
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// listContacts godoc
// @Summary List financial contacts
// @Tags contacts
// @Produce json
// @Param companyID path string true "Company ID"
// @Param search query string false "Name or phone fragment"
// @Param type query string false "CUSTOMER or OTHER"
// @Param includeInactive query bool false "Include inactive contacts"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} domain.FinancialContact
// @Security BearerAuth
// @Router /companies/{companyID}/contacts [get]
func (h *partnerHandler) listContacts(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var params dto.ListPartnersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	contacts, err := h.contactService.ListContacts(c.Request.Context(), companyID, params, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list contacts")
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// getContact godoc
// @Summary Get a financial contact
// @Tags contacts
// @Produce json
// @Param companyID path string true "Company ID"
// @Param contactID path string true "Contact ID"
// @Success 200 {object} domain.FinancialContact
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/contacts/{contactID} [get]
func (h *partnerHandler) getContact(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	contactID := c.Param("contactID")

	contact, err := h.contactService.GetContact(c.Request.Context(), companyID, contactID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("contact_id", contactID)), err, "Failed to get contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

// updateContact godoc
// @Summary Update a financial contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param contactID path string true "Contact ID"
// @Param contact body dto.UpdateContactRequest true "Fields to update"
// @Success 200 {object} domain.FinancialContact
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/contacts/{contactID} [put]
func (h *partnerHandler) updateContact(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	contactID := c.Param("contactID")

	var req dto.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), companyID, contactID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("contact_id", contactID)), err, "Failed to update contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

// recordCollection godoc
// @Summary Collect from a contact
// @Description Reduces the contact balance and deposits the amount into a treasury. Amounts above the balance are rejected.
// @Tags contacts
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param contactID path string true "Contact ID"
// @Param collection body dto.CashSettlementRequest true "Collection"
// @Success 201 {object} domain.FinancialContact
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/contacts/{contactID}/collections [post]
func (h *partnerHandler) recordCollection(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}
	contactID := c.Param("contactID")
	logger = logger.With(slog.String("contact_id", contactID))

	var req dto.CashSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	contact, err := h.contactService.RecordCollection(c.Request.Context(), companyID, contactID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record collection")
		return
	}

	logger.Info("Collection recorded", slog.String("amount", req.Amount.String()))
	c.JSON(http.StatusCreated, contact)
}
