package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/ceramica/erp_backend/internal/utils/accounting"
	"github.com/google/uuid"
)

type contactService struct {
	BaseService
	contactRepo portsrepo.ContactRepositoryFacade
}

// NewContactService creates a new financial contact service with the provided options
func NewContactService(contactRepo portsrepo.ContactRepositoryFacade, options ...ServiceOption) portssvc.ContactSvcFacade {
	svc := &contactService{contactRepo: contactRepo}
	svc.apply(options)
	return svc
}

var _ portssvc.ContactSvcFacade = (*contactService)(nil)

func (s *contactService) CreateContact(ctx context.Context, companyID string, req dto.CreateContactRequest, userID string) (*domain.FinancialContact, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermContactsWrite); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("اسم العميل مطلوب")
	}
	contactType := req.ContactType
	if contactType == "" {
		contactType = domain.ContactCustomer
	}

	contact := domain.FinancialContact{
		ContactID:   uuid.NewString(),
		CompanyID:   companyID,
		Name:        name,
		Phone:       strings.TrimSpace(req.Phone),
		Address:     req.Address,
		ContactType: contactType,
		Notes:       req.Notes,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}
	if err := s.contactRepo.CreateContact(ctx, contact); err != nil {
		s.LogError(ctx, err, "Failed to create contact", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Contact created",
		slog.String("company_id", companyID),
		slog.String("contact_id", contact.ContactID))
	return &contact, nil
}

func (s *contactService) GetContact(ctx context.Context, companyID, contactID, userID string) (*domain.FinancialContact, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermContactsRead); err != nil {
		return nil, err
	}
	return s.contactRepo.FindContactByID(ctx, companyID, contactID)
}

func (s *contactService) ListContacts(ctx context.Context, companyID string, params dto.ListPartnersParams, userID string) ([]domain.FinancialContact, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermContactsRead); err != nil {
		return nil, err
	}
	limit, offset := normalizeOffsetLimit(params.Limit, params.Offset)
	filter := domain.ContactFilter{
		Search:          strings.TrimSpace(params.Search),
		ContactType:     params.Type,
		IncludeInactive: params.IncludeInactive,
	}
	return s.contactRepo.ListContacts(ctx, companyID, filter, limit, offset)
}

func (s *contactService) UpdateContact(ctx context.Context, companyID, contactID string, req dto.UpdateContactRequest, userID string) (*domain.FinancialContact, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermContactsWrite); err != nil {
		return nil, err
	}
	contact, err := s.contactRepo.FindContactByID(ctx, companyID, contactID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("اسم العميل مطلوب")
		}
		contact.Name = name
	}
	if req.Phone != nil {
		contact.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		contact.Address = *req.Address
	}
	if req.ContactType != nil {
		contact.ContactType = *req.ContactType
	}
	if req.Notes != nil {
		contact.Notes = *req.Notes
	}
	if req.IsActive != nil {
		contact.IsActive = *req.IsActive
	}
	contact.Touch(userID, s.now())

	if err := s.contactRepo.UpdateContact(ctx, *contact); err != nil {
		s.LogError(ctx, err, "Failed to update contact", slog.String("contact_id", contactID))
		return nil, err
	}
	return contact, nil
}

// RecordCollection lowers the customer balance and deposits the cash. Collecting more
// than the outstanding balance fails inside the repository transaction.
func (s *contactService) RecordCollection(ctx context.Context, companyID, contactID string, req dto.CashSettlementRequest, userID string) (*domain.FinancialContact, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermContactsCollect); err != nil {
		return nil, err
	}
	amount := accounting.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("المبلغ يجب أن يكون أكبر من صفر")
	}
	contact, err := s.contactRepo.FindContactByID(ctx, companyID, contactID)
	if err != nil {
		return nil, err
	}

	collectionID := uuid.NewString()
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		notes = "تحصيل من " + contact.Name
	}
	deposit := &domain.TreasuryMovement{
		MovementID:   uuid.NewString(),
		TreasuryID:   req.TreasuryID,
		CompanyID:    companyID,
		MovementType: domain.TreasuryDeposit,
		Amount:       amount,
		RefType:      domain.RefCollection,
		RefID:        &collectionID,
		Notes:        notes,
		CreatedAt:    s.now(),
		CreatedBy:    userID,
	}
	if err := s.contactRepo.RecordCollection(ctx, companyID, contactID, deposit); err != nil {
		s.LogError(ctx, err, "Failed to record collection",
			slog.String("contact_id", contactID),
			slog.String("treasury_id", req.TreasuryID))
		return nil, err
	}
	s.invalidateStats(ctx, companyID)

	s.LogInfo(ctx, "Collection recorded",
		slog.String("contact_id", contactID),
		slog.String("amount", amount.String()))
	return s.contactRepo.FindContactByID(ctx, companyID, contactID)
}
