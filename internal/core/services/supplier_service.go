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
	"github.com/ceramica/erp_backend/internal/utils/pagination"
	"github.com/google/uuid"
)

type supplierService struct {
	BaseService
	supplierRepo portsrepo.SupplierRepositoryFacade
}

// NewSupplierService creates a new supplier service with the provided options
func NewSupplierService(supplierRepo portsrepo.SupplierRepositoryFacade, options ...ServiceOption) portssvc.SupplierSvcFacade {
	svc := &supplierService{supplierRepo: supplierRepo}
	svc.apply(options)
	return svc
}

var _ portssvc.SupplierSvcFacade = (*supplierService)(nil)

// CreateSupplier records a positive opening balance as a CREDIT entry.
func (s *supplierService) CreateSupplier(ctx context.Context, companyID string, req dto.CreateSupplierRequest, userID string) (*domain.Supplier, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermSuppliersWrite); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("اسم المورد مطلوب")
	}
	if req.OpeningBalance.IsNegative() {
		return nil, apperrors.NewValidationFailedError("الرصيد الافتتاحي لا يمكن أن يكون سالباً")
	}

	now := s.now()
	supplier := domain.Supplier{
		SupplierID:  uuid.NewString(),
		CompanyID:   companyID,
		Name:        name,
		Phone:       strings.TrimSpace(req.Phone),
		Address:     req.Address,
		Notes:       req.Notes,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, now),
	}
	var opening *domain.SupplierAccountEntry
	if req.OpeningBalance.IsPositive() {
		opening = &domain.SupplierAccountEntry{
			EntryID:     uuid.NewString(),
			SupplierID:  supplier.SupplierID,
			CompanyID:   companyID,
			EntryType:   domain.Credit,
			Amount:      req.OpeningBalance,
			Description: "رصيد افتتاحي",
			RefType:     domain.RefOpening,
			CreatedAt:   now,
			CreatedBy:   userID,
		}
	}

	if err := s.supplierRepo.CreateSupplier(ctx, supplier, opening); err != nil {
		s.LogError(ctx, err, "Failed to create supplier", slog.String("company_id", companyID))
		return nil, err
	}
	supplier.Balance = req.OpeningBalance

	s.LogInfo(ctx, "Supplier created",
		slog.String("company_id", companyID),
		slog.String("supplier_id", supplier.SupplierID))
	return &supplier, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, companyID, supplierID, userID string) (*domain.Supplier, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermSuppliersRead); err != nil {
		return nil, err
	}
	return s.supplierRepo.FindSupplierByID(ctx, companyID, supplierID)
}

func (s *supplierService) ListSuppliers(ctx context.Context, companyID string, params dto.ListPartnersParams, userID string) ([]domain.Supplier, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermSuppliersRead); err != nil {
		return nil, err
	}
	limit, offset := normalizeOffsetLimit(params.Limit, params.Offset)
	return s.supplierRepo.ListSuppliers(ctx, companyID, strings.TrimSpace(params.Search), params.IncludeInactive, limit, offset)
}

func (s *supplierService) UpdateSupplier(ctx context.Context, companyID, supplierID string, req dto.UpdateSupplierRequest, userID string) (*domain.Supplier, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermSuppliersWrite); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindSupplierByID(ctx, companyID, supplierID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("اسم المورد مطلوب")
		}
		supplier.Name = name
	}
	if req.Phone != nil {
		supplier.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}
	supplier.Touch(userID, s.now())

	if err := s.supplierRepo.UpdateSupplier(ctx, *supplier); err != nil {
		s.LogError(ctx, err, "Failed to update supplier", slog.String("supplier_id", supplierID))
		return nil, err
	}
	return supplier, nil
}

// RecordPayment posts a DEBIT entry and withdraws the same amount from the treasury.
func (s *supplierService) RecordPayment(ctx context.Context, companyID, supplierID string, req dto.CashSettlementRequest, userID string) (*domain.SupplierAccountEntry, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermSuppliersPay); err != nil {
		return nil, err
	}
	amount := accounting.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("المبلغ يجب أن يكون أكبر من صفر")
	}
	supplier, err := s.supplierRepo.FindSupplierByID(ctx, companyID, supplierID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	paymentID := uuid.NewString()
	notes := strings.TrimSpace(req.Notes)
	description := "سداد للمورد " + supplier.Name
	if notes != "" {
		description = notes
	}
	entry := &domain.SupplierAccountEntry{
		EntryID:     paymentID,
		SupplierID:  supplierID,
		CompanyID:   companyID,
		EntryType:   domain.Debit,
		Amount:      amount,
		Description: description,
		RefType:     domain.RefSupplierPayment,
		RefID:       &paymentID,
		CreatedAt:   now,
		CreatedBy:   userID,
	}
	withdrawal := &domain.TreasuryMovement{
		MovementID:   uuid.NewString(),
		TreasuryID:   req.TreasuryID,
		CompanyID:    companyID,
		MovementType: domain.TreasuryWithdrawal,
		Amount:       amount,
		RefType:      domain.RefSupplierPayment,
		RefID:        &paymentID,
		Notes:        description,
		CreatedAt:    now,
		CreatedBy:    userID,
	}
	if err := s.supplierRepo.RecordPayment(ctx, entry, withdrawal); err != nil {
		s.LogError(ctx, err, "Failed to record supplier payment",
			slog.String("supplier_id", supplierID),
			slog.String("treasury_id", req.TreasuryID))
		return nil, err
	}
	s.invalidateStats(ctx, companyID)

	s.LogInfo(ctx, "Supplier payment recorded",
		slog.String("supplier_id", supplierID),
		slog.String("amount", amount.String()))
	return entry, nil
}

func (s *supplierService) GetStatement(ctx context.Context, companyID, supplierID string, params dto.CursorParams, userID string) ([]domain.SupplierAccountEntry, *string, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermSuppliersRead); err != nil {
		return nil, nil, err
	}
	if _, err := s.supplierRepo.FindSupplierByID(ctx, companyID, supplierID); err != nil {
		return nil, nil, err
	}
	return s.supplierRepo.ListSupplierEntries(ctx, companyID, supplierID, pagination.NormalizeLimit(params.Limit), params.NextToken)
}
