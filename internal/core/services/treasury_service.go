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

type treasuryService struct {
	BaseService
	treasuryRepo portsrepo.TreasuryRepositoryFacade
}

// NewTreasuryService creates a new treasury service with the provided options
func NewTreasuryService(treasuryRepo portsrepo.TreasuryRepositoryFacade, options ...ServiceOption) portssvc.TreasurySvcFacade {
	svc := &treasuryService{treasuryRepo: treasuryRepo}
	svc.apply(options)
	return svc
}

var _ portssvc.TreasurySvcFacade = (*treasuryService)(nil)

func (s *treasuryService) CreateTreasury(ctx context.Context, companyID string, req dto.CreateTreasuryRequest, userID string) (*domain.Treasury, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermTreasuryWrite); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("اسم الخزينة مطلوب")
	}
	if req.OpeningBalance.IsNegative() {
		return nil, apperrors.NewValidationFailedError("الرصيد الافتتاحي لا يمكن أن يكون سالباً")
	}

	treasury := domain.Treasury{
		TreasuryID:  uuid.NewString(),
		CompanyID:   companyID,
		Name:        name,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}
	if err := s.treasuryRepo.CreateTreasury(ctx, treasury, req.OpeningBalance); err != nil {
		s.LogError(ctx, err, "Failed to create treasury", slog.String("company_id", companyID))
		return nil, err
	}
	treasury.Balance = req.OpeningBalance
	s.invalidateStats(ctx, companyID)

	s.LogInfo(ctx, "Treasury created",
		slog.String("company_id", companyID),
		slog.String("treasury_id", treasury.TreasuryID))
	return &treasury, nil
}

func (s *treasuryService) GetTreasury(ctx context.Context, companyID, treasuryID, userID string) (*domain.Treasury, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermTreasuryRead); err != nil {
		return nil, err
	}
	return s.treasuryRepo.FindTreasuryByID(ctx, companyID, treasuryID)
}

func (s *treasuryService) ListTreasuries(ctx context.Context, companyID string, includeInactive bool, userID string) ([]domain.Treasury, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermTreasuryRead); err != nil {
		return nil, err
	}
	return s.treasuryRepo.ListTreasuries(ctx, companyID, includeInactive)
}

func (s *treasuryService) UpdateTreasury(ctx context.Context, companyID, treasuryID string, req dto.UpdateTreasuryRequest, userID string) (*domain.Treasury, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermTreasuryWrite); err != nil {
		return nil, err
	}
	treasury, err := s.treasuryRepo.FindTreasuryByID(ctx, companyID, treasuryID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("اسم الخزينة مطلوب")
		}
		treasury.Name = name
	}
	if req.Description != nil {
		treasury.Description = *req.Description
	}
	if req.IsActive != nil {
		treasury.IsActive = *req.IsActive
	}
	treasury.Touch(userID, s.now())

	if err := s.treasuryRepo.UpdateTreasury(ctx, *treasury); err != nil {
		s.LogError(ctx, err, "Failed to update treasury", slog.String("treasury_id", treasuryID))
		return nil, err
	}
	return treasury, nil
}

func (s *treasuryService) Deposit(ctx context.Context, companyID, treasuryID string, req dto.TreasuryMovementRequest, userID string) (*domain.TreasuryMovement, error) {
	return s.recordMovement(ctx, companyID, treasuryID, domain.TreasuryDeposit, req, userID)
}

func (s *treasuryService) Withdraw(ctx context.Context, companyID, treasuryID string, req dto.TreasuryMovementRequest, userID string) (*domain.TreasuryMovement, error) {
	return s.recordMovement(ctx, companyID, treasuryID, domain.TreasuryWithdrawal, req, userID)
}

func (s *treasuryService) recordMovement(ctx context.Context, companyID, treasuryID string, movementType domain.TreasuryMovementType, req dto.TreasuryMovementRequest, userID string) (*domain.TreasuryMovement, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermTreasuryWrite); err != nil {
		return nil, err
	}
	amount := accounting.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("المبلغ يجب أن يكون أكبر من صفر")
	}

	movement := &domain.TreasuryMovement{
		MovementID:   uuid.NewString(),
		TreasuryID:   treasuryID,
		CompanyID:    companyID,
		MovementType: movementType,
		Amount:       amount,
		RefType:      domain.RefManual,
		Notes:        strings.TrimSpace(req.Notes),
		CreatedAt:    s.now(),
		CreatedBy:    userID,
	}
	if err := s.treasuryRepo.RecordMovement(ctx, movement); err != nil {
		s.LogError(ctx, err, "Failed to record treasury movement",
			slog.String("treasury_id", treasuryID),
			slog.String("movement_type", string(movementType)))
		return nil, err
	}
	s.invalidateStats(ctx, companyID)

	s.LogInfo(ctx, "Treasury movement recorded",
		slog.String("treasury_id", treasuryID),
		slog.String("movement_type", string(movementType)),
		slog.String("amount", amount.String()))
	return movement, nil
}

// Transfer moves cash between two treasuries of the same company in one transaction.
func (s *treasuryService) Transfer(ctx context.Context, companyID string, req dto.TransferRequest, userID string) ([]domain.TreasuryMovement, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermTreasuryWrite); err != nil {
		return nil, err
	}
	if req.FromTreasuryID == req.ToTreasuryID {
		return nil, apperrors.NewValidationFailedError("لا يمكن التحويل إلى نفس الخزينة")
	}
	amount := accounting.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("المبلغ يجب أن يكون أكبر من صفر")
	}

	now := s.now()
	transferID := uuid.NewString()
	notes := strings.TrimSpace(req.Notes)
	out := &domain.TreasuryMovement{
		MovementID:   uuid.NewString(),
		TreasuryID:   req.FromTreasuryID,
		CompanyID:    companyID,
		MovementType: domain.TreasuryTransferOut,
		Amount:       amount,
		RefType:      domain.RefTransfer,
		RefID:        &transferID,
		Notes:        notes,
		CreatedBy:    userID,
	}
	in := &domain.TreasuryMovement{
		MovementID:   uuid.NewString(),
		TreasuryID:   req.ToTreasuryID,
		CompanyID:    companyID,
		MovementType: domain.TreasuryTransferIn,
		Amount:       amount,
		RefType:      domain.RefTransfer,
		RefID:        &transferID,
		Notes:        notes,
		CreatedBy:    userID,
	}
	if err := s.treasuryRepo.Transfer(ctx, out, in, now); err != nil {
		s.LogError(ctx, err, "Failed to transfer between treasuries",
			slog.String("from_treasury_id", req.FromTreasuryID),
			slog.String("to_treasury_id", req.ToTreasuryID))
		return nil, err
	}

	s.LogInfo(ctx, "Treasury transfer completed",
		slog.String("transfer_id", transferID),
		slog.String("amount", amount.String()))
	return []domain.TreasuryMovement{*out, *in}, nil
}

func (s *treasuryService) ListTreasuryMovements(ctx context.Context, companyID, treasuryID string, params dto.CursorParams, userID string) ([]domain.TreasuryMovement, *string, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermTreasuryRead); err != nil {
		return nil, nil, err
	}
	if _, err := s.treasuryRepo.FindTreasuryByID(ctx, companyID, treasuryID); err != nil {
		return nil, nil, err
	}
	return s.treasuryRepo.ListTreasuryMovements(ctx, companyID, treasuryID, pagination.NormalizeLimit(params.Limit), params.NextToken)
}
