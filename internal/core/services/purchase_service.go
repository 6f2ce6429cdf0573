package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/ceramica/erp_backend/internal/platform/events"
	"github.com/ceramica/erp_backend/internal/utils/pagination"
	"github.com/google/uuid"
)

type purchaseService struct {
	BaseService
	purchaseRepo portsrepo.PurchaseRepositoryFacade
	productRepo  portsrepo.ProductReader
	supplierRepo portsrepo.SupplierReader
	treasuryRepo portsrepo.TreasuryReader
}

// NewPurchaseService creates a new purchase service with the provided options
func NewPurchaseService(
	purchaseRepo portsrepo.PurchaseRepositoryFacade,
	productRepo portsrepo.ProductReader,
	supplierRepo portsrepo.SupplierReader,
	treasuryRepo portsrepo.TreasuryReader,
	options ...ServiceOption,
) portssvc.PurchaseSvcFacade {
	svc := &purchaseService{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		treasuryRepo: treasuryRepo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.PurchaseSvcFacade = (*purchaseService)(nil)

func (s *purchaseService) fillPurchase(ctx context.Context, purchase *domain.Purchase, req dto.PurchaseRequest) error {
	supplierID := strings.TrimSpace(req.SupplierID)
	if supplierID == "" {
		return apperrors.NewValidationFailedError("يجب اختيار المورد")
	}
	supplier, err := s.supplierRepo.FindSupplierByID(ctx, purchase.CompanyID, supplierID)
	if err != nil {
		return err
	}
	if !supplier.IsActive {
		return apperrors.NewValidationFailedError(fmt.Sprintf("المورد \"%s\" غير مفعل", supplier.Name))
	}

	inputs := make([]lineInput, len(req.Lines))
	for i, l := range req.Lines {
		inputs[i] = lineInput{ProductID: l.ProductID, Quantity: l.Quantity, Price: l.UnitCost}
	}
	resolved, err := resolveLines(ctx, s.productRepo, purchase.CompanyID, inputs, req.Discount)
	if err != nil {
		return err
	}

	treasuryID := optionalID(req.TreasuryID)
	if err := checkPayment(req.PaidAmount, resolved.Totals.Total, treasuryID); err != nil {
		return err
	}
	if err := requireTreasury(ctx, s.treasuryRepo, purchase.CompanyID, treasuryID); err != nil {
		return err
	}

	lines := make([]domain.PurchaseLine, len(req.Lines))
	for i, l := range req.Lines {
		p := resolved.Products[i]
		lines[i] = domain.PurchaseLine{
			LineID:      uuid.NewString(),
			PurchaseID:  purchase.PurchaseID,
			ProductID:   p.ProductID,
			ProductName: p.Name,
			SKU:         p.SKU,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			LineTotal:   resolved.Totals.LineTotals[i],
		}
	}

	purchase.SupplierID = supplierID
	purchase.SupplierInvoiceRef = strings.TrimSpace(req.SupplierInvoiceRef)
	purchase.TreasuryID = treasuryID
	purchase.InvoiceDate = invoiceDate(req.InvoiceDate, s.now())
	purchase.Lines = lines
	purchase.Subtotal = resolved.Totals.Subtotal
	purchase.Discount = resolved.Totals.Discount
	purchase.Total = resolved.Totals.Total
	purchase.PaidAmount = req.PaidAmount
	purchase.Notes = req.Notes
	return nil
}

func (s *purchaseService) CreatePurchase(ctx context.Context, companyID string, req dto.PurchaseRequest, userID string) (*domain.Purchase, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermPurchasesWrite); err != nil {
		return nil, err
	}

	purchase := &domain.Purchase{
		PurchaseID:  uuid.NewString(),
		CompanyID:   companyID,
		Status:      domain.StatusDraft,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}
	if err := s.fillPurchase(ctx, purchase, req); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.CreatePurchase(ctx, purchase); err != nil {
		s.LogError(ctx, err, "Failed to create purchase", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Purchase draft created",
		slog.String("company_id", companyID),
		slog.String("purchase_id", purchase.PurchaseID),
		slog.String("invoice_number", purchase.InvoiceNumber))
	return purchase, nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, companyID, purchaseID, userID string) (*domain.Purchase, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermPurchasesRead); err != nil {
		return nil, err
	}
	return s.purchaseRepo.FindPurchaseByID(ctx, companyID, purchaseID)
}

func (s *purchaseService) ListPurchases(ctx context.Context, companyID string, params dto.ListDocumentsParams, userID string) ([]domain.Purchase, *string, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermPurchasesRead); err != nil {
		return nil, nil, err
	}
	from, to, err := parseDateFilter(params.From, params.To)
	if err != nil {
		return nil, nil, err
	}
	filter := domain.PurchaseFilter{
		Status:     params.Status,
		SupplierID: optionalID(params.SupplierID),
		From:       from,
		To:         to,
		Search:     strings.TrimSpace(params.Search),
	}
	return s.purchaseRepo.ListPurchases(ctx, companyID, filter, pagination.NormalizeLimit(params.Limit), params.NextToken)
}

func (s *purchaseService) UpdatePurchase(ctx context.Context, companyID, purchaseID string, req dto.PurchaseRequest, userID string) (*domain.Purchase, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermPurchasesWrite); err != nil {
		return nil, err
	}
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, companyID, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(purchase.Status, domain.StatusDraft, domain.StatusDraft); err != nil {
		return nil, err
	}
	if err := s.fillPurchase(ctx, purchase, req); err != nil {
		return nil, err
	}
	purchase.Touch(userID, s.now())

	if err := s.purchaseRepo.UpdateDraftPurchase(ctx, purchase); err != nil {
		s.LogError(ctx, err, "Failed to update purchase", slog.String("purchase_id", purchaseID))
		return nil, err
	}
	return purchase, nil
}

func (s *purchaseService) DeletePurchase(ctx context.Context, companyID, purchaseID, userID string) error {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermPurchasesWrite); err != nil {
		return err
	}
	if err := s.purchaseRepo.DeleteDraftPurchase(ctx, companyID, purchaseID); err != nil {
		s.LogError(ctx, err, "Failed to delete purchase", slog.String("purchase_id", purchaseID))
		return err
	}
	s.LogInfo(ctx, "Purchase draft deleted", slog.String("purchase_id", purchaseID))
	return nil
}

// ApprovePurchase receives the goods, re-averages product costs and posts the supplier account.
func (s *purchaseService) ApprovePurchase(ctx context.Context, companyID, purchaseID, userID string) (*domain.Purchase, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermPurchasesApprove); err != nil {
		return nil, err
	}
	purchase := &domain.Purchase{PurchaseID: purchaseID, CompanyID: companyID}
	if err := s.purchaseRepo.ApprovePurchase(ctx, purchase, userID, s.now()); err != nil {
		s.LogError(ctx, err, "Failed to approve purchase", slog.String("purchase_id", purchaseID))
		return nil, err
	}

	s.LogInfo(ctx, "Purchase approved",
		slog.String("purchase_id", purchaseID),
		slog.String("invoice_number", purchase.InvoiceNumber),
		slog.String("total", purchase.Total.String()))
	s.afterDocumentChange(ctx, events.PurchaseApproved, companyID, purchaseID, userID, documentEventData(purchase.InvoiceNumber, purchase.Total, purchase.PaidAmount))
	return purchase, nil
}

// CancelPurchase fails with ErrInsufficientStock when received goods were already sold.
func (s *purchaseService) CancelPurchase(ctx context.Context, companyID, purchaseID, reason, userID string) (*domain.Purchase, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermPurchasesCancel); err != nil {
		return nil, err
	}
	purchase := &domain.Purchase{PurchaseID: purchaseID, CompanyID: companyID}
	if err := s.purchaseRepo.CancelPurchase(ctx, purchase, strings.TrimSpace(reason), userID, s.now()); err != nil {
		s.LogError(ctx, err, "Failed to cancel purchase", slog.String("purchase_id", purchaseID))
		return nil, err
	}

	s.LogInfo(ctx, "Purchase cancelled",
		slog.String("purchase_id", purchaseID),
		slog.String("invoice_number", purchase.InvoiceNumber))
	s.afterDocumentChange(ctx, events.PurchaseCancelled, companyID, purchaseID, userID, documentEventData(purchase.InvoiceNumber, purchase.Total, purchase.PaidAmount))
	return purchase, nil
}
