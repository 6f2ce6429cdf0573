package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/ceramica/erp_backend/internal/platform/events"
	"github.com/ceramica/erp_backend/internal/utils/pagination"
	"github.com/google/uuid"
)

type saleService struct {
	BaseService
	saleRepo     portsrepo.SaleRepositoryFacade
	productRepo  portsrepo.ProductReader
	contactRepo  portsrepo.ContactReader
	treasuryRepo portsrepo.TreasuryReader
}

// NewSaleService creates a new sale service with the provided options
func NewSaleService(
	saleRepo portsrepo.SaleRepositoryFacade,
	productRepo portsrepo.ProductReader,
	contactRepo portsrepo.ContactReader,
	treasuryRepo portsrepo.TreasuryReader,
	options ...ServiceOption,
) portssvc.SaleSvcFacade {
	svc := &saleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		contactRepo:  contactRepo,
		treasuryRepo: treasuryRepo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.SaleSvcFacade = (*saleService)(nil)

// fillSale validates the request and writes header, lines and totals into sale.
func (s *saleService) fillSale(ctx context.Context, sale *domain.Sale, req dto.SaleRequest) error {
	inputs := make([]lineInput, len(req.Lines))
	for i, l := range req.Lines {
		inputs[i] = lineInput{ProductID: l.ProductID, Quantity: l.Quantity, Price: l.UnitPrice}
	}
	resolved, err := resolveLines(ctx, s.productRepo, sale.CompanyID, inputs, req.Discount)
	if err != nil {
		return err
	}

	treasuryID := optionalID(req.TreasuryID)
	contactID := optionalID(req.ContactID)
	if err := checkPayment(req.PaidAmount, resolved.Totals.Total, treasuryID); err != nil {
		return err
	}
	if err := requireCreditCustomer(req.PaidAmount, resolved.Totals.Total, contactID); err != nil {
		return err
	}
	if err := requireTreasury(ctx, s.treasuryRepo, sale.CompanyID, treasuryID); err != nil {
		return err
	}
	contact, err := requireContact(ctx, s.contactRepo, sale.CompanyID, contactID)
	if err != nil {
		return err
	}

	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" && contact != nil {
		customerName = contact.Name
	}

	lines := make([]domain.SaleLine, len(req.Lines))
	for i, l := range req.Lines {
		p := resolved.Products[i]
		lines[i] = domain.SaleLine{
			LineID:      uuid.NewString(),
			SaleID:      sale.SaleID,
			ProductID:   p.ProductID,
			ProductName: p.Name,
			SKU:         p.SKU,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   resolved.Totals.LineTotals[i],
		}
	}

	sale.ContactID = contactID
	sale.CustomerName = customerName
	sale.TreasuryID = treasuryID
	sale.InvoiceDate = invoiceDate(req.InvoiceDate, s.now())
	sale.Lines = lines
	sale.Subtotal = resolved.Totals.Subtotal
	sale.Discount = resolved.Totals.Discount
	sale.Total = resolved.Totals.Total
	sale.PaidAmount = req.PaidAmount
	sale.Notes = req.Notes
	return nil
}

func (s *saleService) CreateSale(ctx context.Context, companyID string, req dto.SaleRequest, userID string) (*domain.Sale, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermSalesWrite); err != nil {
		return nil, err
	}

	sale := &domain.Sale{
		SaleID:      uuid.NewString(),
		CompanyID:   companyID,
		Status:      domain.StatusDraft,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}
	if err := s.fillSale(ctx, sale, req); err != nil {
		return nil, err
	}
	if err := s.saleRepo.CreateSale(ctx, sale); err != nil {
		s.LogError(ctx, err, "Failed to create sale", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Sale draft created",
		slog.String("company_id", companyID),
		slog.String("sale_id", sale.SaleID),
		slog.String("invoice_number", sale.InvoiceNumber))
	return sale, nil
}

func (s *saleService) GetSale(ctx context.Context, companyID, saleID, userID string) (*domain.Sale, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermSalesRead); err != nil {
		return nil, err
	}
	return s.saleRepo.FindSaleByID(ctx, companyID, saleID)
}

func (s *saleService) ListSales(ctx context.Context, companyID string, params dto.ListDocumentsParams, userID string) ([]domain.Sale, *string, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermSalesRead); err != nil {
		return nil, nil, err
	}
	from, to, err := parseDateFilter(params.From, params.To)
	if err != nil {
		return nil, nil, err
	}
	filter := domain.SaleFilter{
		Status:    params.Status,
		ContactID: optionalID(params.ContactID),
		From:      from,
		To:        to,
		Search:    strings.TrimSpace(params.Search),
	}
	return s.saleRepo.ListSales(ctx, companyID, filter, pagination.NormalizeLimit(params.Limit), params.NextToken)
}

// UpdateSale replaces the header and lines of a DRAFT sale.
func (s *saleService) UpdateSale(ctx context.Context, companyID, saleID string, req dto.SaleRequest, userID string) (*domain.Sale, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermSalesWrite); err != nil {
		return nil, err
	}
	sale, err := s.saleRepo.FindSaleByID(ctx, companyID, saleID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(sale.Status, domain.StatusDraft, domain.StatusDraft); err != nil {
		return nil, err
	}
	if err := s.fillSale(ctx, sale, req); err != nil {
		return nil, err
	}
	sale.Touch(userID, s.now())

	if err := s.saleRepo.UpdateDraftSale(ctx, sale); err != nil {
		s.LogError(ctx, err, "Failed to update sale", slog.String("sale_id", saleID))
		return nil, err
	}
	return sale, nil
}

func (s *saleService) DeleteSale(ctx context.Context, companyID, saleID, userID string) error {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermSalesWrite); err != nil {
		return err
	}
	if err := s.saleRepo.DeleteDraftSale(ctx, companyID, saleID); err != nil {
		s.LogError(ctx, err, "Failed to delete sale", slog.String("sale_id", saleID))
		return err
	}
	s.LogInfo(ctx, "Sale draft deleted", slog.String("sale_id", saleID))
	return nil
}

// ApproveSale moves stock, cash and the customer balance in one repository transaction.
func (s *saleService) ApproveSale(ctx context.Context, companyID, saleID, userID string) (*domain.Sale, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermSalesApprove); err != nil {
		return nil, err
	}
	sale := &domain.Sale{SaleID: saleID, CompanyID: companyID}
	if err := s.saleRepo.ApproveSale(ctx, sale, userID, s.now()); err != nil {
		s.LogError(ctx, err, "Failed to approve sale", slog.String("sale_id", saleID))
		return nil, err
	}

	s.LogInfo(ctx, "Sale approved",
		slog.String("sale_id", saleID),
		slog.String("invoice_number", sale.InvoiceNumber),
		slog.String("total", sale.Total.String()))
	s.afterDocumentChange(ctx, events.SaleApproved, companyID, saleID, userID, documentEventData(sale.InvoiceNumber, sale.Total, sale.PaidAmount))
	return sale, nil
}

// CancelSale reverses every effect of an approved sale before marking it CANCELLED.
func (s *saleService) CancelSale(ctx context.Context, companyID, saleID, reason, userID string) (*domain.Sale, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermSalesCancel); err != nil {
		return nil, err
	}
	sale := &domain.Sale{SaleID: saleID, CompanyID: companyID}
	if err := s.saleRepo.CancelSale(ctx, sale, strings.TrimSpace(reason), userID, s.now()); err != nil {
		s.LogError(ctx, err, "Failed to cancel sale", slog.String("sale_id", saleID))
		return nil, err
	}

	s.LogInfo(ctx, "Sale cancelled",
		slog.String("sale_id", saleID),
		slog.String("invoice_number", sale.InvoiceNumber))
	s.afterDocumentChange(ctx, events.SaleCancelled, companyID, saleID, userID, documentEventData(sale.InvoiceNumber, sale.Total, sale.PaidAmount))
	return sale, nil
}
