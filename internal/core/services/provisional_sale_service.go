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
	"github.com/ceramica/erp_backend/internal/platform/events"
	"github.com/ceramica/erp_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type provisionalSaleService struct {
	BaseService
	provisionalRepo portsrepo.ProvisionalSaleRepositoryFacade
	productRepo     portsrepo.ProductReader
	contactRepo     portsrepo.ContactReader
	treasuryRepo    portsrepo.TreasuryReader
}

// NewProvisionalSaleService creates a new provisional sale service with the provided options
func NewProvisionalSaleService(
	provisionalRepo portsrepo.ProvisionalSaleRepositoryFacade,
	productRepo portsrepo.ProductReader,
	contactRepo portsrepo.ContactReader,
	treasuryRepo portsrepo.TreasuryReader,
	options ...ServiceOption,
) portssvc.ProvisionalSaleSvcFacade {
	svc := &provisionalSaleService{
		provisionalRepo: provisionalRepo,
		productRepo:     productRepo,
		contactRepo:     contactRepo,
		treasuryRepo:    treasuryRepo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.ProvisionalSaleSvcFacade = (*provisionalSaleService)(nil)

// buildProvisionalLines prices lines against the catalogue and fills the document totals.
func buildProvisionalLines(ctx context.Context, products portsrepo.ProductReader, p *domain.ProvisionalSale, inputs []lineInput, discount decimal.Decimal) error {
	resolved, err := resolveLines(ctx, products, p.CompanyID, inputs, discount)
	if err != nil {
		return err
	}
	lines := make([]domain.ProvisionalSaleLine, len(inputs))
	for i, in := range inputs {
		product := resolved.Products[i]
		lines[i] = domain.ProvisionalSaleLine{
			LineID:            uuid.NewString(),
			ProvisionalSaleID: p.ProvisionalSaleID,
			ProductID:         product.ProductID,
			ProductName:       product.Name,
			SKU:               product.SKU,
			Quantity:          in.Quantity,
			UnitPrice:         resolved.Prices[i],
			LineTotal:         resolved.Totals.LineTotals[i],
		}
	}
	p.Lines = lines
	p.Subtotal = resolved.Totals.Subtotal
	p.Discount = resolved.Totals.Discount
	p.Total = resolved.Totals.Total
	return nil
}

func (s *provisionalSaleService) fillProvisional(ctx context.Context, p *domain.ProvisionalSale, req dto.ProvisionalSaleRequest) error {
	inputs := make([]lineInput, len(req.Lines))
	for i, l := range req.Lines {
		inputs[i] = lineInput{ProductID: l.ProductID, Quantity: l.Quantity, Price: l.UnitPrice}
	}
	if err := buildProvisionalLines(ctx, s.productRepo, p, inputs, req.Discount); err != nil {
		return err
	}

	contactID := optionalID(req.ContactID)
	contact, err := requireContact(ctx, s.contactRepo, p.CompanyID, contactID)
	if err != nil {
		return err
	}
	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" && contact != nil {
		customerName = contact.Name
	}

	p.ContactID = contactID
	p.CustomerName = customerName
	p.Notes = req.Notes
	return nil
}

func (s *provisionalSaleService) CreateProvisionalSale(ctx context.Context, companyID string, req dto.ProvisionalSaleRequest, userID string) (*domain.ProvisionalSale, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermProvisionalWrite); err != nil {
		return nil, err
	}

	status := domain.StatusDraft
	if req.Submit {
		status = domain.StatusPending
	}
	p := &domain.ProvisionalSale{
		ProvisionalSaleID: uuid.NewString(),
		CompanyID:         companyID,
		Source:            domain.SourceInternal,
		Status:            status,
		AuditFields:       domain.NewAuditFields(userID, s.now()),
	}
	if err := s.fillProvisional(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.provisionalRepo.CreateProvisionalSale(ctx, p); err != nil {
		s.LogError(ctx, err, "Failed to create provisional sale", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Provisional sale created",
		slog.String("provisional_sale_id", p.ProvisionalSaleID),
		slog.String("number", p.Number),
		slog.String("status", string(p.Status)))
	if p.Status == domain.StatusPending {
		s.afterDocumentChange(ctx, events.ProvisionalSaleSubmitted, companyID, p.ProvisionalSaleID, userID, documentEventData(p.Number, p.Total, decimal.Zero))
	}
	return p, nil
}

func (s *provisionalSaleService) GetProvisionalSale(ctx context.Context, companyID, provisionalSaleID, userID string) (*domain.ProvisionalSale, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermProvisionalRead); err != nil {
		return nil, err
	}
	return s.provisionalRepo.FindProvisionalSaleByID(ctx, companyID, provisionalSaleID)
}

func (s *provisionalSaleService) ListProvisionalSales(ctx context.Context, companyID string, params dto.ListProvisionalParams, userID string) ([]domain.ProvisionalSale, *string, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermProvisionalRead); err != nil {
		return nil, nil, err
	}
	filter := domain.ProvisionalSaleFilter{
		Status:  params.Status,
		Source:  params.Source,
		StoreID: optionalID(params.StoreID),
	}
	return s.provisionalRepo.ListProvisionalSales(ctx, companyID, filter, pagination.NormalizeLimit(params.Limit), params.NextToken)
}

// UpdateProvisionalSale is allowed while the document is DRAFT or PENDING.
func (s *provisionalSaleService) UpdateProvisionalSale(ctx context.Context, companyID, provisionalSaleID string, req dto.ProvisionalSaleRequest, userID string) (*domain.ProvisionalSale, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermProvisionalWrite); err != nil {
		return nil, err
	}
	p, err := s.provisionalRepo.FindProvisionalSaleByID(ctx, companyID, provisionalSaleID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(p.Status, p.Status, domain.StatusDraft, domain.StatusPending); err != nil {
		return nil, err
	}
	if err := s.fillProvisional(ctx, p, req); err != nil {
		return nil, err
	}
	p.Touch(userID, s.now())

	if err := s.provisionalRepo.UpdateProvisionalSale(ctx, p); err != nil {
		s.LogError(ctx, err, "Failed to update provisional sale", slog.String("provisional_sale_id", provisionalSaleID))
		return nil, err
	}
	return p, nil
}

func (s *provisionalSaleService) SubmitProvisionalSale(ctx context.Context, companyID, provisionalSaleID, userID string) (*domain.ProvisionalSale, error) {
	p, err := s.transition(ctx, companyID, provisionalSaleID, domain.PermProvisionalWrite,
		[]domain.DocumentStatus{domain.StatusDraft}, domain.StatusPending, userID)
	if err != nil {
		return nil, err
	}
	s.afterDocumentChange(ctx, events.ProvisionalSaleSubmitted, companyID, provisionalSaleID, userID, documentEventData(p.Number, p.Total, decimal.Zero))
	return p, nil
}

func (s *provisionalSaleService) ApproveProvisionalSale(ctx context.Context, companyID, provisionalSaleID, userID string) (*domain.ProvisionalSale, error) {
	p, err := s.transition(ctx, companyID, provisionalSaleID, domain.PermProvisionalApprove,
		[]domain.DocumentStatus{domain.StatusPending}, domain.StatusApproved, userID)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, companyID)
	return p, nil
}

func (s *provisionalSaleService) CancelProvisionalSale(ctx context.Context, companyID, provisionalSaleID, userID string) (*domain.ProvisionalSale, error) {
	p, err := s.transition(ctx, companyID, provisionalSaleID, domain.PermProvisionalWrite,
		[]domain.DocumentStatus{domain.StatusDraft, domain.StatusPending, domain.StatusApproved}, domain.StatusCancelled, userID)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, companyID)
	return p, nil
}

func (s *provisionalSaleService) transition(ctx context.Context, companyID, provisionalSaleID string, permission domain.Permission, expected []domain.DocumentStatus, target domain.DocumentStatus, userID string) (*domain.ProvisionalSale, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, permission); err != nil {
		return nil, err
	}
	if err := s.provisionalRepo.UpdateProvisionalStatus(ctx, companyID, provisionalSaleID, expected, target, userID, s.now()); err != nil {
		s.LogError(ctx, err, "Failed to change provisional sale status",
			slog.String("provisional_sale_id", provisionalSaleID),
			slog.String("target", string(target)))
		return nil, err
	}
	s.LogInfo(ctx, "Provisional sale status changed",
		slog.String("provisional_sale_id", provisionalSaleID),
		slog.String("status", string(target)))
	return s.provisionalRepo.FindProvisionalSaleByID(ctx, companyID, provisionalSaleID)
}

// ConvertToSale copies the provisional lines into a new DRAFT sale. The sale must still
// be approved separately before stock or money moves.
func (s *provisionalSaleService) ConvertToSale(ctx context.Context, companyID, provisionalSaleID string, req dto.ConvertProvisionalRequest, userID string) (*domain.ProvisionalSale, *domain.Sale, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermProvisionalConvert); err != nil {
		return nil, nil, err
	}
	p, err := s.provisionalRepo.FindProvisionalSaleByID(ctx, companyID, provisionalSaleID)
	if err != nil {
		return nil, nil, err
	}
	if !domain.DocProvisional.CanTransition(p.Status, domain.StatusConverted) {
		return nil, nil, apperrors.NewInvalidStatusError(string(p.Status), string(domain.StatusConverted))
	}

	treasuryID := optionalID(req.TreasuryID)
	if err := checkPayment(req.PaidAmount, p.Total, treasuryID); err != nil {
		return nil, nil, err
	}
	if err := requireCreditCustomer(req.PaidAmount, p.Total, p.ContactID); err != nil {
		return nil, nil, err
	}
	if err := requireTreasury(ctx, s.treasuryRepo, companyID, treasuryID); err != nil {
		return nil, nil, err
	}

	now := s.now()
	sale := &domain.Sale{
		SaleID:       uuid.NewString(),
		CompanyID:    companyID,
		ContactID:    p.ContactID,
		CustomerName: p.CustomerName,
		TreasuryID:   treasuryID,
		InvoiceDate:  invoiceDate(req.InvoiceDate, now),
		Status:       domain.StatusDraft,
		Subtotal:     p.Subtotal,
		Discount:     p.Discount,
		Total:        p.Total,
		PaidAmount:   req.PaidAmount,
		Notes:        p.Notes,
		AuditFields:  domain.NewAuditFields(userID, now),
	}
	sale.Lines = p.SaleLines(sale.SaleID, uuid.NewString)

	if err := s.provisionalRepo.ConvertToSale(ctx, p, sale, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to convert provisional sale", slog.String("provisional_sale_id", provisionalSaleID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Provisional sale converted",
		slog.String("provisional_sale_id", provisionalSaleID),
		slog.String("sale_id", sale.SaleID),
		slog.String("invoice_number", sale.InvoiceNumber))
	s.afterDocumentChange(ctx, events.ProvisionalSaleConverted, companyID, provisionalSaleID, userID, documentEventData(sale.InvoiceNumber, sale.Total, sale.PaidAmount))
	return p, sale, nil
}
