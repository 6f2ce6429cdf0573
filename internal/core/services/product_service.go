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
	"github.com/ceramica/erp_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Offset listings of catalogue entities default to a larger page than ledgers.
const (
	defaultListLimit = 50
	maxListLimit     = 200
)

func normalizeOffsetLimit(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type productService struct {
	BaseService
	productRepo portsrepo.ProductRepositoryFacade
}

// NewProductService creates a new product service with the provided options
func NewProductService(productRepo portsrepo.ProductRepositoryFacade, options ...ServiceOption) portssvc.ProductSvcFacade {
	svc := &productService{productRepo: productRepo}
	svc.apply(options)
	return svc
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

func (s *productService) CreateProduct(ctx context.Context, companyID string, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermProductsWrite); err != nil {
		return nil, err
	}

	sku := strings.TrimSpace(req.SKU)
	name := strings.TrimSpace(req.Name)
	if sku == "" || name == "" {
		return nil, apperrors.NewValidationFailedError("كود الصنف واسمه مطلوبان")
	}
	if err := validateNonNegative(req.CostPrice, req.SalePrice, req.OpeningStock, req.MinStock); err != nil {
		return nil, err
	}

	product := domain.Product{
		ProductID:     uuid.NewString(),
		CompanyID:     companyID,
		SKU:           sku,
		Name:          name,
		Category:      strings.TrimSpace(req.Category),
		Unit:          strings.TrimSpace(req.Unit),
		CostPrice:     req.CostPrice,
		SalePrice:     req.SalePrice,
		StockQuantity: req.OpeningStock,
		MinStock:      req.MinStock,
		IsActive:      true,
		AuditFields:   domain.NewAuditFields(userID, s.now()),
	}
	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		s.LogError(ctx, err, "Failed to create product",
			slog.String("company_id", companyID),
			slog.String("sku", sku))
		return nil, err
	}
	s.invalidateStats(ctx, companyID)

	s.LogInfo(ctx, "Product created",
		slog.String("company_id", companyID),
		slog.String("product_id", product.ProductID))
	return &product, nil
}

func (s *productService) GetProduct(ctx context.Context, companyID, productID, userID string) (*domain.Product, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermProductsRead); err != nil {
		return nil, err
	}
	return s.productRepo.FindProductByID(ctx, companyID, productID)
}

func (s *productService) ListProducts(ctx context.Context, companyID string, params dto.ListProductsParams, userID string) ([]domain.Product, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermProductsRead); err != nil {
		return nil, err
	}
	limit, offset := normalizeOffsetLimit(params.Limit, params.Offset)
	filter := domain.ProductFilter{
		Search:          strings.TrimSpace(params.Search),
		Category:        strings.TrimSpace(params.Category),
		LowStockOnly:    params.LowStock,
		IncludeInactive: params.IncludeInactive,
	}
	products, err := s.productRepo.ListProducts(ctx, companyID, filter, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list products", slog.String("company_id", companyID))
		return nil, err
	}
	return products, nil
}

// UpdateProduct never changes the stock quantity.
func (s *productService) UpdateProduct(ctx context.Context, companyID, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermProductsWrite); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindProductByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("اسم الصنف مطلوب")
		}
		product.Name = name
	}
	if req.Category != nil {
		product.Category = strings.TrimSpace(*req.Category)
	}
	if req.Unit != nil {
		product.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.SalePrice != nil {
		product.SalePrice = *req.SalePrice
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := validateNonNegative(product.CostPrice, product.SalePrice, product.MinStock); err != nil {
		return nil, err
	}
	product.Touch(userID, s.now())

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		s.LogError(ctx, err, "Failed to update product", slog.String("product_id", productID))
		return nil, err
	}
	return product, nil
}

func (s *productService) AdjustStock(ctx context.Context, companyID, productID string, req dto.StockAdjustmentRequest, userID string) (*domain.StockMovement, error) {
	if err := s.AuthorizeWrite(ctx, userID, companyID, domain.PermStockAdjust); err != nil {
		return nil, err
	}
	if req.Quantity.IsZero() {
		return nil, apperrors.NewValidationFailedError("كمية التسوية يجب ألا تساوي صفراً")
	}
	product, err := s.productRepo.FindProductByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}

	change := domain.StockChange{
		ProductID:    productID,
		Quantity:     req.Quantity,
		UnitCost:     product.CostPrice,
		MovementType: domain.MovementAdjustment,
	}
	ref := portsrepo.StockRef{RefType: domain.RefManual, Notes: strings.TrimSpace(req.Notes)}
	movement, err := s.productRepo.AdjustStock(ctx, companyID, change, ref, userID, s.now())
	if err != nil {
		s.LogError(ctx, err, "Failed to adjust stock",
			slog.String("product_id", productID),
			slog.String("quantity", req.Quantity.String()))
		return nil, err
	}
	s.invalidateStats(ctx, companyID)

	s.LogInfo(ctx, "Stock adjusted",
		slog.String("product_id", productID),
		slog.String("quantity", req.Quantity.String()),
		slog.String("balance_after", movement.BalanceAfter.String()))
	return movement, nil
}

func (s *productService) ListStockMovements(ctx context.Context, companyID, productID string, params dto.CursorParams, userID string) ([]domain.StockMovement, *string, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermProductsRead); err != nil {
		return nil, nil, err
	}
	if _, err := s.productRepo.FindProductByID(ctx, companyID, productID); err != nil {
		return nil, nil, err
	}
	return s.productRepo.ListStockMovements(ctx, companyID, productID, pagination.NormalizeLimit(params.Limit), params.NextToken)
}

func validateNonNegative(values ...decimal.Decimal) error {
	for _, v := range values {
		if v.IsNegative() {
			return apperrors.NewValidationFailedError("القيم الرقمية لا يمكن أن تكون سالبة")
		}
	}
	return nil
}
