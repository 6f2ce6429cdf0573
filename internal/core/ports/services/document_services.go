package services

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/ceramica/erp_backend/internal/dto"
)

// SaleSvcFacade defines the sale invoice lifecycle
type SaleSvcFacade interface {
	CreateSale(ctx context.Context, companyID string, req dto.SaleRequest, userID string) (*domain.Sale, error)
	GetSale(ctx context.Context, companyID, saleID, userID string) (*domain.Sale, error)
	ListSales(ctx context.Context, companyID string, params dto.ListDocumentsParams, userID string) ([]domain.Sale, *string, error)
	UpdateSale(ctx context.Context, companyID, saleID string, req dto.SaleRequest, userID string) (*domain.Sale, error)
	DeleteSale(ctx context.Context, companyID, saleID, userID string) error
	ApproveSale(ctx context.Context, companyID, saleID, userID string) (*domain.Sale, error)
	CancelSale(ctx context.Context, companyID, saleID, reason, userID string) (*domain.Sale, error)
}

// PurchaseSvcFacade defines the purchase invoice lifecycle
type PurchaseSvcFacade interface {
	CreatePurchase(ctx context.Context, companyID string, req dto.PurchaseRequest, userID string) (*domain.Purchase, error)
	GetPurchase(ctx context.Context, companyID, purchaseID, userID string) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, companyID string, params dto.ListDocumentsParams, userID string) ([]domain.Purchase, *string, error)
	UpdatePurchase(ctx context.Context, companyID, purchaseID string, req dto.PurchaseRequest, userID string) (*domain.Purchase, error)
	DeletePurchase(ctx context.Context, companyID, purchaseID, userID string) error
	ApprovePurchase(ctx context.Context, companyID, purchaseID, userID string) (*domain.Purchase, error)
	CancelPurchase(ctx context.Context, companyID, purchaseID, reason, userID string) (*domain.Purchase, error)
}

// ProvisionalSaleSvcFacade defines quotations and pending invoices
type ProvisionalSaleSvcFacade interface {
	CreateProvisionalSale(ctx context.Context, companyID string, req dto.ProvisionalSaleRequest, userID string) (*domain.ProvisionalSale, error)
	GetProvisionalSale(ctx context.Context, companyID, provisionalSaleID, userID string) (*domain.ProvisionalSale, error)
	ListProvisionalSales(ctx context.Context, companyID string, params dto.ListProvisionalParams, userID string) ([]domain.ProvisionalSale, *string, error)
	UpdateProvisionalSale(ctx context.Context, companyID, provisionalSaleID string, req dto.ProvisionalSaleRequest, userID string) (*domain.ProvisionalSale, error)
	SubmitProvisionalSale(ctx context.Context, companyID, provisionalSaleID, userID string) (*domain.ProvisionalSale, error)
	ApproveProvisionalSale(ctx context.Context, companyID, provisionalSaleID, userID string) (*domain.ProvisionalSale, error)
	CancelProvisionalSale(ctx context.Context, companyID, provisionalSaleID, userID string) (*domain.ProvisionalSale, error)
	// ConvertToSale creates a DRAFT sale from a PENDING or APPROVED provisional sale, once.
	ConvertToSale(ctx context.Context, companyID, provisionalSaleID string, req dto.ConvertProvisionalRequest, userID string) (*domain.ProvisionalSale, *domain.Sale, error)
}
