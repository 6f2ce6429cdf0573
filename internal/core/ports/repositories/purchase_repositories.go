package repositories

import (
	"context"
	"time"

	"github.com/ceramica/erp_backend/internal/core/domain"
)

// PurchaseReader defines read operations for purchases
type PurchaseReader interface {
	FindPurchaseByID(ctx context.Context, companyID, purchaseID string) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, companyID string, filter domain.PurchaseFilter, limit int, nextToken *string) ([]domain.Purchase, *string, error)
}

// PurchaseWriter defines write operations for purchases
type PurchaseWriter interface {
	CreatePurchase(ctx context.Context, purchase *domain.Purchase) error
	UpdateDraftPurchase(ctx context.Context, purchase *domain.Purchase) error
	DeleteDraftPurchase(ctx context.Context, companyID, purchaseID string) error
	// ApprovePurchase receives stock, re-averages costs, posts the supplier account and pays from the treasury.
	ApprovePurchase(ctx context.Context, purchase *domain.Purchase, userID string, now time.Time) error
	// CancelPurchase reverses an approved purchase's effects, except product costs.
	CancelPurchase(ctx context.Context, purchase *domain.Purchase, reason, userID string, now time.Time) error
}

// PurchaseRepositoryFacade combines all purchase-related repository interfaces
type PurchaseRepositoryFacade interface {
	PurchaseReader
	PurchaseWriter
}
