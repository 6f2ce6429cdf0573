package services

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/ceramica/erp_backend/internal/dto"
)

// ProductSvcFacade defines product catalogue and stock operations
type ProductSvcFacade interface {
	CreateProduct(ctx context.Context, companyID string, req dto.CreateProductRequest, userID string) (*domain.Product, error)
	GetProduct(ctx context.Context, companyID, productID, userID string) (*domain.Product, error)
	ListProducts(ctx context.Context, companyID string, params dto.ListProductsParams, userID string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, companyID, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error)
	// AdjustStock applies a signed manual correction; the result may not go below zero.
	AdjustStock(ctx context.Context, companyID, productID string, req dto.StockAdjustmentRequest, userID string) (*domain.StockMovement, error)
	ListStockMovements(ctx context.Context, companyID, productID string, params dto.CursorParams, userID string) ([]domain.StockMovement, *string, error)
}

// TreasurySvcFacade defines treasury and cash movement operations
type TreasurySvcFacade interface {
	CreateTreasury(ctx context.Context, companyID string, req dto.CreateTreasuryRequest, userID string) (*domain.Treasury, error)
	GetTreasury(ctx context.Context, companyID, treasuryID, userID string) (*domain.Treasury, error)
	ListTreasuries(ctx context.Context, companyID string, includeInactive bool, userID string) ([]domain.Treasury, error)
	UpdateTreasury(ctx context.Context, companyID, treasuryID string, req dto.UpdateTreasuryRequest, userID string) (*domain.Treasury, error)
	Deposit(ctx context.Context, companyID, treasuryID string, req dto.TreasuryMovementRequest, userID string) (*domain.TreasuryMovement, error)
	Withdraw(ctx context.Context, companyID, treasuryID string, req dto.TreasuryMovementRequest, userID string) (*domain.TreasuryMovement, error)
	// Transfer returns the outgoing and incoming movements.
	Transfer(ctx context.Context, companyID string, req dto.TransferRequest, userID string) ([]domain.TreasuryMovement, error)
	ListTreasuryMovements(ctx context.Context, companyID, treasuryID string, params dto.CursorParams, userID string) ([]domain.TreasuryMovement, *string, error)
}
