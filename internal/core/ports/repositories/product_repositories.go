package repositories

import (
	"context"
	"time"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// StockRef links stock movements to the document that caused them.
type StockRef struct {
	RefType string
	RefID   string
	Notes   string
}

// ProductReader defines read operations for product data
type ProductReader interface {
	FindProductByID(ctx context.Context, companyID, productID string) (*domain.Product, error)
	FindProductsByIDs(ctx context.Context, companyID string, productIDs []string) (map[string]domain.Product, error)
	ListProducts(ctx context.Context, companyID string, filter domain.ProductFilter, limit, offset int) ([]domain.Product, error)
	// ListStockMovements returns a page of the product ledger, newest first.
	ListStockMovements(ctx context.Context, companyID, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error)
}

// ProductWriter defines write operations for product data
type ProductWriter interface {
	// CreateProduct inserts the product and, when opening stock is set, its OPENING movement.
	CreateProduct(ctx context.Context, product domain.Product) error
	UpdateProduct(ctx context.Context, product domain.Product) error
	// AdjustStock applies a manual signed adjustment under row lock.
	AdjustStock(ctx context.Context, companyID string, change domain.StockChange, ref StockRef, userID string, now time.Time) (*domain.StockMovement, error)
}

// StockLedgerTx applies stock changes inside a caller-owned transaction.
type StockLedgerTx interface {
	// ApplyStockChangesInTx locks the products, rejects any change that would make stock
	// negative, writes movements and returns the products as they were before the change.
	ApplyStockChangesInTx(ctx context.Context, tx pgx.Tx, companyID string, changes []domain.StockChange, ref StockRef, userID string, now time.Time) (map[string]domain.Product, error)
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
	StockLedgerTx
}
