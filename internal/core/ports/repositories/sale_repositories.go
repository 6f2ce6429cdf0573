package repositories

import (
	"context"
	"time"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SaleReader defines read operations for sales
type SaleReader interface {
	// FindSaleByID returns the sale with its lines.
	FindSaleByID(ctx context.Context, companyID, saleID string) (*domain.Sale, error)
	// ListSales returns sale headers ordered by invoice date, newest first.
	ListSales(ctx context.Context, companyID string, filter domain.SaleFilter, limit int, nextToken *string) ([]domain.Sale, *string, error)
}

// SaleWriter defines write operations for sales
type SaleWriter interface {
	// CreateSale allocates the invoice number and inserts the draft with its lines.
	CreateSale(ctx context.Context, sale *domain.Sale) error
	// UpdateDraftSale replaces header fields and lines of a sale still in DRAFT.
	UpdateDraftSale(ctx context.Context, sale *domain.Sale) error
	DeleteDraftSale(ctx context.Context, companyID, saleID string) error
	// ApproveSale moves stock, cash and customer balance and marks the sale APPROVED.
	ApproveSale(ctx context.Context, sale *domain.Sale, userID string, now time.Time) error
	// CancelSale reverses an approved sale's effects, if any, and marks it CANCELLED.
	CancelSale(ctx context.Context, sale *domain.Sale, reason, userID string, now time.Time) error
}

// SaleWriterTx creates sales inside a caller-owned transaction.
type SaleWriterTx interface {
	CreateSaleInTx(ctx context.Context, tx pgx.Tx, sale *domain.Sale) error
}

// SaleRepositoryFacade combines all sale-related repository interfaces
type SaleRepositoryFacade interface {
	SaleReader
	SaleWriter
	SaleWriterTx
}
