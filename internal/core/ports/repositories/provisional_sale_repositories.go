package repositories

import (
	"context"
	"time"

	"github.com/ceramica/erp_backend/internal/core/domain"
)

// ProvisionalSaleReader defines read operations for provisional sales
type ProvisionalSaleReader interface {
	FindProvisionalSaleByID(ctx context.Context, companyID, provisionalSaleID string) (*domain.ProvisionalSale, error)
	ListProvisionalSales(ctx context.Context, companyID string, filter domain.ProvisionalSaleFilter, limit int, nextToken *string) ([]domain.ProvisionalSale, *string, error)
}

// ProvisionalSaleWriter defines write operations for provisional sales
type ProvisionalSaleWriter interface {
	CreateProvisionalSale(ctx context.Context, sale *domain.ProvisionalSale) error
	// UpdateProvisionalSale replaces header fields and lines while the document is editable.
	UpdateProvisionalSale(ctx context.Context, sale *domain.ProvisionalSale) error
	// UpdateProvisionalStatus moves the document from one of the expected statuses to the target.
	UpdateProvisionalStatus(ctx context.Context, companyID, provisionalSaleID string, expected []domain.DocumentStatus, target domain.DocumentStatus, userID string, now time.Time) error
	// ConvertToSale creates the draft sale and marks the provisional sale CONVERTED atomically.
	ConvertToSale(ctx context.Context, provisional *domain.ProvisionalSale, sale *domain.Sale, userID string, now time.Time) error
}

// ProvisionalSaleRepositoryFacade combines all provisional sale repository interfaces
type ProvisionalSaleRepositoryFacade interface {
	ProvisionalSaleReader
	ProvisionalSaleWriter
}
