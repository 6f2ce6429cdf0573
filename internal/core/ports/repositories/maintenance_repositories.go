package repositories

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MaintenanceRepository backs the erpctl repair and import commands.
type MaintenanceRepository interface {
	// ListCompanyIDs returns every company, or only companyID when it is not empty.
	// An unknown companyID yields ErrNotFound.
	ListCompanyIDs(ctx context.Context, companyID string) ([]string, error)

	// ReplaceRolePermissions makes the stored rows of every role in matrix equal its
	// permission list, globally when companyID is nil. Nothing is written when dryRun is set.
	ReplaceRolePermissions(ctx context.Context, companyID *string, matrix map[domain.CompanyRole][]domain.Permission, dryRun bool) ([]domain.PermissionDiff, error)

	ListSequenceStates(ctx context.Context, companyID string) ([]domain.SequenceState, error)
	SetSequenceValue(ctx context.Context, companyID string, kind domain.DocumentKind, value int64) error

	FindProductsBySKU(ctx context.Context, companyID, sku string) ([]domain.Product, error)
	UpdateProductPrices(ctx context.Context, productID string, costPrice decimal.Decimal, salePrice *decimal.Decimal) error

	ListStockDrift(ctx context.Context, companyID string) ([]domain.BalanceDrift, error)
	SetProductStock(ctx context.Context, productID string, quantity decimal.Decimal) error
	ListTreasuryDrift(ctx context.Context, companyID string) ([]domain.BalanceDrift, error)
	SetTreasuryBalance(ctx context.Context, treasuryID string, balance decimal.Decimal) error
	ListSupplierDrift(ctx context.Context, companyID string) ([]domain.BalanceDrift, error)
	SetSupplierBalance(ctx context.Context, supplierID string, balance decimal.Decimal) error
}
