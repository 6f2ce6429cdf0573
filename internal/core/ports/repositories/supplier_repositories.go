package repositories

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SupplierReader defines read operations for supplier data
type SupplierReader interface {
	FindSupplierByID(ctx context.Context, companyID, supplierID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, companyID, search string, includeInactive bool, limit, offset int) ([]domain.Supplier, error)
	// ListSupplierEntries returns a page of the supplier statement, newest first.
	ListSupplierEntries(ctx context.Context, companyID, supplierID string, limit int, nextToken *string) ([]domain.SupplierAccountEntry, *string, error)
}

// SupplierWriter defines write operations for supplier data
type SupplierWriter interface {
	// CreateSupplier inserts the supplier and, when given, its opening CREDIT entry.
	CreateSupplier(ctx context.Context, supplier domain.Supplier, opening *domain.SupplierAccountEntry) error
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) error
	// RecordPayment posts a DEBIT entry and withdraws the amount from a treasury atomically.
	RecordPayment(ctx context.Context, entry *domain.SupplierAccountEntry, withdrawal *domain.TreasuryMovement) error
}

// SupplierLedgerTx posts supplier entries inside a caller-owned transaction.
type SupplierLedgerTx interface {
	// PostSupplierEntryInTx locks the supplier, updates its balance and inserts the entry.
	PostSupplierEntryInTx(ctx context.Context, tx pgx.Tx, entry *domain.SupplierAccountEntry) error
}

// SupplierRepositoryFacade combines all supplier-related repository interfaces
type SupplierRepositoryFacade interface {
	SupplierReader
	SupplierWriter
	SupplierLedgerTx
}
