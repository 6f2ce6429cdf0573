package repositories

import (
	"context"
	"time"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TreasuryReader defines read operations for treasury data
type TreasuryReader interface {
	FindTreasuryByID(ctx context.Context, companyID, treasuryID string) (*domain.Treasury, error)
	ListTreasuries(ctx context.Context, companyID string, includeInactive bool) ([]domain.Treasury, error)
	ListTreasuryMovements(ctx context.Context, companyID, treasuryID string, limit int, nextToken *string) ([]domain.TreasuryMovement, *string, error)
}

// TreasuryWriter defines write operations for treasury data
type TreasuryWriter interface {
	// CreateTreasury inserts the treasury with a zero balance and deposits the opening balance.
	CreateTreasury(ctx context.Context, treasury domain.Treasury, openingBalance decimal.Decimal) error
	UpdateTreasury(ctx context.Context, treasury domain.Treasury) error
	// RecordMovement applies a single deposit or withdrawal.
	RecordMovement(ctx context.Context, movement *domain.TreasuryMovement) error
	// Transfer moves amount between two treasuries of the same company atomically.
	Transfer(ctx context.Context, out, in *domain.TreasuryMovement, now time.Time) error
}

// TreasuryLedgerTx applies treasury movements inside a caller-owned transaction.
type TreasuryLedgerTx interface {
	// ApplyTreasuryMovementInTx locks the treasury, rejects inactive treasuries and
	// negative balances, sets BalanceAfter and inserts the movement.
	ApplyTreasuryMovementInTx(ctx context.Context, tx pgx.Tx, movement *domain.TreasuryMovement) error
}

// TreasuryRepositoryFacade combines all treasury-related repository interfaces
type TreasuryRepositoryFacade interface {
	TreasuryReader
	TreasuryWriter
	TreasuryLedgerTx
}
