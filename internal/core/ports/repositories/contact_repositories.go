package repositories

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ContactReader defines read operations for financial contacts
type ContactReader interface {
	FindContactByID(ctx context.Context, companyID, contactID string) (*domain.FinancialContact, error)
	ListContacts(ctx context.Context, companyID string, filter domain.ContactFilter, limit, offset int) ([]domain.FinancialContact, error)
}

// ContactWriter defines write operations for financial contacts
type ContactWriter interface {
	CreateContact(ctx context.Context, contact domain.FinancialContact) error
	UpdateContact(ctx context.Context, contact domain.FinancialContact) error
	// RecordCollection lowers the contact balance and deposits the amount atomically.
	RecordCollection(ctx context.Context, companyID, contactID string, deposit *domain.TreasuryMovement) error
}

// ContactBalanceTx changes contact balances inside a caller-owned transaction.
type ContactBalanceTx interface {
	// AdjustContactBalanceInTx adds delta to the balance under row lock. Unless
	// allowNegative is set, a result below zero fails with ErrInsufficientBalance.
	AdjustContactBalanceInTx(ctx context.Context, tx pgx.Tx, companyID, contactID string, delta decimal.Decimal, allowNegative bool, userID string) (decimal.Decimal, error)
}

// ContactRepositoryFacade combines all contact-related repository interfaces
type ContactRepositoryFacade interface {
	ContactReader
	ContactWriter
	ContactBalanceTx
}
