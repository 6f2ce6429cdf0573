package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Treasury is a cash box or bank account of a company.
type Treasury struct {
	TreasuryID  string          `json:"treasuryID"`
	CompanyID   string          `json:"companyID"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `json:"balance"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// TreasuryMovementType classifies cash flowing in or out of a treasury.
type TreasuryMovementType string

const (
	TreasuryDeposit     TreasuryMovementType = "DEPOSIT"
	TreasuryWithdrawal  TreasuryMovementType = "WITHDRAWAL"
	TreasuryTransferIn  TreasuryMovementType = "TRANSFER_IN"
	TreasuryTransferOut TreasuryMovementType = "TRANSFER_OUT"
)

// IsInflow reports whether the movement increases the treasury balance.
func (t TreasuryMovementType) IsInflow() bool {
	return t == TreasuryDeposit || t == TreasuryTransferIn
}

// Signed returns amount with the sign the movement applies to the balance.
func (t TreasuryMovementType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t.IsInflow() {
		return amount
	}
	return amount.Neg()
}

// TreasuryMovement is one line of the treasury ledger. Amount is always positive.
type TreasuryMovement struct {
	MovementID   string               `json:"movementID"`
	TreasuryID   string               `json:"treasuryID"`
	CompanyID    string               `json:"companyID"`
	MovementType TreasuryMovementType `json:"movementType"`
	Amount       decimal.Decimal      `json:"amount"`
	BalanceAfter decimal.Decimal      `json:"balanceAfter"`
	RefType      string               `json:"refType,omitempty"`
	RefID        *string              `json:"refID,omitempty"`
	Notes        string               `json:"notes,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	CreatedBy    string               `json:"createdBy"`
}

// Reference types recorded on ledger lines.
const (
	RefSale            = "SALE"
	RefPurchase        = "PURCHASE"
	RefSupplierPayment = "SUPPLIER_PAYMENT"
	RefCollection      = "COLLECTION"
	RefTransfer        = "TRANSFER"
	RefManual          = "MANUAL"
	RefOpening         = "OPENING"
)
