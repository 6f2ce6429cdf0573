package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is a vendor the company buys from. Balance is the amount owed to the supplier.
type Supplier struct {
	SupplierID string          `json:"supplierID"`
	CompanyID  string          `json:"companyID"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Address    string          `json:"address"`
	Notes      string          `json:"notes"`
	Balance    decimal.Decimal `json:"balance"`
	IsActive   bool            `json:"isActive"`
	AuditFields
}

// EntryType is the side of a supplier account entry.
type EntryType string

const (
	Debit  EntryType = "DEBIT"  // decreases what we owe (payments, returns)
	Credit EntryType = "CREDIT" // increases what we owe (purchases)
)

// Signed returns the effect of an entry of this type on the supplier balance.
func (e EntryType) Signed(amount decimal.Decimal) decimal.Decimal {
	if e == Debit {
		return amount.Neg()
	}
	return amount
}

// SupplierAccountEntry is one line of a supplier statement.
type SupplierAccountEntry struct {
	EntryID      string          `json:"entryID"`
	SupplierID   string          `json:"supplierID"`
	CompanyID    string          `json:"companyID"`
	EntryType    EntryType       `json:"entryType"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Description  string          `json:"description"`
	RefType      string          `json:"refType,omitempty"`
	RefID        *string         `json:"refID,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}
