package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a customer invoice. Stock, treasury and customer balance change only on approval.
type Sale struct {
	SaleID            string          `json:"saleID"`
	CompanyID         string          `json:"companyID"`
	InvoiceNumber     string          `json:"invoiceNumber"`
	ContactID         *string         `json:"contactID,omitempty"`
	CustomerName      string          `json:"customerName"`
	TreasuryID        *string         `json:"treasuryID,omitempty"`
	ProvisionalSaleID *string         `json:"provisionalSaleID,omitempty"`
	InvoiceDate       time.Time       `json:"invoiceDate"`
	Status            DocumentStatus  `json:"status"`
	Lines             []SaleLine      `json:"lines"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Discount          decimal.Decimal `json:"discount"`
	Total             decimal.Decimal `json:"total"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	Notes             string          `json:"notes"`
	ApprovedAt        *time.Time      `json:"approvedAt,omitempty"`
	ApprovedBy        *string         `json:"approvedBy,omitempty"`
	CancelledAt       *time.Time      `json:"cancelledAt,omitempty"`
	CancelReason      string          `json:"cancelReason,omitempty"`
	AuditFields
}

// Remaining is the part of the total charged to the customer account.
func (s Sale) Remaining() decimal.Decimal {
	return s.Total.Sub(s.PaidAmount)
}

// SaleLine is one product row of a sale. UnitCost is snapshotted on approval.
type SaleLine struct {
	LineID      string          `json:"lineID"`
	SaleID      string          `json:"saleID"`
	ProductID   string          `json:"productID"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// SaleFilter narrows sale listings.
type SaleFilter struct {
	Status    *DocumentStatus
	ContactID *string
	From      *time.Time
	To        *time.Time
	Search    string
}
