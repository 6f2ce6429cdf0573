package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is a supplier invoice. Stock, costs, supplier balance and treasury change on approval.
type Purchase struct {
	PurchaseID         string          `json:"purchaseID"`
	CompanyID          string          `json:"companyID"`
	InvoiceNumber      string          `json:"invoiceNumber"`
	SupplierID         string          `json:"supplierID"`
	SupplierInvoiceRef string          `json:"supplierInvoiceRef"`
	TreasuryID         *string         `json:"treasuryID,omitempty"`
	InvoiceDate        time.Time       `json:"invoiceDate"`
	Status             DocumentStatus  `json:"status"`
	Lines              []PurchaseLine  `json:"lines"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Discount           decimal.Decimal `json:"discount"`
	Total              decimal.Decimal `json:"total"`
	PaidAmount         decimal.Decimal `json:"paidAmount"`
	Notes              string          `json:"notes"`
	ApprovedAt         *time.Time      `json:"approvedAt,omitempty"`
	ApprovedBy         *string         `json:"approvedBy,omitempty"`
	CancelledAt        *time.Time      `json:"cancelledAt,omitempty"`
	CancelReason       string          `json:"cancelReason,omitempty"`
	AuditFields
}

// PurchaseLine is one product row of a purchase.
type PurchaseLine struct {
	LineID      string          `json:"lineID"`
	PurchaseID  string          `json:"purchaseID"`
	ProductID   string          `json:"productID"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// PurchaseFilter narrows purchase listings.
type PurchaseFilter struct {
	Status     *DocumentStatus
	SupplierID *string
	From       *time.Time
	To         *time.Time
	Search     string
}
