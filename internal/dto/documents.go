package dto

import (
	"time"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleLineRequest is one product row of a sale or provisional sale.
type SaleLineRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"gte=0"`
}

// SaleRequest creates or replaces a draft sale.
type SaleRequest struct {
	ContactID    *string           `json:"contactID"`
	CustomerName string            `json:"customerName" binding:"max=150"`
	TreasuryID   *string           `json:"treasuryID"`
	InvoiceDate  *time.Time        `json:"invoiceDate"`
	Discount     decimal.Decimal   `json:"discount" binding:"gte=0"`
	PaidAmount   decimal.Decimal   `json:"paidAmount" binding:"gte=0"`
	Notes        string            `json:"notes"`
	Lines        []SaleLineRequest `json:"lines" binding:"required,min=1,max=500,dive"`
}

// PurchaseLineRequest is one product row of a purchase.
type PurchaseLineRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"gt=0"`
	UnitCost  decimal.Decimal `json:"unitCost" binding:"gte=0"`
}

// PurchaseRequest creates or replaces a draft purchase.
type PurchaseRequest struct {
	SupplierID         string                `json:"supplierID" binding:"required"`
	SupplierInvoiceRef string                `json:"supplierInvoiceRef" binding:"max=100"`
	TreasuryID         *string               `json:"treasuryID"`
	InvoiceDate        *time.Time            `json:"invoiceDate"`
	Discount           decimal.Decimal       `json:"discount" binding:"gte=0"`
	PaidAmount         decimal.Decimal       `json:"paidAmount" binding:"gte=0"`
	Notes              string                `json:"notes"`
	Lines              []PurchaseLineRequest `json:"lines" binding:"required,min=1,max=500,dive"`
}

// ProvisionalSaleRequest creates or replaces an editable provisional sale.
// Submit creates it directly in PENDING.
type ProvisionalSaleRequest struct {
	ContactID    *string           `json:"contactID"`
	CustomerName string            `json:"customerName" binding:"max=150"`
	Discount     decimal.Decimal   `json:"discount" binding:"gte=0"`
	Notes        string            `json:"notes"`
	Submit       bool              `json:"submit"`
	Lines        []SaleLineRequest `json:"lines" binding:"required,min=1,max=500,dive"`
}

// ConvertProvisionalRequest sets the cash part of the draft sale created by a conversion.
type ConvertProvisionalRequest struct {
	TreasuryID  *string         `json:"treasuryID"`
	PaidAmount  decimal.Decimal `json:"paidAmount" binding:"gte=0"`
	InvoiceDate *time.Time      `json:"invoiceDate"`
}

// CancelDocumentRequest records why a document was cancelled.
type CancelDocumentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ListDocumentsParams defines query parameters for sale and purchase listings.
// Dates use YYYY-MM-DD and are inclusive.
type ListDocumentsParams struct {
	Status     *domain.DocumentStatus `form:"status" binding:"omitempty,oneof=DRAFT APPROVED CANCELLED"`
	From       string                 `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string                 `form:"to" binding:"omitempty,datetime=2006-01-02"`
	ContactID  *string                `form:"contactID"`
	SupplierID *string                `form:"supplierID"`
	Search     string                 `form:"search"`
	Limit      int                    `form:"limit" binding:"gte=0,lte=200"`
	NextToken  *string                `form:"nextToken"`
}

// ListProvisionalParams defines query parameters for provisional sale listings.
type ListProvisionalParams struct {
	Status    *domain.DocumentStatus    `form:"status" binding:"omitempty,oneof=DRAFT PENDING APPROVED CONVERTED CANCELLED"`
	Source    *domain.ProvisionalSource `form:"source" binding:"omitempty,oneof=INTERNAL EXTERNAL_STORE"`
	StoreID   *string                   `form:"storeID"`
	Limit     int                       `form:"limit" binding:"gte=0,lte=200"`
	NextToken *string                   `form:"nextToken"`
}

// ConvertProvisionalResponse returns both linked documents.
type ConvertProvisionalResponse struct {
	ProvisionalSale *domain.ProvisionalSale `json:"provisionalSale"`
	Sale            *domain.Sale            `json:"sale"`
}
