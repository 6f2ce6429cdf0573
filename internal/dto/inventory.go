package dto

import (
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the data needed to create a product.
type CreateProductRequest struct {
	SKU          string          `json:"sku" binding:"required,max=64"`
	Name         string          `json:"name" binding:"required,max=200"`
	Category     string          `json:"category" binding:"max=100"`
	Unit         string          `json:"unit" binding:"required,max=20"`
	CostPrice    decimal.Decimal `json:"costPrice" binding:"gte=0"`
	SalePrice    decimal.Decimal `json:"salePrice" binding:"gte=0"`
	OpeningStock decimal.Decimal `json:"openingStock" binding:"gte=0"`
	MinStock     decimal.Decimal `json:"minStock" binding:"gte=0"`
}

// UpdateProductRequest never touches stock; quantities only change through movements.
type UpdateProductRequest struct {
	Name      *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Category  *string          `json:"category" binding:"omitempty,max=100"`
	Unit      *string          `json:"unit" binding:"omitempty,min=1,max=20"`
	CostPrice *decimal.Decimal `json:"costPrice" binding:"omitempty,gte=0"`
	SalePrice *decimal.Decimal `json:"salePrice" binding:"omitempty,gte=0"`
	MinStock  *decimal.Decimal `json:"minStock" binding:"omitempty,gte=0"`
	IsActive  *bool            `json:"isActive"`
}

// ListProductsParams defines query parameters for listing products.
type ListProductsParams struct {
	Search          string `form:"search"`
	Category        string `form:"category"`
	LowStock        bool   `form:"lowStock"`
	IncludeInactive bool   `form:"includeInactive"`
	Limit           int    `form:"limit,default=50" binding:"gte=0,lte=200"`
	Offset          int    `form:"offset,default=0" binding:"gte=0"`
}

// StockAdjustmentRequest is a manual signed stock correction.
type StockAdjustmentRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes" binding:"required,max=500"`
}

// CreateTreasuryRequest defines the data needed to open a treasury.
type CreateTreasuryRequest struct {
	Name           string          `json:"name" binding:"required,max=100"`
	Description    string          `json:"description"`
	OpeningBalance decimal.Decimal `json:"openingBalance" binding:"gte=0"`
}

// UpdateTreasuryRequest uses pointers to distinguish omitted fields from zero values.
type UpdateTreasuryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// TreasuryMovementRequest is a manual deposit or withdrawal.
type TreasuryMovementRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"gt=0"`
	Notes  string          `json:"notes" binding:"max=500"`
}

// TransferRequest moves cash between two treasuries of the same company.
type TransferRequest struct {
	FromTreasuryID string          `json:"fromTreasuryID" binding:"required"`
	ToTreasuryID   string          `json:"toTreasuryID" binding:"required,nefield=FromTreasuryID"`
	Amount         decimal.Decimal `json:"amount" binding:"gt=0"`
	Notes          string          `json:"notes" binding:"max=500"`
}

// CursorParams defines query parameters for ledger listings.
type CursorParams struct {
	Limit     int     `form:"limit" binding:"gte=0,lte=200"`
	NextToken *string `form:"nextToken"`
}

// PageResponse wraps a cursor-paginated listing.
type PageResponse[T any] struct {
	Items     []T     `json:"items"`
	NextToken *string `json:"nextToken,omitempty"`
}

// NewPage never returns a nil Items slice, so clients always receive an array.
func NewPage[T any](items []T, nextToken *string) PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PageResponse[T]{Items: items, NextToken: nextToken}
}
