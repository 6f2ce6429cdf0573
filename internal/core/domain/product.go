package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stock item (tile, sanitary ware, adhesive...) sold by a company.
type Product struct {
	ProductID     string          `json:"productID"`
	CompanyID     string          `json:"companyID"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"` // e.g. m2, piece, box
	CostPrice     decimal.Decimal `json:"costPrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	StockQuantity decimal.Decimal `json:"stockQuantity"`
	MinStock      decimal.Decimal `json:"minStock"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}

// IsLowStock reports whether the quantity on hand reached the reorder level.
func (p Product) IsLowStock() bool {
	return p.StockQuantity.LessThanOrEqual(p.MinStock)
}

// StockMovementType classifies a change of quantity on hand.
type StockMovementType string

const (
	MovementOpening        StockMovementType = "OPENING"
	MovementPurchase       StockMovementType = "PURCHASE"
	MovementPurchaseCancel StockMovementType = "PURCHASE_CANCEL"
	MovementSale           StockMovementType = "SALE"
	MovementSaleCancel     StockMovementType = "SALE_CANCEL"
	MovementAdjustment     StockMovementType = "ADJUSTMENT"
)

// StockMovement is one line of the product stock ledger.
// Quantity is signed; BalanceAfter equals the product stock right after the movement.
type StockMovement struct {
	MovementID   string            `json:"movementID"`
	CompanyID    string            `json:"companyID"`
	ProductID    string            `json:"productID"`
	MovementType StockMovementType `json:"movementType"`
	Quantity     decimal.Decimal   `json:"quantity"`
	BalanceAfter decimal.Decimal   `json:"balanceAfter"`
	UnitCost     decimal.Decimal   `json:"unitCost"`
	RefType      string            `json:"refType,omitempty"`
	RefID        *string           `json:"refID,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	CreatedBy    string            `json:"createdBy"`
}

// StockChange is a requested signed quantity change applied by a repository under row lock.
type StockChange struct {
	ProductID    string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	MovementType StockMovementType
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Search          string
	Category        string
	LowStockOnly    bool
	IncludeInactive bool
}
