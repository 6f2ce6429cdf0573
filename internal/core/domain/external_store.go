package domain

import "github.com/shopspring/decimal"

// ExternalStore is a partner shop that submits invoices through the store portal.
type ExternalStore struct {
	StoreID      string  `json:"storeID"`
	CompanyID    string  `json:"companyID"`
	Name         string  `json:"name"`
	Code         string  `json:"code"` // login code, unique across companies
	PasswordHash string  `json:"-"`
	ContactID    *string `json:"contactID,omitempty"`
	Phone        string  `json:"phone"`
	IsActive     bool    `json:"isActive"`
	AuditFields
}

// CatalogItem is the product view exposed to external stores.
type CatalogItem struct {
	ProductID string          `json:"productID"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	SalePrice decimal.Decimal `json:"salePrice"`
	Available bool            `json:"available"`
}
