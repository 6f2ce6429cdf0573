package dto

import (
	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSupplierRequest defines the data needed to create a supplier.
type CreateSupplierRequest struct {
	Name           string          `json:"name" binding:"required,max=150"`
	Phone          string          `json:"phone" binding:"max=30"`
	Address        string          `json:"address"`
	Notes          string          `json:"notes"`
	OpeningBalance decimal.Decimal `json:"openingBalance" binding:"gte=0"`
}

// UpdateSupplierRequest uses pointers to distinguish omitted fields from zero values.
type UpdateSupplierRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=150"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

// ListPartnersParams defines query parameters for supplier and contact listings.
type ListPartnersParams struct {
	Search          string              `form:"search"`
	Type            *domain.ContactType `form:"type" binding:"omitempty,oneof=CUSTOMER OTHER"`
	IncludeInactive bool                `form:"includeInactive"`
	Limit           int                 `form:"limit,default=50" binding:"gte=0,lte=200"`
	Offset          int                 `form:"offset,default=0" binding:"gte=0"`
}

// CashSettlementRequest is a supplier payment or a customer collection through a treasury.
type CashSettlementRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"gt=0"`
	TreasuryID string          `json:"treasuryID" binding:"required"`
	Notes      string          `json:"notes" binding:"max=500"`
}

// CreateContactRequest defines the data needed to create a financial contact.
type CreateContactRequest struct {
	Name        string             `json:"name" binding:"required,max=150"`
	Phone       string             `json:"phone" binding:"max=30"`
	Address     string             `json:"address"`
	ContactType domain.ContactType `json:"contactType" binding:"omitempty,oneof=CUSTOMER OTHER"`
	Notes       string             `json:"notes"`
}

// UpdateContactRequest uses pointers to distinguish omitted fields from zero values.
type UpdateContactRequest struct {
	Name        *string             `json:"name" binding:"omitempty,min=1,max=150"`
	Phone       *string             `json:"phone" binding:"omitempty,max=30"`
	Address     *string             `json:"address"`
	ContactType *domain.ContactType `json:"contactType" binding:"omitempty,oneof=CUSTOMER OTHER"`
	Notes       *string             `json:"notes"`
	IsActive    *bool               `json:"isActive"`
}
