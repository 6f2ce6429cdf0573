package dto

import (
	"time"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateStoreRequest registers a partner store and its portal credentials.
type CreateStoreRequest struct {
	Name      string  `json:"name" binding:"required,max=150"`
	Code      string  `json:"code" binding:"required,min=3,max=40,alphanum"`
	Password  string  `json:"password" binding:"required,min=8,max=72"`
	ContactID *string `json:"contactID"`
	Phone     string  `json:"phone" binding:"max=30"`
}

// UpdateStoreRequest uses pointers to distinguish omitted fields from zero values.
type UpdateStoreRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=150"`
	ContactID *string `json:"contactID"`
	Phone     *string `json:"phone" binding:"omitempty,max=30"`
	IsActive  *bool   `json:"isActive"`
}

// ResetStorePasswordRequest replaces the portal password of a store.
type ResetStorePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// StoreLoginRequest is the store portal login payload.
type StoreLoginRequest struct {
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StoreLoginResponse carries the store portal token.
type StoreLoginResponse struct {
	AccessToken string                `json:"accessToken"`
	ExpiresAt   time.Time             `json:"expiresAt"`
	Store       *domain.ExternalStore `json:"store"`
}

// StoreInvoiceLineRequest orders a catalogue product; the price comes from the catalogue.
type StoreInvoiceLineRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"gt=0"`
}

// StoreInvoiceRequest is an invoice submitted by an external store.
type StoreInvoiceRequest struct {
	CustomerName string                    `json:"customerName" binding:"max=150"`
	Notes        string                    `json:"notes"`
	Lines        []StoreInvoiceLineRequest `json:"lines" binding:"required,min=1,max=500,dive"`
}

// StatsParams selects the dashboard date range. Both default to the current month.
type StatsParams struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Top  int    `form:"top" binding:"gte=0,lte=50"`
}
