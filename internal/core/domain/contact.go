package domain

import (
	"github.com/shopspring/decimal"
)

// ContactType distinguishes customers from other financial counterparties.
type ContactType string

const (
	ContactCustomer ContactType = "CUSTOMER"
	ContactOther    ContactType = "OTHER"
)

// FinancialContact is a customer account. Balance is the amount the contact owes the company.
type FinancialContact struct {
	ContactID   string          `json:"contactID"`
	CompanyID   string          `json:"companyID"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	ContactType ContactType     `json:"contactType"`
	Balance     decimal.Decimal `json:"balance"`
	Notes       string          `json:"notes"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// ContactFilter narrows contact listings.
type ContactFilter struct {
	Search          string
	ContactType     *ContactType
	IncludeInactive bool
}
