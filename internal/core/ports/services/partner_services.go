package services

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/ceramica/erp_backend/internal/dto"
)

// SupplierSvcFacade defines supplier and supplier account operations
type SupplierSvcFacade interface {
	CreateSupplier(ctx context.Context, companyID string, req dto.CreateSupplierRequest, userID string) (*domain.Supplier, error)
	GetSupplier(ctx context.Context, companyID, supplierID, userID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, companyID string, params dto.ListPartnersParams, userID string) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, companyID, supplierID string, req dto.UpdateSupplierRequest, userID string) (*domain.Supplier, error)
	// RecordPayment pays the supplier from a treasury.
	RecordPayment(ctx context.Context, companyID, supplierID string, req dto.CashSettlementRequest, userID string) (*domain.SupplierAccountEntry, error)
	GetStatement(ctx context.Context, companyID, supplierID string, params dto.CursorParams, userID string) ([]domain.SupplierAccountEntry, *string, error)
}

// ContactSvcFacade defines customer account operations
type ContactSvcFacade interface {
	CreateContact(ctx context.Context, companyID string, req dto.CreateContactRequest, userID string) (*domain.FinancialContact, error)
	GetContact(ctx context.Context, companyID, contactID, userID string) (*domain.FinancialContact, error)
	ListContacts(ctx context.Context, companyID string, params dto.ListPartnersParams, userID string) ([]domain.FinancialContact, error)
	UpdateContact(ctx context.Context, companyID, contactID string, req dto.UpdateContactRequest, userID string) (*domain.FinancialContact, error)
	// RecordCollection collects cash owed by the contact into a treasury.
	RecordCollection(ctx context.Context, companyID, contactID string, req dto.CashSettlementRequest, userID string) (*domain.FinancialContact, error)
}
