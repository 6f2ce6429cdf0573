package services

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/ceramica/erp_backend/internal/dto"
)

// StoreAdminSvc lets company staff manage partner stores
type StoreAdminSvc interface {
	CreateStore(ctx context.Context, companyID string, req dto.CreateStoreRequest, userID string) (*domain.ExternalStore, error)
	GetStore(ctx context.Context, companyID, storeID, userID string) (*domain.ExternalStore, error)
	ListStores(ctx context.Context, companyID, userID string) ([]domain.ExternalStore, error)
	UpdateStore(ctx context.Context, companyID, storeID string, req dto.UpdateStoreRequest, userID string) (*domain.ExternalStore, error)
	ResetStorePassword(ctx context.Context, companyID, storeID string, req dto.ResetStorePasswordRequest, userID string) error
	// ListExternalInvoices lists provisional sales submitted through the portal.
	ListExternalInvoices(ctx context.Context, companyID string, params dto.ListProvisionalParams, userID string) ([]domain.ProvisionalSale, *string, error)
}

// StorePortalSvc serves authenticated external stores
type StorePortalSvc interface {
	// Login checks the store code and password. Unknown codes, wrong passwords and
	// inactive stores fail identically.
	Login(ctx context.Context, req dto.StoreLoginRequest) (*dto.StoreLoginResponse, error)
	GetPortalStore(ctx context.Context, companyID, storeID string) (*domain.ExternalStore, error)
	Catalog(ctx context.Context, companyID, storeID string) ([]domain.CatalogItem, error)
	SubmitInvoice(ctx context.Context, companyID, storeID string, req dto.StoreInvoiceRequest) (*domain.ProvisionalSale, error)
	ListStoreInvoices(ctx context.Context, companyID, storeID string, params dto.CursorParams) ([]domain.ProvisionalSale, *string, error)
	// GetStoreInvoice returns ErrNotFound for invoices of other stores.
	GetStoreInvoice(ctx context.Context, companyID, storeID, provisionalSaleID string) (*domain.ProvisionalSale, error)
}

// StoreSvcFacade combines the company and portal sides of external stores
type StoreSvcFacade interface {
	StoreAdminSvc
	StorePortalSvc
}
