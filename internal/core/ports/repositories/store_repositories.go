package repositories

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
)

// StoreReader defines read operations for external stores
type StoreReader interface {
	FindStoreByID(ctx context.Context, companyID, storeID string) (*domain.ExternalStore, error)
	FindStoreByCode(ctx context.Context, code string) (*domain.ExternalStore, error)
	ListStores(ctx context.Context, companyID string) ([]domain.ExternalStore, error)
}

// StoreWriter defines write operations for external stores
type StoreWriter interface {
	CreateStore(ctx context.Context, store domain.ExternalStore) error
	UpdateStore(ctx context.Context, store domain.ExternalStore) error
	UpdateStorePassword(ctx context.Context, companyID, storeID, passwordHash, userID string) error
}

// StoreRepositoryFacade combines all external store repository interfaces
type StoreRepositoryFacade interface {
	StoreReader
	StoreWriter
}
