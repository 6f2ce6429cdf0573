package services

import (
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/platform/cache"
	"github.com/ceramica/erp_backend/internal/platform/config"
	"github.com/ceramica/erp_backend/internal/platform/events"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, cacheStore cache.Store, publisher events.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The company service is the authorizer every company-scoped service checks against
	container.Company = NewCompanyService(repos.CompanyRepo, repos.UserRepo)

	stats := NewStatsService(repos.StatsRepo, cacheStore, cfg.Cache.StatsTTL, WithAuthorizer(container.Company))
	container.Stats = stats

	scoped := []ServiceOption{
		WithAuthorizer(container.Company),
		WithEventPublisher(publisher),
		WithStatsInvalidator(stats),
	}

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg, container.User)

	container.Product = NewProductService(repos.ProductRepo, scoped...)
	container.Treasury = NewTreasuryService(repos.TreasuryRepo, scoped...)
	container.Supplier = NewSupplierService(repos.SupplierRepo, scoped...)
	container.Contact = NewContactService(repos.ContactRepo, scoped...)

	container.Sale = NewSaleService(repos.SaleRepo, repos.ProductRepo, repos.ContactRepo, repos.TreasuryRepo, scoped...)
	container.Purchase = NewPurchaseService(repos.PurchaseRepo, repos.ProductRepo, repos.SupplierRepo, repos.TreasuryRepo, scoped...)
	container.ProvisionalSale = NewProvisionalSaleService(repos.ProvisionalSaleRepo, repos.ProductRepo, repos.ContactRepo, repos.TreasuryRepo, scoped...)
	container.Store = NewStoreService(cfg, repos.StoreRepo, repos.ProvisionalSaleRepo, repos.ProductRepo, repos.ContactRepo, scoped...)

	return container
}
