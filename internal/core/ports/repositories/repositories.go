package repositories

// RepositoryProvider holds all repository interfaces needed by services.
type RepositoryProvider struct {
	UserRepo            UserRepositoryFacade
	CompanyRepo         CompanyRepositoryFacade
	ProductRepo         ProductRepositoryFacade
	TreasuryRepo        TreasuryRepositoryFacade
	SupplierRepo        SupplierRepositoryFacade
	ContactRepo         ContactRepositoryFacade
	SaleRepo            SaleRepositoryFacade
	PurchaseRepo        PurchaseRepositoryFacade
	ProvisionalSaleRepo ProvisionalSaleRepositoryFacade
	StoreRepo           StoreRepositoryFacade
	StatsRepo           StatsReader
	MaintenanceRepo     MaintenanceRepository
}
