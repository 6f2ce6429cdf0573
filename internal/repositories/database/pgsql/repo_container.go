package pgsql

import (
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository. Document repositories receive the ledger
// repositories they post to inside their own transactions.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	productRepo := newPgxProductRepository(dbPool)
	treasuryRepo := newPgxTreasuryRepository(dbPool)
	supplierRepo := newPgxSupplierRepository(dbPool, treasuryRepo)
	contactRepo := newPgxContactRepository(dbPool, treasuryRepo)
	saleRepo := newPgxSaleRepository(dbPool, productRepo, treasuryRepo, contactRepo)
	purchaseRepo := newPgxPurchaseRepository(dbPool, productRepo, treasuryRepo, supplierRepo)
	provisionalRepo := newPgxProvisionalSaleRepository(dbPool, saleRepo)

	return portsrepo.RepositoryProvider{
		UserRepo:            newPgxUserRepository(dbPool),
		CompanyRepo:         newPgxCompanyRepository(dbPool),
		ProductRepo:         productRepo,
		TreasuryRepo:        treasuryRepo,
		SupplierRepo:        supplierRepo,
		ContactRepo:         contactRepo,
		SaleRepo:            saleRepo,
		PurchaseRepo:        purchaseRepo,
		ProvisionalSaleRepo: provisionalRepo,
		StoreRepo:           newPgxStoreRepository(dbPool),
		StatsRepo:           newStatsRepository(dbPool),
		MaintenanceRepo:     newPgxMaintenanceRepository(dbPool),
	}
}
