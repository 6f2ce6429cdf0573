package services_test

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/ceramica/erp_backend/internal/platform/cache"
	"github.com/ceramica/erp_backend/internal/platform/events"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Authorizer ---

// MockAuthorizer is a mock type for the CompanyAuthorizerSvc interface
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) AuthorizeUserAction(ctx context.Context, userID, companyID string, permission domain.Permission) error {
	args := m.Called(ctx, userID, companyID, permission)
	return args.Error(0)
}

func (m *MockAuthorizer) AuthorizeWrite(ctx context.Context, userID, companyID string, permission domain.Permission) error {
	args := m.Called(ctx, userID, companyID, permission)
	return args.Error(0)
}

// --- Events and cache ---

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// recordingInvalidator counts stats invalidations per company.
type recordingInvalidator struct {
	calls map[string]int
}

func (r *recordingInvalidator) InvalidateCompanyStats(_ context.Context, companyID string) {
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[companyID]++
}

// memoryCache is an in-process cache.Store.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(string(c.data[key]), 10, 64)
	n++
	c.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (c *memoryCache) Close() error { return nil }

// --- Users and companies ---

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateUserName(ctx context.Context, userID, name string, updatedAt time.Time) error {
	return m.Called(ctx, userID, name, updatedAt).Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime).Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// MockCompanyRepository is a mock type for the CompanyRepositoryFacade interface
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) ListCompaniesByUserID(ctx context.Context, userID string, includeDisabled bool) ([]domain.Company, error) {
	args := m.Called(ctx, userID, includeDisabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) CreateCompanyWithAdmin(ctx context.Context, company domain.Company, admin domain.UserCompany) error {
	return m.Called(ctx, company, admin).Error(0)
}

func (m *MockCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	return m.Called(ctx, company).Error(0)
}

func (m *MockCompanyRepository) UpdateCompanyStatus(ctx context.Context, companyID string, isActive bool, updatedByUserID string) error {
	return m.Called(ctx, companyID, isActive, updatedByUserID).Error(0)
}

func (m *MockCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	return m.Called(ctx, membership).Error(0)
}

func (m *MockCompanyRepository) FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error) {
	args := m.Called(ctx, userID, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserCompany), args.Error(1)
}

func (m *MockCompanyRepository) ListUsersByCompanyID(ctx context.Context, companyID string) ([]domain.UserCompany, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserCompany), args.Error(1)
}

func (m *MockCompanyRepository) UpdateUserCompanyRole(ctx context.Context, userID, companyID string, role domain.CompanyRole) error {
	return m.Called(ctx, userID, companyID, role).Error(0)
}

func (m *MockCompanyRepository) FindRolePermissions(ctx context.Context, companyID string, role domain.CompanyRole) ([]domain.Permission, error) {
	args := m.Called(ctx, companyID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Permission), args.Error(1)
}

// --- Inventory and money ---

// MockProductRepository is a mock type for the ProductRepositoryFacade interface
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindProductByID(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	args := m.Called(ctx, companyID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductsByIDs(ctx context.Context, companyID string, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, companyID, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, companyID string, filter domain.ProductFilter, limit, offset int) ([]domain.Product, error) {
	args := m.Called(ctx, companyID, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListStockMovements(ctx context.Context, companyID, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	args := m.Called(ctx, companyID, productID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.StockMovement), next, args.Error(2)
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, product domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, companyID string, change domain.StockChange, ref portsrepo.StockRef, userID string, now time.Time) (*domain.StockMovement, error) {
	args := m.Called(ctx, companyID, change, ref, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockMovement), args.Error(1)
}

func (m *MockProductRepository) ApplyStockChangesInTx(ctx context.Context, tx pgx.Tx, companyID string, changes []domain.StockChange, ref portsrepo.StockRef, userID string, now time.Time) (map[string]domain.Product, error) {
	args := m.Called(ctx, tx, companyID, changes, ref, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

// MockTreasuryRepository is a mock type for the TreasuryRepositoryFacade interface
type MockTreasuryRepository struct {
	mock.Mock
}

func (m *MockTreasuryRepository) FindTreasuryByID(ctx context.Context, companyID, treasuryID string) (*domain.Treasury, error) {
	args := m.Called(ctx, companyID, treasuryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Treasury), args.Error(1)
}

func (m *MockTreasuryRepository) ListTreasuries(ctx context.Context, companyID string, includeInactive bool) ([]domain.Treasury, error) {
	args := m.Called(ctx, companyID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Treasury), args.Error(1)
}

func (m *MockTreasuryRepository) ListTreasuryMovements(ctx context.Context, companyID, treasuryID string, limit int, nextToken *string) ([]domain.TreasuryMovement, *string, error) {
	args := m.Called(ctx, companyID, treasuryID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.TreasuryMovement), next, args.Error(2)
}

func (m *MockTreasuryRepository) CreateTreasury(ctx context.Context, treasury domain.Treasury, openingBalance decimal.Decimal) error {
	return m.Called(ctx, treasury, openingBalance).Error(0)
}

func (m *MockTreasuryRepository) UpdateTreasury(ctx context.Context, treasury domain.Treasury) error {
	return m.Called(ctx, treasury).Error(0)
}

func (m *MockTreasuryRepository) RecordMovement(ctx context.Context, movement *domain.TreasuryMovement) error {
	return m.Called(ctx, movement).Error(0)
}

func (m *MockTreasuryRepository) Transfer(ctx context.Context, out, in *domain.TreasuryMovement, now time.Time) error {
	return m.Called(ctx, out, in, now).Error(0)
}

func (m *MockTreasuryRepository) ApplyTreasuryMovementInTx(ctx context.Context, tx pgx.Tx, movement *domain.TreasuryMovement) error {
	return m.Called(ctx, tx, movement).Error(0)
}

// MockSupplierRepository is a mock type for the SupplierRepositoryFacade interface
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindSupplierByID(ctx context.Context, companyID, supplierID string) (*domain.Supplier, error) {
	args := m.Called(ctx, companyID, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) ListSuppliers(ctx context.Context, companyID, search string, includeInactive bool, limit, offset int) ([]domain.Supplier, error) {
	args := m.Called(ctx, companyID, search, includeInactive, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) ListSupplierEntries(ctx context.Context, companyID, supplierID string, limit int, nextToken *string) ([]domain.SupplierAccountEntry, *string, error) {
	args := m.Called(ctx, companyID, supplierID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.SupplierAccountEntry), next, args.Error(2)
}

func (m *MockSupplierRepository) CreateSupplier(ctx context.Context, supplier domain.Supplier, opening *domain.SupplierAccountEntry) error {
	return m.Called(ctx, supplier, opening).Error(0)
}

func (m *MockSupplierRepository) UpdateSupplier(ctx context.Context, supplier domain.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

func (m *MockSupplierRepository) RecordPayment(ctx context.Context, entry *domain.SupplierAccountEntry, withdrawal *domain.TreasuryMovement) error {
	return m.Called(ctx, entry, withdrawal).Error(0)
}

func (m *MockSupplierRepository) PostSupplierEntryInTx(ctx context.Context, tx pgx.Tx, entry *domain.SupplierAccountEntry) error {
	return m.Called(ctx, tx, entry).Error(0)
}

// MockContactRepository is a mock type for the ContactRepositoryFacade interface
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindContactByID(ctx context.Context, companyID, contactID string) (*domain.FinancialContact, error) {
	args := m.Called(ctx, companyID, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialContact), args.Error(1)
}

func (m *MockContactRepository) ListContacts(ctx context.Context, companyID string, filter domain.ContactFilter, limit, offset int) ([]domain.FinancialContact, error) {
	args := m.Called(ctx, companyID, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialContact), args.Error(1)
}

func (m *MockContactRepository) CreateContact(ctx context.Context, contact domain.FinancialContact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *MockContactRepository) UpdateContact(ctx context.Context, contact domain.FinancialContact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *MockContactRepository) RecordCollection(ctx context.Context, companyID, contactID string, deposit *domain.TreasuryMovement) error {
	return m.Called(ctx, companyID, contactID, deposit).Error(0)
}

func (m *MockContactRepository) AdjustContactBalanceInTx(ctx context.Context, tx pgx.Tx, companyID, contactID string, delta decimal.Decimal, allowNegative bool, userID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, companyID, contactID, delta, allowNegative, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Documents ---

// MockSaleRepository is a mock type for the SaleRepositoryFacade interface
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindSaleByID(ctx context.Context, companyID, saleID string) (*domain.Sale, error) {
	args := m.Called(ctx, companyID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockSaleRepository) ListSales(ctx context.Context, companyID string, filter domain.SaleFilter, limit int, nextToken *string) ([]domain.Sale, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.Sale), next, args.Error(2)
}

func (m *MockSaleRepository) CreateSale(ctx context.Context, sale *domain.Sale) error {
	return m.Called(ctx, sale).Error(0)
}

func (m *MockSaleRepository) UpdateDraftSale(ctx context.Context, sale *domain.Sale) error {
	return m.Called(ctx, sale).Error(0)
}

func (m *MockSaleRepository) DeleteDraftSale(ctx context.Context, companyID, saleID string) error {
	return m.Called(ctx, companyID, saleID).Error(0)
}

func (m *MockSaleRepository) ApproveSale(ctx context.Context, sale *domain.Sale, userID string, now time.Time) error {
	return m.Called(ctx, sale, userID, now).Error(0)
}

func (m *MockSaleRepository) CancelSale(ctx context.Context, sale *domain.Sale, reason, userID string, now time.Time) error {
	return m.Called(ctx, sale, reason, userID, now).Error(0)
}

func (m *MockSaleRepository) CreateSaleInTx(ctx context.Context, tx pgx.Tx, sale *domain.Sale) error {
	return m.Called(ctx, tx, sale).Error(0)
}

// MockPurchaseRepository is a mock type for the PurchaseRepositoryFacade interface
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) FindPurchaseByID(ctx context.Context, companyID, purchaseID string) (*domain.Purchase, error) {
	args := m.Called(ctx, companyID, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) ListPurchases(ctx context.Context, companyID string, filter domain.PurchaseFilter, limit int, nextToken *string) ([]domain.Purchase, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.Purchase), next, args.Error(2)
}

func (m *MockPurchaseRepository) CreatePurchase(ctx context.Context, purchase *domain.Purchase) error {
	return m.Called(ctx, purchase).Error(0)
}

func (m *MockPurchaseRepository) UpdateDraftPurchase(ctx context.Context, purchase *domain.Purchase) error {
	return m.Called(ctx, purchase).Error(0)
}

func (m *MockPurchaseRepository) DeleteDraftPurchase(ctx context.Context, companyID, purchaseID string) error {
	return m.Called(ctx, companyID, purchaseID).Error(0)
}

func (m *MockPurchaseRepository) ApprovePurchase(ctx context.Context, purchase *domain.Purchase, userID string, now time.Time) error {
	return m.Called(ctx, purchase, userID, now).Error(0)
}

func (m *MockPurchaseRepository) CancelPurchase(ctx context.Context, purchase *domain.Purchase, reason, userID string, now time.Time) error {
	return m.Called(ctx, purchase, reason, userID, now).Error(0)
}

// MockProvisionalSaleRepository is a mock type for the ProvisionalSaleRepositoryFacade interface
type MockProvisionalSaleRepository struct {
	mock.Mock
}

func (m *MockProvisionalSaleRepository) FindProvisionalSaleByID(ctx context.Context, companyID, provisionalSaleID string) (*domain.ProvisionalSale, error) {
	args := m.Called(ctx, companyID, provisionalSaleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProvisionalSale), args.Error(1)
}

func (m *MockProvisionalSaleRepository) ListProvisionalSales(ctx context.Context, companyID string, filter domain.ProvisionalSaleFilter, limit int, nextToken *string) ([]domain.ProvisionalSale, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.ProvisionalSale), next, args.Error(2)
}

func (m *MockProvisionalSaleRepository) CreateProvisionalSale(ctx context.Context, sale *domain.ProvisionalSale) error {
	return m.Called(ctx, sale).Error(0)
}

func (m *MockProvisionalSaleRepository) UpdateProvisionalSale(ctx context.Context, sale *domain.ProvisionalSale) error {
	return m.Called(ctx, sale).Error(0)
}

func (m *MockProvisionalSaleRepository) UpdateProvisionalStatus(ctx context.Context, companyID, provisionalSaleID string, expected []domain.DocumentStatus, target domain.DocumentStatus, userID string, now time.Time) error {
	return m.Called(ctx, companyID, provisionalSaleID, expected, target, userID, now).Error(0)
}

func (m *MockProvisionalSaleRepository) ConvertToSale(ctx context.Context, provisional *domain.ProvisionalSale, sale *domain.Sale, userID string, now time.Time) error {
	return m.Called(ctx, provisional, sale, userID, now).Error(0)
}

// MockStoreRepository is a mock type for the StoreRepositoryFacade interface
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindStoreByID(ctx context.Context, companyID, storeID string) (*domain.ExternalStore, error) {
	args := m.Called(ctx, companyID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExternalStore), args.Error(1)
}

func (m *MockStoreRepository) FindStoreByCode(ctx context.Context, code string) (*domain.ExternalStore, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExternalStore), args.Error(1)
}

func (m *MockStoreRepository) ListStores(ctx context.Context, companyID string) ([]domain.ExternalStore, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExternalStore), args.Error(1)
}

func (m *MockStoreRepository) CreateStore(ctx context.Context, store domain.ExternalStore) error {
	return m.Called(ctx, store).Error(0)
}

func (m *MockStoreRepository) UpdateStore(ctx context.Context, store domain.ExternalStore) error {
	return m.Called(ctx, store).Error(0)
}

func (m *MockStoreRepository) UpdateStorePassword(ctx context.Context, companyID, storeID, passwordHash, userID string) error {
	return m.Called(ctx, companyID, storeID, passwordHash, userID).Error(0)
}

// MockStatsRepository is a mock type for the StatsReader interface
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) GetDashboardStats(ctx context.Context, companyID string, dateRange domain.DateRange, topN int) (*domain.DashboardStats, error) {
	args := m.Called(ctx, companyID, dateRange, topN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

// --- Fixtures ---

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
}

var (
	_ portsrepo.UserRepositoryFacade            = (*MockUserRepository)(nil)
	_ portsrepo.CompanyRepositoryFacade         = (*MockCompanyRepository)(nil)
	_ portsrepo.ProductRepositoryFacade         = (*MockProductRepository)(nil)
	_ portsrepo.TreasuryRepositoryFacade        = (*MockTreasuryRepository)(nil)
	_ portsrepo.SupplierRepositoryFacade        = (*MockSupplierRepository)(nil)
	_ portsrepo.ContactRepositoryFacade         = (*MockContactRepository)(nil)
	_ portsrepo.SaleRepositoryFacade            = (*MockSaleRepository)(nil)
	_ portsrepo.PurchaseRepositoryFacade        = (*MockPurchaseRepository)(nil)
	_ portsrepo.ProvisionalSaleRepositoryFacade = (*MockProvisionalSaleRepository)(nil)
	_ portsrepo.StoreRepositoryFacade           = (*MockStoreRepository)(nil)
	_ portsrepo.StatsReader                     = (*MockStatsRepository)(nil)
	_ cache.Store                               = (*memoryCache)(nil)
	_ events.Publisher                          = (*recordingPublisher)(nil)
)
