package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ceramica/erp_backend/internal/core/domain"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) CreateUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	args := m.Called(ctx, userID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime).Error(0)
}
func (m *MockUserService) ClearRefreshToken(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *MockUserService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockTokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockTokenService) ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error) {
	args := m.Called(ctx, userID, refreshTokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockTokenService) IssueSession(ctx context.Context, user *domain.User) (*dto.LoginResponse, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

// --- Mock SaleService ---
type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) sale(args mock.Arguments) (*domain.Sale, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}
func (m *MockSaleService) CreateSale(ctx context.Context, companyID string, req dto.SaleRequest, userID string) (*domain.Sale, error) {
	return m.sale(m.Called(ctx, companyID, req, userID))
}
func (m *MockSaleService) GetSale(ctx context.Context, companyID, saleID, userID string) (*domain.Sale, error) {
	return m.sale(m.Called(ctx, companyID, saleID, userID))
}
func (m *MockSaleService) ListSales(ctx context.Context, companyID string, params dto.ListDocumentsParams, userID string) ([]domain.Sale, *string, error) {
	args := m.Called(ctx, companyID, params, userID)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Sale), next, args.Error(2)
}
func (m *MockSaleService) UpdateSale(ctx context.Context, companyID, saleID string, req dto.SaleRequest, userID string) (*domain.Sale, error) {
	return m.sale(m.Called(ctx, companyID, saleID, req, userID))
}
func (m *MockSaleService) DeleteSale(ctx context.Context, companyID, saleID, userID string) error {
	return m.Called(ctx, companyID, saleID, userID).Error(0)
}
func (m *MockSaleService) ApproveSale(ctx context.Context, companyID, saleID, userID string) (*domain.Sale, error) {
	return m.sale(m.Called(ctx, companyID, saleID, userID))
}
func (m *MockSaleService) CancelSale(ctx context.Context, companyID, saleID, reason, userID string) (*domain.Sale, error) {
	return m.sale(m.Called(ctx, companyID, saleID, reason, userID))
}

var _ portssvc.SaleSvcFacade = (*MockSaleService)(nil)

// --- Mock ProductService ---
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) product(args mock.Arguments) (*domain.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductService) CreateProduct(ctx context.Context, companyID string, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	return m.product(m.Called(ctx, companyID, req, userID))
}
func (m *MockProductService) GetProduct(ctx context.Context, companyID, productID, userID string) (*domain.Product, error) {
	return m.product(m.Called(ctx, companyID, productID, userID))
}
func (m *MockProductService) ListProducts(ctx context.Context, companyID string, params dto.ListProductsParams, userID string) ([]domain.Product, error) {
	args := m.Called(ctx, companyID, params, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}
func (m *MockProductService) UpdateProduct(ctx context.Context, companyID, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	return m.product(m.Called(ctx, companyID, productID, req, userID))
}
func (m *MockProductService) AdjustStock(ctx context.Context, companyID, productID string, req dto.StockAdjustmentRequest, userID string) (*domain.StockMovement, error) {
	args := m.Called(ctx, companyID, productID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockMovement), args.Error(1)
}
func (m *MockProductService) ListStockMovements(ctx context.Context, companyID, productID string, params dto.CursorParams, userID string) ([]domain.StockMovement, *string, error) {
	args := m.Called(ctx, companyID, productID, params, userID)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.StockMovement), next, args.Error(2)
}

var _ portssvc.ProductSvcFacade = (*MockProductService)(nil)

// --- Mock ProvisionalSaleService ---
type MockProvisionalSaleService struct {
	mock.Mock
}

func (m *MockProvisionalSaleService) provisional(args mock.Arguments) (*domain.ProvisionalSale, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProvisionalSale), args.Error(1)
}
func (m *MockProvisionalSaleService) CreateProvisionalSale(ctx context.Context, companyID string, req dto.ProvisionalSaleRequest, userID string) (*domain.ProvisionalSale, error) {
	return m.provisional(m.Called(ctx, companyID, req, userID))
}
func (m *MockProvisionalSaleService) GetProvisionalSale(ctx context.Context, companyID, provisionalSaleID, userID string) (*domain.ProvisionalSale, error) {
	return m.provisional(m.Called(ctx, companyID, provisionalSaleID, userID))
}
func (m *MockProvisionalSaleService) ListProvisionalSales(ctx context.Context, companyID string, params dto.ListProvisionalParams, userID string) ([]domain.ProvisionalSale, *string, error) {
	args := m.Called(ctx, companyID, params, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.ProvisionalSale), nil, args.Error(2)
}
func (m *MockProvisionalSaleService) UpdateProvisionalSale(ctx context.Context, companyID, provisionalSaleID string, req dto.ProvisionalSaleRequest, userID string) (*domain.ProvisionalSale, error) {
	return m.provisional(m.Called(ctx, companyID, provisionalSaleID, req, userID))
}
func (m *MockProvisionalSaleService) SubmitProvisionalSale(ctx context.Context, companyID, provisionalSaleID, userID string) (*domain.ProvisionalSale, error) {
	return m.provisional(m.Called(ctx, companyID, provisionalSaleID, userID))
}
func (m *MockProvisionalSaleService) ApproveProvisionalSale(ctx context.Context, companyID, provisionalSaleID, userID string) (*domain.ProvisionalSale, error) {
	return m.provisional(m.Called(ctx, companyID, provisionalSaleID, userID))
}
func (m *MockProvisionalSaleService) CancelProvisionalSale(ctx context.Context, companyID, provisionalSaleID, userID string) (*domain.ProvisionalSale, error) {
	return m.provisional(m.Called(ctx, companyID, provisionalSaleID, userID))
}
func (m *MockProvisionalSaleService) ConvertToSale(ctx context.Context, companyID, provisionalSaleID string, req dto.ConvertProvisionalRequest, userID string) (*domain.ProvisionalSale, *domain.Sale, error) {
	args := m.Called(ctx, companyID, provisionalSaleID, req, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.ProvisionalSale), args.Get(1).(*domain.Sale), args.Error(2)
}

var _ portssvc.ProvisionalSaleSvcFacade = (*MockProvisionalSaleService)(nil)

// --- Mock StoreService ---
type MockStoreService struct {
	mock.Mock
}

func (m *MockStoreService) store(args mock.Arguments) (*domain.ExternalStore, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExternalStore), args.Error(1)
}
func (m *MockStoreService) CreateStore(ctx context.Context, companyID string, req dto.CreateStoreRequest, userID string) (*domain.ExternalStore, error) {
	return m.store(m.Called(ctx, companyID, req, userID))
}
func (m *MockStoreService) GetStore(ctx context.Context, companyID, storeID, userID string) (*domain.ExternalStore, error) {
	return m.store(m.Called(ctx, companyID, storeID, userID))
}
func (m *MockStoreService) ListStores(ctx context.Context, companyID, userID string) ([]domain.ExternalStore, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExternalStore), args.Error(1)
}
func (m *MockStoreService) UpdateStore(ctx context.Context, companyID, storeID string, req dto.UpdateStoreRequest, userID string) (*domain.ExternalStore, error) {
	return m.store(m.Called(ctx, companyID, storeID, req, userID))
}
func (m *MockStoreService) ResetStorePassword(ctx context.Context, companyID, storeID string, req dto.ResetStorePasswordRequest, userID string) error {
	return m.Called(ctx, companyID, storeID, req, userID).Error(0)
}
func (m *MockStoreService) ListExternalInvoices(ctx context.Context, companyID string, params dto.ListProvisionalParams, userID string) ([]domain.ProvisionalSale, *string, error) {
	args := m.Called(ctx, companyID, params, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.ProvisionalSale), nil, args.Error(2)
}
func (m *MockStoreService) Login(ctx context.Context, req dto.StoreLoginRequest) (*dto.StoreLoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StoreLoginResponse), args.Error(1)
}
func (m *MockStoreService) GetPortalStore(ctx context.Context, companyID, storeID string) (*domain.ExternalStore, error) {
	return m.store(m.Called(ctx, companyID, storeID))
}
func (m *MockStoreService) Catalog(ctx context.Context, companyID, storeID string) ([]domain.CatalogItem, error) {
	args := m.Called(ctx, companyID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogItem), args.Error(1)
}
func (m *MockStoreService) SubmitInvoice(ctx context.Context, companyID, storeID string, req dto.StoreInvoiceRequest) (*domain.ProvisionalSale, error) {
	args := m.Called(ctx, companyID, storeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProvisionalSale), args.Error(1)
}
func (m *MockStoreService) ListStoreInvoices(ctx context.Context, companyID, storeID string, params dto.CursorParams) ([]domain.ProvisionalSale, *string, error) {
	args := m.Called(ctx, companyID, storeID, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.ProvisionalSale), nil, args.Error(2)
}
func (m *MockStoreService) GetStoreInvoice(ctx context.Context, companyID, storeID, provisionalSaleID string) (*domain.ProvisionalSale, error) {
	args := m.Called(ctx, companyID, storeID, provisionalSaleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProvisionalSale), args.Error(1)
}

var _ portssvc.StoreSvcFacade = (*MockStoreService)(nil)

// --- Mock StatsService ---
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetDashboardStats(ctx context.Context, companyID string, params dto.StatsParams, userID string) (*domain.DashboardStats, error) {
	args := m.Called(ctx, companyID, params, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

var _ portssvc.StatsSvc = (*MockStatsService)(nil)
