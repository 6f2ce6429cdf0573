package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/core/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/ceramica/erp_backend/internal/platform/config"
	"github.com/ceramica/erp_backend/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "store-service-test-secret-32-bytes!"

type StoreServiceTestSuite struct {
	suite.Suite
	ctx             context.Context
	authz           *MockAuthorizer
	storeRepo       *MockStoreRepository
	provisionalRepo *MockProvisionalSaleRepository
	productRepo     *MockProductRepository
	contactRepo     *MockContactRepository
	publisher       *recordingPublisher
	invalidator     *recordingInvalidator
	service         portssvc.StoreSvcFacade
	passwordHash    string
}

func (suite *StoreServiceTestSuite) SetupSuite() {
	hash, err := utils.HashPassword("store-pass-123")
	suite.Require().NoError(err)
	suite.passwordHash = hash
}

func (suite *StoreServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.authz = new(MockAuthorizer)
	suite.storeRepo = new(MockStoreRepository)
	suite.provisionalRepo = new(MockProvisionalSaleRepository)
	suite.productRepo = new(MockProductRepository)
	suite.contactRepo = new(MockContactRepository)
	suite.publisher = &recordingPublisher{}
	suite.invalidator = &recordingInvalidator{}
	cfg := &config.Config{JWTSecret: testJWTSecret, JWTIssuer: "erp-test", StoreJWTExpiryDuration: 2 * time.Hour}
	suite.service = services.NewStoreService(cfg,
		suite.storeRepo, suite.provisionalRepo, suite.productRepo, suite.contactRepo,
		services.WithAuthorizer(suite.authz),
		services.WithEventPublisher(suite.publisher),
		services.WithStatsInvalidator(suite.invalidator),
		services.WithClock(fixedClock),
	)
	suite.authz.On("AuthorizeWrite", mock.Anything, userID, companyID, mock.Anything).Return(nil)
	suite.authz.On("AuthorizeUserAction", mock.Anything, userID, companyID, mock.Anything).Return(nil)
}

func (suite *StoreServiceTestSuite) store(active bool) *domain.ExternalStore {
	return &domain.ExternalStore{
		StoreID:      "store-1",
		CompanyID:    companyID,
		Name:         "معرض الأمل",
		Code:         "AMAL01",
		PasswordHash: suite.passwordHash,
		ContactID:    strPtr("contact-9"),
		IsActive:     active,
	}
}

func (suite *StoreServiceTestSuite) TestCreateStore_HashesPassword() {
	suite.storeRepo.On("CreateStore", suite.ctx, mock.MatchedBy(func(s domain.ExternalStore) bool {
		return s.Code == "AMAL01" && s.PasswordHash != "" && s.PasswordHash != "store-pass-123" &&
			utils.CheckPasswordHash("store-pass-123", s.PasswordHash)
	})).Return(nil).Once()

	store, err := suite.service.CreateStore(suite.ctx, companyID, dto.CreateStoreRequest{
		Name: "معرض الأمل", Code: "AMAL01", Password: "store-pass-123",
	}, userID)

	suite.Require().NoError(err)
	suite.True(store.IsActive)
	suite.Nil(store.ContactID)
	suite.storeRepo.AssertExpectations(suite.T())
}

func (suite *StoreServiceTestSuite) TestLogin_Success() {
	suite.storeRepo.On("FindStoreByCode", suite.ctx, "AMAL01").Return(suite.store(true), nil)

	res, err := suite.service.Login(suite.ctx, dto.StoreLoginRequest{Code: " AMAL01 ", Password: "store-pass-123"})

	suite.Require().NoError(err)
	claims, err := utils.ParseStoreJWT(res.AccessToken, testJWTSecret)
	suite.Require().NoError(err)
	suite.Equal("store-1", claims.Subject)
	suite.Equal(companyID, claims.CompanyID)
}

func (suite *StoreServiceTestSuite) TestLogin_FailuresLookIdentical() {
	suite.storeRepo.On("FindStoreByCode", suite.ctx, "UNKNOWN").Return(nil, apperrors.NewNotFoundError("غير موجود"))
	suite.storeRepo.On("FindStoreByCode", suite.ctx, "AMAL01").Return(suite.store(true), nil).Once()
	suite.storeRepo.On("FindStoreByCode", suite.ctx, "AMAL02").Return(suite.store(false), nil).Once()

	_, unknownErr := suite.service.Login(suite.ctx, dto.StoreLoginRequest{Code: "UNKNOWN", Password: "x"})
	_, wrongPassErr := suite.service.Login(suite.ctx, dto.StoreLoginRequest{Code: "AMAL01", Password: "wrong-pass"})
	_, inactiveErr := suite.service.Login(suite.ctx, dto.StoreLoginRequest{Code: "AMAL02", Password: "store-pass-123"})

	for _, err := range []error{unknownErr, wrongPassErr, inactiveErr} {
		suite.ErrorIs(err, apperrors.ErrUnauthorized)
		suite.Equal(unknownErr.Error(), err.Error())
	}
}

func (suite *StoreServiceTestSuite) TestCatalog_HidesStockLevels() {
	suite.storeRepo.On("FindStoreByID", suite.ctx, companyID, "store-1").Return(suite.store(true), nil)
	suite.productRepo.On("ListProducts", suite.ctx, companyID, domain.ProductFilter{}, 200, 0).Return([]domain.Product{
		{ProductID: "tile-1", Name: "بورسلين", SalePrice: dec("250"), StockQuantity: dec("40")},
		{ProductID: "tile-2", Name: "سيراميك حوائط", SalePrice: dec("120"), StockQuantity: dec("0")},
	}, nil)

	items, err := suite.service.Catalog(suite.ctx, companyID, "store-1")

	suite.Require().NoError(err)
	suite.Require().Len(items, 2)
	suite.True(items[0].Available)
	suite.False(items[1].Available)
}

func (suite *StoreServiceTestSuite) TestPortal_InactiveStoreRejected() {
	suite.storeRepo.On("FindStoreByID", suite.ctx, companyID, "store-1").Return(suite.store(false), nil)

	_, err := suite.service.Catalog(suite.ctx, companyID, "store-1")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *StoreServiceTestSuite) TestSubmitInvoice_UsesCataloguePrices() {
	suite.storeRepo.On("FindStoreByID", suite.ctx, companyID, "store-1").Return(suite.store(true), nil)
	suite.productRepo.On("FindProductsByIDs", suite.ctx, companyID, []string{"tile-1"}).
		Return(map[string]domain.Product{"tile-1": {ProductID: "tile-1", Name: "بورسلين", SalePrice: dec("250"), IsActive: true}}, nil)
	suite.provisionalRepo.On("CreateProvisionalSale", suite.ctx, mock.AnythingOfType("*domain.ProvisionalSale")).Return(nil).Once()

	p, err := suite.service.SubmitInvoice(suite.ctx, companyID, "store-1", dto.StoreInvoiceRequest{
		Lines: []dto.StoreInvoiceLineRequest{{ProductID: "tile-1", Quantity: dec("3")}},
	})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, p.Status)
	suite.Equal(domain.SourceExternalStore, p.Source)
	suite.Equal("store-1", *p.StoreID)
	suite.Equal("contact-9", *p.ContactID)
	suite.Equal("معرض الأمل", p.CustomerName)
	suite.True(p.Lines[0].UnitPrice.Equal(dec("250")))
	suite.True(p.Total.Equal(dec("750")))
	suite.Len(suite.publisher.types(), 1)
	suite.Equal(1, suite.invalidator.calls[companyID], "a new PENDING invoice changes the dashboard")
}

func (suite *StoreServiceTestSuite) TestGetStoreInvoice_OtherStoreIsNotFound() {
	suite.storeRepo.On("FindStoreByID", suite.ctx, companyID, "store-1").Return(suite.store(true), nil)
	suite.provisionalRepo.On("FindProvisionalSaleByID", suite.ctx, companyID, "prv-5").
		Return(&domain.ProvisionalSale{ProvisionalSaleID: "prv-5", StoreID: strPtr("store-2")}, nil)

	_, err := suite.service.GetStoreInvoice(suite.ctx, companyID, "store-1", "prv-5")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *StoreServiceTestSuite) TestListExternalInvoices_ForcesSource() {
	suite.provisionalRepo.On("ListProvisionalSales", suite.ctx, companyID, mock.MatchedBy(func(f domain.ProvisionalSaleFilter) bool {
		return f.Source != nil && *f.Source == domain.SourceExternalStore
	}), 20, (*string)(nil)).Return([]domain.ProvisionalSale{}, nil, nil).Once()

	_, _, err := suite.service.ListExternalInvoices(suite.ctx, companyID, dto.ListProvisionalParams{}, userID)

	suite.Require().NoError(err)
	suite.provisionalRepo.AssertExpectations(suite.T())
}

func TestStoreServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StoreServiceTestSuite))
}
