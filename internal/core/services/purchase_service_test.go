package services_test

import (
	"context"
	"testing"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/core/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/ceramica/erp_backend/internal/platform/events"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PurchaseServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	authz        *MockAuthorizer
	purchaseRepo *MockPurchaseRepository
	productRepo  *MockProductRepository
	supplierRepo *MockSupplierRepository
	treasuryRepo *MockTreasuryRepository
	publisher    *recordingPublisher
	service      portssvc.PurchaseSvcFacade
}

func (suite *PurchaseServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.authz = new(MockAuthorizer)
	suite.purchaseRepo = new(MockPurchaseRepository)
	suite.productRepo = new(MockProductRepository)
	suite.supplierRepo = new(MockSupplierRepository)
	suite.treasuryRepo = new(MockTreasuryRepository)
	suite.publisher = &recordingPublisher{}
	suite.service = services.NewPurchaseService(
		suite.purchaseRepo, suite.productRepo, suite.supplierRepo, suite.treasuryRepo,
		services.WithAuthorizer(suite.authz),
		services.WithEventPublisher(suite.publisher),
		services.WithClock(fixedClock),
	)
	suite.authz.On("AuthorizeWrite", mock.Anything, userID, companyID, mock.Anything).Return(nil)
	suite.authz.On("AuthorizeUserAction", mock.Anything, userID, companyID, mock.Anything).Return(nil)
}

func (suite *PurchaseServiceTestSuite) request() dto.PurchaseRequest {
	return dto.PurchaseRequest{
		SupplierID:         "supplier-1",
		SupplierInvoiceRef: " INV-77 ",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: "tile-1", Quantity: dec("100"), UnitCost: dec("180.5")},
		},
	}
}

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_Success() {
	suite.supplierRepo.On("FindSupplierByID", suite.ctx, companyID, "supplier-1").
		Return(&domain.Supplier{SupplierID: "supplier-1", Name: "مصنع كليوباترا", IsActive: true}, nil)
	suite.productRepo.On("FindProductsByIDs", suite.ctx, companyID, []string{"tile-1"}).
		Return(map[string]domain.Product{"tile-1": {ProductID: "tile-1", SKU: "T-60", Name: "بورسلين 60x60", IsActive: true}}, nil)
	suite.purchaseRepo.On("CreatePurchase", suite.ctx, mock.AnythingOfType("*domain.Purchase")).Return(nil).Once()

	purchase, err := suite.service.CreatePurchase(suite.ctx, companyID, suite.request(), userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, purchase.Status)
	suite.Equal("INV-77", purchase.SupplierInvoiceRef)
	suite.True(purchase.Total.Equal(dec("18050")))
	suite.True(purchase.Lines[0].UnitCost.Equal(dec("180.5")))
	suite.Nil(purchase.TreasuryID)
	suite.purchaseRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_InactiveSupplier() {
	suite.supplierRepo.On("FindSupplierByID", suite.ctx, companyID, "supplier-1").
		Return(&domain.Supplier{SupplierID: "supplier-1", Name: "مورد موقوف", IsActive: false}, nil)

	_, err := suite.service.CreatePurchase(suite.ctx, companyID, suite.request(), userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.productRepo.AssertNotCalled(suite.T(), "FindProductsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_UnknownSupplier() {
	suite.supplierRepo.On("FindSupplierByID", suite.ctx, companyID, "supplier-1").
		Return(nil, apperrors.NewNotFoundError("المورد غير موجود"))

	_, err := suite.service.CreatePurchase(suite.ctx, companyID, suite.request(), userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_InactiveTreasury() {
	suite.supplierRepo.On("FindSupplierByID", suite.ctx, companyID, "supplier-1").
		Return(&domain.Supplier{SupplierID: "supplier-1", IsActive: true}, nil)
	suite.productRepo.On("FindProductsByIDs", suite.ctx, companyID, []string{"tile-1"}).
		Return(map[string]domain.Product{"tile-1": {ProductID: "tile-1", IsActive: true}}, nil)
	suite.treasuryRepo.On("FindTreasuryByID", suite.ctx, companyID, "treasury-9").
		Return(&domain.Treasury{TreasuryID: "treasury-9", Name: "خزينة مغلقة", IsActive: false}, nil)
	req := suite.request()
	req.TreasuryID = strPtr("treasury-9")
	req.PaidAmount = dec("1000")

	_, err := suite.service.CreatePurchase(suite.ctx, companyID, req, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PurchaseServiceTestSuite) TestApprovePurchase_PublishesEvent() {
	suite.purchaseRepo.On("ApprovePurchase", suite.ctx, mock.Anything, userID, fixedClock()).Return(nil).Once()

	_, err := suite.service.ApprovePurchase(suite.ctx, companyID, "purchase-1", userID)

	suite.Require().NoError(err)
	suite.Equal([]string{events.PurchaseApproved}, suite.publisher.types())
}

func (suite *PurchaseServiceTestSuite) TestCancelPurchase_StockAlreadySold() {
	suite.purchaseRepo.On("CancelPurchase", suite.ctx, mock.Anything, "", userID, fixedClock()).
		Return(apperrors.NewInsufficientStockError("بورسلين 60x60", "10", "100"))

	_, err := suite.service.CancelPurchase(suite.ctx, companyID, "purchase-1", "", userID)

	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.Empty(suite.publisher.types())
}

func (suite *PurchaseServiceTestSuite) TestListPurchases_SupplierFilter() {
	suite.purchaseRepo.On("ListPurchases", suite.ctx, companyID, mock.MatchedBy(func(f domain.PurchaseFilter) bool {
		return f.SupplierID != nil && *f.SupplierID == "supplier-1"
	}), 200, (*string)(nil)).Return([]domain.Purchase{}, nil, nil).Once()

	_, _, err := suite.service.ListPurchases(suite.ctx, companyID, dto.ListDocumentsParams{SupplierID: strPtr("supplier-1"), Limit: 500}, userID)

	suite.Require().NoError(err)
	suite.purchaseRepo.AssertExpectations(suite.T())
}

func TestPurchaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}
