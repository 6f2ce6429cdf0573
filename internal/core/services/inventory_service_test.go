package services_test

import (
	"context"
	"testing"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/core/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProductServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	authz       *MockAuthorizer
	productRepo *MockProductRepository
	invalidator *recordingInvalidator
	service     portssvc.ProductSvcFacade
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.authz = new(MockAuthorizer)
	suite.productRepo = new(MockProductRepository)
	suite.invalidator = &recordingInvalidator{}
	suite.service = services.NewProductService(suite.productRepo,
		services.WithAuthorizer(suite.authz),
		services.WithStatsInvalidator(suite.invalidator),
		services.WithClock(fixedClock),
	)
	suite.authz.On("AuthorizeWrite", mock.Anything, userID, companyID, mock.Anything).Return(nil)
	suite.authz.On("AuthorizeUserAction", mock.Anything, userID, companyID, mock.Anything).Return(nil)
}

func (suite *ProductServiceTestSuite) TestCreateProduct_OpeningStock() {
	suite.productRepo.On("CreateProduct", suite.ctx, mock.MatchedBy(func(p domain.Product) bool {
		return p.SKU == "T-60" && p.StockQuantity.Equal(dec("120")) && p.IsActive
	})).Return(nil).Once()

	product, err := suite.service.CreateProduct(suite.ctx, companyID, dto.CreateProductRequest{
		SKU: " T-60 ", Name: "بورسلين 60x60", Unit: "م2",
		CostPrice: dec("180"), SalePrice: dec("250"), OpeningStock: dec("120"),
	}, userID)

	suite.Require().NoError(err)
	suite.Equal("T-60", product.SKU)
	suite.Equal(1, suite.invalidator.calls[companyID])
	suite.productRepo.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestCreateProduct_DuplicateSKU() {
	suite.productRepo.On("CreateProduct", suite.ctx, mock.Anything).
		Return(apperrors.NewConflictError("كود الصنف مستخدم"))

	_, err := suite.service.CreateProduct(suite.ctx, companyID, dto.CreateProductRequest{SKU: "T-60", Name: "بورسلين", Unit: "م2"}, userID)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Zero(suite.invalidator.calls[companyID])
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_NegativePrice() {
	suite.productRepo.On("FindProductByID", suite.ctx, companyID, "tile-1").
		Return(&domain.Product{ProductID: "tile-1", Name: "بورسلين", SalePrice: dec("250"), IsActive: true}, nil)
	negative := dec("-1")

	_, err := suite.service.UpdateProduct(suite.ctx, companyID, "tile-1", dto.UpdateProductRequest{SalePrice: &negative}, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.productRepo.AssertNotCalled(suite.T(), "UpdateProduct", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestAdjustStock_RecordsAdjustment() {
	suite.productRepo.On("FindProductByID", suite.ctx, companyID, "tile-1").
		Return(&domain.Product{ProductID: "tile-1", CostPrice: dec("180"), StockQuantity: dec("10")}, nil)
	suite.productRepo.On("AdjustStock", suite.ctx, companyID,
		domain.StockChange{ProductID: "tile-1", Quantity: dec("-3"), UnitCost: dec("180"), MovementType: domain.MovementAdjustment},
		portsrepo.StockRef{RefType: domain.RefManual, Notes: "كسر"}, userID, fixedClock(),
	).Return(&domain.StockMovement{ProductID: "tile-1", Quantity: dec("-3"), BalanceAfter: dec("7")}, nil).Once()

	movement, err := suite.service.AdjustStock(suite.ctx, companyID, "tile-1", dto.StockAdjustmentRequest{Quantity: dec("-3"), Notes: " كسر "}, userID)

	suite.Require().NoError(err)
	suite.True(movement.BalanceAfter.Equal(dec("7")))
	suite.Equal(1, suite.invalidator.calls[companyID])
}

func (suite *ProductServiceTestSuite) TestAdjustStock_ZeroQuantity() {
	_, err := suite.service.AdjustStock(suite.ctx, companyID, "tile-1", dto.StockAdjustmentRequest{Quantity: dec("0"), Notes: "x"}, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ProductServiceTestSuite) TestAdjustStock_WouldGoNegative() {
	suite.productRepo.On("FindProductByID", suite.ctx, companyID, "tile-1").
		Return(&domain.Product{ProductID: "tile-1", Name: "بورسلين", StockQuantity: dec("2")}, nil)
	suite.productRepo.On("AdjustStock", suite.ctx, companyID, mock.Anything, mock.Anything, userID, fixedClock()).
		Return(nil, apperrors.NewInsufficientStockError("بورسلين", "2", "5"))

	_, err := suite.service.AdjustStock(suite.ctx, companyID, "tile-1", dto.StockAdjustmentRequest{Quantity: dec("-5"), Notes: "جرد"}, userID)

	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
}

func (suite *ProductServiceTestSuite) TestListProducts_OffsetDefaults() {
	suite.productRepo.On("ListProducts", suite.ctx, companyID, domain.ProductFilter{Search: "بورسلين", LowStockOnly: true}, 50, 0).
		Return([]domain.Product{}, nil).Once()

	_, err := suite.service.ListProducts(suite.ctx, companyID, dto.ListProductsParams{Search: " بورسلين ", LowStock: true, Offset: -4}, userID)

	suite.Require().NoError(err)
	suite.productRepo.AssertExpectations(suite.T())
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}

type TreasuryServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	authz        *MockAuthorizer
	treasuryRepo *MockTreasuryRepository
	invalidator  *recordingInvalidator
	service      portssvc.TreasurySvcFacade
}

func (suite *TreasuryServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.authz = new(MockAuthorizer)
	suite.treasuryRepo = new(MockTreasuryRepository)
	suite.invalidator = &recordingInvalidator{}
	suite.service = services.NewTreasuryService(suite.treasuryRepo,
		services.WithAuthorizer(suite.authz),
		services.WithStatsInvalidator(suite.invalidator),
		services.WithClock(fixedClock),
	)
	suite.authz.On("AuthorizeWrite", mock.Anything, userID, companyID, mock.Anything).Return(nil)
	suite.authz.On("AuthorizeUserAction", mock.Anything, userID, companyID, mock.Anything).Return(nil)
}

func (suite *TreasuryServiceTestSuite) TestCreateTreasury_OpeningBalance() {
	suite.treasuryRepo.On("CreateTreasury", suite.ctx, mock.AnythingOfType("domain.Treasury"), dec("5000")).Return(nil).Once()

	treasury, err := suite.service.CreateTreasury(suite.ctx, companyID, dto.CreateTreasuryRequest{Name: "الخزينة الرئيسية", OpeningBalance: dec("5000")}, userID)

	suite.Require().NoError(err)
	suite.True(treasury.Balance.Equal(dec("5000")))
	suite.True(treasury.IsActive)
}

func (suite *TreasuryServiceTestSuite) TestWithdraw_InsufficientBalance() {
	suite.treasuryRepo.On("RecordMovement", suite.ctx, mock.MatchedBy(func(m *domain.TreasuryMovement) bool {
		return m.MovementType == domain.TreasuryWithdrawal && m.RefType == domain.RefManual
	})).Return(apperrors.NewInsufficientBalanceError("الخزينة الرئيسية", "100"))

	_, err := suite.service.Withdraw(suite.ctx, companyID, "treasury-1", dto.TreasuryMovementRequest{Amount: dec("150")}, userID)

	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Zero(suite.invalidator.calls[companyID])
}

func (suite *TreasuryServiceTestSuite) TestDeposit_InvalidatesStats() {
	suite.treasuryRepo.On("RecordMovement", suite.ctx, mock.AnythingOfType("*domain.TreasuryMovement")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.TreasuryMovement).BalanceAfter = dec("1150")
		}).Return(nil).Once()

	movement, err := suite.service.Deposit(suite.ctx, companyID, "treasury-1", dto.TreasuryMovementRequest{Amount: dec("150"), Notes: " إيداع "}, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TreasuryDeposit, movement.MovementType)
	suite.Equal("إيداع", movement.Notes)
	suite.True(movement.BalanceAfter.Equal(dec("1150")))
	suite.Equal(1, suite.invalidator.calls[companyID])
}

func (suite *TreasuryServiceTestSuite) TestDeposit_NonPositive() {
	_, err := suite.service.Deposit(suite.ctx, companyID, "treasury-1", dto.TreasuryMovementRequest{Amount: dec("0")}, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TreasuryServiceTestSuite) TestDeposit_BelowMoneyPrecision() {
	_, err := suite.service.Deposit(suite.ctx, companyID, "treasury-1", dto.TreasuryMovementRequest{Amount: dec("0.001")}, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.treasuryRepo.AssertNotCalled(suite.T(), "RecordMovement", mock.Anything, mock.Anything)
}

func (suite *TreasuryServiceTestSuite) TestDeposit_RoundsToMoneyPrecision() {
	suite.treasuryRepo.On("RecordMovement", suite.ctx, mock.MatchedBy(func(m *domain.TreasuryMovement) bool {
		return m.Amount.String() == "150.01"
	})).Return(nil).Once()

	movement, err := suite.service.Deposit(suite.ctx, companyID, "treasury-1", dto.TreasuryMovementRequest{Amount: dec("150.0149")}, userID)

	suite.Require().NoError(err)
	suite.Equal("150.01", movement.Amount.String())
	suite.treasuryRepo.AssertExpectations(suite.T())
}

func (suite *TreasuryServiceTestSuite) TestTransfer_PairsMovements() {
	suite.treasuryRepo.On("Transfer", suite.ctx, mock.AnythingOfType("*domain.TreasuryMovement"), mock.AnythingOfType("*domain.TreasuryMovement"), fixedClock()).
		Return(nil).Once()

	movements, err := suite.service.Transfer(suite.ctx, companyID, dto.TransferRequest{
		FromTreasuryID: "treasury-1", ToTreasuryID: "treasury-2", Amount: dec("300"),
	}, userID)

	suite.Require().NoError(err)
	suite.Require().Len(movements, 2)
	suite.Equal(domain.TreasuryTransferOut, movements[0].MovementType)
	suite.Equal(domain.TreasuryTransferIn, movements[1].MovementType)
	suite.Equal(*movements[0].RefID, *movements[1].RefID)
}

func (suite *TreasuryServiceTestSuite) TestTransfer_SameTreasury() {
	_, err := suite.service.Transfer(suite.ctx, companyID, dto.TransferRequest{
		FromTreasuryID: "treasury-1", ToTreasuryID: "treasury-1", Amount: dec("300"),
	}, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.treasuryRepo.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTreasuryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TreasuryServiceTestSuite))
}
