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

type SaleServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	authz        *MockAuthorizer
	saleRepo     *MockSaleRepository
	productRepo  *MockProductRepository
	contactRepo  *MockContactRepository
	treasuryRepo *MockTreasuryRepository
	publisher    *recordingPublisher
	invalidator  *recordingInvalidator
	service      portssvc.SaleSvcFacade
}

const (
	companyID = "company-1"
	userID    = "user-1"
)

func (suite *SaleServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.authz = new(MockAuthorizer)
	suite.saleRepo = new(MockSaleRepository)
	suite.productRepo = new(MockProductRepository)
	suite.contactRepo = new(MockContactRepository)
	suite.treasuryRepo = new(MockTreasuryRepository)
	suite.publisher = &recordingPublisher{}
	suite.invalidator = &recordingInvalidator{}
	suite.service = services.NewSaleService(
		suite.saleRepo, suite.productRepo, suite.contactRepo, suite.treasuryRepo,
		services.WithAuthorizer(suite.authz),
		services.WithEventPublisher(suite.publisher),
		services.WithStatsInvalidator(suite.invalidator),
		services.WithClock(fixedClock),
	)
}

func (suite *SaleServiceTestSuite) allow(perm domain.Permission) {
	suite.authz.On("AuthorizeWrite", suite.ctx, userID, companyID, perm).Return(nil)
	suite.authz.On("AuthorizeUserAction", suite.ctx, userID, companyID, perm).Return(nil)
}

func (suite *SaleServiceTestSuite) catalogue() {
	suite.productRepo.On("FindProductsByIDs", suite.ctx, companyID, []string{"tile-1", "glue-1"}).Return(map[string]domain.Product{
		"tile-1": {ProductID: "tile-1", SKU: "T-60", Name: "بورسلين 60x60", SalePrice: dec("250"), IsActive: true},
		"glue-1": {ProductID: "glue-1", SKU: "G-20", Name: "لاصق سيراميك", SalePrice: dec("90"), IsActive: true},
	}, nil)
}

func (suite *SaleServiceTestSuite) request() dto.SaleRequest {
	return dto.SaleRequest{
		ContactID:  strPtr("contact-1"),
		TreasuryID: strPtr("treasury-1"),
		Discount:   dec("20"),
		PaidAmount: dec("500"),
		Lines: []dto.SaleLineRequest{
			{ProductID: "tile-1", Quantity: dec("3"), UnitPrice: dec("250")},
			{ProductID: "glue-1", Quantity: dec("2"), UnitPrice: dec("90")},
		},
	}
}

func (suite *SaleServiceTestSuite) TestCreateSale_Success() {
	suite.allow(domain.PermSalesWrite)
	suite.catalogue()
	suite.treasuryRepo.On("FindTreasuryByID", suite.ctx, companyID, "treasury-1").
		Return(&domain.Treasury{TreasuryID: "treasury-1", Name: "الخزينة الرئيسية", IsActive: true}, nil)
	suite.contactRepo.On("FindContactByID", suite.ctx, companyID, "contact-1").
		Return(&domain.FinancialContact{ContactID: "contact-1", Name: "محمد علي", IsActive: true}, nil)
	suite.saleRepo.On("CreateSale", suite.ctx, mock.AnythingOfType("*domain.Sale")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Sale).InvoiceNumber = "SAL-000001"
		}).Return(nil).Once()

	sale, err := suite.service.CreateSale(suite.ctx, companyID, suite.request(), userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, sale.Status)
	suite.Equal("SAL-000001", sale.InvoiceNumber)
	suite.Equal("محمد علي", sale.CustomerName)
	suite.Require().Len(sale.Lines, 2)
	suite.Equal("T-60", sale.Lines[0].SKU)
	suite.True(sale.Lines[0].LineTotal.Equal(dec("750")))
	suite.True(sale.Subtotal.Equal(dec("930")))
	suite.True(sale.Total.Equal(dec("910")))
	suite.True(sale.Remaining().Equal(dec("410")))
	suite.Equal("2024-03-15", sale.InvoiceDate.Format("2006-01-02"))
	suite.Equal(userID, sale.CreatedBy)
	suite.Empty(suite.publisher.types(), "drafts publish nothing")
	suite.saleRepo.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestCreateSale_PaidMoreThanTotal() {
	suite.allow(domain.PermSalesWrite)
	suite.catalogue()
	req := suite.request()
	req.PaidAmount = dec("911")

	sale, err := suite.service.CreateSale(suite.ctx, companyID, req, userID)

	suite.Nil(sale)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.saleRepo.AssertNotCalled(suite.T(), "CreateSale", mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestCreateSale_PaymentNeedsTreasury() {
	suite.allow(domain.PermSalesWrite)
	suite.catalogue()
	req := suite.request()
	req.TreasuryID = strPtr("  ")

	_, err := suite.service.CreateSale(suite.ctx, companyID, req, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SaleServiceTestSuite) TestCreateSale_CreditNeedsContact() {
	suite.allow(domain.PermSalesWrite)
	suite.productRepo.On("FindProductsByIDs", suite.ctx, companyID, []string{"tile-1"}).Return(map[string]domain.Product{
		"tile-1": {ProductID: "tile-1", SKU: "T-60", Name: "بورسلين 60x60", IsActive: true},
	}, nil)
	req := dto.SaleRequest{
		CustomerName: "عميل نقدي",
		Lines:        []dto.SaleLineRequest{{ProductID: "tile-1", Quantity: dec("2"), UnitPrice: dec("100")}},
	}

	sale, err := suite.service.CreateSale(suite.ctx, companyID, req, userID)

	suite.Nil(sale)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal("يجب اختيار العميل عند البيع الآجل", apperrors.UserMessage(err))
	suite.saleRepo.AssertNotCalled(suite.T(), "CreateSale", mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestCreateSale_FullyPaidWithoutContact() {
	suite.allow(domain.PermSalesWrite)
	suite.productRepo.On("FindProductsByIDs", suite.ctx, companyID, []string{"tile-1"}).Return(map[string]domain.Product{
		"tile-1": {ProductID: "tile-1", SKU: "T-60", Name: "بورسلين 60x60", IsActive: true},
	}, nil)
	suite.treasuryRepo.On("FindTreasuryByID", suite.ctx, companyID, "treasury-1").
		Return(&domain.Treasury{TreasuryID: "treasury-1", IsActive: true}, nil)
	suite.saleRepo.On("CreateSale", suite.ctx, mock.AnythingOfType("*domain.Sale")).Return(nil).Once()
	req := dto.SaleRequest{
		TreasuryID: strPtr("treasury-1"),
		PaidAmount: dec("200"),
		Lines:      []dto.SaleLineRequest{{ProductID: "tile-1", Quantity: dec("2"), UnitPrice: dec("100")}},
	}

	sale, err := suite.service.CreateSale(suite.ctx, companyID, req, userID)

	suite.Require().NoError(err)
	suite.Nil(sale.ContactID)
	suite.True(sale.Remaining().IsZero())
}

func (suite *SaleServiceTestSuite) TestCreateSale_InactiveProduct() {
	suite.allow(domain.PermSalesWrite)
	suite.productRepo.On("FindProductsByIDs", suite.ctx, companyID, []string{"tile-1"}).Return(map[string]domain.Product{
		"tile-1": {ProductID: "tile-1", Name: "بورسلين قديم", IsActive: false},
	}, nil)
	req := dto.SaleRequest{Lines: []dto.SaleLineRequest{{ProductID: "tile-1", Quantity: dec("1"), UnitPrice: dec("10")}}}

	_, err := suite.service.CreateSale(suite.ctx, companyID, req, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SaleServiceTestSuite) TestCreateSale_UnknownProduct() {
	suite.allow(domain.PermSalesWrite)
	suite.productRepo.On("FindProductsByIDs", suite.ctx, companyID, []string{"ghost"}).Return(map[string]domain.Product{}, nil)
	req := dto.SaleRequest{Lines: []dto.SaleLineRequest{{ProductID: "ghost", Quantity: dec("1"), UnitPrice: dec("10")}}}

	_, err := suite.service.CreateSale(suite.ctx, companyID, req, userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SaleServiceTestSuite) TestCreateSale_Forbidden() {
	forbidden := apperrors.NewForbiddenError("ممنوع")
	suite.authz.On("AuthorizeWrite", suite.ctx, userID, companyID, domain.PermSalesWrite).Return(forbidden)

	_, err := suite.service.CreateSale(suite.ctx, companyID, suite.request(), userID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.productRepo.AssertNotCalled(suite.T(), "FindProductsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestUpdateSale_RejectsApproved() {
	suite.allow(domain.PermSalesWrite)
	suite.saleRepo.On("FindSaleByID", suite.ctx, companyID, "sale-1").
		Return(&domain.Sale{SaleID: "sale-1", CompanyID: companyID, Status: domain.StatusApproved}, nil)

	_, err := suite.service.UpdateSale(suite.ctx, companyID, "sale-1", suite.request(), userID)

	suite.ErrorIs(err, apperrors.ErrInvalidStatus)
	suite.saleRepo.AssertNotCalled(suite.T(), "UpdateDraftSale", mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestApproveSale_PublishesAndInvalidates() {
	suite.allow(domain.PermSalesApprove)
	suite.saleRepo.On("ApproveSale", suite.ctx, mock.MatchedBy(func(s *domain.Sale) bool {
		return s.SaleID == "sale-1" && s.CompanyID == companyID
	}), userID, fixedClock()).Run(func(args mock.Arguments) {
		s := args.Get(1).(*domain.Sale)
		s.InvoiceNumber = "SAL-000007"
		s.Status = domain.StatusApproved
		s.Total = dec("910")
	}).Return(nil).Once()

	sale, err := suite.service.ApproveSale(suite.ctx, companyID, "sale-1", userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, sale.Status)
	suite.Equal([]string{events.SaleApproved}, suite.publisher.types())
	suite.Equal(1, suite.invalidator.calls[companyID])
}

func (suite *SaleServiceTestSuite) TestApproveSale_InsufficientStock() {
	suite.allow(domain.PermSalesApprove)
	suite.saleRepo.On("ApproveSale", suite.ctx, mock.Anything, userID, fixedClock()).
		Return(apperrors.NewInsufficientStockError("بورسلين 60x60", "2", "3"))

	_, err := suite.service.ApproveSale(suite.ctx, companyID, "sale-1", userID)

	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.Empty(suite.publisher.types())
	suite.Zero(suite.invalidator.calls[companyID])
}

func (suite *SaleServiceTestSuite) TestCancelSale_TrimsReason() {
	suite.allow(domain.PermSalesCancel)
	suite.saleRepo.On("CancelSale", suite.ctx, mock.Anything, "مرتجع", userID, fixedClock()).Return(nil).Once()

	_, err := suite.service.CancelSale(suite.ctx, companyID, "sale-1", "  مرتجع ", userID)

	suite.Require().NoError(err)
	suite.Equal([]string{events.SaleCancelled}, suite.publisher.types())
	suite.saleRepo.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestListSales_AppliesFilterAndDefaultLimit() {
	suite.allow(domain.PermSalesRead)
	status := domain.StatusApproved
	suite.saleRepo.On("ListSales", suite.ctx, companyID, mock.MatchedBy(func(f domain.SaleFilter) bool {
		return f.Status != nil && *f.Status == status && f.From != nil && f.From.Format("2006-01-02") == "2024-03-01" && f.To == nil
	}), 20, (*string)(nil)).Return([]domain.Sale{{SaleID: "sale-1"}}, nil, nil).Once()

	sales, next, err := suite.service.ListSales(suite.ctx, companyID, dto.ListDocumentsParams{Status: &status, From: "2024-03-01"}, userID)

	suite.Require().NoError(err)
	suite.Len(sales, 1)
	suite.Nil(next)
	suite.saleRepo.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestListSales_RejectsInvertedRange() {
	suite.allow(domain.PermSalesRead)

	_, _, err := suite.service.ListSales(suite.ctx, companyID, dto.ListDocumentsParams{From: "2024-03-10", To: "2024-03-01"}, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestSaleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SaleServiceTestSuite))
}
