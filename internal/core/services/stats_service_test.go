package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/ceramica/erp_backend/internal/core/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type StatsServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	authz     *MockAuthorizer
	statsRepo *MockStatsRepository
	cache     *memoryCache
	service   *services.StatsService
}

func (suite *StatsServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.authz = new(MockAuthorizer)
	suite.statsRepo = new(MockStatsRepository)
	suite.cache = newMemoryCache()
	suite.service = services.NewStatsService(suite.statsRepo, suite.cache, time.Minute,
		services.WithAuthorizer(suite.authz),
		services.WithClock(fixedClock),
	)
	suite.authz.On("AuthorizeUserAction", mock.Anything, userID, companyID, domain.PermStatsRead).Return(nil)
}

func marchRange() domain.DateRange {
	return domain.DateRange{
		From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *StatsServiceTestSuite) TestDefaultsToCurrentMonthAndTopFive() {
	suite.statsRepo.On("GetDashboardStats", suite.ctx, companyID, marchRange(), 5).
		Return(&domain.DashboardStats{CompanyID: companyID, SalesTotal: dec("1200"), SalesCount: 3}, nil).Once()

	stats, err := suite.service.GetDashboardStats(suite.ctx, companyID, dto.StatsParams{}, userID)

	suite.Require().NoError(err)
	suite.True(stats.SalesTotal.Equal(dec("1200")))
	suite.statsRepo.AssertExpectations(suite.T())
}

func (suite *StatsServiceTestSuite) TestSecondCallServedFromCache() {
	suite.statsRepo.On("GetDashboardStats", suite.ctx, companyID, marchRange(), 5).
		Return(&domain.DashboardStats{CompanyID: companyID, SalesTotal: dec("1200"), SalesCount: 3}, nil).Once()

	_, err := suite.service.GetDashboardStats(suite.ctx, companyID, dto.StatsParams{}, userID)
	suite.Require().NoError(err)
	cached, err := suite.service.GetDashboardStats(suite.ctx, companyID, dto.StatsParams{}, userID)

	suite.Require().NoError(err)
	suite.True(cached.SalesTotal.Equal(dec("1200")))
	suite.Equal(int64(3), cached.SalesCount)
	suite.Equal(marchRange(), cached.Range)
	suite.statsRepo.AssertNumberOfCalls(suite.T(), "GetDashboardStats", 1)
}

func (suite *StatsServiceTestSuite) TestInvalidationBypassesCache() {
	suite.statsRepo.On("GetDashboardStats", suite.ctx, companyID, marchRange(), 5).
		Return(&domain.DashboardStats{CompanyID: companyID, SalesTotal: dec("1200")}, nil).Once()
	suite.statsRepo.On("GetDashboardStats", suite.ctx, companyID, marchRange(), 5).
		Return(&domain.DashboardStats{CompanyID: companyID, SalesTotal: dec("1500")}, nil).Once()

	_, err := suite.service.GetDashboardStats(suite.ctx, companyID, dto.StatsParams{}, userID)
	suite.Require().NoError(err)
	suite.service.InvalidateCompanyStats(suite.ctx, companyID)
	fresh, err := suite.service.GetDashboardStats(suite.ctx, companyID, dto.StatsParams{}, userID)

	suite.Require().NoError(err)
	suite.True(fresh.SalesTotal.Equal(dec("1500")))
	suite.statsRepo.AssertNumberOfCalls(suite.T(), "GetDashboardStats", 2)
}

func (suite *StatsServiceTestSuite) TestExplicitRange() {
	want := domain.DateRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	suite.statsRepo.On("GetDashboardStats", suite.ctx, companyID, want, 10).
		Return(&domain.DashboardStats{CompanyID: companyID}, nil).Once()

	_, err := suite.service.GetDashboardStats(suite.ctx, companyID, dto.StatsParams{From: "2024-01-01", To: "2024-01-15", Top: 10}, userID)

	suite.Require().NoError(err)
	suite.statsRepo.AssertExpectations(suite.T())
}

func (suite *StatsServiceTestSuite) TestInvertedRange() {
	_, err := suite.service.GetDashboardStats(suite.ctx, companyID, dto.StatsParams{From: "2024-02-01", To: "2024-01-01"}, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.statsRepo.AssertNotCalled(suite.T(), "GetDashboardStats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StatsServiceTestSuite) TestNoAuthorizerDenies() {
	svc := services.NewStatsService(suite.statsRepo, nil, 0)

	_, err := svc.GetDashboardStats(suite.ctx, companyID, dto.StatsParams{}, userID)

	suite.Error(err)
	suite.Equal(500, apperrors.HTTPStatus(err))
}

func TestStatsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceTestSuite))
}
