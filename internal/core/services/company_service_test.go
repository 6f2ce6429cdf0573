package services_test

import (
	"context"
	"testing"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/core/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CompanyServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	companyRepo *MockCompanyRepository
	userRepo    *MockUserRepository
	service     portssvc.CompanySvcFacade
}

func (suite *CompanyServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.companyRepo = new(MockCompanyRepository)
	suite.userRepo = new(MockUserRepository)
	suite.service = services.NewCompanyService(suite.companyRepo, suite.userRepo, services.WithClock(fixedClock))
}

func (suite *CompanyServiceTestSuite) member(role domain.CompanyRole) {
	suite.companyRepo.On("FindUserCompanyRole", suite.ctx, userID, companyID).
		Return(&domain.UserCompany{UserID: userID, CompanyID: companyID, Role: role}, nil)
}

func (suite *CompanyServiceTestSuite) plainUser() {
	suite.userRepo.On("FindUserByID", suite.ctx, userID).Return(&domain.User{UserID: userID, Username: "cashier"}, nil)
}

func (suite *CompanyServiceTestSuite) activeCompany(active bool) {
	suite.companyRepo.On("FindCompanyByID", suite.ctx, companyID).
		Return(&domain.Company{CompanyID: companyID, Name: "سيراميكا الأمل", IsActive: active}, nil)
}

func (suite *CompanyServiceTestSuite) TestAuthorize_AdminBypassesPermissionTable() {
	suite.member(domain.RoleAdmin)

	err := suite.service.AuthorizeUserAction(suite.ctx, userID, companyID, domain.PermSalesApprove)

	suite.NoError(err)
	suite.companyRepo.AssertNotCalled(suite.T(), "FindRolePermissions", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestAuthorize_RolePermissionGranted() {
	suite.member(domain.RoleCashier)
	suite.companyRepo.On("FindRolePermissions", suite.ctx, companyID, domain.RoleCashier).
		Return([]domain.Permission{domain.PermSalesRead, domain.PermSalesWrite}, nil)

	suite.NoError(suite.service.AuthorizeUserAction(suite.ctx, userID, companyID, domain.PermSalesWrite))
}

func (suite *CompanyServiceTestSuite) TestAuthorize_WildcardGrant() {
	suite.member(domain.RoleManager)
	suite.companyRepo.On("FindRolePermissions", suite.ctx, companyID, domain.RoleManager).
		Return([]domain.Permission{domain.PermAll}, nil)

	suite.NoError(suite.service.AuthorizeUserAction(suite.ctx, userID, companyID, domain.PermStoresManage))
}

func (suite *CompanyServiceTestSuite) TestAuthorize_RoleLacksPermission() {
	suite.member(domain.RoleCashier)
	suite.plainUser()
	suite.companyRepo.On("FindRolePermissions", suite.ctx, companyID, domain.RoleCashier).
		Return([]domain.Permission{domain.PermSalesRead}, nil)

	err := suite.service.AuthorizeUserAction(suite.ctx, userID, companyID, domain.PermSalesApprove)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *CompanyServiceTestSuite) TestAuthorize_NonMemberSeesNotFound() {
	suite.companyRepo.On("FindUserCompanyRole", suite.ctx, userID, companyID).
		Return(nil, apperrors.NewNotFoundError("لا توجد عضوية"))
	suite.plainUser()

	err := suite.service.AuthorizeUserAction(suite.ctx, userID, companyID, domain.PermSalesRead)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CompanyServiceTestSuite) TestAuthorize_RemovedMemberSeesNotFound() {
	suite.member(domain.RoleRemoved)
	suite.plainUser()

	err := suite.service.AuthorizeUserAction(suite.ctx, userID, companyID, "")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CompanyServiceTestSuite) TestAuthorize_SuperAdminWithoutMembership() {
	suite.companyRepo.On("FindUserCompanyRole", suite.ctx, userID, companyID).
		Return(nil, apperrors.NewNotFoundError("لا توجد عضوية"))
	suite.userRepo.On("FindUserByID", suite.ctx, userID).Return(&domain.User{UserID: userID, IsSuperAdmin: true}, nil)
	suite.activeCompany(true)

	suite.NoError(suite.service.AuthorizeUserAction(suite.ctx, userID, companyID, domain.PermCompanyManage))
}

func (suite *CompanyServiceTestSuite) TestAuthorizeWrite_InactiveCompany() {
	suite.member(domain.RoleAdmin)
	suite.activeCompany(false)

	err := suite.service.AuthorizeWrite(suite.ctx, userID, companyID, domain.PermSalesWrite)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_DefaultsCurrencyAndAdmin() {
	suite.companyRepo.On("CreateCompanyWithAdmin", suite.ctx,
		mock.MatchedBy(func(c domain.Company) bool { return c.CurrencyCode == "EGP" && c.IsActive && c.Name == "سيراميكا النور" }),
		mock.MatchedBy(func(m domain.UserCompany) bool { return m.UserID == userID && m.Role == domain.RoleAdmin }),
	).Return(nil).Once()

	company, err := suite.service.CreateCompany(suite.ctx, dto.CreateCompanyRequest{Name: "  سيراميكا النور "}, userID)

	suite.Require().NoError(err)
	suite.Equal(userID, company.CreatedBy)
	suite.companyRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_BlankName() {
	_, err := suite.service.CreateCompany(suite.ctx, dto.CreateCompanyRequest{Name: "   "}, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CompanyServiceTestSuite) TestAddMember_AlreadyMember() {
	suite.member(domain.RoleAdmin)
	suite.activeCompany(true)
	suite.userRepo.On("FindUserByUsername", suite.ctx, "ahmed").Return(&domain.User{UserID: "user-2", Name: "أحمد"}, nil)
	suite.companyRepo.On("FindUserCompanyRole", suite.ctx, "user-2", companyID).
		Return(&domain.UserCompany{UserID: "user-2", Role: domain.RoleCashier}, nil)

	_, err := suite.service.AddMember(suite.ctx, companyID, dto.AddMemberRequest{Username: "ahmed", Role: domain.RoleCashier}, userID)

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *CompanyServiceTestSuite) TestAddMember_ReadmitsRemovedUser() {
	suite.member(domain.RoleAdmin)
	suite.activeCompany(true)
	suite.userRepo.On("FindUserByUsername", suite.ctx, "ahmed").Return(&domain.User{UserID: "user-2", Name: "أحمد"}, nil)
	suite.companyRepo.On("FindUserCompanyRole", suite.ctx, "user-2", companyID).
		Return(&domain.UserCompany{UserID: "user-2", Role: domain.RoleRemoved}, nil)
	suite.companyRepo.On("AddUserToCompany", suite.ctx, mock.MatchedBy(func(m domain.UserCompany) bool {
		return m.UserID == "user-2" && m.Role == domain.RoleManager
	})).Return(nil).Once()

	membership, err := suite.service.AddMember(suite.ctx, companyID, dto.AddMemberRequest{Username: " ahmed ", Role: domain.RoleManager}, userID)

	suite.Require().NoError(err)
	suite.Equal("أحمد", membership.UserName)
	suite.companyRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestUpdateMemberRole_RejectsRemoved() {
	suite.member(domain.RoleAdmin)
	suite.activeCompany(true)

	err := suite.service.UpdateMemberRole(suite.ctx, companyID, "user-2", domain.RoleRemoved, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CompanyServiceTestSuite) TestActivate_SkipsInactiveGuard() {
	suite.member(domain.RoleAdmin)
	suite.companyRepo.On("UpdateCompanyStatus", suite.ctx, companyID, true, userID).Return(nil).Once()

	suite.NoError(suite.service.ActivateCompany(suite.ctx, companyID, userID))
	suite.companyRepo.AssertNotCalled(suite.T(), "FindCompanyByID", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestListUserCompanies_NeverNil() {
	suite.companyRepo.On("ListCompaniesByUserID", suite.ctx, userID, false).Return(nil, nil)

	companies, err := suite.service.ListUserCompanies(suite.ctx, userID, false)

	suite.Require().NoError(err)
	suite.NotNil(companies)
	suite.Empty(companies)
}

func TestCompanyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
