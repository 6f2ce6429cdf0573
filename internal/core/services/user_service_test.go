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

type UserServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	userRepo *MockUserRepository
	users    portssvc.UserSvcFacade
	tokens   portssvc.TokenSvcFacade
	cfg      *config.Config
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.userRepo = new(MockUserRepository)
	suite.cfg = &config.Config{
		JWTSecret:                  "user-service-test-secret-32-bytes",
		JWTIssuer:                  "erp-test",
		JWTExpiryDuration:          15 * time.Minute,
		RefreshTokenExpiryDuration: 7 * 24 * time.Hour,
	}
	suite.users = services.NewUserService(suite.userRepo, services.WithClock(fixedClock))
	suite.tokens = services.NewTokenService(suite.cfg, suite.users, services.WithClock(fixedClock))
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	suite.userRepo.On("FindUserByUsername", suite.ctx, "cashier1").Return(nil, apperrors.NewNotFoundError("غير موجود"))
	suite.userRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "cashier1" && utils.CheckPasswordHash("secret-pass", u.PasswordHash) && u.CreatedBy == u.UserID
	})).Return(nil).Once()

	user, err := suite.users.CreateUser(suite.ctx, dto.RegisterUserRequest{Username: " cashier1 ", Name: "كاشير", Password: "secret-pass"})

	suite.Require().NoError(err)
	suite.False(user.IsSuperAdmin)
	suite.userRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_TakenUsername() {
	suite.userRepo.On("FindUserByUsername", suite.ctx, "cashier1").Return(&domain.User{UserID: "user-9"}, nil)

	_, err := suite.users.CreateUser(suite.ctx, dto.RegisterUserRequest{Username: "cashier1", Password: "secret-pass"})

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *UserServiceTestSuite) TestAuthenticate_SameErrorForUnknownAndWrongPassword() {
	hash, err := utils.HashPassword("secret-pass")
	suite.Require().NoError(err)
	suite.userRepo.On("FindUserByUsername", suite.ctx, "ghost").Return(nil, apperrors.NewNotFoundError("غير موجود"))
	suite.userRepo.On("FindUserByUsername", suite.ctx, "cashier1").Return(&domain.User{UserID: userID, PasswordHash: hash}, nil)

	_, unknownErr := suite.users.AuthenticateUser(suite.ctx, "ghost", "secret-pass")
	_, wrongErr := suite.users.AuthenticateUser(suite.ctx, "cashier1", "wrong-pass")
	user, okErr := suite.users.AuthenticateUser(suite.ctx, "cashier1", "secret-pass")

	suite.ErrorIs(unknownErr, apperrors.ErrUnauthorized)
	suite.ErrorIs(wrongErr, apperrors.ErrUnauthorized)
	suite.Equal(unknownErr.Error(), wrongErr.Error())
	suite.Require().NoError(okErr)
	suite.Equal(userID, user.UserID)
}

func (suite *UserServiceTestSuite) TestUpdateUser_OtherUserForbidden() {
	suite.userRepo.On("FindUserByID", suite.ctx, "user-2").Return(&domain.User{UserID: "user-2"}, nil)

	_, err := suite.users.UpdateUser(suite.ctx, userID, dto.UpdateUserRequest{Name: strPtr("اسم")}, "user-2")

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestIssueSession_StoresHashedRefreshToken() {
	user := &domain.User{UserID: userID, Username: "cashier1"}
	var storedHash string
	suite.userRepo.On("UpdateRefreshToken", suite.ctx, userID, mock.AnythingOfType("string"), fixedClock().Add(7*24*time.Hour)).
		Run(func(args mock.Arguments) { storedHash = args.String(2) }).Return(nil).Once()

	session, err := suite.tokens.IssueSession(suite.ctx, user)

	suite.Require().NoError(err)
	suite.Len(session.RefreshToken, 64)
	suite.NotEqual(session.RefreshToken, storedHash)
	suite.True(utils.CompareTokenHash(session.RefreshToken, storedHash))
	claims, err := utils.ParseAndValidateJWT(session.AccessToken, suite.cfg.JWTSecret, utils.AudienceStaff)
	suite.Require().NoError(err)
	suite.Equal(userID, claims.Subject)
}

func (suite *UserServiceTestSuite) TestValidateRefreshToken() {
	expiry := fixedClock().Add(time.Hour)
	expired := fixedClock().Add(-time.Minute)
	suite.userRepo.On("FindUserByID", suite.ctx, userID).
		Return(&domain.User{UserID: userID, RefreshTokenHash: utils.HashToken("good-token"), RefreshTokenExpiryTime: &expiry}, nil).Twice()
	suite.userRepo.On("FindUserByID", suite.ctx, userID).
		Return(&domain.User{UserID: userID, RefreshTokenHash: utils.HashToken("good-token"), RefreshTokenExpiryTime: &expired}, nil).Once()

	user, err := suite.tokens.ValidateAndParseRefreshToken(suite.ctx, userID, "good-token")
	suite.Require().NoError(err)
	suite.Equal(userID, user.UserID)

	_, err = suite.tokens.ValidateAndParseRefreshToken(suite.ctx, userID, "stolen-token")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.tokens.ValidateAndParseRefreshToken(suite.ctx, userID, "good-token")
	suite.ErrorIs(err, apperrors.ErrRefreshTokenExpired)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
