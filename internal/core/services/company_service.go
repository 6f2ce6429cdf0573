package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/google/uuid"
)

const (
	defaultCurrencyCode      = "EGP"
	companyNotFoundMessage   = "الشركة غير موجودة"
	companyInactiveMessage   = "الشركة غير مفعلة، لا يمكن تعديل بياناتها"
	alreadyMemberMessage     = "المستخدم عضو بالفعل في الشركة"
	roleNotAssignableMessage = "الدور المطلوب غير صالح"
)

// companyService implements the CompanySvcFacade interface and acts as the
// company authorizer for every other service.
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
	userRepo    portsrepo.UserReader
}

// NewCompanyService creates a new company service with the provided dependencies
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade, userRepo portsrepo.UserReader, options ...ServiceOption) portssvc.CompanySvcFacade {
	svc := &companyService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
	}
	svc.apply(options)
	svc.Authorizer = svc
	return svc
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// AuthorizeUserAction resolves the membership, then the role's effective permissions.
func (s *companyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, permission domain.Permission) error {
	membership, err := s.companyRepo.FindUserCompanyRole(ctx, userID, companyID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to find user company role",
			slog.String("user_id", userID),
			slog.String("company_id", companyID))
		return err
	}
	if err != nil || membership.Role == domain.RoleRemoved {
		if s.isSuperAdmin(ctx, userID) {
			return s.requireCompany(ctx, companyID)
		}
		s.LogDebug(ctx, "User not a member of company",
			slog.String("user_id", userID),
			slog.String("company_id", companyID))
		return apperrors.NewNotFoundError(companyNotFoundMessage)
	}

	if permission == "" || membership.Role == domain.RoleAdmin {
		return nil
	}

	granted, err := s.companyRepo.FindRolePermissions(ctx, companyID, membership.Role)
	if err != nil {
		s.LogError(ctx, err, "Failed to load role permissions",
			slog.String("company_id", companyID),
			slog.String("role", string(membership.Role)))
		return err
	}
	if domain.PermissionsAllow(granted, permission) || s.isSuperAdmin(ctx, userID) {
		return nil
	}

	s.LogDebug(ctx, "Role lacks permission",
		slog.String("user_id", userID),
		slog.String("company_id", companyID),
		slog.String("role", string(membership.Role)),
		slog.String("permission", string(permission)))
	return apperrors.NewForbiddenError("ليس لديك صلاحية لتنفيذ هذه العملية")
}

// AuthorizeWrite rejects writes to deactivated companies after the permission check.
func (s *companyService) AuthorizeWrite(ctx context.Context, userID, companyID string, permission domain.Permission) error {
	if err := s.AuthorizeUserAction(ctx, userID, companyID, permission); err != nil {
		return err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return err
	}
	if !company.IsActive {
		return apperrors.NewValidationFailedError(companyInactiveMessage)
	}
	return nil
}

func (s *companyService) isSuperAdmin(ctx context.Context, userID string) bool {
	if s.userRepo == nil {
		return false
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return false
	}
	return user.IsSuperAdmin
}

func (s *companyService) requireCompany(ctx context.Context, companyID string) error {
	_, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	return err
}

func (s *companyService) GetCompany(ctx context.Context, companyID, requestingUserID string) (*domain.Company, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, ""); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company", slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

func (s *companyService) ListUserCompanies(ctx context.Context, userID string, includeDisabled bool) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListCompaniesByUserID(ctx, userID, includeDisabled)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies for user", slog.String("user_id", userID))
		return nil, err
	}
	if companies == nil {
		return []domain.Company{}, nil
	}
	s.LogDebug(ctx, "Companies listed successfully",
		slog.Int("count", len(companies)),
		slog.String("user_id", userID))
	return companies, nil
}

func (s *companyService) ListCompanyMembers(ctx context.Context, companyID, requestingUserID string) ([]domain.UserCompany, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, ""); err != nil {
		return nil, err
	}
	members, err := s.companyRepo.ListUsersByCompanyID(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list company members", slog.String("company_id", companyID))
		return nil, err
	}
	return members, nil
}

// CreateCompany stores the company and the creator's ADMIN membership in one transaction.
func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("اسم الشركة مطلوب")
	}
	currency := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if currency == "" {
		currency = defaultCurrencyCode
	}

	now := s.now()
	company := domain.Company{
		CompanyID:    uuid.NewString(),
		Name:         name,
		Description:  req.Description,
		Phone:        req.Phone,
		Address:      req.Address,
		TaxNumber:    req.TaxNumber,
		CurrencyCode: currency,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(creatorUserID, now),
	}
	admin := domain.UserCompany{
		UserID:    creatorUserID,
		CompanyID: company.CompanyID,
		Role:      domain.RoleAdmin,
		JoinedAt:  now,
	}

	if err := s.companyRepo.CreateCompanyWithAdmin(ctx, company, admin); err != nil {
		s.LogError(ctx, err, "Failed to create company", slog.String("creator_id", creatorUserID))
		return nil, err
	}

	s.LogInfo(ctx, "Company created successfully",
		slog.String("company_id", company.CompanyID),
		slog.String("creator_id", creatorUserID))
	return &company, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error) {
	if err := s.AuthorizeWrite(ctx, requestingUserID, companyID, domain.PermCompanyManage); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("اسم الشركة مطلوب")
		}
		company.Name = name
	}
	if req.Description != nil {
		company.Description = *req.Description
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	if req.TaxNumber != nil {
		company.TaxNumber = *req.TaxNumber
	}
	if req.CurrencyCode != nil {
		company.CurrencyCode = strings.ToUpper(*req.CurrencyCode)
	}
	company.Touch(requestingUserID, s.now())

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		s.LogError(ctx, err, "Failed to update company", slog.String("company_id", companyID))
		return nil, err
	}
	s.LogInfo(ctx, "Company updated successfully", slog.String("company_id", companyID))
	return company, nil
}

func (s *companyService) DeactivateCompany(ctx context.Context, companyID, requestingUserID string) error {
	return s.setCompanyStatus(ctx, companyID, false, requestingUserID)
}

func (s *companyService) ActivateCompany(ctx context.Context, companyID, requestingUserID string) error {
	return s.setCompanyStatus(ctx, companyID, true, requestingUserID)
}

// setCompanyStatus skips the inactive-company write guard so a disabled company can be re-enabled.
func (s *companyService) setCompanyStatus(ctx context.Context, companyID string, isActive bool, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.PermCompanyManage); err != nil {
		return err
	}
	if err := s.companyRepo.UpdateCompanyStatus(ctx, companyID, isActive, requestingUserID); err != nil {
		s.LogError(ctx, err, "Failed to update company status",
			slog.String("company_id", companyID),
			slog.Bool("is_active", isActive))
		return err
	}
	s.LogInfo(ctx, "Company status updated",
		slog.String("company_id", companyID),
		slog.Bool("is_active", isActive),
		slog.String("user_id", requestingUserID))
	return nil
}

// AddMember adds an existing user by username, or re-admits a removed one.
func (s *companyService) AddMember(ctx context.Context, companyID string, req dto.AddMemberRequest, requestingUserID string) (*domain.UserCompany, error) {
	if err := s.AuthorizeWrite(ctx, requestingUserID, companyID, domain.PermMembersManage); err != nil {
		return nil, err
	}
	if !req.Role.IsAssignable() {
		return nil, apperrors.NewValidationFailedError(roleNotAssignableMessage)
	}

	user, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("المستخدم غير موجود")
		}
		return nil, err
	}

	existing, err := s.companyRepo.FindUserCompanyRole(ctx, user.UserID, companyID)
	switch {
	case err == nil && existing.Role != domain.RoleRemoved:
		return nil, apperrors.NewConflictError(alreadyMemberMessage)
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	membership := domain.UserCompany{
		UserID:    user.UserID,
		UserName:  user.Name,
		CompanyID: companyID,
		Role:      req.Role,
		JoinedAt:  s.now(),
	}
	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to company",
			slog.String("target_user_id", user.UserID),
			slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "User added to company successfully",
		slog.String("target_user_id", user.UserID),
		slog.String("company_id", companyID),
		slog.String("role", string(req.Role)))
	return &membership, nil
}

func (s *companyService) UpdateMemberRole(ctx context.Context, companyID, targetUserID string, role domain.CompanyRole, requestingUserID string) error {
	if err := s.AuthorizeWrite(ctx, requestingUserID, companyID, domain.PermMembersManage); err != nil {
		return err
	}
	if !role.IsAssignable() {
		return apperrors.NewValidationFailedError(roleNotAssignableMessage)
	}
	if err := s.companyRepo.UpdateUserCompanyRole(ctx, targetUserID, companyID, role); err != nil {
		s.LogError(ctx, err, "Failed to update member role",
			slog.String("target_user_id", targetUserID),
			slog.String("company_id", companyID))
		return err
	}
	s.LogInfo(ctx, "Member role updated",
		slog.String("target_user_id", targetUserID),
		slog.String("company_id", companyID),
		slog.String("role", string(role)))
	return nil
}

func (s *companyService) RemoveMember(ctx context.Context, companyID, targetUserID, requestingUserID string) error {
	if err := s.AuthorizeWrite(ctx, requestingUserID, companyID, domain.PermMembersManage); err != nil {
		return err
	}
	if err := s.companyRepo.UpdateUserCompanyRole(ctx, targetUserID, companyID, domain.RoleRemoved); err != nil {
		s.LogError(ctx, err, "Failed to remove member",
			slog.String("target_user_id", targetUserID),
			slog.String("company_id", companyID))
		return err
	}
	s.LogInfo(ctx, "Member removed",
		slog.String("target_user_id", targetUserID),
		slog.String("company_id", companyID))
	return nil
}
