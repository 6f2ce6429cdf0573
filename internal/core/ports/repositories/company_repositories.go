package repositories

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a specific company by its ID.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompaniesByUserID retrieves the companies a user is an active member of.
	// Inactive companies are only listed for their admins when includeDisabled is set.
	ListCompaniesByUserID(ctx context.Context, userID string, includeDisabled bool) ([]domain.Company, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// CreateCompanyWithAdmin persists a company and its first admin membership atomically.
	CreateCompanyWithAdmin(ctx context.Context, company domain.Company, admin domain.UserCompany) error
	UpdateCompany(ctx context.Context, company domain.Company) error
	UpdateCompanyStatus(ctx context.Context, companyID string, isActive bool, updatedByUserID string) error
}

// CompanyMembershipManager defines operations for managing company memberships
type CompanyMembershipManager interface {
	// AddUserToCompany adds a user or updates the role of an existing membership.
	AddUserToCompany(ctx context.Context, membership domain.UserCompany) error
	FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error)
	ListUsersByCompanyID(ctx context.Context, companyID string) ([]domain.UserCompany, error)
	// UpdateUserCompanyRole fails with ErrValidation when it would demote or remove the last ADMIN.
	UpdateUserCompanyRole(ctx context.Context, userID, companyID string, role domain.CompanyRole) error
}

// PermissionReader resolves the permissions granted to a role.
type PermissionReader interface {
	// FindRolePermissions returns the company override for the role, or the global
	// defaults when the company has none.
	FindRolePermissions(ctx context.Context, companyID string, role domain.CompanyRole) ([]domain.Permission, error)
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
	CompanyMembershipManager
	PermissionReader
}
