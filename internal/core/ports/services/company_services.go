package services

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/ceramica/erp_backend/internal/dto"
)

// CompanyReaderSvc defines read operations for company data
type CompanyReaderSvc interface {
	GetCompany(ctx context.Context, companyID, requestingUserID string) (*domain.Company, error)
	// ListUserCompanies lists the companies a user belongs to. Inactive companies are
	// only included, for their admins, when includeDisabled is set.
	ListUserCompanies(ctx context.Context, userID string, includeDisabled bool) ([]domain.Company, error)
	ListCompanyMembers(ctx context.Context, companyID, requestingUserID string) ([]domain.UserCompany, error)
}

// CompanyWriterSvc defines write operations for company data
type CompanyWriterSvc interface {
	// CreateCompany persists a company and makes the creator its ADMIN.
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)
	UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error)
	DeactivateCompany(ctx context.Context, companyID, requestingUserID string) error
	ActivateCompany(ctx context.Context, companyID, requestingUserID string) error
}

// CompanyMembershipSvc defines operations for managing company membership
type CompanyMembershipSvc interface {
	AddMember(ctx context.Context, companyID string, req dto.AddMemberRequest, requestingUserID string) (*domain.UserCompany, error)
	// UpdateMemberRole refuses to demote the last ADMIN.
	UpdateMemberRole(ctx context.Context, companyID, targetUserID string, role domain.CompanyRole, requestingUserID string) error
	// RemoveMember sets the membership to REMOVED; the last ADMIN cannot be removed.
	RemoveMember(ctx context.Context, companyID, targetUserID, requestingUserID string) error
}

// CompanySvcFacade combines all company-related service interfaces
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
	CompanyMembershipSvc
	CompanyAuthorizerSvc
}
