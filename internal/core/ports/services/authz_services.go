package services

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
)

// CompanyAuthorizerSvc defines operations for company-scoped authorization
type CompanyAuthorizerSvc interface {
	// AuthorizeUserAction checks that the user is an active member of the company whose
	// role grants the permission. Non-members get apperrors.ErrNotFound so the company's
	// existence is not revealed; members lacking the permission get apperrors.ErrForbidden.
	// An empty permission only requires membership.
	AuthorizeUserAction(ctx context.Context, userID, companyID string, permission domain.Permission) error

	// AuthorizeWrite additionally rejects writes to deactivated companies.
	AuthorizeWrite(ctx context.Context, userID, companyID string, permission domain.Permission) error
}
