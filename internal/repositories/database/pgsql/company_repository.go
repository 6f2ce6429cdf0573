package pgsql

import (
	"context"
	"errors"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCompanyRepository struct {
	BaseRepository
}

// newPgxCompanyRepository creates a new repository for company, membership and permission data.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

const companySelectQuery = `
SELECT
	c.company_id, c.name, c.description, c.phone, c.address, c.tax_number, c.currency_code, c.is_active,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
FROM companies c
`

func (r *PgxCompanyRepository) getCompanies(ctx context.Context, filterQuery string, args ...any) ([]domain.Company, error) {
	rows, err := r.Pool.Query(ctx, companySelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query companies", err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(
			&c.CompanyID, &c.Name, &c.Description, &c.Phone, &c.Address, &c.TaxNumber, &c.CurrencyCode, &c.IsActive,
			&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan company row", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating company rows", err)
	}
	return companies, nil
}

func (r *PgxCompanyRepository) CreateCompanyWithAdmin(ctx context.Context, company domain.Company, admin domain.UserCompany) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO companies (
				company_id, name, description, phone, address, tax_number, currency_code, is_active,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
		`
		_, err := tx.Exec(ctx, query,
			company.CompanyID, company.Name, company.Description, company.Phone, company.Address,
			company.TaxNumber, company.CurrencyCode, company.IsActive,
			company.CreatedAt, company.CreatedBy, company.LastUpdatedAt, company.LastUpdatedBy,
		)
		if err != nil {
			return mapWriteError(err, "failed to save company "+company.CompanyID, "الشركة موجودة مسبقاً")
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_companies (user_id, company_id, role, joined_at)
			VALUES ($1, $2, $3, $4);
		`, admin.UserID, company.CompanyID, admin.Role, admin.JoinedAt)
		if err != nil {
			return mapWriteError(err, "failed to add company admin", "المستخدم عضو بالفعل في الشركة")
		}
		return nil
	})
}

func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	companies, err := r.getCompanies(ctx, `WHERE c.company_id = $1`, companyID)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, apperrors.NewNotFoundError("الشركة غير موجودة")
	}
	return &companies[0], nil
}

// ListCompaniesByUserID lists active companies of every non-removed membership and,
// when includeDisabled is set, inactive companies the user administers.
func (r *PgxCompanyRepository) ListCompaniesByUserID(ctx context.Context, userID string, includeDisabled bool) ([]domain.Company, error) {
	query := `JOIN user_companies uc ON c.company_id = uc.company_id
		WHERE uc.user_id = $1 AND uc.role <> $2`
	args := []any{userID, domain.RoleRemoved}
	if includeDisabled {
		query += ` AND (c.is_active = true OR uc.role = $3)`
		args = append(args, domain.RoleAdmin)
	} else {
		query += ` AND c.is_active = true`
	}
	return r.getCompanies(ctx, query+` ORDER BY c.name;`, args...)
}

func (r *PgxCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	query := `
		UPDATE companies
		SET name = $1, description = $2, phone = $3, address = $4, tax_number = $5, currency_code = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE company_id = $9;
	`
	result, err := r.Pool.Exec(ctx, query,
		company.Name, company.Description, company.Phone, company.Address, company.TaxNumber, company.CurrencyCode,
		company.LastUpdatedAt, company.LastUpdatedBy, company.CompanyID,
	)
	if err != nil {
		return mapWriteError(err, "failed to update company "+company.CompanyID, "الشركة موجودة مسبقاً")
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("الشركة غير موجودة")
	}
	return nil
}

// UpdateCompanyStatus updates the is_active status of a company
func (r *PgxCompanyRepository) UpdateCompanyStatus(ctx context.Context, companyID string, isActive bool, updatedByUserID string) error {
	query := `
		UPDATE companies
		SET is_active = $1, last_updated_at = NOW(), last_updated_by = $2
		WHERE company_id = $3;
	`
	result, err := r.Pool.Exec(ctx, query, isActive, updatedByUserID, companyID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update company status "+companyID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("الشركة غير موجودة")
	}
	return nil
}

func (r *PgxCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	query := `
		INSERT INTO user_companies (user_id, company_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, company_id) DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.Pool.Exec(ctx, query, membership.UserID, membership.CompanyID, membership.Role, membership.JoinedAt)
	if err != nil {
		return mapWriteError(err, "failed to add user "+membership.UserID+" to company "+membership.CompanyID, "المستخدم عضو بالفعل في الشركة")
	}
	return nil
}

func (r *PgxCompanyRepository) FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error) {
	query := `
		SELECT uc.user_id, u.name, uc.company_id, uc.role, uc.joined_at
		FROM user_companies uc
		JOIN users u ON u.user_id = uc.user_id
		WHERE uc.user_id = $1 AND uc.company_id = $2;
	`
	var uc domain.UserCompany
	err := r.Pool.QueryRow(ctx, query, userID, companyID).Scan(&uc.UserID, &uc.UserName, &uc.CompanyID, &uc.Role, &uc.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("الشركة غير موجودة")
		}
		return nil, apperrors.NewAppError(500, "failed to find user "+userID+" role in company "+companyID, err)
	}
	return &uc, nil
}

// ListUsersByCompanyID retrieves current members, excluding REMOVED memberships.
func (r *PgxCompanyRepository) ListUsersByCompanyID(ctx context.Context, companyID string) ([]domain.UserCompany, error) {
	query := `
		SELECT uc.user_id, u.name, uc.company_id, uc.role, uc.joined_at
		FROM user_companies uc
		JOIN users u ON uc.user_id = u.user_id
		WHERE uc.company_id = $1 AND uc.role <> $2
		ORDER BY uc.joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, domain.RoleRemoved)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users for company "+companyID, err)
	}
	defer rows.Close()

	members := []domain.UserCompany{}
	for rows.Next() {
		var uc domain.UserCompany
		if err := rows.Scan(&uc.UserID, &uc.UserName, &uc.CompanyID, &uc.Role, &uc.JoinedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user company row", err)
		}
		members = append(members, uc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating user company rows", err)
	}
	return members, nil
}

// UpdateUserCompanyRole changes a membership role. The company's ADMIN rows are locked so
// two concurrent demotions cannot leave the company without an admin.
func (r *PgxCompanyRepository) UpdateUserCompanyRole(ctx context.Context, userID, companyID string, role domain.CompanyRole) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT user_id FROM user_companies
			WHERE company_id = $1 AND role = $2
			ORDER BY user_id
			FOR UPDATE;
		`, companyID, domain.RoleAdmin)
		if err != nil {
			return apperrors.NewAppError(500, "failed to lock admins of company "+companyID, err)
		}
		admins, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return apperrors.NewAppError(500, "failed to read admins of company "+companyID, err)
		}
		if role != domain.RoleAdmin && len(admins) == 1 && admins[0] == userID {
			return apperrors.NewValidationFailedError("لا يمكن إزالة آخر مدير للشركة")
		}

		result, err := tx.Exec(ctx, `
			UPDATE user_companies SET role = $3
			WHERE user_id = $1 AND company_id = $2 AND role <> $4;
		`, userID, companyID, role, domain.RoleRemoved)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update role for user "+userID+" in company "+companyID, err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("العضو غير موجود في هذه الشركة")
		}
		return nil
	})
}

func (r *PgxCompanyRepository) FindRolePermissions(ctx context.Context, companyID string, role domain.CompanyRole) ([]domain.Permission, error) {
	query := `
		WITH scoped AS (
			SELECT permission, company_id FROM role_permissions
			WHERE role = $2 AND (company_id = $1 OR company_id IS NULL)
		)
		SELECT permission FROM scoped
		WHERE company_id IS NOT DISTINCT FROM (
			SELECT CASE WHEN EXISTS (SELECT 1 FROM scoped WHERE company_id = $1) THEN $1::varchar ELSE NULL END
		)
		ORDER BY permission;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, role)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query permissions for role "+string(role), err)
	}
	defer rows.Close()

	perms := []domain.Permission{}
	for rows.Next() {
		var p domain.Permission
		if err := rows.Scan(&p); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan permission row", err)
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating permission rows", err)
	}
	return perms, nil
}
