package pgsql

import (
	"context"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxStoreRepository struct {
	BaseRepository
}

func newPgxStoreRepository(pool *pgxpool.Pool) portsrepo.StoreRepositoryFacade {
	return &PgxStoreRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StoreRepositoryFacade = (*PgxStoreRepository)(nil)

const storeSelectQuery = `
SELECT store_id, company_id, name, code, password_hash, contact_id, phone, is_active,
	created_at, created_by, last_updated_at, last_updated_by
FROM external_stores
`

const (
	storeNotFoundMessage   = "المتجر غير موجود"
	duplicateStoreCodeText = "كود المتجر مستخدم بالفعل"
)

func scanStore(row pgx.Row) (domain.ExternalStore, error) {
	var s domain.ExternalStore
	err := row.Scan(
		&s.StoreID, &s.CompanyID, &s.Name, &s.Code, &s.PasswordHash, &s.ContactID, &s.Phone, &s.IsActive,
		&s.CreatedAt, &s.CreatedBy, &s.LastUpdatedAt, &s.LastUpdatedBy,
	)
	return s, err
}

func (r *PgxStoreRepository) FindStoreByID(ctx context.Context, companyID, storeID string) (*domain.ExternalStore, error) {
	s, err := scanStore(r.Pool.QueryRow(ctx, storeSelectQuery+`WHERE company_id = $1 AND store_id = $2;`, companyID, storeID))
	if err != nil {
		return nil, notFoundOr(err, storeNotFoundMessage, "failed to find store "+storeID)
	}
	return &s, nil
}

// FindStoreByCode looks the login code up across all companies, case-insensitively.
func (r *PgxStoreRepository) FindStoreByCode(ctx context.Context, code string) (*domain.ExternalStore, error) {
	s, err := scanStore(r.Pool.QueryRow(ctx, storeSelectQuery+`WHERE LOWER(code) = LOWER($1);`, code))
	if err != nil {
		return nil, notFoundOr(err, storeNotFoundMessage, "failed to find store by code")
	}
	return &s, nil
}

func (r *PgxStoreRepository) ListStores(ctx context.Context, companyID string) ([]domain.ExternalStore, error) {
	rows, err := r.Pool.Query(ctx, storeSelectQuery+`WHERE company_id = $1 ORDER BY name;`, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list stores", err)
	}
	defer rows.Close()

	stores := []domain.ExternalStore{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan store row", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating store rows", err)
	}
	return stores, nil
}

func (r *PgxStoreRepository) CreateStore(ctx context.Context, store domain.ExternalStore) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO external_stores (
			store_id, company_id, name, code, password_hash, contact_id, phone, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`, store.StoreID, store.CompanyID, store.Name, store.Code, store.PasswordHash, store.ContactID, store.Phone, store.IsActive,
		store.CreatedAt, store.CreatedBy, store.LastUpdatedAt, store.LastUpdatedBy)
	if err != nil {
		return mapWriteError(err, "failed to save store "+store.StoreID, duplicateStoreCodeText)
	}
	return nil
}

func (r *PgxStoreRepository) UpdateStore(ctx context.Context, store domain.ExternalStore) error {
	result, err := r.Pool.Exec(ctx, `
		UPDATE external_stores
		SET name = $1, code = $2, contact_id = $3, phone = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE company_id = $8 AND store_id = $9;
	`, store.Name, store.Code, store.ContactID, store.Phone, store.IsActive, store.LastUpdatedAt, store.LastUpdatedBy,
		store.CompanyID, store.StoreID)
	if err != nil {
		return mapWriteError(err, "failed to update store "+store.StoreID, duplicateStoreCodeText)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(storeNotFoundMessage)
	}
	return nil
}

func (r *PgxStoreRepository) UpdateStorePassword(ctx context.Context, companyID, storeID, passwordHash, userID string) error {
	result, err := r.Pool.Exec(ctx, `
		UPDATE external_stores SET password_hash = $1, last_updated_at = NOW(), last_updated_by = $2
		WHERE company_id = $3 AND store_id = $4;
	`, passwordHash, userID, companyID, storeID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update store password "+storeID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(storeNotFoundMessage)
	}
	return nil
}
