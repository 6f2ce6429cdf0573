package pgsql

import (
	"context"
	"fmt"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/ceramica/erp_backend/internal/utils/accounting"
	"github.com/ceramica/erp_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSupplierRepository struct {
	BaseRepository
	treasuryRepo portsrepo.TreasuryLedgerTx
}

func newPgxSupplierRepository(pool *pgxpool.Pool, treasuryRepo portsrepo.TreasuryLedgerTx) *PgxSupplierRepository {
	return &PgxSupplierRepository{
		BaseRepository: BaseRepository{Pool: pool},
		treasuryRepo:   treasuryRepo,
	}
}

var _ portsrepo.SupplierRepositoryFacade = (*PgxSupplierRepository)(nil)

const supplierSelectQuery = `
SELECT supplier_id, company_id, name, phone, address, notes, balance, is_active,
	created_at, created_by, last_updated_at, last_updated_by
FROM suppliers
`

func scanSupplier(row pgx.Row) (domain.Supplier, error) {
	var s domain.Supplier
	err := row.Scan(
		&s.SupplierID, &s.CompanyID, &s.Name, &s.Phone, &s.Address, &s.Notes, &s.Balance, &s.IsActive,
		&s.CreatedAt, &s.CreatedBy, &s.LastUpdatedAt, &s.LastUpdatedBy,
	)
	return s, err
}

func (r *PgxSupplierRepository) FindSupplierByID(ctx context.Context, companyID, supplierID string) (*domain.Supplier, error) {
	s, err := scanSupplier(r.Pool.QueryRow(ctx, supplierSelectQuery+`WHERE company_id = $1 AND supplier_id = $2;`, companyID, supplierID))
	if err != nil {
		return nil, notFoundOr(err, "المورد غير موجود", "failed to find supplier "+supplierID)
	}
	return &s, nil
}

func (r *PgxSupplierRepository) ListSuppliers(ctx context.Context, companyID, search string, includeInactive bool, limit, offset int) ([]domain.Supplier, error) {
	query := supplierSelectQuery + `WHERE company_id = $1`
	args := []any{companyID}
	if !includeInactive {
		query += ` AND is_active = true`
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR phone ILIKE $%d)`, len(args), len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY name, supplier_id LIMIT $%d OFFSET $%d;`, len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list suppliers", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan supplier row", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating supplier rows", err)
	}
	return suppliers, nil
}

func (r *PgxSupplierRepository) ListSupplierEntries(ctx context.Context, companyID, supplierID string, limit int, nextToken *string) ([]domain.SupplierAccountEntry, *string, error) {
	query := `
		SELECT entry_id, supplier_id, company_id, entry_type, amount, balance_after, description,
			ref_type, ref_id, created_at, created_by
		FROM supplier_account_entries
		WHERE company_id = $1 AND supplier_id = $2`
	args := []any{companyID, supplierID}
	if nextToken != nil {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationFailedError("رمز الصفحة غير صالح")
		}
		query += ` AND (created_at, entry_id) < ($3, $4)`
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY created_at DESC, entry_id DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query supplier entries", err)
	}
	defer rows.Close()

	entries := []domain.SupplierAccountEntry{}
	for rows.Next() {
		var e domain.SupplierAccountEntry
		if err := rows.Scan(
			&e.EntryID, &e.SupplierID, &e.CompanyID, &e.EntryType, &e.Amount, &e.BalanceAfter, &e.Description,
			&e.RefType, &e.RefID, &e.CreatedAt, &e.CreatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan supplier entry row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating supplier entry rows", err)
	}

	page, token := pagination.TrimPage(entries, limit, func(e domain.SupplierAccountEntry) pagination.Cursor {
		return pagination.Cursor{SortTime: e.CreatedAt, CreatedAt: e.CreatedAt, ID: e.EntryID}
	})
	return page, token, nil
}

func (r *PgxSupplierRepository) CreateSupplier(ctx context.Context, supplier domain.Supplier, opening *domain.SupplierAccountEntry) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO suppliers (
				supplier_id, company_id, name, phone, address, notes, balance, is_active,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, $10, $11);
		`
		_, err := tx.Exec(ctx, query,
			supplier.SupplierID, supplier.CompanyID, supplier.Name, supplier.Phone, supplier.Address, supplier.Notes,
			supplier.IsActive, supplier.CreatedAt, supplier.CreatedBy, supplier.LastUpdatedAt, supplier.LastUpdatedBy,
		)
		if err != nil {
			return mapWriteError(err, "failed to save supplier "+supplier.SupplierID, "المورد موجود مسبقاً")
		}
		if opening == nil {
			return nil
		}
		return r.PostSupplierEntryInTx(ctx, tx, opening)
	})
}

func (r *PgxSupplierRepository) UpdateSupplier(ctx context.Context, supplier domain.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $1, phone = $2, address = $3, notes = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE company_id = $8 AND supplier_id = $9;
	`
	result, err := r.Pool.Exec(ctx, query,
		supplier.Name, supplier.Phone, supplier.Address, supplier.Notes, supplier.IsActive,
		supplier.LastUpdatedAt, supplier.LastUpdatedBy, supplier.CompanyID, supplier.SupplierID,
	)
	if err != nil {
		return mapWriteError(err, "failed to update supplier "+supplier.SupplierID, "المورد موجود مسبقاً")
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("المورد غير موجود")
	}
	return nil
}

// RecordPayment posts the DEBIT entry and withdraws from the treasury in one transaction.
func (r *PgxSupplierRepository) RecordPayment(ctx context.Context, entry *domain.SupplierAccountEntry, withdrawal *domain.TreasuryMovement) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := r.PostSupplierEntryInTx(ctx, tx, entry); err != nil {
			return err
		}
		return r.treasuryRepo.ApplyTreasuryMovementInTx(ctx, tx, withdrawal)
	})
}

func (r *PgxSupplierRepository) PostSupplierEntryInTx(ctx context.Context, tx pgx.Tx, entry *domain.SupplierAccountEntry) error {
	entry.Amount = accounting.RoundMoney(entry.Amount)
	if !entry.Amount.IsPositive() {
		return apperrors.NewValidationFailedError("المبلغ يجب أن يكون أكبر من صفر")
	}
	s, err := scanSupplier(tx.QueryRow(ctx, supplierSelectQuery+`WHERE company_id = $1 AND supplier_id = $2 FOR UPDATE;`, entry.CompanyID, entry.SupplierID))
	if err != nil {
		return notFoundOr(err, "المورد غير موجود", "failed to lock supplier "+entry.SupplierID)
	}
	entry.BalanceAfter = s.Balance.Add(entry.EntryType.Signed(entry.Amount))

	batch := &pgx.Batch{}
	batch.Queue(`
		UPDATE suppliers SET balance = $1, last_updated_at = $2, last_updated_by = $3
		WHERE supplier_id = $4;
	`, entry.BalanceAfter, entry.CreatedAt, entry.CreatedBy, entry.SupplierID)
	batch.Queue(`
		INSERT INTO supplier_account_entries (
			entry_id, supplier_id, company_id, entry_type, amount, balance_after, description,
			ref_type, ref_id, created_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`, entry.EntryID, entry.SupplierID, entry.CompanyID, entry.EntryType, entry.Amount, entry.BalanceAfter,
		entry.Description, entry.RefType, entry.RefID, entry.CreatedAt, entry.CreatedBy)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteError(err, "failed to post supplier entry", "القيد مسجل مسبقاً")
	}
	return nil
}
